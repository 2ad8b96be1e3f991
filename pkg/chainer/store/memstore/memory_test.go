package memstore

import (
	"context"
	"testing"

	"github.com/cognicore/chainer/pkg/chainer/store"
)

func TestPutAndList(t *testing.T) {
	ctx := context.Background()
	s := New()

	entries := []store.Assertion{
		{ID: "02", Kind: store.KindRule, Text: "rule: ((F ?x)) -> (G ?x)"},
		{ID: "01", Kind: store.KindFact, Text: "fact: (F a)"},
	}
	for _, a := range entries {
		if err := s.PutAssertion(ctx, a); err != nil {
			t.Fatalf("PutAssertion: %v", err)
		}
	}

	list, err := s.ListAssertions(ctx)
	if err != nil {
		t.Fatalf("ListAssertions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(list))
	}
	if list[0].ID != "01" || list[1].ID != "02" {
		t.Errorf("Expected entries ordered by ID, got %v", list)
	}
}

func TestPutKeepsFirstEntry(t *testing.T) {
	ctx := context.Background()
	s := New()

	s.PutAssertion(ctx, store.Assertion{ID: "01", Kind: store.KindFact, Text: "fact: (F a)"})
	s.PutAssertion(ctx, store.Assertion{ID: "09", Kind: store.KindFact, Text: "fact: (F a)"})

	a, ok, err := s.GetAssertion(ctx, "fact: (F a)")
	if err != nil || !ok {
		t.Fatalf("GetAssertion: %v, found=%v", err, ok)
	}
	if a.ID != "01" {
		t.Errorf("Expected original ID 01, got %s", a.ID)
	}
}

func TestDeleteAssertion(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutAssertion(ctx, store.Assertion{ID: "01", Kind: store.KindFact, Text: "fact: (F a)"})

	deleted, err := s.DeleteAssertion(ctx, "fact: (F a)")
	if err != nil || !deleted {
		t.Fatalf("DeleteAssertion: %v, deleted=%v", err, deleted)
	}
	deleted, _ = s.DeleteAssertion(ctx, "fact: (F a)")
	if deleted {
		t.Error("Second delete should report false")
	}
	if _, ok, _ := s.GetAssertion(ctx, "fact: (F a)"); ok {
		t.Error("Entry should be gone")
	}
}
