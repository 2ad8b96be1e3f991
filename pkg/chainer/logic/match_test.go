package logic

import (
	"testing"
)

func TestMatchBindsVariables(t *testing.T) {
	pattern := NewStatement("on", "?x", "?y")
	target := NewStatement("on", "cube", "table")

	sub, ok := Match(pattern, target)
	if !ok {
		t.Fatal("Expected pattern to match target")
	}

	if got := sub["?x"]; got != Const("cube") {
		t.Errorf("?x bound to %v, want cube", got)
	}
	if got := sub["?y"]; got != Const("table") {
		t.Errorf("?y bound to %v, want table", got)
	}

	if applied := sub.Apply(pattern); !applied.Equal(target) {
		t.Errorf("Apply(pattern) = %s, want %s", applied, target)
	}
}

func TestMatchFailures(t *testing.T) {
	tests := []struct {
		name    string
		pattern Statement
		target  Statement
	}{
		{"predicate mismatch", NewStatement("on", "?x"), NewStatement("under", "a")},
		{"arity mismatch", NewStatement("on", "?x"), NewStatement("on", "a", "b")},
		{"constant mismatch", NewStatement("on", "a", "?y"), NewStatement("on", "b", "c")},
		{"inconsistent variable", NewStatement("same", "?x", "?x"), NewStatement("same", "a", "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, ok := Match(tt.pattern, tt.target)
			if ok {
				t.Fatalf("Expected no match, got %v", sub)
			}
			if sub != nil {
				t.Errorf("Expected nil substitution on failure, got %v", sub)
			}
		})
	}
}

func TestMatchRepeatedVariable(t *testing.T) {
	sub, ok := Match(NewStatement("same", "?x", "?x"), NewStatement("same", "a", "a"))
	if !ok {
		t.Fatal("Expected repeated variable to match equal constants")
	}
	if len(sub) != 1 || sub["?x"] != Const("a") {
		t.Errorf("Unexpected substitution: %v", sub)
	}
}

func TestMatchGroundStatements(t *testing.T) {
	sub, ok := Match(NewStatement("isa", "cube", "block"), NewStatement("isa", "cube", "block"))
	if !ok {
		t.Fatal("Expected identical ground statements to match")
	}
	if len(sub) != 0 {
		t.Errorf("Expected empty substitution, got %v", sub)
	}
}

func TestMatchVariableInTarget(t *testing.T) {
	// A constant in the pattern binds a variable on the target side.
	sub, ok := Match(NewStatement("color", "cube", "?c"), NewStatement("color", "?b", "red"))
	if !ok {
		t.Fatal("Expected symmetric match")
	}
	if sub["?b"] != Const("cube") || sub["?c"] != Const("red") {
		t.Errorf("Unexpected substitution: %v", sub)
	}
}

func TestMatchVariableChains(t *testing.T) {
	// ?x is bound to ?y, then ?y is bound to a; applying must resolve the chain.
	pattern := NewStatement("link", "?x", "?x", "?y")
	target := NewStatement("link", "?y", "a", "a")

	sub, ok := Match(pattern, target)
	if !ok {
		t.Fatal("Expected match through variable chain")
	}
	want := NewStatement("link", "a", "a", "a")
	if got := sub.Apply(pattern); !got.Equal(want) {
		t.Errorf("Apply(pattern) = %s, want %s", got, want)
	}
	if got := sub.Apply(target); !got.Equal(want) {
		t.Errorf("Apply(target) = %s, want %s", got, want)
	}
}

func TestSubstitutionApplyLeavesUnbound(t *testing.T) {
	sub := Substitution{"?x": Const("a")}
	got := sub.Apply(NewStatement("on", "?x", "?y"))
	want := NewStatement("on", "a", "?y")
	if !got.Equal(want) {
		t.Errorf("Apply = %s, want %s", got, want)
	}
	if got.IsGround() {
		t.Error("Statement with ?y should not be ground")
	}
}

func TestSubstitutionString(t *testing.T) {
	sub := Substitution{"?y": Const("b"), "?x": Const("a")}
	if got := sub.String(); got != "?x : a, ?y : b" {
		t.Errorf("String() = %q", got)
	}
}

func TestTermKinds(t *testing.T) {
	if !Var("x").IsVar() || Var("x").Name != "?x" {
		t.Errorf("Var(x) = %v", Var("x"))
	}
	if Var("?x").Name != "?x" {
		t.Errorf("Var(?x) should not double the sigil: %v", Var("?x"))
	}
	if Const("cube").IsVar() {
		t.Error("constant reported as variable")
	}
	if (Term{Name: "?"}).IsVar() {
		t.Error("bare sigil should not be a variable")
	}
}

func TestStatementString(t *testing.T) {
	s := NewStatement("isa", "cube", "?x")
	if got := s.String(); got != "(isa cube ?x)" {
		t.Errorf("String() = %q", got)
	}
}

func TestStatementKeyIsStructural(t *testing.T) {
	tests := []struct {
		a, b Statement
	}{
		{Statement{Predicate: "p", Args: []Term{Const("a b")}}, NewStatement("p", "a", "b")},
		{Statement{Predicate: "p a", Args: []Term{Const("b")}}, NewStatement("p", "a", "b")},
		{NewStatement("p", "a)"), Statement{Predicate: "p", Args: []Term{Const("a"), Const(")")}}},
	}

	for _, tt := range tests {
		if tt.a.Equal(tt.b) {
			t.Fatalf("%v and %v should differ structurally", tt.a, tt.b)
		}
		if tt.a.Key() == tt.b.Key() {
			t.Errorf("Key collision for %#v and %#v: %s", tt.a, tt.b, tt.a.Key())
		}
	}

	if NewStatement("p", "a", "b").Key() != NewStatement("p", "a", "b").Key() {
		t.Error("Equal statements should share a key")
	}
}
