package store

import (
	"context"
	"time"
)

// Store persists the journal of user assertions. Derived facts and rules are
// never stored: replaying the journal into a fresh knowledge base rebuilds them.
type Store interface {
	Close() error

	// PutAssertion records an assertion. Re-asserting the same text keeps the
	// original entry so replay order is stable.
	PutAssertion(ctx context.Context, a Assertion) error
	// DeleteAssertion removes the entry with the given text, reporting whether it existed.
	DeleteAssertion(ctx context.Context, text string) (bool, error)
	GetAssertion(ctx context.Context, text string) (Assertion, bool, error)
	// ListAssertions returns all entries ordered by ID.
	ListAssertions(ctx context.Context) ([]Assertion, error)
}

// Kinds of journal entries
const (
	KindFact = "fact"
	KindRule = "rule"
)

// Assertion is one journal entry
type Assertion struct {
	ID        string // ULID, sorts by creation time
	Kind      string // KindFact or KindRule
	Text      string // canonical "fact: ..." / "rule: ..." line
	CreatedAt time.Time
}
