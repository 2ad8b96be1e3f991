// Package chainer is the facade over the knowledge base: it parses textual
// facts and rules, keeps a persistent journal of user assertions and replays
// that journal on open so derived items are rebuilt by forward chaining.
package chainer

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/chainer/pkg/chainer/kb"
	"github.com/cognicore/chainer/pkg/chainer/parse"
	"github.com/cognicore/chainer/pkg/chainer/store"
	"github.com/cognicore/chainer/pkg/chainer/store/memstore"
)

// Chainer is the main knowledge engine facade
type Chainer struct {
	kb    *kb.KnowledgeBase
	store store.Store

	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Options configures a Chainer instance
type Options struct {
	// Store holds the assertion journal; nil keeps it in memory.
	Store   store.Store
	Logger  *log.Logger
	Verbose int
}

// Open creates a Chainer and replays the journal found in opts.Store.
func Open(ctx context.Context, opts Options) (*Chainer, error) {
	st := opts.Store
	if st == nil {
		st = memstore.New()
	}

	c := &Chainer{
		kb:      kb.New(kb.Options{Logger: opts.Logger, Verbose: opts.Verbose}),
		store:   st,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}

	entries, err := st.ListAssertions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	for _, a := range entries {
		item, err := parse.Line(a.Text)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", a.ID, err)
		}
		if err := c.kb.Assert(item); err != nil {
			return nil, fmt.Errorf("replay %s: %w", a.ID, err)
		}
	}
	return c, nil
}

// Close cleanly shuts down the store
func (c *Chainer) Close() error {
	return c.store.Close()
}

// KB returns the underlying knowledge base.
func (c *Chainer) KB() *kb.KnowledgeBase {
	return c.kb
}

// Assert parses a "fact: ..." or "rule: ..." line, asserts it and records it in the journal.
func (c *Chainer) Assert(ctx context.Context, line string) (kb.Item, error) {
	item, err := parse.Line(line)
	if err != nil {
		return nil, err
	}
	if err := c.AssertItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AssertItem asserts an already constructed item and records it in the journal.
func (c *Chainer) AssertItem(ctx context.Context, item kb.Item) error {
	if err := c.kb.Assert(item); err != nil {
		return err
	}
	return c.store.PutAssertion(ctx, store.Assertion{
		ID:        c.newID(),
		Kind:      item.Kind().String(),
		Text:      item.String(),
		CreatedAt: c.now(),
	})
}

// Load asserts every fact and rule of a knowledge base file and returns how many were read.
func (c *Chainer) Load(ctx context.Context, text string) (int, error) {
	items, err := parse.Items(text)
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if err := c.AssertItem(ctx, item); err != nil {
			return i, fmt.Errorf("assert %s: %w", item, err)
		}
	}
	return len(items), nil
}

// Import asserts journal entries produced elsewhere, keeping their IDs.
func (c *Chainer) Import(ctx context.Context, entries []store.Assertion) error {
	for _, a := range entries {
		item, err := parse.Line(a.Text)
		if err != nil {
			return fmt.Errorf("import %s: %w", a.ID, err)
		}
		if err := c.kb.Assert(item); err != nil {
			return fmt.Errorf("import %s: %w", a.ID, err)
		}
		if a.ID == "" {
			a.ID = c.newID()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = c.now()
		}
		a.Kind = item.Kind().String()
		a.Text = item.String()
		if err := c.store.PutAssertion(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Journal returns the recorded assertions in replay order.
func (c *Chainer) Journal(ctx context.Context) ([]store.Assertion, error) {
	return c.store.ListAssertions(ctx)
}

// Retract withdraws a fact or rule and drops it from the journal.
func (c *Chainer) Retract(ctx context.Context, line string) error {
	item, err := parse.Line(line)
	if err != nil {
		return err
	}
	c.kb.Retract(item)
	_, err = c.store.DeleteAssertion(ctx, item.String())
	return err
}

// Ask answers a query such as "(isa ?x block)".
func (c *Chainer) Ask(query string) (*kb.Bindings, error) {
	item, err := parse.Query(query)
	if err != nil {
		return &kb.Bindings{}, err
	}
	return c.kb.Ask(item)
}

// Explain renders the derivation of a fact or rule, or a not-found message.
func (c *Chainer) Explain(line string) (string, error) {
	item, err := parse.Query(line)
	if err != nil {
		return "", err
	}
	return c.kb.Explain(item), nil
}

// ExplainTree returns the derivation tree of a fact or rule.
func (c *Chainer) ExplainTree(line string) (*kb.Explanation, error) {
	item, err := parse.Query(line)
	if err != nil {
		return nil, err
	}
	return c.kb.ExplainTree(item)
}

func (c *Chainer) newID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(c.now()), c.entropy).String()
}
