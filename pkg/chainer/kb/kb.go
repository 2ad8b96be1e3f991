// Package kb implements a forward-chaining knowledge base of facts and rules.
//
// Every fact or rule added to the knowledge base is immediately chained
// against its counterparts: a new fact against every rule, a new rule against
// every fact. Derived items remember which (fact, rule) pairs produced them,
// which lets Retract remove consequences whose justification disappears and
// Explain print the derivation tree.
package kb

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cognicore/chainer/pkg/chainer/internalerr"
)

// Verbosity levels for trace logging.
const (
	VerboseOff     = 0
	VerboseAsserts = 1 // assert, retract, ask
	VerboseInfer   = 2 // every add and inference attempt
)

// Options configures a KnowledgeBase
type Options struct {
	// Logger receives trace output; nil disables tracing regardless of Verbose.
	Logger  *log.Logger
	Verbose int
}

// KnowledgeBase owns all facts and rules and the support edges between them.
// Public methods are serialized behind a single mutex; chaining runs to
// completion before the triggering call returns.
type KnowledgeBase struct {
	mu     sync.Mutex
	nextID ID
	items  map[ID]Item
	index  map[string]ID
	facts  []ID // insertion order
	rules  []ID // insertion order

	logger  *log.Logger
	verbose int
}

// New creates an empty knowledge base.
// An optional Options value enables trace logging.
func New(opts ...Options) *KnowledgeBase {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	return &KnowledgeBase{
		nextID:  1,
		items:   make(map[ID]Item),
		index:   make(map[string]ID),
		facts:   []ID{},
		rules:   []ID{},
		logger:  o.Logger,
		verbose: o.Verbose,
	}
}

// Assert adds an item on behalf of a user: any supports on the argument are
// ignored and the stored item is marked asserted.
func (kb *KnowledgeBase) Assert(item Item) error {
	if err := validate(item); err != nil {
		return err
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	kb.tracef(VerboseAsserts, "Asserting %s", item)
	asserted := item.clone()
	p := asserted.provenance()
	p.Asserted = true
	p.SupportedBy = nil
	kb.add(asserted)
	return nil
}

// Add stores an item or merges it into an equal one already present.
// An item without supports is treated as asserted. Every support must name
// a fact and a rule stored in this knowledge base.
func (kb *KnowledgeBase) Add(item Item) error {
	if err := validate(item); err != nil {
		return err
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	for _, s := range item.provenance().SupportedBy {
		if err := kb.checkSupport(s); err != nil {
			return fmt.Errorf("add %s: %w", item, err)
		}
	}
	kb.add(item.clone())
	return nil
}

func (kb *KnowledgeBase) checkSupport(s Support) error {
	if _, ok := kb.items[s.Fact].(*Fact); !ok {
		return fmt.Errorf("support %v: no fact with id %d: %w", s, s.Fact, internalerr.ErrInvalidInput)
	}
	if _, ok := kb.items[s.Rule].(*Rule); !ok {
		return fmt.Errorf("support %v: no rule with id %d: %w", s, s.Rule, internalerr.ErrInvalidInput)
	}
	return nil
}

func validate(item Item) error {
	switch v := item.(type) {
	case *Fact:
		if v == nil {
			return fmt.Errorf("nil fact: %w", internalerr.ErrInvalidInput)
		}
		if v.Statement.Predicate == "" {
			return fmt.Errorf("fact without predicate: %w", internalerr.ErrInvalidInput)
		}
	case *Rule:
		if v == nil {
			return fmt.Errorf("nil rule: %w", internalerr.ErrInvalidInput)
		}
		if len(v.LHS) == 0 {
			return fmt.Errorf("rule %s has no premises: %w", v.RHS, internalerr.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("unsupported item %T: %w", item, internalerr.ErrInvalidInput)
	}
	return nil
}

// add takes ownership of item. Callers hold kb.mu.
func (kb *KnowledgeBase) add(item Item) {
	kb.tracef(VerboseInfer, "Adding %s", item)

	incoming := item.provenance()
	if id, ok := kb.index[item.key()]; ok {
		existing := kb.items[id].provenance()
		if len(incoming.SupportedBy) == 0 || incoming.Asserted {
			existing.Asserted = true
		}
		for _, s := range incoming.SupportedBy {
			// an item never supports itself
			if s.Fact == id || s.Rule == id {
				continue
			}
			if !hasSupport(existing.SupportedBy, s) {
				existing.SupportedBy = append(existing.SupportedBy, s)
			}
		}
		return
	}

	if len(incoming.SupportedBy) == 0 {
		incoming.Asserted = true
	}

	id := kb.nextID
	kb.nextID++
	kb.index[item.key()] = id
	kb.items[id] = item

	switch v := item.(type) {
	case *Fact:
		v.id = id
		kb.facts = append(kb.facts, id)
		for _, rid := range snapshot(kb.rules) {
			if rule, ok := kb.items[rid].(*Rule); ok {
				kb.infer(v, rule)
			}
		}
	case *Rule:
		v.id = id
		kb.rules = append(kb.rules, id)
		for _, fid := range snapshot(kb.facts) {
			if fact, ok := kb.items[fid].(*Fact); ok {
				kb.infer(fact, v)
			}
		}
	}
}

// Ask matches a fact-shaped query against every fact in the knowledge base.
// A rule-shaped query yields empty bindings and ErrMalformedQuery.
func (kb *KnowledgeBase) Ask(query Item) (*Bindings, error) {
	bindings := &Bindings{}
	q, ok := query.(*Fact)
	if !ok || q == nil {
		return bindings, fmt.Errorf("ask %v: %w", query, internalerr.ErrMalformedQuery)
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	kb.tracef(VerboseAsserts, "Asking %s", q)
	for _, id := range kb.facts {
		fact := kb.items[id].(*Fact)
		if sub, ok := matchFact(q, fact); ok {
			bindings.Add(sub, []Fact{*fact.clone().(*Fact)})
		}
	}
	return bindings, nil
}

// Retract withdraws the assertion of a fact or rule. The item is removed only
// when nothing else supports it; removal cascades to every item left without
// support that was never asserted itself. Unknown items are ignored.
func (kb *KnowledgeBase) Retract(item Item) {
	if validate(item) != nil {
		return
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	kb.tracef(VerboseAsserts, "Retracting %s", item)
	id, ok := kb.index[item.key()]
	if !ok {
		return
	}
	p := kb.items[id].provenance()
	p.Asserted = false
	if len(p.SupportedBy) > 0 {
		return
	}
	kb.cascade(id)
}

// cascade removes root and then every item whose last support referenced a
// removed item. It uses a worklist so deep derivation chains do not grow the stack.
func (kb *KnowledgeBase) cascade(root ID) {
	queue := []ID{root}
	queued := map[ID]bool{root: true}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		removed, ok := kb.items[id]
		if !ok {
			continue
		}
		kb.remove(removed)

		for _, other := range kb.ordered() {
			p := other.provenance()
			kept := p.SupportedBy[:0]
			dropped := false
			for _, s := range p.SupportedBy {
				if s.Fact == id || s.Rule == id {
					dropped = true
					continue
				}
				kept = append(kept, s)
			}
			if !dropped {
				continue
			}
			if len(kept) == 0 {
				kept = nil
			}
			p.SupportedBy = kept

			oid := other.ID()
			if len(p.SupportedBy) == 0 && !p.Asserted && !queued[oid] {
				kb.tracef(VerboseInfer, "Cascading retraction to %s", other)
				queued[oid] = true
				queue = append(queue, oid)
			}
		}
	}
}

func (kb *KnowledgeBase) remove(item Item) {
	id := item.ID()
	delete(kb.items, id)
	delete(kb.index, item.key())
	switch item.Kind() {
	case KindFact:
		kb.facts = without(kb.facts, id)
	case KindRule:
		kb.rules = without(kb.rules, id)
	}
}

// ordered returns stored items, facts first, each in insertion order.
func (kb *KnowledgeBase) ordered() []Item {
	out := make([]Item, 0, len(kb.facts)+len(kb.rules))
	for _, id := range kb.facts {
		out = append(out, kb.items[id])
	}
	for _, id := range kb.rules {
		out = append(out, kb.items[id])
	}
	return out
}

// Lookup returns a copy of the stored item structurally equal to item.
func (kb *KnowledgeBase) Lookup(item Item) (Item, bool) {
	if validate(item) != nil {
		return nil, false
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	id, ok := kb.index[item.key()]
	if !ok {
		return nil, false
	}
	return kb.items[id].clone(), true
}

// Facts returns copies of all facts in insertion order.
func (kb *KnowledgeBase) Facts() []*Fact {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	out := make([]*Fact, len(kb.facts))
	for i, id := range kb.facts {
		out[i] = kb.items[id].clone().(*Fact)
	}
	return out
}

// Rules returns copies of all rules in insertion order.
func (kb *KnowledgeBase) Rules() []*Rule {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	out := make([]*Rule, len(kb.rules))
	for i, id := range kb.rules {
		out[i] = kb.items[id].clone().(*Rule)
	}
	return out
}

// Len returns the number of stored facts and rules.
func (kb *KnowledgeBase) Len() (facts, rules int) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return len(kb.facts), len(kb.rules)
}

func (kb *KnowledgeBase) String() string {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	var b strings.Builder
	b.WriteString("Knowledge Base: \n")
	for _, id := range kb.facts {
		b.WriteString(kb.items[id].String())
		b.WriteString("\n")
	}
	for _, id := range kb.rules {
		b.WriteString(kb.items[id].String())
		b.WriteString("\n")
	}
	return b.String()
}

func (kb *KnowledgeBase) tracef(level int, format string, args ...interface{}) {
	if kb.logger == nil || kb.verbose < level {
		return
	}
	kb.logger.Printf(format, args...)
}

func snapshot(ids []ID) []ID {
	out := make([]ID, len(ids))
	copy(out, ids)
	return out
}

func without(ids []ID, id ID) []ID {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
