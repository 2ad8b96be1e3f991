package kb

import (
	"fmt"
	"strings"

	"github.com/cognicore/chainer/pkg/chainer/internalerr"
)

// Explanation is the derivation tree of a fact or rule.
type Explanation struct {
	ID       ID
	Kind     Kind
	Text     string // statement or rule body, without the "fact: " prefix
	Asserted bool
	Supports []SupportExplanation
	// Repeated is set when the item already appears higher up on the same
	// branch; its supports are not expanded again.
	Repeated bool
}

// SupportExplanation is one (fact, rule) derivation of its parent.
type SupportExplanation struct {
	Fact *Explanation
	Rule *Explanation
}

// Label renders "fact: (a b)" or "rule: ((a ?x)) -> (b ?x)", suffixed with ASSERTED when applicable.
func (e *Explanation) Label() string {
	label := e.Kind.String() + ": " + e.Text
	if e.Asserted {
		label += " ASSERTED"
	}
	return label
}

// String renders the tree with two spaces of indentation per level. The root
// line carries no ASSERTED suffix; nodes inside the support tree do.
func (e *Explanation) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String() + ": " + e.Text)
	b.WriteString("\n")
	writeSupports(&b, e, 1)
	return b.String()
}

func writeSupports(b *strings.Builder, e *Explanation, level int) {
	space := strings.Repeat("  ", level)
	for _, s := range e.Supports {
		b.WriteString(space + "SUPPORTED BY\n")
		for _, child := range []*Explanation{s.Fact, s.Rule} {
			b.WriteString(space + "  " + child.Label() + "\n")
			writeSupports(b, child, level+2)
		}
	}
}

// Explain renders the derivation tree of item, or a not-found message.
func (kb *KnowledgeBase) Explain(item Item) string {
	e, err := kb.ExplainTree(item)
	if err != nil {
		if item != nil && item.Kind() == KindRule {
			return "Rule is not in the KB"
		}
		return "Fact is not in the KB"
	}
	return e.String()
}

// ExplainTree builds the derivation tree of item by a depth-first walk of its supports.
func (kb *KnowledgeBase) ExplainTree(item Item) (*Explanation, error) {
	if err := validate(item); err != nil {
		return nil, err
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	stored := kb.stored(item)
	if stored == nil {
		return nil, fmt.Errorf("explain %s: %w", item, internalerr.ErrNotFound)
	}
	return kb.explain(stored, make(map[ID]bool)), nil
}

func (kb *KnowledgeBase) explain(item Item, path map[ID]bool) *Explanation {
	p := item.provenance()
	e := &Explanation{
		ID:       item.ID(),
		Kind:     item.Kind(),
		Asserted: p.Asserted,
	}
	switch v := item.(type) {
	case *Fact:
		e.Text = v.Statement.String()
	case *Rule:
		e.Text = v.Body()
	}

	if path[e.ID] {
		e.Repeated = true
		return e
	}
	path[e.ID] = true
	defer delete(path, e.ID)

	for _, s := range p.SupportedBy {
		fact, okFact := kb.items[s.Fact]
		rule, okRule := kb.items[s.Rule]
		if !okFact || !okRule {
			continue
		}
		e.Supports = append(e.Supports, SupportExplanation{
			Fact: kb.explain(fact, path),
			Rule: kb.explain(rule, path),
		})
	}
	return e
}
