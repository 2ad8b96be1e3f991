package kb

import (
	"strings"

	"github.com/cognicore/chainer/pkg/chainer/logic"
)

// ID identifies a fact or rule stored in a KnowledgeBase.
// IDs are assigned on insertion and never reused; zero means "not stored".
type ID uint64

// Kind tags the two item variants.
type Kind int

const (
	KindFact Kind = iota
	KindRule
)

func (k Kind) String() string {
	if k == KindRule {
		return "rule"
	}
	return "fact"
}

// Support records one derivation: the item was produced by chaining Rule against Fact.
type Support struct {
	Fact ID
	Rule ID
}

// Provenance is the bookkeeping shared by facts and rules.
type Provenance struct {
	Asserted    bool
	SupportedBy []Support
}

func (p *Provenance) provenance() *Provenance { return p }

// Item is a fact or a rule. Only *Fact and *Rule implement it.
type Item interface {
	ID() ID
	Kind() Kind
	String() string

	key() string
	clone() Item
	provenance() *Provenance
}

// Fact wraps a single statement.
// Equality is structural equality of the statement; provenance is metadata.
type Fact struct {
	id        ID
	Statement logic.Statement
	Provenance
}

// NewFact creates a fact with no supports.
func NewFact(s logic.Statement) *Fact {
	return &Fact{Statement: s.Clone()}
}

// ID returns the arena id, zero if the fact was never stored.
func (f *Fact) ID() ID { return f.id }

// Kind implements Item.
func (f *Fact) Kind() Kind { return KindFact }

// String renders "fact: (pred a b)"
func (f *Fact) String() string {
	return "fact: " + f.Statement.String()
}

// Equal compares statements only.
func (f *Fact) Equal(other *Fact) bool {
	return other != nil && f.Statement.Equal(other.Statement)
}

func (f *Fact) key() string {
	return "fact:" + f.Statement.Key()
}

func (f *Fact) clone() Item {
	return &Fact{
		id:         f.id,
		Statement:  f.Statement.Clone(),
		Provenance: cloneProvenance(f.Provenance),
	}
}

// Rule is a conjunction of premises (LHS) implying a conclusion (RHS).
// Equality is structural equality of LHS and RHS.
type Rule struct {
	id  ID
	LHS []logic.Statement
	RHS logic.Statement
	Provenance
}

// NewRule creates a rule with no supports.
func NewRule(lhs []logic.Statement, rhs logic.Statement) *Rule {
	premises := make([]logic.Statement, len(lhs))
	for i, s := range lhs {
		premises[i] = s.Clone()
	}
	return &Rule{LHS: premises, RHS: rhs.Clone()}
}

// ID returns the arena id, zero if the rule was never stored.
func (r *Rule) ID() ID { return r.id }

// Kind implements Item.
func (r *Rule) Kind() Kind { return KindRule }

// Body renders "((a ?x), (b ?x)) -> (c ?x)"
func (r *Rule) Body() string {
	parts := make([]string, len(r.LHS))
	for i, s := range r.LHS {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + r.RHS.String()
}

func (r *Rule) String() string {
	return "rule: " + r.Body()
}

// Equal compares premises and conclusion.
func (r *Rule) Equal(other *Rule) bool {
	if other == nil || len(r.LHS) != len(other.LHS) || !r.RHS.Equal(other.RHS) {
		return false
	}
	for i := range r.LHS {
		if !r.LHS[i].Equal(other.LHS[i]) {
			return false
		}
	}
	return true
}

func (r *Rule) key() string {
	parts := make([]string, len(r.LHS))
	for i, s := range r.LHS {
		parts[i] = s.Key()
	}
	return "rule:" + strings.Join(parts, ",") + "->" + r.RHS.Key()
}

func (r *Rule) clone() Item {
	premises := make([]logic.Statement, len(r.LHS))
	for i, s := range r.LHS {
		premises[i] = s.Clone()
	}
	return &Rule{
		id:         r.id,
		LHS:        premises,
		RHS:        r.RHS.Clone(),
		Provenance: cloneProvenance(r.Provenance),
	}
}

func cloneProvenance(p Provenance) Provenance {
	out := Provenance{Asserted: p.Asserted}
	if len(p.SupportedBy) > 0 {
		out.SupportedBy = make([]Support, len(p.SupportedBy))
		copy(out.SupportedBy, p.SupportedBy)
	}
	return out
}

func hasSupport(list []Support, s Support) bool {
	for _, existing := range list {
		if existing == s {
			return true
		}
	}
	return false
}
