// Package logic holds the term and statement model shared by the knowledge
// base and the matcher that unifies statements.
package logic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VarPrefix marks a term name as a variable, e.g. "?x".
const VarPrefix = "?"

// Term is an atom: either a constant or a variable.
// Variables are recognised by the VarPrefix sigil on their name.
type Term struct {
	Name string
}

// Const creates a constant term
func Const(name string) Term {
	return Term{Name: name}
}

// Var creates a variable term, adding the sigil when missing
func Var(name string) Term {
	if strings.HasPrefix(name, VarPrefix) {
		return Term{Name: name}
	}
	return Term{Name: VarPrefix + name}
}

// IsVar reports whether the term is a variable.
func (t Term) IsVar() bool {
	return strings.HasPrefix(t.Name, VarPrefix) && len(t.Name) > len(VarPrefix)
}

func (t Term) String() string {
	return t.Name
}

// Statement is a predicate applied to an ordered list of atoms.
type Statement struct {
	Predicate string
	Args      []Term
}

// NewStatement builds a statement from raw names; "?"-prefixed names become variables.
func NewStatement(predicate string, args ...string) Statement {
	terms := make([]Term, len(args))
	for i, a := range args {
		terms[i] = Term{Name: a}
	}
	return Statement{Predicate: predicate, Args: terms}
}

// String renders "(pred a ?x)"
func (s Statement) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(s.Predicate)
	for _, a := range s.Args {
		b.WriteString(" ")
		b.WriteString(a.Name)
	}
	b.WriteString(")")
	return b.String()
}

// Key is the canonical text used for structural equality. Every name is
// quoted, so names containing spaces or parentheses cannot collide.
func (s Statement) Key() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(strconv.Quote(s.Predicate))
	for _, a := range s.Args {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(a.Name))
	}
	b.WriteString(")")
	return b.String()
}

// Equal checks structural equality.
func (s Statement) Equal(other Statement) bool {
	if s.Predicate != other.Predicate || len(s.Args) != len(other.Args) {
		return false
	}
	for i := range s.Args {
		if s.Args[i] != other.Args[i] {
			return false
		}
	}
	return true
}

// IsGround reports whether the statement contains no variables.
func (s Statement) IsGround() bool {
	for _, a := range s.Args {
		if a.IsVar() {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no argument storage with s.
func (s Statement) Clone() Statement {
	args := make([]Term, len(s.Args))
	copy(args, s.Args)
	return Statement{Predicate: s.Predicate, Args: args}
}

// Substitution maps variable names to the terms bound to them.
type Substitution map[string]Term

// Apply returns a copy of s with every bound variable replaced.
func (sub Substitution) Apply(s Statement) Statement {
	out := s.Clone()
	for i, a := range out.Args {
		if a.IsVar() {
			out.Args[i] = resolve(a, sub)
		}
	}
	return out
}

// String renders bindings sorted by variable name: "?x : a, ?y : b".
func (sub Substitution) String() string {
	names := make([]string, 0, len(sub))
	for name := range sub {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s : %s", name, sub[name].Name)
	}
	return strings.Join(parts, ", ")
}
