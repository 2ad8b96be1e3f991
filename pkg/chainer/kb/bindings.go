package kb

import (
	"strings"

	"github.com/cognicore/chainer/pkg/chainer/logic"
)

// Binding is one way a query matched: the substitution and the facts that justify it.
type Binding struct {
	Subst logic.Substitution
	Facts []Fact
}

// Bindings collects the answers to a query.
type Bindings struct {
	list []Binding
}

// Add appends a substitution together with its supporting facts.
func (b *Bindings) Add(sub logic.Substitution, facts []Fact) {
	b.list = append(b.list, Binding{Subst: sub, Facts: facts})
}

// Empty reports whether no answer was found.
func (b *Bindings) Empty() bool {
	return b == nil || len(b.list) == 0
}

// Len returns the number of answers.
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}
	return len(b.list)
}

// All returns the answers in the order they were found.
func (b *Bindings) All() []Binding {
	if b == nil {
		return nil
	}
	out := make([]Binding, len(b.list))
	copy(out, b.list)
	return out
}

// At returns the i-th answer.
func (b *Bindings) At(i int) Binding {
	return b.list[i]
}

func (b *Bindings) String() string {
	if b.Empty() {
		return "No bindings"
	}
	var sb strings.Builder
	for i, binding := range b.list {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(binding.Subst) == 0 {
			sb.WriteString("TRUE")
			continue
		}
		sb.WriteString(binding.Subst.String())
	}
	return sb.String()
}
