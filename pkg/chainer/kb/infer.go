package kb

import (
	"github.com/cognicore/chainer/pkg/chainer/logic"
)

// Infer chains a stored fact against a stored rule. Items that are not in
// the knowledge base are ignored.
func (kb *KnowledgeBase) Infer(fact *Fact, rule *Rule) {
	if fact == nil || rule == nil {
		return
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	storedFact, ok := kb.stored(fact).(*Fact)
	if !ok {
		return
	}
	storedRule, ok := kb.stored(rule).(*Rule)
	if !ok {
		return
	}
	kb.infer(storedFact, storedRule)
}

func (kb *KnowledgeBase) stored(item Item) Item {
	id, ok := kb.index[item.key()]
	if !ok {
		return nil
	}
	return kb.items[id]
}

// infer unifies the fact with the rule's first premise. On success the
// remaining premises and the conclusion are instantiated: a single-premise
// rule yields a derived fact, a longer one yields a shorter derived rule.
// Either way the result is added with (fact, rule) as its support.
func (kb *KnowledgeBase) infer(fact *Fact, rule *Rule) {
	kb.tracef(VerboseInfer, "Attempting to infer from %s and %s", fact.Statement, rule.Body())
	if len(rule.LHS) == 0 {
		return
	}

	sub, ok := logic.Match(rule.LHS[0], fact.Statement)
	if !ok {
		return
	}

	support := []Support{{Fact: fact.id, Rule: rule.id}}
	if len(rule.LHS) == 1 {
		kb.add(&Fact{
			Statement:  sub.Apply(rule.RHS),
			Provenance: Provenance{SupportedBy: support},
		})
		return
	}

	premises := make([]logic.Statement, len(rule.LHS)-1)
	for i, s := range rule.LHS[1:] {
		premises[i] = sub.Apply(s)
	}
	kb.add(&Rule{
		LHS:        premises,
		RHS:        sub.Apply(rule.RHS),
		Provenance: Provenance{SupportedBy: support},
	})
}

func matchFact(query, fact *Fact) (logic.Substitution, bool) {
	return logic.Match(query.Statement, fact.Statement)
}
