package logic

// Match unifies a pattern statement against a target statement.
// It returns the substitution that makes both identical, or false when no
// such substitution exists. Variables may appear on either side; arguments
// are flat atoms so binding a variable never requires recursion.
//
// The returned map is built locally, so a failed match leaves no bindings
// behind.
func Match(pattern, target Statement) (Substitution, bool) {
	if pattern.Predicate != target.Predicate || len(pattern.Args) != len(target.Args) {
		return nil, false
	}

	sub := make(Substitution)
	for i := range pattern.Args {
		if !matchTerm(pattern.Args[i], target.Args[i], sub) {
			return nil, false
		}
	}
	return sub, true
}

func matchTerm(p, t Term, sub Substitution) bool {
	p = resolve(p, sub)
	t = resolve(t, sub)

	switch {
	case p == t:
		return true
	case p.IsVar():
		sub[p.Name] = t
		return true
	case t.IsVar():
		sub[t.Name] = p
		return true
	default:
		return false
	}
}

// resolve follows variable bindings until reaching a constant or an unbound variable.
func resolve(t Term, sub Substitution) Term {
	for t.IsVar() {
		bound, ok := sub[t.Name]
		if !ok || bound == t {
			return t
		}
		t = bound
	}
	return t
}
