// Package parse reads the line-oriented knowledge base syntax:
//
//	# comment
//	fact: (isa cube block)
//	rule: ((isa ?x block) (on ?x ?y)) -> (covered ?y)
//
// Premises may optionally be separated by commas. Names starting with "?"
// are variables.
package parse

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/cognicore/chainer/pkg/chainer/internalerr"
	"github.com/cognicore/chainer/pkg/chainer/kb"
	"github.com/cognicore/chainer/pkg/chainer/logic"
)

const (
	factPrefix = "fact:"
	rulePrefix = "rule:"
	arrow      = "->"
)

// Items parses every fact and rule in text, skipping blank lines and comments.
func Items(text string) ([]kb.Item, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0

	var items []kb.Item
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item, err := Line(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Line parses a single "fact: ..." or "rule: ..." line.
func Line(line string) (kb.Item, error) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, factPrefix):
		s, err := Statement(strings.TrimPrefix(line, factPrefix))
		if err != nil {
			return nil, err
		}
		return kb.NewFact(s), nil
	case strings.HasPrefix(line, rulePrefix):
		return rule(strings.TrimPrefix(line, rulePrefix))
	default:
		return nil, fmt.Errorf("expected %q or %q: %s: %w", factPrefix, rulePrefix, line, internalerr.ErrInvalidInput)
	}
}

// Query parses an ask argument. A bare statement is read as a fact; a
// prefixed line is parsed like Line so rule-shaped queries reach the
// knowledge base and are rejected there.
func Query(text string) (kb.Item, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, factPrefix) || strings.HasPrefix(text, rulePrefix) {
		return Line(text)
	}
	s, err := Statement(text)
	if err != nil {
		return nil, err
	}
	return kb.NewFact(s), nil
}

// Statement parses "(pred a ?x)".
func Statement(text string) (logic.Statement, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") {
		return logic.Statement{}, fmt.Errorf("missing '(': %s: %w", text, internalerr.ErrInvalidInput)
	}
	if !strings.HasSuffix(text, ")") {
		return logic.Statement{}, fmt.Errorf("missing ')': %s: %w", text, internalerr.ErrInvalidInput)
	}

	inner := text[1 : len(text)-1]
	if strings.ContainsAny(inner, "()") {
		return logic.Statement{}, fmt.Errorf("nested statements are not supported: %s: %w", text, internalerr.ErrInvalidInput)
	}

	fields := strings.Fields(inner)
	if len(fields) == 0 {
		return logic.Statement{}, fmt.Errorf("empty statement: %w", internalerr.ErrInvalidInput)
	}
	if strings.HasPrefix(fields[0], logic.VarPrefix) {
		return logic.Statement{}, fmt.Errorf("predicate cannot be a variable: %s: %w", text, internalerr.ErrInvalidInput)
	}
	return logic.NewStatement(fields[0], fields[1:]...), nil
}

// rule parses "((a ?x) (b ?x)) -> (c ?x)"
func rule(text string) (kb.Item, error) {
	lhsText, rhsText, ok := strings.Cut(text, arrow)
	if !ok {
		return nil, fmt.Errorf("missing %q: %s: %w", arrow, text, internalerr.ErrInvalidInput)
	}

	lhsText = strings.TrimSpace(lhsText)
	if !strings.HasPrefix(lhsText, "(") || !strings.HasSuffix(lhsText, ")") {
		return nil, fmt.Errorf("premises must be parenthesized: %s: %w", lhsText, internalerr.ErrInvalidInput)
	}

	premises, err := statements(lhsText[1 : len(lhsText)-1])
	if err != nil {
		return nil, err
	}
	if len(premises) == 0 {
		return nil, fmt.Errorf("rule has no premises: %s: %w", text, internalerr.ErrInvalidInput)
	}

	rhs, err := Statement(rhsText)
	if err != nil {
		return nil, err
	}
	return kb.NewRule(premises, rhs), nil
}

// statements splits "(a ?x) (b ?x)" or "(a ?x), (b ?x)" into statements.
func statements(text string) ([]logic.Statement, error) {
	var out []logic.Statement
	depth := 0
	start := -1

	for i, r := range text {
		switch r {
		case '(':
			if depth > 0 {
				return nil, fmt.Errorf("nested statements are not supported: %s: %w", text, internalerr.ErrInvalidInput)
			}
			depth++
			start = i
		case ')':
			if depth == 0 {
				return nil, fmt.Errorf("unbalanced ')': %s: %w", text, internalerr.ErrInvalidInput)
			}
			depth--
			s, err := Statement(text[start : i+1])
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		case ',', ' ', '\t':
		default:
			if depth == 0 {
				return nil, fmt.Errorf("unexpected %q outside a statement: %s: %w", r, text, internalerr.ErrInvalidInput)
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("missing ')': %s: %w", text, internalerr.ErrInvalidInput)
	}
	return out, nil
}
