// Package grammar builds an LR(1)-style lookup table from a list of
// productions, following the construction in the kilojoule project's
// parser_generator2 module: a single precomputed table of
// (state, token) -> action rows, plus the "token group" mechanism that lets
// a context-aware lexer know which terminal patterns are legal to attempt
// next.
//
// It does not know anything about jqx's grammar or AST; internal/lang
// assembles the actual jqx Rule list and calls Build.
package grammar

// Rule is a single production: Name is the nonterminal it reduces to,
// Steps is the right-hand side (terminal and nonterminal symbol names, in
// order), and Reduce builds the value for a match out of the per-step
// values collected during the parse, in step order.
type Rule struct {
	Name   string
	Steps  []string
	Reduce func(elems []interface{}) interface{}
}

// Grammar is an ordered list of productions together with the name of the
// symbol the whole input must reduce to.
type Grammar struct {
	Rules []Rule
	Start string
}

// isNonterminal reports whether name is the left-hand side of at least one
// rule in ruleMap; anything else is treated as a literal terminal, exactly
// as parser_generator2.py treats any name absent from its rule_map.
func isNonterminal(name string, ruleMap map[string][]int) bool {
	_, ok := ruleMap[name]
	return ok
}

func buildRuleMap(rules []Rule) map[string][]int {
	m := map[string][]int{}
	for i, r := range rules {
		m[r.Name] = append(m[r.Name], i)
	}
	return m
}
