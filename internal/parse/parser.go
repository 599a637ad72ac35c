// Package parse implements the table-driven shift/reduce parser that runs
// against a grammar.Table: two stacks (states and values) kept in lockstep,
// shifting tokens from a lex.Lexer and reducing via each grammar.Rule's
// Reduce callback, in the style of Algorithm 4.44 from the purple dragon
// book -- the same algorithm dekarrin/tunaq's own ictiobus/parse/lr.go
// names in its doc comment, ported here against the simpler single
// precomputed grammar.Table this project's generator produces instead of
// ictiobus's generic LRParseTable interface.
package parse

import (
	"github.com/dekarrin/jqx/internal/grammar"
	"github.com/dekarrin/jqx/internal/jqxerr"
	"github.com/dekarrin/jqx/internal/lex"
)

// entry is one value-stack slot: the grammar symbol it was produced as
// (needed for the goto lookup after each reduce) and the value itself
// (a lex.Token for a shifted terminal, or whatever the relevant rule's
// Reduce returned).
type entry struct {
	symbol string
	value  interface{}
}

// Parser drives table against tokens pulled from lx, restricting the
// lexer to whatever token group the last transition activated.
type Parser struct {
	table *grammar.Table
	lx    *lex.Lexer
}

// New returns a Parser ready to consume lx against table.
func New(table *grammar.Table, lx *lex.Lexer) *Parser {
	return &Parser{table: table, lx: lx}
}

// Parse runs the parser to completion and returns whatever the grammar's
// start rule reduced to.
func (p *Parser) Parse() (interface{}, error) {
	stateStack := []int{0}
	valStack := []entry{}
	tokenGroup := 0

	for {
		top := stateStack[len(stateStack)-1]

		var allowed []string
		if tokenGroup >= 0 && tokenGroup < len(p.table.TokenGroups) {
			allowed = p.table.TokenGroups[tokenGroup]
		}
		tok, err := p.lx.Next(allowed)
		if err != nil {
			return nil, err
		}

		for {
			row, ok := p.table.Action(top, tok.Name)
			if !ok {
				return nil, jqxerr.Parsef(tok.Pos, "unexpected token %q", tok.Name)
			}

			if row.NextState >= 0 {
				stateStack = append(stateStack, row.NextState)
				valStack = append(valStack, entry{symbol: tok.Name, value: tok.Text})
				tokenGroup = row.TokenGroup
				break
			}

			rule := p.table.Rules[row.Reduce]
			n := len(rule.Steps)

			args := make([]interface{}, n)
			for i := 0; i < n; i++ {
				args[i] = valStack[len(valStack)-n+i].value
			}
			valStack = valStack[:len(valStack)-n]
			stateStack = stateStack[:len(stateStack)-n]

			result := rule.Reduce(args)

			if rule.Name == "MAIN" {
				return result, nil
			}

			top = stateStack[len(stateStack)-1]
			gotoRow, ok := p.table.Action(top, rule.Name)
			if !ok {
				return nil, jqxerr.Parsef(tok.Pos, "no goto for %s in state %d", rule.Name, top)
			}
			stateStack = append(stateStack, gotoRow.NextState)
			valStack = append(valStack, entry{symbol: rule.Name, value: result})
			top = stateStack[len(stateStack)-1]
		}
	}
}
