// Package lang assembles the actual jqx grammar -- the terminal patterns
// from tokens.go and the production list below -- on top of
// internal/grammar, internal/lex, and internal/ast, porting the cascade of
// precedence levels the kilojoule original's src/parser.py builds by hand
// (op_pipe_expr -> op_unary_fcn_expr -> op_option_default_expr ->
// op_or_expr -> op_and_expr -> op_equality_expr -> op_add_expr ->
// op_mul_expr -> op_div_expr -> op_negate_expr -> op_no_arg_fcn_expr ->
// op_dot_expr -> base_expr).
package lang

import (
	"strconv"

	"github.com/dekarrin/jqx/internal/ast"
	"github.com/dekarrin/jqx/internal/grammar"
	"github.com/dekarrin/jqx/internal/jqxerr"
	"github.com/dekarrin/jqx/internal/lex"
	"github.com/dekarrin/jqx/internal/parse"
)

// accessorSpec is the reduced value of an access_node: a postfix accessor
// still missing the Target it applies to, filled in by op_dot_expr's own
// left-recursive rule once the preceding op_dot_expr is known.
type accessorSpec struct {
	kind  string // "field", "index", "slice"
	field string
	key   ast.Expr
	start ast.Expr
	end   ast.Expr
}

func (a accessorSpec) apply(target ast.Expr) ast.Expr {
	switch a.kind {
	case "field":
		return ast.Access{Target: target, Field: a.field}
	case "index":
		return ast.Index{Target: target, Key: a.key}
	case "slice":
		return ast.Slice{Target: target, Start: a.start, End: a.end}
	default:
		panic("lang: unknown accessorSpec kind " + a.kind)
	}
}

func r(name string, steps []string, reduce func([]interface{}) interface{}) grammar.Rule {
	return grammar.Rule{Name: name, Steps: steps, Reduce: reduce}
}

func expr(e interface{}) ast.Expr { return e.(ast.Expr) }

func atof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err) // lexer guarantees the text matches a number pattern
	}
	return f
}

func trimBoth(s string) string { return unescape(s[1 : len(s)-1]) }

func buildGrammar() grammar.Grammar {
	var rules []grammar.Rule

	rules = append(rules,
		r("expr", []string{"op_pipe_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_pipe_expr", []string{"op_unary_fcn_expr", "PIPE", "op_pipe_expr"}, func(e []interface{}) interface{} {
			return ast.Pipe{Left: expr(e[0]), Right: expr(e[2])}
		}),
		r("op_pipe_expr", []string{"op_unary_fcn_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_unary_fcn_expr", []string{"op_option_default_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_option_default_expr", []string{"op_or_expr", "QQ", "op_option_default_expr"}, func(e []interface{}) interface{} {
			return ast.BinaryOp{Op: "??", Left: expr(e[0]), Right: expr(e[2])}
		}),
		r("op_option_default_expr", []string{"op_or_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_or_expr", []string{"op_and_expr", "OR", "op_or_expr"}, func(e []interface{}) interface{} {
			return ast.BinaryOp{Op: "or", Left: expr(e[0]), Right: expr(e[2])}
		}),
		r("op_or_expr", []string{"op_and_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_and_expr", []string{"op_equality_expr", "AND", "op_and_expr"}, func(e []interface{}) interface{} {
			return ast.BinaryOp{Op: "and", Left: expr(e[0]), Right: expr(e[2])}
		}),
		r("op_and_expr", []string{"op_equality_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_add_expr", []string{"op_mul_expr", "PLUS", "op_add_expr"}, func(e []interface{}) interface{} {
			return ast.BinaryOp{Op: "+", Left: expr(e[0]), Right: expr(e[2])}
		}),
		r("op_add_expr", []string{"op_mul_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_mul_expr", []string{"op_div_expr", "STAR", "op_mul_expr"}, func(e []interface{}) interface{} {
			return ast.BinaryOp{Op: "*", Left: expr(e[0]), Right: expr(e[2])}
		}),
		r("op_mul_expr", []string{"op_div_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_div_expr", []string{"op_negate_expr", "SLASH", "op_div_expr"}, func(e []interface{}) interface{} {
			return ast.BinaryOp{Op: "/", Left: expr(e[0]), Right: expr(e[2])}
		}),
		r("op_div_expr", []string{"op_negate_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_negate_expr", []string{"MINUS", "op_negate_expr"}, func(e []interface{}) interface{} {
			return ast.Negate{Expr: expr(e[1])}
		}),
		r("op_negate_expr", []string{"op_no_arg_fcn_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_no_arg_fcn_expr", []string{"op_dot_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("op_dot_expr", []string{"op_dot_expr", "access_node"}, func(e []interface{}) interface{} {
			return e[1].(accessorSpec).apply(expr(e[0]))
		}),
		r("op_dot_expr", []string{"base_expr"}, func(e []interface{}) interface{} { return e[0] }),
	)

	for _, cmp := range []string{"EQ", "NE", "LT", "LE", "GT", "GE"} {
		op := map[string]string{"EQ": "==", "NE": "!=", "LT": "<", "LE": "<=", "GT": ">", "GE": ">="}[cmp]
		rules = append(rules, r("op_equality_expr", []string{"op_add_expr", cmp, "op_add_expr"}, func(e []interface{}) interface{} {
			return ast.BinaryOp{Op: op, Left: expr(e[0]), Right: expr(e[2])}
		}))
	}
	rules = append(rules, r("op_equality_expr", []string{"op_add_expr"}, func(e []interface{}) interface{} { return e[0] }))

	for _, name := range append(append([]string{}, UnaryFcns...), DualFcns...) {
		tok := tokFor(name)
		nm := name
		rules = append(rules, r("op_unary_fcn_expr", []string{tok, "op_option_default_expr"}, func(e []interface{}) interface{} {
			return ast.UnaryFcn{Name: nm, Arg: expr(e[1])}
		}))
	}
	for _, name := range append(append([]string{}, NoArgFcns...), DualFcns...) {
		tok := tokFor(name)
		nm := name
		rules = append(rules, r("op_no_arg_fcn_expr", []string{tok}, func(e []interface{}) interface{} {
			return ast.NoArgFcn{Name: nm}
		}))
	}

	rules = append(rules,
		r("access_node", []string{"DOT", "IDENTIFIER"}, func(e []interface{}) interface{} {
			return accessorSpec{kind: "field", field: e[1].(string)}
		}),
		r("access_node", []string{"LBRACKET", "expr", "RBRACKET"}, func(e []interface{}) interface{} {
			return accessorSpec{kind: "index", key: expr(e[1])}
		}),
		r("access_node", []string{"LBRACKET", "expr", "COLON", "expr", "RBRACKET"}, func(e []interface{}) interface{} {
			return accessorSpec{kind: "slice", start: expr(e[1]), end: expr(e[3])}
		}),
		r("access_node", []string{"LBRACKET", "expr", "COLON", "RBRACKET"}, func(e []interface{}) interface{} {
			return accessorSpec{kind: "slice", start: expr(e[1])}
		}),
		r("access_node", []string{"LBRACKET", "COLON", "expr", "RBRACKET"}, func(e []interface{}) interface{} {
			return accessorSpec{kind: "slice", end: expr(e[2])}
		}),
		r("access_node", []string{"LBRACKET", "COLON", "RBRACKET"}, func(e []interface{}) interface{} {
			return accessorSpec{kind: "slice"}
		}),

		r("base_expr", []string{"DOT", "IDENTIFIER"}, func(e []interface{}) interface{} {
			return ast.Access{Target: ast.Echo{}, Field: e[1].(string)}
		}),
		r("base_expr", []string{"DOT"}, func(e []interface{}) interface{} { return ast.Echo{} }),
		r("base_expr", []string{"number_literal"}, func(e []interface{}) interface{} { return e[0] }),
		r("base_expr", []string{"string_literal"}, func(e []interface{}) interface{} { return e[0] }),
		r("base_expr", []string{"format_string"}, func(e []interface{}) interface{} { return e[0] }),
		r("base_expr", []string{"NULL"}, func(e []interface{}) interface{} { return ast.Null{} }),
		r("base_expr", []string{"TRUE"}, func(e []interface{}) interface{} { return ast.True{} }),
		r("base_expr", []string{"FALSE"}, func(e []interface{}) interface{} { return ast.False{} }),
		r("base_expr", []string{"LPAREN", "expr", "RPAREN"}, func(e []interface{}) interface{} { return e[1] }),
		r("base_expr", []string{"array_expr"}, func(e []interface{}) interface{} { return e[0] }),
		r("base_expr", []string{"dict_expr"}, func(e []interface{}) interface{} { return e[0] }),

		r("number_literal", []string{"INTEGER"}, func(e []interface{}) interface{} {
			return ast.NumberLit{Value: atof(e[0].(string))}
		}),
		r("number_literal", []string{"FLOAT"}, func(e []interface{}) interface{} {
			return ast.NumberLit{Value: atof(e[0].(string))}
		}),

		r("string_literal", []string{"STRING_S"}, func(e []interface{}) interface{} {
			return ast.StringLit{Value: unescape(stripQuotes(e[0].(string)))}
		}),
		r("string_literal", []string{"STRING_D"}, func(e []interface{}) interface{} {
			return ast.StringLit{Value: unescape(stripQuotes(e[0].(string)))}
		}),

		r("format_string", []string{"FMT_LEFT_S", "format_string_tail_s"}, func(e []interface{}) interface{} {
			parts := append([]ast.FormatPart{{Literal: trimBoth(e[0].(string))}}, e[1].([]ast.FormatPart)...)
			return ast.FormatString{Parts: parts}
		}),
		r("format_string_tail_s", []string{"expr", "FMT_RIGHT_S"}, func(e []interface{}) interface{} {
			return []ast.FormatPart{{Expr: expr(e[0])}, {Literal: trimBoth(e[1].(string))}}
		}),
		r("format_string_tail_s", []string{"expr", "FMT_MID_S", "format_string_tail_s"}, func(e []interface{}) interface{} {
			head := []ast.FormatPart{{Expr: expr(e[0])}, {Literal: trimBoth(e[1].(string))}}
			return append(head, e[2].([]ast.FormatPart)...)
		}),

		r("format_string", []string{"FMT_LEFT_D", "format_string_tail_d"}, func(e []interface{}) interface{} {
			parts := append([]ast.FormatPart{{Literal: trimBoth(e[0].(string))}}, e[1].([]ast.FormatPart)...)
			return ast.FormatString{Parts: parts}
		}),
		r("format_string_tail_d", []string{"expr", "FMT_RIGHT_D"}, func(e []interface{}) interface{} {
			return []ast.FormatPart{{Expr: expr(e[0])}, {Literal: trimBoth(e[1].(string))}}
		}),
		r("format_string_tail_d", []string{"expr", "FMT_MID_D", "format_string_tail_d"}, func(e []interface{}) interface{} {
			head := []ast.FormatPart{{Expr: expr(e[0])}, {Literal: trimBoth(e[1].(string))}}
			return append(head, e[2].([]ast.FormatPart)...)
		}),

		r("array_expr", []string{"LBRACKET", "RBRACKET"}, func(e []interface{}) interface{} {
			return ast.Array{}
		}),
		r("array_expr", []string{"LBRACKET", "array_contents", "RBRACKET"}, func(e []interface{}) interface{} {
			return ast.Array{Elements: e[1].([]ast.ArrayElem)}
		}),
		r("array_contents", []string{"array_element", "COMMA", "array_contents"}, func(e []interface{}) interface{} {
			return append([]ast.ArrayElem{e[0].(ast.ArrayElem)}, e[2].([]ast.ArrayElem)...)
		}),
		r("array_contents", []string{"array_element"}, func(e []interface{}) interface{} {
			return []ast.ArrayElem{e[0].(ast.ArrayElem)}
		}),
		r("array_element", []string{"STAR", "expr"}, func(e []interface{}) interface{} {
			return ast.ArrayElem{Expr: expr(e[1]), Spread: true}
		}),
		r("array_element", []string{"expr"}, func(e []interface{}) interface{} {
			return ast.ArrayElem{Expr: expr(e[0])}
		}),

		r("dict_expr", []string{"LBRACE", "RBRACE"}, func(e []interface{}) interface{} {
			return ast.Dict{}
		}),
		r("dict_expr", []string{"LBRACE", "dict_contents", "RBRACE"}, func(e []interface{}) interface{} {
			return ast.Dict{Elements: e[1].([]ast.DictElem)}
		}),
		r("dict_contents", []string{"dict_elem", "COMMA", "dict_contents"}, func(e []interface{}) interface{} {
			return append([]ast.DictElem{e[0].(ast.DictElem)}, e[2].([]ast.DictElem)...)
		}),
		r("dict_contents", []string{"dict_elem"}, func(e []interface{}) interface{} {
			return []ast.DictElem{e[0].(ast.DictElem)}
		}),
		r("dict_elem", []string{"IDENTIFIER", "COLON", "expr"}, func(e []interface{}) interface{} {
			return ast.DictElem{Kind: ast.DictKV, Key: ast.StringLit{Value: e[0].(string)}, Value: expr(e[2])}
		}),
		r("dict_elem", []string{"string_literal", "COLON", "expr"}, func(e []interface{}) interface{} {
			return ast.DictElem{Kind: ast.DictKV, Key: expr(e[0]), Value: expr(e[2])}
		}),
		r("dict_elem", []string{"LBRACKET", "expr", "RBRACKET", "COLON", "expr"}, func(e []interface{}) interface{} {
			return ast.DictElem{Kind: ast.DictKV, Key: expr(e[1]), Value: expr(e[4])}
		}),
		r("dict_elem", []string{"STAR", "expr"}, func(e []interface{}) interface{} {
			return ast.DictElem{Kind: ast.DictSpread, Value: expr(e[1])}
		}),
		r("dict_elem", []string{"MINUS", "IDENTIFIER"}, func(e []interface{}) interface{} {
			return ast.DictElem{Kind: ast.DictOmit, Name: e[1].(string)}
		}),
		r("dict_elem", []string{"DOT", "IDENTIFIER"}, func(e []interface{}) interface{} {
			return ast.DictElem{Kind: ast.DictAccessShortcut, Name: e[1].(string)}
		}),
	)

	return grammar.Grammar{Start: "expr", Rules: rules}
}

var table *grammar.Table

func init() {
	var err error
	table, err = grammar.Build(buildGrammar())
	if err != nil {
		panic(jqxerr.Grammarf("%v", err))
	}
}

// Parse tokenizes and parses a jqx expression, returning its AST.
func Parse(text string) (ast.Expr, error) {
	lx := lex.New(lexDefs(), ignorePattern(), text)
	lx.Keyword = keywordMap()
	lx.KeywordFrom = "IDENTIFIER"

	p := parse.New(table, lx)
	result, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return expr(result), nil
}
