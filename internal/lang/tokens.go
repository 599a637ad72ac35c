package lang

import (
	"regexp"

	"github.com/dekarrin/jqx/internal/lex"
)

// UnaryFcns are built-ins that always take an explicit expression operand,
// e.g. `map expr`.
var UnaryFcns = []string{
	"map", "filter", "group", "join", "exec",
	"recursivemap", "recursiveflatten", "if", "write",
}

// NoArgFcns are built-ins evaluated purely against the dot, with no
// operand, e.g. `len`.
var NoArgFcns = []string{
	"len", "entries", "todict", "keys", "values", "sum", "in", "out",
	"parse", "trim", "lines", "lower", "upper", "number", "isfile",
	"isdir", "exists", "listdir", "joinlines", "env", "flatten", "all",
	"any", "sh", "combinations", "zip",
}

// DualFcns can appear either bare (no-arg form) or with an explicit
// operand (unary form); the grammar accepts both and the AST always
// records which one was written (NoArgFcn vs UnaryFcn), with the
// no-arg/unary distinction in meaning handled by internal/eval.
var DualFcns = []string{"sort", "split", "read", "not"}

func tokFor(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// innerPattern builds the body of a quoted-string or format-string
// fragment pattern: any run of characters that is neither the quote char
// nor a brace, or a backslash-escaped character.
func innerPattern(quote byte) string {
	return `(?:[^` + regexp.QuoteMeta(string(quote)) + `\\{}]|\\.)*`
}

func lexDefs() []lex.Def {
	innerS := innerPattern('\'')
	innerD := innerPattern('"')

	defs := []lex.Def{
		{Name: "FLOAT", Pattern: regexp.MustCompile(`[0-9]+\.[0-9]+`)},
		{Name: "INTEGER", Pattern: regexp.MustCompile(`[0-9]+`)},

		{Name: "FMT_LEFT_S", Pattern: regexp.MustCompile(`'` + innerS + `\{`)},
		{Name: "FMT_MID_S", Pattern: regexp.MustCompile(`\}` + innerS + `\{`)},
		{Name: "FMT_RIGHT_S", Pattern: regexp.MustCompile(`\}` + innerS + `'`)},
		{Name: "STRING_S", Pattern: regexp.MustCompile(`'` + innerS + `'`)},

		{Name: "FMT_LEFT_D", Pattern: regexp.MustCompile(`"` + innerD + `\{`)},
		{Name: "FMT_MID_D", Pattern: regexp.MustCompile(`\}` + innerD + `\{`)},
		{Name: "FMT_RIGHT_D", Pattern: regexp.MustCompile(`\}` + innerD + `"`)},
		{Name: "STRING_D", Pattern: regexp.MustCompile(`"` + innerD + `"`)},

		{Name: "QQ", Pattern: regexp.MustCompile(`\?\?`)},
		{Name: "EQ", Pattern: regexp.MustCompile(`==`)},
		{Name: "NE", Pattern: regexp.MustCompile(`!=`)},
		{Name: "LE", Pattern: regexp.MustCompile(`<=`)},
		{Name: "GE", Pattern: regexp.MustCompile(`>=`)},
		{Name: "LT", Pattern: regexp.MustCompile(`<`)},
		{Name: "GT", Pattern: regexp.MustCompile(`>`)},

		{Name: "PIPE", Pattern: regexp.MustCompile(`\|`)},
		{Name: "PLUS", Pattern: regexp.MustCompile(`\+`)},
		{Name: "STAR", Pattern: regexp.MustCompile(`\*`)},
		{Name: "SLASH", Pattern: regexp.MustCompile(`/`)},
		{Name: "MINUS", Pattern: regexp.MustCompile(`-`)},

		{Name: "LPAREN", Pattern: regexp.MustCompile(`\(`)},
		{Name: "RPAREN", Pattern: regexp.MustCompile(`\)`)},
		{Name: "LBRACKET", Pattern: regexp.MustCompile(`\[`)},
		{Name: "RBRACKET", Pattern: regexp.MustCompile(`\]`)},
		{Name: "LBRACE", Pattern: regexp.MustCompile(`\{`)},
		{Name: "RBRACE", Pattern: regexp.MustCompile(`\}`)},
		{Name: "COMMA", Pattern: regexp.MustCompile(`,`)},
		{Name: "COLON", Pattern: regexp.MustCompile(`:`)},
		{Name: "DOT", Pattern: regexp.MustCompile(`\.`)},

		{Name: "IDENTIFIER", Pattern: regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)},
	}
	return defs
}

func ignorePattern() *regexp.Regexp {
	return regexp.MustCompile(`[ \t\r\n]*`)
}

// keywordMap maps matched IDENTIFIER text to its real token name: the
// fixed JSON/boolean/logical keywords, plus every built-in function name.
// Anything not in this map stays a plain IDENTIFIER, used for field names
// in dot-access and dict keys.
func keywordMap() map[string]string {
	m := map[string]string{
		"null":  "NULL",
		"true":  "TRUE",
		"false": "FALSE",
		"and":   "AND",
		"or":    "OR",
	}
	for _, n := range UnaryFcns {
		m[n] = tokFor(n)
	}
	for _, n := range NoArgFcns {
		m[n] = tokFor(n)
	}
	for _, n := range DualFcns {
		m[n] = tokFor(n)
	}
	return m
}
