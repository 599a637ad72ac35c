// Package printer renders a value.Value the way jqx's CLI and shell report
// a query's final result, grounded on the kilojoule original's
// to_printable_str/obj_to_str: a bare string is JSON-quoted like any other
// value (unlike a string embedded in a format string, which passes through
// raw), and everything else is pretty-printed JSON at a fixed two-space
// indent.
package printer

import "github.com/dekarrin/jqx/internal/value"

// Print renders v as the text jqx would write to stdout for a top-level
// query result. If v is an Output sentinel, it is unwrapped first -- the
// CLI/REPL boundary is the one place Output is ever peeled off.
func Print(v value.Value) string {
	if u, ok := v.Unwrap(); ok {
		v = u
	}
	if v.Kind() == value.String {
		return quoteString(v.String())
	}
	return v.MarshalIndent("  ")
}

func quoteString(s string) string {
	return value.StringOf(s).MarshalIndent("")
}
