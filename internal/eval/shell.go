package eval

import (
	"github.com/dekarrin/jqx/internal/lang"
	"github.com/dekarrin/jqx/internal/repl"
	"github.com/dekarrin/jqx/internal/value"
)

// biShell drops the user into an interactive prompt over dot, grounded on
// the kilojoule original's run_shell built-in. Each line the user enters
// is parsed and evaluated exactly like any other jqx query; an expression
// ending in "out" exits the shell and becomes sh's own result.
func biShell(dot value.Value) (value.Value, error) {
	return repl.Run(dot, func(d value.Value, query string) (value.Value, error) {
		n, err := lang.Parse(query)
		if err != nil {
			return value.Value{}, err
		}
		return Eval(d, n)
	})
}
