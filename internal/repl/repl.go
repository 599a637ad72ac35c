// Package repl implements the interactive shell the "sh" built-in drops a
// user into: a read-eval-print loop over jqx expressions evaluated against
// the current dot, grounded on the kilojoule original's run_shell and on
// the teacher's own readline-backed command reader
// (internal/input.InteractiveCommandReader), with colored output in the
// style of akashmaji946-go-mix's repl.Repl.
package repl

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/dekarrin/jqx/internal/printer"
	"github.com/dekarrin/jqx/internal/value"
)

var (
	promptColor = color.New(color.FgCyan)
	errorColor  = color.New(color.FgRed)
	resultColor = color.New(color.FgYellow)
)

// Evaluator evaluates a parsed jqx expression against a dot. internal/eval
// satisfies this via eval.Eval composed with lang.Parse; it is passed in
// here rather than imported directly to keep repl from depending on eval
// (which itself depends on repl, for the "sh" built-in).
type Evaluator func(dot value.Value, query string) (value.Value, error)

// Run starts an interactive prompt against dot, evaluating each line the
// user enters with eval. It returns when the user exits the shell (Ctrl+D,
// or an explicit "out" query), in which case the returned Value is
// whatever the evaluator produced as the shell's own result -- the same
// value "sh" should hand back to its caller: the value inside the Output
// wrapper (unwrapped) if the user ran an expression ending in "out", or
// dot unchanged if the user simply exited without one.
func Run(dot value.Value, eval Evaluator) (value.Value, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: promptColor.Sprint("> ")})
	if err != nil {
		return value.Value{}, err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return dot, nil
			}
			return value.Value{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		result, exit, err := step(dot, line, eval)
		if err != nil {
			errorColor.Printf("%s\n", err)
			continue
		}
		if exit {
			return result, nil
		}
		resultColor.Printf("%s\n", printer.Print(result))
	}
}

// step evaluates one line of shell input. exit is true when the expression
// produced an Output value (e.g. ended in "out"), in which case result is
// the unwrapped value the shell itself should return to its caller.
func step(dot value.Value, line string, eval Evaluator) (result value.Value, exit bool, err error) {
	v, err := eval(dot, line)
	if err != nil {
		return value.Value{}, false, err
	}
	if out, ok := v.Unwrap(); ok {
		return out, true, nil
	}
	return v, false, nil
}
