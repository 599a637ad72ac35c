/*
Jqx evaluates a jqx expression against a JSON value.

Jqx starts with a null dot; use the "read"/"parse" built-ins to pull JSON
in from stdin or a file, the way the query itself controls all I/O rather
than the CLI doing it up front.

Usage:

	jqx [flags] [expression]

The flags are:

	-v, --version
		Give the current version of jqx and then exit.

If expression is omitted, jqx evaluates "in", the identity query, against
the null dot.

The query's result is printed to stdout as pretty-printed JSON, unless the
query's outermost operation is "out", in which case the wrapped value (which
must be a string) is written to stdout raw, with no trailing newline and no
JSON encoding -- this is how a jqx query produces output meant for another
program to consume unmodified.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/jqx/internal/eval"
	"github.com/dekarrin/jqx/internal/lang"
	"github.com/dekarrin/jqx/internal/printer"
	"github.com/dekarrin/jqx/internal/value"
	"github.com/dekarrin/jqx/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitParseError indicates the expression could not be parsed.
	ExitParseError

	// ExitEvalError indicates the expression parsed but failed during
	// evaluation.
	ExitEvalError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	query := "in"
	if args := pflag.Args(); len(args) >= 1 {
		query = args[0]
	}

	n, err := lang.Parse(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		returnCode = ExitParseError
		return
	}

	result, err := eval.Eval(value.NullValue, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		returnCode = ExitEvalError
		return
	}

	if out, ok := result.Unwrap(); ok {
		if out.Kind() != value.String {
			fmt.Fprintf(os.Stderr, "ERROR: out requires a string, got %s\n", out.Kind())
			returnCode = ExitEvalError
			return
		}
		fmt.Fprint(os.Stdout, out.String())
		return
	}

	fmt.Println(printer.Print(result))
}
