package eval

import (
	"bytes"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/jqx/internal/ast"
	"github.com/dekarrin/jqx/internal/jqxerr"
	"github.com/dekarrin/jqx/internal/value"
)

// callUnary dispatches a UnaryFcn node: a built-in invoked with an explicit
// expression argument.
func callUnary(dot value.Value, name string, arg ast.Expr) (value.Value, error) {
	switch name {
	case "map":
		return biMap(dot, arg)
	case "filter":
		return biFilter(dot, arg)
	case "group":
		return biGroup(dot, arg)
	case "join":
		return biJoin(dot, arg)
	case "exec":
		return biExec(dot, arg)
	case "recursivemap":
		return biRecursiveMap(dot, arg)
	case "recursiveflatten":
		return biRecursiveFlatten(dot, arg)
	case "if":
		return biIf(dot, arg)
	case "write":
		return biWrite(dot, arg)
	case "sort":
		return biSort(dot, arg)
	case "split":
		return biSplit(dot, arg)
	case "read":
		return biReadFile(dot, arg)
	case "not":
		return biNotUnary(dot, arg)
	default:
		return value.Value{}, jqxerr.UnknownFunctionf("unknown function %q", name)
	}
}

// callNoArg dispatches a NoArgFcn node: a built-in evaluated purely against
// the dot.
func callNoArg(dot value.Value, name string) (value.Value, error) {
	switch name {
	case "len":
		return biLen(dot)
	case "entries":
		return biEntries(dot)
	case "todict":
		return biToDict(dot)
	case "keys":
		return biKeys(dot)
	case "values":
		return biValues(dot)
	case "sum":
		return biSum(dot)
	case "in":
		return dot, nil
	case "out":
		return value.OutputOf(dot), nil
	case "parse":
		return biParse(dot)
	case "trim":
		return biTrim(dot)
	case "lines":
		return biLines(dot)
	case "lower":
		return biLower(dot)
	case "upper":
		return biUpper(dot)
	case "number":
		return biNumber(dot)
	case "isfile":
		return biIsFile(dot)
	case "isdir":
		return biIsDir(dot)
	case "exists":
		return biExists(dot)
	case "listdir":
		return biListDir(dot)
	case "joinlines":
		return biJoinLines(dot)
	case "env":
		return biEnv(dot)
	case "flatten":
		return biFlatten(dot)
	case "all":
		return biAll(dot)
	case "any":
		return biAny(dot)
	case "sh":
		return biShell(dot)
	case "combinations":
		return biCombinations(dot)
	case "zip":
		return biZip(dot)
	case "sort":
		return biSort(dot, ast.Echo{})
	case "split":
		return biSplitNoArg(dot)
	case "read":
		return biReadStdin()
	case "not":
		return biNotNoArg(dot)
	default:
		return value.Value{}, jqxerr.UnknownFunctionf("unknown function %q", name)
	}
}

func requireArray(v value.Value, who string) ([]value.Value, error) {
	if v.Kind() != value.Array {
		return nil, jqxerr.Typef("%s requires an array, got %s", who, v.Kind())
	}
	return v.Array(), nil
}

func requireString(v value.Value, who string) (string, error) {
	if v.Kind() != value.String {
		return "", jqxerr.Typef("%s requires a string, got %s", who, v.Kind())
	}
	return v.String(), nil
}

func biMap(dot value.Value, arg ast.Expr) (value.Value, error) {
	arr, err := requireArray(dot, "map")
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, len(arr))
	for i, e := range arr {
		v, err := Eval(e, arg)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = v
	}
	return value.ArrayOf(out), nil
}

func biFilter(dot value.Value, arg ast.Expr) (value.Value, error) {
	arr, err := requireArray(dot, "filter")
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	for _, e := range arr {
		v, err := Eval(e, arg)
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind() != value.Bool {
			return value.Value{}, jqxerr.Typef("filter predicate must return a bool, got %s", v.Kind())
		}
		if v.Bool() {
			out = append(out, e)
		}
	}
	return value.ArrayOf(out), nil
}

// biGroup partitions dot's elements into buckets of equal SortKey(Eval(elem,
// arg)), preserving first-appearance order of both buckets and elements
// within a bucket, and returns an array of those buckets.
func biGroup(dot value.Value, arg ast.Expr) (value.Value, error) {
	arr, err := requireArray(dot, "group")
	if err != nil {
		return value.Value{}, err
	}
	var order []string
	buckets := map[string][]value.Value{}
	for _, e := range arr {
		k, err := Eval(e, arg)
		if err != nil {
			return value.Value{}, err
		}
		key := value.SortKey(k)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}
	out := make([]value.Value, len(order))
	for i, key := range order {
		out[i] = value.ArrayOf(buckets[key])
	}
	return value.ArrayOf(out), nil
}

func biSort(dot value.Value, arg ast.Expr) (value.Value, error) {
	arr, err := requireArray(dot, "sort")
	if err != nil {
		return value.Value{}, err
	}
	type keyed struct {
		v value.Value
		k value.Value
	}
	ks := make([]keyed, len(arr))
	for i, e := range arr {
		k, err := Eval(e, arg)
		if err != nil {
			return value.Value{}, err
		}
		ks[i] = keyed{v: e, k: k}
	}
	sort.SliceStable(ks, func(i, j int) bool { return value.Less(ks[i].k, ks[j].k) })
	out := make([]value.Value, len(ks))
	for i, kv := range ks {
		out[i] = kv.v
	}
	return value.ArrayOf(out), nil
}

func biJoin(dot value.Value, arg ast.Expr) (value.Value, error) {
	arr, err := requireArray(dot, "join")
	if err != nil {
		return value.Value{}, err
	}
	sep, err := Eval(dot, arg)
	if err != nil {
		return value.Value{}, err
	}
	sepStr, err := requireString(sep, "join separator")
	if err != nil {
		return value.Value{}, err
	}
	parts := make([]string, len(arr))
	for i, e := range arr {
		s, err := requireString(e, "join element")
		if err != nil {
			return value.Value{}, err
		}
		parts[i] = s
	}
	return value.StringOf(strings.Join(parts, sepStr)), nil
}

func biSplit(dot value.Value, arg ast.Expr) (value.Value, error) {
	s, err := requireString(dot, "split")
	if err != nil {
		return value.Value{}, err
	}
	sep, err := Eval(dot, arg)
	if err != nil {
		return value.Value{}, err
	}
	sepStr, err := requireString(sep, "split separator")
	if err != nil {
		return value.Value{}, err
	}
	parts := strings.Split(s, sepStr)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.StringOf(p)
	}
	return value.ArrayOf(out), nil
}

func biSplitNoArg(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "split")
	if err != nil {
		return value.Value{}, err
	}
	parts := strings.Fields(s)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.StringOf(p)
	}
	return value.ArrayOf(out), nil
}

// biExec ports the kilojoule original's subprocess.Popen built-in to
// os/exec: dot (a string, or null for no stdin) feeds the child's stdin,
// arg evaluates to an array of strings giving the command and its
// arguments, and the child's stdout becomes the result. Stderr is forwarded
// to the host's own stderr rather than captured.
func biExec(dot value.Value, arg ast.Expr) (value.Value, error) {
	argv, err := Eval(dot, arg)
	if err != nil {
		return value.Value{}, err
	}
	argvArr, err := requireArray(argv, "exec")
	if err != nil {
		return value.Value{}, err
	}
	if len(argvArr) == 0 {
		return value.Value{}, jqxerr.Typef("exec requires a non-empty array of command arguments")
	}
	parts := make([]string, len(argvArr))
	for i, e := range argvArr {
		s, err := requireString(e, "exec argument")
		if err != nil {
			return value.Value{}, err
		}
		parts[i] = s
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stderr = os.Stderr
	if dot.Kind() == value.String {
		cmd.Stdin = strings.NewReader(dot.String())
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return value.Value{}, jqxerr.WrapIO(err, "exec %q failed", parts[0])
	}
	return value.StringOf(out.String()), nil
}

// biRecursiveMap walks dot, applying arg to every scalar leaf (Null, Bool,
// Number, String) and leaving Array/Object structure in place.
func biRecursiveMap(dot value.Value, arg ast.Expr) (value.Value, error) {
	switch dot.Kind() {
	case value.Array:
		arr := dot.Array()
		out := make([]value.Value, len(arr))
		for i, e := range arr {
			v, err := biRecursiveMap(e, arg)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = v
		}
		return value.ArrayOf(out), nil
	case value.Object:
		out := value.NewMap()
		for _, k := range dot.Object().Keys() {
			e, _ := dot.Object().Get(k)
			v, err := biRecursiveMap(e, arg)
			if err != nil {
				return value.Value{}, err
			}
			out.Set(k, v)
		}
		return value.ObjectOf(out), nil
	default:
		return Eval(dot, arg)
	}
}

// biRecursiveFlatten flattens every nested array into one flat array,
// applying arg to each non-array leaf first.
func biRecursiveFlatten(dot value.Value, arg ast.Expr) (value.Value, error) {
	var out []value.Value
	var walk func(value.Value) error
	walk = func(v value.Value) error {
		if v.Kind() == value.Array {
			for _, e := range v.Array() {
				if err := walk(e); err != nil {
					return err
				}
			}
			return nil
		}
		mapped, err := Eval(v, arg)
		if err != nil {
			return err
		}
		out = append(out, mapped)
		return nil
	}
	if err := walk(dot); err != nil {
		return value.Value{}, err
	}
	return value.ArrayOf(out), nil
}

// biIf implements the "if" built-in by inspecting arg's shape directly
// before evaluating anything: arg must be a Dict literal with a "cond" key
// and a "then" key, and an optional "else" key defaulting to a Null
// literal. cond is evaluated first; only the branch it selects is ever
// evaluated, so a branch that would error when not taken never runs.
func biIf(dot value.Value, arg ast.Expr) (value.Value, error) {
	d, ok := arg.(ast.Dict)
	if !ok {
		return value.Value{}, jqxerr.Typef("if requires a dict literal with cond/then/else keys")
	}
	var condExpr, thenExpr, elseExpr ast.Expr
	elseExpr = ast.Null{}
	for _, el := range d.Elements {
		if el.Kind != ast.DictKV {
			continue
		}
		key, ok := el.Key.(ast.StringLit)
		if !ok {
			continue
		}
		switch key.Value {
		case "cond":
			condExpr = el.Value
		case "then":
			thenExpr = el.Value
		case "else":
			elseExpr = el.Value
		}
	}
	if condExpr == nil || thenExpr == nil {
		return value.Value{}, jqxerr.Typef("if requires a dict literal with cond/then/else keys")
	}
	cond, err := Eval(dot, condExpr)
	if err != nil {
		return value.Value{}, err
	}
	if cond.Kind() != value.Bool {
		return value.Value{}, jqxerr.Typef("if condition must be a bool, got %s", cond.Kind())
	}
	if cond.Bool() {
		return Eval(dot, thenExpr)
	}
	return Eval(dot, elseExpr)
}

func biNotUnary(dot value.Value, arg ast.Expr) (value.Value, error) {
	v, err := Eval(dot, arg)
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind() != value.Bool {
		return value.Value{}, jqxerr.Typef("not requires a bool, got %s", v.Kind())
	}
	return value.BoolOf(!v.Bool()), nil
}

func biNotNoArg(dot value.Value) (value.Value, error) {
	if dot.Kind() != value.Bool {
		return value.Value{}, jqxerr.Typef("not requires a bool, got %s", dot.Kind())
	}
	return value.BoolOf(!dot.Bool()), nil
}

func biReadFile(dot value.Value, arg ast.Expr) (value.Value, error) {
	nameV, err := Eval(dot, arg)
	if err != nil {
		return value.Value{}, err
	}
	name, err := requireString(nameV, "read filename")
	if err != nil {
		return value.Value{}, err
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return value.Value{}, jqxerr.WrapIO(err, "read %q failed", name)
	}
	return value.StringOf(string(b)), nil
}

func biReadStdin() (value.Value, error) {
	b, err := readAllStdin()
	if err != nil {
		return value.Value{}, jqxerr.WrapIO(err, "read stdin failed")
	}
	return value.StringOf(string(b)), nil
}

func biWrite(dot value.Value, arg ast.Expr) (value.Value, error) {
	s, err := requireString(dot, "write")
	if err != nil {
		return value.Value{}, err
	}
	nameV, err := Eval(dot, arg)
	if err != nil {
		return value.Value{}, err
	}
	name, err := requireString(nameV, "write filename")
	if err != nil {
		return value.Value{}, err
	}
	if err := os.WriteFile(name, []byte(s), 0644); err != nil {
		return value.Value{}, jqxerr.WrapIO(err, "write %q failed", name)
	}
	return dot, nil
}

func biLen(dot value.Value) (value.Value, error) {
	switch dot.Kind() {
	case value.Array:
		return value.NumberOf(float64(len(dot.Array()))), nil
	case value.String:
		return value.NumberOf(float64(len([]rune(dot.String())))), nil
	case value.Object:
		return value.NumberOf(float64(dot.Object().Len())), nil
	default:
		return value.Value{}, jqxerr.Typef("len requires an array, string, or object, got %s", dot.Kind())
	}
}

func biEntries(dot value.Value) (value.Value, error) {
	if dot.Kind() != value.Object {
		return value.Value{}, jqxerr.Typef("entries requires an object, got %s", dot.Kind())
	}
	out := make([]value.Value, 0, dot.Object().Len())
	for _, k := range dot.Object().Keys() {
		v, _ := dot.Object().Get(k)
		out = append(out, value.ArrayOf([]value.Value{value.StringOf(k), v}))
	}
	return value.ArrayOf(out), nil
}

func biToDict(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "todict")
	if err != nil {
		return value.Value{}, err
	}
	m := value.NewMap()
	for _, e := range arr {
		pair, err := requireArray(e, "todict entry")
		if err != nil {
			return value.Value{}, err
		}
		if len(pair) != 2 {
			return value.Value{}, jqxerr.Typef("todict entry must be a 2-element array, got length %d", len(pair))
		}
		key, err := requireString(pair[0], "todict key")
		if err != nil {
			return value.Value{}, err
		}
		m.Set(key, pair[1])
	}
	return value.ObjectOf(m), nil
}

func biKeys(dot value.Value) (value.Value, error) {
	if dot.Kind() != value.Object {
		return value.Value{}, jqxerr.Typef("keys requires an object, got %s", dot.Kind())
	}
	keys := dot.Object().Keys()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		out[i] = value.StringOf(k)
	}
	return value.ArrayOf(out), nil
}

func biValues(dot value.Value) (value.Value, error) {
	if dot.Kind() != value.Object {
		return value.Value{}, jqxerr.Typef("values requires an object, got %s", dot.Kind())
	}
	keys := dot.Object().Keys()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		out[i], _ = dot.Object().Get(k)
	}
	return value.ArrayOf(out), nil
}

func biSum(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "sum")
	if err != nil {
		return value.Value{}, err
	}
	var total float64
	for _, e := range arr {
		if e.Kind() != value.Number {
			return value.Value{}, jqxerr.Typef("sum requires an array of numbers, got %s", e.Kind())
		}
		total += e.Number()
	}
	return value.NumberOf(total), nil
}

func biParse(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "parse")
	if err != nil {
		return value.Value{}, err
	}
	return value.Parse(s)
}

func biTrim(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "trim")
	if err != nil {
		return value.Value{}, err
	}
	return value.StringOf(strings.TrimSpace(s)), nil
}

func biLines(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "lines")
	if err != nil {
		return value.Value{}, err
	}
	parts := strings.Split(s, "\n")
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.StringOf(p)
	}
	return value.ArrayOf(out), nil
}

func biLower(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "lower")
	if err != nil {
		return value.Value{}, err
	}
	return value.StringOf(strings.ToLower(s)), nil
}

func biUpper(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "upper")
	if err != nil {
		return value.Value{}, err
	}
	return value.StringOf(strings.ToUpper(s)), nil
}

func biNumber(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "number")
	if err != nil {
		return value.Value{}, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return value.Value{}, jqxerr.Typef("number: cannot parse %q as a number", s)
	}
	return value.NumberOf(f), nil
}

func biIsFile(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "isfile")
	if err != nil {
		return value.Value{}, err
	}
	info, err := os.Stat(s)
	return value.BoolOf(err == nil && !info.IsDir()), nil
}

func biIsDir(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "isdir")
	if err != nil {
		return value.Value{}, err
	}
	info, err := os.Stat(s)
	return value.BoolOf(err == nil && info.IsDir()), nil
}

func biExists(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "exists")
	if err != nil {
		return value.Value{}, err
	}
	_, err = os.Stat(s)
	return value.BoolOf(err == nil), nil
}

func biListDir(dot value.Value) (value.Value, error) {
	s, err := requireString(dot, "listdir")
	if err != nil {
		return value.Value{}, err
	}
	entries, err := os.ReadDir(s)
	if err != nil {
		return value.Value{}, jqxerr.WrapIO(err, "listdir %q failed", s)
	}
	out := make([]value.Value, len(entries))
	for i, e := range entries {
		out[i] = value.StringOf(e.Name())
	}
	return value.ArrayOf(out), nil
}

// biJoinLines joins an array of strings with newlines and a trailing
// newline, kept verbatim from the kilojoule original's joinlines, including
// its empty-array special case (an empty result, not a lone newline).
func biJoinLines(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "joinlines")
	if err != nil {
		return value.Value{}, err
	}
	if len(arr) == 0 {
		return value.StringOf(""), nil
	}
	parts := make([]string, len(arr))
	for i, e := range arr {
		s, err := requireString(e, "joinlines element")
		if err != nil {
			return value.Value{}, err
		}
		parts[i] = s
	}
	return value.StringOf(strings.Join(parts, "\n") + "\n"), nil
}

func biEnv(dot value.Value) (value.Value, error) {
	m := value.NewMap()
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			m.Set(parts[0], value.StringOf(parts[1]))
		}
	}
	return value.ObjectOf(m), nil
}

func biFlatten(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "flatten")
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	for _, e := range arr {
		if e.Kind() == value.Array {
			out = append(out, e.Array()...)
		} else {
			out = append(out, e)
		}
	}
	return value.ArrayOf(out), nil
}

func biAll(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "all")
	if err != nil {
		return value.Value{}, err
	}
	for _, e := range arr {
		if e.Kind() != value.Bool {
			return value.Value{}, jqxerr.Typef("all requires an array of bools, got %s", e.Kind())
		}
		if !e.Bool() {
			return value.BoolOf(false), nil
		}
	}
	return value.BoolOf(true), nil
}

func biAny(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "any")
	if err != nil {
		return value.Value{}, err
	}
	for _, e := range arr {
		if e.Kind() != value.Bool {
			return value.Value{}, jqxerr.Typef("any requires an array of bools, got %s", e.Kind())
		}
		if e.Bool() {
			return value.BoolOf(true), nil
		}
	}
	return value.BoolOf(false), nil
}

func biCombinations(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "combinations")
	if err != nil {
		return value.Value{}, err
	}
	lists := make([][]value.Value, len(arr))
	for i, e := range arr {
		lists[i], err = requireArray(e, "combinations element")
		if err != nil {
			return value.Value{}, err
		}
	}
	if len(lists) == 0 {
		return value.ArrayOf(nil), nil
	}
	results := [][]value.Value{{}}
	for _, list := range lists {
		var next [][]value.Value
		for _, prefix := range results {
			for _, item := range list {
				combo := append(append([]value.Value(nil), prefix...), item)
				next = append(next, combo)
			}
		}
		results = next
	}
	out := make([]value.Value, len(results))
	for i, combo := range results {
		out[i] = value.ArrayOf(combo)
	}
	return value.ArrayOf(out), nil
}

func biZip(dot value.Value) (value.Value, error) {
	arr, err := requireArray(dot, "zip")
	if err != nil {
		return value.Value{}, err
	}
	lists := make([][]value.Value, len(arr))
	shortest := -1
	for i, e := range arr {
		lists[i], err = requireArray(e, "zip element")
		if err != nil {
			return value.Value{}, err
		}
		if shortest == -1 || len(lists[i]) < shortest {
			shortest = len(lists[i])
		}
	}
	if shortest < 0 {
		shortest = 0
	}
	out := make([]value.Value, shortest)
	for i := 0; i < shortest; i++ {
		row := make([]value.Value, len(lists))
		for j, list := range lists {
			row[j] = list[i]
		}
		out[i] = value.ArrayOf(row)
	}
	return value.ArrayOf(out), nil
}
