// Package eval tree-walks a jqx AST against a value.Value "dot", producing
// another value.Value or a jqxerr error -- the direct port of the
// kilojoule original's evaluate_expr, restructured as a Go type switch in
// place of the original's isinstance chain.
package eval

import (
	"github.com/dekarrin/jqx/internal/ast"
	"github.com/dekarrin/jqx/internal/jqxerr"
	"github.com/dekarrin/jqx/internal/value"
)

// Eval evaluates n against dot.
func Eval(dot value.Value, n ast.Expr) (value.Value, error) {
	switch node := n.(type) {
	case ast.Echo:
		return dot, nil

	case ast.NumberLit:
		return value.NumberOf(node.Value), nil

	case ast.StringLit:
		return value.StringOf(node.Value), nil

	case ast.Null:
		return value.NullValue, nil
	case ast.True:
		return value.BoolOf(true), nil
	case ast.False:
		return value.BoolOf(false), nil

	case ast.FormatString:
		return evalFormatString(dot, node)

	case ast.Access:
		return evalAccess(dot, node)
	case ast.Index:
		return evalIndex(dot, node)
	case ast.Slice:
		return evalSlice(dot, node)

	case ast.Array:
		return evalArray(dot, node)
	case ast.Dict:
		return evalDict(dot, node)

	case ast.Pipe:
		left, err := Eval(dot, node.Left)
		if err != nil {
			return value.Value{}, err
		}
		return Eval(left, node.Right)

	case ast.UnaryFcn:
		return callUnary(dot, node.Name, node.Arg)
	case ast.NoArgFcn:
		return callNoArg(dot, node.Name)

	case ast.BinaryOp:
		return evalBinaryOp(dot, node)

	case ast.Negate:
		v, err := Eval(dot, node.Expr)
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind() != value.Number {
			return value.Value{}, jqxerr.Typef("cannot negate a %s", v.Kind())
		}
		return value.NumberOf(-v.Number()), nil

	default:
		return value.Value{}, jqxerr.Typef("unhandled expression node %T", n)
	}
}

func evalFormatString(dot value.Value, node ast.FormatString) (value.Value, error) {
	var out string
	for _, part := range node.Parts {
		if part.Expr == nil {
			out += part.Literal
			continue
		}
		v, err := Eval(dot, part.Expr)
		if err != nil {
			return value.Value{}, err
		}
		out += stringifyForInterpolation(v)
	}
	return value.StringOf(out), nil
}

// stringifyForInterpolation renders v the way a format string embeds a
// sub-expression's result: strings pass through raw, everything else is
// compact JSON -- the same split the original's obj_to_str makes between
// "obj is already text" and "obj needs encoding".
func stringifyForInterpolation(v value.Value) string {
	if v.Kind() == value.String {
		return v.String()
	}
	return v.MarshalIndent("")
}

func evalAccess(dot value.Value, node ast.Access) (value.Value, error) {
	target, err := Eval(dot, node.Target)
	if err != nil {
		return value.Value{}, err
	}
	if target.IsNull() {
		return value.NullValue, nil
	}
	if target.Kind() != value.Object {
		return value.Value{}, jqxerr.Typef("cannot access field %q of a %s", node.Field, target.Kind())
	}
	v, ok := target.Object().Get(node.Field)
	if !ok {
		return value.NullValue, nil
	}
	return v, nil
}

func evalIndex(dot value.Value, node ast.Index) (value.Value, error) {
	target, err := Eval(dot, node.Target)
	if err != nil {
		return value.Value{}, err
	}
	if target.IsNull() {
		return value.NullValue, nil
	}
	key, err := Eval(dot, node.Key)
	if err != nil {
		return value.Value{}, err
	}

	switch target.Kind() {
	case value.Array:
		if key.Kind() != value.Number || !key.IsInteger() {
			return value.Value{}, jqxerr.Typef("array index must be an integer, got %s", key.Kind())
		}
		arr := target.Array()
		idx := key.Int()
		if idx < 0 {
			idx += len(arr)
		}
		if idx < 0 || idx >= len(arr) {
			return value.Value{}, jqxerr.Indexf("index %d out of range for array of length %d", key.Int(), len(arr))
		}
		return arr[idx], nil
	case value.Object:
		if key.Kind() != value.String {
			return value.Value{}, jqxerr.Typef("object key must be a string, got %s", key.Kind())
		}
		v, ok := target.Object().Get(key.String())
		if !ok {
			return value.NullValue, nil
		}
		return v, nil
	default:
		return value.Value{}, jqxerr.Typef("cannot index a %s", target.Kind())
	}
}

func evalSlice(dot value.Value, node ast.Slice) (value.Value, error) {
	target, err := Eval(dot, node.Target)
	if err != nil {
		return value.Value{}, err
	}
	if target.IsNull() {
		return value.NullValue, nil
	}

	var length int
	switch target.Kind() {
	case value.Array:
		length = len(target.Array())
	case value.String:
		length = len([]rune(target.String()))
	default:
		return value.Value{}, jqxerr.Typef("cannot slice a %s", target.Kind())
	}

	lo, hi, err := sliceBounds(dot, node.Start, node.End, length)
	if err != nil {
		return value.Value{}, err
	}

	if target.Kind() == value.Array {
		return value.ArrayOf(append([]value.Value(nil), target.Array()[lo:hi]...)), nil
	}
	runes := []rune(target.String())
	return value.StringOf(string(runes[lo:hi])), nil
}

func sliceBounds(dot value.Value, startExpr, endExpr ast.Expr, length int) (int, int, error) {
	lo, hi := 0, length
	if startExpr != nil {
		v, err := Eval(dot, startExpr)
		if err != nil {
			return 0, 0, err
		}
		if v.Kind() != value.Number {
			return 0, 0, jqxerr.Typef("slice bound must be a number, got %s", v.Kind())
		}
		lo = v.Int()
		if lo < 0 {
			lo += length
		}
	}
	if endExpr != nil {
		v, err := Eval(dot, endExpr)
		if err != nil {
			return 0, 0, err
		}
		if v.Kind() != value.Number {
			return 0, 0, jqxerr.Typef("slice bound must be a number, got %s", v.Kind())
		}
		hi = v.Int()
		if hi < 0 {
			hi += length
		}
	}
	if lo < 0 {
		lo = 0
	}
	if hi > length {
		hi = length
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi, nil
}

func evalArray(dot value.Value, node ast.Array) (value.Value, error) {
	var out []value.Value
	for _, elem := range node.Elements {
		v, err := Eval(dot, elem.Expr)
		if err != nil {
			return value.Value{}, err
		}
		if elem.Spread {
			if v.Kind() != value.Array {
				return value.Value{}, jqxerr.Typef("cannot spread a %s into an array", v.Kind())
			}
			out = append(out, v.Array()...)
			continue
		}
		out = append(out, v)
	}
	return value.ArrayOf(out), nil
}

func evalDict(dot value.Value, node ast.Dict) (value.Value, error) {
	result := value.NewMap()
	for _, elem := range node.Elements {
		switch elem.Kind {
		case ast.DictKV:
			key, err := Eval(dot, elem.Key)
			if err != nil {
				return value.Value{}, err
			}
			if key.Kind() != value.String {
				return value.Value{}, jqxerr.Typef("dict key must be a string, got %s", key.Kind())
			}
			val, err := Eval(dot, elem.Value)
			if err != nil {
				return value.Value{}, err
			}
			result.Set(key.String(), val)

		case ast.DictSpread:
			v, err := Eval(dot, elem.Value)
			if err != nil {
				return value.Value{}, err
			}
			if v.Kind() != value.Object {
				return value.Value{}, jqxerr.Typef("cannot spread a %s into a dict", v.Kind())
			}
			for _, k := range v.Object().Keys() {
				val, _ := v.Object().Get(k)
				result.Set(k, val)
			}

		case ast.DictOmit:
			result.Delete(elem.Name)

		case ast.DictAccessShortcut:
			if dot.Kind() != value.Object {
				return value.Value{}, jqxerr.Typef("cannot shortcut-access field %q of a %s", elem.Name, dot.Kind())
			}
			v, ok := dot.Object().Get(elem.Name)
			if !ok {
				v = value.NullValue
			}
			result.Set(elem.Name, v)
		}
	}
	return value.ObjectOf(result), nil
}

func evalBinaryOp(dot value.Value, node ast.BinaryOp) (value.Value, error) {
	switch node.Op {
	case "or", "and":
		l, err := Eval(dot, node.Left)
		if err != nil {
			return value.Value{}, err
		}
		if l.Kind() != value.Bool {
			return value.Value{}, jqxerr.Typef("left side of %q must be a bool, got %s", node.Op, l.Kind())
		}
		if (node.Op == "or" && l.Bool()) || (node.Op == "and" && !l.Bool()) {
			return l, nil
		}
		r, err := Eval(dot, node.Right)
		if err != nil {
			return value.Value{}, err
		}
		if r.Kind() != value.Bool {
			return value.Value{}, jqxerr.Typef("right side of %q must be a bool, got %s", node.Op, r.Kind())
		}
		return r, nil

	case "??":
		l, err := Eval(dot, node.Left)
		if err != nil {
			return value.Value{}, err
		}
		if !l.IsNull() {
			return l, nil
		}
		return Eval(dot, node.Right)

	case "==", "!=":
		l, err := Eval(dot, node.Left)
		if err != nil {
			return value.Value{}, err
		}
		r, err := Eval(dot, node.Right)
		if err != nil {
			return value.Value{}, err
		}
		eq := l.Equal(r)
		if node.Op == "!=" {
			eq = !eq
		}
		return value.BoolOf(eq), nil

	case "<", "<=", ">", ">=":
		l, err := Eval(dot, node.Left)
		if err != nil {
			return value.Value{}, err
		}
		r, err := Eval(dot, node.Right)
		if err != nil {
			return value.Value{}, err
		}
		var result bool
		switch node.Op {
		case "<":
			result = value.Less(l, r)
		case "<=":
			result = value.Less(l, r) || l.Equal(r)
		case ">":
			result = value.Less(r, l)
		case ">=":
			result = value.Less(r, l) || l.Equal(r)
		}
		return value.BoolOf(result), nil

	case "+":
		l, err := Eval(dot, node.Left)
		if err != nil {
			return value.Value{}, err
		}
		r, err := Eval(dot, node.Right)
		if err != nil {
			return value.Value{}, err
		}
		if l.Kind() != value.Number || r.Kind() != value.Number {
			return value.Value{}, jqxerr.Typef("cannot add %s and %s", l.Kind(), r.Kind())
		}
		return value.NumberOf(l.Number() + r.Number()), nil

	case "*", "/":
		l, err := Eval(dot, node.Left)
		if err != nil {
			return value.Value{}, err
		}
		r, err := Eval(dot, node.Right)
		if err != nil {
			return value.Value{}, err
		}
		if l.Kind() != value.Number || r.Kind() != value.Number {
			return value.Value{}, jqxerr.Typef("%q requires two numbers, got %s and %s", node.Op, l.Kind(), r.Kind())
		}
		if node.Op == "*" {
			return value.NumberOf(l.Number() * r.Number()), nil
		}
		if r.Number() == 0 {
			return value.Value{}, jqxerr.Typef("division by zero")
		}
		return value.NumberOf(l.Number() / r.Number()), nil

	default:
		return value.Value{}, jqxerr.Typef("unknown operator %q", node.Op)
	}
}
