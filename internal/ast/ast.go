// Package ast defines the jqx expression tree. Every node type satisfies
// Expr via a private marker method; internal/eval dispatches over the
// concrete types with a type switch rather than the isinstance chain the
// kilojoule original uses, and rather than the accessor-method-per-variant
// idiom dekarrin/tunaq's own tunascript/syntax/ast.go uses for its larger
// AST -- jqx's variant set is small enough that a plain type switch at the
// one place that needs it (the evaluator) reads more directly.
package ast

// Expr is any jqx expression node.
type Expr interface {
	exprNode()
}

// Echo is the bare "." expression: yield the current dot unchanged.
type Echo struct{}

func (Echo) exprNode() {}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

func (NumberLit) exprNode() {}

// StringLit is a single- or double-quoted string literal with escapes
// already resolved.
type StringLit struct {
	Value string
}

func (StringLit) exprNode() {}

// FormatString is a 'literal {expr} literal' interpolated string. Parts
// alternate freely between literal fragments and embedded expressions.
type FormatString struct {
	Parts []FormatPart
}

func (FormatString) exprNode() {}

// FormatPart is one piece of a FormatString: either a literal fragment
// (Expr is nil) or an embedded expression (Literal is unused).
type FormatPart struct {
	Literal string
	Expr    Expr
}

// Null, True, and False are the JSON literal keywords.
type Null struct{}
type True struct{}
type False struct{}

func (Null) exprNode()  {}
func (True) exprNode()  {}
func (False) exprNode() {}

// Access is a static dot-access: Target.Field. A bare `.field` has Target
// Echo{}; a nil Target is not evaluable.
type Access struct {
	Target Expr
	Field  string
}

func (Access) exprNode() {}

// Index is a dynamic bracket-access: Target[Key].
type Index struct {
	Target Expr
	Key    Expr
}

func (Index) exprNode() {}

// Slice is Target[Start:End]; a nil Start or End means that bound was
// omitted (full-open on that side), matching Python slicing semantics.
type Slice struct {
	Target Expr
	Start  Expr
	End    Expr
}

func (Slice) exprNode() {}

// Array is an array-literal expression; each element may be a spread
// (*expr, which splices another array's elements in) or a plain value.
type Array struct {
	Elements []ArrayElem
}

func (Array) exprNode() {}

// ArrayElem is one element of an Array literal.
type ArrayElem struct {
	Expr   Expr
	Spread bool
}

// DictElemKind identifies which of the dict-literal element forms a
// DictElem represents.
type DictElemKind int

const (
	DictKV DictElemKind = iota
	DictSpread
	DictOmit
	DictAccessShortcut
)

// DictElem is one element of a Dict literal. Which fields are meaningful
// depends on Kind:
//   - DictKV: Key and Value
//   - DictSpread: Value (the expression being spread)
//   - DictOmit: Name (the key to delete, as in `-key`)
//   - DictAccessShortcut: Name (the field to pull off the dot and re-key
//     under the same name, as in `.field` inside a dict literal)
type DictElem struct {
	Kind  DictElemKind
	Key   Expr
	Value Expr
	Name  string
}

// Dict is a dict-literal expression.
type Dict struct {
	Elements []DictElem
}

func (Dict) exprNode() {}

// Pipe is Left | Right: evaluate Left against the dot, then evaluate Right
// with that result as the new dot.
type Pipe struct {
	Left  Expr
	Right Expr
}

func (Pipe) exprNode() {}

// UnaryFcn is a built-in invoked with an explicit expression argument, such
// as `map expr` or `filter expr`.
type UnaryFcn struct {
	Name string
	Arg  Expr
}

func (UnaryFcn) exprNode() {}

// NoArgFcn is a built-in invoked with no argument, evaluated purely against
// the dot, such as `len` or `keys`.
type NoArgFcn struct {
	Name string
}

func (NoArgFcn) exprNode() {}

// BinaryOp is any one of the binary operators: "or", "and", "<", "<=",
// ">", ">=", "==", "!=", "+", "*", "/", and "??" (optional-default).
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryOp) exprNode() {}

// Negate is unary "-expr".
type Negate struct {
	Expr Expr
}

func (Negate) exprNode() {}
