package expr

import (
	"fmt"
	"math"
)

// LookupFunc resolves a bare identifier to a value. Returning an error
// (typically *UndefinedSymbolError) fails the evaluation.
type LookupFunc func(name string) (Value, error)

// MemberFunc resolves a member access on a value. ok=false defers to the
// evaluator's built-in member rules (maps, colors, fonts).
type MemberFunc func(base Value, name string) (v Value, ok bool, err error)

// Func is a function callable from expressions.
type Func func(args []Value) (Value, error)

// Context supplies the symbol, member, and function lookups plus the
// percentage reference dimension for one evaluation.
type Context struct {
	// Lookup resolves identifiers. Required for expressions that read
	// symbols; nil makes every identifier undefined.
	Lookup LookupFunc

	// Member optionally intercepts member access (node scopes).
	Member MemberFunc

	// Funcs is the callable function registry.
	Funcs map[string]Func

	// PercentBase lazily resolves the reference dimension for percentage
	// literals. Nil means no reference is available; using a percentage
	// then fails.
	PercentBase func() (float64, error)
}

// Eval evaluates the expression against ctx and coerces the result to the
// expected kind. A nil result is permitted only when the expected kind is
// string-like (KindString), opaque (KindObject, which covers image-style
// properties), or unconstrained (KindAny); it is returned uncoerced as
// "no value".
func Eval(e *Expression, ctx *Context, expected Kind) (Value, error) {
	if e.root == nil {
		return nilResult(expected)
	}
	v, err := evalNode(e.root, ctx)
	if err != nil {
		return Value{}, err
	}
	if v.IsNil() {
		return nilResult(expected)
	}
	return v.Coerce(expected)
}

func nilResult(expected Kind) (Value, error) {
	switch expected {
	case KindAny, KindString, KindObject:
		return Nil(), nil
	default:
		return Value{}, mismatch(expected, KindNil)
	}
}

func evalNode(n Node, ctx *Context) (Value, error) {
	switch t := n.(type) {
	case *NumberLit:
		if !t.IsPercent {
			return Number(t.Value), nil
		}
		if ctx.PercentBase == nil {
			return Value{}, fmt.Errorf("percentage literal %s%% used with no reference dimension", formatNumber(t.Value))
		}
		base, err := ctx.PercentBase()
		if err != nil {
			return Value{}, err
		}
		return Number(base * t.Value / 100), nil

	case *BoolLit:
		return Bool(t.Value), nil

	case *StringLit:
		return String(t.Value), nil

	case *ColorLit:
		return ColorValue(t.Value), nil

	case *Ident:
		if ctx.Lookup == nil {
			return Value{}, &UndefinedSymbolError{Name: t.Name}
		}
		return ctx.Lookup(t.Name)

	case *Member:
		base, err := evalNode(t.Base, ctx)
		if err != nil {
			return Value{}, err
		}
		return evalMember(base, t.Name, ctx)

	case *Unary:
		return evalUnary(t, ctx)

	case *Binary:
		return evalBinary(t, ctx)

	case *Conditional:
		cond, err := evalNode(t.Cond, ctx)
		if err != nil {
			return Value{}, err
		}
		b, err := wantBool(cond)
		if err != nil {
			return Value{}, err
		}
		if b {
			return evalNode(t.Then, ctx)
		}
		return evalNode(t.Else, ctx)

	case *Call:
		fn, ok := ctx.Funcs[t.Name]
		if !ok {
			return Value{}, &UndefinedSymbolError{Name: t.Name}
		}
		args := make([]Value, len(t.Args))
		for i, argNode := range t.Args {
			arg, err := evalNode(argNode, ctx)
			if err != nil {
				return Value{}, err
			}
			args[i] = arg
		}
		v, err := fn(args)
		if err != nil {
			return Value{}, fmt.Errorf("%s(): %w", t.Name, err)
		}
		return v, nil

	case *Template:
		return evalTemplate(t, ctx)

	default:
		return Value{}, fmt.Errorf("unknown expression node %T", n)
	}
}

// evalMember resolves base.name. A nil base yields nil, so a dangling
// reference like a first sibling's "previous.right" stays recoverable
// with ??. The host hook runs first; the built-in rules cover map
// objects, colors, and fonts.
func evalMember(base Value, name string, ctx *Context) (Value, error) {
	if base.IsNil() {
		return Nil(), nil
	}
	if ctx.Member != nil {
		v, ok, err := ctx.Member(base, name)
		if err != nil {
			return Value{}, err
		}
		if ok {
			return v, nil
		}
	}

	switch base.Kind() {
	case KindObject:
		switch m := base.Obj().(type) {
		case map[string]any:
			if v, ok := m[name]; ok {
				return FromAny(v), nil
			}
		case map[string]Value:
			if v, ok := m[name]; ok {
				return v, nil
			}
		}

	case KindColor:
		c := base.Color()
		switch name {
		case "red":
			return Number(float64(c.R)), nil
		case "green":
			return Number(float64(c.G)), nil
		case "blue":
			return Number(float64(c.B)), nil
		case "alpha":
			return Number(float64(c.A) / 255), nil
		}

	case KindFont:
		f := base.Font()
		switch name {
		case "family":
			return String(f.Family), nil
		case "size":
			return Number(f.Size), nil
		case "bold":
			return Bool(f.Bold), nil
		case "italic":
			return Bool(f.Italic), nil
		}
	}

	return Value{}, &UndefinedSymbolError{Name: name}
}

func evalUnary(t *Unary, ctx *Context) (Value, error) {
	v, err := evalNode(t.Operand, ctx)
	if err != nil {
		return Value{}, err
	}
	switch t.Op {
	case "-":
		f, err := wantNumber(v)
		if err != nil {
			return Value{}, err
		}
		return Number(-f), nil
	case "!":
		b, err := wantBool(v)
		if err != nil {
			return Value{}, err
		}
		return Bool(!b), nil
	default:
		return Value{}, fmt.Errorf("unknown unary operator %q", t.Op)
	}
}

func evalBinary(t *Binary, ctx *Context) (Value, error) {
	// Short-circuit operators evaluate the right side only when needed.
	switch t.Op {
	case "??":
		left, err := evalNode(t.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		if !left.IsNil() {
			return left, nil
		}
		return evalNode(t.Right, ctx)

	case "&&", "||":
		left, err := evalNode(t.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		lb, err := wantBool(left)
		if err != nil {
			return Value{}, err
		}
		if t.Op == "&&" && !lb {
			return Bool(false), nil
		}
		if t.Op == "||" && lb {
			return Bool(true), nil
		}
		right, err := evalNode(t.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		rb, err := wantBool(right)
		if err != nil {
			return Value{}, err
		}
		return Bool(rb), nil
	}

	left, err := evalNode(t.Left, ctx)
	if err != nil {
		return Value{}, err
	}
	right, err := evalNode(t.Right, ctx)
	if err != nil {
		return Value{}, err
	}

	switch t.Op {
	case "+":
		// String on either side makes + concatenation.
		if left.Kind() == KindString || right.Kind() == KindString {
			return String(left.Stringify() + right.Stringify()), nil
		}
		return numericOp(left, right, func(a, b float64) float64 { return a + b })
	case "-":
		return numericOp(left, right, func(a, b float64) float64 { return a - b })
	case "*":
		return numericOp(left, right, func(a, b float64) float64 { return a * b })
	case "/":
		return numericOp(left, right, func(a, b float64) float64 { return a / b })
	case "%":
		return numericOp(left, right, math.Mod)

	case "==":
		return Bool(left.Equal(right)), nil
	case "!=":
		return Bool(!left.Equal(right)), nil

	case "<", "<=", ">", ">=":
		return compareOp(t.Op, left, right)

	default:
		return Value{}, fmt.Errorf("unknown binary operator %q", t.Op)
	}
}

func numericOp(left, right Value, op func(a, b float64) float64) (Value, error) {
	a, err := wantNumber(left)
	if err != nil {
		return Value{}, err
	}
	b, err := wantNumber(right)
	if err != nil {
		return Value{}, err
	}
	return Number(op(a, b)), nil
}

// compareOp orders numbers numerically and strings lexicographically.
func compareOp(op string, left, right Value) (Value, error) {
	if left.Kind() == KindString && right.Kind() == KindString {
		return Bool(orderString(op, left.Str(), right.Str())), nil
	}
	a, err := wantNumber(left)
	if err != nil {
		return Value{}, err
	}
	b, err := wantNumber(right)
	if err != nil {
		return Value{}, err
	}
	return Bool(orderNumber(op, a, b)), nil
}

func orderNumber(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

func orderString(op, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

// evalTemplate concatenates literal segments with stringified expression
// results, left to right. A template that is exactly one expression block
// keeps the raw result: nil stays "no value", and non-string values reach
// the expected-kind coercion intact.
func evalTemplate(t *Template, ctx *Context) (Value, error) {
	if len(t.Segments) == 1 && t.Segments[0].Expr != nil {
		return evalNode(t.Segments[0].Expr, ctx)
	}

	var sb []byte
	for _, seg := range t.Segments {
		if seg.Expr == nil {
			sb = append(sb, seg.Literal...)
			continue
		}
		v, err := evalNode(seg.Expr, ctx)
		if err != nil {
			return Value{}, err
		}
		sb = append(sb, v.Stringify()...)
	}
	return String(string(sb)), nil
}

func wantNumber(v Value) (float64, error) {
	if v.Kind() != KindNumber {
		return 0, mismatch(KindNumber, v.Kind())
	}
	return v.Num(), nil
}

func wantBool(v Value) (bool, error) {
	if v.Kind() != KindBool {
		return false, mismatch(KindBool, v.Kind())
	}
	return v.Bool(), nil
}
