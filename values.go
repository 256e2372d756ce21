package layout

// This file re-exports the expression value types from internal/expr so
// hosts never import the internal package directly.

import "github.com/exprkit/layout/internal/expr"

// ValueKind identifies the runtime type of a Value.
type ValueKind = expr.Kind

const (
	// KindNil is the zero Value: no value at all.
	KindNil = expr.KindNil
	// KindNumber is a 64-bit float.
	KindNumber = expr.KindNumber
	// KindBool is a boolean.
	KindBool = expr.KindBool
	// KindString is a UTF-8 string.
	KindString = expr.KindString
	// KindColor is an RGBA color with four 8-bit channels.
	KindColor = expr.KindColor
	// KindFont is a font descriptor.
	KindFont = expr.KindFont
	// KindObject is an opaque host-supplied reference.
	KindObject = expr.KindObject
	// KindAny disables coercion when used as an expected kind.
	KindAny = expr.KindAny
)

// Value is a tagged union over the expression value kinds.
type Value = expr.Value

// Color is an RGBA color with 8-bit channels.
type Color = expr.Color

// Font describes a font: family name, point size, and style flags.
type Font = expr.Font

// Number wraps a float64 in a Value.
func Number(f float64) Value { return expr.Number(f) }

// Bool wraps a boolean in a Value.
func Bool(b bool) Value { return expr.Bool(b) }

// String wraps a string in a Value.
func String(s string) Value { return expr.String(s) }

// ColorValue wraps a Color in a Value.
func ColorValue(c Color) Value { return expr.ColorValue(c) }

// FontValue wraps a Font in a Value.
func FontValue(f Font) Value { return expr.FontValue(f) }

// Object wraps an opaque reference in a Value.
func Object(o any) Value { return expr.Object(o) }

// Nil returns the nil Value.
func Nil() Value { return expr.Nil() }

// FromAny converts an arbitrary host value into a Value.
func FromAny(x any) Value { return expr.FromAny(x) }

// ParseHexColor parses #RGB, #RGBA, #RRGGBB, and #RRGGBBAA literals.
func ParseHexColor(s string) (Color, error) { return expr.ParseHexColor(s) }

// Expression is an immutable parsed representation of a property source
// string.
type Expression = expr.Expression

// Func is a function callable from expressions.
type Func = expr.Func

// ParseExpression parses source in expression mode, reusing the
// process-wide parse cache.
func ParseExpression(source string) (*Expression, error) {
	return expr.Cached(source, false)
}

// ParseTemplate parses source in template mode (literal text with
// embedded {...} expression blocks), reusing the process-wide parse cache.
func ParseTemplate(source string) (*Expression, error) {
	return expr.Cached(source, true)
}

// Builtins returns the default expression function registry.
func Builtins() map[string]Func { return expr.Builtins() }

// ParseError reports malformed expression source.
type ParseError = expr.ParseError

// UndefinedSymbolError reports an identifier no scope could resolve.
type UndefinedSymbolError = expr.UndefinedSymbolError

// TypeMismatchError reports a value that could not be coerced to the
// expected kind.
type TypeMismatchError = expr.TypeMismatchError
