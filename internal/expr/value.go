package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	// KindNil is the zero Value: no value at all. Only string-like
	// properties accept it as a final result.
	KindNil Kind = iota
	// KindNumber is a 64-bit float.
	KindNumber
	// KindBool is a boolean.
	KindBool
	// KindString is a UTF-8 string.
	KindString
	// KindColor is an RGBA color with four 8-bit channels.
	KindColor
	// KindFont is a font descriptor (family, size, weight/style flags).
	KindFont
	// KindObject is an opaque host-supplied reference.
	KindObject
	// KindAny is only valid as an expected kind: it disables coercion.
	KindAny
)

var kindNames = map[Kind]string{
	KindNil:    "nil",
	KindNumber: "number",
	KindBool:   "boolean",
	KindString: "string",
	KindColor:  "color",
	KindFont:   "font",
	KindObject: "object",
	KindAny:    "any",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Color is an RGBA color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// ParseHexColor parses #RGB, #RGBA, #RRGGBB, and #RRGGBBAA literals.
// The leading '#' is optional.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")

	nibble := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		default:
			return 0, false
		}
	}

	var digits []uint8
	for i := 0; i < len(hex); i++ {
		n, ok := nibble(hex[i])
		if !ok {
			return Color{}, fmt.Errorf("invalid hex character %q in color %q", hex[i], s)
		}
		digits = append(digits, n)
	}

	switch len(digits) {
	case 3: // #RGB -> #RRGGBB
		return Color{
			R: digits[0]<<4 | digits[0],
			G: digits[1]<<4 | digits[1],
			B: digits[2]<<4 | digits[2],
			A: 0xFF,
		}, nil
	case 4: // #RGBA
		return Color{
			R: digits[0]<<4 | digits[0],
			G: digits[1]<<4 | digits[1],
			B: digits[2]<<4 | digits[2],
			A: digits[3]<<4 | digits[3],
		}, nil
	case 6: // #RRGGBB
		return Color{
			R: digits[0]<<4 | digits[1],
			G: digits[2]<<4 | digits[3],
			B: digits[4]<<4 | digits[5],
			A: 0xFF,
		}, nil
	case 8: // #RRGGBBAA
		return Color{
			R: digits[0]<<4 | digits[1],
			G: digits[2]<<4 | digits[3],
			B: digits[4]<<4 | digits[5],
			A: digits[6]<<4 | digits[7],
		}, nil
	default:
		return Color{}, fmt.Errorf("invalid color literal %q: expected 3, 4, 6, or 8 hex digits", s)
	}
}

// String returns the canonical hex form: #rrggbb, or #rrggbbaa when the
// color is not fully opaque.
func (c Color) String() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Font describes a font: family name, point size, and style flags.
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

func (f Font) String() string {
	var sb strings.Builder
	sb.WriteString(f.Family)
	if f.Size != 0 {
		sb.WriteString(" ")
		sb.WriteString(formatNumber(f.Size))
	}
	if f.Bold {
		sb.WriteString(" bold")
	}
	if f.Italic {
		sb.WriteString(" italic")
	}
	return sb.String()
}

// Value is a tagged union over the expression value kinds.
// The zero Value is nil.
type Value struct {
	kind  Kind
	num   float64
	b     bool
	str   string
	color Color
	font  Font
	obj   any
}

// Nil returns the nil Value.
func Nil() Value { return Value{} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ColorValue wraps a Color.
func ColorValue(c Color) Value { return Value{kind: KindColor, color: c} }

// FontValue wraps a Font.
func FontValue(f Font) Value { return Value{kind: KindFont, font: f} }

// Object wraps an opaque reference. A nil reference yields the nil Value.
func Object(o any) Value {
	if o == nil {
		return Nil()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind returns the value's kind tag.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Num returns the numeric payload. Only meaningful for KindNumber.
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean payload. Only meaningful for KindBool.
func (v Value) Bool() bool { return v.b }

// Str returns the string payload. Only meaningful for KindString.
func (v Value) Str() string { return v.str }

// Color returns the color payload. Only meaningful for KindColor.
func (v Value) Color() Color { return v.color }

// Font returns the font payload. Only meaningful for KindFont.
func (v Value) Font() Font { return v.font }

// Obj returns the opaque payload. Only meaningful for KindObject.
func (v Value) Obj() any { return v.obj }

// FromAny converts an arbitrary host value into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Nil()
	case Value:
		return t
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case Color:
		return ColorValue(t)
	case Font:
		return FontValue(t)
	default:
		return Object(x)
	}
}

// Any returns the value's payload as a plain Go value.
func (v Value) Any() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindString:
		return v.str
	case KindColor:
		return v.color
	case KindFont:
		return v.font
	default:
		return v.obj
	}
}

// Equal reports whether two values are equal. Objects compare by
// interface equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.str == o.str
	case KindColor:
		return v.color == o.color
	case KindFont:
		return v.font == o.font
	default:
		return v.obj == o.obj
	}
}

// Stringify renders a value for template interpolation. Nil renders as
// the empty string.
func (v Value) Stringify() string {
	switch v.kind {
	case KindNil:
		return ""
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.str
	case KindColor:
		return v.color.String()
	case KindFont:
		return v.font.String()
	default:
		return fmt.Sprint(v.obj)
	}
}

// Coerce converts the value to the expected kind. Every conversion either
// succeeds with a defined result or fails with a TypeMismatchError; there
// is no silent truncation. KindAny accepts the value as-is.
func (v Value) Coerce(expected Kind) (Value, error) {
	if expected == KindAny || v.kind == expected {
		return v, nil
	}

	switch expected {
	case KindString:
		// Everything stringifies, including nil (empty string).
		return String(v.Stringify()), nil

	case KindNumber:
		if v.kind == KindString {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
			if err != nil {
				return Value{}, mismatch(KindNumber, KindString)
			}
			return Number(f), nil
		}

	case KindBool:
		if v.kind == KindString {
			switch v.str {
			case "true":
				return Bool(true), nil
			case "false":
				return Bool(false), nil
			}
			return Value{}, mismatch(KindBool, KindString)
		}

	case KindColor:
		// Numbers never convert to colors implicitly; use rgb()/rgba().
		if v.kind == KindString {
			c, err := ParseHexColor(v.str)
			if err != nil {
				return Value{}, mismatch(KindColor, KindString)
			}
			return ColorValue(c), nil
		}

	case KindFont:
		if v.kind == KindString {
			return FontValue(Font{Family: v.str}), nil
		}

	case KindObject:
		// Image-style properties accept a string reference; resolving
		// it is the host's job.
		if v.kind == KindString {
			return Object(v.str), nil
		}
	}

	return Value{}, mismatch(expected, v.kind)
}

// formatNumber renders a float without trailing zeros: 5 -> "5", 2.5 -> "2.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
