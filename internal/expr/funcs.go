package expr

import (
	"fmt"
	"math"
)

// Builtins returns the default function registry available to every
// expression: color constructors and a small numeric library. The map is
// freshly allocated so hosts can extend it without affecting others.
func Builtins() map[string]Func {
	return map[string]Func{
		"rgb":   fnRGB,
		"rgba":  fnRGBA,
		"min":   fnMin,
		"max":   fnMax,
		"abs":   numeric1(math.Abs),
		"floor": numeric1(math.Floor),
		"ceil":  numeric1(math.Ceil),
		"round": numeric1(math.Round),
		"pow":   numeric2(math.Pow),
		"mod":   numeric2(math.Mod),
	}
}

// channel converts an rgb() argument on the 0-255 scale to a byte.
// Out-of-range values are not an error: they pass through and wrap,
// matching permissive CSS-style parsing.
func channel(v float64) uint8 {
	return uint8(int64(v))
}

func fnRGB(args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, fmt.Errorf("expected 3 arguments, got %d", len(args))
	}
	var ch [3]float64
	for i, a := range args {
		f, err := wantNumber(a)
		if err != nil {
			return Value{}, err
		}
		ch[i] = f
	}
	return ColorValue(Color{R: channel(ch[0]), G: channel(ch[1]), B: channel(ch[2]), A: 0xFF}), nil
}

func fnRGBA(args []Value) (Value, error) {
	if len(args) != 4 {
		return Value{}, fmt.Errorf("expected 4 arguments, got %d", len(args))
	}
	var ch [4]float64
	for i, a := range args {
		f, err := wantNumber(a)
		if err != nil {
			return Value{}, err
		}
		ch[i] = f
	}
	// Alpha is on a 0-1 scale.
	return ColorValue(Color{R: channel(ch[0]), G: channel(ch[1]), B: channel(ch[2]), A: channel(ch[3] * 255)}), nil
}

func fnMin(args []Value) (Value, error) {
	return fold(args, math.Min)
}

func fnMax(args []Value) (Value, error) {
	return fold(args, math.Max)
}

func fold(args []Value, op func(a, b float64) float64) (Value, error) {
	if len(args) == 0 {
		return Value{}, fmt.Errorf("expected at least 1 argument")
	}
	acc, err := wantNumber(args[0])
	if err != nil {
		return Value{}, err
	}
	for _, a := range args[1:] {
		f, err := wantNumber(a)
		if err != nil {
			return Value{}, err
		}
		acc = op(acc, f)
	}
	return Number(acc), nil
}

func numeric1(op func(float64) float64) Func {
	return func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		f, err := wantNumber(args[0])
		if err != nil {
			return Value{}, err
		}
		return Number(op(f)), nil
	}
}

func numeric2(op func(a, b float64) float64) Func {
	return func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, fmt.Errorf("expected 2 arguments, got %d", len(args))
		}
		a, err := wantNumber(args[0])
		if err != nil {
			return Value{}, err
		}
		b, err := wantNumber(args[1])
		if err != nil {
			return Value{}, err
		}
		return Number(op(a, b)), nil
	}
}
