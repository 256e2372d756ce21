package expr

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// evalCtx builds a Context over a plain symbol table with the builtin
// functions and a fixed percentage base of 200.
func evalCtx(symbols map[string]Value) *Context {
	return &Context{
		Lookup: func(name string) (Value, error) {
			if v, ok := symbols[name]; ok {
				return v, nil
			}
			if name == "missing" {
				return Nil(), nil
			}
			if name == "boom" {
				return Value{}, errors.New("boom evaluated")
			}
			return Value{}, &UndefinedSymbolError{Name: name}
		},
		Funcs:       Builtins(),
		PercentBase: func() (float64, error) { return 200, nil },
	}
}

func evalSource(t *testing.T, source string, expected Kind, symbols map[string]Value) (Value, error) {
	t.Helper()
	e, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return Eval(e, evalCtx(symbols), expected)
}

func TestEval_Expressions(t *testing.T) {
	type tc struct {
		source  string
		symbols map[string]Value
		want    Value
	}

	tests := map[string]tc{
		"arithmetic":        {source: "1 + 2 * 3", want: Number(7)},
		"division is float": {source: "7 / 2", want: Number(3.5)},
		"remainder":         {source: "10 % 3", want: Number(1)},
		"unary minus":       {source: "-x", symbols: map[string]Value{"x": Number(4)}, want: Number(-4)},
		"double negation":   {source: "!!flag", symbols: map[string]Value{"flag": Bool(true)}, want: Bool(true)},

		"percent of base":   {source: "50%", want: Number(100)},
		"percent arithmetic": {source: "100% - 20", want: Number(180)},

		"string concat right":  {source: "'n=' + 3", want: String("n=3")},
		"string concat left":   {source: "3 + 'px'", want: String("3px")},
		"concat stringifies":   {source: "'c=' + #fff", want: String("c=#ffffff")},
		"string comparison":    {source: "'abc' < 'abd'", want: Bool(true)},
		"number comparison":    {source: "2 >= 2", want: Bool(true)},
		"equality mixed kinds": {source: "1 == '1'", want: Bool(false)},

		"and short circuit": {source: "false && boom", want: Bool(false)},
		"or short circuit":  {source: "true || boom", want: Bool(true)},
		"and full":          {source: "true && false", want: Bool(false)},

		"coalesce nil left":     {source: "missing ?? 5", want: Number(5)},
		"coalesce short circuit": {source: "1 ?? boom", want: Number(1)},
		"coalesce chains":       {source: "missing ?? missing ?? 'last'", want: String("last")},
		"member of nil is nil":  {source: "missing.width ?? 7", want: Number(7)},

		"ternary then": {source: "w > 100 ? 'wide' : 'narrow'", symbols: map[string]Value{"w": Number(150)}, want: String("wide")},
		"ternary else": {source: "w > 100 ? 'wide' : 'narrow'", symbols: map[string]Value{"w": Number(50)}, want: String("narrow")},

		"color literal equals rgb": {source: "#fff == rgb(255, 255, 255)", want: Bool(true)},
		"rgb channel wrap":         {source: "rgb(300, -1, 0)", want: ColorValue(Color{R: 44, G: 255, B: 0, A: 255})},
		"rgba alpha scale":         {source: "rgba(0, 0, 0, 0.5)", want: ColorValue(Color{A: 127})},
		"color member":             {source: "#102030.green", want: Number(0x20)},
		"alpha member normalized":  {source: "#fff7.alpha", want: Number(119.0 / 255.0)},

		"min":   {source: "min(3, 1, 2)", want: Number(1)},
		"max":   {source: "max(3, 1, 2)", want: Number(3)},
		"abs":   {source: "abs(-2.5)", want: Number(2.5)},
		"floor": {source: "floor(2.9)", want: Number(2)},
		"ceil":  {source: "ceil(2.1)", want: Number(3)},
		"round": {source: "round(2.5)", want: Number(3)},
		"pow":   {source: "pow(2, 10)", want: Number(1024)},
		"mod":   {source: "mod(7, 3)", want: Number(1)},

		"map member": {
			source:  "item.price * 2",
			symbols: map[string]Value{"item": Object(map[string]any{"price": 10})},
			want:    Number(20),
		},
		"font member": {
			source:  "f.size + 2",
			symbols: map[string]Value{"f": FontValue(Font{Family: "Menlo", Size: 12})},
			want:    Number(14),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := evalSource(t, tt.source, KindAny, tt.symbols)
			if err != nil {
				t.Fatalf("eval %q: %v", tt.source, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("eval %q = %v (%s), want %v (%s)",
					tt.source, got.Any(), got.Kind(), tt.want.Any(), tt.want.Kind())
			}
		})
	}
}

func TestEval_Errors(t *testing.T) {
	type tc struct {
		source  string
		wantMsg string
	}

	tests := map[string]tc{
		"add bool":            {"1 + true", "expected number"},
		"negate string":       {"-'a'", "expected number"},
		"not a number":        {"!5", "expected boolean"},
		"compare mixed":       {"'a' < 1", "expected number"},
		"condition not bool":  {"1 ? 2 : 3", "expected boolean"},
		"undefined symbol":    {"nope", `undefined symbol "nope"`},
		"unknown function":    {"nope(1)", `undefined symbol "nope"`},
		"bad arity":           {"rgb(1, 2)", "rgb()"},
		"bad argument kind":   {"floor('x')", "floor()"},
		"lookup error spreads": {"boom + 1", "boom evaluated"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := evalSource(t, tt.source, KindAny, nil)
			if err == nil {
				t.Fatalf("eval %q: expected error", tt.source)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("eval %q error = %q, want substring %q", tt.source, err, tt.wantMsg)
			}
		})
	}
}

func TestEval_ExpectedKind(t *testing.T) {
	type tc struct {
		source   string
		expected Kind
		want     Value
		wantErr  bool
	}

	tests := map[string]tc{
		"string to number":    {source: "'42'", expected: KindNumber, want: Number(42)},
		"string to bool":      {source: "'true'", expected: KindBool, want: Bool(true)},
		"string to color":     {source: "'#0f0'", expected: KindColor, want: ColorValue(Color{G: 0xFF, A: 0xFF, R: 0, B: 0})},
		"string to font":      {source: "'Helvetica'", expected: KindFont, want: FontValue(Font{Family: "Helvetica"})},
		"number stringifies":  {source: "5", expected: KindString, want: String("5")},
		"color stringifies":   {source: "#ff0000", expected: KindString, want: String("#ff0000")},
		"bad numeric string":  {source: "'wide'", expected: KindNumber, wantErr: true},
		"number not a color":  {source: "255", expected: KindColor, wantErr: true},
		"bool not a font":     {source: "true", expected: KindFont, wantErr: true},
		"matching passthrough": {source: "3.5", expected: KindNumber, want: Number(3.5)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := evalSource(t, tt.source, tt.expected, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("eval %q as %s: expected error", tt.source, tt.expected)
				}
				var tme *TypeMismatchError
				if !errors.As(err, &tme) {
					t.Errorf("error type = %T, want *TypeMismatchError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("eval %q as %s: %v", tt.source, tt.expected, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("eval %q as %s = %v, want %v", tt.source, tt.expected, got.Any(), tt.want.Any())
			}
		})
	}
}

func TestEval_NilResults(t *testing.T) {
	type tc struct {
		source   string
		expected Kind
		wantNil  bool
		wantErr  bool
	}

	tests := map[string]tc{
		"empty as any":       {source: "", expected: KindAny, wantNil: true},
		"empty as string":    {source: "", expected: KindString, wantNil: true},
		"empty as object":    {source: "", expected: KindObject, wantNil: true},
		"empty as number":    {source: "", expected: KindNumber, wantErr: true},
		"nil value as color": {source: "missing", expected: KindColor, wantErr: true},
		"nil value as string": {source: "missing", expected: KindString, wantNil: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := evalSource(t, tt.source, tt.expected, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("eval %q as %s: expected error", tt.source, tt.expected)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.IsNil() != tt.wantNil {
				t.Errorf("eval %q as %s: IsNil = %v, want %v", tt.source, tt.expected, got.IsNil(), tt.wantNil)
			}
		})
	}
}

func TestEval_NoPercentBase(t *testing.T) {
	e, err := Parse("50%")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Eval(e, &Context{Funcs: Builtins()}, KindAny)
	if err == nil || !strings.Contains(err.Error(), "no reference dimension") {
		t.Errorf("expected missing-reference error, got %v", err)
	}
}

func TestEval_Templates(t *testing.T) {
	type tc struct {
		source  string
		symbols map[string]Value
		want    Value
	}

	tests := map[string]tc{
		"literal only": {source: "hello", want: String("hello")},
		"interpolation": {
			source:  "Count: {count} of {total}",
			symbols: map[string]Value{"count": Number(3), "total": Number(10)},
			want:    String("Count: 3 of 10"),
		},
		"expression block": {
			source:  "{w / 2}px",
			symbols: map[string]Value{"w": Number(100)},
			want:    String("50px"),
		},
		"single nil block is no value": {source: "{missing}", want: Nil()},
		"nil interpolates empty":       {source: "x{missing}y", want: String("xy")},
		"brace inside quoted string":   {source: "{'}'}", want: String("}")},
		"color interpolation":          {source: "tint {#8000ff}", want: String("tint #8000ff")},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, err := ParseTemplate(tt.source)
			if err != nil {
				t.Fatalf("ParseTemplate(%q): %v", tt.source, err)
			}
			got, err := Eval(e, evalCtx(tt.symbols), KindString)
			if err != nil {
				t.Fatalf("eval template %q: %v", tt.source, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("eval template %q = %q, want %q", tt.source, got.Stringify(), tt.want.Stringify())
			}
		})
	}
}

func TestEval_TemplateSingleBlockKeepsKind(t *testing.T) {
	// A lone expression block yields the raw value; the expected-kind
	// coercion sees it, not a pre-rendered string.
	e, err := ParseTemplate("{#8000ff}")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Eval(e, evalCtx(nil), KindAny)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != KindColor {
		t.Errorf("kind = %s, want color", got.Kind())
	}

	// A template rendered as a string satisfies an object expectation by
	// becoming an opaque reference.
	e, err = ParseTemplate("photo.png")
	if err != nil {
		t.Fatal(err)
	}
	got, err = Eval(e, evalCtx(nil), KindObject)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != KindObject || got.Obj() != "photo.png" {
		t.Errorf("got %v (%s), want the object reference", got.Any(), got.Kind())
	}
}

func TestEval_MemberHook(t *testing.T) {
	hook := func(base Value, name string) (Value, bool, error) {
		if base.Kind() == KindString && name == "length" {
			return Number(float64(len(base.Str()))), true, nil
		}
		return Value{}, false, nil
	}
	ctx := &Context{
		Lookup: func(name string) (Value, error) {
			return Value{}, &UndefinedSymbolError{Name: name}
		},
		Member: hook,
		Funcs:  Builtins(),
	}

	e, err := Parse("'abcd'.length")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Eval(e, ctx, KindAny)
	if err != nil {
		t.Fatal(err)
	}
	if got.Num() != 4 {
		t.Errorf("hooked member = %v, want 4", got.Num())
	}

	// ok=false falls through to built-in rules, which reject the name.
	e, err = Parse("'abcd'.size")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Eval(e, ctx, KindAny); err == nil {
		t.Error("expected undefined member error")
	}
}

func TestEval_NaNAndInfinity(t *testing.T) {
	got, err := evalSource(t, "1 / 0", KindAny, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(got.Num(), 1) {
		t.Errorf("1/0 = %v, want +Inf", got.Num())
	}

	got, err = evalSource(t, "0 / 0", KindAny, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got.Num()) {
		t.Errorf("0/0 = %v, want NaN", got.Num())
	}
}
