package expr

import "testing"

func TestParseHexColor(t *testing.T) {
	type tc struct {
		input   string
		want    Color
		wantErr bool
	}

	tests := map[string]tc{
		"three digit":      {input: "#fff", want: Color{0xFF, 0xFF, 0xFF, 0xFF}},
		"three expands":    {input: "#1a9", want: Color{0x11, 0xAA, 0x99, 0xFF}},
		"four digit":       {input: "#1a98", want: Color{0x11, 0xAA, 0x99, 0x88}},
		"six digit":        {input: "#102030", want: Color{0x10, 0x20, 0x30, 0xFF}},
		"eight digit":      {input: "#10203040", want: Color{0x10, 0x20, 0x30, 0x40}},
		"uppercase":        {input: "#ABCDEF", want: Color{0xAB, 0xCD, 0xEF, 0xFF}},
		"without hash":     {input: "ff0000", want: Color{0xFF, 0, 0, 0xFF}},
		"bad length":       {input: "#12345", wantErr: true},
		"bad digit":        {input: "#ggg", wantErr: true},
		"empty":            {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHexColor(%q): expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColor_String(t *testing.T) {
	tests := map[string]struct {
		color Color
		want  string
	}{
		"opaque drops alpha": {Color{0xFF, 0x80, 0x00, 0xFF}, "#ff8000"},
		"translucent":        {Color{0xFF, 0x80, 0x00, 0x40}, "#ff800040"},
		"transparent":        {Color{0, 0, 0, 0}, "#00000000"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.color.String(); got != tt.want {
				t.Errorf("%+v.String() = %q, want %q", tt.color, got, tt.want)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	type opaque struct{ n int }

	type tc struct {
		input any
		want  Value
	}

	tests := map[string]tc{
		"nil":        {input: nil, want: Nil()},
		"float64":    {input: 2.5, want: Number(2.5)},
		"int":        {input: 7, want: Number(7)},
		"int64":      {input: int64(-3), want: Number(-3)},
		"uint8":      {input: uint8(255), want: Number(255)},
		"bool":       {input: true, want: Bool(true)},
		"string":     {input: "x", want: String("x")},
		"color":      {input: Color{1, 2, 3, 4}, want: ColorValue(Color{1, 2, 3, 4})},
		"font":       {input: Font{Family: "Menlo"}, want: FontValue(Font{Family: "Menlo"})},
		"value pass": {input: Number(9), want: Number(9)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := FromAny(tt.input); !got.Equal(tt.want) {
				t.Errorf("FromAny(%v) = %v (%s), want %v (%s)",
					tt.input, got.Any(), got.Kind(), tt.want.Any(), tt.want.Kind())
			}
		})
	}

	t.Run("struct becomes object", func(t *testing.T) {
		o := &opaque{n: 1}
		v := FromAny(o)
		if v.Kind() != KindObject || v.Obj() != o {
			t.Errorf("FromAny(%v) = %v, want object wrapping it", o, v.Any())
		}
	})
}

func TestValue_Stringify(t *testing.T) {
	tests := map[string]struct {
		value Value
		want  string
	}{
		"nil is empty":    {Nil(), ""},
		"whole number":    {Number(5), "5"},
		"fraction":        {Number(2.5), "2.5"},
		"no sci notation": {Number(1000000), "1000000"},
		"bool":            {Bool(false), "false"},
		"string":          {String("hi"), "hi"},
		"color":           {ColorValue(Color{0, 0xFF, 0, 0xFF}), "#00ff00"},
		"font":            {FontValue(Font{Family: "Menlo", Size: 12, Bold: true}), "Menlo 12 bold"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.value.Stringify(); got != tt.want {
				t.Errorf("Stringify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_Equal(t *testing.T) {
	shared := &struct{ name string }{name: "shared"}

	type tc struct {
		a, b Value
		want bool
	}

	tests := map[string]tc{
		"numbers equal":     {Number(1), Number(1), true},
		"numbers differ":    {Number(1), Number(2), false},
		"kinds differ":      {Number(1), String("1"), false},
		"nils equal":        {Nil(), Nil(), true},
		"nil vs zero":       {Nil(), Number(0), false},
		"colors equal":      {ColorValue(Color{1, 2, 3, 4}), ColorValue(Color{1, 2, 3, 4}), true},
		"fonts differ":      {FontValue(Font{Family: "a"}), FontValue(Font{Family: "b"}), false},
		"same object":       {Object(shared), Object(shared), true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_ZeroIsNil(t *testing.T) {
	var v Value
	if !v.IsNil() || v.Kind() != KindNil {
		t.Errorf("zero Value kind = %s, want nil", v.Kind())
	}
	if Object(nil).Kind() != KindNil {
		t.Error("Object(nil) should be the nil Value")
	}
}
