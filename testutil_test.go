package layout

import "testing"

// testRegistry covers the view kinds the engine tests exercise.
func testRegistry() *Registry {
	r := NewRegistry()
	r.Register("view", map[string]ValueKind{
		"backgroundColor": KindColor,
		"borderWidth":     KindNumber,
		"opacity":         KindNumber,
		"hidden":          KindBool,
	})
	r.Register("label", map[string]ValueKind{
		"text":      KindString,
		"textColor": KindColor,
		"font":      KindFont,
		"opacity":   KindNumber,
	})
	r.Register("image", map[string]ValueKind{
		"source":  KindObject,
		"opacity": KindNumber,
	})
	return r
}

func mustNode(t *testing.T, viewKind string, opts ...Option) *LayoutNode {
	t.Helper()
	n, err := NewNode(viewKind, opts...)
	if err != nil {
		t.Fatalf("NewNode(%q): %v", viewKind, err)
	}
	return n
}

func mountTree(t *testing.T, root *LayoutNode, w, h float64) *MemHost {
	t.Helper()
	host := NewMemHost(testRegistry())
	if err := root.Mount(host, w, h); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return host
}

func frameOf(t *testing.T, host *MemHost, n *LayoutNode) Rect {
	t.Helper()
	r, ok := host.Frame(n)
	if !ok {
		t.Fatalf("%s: no frame applied", n.DebugName())
	}
	return r
}

func propOf(t *testing.T, host *MemHost, n *LayoutNode, prop string) Value {
	t.Helper()
	v, ok := host.Property(n, prop)
	if !ok {
		t.Fatalf("%s: property %q never applied", n.DebugName(), prop)
	}
	return v
}
