package layout

import "fmt"

// Rect is a resolved frame in the parent's coordinate space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", r.X, r.Y, r.Width, r.Height)
}

// Frame returns the node's geometry as of the last successful update
// pass. The zero Rect is returned before the first pass.
func (n *LayoutNode) Frame() Rect {
	return n.frame
}

// geomNumber evaluates a geometry property to a float.
func (n *LayoutNode) geomNumber(prop string, pass *evalPass) (float64, error) {
	v, err := n.valueFor(prop, pass)
	if err != nil {
		return 0, err
	}
	if v.Kind() != KindNumber {
		return 0, fmt.Errorf("geometry property %q is %s, not a number", prop, v.Kind())
	}
	return v.Num(), nil
}

// hasExpr reports whether the node declares a non-empty expression for a
// property.
func (n *LayoutNode) hasExpr(prop string) bool {
	e, ok := n.exprs[prop]
	return ok && !e.IsEmpty()
}

// hasIntrinsic reports whether the host defines an intrinsic content size
// for the node on the given axis.
func (n *LayoutNode) hasIntrinsic(horizontal bool) bool {
	host := n.hostRef()
	if host == nil {
		return false
	}
	is := host.IntrinsicSize(n)
	if horizontal {
		return is.HasWidth
	}
	return is.HasHeight
}

// derivedGeometry computes a geometry property that has no expression of
// its own. Each of the six is derivable from the others:
//
//	width  = right - left    (when both are authored), else auto
//	height = bottom - top    (when both are authored), else auto
//	left   = right - width   (when right is authored), else 0
//	top    = bottom - height (when bottom is authored), else 0
//	right  = left + width
//	bottom = top + height
func (n *LayoutNode) derivedGeometry(prop string, pass *evalPass) (float64, error) {
	switch prop {
	case propWidth:
		if n.hasExpr(propLeft) && n.hasExpr(propRight) {
			return n.geomDiff(propRight, propLeft, pass)
		}
		return n.autoDimension(true, pass)

	case propHeight:
		if n.hasExpr(propTop) && n.hasExpr(propBottom) {
			return n.geomDiff(propBottom, propTop, pass)
		}
		return n.autoDimension(false, pass)

	case propLeft:
		if n.hasExpr(propRight) {
			return n.geomDiff(propRight, propWidth, pass)
		}
		return 0, nil

	case propTop:
		if n.hasExpr(propBottom) {
			return n.geomDiff(propBottom, propHeight, pass)
		}
		return 0, nil

	case propRight:
		return n.geomSum(propLeft, propWidth, pass)

	case propBottom:
		return n.geomSum(propTop, propHeight, pass)

	default:
		return 0, fmt.Errorf("not a geometry property: %q", prop)
	}
}

func (n *LayoutNode) geomDiff(a, b string, pass *evalPass) (float64, error) {
	av, err := n.geomNumber(a, pass)
	if err != nil {
		return 0, err
	}
	bv, err := n.geomNumber(b, pass)
	if err != nil {
		return 0, err
	}
	return av - bv, nil
}

func (n *LayoutNode) geomSum(a, b string, pass *evalPass) (float64, error) {
	av, err := n.geomNumber(a, pass)
	if err != nil {
		return 0, err
	}
	bv, err := n.geomNumber(b, pass)
	if err != nil {
		return 0, err
	}
	return av + bv, nil
}

// autoDimension resolves the "auto" size for one axis: the view's
// intrinsic content size if the host defines one, else the bounding box
// of the children's resolved frames, else 100% of the available
// dimension. Mutual recursion with children's percentage frames is
// bounded by the evaluation pass's cycle detection.
func (n *LayoutNode) autoDimension(horizontal bool, pass *evalPass) (float64, error) {
	if host := n.hostRef(); host != nil {
		is := host.IntrinsicSize(n)
		if horizontal && is.HasWidth {
			return is.Width, nil
		}
		if !horizontal && is.HasHeight {
			return is.Height, nil
		}
	}

	if len(n.children) > 0 {
		var extent float64
		for _, child := range n.children {
			var edge float64
			var err error
			if horizontal {
				edge, err = child.geomNumber(propRight, pass)
			} else {
				edge, err = child.geomNumber(propBottom, pass)
			}
			if err != nil {
				return 0, err
			}
			if edge > extent {
				extent = edge
			}
		}
		return extent, nil
	}

	return n.availableDimension(horizontal, pass)
}

// availableDimension is the reference dimension percentages and auto
// fallbacks resolve against: the nearest ancestor whose size on that axis
// does not depend on its children (authored expression, both edges, or a
// host-reported intrinsic size), or the container dimensions supplied via
// Mount/Resize. An ancestor sized purely from its children is skipped,
// since its size in turn depends on this node's.
func (n *LayoutNode) availableDimension(horizontal bool, pass *evalPass) (float64, error) {
	dim, lo, hi := propWidth, propLeft, propRight
	if !horizontal {
		dim, lo, hi = propHeight, propTop, propBottom
	}
	for p := n.parent; p != nil; p = p.parent {
		if p.hasExpr(dim) || (p.hasExpr(lo) && p.hasExpr(hi)) || p.hasIntrinsic(horizontal) {
			return p.geomNumber(dim, pass)
		}
	}
	root := n.root()
	if root.host == nil {
		return 0, fmt.Errorf("no reference dimension: node is not mounted")
	}
	if horizontal {
		return root.availW, nil
	}
	return root.availH, nil
}

// percentBase resolves the reference dimension for percentage literals in
// the given property: the parent's width for horizontal properties, its
// height for vertical ones.
func (n *LayoutNode) percentBase(prop string, pass *evalPass) (float64, error) {
	return n.availableDimension(horizontalProp(prop), pass)
}

// resolveFrame computes the node's full geometry. Per-property errors are
// reported through onErr; any error leaves the frame unapplied.
func (n *LayoutNode) resolveFrame(pass *evalPass, onErr func(prop string, err error)) (Rect, bool) {
	var rect Rect
	ok := true

	read := func(prop string, dst *float64) {
		f, err := n.geomNumber(prop, pass)
		if err != nil {
			onErr(prop, err)
			ok = false
			return
		}
		*dst = f
	}

	read(propLeft, &rect.X)
	read(propTop, &rect.Y)
	read(propWidth, &rect.Width)
	read(propHeight, &rect.Height)
	return rect, ok
}
