package layout

import (
	"errors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"

	"github.com/exprkit/layout/internal/expr"
)

// Mount attaches the hierarchy to a host and runs the first update pass.
// Only a root node mounts; availableWidth/Height are the container
// dimensions that root-level percentages and auto sizes resolve against.
//
// Remaining property expressions are parsed here, now that the host's
// property tables determine each property's kind and parse mode. Parse
// and configuration errors surface before any view is touched.
func (n *LayoutNode) Mount(host Host, availableWidth, availableHeight float64) error {
	if n.parent != nil {
		return configErrorf("%s: only a root node can be mounted", n.DebugName())
	}
	if n.host != nil {
		return configErrorf("%s: already mounted", n.DebugName())
	}

	n.availW, n.availH = availableWidth, availableHeight
	if err := n.finishParse(host); err != nil {
		return err
	}

	n.host = host
	notifyMounted(host, nil, n)
	n.markSubtreeDirty()
	return n.Update()
}

// Unmount detaches the hierarchy from its host.
func (n *LayoutNode) Unmount() {
	if n.parent != nil || n.host == nil {
		return
	}
	notifyUnmounted(n.host, nil, n)
	n.host = nil
}

// finishParse parses every not-yet-parsed property source in the subtree.
// String-like properties (string, font, image references) parse in
// template mode; the rest use the expression grammar.
func (n *LayoutNode) finishParse(host Host) error {
	for _, prop := range sortedKeys(n.sources) {
		if _, done := n.exprs[prop]; done {
			continue
		}
		kind, ok := host.PropertyKind(n.viewKind, prop)
		if !ok {
			return configErrorf("%s: view kind %q has no property %q", n.DebugName(), n.viewKind, prop)
		}
		e, err := expr.Cached(n.sources[prop], kind == KindString || kind == KindFont || kind == KindObject)
		if err != nil {
			return &NodeError{Node: n, Property: prop, Err: err}
		}
		n.exprs[prop] = e
	}
	for _, child := range n.children {
		if err := child.finishParse(host); err != nil {
			return err
		}
	}
	return nil
}

// Resize updates the container dimensions and marks the tree for
// recomputation. Takes effect on the next Update.
func (n *LayoutNode) Resize(availableWidth, availableHeight float64) error {
	if n.parent != nil {
		return configErrorf("%s: only the root can be resized", n.DebugName())
	}
	if n.availW == availableWidth && n.availH == availableHeight {
		return nil
	}
	n.availW, n.availH = availableWidth, availableHeight
	n.markSubtreeDirty()
	return nil
}

// SetState replaces the node's local state. A value deep-equal to the
// current state is a no-op: no re-evaluation, no host writes. Equality is
// structural (go-cmp): state values must be plain data or expose an
// Equal method. Otherwise
// memoized results are invalidated for this node and every descendant
// whose scope can observe the changed keys, and those nodes are marked
// dirty for the next Update.
func (n *LayoutNode) SetState(state map[string]any) error {
	if cmp.Equal(n.state, state, cmpopts.EquateEmpty()) {
		return nil
	}
	if err := n.checkKeyCollision(state, n.constants); err != nil {
		return err
	}

	changed := diffKeys(n.state, state)
	n.state = copyMap(state)
	if len(changed) > 0 {
		n.invalidateForKeys(changed, false)
		n.invalidateSiblingReaders()
	}
	return nil
}

// SetStateValue updates a single state key, preserving the others.
func (n *LayoutNode) SetStateValue(key string, value any) error {
	next := copyMap(n.state)
	if next == nil {
		next = make(map[string]any, 1)
	}
	next[key] = value
	return n.SetState(next)
}

// SetConstants replaces the node's constants, with the same diffing and
// invalidation behavior as SetState.
func (n *LayoutNode) SetConstants(constants map[string]any) error {
	if cmp.Equal(n.constants, constants, cmpopts.EquateEmpty()) {
		return nil
	}
	if err := n.checkKeyCollision(n.state, constants); err != nil {
		return err
	}

	changed := diffKeys(n.constants, constants)
	n.constants = copyMap(constants)
	if len(changed) > 0 {
		n.invalidateForKeys(changed, false)
		n.invalidateSiblingReaders()
	}
	return nil
}

// diffKeys returns the set of keys whose values differ between two maps,
// including keys present on only one side.
func diffKeys(old, new map[string]any) map[string]bool {
	changed := make(map[string]bool)
	for k, ov := range old {
		nv, ok := new[k]
		if !ok || !cmp.Equal(ov, nv) {
			changed[k] = true
		}
	}
	for k := range new {
		if _, ok := old[k]; !ok {
			changed[k] = true
		}
	}
	return changed
}

// invalidateForKeys drops memoized results that could observe the changed
// keys, on this node and (transitively) on descendants that do not
// locally shadow them. fromAncestor marks descendant invocations, where
// parent/previous/next keyword reads must also be treated as affected.
func (n *LayoutNode) invalidateForKeys(keys map[string]bool, fromAncestor bool) {
	affected := n.affectedProps(keys, fromAncestor)
	if len(affected) > 0 {
		for prop := range affected {
			delete(n.memo, prop)
		}
		n.dirty = true
	}

	for _, child := range n.children {
		childKeys := make(map[string]bool)
		for k := range keys {
			if _, shadowed := child.state[k]; shadowed {
				continue
			}
			if _, shadowed := child.constants[k]; shadowed {
				continue
			}
			childKeys[k] = true
		}
		if len(childKeys) > 0 {
			child.invalidateForKeys(childKeys, true)
		}
	}
}

// affectedProps computes, to a fixpoint, which of the node's expressions
// can observe any of the changed keys: a direct symbol read, a read of
// another affected expression on the same node, or (for descendants of
// the changed node) a parent/previous/next keyword read.
func (n *LayoutNode) affectedProps(keys map[string]bool, includeKeywords bool) map[string]bool {
	affected := make(map[string]bool)
	for {
		grew := false
		for prop, e := range n.exprs {
			if affected[prop] {
				continue
			}
			for _, sym := range e.Symbols() {
				hit := keys[sym] || affected[sym]
				if includeKeywords && (sym == "parent" || sym == "previous" || sym == "next") {
					hit = true
				}
				if hit {
					affected[prop] = true
					grew = true
					break
				}
			}
		}
		if !grew {
			return affected
		}
	}
}

// invalidateSiblingReaders drops sibling memos that read this node
// through the previous/next keywords.
func (n *LayoutNode) invalidateSiblingReaders() {
	if prev := n.previousSibling(); prev != nil {
		prev.invalidateKeywordReaders("next")
	}
	if next := n.nextSibling(); next != nil {
		next.invalidateKeywordReaders("previous")
	}
}

func (n *LayoutNode) invalidateKeywordReaders(keyword string) {
	for prop, e := range n.exprs {
		if e.ReadsSymbol(keyword) {
			delete(n.memo, prop)
			n.dirty = true
		}
	}
}

// invalidateSubtree drops every memoized result in the subtree and marks
// it dirty. Used for structural changes, where sibling relationships and
// aggregate sizes shift wholesale.
func (n *LayoutNode) invalidateSubtree() {
	n.memo = make(map[string]Value)
	n.dirty = true
	for _, child := range n.children {
		child.invalidateSubtree()
	}
}

func (n *LayoutNode) markSubtreeDirty() {
	n.dirty = true
	for _, child := range n.children {
		child.markSubtreeDirty()
	}
}

// Update re-evaluates dirty expressions and recomputes geometry, applying
// results to the host. Two passes: a top-down value pass (children may
// read parent.*, so parents settle first) and a bottom-up geometry pass
// (a parent's auto size needs its children sized first; the lazy memoized
// recursion enforces that ordering).
//
// A failing property is attributed to its (node, property) pair and does
// not abort unrelated properties; the previously applied value, if any,
// remains in place. All returned errors are recoverable: a corrected
// SetState plus Update clears them.
func (n *LayoutNode) Update() error {
	if n.parent != nil {
		return configErrorf("%s: update must start at the root", n.DebugName())
	}
	if n.host == nil {
		return configErrorf("%s: not mounted", n.DebugName())
	}

	// Geometry memos live for exactly one pass: auto sizes aggregate
	// descendant frames across node boundaries, so they cannot be
	// invalidated key-by-key the way value memos are.
	n.clearGeometryMemos()

	pass := newEvalPass()
	var errs []error
	evaluated := n.updateValues(pass, &errs)
	n.updateGeometry(pass, &errs)

	n.log().Debug("update pass complete",
		zap.Int("evaluated", evaluated),
		zap.Int("errors", len(errs)),
	)
	return errors.Join(errs...)
}

// clearGeometryMemos also drops the previous pass's geometry errors: the
// geometry pass visits every node, so a failure recorded last pass on a
// node that is not otherwise dirty must not outlive its cause.
func (n *LayoutNode) clearGeometryMemos() {
	for _, prop := range []string{propTop, propLeft, propWidth, propHeight, propBottom, propRight} {
		delete(n.memo, prop)
		delete(n.propErrs, prop)
	}
	delete(n.propErrs, "frame")
	for _, child := range n.children {
		child.clearGeometryMemos()
	}
}

// updateValues is the top-down value pass. Returns the number of nodes
// evaluated.
func (n *LayoutNode) updateValues(pass *evalPass, errs *[]error) int {
	count := 0
	if n.dirty {
		count++
		n.phase = PhaseEvaluating
		n.propErrs = make(map[string]error)
		host := n.hostRef()

		for _, prop := range sortedKeys(n.exprs) {
			if isGeometryProp(prop) {
				continue
			}
			v, err := n.valueFor(prop, pass)
			if err != nil {
				n.recordPropError(prop, err, errs)
				continue
			}
			if v.IsNil() {
				// "No value": the property is omitted, not written.
				continue
			}
			if err := host.SetProperty(n, prop, v); err != nil {
				n.recordPropError(prop, err, errs)
			}
		}
	}

	for _, child := range n.children {
		count += child.updateValues(pass, errs)
	}
	return count
}

// updateGeometry is the bottom-up geometry pass.
func (n *LayoutNode) updateGeometry(pass *evalPass, errs *[]error) {
	for _, child := range n.children {
		child.updateGeometry(pass, errs)
	}

	rect, ok := n.resolveFrame(pass, func(prop string, err error) {
		n.recordPropError(prop, err, errs)
	})
	if ok && (!n.frameOK || rect != n.frame) {
		if err := n.hostRef().SetFrame(n, rect); err != nil {
			n.recordPropError("frame", err, errs)
		} else {
			n.frame = rect
			n.frameOK = true
		}
	}

	n.dirty = false
	if len(n.propErrs) > 0 {
		n.phase = PhaseFailed
	} else {
		n.phase = PhaseReady
	}
}

func (n *LayoutNode) recordPropError(prop string, err error, errs *[]error) {
	n.propErrs[prop] = err
	ne := &NodeError{Node: n, Property: prop, Err: err}
	*errs = append(*errs, ne)
	n.log().Warn("property evaluation failed",
		zap.String("node", n.DebugName()),
		zap.String("property", prop),
		zap.Error(err),
	)
}
