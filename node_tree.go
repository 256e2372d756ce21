package layout

// AddChild appends children to this node. Fails if a child already has a
// parent: children are owned exclusively, never shared.
func (n *LayoutNode) AddChild(children ...*LayoutNode) error {
	for _, child := range children {
		if err := n.InsertChild(len(n.children), child); err != nil {
			return err
		}
	}
	return nil
}

// InsertChild inserts a child at the given index.
func (n *LayoutNode) InsertChild(index int, child *LayoutNode) error {
	if child.parent != nil {
		return configErrorf("%s: child %s already has a parent", n.DebugName(), child.DebugName())
	}
	if index < 0 || index > len(n.children) {
		return configErrorf("%s: insert index %d out of range [0,%d]", n.DebugName(), index, len(n.children))
	}

	// Late insertions into a mounted tree parse against the host now, the
	// way Mount does for the initial tree. Failures leave the tree intact.
	host := n.hostRef()
	if host != nil {
		if err := child.finishParse(host); err != nil {
			return err
		}
	}

	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child

	n.invalidateSubtree()
	if host != nil {
		notifyMounted(host, n, child)
	}
	return nil
}

// RemoveChild removes a child, cascading to its descendants. Returns true
// if the child was found. The removed subtree is detached and no longer
// participates in evaluation.
func (n *LayoutNode) RemoveChild(child *LayoutNode) bool {
	for i, c := range n.children {
		if c != child {
			continue
		}
		n.children = append(n.children[:i], n.children[i+1:]...)
		if host := n.hostRef(); host != nil {
			notifyUnmounted(host, n, child)
		}
		child.parent = nil
		n.invalidateSubtree()
		return true
	}
	return false
}

// RemoveAllChildren removes every child, cascading to descendants.
func (n *LayoutNode) RemoveAllChildren() {
	host := n.hostRef()
	removed := n.children
	n.children = nil
	for _, child := range removed {
		if host != nil {
			notifyUnmounted(host, n, child)
		}
		child.parent = nil
	}
	n.invalidateSubtree()
}

// notifyMounted walks the attached subtree parent-before-child.
func notifyMounted(host Host, parent, child *LayoutNode) {
	host.ChildMounted(parent, child)
	for _, grandchild := range child.children {
		notifyMounted(host, child, grandchild)
	}
}

// notifyUnmounted walks the detached subtree child-before-parent.
func notifyUnmounted(host Host, parent, child *LayoutNode) {
	for _, grandchild := range child.children {
		notifyUnmounted(host, child, grandchild)
	}
	host.ChildUnmounted(parent, child)
}

// Children returns the child nodes in order.
func (n *LayoutNode) Children() []*LayoutNode {
	return n.children
}

// Parent returns the parent node, or nil for the root.
func (n *LayoutNode) Parent() *LayoutNode {
	return n.parent
}

// Root returns the root of the hierarchy this node belongs to.
func (n *LayoutNode) Root() *LayoutNode {
	return n.root()
}

// NodeWithOutlet finds the first node in this subtree (depth-first,
// document order) with the given outlet identifier.
func (n *LayoutNode) NodeWithOutlet(outlet string) *LayoutNode {
	if n.outlet == outlet {
		return n
	}
	for _, child := range n.children {
		if found := child.NodeWithOutlet(outlet); found != nil {
			return found
		}
	}
	return nil
}

// previousSibling returns the sibling before this node, or nil.
func (n *LayoutNode) previousSibling() *LayoutNode {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n {
			if i == 0 {
				return nil
			}
			return n.parent.children[i-1]
		}
	}
	return nil
}

// nextSibling returns the sibling after this node, or nil.
func (n *LayoutNode) nextSibling() *LayoutNode {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n {
			if i == len(n.parent.children)-1 {
				return nil
			}
			return n.parent.children[i+1]
		}
	}
	return nil
}
