package layout

import (
	"strings"
	"testing"
)

func TestTree_AddAndRemove(t *testing.T) {
	root := mustNode(t, "view")
	a := mustNode(t, "view", WithOutlet("a"))
	b := mustNode(t, "view", WithOutlet("b"))

	if err := root.AddChild(a, b); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if len(root.Children()) != 2 {
		t.Fatalf("children = %d, want 2", len(root.Children()))
	}
	if a.Parent() != root || b.Parent() != root {
		t.Error("children not linked to parent")
	}
	if a.Root() != root || b.Root() != root {
		t.Error("Root() should walk to the top")
	}

	if !root.RemoveChild(a) {
		t.Fatal("RemoveChild returned false for a present child")
	}
	if a.Parent() != nil {
		t.Error("removed child keeps its parent pointer")
	}
	if root.RemoveChild(a) {
		t.Error("RemoveChild returned true for an absent child")
	}
	if len(root.Children()) != 1 || root.Children()[0] != b {
		t.Error("remaining children wrong after removal")
	}
}

func TestTree_InsertChildOrdering(t *testing.T) {
	root := mustNode(t, "view")
	first := mustNode(t, "view", WithOutlet("first"))
	last := mustNode(t, "view", WithOutlet("last"))
	middle := mustNode(t, "view", WithOutlet("middle"))

	if err := root.AddChild(first, last); err != nil {
		t.Fatal(err)
	}
	if err := root.InsertChild(1, middle); err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, c := range root.Children() {
		got = append(got, c.Outlet())
	}
	want := "first,middle,last"
	if strings.Join(got, ",") != want {
		t.Errorf("child order = %s, want %s", strings.Join(got, ","), want)
	}

	if err := root.InsertChild(7, mustNode(t, "view")); err == nil {
		t.Error("expected out-of-range error")
	}
	if err := root.InsertChild(-1, mustNode(t, "view")); err == nil {
		t.Error("expected out-of-range error for negative index")
	}
}

func TestTree_RemoveAllChildren(t *testing.T) {
	root := mustNode(t, "view")
	a := mustNode(t, "view")
	b := mustNode(t, "view")
	if err := root.AddChild(a, b); err != nil {
		t.Fatal(err)
	}

	root.RemoveAllChildren()
	if len(root.Children()) != 0 {
		t.Error("children remain after RemoveAllChildren")
	}
	if a.Parent() != nil || b.Parent() != nil {
		t.Error("removed children keep parent pointers")
	}
}

func TestTree_NodeWithOutlet(t *testing.T) {
	grandchild := mustNode(t, "label", WithOutlet("title"))
	child := mustNode(t, "view", WithChildren(grandchild))
	decoy := mustNode(t, "view")
	root := mustNode(t, "view", WithOutlet("root"), WithChildren(decoy, child))

	if got := root.NodeWithOutlet("title"); got != grandchild {
		t.Errorf("NodeWithOutlet(title) = %v, want the grandchild", got)
	}
	if got := root.NodeWithOutlet("root"); got != root {
		t.Error("NodeWithOutlet should match the receiver itself")
	}
	if got := root.NodeWithOutlet("nope"); got != nil {
		t.Errorf("NodeWithOutlet(nope) = %v, want nil", got)
	}
}

func TestTree_MountNotificationOrder(t *testing.T) {
	grandchild := mustNode(t, "label")
	child := mustNode(t, "view", WithChildren(grandchild))
	root := mustNode(t, "view", WithChildren(child))

	host := mountTree(t, root, 100, 100)

	if len(host.Mounts) != 3 {
		t.Fatalf("mount notifications = %d, want 3", len(host.Mounts))
	}
	order := []*LayoutNode{root, child, grandchild}
	for i, want := range order {
		ev := host.Mounts[i]
		if !ev.Mounted || ev.Child != want {
			t.Errorf("notification %d = %+v, want mount of node %d", i, ev, i)
		}
	}
	if host.Mounts[0].Parent != nil {
		t.Error("root mounts with a nil parent")
	}
	if host.Mounts[1].Parent != root || host.Mounts[2].Parent != child {
		t.Error("parent references wrong in mount notifications")
	}
}

func TestTree_UnmountNotificationOrder(t *testing.T) {
	grandchild := mustNode(t, "label")
	child := mustNode(t, "view", WithChildren(grandchild))
	root := mustNode(t, "view", WithChildren(child))

	host := mountTree(t, root, 100, 100)
	host.Mounts = nil

	if !root.RemoveChild(child) {
		t.Fatal("RemoveChild failed")
	}

	// Children detach before their parents.
	if len(host.Mounts) != 2 {
		t.Fatalf("unmount notifications = %d, want 2", len(host.Mounts))
	}
	if host.Mounts[0].Mounted || host.Mounts[0].Child != grandchild {
		t.Errorf("first unmount = %+v, want the grandchild", host.Mounts[0])
	}
	if host.Mounts[1].Mounted || host.Mounts[1].Child != child {
		t.Errorf("second unmount = %+v, want the child", host.Mounts[1])
	}
}

func TestTree_InsertIntoMountedTreeNotifies(t *testing.T) {
	root := mustNode(t, "view")
	host := mountTree(t, root, 100, 100)
	host.Mounts = nil

	late := mustNode(t, "view", WithOutlet("late"))
	if err := root.AddChild(late); err != nil {
		t.Fatal(err)
	}
	if len(host.Mounts) != 1 || !host.Mounts[0].Mounted || host.Mounts[0].Child != late {
		t.Errorf("mounts = %+v, want one mount of the late child", host.Mounts)
	}

	// The structural change marks the tree for recomputation.
	if err := root.Update(); err != nil {
		t.Fatalf("Update after insert: %v", err)
	}
	if _, ok := host.Frame(late); !ok {
		t.Error("late child never received a frame")
	}
}

func TestTree_DetachedSubtreeStopsEvaluating(t *testing.T) {
	child := mustNode(t, "view", WithExpression("width", "100"))
	root := mustNode(t, "view", WithChildren(child))
	host := mountTree(t, root, 400, 400)

	if !root.RemoveChild(child) {
		t.Fatal("RemoveChild failed")
	}
	writesBefore := host.SetFrameCalls
	if err := root.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := host.Frame(child); ok {
		t.Error("detached child still has host-side state")
	}
	if host.SetFrameCalls > writesBefore+1 {
		t.Error("detached child still produces frame writes")
	}
}
