package mesh

import "testing"

func TestFindClosestNode(t *testing.T) {
	m := newTestMesh(t, unitSquareFace())

	id, ok := m.FindClosestNode([3]float64{0.1, 0.05, 0})
	if !ok || id != 0 {
		t.Errorf("closest to near-origin = (%d, %v), want (0, true)", id, ok)
	}
	id, ok = m.FindClosestNode([3]float64{0.9, 0.95, 0})
	if !ok || id != 2 {
		t.Errorf("closest to near-(1,1) = (%d, %v), want (2, true)", id, ok)
	}

	empty := newTestMesh(t)
	if _, ok := empty.FindClosestNode([3]float64{0, 0, 0}); ok {
		t.Error("empty mesh should report no closest node")
	}
}

func TestFindElementContaining(t *testing.T) {
	m := newTestMesh(t, unitSquareFace())

	// Dead on a centroid always matches.
	c := m.Elements()[0].Centroid
	id, ok := m.FindElementContaining(c)
	if !ok || id != 0 {
		t.Errorf("containing centroid 0 = (%d, %v), want (0, true)", id, ok)
	}

	// Far away matches nothing.
	if _, ok := m.FindElementContaining([3]float64{10, 10, 10}); ok {
		t.Error("distant point should not match any element")
	}
}

func TestInterfaceNodesSymmetric(t *testing.T) {
	// Two unit squares sharing the x=1 edge.
	left := newTestMesh(t, gridFace(2, 0, 0))
	right := newTestMesh(t, gridFace(2, 1, 0))

	tol := 1e-6
	fromLeft := left.FindInterfaceNodes(right, tol)
	fromRight := right.FindInterfaceNodes(left, tol)

	// The shared edge holds 3 grid nodes on each side.
	if len(fromLeft) != 3 {
		t.Errorf("left interface nodes = %d, want 3", len(fromLeft))
	}
	if len(fromRight) != 3 {
		t.Errorf("right interface nodes = %d, want 3", len(fromRight))
	}
	for _, id := range fromLeft {
		if x := left.Nodes()[id].Point[0]; x != 1 {
			t.Errorf("left interface node %d at x=%v, want x=1", id, x)
		}
	}
}

func TestInterfaceNodesDisjointMeshes(t *testing.T) {
	a := newTestMesh(t, gridFace(2, 0, 0))
	b := newTestMesh(t, gridFace(2, 5, 0))
	if ids := a.FindInterfaceNodes(b, 1e-6); len(ids) != 0 {
		t.Errorf("disjoint meshes reported %d interface nodes", len(ids))
	}
	if ids := a.FindInterfaceElements(b, 1e-6); len(ids) != 0 {
		t.Errorf("disjoint meshes reported %d interface elements", len(ids))
	}
}

func TestInterfaceElementsCoincidentMeshes(t *testing.T) {
	// Identical meshes. The containment lookup is first-match, so a
	// query centroid may land on a neighboring element before its exact
	// twin; a tight tolerance therefore finds a subset, not all.
	a := newTestMesh(t, gridFace(2, 0, 0))
	b := newTestMesh(t, gridFace(2, 0, 0))

	tight := a.FindInterfaceElements(b, 1e-6)
	if len(tight) == 0 || len(tight) > a.ElementCount() {
		t.Errorf("coincident meshes at tight tolerance: %d interface elements, want 1..%d",
			len(tight), a.ElementCount())
	}

	// At half the cell size the first match (self or its cell partner,
	// centroid distance sqrt(2)/6) is always within tolerance.
	loose := a.FindInterfaceElements(b, 0.25)
	if len(loose) != a.ElementCount() {
		t.Errorf("coincident meshes at half-cell tolerance: %d interface elements, want %d",
			len(loose), a.ElementCount())
	}
}
