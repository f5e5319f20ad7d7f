package mesh

import (
	"math"
	"testing"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// sizedMesh builds a mesh over a stub kernel whose triangulation gets
// finer as the target element size shrinks.
func sizedMesh(t *testing.T) *BoundaryMesh {
	t.Helper()
	k := &stubKernel{faces: func(size float64) []kernel.RawFace {
		n := int(math.Round(1 / size))
		if n < 1 {
			n = 1
		}
		return []kernel.RawFace{gridFace(n, 0, 0)}
	}}
	m, err := New(k, stubSolid{max: [3]float64{1, 1, 0}}, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.Generate(); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return m
}

func TestRefineRegeneratesFinerAndRestoresSize(t *testing.T) {
	m := sizedMesh(t)
	coarse := m.ElementCount()

	if err := m.Refine([][3]float64{{0.5, 0.5, 0}}, 0.25); err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if m.ElementCount() <= coarse {
		t.Errorf("refined element count = %d, want more than %d", m.ElementCount(), coarse)
	}
	if m.MeshSize() != 1.0 {
		t.Errorf("nominal size after Refine = %v, want 1.0 restored", m.MeshSize())
	}
}

func TestRefineNeverCoarsens(t *testing.T) {
	m := sizedMesh(t)
	if err := m.Regenerate(0.25); err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	fine := m.ElementCount()

	// A local size larger than the current one must not coarsen.
	if err := m.Refine([][3]float64{{0.5, 0.5, 0}}, 2.0); err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if m.ElementCount() != fine {
		t.Errorf("element count changed from %d to %d on larger local size", fine, m.ElementCount())
	}
}

func TestAdaptiveRefineNoOpOnGoodMesh(t *testing.T) {
	m := sizedMesh(t)
	before := m.ElementCount()

	// Grid right triangles all score well above this threshold.
	if err := m.AdaptiveRefine(0.5); err != nil {
		t.Fatalf("AdaptiveRefine failed: %v", err)
	}
	if m.ElementCount() != before {
		t.Errorf("good mesh was refined: %d -> %d elements", before, m.ElementCount())
	}
}

func TestRefineAroundPoints(t *testing.T) {
	m := sizedMesh(t)
	coarse := m.ElementCount()

	// No centroid within radius: untouched.
	if err := m.RefineAroundPoints([][3]float64{{10, 10, 10}}, 0.1, 0.25); err != nil {
		t.Fatalf("RefineAroundPoints failed: %v", err)
	}
	if m.ElementCount() != coarse {
		t.Errorf("out-of-range point refined the mesh: %d -> %d", coarse, m.ElementCount())
	}

	// A point near the mesh triggers refinement.
	if err := m.RefineAroundPoints([][3]float64{{0.5, 0.5, 0}}, 1.0, 0.25); err != nil {
		t.Fatalf("RefineAroundPoints failed: %v", err)
	}
	if m.ElementCount() <= coarse {
		t.Errorf("in-range point did not refine: %d elements", m.ElementCount())
	}
}

func TestRefineInterface(t *testing.T) {
	left := sizedMesh(t)
	coarse := left.ElementCount()

	rightKernel := &stubKernel{faces: func(size float64) []kernel.RawFace {
		return []kernel.RawFace{gridFace(1, 1, 0)}
	}}
	right, err := New(rightKernel, stubSolid{min: [3]float64{1, 0, 0}, max: [3]float64{2, 1, 0}}, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := right.Generate(); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Disjoint interiors: no interface elements under a tight size.
	if err := left.RefineInterface(right, 1e-3); err != nil {
		t.Fatalf("RefineInterface failed: %v", err)
	}
	if left.ElementCount() != coarse {
		t.Errorf("no-interface refinement changed the mesh: %d -> %d", coarse, left.ElementCount())
	}
}
