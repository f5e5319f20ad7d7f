package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/algorithmx/stratum/pkg/kernel"
)

func TestBoxBoundingBox(t *testing.T) {
	k := New()
	box, err := k.Box(100, 50, 25)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{100, 50, 25}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestBoxAt(t *testing.T) {
	k := New()
	box, err := k.BoxAt([3]float64{10, 20, 30}, 2, 4, 6)
	if err != nil {
		t.Fatalf("BoxAt failed: %v", err)
	}
	min, max := box.BoundingBox()
	const tol = 0.01
	if math.Abs(min[0]-10) > tol || math.Abs(min[1]-20) > tol || math.Abs(min[2]-30) > tol {
		t.Errorf("min = %v, expected (10,20,30)", min)
	}
	if math.Abs(max[0]-12) > tol || math.Abs(max[1]-24) > tol || math.Abs(max[2]-36) > tol {
		t.Errorf("max = %v, expected (12,24,36)", max)
	}
}

func TestInvalidDimensions(t *testing.T) {
	k := New()
	cases := []struct {
		name string
		make func() (kernel.Solid, error)
	}{
		{"zero box", func() (kernel.Solid, error) { return k.Box(0, 1, 1) }},
		{"negative box", func() (kernel.Solid, error) { return k.Box(1, -2, 1) }},
		{"NaN box", func() (kernel.Solid, error) { return k.Box(1, math.NaN(), 1) }},
		{"zero cylinder radius", func() (kernel.Solid, error) { return k.Cylinder(5, 0) }},
		{"zero sphere", func() (kernel.Solid, error) { return k.Sphere(0) }},
		{"zero cone height", func() (kernel.Solid, error) { return k.Cone(0, 1, 0.5) }},
	}
	for _, tc := range cases {
		if _, err := tc.make(); !errors.Is(err, kernel.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestTriangulateBox(t *testing.T) {
	k := New()
	box, err := k.Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	faces, err := k.Triangulate(box, 0.25)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(faces) != 6 {
		t.Fatalf("axis-aligned box should triangulate into 6 normal buckets, got %d", len(faces))
	}
	for fi, f := range faces {
		if len(f.Points) == 0 || len(f.Triangles) == 0 {
			t.Errorf("face %d is empty", fi)
		}
		for _, tri := range f.Triangles {
			for _, n := range tri {
				if n < 0 || n >= len(f.Points) {
					t.Fatalf("face %d triangle references point %d, only %d points", fi, n, len(f.Points))
				}
			}
			if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
				t.Errorf("face %d contains a degenerate triangle %v", fi, tri)
			}
		}
	}
}

func TestTriangulateInvalidSize(t *testing.T) {
	k := New()
	box, _ := k.Box(1, 1, 1)
	if _, err := k.Triangulate(box, 0); !errors.Is(err, kernel.ErrInvalidInput) {
		t.Errorf("Triangulate(0) err = %v, want ErrInvalidInput", err)
	}
}

func TestVolumeBox(t *testing.T) {
	k := New()
	box, err := k.Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	vol := k.Volume(box)
	// Marching cubes approximates the surface; allow a few percent.
	if math.Abs(vol-8) > 8*0.05 {
		t.Errorf("Volume(2x2x2 box) = %f, expected ~8", vol)
	}
}

func TestVolumeEmptyDifference(t *testing.T) {
	k := New()
	small, _ := k.Box(1, 1, 1)
	big, _ := k.BoxAt([3]float64{-1, -1, -1}, 3, 3, 3)
	diff, err := k.Difference(small, big)
	if err != nil {
		t.Fatalf("Difference failed: %v", err)
	}
	if vol := k.Volume(diff); vol > 1e-6 {
		t.Errorf("volume of fully-consumed solid = %f, expected ~0", vol)
	}
	faces, err := k.Triangulate(diff, 0.25)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	total := 0
	for _, f := range faces {
		total += len(f.Triangles)
	}
	if total != 0 {
		t.Errorf("fully-consumed solid triangulated into %d triangles, expected 0", total)
	}
}

func TestDifferenceCarves(t *testing.T) {
	k := New()
	box, _ := k.Box(4, 4, 4)
	cutter, _ := k.BoxAt([3]float64{0, 0, 2}, 4, 4, 2)
	diff, err := k.Difference(box, cutter)
	if err != nil {
		t.Fatalf("Difference failed: %v", err)
	}
	vol := k.Volume(diff)
	if math.Abs(vol-32) > 32*0.08 {
		t.Errorf("half-carved 4^3 box volume = %f, expected ~32", vol)
	}
}

func TestTransformTranslatesBBox(t *testing.T) {
	k := New()
	box, _ := k.Box(2, 2, 2)
	moved, err := k.Transform(box, kernel.Translation(10, 0, 0))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	min, max := moved.BoundingBox()
	const tol = 0.01
	if math.Abs(min[0]-10) > tol || math.Abs(max[0]-12) > tol {
		t.Errorf("translated bbox X = [%f, %f], expected [10, 12]", min[0], max[0])
	}
	// Volume is preserved by a rigid motion.
	if dv := math.Abs(k.Volume(moved) - k.Volume(box)); dv > 0.5 {
		t.Errorf("rigid transform changed volume by %f", dv)
	}
}

func TestTransformSingularRejected(t *testing.T) {
	k := New()
	box, _ := k.Box(1, 1, 1)
	if _, err := k.Transform(box, kernel.Scaling(1, 0, 1)); !errors.Is(err, kernel.ErrInvalidInput) {
		t.Errorf("Transform(singular) err = %v, want ErrInvalidInput", err)
	}
}

func TestRotateExtents(t *testing.T) {
	k := New()
	box, _ := k.Box(100, 10, 10)

	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestIsValid(t *testing.T) {
	k := New()
	box, _ := k.Box(1, 2, 3)
	if !k.IsValid(box) {
		t.Error("IsValid(box) = false")
	}
	if k.Repair(box) != box {
		t.Error("Repair should pass a valid solid through unchanged")
	}
}
