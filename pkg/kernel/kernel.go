// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid modeling, boolean operations and surface
// triangulation behind this interface. The kernel abstraction allows
// swapping backends without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// RawFace is the triangulation of one topological face of a solid,
// as produced by a kernel's triangulator. Triangle entries index into
// Points with face-local indices.
type RawFace struct {
	Points    [][3]float64
	Triangles [][3]int
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Dimensions must be positive; implementations reject
	// non-positive values with ErrInvalidInput.
	Box(dx, dy, dz float64) (Solid, error)
	BoxAt(corner [3]float64, dx, dy, dz float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)
	Cone(height, bottomRadius, topRadius float64) (Solid, error)

	// Boolean operations. A failed operation is reported as
	// ErrKernelOpFailed.
	Union(a, b Solid) (Solid, error)
	Difference(a, b Solid) (Solid, error)
	Intersection(a, b Solid) (Solid, error)

	// DifferenceFuzzy is the relaxed-tolerance variant of Difference used
	// by retry paths: near-coincident geometry within fuzz is treated as
	// coincident.
	DifferenceFuzzy(a, b Solid, fuzz float64) (Solid, error)

	// Transforms.
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, xDeg, yDeg, zDeg float64) Solid
	Transform(s Solid, t Transform) (Solid, error)

	// Triangulate produces the per-face surface triangulation of a solid
	// at the given target element size. An empty result is valid (an
	// empty solid has no surface).
	Triangulate(s Solid, targetSize float64) ([]RawFace, error)

	// Analysis.
	Volume(s Solid) float64
	IsValid(s Solid) bool

	// Repair attempts a shape-healing pass. Callers must re-validate the
	// result; repair is best-effort and may return the input unchanged.
	Repair(s Solid) Solid
}
