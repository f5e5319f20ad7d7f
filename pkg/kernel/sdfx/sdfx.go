// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Marching cubes resolution bounds. The cell count is derived from the
// target element size but clamped so pathological sizes cannot produce
// empty or enormous grids.
const (
	minMeshCells = 8
	maxMeshCells = 400

	// volumeMeshCells is the fixed resolution used for volume
	// integration, independent of any caller-chosen element size.
	volumeMeshCells = 128
)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct{}

// New returns a new sdfx-backed kernel.
func New() *Kernel {
	return &Kernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func checkPositive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be positive, got %v: %w", name, v, kernel.ErrInvalidInput)
	}
	return nil
}

// Box creates a box with the given dimensions and its minimum corner at
// the origin, so placement translations work intuitively for stacked
// device layers. sdf.Box3D centers the box at the origin, so we shift by
// half-dimensions.
func (k *Kernel) Box(dx, dy, dz float64) (kernel.Solid, error) {
	return k.BoxAt([3]float64{0, 0, 0}, dx, dy, dz)
}

// BoxAt creates a box with its minimum corner at the given point.
func (k *Kernel) BoxAt(corner [3]float64, dx, dy, dz float64) (kernel.Solid, error) {
	for _, d := range []struct {
		name string
		v    float64
	}{{"box dx", dx}, {"box dy", dy}, {"box dz", dz}} {
		if err := checkPositive(d.name, d.v); err != nil {
			return nil, err
		}
	}
	s, err := sdf.Box3D(v3.Vec{X: dx, Y: dy, Z: dz}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %v: %w", err, kernel.ErrKernelOpFailed)
	}
	m := sdf.Translate3d(v3.Vec{X: corner[0] + dx/2, Y: corner[1] + dy/2, Z: corner[2] + dz/2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Cylinder creates a cylinder of the given height and radius, centered
// at the origin with its axis along Z.
func (k *Kernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if err := checkPositive("cylinder height", height); err != nil {
		return nil, err
	}
	if err := checkPositive("cylinder radius", radius); err != nil {
		return nil, err
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %v: %w", err, kernel.ErrKernelOpFailed)
	}
	return wrap(s), nil
}

// Sphere creates a sphere of the given radius centered at the origin.
func (k *Kernel) Sphere(radius float64) (kernel.Solid, error) {
	if err := checkPositive("sphere radius", radius); err != nil {
		return nil, err
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Sphere3D: %v: %w", err, kernel.ErrKernelOpFailed)
	}
	return wrap(s), nil
}

// Cone creates a truncated cone centered at the origin with its axis
// along Z. topRadius may be zero for a full cone.
func (k *Kernel) Cone(height, bottomRadius, topRadius float64) (kernel.Solid, error) {
	if err := checkPositive("cone height", height); err != nil {
		return nil, err
	}
	if err := checkPositive("cone bottom radius", bottomRadius); err != nil {
		return nil, err
	}
	if topRadius < 0 || math.IsNaN(topRadius) {
		return nil, fmt.Errorf("cone top radius must be non-negative, got %v: %w", topRadius, kernel.ErrInvalidInput)
	}
	s, err := sdf.Cone3D(height, bottomRadius, topRadius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cone3D: %v: %w", err, kernel.ErrKernelOpFailed)
	}
	return wrap(s), nil
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) (kernel.Solid, error) {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b))), nil
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) (kernel.Solid, error) {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b))), nil
}

// DifferenceFuzzy returns a - b with the cutter inflated by fuzz, so
// near-coincident boundaries are treated as coincident.
func (k *Kernel) DifferenceFuzzy(a, b kernel.Solid, fuzz float64) (kernel.Solid, error) {
	if fuzz < 0 || math.IsNaN(fuzz) {
		return nil, fmt.Errorf("fuzz must be non-negative, got %v: %w", fuzz, kernel.ErrInvalidInput)
	}
	return wrap(sdf.Difference3D(unwrap(a), sdf.Offset3D(unwrap(b), fuzz))), nil
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) (kernel.Solid, error) {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b))), nil
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, xDeg, yDeg, zDeg float64) kernel.Solid {
	xRad := xDeg * math.Pi / 180.0
	yRad := yDeg * math.Pi / 180.0
	zRad := zDeg * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Transform applies an affine pose to a solid. The pose must be
// invertible; singular poses are rejected with ErrInvalidInput.
func (k *Kernel) Transform(s kernel.Solid, t kernel.Transform) (kernel.Solid, error) {
	if t.IsIdentity() {
		return s, nil
	}
	inv, ok := t.Inverse()
	if !ok {
		return nil, fmt.Errorf("singular transform: %w", kernel.ErrInvalidInput)
	}
	inner := unwrap(s)
	bb := inner.BoundingBox()
	// Conservative distance scale: under anisotropic scaling the SDF
	// value is only a bound; shrinking it by the smallest column norm
	// keeps marching cubes from skipping surface cells.
	norms := t.ColumnNorms()
	scale := math.Min(norms[0], math.Min(norms[1], norms[2]))
	if scale <= 0 {
		scale = 1
	}
	return wrap(&transformedSDF3{
		inner:     inner,
		inv:       inv,
		bb:        transformBox(t, bb),
		distScale: scale,
	}), nil
}

// transformedSDF3 evaluates an inner SDF through the inverse of an
// affine pose. This is the standard SDF composition wrapper; sdfx's own
// Transform3D constructors cover only the poses expressible with its
// matrix builders, while the assembly layer hands us arbitrary validated
// 3x4 matrices.
type transformedSDF3 struct {
	inner     sdf.SDF3
	inv       kernel.Transform
	bb        sdf.Box3
	distScale float64
}

func (s *transformedSDF3) Evaluate(p v3.Vec) float64 {
	q := s.inv.Apply([3]float64{p.X, p.Y, p.Z})
	return s.inner.Evaluate(v3.Vec{X: q[0], Y: q[1], Z: q[2]}) * s.distScale
}

func (s *transformedSDF3) BoundingBox() sdf.Box3 {
	return s.bb
}

// transformBox maps a bounding box through a pose and returns the
// axis-aligned box of the eight transformed corners.
func transformBox(t kernel.Transform, bb sdf.Box3) sdf.Box3 {
	lo := [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	hi := [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	var outMin, outMax [3]float64
	first := true
	for cx := 0; cx < 2; cx++ {
		for cy := 0; cy < 2; cy++ {
			for cz := 0; cz < 2; cz++ {
				c := [3]float64{pick(cx, lo[0], hi[0]), pick(cy, lo[1], hi[1]), pick(cz, lo[2], hi[2])}
				q := t.Apply(c)
				if first {
					outMin, outMax = q, q
					first = false
					continue
				}
				for i := 0; i < 3; i++ {
					outMin[i] = math.Min(outMin[i], q[i])
					outMax[i] = math.Max(outMax[i], q[i])
				}
			}
		}
	}
	return sdf.Box3{
		Min: v3.Vec{X: outMin[0], Y: outMin[1], Z: outMin[2]},
		Max: v3.Vec{X: outMax[0], Y: outMax[1], Z: outMax[2]},
	}
}

func pick(c int, lo, hi float64) float64 {
	if c == 0 {
		return lo
	}
	return hi
}

// IsValid reports whether the solid has a finite, non-degenerate
// bounding box. SDF solids cannot carry the topological defects a B-rep
// can, so this is the whole check.
func (k *Kernel) IsValid(s kernel.Solid) bool {
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.IsNaN(min[i]) || math.IsNaN(max[i]) ||
			math.IsInf(min[i], 0) || math.IsInf(max[i], 0) {
			return false
		}
		if max[i] < min[i] {
			return false
		}
	}
	return true
}

// Repair is a pass-through: a signed distance field is well-formed by
// construction. Degenerate triangles are instead dropped at
// triangulation time.
func (k *Kernel) Repair(s kernel.Solid) kernel.Solid {
	return s
}
