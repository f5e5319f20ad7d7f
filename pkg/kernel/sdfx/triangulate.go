package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// Triangulate runs marching cubes at a resolution derived from the
// target element size and groups the resulting triangles into faces.
//
// An SDF has no B-rep face topology, so triangles are bucketed by the
// dominant axis of their outward normal (-X, +X, -Y, +Y, -Z, +Z). For
// the axis-aligned layer stacks this tool models that recovers the six
// natural faces of each box-like solid; curved solids get their surface
// split into at most six patches, which downstream consumers treat the
// same way.
func (k *Kernel) Triangulate(s kernel.Solid, targetSize float64) ([]kernel.RawFace, error) {
	if targetSize <= 0 || math.IsNaN(targetSize) || math.IsInf(targetSize, 0) {
		return nil, fmt.Errorf("target element size must be positive, got %v: %w", targetSize, kernel.ErrInvalidInput)
	}

	sdf3 := unwrap(s)
	bb := sdf3.BoundingBox()
	longest := math.Max(bb.Max.X-bb.Min.X, math.Max(bb.Max.Y-bb.Min.Y, bb.Max.Z-bb.Min.Z))
	if longest <= 0 || math.IsInf(longest, 0) || math.IsNaN(longest) {
		return nil, nil
	}

	cells := int(math.Ceil(longest / targetSize))
	if cells < minMeshCells {
		cells = minMeshCells
	}
	if cells > maxMeshCells {
		cells = maxMeshCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		// An empty solid (e.g. one fully consumed by subtraction)
		// legitimately has no surface.
		return nil, nil
	}

	// One bucket per dominant normal direction, in a fixed order so face
	// ids are stable across regenerations of the same solid.
	buckets := make([]faceBucket, 6)
	for i := range buckets {
		buckets[i].index = make(map[[3]float64]int)
	}

	for _, tri := range triangles {
		n := tri.Normal()
		b, ok := normalBucket(n)
		if !ok {
			continue // zero-area triangle
		}
		buckets[b].add(tri)
	}

	var faces []kernel.RawFace
	for i := range buckets {
		if len(buckets[i].face.Triangles) > 0 {
			faces = append(faces, buckets[i].face)
		}
	}
	return faces, nil
}

// normalBucket maps an outward normal to one of six axis buckets:
// 0:-X 1:+X 2:-Y 3:+Y 4:-Z 5:+Z. ok is false for degenerate normals.
func normalBucket(n v3.Vec) (int, bool) {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	if ax == 0 && ay == 0 && az == 0 {
		return 0, false
	}
	switch {
	case ax >= ay && ax >= az:
		if n.X < 0 {
			return 0, true
		}
		return 1, true
	case ay >= az:
		if n.Y < 0 {
			return 2, true
		}
		return 3, true
	default:
		if n.Z < 0 {
			return 4, true
		}
		return 5, true
	}
}

// faceBucket accumulates one face's triangulation, deduplicating points
// that compare exactly equal. Marching cubes emits shared edge vertices
// with identical coordinates, so exact comparison recovers most of the
// sharing; stragglers become extra nodes, which the mesh layer tolerates.
type faceBucket struct {
	index map[[3]float64]int
	face  kernel.RawFace
}

func (b *faceBucket) add(tri *sdf.Triangle3) {
	var local [3]int
	for j := 0; j < 3; j++ {
		p := [3]float64{tri[j].X, tri[j].Y, tri[j].Z}
		id, ok := b.index[p]
		if !ok {
			id = len(b.face.Points)
			b.index[p] = id
			b.face.Points = append(b.face.Points, p)
		}
		local[j] = id
	}
	// Drop triangles that collapsed onto a shared vertex; the mesh
	// element invariant requires three distinct node ids.
	if local[0] == local[1] || local[1] == local[2] || local[0] == local[2] {
		return
	}
	b.face.Triangles = append(b.face.Triangles, local)
}

// Volume integrates the solid's volume from its surface triangulation
// by the divergence theorem: the sum of signed tetrahedron volumes
// spanned by the origin and each outward-wound triangle.
func (k *Kernel) Volume(s kernel.Solid) float64 {
	sdf3 := unwrap(s)
	bb := sdf3.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return 0
	}

	renderer := render.NewMarchingCubesUniform(volumeMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	var vol float64
	for _, tri := range triangles {
		p1, p2, p3 := tri[0], tri[1], tri[2]
		vol += p1.X*(p2.Y*p3.Z-p2.Z*p3.Y) -
			p1.Y*(p2.X*p3.Z-p2.Z*p3.X) +
			p1.Z*(p2.X*p3.Y-p2.Y*p3.X)
	}
	return math.Abs(vol) / 6.0
}
