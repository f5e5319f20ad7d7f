// Package mesh builds an explicit, analyzable boundary mesh on top of a
// geometry kernel's raw surface triangulation. One BoundaryMesh wraps
// one solid snapshot; it owns the node/element/face collections and the
// quality statistics derived from them.
package mesh

import (
	"fmt"
	"math"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// DefaultMinQuality is the element quality floor used by Validate.
const DefaultMinQuality = 0.1

// Node is one mesh vertex: a 3D point, a globally unique id, and the
// ids of the elements touching it (filled by connectivity building).
type Node struct {
	ID         int
	Point      [3]float64
	ElementIDs []int
}

// Element is one consistently-wound triangle. The three node ids are
// pairwise distinct; degenerate triangles are filtered at extraction.
// Centroid and Area are computed in a later pass. An element is replaced,
// not mutated, on regeneration.
type Element struct {
	ID       int
	FaceID   int
	NodeIDs  [3]int
	Centroid [3]float64
	Area     float64
}

// Face is one topological face of the source shape together with the
// ids of the elements the triangulator attached to it.
type Face struct {
	ID         int
	Name       string
	ElementIDs []int
}

// BoundaryMesh owns the full node/element/face collections for one
// shape snapshot plus aggregate quality statistics. It is not safe for
// concurrent mutation; each shape gets its own instance.
type BoundaryMesh struct {
	kern  kernel.Kernel
	solid kernel.Solid

	meshSize    float64
	minMeshSize float64
	maxMeshSize float64

	nodes    []Node
	elements []Element
	faces    []Face

	avgQuality float64
	minAngle   float64
	maxAngle   float64
}

// New creates a boundary mesh bound to a solid and a target element
// size. Generate must be called before the mesh holds any data.
func New(k kernel.Kernel, solid kernel.Solid, meshSize float64) (*BoundaryMesh, error) {
	if k == nil || solid == nil {
		return nil, fmt.Errorf("mesh: kernel and solid must be non-nil: %w", kernel.ErrInvalidInput)
	}
	if meshSize <= 0 || math.IsNaN(meshSize) || math.IsInf(meshSize, 0) {
		return nil, fmt.Errorf("mesh: element size must be positive, got %v: %w", meshSize, kernel.ErrInvalidInput)
	}
	return &BoundaryMesh{
		kern:        k,
		solid:       solid,
		meshSize:    meshSize,
		minMeshSize: meshSize * 0.1,
		maxMeshSize: meshSize * 10.0,
	}, nil
}

// Generate clears and rebuilds all three collections from a fresh
// kernel triangulation, then computes element properties, reverse
// connectivity and quality statistics. A triangulation failure is
// surfaced, not swallowed.
func (m *BoundaryMesh) Generate() error {
	raws, err := m.kern.Triangulate(m.solid, m.meshSize)
	if err != nil {
		return fmt.Errorf("mesh: triangulation at size %g: %w", m.meshSize, err)
	}

	m.nodes = m.nodes[:0]
	m.elements = m.elements[:0]
	m.faces = m.faces[:0]

	nodeOffset := 0
	elementID := 0
	for faceID, raw := range raws {
		face := Face{ID: faceID, Name: fmt.Sprintf("Face_%d", faceID)}

		for i, p := range raw.Points {
			m.nodes = append(m.nodes, Node{ID: nodeOffset + i, Point: p})
		}

		for _, tri := range raw.Triangles {
			ids := [3]int{nodeOffset + tri[0], nodeOffset + tri[1], nodeOffset + tri[2]}
			if ids[0] == ids[1] || ids[1] == ids[2] || ids[0] == ids[2] {
				continue
			}
			m.elements = append(m.elements, Element{ID: elementID, FaceID: faceID, NodeIDs: ids})
			face.ElementIDs = append(face.ElementIDs, elementID)
			elementID++
		}

		m.faces = append(m.faces, face)
		nodeOffset += len(raw.Points)
	}

	m.computeElementProperties()
	m.buildConnectivity()
	m.analyzeQuality()

	logger.Info("boundary mesh generated",
		"nodes", len(m.nodes), "elements", len(m.elements), "faces", len(m.faces))
	return nil
}

// Regenerate rebuilds the mesh at a new target element size.
func (m *BoundaryMesh) Regenerate(newSize float64) error {
	if newSize <= 0 || math.IsNaN(newSize) || math.IsInf(newSize, 0) {
		return fmt.Errorf("mesh: element size must be positive, got %v: %w", newSize, kernel.ErrInvalidInput)
	}
	m.meshSize = newSize
	m.minMeshSize = newSize * 0.1
	m.maxMeshSize = newSize * 10.0
	return m.Generate()
}

// computeElementProperties fills each element's centroid and
// cross-product area from the current node positions.
func (m *BoundaryMesh) computeElementProperties() {
	for i := range m.elements {
		e := &m.elements[i]
		p1 := m.nodes[e.NodeIDs[0]].Point
		p2 := m.nodes[e.NodeIDs[1]].Point
		p3 := m.nodes[e.NodeIDs[2]].Point

		for c := 0; c < 3; c++ {
			e.Centroid[c] = (p1[c] + p2[c] + p3[c]) / 3.0
		}

		v1 := sub(p2, p1)
		v2 := sub(p3, p1)
		e.Area = 0.5 * norm(cross(v1, v2))
	}
}

// buildConnectivity rebuilds the reverse node-to-element lists.
func (m *BoundaryMesh) buildConnectivity() {
	for i := range m.nodes {
		m.nodes[i].ElementIDs = m.nodes[i].ElementIDs[:0]
	}
	for i := range m.elements {
		e := &m.elements[i]
		for _, nodeID := range e.NodeIDs {
			if nodeID < len(m.nodes) {
				m.nodes[nodeID].ElementIDs = append(m.nodes[nodeID].ElementIDs, e.ID)
			}
		}
	}
}

// Accessors. The returned slices are the mesh's own collections; callers
// must not mutate them.

func (m *BoundaryMesh) NodeCount() int      { return len(m.nodes) }
func (m *BoundaryMesh) ElementCount() int   { return len(m.elements) }
func (m *BoundaryMesh) FaceCount() int      { return len(m.faces) }
func (m *BoundaryMesh) Nodes() []Node       { return m.nodes }
func (m *BoundaryMesh) Elements() []Element { return m.elements }
func (m *BoundaryMesh) Faces() []Face       { return m.faces }
func (m *BoundaryMesh) MeshSize() float64   { return m.meshSize }

// AverageQuality returns the mean element quality of the last
// generated or smoothed mesh.
func (m *BoundaryMesh) AverageQuality() float64 { return m.avgQuality }

// MinAngle returns the smallest interior angle in radians.
func (m *BoundaryMesh) MinAngle() float64 { return m.minAngle }

// MaxAngle returns the largest interior angle in radians.
func (m *BoundaryMesh) MaxAngle() float64 { return m.maxAngle }

// vector helpers

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}

func dist(a, b [3]float64) float64 {
	return norm(sub(a, b))
}
