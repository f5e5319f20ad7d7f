package mesh

import "math"

// FindClosestNode returns the id of the node nearest to the given
// point. ok is false for an empty mesh.
func (m *BoundaryMesh) FindClosestNode(p [3]float64) (id int, ok bool) {
	minDist := math.MaxFloat64
	id = -1
	for i := range m.nodes {
		if d := dist(m.nodes[i].Point, p); d < minDist {
			minDist = d
			id = m.nodes[i].ID
		}
	}
	return id, id >= 0
}

// FindElementContaining returns the id of an element "containing" the
// point under the approximate heuristic: the first element whose
// centroid lies within half its average edge length of the point. This
// is deliberately not an exact point-in-triangle test; callers'
// tolerance assumptions depend on this behavior.
func (m *BoundaryMesh) FindElementContaining(p [3]float64) (id int, ok bool) {
	for i := range m.elements {
		e := &m.elements[i]
		p1 := m.nodes[e.NodeIDs[0]].Point
		p2 := m.nodes[e.NodeIDs[1]].Point
		p3 := m.nodes[e.NodeIDs[2]].Point

		avgEdge := (dist(p1, p2) + dist(p2, p3) + dist(p3, p1)) / 3.0
		if dist(p, e.Centroid) < avgEdge*0.5 {
			return e.ID, true
		}
	}
	return -1, false
}

// FindInterfaceElements returns the ids of this mesh's elements lying
// on the interface with another mesh: elements whose centroid finds a
// containing element in the other mesh within tolerance.
func (m *BoundaryMesh) FindInterfaceElements(other *BoundaryMesh, tolerance float64) []int {
	var ids []int
	for i := range m.elements {
		e := &m.elements[i]
		otherID, ok := other.FindElementContaining(e.Centroid)
		if !ok {
			continue
		}
		if dist(e.Centroid, other.elements[otherID].Centroid) <= tolerance {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// FindInterfaceNodes returns the ids of this mesh's nodes within
// tolerance of their nearest node in the other mesh.
func (m *BoundaryMesh) FindInterfaceNodes(other *BoundaryMesh, tolerance float64) []int {
	var ids []int
	for i := range m.nodes {
		n := &m.nodes[i]
		otherID, ok := other.FindClosestNode(n.Point)
		if !ok {
			continue
		}
		if dist(n.Point, other.nodes[otherID].Point) <= tolerance {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// ElementsOnFace returns the ids of all elements lying on the given
// topological face.
func (m *BoundaryMesh) ElementsOnFace(faceID int) []int {
	var ids []int
	for i := range m.elements {
		if m.elements[i].FaceID == faceID {
			ids = append(ids, m.elements[i].ID)
		}
	}
	return ids
}

// NodesOnFace returns the ids of all nodes referenced by elements of
// the given face, each id once, in first-touched order.
func (m *BoundaryMesh) NodesOnFace(faceID int) []int {
	var ids []int
	seen := make(map[int]bool)
	for i := range m.elements {
		if m.elements[i].FaceID != faceID {
			continue
		}
		for _, nodeID := range m.elements[i].NodeIDs {
			if !seen[nodeID] {
				seen[nodeID] = true
				ids = append(ids, nodeID)
			}
		}
	}
	return ids
}
