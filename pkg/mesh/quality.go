package mesh

import "math"

// ElementQuality computes the dimensionless shape quality of one
// element: 4*sqrt(3)*area / (perimeter^2/3), clamped to [0,1]. An
// equilateral triangle scores 1.0; a sliver tends to 0. This exact
// formula is the quality contract consumers depend on.
func (m *BoundaryMesh) ElementQuality(e *Element) float64 {
	p1 := m.nodes[e.NodeIDs[0]].Point
	p2 := m.nodes[e.NodeIDs[1]].Point
	p3 := m.nodes[e.NodeIDs[2]].Point

	a := dist(p1, p2)
	b := dist(p2, p3)
	c := dist(p3, p1)

	perimeter := a + b + c
	if perimeter < 1e-12 {
		return 0.0
	}

	// The perimeter-squared term carries a factor 1/3 so an equilateral
	// triangle scores exactly 1.
	quality := 4.0 * math.Sqrt(3.0) * e.Area / (perimeter * perimeter / 3.0)
	return math.Max(0.0, math.Min(1.0, quality))
}

// triangleAngle returns the interior angle at p2 of the triangle
// (p1, p2, p3), via the dot product of the two edge vectors with the
// cosine clamped to [-1, 1] against floating round-off.
func triangleAngle(p1, p2, p3 [3]float64) float64 {
	v1 := sub(p1, p2)
	v2 := sub(p3, p2)

	mag1 := norm(v1)
	mag2 := norm(v2)
	if mag1 < 1e-12 || mag2 < 1e-12 {
		return 0.0
	}

	cosAngle := dot(v1, v2) / (mag1 * mag2)
	cosAngle = math.Max(-1.0, math.Min(1.0, cosAngle))
	return math.Acos(cosAngle)
}

// analyzeQuality recomputes the aggregate statistics: average element
// quality and the extreme interior angles.
func (m *BoundaryMesh) analyzeQuality() {
	if len(m.elements) == 0 {
		m.avgQuality = 0.0
		m.minAngle = 0.0
		m.maxAngle = 0.0
		return
	}

	total := 0.0
	m.minAngle = math.Pi
	m.maxAngle = 0.0

	for i := range m.elements {
		e := &m.elements[i]
		total += m.ElementQuality(e)

		p1 := m.nodes[e.NodeIDs[0]].Point
		p2 := m.nodes[e.NodeIDs[1]].Point
		p3 := m.nodes[e.NodeIDs[2]].Point

		for _, angle := range [3]float64{
			triangleAngle(p3, p1, p2),
			triangleAngle(p1, p2, p3),
			triangleAngle(p2, p3, p1),
		} {
			m.minAngle = math.Min(m.minAngle, angle)
			m.maxAngle = math.Max(m.maxAngle, angle)
		}
	}

	m.avgQuality = total / float64(len(m.elements))
}

// LowQualityElements returns the ids of all elements whose quality is
// below the threshold.
func (m *BoundaryMesh) LowQualityElements(threshold float64) []int {
	var ids []int
	for i := range m.elements {
		if m.ElementQuality(&m.elements[i]) < threshold {
			ids = append(ids, m.elements[i].ID)
		}
	}
	return ids
}

// Validate reports whether the mesh is consistent: non-empty, every
// element node reference in range, no orphaned nodes, and every
// element's quality at or above DefaultMinQuality.
func (m *BoundaryMesh) Validate() bool {
	if len(m.nodes) == 0 || len(m.elements) == 0 {
		return false
	}

	for i := range m.elements {
		for _, nodeID := range m.elements[i].NodeIDs {
			if nodeID < 0 || nodeID >= len(m.nodes) {
				return false
			}
		}
	}

	return m.CheckConnectivity() && m.CheckElementQuality(DefaultMinQuality)
}

// CheckConnectivity reports whether every node is referenced by at
// least one element.
func (m *BoundaryMesh) CheckConnectivity() bool {
	for i := range m.nodes {
		if len(m.nodes[i].ElementIDs) == 0 {
			logger.Warn("orphaned node found", "id", m.nodes[i].ID)
			return false
		}
	}
	return true
}

// CheckElementQuality reports whether every element's quality is at or
// above minQuality.
func (m *BoundaryMesh) CheckElementQuality(minQuality float64) bool {
	for i := range m.elements {
		q := m.ElementQuality(&m.elements[i])
		if q < minQuality {
			logger.Warn("low quality element found", "id", m.elements[i].ID, "quality", q)
			return false
		}
	}
	return true
}
