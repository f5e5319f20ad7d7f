package mesh

import "math"

// SurfaceArea returns the exact sum of all element areas. For a
// boundary (surface) mesh this is also the "volume" proxy, since there
// is no enclosed-volume concept at this layer.
func (m *BoundaryMesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.elements {
		total += m.elements[i].Area
	}
	return total
}

// BoundingBox returns the axis-aligned bounding box of the node set.
// An empty mesh yields a zero box.
func (m *BoundaryMesh) BoundingBox() (min, max [3]float64) {
	if len(m.nodes) == 0 {
		return min, max
	}
	min = m.nodes[0].Point
	max = m.nodes[0].Point
	for i := range m.nodes {
		p := m.nodes[i].Point
		for c := 0; c < 3; c++ {
			min[c] = math.Min(min[c], p[c])
			max[c] = math.Max(max[c], p[c])
		}
	}
	return min, max
}

// Statistics is a snapshot of the mesh's aggregate state.
type Statistics struct {
	Nodes       int
	Elements    int
	Faces       int
	MeshSize    float64
	MinMeshSize float64
	MaxMeshSize float64
	AvgQuality  float64
	MinAngleDeg float64
	MaxAngleDeg float64
	SurfaceArea float64
}

// Statistics returns a snapshot of the current mesh statistics.
func (m *BoundaryMesh) Statistics() Statistics {
	return Statistics{
		Nodes:       len(m.nodes),
		Elements:    len(m.elements),
		Faces:       len(m.faces),
		MeshSize:    m.meshSize,
		MinMeshSize: m.minMeshSize,
		MaxMeshSize: m.maxMeshSize,
		AvgQuality:  m.avgQuality,
		MinAngleDeg: m.minAngle * 180.0 / math.Pi,
		MaxAngleDeg: m.maxAngle * 180.0 / math.Pi,
		SurfaceArea: m.SurfaceArea(),
	}
}

// LogStatistics writes the statistics summary to the package logger.
func (m *BoundaryMesh) LogStatistics() {
	s := m.Statistics()
	min, max := m.BoundingBox()
	logger.Info("boundary mesh statistics",
		"nodes", s.Nodes,
		"elements", s.Elements,
		"faces", s.Faces,
		"meshSize", s.MeshSize,
		"avgQuality", s.AvgQuality,
		"minAngleDeg", s.MinAngleDeg,
		"maxAngleDeg", s.MaxAngleDeg,
		"surfaceArea", s.SurfaceArea,
		"bboxMin", min,
		"bboxMax", max,
	)
}
