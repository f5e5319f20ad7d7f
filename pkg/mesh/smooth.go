package mesh

// SmoothMesh runs the given number of Laplacian smoothing iterations,
// then recomputes element properties and quality statistics. Node and
// element counts never change; only node positions move.
func (m *BoundaryMesh) SmoothMesh(iterations int) {
	logger.Info("smoothing mesh", "iterations", iterations)

	for i := 0; i < iterations; i++ {
		m.LaplacianSmoothing()
	}

	m.computeElementProperties()
	m.analyzeQuality()
}

// LaplacianSmoothing replaces each node's position with the unweighted
// average of its connectivity-graph neighbors (nodes sharing an
// element). Nodes with no neighbors keep their position. All new
// positions are computed from the pre-pass positions.
func (m *BoundaryMesh) LaplacianSmoothing() {
	newPositions := make([][3]float64, len(m.nodes))

	for i := range m.nodes {
		node := &m.nodes[i]

		var sum [3]float64
		seen := make(map[int]bool)
		for _, elemID := range node.ElementIDs {
			for _, neighborID := range m.elements[elemID].NodeIDs {
				if neighborID == node.ID || neighborID >= len(m.nodes) || seen[neighborID] {
					continue
				}
				seen[neighborID] = true
				p := m.nodes[neighborID].Point
				sum[0] += p[0]
				sum[1] += p[1]
				sum[2] += p[2]
			}
		}

		if n := len(seen); n > 0 {
			newPositions[i] = [3]float64{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n)}
		} else {
			newPositions[i] = node.Point
		}
	}

	for i := range m.nodes {
		m.nodes[i].Point = newPositions[i]
	}
}
