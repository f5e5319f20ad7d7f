package mesh

import "math"

// Refine regenerates the whole mesh at the smaller of the current and
// local element size, then restores the nominal size. Refinement in
// this design is deliberately global-resize, not geometrically
// localized; the refinement points only select whether there is
// anything to refine.
func (m *BoundaryMesh) Refine(points [][3]float64, localSize float64) error {
	logger.Info("refining mesh", "points", len(points), "localSize", localSize)

	oldSize := m.meshSize
	m.meshSize = math.Min(m.meshSize, localSize)
	err := m.Generate()
	m.meshSize = oldSize
	return err
}

// AdaptiveRefine collects the centroids of all elements below the
// quality threshold and refines around them at half the current size.
// A mesh with no low-quality elements is left untouched.
func (m *BoundaryMesh) AdaptiveRefine(qualityThreshold float64) error {
	low := m.LowQualityElements(qualityThreshold)
	logger.Info("adaptive refinement", "lowQualityElements", len(low))

	if len(low) == 0 {
		return nil
	}
	points := make([][3]float64, 0, len(low))
	for _, id := range low {
		points = append(points, m.elements[id].Centroid)
	}
	return m.Refine(points, m.meshSize*0.5)
}

// RefineAroundPoints refines around all element centroids within radius
// of any input point. The candidate scan is a brute-force O(N*M)
// distance pass, acceptable for meshes in the thousands of elements.
func (m *BoundaryMesh) RefineAroundPoints(points [][3]float64, radius, localSize float64) error {
	var refinement [][3]float64
	for _, p := range points {
		for i := range m.elements {
			if dist(m.elements[i].Centroid, p) <= radius {
				refinement = append(refinement, m.elements[i].Centroid)
			}
		}
	}
	if len(refinement) == 0 {
		return nil
	}
	return m.Refine(refinement, localSize)
}

// RefineInterface refines this mesh around its interface with another
// mesh, detected at the given interface size.
func (m *BoundaryMesh) RefineInterface(other *BoundaryMesh, interfaceSize float64) error {
	interfaceElems := m.FindInterfaceElements(other, interfaceSize)
	if len(interfaceElems) == 0 {
		return nil
	}
	points := make([][3]float64, 0, len(interfaceElems))
	for _, id := range interfaceElems {
		points = append(points, m.elements[id].Centroid)
	}
	return m.Refine(points, interfaceSize)
}
