package export

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/algorithmx/stratum/pkg/mesh"
)

// STL writes the mesh as ASCII STL. Facet normals follow the
// element's winding order.
func STL(m *mesh.BoundaryMesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "solid BoundaryMesh")

	nodes := m.Nodes()
	for _, e := range m.Elements() {
		p1 := nodes[e.NodeIDs[0]].Point
		p2 := nodes[e.NodeIDs[1]].Point
		p3 := nodes[e.NodeIDs[2]].Point

		n := triangleNormal(p1, p2, p3)
		fmt.Fprintf(w, "facet normal %g %g %g\n", n[0], n[1], n[2])
		fmt.Fprintln(w, "outer loop")
		fmt.Fprintf(w, "vertex %g %g %g\n", p1[0], p1[1], p1[2])
		fmt.Fprintf(w, "vertex %g %g %g\n", p2[0], p2[1], p2[2])
		fmt.Fprintf(w, "vertex %g %g %g\n", p3[0], p3[1], p3[2])
		fmt.Fprintln(w, "endloop")
		fmt.Fprintln(w, "endfacet")
	}

	fmt.Fprintln(w, "endsolid BoundaryMesh")
	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("exported mesh", "path", path, "format", "stl")
	return nil
}

func triangleNormal(p1, p2, p3 [3]float64) [3]float64 {
	u := [3]float64{p2[0] - p1[0], p2[1] - p1[1], p2[2] - p1[2]}
	v := [3]float64{p3[0] - p1[0], p3[1] - p1[1], p3[2] - p1[2]}
	n := [3]float64{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	mag := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if mag < 1e-12 {
		return [3]float64{0, 0, 1}
	}
	return [3]float64{n[0] / mag, n[1] / mag, n[2] / mag}
}
