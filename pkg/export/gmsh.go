package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/algorithmx/stratum/pkg/mesh"
)

// GMSH writes the mesh in the GMSH 2.2 ASCII format. Ids are 1-based;
// each element is a 3-node triangle (type 2) with two tags, the
// second carrying the 1-based owning-face id.
func GMSH(m *mesh.BoundaryMesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "$MeshFormat")
	fmt.Fprintln(w, "2.2 0 8")
	fmt.Fprintln(w, "$EndMeshFormat")

	fmt.Fprintln(w, "$Nodes")
	fmt.Fprintln(w, m.NodeCount())
	for _, node := range m.Nodes() {
		fmt.Fprintf(w, "%d %g %g %g\n", node.ID+1, node.Point[0], node.Point[1], node.Point[2])
	}
	fmt.Fprintln(w, "$EndNodes")

	fmt.Fprintln(w, "$Elements")
	fmt.Fprintln(w, m.ElementCount())
	for _, e := range m.Elements() {
		fmt.Fprintf(w, "%d 2 2 0 %d %d %d %d\n",
			e.ID+1, e.FaceID+1, e.NodeIDs[0]+1, e.NodeIDs[1]+1, e.NodeIDs[2]+1)
	}
	fmt.Fprintln(w, "$EndElements")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("exported mesh", "path", path, "format", "gmsh")
	return nil
}
