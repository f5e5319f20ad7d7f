package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/algorithmx/stratum/pkg/mesh"
)

// OBJ writes the mesh as Wavefront OBJ. Vertex and face indices are
// 1-based per the format.
func OBJ(m *mesh.BoundaryMesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, node := range m.Nodes() {
		fmt.Fprintf(w, "v %g %g %g\n", node.Point[0], node.Point[1], node.Point[2])
	}
	for _, e := range m.Elements() {
		fmt.Fprintf(w, "f %d %d %d\n", e.NodeIDs[0]+1, e.NodeIDs[1]+1, e.NodeIDs[2]+1)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("exported mesh", "path", path, "format", "obj")
	return nil
}
