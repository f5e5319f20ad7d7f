// Package export writes boundary meshes and composed devices to the
// interchange formats downstream tools consume: VTK legacy ASCII
// (with per-element material/region scalars), STL, OBJ and GMSH.
package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/algorithmx/stratum/pkg/device"
	"github.com/algorithmx/stratum/pkg/mesh"
)

// vtkTriangle is the VTK cell type id for a linear triangle.
const vtkTriangle = 5

// Mesh writes one boundary mesh as a VTK legacy ASCII unstructured
// grid without cell data.
func Mesh(m *mesh.BoundaryMesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeVTKHeader(w, "Boundary Mesh")
	writeVTKPoints(w, m)
	writeVTKCells(w, m, 0)
	writeVTKCellTypes(w, m.ElementCount())
	fmt.Fprintln(w)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("exported mesh", "path", path, "elements", m.ElementCount())
	return nil
}

// MeshWithLayer writes one layer's mesh with the full per-element
// scalar set: MaterialID, RegionID, LayerIndex, FaceID,
// ElementQuality, ElementArea, in that order. Consumers select
// scalars by these exact names.
func MeshWithLayer(m *mesh.BoundaryMesh, l *device.Layer, layerIndex int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeVTKHeader(w, "Semiconductor Device Boundary Mesh with Regions")
	writeVTKPoints(w, m)
	writeVTKCells(w, m, 0)
	writeVTKCellTypes(w, m.ElementCount())

	n := m.ElementCount()
	fmt.Fprintf(w, "CELL_DATA %d\n", n)

	writeIntScalar(w, "MaterialID", n, func(int) int { return int(l.Material.Type) })
	writeIntScalar(w, "RegionID", n, func(int) int { return int(l.Region) })
	writeIntScalar(w, "LayerIndex", n, func(int) int { return layerIndex })
	writeIntScalar(w, "FaceID", n, func(i int) int { return m.Elements()[i].FaceID })
	writeFloatScalar(w, "ElementQuality", n, func(i int) float64 {
		return m.ElementQuality(&m.Elements()[i])
	})
	writeFloatScalar(w, "ElementArea", n, func(i int) float64 {
		return m.Elements()[i].Area
	})

	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("exported layer mesh", "path", path, "layer", l.Name)
	return nil
}

// DeviceWithRegions concatenates every layer's mesh into one VTK
// unstructured grid with node indices offset per layer, carrying
// MaterialID, RegionID, LayerIndex, ElementQuality and ElementArea
// scalars in element order.
func DeviceWithRegions(d *device.Device, path string) error {
	var meshes []*mesh.BoundaryMesh
	var layers []*device.Layer
	totalNodes, totalElements := 0, 0
	for _, l := range d.Layers() {
		if l.Mesh == nil || l.Mesh.NodeCount() == 0 || l.Mesh.ElementCount() == 0 {
			continue
		}
		meshes = append(meshes, l.Mesh)
		layers = append(layers, l)
		totalNodes += l.Mesh.NodeCount()
		totalElements += l.Mesh.ElementCount()
	}
	if len(meshes) == 0 {
		return fmt.Errorf("export: device %q has no layer meshes", d.Name())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeVTKHeader(w, "Semiconductor Device Mesh")

	fmt.Fprintf(w, "POINTS %d float\n", totalNodes)
	for _, m := range meshes {
		for _, node := range m.Nodes() {
			fmt.Fprintf(w, "%g %g %g\n", node.Point[0], node.Point[1], node.Point[2])
		}
	}

	fmt.Fprintf(w, "CELLS %d %d\n", totalElements, totalElements*4)
	nodeOffset := 0
	for _, m := range meshes {
		for _, e := range m.Elements() {
			fmt.Fprintf(w, "3 %d %d %d\n",
				e.NodeIDs[0]+nodeOffset, e.NodeIDs[1]+nodeOffset, e.NodeIDs[2]+nodeOffset)
		}
		nodeOffset += m.NodeCount()
	}

	writeVTKCellTypes(w, totalElements)

	fmt.Fprintf(w, "CELL_DATA %d\n", totalElements)

	writePerLayerIntScalar(w, "MaterialID", meshes, func(i int) int {
		return int(layers[i].Material.Type)
	})
	writePerLayerIntScalar(w, "RegionID", meshes, func(i int) int {
		return int(layers[i].Region)
	})
	writePerLayerIntScalar(w, "LayerIndex", meshes, func(i int) int { return i })

	fmt.Fprintf(w, "SCALARS ElementQuality float 1\nLOOKUP_TABLE default\n")
	for _, m := range meshes {
		for i := range m.Elements() {
			fmt.Fprintf(w, "%g\n", m.ElementQuality(&m.Elements()[i]))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "SCALARS ElementArea float 1\nLOOKUP_TABLE default\n")
	for _, m := range meshes {
		for _, e := range m.Elements() {
			fmt.Fprintf(w, "%g\n", e.Area)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("exported device mesh",
		"path", path, "layers", len(meshes), "nodes", totalNodes, "elements", totalElements)
	return nil
}

func writeVTKHeader(w *bufio.Writer, title string) {
	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "ASCII")
	fmt.Fprintln(w, "DATASET UNSTRUCTURED_GRID")
}

func writeVTKPoints(w *bufio.Writer, m *mesh.BoundaryMesh) {
	fmt.Fprintf(w, "POINTS %d float\n", m.NodeCount())
	for _, node := range m.Nodes() {
		fmt.Fprintf(w, "%g %g %g\n", node.Point[0], node.Point[1], node.Point[2])
	}
}

func writeVTKCells(w *bufio.Writer, m *mesh.BoundaryMesh, pointOffset int) {
	fmt.Fprintf(w, "CELLS %d %d\n", m.ElementCount(), m.ElementCount()*4)
	for _, e := range m.Elements() {
		fmt.Fprintf(w, "3 %d %d %d\n",
			e.NodeIDs[0]+pointOffset, e.NodeIDs[1]+pointOffset, e.NodeIDs[2]+pointOffset)
	}
}

func writeVTKCellTypes(w *bufio.Writer, n int) {
	fmt.Fprintf(w, "CELL_TYPES %d\n", n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "%d\n", vtkTriangle)
	}
}

func writeIntScalar(w *bufio.Writer, name string, n int, value func(i int) int) {
	fmt.Fprintf(w, "SCALARS %s int 1\nLOOKUP_TABLE default\n", name)
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "%d\n", value(i))
	}
	fmt.Fprintln(w)
}

func writeFloatScalar(w *bufio.Writer, name string, n int, value func(i int) float64) {
	fmt.Fprintf(w, "SCALARS %s float 1\nLOOKUP_TABLE default\n", name)
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "%g\n", value(i))
	}
	fmt.Fprintln(w)
}

// writePerLayerIntScalar writes one constant value per layer, repeated
// for each of that layer's elements.
func writePerLayerIntScalar(w *bufio.Writer, name string, meshes []*mesh.BoundaryMesh, value func(layerIdx int) int) {
	fmt.Fprintf(w, "SCALARS %s int 1\nLOOKUP_TABLE default\n", name)
	for i, m := range meshes {
		v := value(i)
		for j := 0; j < m.ElementCount(); j++ {
			fmt.Fprintf(w, "%d\n", v)
		}
	}
	fmt.Fprintln(w)
}
