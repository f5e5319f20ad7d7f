package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/algorithmx/stratum/pkg/export"
	"github.com/algorithmx/stratum/pkg/kernel"
	"github.com/algorithmx/stratum/pkg/kernel/sdfx"
	"github.com/algorithmx/stratum/pkg/mesh"
)

var (
	meshSize   float64
	meshDims   []float64
	meshExport string
	meshFormat string
)

var meshCmd = &cobra.Command{
	Use:   "mesh <box|cylinder|sphere|cone>",
	Short: "Mesh a single primitive and print its statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k := sdfx.New()

		solid, err := primitiveFor(k, args[0], meshDims)
		if err != nil {
			return err
		}

		m, err := mesh.New(k, solid, meshSize)
		if err != nil {
			return err
		}
		if err := m.Generate(); err != nil {
			return err
		}

		s := m.Statistics()
		fmt.Printf("%s at size %g: %d nodes, %d elements, %d faces\n",
			args[0], meshSize, s.Nodes, s.Elements, s.Faces)
		fmt.Printf("quality avg %.3f, angles %.1f..%.1f deg, surface area %g\n",
			s.AvgQuality, s.MinAngleDeg, s.MaxAngleDeg, s.SurfaceArea)

		if meshExport == "" {
			return nil
		}
		switch meshFormat {
		case "vtk":
			return export.Mesh(m, meshExport)
		case "stl":
			return export.STL(m, meshExport)
		case "obj":
			return export.OBJ(m, meshExport)
		case "gmsh":
			return export.GMSH(m, meshExport)
		default:
			return fmt.Errorf("unknown export format %q", meshFormat)
		}
	},
}

// primitiveFor builds the named primitive from the --dims flag. Each
// primitive consumes the dimensions it needs: box dx dy dz, cylinder
// height radius, sphere radius, cone height bottomRadius topRadius.
func primitiveFor(k kernel.Kernel, name string, dims []float64) (kernel.Solid, error) {
	need := func(n int) error {
		if len(dims) < n {
			return fmt.Errorf("%s needs %d dimension(s), got %d", name, n, len(dims))
		}
		return nil
	}
	switch name {
	case "box":
		if err := need(3); err != nil {
			return nil, err
		}
		return k.Box(dims[0], dims[1], dims[2])
	case "cylinder":
		if err := need(2); err != nil {
			return nil, err
		}
		return k.Cylinder(dims[0], dims[1])
	case "sphere":
		if err := need(1); err != nil {
			return nil, err
		}
		return k.Sphere(dims[0])
	case "cone":
		if err := need(3); err != nil {
			return nil, err
		}
		return k.Cone(dims[0], dims[1], dims[2])
	default:
		return nil, fmt.Errorf("unknown primitive %q", name)
	}
}

func init() {
	meshCmd.Flags().Float64VarP(&meshSize, "size", "s", 0.25, "target element size")
	meshCmd.Flags().Float64SliceVar(&meshDims, "dims", []float64{1, 1, 1}, "primitive dimensions")
	meshCmd.Flags().StringVarP(&meshExport, "export", "o", "", "output file path")
	meshCmd.Flags().StringVarP(&meshFormat, "format", "f", "vtk", "export format (vtk, stl, obj, gmsh)")
	rootCmd.AddCommand(meshCmd)
}
