// Command stratum builds semiconductor device geometry from TOML
// recipes: ranked layers are resolved into non-overlapping solids,
// meshed, and exported for downstream simulation tools.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/algorithmx/stratum/pkg/assembly"
	"github.com/algorithmx/stratum/pkg/device"
	"github.com/algorithmx/stratum/pkg/export"
	"github.com/algorithmx/stratum/pkg/mesh"
	"github.com/algorithmx/stratum/pkg/recipe"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "stratum",
	Short: "Semiconductor device geometry and boundary meshing",
	Long: `stratum builds layered semiconductor device geometry.

Layers carry a rank; where two layers overlap, the higher rank keeps
the contested volume and the lower rank is cut back. The resolved
device is meshed and exported to VTK, STL, OBJ or GMSH.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.WarnLevel
		if verbose {
			level = log.InfoLevel
		}
		mesh.SetLogLevel(level)
		device.SetLogLevel(level)
		assembly.SetLogLevel(level)
		export.SetLogLevel(level)
		recipe.SetLogLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable informational logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
