package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/algorithmx/stratum/pkg/export"
	"github.com/algorithmx/stratum/pkg/kernel/sdfx"
	"github.com/algorithmx/stratum/pkg/recipe"
)

var (
	buildExportBase string
	buildRegions    bool
)

var buildCmd = &cobra.Command{
	Use:   "build <recipe.toml>",
	Short: "Build a device from a recipe and optionally export it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := recipe.Load(args[0])
		if err != nil {
			return err
		}

		k := sdfx.New()
		d, err := r.Build(k)
		if err != nil {
			return err
		}

		fmt.Printf("device %s: %d layers, total volume %g\n",
			d.Name(), d.LayerCount(), d.TotalVolume())
		for _, l := range d.Layers() {
			fmt.Printf("  %-16s %-18s region=%s volume=%g\n",
				l.Name, l.Material.Name, l.Region, l.Volume(k))
		}

		if buildExportBase != "" {
			if d.GlobalMesh() == nil {
				return fmt.Errorf("recipe %q has no mesh_size, nothing to export", r.Name)
			}
			if err := export.DeviceComplete(d, buildExportBase, buildRegions); err != nil {
				return err
			}
			fmt.Printf("exported to %s.*\n", buildExportBase)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildExportBase, "export", "o", "", "base path for exported files")
	buildCmd.Flags().BoolVar(&buildRegions, "regions", false, "also export the region-tagged per-layer VTK")
	rootCmd.AddCommand(buildCmd)
}
