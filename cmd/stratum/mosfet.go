package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/algorithmx/stratum/pkg/device"
	"github.com/algorithmx/stratum/pkg/export"
	"github.com/algorithmx/stratum/pkg/kernel/sdfx"
)

var (
	mosfetLength   float64
	mosfetWidth    float64
	mosfetSubH     float64
	mosfetOxideH   float64
	mosfetGateH    float64
	mosfetMeshSize float64
	mosfetExport   string
)

var mosfetCmd = &cobra.Command{
	Use:   "mosfet",
	Short: "Build the demo MOSFET geometry",
	Long: `Builds a three-layer MOSFET: silicon substrate, SiO2 gate oxide
and polysilicon gate, then meshes and optionally exports it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		k := sdfx.New()
		d, err := device.SimpleMOSFET(k, mosfetLength, mosfetWidth, mosfetSubH, mosfetOxideH, mosfetGateH)
		if err != nil {
			return err
		}
		if err := d.GenerateGlobalMesh(mosfetMeshSize); err != nil {
			return err
		}
		if err := d.GenerateAllLayerMeshes(); err != nil {
			return err
		}

		d.LogInfo()
		gm := d.GlobalMesh()
		fmt.Printf("mosfet: %d layers, mesh %d nodes / %d elements, avg quality %.3f\n",
			d.LayerCount(), gm.NodeCount(), gm.ElementCount(), gm.AverageQuality())

		if mosfetExport != "" {
			if err := export.DeviceComplete(d, mosfetExport, true); err != nil {
				return err
			}
			fmt.Printf("exported to %s.*\n", mosfetExport)
		}
		return nil
	},
}

func init() {
	mosfetCmd.Flags().Float64Var(&mosfetLength, "length", 2.0, "device length")
	mosfetCmd.Flags().Float64Var(&mosfetWidth, "width", 2.0, "device width")
	mosfetCmd.Flags().Float64Var(&mosfetSubH, "substrate-height", 1.0, "substrate height")
	mosfetCmd.Flags().Float64Var(&mosfetOxideH, "oxide-height", 0.2, "gate oxide height")
	mosfetCmd.Flags().Float64Var(&mosfetGateH, "gate-height", 0.4, "gate height")
	mosfetCmd.Flags().Float64Var(&mosfetMeshSize, "mesh-size", 0.25, "global mesh target size")
	mosfetCmd.Flags().StringVarP(&mosfetExport, "export", "o", "", "base path for exported files")
	rootCmd.AddCommand(mosfetCmd)
}
