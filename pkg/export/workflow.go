package export

import (
	"fmt"

	"github.com/algorithmx/stratum/pkg/device"
)

// DeviceComplete runs the standard export workflow for a built
// device: the global-mesh geometry as STL, the global mesh as plain
// VTK, and optionally the per-layer meshes as one region-tagged VTK.
// The device's global mesh must exist; the region export additionally
// needs per-layer meshes.
func DeviceComplete(d *device.Device, baseName string, includeRegions bool) error {
	gm := d.GlobalMesh()
	if gm == nil {
		return fmt.Errorf("export: device %q has no global mesh", d.Name())
	}

	if err := STL(gm, baseName+".stl"); err != nil {
		return err
	}
	if err := Mesh(gm, baseName+"_traditional.vtk"); err != nil {
		return err
	}
	if includeRegions {
		if err := DeviceWithRegions(d, baseName+"_with_regions.vtk"); err != nil {
			return err
		}
	}

	logger.Info("device export complete", "device", d.Name(), "base", baseName, "regions", includeRegions)
	return nil
}
