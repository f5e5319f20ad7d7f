// Package recipe loads device build descriptions from TOML and turns
// them into ranked-layer assemblies. A recipe names the device, a
// global mesh size, and a list of box-shaped layers with material,
// region, rank, size and position.
package recipe

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/algorithmx/stratum/pkg/device"
)

// Layer describes one ranked layer of the device.
type Layer struct {
	Name     string    `toml:"name"`
	Material string    `toml:"material"`
	Region   string    `toml:"region"`
	Rank     int       `toml:"rank"`
	Size     []float64 `toml:"size"`
	Position []float64 `toml:"position"`
	MeshSize float64   `toml:"mesh_size"`
}

// Recipe is a complete device build description.
type Recipe struct {
	Name     string  `toml:"name"`
	MeshSize float64 `toml:"mesh_size"`
	Layers   []Layer `toml:"layer"`
}

// Load reads and parses a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded recipe", "path", path, "device", r.Name, "layers", len(r.Layers))
	return r, nil
}

// Parse decodes a recipe from TOML bytes. Missing device name falls
// back to "SemiconductorDevice"; a missing position defaults to the
// origin.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}
	if r.Name == "" {
		r.Name = "SemiconductorDevice"
	}
	for i := range r.Layers {
		if r.Layers[i].Position == nil {
			r.Layers[i].Position = []float64{0, 0, 0}
		}
	}
	return &r, nil
}

// materialFor maps a recipe material name to its standard material.
func materialFor(name string) (device.Material, bool) {
	switch strings.ToLower(name) {
	case "silicon":
		return device.StandardSilicon(), true
	case "silicon_dioxide", "sio2", "oxide":
		return device.StandardSiliconDioxide(), true
	case "polysilicon":
		return device.StandardPolysilicon(), true
	case "metal":
		return device.StandardMetal(), true
	default:
		return device.Material{}, false
	}
}

// regionFor maps a recipe region name to its region.
func regionFor(name string) (device.Region, bool) {
	switch strings.ToLower(name) {
	case "substrate":
		return device.Substrate, true
	case "active", "active_region":
		return device.ActiveRegion, true
	case "gate":
		return device.Gate, true
	case "source":
		return device.Source, true
	case "drain":
		return device.Drain, true
	case "insulator":
		return device.Insulator, true
	case "contact":
		return device.Contact, true
	default:
		return 0, false
	}
}
