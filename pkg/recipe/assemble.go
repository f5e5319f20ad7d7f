package recipe

import (
	"errors"
	"fmt"

	"github.com/algorithmx/stratum/pkg/assembly"
	"github.com/algorithmx/stratum/pkg/device"
	"github.com/algorithmx/stratum/pkg/kernel"
)

// Assemble validates the recipe and loads its layers into a ranked
// builder. Intersections are not resolved yet; the caller decides
// when to run the resolve pass.
func (r *Recipe) Assemble(k kernel.Kernel) (*assembly.Builder, error) {
	if errs := r.Validate(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, fmt.Errorf("recipe %q: %w", r.Name, errors.Join(joined...))
	}

	b := assembly.NewBuilder(k)
	for _, l := range r.Layers {
		solid, err := k.BoxAt(
			[3]float64{l.Position[0], l.Position[1], l.Position[2]},
			l.Size[0], l.Size[1], l.Size[2])
		if err != nil {
			return nil, fmt.Errorf("recipe %q: layer %q: %w", r.Name, l.Name, err)
		}
		mat, _ := materialFor(l.Material)
		region, _ := regionFor(l.Region)
		if _, err := b.AddRankedLayer(l.Name, solid, mat, region, l.Rank); err != nil {
			return nil, fmt.Errorf("recipe %q: layer %q: %w", r.Name, l.Name, err)
		}
	}
	return b, nil
}

// Build runs the full pipeline: assemble, resolve intersections,
// materialize the device, and generate the meshes the recipe asks
// for. Layers consumed by higher-ranked layers are absent from the
// result.
func (r *Recipe) Build(k kernel.Kernel) (*device.Device, error) {
	b, err := r.Assemble(k)
	if err != nil {
		return nil, err
	}
	if err := b.ResolveIntersections(); err != nil {
		return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
	}

	d, err := b.BuildDevice(r.Name)
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
	}

	if r.MeshSize > 0 {
		if err := d.GenerateGlobalMesh(r.MeshSize); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
		}
	}
	for i, l := range r.Layers {
		if l.MeshSize <= 0 {
			continue
		}
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("Layer_%d", i)
		}
		dl := d.Layer(name)
		if dl == nil {
			// Consumed during resolution.
			continue
		}
		if err := dl.GenerateMesh(k, l.MeshSize); err != nil {
			return nil, fmt.Errorf("recipe %q: layer %q: %w", r.Name, name, err)
		}
	}

	report := b.LastReport()
	logger.Info("built device from recipe",
		"device", d.Name(), "layers", d.LayerCount(),
		"removed", report.Removed, "pairs", report.PairsCut)
	return d, nil
}
