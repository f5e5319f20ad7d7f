// Package device models a multi-layer semiconductor device: named
// layers carrying a solid, a material and a region classification,
// composed into one device shape with per-layer and global boundary
// meshes.
package device

import (
	"fmt"

	"github.com/algorithmx/stratum/pkg/kernel"
	"github.com/algorithmx/stratum/pkg/mesh"
)

// Layer is one region of the device: a solid plus its material and
// functional classification, and optionally a boundary mesh.
type Layer struct {
	Name     string
	Solid    kernel.Solid
	Material Material
	Region   Region

	Mesh *mesh.BoundaryMesh
}

// Volume returns the layer solid's volume via the kernel.
func (l *Layer) Volume(k kernel.Kernel) float64 {
	if l.Solid == nil {
		return 0.0
	}
	return k.Volume(l.Solid)
}

// GenerateMesh (re)builds the layer's boundary mesh at the given
// element size.
func (l *Layer) GenerateMesh(k kernel.Kernel, meshSize float64) error {
	m, err := mesh.New(k, l.Solid, meshSize)
	if err != nil {
		return fmt.Errorf("device: layer %q: %w", l.Name, err)
	}
	if err := m.Generate(); err != nil {
		return fmt.Errorf("device: layer %q: %w", l.Name, err)
	}
	l.Mesh = m
	return nil
}

// Device is the aggregate: an ordered list of layers, the composed
// device shape, and an optional global mesh over the whole shape.
type Device struct {
	kern   kernel.Kernel
	name   string
	layers []*Layer

	shape      kernel.Solid
	globalMesh *mesh.BoundaryMesh
}

// New creates an empty device bound to a geometry kernel.
func New(k kernel.Kernel, name string) (*Device, error) {
	if k == nil {
		return nil, fmt.Errorf("device: kernel must be non-nil: %w", kernel.ErrInvalidInput)
	}
	if name == "" {
		name = "SemiconductorDevice"
	}
	return &Device{kern: k, name: name}, nil
}

func (d *Device) Name() string     { return d.name }
func (d *Device) LayerCount() int  { return len(d.layers) }
func (d *Device) Layers() []*Layer { return d.layers }

// Kernel exposes the geometry kernel the device was built with.
func (d *Device) Kernel() kernel.Kernel { return d.kern }

// Shape returns the composed device shape, or nil before
// BuildGeometry.
func (d *Device) Shape() kernel.Solid { return d.shape }

// GlobalMesh returns the device-wide mesh, or nil before
// GenerateGlobalMesh.
func (d *Device) GlobalMesh() *mesh.BoundaryMesh { return d.globalMesh }

// AddLayer registers a layer. Layer names are unique within a device.
func (d *Device) AddLayer(l *Layer) error {
	if l == nil || l.Solid == nil {
		return fmt.Errorf("device: cannot add nil layer: %w", kernel.ErrInvalidInput)
	}
	for _, existing := range d.layers {
		if existing.Name == l.Name {
			return fmt.Errorf("device: layer %q already exists: %w", l.Name, kernel.ErrInvalidInput)
		}
	}
	d.layers = append(d.layers, l)
	d.shape = nil // composed shape is stale
	return nil
}

// RemoveLayer drops the named layer.
func (d *Device) RemoveLayer(name string) error {
	for i, l := range d.layers {
		if l.Name == name {
			d.layers = append(d.layers[:i], d.layers[i+1:]...)
			d.shape = nil
			return nil
		}
	}
	return fmt.Errorf("device: layer %q not found: %w", name, kernel.ErrInvalidInput)
}

// Layer returns the named layer, or nil when absent.
func (d *Device) Layer(name string) *Layer {
	for _, l := range d.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// BuildGeometry composes all layer solids into one device shape.
func (d *Device) BuildGeometry() error {
	if len(d.layers) == 0 {
		return fmt.Errorf("device: no layers defined: %w", kernel.ErrInvalidInput)
	}

	shape := d.layers[0].Solid
	for _, l := range d.layers[1:] {
		combined, err := d.kern.Union(shape, l.Solid)
		if err != nil {
			return fmt.Errorf("device: composing layer %q: %w", l.Name, err)
		}
		shape = combined
	}
	d.shape = shape
	logger.Info("device geometry built", "device", d.name, "layers", len(d.layers))
	return nil
}

// GenerateGlobalMesh builds one boundary mesh over the composed
// device shape, building the shape first if needed.
func (d *Device) GenerateGlobalMesh(meshSize float64) error {
	if d.shape == nil {
		if err := d.BuildGeometry(); err != nil {
			return err
		}
	}
	m, err := mesh.New(d.kern, d.shape, meshSize)
	if err != nil {
		return err
	}
	if err := m.Generate(); err != nil {
		return err
	}
	d.globalMesh = m
	return nil
}

// RefineGlobalMesh refines the global mesh around the given points.
func (d *Device) RefineGlobalMesh(points [][3]float64, localSize float64) error {
	if d.globalMesh == nil {
		return fmt.Errorf("device: global mesh not generated: %w", kernel.ErrInvalidInput)
	}
	return d.globalMesh.Refine(points, localSize)
}

// GenerateLayerMeshes builds per-layer meshes with the given sizes
// for the standard MOSFET layer names, skipping absent layers.
func (d *Device) GenerateLayerMeshes(substrateSize, oxideSize, gateSize float64) error {
	for name, size := range map[string]float64{
		"Substrate":  substrateSize,
		"Gate_Oxide": oxideSize,
		"Gate":       gateSize,
	} {
		if l := d.Layer(name); l != nil {
			if err := l.GenerateMesh(d.kern, size); err != nil {
				return err
			}
		}
	}
	return nil
}

// GenerateAllLayerMeshes builds per-layer meshes with default sizes
// derived from the device extent: coarse for the substrate, fine for
// the oxide, medium for the gate.
func (d *Device) GenerateAllLayerMeshes() error {
	if d.shape == nil {
		if err := d.BuildGeometry(); err != nil {
			return err
		}
	}
	min, max := d.shape.BoundingBox()
	deviceSize := 0.0
	for axis := 0; axis < 3; axis++ {
		if ext := max[axis] - min[axis]; ext > deviceSize {
			deviceSize = ext
		}
	}
	return d.GenerateLayerMeshes(deviceSize/5.0, deviceSize/20.0, deviceSize/12.0)
}

// LayersByRegion returns all layers with the given region.
func (d *Device) LayersByRegion(r Region) []*Layer {
	var out []*Layer
	for _, l := range d.layers {
		if l.Region == r {
			out = append(out, l)
		}
	}
	return out
}

// LayersByMaterial returns all layers with the given material type.
func (d *Device) LayersByMaterial(t MaterialType) []*Layer {
	var out []*Layer
	for _, l := range d.layers {
		if l.Material.Type == t {
			out = append(out, l)
		}
	}
	return out
}

// TotalVolume returns the composed shape's volume, 0 before
// BuildGeometry.
func (d *Device) TotalVolume() float64 {
	if d.shape == nil {
		return 0.0
	}
	return d.kern.Volume(d.shape)
}

// VolumesByMaterial sums per-layer volumes keyed by material type.
func (d *Device) VolumesByMaterial() map[MaterialType]float64 {
	volumes := make(map[MaterialType]float64)
	for _, l := range d.layers {
		volumes[l.Material.Type] += l.Volume(d.kern)
	}
	return volumes
}

// ValidationResult carries the geometry and mesh validity verdicts
// with human-readable messages.
type ValidationResult struct {
	GeometryValid   bool
	MeshValid       bool
	GeometryMessage string
	MeshMessage     string
}

// ValidateGeometry reports whether the composed shape exists and is
// valid per the kernel.
func (d *Device) ValidateGeometry() bool {
	return d.shape != nil && d.kern.IsValid(d.shape)
}

// ValidateMesh reports whether the global mesh exists and is
// consistent.
func (d *Device) ValidateMesh() bool {
	return d.globalMesh != nil && d.globalMesh.Validate()
}

// Validate runs both checks and packages the verdicts.
func (d *Device) Validate() ValidationResult {
	result := ValidationResult{
		GeometryValid: d.ValidateGeometry(),
		MeshValid:     d.ValidateMesh(),
	}
	if result.GeometryValid {
		result.GeometryMessage = "device geometry is valid"
	} else {
		result.GeometryMessage = "device geometry is invalid"
	}
	if result.MeshValid {
		result.MeshMessage = "device mesh is valid"
	} else {
		result.MeshMessage = "device mesh is invalid"
	}
	return result
}

// LogInfo writes a structured summary of the device to the package
// logger.
func (d *Device) LogInfo() {
	logger.Info("device", "name", d.name, "layers", len(d.layers))
	if d.shape != nil {
		min, max := d.shape.BoundingBox()
		logger.Info("device shape", "volume", d.TotalVolume(), "bboxMin", min, "bboxMax", max)
	}
	if d.globalMesh != nil {
		logger.Info("global mesh",
			"nodes", d.globalMesh.NodeCount(),
			"elements", d.globalMesh.ElementCount(),
			"meshSize", d.globalMesh.MeshSize())
	}
	for _, l := range d.layers {
		logger.Info("layer",
			"name", l.Name,
			"material", l.Material.Name,
			"region", l.Region.String(),
			"volume", l.Volume(d.kern))
	}
}
