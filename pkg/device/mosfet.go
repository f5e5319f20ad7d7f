package device

import (
	"fmt"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// SimpleMOSFET builds the canonical three-layer test device: a
// silicon substrate, a gate oxide covering the center half of the
// footprint, and a polysilicon gate on top of the oxide. Layer
// positions are proportional to the footprint so the template scales
// with its arguments.
func SimpleMOSFET(k kernel.Kernel, length, width, substrateHeight, oxideHeight, gateHeight float64) (*Device, error) {
	if length <= 0 || width <= 0 || substrateHeight <= 0 || oxideHeight <= 0 || gateHeight <= 0 {
		return nil, fmt.Errorf("device: MOSFET dimensions must be positive: %w", kernel.ErrInvalidInput)
	}

	d, err := New(k, "SimpleMOSFET")
	if err != nil {
		return nil, err
	}

	substrate, err := k.BoxAt([3]float64{0, 0, 0}, length, width, substrateHeight)
	if err != nil {
		return nil, fmt.Errorf("device: substrate: %w", err)
	}
	if err := d.AddLayer(&Layer{
		Name:     "Substrate",
		Solid:    substrate,
		Material: StandardSilicon(),
		Region:   Substrate,
	}); err != nil {
		return nil, err
	}

	// Gate oxide: center half of the footprint, sitting on the substrate.
	oxide, err := k.BoxAt(
		[3]float64{length * 0.25, width * 0.25, substrateHeight},
		length*0.5, width*0.5, oxideHeight)
	if err != nil {
		return nil, fmt.Errorf("device: gate oxide: %w", err)
	}
	if err := d.AddLayer(&Layer{
		Name:     "Gate_Oxide",
		Solid:    oxide,
		Material: StandardSiliconDioxide(),
		Region:   Insulator,
	}); err != nil {
		return nil, err
	}

	// Gate contact: slightly smaller box on top of the oxide.
	gate, err := k.BoxAt(
		[3]float64{length * 0.3, width * 0.3, substrateHeight + oxideHeight},
		length*0.4, width*0.4, gateHeight)
	if err != nil {
		return nil, fmt.Errorf("device: gate: %w", err)
	}
	if err := d.AddLayer(&Layer{
		Name:     "Gate",
		Solid:    gate,
		Material: StandardPolysilicon(),
		Region:   Gate,
	}); err != nil {
		return nil, err
	}

	if err := d.BuildGeometry(); err != nil {
		return nil, err
	}
	return d, nil
}
