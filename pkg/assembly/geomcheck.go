package assembly

import (
	"fmt"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// CutCheck is the verdict on one boolean-cut result.
type CutCheck struct {
	Volume     float64
	Degenerate bool
	Message    string
}

// GeometryValidator classifies cut results against a minimum-volume
// threshold. A below-threshold result is not an error; it means the
// layer was consumed by higher-rank cuts.
type GeometryValidator struct {
	kern      kernel.Kernel
	minVolume float64
}

// NewGeometryValidator creates a validator with the given volume
// threshold.
func NewGeometryValidator(k kernel.Kernel, minVolume float64) *GeometryValidator {
	return &GeometryValidator{kern: k, minVolume: minVolume}
}

// ValidateCutResult computes the solid's volume and flags it
// degenerate when below threshold, attaching a diagnostic.
func (v *GeometryValidator) ValidateCutResult(s kernel.Solid) CutCheck {
	if s == nil {
		return CutCheck{Degenerate: true, Message: "cut result is empty"}
	}
	vol := v.kern.Volume(s)
	if vol < v.minVolume {
		return CutCheck{
			Volume:     vol,
			Degenerate: true,
			Message:    fmt.Sprintf("volume %g below threshold %g", vol, v.minVolume),
		}
	}
	return CutCheck{Volume: vol}
}

// Err returns nil for a sound result, or the diagnostic wrapped
// around kernel.ErrDegenerateResult so callers can branch with
// errors.Is.
func (c CutCheck) Err() error {
	if !c.Degenerate {
		return nil
	}
	return fmt.Errorf("assembly: %s: %w", c.Message, kernel.ErrDegenerateResult)
}

// RepairDegenerate runs the kernel's shape-healing pass. The result
// may still be degenerate; callers must re-validate.
func (v *GeometryValidator) RepairDegenerate(s kernel.Solid) kernel.Solid {
	if s == nil {
		return nil
	}
	return v.kern.Repair(s)
}
