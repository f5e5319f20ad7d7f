package assembly

import (
	"math"

	"github.com/algorithmx/stratum/pkg/kernel"
)

// minDeterminant is the scale-collapse threshold: a pose whose linear
// part has |det| below this is treated as singular.
const minDeterminant = 1e-9

// minColumnScale is the per-axis scale floor Sanitize snaps collapsed
// axes up to.
const minColumnScale = 1e-6

// TransformValidator guards the builder against malformed poses. The
// checks are closed-form on the matrix; this is a guard-rail, not a
// geometry library.
type TransformValidator struct {
	// MaxAnisotropy bounds the ratio of the largest to the smallest
	// column norm (a cheap condition-number estimate). Poses scaling one
	// axis this much more than another are rejected.
	MaxAnisotropy float64
}

// NewTransformValidator creates a validator with the given anisotropy
// bound; maxAnisotropy <= 1 falls back to a permissive default.
func NewTransformValidator(maxAnisotropy float64) *TransformValidator {
	if maxAnisotropy <= 1 {
		maxAnisotropy = 1e6
	}
	return &TransformValidator{MaxAnisotropy: maxAnisotropy}
}

// IsValid reports whether the pose is usable: all components finite,
// determinant away from zero, anisotropy within bound.
func (v *TransformValidator) IsValid(t kernel.Transform) bool {
	if !t.IsFinite() {
		return false
	}
	if math.Abs(t.Det()) < minDeterminant {
		return false
	}
	norms := t.ColumnNorms()
	minNorm, maxNorm := norms[0], norms[0]
	for _, n := range norms[1:] {
		minNorm = math.Min(minNorm, n)
		maxNorm = math.Max(maxNorm, n)
	}
	if minNorm <= 0 {
		return false
	}
	return maxNorm/minNorm <= v.MaxAnisotropy
}

// Sanitize normalizes a malformed pose into a valid one: non-finite
// parts are reset (linear to identity, offset components to zero) and
// collapsed axes are scaled up to a minimum. The result always passes
// IsValid for any reasonable anisotropy bound.
func (v *TransformValidator) Sanitize(t kernel.Transform) kernel.Transform {
	if !t.IsFinite() {
		linearFinite := true
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if math.IsNaN(t.Linear[i][j]) || math.IsInf(t.Linear[i][j], 0) {
					linearFinite = false
				}
			}
		}
		if !linearFinite {
			t.Linear = kernel.Identity().Linear
		}
		for i := 0; i < 3; i++ {
			if math.IsNaN(t.Offset[i]) || math.IsInf(t.Offset[i], 0) {
				t.Offset[i] = 0
			}
		}
	}

	// Snap collapsed axes up to the scale floor.
	norms := t.ColumnNorms()
	for j := 0; j < 3; j++ {
		if norms[j] >= minColumnScale {
			continue
		}
		if norms[j] == 0 {
			// Fully collapsed column: restore the axis direction.
			t.Linear[j][j] = minColumnScale
			continue
		}
		scale := minColumnScale / norms[j]
		for i := 0; i < 3; i++ {
			t.Linear[i][j] *= scale
		}
	}
	return t
}

// CausesNumericalInstability reports whether composing the pose with
// itself over the given number of applications would grow or shrink
// coordinates beyond an acceptable bound. Repeated resolve cycles
// compose poses, so a mild per-step scale drift compounds.
func (v *TransformValidator) CausesNumericalInstability(t kernel.Transform, applications int) bool {
	if applications < 1 {
		applications = 1
	}
	norms := t.ColumnNorms()
	maxNorm := math.Max(norms[0], math.Max(norms[1], norms[2]))
	minNorm := math.Min(norms[0], math.Min(norms[1], norms[2]))
	if minNorm <= 0 {
		return true
	}

	const bound = 1e6
	n := float64(applications)
	if math.Pow(maxNorm, n) > bound {
		return true
	}
	if math.Pow(minNorm, n) < 1/bound {
		return true
	}
	return false
}
