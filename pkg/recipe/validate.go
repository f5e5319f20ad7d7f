package recipe

import "fmt"

// ValidationError represents a validation failure in a recipe.
type ValidationError struct {
	Code    string
	Message string
	Layer   string
}

func (e ValidationError) Error() string {
	if e.Layer != "" {
		return fmt.Sprintf("%s: %s (layer: %s)", e.Code, e.Message, e.Layer)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validate checks the recipe for structural problems. An empty slice
// means the recipe can be assembled.
func (r *Recipe) Validate() []ValidationError {
	var errs []ValidationError

	if len(r.Layers) == 0 {
		errs = append(errs, ValidationError{
			Code:    "NO_LAYERS",
			Message: "recipe defines no layers",
		})
	}
	if r.MeshSize < 0 {
		errs = append(errs, ValidationError{
			Code:    "BAD_MESH_SIZE",
			Message: fmt.Sprintf("global mesh size %g is negative", r.MeshSize),
		})
	}

	seen := make(map[string]bool)
	for i, l := range r.Layers {
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("Layer_%d", i)
		}
		if seen[name] {
			errs = append(errs, ValidationError{
				Code:    "DUPLICATE_LAYER",
				Message: "layer name is not unique",
				Layer:   name,
			})
		}
		seen[name] = true

		if _, ok := materialFor(l.Material); !ok {
			errs = append(errs, ValidationError{
				Code:    "UNKNOWN_MATERIAL",
				Message: fmt.Sprintf("material %q is not recognized", l.Material),
				Layer:   name,
			})
		}
		if _, ok := regionFor(l.Region); !ok {
			errs = append(errs, ValidationError{
				Code:    "UNKNOWN_REGION",
				Message: fmt.Sprintf("region %q is not recognized", l.Region),
				Layer:   name,
			})
		}

		if len(l.Size) != 3 {
			errs = append(errs, ValidationError{
				Code:    "BAD_DIMENSIONS",
				Message: fmt.Sprintf("size needs 3 components, got %d", len(l.Size)),
				Layer:   name,
			})
		} else {
			for _, d := range l.Size {
				if d <= 0 {
					errs = append(errs, ValidationError{
						Code:    "BAD_DIMENSIONS",
						Message: fmt.Sprintf("size component %g is not positive", d),
						Layer:   name,
					})
					break
				}
			}
		}
		if len(l.Position) != 3 {
			errs = append(errs, ValidationError{
				Code:    "BAD_POSITION",
				Message: fmt.Sprintf("position needs 3 components, got %d", len(l.Position)),
				Layer:   name,
			})
		}
		if l.MeshSize < 0 {
			errs = append(errs, ValidationError{
				Code:    "BAD_MESH_SIZE",
				Message: fmt.Sprintf("layer mesh size %g is negative", l.MeshSize),
				Layer:   name,
			})
		}
	}

	return errs
}
