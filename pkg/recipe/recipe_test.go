package recipe

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/algorithmx/stratum/pkg/device"
	"github.com/algorithmx/stratum/pkg/kernel/sdfx"
)

const mosfetRecipe = `
name = "nmos"
mesh_size = 0.4

[[layer]]
name = "Substrate"
material = "silicon"
region = "substrate"
rank = 0
size = [2.0, 2.0, 1.0]

[[layer]]
name = "Gate_Oxide"
material = "silicon_dioxide"
region = "insulator"
rank = 1
size = [1.0, 1.0, 0.4]
position = [0.5, 0.5, 0.8]
mesh_size = 0.2

[[layer]]
name = "Gate"
material = "polysilicon"
region = "gate"
rank = 2
size = [0.8, 0.8, 0.4]
position = [0.6, 0.6, 1.2]
`

func TestParseRecipe(t *testing.T) {
	r, err := Parse([]byte(mosfetRecipe))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Name != "nmos" {
		t.Errorf("name = %q, want %q", r.Name, "nmos")
	}
	if len(r.Layers) != 3 {
		t.Fatalf("layer count = %d, want 3", len(r.Layers))
	}
	if r.Layers[1].Rank != 1 || r.Layers[1].Material != "silicon_dioxide" {
		t.Errorf("second layer parsed wrong: %+v", r.Layers[1])
	}
	// Omitted position defaults to the origin.
	if got := r.Layers[0].Position; len(got) != 3 || got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Errorf("default position = %v, want origin", got)
	}
}

func TestParseDefaultsDeviceName(t *testing.T) {
	r, err := Parse([]byte(`[[layer]]
name = "S"
material = "silicon"
region = "substrate"
size = [1.0, 1.0, 1.0]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Name != "SemiconductorDevice" {
		t.Errorf("default name = %q", r.Name)
	}
}

func TestLoadRecipeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nmos.toml")
	if err := os.WriteFile(path, []byte(mosfetRecipe), 0o644); err != nil {
		t.Fatalf("writing recipe: %v", err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Name != "nmos" || len(r.Layers) != 3 {
		t.Errorf("loaded recipe wrong: name=%q layers=%d", r.Name, len(r.Layers))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}

func TestValidateAcceptsGoodRecipe(t *testing.T) {
	r, _ := Parse([]byte(mosfetRecipe))
	if errs := r.Validate(); len(errs) != 0 {
		t.Errorf("valid recipe rejected: %v", errs)
	}
}

func hasCode(errs []ValidationError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateFindings(t *testing.T) {
	r := &Recipe{
		Name:     "bad",
		MeshSize: -1,
		Layers: []Layer{
			{Name: "A", Material: "unobtainium", Region: "substrate", Size: []float64{1, 1, 1}, Position: []float64{0, 0, 0}},
			{Name: "A", Material: "silicon", Region: "everywhere", Size: []float64{1, -1, 1}, Position: []float64{0, 0, 0}},
			{Name: "B", Material: "metal", Region: "contact", Size: []float64{1, 1}, Position: []float64{0, 0}, MeshSize: -2},
		},
	}
	errs := r.Validate()
	for _, code := range []string{
		"BAD_MESH_SIZE", "DUPLICATE_LAYER", "UNKNOWN_MATERIAL",
		"UNKNOWN_REGION", "BAD_DIMENSIONS", "BAD_POSITION",
	} {
		if !hasCode(errs, code) {
			t.Errorf("missing validation code %s in %v", code, errs)
		}
	}

	empty := &Recipe{Name: "empty"}
	if !hasCode(empty.Validate(), "NO_LAYERS") {
		t.Error("empty recipe should report NO_LAYERS")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	e := ValidationError{Code: "UNKNOWN_MATERIAL", Message: "nope", Layer: "Gate"}
	got := e.Error()
	if !strings.Contains(got, "UNKNOWN_MATERIAL") || !strings.Contains(got, "Gate") {
		t.Errorf("error string = %q", got)
	}
}

func TestAssembleRejectsInvalidRecipe(t *testing.T) {
	r := &Recipe{Name: "bad"}
	if _, err := r.Assemble(sdfx.New()); err == nil {
		t.Error("assembling an invalid recipe should fail")
	}
}

func TestAssembleLoadsLayers(t *testing.T) {
	r, _ := Parse([]byte(mosfetRecipe))
	b, err := r.Assemble(sdfx.New())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if b.LayerCount() != 3 {
		t.Errorf("builder has %d layers, want 3", b.LayerCount())
	}
	l, err := b.Layer(2)
	if err != nil {
		t.Fatalf("Layer(2) failed: %v", err)
	}
	if l.Name != "Gate" || l.Rank() != 2 {
		t.Errorf("layer 2 = %q rank %d", l.Name, l.Rank())
	}
	if l.Material.Type != device.MetalContact {
		t.Errorf("polysilicon should map to material type %v, got %v",
			device.MetalContact, l.Material.Type)
	}
}

func TestBuildResolvesAndMeshes(t *testing.T) {
	r, _ := Parse([]byte(mosfetRecipe))
	k := sdfx.New()
	d, err := r.Build(k)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if d.Name() != "nmos" {
		t.Errorf("device name = %q", d.Name())
	}
	if d.LayerCount() != 3 {
		t.Fatalf("device has %d layers, want 3", d.LayerCount())
	}
	if d.GlobalMesh() == nil {
		t.Error("global mesh should be generated")
	}

	// Only the oxide asked for a layer mesh.
	if d.Layer("Gate_Oxide").Mesh == nil {
		t.Error("oxide layer mesh should be generated")
	}
	if d.Layer("Substrate").Mesh != nil {
		t.Error("substrate should not have a layer mesh")
	}

	// The gate box overlaps nothing above it, and the oxide is cut
	// out of the substrate, so total volume stays near the simple sum
	// minus the overlaps.
	sub := d.Layer("Substrate").Volume(k)
	if math.Abs(sub-(4.0-0.2)) > 0.4 {
		t.Errorf("substrate volume = %g, want about 3.8", sub)
	}
}
