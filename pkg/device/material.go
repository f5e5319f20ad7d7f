package device

// VacuumPermittivity is the permittivity of free space in F/m.
const VacuumPermittivity = 8.854e-12

// MaterialType classifies the semiconductor materials a layer can be
// made of.
type MaterialType int

const (
	Silicon MaterialType = iota
	GermaniumSilicon
	GalliumArsenide
	IndiumGalliumArsenide
	SiliconNitride
	SiliconDioxide
	MetalContact
)

func (t MaterialType) String() string {
	switch t {
	case Silicon:
		return "Silicon"
	case GermaniumSilicon:
		return "GermaniumSilicon"
	case GalliumArsenide:
		return "GalliumArsenide"
	case IndiumGalliumArsenide:
		return "IndiumGalliumArsenide"
	case SiliconNitride:
		return "Silicon_Nitride"
	case SiliconDioxide:
		return "Silicon_Dioxide"
	case MetalContact:
		return "Metal_Contact"
	default:
		return "Unknown"
	}
}

// Material bundles the electrical properties a solver downstream
// needs per layer.
type Material struct {
	Type         MaterialType `json:"type"`
	Conductivity float64      `json:"conductivity"` // S/m
	Permittivity float64      `json:"permittivity"` // F/m
	BandGap      float64      `json:"bandGap"`      // eV
	Name         string       `json:"name"`
}

// Standard material factories. The constants are the conventional
// room-temperature values used across the exporters and examples.

func StandardSilicon() Material {
	return Material{Silicon, 1.0e-4, 11.7 * VacuumPermittivity, 1.12, "Silicon Substrate"}
}

func StandardSiliconDioxide() Material {
	return Material{SiliconDioxide, 1.0e-16, 3.9 * VacuumPermittivity, 9.0, "SiO2 Gate Oxide"}
}

func StandardPolysilicon() Material {
	return Material{MetalContact, 1.0e5, 1.0 * VacuumPermittivity, 0.0, "Polysilicon Gate"}
}

func StandardMetal() Material {
	return Material{MetalContact, 1.0e7, 1.0 * VacuumPermittivity, 0.0, "Metal Contact"}
}

// Region classifies the functional role of a layer within the device.
type Region int

const (
	Substrate Region = iota
	ActiveRegion
	Gate
	Source
	Drain
	Insulator
	Contact
)

func (r Region) String() string {
	switch r {
	case Substrate:
		return "Substrate"
	case ActiveRegion:
		return "ActiveRegion"
	case Gate:
		return "Gate"
	case Source:
		return "Source"
	case Drain:
		return "Drain"
	case Insulator:
		return "Insulator"
	case Contact:
		return "Contact"
	default:
		return "Unknown"
	}
}
