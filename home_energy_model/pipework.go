package home_energy_model

import "math"

const (
	// internal surface heat transfer coefficient of water, W/(m2.K)
	internal_htc_water = 1500.0
	// external surface heat transfer coefficients, W/(m2.K)
	external_htc_reflective     = 5.7
	external_htc_non_reflective = 10.0
)

type PipeworkJson struct {
	InternalDiameter      float64 `json:"internal_diameter_mm"`
	ExternalDiameter      float64 `json:"external_diameter_mm"`
	Length                float64 `json:"length"`
	InsulationThermalCond float64 `json:"insulation_thermal_conductivity"`
	InsulationThickness   float64 `json:"insulation_thickness_mm"`
	SurfaceReflectivity   bool    `json:"surface_reflectivity"`
	PipeContents          string  `json:"pipe_contents"`
}

/*
Pipework is an insulated length of pipe.

	Heat loss follows the usual series of three resistances: the internal
	film, the insulation layer and the external surface.
*/
type Pipework struct {
	internal_diameter float64 // m
	length            float64 // m
	volume            float64 // litres

	interior_surface_resistance float64 // K.m/W
	insulation_resistance       float64 // K.m/W
	external_surface_resistance float64 // K.m/W
}

/*
Args:

	internal_diameter             -- internal diameter of the pipe, m
	external_diameter             -- external diameter of the pipe, m
	length                        -- length of pipe, m
	thermal_conductivity          -- thermal conductivity of the insulation, W/(m.K)
	insulation_thickness          -- thickness of the pipe insulation, m
	surface_reflectivity          -- whether the insulation surface is reflective
	pipe_contents                 -- "water"
*/
func NewPipework(
	internal_diameter float64,
	external_diameter float64,
	length float64,
	thermal_conductivity float64,
	insulation_thickness float64,
	surface_reflectivity bool,
	pipe_contents string,
) (*Pipework, error) {
	if internal_diameter <= 0 || external_diameter < internal_diameter {
		return nil, newConfigurationError("Pipework", "invalid diameters %g, %g", internal_diameter, external_diameter)
	}
	if thermal_conductivity <= 0 {
		return nil, newConfigurationError("Pipework.insulation_thermal_conductivity", "must be positive, got %g", thermal_conductivity)
	}

	var internal_htc float64
	switch pipe_contents {
	case "water":
		internal_htc = internal_htc_water
	default:
		return nil, newConfigurationError("Pipework.pipe_contents", "unknown pipe contents %q", pipe_contents)
	}

	var external_htc float64
	if surface_reflectivity {
		external_htc = external_htc_reflective
	} else {
		external_htc = external_htc_non_reflective
	}

	// diameter of the pipe including insulation, m
	D_ins := external_diameter + 2.0*insulation_thickness

	return &Pipework{
		internal_diameter:           internal_diameter,
		length:                      length,
		volume:                      math.Pi * math.Pow(internal_diameter/2.0, 2) * length * LITRES_PER_CUBIC_METRE,
		interior_surface_resistance: 1.0 / (internal_htc * math.Pi * internal_diameter),
		insulation_resistance:       math.Log(D_ins/internal_diameter) / (2.0 * math.Pi * thermal_conductivity),
		external_surface_resistance: 1.0 / (external_htc * math.Pi * D_ins),
	}, nil
}

// JSON diameters and thicknesses are given in mm.
func NewPipeworkFromJson(d PipeworkJson) (*Pipework, error) {
	return NewPipework(
		d.InternalDiameter/1000.0,
		d.ExternalDiameter/1000.0,
		d.Length,
		d.InsulationThermalCond,
		d.InsulationThickness/1000.0,
		d.SurfaceReflectivity,
		d.PipeContents,
	)
}

// volume of water in the pipe, litres
func (p *Pipework) volume_litres() float64 {
	return p.volume
}

/*
heat_loss returns the steady heat loss from the pipe, W.

Args:

	inside_temp  -- temperature of the water in the pipe, degree C
	outside_temp -- temperature of the surroundings, degree C
*/
func (p *Pipework) heat_loss(inside_temp, outside_temp float64) float64 {
	R_total := p.interior_surface_resistance + p.insulation_resistance + p.external_surface_resistance
	return (inside_temp - outside_temp) / R_total * p.length
}

func (p *Pipework) temperature_drop(inside_temp, outside_temp float64) float64 {
	return inside_temp - outside_temp
}

// cool_down_loss is the heat released by the water in the pipe cooling to the surroundings, kWh.
func (p *Pipework) cool_down_loss(inside_temp, outside_temp float64) float64 {
	return WATER.volumetric_energy_content_kWh_per_litre(inside_temp, outside_temp) * p.volume
}
