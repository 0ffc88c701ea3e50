package home_energy_model

import "math"

// DuctworkLocation is where the MVHR unit sits relative to the thermal envelope.
type DuctworkLocation int

const (
	DuctworkLocationInside DuctworkLocation = iota
	DuctworkLocationOutside
)

func (l DuctworkLocation) String() string {
	return [...]string{"inside", "outside"}[l]
}

func DuctworkLocationFromString(s string) (DuctworkLocation, error) {
	l, ok := map[string]DuctworkLocation{
		"inside":  DuctworkLocationInside,
		"outside": DuctworkLocationOutside,
	}[s]
	if !ok {
		return 0, newConfigurationError("Ductwork.mvhr_location", "unknown location %q", s)
	}
	return l, nil
}

type DuctworkJson struct {
	InternalDiameter      float64 `json:"internal_diameter_mm"`
	ExternalDiameter      float64 `json:"external_diameter_mm"`
	LengthInsideEnvelope  float64 `json:"length_in_out"`
	LengthOutsideEnvelope float64 `json:"length_out_in"`
	InsulationThermalCond float64 `json:"insulation_thermal_conductivity"`
	InsulationThickness   float64 `json:"insulation_thickness_mm"`
	ReflectiveInsulation  bool    `json:"reflective"`
	MVHRLocation          string  `json:"mvhr_location"`
}

const (
	// internal surface heat transfer coefficient of air in a duct, W/(m2.K)
	duct_internal_htc = 15.5
)

// Ductwork models the two pairs of ducts of an MVHR unit.
type Ductwork struct {
	length_in_out float64 // length of duct running from inside to outside the envelope, m
	length_out_in float64 // length of duct running from outside to inside the envelope, m
	location      DuctworkLocation

	D_ins                       float64 // m
	internal_surface_resistance float64 // K.m/W
	insulation_resistance       float64 // K.m/W
	external_surface_resistance float64 // K.m/W
}

func NewDuctwork(
	internal_diameter float64,
	external_diameter float64,
	length_in_out float64,
	length_out_in float64,
	k_insulation float64,
	thickness_insulation float64,
	reflective bool,
	location DuctworkLocation,
) (*Ductwork, error) {
	if internal_diameter <= 0 || k_insulation <= 0 {
		return nil, newConfigurationError("Ductwork", "diameter and insulation conductivity must be positive")
	}

	D_ins := external_diameter + 2.0*thickness_insulation

	var external_htc float64
	if reflective {
		external_htc = external_htc_reflective
	} else {
		external_htc = external_htc_non_reflective
	}

	return &Ductwork{
		length_in_out:               length_in_out,
		length_out_in:               length_out_in,
		location:                    location,
		D_ins:                       D_ins,
		internal_surface_resistance: 1.0 / (duct_internal_htc * math.Pi * internal_diameter),
		insulation_resistance:       math.Log(D_ins/internal_diameter) / (2.0 * math.Pi * k_insulation),
		external_surface_resistance: 1.0 / (external_htc * math.Pi * D_ins),
	}, nil
}

func NewDuctworkFromJson(d *DuctworkJson) (*Ductwork, error) {
	location, err := DuctworkLocationFromString(d.MVHRLocation)
	if err != nil {
		return nil, err
	}
	return NewDuctwork(
		d.InternalDiameter/1000.0,
		d.ExternalDiameter/1000.0,
		d.LengthInsideEnvelope,
		d.LengthOutsideEnvelope,
		d.InsulationThermalCond,
		d.InsulationThickness/1000.0,
		d.ReflectiveInsulation,
		location,
	)
}

/*
duct_heat_loss returns the heat loss from a duct, W. Negative values are gains.

Args:

	inside_temp  -- temperature of the air in the duct, degree C
	outside_temp -- temperature around the duct, degree C
	length       -- length of the duct, m
*/
func (d *Ductwork) duct_heat_loss(inside_temp, outside_temp, length float64) float64 {
	R_total := d.internal_surface_resistance + d.insulation_resistance + d.external_surface_resistance
	return length * (inside_temp - outside_temp) / R_total
}

/*
total_duct_heat_loss returns the heat lost from all four ducts, W.

	With the unit inside the envelope, only the intake and exhaust ducts cross
	unheated space; the share of exhaust duct losses that heat recovery would
	have reclaimed is weighted by the efficiency. With the unit outside, the
	supply and extract ducts run outside instead.
*/
func (d *Ductwork) total_duct_heat_loss(
	outside_temp float64,
	supply_duct_temp float64,
	extract_duct_temp float64,
	intake_duct_temp float64,
	exhaust_duct_temp float64,
	efficiency float64,
) float64 {
	switch d.location {
	case DuctworkLocationInside:
		intake_loss := d.duct_heat_loss(intake_duct_temp, outside_temp, d.length_in_out)
		exhaust_loss := d.duct_heat_loss(exhaust_duct_temp, outside_temp, d.length_in_out)
		return intake_loss*efficiency + exhaust_loss*(1.0-efficiency)
	case DuctworkLocationOutside:
		supply_loss := d.duct_heat_loss(supply_duct_temp, outside_temp, d.length_out_in)
		extract_loss := d.duct_heat_loss(extract_duct_temp, outside_temp, d.length_out_in)
		return supply_loss + extract_loss*efficiency
	default:
		panic(d.location)
	}
}
