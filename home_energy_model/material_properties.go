package home_energy_model

// MaterialProperties holds the thermal properties of a fluid.
type MaterialProperties struct {
	density                float64 // kg/litre
	specific_heat_capacity float64 // J/(kg.K)
}

var (
	WATER  = MaterialProperties{density: 1.0, specific_heat_capacity: 4184.0}
	GLYCOL = MaterialProperties{density: 1.05, specific_heat_capacity: 3540.0} // 25 % propylene glycol
)

func NewMaterialProperties(density, specific_heat_capacity float64) *MaterialProperties {
	return &MaterialProperties{
		density:                density,
		specific_heat_capacity: specific_heat_capacity,
	}
}

func (m *MaterialProperties) Density() float64 {
	return m.density
}

func (m *MaterialProperties) SpecificHeatCapacity() float64 {
	return m.specific_heat_capacity
}

// volumetric heat capacity, J/(litre.K)
func (m *MaterialProperties) volumetric_heat_capacity() float64 {
	return m.density * m.specific_heat_capacity
}

// energy released per litre when cooling from temp_high to temp_low, J
func (m *MaterialProperties) volumetric_energy_content_J_per_litre(temp_high, temp_low float64) float64 {
	return m.volumetric_heat_capacity() * (temp_high - temp_low)
}

func (m *MaterialProperties) volumetric_energy_content_kWh_per_litre(temp_high, temp_low float64) float64 {
	return m.volumetric_energy_content_J_per_litre(temp_high, temp_low) / (SECONDS_PER_HOUR * WATTS_PER_KILOWATT)
}
