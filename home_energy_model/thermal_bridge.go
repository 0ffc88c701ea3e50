package home_energy_model

type ThermalBridgeJson struct {
	Type                       string  `json:"type"` // "ThermalBridgeLinear" or "ThermalBridgePoint"
	LinearThermalTransmittance float64 `json:"linear_thermal_transmittance"`
	Length                     float64 `json:"length"`
	HeatTransferCoeff          float64 `json:"heat_transfer_coeff"`
}

// ThermalBridge is a heat loss path not covered by the building elements.
type ThermalBridge interface {
	heat_trans_coeff() float64 // W/K
}

type ThermalBridgeLinear struct {
	linear_thermal_transmittance float64 // psi, W/(m.K)
	length                       float64 // m
}

func NewThermalBridgeLinear(linear_thermal_transmittance, length float64) *ThermalBridgeLinear {
	return &ThermalBridgeLinear{
		linear_thermal_transmittance: linear_thermal_transmittance,
		length:                       length,
	}
}

func (tb *ThermalBridgeLinear) heat_trans_coeff() float64 {
	return tb.linear_thermal_transmittance * tb.length
}

type ThermalBridgePoint struct {
	point_heat_transfer_coeff float64 // chi, W/K
}

func NewThermalBridgePoint(heat_transfer_coeff float64) *ThermalBridgePoint {
	return &ThermalBridgePoint{point_heat_transfer_coeff: heat_transfer_coeff}
}

func (tb *ThermalBridgePoint) heat_trans_coeff() float64 {
	return tb.point_heat_transfer_coeff
}

func NewThermalBridgeFromJson(name string, d *ThermalBridgeJson) (ThermalBridge, error) {
	switch d.Type {
	case "ThermalBridgeLinear":
		return NewThermalBridgeLinear(d.LinearThermalTransmittance, d.Length), nil
	case "ThermalBridgePoint":
		return NewThermalBridgePoint(d.HeatTransferCoeff), nil
	default:
		return nil, newConfigurationError("ThermalBridging."+name+".type", "unknown thermal bridge type %q", d.Type)
	}
}
