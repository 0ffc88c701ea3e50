package home_energy_model

import "fmt"

// temperature of the hot water delivered to the outlets, degree C
const hot_water_temperature = 52.0

// minimum flow rate of a mixer shower, litres/min
const shower_flowrate_min = 8.0

type ShowerJson struct {
	Type            string  `json:"type"` // MixerShower or InstantElecShower
	Flowrate        float64 `json:"flowrate"`
	RatedPower      float64 `json:"rated_power"`
	ColdWaterSource string  `json:"ColdWaterSource"`
	EnergySupply    string  `json:"EnergySupply"`
}

type BathJson struct {
	Size            float64 `json:"size"`
	Flowrate        float64 `json:"flowrate"`
	ColdWaterSource string  `json:"ColdWaterSource"`
}

type OtherWaterUseJson struct {
	Flowrate        float64 `json:"flowrate"`
	ColdWaterSource string  `json:"ColdWaterSource"`
}

/*
Fraction of hot water in a mix of hot and cold water.

	Args:
		temp_mixed: temperature of the mixed water, degree C
		temp_hot: temperature of the hot water, degree C
		temp_cold: temperature of the cold water, degree C
*/
func frac_hot_water(temp_mixed, temp_hot, temp_cold float64) float64 {
	return (temp_mixed - temp_cold) / (temp_hot - temp_cold)
}

// water_demand_to_kWh returns the heat needed to warm litres_demand from temp_cold to temp_demand.
func water_demand_to_kWh(litres_demand, temp_demand, temp_cold float64) float64 {
	return WATER.volumetric_energy_content_kWh_per_litre(temp_demand, temp_cold) * litres_demand
}

/*
Shower is a shower outlet.

	hot_water_demand returns the volume of hot water drawn from the hot water
	system, litres, for a shower of total_shower_duration minutes at
	temp_target.
*/
type Shower interface {
	hot_water_demand(t_idx int, temp_target float64, total_shower_duration float64) float64
	get_cold_water_source() *ColdWaterSource
}

// MixerShower mixes hot water from the hot water system with cold water.
type MixerShower struct {
	flowrate          float64 // litres/min
	cold_water_source *ColdWaterSource
}

func NewMixerShower(flowrate float64, cold_water_source *ColdWaterSource) *MixerShower {
	return &MixerShower{flowrate: flowrate, cold_water_source: cold_water_source}
}

func (s *MixerShower) get_cold_water_source() *ColdWaterSource {
	return s.cold_water_source
}

func (s *MixerShower) hot_water_demand(t_idx int, temp_target float64, total_shower_duration float64) float64 {
	temp_cold_water := s.cold_water_source.temperature(t_idx)
	vol_warm_water := s.flowrate * total_shower_duration
	return vol_warm_water * frac_hot_water(temp_target, hot_water_temperature, temp_cold_water)
}

/*
InstantElecShower heats cold water electrically at the outlet.

	It takes nothing from the hot water system. hot_water_demand posts the
	electricity and returns the hot water the same shower would have drawn,
	for reporting only.
*/
type InstantElecShower struct {
	rated_power        float64 // kW
	cold_water_source  *ColdWaterSource
	energy_supply_conn *EnergySupplyConnection
}

func NewInstantElecShower(rated_power float64, cold_water_source *ColdWaterSource, energy_supply_conn *EnergySupplyConnection) *InstantElecShower {
	return &InstantElecShower{
		rated_power:        rated_power,
		cold_water_source:  cold_water_source,
		energy_supply_conn: energy_supply_conn,
	}
}

func (s *InstantElecShower) get_cold_water_source() *ColdWaterSource {
	return s.cold_water_source
}

func (s *InstantElecShower) hot_water_demand(t_idx int, temp_target float64, total_shower_duration float64) float64 {
	temp_cold_water := s.cold_water_source.temperature(t_idx)

	elec_demand := s.rated_power * (total_shower_duration / MINUTES_PER_HOUR)
	vol_warm_water := elec_demand / water_demand_to_kWh(1.0, temp_target, temp_cold_water)

	s.energy_supply_conn.demand_energy(elec_demand, t_idx)

	return vol_warm_water * frac_hot_water(temp_target, hot_water_temperature, temp_cold_water)
}

func NewShowerFromJson(
	name string,
	d *ShowerJson,
	cold_water_sources map[string]*ColdWaterSource,
	energy_supplies map[string]*EnergySupply,
) (Shower, error) {
	key := "Shower." + name
	cold, ok := cold_water_sources[d.ColdWaterSource]
	if !ok {
		return nil, newConfigurationError(key+".ColdWaterSource", "unknown cold water source %q", d.ColdWaterSource)
	}

	switch d.Type {
	case "MixerShower":
		if d.Flowrate <= 0 {
			return nil, newConfigurationError(key+".flowrate", "must be positive, got %g", d.Flowrate)
		}
		return NewMixerShower(d.Flowrate, cold), nil
	case "InstantElecShower":
		supply, ok := energy_supplies[d.EnergySupply]
		if !ok {
			return nil, newConfigurationError(key+".EnergySupply", "unknown energy supply %q", d.EnergySupply)
		}
		conn, err := supply.connection(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return NewInstantElecShower(d.RatedPower, cold, conn), nil
	default:
		return nil, newConfigurationError(key+".type", "unknown shower type %q", d.Type)
	}
}

// check_shower_flowrate rejects mixer showers below the minimum flow rate.
func check_shower_flowrate(showers map[string]*ShowerJson) error {
	for name, shower := range showers {
		if shower.Type == "MixerShower" && shower.Flowrate < shower_flowrate_min {
			return newConfigurationError("Shower."+name+".flowrate", "%g l/min is below the minimum of %g l/min", shower.Flowrate, shower_flowrate_min)
		}
	}
	return nil
}

//---------------------------------------------------------------------------------------------------//

// Bath is filled to a fixed size whatever the length of the event.
type Bath struct {
	size              float64 // litres
	cold_water_source *ColdWaterSource
	flowrate          float64 // litres/min
}

func NewBath(size float64, cold_water_source *ColdWaterSource, flowrate float64) *Bath {
	return &Bath{size: size, cold_water_source: cold_water_source, flowrate: flowrate}
}

func NewBathFromJson(name string, d *BathJson, cold_water_sources map[string]*ColdWaterSource) (*Bath, error) {
	cold, ok := cold_water_sources[d.ColdWaterSource]
	if !ok {
		return nil, newConfigurationError("Bath."+name+".ColdWaterSource", "unknown cold water source %q", d.ColdWaterSource)
	}
	if d.Size <= 0 {
		return nil, newConfigurationError("Bath."+name+".size", "must be positive, got %g", d.Size)
	}
	return NewBath(d.Size, cold, d.Flowrate), nil
}

func (b *Bath) get_size() float64 {
	return b.size
}

func (b *Bath) get_flowrate() float64 {
	return b.flowrate
}

func (b *Bath) get_cold_water_source() *ColdWaterSource {
	return b.cold_water_source
}

// hot_water_demand returns the hot water drawn to fill the bath at temp_target, litres.
func (b *Bath) hot_water_demand(t_idx int, temp_target float64) float64 {
	temp_cold_water := b.cold_water_source.temperature(t_idx)
	return b.size * frac_hot_water(temp_target, hot_water_temperature, temp_cold_water)
}

//---------------------------------------------------------------------------------------------------//

// OtherHotWater is any other draw-off, such as a kitchen or basin tap.
type OtherHotWater struct {
	flowrate          float64 // litres/min
	cold_water_source *ColdWaterSource
}

func NewOtherHotWater(flowrate float64, cold_water_source *ColdWaterSource) *OtherHotWater {
	return &OtherHotWater{flowrate: flowrate, cold_water_source: cold_water_source}
}

func NewOtherHotWaterFromJson(name string, d *OtherWaterUseJson, cold_water_sources map[string]*ColdWaterSource) (*OtherHotWater, error) {
	cold, ok := cold_water_sources[d.ColdWaterSource]
	if !ok {
		return nil, newConfigurationError("Other."+name+".ColdWaterSource", "unknown cold water source %q", d.ColdWaterSource)
	}
	if d.Flowrate <= 0 {
		return nil, newConfigurationError("Other."+name+".flowrate", "must be positive, got %g", d.Flowrate)
	}
	return NewOtherHotWater(d.Flowrate, cold), nil
}

func (o *OtherHotWater) get_flowrate() float64 {
	return o.flowrate
}

func (o *OtherHotWater) get_cold_water_source() *ColdWaterSource {
	return o.cold_water_source
}

func (o *OtherHotWater) hot_water_demand(t_idx int, temp_target float64, total_duration float64) float64 {
	temp_cold_water := o.cold_water_source.temperature(t_idx)
	return o.flowrate * total_duration * frac_hot_water(temp_target, hot_water_temperature, temp_cold_water)
}
