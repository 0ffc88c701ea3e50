package home_energy_model

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
)

// HeatingControlType is how the heating of the zones is timed.
type HeatingControlType int

const (
	// every zone has its own heating times and setpoint
	HeatingControlTypeSeparateTimeAndTemp HeatingControlType = iota
	// zones follow the heating times of the living room, each at its own setpoint
	HeatingControlTypeSeparateTemp
)

func (h HeatingControlType) String() string {
	return [...]string{"SeparateTimeAndTempControl", "SeparateTempControl"}[h]
}

func HeatingControlTypeFromString(s string) (HeatingControlType, error) {
	switch s {
	case "SeparateTimeAndTempControl":
		return HeatingControlTypeSeparateTimeAndTemp, nil
	case "SeparateTempControl":
		return HeatingControlTypeSeparateTemp, nil
	case "":
		return 0, newConfigurationError("HeatingControlType", "missing")
	}
	return 0, newConfigurationError("HeatingControlType", "unknown heating control type %q", s)
}

// convective fraction assumed for cooling, which has no delivery system
const frac_convective_cool = 1.0

//---------------------------------------------------------------------------------------------------//

// hw_outlet is a shower, bath or other tap together with its draw-offs per timestep.
type hw_outlet struct {
	name              string
	shower            Shower
	bath              *Bath
	other             *OtherHotWater
	cold_water_source *ColdWaterSource
	events            [][]WaterEventJson
}

/*
hot_water_demand runs the draw-offs of timestep t_idx.

	Returns:
		hot water taken from the hot water system, litres
		number of draw-offs through the distribution pipework
*/
func (o *hw_outlet) hot_water_demand(t_idx int) (float64, int) {
	volume := 0.0
	n_events := 0
	for _, e := range o.events[t_idx] {
		switch {
		case o.shower != nil:
			v := o.shower.hot_water_demand(t_idx, e.Temperature, e.Duration)
			// the shower heats its own water
			if _, ok := o.shower.(*InstantElecShower); ok {
				continue
			}
			volume += v
		case o.bath != nil:
			volume += o.bath.hot_water_demand(t_idx, e.Temperature)
		default:
			volume += o.other.hot_water_demand(t_idx, e.Temperature, e.Duration)
		}
		n_events++
	}
	return volume, n_events
}

//---------------------------------------------------------------------------------------------------//

/*
Project is a dwelling with everything in it, built from a ProjectJson.

	It owns the energy supply ledgers and steps every component through the
	calculation period in a fixed order: hot water, then space heating and
	cooling zone by zone, then the end-of-timestep bookkeeping of the heat
	generators.
*/
type Project struct {
	simulation_time      *SimulationTime
	external_conditions  *ExternalConditions
	heating_control_type HeatingControlType

	energy_supplies    OrderedMap[*EnergySupply]
	cold_water_sources map[string]*ColdWaterSource
	controls           map[string]Control

	internal_gains  []*InternalGains
	appliance_gains []*ApplianceGains
	occupant_gains  *OccupantGains

	infiltration *VentilationElementInfiltration
	ventilation  VentilationElement

	zones              OrderedMap[*Zone]
	zone_systems       map[string]SpaceHeatSystem      // by zone name
	zone_cool_controls map[string]*SetpointTimeControl // by zone name
	lead_zone          string
	total_floor_area   float64 // m2

	heat_sources_wet   OrderedMap[TimestepEnder]
	space_heat_systems OrderedMap[SpaceHeatSystem]

	hot_water_source  HotWaterSource
	storage_tank      *StorageTank // nil unless the hot water source is a tank
	cold_feed         *ColdWaterSource
	outlets           []*hw_outlet
	pipework_internal *Pipework
	pipework_external *Pipework
}

/*
Build a Project.

	Args:
		d: input document
		seed: seed of the hot water event generator, 0 for the reference seed
		heating_control_type: overrides d.HeatingControlType when not empty
*/
func NewProject(d *ProjectJson, seed int64, heating_control_type string) (*Project, error) {
	simtime, err := NewSimulationTimeFromJson(d.SimulationTime)
	if err != nil {
		return nil, err
	}
	ec, err := NewExternalConditionsFromJson(simtime, &d.ExternalConditions)
	if err != nil {
		return nil, err
	}
	if heating_control_type == "" {
		heating_control_type = d.HeatingControlType
	}
	hct, err := HeatingControlTypeFromString(heating_control_type)
	if err != nil {
		return nil, err
	}

	p := &Project{
		simulation_time:      simtime,
		external_conditions:  ec,
		heating_control_type: hct,
		cold_water_sources:   map[string]*ColdWaterSource{},
		controls:             map[string]Control{},
		zone_systems:         map[string]SpaceHeatSystem{},
		zone_cool_controls:   map[string]*SetpointTimeControl{},
	}

	if err := p.build_energy_supplies(d); err != nil {
		return nil, err
	}
	for _, name := range d.ColdWaterSource.Keys {
		cw := d.ColdWaterSource.Values[name]
		source, err := NewColdWaterSourceFromJson(name, &cw, simtime)
		if err != nil {
			return nil, err
		}
		p.cold_water_sources[name] = source
	}
	for _, name := range d.Control.Keys {
		c := d.Control.Values[name]
		control, err := NewControlFromJson(name, &c, simtime)
		if err != nil {
			return nil, err
		}
		p.controls[name] = control
	}

	if err := p.build_gains(d); err != nil {
		return nil, err
	}
	if err := p.build_zones(d); err != nil {
		return nil, err
	}
	if err := p.build_heat_sources_wet(d); err != nil {
		return nil, err
	}
	if err := p.build_space_heat_systems(d); err != nil {
		return nil, err
	}
	if err := p.build_hot_water_source(d); err != nil {
		return nil, err
	}
	if err := p.build_hot_water_demand(d, seed); err != nil {
		return nil, err
	}

	if d.NumberOfBedrooms > 0 {
		N, err := calc_N_occupants(p.total_floor_area, d.NumberOfBedrooms)
		if err != nil {
			return nil, err
		}
		// one value covering the whole calculation period
		p.occupant_gains = NewOccupantGains([]float64{N}, simtime, 0, simtime.end+1.0)
	}
	return p, nil
}

func (p *Project) energy_supply(key, name string) (*EnergySupply, error) {
	es, ok := p.energy_supplies.Get(name)
	if !ok {
		return nil, newConfigurationError(key, "energy supply %q not defined", name)
	}
	return es, nil
}

// connection opens end_user on the energy supply called supply_name.
func (p *Project) connection(key, supply_name, end_user string) (*EnergySupplyConnection, error) {
	es, err := p.energy_supply(key, supply_name)
	if err != nil {
		return nil, err
	}
	conn, err := es.connection(end_user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return conn, nil
}

// control looks up a named control; an empty name is no control.
func (p *Project) control(key, name string) (Control, error) {
	if name == "" {
		return nil, nil
	}
	c, ok := p.controls[name]
	if !ok {
		return nil, newConfigurationError(key, "control %q not defined", name)
	}
	return c, nil
}

func (p *Project) cold_water_source(key, name string) (*ColdWaterSource, error) {
	cw, ok := p.cold_water_sources[name]
	if !ok {
		return nil, newConfigurationError(key, "cold water source %q not defined", name)
	}
	return cw, nil
}

func (p *Project) build_energy_supplies(d *ProjectJson) error {
	for _, name := range d.EnergySupply.Keys {
		fuel, err := FuelTypeFromString(d.EnergySupply.Values[name].Fuel)
		if err != nil {
			return fmt.Errorf("energy supply %s: %w", name, err)
		}
		p.energy_supplies.Set(name, NewEnergySupply(fuel, p.simulation_time))
	}
	return nil
}

func time_series_step(step float64) float64 {
	if step == 0 {
		return 1.0
	}
	return step
}

func (p *Project) build_gains(d *ProjectJson) error {
	for _, name := range d.InternalGains.Keys {
		g := d.InternalGains.Values[name]
		series, err := expand_schedule_float(g.Schedule, "main")
		if err != nil {
			return fmt.Errorf("internal gains %s: %w", name, err)
		}
		p.internal_gains = append(p.internal_gains,
			NewInternalGains(series, p.simulation_time, g.StartDay, time_series_step(g.TimeSeriesStep)))
	}
	for _, name := range d.ApplianceGains.Keys {
		g := d.ApplianceGains.Values[name]
		series, err := expand_schedule_float(g.Schedule, "main")
		if err != nil {
			return fmt.Errorf("appliance gains %s: %w", name, err)
		}
		conn, err := p.connection("ApplianceGains."+name+".EnergySupply", g.EnergySupply, name)
		if err != nil {
			return err
		}
		p.appliance_gains = append(p.appliance_gains, NewApplianceGains(
			series, conn, g.GainsFraction, p.simulation_time, g.StartDay, time_series_step(g.TimeSeriesStep)))
	}
	return nil
}

func (p *Project) build_zones(d *ProjectJson) error {
	if d.Zone.Len() == 0 {
		return newConfigurationError("Zone", "at least one zone is required")
	}

	var vent_elements []VentilationElement
	if d.Infiltration != nil {
		infiltration, err := NewVentilationElementInfiltrationFromJson(d.Infiltration, p.external_conditions)
		if err != nil {
			return err
		}
		p.infiltration = infiltration
		vent_elements = append(vent_elements, infiltration)
	}
	if d.Ventilation != nil {
		supplies := map[string]*EnergySupply{}
		for _, name := range p.energy_supplies.Keys {
			supplies[name] = p.energy_supplies.Values[name]
		}
		ventilation, err := NewVentilationFromJson(d.Ventilation, supplies, p.external_conditions, p.simulation_time)
		if err != nil {
			return err
		}
		p.ventilation = ventilation
		vent_elements = append(vent_elements, ventilation)
	}

	temp_ext_air_init := p.external_conditions.air_temp(0)
	for _, zone_name := range d.Zone.Keys {
		zd := d.Zone.Values[zone_name]

		elements := make([]BuildingElement, 0, zd.BuildingElement.Len())
		for _, name := range zd.BuildingElement.Keys {
			be := zd.BuildingElement.Values[name]
			el, err := NewBuildingElementFromJson(name, &be, p.external_conditions, p.simulation_time)
			if err != nil {
				return fmt.Errorf("zone %s: %w", zone_name, err)
			}
			elements = append(elements, el)
		}
		thermal_bridges := make([]ThermalBridge, 0, zd.ThermalBridging.Len())
		for _, name := range zd.ThermalBridging.Keys {
			tb := zd.ThermalBridging.Values[name]
			bridge, err := NewThermalBridgeFromJson(name, &tb)
			if err != nil {
				return fmt.Errorf("zone %s: %w", zone_name, err)
			}
			thermal_bridges = append(thermal_bridges, bridge)
		}

		zone, err := NewZone(
			zd.Area,
			zd.Volume,
			zd.BuildingElement.Keys,
			elements,
			thermal_bridges,
			vent_elements,
			temp_ext_air_init,
			zd.TempSetpntInit,
			p.external_conditions,
		)
		if err != nil {
			return fmt.Errorf("zone %s: %w", zone_name, err)
		}
		p.zones.Set(zone_name, zone)
		p.total_floor_area += zd.Area

		if zd.ControlCool != "" {
			c, err := p.control("Zone."+zone_name+".Control_cool", zd.ControlCool)
			if err != nil {
				return err
			}
			sc, ok := c.(*SetpointTimeControl)
			if !ok {
				return newConfigurationError("Zone."+zone_name+".Control_cool", "%q is not a SetpointTimeControl", zd.ControlCool)
			}
			p.zone_cool_controls[zone_name] = sc
		}

	}

	p.lead_zone = d.Zone.Keys[0]
	for _, zone_name := range d.Zone.Keys {
		if d.Zone.Values[zone_name].SpaceHeatControl == "livingroom" {
			p.lead_zone = zone_name
			break
		}
	}
	return nil
}

func (p *Project) build_heat_sources_wet(d *ProjectJson) error {
	for _, name := range d.HeatSourceWet.Keys {
		raw := d.HeatSourceWet.Values[name]
		key := "HeatSourceWet." + name
		typ, err := json_type(key, raw)
		if err != nil {
			return err
		}

		var source TimestepEnder
		switch typ {
		case "Boiler":
			var bd BoilerJson
			if err := json.Unmarshal(raw, &bd); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			es, err := p.energy_supply(key+".EnergySupply", bd.EnergySupply)
			if err != nil {
				return err
			}
			conn_aux, err := p.connection(key+".EnergySupply_aux", bd.EnergySupplyAux, "Boiler_auxiliary: "+name)
			if err != nil {
				return err
			}
			source, err = NewBoiler(&bd, es, conn_aux, p.simulation_time)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		case "HeatNetwork":
			var hd HeatNetworkJson
			if err := json.Unmarshal(raw, &hd); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			es, err := p.energy_supply(key+".EnergySupply", hd.EnergySupply)
			if err != nil {
				return err
			}
			source, err = NewHeatNetworkFromJson(name, &hd, es, p.simulation_time)
			if err != nil {
				return err
			}
		case "HeatPump":
			var hd HeatPumpJson
			if err := json.Unmarshal(raw, &hd); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			es, err := p.energy_supply(key+".EnergySupply", hd.EnergySupply)
			if err != nil {
				return err
			}
			source, err = NewHeatPump(name, &hd, es, p.external_conditions, p.simulation_time, p.temp_internal_air)
			if err != nil {
				return err
			}
		default:
			return newConfigurationError(key+".type", "unknown heat source type %q", typ)
		}
		p.heat_sources_wet.Set(name, source)
	}
	return nil
}

func (p *Project) heat_source_wet(key, name string) (TimestepEnder, error) {
	source, ok := p.heat_sources_wet.Get(name)
	if !ok {
		return nil, newConfigurationError(key, "heat source %q not defined", name)
	}
	return source, nil
}

func space_heating_service(name string, source TimestepEnder, control Control) (SpaceHeatServiceWet, error) {
	switch s := source.(type) {
	case *Boiler:
		return s.create_service_space_heating(name, control)
	case *HeatNetwork:
		return s.create_service_space_heating(name, control)
	case *HeatPump:
		return s.create_service_space_heating(name, control)
	}
	panic(source)
}

func water_storage_service(
	name string,
	source TimestepEnder,
	temp_setpnt float64,
	cold_feed *ColdWaterSource,
	control Control,
) (TankHeatSource, error) {
	switch s := source.(type) {
	case *Boiler:
		return s.create_service_hot_water_regular(name, boiler_temp_return_full_load_test, control)
	case *HeatNetwork:
		return s.create_service_hot_water_storage(name, control)
	case *HeatPump:
		return s.create_service_hot_water(name, temp_setpnt, cold_feed, control)
	}
	panic(source)
}

func (p *Project) build_space_heat_systems(d *ProjectJson) error {
	// zone heated by each system
	system_zone := map[string]string{}
	for _, zone_name := range d.Zone.Keys {
		system := d.Zone.Values[zone_name].SpaceHeatSystem
		if system == "" {
			continue
		}
		if other, ok := system_zone[system]; ok {
			return newConfigurationError("Zone."+zone_name+".SpaceHeatSystem",
				"%q already heats zone %s", system, other)
		}
		if _, ok := d.SpaceHeatSystem.Get(system); !ok {
			return newConfigurationError("Zone."+zone_name+".SpaceHeatSystem", "space heating system %q not defined", system)
		}
		system_zone[system] = zone_name
	}

	for _, name := range d.SpaceHeatSystem.Keys {
		raw := d.SpaceHeatSystem.Values[name]
		key := "SpaceHeatSystem." + name
		typ, err := json_type(key, raw)
		if err != nil {
			return err
		}
		zone_name, ok := system_zone[name]
		if !ok {
			return newConfigurationError(key, "heats no zone")
		}
		zone := p.zones.Values[zone_name]

		var system SpaceHeatSystem
		switch typ {
		case "InstantElecHeater":
			var hd InstantElecHeaterJson
			if err := json.Unmarshal(raw, &hd); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			control, err := p.space_heat_control(key, hd.Control)
			if err != nil {
				return err
			}
			conn, err := p.connection(key+".EnergySupply", hd.EnergySupply, name)
			if err != nil {
				return err
			}
			system = NewInstantElecHeater(hd.RatedPower, hd.FracConvective, conn, p.simulation_time, control)
		case "ElecStorageHeater":
			var hd ElecStorageHeaterJson
			if err := json.Unmarshal(raw, &hd); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if hd.Zone != "" && hd.Zone != zone_name {
				return newConfigurationError(key+".Zone", "%q but heats zone %s", hd.Zone, zone_name)
			}
			control, err := p.space_heat_control(key, hd.Control)
			if err != nil {
				return err
			}
			charger, err := p.control(key+".ControlCharger", hd.ControlCharger)
			if err != nil {
				return err
			}
			charge_control, ok := charger.(*ToUChargeControl)
			if charger != nil && !ok {
				return newConfigurationError(key+".ControlCharger", "%q is not a ToUChargeControl", hd.ControlCharger)
			}
			conn, err := p.connection(key+".EnergySupply", hd.EnergySupply, name)
			if err != nil {
				return err
			}
			system, err = NewElecStorageHeater(&hd, zone, conn, p.simulation_time, control, charge_control)
			if err != nil {
				return err
			}
		case "WetDistribution":
			var wd WetDistributionJson
			if err := json.Unmarshal(raw, &wd); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			control, err := p.space_heat_control(key, wd.Control)
			if err != nil {
				return err
			}
			source, err := p.heat_source_wet(key+".HeatSource", wd.HeatSource.Name)
			if err != nil {
				return err
			}
			service, err := space_heating_service(name, source, control)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			system, err = NewEmitters(
				wd.ThermalMass,
				wd.C,
				wd.N,
				wd.FracConvective,
				service,
				zone,
				p.external_conditions,
				wd.EcoDesignController,
				wd.DesignFlowTemp,
				p.simulation_time,
			)
			if err != nil {
				return err
			}
		default:
			return newConfigurationError(key+".type", "unknown space heating system type %q", typ)
		}
		p.space_heat_systems.Set(name, system)
		p.zone_systems[zone_name] = system
	}
	return nil
}

// space_heat_control is the setpoint schedule of a space heating system, which is required.
func (p *Project) space_heat_control(key, name string) (Control, error) {
	if name == "" {
		return nil, newConfigurationError(key+".Control", "missing")
	}
	c, err := p.control(key+".Control", name)
	if err != nil {
		return nil, err
	}
	if _, ok := c.(*SetpointTimeControl); !ok {
		return nil, newConfigurationError(key+".Control", "%q is not a SetpointTimeControl", name)
	}
	return c, nil
}

func (p *Project) build_hot_water_source(d *ProjectJson) error {
	const name = "hw cylinder"
	const key = "HotWaterSource." + name
	hw := d.HotWaterSource.HwCylinder
	if hw.Type == "" {
		return newConfigurationError(key+".type", "missing")
	}

	cold_feed, err := p.cold_water_source(key+".ColdWaterSource", hw.ColdWaterSource)
	if err != nil {
		return err
	}
	p.cold_feed = cold_feed

	switch hw.Type {
	case "StorageTank":
		heat_sources := make([]tank_heat_source, 0, hw.HeatSource.Len())
		for _, hs_name := range hw.HeatSource.Keys {
			hs := hw.HeatSource.Values[hs_name]
			hs_key := key + ".HeatSource." + hs_name
			control, err := p.control(hs_key+".Control", hs.Control)
			if err != nil {
				return err
			}

			var source TankHeatSource
			switch hs.Type {
			case "ImmersionHeater":
				conn, err := p.connection(hs_key+".EnergySupply", hs.EnergySupply, hs_name)
				if err != nil {
					return err
				}
				source = NewImmersionHeater(hs.Power, conn, p.simulation_time, control)
			case "SolarThermalSystem":
				conn, err := p.connection(hs_key+".EnergySupply", hs.EnergySupply, hs_name)
				if err != nil {
					return err
				}
				source, err = NewSolarThermalSystem(&hs.SolarThermalSystemJson, conn, p.external_conditions, p.simulation_time)
				if err != nil {
					return fmt.Errorf("%s: %w", hs_key, err)
				}
			case "HeatSourceWet":
				wet, err := p.heat_source_wet(hs_key+".name", hs.Name)
				if err != nil {
					return err
				}
				source, err = water_storage_service(hs_name, wet, hw.SetpointTemp, cold_feed, control)
				if err != nil {
					return fmt.Errorf("%s: %w", hs_key, err)
				}
			default:
				return newConfigurationError(hs_key+".type", "unknown tank heat source type %q", hs.Type)
			}
			heat_sources = append(heat_sources, new_tank_heat_source(hs_name, source, hs.HeaterPosition, hs.ThermostatPosition))
		}

		tank, err := NewStorageTank(hw.Volume, hw.DailyLosses, hw.MinTemp, hw.SetpointTemp, cold_feed, p.simulation_time, heat_sources)
		if err != nil {
			return err
		}
		p.storage_tank = tank
		p.hot_water_source = tank
	case "CombiBoiler":
		source, err := p.heat_source_wet(key+".HeatSourceWet", hw.HeatSourceWet)
		if err != nil {
			return err
		}
		boiler, ok := source.(*Boiler)
		if !ok {
			return newConfigurationError(key+".HeatSourceWet", "%q is not a boiler", hw.HeatSourceWet)
		}
		combi, err := boiler.create_service_hot_water_combi(&hw.BoilerServiceWaterCombiJson, name, hot_water_temperature, cold_feed)
		if err != nil {
			return err
		}
		p.hot_water_source = combi
	case "HIU":
		source, err := p.heat_source_wet(key+".HeatSourceWet", hw.HeatSourceWet)
		if err != nil {
			return err
		}
		heat_network, ok := source.(*HeatNetwork)
		if !ok {
			return newConfigurationError(key+".HeatSourceWet", "%q is not a heat network", hw.HeatSourceWet)
		}
		hiu, err := heat_network.create_service_hot_water_direct(name, cold_feed)
		if err != nil {
			return err
		}
		p.hot_water_source = hiu
	default:
		return newConfigurationError(key+".type", "unknown hot water source type %q", hw.Type)
	}
	return nil
}

func (p *Project) build_hot_water_demand(d *ProjectJson, seed int64) error {
	shower_jsons := map[string]*ShowerJson{}
	for _, name := range d.Shower.Keys {
		s := d.Shower.Values[name]
		shower_jsons[name] = &s
	}
	if err := check_shower_flowrate(shower_jsons); err != nil {
		return err
	}
	supplies := map[string]*EnergySupply{}
	for _, name := range p.energy_supplies.Keys {
		supplies[name] = p.energy_supplies.Values[name]
	}

	outlets := &hw_event_outlets{
		baths:  map[string]*Bath{},
		others: map[string]*OtherHotWater{},
	}
	showers := map[string]Shower{}
	for _, name := range d.Shower.Keys {
		shower, err := NewShowerFromJson(name, shower_jsons[name], p.cold_water_sources, supplies)
		if err != nil {
			return err
		}
		showers[name] = shower
		outlets.shower_names = append(outlets.shower_names, name)
	}
	for _, name := range d.Bath.Keys {
		b := d.Bath.Values[name]
		bath, err := NewBathFromJson(name, &b, p.cold_water_sources)
		if err != nil {
			return err
		}
		outlets.baths[name] = bath
		outlets.bath_names = append(outlets.bath_names, name)
	}
	for _, name := range d.Other.Keys {
		o := d.Other.Values[name]
		other, err := NewOtherHotWaterFromJson(name, &o, p.cold_water_sources)
		if err != nil {
			return err
		}
		outlets.others[name] = other
		outlets.other_names = append(outlets.other_names, name)
	}

	events := &d.Events
	if events.empty() && d.NumberOfBedrooms > 0 {
		generated, err := p.generate_hw_events(d.NumberOfBedrooms, d.PartGcompliance, seed, outlets)
		if err != nil {
			return err
		}
		events = generated
	}
	if err := check_event_outlets(events, showers, outlets); err != nil {
		return err
	}

	expand := func(list []WaterEventJson) [][]WaterEventJson {
		return expand_events(list, p.simulation_time.start_hour(), p.simulation_time.timestep(), p.simulation_time.total_steps())
	}
	for _, name := range outlets.shower_names {
		p.outlets = append(p.outlets, &hw_outlet{
			name:              name,
			shower:            showers[name],
			cold_water_source: showers[name].get_cold_water_source(),
			events:            expand(events.Shower[name]),
		})
	}
	for _, name := range outlets.bath_names {
		p.outlets = append(p.outlets, &hw_outlet{
			name:              name,
			bath:              outlets.baths[name],
			cold_water_source: outlets.baths[name].get_cold_water_source(),
			events:            expand(events.Bath[name]),
		})
	}
	for _, name := range outlets.other_names {
		p.outlets = append(p.outlets, &hw_outlet{
			name:              name,
			other:             outlets.others[name],
			cold_water_source: outlets.others[name].get_cold_water_source(),
			events:            expand(events.Other[name]),
		})
	}

	var err error
	if d.Distribution.Internal != nil {
		if p.pipework_internal, err = NewPipeworkFromJson(*d.Distribution.Internal); err != nil {
			return fmt.Errorf("Distribution.internal: %w", err)
		}
	}
	if d.Distribution.External != nil {
		if p.pipework_external, err = NewPipeworkFromJson(*d.Distribution.External); err != nil {
			return fmt.Errorf("Distribution.external: %w", err)
		}
	}
	return nil
}

// check_event_outlets rejects events for outlets that do not exist.
func check_event_outlets(events *EventsJson, showers map[string]Shower, outlets *hw_event_outlets) error {
	for name := range events.Shower {
		if _, ok := showers[name]; !ok {
			return newConfigurationError("Events.Shower."+name, "shower not defined")
		}
	}
	for name := range events.Bath {
		if _, ok := outlets.baths[name]; !ok {
			return newConfigurationError("Events.Bath."+name, "bath not defined")
		}
	}
	for name := range events.Other {
		if _, ok := outlets.others[name]; !ok {
			return newConfigurationError("Events.Other."+name, "outlet not defined")
		}
	}
	return nil
}

/*
generate_hw_events builds a year of draw-offs for a dwelling with nbeds bedrooms.

	The calibration factor always comes from the reference seed so that a
	different seed changes when water is drawn but not how much is drawn on
	average.
*/
func (p *Project) generate_hw_events(nbeds int, part_g_compliance bool, seed int64, outlets *hw_event_outlets) (*EventsJson, error) {
	N_occupants, err := calc_N_occupants(p.total_floor_area, nbeds)
	if err != nil {
		return nil, err
	}
	vol_daily_average := vol_hw_daily_average(N_occupants)
	startmod := p.external_conditions.weekday(0)

	ref, err := NewHotWaterEventGenerator(vol_daily_average, hw_events_reference_seed)
	if err != nil {
		return nil, err
	}
	FHW := hw_calibration_factor(vol_daily_average, ref.build_annual_events(startmod))

	if seed == 0 {
		seed = hw_events_reference_seed
	}
	gen, err := NewHotWaterEventGenerator(vol_daily_average, seed)
	if err != nil {
		return nil, err
	}
	log.Printf("hot water events: %.2f occupants, %.1f litres/day, FHW %.4f, seed %d", N_occupants, vol_daily_average, FHW, seed)
	return allocate_hw_events(gen.build_annual_events(startmod), FHW, outlets, p.cold_feed.temperature_mean(), part_g_compliance)
}

//---------------------------------------------------------------------------------------------------//

// temp_internal_air is the floor-area weighted air temperature of the dwelling, degree C.
func (p *Project) temp_internal_air() float64 {
	total := 0.0
	for _, name := range p.zones.Keys {
		zone := p.zones.Values[name]
		total += zone.temp_internal_air() * zone.area()
	}
	return total / p.total_floor_area
}

// heat transfer coefficient of the dwelling, W/K
func (p *Project) total_heat_transfer_coeff() float64 {
	htc := 0.0
	for _, name := range p.zones.Keys {
		zone := p.zones.Values[name]
		htc += zone.total_fabric_heat_loss() + zone.total_thermal_bridges() + zone.total_vent_heat_loss()
	}
	return htc
}

// heat loss parameter, W/(m2.K)
func (p *Project) heat_loss_parameter() float64 {
	return p.total_heat_transfer_coeff() / p.total_floor_area
}

// heat capacity parameter, kJ/(m2.K)
func (p *Project) heat_capacity_parameter() float64 {
	total := 0.0
	for _, name := range p.zones.Keys {
		total += p.zones.Values[name].total_heat_capacity()
	}
	return total / p.total_floor_area
}

/*
hot_water_demand runs the draw-offs of timestep t_idx through the outlets.

	Every draw-off through the distribution pipework leaves the pipes full
	of hot water, which then cools down. The refill is drawn from the hot
	water source along with the outlet demand.

	Returns:
		hot water drawn at the outlets, litres
		energy content of that water above the cold feed, kWh
		hot water drawn from the source including pipework refill, litres
		cool-down loss of the internal pipework, kWh
		cool-down loss of the external pipework, kWh
*/
func (p *Project) hot_water_demand(t_idx int) (float64, float64, float64, float64, float64) {
	hw_demand, hw_energy_demand := 0.0, 0.0
	n_events := 0
	for _, o := range p.outlets {
		volume, n := o.hot_water_demand(t_idx)
		hw_demand += volume
		hw_energy_demand += water_demand_to_kWh(volume, hot_water_temperature, o.cold_water_source.temperature(t_idx))
		n_events += n
	}

	hw_source_demand := hw_demand
	loss_internal, loss_external := 0.0, 0.0
	if p.pipework_internal != nil {
		hw_source_demand += float64(n_events) * p.pipework_internal.volume_litres()
		loss_internal = float64(n_events) * p.pipework_internal.cool_down_loss(hot_water_temperature, p.temp_internal_air())
	}
	if p.pipework_external != nil {
		hw_source_demand += float64(n_events) * p.pipework_external.volume_litres()
		loss_external = float64(n_events) * p.pipework_external.cool_down_loss(hot_water_temperature, p.external_conditions.air_temp(t_idx))
	}
	return hw_demand, hw_energy_demand, hw_source_demand, loss_internal, loss_external
}

// space_heat_setpoint is the heating setpoint of a zone under the heating control type, degree C.
func (p *Project) space_heat_setpoint(zone_name string, t_idx int) *float64 {
	system, ok := p.zone_systems[zone_name]
	if !ok {
		return nil
	}
	setpnt := system.temp_setpnt(t_idx)
	if p.heating_control_type == HeatingControlTypeSeparateTemp && zone_name != p.lead_zone {
		lead, ok := p.zone_systems[p.lead_zone]
		if !ok || lead.temp_setpnt(t_idx) == nil {
			return nil
		}
	}
	return setpnt
}

/*
Run the calculation over the whole period, writing every timestep to r.

	Any error stops the run; there is no partial result.
*/
func (p *Project) run(r *Recorder) error {
	simtime := p.simulation_time
	day_prev := -1

	it := simtime.iter()
	for {
		step, err := it.next()
		if err == ErrSimulationTimeExhausted {
			break
		}
		t_idx := step.Idx
		delta_t_h := step.Step

		if day := simtime.current_day(t_idx); day != day_prev {
			if day%30 == 0 {
				log.Printf("day %d", day)
			}
			day_prev = day
		}

		// hot water
		hw_demand, hw_energy_demand, hw_source_demand, loss_internal, loss_external := p.hot_water_demand(t_idx)
		hw_energy_output := 0.0
		if p.hot_water_source != nil {
			hw_energy_output = p.hot_water_source.demand_hot_water(hw_source_demand, t_idx)
		}
		hw_unmet := 0.0
		if p.storage_tank != nil {
			hw_unmet = p.storage_tank.unmet_demand()
		}
		r.recording_hot_water(t_idx, hw_demand, hw_energy_demand, hw_energy_output, loss_internal+loss_external, hw_unmet)

		// gains shared by floor area, W
		gains_shared := loss_internal * WATTS_PER_KILOWATT / delta_t_h
		if p.storage_tank != nil {
			gains_shared += p.storage_tank.internal_gains(t_idx)
		}
		if mvhr, ok := p.ventilation.(*MechnicalVentilationHeatRecovery); ok {
			gains_shared += mvhr.ductwork_gains(t_idx, p.temp_internal_air())
		}

		// space heating and cooling
		for i, zone_name := range p.zones.Keys {
			zone := p.zones.Values[zone_name]
			share := zone.area() / p.total_floor_area

			gains_internal := gains_shared * share
			for _, g := range p.internal_gains {
				gains_internal += g.total_internal_gain(zone.area(), t_idx)
			}
			for _, g := range p.appliance_gains {
				gains_internal += g.total_internal_gain(zone.area(), t_idx)
			}
			if p.occupant_gains != nil {
				gains_internal += p.occupant_gains.sensible_gain(t_idx, zone.temp_internal_air(), share)
			}
			if p.ventilation != nil {
				gains_internal += p.ventilation.fans(zone.volume(), t_idx, 1.0) * WATTS_PER_KILOWATT / delta_t_h
			}
			gains_solar := zone.gains_solar(t_idx)

			system := p.zone_systems[zone_name]
			frac_convective_heat := 1.0
			if system != nil {
				frac_convective_heat = system.frac_convective()
			}
			var temp_setpnt_cool *float64
			if c, ok := p.zone_cool_controls[zone_name]; ok {
				temp_setpnt_cool = c.setpnt(t_idx)
			}

			space_heat_demand, space_cool_demand, err := zone.space_heat_cool_demand(
				t_idx,
				delta_t_h,
				gains_internal,
				gains_solar,
				frac_convective_heat,
				frac_convective_cool,
				p.space_heat_setpoint(zone_name, t_idx),
				temp_setpnt_cool,
				1.0,
			)
			if err != nil {
				return fmt.Errorf("zone %s at timestep %d: %w", zone_name, t_idx, err)
			}

			// systems are run even without demand: emitters cool down, storage heaters charge
			space_heat_provided := 0.0
			if system != nil {
				space_heat_provided = system.demand_energy(space_heat_demand, t_idx)
			}

			if err := zone.update_temperatures(
				t_idx,
				delta_t_h,
				gains_internal,
				gains_solar,
				space_heat_provided*WATTS_PER_KILOWATT/delta_t_h,
				frac_convective_heat,
				1.0,
			); err != nil {
				return fmt.Errorf("zone %s at timestep %d: %w", zone_name, t_idx, err)
			}

			r.recording_zone(t_idx, i, zone.temp_internal_air(), zone.temp_operative(),
				space_heat_demand, space_cool_demand, space_heat_provided, gains_internal, gains_solar)
		}

		for _, name := range p.heat_sources_wet.Keys {
			p.heat_sources_wet.Values[name].timestep_end(t_idx)
		}
	}
	log.Printf("%d timesteps calculated.", simtime.total_steps())
	return nil
}

// frac_unmet is the share of a demand left over after delivery.
func frac_unmet(demand, provided float64) float64 {
	if demand <= 0 {
		return 0.0
	}
	return math.Max(0.0, demand-provided) / demand
}
