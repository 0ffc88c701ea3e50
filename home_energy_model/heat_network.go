package home_energy_model

import "math"

type HeatNetworkJson struct {
	Type                            string  `json:"type"` // "HeatNetwork"
	EnergySupply                    string  `json:"EnergySupply"`
	PowerMax                        float64 `json:"power_max"`                          // kW
	HIUDailyLoss                    float64 `json:"HIU_daily_loss"`                     // kWh/day
	BuildingLevelDistributionLosses float64 `json:"building_level_distribution_losses"` // W
}

/*
HeatNetwork is a connection to a district heat network through a heat
interface unit (HIU).

	The HIU loses a fixed amount of heat per day and the building-level
	distribution pipework a fixed power; both are charged at the end of every
	timestep whether or not heat was drawn. Heat delivered to services is
	limited by power_max, shared between services in the order they ask.
*/
type HeatNetwork struct {
	power_max                 float64 // kW
	HIU_daily_loss            float64 // kWh/day
	building_level_loss_power float64 // W
	energy_supply             *EnergySupply
	energy_supply_conn_aux    *EnergySupplyConnection
	energy_supply_conn_loss   *EnergySupplyConnection
	simulation_time           *SimulationTime

	energy_delivered_current_timestep float64 // kWh
}

func NewHeatNetwork(
	power_max float64,
	HIU_daily_loss float64,
	building_level_distribution_losses float64,
	energy_supply *EnergySupply,
	energy_supply_conn_name_auxiliary string,
	energy_supply_conn_name_building_level_distribution_losses string,
	simulation_time *SimulationTime,
) (*HeatNetwork, error) {
	conn_aux, err := energy_supply.connection(energy_supply_conn_name_auxiliary)
	if err != nil {
		return nil, err
	}
	conn_loss, err := energy_supply.connection(energy_supply_conn_name_building_level_distribution_losses)
	if err != nil {
		return nil, err
	}
	return &HeatNetwork{
		power_max:                 power_max,
		HIU_daily_loss:            HIU_daily_loss,
		building_level_loss_power: building_level_distribution_losses,
		energy_supply:             energy_supply,
		energy_supply_conn_aux:    conn_aux,
		energy_supply_conn_loss:   conn_loss,
		simulation_time:           simulation_time,
	}, nil
}

func NewHeatNetworkFromJson(name string, d *HeatNetworkJson, energy_supply *EnergySupply, simulation_time *SimulationTime) (*HeatNetwork, error) {
	if d.PowerMax <= 0 {
		return nil, newConfigurationError("HeatSource."+name+".power_max", "must be positive, got %g", d.PowerMax)
	}
	return NewHeatNetwork(
		d.PowerMax,
		d.HIUDailyLoss,
		d.BuildingLevelDistributionLosses,
		energy_supply,
		"HeatNetwork_auxiliary: "+name,
		"HeatNetwork_building_level_distribution_losses: "+name,
		simulation_time,
	)
}

func (hn *HeatNetwork) create_service_connection(service_name string) (*EnergySupplyConnection, error) {
	return hn.energy_supply.connection(service_name)
}

func (hn *HeatNetwork) create_service_hot_water_direct(service_name string, cold_feed *ColdWaterSource) (*HeatNetworkServiceWaterDirect, error) {
	conn, err := hn.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}
	return &HeatNetworkServiceWaterDirect{
		heat_network:       hn,
		service_name:       service_name,
		energy_supply_conn: conn,
		cold_feed:          cold_feed,
		temp_return:        heat_network_temp_return,
	}, nil
}

func (hn *HeatNetwork) create_service_hot_water_storage(service_name string, control Control) (*HeatNetworkServiceWaterStorage, error) {
	conn, err := hn.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}
	return &HeatNetworkServiceWaterStorage{
		service_control:    service_control{control: control},
		heat_network:       hn,
		service_name:       service_name,
		energy_supply_conn: conn,
	}, nil
}

func (hn *HeatNetwork) create_service_space_heating(service_name string, control Control) (*HeatNetworkServiceSpace, error) {
	conn, err := hn.create_service_connection(service_name)
	if err != nil {
		return nil, err
	}
	return &HeatNetworkServiceSpace{
		service_control:    service_control{control: control},
		heat_network:       hn,
		service_name:       service_name,
		energy_supply_conn: conn,
	}, nil
}

// HIU standing loss over timestep t_idx, kWh
func (hn *HeatNetwork) HIU_loss(t_idx int) float64 {
	return hn.HIU_daily_loss * hn.simulation_time.timestep_at(t_idx) / HOURS_PER_DAY
}

// building-level distribution loss over timestep t_idx, kWh
func (hn *HeatNetwork) building_level_loss(t_idx int) float64 {
	return convert_W_to_kW(hn.building_level_loss_power) * hn.simulation_time.timestep_at(t_idx)
}

// heat still available in timestep t_idx, kWh
func (hn *HeatNetwork) energy_output_max(t_idx int) float64 {
	return math.Max(0.0, hn.power_max*hn.simulation_time.timestep_at(t_idx)-hn.energy_delivered_current_timestep)
}

func (hn *HeatNetwork) _demand_energy(conn *EnergySupplyConnection, energy_output_required float64, t_idx int) float64 {
	if energy_output_required <= 0 {
		return 0.0
	}
	energy_output_provided := math.Min(energy_output_required, hn.energy_output_max(t_idx))
	hn.energy_delivered_current_timestep += energy_output_provided
	conn.demand_energy(energy_output_provided, t_idx)
	return energy_output_provided
}

// timestep_end charges the standing losses and clears the shared capacity.
func (hn *HeatNetwork) timestep_end(t_idx int) {
	hn.energy_supply_conn_aux.demand_energy(hn.HIU_loss(t_idx), t_idx)
	hn.energy_supply_conn_loss.demand_energy(hn.building_level_loss(t_idx), t_idx)
	hn.energy_delivered_current_timestep = 0.0
}

//----------------------------------------------------------------------------------------------------------//

const heat_network_temp_return = 60.0 // degree C

// HeatNetworkServiceWaterDirect heats mains water on demand through the HIU.
type HeatNetworkServiceWaterDirect struct {
	heat_network       *HeatNetwork
	service_name       string
	energy_supply_conn *EnergySupplyConnection
	cold_feed          *ColdWaterSource
	temp_return        float64 // degree C
}

// demand_hot_water returns the heat delivered for volume_demanded litres of hot water, kWh.
func (s *HeatNetworkServiceWaterDirect) demand_hot_water(volume_demanded float64, t_idx int) float64 {
	energy_content := WATER.volumetric_energy_content_kWh_per_litre(s.temp_return, s.cold_feed.temperature(t_idx))
	return s.heat_network._demand_energy(s.energy_supply_conn, volume_demanded*energy_content, t_idx)
}

// HeatNetworkServiceWaterStorage heats a hot water cylinder.
type HeatNetworkServiceWaterStorage struct {
	service_control
	heat_network       *HeatNetwork
	service_name       string
	energy_supply_conn *EnergySupplyConnection
}

func (s *HeatNetworkServiceWaterStorage) demand_energy(energy_demand float64, t_idx int) float64 {
	if !s.is_on(t_idx) {
		return 0.0
	}
	return s.heat_network._demand_energy(s.energy_supply_conn, energy_demand, t_idx)
}

// HeatNetworkServiceSpace feeds a wet space heating system.
type HeatNetworkServiceSpace struct {
	service_control
	heat_network       *HeatNetwork
	service_name       string
	energy_supply_conn *EnergySupplyConnection
}

func (s *HeatNetworkServiceSpace) energy_output_max(temp_flow, temp_return float64, t_idx int) float64 {
	if s.temp_setpnt(t_idx) == nil {
		return 0.0
	}
	return s.heat_network.energy_output_max(t_idx)
}

func (s *HeatNetworkServiceSpace) demand_energy(energy_demand, temp_flow, temp_return float64, t_idx int) float64 {
	if s.temp_setpnt(t_idx) == nil {
		return 0.0
	}
	return s.heat_network._demand_energy(s.energy_supply_conn, energy_demand, t_idx)
}
