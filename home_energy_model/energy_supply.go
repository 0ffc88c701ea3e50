package home_energy_model

import (
	"gonum.org/v1/gonum/floats"
)

// FuelType identifies what an EnergySupply delivers.
type FuelType int

const (
	FuelTypeElectricity FuelType = iota
	FuelTypeMainsGas
	FuelTypeLPG
	FuelTypeOil
	FuelTypeCustom
)

func (f FuelType) String() string {
	return [...]string{"electricity", "mains gas", "LPG", "oil", "custom"}[f]
}

func FuelTypeFromString(s string) (FuelType, error) {
	f, ok := map[string]FuelType{
		"electricity": FuelTypeElectricity,
		"mains gas":   FuelTypeMainsGas,
		"LPG":         FuelTypeLPG,
		"oil":         FuelTypeOil,
		"custom":      FuelTypeCustom,
	}[s]
	if !ok {
		return 0, newConfigurationError("EnergySupply.fuel", "unknown fuel type %q", s)
	}
	return f, nil
}

type EnergySupplyJson struct {
	Fuel string `json:"fuel"`
}

/*
EnergySupply is the per-fuel ledger of a run.

	Components post energy through an EnergySupplyConnection; demand is stored
	per end user and per timestep. Supplied (generated) energy is stored as a
	negative demand on the end user that produced it.
*/
type EnergySupply struct {
	fuel_type       FuelType
	simulation_time *SimulationTime

	end_user_names     []string             // in order of connection
	demand_by_end_user map[string][]float64 // kWh per timestep
}

func NewEnergySupply(fuel_type FuelType, simulation_time *SimulationTime) *EnergySupply {
	return &EnergySupply{
		fuel_type:          fuel_type,
		simulation_time:    simulation_time,
		demand_by_end_user: map[string][]float64{},
	}
}

// EnergySupplyConnection is the handle through which one end user posts to a supply.
type EnergySupplyConnection struct {
	energy_supply *EnergySupply
	end_user_name string
}

// connection registers a new end user. Names must be unique within a supply.
func (es *EnergySupply) connection(end_user_name string) (*EnergySupplyConnection, error) {
	if _, ok := es.demand_by_end_user[end_user_name]; ok {
		return nil, newConfigurationError("EnergySupply", "end user name %q already used", end_user_name)
	}
	es.end_user_names = append(es.end_user_names, end_user_name)
	es.demand_by_end_user[end_user_name] = make([]float64, es.simulation_time.total_steps())
	return &EnergySupplyConnection{energy_supply: es, end_user_name: end_user_name}, nil
}

func (es *EnergySupply) FuelType() FuelType {
	return es.fuel_type
}

func (es *EnergySupply) _demand_energy(end_user_name string, amount float64, t_idx int) {
	es.demand_by_end_user[end_user_name][t_idx] += amount
}

// demand_energy records amount (kWh) at timestep t_idx.
func (c *EnergySupplyConnection) demand_energy(amount float64, t_idx int) {
	c.energy_supply._demand_energy(c.end_user_name, amount, t_idx)
}

// supply_energy records generated energy (kWh) at timestep t_idx.
func (c *EnergySupplyConnection) supply_energy(amount float64, t_idx int) {
	c.energy_supply._demand_energy(c.end_user_name, -amount, t_idx)
}

func (c *EnergySupplyConnection) EndUserName() string {
	return c.end_user_name
}

// results_total returns net demand summed over end users, kWh per timestep.
func (es *EnergySupply) results_total() []float64 {
	total := make([]float64, es.simulation_time.total_steps())
	for _, name := range es.end_user_names {
		floats.Add(total, es.demand_by_end_user[name])
	}
	return total
}

// results_by_end_user returns the end user names in connection order and the ledger.
func (es *EnergySupply) results_by_end_user() ([]string, map[string][]float64) {
	return es.end_user_names, es.demand_by_end_user
}

// energy drawn from outside the dwelling per timestep, kWh
func (es *EnergySupply) get_energy_import() []float64 {
	total := es.results_total()
	imp := make([]float64, len(total))
	for i, v := range total {
		if v > 0 {
			imp[i] = v
		}
	}
	return imp
}

// surplus generation per timestep, kWh, reported as a non-positive value
func (es *EnergySupply) get_energy_export() []float64 {
	total := es.results_total()
	exp := make([]float64, len(total))
	for i, v := range total {
		if v < 0 {
			exp[i] = v
		}
	}
	return exp
}

// total_demand over the whole run, kWh
func (es *EnergySupply) total_demand() float64 {
	return floats.Sum(es.results_total())
}
