package home_energy_model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// convective fractions of the gains
const f_int_c = 0.4 // internal gains
const f_sol_c = 0.1 // solar gains

// areal heat capacity of the zone air and furniture, J/m2K
const k_m_int = 10000.0

// gains per unit floor area applied to test the zone response, W/m2
const heat_cool_trial_per_area = 10.0

// view factor of the floor from an occupant
const f_mrt_hum_floor = 0.45

/*
Zone is a thermally lumped part of the dwelling with a single air node.

	The unknowns of each timestep are the node temperatures of every
	building element followed by the air temperature. Element nodes are
	ordered from the external surface (index 0) to the internal surface.
*/
type Zone struct {
	area_value         float64 // useful floor area, m2
	volume_value       float64 // m3
	element_names      []string
	elements           []BuildingElement
	thermal_bridges    []ThermalBridge
	vent_elements      []VentilationElement
	element_positions  []int     // index of the first node of each element
	no_of_temps        int       // element nodes plus the air node
	area_el_total      float64   // m2
	f_mrt_js           []float64 // weights of the internal surfaces in the mean radiant temperature
	temp_prev          []float64 // degree C
	tb_heat_trans_coef float64   // W/K
	ec                 *ExternalConditions
}

/*
Construct a Zone.

	Args:
		area: useful floor area, m2
		volume: air volume, m3
		element_names: names of the building elements, in configuration order
		elements: building elements, same order as element_names
		thermal_bridges: linear and point thermal bridges
		vent_elements: ventilation and infiltration
		temp_ext_air_init: external air temperature used to initialise the nodes, degree C
		temp_setpnt_init: internal temperature used to initialise the nodes, degree C
		ec: external conditions, for the air temperature behind the thermal bridges
*/
func NewZone(
	area float64,
	volume float64,
	element_names []string,
	elements []BuildingElement,
	thermal_bridges []ThermalBridge,
	vent_elements []VentilationElement,
	temp_ext_air_init float64,
	temp_setpnt_init float64,
	ec *ExternalConditions,
) (*Zone, error) {
	if area <= 0 {
		return nil, &NumericDomainError{Quantity: "zone area", Value: area, Msg: "must be positive"}
	}
	if volume <= 0 {
		return nil, &NumericDomainError{Quantity: "zone volume", Value: volume, Msg: "must be positive"}
	}
	if len(element_names) != len(elements) {
		return nil, fmt.Errorf("zone: %d element names for %d elements", len(element_names), len(elements))
	}
	if len(elements) == 0 {
		return nil, newConfigurationError("Zone.BuildingElement", "a zone needs at least one building element")
	}

	z := &Zone{
		area_value:      area,
		volume_value:    volume,
		element_names:   element_names,
		elements:        elements,
		thermal_bridges: thermal_bridges,
		vent_elements:   vent_elements,
		ec:              ec,
	}

	z.element_positions = make([]int, len(elements))
	n := 0
	for i, el := range elements {
		z.element_positions[i] = n
		n += el.no_of_nodes()
		z.area_el_total += el.area()
	}
	z.no_of_temps = n + 1

	areas := make([]float64, len(elements))
	is_floor := make([]bool, len(elements))
	for i, el := range elements {
		areas[i] = el.area()
		is_floor[i] = el.pitch() > pitch_limit_horiz_floor
	}
	z.f_mrt_js = get_f_mrt_js(areas, is_floor)

	z.tb_heat_trans_coef = z.total_thermal_bridges()
	z.temp_prev = z._init_temperatures(temp_ext_air_init, temp_setpnt_init)

	return z, nil
}

/*
Weights of the internal surfaces in the mean radiant temperature seen by an occupant.

	Floors take a fixed share and the rest is spread over the other surfaces
	by area. A zone without floors, or with nothing but floors, is weighted
	by area alone.

	Args:
		a_s_js: area of surface j, m2
		is_floor_js: whether surface j is a floor
*/
func get_f_mrt_js(a_s_js []float64, is_floor_js []bool) []float64 {
	a_floor, a_not_floor := 0.0, 0.0
	for j, a := range a_s_js {
		if is_floor_js[j] {
			a_floor += a
		} else {
			a_not_floor += a
		}
	}

	f := make([]float64, len(a_s_js))
	if a_floor == 0.0 || a_not_floor == 0.0 {
		total := a_floor + a_not_floor
		for j, a := range a_s_js {
			f[j] = a / total
		}
		return f
	}
	for j, a := range a_s_js {
		if is_floor_js[j] {
			f[j] = a / a_floor * f_mrt_hum_floor
		} else {
			f[j] = a / a_not_floor * (1.0 - f_mrt_hum_floor)
		}
	}
	return f
}

/*
Steady-state node temperatures between the given internal and external temperatures.

	Each node sits on the line through the element according to the
	resistance between it and the external air. Elements with no external
	exposure start at the internal temperature.
*/
func (z *Zone) _init_temperatures(temp_ext_air, temp_int float64) []float64 {
	temps := make([]float64, z.no_of_temps)
	for i, el := range z.elements {
		pos := z.element_positions[i]
		h_ext := el.h_ce() + el.h_re()
		if h_ext == 0.0 {
			for j := 0; j < el.no_of_nodes(); j++ {
				temps[pos+j] = temp_int
			}
			continue
		}

		h_pli := el.h_pli()
		r_total := 1.0/h_ext + el.r_si()
		for _, h := range h_pli {
			r_total += 1.0 / h
		}

		r_to_ext := 1.0 / h_ext
		for j := 0; j < el.no_of_nodes(); j++ {
			temps[pos+j] = temp_ext_air + (temp_int-temp_ext_air)*r_to_ext/r_total
			if j < len(h_pli) {
				r_to_ext += 1.0 / h_pli[j]
			}
		}
	}
	temps[z.no_of_temps-1] = temp_int
	return temps
}

func (z *Zone) area() float64 {
	return z.area_value
}

func (z *Zone) volume() float64 {
	return z.volume_value
}

func (z *Zone) temp_internal_air() float64 {
	return z.temp_prev[z.no_of_temps-1]
}

// mean radiant temperature of the internal surfaces, degree C
func (z *Zone) _temp_mean_radiant(temps []float64) float64 {
	temp := 0.0
	for i, el := range z.elements {
		temp += z.f_mrt_js[i] * temps[z.element_positions[i]+el.no_of_nodes()-1]
	}
	return temp
}

func (z *Zone) _temp_operative(temps []float64) float64 {
	return (temps[z.no_of_temps-1] + z._temp_mean_radiant(temps)) / 2.0
}

// temp_operative returns the operative temperature at the end of the last timestep, degree C.
func (z *Zone) temp_operative() float64 {
	return z._temp_operative(z.temp_prev)
}

// total_fabric_heat_loss returns the heat loss through the building elements, W/K.
func (z *Zone) total_fabric_heat_loss() float64 {
	total := 0.0
	for _, el := range z.elements {
		total += el.fabric_heat_loss()
	}
	return total
}

// total_heat_capacity returns the heat capacity of the building elements, kJ/K.
func (z *Zone) total_heat_capacity() float64 {
	total := 0.0
	for _, el := range z.elements {
		total += el.heat_capacity()
	}
	return total
}

// total_thermal_bridges returns the heat transfer coefficient of the thermal bridges, W/K.
func (z *Zone) total_thermal_bridges() float64 {
	total := 0.0
	for _, tb := range z.thermal_bridges {
		total += tb.heat_trans_coeff()
	}
	return total
}

// total_vent_heat_loss returns the ventilation heat transfer coefficient at annual mean conditions, W/K.
func (z *Zone) total_vent_heat_loss() float64 {
	total := 0.0
	for _, ve := range z.vent_elements {
		total += ve.h_ve_average(z.volume_value)
	}
	return total
}

// gains_solar returns the solar gains through the transparent elements, W.
func (z *Zone) gains_solar(t_idx int) float64 {
	total := 0.0
	for _, el := range z.elements {
		total += el.solar_gains(t_idx)
	}
	return total
}

/*
Build and solve the heat balance of one timestep.

	Backward Euler over the node chain of every element plus the air node.

	Args:
		t_idx: timestep index
		temps_prev: node temperatures at the end of the previous timestep, degree C
		gains_internal: total internal gains, W
		gains_solar: total solar gains, W
		gains_heat_cool: heating (positive) or cooling (negative) delivered, W
		frac_convective: convective fraction of gains_heat_cool
		throughput_factor: ventilation flow multiplier

	Returns:
		node temperatures at the end of the timestep, degree C
*/
func (z *Zone) _calc_temperatures(
	t_idx int,
	delta_t_h float64,
	temps_prev []float64,
	gains_internal float64,
	gains_solar float64,
	gains_heat_cool float64,
	frac_convective float64,
	throughput_factor float64,
) ([]float64, error) {
	n := z.no_of_temps
	idx_air := n - 1
	delta_t := delta_t_h * SECONDS_PER_HOUR
	temp_ext_air := z.ec.air_temp(t_idx)

	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)

	// radiative gains spread over the internal surfaces, W/m2
	gains_rad_per_area := ((1.0-f_int_c)*gains_internal +
		(1.0-f_sol_c)*gains_solar +
		(1.0-frac_convective)*gains_heat_cool) / z.area_el_total

	temp_int_air_prev := temps_prev[idx_air]
	sum_ah_ci := 0.0

	for i, el := range z.elements {
		pos := z.element_positions[i]
		nodes := el.no_of_nodes()
		k_pli := el.k_pli()
		h_pli := el.h_pli()
		area := el.area()

		// external surface
		h_ext := el.h_ce() + el.h_re()
		a.Set(pos, pos, k_pli[0]/delta_t+h_ext+h_pli[0])
		a.Set(pos, pos+1, -h_pli[0])
		b.SetVec(pos, k_pli[0]/delta_t*temps_prev[pos]+
			h_ext*el.temp_ext(t_idx)+
			el.a_sol()*el.i_sol(t_idx)-
			el.therm_rad_to_sky())

		// inside nodes
		for j := 1; j < nodes-1; j++ {
			a.Set(pos+j, pos+j-1, -h_pli[j-1])
			a.Set(pos+j, pos+j, k_pli[j]/delta_t+h_pli[j-1]+h_pli[j])
			a.Set(pos+j, pos+j+1, -h_pli[j])
			b.SetVec(pos+j, k_pli[j]/delta_t*temps_prev[pos+j])
		}

		// internal surface
		s := pos + nodes - 1
		h_ci := el.h_ci(temp_int_air_prev, temps_prev[s])
		h_ri := el.h_ri()
		a.Set(s, s-1, -h_pli[nodes-2])
		a.Set(s, s, k_pli[nodes-1]/delta_t+h_ci+h_ri+h_pli[nodes-2])
		a.Set(s, idx_air, -h_ci)
		for k, other := range z.elements {
			s_other := z.element_positions[k] + other.no_of_nodes() - 1
			a.Set(s, s_other, a.At(s, s_other)-h_ri*other.area()/z.area_el_total)
		}
		b.SetVec(s, k_pli[nodes-1]/delta_t*temps_prev[s]+gains_rad_per_area)

		a.Set(idx_air, s, -area*h_ci)
		sum_ah_ci += area * h_ci
	}

	// air node
	c_int := k_m_int * z.area_value
	h_ve_total := 0.0
	h_ve_temp_supply := 0.0
	for _, ve := range z.vent_elements {
		h_ve := ve.h_ve(z.volume_value, t_idx, throughput_factor)
		h_ve_total += h_ve
		h_ve_temp_supply += h_ve * ve.temp_supply(t_idx)
	}
	a.Set(idx_air, idx_air, c_int/delta_t+sum_ah_ci+h_ve_total+z.tb_heat_trans_coef)
	b.SetVec(idx_air, c_int/delta_t*temp_int_air_prev+
		h_ve_temp_supply+
		z.tb_heat_trans_coef*temp_ext_air+
		f_int_c*gains_internal+
		f_sol_c*gains_solar+
		frac_convective*gains_heat_cool)

	var temps mat.VecDense
	if err := temps.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("zone heat balance at timestep %d: %w", t_idx, err)
	}
	return temps.RawVector().Data, nil
}

/*
Space heating and cooling demand of the zone for one timestep.

	The zone is first solved with no heating or cooling. If the operative
	temperature falls outside the setpoints the zone is solved again with a
	trial load of 10 W/m2 and, the balance being linear in the delivered heat, the
	demand that brings the operative temperature to the setpoint follows
	by interpolation. A nil setpoint means no heating or cooling is available.

	Returns:
		space heating demand, kWh (>= 0)
		space cooling demand, kWh (<= 0)
*/
func (z *Zone) space_heat_cool_demand(
	t_idx int,
	delta_t_h float64,
	gains_internal float64,
	gains_solar float64,
	frac_convective_heat float64,
	frac_convective_cool float64,
	temp_setpnt_heat *float64,
	temp_setpnt_cool *float64,
	throughput_factor float64,
) (float64, float64, error) {
	if temp_setpnt_heat != nil && temp_setpnt_cool != nil && *temp_setpnt_cool < *temp_setpnt_heat {
		return 0.0, 0.0, newConfigurationError("Zone.setpoints", "cooling setpoint %g is below heating setpoint %g", *temp_setpnt_cool, *temp_setpnt_heat)
	}

	temps_free, err := z._calc_temperatures(t_idx, delta_t_h, z.temp_prev, gains_internal, gains_solar, 0.0, 0.0, throughput_factor)
	if err != nil {
		return 0.0, 0.0, err
	}
	temp_op_free := z._temp_operative(temps_free)

	var temp_setpnt float64
	var frac_convective float64
	var trial float64
	switch {
	case temp_setpnt_heat != nil && temp_op_free < *temp_setpnt_heat:
		temp_setpnt = *temp_setpnt_heat
		frac_convective = frac_convective_heat
		trial = heat_cool_trial_per_area * z.area_value
	case temp_setpnt_cool != nil && temp_op_free > *temp_setpnt_cool:
		temp_setpnt = *temp_setpnt_cool
		frac_convective = frac_convective_cool
		trial = -heat_cool_trial_per_area * z.area_value
	default:
		return 0.0, 0.0, nil
	}

	temps_trial, err := z._calc_temperatures(t_idx, delta_t_h, z.temp_prev, gains_internal, gains_solar, trial, frac_convective, throughput_factor)
	if err != nil {
		return 0.0, 0.0, err
	}
	temp_op_trial := z._temp_operative(temps_trial)

	// W
	heat_cool_load := trial * (temp_setpnt - temp_op_free) / (temp_op_trial - temp_op_free)
	demand := heat_cool_load / WATTS_PER_KILOWATT * delta_t_h
	if trial > 0.0 {
		return demand, 0.0, nil
	}
	return 0.0, demand, nil
}

/*
Advance the zone state by one timestep with the heating or cooling actually delivered.

	Args:
		gains_heat_cool: delivered heating (positive) or cooling (negative), W
		frac_convective: convective fraction of gains_heat_cool
*/
func (z *Zone) update_temperatures(
	t_idx int,
	delta_t_h float64,
	gains_internal float64,
	gains_solar float64,
	gains_heat_cool float64,
	frac_convective float64,
	throughput_factor float64,
) error {
	temps, err := z._calc_temperatures(t_idx, delta_t_h, z.temp_prev, gains_internal, gains_solar, gains_heat_cool, frac_convective, throughput_factor)
	if err != nil {
		return err
	}
	z.temp_prev = temps
	return nil
}
