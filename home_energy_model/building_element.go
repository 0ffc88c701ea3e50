package home_energy_model

import (
	"math"
)

// Direction of heat flow across the internal surface of an element
type HeatFlowDirection int

const (
	HeatFlowDirectionHorizontal HeatFlowDirection = iota
	HeatFlowDirectionUpwards
	HeatFlowDirectionDownwards
)

func (d HeatFlowDirection) String() string {
	return [...]string{"HORIZONTAL", "UPWARDS", "DOWNWARDS"}[d]
}

//---------------------------------------------------------------------------------------------------//

// Placement of the thermal mass of an element across its nodes
type MassDistributionClass int

const (
	MassDistributionClassI  MassDistributionClass = iota // mass concentrated on the internal side
	MassDistributionClassE                               // mass concentrated on the external side
	MassDistributionClassIE                              // mass divided over internal and external side
	MassDistributionClassD                               // mass equally distributed
	MassDistributionClassM                               // mass concentrated inside
)

func (c MassDistributionClass) String() string {
	return [...]string{"I", "E", "IE", "D", "M"}[c]
}

func MassDistributionClassFromString(s string) (MassDistributionClass, error) {
	c, ok := map[string]MassDistributionClass{
		"I":  MassDistributionClassI,
		"E":  MassDistributionClassE,
		"IE": MassDistributionClassIE,
		"D":  MassDistributionClassD,
		"M":  MassDistributionClassM,
	}[s]
	if !ok {
		return 0, newConfigurationError("mass_distribution_class", "unknown class %q", s)
	}
	return c, nil
}

//---------------------------------------------------------------------------------------------------//

const (
	// pitch limits between ceiling, wall and floor, degrees
	pitch_limit_horiz_ceiling = 60.0
	pitch_limit_horiz_floor   = 120.0

	// a surface within this many K of the air is treated as having horizontal heat flow
	temp_diff_horizontal_flow = 0.3

	// convective heat transfer coefficients of internal surfaces, W/(m2.K)
	h_ci_upwards    = 5.0
	h_ci_horizontal = 2.5
	h_ci_downwards  = 0.7

	// internal radiative heat transfer coefficient, W/(m2.K)
	h_ri_value = 5.13

	// external convective and radiative heat transfer coefficients, W/(m2.K)
	h_ce_value = 20.0
	h_re_value = 4.14

	// internal surface resistance of a floor on the ground, m2.K/W
	r_si_ground = 0.17

	// thermal resistance of curtains and blinds, m2.K/W
	r_curtains_blinds = 0.04

	// ground thermal conductivity, W/(m.K), and volumetric heat capacity, J/(m3.K)
	thermal_conductivity_ground = 1.5
	heat_capacity_ground        = 3.0e6
	// thickness of the virtual ground layer, m
	thickness_ground_layer = 0.5
	// internal air temperature assumed by the ground heat flow model, degree C
	temp_int_ground_model = 20.0
)

// external surface resistance, m2.K/W
var r_se = 1.0 / (h_ce_value + h_re_value)

type BuildingElementJson struct {
	Type                  string  `json:"type"`
	Area                  float64 `json:"area"`
	Pitch                 float64 `json:"pitch"`
	ASol                  float64 `json:"a_sol"`
	RC                    float64 `json:"r_c"`
	KM                    float64 `json:"k_m"`
	MassDistributionClass string  `json:"mass_distribution_class"`
	Orientation360        float64 `json:"orientation360"` // north 0, clockwise
	BaseHeight            float64 `json:"base_height"`
	Height                float64 `json:"height"`
	Width                 float64 `json:"width"`

	// BuildingElementGround
	UValue           float64 `json:"u_value"`
	RF               float64 `json:"r_f"`
	HPi              float64 `json:"h_pi"`
	HPe              float64 `json:"h_pe"`
	Perimeter        float64 `json:"perimeter"`
	PsiWallFloorJunc float64 `json:"psi_wall_floor_junc"`

	// BuildingElementTransparent
	GValue            float64 `json:"g_value"`
	FrameAreaFraction float64 `json:"frame_area_fraction"`

	// BuildingElementAdjacentZTU_Simple
	RU float64 `json:"r_u"`
}

/*
BuildingElement is one fabric surface of a zone.

	The element is discretised into a chain of nodes; node 0 is the external
	surface and the last node the internal surface. h_pli holds the
	conductances between neighbouring nodes and k_pli the areal heat capacity
	of each node.
*/
type BuildingElement interface {
	area() float64
	pitch() float64
	no_of_nodes() int
	no_of_inside_nodes() int
	heat_flow_direction(temp_int_air, temp_int_surface float64) HeatFlowDirection
	r_si() float64
	h_ci(temp_int_air, temp_int_surface float64) float64
	h_ri() float64
	h_ce() float64
	h_re() float64
	a_sol() float64
	therm_rad_to_sky() float64
	h_pli() []float64
	k_pli() []float64
	temp_ext(t_idx int) float64
	i_sol(t_idx int) float64
	solar_gains(t_idx int) float64
	fabric_heat_loss() float64
	heat_capacity() float64
}

// building_element holds what the variants share.
type building_element struct {
	area_value  float64 // m2
	pitch_value float64 // tilt from horizontal, 0 facing up, degrees
	h_pli_value []float64
	k_pli_value []float64
	ec          *ExternalConditions
}

func (be *building_element) area() float64 {
	return be.area_value
}

func (be *building_element) pitch() float64 {
	return be.pitch_value
}

func (be *building_element) no_of_nodes() int {
	return len(be.k_pli_value)
}

func (be *building_element) no_of_inside_nodes() int {
	return len(be.k_pli_value) - 2
}

func (be *building_element) h_pli() []float64 {
	return be.h_pli_value
}

func (be *building_element) k_pli() []float64 {
	return be.k_pli_value
}

/*
heat_flow_direction classifies the heat flow at the internal surface.

	Walls (pitch 60 to 120) are always horizontal. For floors and ceilings the
	direction follows the sign of air - surface temperature; differences below
	0.3 K count as horizontal.
*/
func (be *building_element) heat_flow_direction(temp_int_air, temp_int_surface float64) HeatFlowDirection {
	if be.pitch_value >= pitch_limit_horiz_ceiling && be.pitch_value <= pitch_limit_horiz_floor {
		return HeatFlowDirectionHorizontal
	}
	if math.Abs(temp_int_air-temp_int_surface) < temp_diff_horizontal_flow {
		return HeatFlowDirectionHorizontal
	}
	inwards_heat_flow := temp_int_air < temp_int_surface
	is_floor := be.pitch_value > pitch_limit_horiz_floor
	is_ceiling := be.pitch_value < pitch_limit_horiz_ceiling
	if (is_floor && inwards_heat_flow) || (is_ceiling && !inwards_heat_flow) {
		return HeatFlowDirectionUpwards
	}
	return HeatFlowDirectionDownwards
}

// h_ci_for_pitch gives h_ci for heat leaving the zone through a surface of this pitch.
func h_ci_for_pitch(pitch float64) float64 {
	switch {
	case pitch < pitch_limit_horiz_ceiling:
		return h_ci_upwards
	case pitch > pitch_limit_horiz_floor:
		return h_ci_downwards
	default:
		return h_ci_horizontal
	}
}

// internal surface resistance, m2.K/W
func (be *building_element) r_si() float64 {
	return 1.0 / (h_ci_for_pitch(be.pitch_value) + h_ri_value)
}

func (be *building_element) h_ci(temp_int_air, temp_int_surface float64) float64 {
	switch be.heat_flow_direction(temp_int_air, temp_int_surface) {
	case HeatFlowDirectionUpwards:
		return h_ci_upwards
	case HeatFlowDirectionDownwards:
		return h_ci_downwards
	case HeatFlowDirectionHorizontal:
		return h_ci_horizontal
	default:
		panic("invalid heat flow direction")
	}
}

func (be *building_element) h_ri() float64 {
	return h_ri_value
}

func (be *building_element) h_ce() float64 {
	return h_ce_value
}

func (be *building_element) h_re() float64 {
	return h_re_value
}

func (be *building_element) a_sol() float64 {
	return 0.0
}

// long-wave radiation to the sky per unit area, W/m2
func (be *building_element) therm_rad_to_sky() float64 {
	F_sky := (1.0 + cos_deg(be.pitch_value)) / 2.0
	return F_sky * h_re_value * temp_diff_sky
}

func (be *building_element) temp_ext(t_idx int) float64 {
	return be.ec.air_temp(t_idx)
}

func (be *building_element) i_sol(t_idx int) float64 {
	return 0.0
}

func (be *building_element) solar_gains(t_idx int) float64 {
	return 0.0
}

func (be *building_element) heat_capacity() float64 {
	return 0.0
}

//---------------------------------------------------------------------------------------------------//

// opaque_mass_distribution spreads k_m over five nodes according to the class.
func opaque_mass_distribution(k_m float64, class MassDistributionClass) []float64 {
	switch class {
	case MassDistributionClassI:
		return []float64{0.0, 0.0, 0.0, 0.0, k_m}
	case MassDistributionClassE:
		return []float64{k_m, 0.0, 0.0, 0.0, 0.0}
	case MassDistributionClassIE:
		return []float64{k_m / 2.0, 0.0, 0.0, 0.0, k_m / 2.0}
	case MassDistributionClassD:
		return []float64{k_m / 8.0, k_m / 4.0, k_m / 4.0, k_m / 4.0, k_m / 8.0}
	case MassDistributionClassM:
		return []float64{0.0, 0.0, k_m, 0.0, 0.0}
	default:
		panic(class)
	}
}

// opaque_conductances splits the thermal resistance r_c over five nodes.
func opaque_conductances(r_c float64) []float64 {
	return []float64{6.0 / r_c, 3.0 / r_c, 3.0 / r_c, 6.0 / r_c}
}

// solar_surface carries the geometry used to find the irradiance on a surface.
type solar_surface struct {
	orientation float64 // south 0, east positive, degrees
	base_height float64 // m
	height      float64 // m
	width       float64 // m
}

func (s *solar_surface) irradiance(ec *ExternalConditions, t_idx int, pitch float64) float64 {
	direct, diffuse := ec.surface_irradiance(t_idx, pitch, s.orientation, s.base_height, s.height)
	return direct + diffuse
}

//---------------------------------------------------------------------------------------------------//

// BuildingElementOpaque is an external wall, roof or exposed floor.
type BuildingElementOpaque struct {
	building_element
	solar_surface
	a_sol_value float64 // solar absorption coefficient of the external surface, -
	r_c         float64 // thermal resistance, m2.K/W
	k_m         float64 // areal heat capacity, J/(m2.K)
}

/*
Args:

	area        -- net area of the element, m2
	pitch       -- tilt, degrees
	a_sol       -- solar absorption coefficient at the external surface
	r_c         -- thermal resistance, m2.K/W
	k_m         -- areal heat capacity, J/(m2.K)
	class       -- mass distribution class
	orientation -- azimuth of the surface normal, south 0, east positive, degrees
	base_height -- height of the base above ground, m
	height      -- height of the element, m
	width       -- width of the element, m
*/
func NewBuildingElementOpaque(
	area float64,
	pitch float64,
	a_sol float64,
	r_c float64,
	k_m float64,
	class MassDistributionClass,
	orientation float64,
	base_height float64,
	height float64,
	width float64,
	ec *ExternalConditions,
) *BuildingElementOpaque {
	return &BuildingElementOpaque{
		building_element: building_element{
			area_value:  area,
			pitch_value: pitch,
			h_pli_value: opaque_conductances(r_c),
			k_pli_value: opaque_mass_distribution(k_m, class),
			ec:          ec,
		},
		solar_surface: solar_surface{orientation, base_height, height, width},
		a_sol_value:   a_sol,
		r_c:           r_c,
		k_m:           k_m,
	}
}

func (be *BuildingElementOpaque) a_sol() float64 {
	return be.a_sol_value
}

// solar irradiance on the external surface, W/m2
func (be *BuildingElementOpaque) i_sol(t_idx int) float64 {
	return be.irradiance(be.ec, t_idx, be.pitch_value)
}

func (be *BuildingElementOpaque) fabric_heat_loss() float64 {
	return be.area_value / (be.r_c + r_se + be.r_si())
}

// kJ/K
func (be *BuildingElementOpaque) heat_capacity() float64 {
	return be.area_value * be.k_m / 1000.0
}

//---------------------------------------------------------------------------------------------------//

// BuildingElementAdjacentZTC is a partition to a space at the same temperature.
type BuildingElementAdjacentZTC struct {
	building_element
	k_m float64
}

func NewBuildingElementAdjacentZTC(
	area float64,
	pitch float64,
	r_c float64,
	k_m float64,
	class MassDistributionClass,
	ec *ExternalConditions,
) *BuildingElementAdjacentZTC {
	return &BuildingElementAdjacentZTC{
		building_element: building_element{
			area_value:  area,
			pitch_value: pitch,
			h_pli_value: opaque_conductances(r_c),
			k_pli_value: opaque_mass_distribution(k_m, class),
			ec:          ec,
		},
		k_m: k_m,
	}
}

func (be *BuildingElementAdjacentZTC) h_ce() float64 {
	return 0.0
}

func (be *BuildingElementAdjacentZTC) h_re() float64 {
	return 0.0
}

func (be *BuildingElementAdjacentZTC) therm_rad_to_sky() float64 {
	return 0.0
}

// no heat flows to a space at the same temperature
func (be *BuildingElementAdjacentZTC) fabric_heat_loss() float64 {
	return 0.0
}

func (be *BuildingElementAdjacentZTC) heat_capacity() float64 {
	return be.area_value * be.k_m / 1000.0
}

//---------------------------------------------------------------------------------------------------//

/*
BuildingElementAdjacentZTU_Simple is a partition to an unheated space.

	The unheated space is represented by the extra resistance r_u in series
	with the external surface resistance.
*/
type BuildingElementAdjacentZTU_Simple struct {
	building_element
	r_c float64
	r_u float64 // thermal resistance of the unheated space, m2.K/W
	k_m float64
}

func NewBuildingElementAdjacentZTU_Simple(
	area float64,
	pitch float64,
	r_c float64,
	r_u float64,
	k_m float64,
	class MassDistributionClass,
	ec *ExternalConditions,
) *BuildingElementAdjacentZTU_Simple {
	return &BuildingElementAdjacentZTU_Simple{
		building_element: building_element{
			area_value:  area,
			pitch_value: pitch,
			h_pli_value: opaque_conductances(r_c),
			k_pli_value: opaque_mass_distribution(k_m, class),
			ec:          ec,
		},
		r_c: r_c,
		r_u: r_u,
		k_m: k_m,
	}
}

// combined external coefficient through the unheated space, W/(m2.K)
func (be *BuildingElementAdjacentZTU_Simple) _h_e_total() float64 {
	return 1.0 / (r_se + be.r_u)
}

func (be *BuildingElementAdjacentZTU_Simple) h_ce() float64 {
	return be._h_e_total() * h_ce_value / (h_ce_value + h_re_value)
}

func (be *BuildingElementAdjacentZTU_Simple) h_re() float64 {
	return be._h_e_total() * h_re_value / (h_ce_value + h_re_value)
}

func (be *BuildingElementAdjacentZTU_Simple) therm_rad_to_sky() float64 {
	return 0.0
}

// r_u is not part of the steady state loss
func (be *BuildingElementAdjacentZTU_Simple) fabric_heat_loss() float64 {
	return be.area_value / (be.r_c + r_se + be.r_si())
}

func (be *BuildingElementAdjacentZTU_Simple) heat_capacity() float64 {
	return be.area_value * be.k_m / 1000.0
}

//---------------------------------------------------------------------------------------------------//

/*
BuildingElementGround is a floor in contact with the ground.

	Node 0 sits in the virtual ground layer, node 1 carries the ground heat
	capacity and the floor construction mass is spread over nodes 2 to 4.
	The external boundary is a virtual ground temperature from the monthly
	heat flow model of BS EN ISO 13370 rather than the outdoor air.
*/
type BuildingElementGround struct {
	building_element
	u_value             float64 // steady state thermal transmittance of floor incl. ground, W/(m2.K)
	r_f                 float64 // total thermal resistance of all layers in the floor construction, m2.K/W
	k_m                 float64
	h_pi                float64 // internal periodic heat transfer coefficient, W/K
	h_pe                float64 // external periodic heat transfer coefficient, W/K
	perimeter           float64 // m
	psi_wall_floor_junc float64 // linear thermal transmittance of the wall/floor junction, W/(m.K)
	simulation_time     *SimulationTime
}

func NewBuildingElementGround(
	area float64,
	pitch float64,
	u_value float64,
	r_f float64,
	k_m float64,
	class MassDistributionClass,
	h_pi float64,
	h_pe float64,
	perimeter float64,
	psi_wall_floor_junc float64,
	ec *ExternalConditions,
	simulation_time *SimulationTime,
) (*BuildingElementGround, error) {
	if u_value <= 0 {
		return nil, newConfigurationError("BuildingElementGround.u_value", "must be positive, got %g", u_value)
	}

	// thermal resistance of the virtual ground layer, m2.K/W
	R_gr := thickness_ground_layer / thermal_conductivity_ground
	// areal heat capacity of the virtual ground layer, J/(m2.K)
	k_gr := thickness_ground_layer * heat_capacity_ground
	// thermal resistance of the floor construction excluding the ground layer
	R_c := 1.0 / u_value

	h_pli := []float64{
		2.0 / R_gr,
		1.0 / (R_c/4.0 + R_gr/2.0),
		2.0 / R_c,
		4.0 / R_c,
	}

	var k_floor []float64
	switch class {
	case MassDistributionClassI:
		k_floor = []float64{0.0, 0.0, k_m}
	case MassDistributionClassE:
		k_floor = []float64{k_m, 0.0, 0.0}
	case MassDistributionClassIE:
		k_floor = []float64{k_m / 2.0, 0.0, k_m / 2.0}
	case MassDistributionClassD:
		k_floor = []float64{k_m / 4.0, k_m / 2.0, k_m / 4.0}
	case MassDistributionClassM:
		k_floor = []float64{0.0, k_m, 0.0}
	default:
		panic(class)
	}
	k_pli := append([]float64{0.0, k_gr}, k_floor...)

	return &BuildingElementGround{
		building_element: building_element{
			area_value:  area,
			pitch_value: pitch,
			h_pli_value: h_pli,
			k_pli_value: k_pli,
			ec:          ec,
		},
		u_value:             u_value,
		r_f:                 r_f,
		k_m:                 k_m,
		h_pi:                h_pi,
		h_pe:                h_pe,
		perimeter:           perimeter,
		psi_wall_floor_junc: psi_wall_floor_junc,
		simulation_time:     simulation_time,
	}, nil
}

// coefficient between the virtual ground layer and the ground temperature, W/(m2.K)
func (be *BuildingElementGround) h_ce() float64 {
	R_gr := thickness_ground_layer / thermal_conductivity_ground
	R_vi := 1.0/be.u_value - r_si_ground - R_gr - be.r_f
	return 1.0 / R_vi
}

func (be *BuildingElementGround) h_re() float64 {
	return 0.0
}

func (be *BuildingElementGround) therm_rad_to_sky() float64 {
	return 0.0
}

/*
temp_ext returns the virtual ground temperature for the month of t_idx.

	The monthly heat flow through the floor follows BS EN ISO 13370 eqn C.4
	with current-month external temperatures. The internal temperature is
	held constant, so the h_pi term vanishes. Eqn F.2 then turns the flow,
	less the annual share through the wall/floor junction, into a virtual
	temperature behind A.U.
*/
func (be *BuildingElementGround) temp_ext(t_idx int) float64 {
	month := be.simulation_time.current_month(t_idx)
	temp_ext_annual := be.ec.air_temp_annual()
	temp_ext_month := be.ec.air_temp_for_month(month)
	temp_int_annual := temp_int_ground_model
	temp_int_month := temp_int_ground_model

	// BS EN ISO 13370:2017 eqn C.4
	heat_flow_month := be.u_value*be.area_value*(temp_int_annual-temp_ext_annual) +
		be.perimeter*be.psi_wall_floor_junc*(temp_int_month-temp_ext_month) -
		be.h_pi*(temp_int_annual-temp_int_month) +
		be.h_pe*(temp_ext_annual-temp_ext_month)

	// BS EN ISO 13370:2017 eqn F.2
	return temp_int_month -
		(heat_flow_month-be.perimeter*be.psi_wall_floor_junc*(temp_int_annual-temp_ext_annual))/
			(be.area_value*be.u_value)
}

func (be *BuildingElementGround) fabric_heat_loss() float64 {
	return be.area_value * be.u_value
}

// construction mass only; the ground layer is excluded
func (be *BuildingElementGround) heat_capacity() float64 {
	return be.area_value * be.k_m / 1000.0
}

//---------------------------------------------------------------------------------------------------//

/*
BuildingElementTransparent is a window or rooflight.

	It has no thermal mass and only two nodes. Solar radiation through the
	glazing is returned by solar_gains and goes straight to the zone.
*/
type BuildingElementTransparent struct {
	building_element
	solar_surface
	r_c                 float64 // thermal resistance, m2.K/W
	g_value             float64 // total solar energy transmittance of the glazing, -
	frame_area_fraction float64 // -
}

func NewBuildingElementTransparent(
	pitch float64,
	r_c float64,
	orientation float64,
	g_value float64,
	frame_area_fraction float64,
	base_height float64,
	height float64,
	width float64,
	ec *ExternalConditions,
) *BuildingElementTransparent {
	return &BuildingElementTransparent{
		building_element: building_element{
			area_value:  height * width,
			pitch_value: pitch,
			h_pli_value: []float64{1.0 / r_c},
			k_pli_value: []float64{0.0, 0.0},
			ec:          ec,
		},
		solar_surface:       solar_surface{orientation, base_height, height, width},
		r_c:                 r_c,
		g_value:             g_value,
		frame_area_fraction: frame_area_fraction,
	}
}

func (be *BuildingElementTransparent) heat_flow_direction(temp_int_air, temp_int_surface float64) HeatFlowDirection {
	return HeatFlowDirectionHorizontal
}

func (be *BuildingElementTransparent) r_si() float64 {
	return 1.0 / (h_ci_horizontal + h_ri_value)
}

func (be *BuildingElementTransparent) h_ci(temp_int_air, temp_int_surface float64) float64 {
	return h_ci_horizontal
}

func (be *BuildingElementTransparent) fabric_heat_loss() float64 {
	return be.area_value / (be.r_c + r_se + be.r_si() + r_curtains_blinds)
}

// solar gains through the glazing, W
func (be *BuildingElementTransparent) solar_gains(t_idx int) float64 {
	g_value_eff := be.g_value * (1.0 - be.frame_area_fraction)
	return g_value_eff * be.area_value * be.irradiance(be.ec, t_idx, be.pitch_value)
}

//---------------------------------------------------------------------------------------------------//

// NewBuildingElementFromJson builds an element by its "type" key.
func NewBuildingElementFromJson(name string, d *BuildingElementJson, ec *ExternalConditions, simulation_time *SimulationTime) (BuildingElement, error) {
	key := "BuildingElement." + name
	// input orientation is north 0 clockwise; internally south 0 east positive
	orientation := 180.0 - d.Orientation360

	if d.Type == "BuildingElementTransparent" {
		if d.RC <= 0 {
			return nil, newConfigurationError(key+".r_c", "must be positive, got %g", d.RC)
		}
		return NewBuildingElementTransparent(d.Pitch, d.RC, orientation, d.GValue, d.FrameAreaFraction, d.BaseHeight, d.Height, d.Width, ec), nil
	}

	class, err := MassDistributionClassFromString(d.MassDistributionClass)
	if err != nil {
		return nil, &ConfigurationError{Key: key + ".mass_distribution_class", Msg: err.Error()}
	}

	switch d.Type {
	case "BuildingElementOpaque":
		if d.RC <= 0 {
			return nil, newConfigurationError(key+".r_c", "must be positive, got %g", d.RC)
		}
		return NewBuildingElementOpaque(d.Area, d.Pitch, d.ASol, d.RC, d.KM, class, orientation, d.BaseHeight, d.Height, d.Width, ec), nil
	case "BuildingElementAdjacentZTC":
		if d.RC <= 0 {
			return nil, newConfigurationError(key+".r_c", "must be positive, got %g", d.RC)
		}
		return NewBuildingElementAdjacentZTC(d.Area, d.Pitch, d.RC, d.KM, class, ec), nil
	case "BuildingElementAdjacentZTU_Simple":
		if d.RC <= 0 {
			return nil, newConfigurationError(key+".r_c", "must be positive, got %g", d.RC)
		}
		return NewBuildingElementAdjacentZTU_Simple(d.Area, d.Pitch, d.RC, d.RU, d.KM, class, ec), nil
	case "BuildingElementGround":
		return NewBuildingElementGround(d.Area, d.Pitch, d.UValue, d.RF, d.KM, class, d.HPi, d.HPe, d.Perimeter, d.PsiWallFloorJunc, ec, simulation_time)
	default:
		return nil, newConfigurationError(key+".type", "unknown building element type %q", d.Type)
	}
}
