package home_energy_model

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type ShadingObjectJson struct {
	Type     string  `json:"type"`     // "obstacle"
	Height   float64 `json:"height"`   // height of the obstacle, m
	Distance float64 `json:"distance"` // horizontal distance to the obstacle, m
}

// Azimuth sector, measured like the solar azimuth (south 0, east positive).
type ShadingSegmentJson struct {
	Number  int                 `json:"number"`
	Start   float64             `json:"start"`
	End     float64             `json:"end"`
	Shading []ShadingObjectJson `json:"shading"`
}

type ExternalConditionsJson struct {
	AirTemperatures            []float64            `json:"air_temperatures"`
	WindSpeeds                 []float64            `json:"wind_speeds"`
	DiffuseHorizontalRadiation []float64            `json:"diffuse_horizontal_radiation"`
	DirectBeamRadiation        []float64            `json:"direct_beam_radiation"`
	SolarReflectivityOfGround  []float64            `json:"solar_reflectivity_of_ground"`
	Latitude                   float64              `json:"latitude"`
	Longitude                  float64              `json:"longitude"`
	Timezone                   int                  `json:"timezone"`
	StartDay                   int                  `json:"start_day"`
	EndDay                     int                  `json:"end_day"`
	TimeSeriesStep             float64              `json:"time_series_step"`
	JanuaryFirst               int                  `json:"january_first"`
	DaylightSavings            string               `json:"daylight_savings"`
	LeapDayIncluded            bool                 `json:"leap_day_included"`
	DirectBeamConversionNeeded bool                 `json:"direct_beam_conversion_needed"`
	ShadingSegments            []ShadingSegmentJson `json:"shading_segments"`
}

const (
	// sky temperature depression used for long-wave radiation to the sky, K
	temp_diff_sky = 11.0
	// daylight savings modes
	daylight_savings_applied = "applicable and taken into account"
)

/*
ExternalConditions holds the weather series and site data of a run.

	Values are looked up by timestep index; nothing is mutated after construction.
*/
type ExternalConditions struct {
	simulation_time               *SimulationTime
	air_temps                     []float64 // air temperature, degree C
	wind_speeds                   []float64 // wind speed, m/s
	diffuse_horizontal_radiations []float64 // diffuse horizontal radiation, W/m2
	direct_beam_radiations        []float64 // direct beam radiation, W/m2
	solar_reflectivity_of_grounds []float64 // albedo, -
	latitude                      float64   // degrees, north positive
	longitude                     float64   // degrees, east positive
	timezone                      int       // hours ahead of UTC
	start_day                     int       // first day of the series, from zero
	end_day                       int
	time_series_step              float64 // interval of the series, h
	january_first                 int     // weekday of 1st January, 1 = Monday
	daylight_savings              string
	leap_day_included             bool
	direct_beam_conversion_needed bool // direct beam given on the horizontal plane
	shading_segments              []ShadingSegmentJson

	air_temp_annual_value   float64
	air_temp_monthly_values [12]float64
	wind_speed_annual_value float64
}

func NewExternalConditions(
	simulation_time *SimulationTime,
	air_temps []float64,
	wind_speeds []float64,
	diffuse_horizontal_radiations []float64,
	direct_beam_radiations []float64,
	solar_reflectivity_of_grounds []float64,
	latitude float64,
	longitude float64,
	timezone int,
	start_day int,
	end_day int,
	time_series_step float64,
	january_first int,
	daylight_savings string,
	leap_day_included bool,
	direct_beam_conversion_needed bool,
	shading_segments []ShadingSegmentJson,
) (*ExternalConditions, error) {
	if time_series_step <= 0 {
		return nil, newConfigurationError("ExternalConditions.time_series_step", "must be positive, got %g", time_series_step)
	}

	ec := &ExternalConditions{
		simulation_time:               simulation_time,
		air_temps:                     air_temps,
		wind_speeds:                   wind_speeds,
		diffuse_horizontal_radiations: diffuse_horizontal_radiations,
		direct_beam_radiations:        direct_beam_radiations,
		solar_reflectivity_of_grounds: solar_reflectivity_of_grounds,
		latitude:                      latitude,
		longitude:                     longitude,
		timezone:                      timezone,
		start_day:                     start_day,
		end_day:                       end_day,
		time_series_step:              time_series_step,
		january_first:                 january_first,
		daylight_savings:              daylight_savings,
		leap_day_included:             leap_day_included,
		direct_beam_conversion_needed: direct_beam_conversion_needed,
		shading_segments:              shading_segments,
	}

	// every series supplied must cover the whole calculation period
	last_idx := simulation_time.time_series_idx(simulation_time.total_steps()-1, start_day, time_series_step)
	for name, series := range map[string][]float64{
		"air_temperatures":             air_temps,
		"wind_speeds":                  wind_speeds,
		"diffuse_horizontal_radiation": diffuse_horizontal_radiations,
		"direct_beam_radiation":        direct_beam_radiations,
		"solar_reflectivity_of_ground": solar_reflectivity_of_grounds,
	} {
		if series != nil && len(series) <= last_idx {
			return nil, newConfigurationError(
				"ExternalConditions."+name,
				"series has %d entries but the calculation needs %d", len(series), last_idx+1,
			)
		}
	}
	for _, segment := range shading_segments {
		for _, obj := range segment.Shading {
			if obj.Type != "obstacle" {
				return nil, newConfigurationError("ExternalConditions.shading_segments", "unknown shading type %q", obj.Type)
			}
		}
	}

	if len(air_temps) > 0 {
		ec.air_temp_annual_value = stat.Mean(air_temps, nil)
		ec.air_temp_monthly_values = ec._monthly_means(air_temps)
	}
	if len(wind_speeds) > 0 {
		ec.wind_speed_annual_value = stat.Mean(wind_speeds, nil)
	}

	return ec, nil
}

func NewExternalConditionsFromJson(simtime *SimulationTime, d *ExternalConditionsJson) (*ExternalConditions, error) {
	step := d.TimeSeriesStep
	if step == 0 {
		step = 1.0
	}
	return NewExternalConditions(
		simtime,
		d.AirTemperatures,
		d.WindSpeeds,
		d.DiffuseHorizontalRadiation,
		d.DirectBeamRadiation,
		d.SolarReflectivityOfGround,
		d.Latitude,
		d.Longitude,
		d.Timezone,
		d.StartDay,
		d.EndDay,
		step,
		d.JanuaryFirst,
		d.DaylightSavings,
		d.LeapDayIncluded,
		d.DirectBeamConversionNeeded,
		d.ShadingSegments,
	)
}

// Mean of the series over each calendar month; the annual mean stands in for months the series does not reach.
func (ec *ExternalConditions) _monthly_means(series []float64) [12]float64 {
	var sums, counts [12]float64
	for i, v := range series {
		hour := float64(ec.start_day*HOURS_PER_DAY) + float64(i)*ec.time_series_step
		day := int(hour/HOURS_PER_DAY) % 365
		month := 0
		for day >= DAYS_PER_MONTH[month] {
			day -= DAYS_PER_MONTH[month]
			month++
		}
		sums[month] += v
		counts[month] += 1
	}
	var means [12]float64
	for m := range means {
		if counts[m] == 0 {
			means[m] = ec.air_temp_annual_value
		} else {
			means[m] = sums[m] / counts[m]
		}
	}
	return means
}

func (ec *ExternalConditions) _idx(t_idx int) int {
	return ec.simulation_time.time_series_idx(t_idx, ec.start_day, ec.time_series_step)
}

func (ec *ExternalConditions) air_temp(t_idx int) float64 {
	return ec.air_temps[ec._idx(t_idx)]
}

func (ec *ExternalConditions) air_temp_annual() float64 {
	return ec.air_temp_annual_value
}

// mean air temperature of the month containing timestep t_idx, degree C
func (ec *ExternalConditions) air_temp_monthly(t_idx int) float64 {
	return ec.air_temp_monthly_values[ec.simulation_time.current_month(t_idx)]
}

// mean air temperature of month (0-11), wrapping across the year
func (ec *ExternalConditions) air_temp_for_month(month int) float64 {
	return ec.air_temp_monthly_values[((month%12)+12)%12]
}

func (ec *ExternalConditions) wind_speed(t_idx int) float64 {
	return ec.wind_speeds[ec._idx(t_idx)]
}

func (ec *ExternalConditions) wind_speed_annual() float64 {
	return ec.wind_speed_annual_value
}

func (ec *ExternalConditions) diffuse_horizontal_radiation(t_idx int) float64 {
	return ec.diffuse_horizontal_radiations[ec._idx(t_idx)]
}

func (ec *ExternalConditions) direct_beam_radiation(t_idx int) float64 {
	return ec.direct_beam_radiations[ec._idx(t_idx)]
}

func (ec *ExternalConditions) solar_reflectivity_of_ground(t_idx int) float64 {
	return ec.solar_reflectivity_of_grounds[ec._idx(t_idx)]
}

// weekday of day (from zero) of the year, 0 = Monday
func (ec *ExternalConditions) weekday(day int) int {
	january_first := ec.january_first
	if january_first < 1 || january_first > 7 {
		january_first = 1
	}
	return (january_first - 1 + day) % 7
}

//---------------------------------------------------------------------------------------------------//

// Solar geometry following BS EN ISO 52010-1. Angles are in degrees.

func sin_deg(x float64) float64 { return math.Sin(x * math.Pi / 180.0) }
func cos_deg(x float64) float64 { return math.Cos(x * math.Pi / 180.0) }

// day of year, 1 to 365
func (ec *ExternalConditions) _day_of_year(t_idx int) int {
	return ec.simulation_time.current_day(t_idx)%365 + 1
}

func (ec *ExternalConditions) solar_declination(t_idx int) float64 {
	r_dc := 360.0 / 365.0 * float64(ec._day_of_year(t_idx))
	return 0.33281 - 22.984*cos_deg(r_dc) + 3.7872*sin_deg(r_dc) -
		0.3499*cos_deg(2*r_dc) + 0.03205*sin_deg(2*r_dc) -
		0.1398*cos_deg(3*r_dc) + 0.07187*sin_deg(3*r_dc)
}

// equation of time, minutes
func (ec *ExternalConditions) equation_of_time(t_idx int) float64 {
	n := float64(ec._day_of_year(t_idx))
	switch {
	case n < 21:
		return 2.6 + 0.44*n
	case n < 136:
		return 5.2 + 9.0*math.Cos((n-43.0)*0.0357)
	case n < 241:
		return 1.4 - 5.0*math.Cos((n-135.0)*0.0449)
	case n < 336:
		return -6.3 - 10.0*math.Cos((n-306.0)*0.036)
	default:
		return 0.45 * (n - 359.0)
	}
}

// difference between clock time and solar time due to the site's longitude, h
func (ec *ExternalConditions) time_shift() float64 {
	return float64(ec.timezone) - ec.longitude/15.0
}

func (ec *ExternalConditions) _is_summer_time(t_idx int) bool {
	if ec.daylight_savings != daylight_savings_applied {
		return false
	}
	day := ec.simulation_time.current_day(t_idx) % 365
	// last Sundays of March (day 89 is 31st March) and October (day 303 is 31st October)
	start := 89
	for ec.weekday(start) != 6 {
		start--
	}
	end := 303
	for ec.weekday(end) != 6 {
		end--
	}
	return day >= start && day < end
}

// solar time at the middle of timestep t_idx, h
func (ec *ExternalConditions) solar_time(t_idx int) float64 {
	clock := math.Mod(ec.simulation_time.current(t_idx), HOURS_PER_DAY) + ec.simulation_time.timestep_at(t_idx)/2.0
	if ec._is_summer_time(t_idx) {
		clock -= 1.0
	}
	return clock - ec.equation_of_time(t_idx)/60.0 - ec.time_shift()
}

// positive before solar noon
func (ec *ExternalConditions) solar_hour_angle(t_idx int) float64 {
	angle := 15.0 * (12.0 - ec.solar_time(t_idx))
	if angle > 180.0 {
		angle -= 360.0
	} else if angle < -180.0 {
		angle += 360.0
	}
	return angle
}

func (ec *ExternalConditions) solar_altitude(t_idx int) float64 {
	decl := ec.solar_declination(t_idx)
	omega := ec.solar_hour_angle(t_idx)
	sin_alt := sin_deg(decl)*sin_deg(ec.latitude) + cos_deg(decl)*cos_deg(ec.latitude)*cos_deg(omega)
	sin_alt = math.Max(-1.0, math.Min(1.0, sin_alt))
	return math.Asin(sin_alt) * 180.0 / math.Pi
}

// south 0, east positive
func (ec *ExternalConditions) solar_azimuth_angle(t_idx int) float64 {
	decl := ec.solar_declination(t_idx)
	omega := ec.solar_hour_angle(t_idx)
	alt := ec.solar_altitude(t_idx)

	sin_az := cos_deg(decl) * sin_deg(omega) / cos_deg(alt)
	cos_az := (sin_deg(alt)*sin_deg(ec.latitude) - sin_deg(decl)) / (cos_deg(alt) * cos_deg(ec.latitude))
	return math.Atan2(sin_az, cos_az) * 180.0 / math.Pi
}

/*
Angle of incidence of the direct beam on an inclined surface.

	Args:
		tilt: tilt of the surface from horizontal (the pitch), degrees
		orientation: azimuth of the surface normal, south 0, east positive, degrees
*/
func (ec *ExternalConditions) solar_angle_of_incidence(t_idx int, tilt float64, orientation float64) float64 {
	decl := ec.solar_declination(t_idx)
	omega := ec.solar_hour_angle(t_idx)
	lat := ec.latitude

	cos_inc := sin_deg(decl)*sin_deg(lat)*cos_deg(tilt) -
		sin_deg(decl)*cos_deg(lat)*sin_deg(tilt)*cos_deg(orientation) +
		cos_deg(decl)*cos_deg(lat)*cos_deg(tilt)*cos_deg(omega) +
		cos_deg(decl)*sin_deg(lat)*sin_deg(tilt)*cos_deg(orientation)*cos_deg(omega) +
		cos_deg(decl)*sin_deg(tilt)*sin_deg(orientation)*sin_deg(omega)
	cos_inc = math.Max(-1.0, math.Min(1.0, cos_inc))
	return math.Acos(cos_inc) * 180.0 / math.Pi
}

// direct normal irradiance, W/m2
func (ec *ExternalConditions) direct_beam_normal(t_idx int) float64 {
	direct := ec.direct_beam_radiation(t_idx)
	if !ec.direct_beam_conversion_needed {
		return direct
	}
	sin_alt := sin_deg(ec.solar_altitude(t_idx))
	// below about 2 degrees the conversion is unstable
	if sin_alt < 0.035 {
		return 0.0
	}
	return direct / sin_alt
}

func (ec *ExternalConditions) calculated_direct_irradiance(t_idx int, tilt float64, orientation float64) float64 {
	if ec.solar_altitude(t_idx) <= 0.0 {
		return 0.0
	}
	cos_inc := cos_deg(ec.solar_angle_of_incidence(t_idx, tilt, orientation))
	return math.Max(0.0, ec.direct_beam_normal(t_idx)*cos_inc)
}

// isotropic sky diffuse plus ground reflected irradiance, W/m2
func (ec *ExternalConditions) calculated_diffuse_irradiance(t_idx int, tilt float64) float64 {
	diffuse := ec.diffuse_horizontal_radiation(t_idx)
	direct_hor := 0.0
	if ec.solar_altitude(t_idx) > 0.0 {
		direct_hor = ec.direct_beam_normal(t_idx) * sin_deg(ec.solar_altitude(t_idx))
	}
	albedo := 0.2
	if ec.solar_reflectivity_of_grounds != nil {
		albedo = ec.solar_reflectivity_of_ground(t_idx)
	}
	sky := diffuse * (1.0 + cos_deg(tilt)) / 2.0
	ground := albedo * (diffuse + direct_hor) * (1.0 - cos_deg(tilt)) / 2.0
	return sky + ground
}

/*
Direct beam shading factor of a surface from the obstacles defined for the
azimuth segment the sun is in.

	Args:
		base_height: height of the bottom of the surface above ground, m
		height: height of the surface, m

	Returns:
		1.0 if the sun is visible from the middle of the surface, otherwise 0.0
*/
func (ec *ExternalConditions) shading_factor_direct(t_idx int, base_height float64, height float64) float64 {
	if len(ec.shading_segments) == 0 {
		return 1.0
	}
	azimuth := ec.solar_azimuth_angle(t_idx)
	altitude := ec.solar_altitude(t_idx)
	z := base_height + height/2.0

	for _, segment := range ec.shading_segments {
		lo, hi := math.Min(segment.Start, segment.End), math.Max(segment.Start, segment.End)
		if azimuth < lo || azimuth >= hi {
			continue
		}
		for _, obj := range segment.Shading {
			if obj.Height <= z || obj.Distance <= 0.0 {
				continue
			}
			if altitude < math.Atan((obj.Height-z)/obj.Distance)*180.0/math.Pi {
				return 0.0
			}
		}
	}
	return 1.0
}

// direct (shaded) and diffuse irradiance on a surface, W/m2
func (ec *ExternalConditions) surface_irradiance(t_idx int, tilt, orientation, base_height, height float64) (float64, float64) {
	direct := ec.calculated_direct_irradiance(t_idx, tilt, orientation) * ec.shading_factor_direct(t_idx, base_height, height)
	diffuse := ec.calculated_diffuse_irradiance(t_idx, tilt)
	return direct, diffuse
}
