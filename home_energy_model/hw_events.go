package home_energy_model

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// seed used for the reference event list the calibration is made against
const hw_events_reference_seed = 37

// temperature of the mixed water of an event, degree C
const hw_event_temperature = 41.0

// average flow rate of hot water during a shower, litres/min
const hw_shower_flowrate_hot = 5.901

// hot water drawn by a bath, litres
const hw_bath_volume_hot = 50.0

// shortening of the other events where Part G is complied with
const hw_part_g_bonus = 0.95

type HotWaterEventType int

const (
	HotWaterEventShower HotWaterEventType = iota
	HotWaterEventBath
	HotWaterEventOther
)

func (e HotWaterEventType) String() string {
	return [...]string{"shower", "bath", "other"}[e]
}

// DecileBand is one row of the table of event frequencies, events per day.
type DecileBand struct {
	Decile            int     `csv:"decile"`
	MedianDailyDHWVol float64 `csv:"median_daily_dhw_vol"` // litres/day
	ShowersWeekday    float64 `csv:"showers_weekday"`
	ShowersWeekend    float64 `csv:"showers_weekend"`
	BathsWeekday      float64 `csv:"baths_weekday"`
	BathsWeekend      float64 `csv:"baths_weekend"`
	OtherWeekday      float64 `csv:"other_weekday"`
	OtherWeekend      float64 `csv:"other_weekend"`
}

//go:embed decile_banding.csv
var decile_banding_csv []byte

func load_decile_bands() ([]*DecileBand, error) {
	bands := []*DecileBand{}
	if err := gocsv.UnmarshalBytes(decile_banding_csv, &bands); err != nil {
		return nil, fmt.Errorf("decile banding: %w", err)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("decile banding: empty table")
	}
	return bands, nil
}

// relative likelihood of an event starting in each hour of the day
var (
	hw_hourly_weights_shower_weekday = [24]float64{
		0.2, 0.1, 0.1, 0.1, 0.2, 1.0, 4.0, 7.0, 6.0, 3.0, 1.5, 1.0,
		1.0, 0.8, 0.8, 0.8, 1.0, 1.5, 2.0, 2.5, 2.5, 2.5, 2.0, 1.0,
	}
	hw_hourly_weights_shower_weekend = [24]float64{
		0.3, 0.2, 0.1, 0.1, 0.1, 0.3, 1.0, 2.5, 4.5, 5.5, 4.5, 3.0,
		2.0, 1.5, 1.2, 1.2, 1.5, 2.0, 2.5, 2.5, 2.5, 2.5, 2.0, 1.0,
	}
	hw_hourly_weights_bath = [24]float64{
		0.1, 0.1, 0.0, 0.0, 0.0, 0.1, 0.5, 1.0, 1.0, 1.0, 1.0, 0.8,
		0.8, 0.8, 0.8, 1.0, 1.5, 2.5, 4.0, 5.0, 5.0, 4.0, 2.5, 1.0,
	}
	hw_hourly_weights_other = [24]float64{
		0.2, 0.1, 0.1, 0.1, 0.2, 0.6, 2.0, 3.5, 3.5, 2.5, 2.0, 2.0,
		2.5, 2.5, 2.0, 2.0, 2.5, 3.5, 4.0, 3.5, 3.0, 2.5, 1.5, 0.6,
	}
)

// HotWaterEvent is a draw-off of the annual use pattern.
type HotWaterEvent struct {
	Type     HotWaterEventType
	Time     float64 // hours since the start of the year
	Duration float64 // minutes, showers only
	Volume   float64 // hot water, litres
}

/*
Number of occupants of a dwelling.

	Args:
		TFA: total floor area, m2
		nbeds: number of bedrooms, five or more are treated alike
*/
func calc_N_occupants(TFA float64, nbeds int) (float64, error) {
	if TFA <= 0 {
		return 0.0, &NumericDomainError{Quantity: "total floor area", Value: TFA, Msg: "must be positive"}
	}

	switch {
	case nbeds == 1:
		// sigmoid on floor area
		return 1.0 + 0.4373*(1.0-math.Exp(-0.001902*TFA*TFA)), nil
	case nbeds == 2:
		return 2.2472, nil
	case nbeds == 3:
		return 2.9796, nil
	case nbeds == 4:
		return 3.3715, nil
	case nbeds >= 5:
		return 3.8997, nil
	default:
		return 0.0, &NumericDomainError{Quantity: "number of bedrooms", Value: float64(nbeds), Msg: "must be at least one"}
	}
}

// average daily hot water use of a dwelling, litres/day
func vol_hw_daily_average(N_occupants float64) float64 {
	return 0.85 * 60.3 * math.Pow(N_occupants, 0.71)
}

/*
HotWaterEventGenerator builds a year of draw-offs from a statistical model.

	The frequency of each kind of event depends on the day of the week and
	on the decile band of the daily volume. Start times are drawn from
	hourly profiles. Draws are reproducible for a given seed.
*/
type HotWaterEventGenerator struct {
	vol_daily_average float64 // litres/day
	band              *DecileBand
	rng               *rand.Rand
}

func NewHotWaterEventGenerator(vol_daily_average float64, seed int64) (*HotWaterEventGenerator, error) {
	bands, err := load_decile_bands()
	if err != nil {
		return nil, err
	}

	// band with the nearest median volume
	band := bands[0]
	for _, b := range bands[1:] {
		if math.Abs(b.MedianDailyDHWVol-vol_daily_average) < math.Abs(band.MedianDailyDHWVol-vol_daily_average) {
			band = b
		}
	}

	return &HotWaterEventGenerator{
		vol_daily_average: vol_daily_average,
		band:              band,
		rng:               rand.New(rand.NewSource(seed)),
	}, nil
}

// Knuth's method; the means here are small
func (g *HotWaterEventGenerator) _poisson(mean float64) int {
	limit := math.Exp(-mean)
	k := 0
	p := g.rng.Float64()
	for p > limit {
		k++
		p *= g.rng.Float64()
	}
	return k
}

func (g *HotWaterEventGenerator) _start_hour(weights *[24]float64) float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * total
	for hour, w := range weights {
		if r < w {
			return float64(hour) + g.rng.Float64()
		}
		r -= w
	}
	return 23.0 + g.rng.Float64()
}

/*
Build the events of a whole year.

	Args:
		startmod: day of the week of 1st January, 0 is Monday

	Returns:
		events sorted by start time
*/
func (g *HotWaterEventGenerator) build_annual_events(startmod int) []HotWaterEvent {
	events := []HotWaterEvent{}

	for day := 0; day < 365; day++ {
		weekend := (day+startmod)%7 >= 5
		day_start := float64(day * HOURS_PER_DAY)

		showers, baths, other := g.band.ShowersWeekday, g.band.BathsWeekday, g.band.OtherWeekday
		shower_weights := &hw_hourly_weights_shower_weekday
		if weekend {
			showers, baths, other = g.band.ShowersWeekend, g.band.BathsWeekend, g.band.OtherWeekend
			shower_weights = &hw_hourly_weights_shower_weekend
		}

		for i := g._poisson(showers); i > 0; i-- {
			duration := 3.0 + 7.0*g.rng.Float64()
			events = append(events, HotWaterEvent{
				Type:     HotWaterEventShower,
				Time:     day_start + g._start_hour(shower_weights),
				Duration: duration,
				Volume:   duration * hw_shower_flowrate_hot,
			})
		}
		for i := g._poisson(baths); i > 0; i-- {
			events = append(events, HotWaterEvent{
				Type:   HotWaterEventBath,
				Time:   day_start + g._start_hour(&hw_hourly_weights_bath),
				Volume: hw_bath_volume_hot,
			})
		}
		for i := g._poisson(other); i > 0; i-- {
			events = append(events, HotWaterEvent{
				Type:   HotWaterEventOther,
				Time:   day_start + g._start_hour(&hw_hourly_weights_other),
				Volume: 1.0 + 5.0*g.rng.Float64(),
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	return events
}

func total_event_volume(events []HotWaterEvent) float64 {
	total := 0.0
	for _, e := range events {
		total += e.Volume
	}
	return total
}

/*
Factor scaling the event volumes of the reference event list to the target
annual volume.
*/
func hw_calibration_factor(vol_daily_average float64, ref_events []HotWaterEvent) float64 {
	ref_vol := total_event_volume(ref_events)
	if ref_vol == 0.0 {
		return 1.0
	}
	return 365.0 * vol_daily_average / ref_vol
}

// calibration_statistics returns the mean and variance of the simulated daily volume over the seeds, litres/day.
func calibration_statistics(vol_daily_average float64, seeds []int64) (float64, float64, error) {
	daily := make([]float64, len(seeds))
	for i, seed := range seeds {
		g, err := NewHotWaterEventGenerator(vol_daily_average, seed)
		if err != nil {
			return 0.0, 0.0, err
		}
		daily[i] = total_event_volume(g.build_annual_events(0)) / 365.0
	}
	mean, variance := stat.MeanVariance(daily, nil)
	return mean, variance, nil
}

//---------------------------------------------------------------------------------------------------//

// EventsJson holds the draw-offs of each outlet, by outlet name.
type EventsJson struct {
	Shower map[string][]WaterEventJson `json:"Shower"`
	Bath   map[string][]WaterEventJson `json:"Bath"`
	Other  map[string][]WaterEventJson `json:"Other"`
}

/*
Outlets the generated events are shared between.

	Names are in configuration order; events of each kind go round the
	outlets of that kind in turn.
*/
type hw_event_outlets struct {
	shower_names []string
	bath_names   []string
	baths        map[string]*Bath
	other_names  []string
	others       map[string]*OtherHotWater
}

/*
Turn the reference events into outlet events for the dwelling.

	Showers keep the duration of the reference event, scaled by FHW. Baths and
	other draw-offs last as long as the outlet takes to deliver the scaled
	volume at the event temperature.

	Args:
		events: reference events
		FHW: calibration factor
		outlets: outlets of the dwelling
		temp_cold_mean: mean cold water temperature, degree C
		part_g_compliance: whether the other events are shortened
*/
func allocate_hw_events(
	events []HotWaterEvent,
	FHW float64,
	outlets *hw_event_outlets,
	temp_cold_mean float64,
	part_g_compliance bool,
) (*EventsJson, error) {
	result := &EventsJson{
		Shower: map[string][]WaterEventJson{},
		Bath:   map[string][]WaterEventJson{},
		Other:  map[string][]WaterEventJson{},
	}
	if len(outlets.shower_names) == 0 && len(outlets.bath_names) == 0 && len(outlets.other_names) == 0 {
		return nil, newConfigurationError("Events", "no hot water outlets to allocate events to")
	}

	frac_hot := frac_hot_water(hw_event_temperature, hot_water_temperature, temp_cold_mean)
	part_g_bonus := 1.0
	if part_g_compliance {
		part_g_bonus = hw_part_g_bonus
	}

	n_shower, n_bath, n_other := 0, 0, 0
	for _, e := range events {
		event_type := e.Type
		// a dwelling without baths showers instead, and so on
		if event_type == HotWaterEventBath && len(outlets.bath_names) == 0 {
			event_type = HotWaterEventShower
		}
		if event_type == HotWaterEventShower && len(outlets.shower_names) == 0 {
			event_type = HotWaterEventOther
		}
		if event_type == HotWaterEventOther && len(outlets.other_names) == 0 {
			event_type = HotWaterEventShower
			if len(outlets.shower_names) == 0 {
				event_type = HotWaterEventBath
			}
		}

		switch event_type {
		case HotWaterEventShower:
			name := outlets.shower_names[n_shower%len(outlets.shower_names)]
			n_shower++
			duration := e.Duration
			if duration == 0.0 {
				duration = e.Volume / hw_shower_flowrate_hot
			}
			result.Shower[name] = append(result.Shower[name], WaterEventJson{
				Start: e.Time, Duration: duration * FHW, Temperature: hw_event_temperature,
			})
		case HotWaterEventBath:
			name := outlets.bath_names[n_bath%len(outlets.bath_names)]
			n_bath++
			bath := outlets.baths[name]
			duration := 0.0
			if bath.get_flowrate() > 0.0 {
				duration = e.Volume * FHW / (bath.get_flowrate() * frac_hot)
			}
			result.Bath[name] = append(result.Bath[name], WaterEventJson{
				Start: e.Time, Duration: duration, Temperature: hw_event_temperature,
			})
		case HotWaterEventOther:
			name := outlets.other_names[n_other%len(outlets.other_names)]
			n_other++
			other := outlets.others[name]
			duration := e.Volume * FHW / (other.get_flowrate() * frac_hot) * part_g_bonus
			result.Other[name] = append(result.Other[name], WaterEventJson{
				Start: e.Time, Duration: duration, Temperature: hw_event_temperature,
			})
		}
	}
	return result, nil
}
