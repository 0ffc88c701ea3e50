package home_energy_model

const (
	HOURS_PER_DAY          = 24
	WATTS_PER_KILOWATT     = 1000.0
	SECONDS_PER_HOUR       = 3600.0
	MINUTES_PER_HOUR       = 60.0
	LITRES_PER_CUBIC_METRE = 1000.0
)

const kelvin_offset = 273.15

// days in each month, no leap year
var DAYS_PER_MONTH = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func Celcius2Kelvin(temp_C float64) float64 {
	return temp_C + kelvin_offset
}

func Kelvin2Celcius(temp_K float64) float64 {
	return temp_K - kelvin_offset
}

func convert_W_to_kW(power_W float64) float64 {
	return power_W / WATTS_PER_KILOWATT
}
