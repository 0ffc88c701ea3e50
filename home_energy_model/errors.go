package home_energy_model

import (
	"errors"
	"fmt"
)

// ErrSimulationTimeExhausted is returned when time is advanced past the end of the run.
var ErrSimulationTimeExhausted = errors.New("simulation time exhausted")

/*
ConfigurationError is returned while a project is being built, before any
timestep is simulated, when a required key is missing or a value is invalid.
*/
type ConfigurationError struct {
	Key string // offending key, e.g. "HeatingControlType"
	Msg string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration error: %s", e.Msg)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Msg)
}

func newConfigurationError(key string, format string, a ...interface{}) error {
	return &ConfigurationError{Key: key, Msg: fmt.Sprintf(format, a...)}
}

// NumericDomainError reports an input value outside the domain of a calculation.
type NumericDomainError struct {
	Quantity string
	Value    float64
	Msg      string
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("%s = %g: %s", e.Quantity, e.Value, e.Msg)
}
