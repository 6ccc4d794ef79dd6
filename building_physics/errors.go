package building_physics

import (
	"errors"
	"fmt"
)

// Sentinel kinds for the three fatal failure classes. Wrapped errors
// carry the offending field and the violated constraint; errors.Is
// against these sentinels matches the kind.
var (
	ErrConfiguration        = errors.New("configuration error")
	ErrData                 = errors.New("data error")
	ErrNumericalInstability = errors.New("numerical instability")
)

// ConfigurationError reports an invalid or non-physical building,
// envelope or setpoint parameter.
type ConfigurationError struct {
	Field      string
	Constraint string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Constraint)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// DataError reports a malformed, incomplete or non-chronological
// weather series.
type DataError struct {
	Source string
	Detail string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error: %s: %s", e.Source, e.Detail)
}

func (e *DataError) Unwrap() error { return ErrData }

// NumericalInstabilityError reports a timestep that violates the
// stability bound of the thermal network, delta_t < 2*C_min/G_max.
type NumericalInstabilityError struct {
	DeltaT float64
	Bound  float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("numerical instability: delta_t %.1f s exceeds stability bound %.1f s", e.DeltaT, e.Bound)
}

func (e *NumericalInstabilityError) Unwrap() error { return ErrNumericalInstability }
