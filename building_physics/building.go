package building_physics

// **** 建物 ****
// Runtime building model assembled from the validated configuration:
// envelope, air exchange, setpoints and internal gains.

type Building struct {
	envelope *Envelope

	volume     float64 // zone air volume [m3]
	floor_area float64 // heated floor area [m2]

	mech_flow        float64 // mechanical supply [m3/s]
	hrv_eff          float64 // heat recovery effectiveness [-]
	infiltration_ach float64 // [1/h]

	rho_air float64
	cp_air  float64
	h_ext   float64

	setpoint_heat    float64
	setpoint_cool    float64
	setpoint_setback float64
	day_start        int
	day_end          int

	gains InternalGains
}

/*
Assemble and validate the runtime model.

Args:

	cfg: resolved configuration

Returns:

	building model, or ConfigurationError naming the offending field
*/
func NewBuilding(cfg Config) (*Building, error) {
	if cfg.Constants.RhoAir <= 0.0 {
		return nil, &ConfigurationError{Field: "constants.rho_air", Constraint: "must be positive"}
	}
	if cfg.Constants.CpAir <= 0.0 {
		return nil, &ConfigurationError{Field: "constants.cp_air", Constraint: "must be positive"}
	}
	if cfg.Constants.HExt <= 0.0 {
		return nil, &ConfigurationError{Field: "constants.h_ext", Constraint: "must be positive"}
	}
	if cfg.Building.Volume <= 0.0 {
		return nil, &ConfigurationError{Field: "building.volume", Constraint: "must be positive"}
	}
	if cfg.Building.FloorArea <= 0.0 {
		return nil, &ConfigurationError{Field: "building.floor_area", Constraint: "must be positive"}
	}
	if cfg.Ventilation.MechFlow < 0.0 {
		return nil, &ConfigurationError{Field: "ventilation.mech_flow", Constraint: "must not be negative"}
	}
	if cfg.Ventilation.HRVEfficiency < 0.0 || cfg.Ventilation.HRVEfficiency > 1.0 {
		return nil, &ConfigurationError{Field: "ventilation.hrv_efficiency", Constraint: "must be in [0, 1]"}
	}
	if cfg.Ventilation.InfiltrationACH < 0.0 {
		return nil, &ConfigurationError{Field: "ventilation.infiltration_ach", Constraint: "must not be negative"}
	}
	if cfg.Setpoints.HeatingC >= cfg.Setpoints.CoolingC {
		return nil, &ConfigurationError{Field: "setpoints.heating_c", Constraint: "must be below cooling_c"}
	}
	if cfg.Setpoints.SetbackC > cfg.Setpoints.HeatingC {
		return nil, &ConfigurationError{Field: "setpoints.setback_c", Constraint: "must not exceed heating_c"}
	}
	if cfg.Setpoints.DayStartH < 0 || cfg.Setpoints.DayEndH > 23 || cfg.Setpoints.DayStartH >= cfg.Setpoints.DayEndH {
		return nil, &ConfigurationError{Field: "setpoints.day_start_h", Constraint: "day window must satisfy 0 <= start < end <= 23"}
	}

	gains, err := NewInternalGains(cfg.Gains)
	if err != nil {
		return nil, err
	}

	envelope, err := NewEnvelope(cfg.Surfaces, cfg.Windows)
	if err != nil {
		return nil, err
	}

	return &Building{
		envelope:         envelope,
		volume:           cfg.Building.Volume,
		floor_area:       cfg.Building.FloorArea,
		mech_flow:        cfg.Ventilation.MechFlow,
		hrv_eff:          cfg.Ventilation.HRVEfficiency,
		infiltration_ach: cfg.Ventilation.InfiltrationACH,
		rho_air:          cfg.Constants.RhoAir,
		cp_air:           cfg.Constants.CpAir,
		h_ext:            cfg.Constants.HExt,
		setpoint_heat:    cfg.Setpoints.HeatingC,
		setpoint_cool:    cfg.Setpoints.CoolingC,
		setpoint_setback: cfg.Setpoints.SetbackC,
		day_start:        cfg.Setpoints.DayStartH,
		day_end:          cfg.Setpoints.DayEndH,
		gains:            gains,
	}, nil
}

func (b *Building) Envelope() *Envelope {
	return b.envelope
}

// Infiltration volume flow [m3/s].
func (b *Building) infiltration_flow() float64 {
	return b.infiltration_ach * b.volume / 3600.0
}

// Air heat-loss coefficient [W/K]: mechanical supply reduced by heat
// recovery, infiltration not.
func (b *Building) air_ua() float64 {
	return b.rho_air * b.cp_air * (b.mech_flow*(1.0-b.hrv_eff) + b.infiltration_flow())
}

// Conductance of an air exchange rate [W/K] for the given ACH.
func (b *Building) ach_ua(ach float64) float64 {
	return b.rho_air * b.cp_air * ach * b.volume / 3600.0
}

// Whole-envelope transmittance sum [W/K].
func (b *Building) ua_total() float64 {
	ua := 0.0
	for i := range b.envelope.surfaces {
		s := &b.envelope.surfaces[i]
		ua += s.u_value * s.area
	}
	for i := range b.envelope.windows {
		w := &b.envelope.windows[i]
		ua += w.u_value * w.area
	}
	return ua
}

//-----//

// A two-level daily schedule: one value across the day window, another
// at night. Constant schedules set both levels equal.
type DaySchedule struct {
	day       float64
	night     float64
	day_start int
	day_end   int // inclusive
}

func NewConstantSchedule(v float64) DaySchedule {
	return DaySchedule{day: v, night: v}
}

func NewDayNightSchedule(day, night float64, day_start, day_end int) DaySchedule {
	return DaySchedule{day: day, night: night, day_start: day_start, day_end: day_end}
}

func (s DaySchedule) at(hour int) float64 {
	if s.day == s.night {
		return s.day
	}
	if hour >= s.day_start && hour <= s.day_end {
		return s.day
	}
	return s.night
}

// series resolves the schedule over the given hours of day.
func (s DaySchedule) series(hour_ns []int) []float64 {
	out := make([]float64, len(hour_ns))
	for i, h := range hour_ns {
		out[i] = s.at(h)
	}
	return out
}
