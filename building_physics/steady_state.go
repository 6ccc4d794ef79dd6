package building_physics

// **** 定常熱収支 ****
// Hourly steady-state heat balance. The design path evaluates heating
// and cooling loads at fixed setpoints with conservative boundary
// choices; the scheduled path follows setpoint and ventilation
// schedules and reports the loss/gain breakdown used by the scenario
// studies.

import (
	"math"
	"time"
)

// Hourly loads of the design-path balance. Transmission and air terms
// are signed heat flows into the zone, so losses are negative; the
// heating and cooling demands are clamped at zero.
type DesignLoads struct {
	weather *Weather

	q_trans_h []float64
	q_air_h   []float64
	q_heat    []float64

	q_trans_c []float64
	q_air_c   []float64
	q_solar   []float64
	q_int     []float64
	q_kitchen []float64
	q_cool    []float64
}

func (r *DesignLoads) Len() int {
	return len(r.q_heat)
}

// Largest heating demand [W] and the hour it occurs.
func (r *DesignLoads) PeakHeating() (float64, time.Time) {
	return peak(r.q_heat, r.weather.timestamps)
}

// Largest cooling demand [W] and the hour it occurs.
func (r *DesignLoads) PeakCooling() (float64, time.Time) {
	return peak(r.q_cool, r.weather.timestamps)
}

func peak(q []float64, ts []time.Time) (float64, time.Time) {
	at := 0
	for i := range q {
		if q[i] > q[at] {
			at = i
		}
	}
	return q[at], ts[at]
}

/*
Run the dual-setpoint design balance over the weather window.

Heating is conservative: opaque and glazed elements are driven by plain
outdoor temperature and no solar or internal gain is credited. Cooling
drives opaque elements with max(sol-air, outdoor), never lets ground
contact count as free cooling, and adds solar, internal and kitchen
gains.

Args:

	b: building model
	w: weather window (a design day or a full year)

Returns:

	hourly load series
*/
func RunHeatBalance(b *Building, w *Weather) (*DesignLoads, error) {
	if err := check_runtime(b); err != nil {
		return nil, err
	}

	n := w.Len()
	r := &DesignLoads{
		weather:   w,
		q_trans_h: make([]float64, n),
		q_air_h:   make([]float64, n),
		q_heat:    make([]float64, n),
		q_trans_c: make([]float64, n),
		q_air_c:   make([]float64, n),
		q_solar:   make([]float64, n),
		q_int:     make([]float64, n),
		q_kitchen: make([]float64, n),
		q_cool:    make([]float64, n),
	}

	t_heat := b.setpoint_heat
	t_cool := b.setpoint_cool

	for si := range b.envelope.surfaces {
		s := &b.envelope.surfaces[si]
		ua := s.u_value * s.area

		if s.boundary == BoundaryGround {
			for i := 0; i < n; i++ {
				theta_g := w.theta_g_m(w.m_ns[i])
				r.q_trans_h[i] += ua * (theta_g - t_heat)
				// ground contact never counts as free cooling
				r.q_trans_c[i] += math.Max(0.0, ua*(theta_g-t_cool))
			}
			continue
		}

		for i := 0; i < n; i++ {
			i_p := s.irradiance(w.i_dn_ns[i], w.i_dif_ns[i], w.theta_s_ns[i], w.phi_s_ns[i])
			theta_o := w.theta_o_ns[i]

			r.q_trans_h[i] += ua * (theta_o - t_heat)

			theta_c := math.Max(s.sol_air(theta_o, i_p, b.h_ext), theta_o)
			r.q_trans_c[i] += ua * (theta_c - t_cool)
		}
	}

	for wi := range b.envelope.windows {
		win := &b.envelope.windows[wi]
		ua := win.u_value * win.area

		for i := 0; i < n; i++ {
			theta_o := w.theta_o_ns[i]
			r.q_trans_h[i] += ua * (theta_o - t_heat)
			r.q_trans_c[i] += ua * (theta_o - t_cool)

			i_p := win.irradiance(w.i_dn_ns[i], w.i_dif_ns[i], w.theta_s_ns[i], w.phi_s_ns[i])
			r.q_solar[i] += win.solar_gain(i_p)
		}
	}

	air_ua := b.air_ua()
	for i := 0; i < n; i++ {
		theta_o := w.theta_o_ns[i]
		r.q_air_h[i] = air_ua * (theta_o - t_heat)
		r.q_air_c[i] = air_ua * (theta_o - t_cool)

		hour := w.hour_ns[i]
		r.q_int[i] = b.gains.total()
		r.q_kitchen[i] = b.gains.kitchen_at(hour)

		r.q_heat[i] = math.Max(0.0, -r.q_trans_h[i]-r.q_air_h[i])
		r.q_cool[i] = math.Max(0.0, r.q_trans_c[i]+r.q_air_c[i]+r.q_solar[i]+r.q_int[i]+r.q_kitchen[i])
	}

	return r, nil
}

//-----//

// Hourly loads of the scheduled balance. Loss terms are positive when
// the zone loses heat.
type ScheduledLoads struct {
	weather *Weather

	t_set    []float64
	vent_ach []float64

	q_walls  []float64
	q_roof   []float64
	q_ground []float64
	q_win    []float64
	q_inf    []float64
	q_vent   []float64
	q_solar  []float64
	q_int    []float64
	q_heat   []float64
}

func (r *ScheduledLoads) Len() int {
	return len(r.q_heat)
}

// Total loss [W] at step i across all envelope and air paths.
func (r *ScheduledLoads) loss_at(i int) float64 {
	return r.q_walls[i] + r.q_roof[i] + r.q_ground[i] + r.q_win[i] + r.q_inf[i] + r.q_vent[i]
}

/*
Run the scheduled heat balance over the weather series.

Every outdoor opaque element is driven by its sol-air temperature; the
heating demand is the positive residual of losses minus solar and
internal gains at the scheduled setpoint.

Args:

	b: building model
	w: weather series
	setpoints: indoor temperature schedule
	vent: ventilation air-change schedule [1/h]
	gain_w: constant internal gain [W]

Returns:

	hourly load series with per-path breakdown
*/
func RunScheduledBalance(b *Building, w *Weather, setpoints DaySchedule, vent DaySchedule, gain_w float64) (*ScheduledLoads, error) {
	if err := check_runtime(b); err != nil {
		return nil, err
	}
	if gain_w < 0.0 {
		return nil, &ConfigurationError{Field: "internal_gains.constant_w", Constraint: "must not be negative"}
	}

	n := w.Len()
	r := &ScheduledLoads{
		weather:  w,
		t_set:    setpoints.series(w.hour_ns),
		vent_ach: vent.series(w.hour_ns),
		q_walls:  make([]float64, n),
		q_roof:   make([]float64, n),
		q_ground: make([]float64, n),
		q_win:    make([]float64, n),
		q_inf:    make([]float64, n),
		q_vent:   make([]float64, n),
		q_solar:  make([]float64, n),
		q_int:    make([]float64, n),
		q_heat:   make([]float64, n),
	}

	for si := range b.envelope.surfaces {
		s := &b.envelope.surfaces[si]
		ua := s.u_value * s.area

		if s.boundary == BoundaryGround {
			for i := 0; i < n; i++ {
				r.q_ground[i] += ua * (r.t_set[i] - w.theta_g_m(w.m_ns[i]))
			}
			continue
		}

		is_roof := s.is_roof()
		for i := 0; i < n; i++ {
			i_p := s.irradiance(w.i_dn_ns[i], w.i_dif_ns[i], w.theta_s_ns[i], w.phi_s_ns[i])
			t_sol := s.sol_air(w.theta_o_ns[i], i_p, b.h_ext)
			q := ua * (r.t_set[i] - t_sol)
			if is_roof {
				r.q_roof[i] += q
			} else {
				r.q_walls[i] += q
			}
		}
	}

	ua_win := 0.0
	for wi := range b.envelope.windows {
		win := &b.envelope.windows[wi]
		ua_win += win.u_value * win.area

		for i := 0; i < n; i++ {
			i_p := win.irradiance(w.i_dn_ns[i], w.i_dif_ns[i], w.theta_s_ns[i], w.phi_s_ns[i])
			r.q_solar[i] += win.solar_gain(i_p)
		}
	}

	ua_inf := b.rho_air * b.cp_air * b.infiltration_flow()
	ua_mech := b.rho_air * b.cp_air * b.mech_flow * (1.0 - b.hrv_eff)

	for i := 0; i < n; i++ {
		dt := r.t_set[i] - w.theta_o_ns[i]
		r.q_win[i] = dt * ua_win
		r.q_inf[i] = dt * ua_inf
		r.q_vent[i] = dt * (ua_mech + b.ach_ua(r.vent_ach[i]))
		r.q_int[i] = gain_w

		r.q_heat[i] = math.Max(0.0, r.loss_at(i)-r.q_solar[i]-r.q_int[i])
	}

	return r, nil
}

// The solvers re-check the invariants they depend on even though the
// configuration layer validates them first.
func check_runtime(b *Building) error {
	if b.h_ext <= 0.0 {
		return &ConfigurationError{Field: "constants.h_ext", Constraint: "must be positive"}
	}
	for i := range b.envelope.surfaces {
		s := &b.envelope.surfaces[i]
		if s.area <= 0.0 || s.u_value <= 0.0 {
			return &ConfigurationError{Field: "surfaces." + s.name, Constraint: "area and u_value must be positive"}
		}
	}
	for i := range b.envelope.windows {
		w := &b.envelope.windows[i]
		if w.area <= 0.0 || w.u_value <= 0.0 {
			return &ConfigurationError{Field: "windows." + w.name, Constraint: "area and u_value must be positive"}
		}
	}
	return nil
}
