package building_physics

// **** 年間熱負荷と運転シナリオ ****
// Annual energy aggregation on top of the hourly balances: monthly and
// yearly demand totals, load-duration curves, the four operation
// scenarios and the split of solar gains into useful and excess parts.

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Annual energy summary of the design-path balance.
type AnnualResult struct {
	loads *DesignLoads

	monthly_heating_kwh [12]float64
	monthly_cooling_kwh [12]float64
	heating_kwh         float64
	cooling_kwh         float64
	heating_intensity   float64 // [kWh/m2a]
	cooling_intensity   float64 // [kWh/m2a]

	peak_heating_w  float64
	peak_cooling_w  float64
	peak_heating_at time.Time
	peak_cooling_at time.Time

	duration_heating_kw []float64
	duration_cooling_kw []float64
}

/*
Run the design-path balance over a full year and aggregate energy.

Args:

	b: building model
	w: annual hourly weather series

Returns:

	annual summary, or DataError when the series does not cover a year
*/
func RunAnnual(b *Building, w *Weather) (*AnnualResult, error) {
	if err := w.validate_annual(w.station); err != nil {
		return nil, err
	}

	loads, err := RunHeatBalance(b, w)
	if err != nil {
		return nil, err
	}

	r := &AnnualResult{
		loads:               loads,
		monthly_heating_kwh: monthly_kwh(loads.q_heat, w),
		monthly_cooling_kwh: monthly_kwh(loads.q_cool, w),
		duration_heating_kw: load_duration_kw(loads.q_heat),
		duration_cooling_kw: load_duration_kw(loads.q_cool),
	}
	r.heating_kwh = floats.Sum(r.monthly_heating_kwh[:])
	r.cooling_kwh = floats.Sum(r.monthly_cooling_kwh[:])
	r.heating_intensity = r.heating_kwh / b.floor_area
	r.cooling_intensity = r.cooling_kwh / b.floor_area
	r.peak_heating_w, r.peak_heating_at = loads.PeakHeating()
	r.peak_cooling_w, r.peak_cooling_at = loads.PeakCooling()

	return r, nil
}

func (r *AnnualResult) HeatingKWh() float64 {
	return r.heating_kwh
}

func (r *AnnualResult) CoolingKWh() float64 {
	return r.cooling_kwh
}

// Sum the demand series into calendar months [kWh].
func monthly_kwh(q []float64, w *Weather) [12]float64 {
	var out [12]float64
	dt := w.itv.get_delta_t()
	for i := range q {
		out[w.m_ns[i]-1] += q[i] * dt / 3.6e6
	}
	return out
}

// Demand samples sorted from largest to smallest [kW].
func load_duration_kw(q []float64) []float64 {
	out := make([]float64, len(q))
	for i := range q {
		out[i] = q[i] / 1000.0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

//-----//

// Ventilation air changes of the boosted day/night scenarios [1/h].
const (
	vent_day_ach   = 0.7
	vent_night_ach = 0.3
)

// One operation scenario of the scheduled balance.
type Scenario struct {
	name      string
	label     string
	setpoints DaySchedule
	vent      DaySchedule
	gain_w    float64
}

func (s Scenario) Name() string {
	return s.name
}

func (s Scenario) Label() string {
	return s.label
}

/*
The four operation scenarios: constant or setback heating setpoint
crossed with constant or day-boosted ventilation. The constant air
change rate comes from the building configuration, so a configuration
override propagates into S1 and S2.

Args:

	cfg: building configuration

Returns:

	scenarios in fixed order, S1 first
*/
func BuiltinScenarios(cfg Config) []Scenario {
	heat := cfg.Setpoints.HeatingC
	setback := cfg.Setpoints.SetbackC
	ach := cfg.Ventilation.InfiltrationACH
	day_start := cfg.Setpoints.DayStartH
	day_end := cfg.Setpoints.DayEndH
	gain := cfg.Gains.ConstantW

	constant := NewConstantSchedule(heat)
	sched := NewDayNightSchedule(heat, setback, day_start, day_end)
	vent_const := NewConstantSchedule(ach)
	vent_sched := NewDayNightSchedule(vent_day_ach, vent_night_ach, day_start, day_end)

	return []Scenario{
		{
			name:      "S1",
			label:     fmt.Sprintf("S1: Const. %.0f°C, %.1f ACH", heat, ach),
			setpoints: constant,
			vent:      vent_const,
			gain_w:    gain,
		},
		{
			name:      "S2",
			label:     fmt.Sprintf("S2: Sched. %.0f/%.0f°C, %.1f ACH", heat, setback, ach),
			setpoints: sched,
			vent:      vent_const,
			gain_w:    gain,
		},
		{
			name:      "S3",
			label:     fmt.Sprintf("S3: Const. %.0f°C, %.1f/%.1f ACH", heat, vent_day_ach, vent_night_ach),
			setpoints: constant,
			vent:      vent_sched,
			gain_w:    gain,
		},
		{
			name:      "S4",
			label:     fmt.Sprintf("S4: Sched. %.0f/%.0f°C, %.1f/%.1f ACH", heat, setback, vent_day_ach, vent_night_ach),
			setpoints: sched,
			vent:      vent_sched,
			gain_w:    gain,
		},
	}
}

// Scenario outcome with the aggregates the report tables and charts
// are built from. Monthly columns are means of daily energy [kWh/day],
// weekly profiles are hour-of-day means [kW].
type ScenarioResult struct {
	scenario Scenario
	loads    *ScheduledLoads

	heating_kwh       float64
	heating_intensity float64 // [kWh/m2a]

	monthly_heating  [12]float64
	monthly_internal [12]float64
	monthly_useful   [12]float64
	monthly_excess   [12]float64

	useful_solar_kwh float64
	excess_solar_kwh float64

	winter_kwh       float64
	shoulder_kwh     float64
	winter_profile   [24]float64
	shoulder_profile [24]float64
}

func (r *ScenarioResult) Scenario() Scenario {
	return r.scenario
}

func (r *ScenarioResult) HeatingKWh() float64 {
	return r.heating_kwh
}

/*
Run every scenario against the annual weather series.

The scenario air change replaces the fixed infiltration of the
configuration, so the schedule value is the total natural air exchange.

Args:

	cfg: building configuration
	w: annual hourly weather series

Returns:

	one result per scenario, same order as BuiltinScenarios
*/
func RunScenarios(cfg Config, w *Weather) ([]*ScenarioResult, error) {
	return run_scenario_set(cfg, w, BuiltinScenarios(cfg))
}

func run_scenario_set(cfg Config, w *Weather, scs []Scenario) ([]*ScenarioResult, error) {
	if err := w.validate_annual(w.station); err != nil {
		return nil, err
	}

	scfg := cfg.clone()
	scfg.Ventilation.InfiltrationACH = 0.0
	b, err := NewBuilding(scfg)
	if err != nil {
		return nil, err
	}

	var out []*ScenarioResult
	for _, sc := range scs {
		loads, err := RunScheduledBalance(b, w, sc.setpoints, sc.vent, sc.gain_w)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize_scenario(sc, b, loads))
	}
	return out, nil
}

func summarize_scenario(sc Scenario, b *Building, loads *ScheduledLoads) *ScenarioResult {
	w := loads.weather
	dt := w.itv.get_delta_t()

	r := &ScenarioResult{scenario: sc, loads: loads}
	r.heating_kwh = integrate_kwh(loads.q_heat, dt)
	r.heating_intensity = r.heating_kwh / b.floor_area

	daily := split_daily(loads)
	for _, d := range daily {
		m := d.month - 1
		r.monthly_heating[m] += d.heat_kwh
		r.monthly_internal[m] += d.int_kwh
		r.monthly_useful[m] += d.useful_kwh
		r.monthly_excess[m] += d.excess_kwh
	}
	var days [12]float64
	for _, d := range daily {
		days[d.month-1]++
	}
	for m := 0; m < 12; m++ {
		if days[m] == 0 {
			continue
		}
		r.monthly_heating[m] /= days[m]
		r.monthly_internal[m] /= days[m]
		r.monthly_useful[m] /= days[m]
		r.monthly_excess[m] /= days[m]
	}

	r.useful_solar_kwh, r.excess_solar_kwh = split_solar(
		integrate_kwh(loads.q_solar, dt),
		integrate_kwh(loads.q_int, dt),
		r.heating_kwh,
		integrate_kwh(loss_series(loads), dt),
	)

	winter := week_mask(w, time.January, 8, 14)
	shoulder := week_mask(w, time.October, 7, 13)
	r.winter_kwh = masked_kwh(loads.q_heat, winter, dt)
	r.shoulder_kwh = masked_kwh(loads.q_heat, shoulder, dt)
	r.winter_profile = hourly_profile_kw(loads.q_heat, winter, w.hour_ns)
	r.shoulder_profile = hourly_profile_kw(loads.q_heat, shoulder, w.hour_ns)

	return r
}

// Daily energy of one calendar day [kWh].
type daily_energy struct {
	month      int
	heat_kwh   float64
	int_kwh    float64
	solar_kwh  float64
	loss_kwh   float64
	useful_kwh float64
	excess_kwh float64
}

// Group the scheduled series into calendar days and split the daily
// solar gain into the part that offsets losses and the surplus.
func split_daily(loads *ScheduledLoads) []daily_energy {
	w := loads.weather
	dt := w.itv.get_delta_t()

	var out []daily_energy
	day := -1
	for i := 0; i < loads.Len(); i++ {
		d := w.timestamps[i].YearDay()
		if d != day {
			out = append(out, daily_energy{month: w.m_ns[i]})
			day = d
		}
		cur := &out[len(out)-1]
		cur.heat_kwh += loads.q_heat[i] * dt / 3.6e6
		cur.int_kwh += loads.q_int[i] * dt / 3.6e6
		cur.solar_kwh += loads.q_solar[i] * dt / 3.6e6
		cur.loss_kwh += loads.loss_at(i) * dt / 3.6e6
	}
	for i := range out {
		d := &out[i]
		d.useful_kwh, d.excess_kwh = split_solar(d.solar_kwh, d.int_kwh, d.heat_kwh, d.loss_kwh)
	}
	return out
}

// Solar gain beyond what the balance can absorb is excess; the rest is
// useful. All terms share one unit.
func split_solar(solar, internal, heating, losses float64) (useful float64, excess float64) {
	useful = math.Max(0.0, solar-math.Max(0.0, solar+internal+heating-losses))
	return useful, solar - useful
}

func loss_series(loads *ScheduledLoads) []float64 {
	out := make([]float64, loads.Len())
	for i := range out {
		out[i] = loads.loss_at(i)
	}
	return out
}

// Steps falling on the given month and day range, bounds inclusive.
func week_mask(w *Weather, month time.Month, day_lo int, day_hi int) []bool {
	mask := make([]bool, len(w.timestamps))
	for i, ts := range w.timestamps {
		mask[i] = ts.Month() == month && ts.Day() >= day_lo && ts.Day() <= day_hi
	}
	return mask
}

func masked_kwh(q []float64, mask []bool, dt float64) float64 {
	sum := 0.0
	for i := range q {
		if mask[i] {
			sum += q[i]
		}
	}
	return sum * dt / 3.6e6
}

// Mean demand per hour of day over the masked steps [kW].
func hourly_profile_kw(q []float64, mask []bool, hour_ns []int) [24]float64 {
	var sum, cnt [24]float64
	for i := range q {
		if mask[i] {
			sum[hour_ns[i]] += q[i]
			cnt[hour_ns[i]]++
		}
	}
	var out [24]float64
	for h := 0; h < 24; h++ {
		if cnt[h] > 0 {
			out[h] = sum[h] / cnt[h] / 1000.0
		}
	}
	return out
}

// Percent change of annual heating energy against the first result.
// The first entry is zero by construction.
func scenario_delta_pct(rs []*ScenarioResult) []float64 {
	out := make([]float64, len(rs))
	if len(rs) == 0 || rs[0].heating_kwh == 0.0 {
		return out
	}
	base := rs[0].heating_kwh
	for i := range rs {
		out[i] = (rs[i].heating_kwh - base) / base * 100.0
	}
	return out
}
