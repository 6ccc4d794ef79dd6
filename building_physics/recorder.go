package building_physics

// **** 結果の記録 ****
// CSV and text exports of the solver results. Every run gets its own
// directory under the output root, keyed by a short random id, so
// repeated runs never overwrite each other.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

const time_layout = "2006-01-02 15:04:05"

type Recorder struct {
	run_id string
	dir    string
}

func NewRecorder(base_dir string) (*Recorder, error) {
	run_id := uuid.New().String()[:8]
	dir := filepath.Join(base_dir, run_id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Recorder{run_id: run_id, dir: dir}, nil
}

func (r *Recorder) RunID() string {
	return r.run_id
}

func (r *Recorder) Dir() string {
	return r.dir
}

// Write one artifact into the run directory and return its path.
func (r *Recorder) save(name string, export func(io.Writer) error) (string, error) {
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create `%s`: %w", path, err)
	}
	defer f.Close()
	if err := export(f); err != nil {
		return "", fmt.Errorf("write `%s`: %w", path, err)
	}
	return path, nil
}

func (r *Recorder) save_text(name string, content string) (string, error) {
	return r.save(name, func(wr io.Writer) error {
		_, err := io.WriteString(wr, content)
		return err
	})
}

//-----//

func (r *DesignLoads) export_csv(wr io.Writer) error {
	var sb strings.Builder
	sb.WriteString(strings.Join([]string{
		"timestamp", "T_out_C",
		"Q_trans_heat_W", "Q_air_heat_W", "Q_heat_W",
		"Q_trans_cool_W", "Q_air_cool_W", "Q_solar_W", "Q_int_W", "Q_kitchen_W", "Q_cool_W",
	}, ","))
	sb.WriteString("\n")

	w := r.weather
	for n := 0; n < r.Len(); n++ {
		sb.WriteString(w.timestamps[n].Format(time_layout))
		sb.WriteString(fmt.Sprintf(",%g,%g,%g,%g,%g,%g,%g,%g,%g,%g",
			w.theta_o_ns[n],
			r.q_trans_h[n], r.q_air_h[n], r.q_heat[n],
			r.q_trans_c[n], r.q_air_c[n], r.q_solar[n], r.q_int[n], r.q_kitchen[n], r.q_cool[n]))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(wr, sb.String())
	return err
}

func (r *ScheduledLoads) export_csv(wr io.Writer) error {
	var sb strings.Builder
	sb.WriteString(strings.Join([]string{
		"timestamp", "T_out_C", "T_set_C", "vent_ACH",
		"Q_walls_W", "Q_roof_W", "Q_ground_W", "Q_win_W", "Q_inf_W", "Q_vent_W",
		"Q_solar_W", "Q_int_W", "Q_heat_W",
	}, ","))
	sb.WriteString("\n")

	w := r.weather
	for n := 0; n < r.Len(); n++ {
		sb.WriteString(w.timestamps[n].Format(time_layout))
		sb.WriteString(fmt.Sprintf(",%g,%g,%g,%g,%g,%g,%g,%g,%g,%g,%g,%g",
			w.theta_o_ns[n], r.t_set[n], r.vent_ach[n],
			r.q_walls[n], r.q_roof[n], r.q_ground[n], r.q_win[n], r.q_inf[n], r.q_vent[n],
			r.q_solar[n], r.q_int[n], r.q_heat[n]))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(wr, sb.String())
	return err
}

func (r *RCResult) export_csv(wr io.Writer) error {
	var sb strings.Builder

	header := []string{"timestamp", "T_out_C", "T_air_C", "Q_heat_W", "Q_cool_W", "Q_solar_W", "Q_int_W"}
	for _, name := range r.branch_names {
		header = append(header, fmt.Sprintf("T_mass_%s_C", name))
	}
	sb.WriteString(strings.Join(header, ","))
	sb.WriteString("\n")

	w := r.weather
	for n := 0; n < r.Len(); n++ {
		sb.WriteString(w.timestamps[n].Format(time_layout))
		sb.WriteString(fmt.Sprintf(",%g,%g,%g,%g,%g,%g",
			w.theta_o_ns[n], r.t_air[n], r.q_heat[n], r.q_cool[n], r.q_solar[n], r.q_int[n]))
		for bi := range r.t_mass {
			sb.WriteString(fmt.Sprintf(",%g", r.t_mass[bi][n]))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(wr, sb.String())
	return err
}

func (r *AnnualResult) export_monthly_csv(wr io.Writer) error {
	var sb strings.Builder
	sb.WriteString("month,heating_kWh,cooling_kWh\n")
	for m := 0; m < 12; m++ {
		sb.WriteString(fmt.Sprintf("%d,%g,%g\n", m+1, r.monthly_heating_kwh[m], r.monthly_cooling_kwh[m]))
	}
	_, err := io.WriteString(wr, sb.String())
	return err
}

func (r *AnnualResult) export_duration_csv(wr io.Writer) error {
	var sb strings.Builder
	sb.WriteString("rank,heating_kW,cooling_kW\n")
	for i := range r.duration_heating_kw {
		sb.WriteString(fmt.Sprintf("%d,%g,%g\n", i+1, r.duration_heating_kw[i], r.duration_cooling_kw[i]))
	}
	_, err := io.WriteString(wr, sb.String())
	return err
}

func (r *SensitivityResult) export_samples_csv(wr io.Writer) error {
	var sb strings.Builder
	sb.WriteString("param,val,val_norm,Q_winter_kWh,Q_shoulder_kWh\n")
	for _, s := range r.samples {
		sb.WriteString(fmt.Sprintf("%s,%g,%g,%g,%g\n", s.Param, s.Val, s.ValNorm, s.WinterKWh, s.ShoulderKWh))
	}
	_, err := io.WriteString(wr, sb.String())
	return err
}

func (r *SensitivityResult) export_table_csv(wr io.Writer) error {
	var sb strings.Builder
	sb.WriteString("param,Q_w_min_kWh,Q_w_max_kWh,NSC_w,rank_w,Q_s_min_kWh,Q_s_max_kWh,NSC_s,rank_s\n")
	for _, row := range r.table {
		sb.WriteString(fmt.Sprintf("%s,%g,%g,%g,%d,%g,%g,%g,%d\n",
			row.Param, row.WinterMin, row.WinterMax, row.WinterNSC, row.RankWinter,
			row.ShoulderMin, row.ShoulderMax, row.ShoulderNSC, row.RankShoulder))
	}
	_, err := io.WriteString(wr, sb.String())
	return err
}

//-----//

// Annual heat flow breakdown of one scheduled run, losses and gains
// with their share of the respective total.
func render_heat_flow_table(loads *ScheduledLoads) string {
	dt := loads.weather.itv.get_delta_t()

	losses := []struct {
		name string
		kwh  float64
	}{
		{"Walls", integrate_kwh(loads.q_walls, dt)},
		{"Roof", integrate_kwh(loads.q_roof, dt)},
		{"Ground", integrate_kwh(loads.q_ground, dt)},
		{"Windows", integrate_kwh(loads.q_win, dt)},
		{"Infiltration", integrate_kwh(loads.q_inf, dt)},
		{"Ventilation", integrate_kwh(loads.q_vent, dt)},
	}
	gains := []struct {
		name string
		kwh  float64
	}{
		{"Solar", integrate_kwh(loads.q_solar, dt)},
		{"Internal", integrate_kwh(loads.q_int, dt)},
		{"Heating", integrate_kwh(loads.q_heat, dt)},
	}

	total_loss, total_gain := 0.0, 0.0
	for _, l := range losses {
		total_loss += l.kwh
	}
	for _, g := range gains {
		total_gain += g.kwh
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 65) + "\n")
	sb.WriteString("Annual Heat Flow Breakdown\n")
	sb.WriteString(strings.Repeat("=", 65) + "\n")

	section := func(title string, rows []struct {
		name string
		kwh  float64
	}, total float64) {
		sb.WriteString(fmt.Sprintf("\n%-20s %12s %10s\n", title, "kWh", "%"))
		sb.WriteString(strings.Repeat("-", 44) + "\n")
		for _, row := range rows {
			share := 0.0
			if total != 0.0 {
				share = row.kwh / total * 100.0
			}
			sb.WriteString(fmt.Sprintf("  %-18s %10.0f %9.1f%%\n", row.name, row.kwh, share))
		}
		sb.WriteString(strings.Repeat("-", 44) + "\n")
		sb.WriteString(fmt.Sprintf("  %-18s %10.0f %10s\n", "Total", total, "100.0%"))
	}
	section("HEAT LOSSES", losses, total_loss)
	section("HEAT GAINS", gains, total_gain)

	return sb.String()
}

// Annual heating demand comparison across the scenarios.
func render_scenario_table(rs []*ScenarioResult) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 65) + "\n")
	sb.WriteString("Annual Heating Demand Comparison\n")
	sb.WriteString(strings.Repeat("=", 65) + "\n")
	sb.WriteString(fmt.Sprintf("\n%-35s %10s %10s %10s\n", "Scenario", "kWh", "kWh/m2", "vs base"))
	sb.WriteString(strings.Repeat("-", 67) + "\n")

	deltas := scenario_delta_pct(rs)
	for i, r := range rs {
		delta := "-"
		if i > 0 {
			delta = fmt.Sprintf("%+.1f%%", deltas[i])
		}
		sb.WriteString(fmt.Sprintf("  %-33s %8.0f %10.1f %10s\n",
			r.scenario.label, r.heating_kwh, r.heating_intensity, delta))
	}
	return sb.String()
}

// Ranked sensitivity coefficients for both reference weeks.
func render_sensitivity_table(r *SensitivityResult) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	sb.WriteString("Sensitivity of Weekly Heating Demand\n")
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	sb.WriteString(fmt.Sprintf("\n%-16s %18s %8s %4s %18s %8s %4s\n",
		"Parameter", "winter kWh", "NSC", "rank", "shoulder kWh", "NSC", "rank"))
	sb.WriteString(strings.Repeat("-", 78) + "\n")
	for _, row := range r.table {
		sb.WriteString(fmt.Sprintf("  %-14s %8.1f - %7.1f %+8.3f %4d %8.1f - %7.1f %+8.3f %4d\n",
			row.Param,
			row.WinterMin, row.WinterMax, row.WinterNSC, row.RankWinter,
			row.ShoulderMin, row.ShoulderMax, row.ShoulderNSC, row.RankShoulder))
	}
	sb.WriteString(fmt.Sprintf("\nBase week demand: winter %.1f kWh, shoulder %.1f kWh\n",
		r.base_winter_kwh, r.base_shoulder_kwh))
	return sb.String()
}

// Design condition summary for both seasons.
func render_design_summary(heating *DesignDay, cooling *DesignDay, hl *DesignLoads, cl *DesignLoads) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 65) + "\n")
	sb.WriteString("Design Day Summary\n")
	sb.WriteString(strings.Repeat("=", 65) + "\n\n")

	row := func(d *DesignDay, loads *DesignLoads, peak func(*DesignLoads) (float64, string)) {
		p, unit := peak(loads)
		sb.WriteString(fmt.Sprintf("%-8s  percentile %5.1f  design temp %6.1f C  extreme %s\n",
			d.kind.String(), d.percentile, d.design_temp, d.extreme_at.Format(time_layout)))
		sb.WriteString(fmt.Sprintf("          peak %s %.2f kW\n\n", unit, p/1000.0))
	}
	row(heating, hl, func(l *DesignLoads) (float64, string) {
		p, _ := l.PeakHeating()
		return p, "heating"
	})
	row(cooling, cl, func(l *DesignLoads) (float64, string) {
		p, _ := l.PeakCooling()
		return p, "cooling"
	})

	return sb.String()
}

// Construction comparison of the RC runs: heating load statistics and
// per-branch mass temperatures, lightweight against heavyweight.
func render_rc_summary(light *RCResult, heavy *RCResult) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 65) + "\n")
	sb.WriteString("Thermal Mass Comparison\n")
	sb.WriteString(strings.Repeat("=", 65) + "\n")

	kw := func(q []float64) []float64 {
		out := make([]float64, len(q))
		for i := range q {
			out[i] = q[i] / 1000.0
		}
		return out
	}
	q_lw := kw(light.q_heat)
	q_hw := kw(heavy.q_heat)

	sb.WriteString("\nHeating load (kW):\n")
	sb.WriteString(fmt.Sprintf("  Lightweight: mean=%.3f, std=%.3f\n", stat.Mean(q_lw, nil), stat.StdDev(q_lw, nil)))
	sb.WriteString(fmt.Sprintf("  Heavyweight: mean=%.3f, std=%.3f\n", stat.Mean(q_hw, nil), stat.StdDev(q_hw, nil)))

	total_lw := light.HeatingKWh()
	total_hw := heavy.HeatingKWh()
	sb.WriteString("\nAnnual heating (kWh):\n")
	sb.WriteString(fmt.Sprintf("  Lightweight: %.1f kWh\n", total_lw))
	delta := ""
	if total_lw > 0.0 {
		delta = fmt.Sprintf(" (%+.1f%%)", (total_hw-total_lw)/total_lw*100.0)
	}
	sb.WriteString(fmt.Sprintf("  Heavyweight: %.1f kWh%s\n", total_hw, delta))

	sb.WriteString("\nThermal mass temps (mean/std):\n")
	for j, name := range light.branch_names {
		sb.WriteString(fmt.Sprintf("  %s: LW %.1fC (std %.2f), HW %.1fC (std %.2f)\n",
			name,
			stat.Mean(light.t_mass[j], nil), stat.StdDev(light.t_mass[j], nil),
			stat.Mean(heavy.t_mass[j], nil), stat.StdDev(heavy.t_mass[j], nil)))
	}
	return sb.String()
}

// Annual energy summary of the design-path balance.
func render_annual_summary(r *AnnualResult, floor_area float64) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 65) + "\n")
	sb.WriteString("Annual Energy Summary\n")
	sb.WriteString(strings.Repeat("=", 65) + "\n\n")
	sb.WriteString(fmt.Sprintf("%-10s %14s %14s\n", "month", "heating kWh", "cooling kWh"))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for m := 0; m < 12; m++ {
		sb.WriteString(fmt.Sprintf("%-10d %14.0f %14.0f\n", m+1, r.monthly_heating_kwh[m], r.monthly_cooling_kwh[m]))
	}
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("%-10s %14.0f %14.0f\n", "total", r.heating_kwh, r.cooling_kwh))
	sb.WriteString(fmt.Sprintf("\nIntensity: heating %.1f kWh/m2a, cooling %.1f kWh/m2a (floor area %.0f m2)\n",
		r.heating_intensity, r.cooling_intensity, floor_area))
	sb.WriteString(fmt.Sprintf("Peak: heating %.2f kW at %s, cooling %.2f kW at %s\n",
		r.peak_heating_w/1000.0, r.peak_heating_at.Format(time_layout),
		r.peak_cooling_w/1000.0, r.peak_cooling_at.Format(time_layout)))
	return sb.String()
}
