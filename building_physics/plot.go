package building_physics

// **** 図表出力 ****
// PNG charts mirroring the report figures: monthly gain breakdown,
// scenario comparison, reference-week profiles, sensitivity scatter
// and ranking, annual demand and the construction comparison. Chart
// generation is best-effort; callers log failures and move on.

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var month_labels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func hex_color(v uint32) color.Color {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}

// Report palette.
var (
	col_solar    = hex_color(0xCD853F)
	col_excess   = hex_color(0xE8C89E)
	col_internal = hex_color(0x8B0000)
	col_heating  = hex_color(0x2C3E50)
	col_temp     = hex_color(0x1B4D3E)
	col_winter   = hex_color(0x1A365D)
	col_shoulder = hex_color(0xE67300)

	col_scenarios = []color.Color{
		hex_color(0x4A4A4A),
		hex_color(0x2563EB),
		hex_color(0xDC2626),
		hex_color(0x7C3AED),
	}
)

// Stacked bars of the average daily heat gains per month for one
// scenario: heating, internal, useful solar and excess solar.
func plot_monthly_gains(r *ScenarioResult, path string) error {
	p := plot.New()
	p.Title.Text = "Monthly Heat Gain Breakdown (" + r.scenario.label + ")"
	p.Y.Label.Text = "Average Daily Heat Gain (kWh/day)"

	width := vg.Points(18)
	var prev *plotter.BarChart
	comps := []struct {
		name string
		vals [12]float64
		col  color.Color
	}{
		{"Heating", r.monthly_heating, col_heating},
		{"Internal", r.monthly_internal, col_internal},
		{"Solar (Useful)", r.monthly_useful, col_solar},
		{"Excess Solar", r.monthly_excess, col_excess},
	}
	for _, comp := range comps {
		bars, err := plotter.NewBarChart(plotter.Values(comp.vals[:]), width)
		if err != nil {
			return err
		}
		bars.Color = comp.col
		bars.LineStyle.Width = 0
		if prev != nil {
			bars.StackOn(prev)
		}
		p.Add(bars)
		p.Legend.Add(comp.name, bars)
		prev = bars
	}

	p.NominalX(month_labels...)
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// Annual heating demand per scenario.
func plot_scenario_comparison(rs []*ScenarioResult, path string) error {
	p := plot.New()
	p.Title.Text = "Annual Heating Demand by Scenario"
	p.Y.Label.Text = "Heating Demand (kWh)"

	vals := make(plotter.Values, len(rs))
	names := make([]string, len(rs))
	for i, r := range rs {
		vals[i] = r.heating_kwh
		names[i] = r.scenario.name
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = col_scenarios[0]
	p.Add(bars)
	p.NominalX(names...)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// Hour-of-day heating profiles of all scenarios for one reference
// week.
func plot_week_profiles(rs []*ScenarioResult, winter bool, path string) error {
	p := plot.New()
	if winter {
		p.Title.Text = "Winter Week Heating Profile"
	} else {
		p.Title.Text = "Shoulder Week Heating Profile"
	}
	p.X.Label.Text = "Hour of Day"
	p.Y.Label.Text = "Mean Heating Demand (kW)"

	for i, r := range rs {
		profile := r.winter_profile
		if !winter {
			profile = r.shoulder_profile
		}
		pts := make(plotter.XYs, len(profile))
		for h := range profile {
			pts[h].X = float64(h)
			pts[h].Y = profile[h]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = col_scenarios[i%len(col_scenarios)]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(r.scenario.label, line)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// One scatter chart per swept parameter, winter and shoulder weeks
// side by side.
func plot_sensitivity_scatter(r *SensitivityResult, dir string) error {
	for _, param := range sensitivity_params {
		p := plot.New()
		p.Title.Text = param
		p.X.Label.Text = param
		p.Y.Label.Text = "Weekly Heating (kWh)"

		var winter, shoulder plotter.XYs
		for _, s := range r.samples {
			if s.Param != param {
				continue
			}
			winter = append(winter, plotter.XY{X: s.Val, Y: s.WinterKWh})
			shoulder = append(shoulder, plotter.XY{X: s.Val, Y: s.ShoulderKWh})
		}

		sw, err := plotter.NewScatter(winter)
		if err != nil {
			return err
		}
		sw.Color = col_winter
		ss, err := plotter.NewScatter(shoulder)
		if err != nil {
			return err
		}
		ss.Color = col_shoulder

		p.Add(sw, ss, plotter.NewGrid())
		p.Legend.Add("Winter", sw)
		p.Legend.Add("Shoulder", ss)
		p.Legend.Top = true

		name := fmt.Sprintf("fig7_sensitivity_%s.png", strings.ReplaceAll(strings.ToLower(param), " ", "_"))
		if err := p.Save(5*vg.Inch, 4*vg.Inch, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// Horizontal bars of the sensitivity coefficients, strongest
// parameter on top.
func plot_sensitivity_ranking(r *SensitivityResult, path string) error {
	p := plot.New()
	p.Title.Text = "Sensitivity Ranking"
	p.X.Label.Text = "NSC (Normalised Sensitivity Coefficient)"

	// Ascending order puts the strongest parameter at the top row.
	rows := r.ranked_rows()
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	winter := make(plotter.Values, len(rows))
	shoulder := make(plotter.Values, len(rows))
	names := make([]string, len(rows))
	for i, row := range rows {
		winter[i] = row.WinterNSC
		shoulder[i] = row.ShoulderNSC
		names[i] = row.Param
	}

	height := vg.Points(10)
	bw, err := plotter.NewBarChart(winter, height)
	if err != nil {
		return err
	}
	bw.Horizontal = true
	bw.Color = col_winter
	bw.Offset = -height / 2

	bs, err := plotter.NewBarChart(shoulder, height)
	if err != nil {
		return err
	}
	bs.Horizontal = true
	bs.Color = col_shoulder
	bs.Offset = height / 2

	p.Add(bw, bs)
	p.Legend.Add("Winter", bw)
	p.Legend.Add("Shoulder", bs)
	p.NominalY(names...)
	return p.Save(7*vg.Inch, 5*vg.Inch, path)
}

// Hourly demand over the heating and cooling design days.
func plot_design_days(hl *DesignLoads, cl *DesignLoads, path string) error {
	p := plot.New()
	p.Title.Text = "Design Day Load Profiles"
	p.X.Label.Text = "Hour of Day"
	p.Y.Label.Text = "Demand (kW)"

	add := func(loads *DesignLoads, q []float64, name string, col color.Color) error {
		pts := make(plotter.XYs, len(q))
		for i := range q {
			pts[i].X = float64(loads.weather.hour_ns[i])
			pts[i].Y = q[i] / 1000.0
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = col
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(name, line)
		return nil
	}
	if err := add(hl, hl.q_heat, "Heating design day", col_heating); err != nil {
		return err
	}
	if err := add(cl, cl.q_cool, "Cooling design day", col_shoulder); err != nil {
		return err
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p.Save(7*vg.Inch, 4*vg.Inch, path)
}

// Monthly heating and cooling energy of the annual balance.
func plot_annual_monthly(r *AnnualResult, path string) error {
	p := plot.New()
	p.Title.Text = "Monthly Energy Demand"
	p.Y.Label.Text = "Energy (kWh)"

	width := vg.Points(12)
	heat, err := plotter.NewBarChart(plotter.Values(r.monthly_heating_kwh[:]), width)
	if err != nil {
		return err
	}
	heat.Color = col_heating
	heat.Offset = -width / 2

	cool, err := plotter.NewBarChart(plotter.Values(r.monthly_cooling_kwh[:]), width)
	if err != nil {
		return err
	}
	cool.Color = col_winter
	cool.Offset = width / 2

	p.Add(heat, cool)
	p.Legend.Add("Heating", heat)
	p.Legend.Add("Cooling", cool)
	p.NominalX(month_labels...)
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// Monthly mean outdoor temperature. Drawn as a companion chart to the
// monthly demand bars since a second y axis is not available.
func plot_monthly_temperature(w *Weather, path string) error {
	p := plot.New()
	p.Title.Text = "Monthly Mean Outdoor Temperature"
	p.Y.Label.Text = "Temperature (C)"

	var sum, count [12]float64
	for i, m := range w.m_ns {
		sum[m-1] += w.theta_o_ns[i]
		count[m-1]++
	}
	pts := make(plotter.XYs, 12)
	for m := 0; m < 12; m++ {
		pts[m].X = float64(m)
		if count[m] > 0 {
			pts[m].Y = sum[m] / count[m]
		}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = col_temp
	line.Width = vg.Points(1.5)
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.Color = col_temp

	p.Add(line, scatter, plotter.NewGrid())
	p.NominalX(month_labels...)
	return p.Save(7*vg.Inch, 4*vg.Inch, path)
}

// Load-duration curves of the annual balance.
func plot_load_duration(r *AnnualResult, path string) error {
	p := plot.New()
	p.Title.Text = "Load Duration Curves"
	p.X.Label.Text = "Hours"
	p.Y.Label.Text = "Demand (kW)"

	add := func(q []float64, name string, col color.Color) error {
		pts := make(plotter.XYs, len(q))
		for i := range q {
			pts[i].X = float64(i)
			pts[i].Y = q[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = col
		p.Add(line)
		p.Legend.Add(name, line)
		return nil
	}
	if err := add(r.duration_heating_kw, "Heating", col_heating); err != nil {
		return err
	}
	if err := add(r.duration_cooling_kw, "Cooling", col_winter); err != nil {
		return err
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p.Save(7*vg.Inch, 4*vg.Inch, path)
}

// Construction comparison charts follow the reference week of the mass
// study, Jan 11 to Jan 17.
func rc_week_mask(w *Weather) []bool {
	return week_mask(w, time.January, 11, 17)
}

// Collects the masked samples of v into an hour-indexed line.
func masked_line(w *Weather, v []float64, mask []bool) plotter.XYs {
	var pts plotter.XYs
	h := 0.0
	step := w.itv.get_delta_t() / 3600.0
	for i := range v {
		if mask[i] {
			pts = append(pts, plotter.XY{X: h, Y: v[i]})
			h += step
		}
	}
	return pts
}

func setpoint_rule(t float64, hours float64) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: t}, {X: hours, Y: t}})
	if err != nil {
		return nil, err
	}
	line.Color = color.Gray{Y: 0x88}
	line.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	return line, nil
}

// Mass-node temperatures of one RC run over the reference week, with
// the outdoor series dashed and the setpoint as a dotted rule.
func plot_rc_mass_temps(r *RCResult, t_set float64, title string, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Hour of Week"
	p.Y.Label.Text = "Temperature (C)"

	mask := rc_week_mask(r.weather)

	outdoor, err := plotter.NewLine(masked_line(r.weather, r.weather.theta_o_ns, mask))
	if err != nil {
		return err
	}
	outdoor.Color = color.Black
	outdoor.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
	p.Add(outdoor)
	p.Legend.Add("Outdoor", outdoor)

	for j, name := range r.branch_names {
		line, err := plotter.NewLine(masked_line(r.weather, r.t_mass[j], mask))
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(j)
		line.Width = vg.Points(1.2)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	rule, err := setpoint_rule(t_set, 7.0*24.0)
	if err != nil {
		return err
	}
	p.Add(rule, plotter.NewGrid())
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// Hourly heating demand of both construction classes over the
// reference week.
func plot_rc_heating_week(light *RCResult, heavy *RCResult, path string) error {
	p := plot.New()
	p.Title.Text = "Hourly Heating Demand"
	p.X.Label.Text = "Hour of Week"
	p.Y.Label.Text = "Heating Load (kW)"

	add := func(r *RCResult, name string, col color.Color) error {
		q := make([]float64, len(r.q_heat))
		for i := range q {
			q[i] = r.q_heat[i] / 1000.0
		}
		line, err := plotter.NewLine(masked_line(r.weather, q, rc_week_mask(r.weather)))
		if err != nil {
			return err
		}
		line.Color = col
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(name, line)
		return nil
	}
	if err := add(light, "Lightweight", col_scenarios[1]); err != nil {
		return err
	}
	if err := add(heavy, "Heavyweight", col_scenarios[2]); err != nil {
		return err
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// Heating load difference, heavyweight minus lightweight, filled to
// the zero line.
func plot_rc_difference(light *RCResult, heavy *RCResult, path string) error {
	p := plot.New()
	p.Title.Text = "Heating Load Difference (Heavyweight vs Lightweight)"
	p.X.Label.Text = "Hour of Week"
	p.Y.Label.Text = "Difference (kW)"

	diff := make([]float64, len(light.q_heat))
	for i := range diff {
		diff[i] = (heavy.q_heat[i] - light.q_heat[i]) / 1000.0
	}
	line, err := plotter.NewLine(masked_line(light.weather, diff, rc_week_mask(light.weather)))
	if err != nil {
		return err
	}
	line.Color = col_scenarios[2]
	line.FillColor = color.RGBA{R: 0xDC, G: 0x26, B: 0x26, A: 0x40}

	zero, err := setpoint_rule(0.0, 7.0*24.0)
	if err != nil {
		return err
	}
	p.Add(line, zero, plotter.NewGrid())
	return p.Save(8*vg.Inch, 3*vg.Inch, path)
}

// Free-floating air temperature of the two construction classes over
// the reference week, with the outdoor temperature and the heating
// setpoint for scale.
func plot_construction_comparison(light *RCResult, heavy *RCResult, t_set float64, path string) error {
	p := plot.New()
	p.Title.Text = "Free-Floating Air Temperature, Winter Week"
	p.X.Label.Text = "Hour of Week"
	p.Y.Label.Text = "Temperature (C)"

	add := func(r *RCResult, v []float64, name string, col color.Color, dashed bool) error {
		line, err := plotter.NewLine(masked_line(r.weather, v, rc_week_mask(r.weather)))
		if err != nil {
			return err
		}
		line.Color = col
		if dashed {
			line.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		} else {
			line.Width = vg.Points(1.5)
		}
		p.Add(line)
		p.Legend.Add(name, line)
		return nil
	}
	if err := add(light, light.t_air, "Lightweight", col_scenarios[1], false); err != nil {
		return err
	}
	if err := add(heavy, heavy.t_air, "Heavyweight", col_scenarios[2], false); err != nil {
		return err
	}
	if err := add(light, light.weather.theta_o_ns, "Outdoor", col_temp, true); err != nil {
		return err
	}

	rule, err := setpoint_rule(t_set, 7.0*24.0)
	if err != nil {
		return err
	}
	p.Add(rule, plotter.NewGrid())
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
