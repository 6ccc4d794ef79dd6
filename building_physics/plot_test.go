package building_physics

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Every chart function gets called once with small inputs; the test
// only asserts that a non-empty PNG lands on disk.
func TestChartsAreWritten(t *testing.T) {
	dir := t.TempDir()

	cfg := StudyConfig()
	scenarios := BuiltinScenarios(cfg)
	rs := make([]*ScenarioResult, len(scenarios))
	for i, sc := range scenarios {
		r := &ScenarioResult{scenario: sc, heating_kwh: 3000.0 - float64(i)*200.0}
		for m := 0; m < 12; m++ {
			r.monthly_heating[m] = 10.0 - float64(m)*0.5
			r.monthly_internal[m] = 4.8
			r.monthly_useful[m] = 2.0 + float64(m)*0.1
			r.monthly_excess[m] = 0.5
		}
		for h := 0; h < 24; h++ {
			r.winter_profile[h] = 1.5 + 0.5*math.Sin(float64(h))
			r.shoulder_profile[h] = 0.4
		}
		rs[i] = r
	}

	sens := &SensitivityResult{base_winter_kwh: 120.0, base_shoulder_kwh: 45.0}
	for _, param := range sensitivity_params {
		for i := 0; i < 3; i++ {
			v := float64(i)
			sens.samples = append(sens.samples, SweepSample{
				Param:       param,
				Val:         v,
				ValNorm:     v / 2.0,
				WinterKWh:   120.0 + 10.0*v,
				ShoulderKWh: 45.0 + 2.0*v,
			})
		}
	}
	sens.table = sensitivity_table(sens)

	day := test_weather(24, func(i int) (float64, float64, float64) {
		return -10.0 + float64(i%24), 300.0, 50.0
	})
	b, err := NewBuilding(test_wall_config())
	if err != nil {
		t.Fatalf("NewBuilding: %v", err)
	}
	dl, err := RunHeatBalance(b, day)
	if err != nil {
		t.Fatalf("RunHeatBalance: %v", err)
	}

	annual := &AnnualResult{}
	for m := 0; m < 12; m++ {
		annual.monthly_heating_kwh[m] = 400.0 - float64(m)*20.0
		annual.monthly_cooling_kwh[m] = float64(m) * 5.0
	}
	for i := 0; i < 200; i++ {
		annual.duration_heating_kw = append(annual.duration_heating_kw, 8.0-float64(i)*0.04)
		annual.duration_cooling_kw = append(annual.duration_cooling_kw, 2.0-float64(i)*0.01)
	}

	rc_weather := test_weather(15*24, func(i int) (float64, float64, float64) {
		return -5.0 + 8.0*math.Sin(2.0*math.Pi*float64(i%24)/24.0), 0.0, 100.0
	})
	light := &RCResult{weather: rc_weather, itv: IntervalH1, branch_names: []string{"Roof", "Wall-S"}}
	heavy := &RCResult{weather: rc_weather, itv: IntervalH1, branch_names: []string{"Roof", "Wall-S"}}
	light.t_mass = make([][]float64, 2)
	heavy.t_mass = make([][]float64, 2)
	for i := 0; i < 15*24; i++ {
		phase := 2.0 * math.Pi * float64(i%24) / 24.0
		light.t_air = append(light.t_air, 10.0+6.0*math.Sin(phase))
		heavy.t_air = append(heavy.t_air, 10.0+2.0*math.Sin(phase))
		light.q_heat = append(light.q_heat, 800.0+400.0*math.Sin(phase))
		heavy.q_heat = append(heavy.q_heat, 750.0+200.0*math.Sin(phase))
		for j := 0; j < 2; j++ {
			light.t_mass[j] = append(light.t_mass[j], 8.0+5.0*math.Sin(phase))
			heavy.t_mass[j] = append(heavy.t_mass[j], 9.0+1.5*math.Sin(phase))
		}
	}

	charts := []struct {
		name string
		run  func(path string) error
	}{
		{"fig2_monthly_gains.png", func(p string) error { return plot_monthly_gains(rs[0], p) }},
		{"fig4_scenarios.png", func(p string) error { return plot_scenario_comparison(rs, p) }},
		{"fig5_winter_week.png", func(p string) error { return plot_week_profiles(rs, true, p) }},
		{"fig6_shoulder_week.png", func(p string) error { return plot_week_profiles(rs, false, p) }},
		{"fig8_ranking.png", func(p string) error { return plot_sensitivity_ranking(sens, p) }},
		{"design_days.png", func(p string) error { return plot_design_days(dl, dl, p) }},
		{"annual_monthly.png", func(p string) error { return plot_annual_monthly(annual, p) }},
		{"monthly_temperature.png", func(p string) error { return plot_monthly_temperature(rc_weather, p) }},
		{"load_duration.png", func(p string) error { return plot_load_duration(annual, p) }},
		{"rc_free_float.png", func(p string) error { return plot_construction_comparison(light, heavy, 21.0, p) }},
		{"rc_mass_light.png", func(p string) error { return plot_rc_mass_temps(light, 21.0, "Lightweight Mass", p) }},
		{"rc_heating_week.png", func(p string) error { return plot_rc_heating_week(light, heavy, p) }},
		{"rc_difference.png", func(p string) error { return plot_rc_difference(light, heavy, p) }},
	}
	for _, chart := range charts {
		path := filepath.Join(dir, chart.name)
		if err := chart.run(path); err != nil {
			t.Fatalf("%s: %v", chart.name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat %s: %v", chart.name, err)
		}
		if info.Size() == 0 {
			t.Errorf("Got empty file for %s", chart.name)
		}
	}

	if err := plot_sensitivity_scatter(sens, dir); err != nil {
		t.Fatalf("scatter: %v", err)
	}
	for _, param := range []string{"orientation", "temp_offset", "insulation_k"} {
		path := filepath.Join(dir, "fig7_sensitivity_"+param+".png")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Got missing scatter chart %s: %v", param, err)
		}
	}
}
