package building_physics

// **** 実行制御 ****
// One Run call drives a whole study: weather loading, per-mode solver
// dispatch and artifact export through the Recorder. The design and
// annual modes operate on the reference building, the scenario,
// construction and sensitivity studies on the single-zone study box;
// a config file layers onto whichever base a section uses.

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"
)

type RunMode int

const (
	RunModeDesign RunMode = iota
	RunModeAnnual
	RunModeRC
	RunModeSensitivity
	RunModeAll
)

func (m RunMode) String() string {
	return [...]string{"design", "annual", "rc", "sensitivity", "all"}[m]
}

func RunModeFromString(s string) (RunMode, error) {
	m, ok := map[string]RunMode{
		"design":      RunModeDesign,
		"annual":      RunModeAnnual,
		"rc":          RunModeRC,
		"sensitivity": RunModeSensitivity,
		"all":         RunModeAll,
	}[s]
	if !ok {
		return RunModeDesign, &ConfigurationError{Field: "mode", Constraint: "must be design, annual, rc, sensitivity or all"}
	}
	return m, nil
}

type RunOptions struct {
	ConfigPath  string
	WeatherPath string
	OutDir      string
	Mode        RunMode
	Scenario    string // run only the named scenario, "" for all
	Plots       bool
	Workers     int // sweep pool size, 0 picks the machine default
	Progress    bool
	Logger      *slog.Logger
}

/*
実行

Args:

	opts: run options, WeatherPath is required

Returns:

	first error of any stage; artifacts written so far stay on disk
*/
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := NewWeatherFromEPW(opts.WeatherPath)
	if err != nil {
		return err
	}
	logger.Info("weather loaded", "station", w.Station(), "hours", w.Len())

	rec, err := NewRecorder(opts.OutDir)
	if err != nil {
		return err
	}
	logger = logger.With("run_id", rec.RunID())
	logger.Info("run directory created", "dir", rec.Dir())

	want := func(m RunMode) bool {
		return opts.Mode == RunModeAll || opts.Mode == m
	}

	if want(RunModeDesign) || want(RunModeAnnual) {
		cfg, err := LoadConfig(opts.ConfigPath, DefaultConfig())
		if err != nil {
			return err
		}
		if err := WriteResolved(cfg, filepath.Join(rec.Dir(), "config_building.yaml")); err != nil {
			return err
		}
		if want(RunModeDesign) {
			if err := run_design(rec, cfg, w, logger, opts.Plots); err != nil {
				return err
			}
		}
		if want(RunModeAnnual) {
			if err := run_annual(rec, cfg, w, logger, opts.Plots); err != nil {
				return err
			}
		}
	}

	if want(RunModeAnnual) || want(RunModeRC) || want(RunModeSensitivity) {
		study, err := LoadConfig(opts.ConfigPath, StudyConfig())
		if err != nil {
			return err
		}
		if err := WriteResolved(study, filepath.Join(rec.Dir(), "config_study.yaml")); err != nil {
			return err
		}
		if want(RunModeAnnual) {
			if err := run_study_scenarios(rec, study, w, opts.Scenario, logger, opts.Plots); err != nil {
				return err
			}
		}
		if want(RunModeRC) {
			if err := run_construction_study(rec, study, w, logger, opts.Plots); err != nil {
				return err
			}
		}
		if want(RunModeSensitivity) {
			if err := run_sensitivity_study(rec, study, w, opts.Workers, opts.Progress, logger, opts.Plots); err != nil {
				return err
			}
		}
	}

	logger.Info("run complete", "dir", rec.Dir())
	return nil
}

// Chart failures never abort a run.
func save_chart(logger *slog.Logger, name string, draw func() error) {
	if err := draw(); err != nil {
		logger.Warn("chart skipped", "chart", name, "error", err)
	}
}

//-----//

// Design-day stage: percentile selection on the annual dry-bulb series,
// then the steady-state balance over both 24 h windows.
func run_design(rec *Recorder, cfg Config, w *Weather, logger *slog.Logger, plots bool) error {
	start := time.Now()
	logger.Info("design stage", "heating_percentile", cfg.DesignDay.HeatingPercentile,
		"cooling_percentile", cfg.DesignDay.CoolingPercentile)

	b, err := NewBuilding(cfg)
	if err != nil {
		return err
	}
	heating, cooling, err := SelectDesignDays(w, cfg.DesignDay)
	if err != nil {
		return err
	}
	hl, err := RunHeatBalance(b, heating.Weather())
	if err != nil {
		return err
	}
	cl, err := RunHeatBalance(b, cooling.Weather())
	if err != nil {
		return err
	}

	if _, err := rec.save("design_heating.csv", hl.export_csv); err != nil {
		return err
	}
	if _, err := rec.save("design_cooling.csv", cl.export_csv); err != nil {
		return err
	}
	if _, err := rec.save_text("design_summary.txt", render_design_summary(heating, cooling, hl, cl)); err != nil {
		return err
	}
	if plots {
		save_chart(logger, "design_days.png", func() error {
			return plot_design_days(hl, cl, filepath.Join(rec.Dir(), "design_days.png"))
		})
	}

	peak_h, _ := hl.PeakHeating()
	peak_c, _ := cl.PeakCooling()
	logger.Info("design stage done",
		"peak_heating_kw", peak_h/1000.0, "peak_cooling_kw", peak_c/1000.0,
		"elapsed", time.Since(start))
	return nil
}

// Annual stage: steady-state balance of the reference building over the
// whole weather year. Internal gains stay off so the heating figures
// are conservative.
func run_annual(rec *Recorder, cfg Config, w *Weather, logger *slog.Logger, plots bool) error {
	start := time.Now()
	logger.Info("annual stage")

	acfg := cfg.clone()
	acfg.Gains = GainsConfig{}
	b, err := NewBuilding(acfg)
	if err != nil {
		return err
	}
	annual, err := RunAnnual(b, w)
	if err != nil {
		return err
	}

	if _, err := rec.save("annual_monthly.csv", annual.export_monthly_csv); err != nil {
		return err
	}
	if _, err := rec.save("load_duration.csv", annual.export_duration_csv); err != nil {
		return err
	}
	if _, err := rec.save_text("annual_summary.txt", render_annual_summary(annual, acfg.Building.FloorArea)); err != nil {
		return err
	}
	if plots {
		save_chart(logger, "annual_monthly.png", func() error {
			return plot_annual_monthly(annual, filepath.Join(rec.Dir(), "annual_monthly.png"))
		})
		save_chart(logger, "monthly_temperature.png", func() error {
			return plot_monthly_temperature(w, filepath.Join(rec.Dir(), "monthly_temperature.png"))
		})
		save_chart(logger, "load_duration.png", func() error {
			return plot_load_duration(annual, filepath.Join(rec.Dir(), "load_duration.png"))
		})
	}

	logger.Info("annual stage done",
		"heating_kwh", annual.HeatingKWh(), "cooling_kwh", annual.CoolingKWh(),
		"elapsed", time.Since(start))
	return nil
}

// Scenario stage: the operation scenarios of the study box plus the
// report tables and charts built from them.
func run_study_scenarios(rec *Recorder, cfg Config, w *Weather, filter string, logger *slog.Logger, plots bool) error {
	start := time.Now()

	scs := BuiltinScenarios(cfg)
	if filter != "" {
		var keep []Scenario
		for _, sc := range scs {
			if sc.name == filter {
				keep = append(keep, sc)
			}
		}
		if len(keep) == 0 {
			return &ConfigurationError{Field: "scenario", Constraint: "unknown scenario name"}
		}
		scs = keep
	}
	logger.Info("scenario stage", "scenarios", len(scs))

	rs, err := run_scenario_set(cfg, w, scs)
	if err != nil {
		return err
	}

	for _, r := range rs {
		name := fmt.Sprintf("scenario_%s.csv", strings.ToLower(r.scenario.name))
		if _, err := rec.save(name, r.loads.export_csv); err != nil {
			return err
		}
	}
	if _, err := rec.save_text("table4_heat_flows.txt", render_heat_flow_table(rs[0].loads)); err != nil {
		return err
	}
	if _, err := rec.save_text("table5_scenarios.txt", render_scenario_table(rs)); err != nil {
		return err
	}
	if plots {
		save_chart(logger, "fig2_monthly_gains.png", func() error {
			return plot_monthly_gains(rs[0], filepath.Join(rec.Dir(), "fig2_monthly_gains.png"))
		})
		save_chart(logger, "fig4_scenarios.png", func() error {
			return plot_scenario_comparison(rs, filepath.Join(rec.Dir(), "fig4_scenarios.png"))
		})
		save_chart(logger, "fig5_winter_week.png", func() error {
			return plot_week_profiles(rs, true, filepath.Join(rec.Dir(), "fig5_winter_week.png"))
		})
		save_chart(logger, "fig6_shoulder_week.png", func() error {
			return plot_week_profiles(rs, false, filepath.Join(rec.Dir(), "fig6_shoulder_week.png"))
		})
	}

	logger.Info("scenario stage done", "base_kwh", rs[0].heating_kwh, "elapsed", time.Since(start))
	return nil
}

// Heavyweight variant of the study envelope. Only the dense walls
// change resistance; the roof build-up is shared by both classes.
func heavyweight_config(cfg Config) Config {
	out := cfg.clone()
	out.RC.Construction = "heavyweight"
	for i := range out.Surfaces {
		s := &out.Surfaces[i]
		if BoundaryTypeFromString(s.Boundary) == BoundaryOutdoor && s.Tilt >= 45.0 {
			s.UValue = 1.0 / wall_r_heavy
		}
	}
	return out
}

// Construction stage: lightweight against heavyweight RC runs with the
// setpoint held, plus a free-floating week pair for the charts.
func run_construction_study(rec *Recorder, cfg Config, w *Weather, logger *slog.Logger, plots bool) error {
	start := time.Now()
	logger.Info("construction stage", "interval", cfg.RC.Interval)

	b_lw, err := NewBuilding(cfg)
	if err != nil {
		return err
	}
	b_hw, err := NewBuilding(heavyweight_config(cfg))
	if err != nil {
		return err
	}
	net_lw, err := NewRCNetwork(b_lw, ConstructionLightweight)
	if err != nil {
		return err
	}
	net_hw, err := NewRCNetwork(b_hw, ConstructionHeavyweight)
	if err != nil {
		return err
	}

	hold := RCRun{
		Heat:     NewConstantSchedule(cfg.Setpoints.HeatingC),
		Cool:     NewConstantSchedule(cfg.Setpoints.HeatingC),
		Vent:     NewConstantSchedule(study_vent_ach),
		GainW:    cfg.Gains.ConstantW,
		InitC:    cfg.RC.MassInitC,
		Interval: IntervalFromString(cfg.RC.Interval),
	}
	res_lw, err := net_lw.Run(w, hold)
	if err != nil {
		return err
	}
	res_hw, err := net_hw.Run(w, hold)
	if err != nil {
		return err
	}

	free := hold
	free.Heat = NewConstantSchedule(math.Inf(-1))
	free.Cool = NewConstantSchedule(math.Inf(1))
	free_lw, err := net_lw.Run(w, free)
	if err != nil {
		return err
	}
	free_hw, err := net_hw.Run(w, free)
	if err != nil {
		return err
	}

	if _, err := rec.save("rc_lightweight.csv", res_lw.export_csv); err != nil {
		return err
	}
	if _, err := rec.save("rc_heavyweight.csv", res_hw.export_csv); err != nil {
		return err
	}
	if _, err := rec.save_text("rc_summary.txt", render_rc_summary(res_lw, res_hw)); err != nil {
		return err
	}
	if plots {
		t_set := cfg.Setpoints.HeatingC
		save_chart(logger, "rc_mass_lightweight.png", func() error {
			return plot_rc_mass_temps(res_lw, t_set, "Lightweight Thermal Mass Temperatures",
				filepath.Join(rec.Dir(), "rc_mass_lightweight.png"))
		})
		save_chart(logger, "rc_mass_heavyweight.png", func() error {
			return plot_rc_mass_temps(res_hw, t_set, "Heavyweight Thermal Mass Temperatures",
				filepath.Join(rec.Dir(), "rc_mass_heavyweight.png"))
		})
		save_chart(logger, "rc_heating_week.png", func() error {
			return plot_rc_heating_week(res_lw, res_hw, filepath.Join(rec.Dir(), "rc_heating_week.png"))
		})
		save_chart(logger, "rc_difference.png", func() error {
			return plot_rc_difference(res_lw, res_hw, filepath.Join(rec.Dir(), "rc_difference.png"))
		})
		save_chart(logger, "rc_free_float.png", func() error {
			return plot_construction_comparison(free_lw, free_hw, t_set,
				filepath.Join(rec.Dir(), "rc_free_float.png"))
		})
	}

	logger.Info("construction stage done",
		"lightweight_kwh", res_lw.HeatingKWh(), "heavyweight_kwh", res_hw.HeatingKWh(),
		"elapsed", time.Since(start))
	return nil
}

// Sensitivity stage: the one-at-a-time sweep on the study box.
func run_sensitivity_study(rec *Recorder, cfg Config, w *Weather, workers int, progress bool, logger *slog.Logger, plots bool) error {
	start := time.Now()
	if workers <= 0 {
		workers = MaxParallelism()
	}
	logger.Info("sensitivity stage", "workers", workers)

	res, err := RunSensitivity(cfg, w, workers, progress)
	if err != nil {
		return err
	}

	if _, err := rec.save("sensitivity_samples.csv", res.export_samples_csv); err != nil {
		return err
	}
	if _, err := rec.save("sensitivity_table.csv", res.export_table_csv); err != nil {
		return err
	}
	if _, err := rec.save_text("table7_sensitivity.txt", render_sensitivity_table(res)); err != nil {
		return err
	}
	if plots {
		save_chart(logger, "sensitivity scatter", func() error {
			return plot_sensitivity_scatter(res, rec.Dir())
		})
		save_chart(logger, "fig8_ranking.png", func() error {
			return plot_sensitivity_ranking(res, filepath.Join(rec.Dir(), "fig8_ranking.png"))
		})
	}

	logger.Info("sensitivity stage done", "samples", len(res.samples), "elapsed", time.Since(start))
	return nil
}
