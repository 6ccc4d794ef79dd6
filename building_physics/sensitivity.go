package building_physics

// **** 感度解析 ****
// One-at-a-time parameter sweeps on the scheduled balance. Each sweep
// point is an independent run, so the points fan out over a worker
// pool and land in a preallocated slice to keep the output order
// fixed. Sensitivity is expressed as a normalised coefficient per
// parameter: the slope of relative demand against relative parameter
// change, except for orientation, which uses half the demand range.

import (
	"math"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// Study constants. The ventilation air change is pinned for the sweep
// and the construction comparison so that the infiltration sweep moves
// only the infiltration channel, and the fiberglass layer data recovers
// the element resistance for a varied insulation conductivity.
const (
	study_vent_ach = 0.5

	wall_r_fg = 1.650 // fiberglass share of the wall resistance [m2K/W]
	roof_r_fg = 2.794 // fiberglass share of the roof resistance [m2K/W]
	fg_k_ref  = 0.040 // reference conductivity [W/mK]
)

// Parameter names in report order.
var sensitivity_params = []string{
	"Orientation",
	"Internal gains",
	"Insulation k",
	"Temp offset",
	"Absorptance",
	"Infiltration",
}

// One sweep point result. Normalised values are relative to the base
// configuration; orientation keeps the cosine projection of the
// azimuth instead.
type SweepSample struct {
	Param   string
	Val     float64
	ValNorm float64

	WinterKWh   float64
	ShoulderKWh float64
}

type SensitivityRow struct {
	Param string

	WinterMin   float64
	WinterMax   float64
	WinterNSC   float64
	ShoulderMin float64
	ShoulderMax float64
	ShoulderNSC float64

	RankWinter   int
	RankShoulder int
}

type SensitivityResult struct {
	samples []SweepSample
	table   []SensitivityRow

	base_winter_kwh   float64
	base_shoulder_kwh float64
}

func (r *SensitivityResult) Samples() []SweepSample {
	return r.samples
}

func (r *SensitivityResult) Table() []SensitivityRow {
	return r.table
}

// one prepared run of the sweep
type sweep_job struct {
	param    string
	val      float64
	val_norm float64
	cfg      Config
	weather  *Weather
}

/*
Run the one-at-a-time sensitivity sweeps over the annual series.

Each parameter is varied around the base configuration while the
others hold: envelope azimuth, constant internal gain, insulation
conductivity, outdoor temperature offset, surface absorptance and
infiltration air change. The response is the heating energy of the
winter and shoulder reference weeks.

Args:

	cfg: base building configuration
	w: annual hourly weather series
	workers: parallel runs, or 0 for the machine default
	progress: render a progress bar on stdout

Returns:

	sweep samples plus the ranked sensitivity table
*/
func RunSensitivity(cfg Config, w *Weather, workers int, progress bool) (*SensitivityResult, error) {
	if err := w.validate_annual(w.station); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = MaxParallelism()
	}

	winter := week_mask(w, time.January, 8, 14)
	shoulder := week_mask(w, time.October, 7, 13)

	run_one := func(job sweep_job) (float64, float64, error) {
		b, err := NewBuilding(job.cfg)
		if err != nil {
			return 0.0, 0.0, err
		}
		loads, err := RunScheduledBalance(b, job.weather,
			NewConstantSchedule(job.cfg.Setpoints.HeatingC),
			NewConstantSchedule(study_vent_ach),
			job.cfg.Gains.ConstantW)
		if err != nil {
			return 0.0, 0.0, err
		}
		dt := job.weather.itv.get_delta_t()
		return masked_kwh(loads.q_heat, winter, dt), masked_kwh(loads.q_heat, shoulder, dt), nil
	}

	base_w, base_s, err := run_one(sweep_job{cfg: cfg.clone(), weather: w})
	if err != nil {
		return nil, err
	}

	jobs := build_sweep_jobs(cfg, w)
	samples := make([]SweepSample, len(jobs))
	errs := make([]error, len(jobs))

	var bar *pb.ProgressBar
	if progress {
		bar = pb.StartNew(len(jobs))
	}

	queue := make(chan int, len(jobs))
	var wg sync.WaitGroup
	for g := 0; g < workers; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ji := range queue {
				job := jobs[ji]
				q_w, q_s, err := run_one(job)
				samples[ji] = SweepSample{
					Param:       job.param,
					Val:         job.val,
					ValNorm:     job.val_norm,
					WinterKWh:   q_w,
					ShoulderKWh: q_s,
				}
				errs[ji] = err
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}
	for ji := range jobs {
		queue <- ji
	}
	close(queue)
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	r := &SensitivityResult{
		samples:           samples,
		base_winter_kwh:   base_w,
		base_shoulder_kwh: base_s,
	}
	r.table = sensitivity_table(r)
	return r, nil
}

// Largest usable worker count for CPU-bound fan-out.
func MaxParallelism() int {
	max_procs := runtime.GOMAXPROCS(0)
	num_cpu := runtime.NumCPU()
	if max_procs < num_cpu {
		return max_procs
	}
	return num_cpu
}

func build_sweep_jobs(cfg Config, w *Weather) []sweep_job {
	var jobs []sweep_job

	// Orientation: rotate the whole envelope in 30 degree steps.
	for az := 0.0; az < 360.0; az += 30.0 {
		jobs = append(jobs, sweep_job{
			param:    "Orientation",
			val:      az,
			val_norm: math.Cos(deg2rad(az - 180.0)),
			cfg:      rotate_envelope(cfg, az-180.0),
			weather:  w,
		})
	}

	// Internal gains [W].
	for _, v := range span(100.0, 400.0, 10) {
		c := cfg.clone()
		c.Gains.ConstantW = v
		jobs = append(jobs, sweep_job{
			param:    "Internal gains",
			val:      v,
			val_norm: v / cfg.Gains.ConstantW,
			cfg:      c,
			weather:  w,
		})
	}

	// Insulation conductivity [W/mK].
	for _, k := range span(0.030, 0.050, 11) {
		jobs = append(jobs, sweep_job{
			param:    "Insulation k",
			val:      k,
			val_norm: k / fg_k_ref,
			cfg:      with_insulation(cfg, k),
			weather:  w,
		})
	}

	// Outdoor temperature offset [K].
	for _, dt := range span(-2.0, 2.0, 9) {
		jobs = append(jobs, sweep_job{
			param:    "Temp offset",
			val:      dt,
			val_norm: dt,
			cfg:      cfg.clone(),
			weather:  w.offset_temperature(dt),
		})
	}

	// Surface absorptance.
	base_alpha := base_absorptance(cfg)
	for _, a := range span(0.3, 0.9, 13) {
		c := cfg.clone()
		for i := range c.Surfaces {
			c.Surfaces[i].Absorptance = a
		}
		jobs = append(jobs, sweep_job{
			param:    "Absorptance",
			val:      a,
			val_norm: a / base_alpha,
			cfg:      c,
			weather:  w,
		})
	}

	// Infiltration air change [1/h].
	for _, ach := range span(0.2, 1.0, 11) {
		c := cfg.clone()
		c.Ventilation.InfiltrationACH = ach
		jobs = append(jobs, sweep_job{
			param:    "Infiltration",
			val:      ach,
			val_norm: ach / cfg.Ventilation.InfiltrationACH,
			cfg:      c,
			weather:  w,
		})
	}

	return jobs
}

func span(lo float64, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Rotate every surface and window azimuth by delta degrees.
func rotate_envelope(cfg Config, delta float64) Config {
	c := cfg.clone()
	for i := range c.Surfaces {
		c.Surfaces[i].Azimuth = math.Mod(c.Surfaces[i].Azimuth+delta+360.0, 360.0)
	}
	for i := range c.Windows {
		c.Windows[i].Azimuth = math.Mod(c.Windows[i].Azimuth+delta+360.0, 360.0)
	}
	return c
}

// Rebuild outdoor element resistances for a varied fiberglass
// conductivity: the non-fiberglass share of the resistance holds, the
// fiberglass layer thickness stays and its conductivity changes.
func with_insulation(cfg Config, k float64) Config {
	c := cfg.clone()
	for i := range c.Surfaces {
		s := &c.Surfaces[i]
		if BoundaryTypeFromString(s.Boundary) != BoundaryOutdoor {
			continue
		}
		r_fg := wall_r_fg
		if s.Tilt < 45.0 {
			r_fg = roof_r_fg
		}
		r_total := 1.0 / s.UValue
		s.UValue = 1.0 / (r_total - r_fg + r_fg*fg_k_ref/k)
	}
	return c
}

func base_absorptance(cfg Config) float64 {
	for i := range cfg.Surfaces {
		if BoundaryTypeFromString(cfg.Surfaces[i].Boundary) == BoundaryOutdoor {
			return cfg.Surfaces[i].Absorptance
		}
	}
	return 1.0
}

//-----//

func sensitivity_table(r *SensitivityResult) []SensitivityRow {
	rows := make([]SensitivityRow, 0, len(sensitivity_params))
	for _, param := range sensitivity_params {
		row := SensitivityRow{Param: param}
		row.WinterMin, row.WinterMax, row.WinterNSC = calc_nsc(r, param, true)
		row.ShoulderMin, row.ShoulderMax, row.ShoulderNSC = calc_nsc(r, param, false)
		rows = append(rows, row)
	}

	for i := range rows {
		rows[i].RankWinter = nsc_rank(rows, i, true)
		rows[i].RankShoulder = nsc_rank(rows, i, false)
	}
	return rows
}

// Normalised sensitivity coefficient of one parameter and period.
// Orientation is cyclic, so its coefficient is half the demand range
// over the base; the temperature offset regresses raw demand on raw
// offset; everything else regresses relative demand on the normalised
// parameter value.
func calc_nsc(r *SensitivityResult, param string, winter bool) (float64, float64, float64) {
	base := r.base_winter_kwh
	if !winter {
		base = r.base_shoulder_kwh
	}

	var vals, norms, qs []float64
	for _, s := range r.samples {
		if s.Param != param {
			continue
		}
		q := s.WinterKWh
		if !winter {
			q = s.ShoulderKWh
		}
		vals = append(vals, s.Val)
		norms = append(norms, s.ValNorm)
		qs = append(qs, q)
	}

	lo := floats.Min(qs)
	hi := floats.Max(qs)

	switch param {
	case "Orientation":
		return lo, hi, (hi - lo) / base / 2.0
	case "Temp offset":
		_, slope := stat.LinearRegression(vals, qs, nil, false)
		return lo, hi, slope / base
	default:
		rel := make([]float64, len(qs))
		for i := range qs {
			rel[i] = qs[i] / base
		}
		_, slope := stat.LinearRegression(norms, rel, nil, false)
		return lo, hi, slope
	}
}

// 1-based rank of row i by absolute coefficient, largest first.
func nsc_rank(rows []SensitivityRow, i int, winter bool) int {
	abs_nsc := func(r SensitivityRow) float64 {
		if winter {
			return math.Abs(r.WinterNSC)
		}
		return math.Abs(r.ShoulderNSC)
	}

	rank := 1
	for j := range rows {
		if j != i && abs_nsc(rows[j]) > abs_nsc(rows[i]) {
			rank++
		}
	}
	return rank
}

// Rows ordered by the mean absolute coefficient of both periods,
// strongest parameter first.
func (r *SensitivityResult) ranked_rows() []SensitivityRow {
	rows := append([]SensitivityRow(nil), r.table...)
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0; j-- {
			a := (math.Abs(rows[j].WinterNSC) + math.Abs(rows[j].ShoulderNSC)) / 2.0
			b := (math.Abs(rows[j-1].WinterNSC) + math.Abs(rows[j-1].ShoulderNSC)) / 2.0
			if a <= b {
				break
			}
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
	return rows
}
