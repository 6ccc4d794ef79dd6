package building_physics

import (
	"math"
	"testing"
)

func TestBuildSweepJobs(t *testing.T) {
	cfg := StudyConfig()
	w := annual_test_weather()
	jobs := build_sweep_jobs(cfg, w)

	counts := map[string]int{}
	for _, j := range jobs {
		counts[j.param]++
	}
	want := map[string]int{
		"Orientation":    12,
		"Internal gains": 10,
		"Insulation k":   11,
		"Temp offset":    9,
		"Absorptance":    13,
		"Infiltration":   11,
	}
	for p, n := range want {
		if counts[p] != n {
			t.Errorf("%s: Got %v points, want %v", p, counts[p], n)
		}
	}
	if len(jobs) != 66 {
		t.Errorf("Got %v points, want 66", len(jobs))
	}
}

func TestRotateEnvelope(t *testing.T) {
	cfg := StudyConfig()
	rotated := rotate_envelope(cfg, 90.0)

	find := func(c Config, name string) float64 {
		for _, s := range c.Surfaces {
			if s.Name == name {
				return s.Azimuth
			}
		}
		t.Fatalf("surface %s not found", name)
		return 0.0
	}

	if got := find(rotated, "Wall-S"); got != 270.0 {
		t.Errorf("Got %v, want 270", got)
	}
	if got := find(rotated, "Wall-N"); got != 90.0 {
		t.Errorf("Got %v, want 90", got)
	}
	for _, s := range rotated.Surfaces {
		if s.Azimuth < 0.0 || s.Azimuth >= 360.0 {
			t.Errorf("%s: azimuth %v out of range", s.Name, s.Azimuth)
		}
	}
	if got := rotated.Windows[0].Azimuth; got != 270.0 {
		t.Errorf("Got window azimuth %v, want 270", got)
	}

	// The base configuration is untouched.
	if got := find(cfg, "Wall-S"); got != 180.0 {
		t.Errorf("Got %v, want original 180", got)
	}
}

func TestWithInsulation(t *testing.T) {
	cfg := StudyConfig()

	same := with_insulation(cfg, fg_k_ref)
	for i := range cfg.Surfaces {
		if math.Abs(same.Surfaces[i].UValue-cfg.Surfaces[i].UValue) > 1e-12 {
			t.Errorf("%s: Got %v, want unchanged %v", cfg.Surfaces[i].Name, same.Surfaces[i].UValue, cfg.Surfaces[i].UValue)
		}
	}

	better := with_insulation(cfg, 0.050)
	for _, s := range better.Surfaces {
		if BoundaryTypeFromString(s.Boundary) != BoundaryOutdoor {
			continue
		}
		var want float64
		if s.Tilt < 45.0 {
			want = 1.0 / (roof_r_total - roof_r_fg + roof_r_fg*fg_k_ref/0.050)
		} else {
			want = 1.0 / (wall_r_light - wall_r_fg + wall_r_fg*fg_k_ref/0.050)
		}
		if math.Abs(s.UValue-want) > 1e-12 {
			t.Errorf("%s: Got %v, want %v", s.Name, s.UValue, want)
		}
	}
}

func TestCalcNSCFormulas(t *testing.T) {
	r := &SensitivityResult{
		base_winter_kwh:   10.0,
		base_shoulder_kwh: 10.0,
		samples: []SweepSample{
			{Param: "Orientation", Val: 0.0, ValNorm: -1.0, WinterKWh: 20.0, ShoulderKWh: 20.0},
			{Param: "Orientation", Val: 90.0, ValNorm: 0.0, WinterKWh: 14.0, ShoulderKWh: 14.0},
			{Param: "Orientation", Val: 180.0, ValNorm: 1.0, WinterKWh: 10.0, ShoulderKWh: 10.0},

			{Param: "Temp offset", Val: -1.0, ValNorm: -1.0, WinterKWh: 8.0, ShoulderKWh: 8.0},
			{Param: "Temp offset", Val: 0.0, ValNorm: 0.0, WinterKWh: 10.0, ShoulderKWh: 10.0},
			{Param: "Temp offset", Val: 1.0, ValNorm: 1.0, WinterKWh: 12.0, ShoulderKWh: 12.0},

			{Param: "Infiltration", Val: 0.25, ValNorm: 0.5, WinterKWh: 9.0, ShoulderKWh: 9.0},
			{Param: "Infiltration", Val: 0.5, ValNorm: 1.0, WinterKWh: 10.0, ShoulderKWh: 10.0},
			{Param: "Infiltration", Val: 0.75, ValNorm: 1.5, WinterKWh: 11.0, ShoulderKWh: 11.0},
		},
	}

	tests := []struct {
		name     string
		param    string
		want_lo  float64
		want_hi  float64
		want_nsc float64
	}{
		{name: "orientation half range", param: "Orientation", want_lo: 10.0, want_hi: 20.0, want_nsc: 0.5},
		{name: "temp offset raw slope over base", param: "Temp offset", want_lo: 8.0, want_hi: 12.0, want_nsc: 0.2},
		{name: "normalised slope", param: "Infiltration", want_lo: 9.0, want_hi: 11.0, want_nsc: 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, nsc := calc_nsc(r, tt.param, true)
			if math.Abs(lo-tt.want_lo) > 1e-12 || math.Abs(hi-tt.want_hi) > 1e-12 {
				t.Errorf("Got range [%v, %v], want [%v, %v]", lo, hi, tt.want_lo, tt.want_hi)
			}
			if math.Abs(nsc-tt.want_nsc) > 1e-12 {
				t.Errorf("Got NSC %v, want %v", nsc, tt.want_nsc)
			}
		})
	}
}

func TestRunSensitivity(t *testing.T) {
	cfg := StudyConfig()
	w := annual_test_weather()

	serial, err := RunSensitivity(cfg, w, 1, false)
	if err != nil {
		t.Fatalf("RunSensitivity: %v", err)
	}
	parallel, err := RunSensitivity(cfg, w, 4, false)
	if err != nil {
		t.Fatalf("RunSensitivity: %v", err)
	}

	if len(serial.samples) != len(parallel.samples) {
		t.Fatalf("Got %v and %v samples", len(serial.samples), len(parallel.samples))
	}
	for i := range serial.samples {
		if serial.samples[i] != parallel.samples[i] {
			t.Fatalf("sample %d: worker count changed the result", i)
		}
	}

	if serial.base_winter_kwh <= 0.0 {
		t.Errorf("Got base winter %v, want positive", serial.base_winter_kwh)
	}
	if len(serial.table) != 6 {
		t.Fatalf("Got %v table rows, want 6", len(serial.table))
	}

	// Ranks form a permutation of 1..6 in each period.
	seen_w := map[int]bool{}
	seen_s := map[int]bool{}
	for _, row := range serial.table {
		seen_w[row.RankWinter] = true
		seen_s[row.RankShoulder] = true
	}
	for rank := 1; rank <= 6; rank++ {
		if !seen_w[rank] || !seen_s[rank] {
			t.Errorf("rank %d missing", rank)
		}
	}

	// Physical signs: more infiltration or a warmer winter moves the
	// demand up or down accordingly.
	by_param := map[string]SensitivityRow{}
	for _, row := range serial.table {
		by_param[row.Param] = row
	}
	if !(by_param["Infiltration"].WinterNSC > 0.0) {
		t.Errorf("Got infiltration NSC %v, want positive", by_param["Infiltration"].WinterNSC)
	}
	if !(by_param["Temp offset"].WinterNSC < 0.0) {
		t.Errorf("Got temp offset NSC %v, want negative", by_param["Temp offset"].WinterNSC)
	}
	if !(by_param["Internal gains"].WinterNSC < 0.0) {
		t.Errorf("Got internal gains NSC %v, want negative", by_param["Internal gains"].WinterNSC)
	}
	if !(by_param["Absorptance"].WinterNSC < 0.0) {
		t.Errorf("Got absorptance NSC %v, want negative", by_param["Absorptance"].WinterNSC)
	}

	ranked := serial.ranked_rows()
	for i := 1; i < len(ranked); i++ {
		a := (math.Abs(ranked[i].WinterNSC) + math.Abs(ranked[i].ShoulderNSC)) / 2.0
		b := (math.Abs(ranked[i-1].WinterNSC) + math.Abs(ranked[i-1].ShoulderNSC)) / 2.0
		if a > b {
			t.Errorf("ranked rows not descending at %d", i)
		}
	}
}
