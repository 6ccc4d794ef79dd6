package building_physics

import (
	"math"
	"testing"
	"time"
)

func annual_test_weather() *Weather {
	return test_weather(8760, func(i int) (float64, float64, float64) {
		day := float64(i / 24)
		hour := i % 24
		theta_o := 5.0 - 10.0*math.Cos(2.0*math.Pi*day/365.0) + 5.0*math.Sin(2.0*math.Pi*float64(hour)/24.0)
		i_dn, i_dif := 0.0, 0.0
		if hour >= 9 && hour <= 15 {
			i_dn = 400.0
			i_dif = 50.0
		}
		return theta_o, i_dn, i_dif
	})
}

func TestRunAnnualAggregates(t *testing.T) {
	cfg := StudyConfig()
	b, err := NewBuilding(cfg)
	if err != nil {
		t.Fatalf("NewBuilding: %v", err)
	}

	r, err := RunAnnual(b, annual_test_weather())
	if err != nil {
		t.Fatalf("RunAnnual: %v", err)
	}

	sum := 0.0
	for m := 0; m < 12; m++ {
		sum += r.monthly_heating_kwh[m]
	}
	if math.Abs(sum-r.heating_kwh) > 1e-9*math.Max(1.0, sum) {
		t.Errorf("Got monthly sum %v, want annual %v", sum, r.heating_kwh)
	}
	if r.heating_kwh <= 0.0 {
		t.Errorf("Got heating %v, want positive for a winter climate", r.heating_kwh)
	}
	if got, want := r.heating_intensity, r.heating_kwh/48.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Got intensity %v, want %v", got, want)
	}

	if len(r.duration_heating_kw) != 8760 {
		t.Fatalf("Got %v duration samples, want 8760", len(r.duration_heating_kw))
	}
	for i := 1; i < len(r.duration_heating_kw); i++ {
		if r.duration_heating_kw[i] > r.duration_heating_kw[i-1] {
			t.Fatalf("duration curve not descending at %d", i)
		}
	}
	if got, want := r.duration_heating_kw[0], r.peak_heating_w/1000.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Got duration head %v, want peak %v", got, want)
	}
	if r.peak_heating_at.Month() != time.January && r.peak_heating_at.Month() != time.December && r.peak_heating_at.Month() != time.February {
		t.Errorf("Got peak heating in %v, want deep winter", r.peak_heating_at.Month())
	}
}

func TestRunAnnualRejectsPartialYear(t *testing.T) {
	cfg := StudyConfig()
	b, err := NewBuilding(cfg)
	if err != nil {
		t.Fatalf("NewBuilding: %v", err)
	}

	w := test_weather(240, func(i int) (float64, float64, float64) {
		return 0.0, 0.0, 0.0
	})
	if _, err := RunAnnual(b, w); err == nil {
		t.Fatal("Got nil error, want DataError for partial year")
	}
}

func TestBuiltinScenarioLabels(t *testing.T) {
	scs := BuiltinScenarios(StudyConfig())
	want := []struct {
		name  string
		label string
	}{
		{name: "S1", label: "S1: Const. 21°C, 0.5 ACH"},
		{name: "S2", label: "S2: Sched. 21/18°C, 0.5 ACH"},
		{name: "S3", label: "S3: Const. 21°C, 0.7/0.3 ACH"},
		{name: "S4", label: "S4: Sched. 21/18°C, 0.7/0.3 ACH"},
	}
	if len(scs) != len(want) {
		t.Fatalf("Got %v scenarios, want %v", len(scs), len(want))
	}
	for i, tt := range want {
		if scs[i].name != tt.name {
			t.Errorf("Got %v, want %v", scs[i].name, tt.name)
		}
		if scs[i].label != tt.label {
			t.Errorf("Got %q, want %q", scs[i].label, tt.label)
		}
	}
}

func TestRunScenarios(t *testing.T) {
	rs, err := RunScenarios(StudyConfig(), annual_test_weather())
	if err != nil {
		t.Fatalf("RunScenarios: %v", err)
	}
	if len(rs) != 4 {
		t.Fatalf("Got %v results, want 4", len(rs))
	}

	s1, s2 := rs[0], rs[1]
	if !(s2.heating_kwh < s1.heating_kwh) {
		t.Errorf("Got setback demand %v, want below constant %v", s2.heating_kwh, s1.heating_kwh)
	}

	deltas := scenario_delta_pct(rs)
	if deltas[0] != 0.0 {
		t.Errorf("Got base delta %v, want 0", deltas[0])
	}
	if !(deltas[1] < 0.0) {
		t.Errorf("Got setback delta %v, want negative", deltas[1])
	}

	for _, r := range rs {
		solar := integrate_kwh(r.loads.q_solar, 3600.0)
		if math.Abs(r.useful_solar_kwh+r.excess_solar_kwh-solar) > 1e-9*math.Max(1.0, solar) {
			t.Errorf("%s: useful %v + excess %v != solar %v", r.scenario.name, r.useful_solar_kwh, r.excess_solar_kwh, solar)
		}
		if r.winter_kwh <= 0.0 {
			t.Errorf("%s: Got winter week %v, want positive", r.scenario.name, r.winter_kwh)
		}
	}
}

func TestSplitSolar(t *testing.T) {
	tests := []struct {
		name        string
		solar       float64
		internal    float64
		heating     float64
		losses      float64
		want_useful float64
		want_excess float64
	}{
		{name: "all useful", solar: 10.0, internal: 2.0, heating: 3.0, losses: 20.0, want_useful: 10.0, want_excess: 0.0},
		{name: "partial surplus", solar: 10.0, internal: 5.0, heating: 0.0, losses: 8.0, want_useful: 3.0, want_excess: 7.0},
		{name: "surplus beyond solar", solar: 2.0, internal: 10.0, heating: 0.0, losses: 5.0, want_useful: 0.0, want_excess: 2.0},
		{name: "no solar", solar: 0.0, internal: 1.0, heating: 2.0, losses: 10.0, want_useful: 0.0, want_excess: 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useful, excess := split_solar(tt.solar, tt.internal, tt.heating, tt.losses)
			if math.Abs(useful-tt.want_useful) > 1e-12 {
				t.Errorf("Got useful %v, want %v", useful, tt.want_useful)
			}
			if math.Abs(excess-tt.want_excess) > 1e-12 {
				t.Errorf("Got excess %v, want %v", excess, tt.want_excess)
			}
		})
	}
}

func TestWeekMaskBounds(t *testing.T) {
	w := annual_test_weather()

	winter := week_mask(w, time.January, 8, 14)
	count := 0
	first, last := -1, -1
	for i, m := range winter {
		if m {
			count++
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if count != 168 {
		t.Errorf("Got %v winter steps, want 168", count)
	}
	if first != 7*24 {
		t.Errorf("Got first index %v, want %v", first, 7*24)
	}
	if last != 14*24-1 {
		t.Errorf("Got last index %v, want %v", last, 14*24-1)
	}

	shoulder := week_mask(w, time.October, 7, 13)
	count = 0
	for _, m := range shoulder {
		if m {
			count++
		}
	}
	if count != 168 {
		t.Errorf("Got %v shoulder steps, want 168", count)
	}
}

func TestHourlyProfile(t *testing.T) {
	w := test_weather(48, func(i int) (float64, float64, float64) {
		return 0.0, 0.0, 0.0
	})
	q := make([]float64, 48)
	mask := make([]bool, 48)
	for i := range q {
		q[i] = float64(i%24) * 1000.0
		mask[i] = true
	}

	profile := hourly_profile_kw(q, mask, w.hour_ns)
	for h := 0; h < 24; h++ {
		if math.Abs(profile[h]-float64(h)) > 1e-12 {
			t.Errorf("hour %d: Got %v, want %v", h, profile[h], float64(h))
		}
	}
}
