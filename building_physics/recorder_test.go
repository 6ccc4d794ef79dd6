package building_physics

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRecorderRunDirectory(t *testing.T) {
	base := t.TempDir()
	rec, err := NewRecorder(base)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	if len(rec.RunID()) != 8 {
		t.Errorf("Got run id %q, want 8 characters", rec.RunID())
	}
	info, err := os.Stat(rec.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("run directory missing: %v", err)
	}

	path, err := rec.save_text("summary.txt", "hello\n")
	if err != nil {
		t.Fatalf("save_text: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("Got %q, want %q", string(data), "hello\n")
	}

	// A second recorder never reuses the same directory.
	rec2, err := NewRecorder(base)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if rec2.Dir() == rec.Dir() {
		t.Errorf("Got duplicate run directory %q", rec2.Dir())
	}
}

func TestExportCSVShapes(t *testing.T) {
	cfg := test_wall_config()
	b, err := NewBuilding(cfg)
	if err != nil {
		t.Fatalf("NewBuilding: %v", err)
	}
	w := test_weather(24, func(i int) (float64, float64, float64) {
		return float64(i), 0.0, 100.0
	})

	design, err := RunHeatBalance(b, w)
	if err != nil {
		t.Fatalf("RunHeatBalance: %v", err)
	}
	var buf bytes.Buffer
	if err := design.export_csv(&buf); err != nil {
		t.Fatalf("export_csv: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 25 {
		t.Fatalf("Got %v lines, want 25", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,T_out_C,Q_trans_heat_W") {
		t.Errorf("Got header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2018-01-01 00:00:00,") {
		t.Errorf("Got first row %q", lines[1])
	}

	sched, err := RunScheduledBalance(b, w, NewConstantSchedule(20.0), NewConstantSchedule(0.5), 100.0)
	if err != nil {
		t.Fatalf("RunScheduledBalance: %v", err)
	}
	buf.Reset()
	if err := sched.export_csv(&buf); err != nil {
		t.Fatalf("export_csv: %v", err)
	}
	lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 25 {
		t.Fatalf("Got %v lines, want 25", len(lines))
	}
	if got, want := len(strings.Split(lines[1], ",")), len(strings.Split(lines[0], ",")); got != want {
		t.Errorf("Got %v columns in row, want %v", got, want)
	}
}

func TestRenderScenarioTable(t *testing.T) {
	rs := []*ScenarioResult{
		{scenario: Scenario{name: "S1", label: "S1: Const. 21°C, 0.5 ACH"}, heating_kwh: 1000.0, heating_intensity: 20.8},
		{scenario: Scenario{name: "S2", label: "S2: Sched. 21/18°C, 0.5 ACH"}, heating_kwh: 900.0, heating_intensity: 18.8},
	}

	table := render_scenario_table(rs)
	if !strings.Contains(table, "S1: Const. 21°C, 0.5 ACH") {
		t.Errorf("table misses base label:\n%s", table)
	}
	if !strings.Contains(table, "-10.0%") {
		t.Errorf("table misses delta:\n%s", table)
	}
}

func TestRenderHeatFlowTableShares(t *testing.T) {
	cfg := test_wall_config()
	b, err := NewBuilding(cfg)
	if err != nil {
		t.Fatalf("NewBuilding: %v", err)
	}
	w := test_weather(24, func(i int) (float64, float64, float64) {
		return 0.0, 0.0, 0.0
	})
	loads, err := RunScheduledBalance(b, w, NewConstantSchedule(20.0), NewConstantSchedule(0.5), 0.0)
	if err != nil {
		t.Fatalf("RunScheduledBalance: %v", err)
	}

	table := render_heat_flow_table(loads)
	for _, want := range []string{"HEAT LOSSES", "HEAT GAINS", "Walls", "Ventilation", "Heating", "100.0%"} {
		if !strings.Contains(table, want) {
			t.Errorf("table misses %q:\n%s", want, table)
		}
	}
}
