package building_physics

// **** 設定 ****
// Layered run configuration: built-in defaults, then an optional YAML or
// JSON file, then BPS_ environment overrides. The resolved Config value
// is immutable and passed explicitly into every solver call.

import (
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yaml "gopkg.in/yaml.v3"
)

type ConstantsConfig struct {
	RhoAir float64 `koanf:"rho_air" yaml:"rho_air"` // air density [kg/m3]
	CpAir  float64 `koanf:"cp_air" yaml:"cp_air"`   // air specific heat [J/kgK]
	HExt   float64 `koanf:"h_ext" yaml:"h_ext"`     // external surface coefficient [W/m2K]
}

type BuildingConfig struct {
	Volume    float64 `koanf:"volume" yaml:"volume"`         // zone air volume [m3]
	FloorArea float64 `koanf:"floor_area" yaml:"floor_area"` // heated floor area [m2]
}

type VentilationConfig struct {
	MechFlow        float64 `koanf:"mech_flow" yaml:"mech_flow"`               // mechanical supply [m3/s]
	HRVEfficiency   float64 `koanf:"hrv_efficiency" yaml:"hrv_efficiency"`     // heat recovery [-]
	InfiltrationACH float64 `koanf:"infiltration_ach" yaml:"infiltration_ach"` // [1/h]
}

type SetpointsConfig struct {
	HeatingC  float64 `koanf:"heating_c" yaml:"heating_c"`
	CoolingC  float64 `koanf:"cooling_c" yaml:"cooling_c"`
	SetbackC  float64 `koanf:"setback_c" yaml:"setback_c"` // night heating setpoint
	DayStartH int     `koanf:"day_start_h" yaml:"day_start_h"`
	DayEndH   int     `koanf:"day_end_h" yaml:"day_end_h"` // last day hour, inclusive
}

type GainsConfig struct {
	EquipmentKW float64 `koanf:"equipment_kw" yaml:"equipment_kw"`
	OccupantsKW float64 `koanf:"occupants_kw" yaml:"occupants_kw"`
	LightingKW  float64 `koanf:"lighting_kw" yaml:"lighting_kw"`
	// Kitchen load applied at full power during meal hours and at
	// KitchenFraction of it outside them.
	KitchenKW       float64 `koanf:"kitchen_kw" yaml:"kitchen_kw"`
	KitchenFraction float64 `koanf:"kitchen_fraction" yaml:"kitchen_fraction"`
	// Constant aggregate gain used by the scheduled annual balance [W].
	ConstantW float64 `koanf:"constant_w" yaml:"constant_w"`
}

type DesignDayConfig struct {
	HeatingPercentile float64 `koanf:"heating_percentile" yaml:"heating_percentile"`
	CoolingPercentile float64 `koanf:"cooling_percentile" yaml:"cooling_percentile"`
}

type RCConfig struct {
	Construction string  `koanf:"construction" yaml:"construction"` // lightweight or heavyweight
	MassInitC    float64 `koanf:"mass_init_c" yaml:"mass_init_c"`   // initial mass-node temperature
	Interval     string  `koanf:"interval" yaml:"interval"`         // 1h, 30m or 15m
}

type SurfaceConfig struct {
	Name        string  `koanf:"name" yaml:"name"`
	Area        float64 `koanf:"area" yaml:"area"`
	Azimuth     float64 `koanf:"azimuth" yaml:"azimuth"`
	Tilt        float64 `koanf:"tilt" yaml:"tilt"`
	Absorptance float64 `koanf:"absorptance" yaml:"absorptance"`
	UValue      float64 `koanf:"u_value" yaml:"u_value"`
	Boundary    string  `koanf:"boundary" yaml:"boundary"` // outdoor or ground
}

type WindowConfig struct {
	Name     string  `koanf:"name" yaml:"name"`
	Area     float64 `koanf:"area" yaml:"area"`
	Azimuth  float64 `koanf:"azimuth" yaml:"azimuth"`
	Tilt     float64 `koanf:"tilt" yaml:"tilt"`
	UValue   float64 `koanf:"u_value" yaml:"u_value"`
	GValue   float64 `koanf:"g_value" yaml:"g_value"`
	FShading float64 `koanf:"f_shading" yaml:"f_shading"`
}

type Config struct {
	Constants   ConstantsConfig   `koanf:"constants" yaml:"constants"`
	Building    BuildingConfig    `koanf:"building" yaml:"building"`
	Ventilation VentilationConfig `koanf:"ventilation" yaml:"ventilation"`
	Setpoints   SetpointsConfig   `koanf:"setpoints" yaml:"setpoints"`
	Gains       GainsConfig       `koanf:"internal_gains" yaml:"internal_gains"`
	DesignDay   DesignDayConfig   `koanf:"design_day" yaml:"design_day"`
	RC          RCConfig          `koanf:"rc" yaml:"rc"`
	Surfaces    []SurfaceConfig   `koanf:"surfaces" yaml:"surfaces"`
	Windows     []WindowConfig    `koanf:"windows" yaml:"windows"`
}

// DefaultConfig describes the reference building: a three-wing complex
// with nine wall sections, six tilted roof sections, nine window bands
// and two ground-contact elements, served by mechanical ventilation
// with heat recovery.
func DefaultConfig() Config {
	const (
		wall_u   = 0.31
		roof_u   = 0.09
		window_u = 1.40
		wall_a   = 0.3
		roof_a   = 0.7
		win_g    = 0.52
		win_fsh  = 0.71
	)

	wall := func(name string, area, azimuth float64) SurfaceConfig {
		return SurfaceConfig{Name: name, Area: area, Azimuth: azimuth, Tilt: 90,
			Absorptance: wall_a, UValue: wall_u, Boundary: "outdoor"}
	}
	roof := func(name string, area, azimuth float64) SurfaceConfig {
		return SurfaceConfig{Name: name, Area: area, Azimuth: azimuth, Tilt: 25,
			Absorptance: roof_a, UValue: roof_u, Boundary: "outdoor"}
	}
	win := func(name string, area, azimuth float64) WindowConfig {
		return WindowConfig{Name: name, Area: area, Azimuth: azimuth, Tilt: 90,
			UValue: window_u, GValue: win_g, FShading: win_fsh}
	}

	return Config{
		Constants:   ConstantsConfig{RhoAir: 1.2, CpAir: 1005.0, HExt: 23.0},
		Building:    BuildingConfig{Volume: 17448.0, FloorArea: 5816.0},
		Ventilation: VentilationConfig{MechFlow: 3.81, HRVEfficiency: 0.79, InfiltrationACH: 0.024},
		Setpoints:   SetpointsConfig{HeatingC: 21.0, CoolingC: 25.0, SetbackC: 18.0, DayStartH: 7, DayEndH: 22},
		Gains: GainsConfig{
			EquipmentKW: 29.1,
			OccupantsKW: 18.6,
			LightingKW:  11.8,
			KitchenKW:   20.0,
		},
		DesignDay: DesignDayConfig{HeatingPercentile: 0.4, CoolingPercentile: 99.6},
		RC:        RCConfig{Construction: "lightweight", MassInitC: 10.0, Interval: "15m"},
		Surfaces: []SurfaceConfig{
			wall("WW-N", 372.8, 7),
			wall("WW-S", 357.4, 187),
			wall("WW-W", 139.9, 277),
			wall("C-NE", 80.6, 116),
			wall("C-SW", 80.6, 296),
			wall("C-NW", 128.7, 206),
			wall("SW-E", 372.8, 77),
			wall("SW-W", 357.4, 257),
			wall("SW-S", 139.9, 167),
			roof("WW-RN", 288.0, 7),
			roof("WW-RS", 283.8, 187),
			roof("C-RNE", 69.4, 116),
			roof("C-RSW", 69.4, 296),
			roof("SW-RE", 288.0, 77),
			roof("SW-RW", 283.8, 257),
			{Name: "UG-Wall", Area: 207.0 * 2.0, Azimuth: 0, Tilt: 90, Absorptance: 0.0, UValue: 0.18, Boundary: "ground"},
			{Name: "Floor", Area: 1272.0, Azimuth: 0, Tilt: 0, Absorptance: 0.0, UValue: 0.34, Boundary: "ground"},
		},
		Windows: []WindowConfig{
			win("WW-N-Win", 141.2, 7),
			win("WW-S-Win", 141.2, 187),
			win("WW-W-Win", 13.6, 277),
			win("C-NE-Win", 24.8, 116),
			win("C-SW-Win", 24.8, 296),
			win("C-NW-Win", 24.8, 206),
			win("SW-E-Win", 141.2, 77),
			win("SW-W-Win", 141.2, 257),
			win("SW-S-Win", 13.6, 167),
		},
	}
}

// StudyConfig describes the single-zone study box used by the scenario,
// construction-mass and sensitivity studies: a 48 m2 rectangular zone
// with a flat roof and one south window, naturally ventilated.
func StudyConfig() Config {
	const (
		wall_u = 1.0 / wall_r_light
		roof_u = 1.0 / roof_r_total
	)

	wall := func(name string, area, azimuth float64) SurfaceConfig {
		return SurfaceConfig{Name: name, Area: area, Azimuth: azimuth, Tilt: 90,
			Absorptance: 0.6, UValue: wall_u, Boundary: "outdoor"}
	}

	return Config{
		Constants:   ConstantsConfig{RhoAir: 1.2, CpAir: 1005.0, HExt: 23.0},
		Building:    BuildingConfig{Volume: 129.6, FloorArea: 48.0},
		Ventilation: VentilationConfig{MechFlow: 0.0, HRVEfficiency: 0.0, InfiltrationACH: 0.5},
		Setpoints:   SetpointsConfig{HeatingC: 21.0, CoolingC: 25.0, SetbackC: 18.0, DayStartH: 7, DayEndH: 22},
		Gains:       GainsConfig{ConstantW: 200.0},
		DesignDay:   DesignDayConfig{HeatingPercentile: 0.4, CoolingPercentile: 99.6},
		RC:          RCConfig{Construction: "lightweight", MassInitC: 10.0, Interval: "15m"},
		Surfaces: []SurfaceConfig{
			{Name: "Roof", Area: 48.0, Azimuth: 0, Tilt: 0, Absorptance: 0.6, UValue: roof_u, Boundary: "outdoor"},
			wall("Wall-N", 21.6, 0),
			wall("Wall-S", 9.6, 180),
			wall("Wall-E", 16.2, 90),
			wall("Wall-W", 16.2, 270),
		},
		Windows: []WindowConfig{
			{Name: "Win-S", Area: 12.0, Azimuth: 180, Tilt: 90, UValue: 3.0, GValue: 0.789, FShading: 1.0},
		},
	}
}

/*
Load the layered configuration.

Args:

	path: optional YAML or JSON config file, "" for defaults only
	base: the built-in default set to layer on

Returns:

	validated configuration
*/
func LoadConfig(path string, base Config) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(base, "koanf"), nil); err != nil {
		return Config{}, &ConfigurationError{Field: "defaults", Constraint: err.Error()}
	}

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = kyaml.Parser()
		case ".json":
			parser = kjson.Parser()
		default:
			return Config{}, &ConfigurationError{Field: "config file", Constraint: "extension must be .yaml, .yml or .json"}
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, &ConfigurationError{Field: "config file", Constraint: err.Error()}
		}
	}

	if err := k.Load(env.ProviderWithValue("BPS_", ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, "BPS_"))
		return strings.ReplaceAll(key, "__", "."), value
	}), nil); err != nil {
		return Config{}, &ConfigurationError{Field: "environment", Constraint: err.Error()}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, &ConfigurationError{Field: "config", Constraint: err.Error()}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every numeric invariant before the solvers run.
func (c Config) Validate() error {
	if _, err := NewBuilding(c); err != nil {
		return err
	}

	dd := c.DesignDay
	if dd.HeatingPercentile <= 0.0 || dd.HeatingPercentile >= 100.0 {
		return &ConfigurationError{Field: "design_day.heating_percentile", Constraint: "must be in (0, 100)"}
	}
	if dd.CoolingPercentile <= 0.0 || dd.CoolingPercentile >= 100.0 {
		return &ConfigurationError{Field: "design_day.cooling_percentile", Constraint: "must be in (0, 100)"}
	}
	if dd.HeatingPercentile >= dd.CoolingPercentile {
		return &ConfigurationError{Field: "design_day.heating_percentile", Constraint: "must be below cooling_percentile"}
	}

	if _, ok := map[string]Construction{
		"lightweight": ConstructionLightweight,
		"heavyweight": ConstructionHeavyweight,
	}[c.RC.Construction]; !ok {
		return &ConfigurationError{Field: "rc.construction", Constraint: "must be lightweight or heavyweight"}
	}
	if _, ok := map[string]Interval{"1h": IntervalH1, "30m": IntervalM30, "15m": IntervalM15}[c.RC.Interval]; !ok {
		return &ConfigurationError{Field: "rc.interval", Constraint: "must be 1h, 30m or 15m"}
	}

	return nil
}

// clone returns a deep copy safe to mutate in sweeps.
func (c Config) clone() Config {
	out := c
	out.Surfaces = append([]SurfaceConfig(nil), c.Surfaces...)
	out.Windows = append([]WindowConfig(nil), c.Windows...)
	return out
}

// WriteResolved writes the fully resolved configuration as YAML next to
// the run outputs, so a result directory records the inputs it came from.
func WriteResolved(cfg Config, path string) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
