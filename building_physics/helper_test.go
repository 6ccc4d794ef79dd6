package building_physics

import (
	"time"
)

// Builds an hourly weather series directly, bypassing the EPW loader.
// The sun is pinned at the horizon due south, so beam irradiance on a
// south wall passes through cos(i) = 1 and ground temperatures are a
// flat 5 C.
func test_weather(n int, fn func(i int) (theta_o, i_dn, i_dif float64)) *Weather {
	w := &Weather{
		itv:      IntervalH1,
		station:  "test",
		latitude: 59.65,
	}
	for m := range w.theta_g_ms {
		w.theta_g_ms[m] = 5.0
	}

	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	w.timestamps = make([]time.Time, n)
	w.theta_o_ns = make([]float64, n)
	w.i_dn_ns = make([]float64, n)
	w.i_dif_ns = make([]float64, n)
	w.i_ghi_ns = make([]float64, n)
	w.v_wind_ns = make([]float64, n)
	w.theta_s_ns = make([]float64, n)
	w.phi_s_ns = make([]float64, n)

	for i := 0; i < n; i++ {
		w.timestamps[i] = start.Add(time.Duration(i) * time.Hour)
		theta_o, i_dn, i_dif := fn(i)
		w.theta_o_ns[i] = theta_o
		w.i_dn_ns[i] = i_dn
		w.i_dif_ns[i] = i_dif
		w.i_ghi_ns[i] = i_dn + i_dif
		w.theta_s_ns[i] = 90.0
		w.phi_s_ns[i] = 180.0
	}
	w.index_steps()

	return w
}

// A one-wall zone with no air exchange and no gains. The south wall is
// A=10 m2, U=0.3 W/m2K, alpha=0.6 under h_e=20 W/m2K.
func test_wall_config() Config {
	return Config{
		Constants:   ConstantsConfig{RhoAir: 1.2, CpAir: 1005.0, HExt: 20.0},
		Building:    BuildingConfig{Volume: 100.0, FloorArea: 10.0},
		Ventilation: VentilationConfig{},
		Setpoints:   SetpointsConfig{HeatingC: 20.0, CoolingC: 25.0, SetbackC: 18.0, DayStartH: 7, DayEndH: 22},
		DesignDay:   DesignDayConfig{HeatingPercentile: 0.4, CoolingPercentile: 99.6},
		RC:          RCConfig{Construction: "lightweight", MassInitC: 10.0, Interval: "15m"},
		Surfaces: []SurfaceConfig{
			{Name: "Wall-S", Area: 10.0, Azimuth: 180, Tilt: 90, Absorptance: 0.6, UValue: 0.3, Boundary: "outdoor"},
		},
	}
}
