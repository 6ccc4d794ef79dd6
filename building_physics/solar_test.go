package building_physics

import (
	"math"
	"testing"
)

func TestDeclinationSolstices(t *testing.T) {
	tests := []struct {
		name string
		doy  int
		want float64
	}{
		{name: "Summer solstice near +23.45", doy: 172, want: 23.45},
		{name: "Winter solstice near -23.45", doy: 355, want: -23.45},
		{name: "Spring equinox near zero", doy: 81, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := get_declination(tt.doy)
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("get_declination(%d) = %.2f, want %.2f +- 0.5", tt.doy, got, tt.want)
			}
		})
	}
}

func TestSunPositionNoon(t *testing.T) {
	// Stockholm latitude, summer solstice, solar noon. Elevation is
	// 90 - lat + decl and the azimuth points due south.
	theta_s, phi_s := get_sun_position(59.65, 172, 12.0)

	want_elev := 90.0 - 59.65 + get_declination(172)
	if math.Abs((90.0-theta_s)-want_elev) > 0.1 {
		t.Errorf("noon elevation = %.2f, want %.2f", 90.0-theta_s, want_elev)
	}
	if math.Abs(phi_s-180.0) > 0.5 {
		t.Errorf("noon azimuth = %.2f, want 180", phi_s)
	}
}

func TestSunPositionMorningIsEast(t *testing.T) {
	_, phi_s := get_sun_position(59.65, 172, 8.0)
	if phi_s <= 0 || phi_s >= 180 {
		t.Errorf("morning azimuth = %.2f, want in (0, 180)", phi_s)
	}

	_, phi_s = get_sun_position(59.65, 172, 16.0)
	if phi_s <= 180 || phi_s >= 360 {
		t.Errorf("afternoon azimuth = %.2f, want in (180, 360)", phi_s)
	}
}

func TestCosIncidence(t *testing.T) {
	tests := []struct {
		name    string
		theta_s float64
		phi_s   float64
		tilt    float64
		azimuth float64
		want    float64
	}{
		{
			name:    "Horizontal plane sees cos of zenith",
			theta_s: 30, phi_s: 180, tilt: 0, azimuth: 0,
			want: math.Cos(deg2rad(30)),
		},
		{
			name:    "South wall facing the noon sun",
			theta_s: 60, phi_s: 180, tilt: 90, azimuth: 180,
			want: math.Sin(deg2rad(60)),
		},
		{
			name:    "North wall at noon is fully shaded",
			theta_s: 60, phi_s: 180, tilt: 90, azimuth: 0,
			want: -math.Sin(deg2rad(60)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := get_cos_incidence(tt.theta_s, tt.phi_s, tt.tilt, tt.azimuth)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestPlaneIrradiance(t *testing.T) {
	tests := []struct {
		name  string
		i_dn  float64
		i_dif float64
		cos_i float64
		tilt  float64
		want  float64
	}{
		{name: "Beam fully projected on normal incidence", i_dn: 800, i_dif: 0, cos_i: 1, tilt: 90, want: 800},
		{name: "Negative incidence drops the beam", i_dn: 800, i_dif: 0, cos_i: -0.5, tilt: 90, want: 0},
		{name: "Horizontal plane sees full diffuse", i_dn: 0, i_dif: 100, cos_i: 0.5, tilt: 0, want: 100},
		{name: "Vertical plane sees half diffuse", i_dn: 0, i_dif: 100, cos_i: 0.5, tilt: 90, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := get_i_sol(tt.i_dn, tt.i_dif, tt.cos_i, tt.tilt)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %.3f, want %.3f", got, tt.want)
			}
			if got < 0 {
				t.Errorf("irradiance must never be negative, got %.3f", got)
			}
		})
	}
}
