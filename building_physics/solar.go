package building_physics

// **** 太陽位置と傾斜面日射 ****
// Solar position and irradiance on tilted planes.
// Azimuth convention: compass degrees, 0 = north, 90 = east, 180 = south.

import "math"

/*
Calculate the solar declination.

Args:

	doy: day of year (1 = Jan 1)

Returns:

	declination [deg]
*/
func get_declination(doy int) float64 {
	return 23.45 * math.Sin(deg2rad(360.0*float64(284+doy)/365.0))
}

/*
Calculate the hour angle from the clock hour.

Args:

	hour: hour of day, solar noon = 12

Returns:

	hour angle [deg], negative in the morning
*/
func get_hour_angle(hour float64) float64 {
	return 15.0 * (hour - 12.0)
}

/*
Calculate the solar zenith angle and azimuth.

Args:

	lat: latitude, north positive [deg]
	doy: day of year
	hour: hour of day

Returns:

	theta_s: zenith angle [deg]
	phi_s: azimuth, compass convention [deg]
*/
func get_sun_position(lat float64, doy int, hour float64) (float64, float64) {
	decl := get_declination(doy)
	ha := get_hour_angle(hour)

	lat_r := deg2rad(lat)
	dec_r := deg2rad(decl)
	ha_r := deg2rad(ha)

	elev := math.Asin(math.Sin(lat_r)*math.Sin(dec_r) + math.Cos(lat_r)*math.Cos(dec_r)*math.Cos(ha_r))

	// Azimuth measured from south, positive towards west, shifted to
	// the compass convention shared with the surface definitions.
	azim := math.Atan2(math.Sin(ha_r), math.Cos(ha_r)*math.Sin(lat_r)-math.Tan(dec_r)*math.Cos(lat_r))
	phi_s := math.Mod(180.0+rad2deg(azim)+360.0, 360.0)

	return 90.0 - rad2deg(elev), phi_s
}

/*
Calculate the cosine of the incidence angle on a tilted plane.

Args:

	theta_s: solar zenith angle [deg]
	phi_s: solar azimuth, compass convention [deg]
	tilt: plane tilt from horizontal [deg]
	azimuth: plane azimuth, compass convention [deg]

Returns:

	cos of the incidence angle, negative when the sun is behind the plane
*/
func get_cos_incidence(theta_s float64, phi_s float64, tilt float64, azimuth float64) float64 {
	ths := deg2rad(theta_s)
	phs := deg2rad(phi_s)
	thp := deg2rad(tilt)
	php := deg2rad(azimuth)
	return math.Sin(ths)*math.Sin(thp)*math.Cos(phs-php) + math.Cos(ths)*math.Cos(thp)
}

/*
Calculate the total irradiance on a tilted plane.
Beam is projected by the incidence angle, diffuse by the isotropic
sky view factor (1 + cos tilt) / 2. Ground reflection is neglected.

Args:

	i_dn: direct normal irradiance [W/m2]
	i_dif: diffuse horizontal irradiance [W/m2]
	cos_i: cosine of the incidence angle
	tilt: plane tilt from horizontal [deg]

Returns:

	irradiance on the plane [W/m2], never negative
*/
func get_i_sol(i_dn float64, i_dif float64, cos_i float64, tilt float64) float64 {
	f_sky := (1.0 + math.Cos(deg2rad(tilt))) / 2.0
	return math.Max(0.0, i_dn*math.Max(0.0, cos_i)) + i_dif*f_sky
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func rad2deg(r float64) float64 {
	return r * 180.0 / math.Pi
}
