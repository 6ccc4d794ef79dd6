package building_physics

// **** 相当外気温度 ****

/*
Sol-air temperature of an opaque surface. Longwave sky exchange is not
modeled, so the result never falls below the outdoor temperature.

Args:

	theta_o: outdoor air temperature [C]
	i_p: plane-of-array irradiance [W/m2]
	alpha: solar absorptance [-]
	h_e: external surface heat-transfer coefficient [W/m2K]

Returns:

	equivalent driving temperature [C]
*/
func get_theta_sol_air(theta_o float64, i_p float64, alpha float64, h_e float64) float64 {
	return theta_o + alpha*i_p/h_e
}

// Plane-of-array irradiance on the surface for the given solar position.
func (s *Surface) irradiance(i_dn, i_dif, theta_s, phi_s float64) float64 {
	cos_i := get_cos_incidence(theta_s, phi_s, s.tilt, s.azimuth)
	return get_i_sol(i_dn, i_dif, cos_i, s.tilt)
}

// Plane-of-array irradiance on the window for the given solar position.
func (w *Window) irradiance(i_dn, i_dif, theta_s, phi_s float64) float64 {
	cos_i := get_cos_incidence(theta_s, phi_s, w.tilt, w.azimuth)
	return get_i_sol(i_dn, i_dif, cos_i, w.tilt)
}

// Transmitted solar gain through the window [W].
func (w *Window) solar_gain(i_p float64) float64 {
	return w.g_value * w.area * i_p * w.f_shading
}

// Sol-air temperature of the surface under the given conditions [C].
func (s *Surface) sol_air(theta_o, i_p, h_e float64) float64 {
	return get_theta_sol_air(theta_o, i_p, s.absorptance, h_e)
}
