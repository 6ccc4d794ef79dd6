package building_physics

// **** RC熱回路網 ****
// Lumped-capacitance network: one air node plus a 2R1C branch per
// outdoor opaque surface, each mass sitting between half the element
// resistance to the room and half to its sol-air boundary. Windows,
// infiltration, ventilation and ground contact couple the air node
// directly. Mass rows advance by Crank-Nicolson; zero-capacitance rows
// reduce to an instantaneous balance, which makes the massless network
// coincide with the steady-state balance.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//-----//

type Construction int

const (
	ConstructionLightweight Construction = iota
	ConstructionHeavyweight
)

func (c Construction) String() string {
	return [...]string{"lightweight", "heavyweight"}[c]
}

func ConstructionFromString(s string) Construction {
	return map[string]Construction{
		"lightweight": ConstructionLightweight,
		"heavyweight": ConstructionHeavyweight,
	}[s]
}

//-----//

// Construction-class resistances [m2K/W] and areal heat capacities
// [J/m2K]. The lightweight wall stores heat in 12 mm of plasterboard,
// the heavyweight one in 100 mm of concrete block; the roof deck is
// 10 mm of plasterboard in both.
const (
	wall_r_light = 1.944
	wall_r_heavy = 1.952
	roof_r_total = 3.148

	wall_cap_light = 9576.0   // 950 * 840 * 0.012
	wall_cap_heavy = 140000.0 // 1400 * 1000 * 0.100
	roof_cap       = 7980.0   // 950 * 840 * 0.010
)

func areal_heat_capacity(cons Construction, is_roof bool) float64 {
	if is_roof {
		return roof_cap
	}
	if cons == ConstructionHeavyweight {
		return wall_cap_heavy
	}
	return wall_cap_light
}

// One 2R1C branch: a mass node behind conductance g1 to the air node
// and g2 to its sol-air boundary.
type rc_branch struct {
	name    string
	surface Surface
	g1      float64 // mass to air [W/K]
	g2      float64 // mass to boundary [W/K]
	c       float64 // [J/K]
}

type RCNetwork struct {
	branches []rc_branch
	windows  []Window

	c_air    float64 // air node capacitance [J/K]
	ua_win   float64 // [W/K]
	ua_inf   float64 // [W/K]
	ua_mech  float64 // [W/K]
	g_ground float64 // [W/K]

	rho_air float64
	cp_air  float64
	volume  float64
	h_ext   float64
}

/*
Assemble the RC network for a building.

Args:

	b: building model
	cons: construction class selecting the areal heat capacities

Returns:

	network ready to run
*/
func NewRCNetwork(b *Building, cons Construction) (*RCNetwork, error) {
	net := &RCNetwork{
		c_air:   b.rho_air * b.cp_air * b.volume,
		ua_inf:  b.rho_air * b.cp_air * b.infiltration_flow(),
		ua_mech: b.rho_air * b.cp_air * b.mech_flow * (1.0 - b.hrv_eff),
		rho_air: b.rho_air,
		cp_air:  b.cp_air,
		volume:  b.volume,
		h_ext:   b.h_ext,
	}

	for i := range b.envelope.surfaces {
		s := b.envelope.surfaces[i]
		if s.boundary == BoundaryGround {
			net.g_ground += s.u_value * s.area
			continue
		}

		// Half of the element resistance on each side of the mass.
		g := 2.0 * s.u_value * s.area
		c := areal_heat_capacity(cons, s.is_roof()) * s.area
		if c <= 0.0 {
			return nil, &ConfigurationError{Field: "surfaces." + s.name, Constraint: "capacitance must be positive"}
		}
		net.branches = append(net.branches, rc_branch{name: s.name, surface: s, g1: g, g2: g, c: c})
	}

	net.windows = append([]Window(nil), b.envelope.windows...)
	for i := range net.windows {
		net.ua_win += net.windows[i].u_value * net.windows[i].area
	}

	return net, nil
}

// Run parameters for one RC simulation.
type RCRun struct {
	Heat     DaySchedule // heating setpoint [C]
	Cool     DaySchedule // cooling setpoint [C]
	Vent     DaySchedule // ventilation air change [1/h]
	GainW    float64     // constant internal gain [W]
	InitC    float64     // initial mass-node temperature [C]
	Interval Interval
}

type RCResult struct {
	weather *Weather
	itv     Interval

	branch_names []string
	t_air        []float64
	t_mass       [][]float64 // [branch][step]

	q_heat  []float64
	q_cool  []float64
	q_solar []float64
	q_int   []float64
}

func (r *RCResult) Len() int {
	return len(r.t_air)
}

// Time integral of the heating demand [kWh].
func (r *RCResult) HeatingKWh() float64 {
	return integrate_kwh(r.q_heat, r.itv.get_delta_t())
}

// Time integral of the cooling demand [kWh].
func (r *RCResult) CoolingKWh() float64 {
	return integrate_kwh(r.q_cool, r.itv.get_delta_t())
}

func integrate_kwh(q []float64, delta_t float64) float64 {
	sum := 0.0
	for _, v := range q {
		sum += v
	}
	return sum * delta_t / 3.6e6
}

/*
Advance the network over the weather series.

Hourly drivers are linearly interpolated to the run interval. Each step
first projects the free-floating air temperature; if it crosses the
active heating or cooling setpoint, the air node is clamped there and
the required injection becomes the reported demand. Inside the deadband
the zone floats and the demand is zero.

Args:

	w: hourly weather series
	run: schedules, gains and stepping parameters

Returns:

	temperature and demand trajectory, or NumericalInstabilityError
	when the timestep violates the stability bound
*/
func (net *RCNetwork) Run(w *Weather, run RCRun) (*RCResult, error) {
	wi := w.interpolate(run.Interval)
	tau := run.Interval.get_delta_t()
	n := wi.Len()

	if err := net.check_stability(tau, run.Vent); err != nil {
		return nil, err
	}

	nb := len(net.branches)
	nn := nb + 1

	// Boundary series per step.
	t_sol := make([][]float64, nb)
	for bi := range net.branches {
		br := &net.branches[bi]
		t_sol[bi] = make([]float64, n)
		for p := 0; p < n; p++ {
			i_p := br.surface.irradiance(wi.i_dn_ns[p], wi.i_dif_ns[p], wi.theta_s_ns[p], wi.phi_s_ns[p])
			t_sol[bi][p] = br.surface.sol_air(wi.theta_o_ns[p], i_p, net.h_ext)
		}
	}
	q_solar := make([]float64, n)
	for p := 0; p < n; p++ {
		for wj := range net.windows {
			win := &net.windows[wj]
			i_p := win.irradiance(wi.i_dn_ns[p], wi.i_dif_ns[p], wi.theta_s_ns[p], wi.phi_s_ns[p])
			q_solar[p] += win.solar_gain(i_p)
		}
	}
	g_dir := make([]float64, n)
	for p := 0; p < n; p++ {
		ach := run.Vent.at(wi.hour_ns[p])
		g_dir[p] = net.ua_win + net.ua_inf + net.ua_mech + net.rho_air*net.cp_air*ach*net.volume/3600.0
	}
	theta_g := make([]float64, n)
	for p := 0; p < n; p++ {
		theta_g[p] = wi.theta_g_m(wi.m_ns[p])
	}

	r := &RCResult{
		weather: wi,
		itv:     run.Interval,
		t_air:   make([]float64, n),
		t_mass:  make([][]float64, nb),
		q_heat:  make([]float64, n),
		q_cool:  make([]float64, n),
		q_solar: q_solar,
		q_int:   make([]float64, n),
	}
	for bi := range net.branches {
		r.branch_names = append(r.branch_names, net.branches[bi].name)
		r.t_mass[bi] = make([]float64, n)
		r.t_mass[bi][0] = run.InitC
	}
	for p := 0; p < n; p++ {
		r.q_int[p] = run.GainW
	}

	a := mat.NewDense(nn, nn, nil)
	rhs := mat.NewVecDense(nn, nil)
	x := mat.NewVecDense(nn, nil)
	var lu mat.LU

	solve := func(p int, clamp bool, t_clamp float64, load bool) (float64, error) {
		a.Zero()

		g1_sum := 0.0
		for bi := range net.branches {
			g1_sum += net.branches[bi].g1
		}

		// Air row.
		if clamp {
			a.Set(0, 0, 1.0)
			rhs.SetVec(0, t_clamp)
		} else if net.c_air > 0.0 && p > 0 {
			a.Set(0, 0, 2.0*net.c_air/tau+g1_sum+g_dir[p]+net.g_ground)
			for bi := range net.branches {
				a.Set(0, 1+bi, -net.branches[bi].g1)
			}
			rhs.SetVec(0, 2.0*net.c_air/tau*r.t_air[p-1]+
				g_dir[p]*wi.theta_o_ns[p]+net.g_ground*theta_g[p]+
				net.air_flux(r, p-1, g_dir, theta_g)+
				q_solar[p]+q_solar[p-1]+r.q_int[p]+r.q_int[p-1])
		} else {
			// Massless air node, or the first step: instantaneous balance at p.
			a.Set(0, 0, g1_sum+g_dir[p]+net.g_ground)
			for bi := range net.branches {
				a.Set(0, 1+bi, -net.branches[bi].g1)
			}
			rhs.SetVec(0, g_dir[p]*wi.theta_o_ns[p]+net.g_ground*theta_g[p]+q_solar[p]+r.q_int[p])
		}

		// Mass rows.
		for bi := range net.branches {
			br := &net.branches[bi]
			row := 1 + bi
			if p == 0 {
				a.Set(row, row, 1.0)
				rhs.SetVec(row, run.InitC)
				continue
			}
			cc := 2.0 * br.c / tau
			a.Set(row, row, cc+br.g1+br.g2)
			a.Set(row, 0, -br.g1)
			rhs.SetVec(row, cc*r.t_mass[bi][p-1]+
				br.g1*r.t_air[p-1]+
				br.g2*(t_sol[bi][p]+t_sol[bi][p-1])-
				(br.g1+br.g2)*r.t_mass[bi][p-1])
		}

		lu.Factorize(a)
		if err := lu.SolveVecTo(x, false, rhs); err != nil {
			return 0.0, fmt.Errorf("rc network solve at step %d: %w", p, err)
		}

		r.t_air[p] = x.AtVec(0)
		for bi := range net.branches {
			r.t_mass[bi][p] = x.AtVec(1 + bi)
		}

		if !load {
			return 0.0, nil
		}

		// Injection required at the air node to hold the clamped state.
		flux_p := net.air_flux(r, p, g_dir, theta_g)
		if net.c_air > 0.0 && p > 0 {
			return (2.0*net.c_air/tau*(r.t_air[p]-r.t_air[p-1]) -
				flux_p - net.air_flux(r, p-1, g_dir, theta_g) -
				q_solar[p] - q_solar[p-1] - r.q_int[p] - r.q_int[p-1]) / 2.0, nil
		}
		return -flux_p - q_solar[p] - r.q_int[p], nil
	}

	for p := 0; p < n; p++ {
		if _, err := solve(p, false, 0.0, false); err != nil {
			return nil, err
		}

		hour := wi.hour_ns[p]
		heat_set := run.Heat.at(hour)
		cool_set := run.Cool.at(hour)

		if r.t_air[p] < heat_set {
			load, err := solve(p, true, heat_set, true)
			if err != nil {
				return nil, err
			}
			r.q_heat[p] = math.Max(0.0, load)
		} else if r.t_air[p] > cool_set {
			load, err := solve(p, true, cool_set, true)
			if err != nil {
				return nil, err
			}
			r.q_cool[p] = math.Max(0.0, -load)
		}
	}

	return r, nil
}

// Signed conductive flux into the air node at step p [W].
func (net *RCNetwork) air_flux(r *RCResult, p int, g_dir []float64, theta_g []float64) float64 {
	flux := g_dir[p]*(r.weather.theta_o_ns[p]-r.t_air[p]) + net.g_ground*(theta_g[p]-r.t_air[p])
	for bi := range net.branches {
		flux += net.branches[bi].g1 * (r.t_mass[bi][p] - r.t_air[p])
	}
	return flux
}

// The trapezoid scheme rings once the timestep passes 2*C/G on the
// stiffest node, so such runs are rejected outright.
func (net *RCNetwork) check_stability(tau float64, vent DaySchedule) error {
	c_min := math.Inf(1)
	g_max := 0.0

	for bi := range net.branches {
		br := &net.branches[bi]
		c_min = math.Min(c_min, br.c)
		g_max = math.Max(g_max, br.g1+br.g2)
	}

	if net.c_air > 0.0 {
		c_min = math.Min(c_min, net.c_air)
		ach := math.Max(vent.day, vent.night)
		g_air := net.ua_win + net.ua_inf + net.ua_mech + net.g_ground +
			net.rho_air*net.cp_air*ach*net.volume/3600.0
		for bi := range net.branches {
			g_air += net.branches[bi].g1
		}
		g_max = math.Max(g_max, g_air)
	}

	if math.IsInf(c_min, 1) || g_max <= 0.0 {
		return nil
	}

	bound := 2.0 * c_min / g_max
	if tau >= bound {
		return &NumericalInstabilityError{DeltaT: tau, Bound: bound}
	}
	return nil
}
