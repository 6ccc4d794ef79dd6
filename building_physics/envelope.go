package building_physics

// **** 外皮 ****
// Envelope surfaces: opaque walls, roofs and ground-contact parts,
// plus glazing. Geometry uses the compass azimuth convention and
// tilt measured from horizontal, so a flat roof has tilt 0 and a
// wall has tilt 90.

import (
	"fmt"
)

//-----//

type BoundaryType int

const (
	// outdoor air on the far side
	BoundaryOutdoor BoundaryType = iota
	// ground on the far side
	BoundaryGround
)

func (b BoundaryType) String() string {
	return [...]string{"outdoor", "ground"}[b]
}

func BoundaryTypeFromString(s string) BoundaryType {
	return map[string]BoundaryType{
		"outdoor": BoundaryOutdoor,
		"ground":  BoundaryGround,
	}[s]
}

//-----//

// An opaque envelope surface.
type Surface struct {
	name        string
	area        float64 // [m2]
	azimuth     float64 // compass azimuth [deg]
	tilt        float64 // tilt from horizontal [deg]
	absorptance float64 // solar absorptance [-]
	u_value     float64 // thermal transmittance [W/m2K]
	boundary    BoundaryType
}

func (s *Surface) Name() string {
	return s.name
}

func (s *Surface) Area() float64 {
	return s.area
}

// Flat and shallow-pitched outdoor surfaces count as roof in the
// load breakdown; steeper ones count as walls.
func (s *Surface) is_roof() bool {
	return s.boundary == BoundaryOutdoor && s.tilt < 45.0
}

// A glazed surface. Solar transmission uses the g-value together with
// the external shading factor.
type Window struct {
	name      string
	area      float64 // [m2]
	azimuth   float64 // compass azimuth [deg]
	tilt      float64 // tilt from horizontal [deg]
	u_value   float64 // thermal transmittance [W/m2K]
	g_value   float64 // solar heat gain coefficient [-]
	f_shading float64 // shading reduction factor [-]
}

func (w *Window) Name() string {
	return w.name
}

func (w *Window) Area() float64 {
	return w.area
}

type Envelope struct {
	surfaces []Surface
	windows  []Window
}

/*
Assemble the envelope from its configuration.

Args:

	scs: opaque surface configurations
	wcs: window configurations

Returns:

	validated envelope, or ConfigurationError
*/
func NewEnvelope(scs []SurfaceConfig, wcs []WindowConfig) (*Envelope, error) {
	if len(scs) == 0 {
		return nil, &ConfigurationError{Field: "surfaces", Constraint: "at least one surface is required"}
	}

	e := &Envelope{
		surfaces: make([]Surface, len(scs)),
		windows:  make([]Window, len(wcs)),
	}

	for i, sc := range scs {
		field := func(name string) string { return fmt.Sprintf("surfaces[%d].%s", i, name) }

		if sc.Area <= 0.0 {
			return nil, &ConfigurationError{Field: field("area"), Constraint: "must be positive"}
		}
		if sc.Azimuth < 0.0 || sc.Azimuth >= 360.0 {
			return nil, &ConfigurationError{Field: field("azimuth"), Constraint: "must be in [0, 360)"}
		}
		if sc.Tilt < 0.0 || sc.Tilt > 180.0 {
			return nil, &ConfigurationError{Field: field("tilt"), Constraint: "must be in [0, 180]"}
		}
		if sc.Absorptance < 0.0 || sc.Absorptance > 1.0 {
			return nil, &ConfigurationError{Field: field("absorptance"), Constraint: "must be in [0, 1]"}
		}
		if sc.UValue <= 0.0 {
			return nil, &ConfigurationError{Field: field("u_value"), Constraint: "must be positive"}
		}
		if _, ok := map[string]BoundaryType{"outdoor": BoundaryOutdoor, "ground": BoundaryGround}[sc.Boundary]; !ok {
			return nil, &ConfigurationError{Field: field("boundary"), Constraint: "must be outdoor or ground"}
		}

		e.surfaces[i] = Surface{
			name:        sc.Name,
			area:        sc.Area,
			azimuth:     sc.Azimuth,
			tilt:        sc.Tilt,
			absorptance: sc.Absorptance,
			u_value:     sc.UValue,
			boundary:    BoundaryTypeFromString(sc.Boundary),
		}
	}

	for i, wc := range wcs {
		field := func(name string) string { return fmt.Sprintf("windows[%d].%s", i, name) }

		if wc.Area <= 0.0 {
			return nil, &ConfigurationError{Field: field("area"), Constraint: "must be positive"}
		}
		if wc.Azimuth < 0.0 || wc.Azimuth >= 360.0 {
			return nil, &ConfigurationError{Field: field("azimuth"), Constraint: "must be in [0, 360)"}
		}
		if wc.Tilt < 0.0 || wc.Tilt > 180.0 {
			return nil, &ConfigurationError{Field: field("tilt"), Constraint: "must be in [0, 180]"}
		}
		if wc.UValue <= 0.0 {
			return nil, &ConfigurationError{Field: field("u_value"), Constraint: "must be positive"}
		}
		if wc.GValue <= 0.0 || wc.GValue > 1.0 {
			return nil, &ConfigurationError{Field: field("g_value"), Constraint: "must be in (0, 1]"}
		}
		if wc.FShading <= 0.0 || wc.FShading > 1.0 {
			return nil, &ConfigurationError{Field: field("f_shading"), Constraint: "must be in (0, 1]"}
		}

		e.windows[i] = Window{
			name:      wc.Name,
			area:      wc.Area,
			azimuth:   wc.Azimuth,
			tilt:      wc.Tilt,
			u_value:   wc.UValue,
			g_value:   wc.GValue,
			f_shading: wc.FShading,
		}
	}

	return e, nil
}

func (e *Envelope) Surfaces() []Surface {
	return e.surfaces
}

func (e *Envelope) Windows() []Window {
	return e.windows
}
