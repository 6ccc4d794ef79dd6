package building_physics

// **** 内部発熱 ****

// Hours of the kitchen meal blocks: breakfast, lunch and dinner.
func kitchen_active(hour int) bool {
	switch hour {
	case 7, 8, 12, 13, 18, 19:
		return true
	}
	return false
}

// Internal heat sources. Equipment, occupant and lighting loads apply
// as a constant aggregate; the kitchen load follows the meal blocks.
// The scheduled annual balance uses the separate constant gain.
type InternalGains struct {
	equipment float64 // [W]
	occupants float64 // [W]
	lighting  float64 // [W]

	kitchen          float64 // [W] during meal blocks
	kitchen_fraction float64 // share of kitchen load outside meal blocks

	constant float64 // [W] scheduled annual balance aggregate
}

func NewInternalGains(gc GainsConfig) (InternalGains, error) {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"internal_gains.equipment_kw", gc.EquipmentKW},
		{"internal_gains.occupants_kw", gc.OccupantsKW},
		{"internal_gains.lighting_kw", gc.LightingKW},
		{"internal_gains.kitchen_kw", gc.KitchenKW},
		{"internal_gains.constant_w", gc.ConstantW},
	} {
		if f.v < 0.0 {
			return InternalGains{}, &ConfigurationError{Field: f.name, Constraint: "must not be negative"}
		}
	}
	if gc.KitchenFraction < 0.0 || gc.KitchenFraction > 1.0 {
		return InternalGains{}, &ConfigurationError{Field: "internal_gains.kitchen_fraction", Constraint: "must be in [0, 1]"}
	}

	return InternalGains{
		equipment:        gc.EquipmentKW * 1000.0,
		occupants:        gc.OccupantsKW * 1000.0,
		lighting:         gc.LightingKW * 1000.0,
		kitchen:          gc.KitchenKW * 1000.0,
		kitchen_fraction: gc.KitchenFraction,
		constant:         gc.ConstantW,
	}, nil
}

// Aggregate of the constant sources [W].
func (g InternalGains) total() float64 {
	return g.equipment + g.occupants + g.lighting
}

// Kitchen load at the given hour of day [W].
func (g InternalGains) kitchen_at(hour int) float64 {
	if kitchen_active(hour) {
		return g.kitchen
	}
	return g.kitchen * g.kitchen_fraction
}

// Gain entering the cooling balance at the given hour of day [W].
func (g InternalGains) cooling_at(hour int) float64 {
	return g.total() + g.kitchen_at(hour)
}
