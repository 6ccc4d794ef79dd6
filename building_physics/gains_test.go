package building_physics

import (
	"errors"
	"testing"
)

func TestKitchenActiveHours(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{6, false},
		{7, true},
		{8, true},
		{9, false},
		{11, false},
		{12, true},
		{13, true},
		{14, false},
		{17, false},
		{18, true},
		{19, true},
		{20, false},
		{0, false},
		{23, false},
	}
	for _, tt := range tests {
		if got := kitchen_active(tt.hour); got != tt.want {
			t.Errorf("hour %d: Got %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestInternalGainsSchedule(t *testing.T) {
	g, err := NewInternalGains(GainsConfig{
		EquipmentKW:     2.0,
		OccupantsKW:     1.0,
		LightingKW:      0.5,
		KitchenKW:       4.0,
		KitchenFraction: 0.25,
	})
	if err != nil {
		t.Fatalf("NewInternalGains: %v", err)
	}

	if got := g.total(); got != 3500.0 {
		t.Errorf("total: Got %v, want 3500", got)
	}

	tests := []struct {
		name string
		hour int
		want float64
	}{
		{"before breakfast", 6, 1000.0},
		{"breakfast", 7, 4000.0},
		{"dinner end", 19, 4000.0},
		{"after dinner", 20, 1000.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.kitchen_at(tt.hour); got != tt.want {
				t.Errorf("Got %v, want %v", got, tt.want)
			}
		})
	}

	if got := g.cooling_at(12); got != 7500.0 {
		t.Errorf("cooling_at(12): Got %v, want 7500", got)
	}
	if got := g.cooling_at(0); got != 4500.0 {
		t.Errorf("cooling_at(0): Got %v, want 4500", got)
	}
}

func TestNewInternalGainsValidation(t *testing.T) {
	tests := []struct {
		name string
		gc   GainsConfig
	}{
		{"negative equipment", GainsConfig{EquipmentKW: -1.0}},
		{"negative kitchen", GainsConfig{KitchenKW: -0.1}},
		{"negative constant", GainsConfig{ConstantW: -200.0}},
		{"fraction below zero", GainsConfig{KitchenFraction: -0.1}},
		{"fraction above one", GainsConfig{KitchenFraction: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInternalGains(tt.gc)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Got %v, want configuration error", err)
			}
		})
	}

	if _, err := NewInternalGains(GainsConfig{KitchenKW: 2.0, KitchenFraction: 1.0}); err != nil {
		t.Errorf("Got %v for a valid config, want nil", err)
	}
}
