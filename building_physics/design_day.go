package building_physics

// **** 設計日選定 ****
// Picks the heating and cooling design days out of an annual series:
// the percentile temperature is the reported design condition, and the
// extracted window is the calendar day holding the annual extreme hour.

import (
	"math"
	"sort"
	"time"
)

//-----//

type DesignKind int

const (
	DesignHeating DesignKind = iota
	DesignCooling
)

func (k DesignKind) String() string {
	return [...]string{"heating", "cooling"}[k]
}

//-----//

type DesignDay struct {
	kind        DesignKind
	percentile  float64
	design_temp float64 // interpolated percentile temperature [C]
	extreme_at  time.Time
	start       int // first step of the day window in the annual series
	weather     *Weather
}

func (d *DesignDay) Kind() DesignKind {
	return d.kind
}

func (d *DesignDay) DesignTemp() float64 {
	return d.design_temp
}

func (d *DesignDay) ExtremeAt() time.Time {
	return d.extreme_at
}

func (d *DesignDay) Weather() *Weather {
	return d.weather
}

/*
Select the heating and cooling design days from an annual series.

The heating day is the calendar day containing the coldest hour of the
year, the cooling day the one containing the hottest; ties resolve to
the earliest hour. The design temperatures are the configured
percentiles of the whole annual series.

Args:

	w: annual hourly weather series
	cfg: percentile configuration

Returns:

	heating and cooling design days, or DataError for a series that
	does not cover one full year
*/
func SelectDesignDays(w *Weather, cfg DesignDayConfig) (*DesignDay, *DesignDay, error) {
	if err := w.validate_annual(w.station); err != nil {
		return nil, nil, err
	}

	heat := select_design_day(w, DesignHeating, cfg.HeatingPercentile)
	cool := select_design_day(w, DesignCooling, cfg.CoolingPercentile)
	return heat, cool, nil
}

func select_design_day(w *Weather, kind DesignKind, p float64) *DesignDay {
	at := 0
	for i, v := range w.theta_o_ns {
		if kind == DesignHeating && v < w.theta_o_ns[at] {
			at = i
		}
		if kind == DesignCooling && v > w.theta_o_ns[at] {
			at = i
		}
	}

	start := at
	for start > 0 && w.day_ns[start-1] == w.day_ns[at] {
		start--
	}
	end := at
	for end < len(w.day_ns)-1 && w.day_ns[end+1] == w.day_ns[at] {
		end++
	}

	return &DesignDay{
		kind:        kind,
		percentile:  p,
		design_temp: percentile_interpolated(w.theta_o_ns, p),
		extreme_at:  w.timestamps[at],
		start:       start,
		weather:     w.slice(start, end-start+1),
	}
}

// Percentile with linear interpolation between order statistics; a
// single-element series degenerates to nearest rank.
func percentile_interpolated(v []float64, p float64) float64 {
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1.0-frac) + sorted[lo+1]*frac
}
