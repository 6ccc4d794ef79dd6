package building_physics

// Calculation interval of the dynamic model.
type Interval int

const (
	IntervalH1  Interval = iota // 1 hour
	IntervalM30                 // 30 minutes
	IntervalM15                 // 15 minutes
)

func (itv Interval) String() string {
	return [...]string{"1h", "30m", "15m"}[itv]
}

func IntervalFromString(s string) Interval {
	return map[string]Interval{
		"1h":  IntervalH1,
		"30m": IntervalM30,
		"15m": IntervalM15,
	}[s]
}

// Number of steps per hour.
func (itv Interval) get_n_hour() int {
	return [...]int{1, 2, 4}[itv]
}

// Timestep in seconds.
func (itv Interval) get_delta_t() float64 {
	return [...]float64{3600.0, 1800.0, 900.0}[itv]
}
