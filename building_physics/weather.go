package building_physics

// **** 気象データ ****
// EPW weather series: hourly dry-bulb, irradiance and wind, plus the
// monthly ground temperatures and solar position derived at load time.

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// Missing-value sentinels of the EPW format.
const (
	epw_missing_dry_bulb   = 99.9
	epw_missing_irradiance = 9999.0
)

// One EPW data record. Fields are decoded positionally in file order,
// so every column of the format is declared even where unused.
type epwRow struct {
	Year                     int
	Month                    int
	Day                      int
	Hour                     int
	Minute                   int
	DataSource               string
	DryBulb                  float64
	DewPoint                 float64
	RelHumidity              float64
	AtmosPressure            float64
	ExtraterrestrialHorizRad float64
	ExtraterrestrialDNR      float64
	HorizInfraredIntensity   float64
	GlobalHorizRad           float64
	DirectNormalRad          float64
	DiffuseHorizRad          float64
	GlobalHorizIlluminance   float64
	DirectNormalIlluminance  float64
	DiffuseHorizIlluminance  float64
	ZenithLuminance          float64
	WindDirection            float64
	WindSpeed                float64
	TotalSkyCover            float64
	OpaqueSkyCover           float64
	Visibility               float64
	CeilingHeight            float64
	PresentWeatherObs        string
	PresentWeatherCodes      string
	PrecipitableWater        float64
	AerosolOpticalDepth      float64
	SnowDepth                float64
	DaysSinceSnow            string
	Albedo                   float64
	LiquidPrecipDepth        float64
	LiquidPrecipQuantity     float64
}

type Weather struct {
	station   string
	latitude  float64
	longitude float64
	tz        float64

	itv        Interval
	timestamps []time.Time
	theta_o_ns []float64 // outdoor dry-bulb temperature [C]
	i_dn_ns    []float64 // direct normal irradiance [W/m2]
	i_dif_ns   []float64 // diffuse horizontal irradiance [W/m2]
	i_ghi_ns   []float64 // global horizontal irradiance [W/m2]
	v_wind_ns  []float64 // wind speed [m/s], informational only
	theta_s_ns []float64 // solar zenith angle [deg]
	phi_s_ns   []float64 // solar azimuth, compass convention [deg]

	// Monthly ground temperature at the depth closest to 2 m,
	// from the EPW GROUND TEMPERATURES header.
	theta_g_ms [12]float64

	m_ns    []int // month of step n, 1..12
	hour_ns []int // hour of day of step n, 0..23
	day_ns  []int // day index of step n from the series start
}

/*
Read an EPW weather file.

The eight header lines provide the station coordinates and the monthly
ground temperatures; the remaining lines are hourly records. Timestamps
are normalized to the year of the first record so typical-year files
assembled from several calendar years form one continuous series.

Args:

	path: EPW file path

Returns:

	hourly weather series, or DataError when the file is malformed
*/
func NewWeatherFromEPW(path string) (*Weather, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataError{Source: path, Detail: err.Error()}
	}
	defer f.Close()

	return read_epw(f, path)
}

func read_epw(r io.Reader, source string) (*Weather, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &DataError{Source: source, Detail: err.Error()}
	}

	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	if len(lines) < 9 {
		return nil, &DataError{Source: source, Detail: "fewer than 8 header lines"}
	}

	w := &Weather{itv: IntervalH1}

	if err := w.parse_location(lines[0], source); err != nil {
		return nil, err
	}
	if err := w.parse_ground_temps(lines[:8], source); err != nil {
		return nil, err
	}

	body := strings.Join(lines[8:], "\n")
	cr := csv.NewReader(strings.NewReader(body))
	cr.FieldsPerRecord = -1

	var rows []*epwRow
	if err := gocsv.UnmarshalCSVWithoutHeaders(cr, &rows); err != nil {
		return nil, &DataError{Source: source, Detail: err.Error()}
	}

	n := len(rows)
	if n != 8760 && n != 8784 {
		return nil, &DataError{Source: source, Detail: "got " + strconv.Itoa(n) + " records, want 8760 or 8784"}
	}

	w.timestamps = make([]time.Time, n)
	w.theta_o_ns = make([]float64, n)
	w.i_dn_ns = make([]float64, n)
	w.i_dif_ns = make([]float64, n)
	w.i_ghi_ns = make([]float64, n)
	w.v_wind_ns = make([]float64, n)
	w.theta_s_ns = make([]float64, n)
	w.phi_s_ns = make([]float64, n)

	year := rows[0].Year

	for i, row := range rows {
		if row.Month < 1 || row.Month > 12 || row.Day < 1 || row.Day > 31 || row.Hour < 1 || row.Hour > 24 {
			return nil, &DataError{Source: source, Detail: "record " + strconv.Itoa(i+1) + ": invalid date fields"}
		}
		if row.DryBulb >= epw_missing_dry_bulb {
			return nil, &DataError{Source: source, Detail: "record " + strconv.Itoa(i+1) + ": missing dry-bulb temperature"}
		}
		if bad_irradiance(row.DirectNormalRad) || bad_irradiance(row.DiffuseHorizRad) || bad_irradiance(row.GlobalHorizRad) {
			return nil, &DataError{Source: source, Detail: "record " + strconv.Itoa(i+1) + ": missing or negative irradiance"}
		}

		// EPW hours run 1..24 and label the end of the interval.
		ts := time.Date(year, time.Month(row.Month), row.Day, row.Hour-1, 0, 0, 0, time.UTC)
		w.timestamps[i] = ts
		if i > 0 && !ts.Equal(w.timestamps[i-1].Add(time.Hour)) {
			return nil, &DataError{Source: source, Detail: "record " + strconv.Itoa(i+1) + ": timestamps not hourly and chronological"}
		}

		w.theta_o_ns[i] = row.DryBulb
		w.i_dn_ns[i] = row.DirectNormalRad
		w.i_dif_ns[i] = row.DiffuseHorizRad
		w.i_ghi_ns[i] = row.GlobalHorizRad
		w.v_wind_ns[i] = row.WindSpeed

		w.theta_s_ns[i], w.phi_s_ns[i] = get_sun_position(w.latitude, ts.YearDay(), float64(row.Hour))
	}

	w.index_steps()

	return w, nil
}

func bad_irradiance(i float64) bool {
	return i < 0.0 || i >= epw_missing_irradiance
}

// LOCATION,city,state,country,source,WMO,lat,lon,tz,elevation
func (w *Weather) parse_location(line string, source string) error {
	fields := strings.Split(line, ",")
	if len(fields) < 9 || !strings.EqualFold(strings.TrimSpace(fields[0]), "LOCATION") {
		return &DataError{Source: source, Detail: "malformed LOCATION header"}
	}

	w.station = strings.TrimSpace(fields[1])

	var err error
	if w.latitude, err = strconv.ParseFloat(strings.TrimSpace(fields[6]), 64); err != nil {
		return &DataError{Source: source, Detail: "LOCATION latitude: " + err.Error()}
	}
	if w.longitude, err = strconv.ParseFloat(strings.TrimSpace(fields[7]), 64); err != nil {
		return &DataError{Source: source, Detail: "LOCATION longitude: " + err.Error()}
	}
	if w.tz, err = strconv.ParseFloat(strings.TrimSpace(fields[8]), 64); err != nil {
		return &DataError{Source: source, Detail: "LOCATION time zone: " + err.Error()}
	}
	return nil
}

// GROUND TEMPERATURES,nblocks,{depth,cond,density,cp,12 monthly temps}...
// The block whose depth is closest to 2 m is kept.
func (w *Weather) parse_ground_temps(header []string, source string) error {
	var line string
	for _, l := range header {
		if strings.HasPrefix(strings.ToUpper(l), "GROUND TEMPERATURES") {
			line = l
			break
		}
	}
	if line == "" {
		return &DataError{Source: source, Detail: "missing GROUND TEMPERATURES header"}
	}

	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return &DataError{Source: source, Detail: "malformed GROUND TEMPERATURES header"}
	}
	n_blocks, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || n_blocks < 1 {
		return &DataError{Source: source, Detail: "malformed GROUND TEMPERATURES header"}
	}

	const block_len = 16

	best := -1
	best_dist := math.Inf(1)
	for b := 0; b < n_blocks; b++ {
		at := 2 + b*block_len
		if at+block_len > len(fields) {
			break
		}
		depth, err := strconv.ParseFloat(strings.TrimSpace(fields[at]), 64)
		if err != nil {
			continue
		}
		if d := math.Abs(depth - 2.0); d < best_dist {
			best, best_dist = b, d
		}
	}
	if best < 0 {
		return &DataError{Source: source, Detail: "no usable GROUND TEMPERATURES block"}
	}

	at := 2 + best*block_len + 4
	for m := 0; m < 12; m++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[at+m]), 64)
		if err != nil {
			return &DataError{Source: source, Detail: "GROUND TEMPERATURES month " + strconv.Itoa(m+1) + ": " + err.Error()}
		}
		w.theta_g_ms[m] = v
	}
	return nil
}

func (w *Weather) index_steps() {
	n := len(w.timestamps)
	w.m_ns = make([]int, n)
	w.hour_ns = make([]int, n)
	w.day_ns = make([]int, n)

	day := 0
	for i, ts := range w.timestamps {
		if i > 0 && ts.YearDay() != w.timestamps[i-1].YearDay() {
			day++
		}
		w.m_ns[i] = int(ts.Month())
		w.hour_ns[i] = ts.Hour()
		w.day_ns[i] = day
	}
}

func (w *Weather) Len() int {
	return len(w.timestamps)
}

func (w *Weather) Station() string {
	return w.station
}

func (w *Weather) Latitude() float64 {
	return w.latitude
}

// Ground temperature of the given month (1..12).
func (w *Weather) theta_g_m(month int) float64 {
	return w.theta_g_ms[month-1]
}

// The annual series must cover exactly one year of hourly records.
func (w *Weather) validate_annual(source string) error {
	if w.itv != IntervalH1 {
		return &DataError{Source: source, Detail: "annual operations require the hourly series"}
	}
	if n := len(w.timestamps); n != 8760 && n != 8784 {
		return &DataError{Source: source, Detail: "got " + strconv.Itoa(n) + " records, want 8760 or 8784"}
	}
	for i := 1; i < len(w.timestamps); i++ {
		if !w.timestamps[i].After(w.timestamps[i-1]) {
			return &DataError{Source: source, Detail: "timestamps not strictly increasing at record " + strconv.Itoa(i+1)}
		}
	}
	return nil
}

/*
Copy a window of the series.

Args:

	start: first step of the window
	n: number of steps

Returns:

	an independent weather series covering the window
*/
func (w *Weather) slice(start int, n int) *Weather {
	out := &Weather{
		station:    w.station,
		latitude:   w.latitude,
		longitude:  w.longitude,
		tz:         w.tz,
		itv:        w.itv,
		theta_g_ms: w.theta_g_ms,
	}
	out.timestamps = append([]time.Time(nil), w.timestamps[start:start+n]...)
	out.theta_o_ns = append([]float64(nil), w.theta_o_ns[start:start+n]...)
	out.i_dn_ns = append([]float64(nil), w.i_dn_ns[start:start+n]...)
	out.i_dif_ns = append([]float64(nil), w.i_dif_ns[start:start+n]...)
	out.i_ghi_ns = append([]float64(nil), w.i_ghi_ns[start:start+n]...)
	out.v_wind_ns = append([]float64(nil), w.v_wind_ns[start:start+n]...)
	out.theta_s_ns = append([]float64(nil), w.theta_s_ns[start:start+n]...)
	out.phi_s_ns = append([]float64(nil), w.phi_s_ns[start:start+n]...)
	out.index_steps()
	return out
}

/*
Resample the series to a finer interval by linear interpolation.
The series is treated as periodic, so the last hour interpolates
towards the first and the result keeps n * f steps.

Args:

	itv: target interval

Returns:

	interpolated series
*/
func (w *Weather) interpolate(itv Interval) *Weather {
	if itv == w.itv {
		return w
	}

	f := itv.get_n_hour()
	n := len(w.timestamps)
	dt := time.Duration(itv.get_delta_t() * float64(time.Second))

	out := &Weather{
		station:    w.station,
		latitude:   w.latitude,
		longitude:  w.longitude,
		tz:         w.tz,
		itv:        itv,
		theta_g_ms: w.theta_g_ms,
	}
	out.timestamps = make([]time.Time, n*f)
	for i := range out.timestamps {
		out.timestamps[i] = w.timestamps[0].Add(time.Duration(i) * dt)
	}

	out.theta_o_ns = interpolate_periodic(w.theta_o_ns, f)
	out.i_dn_ns = interpolate_periodic(w.i_dn_ns, f)
	out.i_dif_ns = interpolate_periodic(w.i_dif_ns, f)
	out.i_ghi_ns = interpolate_periodic(w.i_ghi_ns, f)
	out.v_wind_ns = interpolate_periodic(w.v_wind_ns, f)
	out.theta_s_ns = interpolate_periodic(w.theta_s_ns, f)
	out.phi_s_ns = interpolate_periodic(w.phi_s_ns, f)
	out.index_steps()

	return out
}

// Shift every dry-bulb sample and monthly ground temperature by a
// constant offset [K]. Solar columns are untouched.
func (w *Weather) offset_temperature(delta float64) *Weather {
	out := w.slice(0, len(w.timestamps))
	for i := range out.theta_o_ns {
		out.theta_o_ns[i] += delta
	}
	for m := range out.theta_g_ms {
		out.theta_g_ms[m] += delta
	}
	return out
}

func interpolate_periodic(v []float64, f int) []float64 {
	n := len(v)
	out := make([]float64, n*f)
	for h := 0; h < n; h++ {
		next := v[(h+1)%n]
		for k := 0; k < f; k++ {
			frac := float64(k) / float64(f)
			out[h*f+k] = v[h]*(1.0-frac) + next*frac
		}
	}
	return out
}
