package letid

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/interp"
)

// Weather is an hourly (or finer) meteorological record driving the
// outdoor simulation.
type Weather struct {
	datetimes  []time.Time
	temp_air   []float64 // C
	wind_speed []float64 // m/s
	ghi        []float64 // W/m2
	poa_global []float64 // W/m2, empty when the record has no POA column
}

/*
   Args:
       datetimes: timestamps, strictly increasing
       temp_air: ambient temperature, C
       wind_speed: wind speed, m/s
       ghi: global horizontal irradiance, W/m2
       poa_global: plane of array irradiance, W/m2 (nil to fall back to GHI)
*/
func NewWeather(datetimes []time.Time, temp_air []float64, wind_speed []float64, ghi []float64, poa_global []float64) (*Weather, error) {
	w := &Weather{
		datetimes:  datetimes,
		temp_air:   temp_air,
		wind_speed: wind_speed,
		ghi:        ghi,
		poa_global: poa_global,
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (self *Weather) validate() error {
	if self == nil {
		return data_errorf("weather", "missing")
	}
	n := len(self.datetimes)
	if n < 2 {
		return data_errorf("weather", "record needs at least 2 rows, got %d", n)
	}
	if len(self.temp_air) != n || len(self.wind_speed) != n || len(self.ghi) != n {
		return data_errorf("weather", "column length mismatch: %d timestamps, %d temp_air, %d wind_speed, %d ghi",
			n, len(self.temp_air), len(self.wind_speed), len(self.ghi))
	}
	if len(self.poa_global) != 0 && len(self.poa_global) != n {
		return data_errorf("weather", "poa_global length %d does not match %d timestamps", len(self.poa_global), n)
	}
	for i := 1; i < n; i++ {
		if !self.datetimes[i].After(self.datetimes[i-1]) {
			return data_errorf("weather", "timestamps must be strictly increasing at row %d", i)
		}
	}
	for i := 0; i < n; i++ {
		if self.wind_speed[i] < 0.0 {
			return data_errorf("weather", "wind speed must be non-negative at row %d, got %v m/s", i, self.wind_speed[i])
		}
		if self.ghi[i] < 0.0 {
			return data_errorf("weather", "ghi must be non-negative at row %d, got %v W/m2", i, self.ghi[i])
		}
	}
	return nil
}

// plane of array irradiance, falling back to GHI when the record has
// no POA column
func (self *Weather) poa(i int) float64 {
	if len(self.poa_global) != 0 {
		return self.poa_global[i]
	}
	return self.ghi[i]
}

func (self *Weather) len() int {
	return len(self.datetimes)
}

/*
   Resample returns the record linearly interpolated onto a regular
   grid of the given width, spanning the original record.
*/
func (self *Weather) Resample(freq Interval) (*Weather, error) {
	if err := self.validate(); err != nil {
		return nil, err
	}

	xs := make([]float64, self.len())
	t_0 := self.datetimes[0]
	for i, dt := range self.datetimes {
		xs[i] = dt.Sub(t_0).Seconds()
	}

	fit := func(ys []float64) (interp.PiecewiseLinear, error) {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return pl, data_errorf("weather", "resample fit: %v", err)
		}
		return pl, nil
	}

	temp_fit, err := fit(self.temp_air)
	if err != nil {
		return nil, err
	}
	wind_fit, err := fit(self.wind_speed)
	if err != nil {
		return nil, err
	}
	ghi_fit, err := fit(self.ghi)
	if err != nil {
		return nil, err
	}
	var poa_fit interp.PiecewiseLinear
	if len(self.poa_global) != 0 {
		poa_fit, err = fit(self.poa_global)
		if err != nil {
			return nil, err
		}
	}

	delta_t := freq.get_delta_t()
	span := xs[len(xs)-1]
	n := int(span/delta_t) + 1

	out := &Weather{
		datetimes:  make([]time.Time, n),
		temp_air:   make([]float64, n),
		wind_speed: make([]float64, n),
		ghi:        make([]float64, n),
	}
	if len(self.poa_global) != 0 {
		out.poa_global = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		x := float64(i) * delta_t
		out.datetimes[i] = t_0.Add(time.Duration(x * float64(time.Second)))
		out.temp_air[i] = temp_fit.Predict(x)
		out.wind_speed[i] = wind_fit.Predict(x)
		out.ghi[i] = ghi_fit.Predict(x)
		if out.poa_global != nil {
			out.poa_global[i] = poa_fit.Predict(x)
		}
	}
	return out, out.validate()
}

type weather_csv_row struct {
	Datetime  string  `csv:"datetime"`
	TempAir   float64 `csv:"temp_air"`
	WindSpeed float64 `csv:"wind_speed"`
	GHI       float64 `csv:"ghi"`
	POAGlobal float64 `csv:"poa_global"`
}

// LoadWeatherCSV reads a weather record from a CSV file with columns
// datetime (RFC 3339), temp_air, wind_speed, ghi and optionally
// poa_global. A poa_global column that is zero everywhere is treated
// as absent.
func LoadWeatherCSV(path string) (*Weather, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, data_errorf(path, "open: %v", err)
	}
	defer f.Close()

	var rows []*weather_csv_row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, data_errorf(path, "parse: %v", err)
	}

	w := &Weather{
		datetimes:  make([]time.Time, len(rows)),
		temp_air:   make([]float64, len(rows)),
		wind_speed: make([]float64, len(rows)),
		ghi:        make([]float64, len(rows)),
		poa_global: make([]float64, len(rows)),
	}
	any_poa := false
	for i, r := range rows {
		dt, err := time.Parse(time.RFC3339, r.Datetime)
		if err != nil {
			return nil, data_errorf(path, "row %d: bad datetime %q: %v", i, r.Datetime, err)
		}
		w.datetimes[i] = dt
		w.temp_air[i] = r.TempAir
		w.wind_speed[i] = r.WindSpeed
		w.ghi[i] = r.GHI
		w.poa_global[i] = r.POAGlobal
		if r.POAGlobal != 0.0 {
			any_poa = true
		}
	}
	if !any_poa {
		w.poa_global = nil
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// SiteMetadata describes the site a weather record was measured at.
type SiteMetadata struct {
	Latitude  float64
	Longitude float64
	Elevation float64

	// anemometer height, m (0 means module height, no correction)
	WindHeight float64

	// SAPM mount configuration, empty for open_rack_glass_glass
	MountConfiguration string
}

// LoadSiteMetadata reads site metadata from a JSON file. Key aliases
// from common weather sources are normalized (lat/latitude,
// altitude/elevation, wind_height/wind_speed_height, ...).
func LoadSiteMetadata(path string) (*SiteMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, data_errorf(path, "open: %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, data_errorf(path, "parse: %v", err)
	}

	meta := &SiteMetadata{}
	for key, value := range fields {
		norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		num, is_num := value.(float64)
		switch norm {
		case "lat", "latitude":
			if is_num {
				meta.Latitude = num
			}
		case "lon", "long", "longitude":
			if is_num {
				meta.Longitude = num
			}
		case "elevation", "altitude":
			if is_num {
				meta.Elevation = num
			}
		case "wind_height", "wind_speed_height", "anemometer_height":
			if is_num {
				meta.WindHeight = num
			}
		case "mount_configuration", "temperature_model":
			if s, ok := value.(string); ok {
				meta.MountConfiguration = s
			}
		}
	}
	return meta, nil
}
