package letid

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeatherValidation(t *testing.T) {
	start := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)
	datetimes := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour)}

	var data_err *DataError

	_, err := NewWeather(datetimes, []float64{20.0, 21.0}, []float64{1.0, 1.0, 1.0}, []float64{0.0, 100.0, 200.0}, nil)
	assert.ErrorAs(t, err, &data_err)

	_, err = NewWeather([]time.Time{start, start}, []float64{20.0, 21.0}, []float64{1.0, 1.0}, []float64{0.0, 100.0}, nil)
	assert.ErrorAs(t, err, &data_err)

	_, err = NewWeather(datetimes, []float64{20.0, 21.0, 22.0}, []float64{1.0, -1.0, 1.0}, []float64{0.0, 100.0, 200.0}, nil)
	assert.ErrorAs(t, err, &data_err)

	w, err := NewWeather(datetimes, []float64{20.0, 21.0, 22.0}, []float64{1.0, 1.0, 1.0}, []float64{0.0, 100.0, 200.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, w.len())
	assert.InDelta(t, 100.0, w.poa(1), 1e-12) // falls back to GHI
}

func TestWeatherResample(t *testing.T) {
	start := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)
	datetimes := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour)}
	w, err := NewWeather(datetimes,
		[]float64{0.0, 10.0, 20.0},
		[]float64{2.0, 2.0, 2.0},
		[]float64{0.0, 400.0, 800.0}, nil)
	require.NoError(t, err)

	fine, err := w.Resample(IntervalM30)
	require.NoError(t, err)
	require.Equal(t, 5, fine.len())

	assert.Equal(t, start.Add(30*time.Minute), fine.datetimes[1])
	assert.InDelta(t, 5.0, fine.temp_air[1], 1e-9)
	assert.InDelta(t, 200.0, fine.ghi[1], 1e-9)
	assert.InDelta(t, 20.0, fine.temp_air[4], 1e-9)
}

func TestLoadWeatherCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weather.csv")
	csv := "datetime,temp_air,wind_speed,ghi,poa_global\n" +
		"2022-07-01T00:00:00Z,20,2,0,0\n" +
		"2022-07-01T01:00:00Z,21,2.5,100,120\n" +
		"2022-07-01T02:00:00Z,22,3,200,240\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	w, err := LoadWeatherCSV(path)
	require.NoError(t, err)
	require.Equal(t, 3, w.len())
	assert.InDelta(t, 21.0, w.temp_air[1], 1e-12)
	assert.InDelta(t, 120.0, w.poa(1), 1e-12)

	_, err = LoadWeatherCSV(filepath.Join(dir, "missing.csv"))
	var data_err *DataError
	assert.ErrorAs(t, err, &data_err)
}

func TestLoadSiteMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	meta_json := `{"Latitude": 39.74, "lon": -105.17, "altitude": 1829, "Wind Height": 3, "mount_configuration": "close_mount_glass_glass"}`
	require.NoError(t, os.WriteFile(path, []byte(meta_json), 0644))

	meta, err := LoadSiteMetadata(path)
	require.NoError(t, err)
	assert.InDelta(t, 39.74, meta.Latitude, 1e-12)
	assert.InDelta(t, -105.17, meta.Longitude, 1e-12)
	assert.InDelta(t, 1829.0, meta.Elevation, 1e-12)
	assert.InDelta(t, 3.0, meta.WindHeight, 1e-12)
	assert.Equal(t, "close_mount_glass_glass", meta.MountConfiguration)
}

func TestSaveLoadTimesteps(t *testing.T) {
	steps, err := CalcLetidLab(115.0, 55.0, 180.0, 46.0, 100.0, 0.0, 0.0,
		"repins", 75.0, 0.1, 24*time.Hour, IntervalH1)
	require.NoError(t, err)
	steps, err = CalcDeviceParams(steps, 243.0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "record.csv")
	require.NoError(t, SaveTimesteps(path, steps))

	loaded, err := LoadTimesteps(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(steps))
	assert.True(t, loaded[0].Datetime.Equal(steps[0].Datetime))
	for i := range steps {
		assert.InEpsilon(t, steps[i].NB+1.0, loaded[i].NB+1.0, 1e-12, "NB row %d", i)
		assert.InEpsilon(t, steps[i].Pmp, loaded[i].Pmp, 1e-12, "Pmp row %d", i)
	}
}

func TestNewDeviceValidation(t *testing.T) {
	depth, generation, err := DefaultGenerationProfile()
	require.NoError(t, err)

	var de *DomainError
	_, err = NewDevice(0.0, 46.0, 243.0, 27.0, depth, generation)
	assert.ErrorAs(t, err, &de)
	_, err = NewDevice(180.0, -1.0, 243.0, 27.0, depth, generation)
	assert.ErrorAs(t, err, &de)
	_, err = NewDevice(180.0, 46.0, 243.0, 27.0, depth[:1], generation[:1])
	assert.ErrorAs(t, err, &de)

	dev, err := NewDefaultDevice(180.0, 46.0)
	require.NoError(t, err)
	assert.InDelta(t, 243.0, dev.cell_area, 1e-12)
	assert.InDelta(t, 27.0, dev.d_base, 1e-12)
}
