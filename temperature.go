package letid

import (
	"math"
	"sort"
	"strings"
)

// SAPMParams are the Sandia Array Performance Model temperature
// coefficients of one mount configuration.
type SAPMParams struct {
	A      float64
	B      float64
	DeltaT float64
}

func sapm_mount_params() map[string]SAPMParams {
	return map[string]SAPMParams{
		"open_rack_glass_glass":        {A: -3.47, B: -0.0594, DeltaT: 3.0},
		"close_mount_glass_glass":      {A: -2.98, B: -0.0471, DeltaT: 1.0},
		"open_rack_glass_polymer":      {A: -3.56, B: -0.075, DeltaT: 3.0},
		"insulated_back_glass_polymer": {A: -2.81, B: -0.0455, DeltaT: 0.0},
	}
}

// exponent of the wind speed height correction
func get_wind_height_exponent() float64 {
	return 0.33
}

// SAPM module back surface temperature, C
func sapm_module(poa_global float64, temp_air float64, wind_speed float64, a float64, b float64) float64 {
	return poa_global*math.Exp(a+b*wind_speed) + temp_air
}

// SAPM cell temperature, C
func sapm_cell(poa_global float64, temp_air float64, wind_speed float64, a float64, b float64, delta_t float64) float64 {
	t_mod := sapm_module(poa_global, temp_air, wind_speed, a, b)
	return t_mod + poa_global/1000.0*delta_t
}

// wind speed scaling from anemometer height to module height
func wind_height_factor(wind_height float64) float64 {
	if wind_height <= 0.0 {
		return 1.0
	}
	return math.Pow(10.0/wind_height, get_wind_height_exponent())
}

/*
   ModuleTemperature returns the SAPM module temperature for every row
   of a weather record. The mount configuration comes from the site
   metadata; wind speed is corrected from the anemometer height of the
   site to the standard 10 m of the model.

   Returns:
       module temperature, C, one entry per weather row
*/
func ModuleTemperature(weather *Weather, meta *SiteMetadata) ([]float64, error) {
	if err := weather.validate(); err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, data_errorf("site metadata", "missing")
	}

	conf := meta.MountConfiguration
	if conf == "" {
		conf = "open_rack_glass_glass"
	}
	params, ok := sapm_mount_params()[conf]
	if !ok {
		names := make([]string, 0, len(sapm_mount_params()))
		for name := range sapm_mount_params() {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, data_errorf("site metadata", "unknown mount configuration %q (available: %s)", conf, strings.Join(names, ", "))
	}

	factor := wind_height_factor(meta.WindHeight)
	out := make([]float64, weather.len())
	for i := range out {
		out[i] = sapm_module(weather.poa(i), weather.temp_air[i], weather.wind_speed[i]*factor, params.A, params.B)
	}
	return out, nil
}

// ModuleElectrical holds the nameplate operating point of the module
// used to translate irradiance into injection.
type ModuleElectrical struct {
	// short circuit current at STC, A
	IscRef float64

	// maximum power point current at STC, A
	ImpRef float64

	// temperature coefficient of Isc, 1/K
	AlphaIsc float64

	// temperature coefficient of Imp, 1/K
	GammaImp float64
}

// DefaultModuleElectrical returns the operating point of a typical
// 72 cell PERC module.
func DefaultModuleElectrical() ModuleElectrical {
	return ModuleElectrical{
		IscRef:   9.5,
		ImpRef:   8.9,
		AlphaIsc: 0.0005,
		GammaImp: -0.00035,
	}
}

/*
   CalcInjectionOutdoors returns the injection of a module operating at
   its maximum power point under the given weather, in suns. Carriers
   that are not extracted recombine, so the injection at MPP is twice
   the Isc to Imp gap, scaled to the STC short circuit current.

   Returns:
       injection, suns, one entry per weather row
*/
func CalcInjectionOutdoors(weather *Weather, temp_module []float64, module ModuleElectrical) ([]float64, error) {
	if err := weather.validate(); err != nil {
		return nil, err
	}
	if len(temp_module) != weather.len() {
		return nil, data_errorf("weather", "module temperature length %d does not match %d weather rows", len(temp_module), weather.len())
	}
	if module.IscRef <= 0.0 || module.ImpRef <= 0.0 || module.ImpRef >= module.IscRef {
		return nil, domain_errorf("module operating point must satisfy 0 < Imp < Isc, got Isc=%v A Imp=%v A", module.IscRef, module.ImpRef)
	}

	out := make([]float64, weather.len())
	for i := range out {
		ee := weather.poa(i) / 1000.0
		if ee <= 0.0 {
			continue
		}
		isc := module.IscRef * ee * (1.0 + module.AlphaIsc*(temp_module[i]-25.0))
		imp := module.ImpRef * ee * (1.0 + module.GammaImp*(temp_module[i]-25.0))
		out[i] = 2.0 * (isc - imp) / module.IscRef
	}
	return out, nil
}
