package letid

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Chamber to field acceleration factors for non LETID degradation
// modes, after the van't Hoff and Arrhenius weighted-average models.
// poa_global in W/m2, temperatures in C, relative humidity in %.

func validate_env(poa_global []float64, temp_cell []float64) error {
	if len(poa_global) == 0 {
		return data_errorf("environment", "empty irradiance record")
	}
	if len(poa_global) != len(temp_cell) {
		return data_errorf("environment", "length mismatch: %d irradiance vs %d temperature rows", len(poa_global), len(temp_cell))
	}
	return nil
}

/*
   VantHoffDeg returns the acceleration factor of a chamber test over
   the field environment, with a rate that doubles (or scales by tf)
   every 10 C.

   Args:
       i_chamber: chamber irradiance, W/m2
       temp_chamber: chamber temperature, C
       poa_global: field irradiance record, W/m2
       temp_cell: field cell temperature record, C
       x: irradiance exponent
       tf: rate scaling per 10 C
*/
func VantHoffDeg(i_chamber float64, temp_chamber float64, poa_global []float64, temp_cell []float64, x float64, tf float64) (float64, error) {
	if err := validate_env(poa_global, temp_cell); err != nil {
		return 0.0, err
	}
	if tf <= 1.0 {
		return 0.0, domain_errorf("temperature factor must exceed 1, got %v", tf)
	}

	rate_env := make([]float64, len(poa_global))
	for i := range rate_env {
		rate_env[i] = math.Pow(poa_global[i], x) * math.Pow(tf, (temp_cell[i]-temp_chamber)/10.0)
	}
	rate_chamber := math.Pow(i_chamber, x)
	return rate_chamber / stat.Mean(rate_env, nil), nil
}

// ToEqVantHoff returns the van't Hoff equivalent temperature of a
// field temperature record, C.
func ToEqVantHoff(temp_cell []float64, tf float64) (float64, error) {
	if len(temp_cell) == 0 {
		return 0.0, data_errorf("environment", "empty temperature record")
	}
	if tf <= 1.0 {
		return 0.0, domain_errorf("temperature factor must exceed 1, got %v", tf)
	}
	toeq := make([]float64, len(temp_cell))
	for i, tc := range temp_cell {
		toeq[i] = math.Pow(tf, tc/10.0)
	}
	return (10.0 / math.Log(tf)) * math.Log(stat.Mean(toeq, nil)), nil
}

/*
   IwaVantHoff returns the environment-equivalent irradiance: the
   constant irradiance that, at the equivalent temperature, degrades as
   fast as the field record. Pass teq <= 0 to compute the equivalent
   temperature from the record.
*/
func IwaVantHoff(poa_global []float64, temp_cell []float64, teq float64, x float64, tf float64) (float64, error) {
	if err := validate_env(poa_global, temp_cell); err != nil {
		return 0.0, err
	}
	if teq <= 0.0 {
		var err error
		teq, err = ToEqVantHoff(temp_cell, tf)
		if err != nil {
			return 0.0, err
		}
	}
	rate := make([]float64, len(poa_global))
	for i := range rate {
		rate[i] = math.Pow(poa_global[i], x) * math.Pow(tf, (temp_cell[i]-teq)/10.0)
	}
	return math.Pow(stat.Mean(rate, nil), 1.0/x), nil
}

/*
   ArrheniusDeg returns the acceleration factor of a chamber test over
   the field environment for a humidity and temperature activated mode.

   Args:
       i_chamber: chamber irradiance, W/m2
       rh_chamber: chamber relative humidity, %
       temp_chamber: chamber temperature, C
       poa_global: field irradiance record, W/m2
       rh_outdoor: field relative humidity record, %
       temp_cell: field cell temperature record, C
       ea: activation energy, kJ/mol
       x: irradiance exponent
       n: humidity exponent
*/
func ArrheniusDeg(i_chamber float64, rh_chamber float64, temp_chamber float64, poa_global []float64, rh_outdoor []float64, temp_cell []float64, ea float64, x float64, n float64) (float64, error) {
	if err := validate_env(poa_global, temp_cell); err != nil {
		return 0.0, err
	}
	if len(rh_outdoor) != len(poa_global) {
		return 0.0, data_errorf("environment", "length mismatch: %d irradiance vs %d humidity rows", len(poa_global), len(rh_outdoor))
	}
	if ea <= 0.0 {
		return 0.0, domain_errorf("activation energy must be positive, got %v kJ/mol", ea)
	}

	rate_env := make([]float64, len(poa_global))
	for i := range rate_env {
		rate_env[i] = math.Pow(poa_global[i], x) *
			math.Pow(rh_outdoor[i], n) *
			math.Exp(-ea/(get_r_gas()*(temp_cell[i]+get_t_k0())))
	}
	rate_chamber := math.Pow(i_chamber, x) *
		math.Pow(rh_chamber, n) *
		math.Exp(-ea/(get_r_gas()*(temp_chamber+get_t_k0())))
	return rate_chamber / stat.Mean(rate_env, nil), nil
}

// TEqArrhenius returns the Arrhenius equivalent temperature of a field
// temperature record, C.
func TEqArrhenius(temp_cell []float64, ea float64) (float64, error) {
	if len(temp_cell) == 0 {
		return 0.0, data_errorf("environment", "empty temperature record")
	}
	if ea <= 0.0 {
		return 0.0, domain_errorf("activation energy must be positive, got %v kJ/mol", ea)
	}
	summation := make([]float64, len(temp_cell))
	for i, tc := range temp_cell {
		summation[i] = math.Exp(-ea / (get_r_gas() * (tc + get_t_k0())))
	}
	return -ea/(get_r_gas()*math.Log(stat.Mean(summation, nil))) - get_t_k0(), nil
}

// RHWaArrhenius returns the weighted average relative humidity of a
// field record, %. Pass teq <= 0 to compute the equivalent temperature
// from the record.
func RHWaArrhenius(rh_outdoor []float64, temp_cell []float64, ea float64, teq float64, n float64) (float64, error) {
	if len(rh_outdoor) == 0 || len(rh_outdoor) != len(temp_cell) {
		return 0.0, data_errorf("environment", "length mismatch: %d humidity vs %d temperature rows", len(rh_outdoor), len(temp_cell))
	}
	if teq <= 0.0 {
		var err error
		teq, err = TEqArrhenius(temp_cell, ea)
		if err != nil {
			return 0.0, err
		}
	}
	summation := make([]float64, len(rh_outdoor))
	for i := range summation {
		summation[i] = math.Pow(rh_outdoor[i], n) * math.Exp(-ea/(get_r_gas()*(temp_cell[i]+get_t_k0())))
	}
	avg := stat.Mean(summation, nil)
	return math.Pow(avg/math.Exp(-ea/(get_r_gas()*(teq+get_t_k0()))), 1.0/n), nil
}

// IwaArrhenius returns the environment-equivalent irradiance for a
// humidity and temperature activated mode, W/m2. Pass rhwa <= 0 or
// teq <= 0 to compute them from the record.
func IwaArrhenius(poa_global []float64, rh_outdoor []float64, temp_cell []float64, ea float64, rhwa float64, teq float64, x float64, n float64) (float64, error) {
	if err := validate_env(poa_global, temp_cell); err != nil {
		return 0.0, err
	}
	if teq <= 0.0 {
		var err error
		teq, err = TEqArrhenius(temp_cell, ea)
		if err != nil {
			return 0.0, err
		}
	}
	if rhwa <= 0.0 {
		var err error
		rhwa, err = RHWaArrhenius(rh_outdoor, temp_cell, ea, teq, n)
		if err != nil {
			return 0.0, err
		}
	}
	num := make([]float64, len(poa_global))
	for i := range num {
		num[i] = math.Pow(poa_global[i], x) *
			math.Pow(rh_outdoor[i], n) *
			math.Exp(-ea/(get_r_gas()*(temp_cell[i]+get_t_k0())))
	}
	den := math.Pow(rhwa, n) * math.Exp(-ea/(get_r_gas()*(teq+get_t_k0())))
	return math.Pow(stat.Mean(num, nil)/den, 1.0/x), nil
}
