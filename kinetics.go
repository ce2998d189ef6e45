package letid

import (
	_ "embed"
	"encoding/json"
	"math"
	"sort"
	"strings"
)

//go:embed data/kinetic_parameters.json
var kinetic_parameters_json []byte

// TransitionParams holds the Arrhenius parameters of one defect state
// transition and the reference conditions its rate was measured at.
type TransitionParams struct {
	// attempt frequency, s-1
	V float64 `json:"v"`

	// activation energy, eV
	Ea float64 `json:"ea"`

	// bulk lifetime of the calibration sample, us
	Tau float64 `json:"tau"`

	// calibration temperature, K
	Temperature float64 `json:"temperature"`

	// calibration illumination, suns
	Suns float64 `json:"suns"`

	// calibration wafer thickness, um
	Thickness float64 `json:"thickness"`

	// calibration rear surface recombination velocity, cm/s
	SRV float64 `json:"srv"`

	// excess carrier density exponent
	X float64 `json:"x"`
}

// MechanismParams is one named kinetics preset from the bundled table.
type MechanismParams struct {
	Name        string                      `json:"-"`
	DOI         string                      `json:"doi"`
	Comment     string                      `json:"comment"`
	Transitions map[string]TransitionParams `json:"transitions"`
}

func (self *MechanismParams) transition(name string) (TransitionParams, error) {
	tp, ok := self.Transitions[name]
	if !ok {
		return TransitionParams{}, data_errorf("kinetic_parameters.json", "mechanism %q has no transition %q", self.Name, name)
	}
	return tp, nil
}

func load_kinetics_table() (map[string]*MechanismParams, error) {
	var table map[string]*MechanismParams
	if err := json.Unmarshal(kinetic_parameters_json, &table); err != nil {
		return nil, data_errorf("kinetic_parameters.json", "parse: %v", err)
	}
	for name, m := range table {
		m.Name = name
	}
	return table, nil
}

// GetKinetics returns the named kinetics preset from the bundled table.
func GetKinetics(name string) (*MechanismParams, error) {
	table, err := load_kinetics_table()
	if err != nil {
		return nil, err
	}
	m, ok := table[name]
	if !ok {
		return nil, data_errorf("kinetic_parameters.json", "unknown mechanism %q (available: %s)", name, strings.Join(kinetics_names(table), ", "))
	}
	for _, tr := range []string{"ab", "ba", "bc", "cb"} {
		if _, ok := m.Transitions[tr]; !ok {
			return nil, data_errorf("kinetic_parameters.json", "mechanism %q is missing transition %q", name, tr)
		}
	}
	return m, nil
}

// KineticsNames returns the names of the bundled kinetics presets.
func KineticsNames() ([]string, error) {
	table, err := load_kinetics_table()
	if err != nil {
		return nil, err
	}
	return kinetics_names(table), nil
}

func kinetics_names(table map[string]*MechanismParams) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Arrhenius rate constant, s-1
//
// v in s-1, ea in eV, temperature in C.
func k_ij(v float64, ea float64, temperature float64) float64 {
	return v * math.Exp(-ea/(get_k_b_ev()*(temperature+get_t_k0())))
}

// solve dn*(dn+na) = target for dn by bisection on [0, 1e22] cm-3
func solve_dn(target float64, na float64) (float64, error) {
	lo, hi := 0.0, 1e22
	if hi*(hi+na)-target < 0.0 {
		return 0.0, convergence_errorf(0, "excess carrier density target %v cm-6 out of bracket", target)
	}
	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		if mid*(mid+na)-target > 0.0 {
			hi = mid
		} else {
			lo = mid
		}
		if hi-lo <= 1e-12*hi {
			return 0.5 * (lo + hi), nil
		}
	}
	return 0.0, convergence_errorf(200, "excess carrier density bisection stalled at [%v, %v] cm-3", lo, hi)
}

/*
   Excess carrier density of a cell under illumination, from the
   implied voltage at the operating point.

   Args:
       tau: bulk minority carrier lifetime, us
       temperature: cell temperature, C
       suns: illumination, suns
       jsc: one sun short circuit current density, mA/cm2
       wafer_thickness: wafer thickness, um
       s_rear: rear surface recombination velocity, cm/s
   Returns:
       excess carrier density, cm-3
*/
func calc_dn(tau float64, temperature float64, suns float64, jsc float64, wafer_thickness float64, s_rear float64) (float64, error) {

	if suns <= 0.0 {
		return 0.0, domain_errorf("illumination must be positive, got %v suns", suns)
	}

	j := suns * jsc / 1000.0
	// carrier densities are calibrated against the standard base
	// diffusivity on both sides of the carrier factor ratio
	v, err := convert_i_to_v(tau, get_n_a(), j, wafer_thickness, s_rear, get_d_base(), temperature)
	if err != nil {
		return 0.0, err
	}
	target := get_n_i() * get_n_i() * math.Exp(v/vt(temperature))
	return solve_dn(target, get_n_a())
}

// excess carrier density of an open circuit wafer, cm-3
//
// generation and recombination balance: dn = tau * G
func calc_dn_wafer(tau float64, injection float64, j_gen float64, wafer_thickness float64) float64 {
	return tau * 1e-6 * injection * j_gen / (get_q() * (wafer_thickness / 1e4))
}

/*
   Carrier density acceleration factor of a transition: the excess
   carrier density at the operating point over the density at the
   calibration point of the transition, raised to the transition
   exponent.

   Args:
       tau: bulk minority carrier lifetime, us
       tp: transition parameters
       temperature: cell temperature, C
       suns: illumination, suns
       jsc: one sun short circuit current density, mA/cm2
       wafer_thickness: wafer thickness, um
       s_rear: rear surface recombination velocity, cm/s
*/
func carrier_factor(tau float64, tp TransitionParams, temperature float64, suns float64, jsc float64, wafer_thickness float64, s_rear float64) (float64, error) {

	dn, err := calc_dn(tau, temperature, suns, jsc, wafer_thickness, s_rear)
	if err != nil {
		return 0.0, err
	}
	meas_dn, err := calc_dn(tp.Tau, tp.Temperature-get_t_k0(), tp.Suns, get_meas_jsc(), tp.Thickness, tp.SRV)
	if err != nil {
		return 0.0, err
	}
	f := math.Pow(dn/meas_dn, tp.X)
	if math.IsNaN(f) || f < 0.0 {
		return 0.0, domain_errorf("carrier factor is not physical: (%v/%v)^%v", dn, meas_dn, tp.X)
	}
	return f, nil
}

// carrier_factor_wafer is the open circuit wafer variant of
// carrier_factor, for lifetime samples without a junction.
func carrier_factor_wafer(tau float64, tp TransitionParams, injection float64, j_gen float64, wafer_thickness float64) (float64, error) {

	dn := calc_dn_wafer(tau, injection, j_gen, wafer_thickness)
	meas_dn, err := calc_dn(tp.Tau, tp.Temperature-get_t_k0(), tp.Suns, get_meas_jsc(), tp.Thickness, tp.SRV)
	if err != nil {
		return 0.0, err
	}
	return math.Pow(dn/meas_dn, tp.X), nil
}
