package letid

import (
	"math"
)

// thermal voltage, V
func vt(temp float64) float64 {
	return get_k_b() * (temp + get_t_k0()) / get_q()
}

/*
   Saturation current density of a diffused region after Gray's
   formulation. Unit agnostic: any consistent unit system works as long
   as arg = thickness / diffusion length is dimensionless.

   Args:
       ni2: intrinsic carrier concentration squared
       d: diffusivity
       na: doping density
       l: diffusion length
       arg: region thickness over diffusion length
       srv: surface recombination velocity
*/
func j0_gray(ni2 float64, d float64, na float64, l float64, arg float64, srv float64) float64 {
	pref := get_q() * ni2 * d / (na * l)
	num := srv*math.Cosh(arg) + (d/l)*math.Sinh(arg)
	den := srv*math.Sinh(arg) + (d/l)*math.Cosh(arg)
	return pref * num / den
}

/*
   Implied voltage of the base for a given current density, from the
   one diode law with the dark saturation current of the bulk.

   Args:
       tau: bulk minority carrier lifetime, us
       na: base doping density, cm-3
       current: current density, A/cm2
       wafer_thickness: wafer thickness, um
       s_rear: rear surface recombination velocity, cm/s
       d_base: base diffusivity, cm2/s
       temp: cell temperature, C
   Returns:
       implied voltage, V
*/
func convert_i_to_v(tau float64, na float64, current float64, wafer_thickness float64, s_rear float64, d_base float64, temp float64) (float64, error) {

	if tau <= 0.0 {
		return 0.0, domain_errorf("lifetime must be positive, got %v us", tau)
	}
	if current <= 0.0 {
		return 0.0, domain_errorf("current density must be positive, got %v A/cm2", current)
	}
	if d_base <= 0.0 {
		return 0.0, domain_errorf("base diffusivity must be positive, got %v cm2/s", d_base)
	}

	l := math.Sqrt(d_base * tau * 1e-6)
	arg := (wafer_thickness / 1e4) / l
	j0 := j0_gray(get_n_i()*get_n_i(), d_base, na, l, arg, s_rear)

	return vt(temp) * math.Log(current/j0+1.0), nil
}

/*
   Fill factor from the open circuit voltage, after Green's empirical
   expression for the ideal fill factor.

   Args:
       voltage: open circuit voltage, V
*/
func ff_green(voltage float64) float64 {
	v := voltage / vt(25.0)
	return (v - math.Log(v+0.72)) / (v + 1.0)
}

// CalcVocFromTau returns the open circuit voltage of a cell with the
// given bulk lifetime.
//
// tau in us, wafer_thickness in um, s_rear in cm/s, d_base in cm2/s,
// jsc in mA/cm2, temperature in C.
func CalcVocFromTau(tau float64, wafer_thickness float64, s_rear float64, d_base float64, jsc float64, temperature float64) (float64, error) {
	return convert_i_to_v(tau, get_n_a(), jsc/1000.0, wafer_thickness, s_rear, d_base, temperature)
}

// CalcNdd returns the normalized defect density for a degraded
// lifetime relative to the undegraded one, in us-1.
func CalcNdd(tau_0 float64, tau_deg float64) (float64, error) {
	if tau_0 <= 0.0 || tau_deg <= 0.0 {
		return 0.0, domain_errorf("lifetimes must be positive, got tau_0=%v tau_deg=%v us", tau_0, tau_deg)
	}
	return 1.0/tau_deg - 1.0/tau_0, nil
}

/*
   CalcPmpLossFromTauLoss bounds the maximum power loss of a device
   whose bulk lifetime degrades from tau_0 to tau_deg.

   Args:
       tau_0: undegraded lifetime, us
       tau_deg: fully degraded lifetime, us
       cell_area: cell area, cm2
       wafer_thickness: wafer thickness, um
       s_rear: rear surface recombination velocity, cm/s
       d_base: base diffusivity, cm2/s
       depth: generation profile depth grid, um
       generation: generation rate at each depth, cm-3 s-1
   Returns:
       fractional power loss, undegraded Pmp (W), degraded Pmp (W)
*/
func CalcPmpLossFromTauLoss(tau_0 float64, tau_deg float64, cell_area float64, wafer_thickness float64, s_rear float64, d_base float64, depth []float64, generation []float64) (float64, float64, float64, error) {

	pmp_of := func(tau float64) (float64, error) {
		jsc, err := calculate_jsc_from_tau_cp(tau, wafer_thickness, d_base, s_rear, depth, generation)
		if err != nil {
			return 0.0, err
		}
		voc, err := CalcVocFromTau(tau, wafer_thickness, s_rear, d_base, jsc, 25.0)
		if err != nil {
			return 0.0, err
		}
		isc := jsc * cell_area / 1000.0
		return voc * isc * ff_green(voc), nil
	}

	pmp_0, err := pmp_of(tau_0)
	if err != nil {
		return 0.0, 0.0, 0.0, err
	}
	pmp_deg, err := pmp_of(tau_deg)
	if err != nil {
		return 0.0, 0.0, 0.0, err
	}
	return (pmp_0 - pmp_deg) / pmp_0, pmp_0, pmp_deg, nil
}
