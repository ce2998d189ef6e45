package letid

import (
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
)

/*
   Collection probability of carriers generated at depth x in the base,
   from the steady state diffusion equation with CP(0) = 1 at the
   junction and D*CP'(W) + S*CP(W) = 0 at the rear surface.

   Args:
       x: depth grid, cm
       d: diffusivity, cm2/s
       l: diffusion length, cm
       w: wafer thickness, cm
       s_rear: rear surface recombination velocity, cm/s
   Returns:
       collection probability at each depth
*/
func collection_probability(x []float64, d float64, l float64, w float64, s_rear float64) ([]float64, error) {

	// boundary condition coefficients for CP = a*cosh(x/l) + b*sinh(x/l)
	r := (d/l)*math.Sinh(w/l) + s_rear*math.Cosh(w/l)
	s := (d/l)*math.Cosh(w/l) + s_rear*math.Sinh(w/l)

	bc := mat.NewDense(2, 2, []float64{
		1.0, 0.0,
		r, s,
	})
	rhs := mat.NewVecDense(2, []float64{1.0, 0.0})

	var coef mat.VecDense
	if err := coef.SolveVec(bc, rhs); err != nil {
		return nil, domain_errorf("collection probability boundary conditions are singular: %v", err)
	}
	a := coef.AtVec(0)
	b := coef.AtVec(1)

	cp := make([]float64, len(x))
	for i, xi := range x {
		cp[i] = a*math.Cosh(xi/l) + b*math.Sinh(xi/l)
	}
	return cp, nil
}

/*
   Short circuit current density for a given bulk lifetime, by
   integrating the generation profile weighted with the collection
   probability over the base.

   Args:
       tau: bulk minority carrier lifetime, us
       wafer_thickness: wafer thickness, um
       d_base: base diffusivity, cm2/s
       s_rear: rear surface recombination velocity, cm/s
       depth: generation profile depth grid, um
       generation: generation rate at each depth, cm-3 s-1
   Returns:
       short circuit current density, mA/cm2
*/
func calculate_jsc_from_tau_cp(tau float64, wafer_thickness float64, d_base float64, s_rear float64, depth []float64, generation []float64) (float64, error) {

	if tau <= 0.0 {
		return 0.0, domain_errorf("lifetime must be positive, got %v us", tau)
	}
	if wafer_thickness <= 0.0 {
		return 0.0, domain_errorf("wafer thickness must be positive, got %v um", wafer_thickness)
	}
	if err := validate_generation_profile(depth, generation); err != nil {
		return 0.0, err
	}

	// diffusion length, cm
	l := math.Sqrt(d_base * tau * 1e-6)
	w := wafer_thickness / 1e4

	x := make([]float64, len(depth))
	for i, dp := range depth {
		x[i] = dp / 1e4
	}

	cp, err := collection_probability(x, d_base, l, w, s_rear)
	if err != nil {
		return 0.0, err
	}

	f := make([]float64, len(x))
	for i := range f {
		f[i] = generation[i] * cp[i]
	}

	return get_q() * integrate.Trapezoidal(x, f) * 1000.0, nil
}

// generation current of the profile assuming unity collection, A/cm2
func generation_current(depth []float64, generation []float64) float64 {
	x := make([]float64, len(depth))
	for i, dp := range depth {
		x[i] = dp / 1e4
	}
	return get_q() * integrate.Trapezoidal(x, generation)
}
