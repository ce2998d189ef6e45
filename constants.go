package letid

// elementary charge, C
func get_q() float64 {
	return 1.602176634e-19
}

// Boltzmann constant, J/K
func get_k_b() float64 {
	return 1.380649e-23
}

// Boltzmann constant, eV/K
func get_k_b_ev() float64 {
	return 8.617333262e-5
}

// intrinsic carrier concentration of silicon at 25 C, cm-3
func get_n_i() float64 {
	return 8.5e9
}

// default base doping density, cm-3
func get_n_a() float64 {
	return 7.2e15
}

// default base diffusivity, cm2/s
func get_d_base() float64 {
	return 27.0
}

// short circuit current density at calibration conditions, mA/cm2
func get_meas_jsc() float64 {
	return 40.0
}

// default cell area, cm2
func get_cell_area() float64 {
	return 243.0
}

// kelvin offset
func get_t_k0() float64 {
	return 273.15
}

// gas constant, kJ/mol K
func get_r_gas() float64 {
	return 0.00831446261815324
}
