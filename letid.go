package letid

import (
	"time"

	"gonum.org/v1/gonum/integrate"
)

// start of synthetic lab records
func lab_start_time() time.Time {
	return time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
}

/*
   CalcLetidLab simulates a constant temperature, constant injection
   accelerated test. The returned record has one row per timestep, with
   row 0 holding the initial defect state.

   Args:
       tau_0: undegraded bulk lifetime, us
       tau_deg: fully degraded bulk lifetime, us
       wafer_thickness: wafer thickness, um
       s_rear: rear surface recombination velocity, cm/s
       n_a_0, n_b_0, n_c_0: initial defect state populations, %
       mechanism: kinetics preset name
       temperature: chamber temperature, C
       injection: injection, suns (0 for dark anneal)
       duration: test length
       freq: timestep width
*/
func CalcLetidLab(tau_0 float64, tau_deg float64, wafer_thickness float64, s_rear float64, n_a_0 float64, n_b_0 float64, n_c_0 float64, mechanism string, temperature float64, injection float64, duration time.Duration, freq Interval) ([]TimeStep, error) {

	if n_a_0 < 0.0 || n_b_0 < 0.0 || n_c_0 < 0.0 {
		return nil, domain_errorf("defect state populations must be non-negative, got %v/%v/%v", n_a_0, n_b_0, n_c_0)
	}
	if injection < 0.0 {
		return nil, domain_errorf("injection must be non-negative, got %v suns", injection)
	}
	if temperature <= -get_t_k0() {
		return nil, domain_errorf("temperature must be above absolute zero, got %v C", temperature)
	}

	n := int(duration / freq.get_duration())
	if n < 1 {
		return nil, domain_errorf("duration %v is shorter than one %s timestep", duration, freq)
	}

	device, err := NewDefaultDevice(wafer_thickness, s_rear)
	if err != nil {
		return nil, err
	}
	mech, err := GetKinetics(mechanism)
	if err != nil {
		return nil, err
	}
	seq, err := NewSequence(device, mech, tau_0, tau_deg)
	if err != nil {
		return nil, err
	}

	steps := make([]TimeStep, n+1)
	start := lab_start_time()
	for i := range steps {
		steps[i].Datetime = start.Add(time.Duration(i) * freq.get_duration())
		steps[i].Temperature = temperature
		steps[i].Injection = injection
	}
	steps[0].NA = n_a_0
	steps[0].NB = n_b_0
	steps[0].NC = n_c_0

	if err := seq.run(steps); err != nil {
		return nil, err
	}
	return steps, nil
}

/*
   CalcLetidOutdoors simulates degradation under a measured weather
   record. Module temperature follows the SAPM model and injection
   follows the operating point of the module at each hour.

   Args:
       tau_0: undegraded bulk lifetime, us
       tau_deg: fully degraded bulk lifetime, us
       wafer_thickness: wafer thickness, um
       s_rear: rear surface recombination velocity, cm/s
       n_a_0, n_b_0, n_c_0: initial defect state populations, %
       mechanism: kinetics preset name
       weather: weather record
       meta: site metadata
*/
func CalcLetidOutdoors(tau_0 float64, tau_deg float64, wafer_thickness float64, s_rear float64, n_a_0 float64, n_b_0 float64, n_c_0 float64, mechanism string, weather *Weather, meta *SiteMetadata) ([]TimeStep, error) {

	if n_a_0 < 0.0 || n_b_0 < 0.0 || n_c_0 < 0.0 {
		return nil, domain_errorf("defect state populations must be non-negative, got %v/%v/%v", n_a_0, n_b_0, n_c_0)
	}
	if err := weather.validate(); err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, data_errorf("site metadata", "missing")
	}

	temp_mod, err := ModuleTemperature(weather, meta)
	if err != nil {
		return nil, err
	}
	injection, err := CalcInjectionOutdoors(weather, temp_mod, DefaultModuleElectrical())
	if err != nil {
		return nil, err
	}

	device, err := NewDefaultDevice(wafer_thickness, s_rear)
	if err != nil {
		return nil, err
	}
	mech, err := GetKinetics(mechanism)
	if err != nil {
		return nil, err
	}
	seq, err := NewSequence(device, mech, tau_0, tau_deg)
	if err != nil {
		return nil, err
	}

	steps := make([]TimeStep, len(weather.datetimes))
	for i := range steps {
		steps[i].Datetime = weather.datetimes[i]
		steps[i].Temperature = temp_mod[i]
		steps[i].Injection = injection[i]
	}
	steps[0].NA = n_a_0
	steps[0].NB = n_b_0
	steps[0].NC = n_c_0

	if err := seq.run(steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// CalcDeviceParams fills the electrical columns of a record: Isc in A,
// fill factor, maximum power in W and maximum power normalized to the
// first row. The input record is left untouched; a filled copy is
// returned.
func CalcDeviceParams(steps []TimeStep, cell_area float64) ([]TimeStep, error) {
	if len(steps) == 0 {
		return nil, domain_errorf("record is empty")
	}
	if cell_area <= 0.0 {
		return nil, domain_errorf("cell area must be positive, got %v cm2", cell_area)
	}

	out := make([]TimeStep, len(steps))
	copy(out, steps)
	for i := range out {
		if out[i].Jsc <= 0.0 || out[i].Voc <= 0.0 {
			return nil, domain_errorf("record row %d has no device state (Jsc=%v, Voc=%v)", i, out[i].Jsc, out[i].Voc)
		}
		out[i].Isc = out[i].Jsc * cell_area / 1000.0
		out[i].FF = ff_green(out[i].Voc)
		out[i].Pmp = out[i].Voc * out[i].Isc * out[i].FF
	}
	pmp_0 := out[0].Pmp
	for i := range out {
		out[i].PmpNorm = out[i].Pmp / pmp_0
	}
	return out, nil
}

// CalcEnergyLoss returns the fraction of energy lost to degradation
// over the record, relative to a module that holds its initial power.
func CalcEnergyLoss(steps []TimeStep) (float64, error) {
	if len(steps) < 2 {
		return 0.0, domain_errorf("record needs at least 2 timesteps, got %d", len(steps))
	}
	if steps[0].Pmp <= 0.0 {
		return 0.0, domain_errorf("record has no power column (run CalcDeviceParams first)")
	}

	t := make([]float64, len(steps))
	pmp := make([]float64, len(steps))
	t_0 := steps[0].Datetime
	for i, s := range steps {
		t[i] = s.Datetime.Sub(t_0).Seconds()
		pmp[i] = s.Pmp
		if i > 0 && t[i] <= t[i-1] {
			return 0.0, domain_errorf("timestamps must be strictly increasing at row %d", i)
		}
	}

	energy := integrate.Trapezoidal(t, pmp)
	energy_0 := steps[0].Pmp * (t[len(t)-1] - t[0])
	return (energy_0 - energy) / energy_0, nil
}

// CalcRegenerationTime returns the first timestamp at which normalized
// power recovers to the threshold after having dropped below it. The
// second return is false when the record never drops below the
// threshold or never recovers.
func CalcRegenerationTime(steps []TimeStep, threshold float64) (time.Time, bool, error) {
	if threshold <= 0.0 || threshold >= 1.0 {
		return time.Time{}, false, domain_errorf("threshold must be in (0, 1), got %v", threshold)
	}
	if len(steps) == 0 || steps[0].Pmp <= 0.0 {
		return time.Time{}, false, domain_errorf("record has no power column (run CalcDeviceParams first)")
	}

	dropped := false
	for _, s := range steps {
		if !dropped && s.PmpNorm < threshold {
			dropped = true
		} else if dropped && s.PmpNorm >= threshold {
			return s.Datetime, true, nil
		}
	}
	return time.Time{}, false, nil
}
