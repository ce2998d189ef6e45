package letid

import (
	"errors"
	"math"
	"time"
)

// TimeStep is one row of a simulated degradation record. NA, NB and NC
// are the defect state populations in percent of the total defect
// density. Isc, FF, Pmp and PmpNorm stay zero until CalcDeviceParams
// fills them in.
type TimeStep struct {
	Datetime time.Time

	// module temperature, C
	Temperature float64

	// injection, suns
	Injection float64

	// defect state populations, %
	NA float64
	NB float64
	NC float64

	// bulk lifetime, us
	Tau float64

	// short circuit current density, mA/cm2
	Jsc float64

	// open circuit voltage at 25 C, V
	Voc float64

	// short circuit current, A
	Isc float64

	// fill factor
	FF float64

	// maximum power, W
	Pmp float64

	// maximum power normalized to the first row
	PmpNorm float64
}

// bulk lifetime for a partly degraded defect population, us
//
// linear interpolation between the undegraded and the fully degraded
// lifetime with the state B population.
func tau_now(tau_0 float64, tau_deg float64, n_b float64) float64 {
	return tau_0 - n_b/100.0*(tau_0-tau_deg)
}

// Sequence advances a defect state record through time. The three
// state populations follow first order kinetics between states A, B
// and C, with Arrhenius rate constants scaled by the excess carrier
// density at the operating point.
type Sequence struct {
	device  *Device
	mech    *MechanismParams
	tau_0   float64
	tau_deg float64
}

/*
   Args:
       device: device under test
       mech: defect kinetics preset
       tau_0: undegraded bulk lifetime, us
       tau_deg: fully degraded bulk lifetime, us
*/
func NewSequence(device *Device, mech *MechanismParams, tau_0 float64, tau_deg float64) (*Sequence, error) {
	if device == nil {
		return nil, domain_errorf("device must not be nil")
	}
	if mech == nil {
		return nil, domain_errorf("kinetics must not be nil")
	}
	if tau_0 <= 0.0 || tau_deg <= 0.0 {
		return nil, domain_errorf("lifetimes must be positive, got tau_0=%v tau_deg=%v us", tau_0, tau_deg)
	}
	if tau_deg > tau_0 {
		return nil, domain_errorf("degraded lifetime %v us exceeds undegraded lifetime %v us", tau_deg, tau_0)
	}
	return &Sequence{
		device:  device,
		mech:    mech,
		tau_0:   tau_0,
		tau_deg: tau_deg,
	}, nil
}

// run advances the defect states over the whole record. Row 0 carries
// the initial state; every following row must already have its
// Datetime, Temperature and Injection set. Rows are filled strictly in
// order since each one depends on the previous.
func (self *Sequence) run(steps []TimeStep) error {
	if len(steps) < 2 {
		return domain_errorf("record needs at least 2 timesteps, got %d", len(steps))
	}
	for i := 1; i < len(steps); i++ {
		if err := self.advance_step(&steps[i-1], &steps[i], i); err != nil {
			return err
		}
	}
	for i := range steps {
		if err := self.fill_device_state(&steps[i]); err != nil {
			return err
		}
	}
	return nil
}

// advance one forward Euler step from prev to cur
func (self *Sequence) advance_step(prev *TimeStep, cur *TimeStep, index int) error {
	delta_t := cur.Datetime.Sub(prev.Datetime).Seconds()
	if delta_t <= 0.0 {
		return domain_errorf("timestamps must be strictly increasing, got delta %v s at timestep %d", delta_t, index)
	}

	tau := tau_now(self.tau_0, self.tau_deg, prev.NB)
	jsc, err := calculate_jsc_from_tau_cp(tau, self.device.wafer_thickness, self.device.d_base, self.device.s_rear, self.device.depth, self.device.generation)
	if err != nil {
		return err
	}

	// defect populations come from the previous row, the driving
	// conditions from the row being filled
	temp := cur.Temperature
	inj := cur.Injection

	tp_ab, err := self.mech.transition("ab")
	if err != nil {
		return err
	}
	tp_ba, err := self.mech.transition("ba")
	if err != nil {
		return err
	}
	tp_bc, err := self.mech.transition("bc")
	if err != nil {
		return err
	}
	tp_cb, err := self.mech.transition("cb")
	if err != nil {
		return err
	}

	k_ab := k_ij(tp_ab.V, tp_ab.Ea, temp)
	k_ba := k_ij(tp_ba.V, tp_ba.Ea, temp)
	k_bc := k_ij(tp_bc.V, tp_bc.Ea, temp)
	k_cb := k_ij(tp_cb.V, tp_cb.Ea, temp)

	x_ab, err := self.carrier_acceleration("ab", tp_ab, tau, temp, inj, jsc, index)
	if err != nil {
		return err
	}
	x_ba, err := self.carrier_acceleration("ba", tp_ba, tau, temp, inj, jsc, index)
	if err != nil {
		return err
	}
	x_bc, err := self.carrier_acceleration("bc", tp_bc, tau, temp, inj, jsc, index)
	if err != nil {
		return err
	}

	d_n_a := k_ba*prev.NB*x_ba - k_ab*prev.NA*x_ab
	d_n_b := k_ab*prev.NA*x_ab + k_cb*prev.NC - (k_ba*x_ba+k_bc*x_bc)*prev.NB
	d_n_c := k_bc*prev.NB*x_bc - k_cb*prev.NC

	cur.NA = prev.NA + d_n_a*delta_t
	cur.NB = prev.NB + d_n_b*delta_t
	cur.NC = prev.NC + d_n_c*delta_t
	return nil
}

// carrier density acceleration of one transition at the operating
// point. In the dark every injection dependent transition freezes.
func (self *Sequence) carrier_acceleration(name string, tp TransitionParams, tau float64, temp float64, inj float64, jsc float64, index int) (float64, error) {
	if inj <= 0.0 {
		return math.Pow(0.0, tp.X), nil
	}
	f, err := carrier_factor(tau, tp, temp, inj, jsc, self.device.wafer_thickness, self.device.s_rear)
	if err != nil {
		var ce *ConvergenceError
		if errors.As(err, &ce) {
			ce.Transition = name
			ce.Step = index
		}
		return 0.0, err
	}
	return f, nil
}

// lifetime, Jsc and Voc (25 C) of the row's defect state
func (self *Sequence) fill_device_state(step *TimeStep) error {
	step.Tau = tau_now(self.tau_0, self.tau_deg, step.NB)
	jsc, err := calculate_jsc_from_tau_cp(step.Tau, self.device.wafer_thickness, self.device.d_base, self.device.s_rear, self.device.depth, self.device.generation)
	if err != nil {
		return err
	}
	step.Jsc = jsc
	voc, err := CalcVocFromTau(step.Tau, self.device.wafer_thickness, self.device.s_rear, self.device.d_base, jsc, 25.0)
	if err != nil {
		return err
	}
	step.Voc = voc
	return nil
}
