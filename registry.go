package letid

import (
	"context"
	"sort"
	"sync"
)

// JobResult is the output of one pipeline job. Simulation jobs fill
// Steps; analysis jobs fill Scalar (and Found for searches that may
// come up empty).
type JobResult struct {
	Steps  []TimeStep
	Scalar float64
	Found  bool
}

// JobFunc is one pipeline stage. prev is the result of the previous
// stage, nil for the first.
type JobFunc func(ctx context.Context, sc *Scenario, prev *JobResult) (*JobResult, error)

var (
	job_registry_mu sync.RWMutex
	job_registry    = map[string]JobFunc{}
)

// RegisterJob adds a named job to the registry. Registering a name
// twice is an error.
func RegisterJob(name string, fn JobFunc) error {
	if name == "" || fn == nil {
		return domain_errorf("job name and function must be set")
	}
	job_registry_mu.Lock()
	defer job_registry_mu.Unlock()
	if _, ok := job_registry[name]; ok {
		return domain_errorf("job %q is already registered", name)
	}
	job_registry[name] = fn
	return nil
}

// LookupJob returns the named job from the registry.
func LookupJob(name string) (JobFunc, bool) {
	job_registry_mu.RLock()
	defer job_registry_mu.RUnlock()
	fn, ok := job_registry[name]
	return fn, ok
}

// RegisteredJobs returns the sorted names of all registered jobs.
func RegisteredJobs() []string {
	job_registry_mu.RLock()
	defer job_registry_mu.RUnlock()
	names := make([]string, 0, len(job_registry))
	for name := range job_registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	must_register := func(name string, fn JobFunc) {
		if err := RegisterJob(name, fn); err != nil {
			panic(err)
		}
	}

	must_register("letid_lab", func(ctx context.Context, sc *Scenario, prev *JobResult) (*JobResult, error) {
		steps, err := CalcLetidLab(sc.Tau0, sc.TauDeg, sc.WaferThickness, sc.SRear,
			sc.NA0, sc.NB0, sc.NC0, sc.Mechanism, sc.Temperature, sc.Injection, sc.Duration, sc.Freq)
		if err != nil {
			return nil, err
		}
		return &JobResult{Steps: steps}, nil
	})

	must_register("letid_outdoors", func(ctx context.Context, sc *Scenario, prev *JobResult) (*JobResult, error) {
		steps, err := CalcLetidOutdoors(sc.Tau0, sc.TauDeg, sc.WaferThickness, sc.SRear,
			sc.NA0, sc.NB0, sc.NC0, sc.Mechanism, sc.Weather, sc.Meta)
		if err != nil {
			return nil, err
		}
		return &JobResult{Steps: steps}, nil
	})

	must_register("device_params", func(ctx context.Context, sc *Scenario, prev *JobResult) (*JobResult, error) {
		if prev == nil || len(prev.Steps) == 0 {
			return nil, domain_errorf("device_params needs a simulated record from the previous stage")
		}
		steps, err := CalcDeviceParams(prev.Steps, sc.CellArea)
		if err != nil {
			return nil, err
		}
		return &JobResult{Steps: steps}, nil
	})

	must_register("energy_loss", func(ctx context.Context, sc *Scenario, prev *JobResult) (*JobResult, error) {
		if prev == nil || len(prev.Steps) == 0 {
			return nil, domain_errorf("energy_loss needs a record with device parameters from the previous stage")
		}
		loss, err := CalcEnergyLoss(prev.Steps)
		if err != nil {
			return nil, err
		}
		return &JobResult{Steps: prev.Steps, Scalar: loss, Found: true}, nil
	})

	must_register("regeneration_time", func(ctx context.Context, sc *Scenario, prev *JobResult) (*JobResult, error) {
		if prev == nil || len(prev.Steps) == 0 {
			return nil, domain_errorf("regeneration_time needs a record with device parameters from the previous stage")
		}
		at, found, err := CalcRegenerationTime(prev.Steps, sc.RegenerationThreshold)
		if err != nil {
			return nil, err
		}
		res := &JobResult{Steps: prev.Steps, Found: found}
		if found {
			res.Scalar = at.Sub(prev.Steps[0].Datetime).Hours()
		}
		return res, nil
	})
}
