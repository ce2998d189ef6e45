package letid

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Scenario bundles the inputs of one simulation run with the pipeline
// of jobs to apply.
type Scenario struct {
	ID   string
	Name string

	// undegraded / fully degraded bulk lifetime, us
	Tau0   float64
	TauDeg float64

	// wafer thickness, um / rear SRV, cm/s / cell area, cm2
	WaferThickness float64
	SRear          float64
	CellArea       float64

	// initial defect state populations, %
	NA0 float64
	NB0 float64
	NC0 float64

	Mechanism string

	// lab conditions
	Temperature float64 // C
	Injection   float64 // suns
	Duration    time.Duration
	Freq        Interval

	// outdoor conditions
	Weather *Weather
	Meta    *SiteMetadata

	RegenerationThreshold float64

	Pipeline []string
}

// NewScenario returns a scenario with a fresh ID and the usual
// defaults for a PERC cell.
func NewScenario(name string) *Scenario {
	return &Scenario{
		ID:                    uuid.NewString(),
		Name:                  name,
		Tau0:                  115.0,
		TauDeg:                55.0,
		WaferThickness:        180.0,
		SRear:                 46.0,
		CellArea:              get_cell_area(),
		NA0:                   100.0,
		Mechanism:             "repins",
		Temperature:           75.0,
		Injection:             0.1,
		Duration:              3 * 7 * 24 * time.Hour,
		Freq:                  IntervalH1,
		RegenerationThreshold: 0.99,
		Pipeline:              []string{"letid_lab", "device_params"},
	}
}

// Run executes the scenario pipeline in order, feeding each job the
// result of the previous one. It returns one result per pipeline
// stage.
func (self *Scenario) Run(ctx context.Context) ([]*JobResult, error) {
	if len(self.Pipeline) == 0 {
		return nil, domain_errorf("scenario %q has an empty pipeline", self.Name)
	}

	results := make([]*JobResult, 0, len(self.Pipeline))
	var prev *JobResult
	for _, name := range self.Pipeline {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", self.Name, err)
		}
		fn, ok := LookupJob(name)
		if !ok {
			return nil, domain_errorf("scenario %q: unknown job %q (registered: %v)", self.Name, name, RegisteredJobs())
		}
		res, err := fn(ctx, self, prev)
		if err != nil {
			return nil, fmt.Errorf("scenario %q, job %q: %w", self.Name, name, err)
		}
		results = append(results, res)
		prev = res
	}
	return results, nil
}

// RunScenarios executes a batch of scenarios concurrently, at most
// workers at a time, and returns the pipeline results keyed by
// scenario ID. The first failing scenario cancels the rest.
func RunScenarios(ctx context.Context, scenarios []*Scenario, workers int) (map[string][]*JobResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([][]*JobResult, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			res, err := sc.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]*JobResult, len(scenarios))
	for i, sc := range scenarios {
		out[sc.ID] = results[i]
	}
	return out, nil
}
