package letid

import (
	"os"
	"time"

	"github.com/gocarina/gocsv"
)

type timestep_csv_row struct {
	Datetime    string  `csv:"Datetime"`
	Temperature float64 `csv:"Temperature"`
	Injection   float64 `csv:"Injection"`
	NA          float64 `csv:"NA"`
	NB          float64 `csv:"NB"`
	NC          float64 `csv:"NC"`
	Tau         float64 `csv:"tau"`
	Jsc         float64 `csv:"Jsc"`
	Voc         float64 `csv:"Voc"`
	Isc         float64 `csv:"Isc"`
	FF          float64 `csv:"FF"`
	Pmp         float64 `csv:"Pmp"`
	PmpNorm     float64 `csv:"Pmp_norm"`
}

// SaveTimesteps writes a simulated record to a CSV file.
func SaveTimesteps(path string, steps []TimeStep) error {
	if len(steps) == 0 {
		return domain_errorf("record is empty")
	}
	rows := make([]*timestep_csv_row, len(steps))
	for i, s := range steps {
		rows[i] = &timestep_csv_row{
			Datetime:    s.Datetime.Format(time.RFC3339),
			Temperature: s.Temperature,
			Injection:   s.Injection,
			NA:          s.NA,
			NB:          s.NB,
			NC:          s.NC,
			Tau:         s.Tau,
			Jsc:         s.Jsc,
			Voc:         s.Voc,
			Isc:         s.Isc,
			FF:          s.FF,
			Pmp:         s.Pmp,
			PmpNorm:     s.PmpNorm,
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return data_errorf(path, "create: %v", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return data_errorf(path, "write: %v", err)
	}
	return nil
}

// LoadTimesteps reads a simulated record back from a CSV file.
func LoadTimesteps(path string) ([]TimeStep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, data_errorf(path, "open: %v", err)
	}
	defer f.Close()

	var rows []*timestep_csv_row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, data_errorf(path, "parse: %v", err)
	}

	steps := make([]TimeStep, len(rows))
	for i, r := range rows {
		dt, err := time.Parse(time.RFC3339, r.Datetime)
		if err != nil {
			return nil, data_errorf(path, "row %d: bad datetime %q: %v", i, r.Datetime, err)
		}
		steps[i] = TimeStep{
			Datetime:    dt,
			Temperature: r.Temperature,
			Injection:   r.Injection,
			NA:          r.NA,
			NB:          r.NB,
			NC:          r.NC,
			Tau:         r.Tau,
			Jsc:         r.Jsc,
			Voc:         r.Voc,
			Isc:         r.Isc,
			FF:          r.FF,
			Pmp:         r.Pmp,
			PmpNorm:     r.PmpNorm,
		}
	}
	return steps, nil
}
