package letid

import (
	_ "embed"

	"github.com/gocarina/gocsv"
)

//go:embed data/generation_profile.csv
var generation_profile_csv []byte

type generation_profile_row struct {
	DepthUm        float64 `csv:"depth_um"`
	GenerationCm3S float64 `csv:"generation_cm3s"`
}

// Device describes the cell geometry and base material the simulation
// degrades.
type Device struct {
	// wafer thickness, um
	wafer_thickness float64

	// rear surface recombination velocity, cm/s
	s_rear float64

	// cell area, cm2
	cell_area float64

	// base diffusivity, cm2/s
	d_base float64

	// photogeneration depth profile under one-sun illumination
	// depth, um / generation rate, cm-3 s-1
	depth      []float64
	generation []float64
}

/*
   Args:
       wafer_thickness: wafer thickness, um
       s_rear: rear surface recombination velocity, cm/s
       cell_area: cell area, cm2
       d_base: base diffusivity, cm2/s
       depth: generation profile depth grid, um
       generation: generation rate at each depth, cm-3 s-1
*/
func NewDevice(wafer_thickness float64, s_rear float64, cell_area float64, d_base float64, depth []float64, generation []float64) (*Device, error) {

	if wafer_thickness <= 0.0 {
		return nil, domain_errorf("wafer thickness must be positive, got %v um", wafer_thickness)
	}
	if s_rear < 0.0 {
		return nil, domain_errorf("rear surface recombination velocity must be non-negative, got %v cm/s", s_rear)
	}
	if cell_area <= 0.0 {
		return nil, domain_errorf("cell area must be positive, got %v cm2", cell_area)
	}
	if d_base <= 0.0 {
		return nil, domain_errorf("base diffusivity must be positive, got %v cm2/s", d_base)
	}
	if err := validate_generation_profile(depth, generation); err != nil {
		return nil, err
	}

	return &Device{
		wafer_thickness: wafer_thickness,
		s_rear:          s_rear,
		cell_area:       cell_area,
		d_base:          d_base,
		depth:           depth,
		generation:      generation,
	}, nil
}

// NewDefaultDevice builds a device with the bundled generation profile,
// the default diffusivity and the default cell area.
func NewDefaultDevice(wafer_thickness float64, s_rear float64) (*Device, error) {
	depth, generation, err := DefaultGenerationProfile()
	if err != nil {
		return nil, err
	}
	return NewDevice(wafer_thickness, s_rear, get_cell_area(), get_d_base(), depth, generation)
}

func validate_generation_profile(depth []float64, generation []float64) error {
	if len(depth) < 2 {
		return domain_errorf("generation profile needs at least 2 points, got %d", len(depth))
	}
	if len(depth) != len(generation) {
		return domain_errorf("generation profile length mismatch: %d depths vs %d rates", len(depth), len(generation))
	}
	for i := 1; i < len(depth); i++ {
		if depth[i] <= depth[i-1] {
			return domain_errorf("generation profile depths must be strictly increasing at index %d", i)
		}
	}
	for i, g := range generation {
		if g < 0.0 {
			return domain_errorf("generation rate must be non-negative at index %d, got %v", i, g)
		}
	}
	return nil
}

// DefaultGenerationProfile returns the bundled one-sun photogeneration
// profile for a standard front texture and ARC.
func DefaultGenerationProfile() (depth []float64, generation []float64, err error) {
	var rows []*generation_profile_row
	if err := gocsv.UnmarshalBytes(generation_profile_csv, &rows); err != nil {
		return nil, nil, data_errorf("generation_profile.csv", "parse: %v", err)
	}
	depth = make([]float64, len(rows))
	generation = make([]float64, len(rows))
	for i, r := range rows {
		depth[i] = r.DepthUm
		generation[i] = r.GenerationCm3S
	}
	if err := validate_generation_profile(depth, generation); err != nil {
		return nil, nil, err
	}
	return depth, generation, nil
}
