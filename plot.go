package letid

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func record_days(steps []TimeStep) []float64 {
	t := make([]float64, len(steps))
	t_0 := steps[0].Datetime
	for i, s := range steps {
		t[i] = s.Datetime.Sub(t_0).Hours() / 24.0
	}
	return t
}

func line_points(x []float64, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// PlotDefectStates writes a PNG plot of the three defect state
// populations over time.
func PlotDefectStates(steps []TimeStep, path string) error {
	if len(steps) == 0 {
		return domain_errorf("record is empty")
	}

	p := plot.New()
	p.Title.Text = "Defect state populations"
	p.X.Label.Text = "Time [days]"
	p.Y.Label.Text = "Population [%]"

	days := record_days(steps)
	series := []struct {
		label string
		color color.RGBA
		value func(s TimeStep) float64
	}{
		{"N_A", color.RGBA{R: 31, G: 119, B: 180, A: 255}, func(s TimeStep) float64 { return s.NA }},
		{"N_B", color.RGBA{R: 255, G: 127, B: 14, A: 255}, func(s TimeStep) float64 { return s.NB }},
		{"N_C", color.RGBA{R: 44, G: 160, B: 44, A: 255}, func(s TimeStep) float64 { return s.NC }},
	}
	for _, sr := range series {
		y := make([]float64, len(steps))
		for i, s := range steps {
			y[i] = sr.value(s)
		}
		line, err := plotter.NewLine(line_points(days, y))
		if err != nil {
			return err
		}
		line.Color = sr.color
		p.Add(line)
		p.Legend.Add(sr.label, line)
	}
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// PlotNormalizedPower writes a PNG plot of the normalized maximum
// power over time. CalcDeviceParams must have run on the record.
func PlotNormalizedPower(steps []TimeStep, path string) error {
	if len(steps) == 0 {
		return domain_errorf("record is empty")
	}
	if steps[0].Pmp <= 0.0 {
		return domain_errorf("record has no power column (run CalcDeviceParams first)")
	}

	p := plot.New()
	p.Title.Text = "Normalized maximum power"
	p.X.Label.Text = "Time [days]"
	p.Y.Label.Text = "Pmp / Pmp(0)"

	days := record_days(steps)
	y := make([]float64, len(steps))
	for i, s := range steps {
		y[i] = s.PmpNorm
	}
	line, err := plotter.NewLine(line_points(days, y))
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	p.Add(line)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
