package letid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTauNow(t *testing.T) {
	assert.InDelta(t, 350.0, tau_now(350.0, 41.0, 0.0), 1e-12)
	assert.InDelta(t, 41.0, tau_now(350.0, 41.0, 100.0), 1e-12)
	assert.InDelta(t, 85.0, tau_now(115.0, 55.0, 50.0), 1e-12)
}

func new_test_sequence(t *testing.T) *Sequence {
	t.Helper()
	device, err := NewDefaultDevice(180.0, 46.0)
	require.NoError(t, err)
	mech, err := GetKinetics("repins")
	require.NoError(t, err)
	seq, err := NewSequence(device, mech, 115.0, 55.0)
	require.NoError(t, err)
	return seq
}

func TestNewSequenceValidation(t *testing.T) {
	device, err := NewDefaultDevice(180.0, 46.0)
	require.NoError(t, err)
	mech, err := GetKinetics("repins")
	require.NoError(t, err)

	var de *DomainError
	_, err = NewSequence(device, mech, 55.0, 115.0)
	assert.ErrorAs(t, err, &de)
	_, err = NewSequence(device, mech, 115.0, 0.0)
	assert.ErrorAs(t, err, &de)
	_, err = NewSequence(nil, mech, 115.0, 55.0)
	assert.ErrorAs(t, err, &de)
}

func TestSequenceDarkAnneal(t *testing.T) {
	seq := new_test_sequence(t)

	// everything starts in state C, no illumination
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := make([]TimeStep, 3)
	for i := range steps {
		steps[i].Datetime = start.Add(time.Duration(i) * time.Hour)
		steps[i].Temperature = 75.0
		steps[i].Injection = 0.0
	}
	steps[0].NC = 100.0

	require.NoError(t, seq.run(steps))

	// in the dark only the thermally activated C->B transition moves
	assert.InEpsilon(t, 0.014468399174986548, steps[1].NB, 1e-9)
	assert.InDelta(t, 0.0, steps[1].NA, 1e-15)
	assert.Greater(t, steps[2].NB, steps[1].NB)
	for _, s := range steps {
		assert.InDelta(t, 100.0, s.NA+s.NB+s.NC, 1e-9)
	}
}

func TestSequenceIrregularSpacing(t *testing.T) {
	seq := new_test_sequence(t)

	start := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, time.Hour, 3 * time.Hour, 3*time.Hour + 30*time.Minute}
	steps := make([]TimeStep, len(offsets))
	for i, off := range offsets {
		steps[i].Datetime = start.Add(off)
		steps[i].Temperature = 75.0
		steps[i].Injection = 0.1
	}
	steps[0].NA = 100.0

	require.NoError(t, seq.run(steps))
	for i, s := range steps {
		assert.InDelta(t, 100.0, s.NA+s.NB+s.NC, 1e-9, "row %d", i)
	}
	assert.Greater(t, steps[1].NB, 0.0)

	// a 2 hour gap degrades more than a 1 hour gap from the same state
	assert.Greater(t, steps[2].NB-steps[1].NB, steps[1].NB-steps[0].NB)
}

func TestSequenceUsesRowOwnConditions(t *testing.T) {
	seq := new_test_sequence(t)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	new_steps := func(injections []float64) []TimeStep {
		steps := make([]TimeStep, len(injections))
		for i, inj := range injections {
			steps[i].Datetime = start.Add(time.Duration(i) * time.Hour)
			steps[i].Temperature = 75.0
			steps[i].Injection = inj
		}
		steps[0].NA = 100.0
		return steps
	}

	base := new_steps([]float64{0.1, 0.1, 0.1})
	require.NoError(t, seq.run(base))

	// raising row 1's injection accelerates the step into row 1
	hot_row := new_steps([]float64{0.1, 0.9, 0.1})
	require.NoError(t, seq.run(hot_row))
	assert.Greater(t, hot_row[1].NB, base[1].NB)

	// row 0's conditions only seed the record, they drive nothing
	hot_seed := new_steps([]float64{0.9, 0.1, 0.1})
	require.NoError(t, seq.run(hot_seed))
	assert.Equal(t, base[1].NB, hot_seed[1].NB)
	assert.Equal(t, base[2].NB, hot_seed[2].NB)
}

func TestSequenceVocMatchesDeviceDiffusivity(t *testing.T) {
	depth, generation, err := DefaultGenerationProfile()
	require.NoError(t, err)
	device, err := NewDevice(180.0, 46.0, 243.0, 20.0, depth, generation)
	require.NoError(t, err)
	mech, err := GetKinetics("repins")
	require.NoError(t, err)
	seq, err := NewSequence(device, mech, 115.0, 55.0)
	require.NoError(t, err)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := make([]TimeStep, 2)
	for i := range steps {
		steps[i].Datetime = start.Add(time.Duration(i) * time.Hour)
		steps[i].Temperature = 75.0
		steps[i].Injection = 0.1
	}
	steps[0].NA = 100.0
	require.NoError(t, seq.run(steps))

	// Jsc and Voc of a row come from the same, device-owned
	// diffusivity
	want, err := CalcVocFromTau(115.0, 180.0, 46.0, 20.0, steps[0].Jsc, 25.0)
	require.NoError(t, err)
	assert.InDelta(t, want, steps[0].Voc, 1e-15)

	other, err := CalcVocFromTau(115.0, 180.0, 46.0, 27.0, steps[0].Jsc, 25.0)
	require.NoError(t, err)
	assert.Greater(t, math.Abs(steps[0].Voc-other), 1e-6)
}

func TestSequenceRejectsNonIncreasingTimestamps(t *testing.T) {
	seq := new_test_sequence(t)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := make([]TimeStep, 3)
	for i := range steps {
		steps[i].Datetime = start
		steps[i].Temperature = 75.0
		steps[i].Injection = 0.1
	}
	steps[0].NA = 100.0

	var de *DomainError
	assert.ErrorAs(t, seq.run(steps), &de)
}

func TestSequenceConvergenceErrorCarriesContext(t *testing.T) {
	seq := new_test_sequence(t)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := make([]TimeStep, 3)
	for i := range steps {
		steps[i].Datetime = start.Add(time.Duration(i) * time.Hour)
		steps[i].Temperature = 75.0
		steps[i].Injection = 1e13
	}
	steps[0].NA = 100.0

	err := seq.run(steps)
	var ce *ConvergenceError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Step)
	assert.Equal(t, "ab", ce.Transition)
	assert.Contains(t, ce.Error(), "transition ab")
	assert.Contains(t, ce.Error(), "timestep 1")
}

func TestSequenceApproachesEquilibrium(t *testing.T) {
	seq := new_test_sequence(t)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 21 * 24
	steps := make([]TimeStep, n+1)
	for i := range steps {
		steps[i].Datetime = start.Add(time.Duration(i) * time.Hour)
		steps[i].Temperature = 75.0
		steps[i].Injection = 0.1
	}
	steps[0].NA = 100.0

	require.NoError(t, seq.run(steps))

	// state motion slows to a crawl once the record approaches
	// its fixed point
	early := steps[25].NB - steps[24].NB
	late := steps[n].NB - steps[n-1].NB
	assert.Less(t, math.Abs(late), math.Abs(early))
	assert.Less(t, math.Abs(late), 1e-3)
}
