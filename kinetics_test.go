package letid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKinetics(t *testing.T) {
	mech, err := GetKinetics("repins")
	require.NoError(t, err)
	assert.Equal(t, "repins", mech.Name)
	require.Len(t, mech.Transitions, 4)

	ab, err := mech.transition("ab")
	require.NoError(t, err)
	assert.InDelta(t, 0.827, ab.Ea, 1e-12)
	assert.InDelta(t, 293.15, ab.Temperature, 1e-12)
	assert.InDelta(t, 1.0, ab.X, 1e-12)

	cb, err := mech.transition("cb")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, cb.X, 1e-12)
}

func TestGetKineticsUnknown(t *testing.T) {
	_, err := GetKinetics("no_such_mechanism")
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), "repins")

	names, err := KineticsNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"bo_lid", "repins"}, names)
}

func TestArrheniusRate(t *testing.T) {
	mech, err := GetKinetics("repins")
	require.NoError(t, err)
	ab, err := mech.transition("ab")
	require.NoError(t, err)

	assert.InEpsilon(t, 5.389713113272726e-06, k_ij(ab.V, ab.Ea, 49.0), 1e-10)

	// rates grow with temperature
	assert.Greater(t, k_ij(ab.V, ab.Ea, 75.0), k_ij(ab.V, ab.Ea, 49.0))
	assert.Greater(t, k_ij(ab.V, ab.Ea, 49.0), k_ij(ab.V, ab.Ea, 25.0))
}

func TestCarrierFactor(t *testing.T) {
	mech, err := GetKinetics("repins")
	require.NoError(t, err)
	ab, err := mech.transition("ab")
	require.NoError(t, err)

	f, err := carrier_factor(350.0, ab, 20.0, 0.5, 40.0, 180.0, 90.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.2700522149193714, f, 5e-6)
}

func TestCalcDn(t *testing.T) {
	dn, err := calc_dn(85.0, 75.0, 0.1, 40.0, 180.0, 46.0)
	require.NoError(t, err)
	assert.InEpsilon(t, 102034811784721.19, dn, 1e-9)

	// higher lifetime means more stored carriers
	dn_hi, err := calc_dn(350.0, 75.0, 0.1, 40.0, 180.0, 46.0)
	require.NoError(t, err)
	assert.Greater(t, dn_hi, dn)
}

func TestCalcDnWafer(t *testing.T) {
	depth, generation, err := DefaultGenerationProfile()
	require.NoError(t, err)
	j_gen := generation_current(depth, generation)

	dn := calc_dn_wafer(350.0, 0.5, j_gen, 180.0)
	assert.InEpsilon(t, 2530780828946636.5, dn, 1e-9)
}

func TestCarrierFactorWafer(t *testing.T) {
	mech, err := GetKinetics("repins")
	require.NoError(t, err)
	bc, err := mech.transition("bc")
	require.NoError(t, err)

	depth, generation, err := DefaultGenerationProfile()
	require.NoError(t, err)
	j_gen := generation_current(depth, generation)

	f, err := carrier_factor_wafer(350.0, bc, 0.5, j_gen, 180.0)
	require.NoError(t, err)
	assert.InEpsilon(t, 24.803111650621954, f, 1e-9)
}

func TestCarrierFactorExponent(t *testing.T) {
	base := TransitionParams{
		V: 5.0e6, Ea: 0.85, Tau: 200.0, Temperature: 333.15,
		Suns: 0.1, Thickness: 180.0, SRV: 90.0, X: 1.0,
	}
	linear, err := carrier_factor(100.0, base, 50.0, 0.3, 41.0, 180.0, 46.0)
	require.NoError(t, err)

	squared_tp := base
	squared_tp.X = 2.0
	squared, err := carrier_factor(100.0, squared_tp, 50.0, 0.3, 41.0, 180.0, 46.0)
	require.NoError(t, err)
	assert.InEpsilon(t, linear*linear, squared, 1e-12)

	flat_tp := base
	flat_tp.X = 0.0
	flat, err := carrier_factor(100.0, flat_tp, 50.0, 0.3, 41.0, 180.0, 46.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, flat, 1e-12)
}

func TestCalcDnConvergenceError(t *testing.T) {
	// absurd illumination pushes the carrier density past the bracket
	_, err := calc_dn(350.0, 75.0, 1e13, 41.0, 180.0, 46.0)
	var ce *ConvergenceError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, -1, ce.Step)
	assert.Empty(t, ce.Transition)
}

func TestSolveDn(t *testing.T) {
	// dn*(dn+na) with known root: dn = na means target = 2*na^2
	na := get_n_a()
	dn, err := solve_dn(2.0*na*na, na)
	require.NoError(t, err)
	assert.InEpsilon(t, na, dn, 1e-9)
}
