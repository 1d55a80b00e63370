package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

// assignment builds a Result by flipping on the given variable keys.
func assignment(t *testing.T, p *Program, objective float64, keys ...VarKey) Result {
	t.Helper()
	values := make([]float64, p.NumVars())
	for _, k := range keys {
		h, ok := p.Lookup(k)
		require.True(t, ok, "variable %v not in program", k)
		values[h] = 1
	}
	return Result{Status: StatusOptimal, Assignment: values, Objective: objective}
}

func TestDecodeSolution_Valid(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	// Buy both cards from vendorA: 10 + 12 + one 5 shipping.
	res := assignment(t, p, 27,
		VarKey{Kind: VarSelect, Ref: selectRef("c1", "a1")},
		VarKey{Kind: VarSelect, Ref: selectRef("c2", "a2")},
		VarKey{Kind: VarActive, Ref: "vendorA"},
	)

	plan, err := DecodeSolution(p, res, tol)
	require.NoError(t, err)

	assert.InDelta(t, 27, plan.TotalCost, tol)
	require.Len(t, plan.Purchases, 2)
	assert.Equal(t, "c1", plan.Purchases[0].Item.ID)
	assert.Equal(t, "a1", plan.Purchases[0].Offer.ID)
	assert.Equal(t, []string{"vendorA"}, plan.Vendors)
}

func TestDecodeSolution_ToleratesNonIntegralValues(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	res := assignment(t, p, 27,
		VarKey{Kind: VarSelect, Ref: selectRef("c1", "a1")},
		VarKey{Kind: VarSelect, Ref: selectRef("c2", "a2")},
		VarKey{Kind: VarActive, Ref: "vendorA"},
	)
	for i, v := range res.Assignment {
		if v == 1 {
			res.Assignment[i] = 0.999999
		} else {
			res.Assignment[i] = 0.000001
		}
	}

	plan, err := DecodeSolution(p, res, tol)
	require.NoError(t, err)
	assert.Len(t, plan.Purchases, 2)
}

func TestDecodeSolution_Infeasible(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	_, err = DecodeSolution(p, Result{Status: StatusInfeasible}, tol)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.NotErrorIs(t, err, ErrSolver)
}

func TestDecodeSolution_SolverError(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	_, err = DecodeSolution(p, Result{Status: StatusError}, tol)
	assert.ErrorIs(t, err, ErrSolver)
	assert.NotErrorIs(t, err, ErrInfeasible)
}

func TestDecodeSolution_CostMismatch(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	// Engine claims 20 but the chosen offers cost 27.
	res := assignment(t, p, 20,
		VarKey{Kind: VarSelect, Ref: selectRef("c1", "a1")},
		VarKey{Kind: VarSelect, Ref: selectRef("c2", "a2")},
		VarKey{Kind: VarActive, Ref: "vendorA"},
	)

	_, err = DecodeSolution(p, res, tol)
	assert.ErrorIs(t, err, ErrCostMismatch)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDecodeSolution_CoverageMismatch(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	// Nothing selected for c2.
	res := assignment(t, p, 15,
		VarKey{Kind: VarSelect, Ref: selectRef("c1", "a1")},
		VarKey{Kind: VarActive, Ref: "vendorA"},
	)

	_, err = DecodeSolution(p, res, tol)
	assert.ErrorIs(t, err, ErrCoverageMismatch)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDecodeSolution_InactiveVendorForChosenOffer(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	res := assignment(t, p, 22,
		VarKey{Kind: VarSelect, Ref: selectRef("c1", "a1")},
		VarKey{Kind: VarSelect, Ref: selectRef("c2", "a2")},
	)

	_, err = DecodeSolution(p, res, tol)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDecodeSolution_AssignmentLengthMismatch(t *testing.T) {
	p, _, err := BuildProgram(twoVendorFixture(), PolicyConsolidated)
	require.NoError(t, err)

	_, err = DecodeSolution(p, Result{Status: StatusOptimal, Assignment: []float64{1}}, tol)
	assert.ErrorIs(t, err, ErrSolver)
}
