package solver

import (
	"context"
	"testing"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
	"github.com/adamistheanswer/pokebay/internal/optimize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func solvePlan(t *testing.T, items []model.ItemOffers, policy optimize.ShippingPolicy) *model.Plan {
	t.Helper()
	p, unsat, err := optimize.BuildProgram(items, policy)
	require.NoError(t, err)
	require.Empty(t, unsat)

	res, err := New().Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, optimize.StatusOptimal, res.Status)

	plan, err := optimize.DecodeSolution(p, res, tol)
	require.NoError(t, err)
	return plan
}

func TestSolve_SingleItemPicksCheaperLandedCost(t *testing.T) {
	// Vendor A: price 10, shipping 5. Vendor B: price 8, shipping 1.
	items := []model.ItemOffers{{
		Item: model.Item{ID: "c1", Name: "Pikachu"},
		Offers: []model.Offer{
			{ID: "a1", ItemID: "c1", Vendor: "vendorA", Price: 10, ShippingCost: 5},
			{ID: "b1", ItemID: "c1", Vendor: "vendorB", Price: 8, ShippingCost: 1},
		},
	}}

	plan := solvePlan(t, items, optimize.PolicyConsolidated)

	require.Len(t, plan.Purchases, 1)
	assert.Equal(t, "vendorB", plan.Purchases[0].Offer.Vendor)
	assert.Equal(t, []string{"vendorB"}, plan.Vendors)
	assert.InDelta(t, 9, plan.TotalCost, tol)
}

func TestSolve_ShippingConsolidationBeatsSplit(t *testing.T) {
	// Both from vendor A: 10+12+5 = 27. Splitting c2 to vendor B pays
	// both shipping charges: 10+5+11+6 = 32.
	items := []model.ItemOffers{
		{
			Item: model.Item{ID: "c1", Name: "Pikachu"},
			Offers: []model.Offer{
				{ID: "a1", ItemID: "c1", Vendor: "vendorA", Price: 10, ShippingCost: 5},
			},
		},
		{
			Item: model.Item{ID: "c2", Name: "Raichu"},
			Offers: []model.Offer{
				{ID: "a2", ItemID: "c2", Vendor: "vendorA", Price: 12, ShippingCost: 5},
				{ID: "b2", ItemID: "c2", Vendor: "vendorB", Price: 11, ShippingCost: 6},
			},
		},
	}

	plan := solvePlan(t, items, optimize.PolicyConsolidated)

	assert.InDelta(t, 27, plan.TotalCost, tol)
	assert.Equal(t, []string{"vendorA"}, plan.Vendors)
	for _, pu := range plan.Purchases {
		assert.Equal(t, "vendorA", pu.Offer.Vendor)
	}
}

func TestSolve_PerOfferPolicyIgnoresConsolidation(t *testing.T) {
	// Under per-offer shipping every selected offer pays its own
	// shipping, so consolidation yields no discount.
	items := []model.ItemOffers{
		{
			Item: model.Item{ID: "c1", Name: "Pikachu"},
			Offers: []model.Offer{
				{ID: "a1", ItemID: "c1", Vendor: "vendorA", Price: 10, ShippingCost: 5},
			},
		},
		{
			Item: model.Item{ID: "c2", Name: "Raichu"},
			Offers: []model.Offer{
				{ID: "a2", ItemID: "c2", Vendor: "vendorA", Price: 12, ShippingCost: 5},
				{ID: "b2", ItemID: "c2", Vendor: "vendorB", Price: 11, ShippingCost: 6},
			},
		},
	}

	plan := solvePlan(t, items, optimize.PolicyPerOffer)

	// a1+a2 and a1+b2 both land at 32; ties never change the total.
	assert.InDelta(t, 32, plan.TotalCost, tol)
	require.Len(t, plan.Purchases, 2)
}

func TestSolve_NeverActivatesUnusedVendor(t *testing.T) {
	items := []model.ItemOffers{{
		Item: model.Item{ID: "c1", Name: "Pikachu"},
		Offers: []model.Offer{
			{ID: "a1", ItemID: "c1", Vendor: "vendorA", Price: 5, ShippingCost: 1},
			{ID: "b1", ItemID: "c1", Vendor: "vendorB", Price: 50, ShippingCost: 10},
		},
	}}

	plan := solvePlan(t, items, optimize.PolicyConsolidated)

	assert.Equal(t, []string{"vendorA"}, plan.Vendors)
	assert.False(t, plan.VendorOf("vendorB"))
}

func TestSolve_ObjectiveIdempotentAcrossRebuilds(t *testing.T) {
	items := []model.ItemOffers{
		{
			Item: model.Item{ID: "c1"},
			Offers: []model.Offer{
				{ID: "a1", ItemID: "c1", Vendor: "vendorA", Price: 7, ShippingCost: 3},
				{ID: "b1", ItemID: "c1", Vendor: "vendorB", Price: 7, ShippingCost: 3},
			},
		},
		{
			Item: model.Item{ID: "c2"},
			Offers: []model.Offer{
				{ID: "a2", ItemID: "c2", Vendor: "vendorA", Price: 4, ShippingCost: 3},
				{ID: "b2", ItemID: "c2", Vendor: "vendorB", Price: 4, ShippingCost: 3},
			},
		},
	}

	first := solvePlan(t, items, optimize.PolicyConsolidated)
	for i := 0; i < 5; i++ {
		again := solvePlan(t, items, optimize.PolicyConsolidated)
		assert.InDelta(t, first.TotalCost, again.TotalCost, tol)
	}
}

func TestSolve_EmptyExactlyOneGroupIsInfeasible(t *testing.T) {
	// A well-formed builder never emits an empty coverage group; a
	// hand-built degenerate program exercises the infeasible path.
	p, _, err := optimize.BuildProgram(nil, optimize.PolicyConsolidated)
	require.NoError(t, err)
	p.Constraints = append(p.Constraints, optimize.Constraint{Sense: optimize.SenseEQ, RHS: 1})

	res, err := New().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, optimize.StatusInfeasible, res.Status)

	// The decoder raises this loudly rather than crashing.
	_, err = optimize.DecodeSolution(p, res, tol)
	assert.ErrorIs(t, err, optimize.ErrInfeasible)
}

func TestSolve_UnsupportedConstraintShape(t *testing.T) {
	p, _, err := optimize.BuildProgram(nil, optimize.PolicyConsolidated)
	require.NoError(t, err)
	p.Constraints = append(p.Constraints, optimize.Constraint{
		Terms: []optimize.Term{{Var: 0, Coeff: 2}},
		Sense: optimize.SenseLE,
		RHS:   3,
	})

	res, err := New().Solve(context.Background(), p)
	assert.Error(t, err)
	assert.Equal(t, optimize.StatusError, res.Status)
}

func TestSolve_CancelledContext(t *testing.T) {
	// Enough groups that the search checks the context at least once.
	items := make([]model.ItemOffers, 0, 16)
	for i := 0; i < 16; i++ {
		id := string(rune('a' + i))
		items = append(items, model.ItemOffers{
			Item: model.Item{ID: id},
			Offers: []model.Offer{
				{ID: id + "1", ItemID: id, Vendor: "v1", Price: 1, ShippingCost: 1},
				{ID: id + "2", ItemID: id, Vendor: "v2", Price: 2, ShippingCost: 1},
				{ID: id + "3", ItemID: id, Vendor: "v3", Price: 3, ShippingCost: 1},
			},
		})
	}
	p, _, err := optimize.BuildProgram(items, optimize.PolicyConsolidated)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New().Solve(ctx, p)
	if err == nil {
		// The search may finish before the first context check on fast
		// machines; an optimal result is acceptable then.
		assert.Equal(t, optimize.StatusOptimal, res.Status)
		return
	}
	assert.Equal(t, optimize.StatusError, res.Status)
}
