package optimize

import (
	"fmt"
	"math"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
)

// selectThreshold is the cutoff above which a binary variable value is
// treated as true, absorbing solver tolerance on integrality.
const selectThreshold = 0.5

// DecodeSolution validates a raw engine result against the program and
// extracts the purchase plan.
//
// Non-optimal statuses map to ErrInfeasible and ErrSolver. For optimal
// results the total cost is recomputed independently from the chosen
// offers and activated vendors and compared against the engine
// objective within costTolerance; a mismatch, or anything other than
// exactly one purchase per covered item, is a programming-error-class
// failure wrapping ErrInvariant.
func DecodeSolution(p *Program, res Result, costTolerance float64) (*model.Plan, error) {
	switch res.Status {
	case StatusOptimal:
	case StatusInfeasible:
		return nil, ErrInfeasible
	default:
		return nil, ErrSolver
	}
	if len(res.Assignment) != p.NumVars() {
		return nil, fmt.Errorf("%w: assignment has %d values for %d variables", ErrSolver, len(res.Assignment), p.NumVars())
	}

	chosen := make(map[string]model.Offer, len(p.Items))
	var vendors []string
	for h, v := range res.Assignment {
		if v < selectThreshold {
			continue
		}
		key := p.KeyAt(h)
		switch key.Kind {
		case VarSelect:
			offer, ok := p.OfferAt(h)
			if !ok {
				return nil, fmt.Errorf("%w: select variable %d has no offer", ErrInvariant, h)
			}
			if _, dup := chosen[offer.ItemID]; dup {
				return nil, fmt.Errorf("item %s: %w", offer.ItemID, ErrCoverageMismatch)
			}
			chosen[offer.ItemID] = offer
		case VarActive:
			vendors = append(vendors, key.Ref)
		}
	}

	// Coverage cross-check: exactly one purchase per covered item.
	purchases := make([]model.Purchase, 0, len(p.Items))
	for _, it := range p.Items {
		offer, ok := chosen[it.Item.ID]
		if !ok {
			return nil, fmt.Errorf("item %s has no purchase: %w", it.Item.ID, ErrCoverageMismatch)
		}
		purchases = append(purchases, model.Purchase{Item: it.Item, Offer: offer})
	}
	if len(chosen) != len(p.Items) {
		return nil, fmt.Errorf("%d purchases for %d items: %w", len(chosen), len(p.Items), ErrCoverageMismatch)
	}

	// Every chosen offer's vendor must be activated.
	activated := make(map[string]struct{}, len(vendors))
	for _, v := range vendors {
		activated[v] = struct{}{}
	}
	for _, pu := range purchases {
		if _, ok := activated[pu.Offer.Vendor]; !ok {
			return nil, fmt.Errorf("vendor %s sells a chosen offer but is not active: %w", pu.Offer.Vendor, ErrInvariant)
		}
	}

	// Cost cross-check: recompute with the same formula the objective
	// was built from.
	total := recomputeCost(p, purchases, vendors)
	if math.Abs(total-res.Objective) > costTolerance {
		return nil, fmt.Errorf("recomputed %.6f, engine reported %.6f: %w", total, res.Objective, ErrCostMismatch)
	}

	return &model.Plan{
		TotalCost: total,
		Purchases: purchases,
		Vendors:   vendors,
	}, nil
}

func recomputeCost(p *Program, purchases []model.Purchase, vendors []string) float64 {
	var total float64
	for _, pu := range purchases {
		total += pu.Offer.Price
		if p.Policy == PolicyPerOffer {
			total += pu.Offer.ShippingCost
		}
	}
	if p.Policy == PolicyConsolidated {
		for _, v := range vendors {
			total += p.VendorShipping[v]
		}
	}
	return total
}
