// Package optimize builds the procurement program and decodes solved
// assignments back into validated purchase plans.
//
// The model is a binary integer program: one selection variable per
// offer, one activation variable per vendor, a coverage constraint per
// item (exactly one offer chosen) and an activation constraint per
// offer (an offer may only be chosen from an active vendor). The
// objective minimizes price plus shipping according to the configured
// ShippingPolicy.
package optimize

import (
	"fmt"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
)

// ShippingPolicy selects how vendor shipping enters the objective.
type ShippingPolicy string

const (
	// PolicyConsolidated charges one flat, worst-case shipping fee per
	// activated vendor, independent of how many offers are bought from
	// them. Buying several items from one vendor amortizes a single
	// charge, which is what makes consolidation valuable.
	PolicyConsolidated ShippingPolicy = "consolidated"
	// PolicyPerOffer charges each selected offer its own shipping cost.
	// Activation variables remain in the model but carry no cost.
	PolicyPerOffer ShippingPolicy = "per_offer"
)

// ParseShippingPolicy validates a policy name from configuration.
func ParseShippingPolicy(s string) (ShippingPolicy, error) {
	switch ShippingPolicy(s) {
	case PolicyConsolidated, PolicyPerOffer:
		return ShippingPolicy(s), nil
	case "":
		return PolicyConsolidated, nil
	default:
		return "", fmt.Errorf("unknown shipping policy %q", s)
	}
}

// UnsatisfiablePolicy selects how items without offers are handled.
type UnsatisfiablePolicy string

const (
	// PolicyExclude drops zero-offer items from the program and reports
	// them alongside the plan, so partial data can still be optimized.
	PolicyExclude UnsatisfiablePolicy = "exclude"
	// PolicyAbort fails the whole run when any item has no offers.
	PolicyAbort UnsatisfiablePolicy = "abort"
)

// ParseUnsatisfiablePolicy validates a policy name from configuration.
func ParseUnsatisfiablePolicy(s string) (UnsatisfiablePolicy, error) {
	switch UnsatisfiablePolicy(s) {
	case PolicyExclude, PolicyAbort:
		return UnsatisfiablePolicy(s), nil
	case "":
		return PolicyExclude, nil
	default:
		return "", fmt.Errorf("unknown unsatisfiable policy %q", s)
	}
}

// Program is the complete binary program for one optimization run:
// variables, constraints, objective, and the reverse lookup tables the
// decoder needs. A Program is built once, handed to the engine, and is
// read-only afterwards.
type Program struct {
	// Items are the covered items, in input order. Items without offers
	// never appear here.
	Items []model.ItemOffers
	// Vendors are the distinct vendor identifiers, sorted.
	Vendors []string
	// VendorShipping is the consolidated per-vendor shipping charge.
	VendorShipping map[string]float64
	// Policy is the shipping policy the objective was built under.
	Policy ShippingPolicy

	// Objective holds the minimization coefficient per variable handle.
	Objective []float64
	// Constraints holds the coverage and activation constraints.
	Constraints []Constraint

	keys    []VarKey
	index   map[VarKey]int
	offerAt map[int]model.Offer
}

// NumVars returns the number of decision variables.
func (p *Program) NumVars() int {
	return len(p.keys)
}

// Lookup resolves a typed variable key to its handle.
func (p *Program) Lookup(key VarKey) (int, bool) {
	h, ok := p.index[key]
	return h, ok
}

// KeyAt returns the typed key for a variable handle.
func (p *Program) KeyAt(handle int) VarKey {
	return p.keys[handle]
}

// OfferAt returns the offer behind a select variable handle.
func (p *Program) OfferAt(handle int) (model.Offer, bool) {
	o, ok := p.offerAt[handle]
	return o, ok
}

func (p *Program) addVar(key VarKey) int {
	h := len(p.keys)
	p.keys = append(p.keys, key)
	p.index[key] = h
	p.Objective = append(p.Objective, 0)
	return h
}

// BuildProgram constructs the program for the given items under the
// shipping policy. Items without offers are split off and returned
// separately; the caller applies the unsatisfiable policy. Construction
// is deterministic: identical inputs produce an identical program.
func BuildProgram(items []model.ItemOffers, policy ShippingPolicy) (*Program, []model.Item, error) {
	covered := make([]model.ItemOffers, 0, len(items))
	var unsatisfiable []model.Item
	for _, it := range items {
		if it.Satisfiable() {
			covered = append(covered, it)
		} else {
			unsatisfiable = append(unsatisfiable, it.Item)
		}
	}

	p := &Program{
		Items:          covered,
		Vendors:        model.Vendors(covered),
		VendorShipping: model.VendorShipping(covered),
		Policy:         policy,
		index:          make(map[VarKey]int),
		offerAt:        make(map[int]model.Offer),
	}

	// Activation variables first, in sorted vendor order.
	for _, v := range p.Vendors {
		h := p.addVar(VarKey{Kind: VarActive, Ref: v})
		if policy == PolicyConsolidated {
			p.Objective[h] = p.VendorShipping[v]
		}
	}

	// Selection variables, coverage and activation constraints.
	for _, it := range covered {
		coverage := Constraint{Sense: SenseEQ, RHS: 1}
		for _, o := range it.Offers {
			if o.Price < 0 || o.ShippingCost < 0 {
				return nil, nil, fmt.Errorf("offer %s for item %s has negative cost", o.ID, it.Item.ID)
			}
			key := VarKey{Kind: VarSelect, Ref: selectRef(it.Item.ID, o.ID)}
			if _, dup := p.index[key]; dup {
				return nil, nil, fmt.Errorf("duplicate offer %s for item %s", o.ID, it.Item.ID)
			}
			h := p.addVar(key)
			p.offerAt[h] = o

			switch policy {
			case PolicyPerOffer:
				p.Objective[h] = o.Price + o.ShippingCost
			default:
				p.Objective[h] = o.Price
			}

			coverage.Terms = append(coverage.Terms, Term{Var: h, Coeff: 1})

			active, ok := p.Lookup(VarKey{Kind: VarActive, Ref: o.Vendor})
			if !ok {
				return nil, nil, fmt.Errorf("no activation variable for vendor %s", o.Vendor)
			}
			p.Constraints = append(p.Constraints, Constraint{
				Terms: []Term{{Var: h, Coeff: 1}, {Var: active, Coeff: -1}},
				Sense: SenseLE,
				RHS:   0,
			})
		}
		p.Constraints = append(p.Constraints, coverage)
	}

	return p, unsatisfiable, nil
}

// selectRef builds the reference for a select variable. The item id is
// part of the identity so a listing matching two items stays two
// distinct variables.
func selectRef(itemID, offerID string) string {
	return itemID + "\x00" + offerID
}
