package model

// Purchase is a single chosen offer in a decoded plan.
type Purchase struct {
	Item  Item  `json:"item"`
	Offer Offer `json:"offer"`
}

// Plan is the validated result of one optimization run: exactly one
// purchase per satisfiable item, the set of activated vendors, and the
// total cost cross-checked against the solver objective.
type Plan struct {
	// TotalCost is the sum of purchase prices plus per-vendor shipping
	// charges according to the shipping policy in force.
	TotalCost float64 `json:"total_cost"`
	// Purchases holds one entry per satisfiable item, in item order.
	Purchases []Purchase `json:"purchases"`
	// Vendors lists the activated vendor identifiers, sorted.
	Vendors []string `json:"vendors"`
	// Unsatisfiable lists items that had no candidate offers and were
	// excluded from the optimization.
	Unsatisfiable []Item `json:"unsatisfiable,omitempty"`
	// ArtifactPath is the CSV artifact written for this plan, if any.
	ArtifactPath string `json:"artifact_path,omitempty"`
}

// VendorOf reports whether the given vendor is activated in the plan.
func (p *Plan) VendorOf(vendor string) bool {
	for _, v := range p.Vendors {
		if v == vendor {
			return true
		}
	}
	return false
}
