// Package model defines the core domain entities for the pokebay service.
package model

import "sort"

// Item is a single card the run must acquire. Items are resolved by the
// catalog provider and are immutable for the lifetime of a run.
type Item struct {
	// ID is the canonical catalog identifier.
	ID string `json:"id"`
	// Name is the display name, e.g. "Pikachu".
	Name string `json:"name"`
	// SetName is the collection the card belongs to.
	SetName string `json:"set_name"`
	// Number is the formatted collector number, e.g. "025/102".
	Number string `json:"number"`
}

// Offer is a purchasable listing for exactly one item from exactly one
// vendor. Offers are immutable once fetched.
type Offer struct {
	// ID is the marketplace listing identifier.
	ID string `json:"id"`
	// ItemID references the item this offer fulfills.
	ItemID string `json:"item_id"`
	// Vendor is the seller identifier the offer belongs to.
	Vendor string `json:"vendor"`
	// Price is the listing price, non-negative.
	Price float64 `json:"price"`
	// ShippingCost is the vendor-declared shipping for this listing, non-negative.
	ShippingCost float64 `json:"shipping_cost"`
	// Link is the listing URL for display and export.
	Link string `json:"link"`
}

// ItemOffers pairs an item with its candidate offers. An empty offer
// slice marks the item as unsatisfiable for this run.
type ItemOffers struct {
	Item   Item    `json:"item"`
	Offers []Offer `json:"offers"`
}

// Satisfiable reports whether the item has at least one candidate offer.
func (io ItemOffers) Satisfiable() bool {
	return len(io.Offers) > 0
}

// Vendors returns the distinct vendor identifiers across all offers,
// sorted lexicographically.
func Vendors(items []ItemOffers) []string {
	seen := make(map[string]struct{})
	for _, it := range items {
		for _, o := range it.Offers {
			seen[o.Vendor] = struct{}{}
		}
	}
	vendors := make([]string, 0, len(seen))
	for v := range seen {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)
	return vendors
}

// VendorShipping returns the per-vendor consolidated shipping charge:
// the maximum of the per-offer shipping costs among each vendor's offers.
func VendorShipping(items []ItemOffers) map[string]float64 {
	charges := make(map[string]float64)
	for _, it := range items {
		for _, o := range it.Offers {
			if o.ShippingCost > charges[o.Vendor] {
				charges[o.Vendor] = o.ShippingCost
			}
		}
	}
	return charges
}
