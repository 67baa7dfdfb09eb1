package pricing

// TierTable maps an adult ticket price to the dependent child price.
type TierTable map[float64]float64

// Reference returns the known adult→child price pairs for the park's
// current season. Prices not listed here have no published child tier.
func Reference() TierTable {
	return TierTable{
		158: 75,
		105: 50,
		116: 65,
		126: 70,
		100: 47,
		110: 62,
		120: 66,
		95:  45,
		114: 63,
	}
}

// Lookup returns the child price for an adult price, or 0 when unmapped.
func (t TierTable) Lookup(adult float64) float64 {
	return t[adult]
}
