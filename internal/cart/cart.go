package cart

// Line is one product's quantity-aggregated entry in the cart. PriceMinor is
// the unit price snapshot taken when the product was first added; it does not
// move with later catalog price changes.
type Line struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PriceMinor int64  `json:"price"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
}

// Total sums price × quantity over the given lines, in minor units.
func Total(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.PriceMinor * int64(l.Quantity)
	}
	return total
}

// Count sums the quantities over the given lines.
func Count(lines []Line) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}
