package catalog

// Product is the normalized record shape the rest of the system consumes.
// PriceMinor is the unit price converted to integer minor units.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PriceMinor  int64   `json:"price"`
	Image       string  `json:"image"`
	RatingRate  float64 `json:"rating_rate"`
	RatingCount int     `json:"rating_count"`
}
