package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redbuilds/storefront/internal/cart"
)

// ShippingFeeMinor is the flat shipping fee in minor units.
const ShippingFeeMinor int64 = 15000

// DefaultCountry is pre-filled and read-only on the shipping form.
const DefaultCountry = "Argentina"

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ShippingAddress struct {
	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// Order is the immutable record of a completed checkout. Items are a
// by-value snapshot of the cart at submission time; amounts are minor units.
type Order struct {
	OrderNumber     string          `json:"order_number"`
	Customer        Customer        `json:"customer"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Payment         StoredPayment   `json:"payment"`
	Items           []cart.Line     `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Shipping        int64           `json:"shipping"`
	Total           int64           `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewOrderNumber builds an identifier unique across the orders log: a
// millisecond timestamp plus a random fragment so calls within the same
// millisecond still differ.
func NewOrderNumber() string {
	return fmt.Sprintf("RB%d%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
