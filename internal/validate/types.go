package validate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType is the execution style of an order
type OrderType string

const (
	TypeMarket OrderType = "MARKET"
	TypeLimit  OrderType = "LIMIT"
)

// OrderRequest holds validated, normalized order parameters. Price is
// the zero decimal for MARKET orders; for LIMIT orders it is always
// positive.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Type     OrderType
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// HasPrice reports whether the request carries a price
func (r *OrderRequest) HasPrice() bool {
	return !r.Price.IsZero()
}

// ValidationError reports which field failed validation and why. It
// carries no partial state.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
