package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// minSymbolLength is a heuristic for exchange pair symbols: base asset
// plus a quote asset suffix like USDT or BTC. Shorter symbols are
// rejected.
const minSymbolLength = 6

var (
	symbolPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

	// maxQuantity guards against fat-finger orders
	maxQuantity = decimal.NewFromInt(1_000_000)
)

// Validator checks and normalizes raw order parameters. Checks are
// pure; the logger is used only for debug traces and the non-fatal
// MARKET-price warning.
type Validator struct {
	logger zerolog.Logger
}

// New creates a validator
func New(logger zerolog.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateSymbol validates and upper-cases a trading symbol
func (v *Validator) ValidateSymbol(symbol string) (string, error) {
	if symbol == "" {
		return "", &ValidationError{Field: "symbol", Message: "symbol cannot be empty"}
	}

	symbol = strings.ToUpper(symbol)

	if !symbolPattern.MatchString(symbol) {
		return "", &ValidationError{Field: "symbol", Message: fmt.Sprintf("invalid symbol format: %s", symbol)}
	}
	if len(symbol) < minSymbolLength {
		return "", &ValidationError{Field: "symbol", Message: fmt.Sprintf("symbol too short: %s", symbol)}
	}

	v.logger.Debug().Str("symbol", symbol).Msg("Symbol validated")
	return symbol, nil
}

// ValidateSide validates an order side
func (v *Validator) ValidateSide(side string) (Side, error) {
	if side == "" {
		return "", &ValidationError{Field: "side", Message: "side cannot be empty"}
	}

	side = strings.ToUpper(side)

	switch Side(side) {
	case SideBuy, SideSell:
		v.logger.Debug().Str("side", side).Msg("Side validated")
		return Side(side), nil
	default:
		return "", &ValidationError{Field: "side", Message: fmt.Sprintf("invalid side: %s, must be BUY or SELL", side)}
	}
}

// ValidateOrderType validates an order type
func (v *Validator) ValidateOrderType(orderType string) (OrderType, error) {
	if orderType == "" {
		return "", &ValidationError{Field: "type", Message: "order type cannot be empty"}
	}

	orderType = strings.ToUpper(orderType)

	switch OrderType(orderType) {
	case TypeMarket, TypeLimit:
		v.logger.Debug().Str("type", orderType).Msg("Order type validated")
		return OrderType(orderType), nil
	default:
		return "", &ValidationError{Field: "type", Message: fmt.Sprintf("invalid order type: %s, must be MARKET or LIMIT", orderType)}
	}
}

// ValidateQuantity validates an order quantity. Parse failures and
// bound failures produce distinct messages.
func (v *Validator) ValidateQuantity(quantity string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "quantity", Message: fmt.Sprintf("invalid quantity format: %s", quantity)}
	}

	if qty.Sign() <= 0 {
		return decimal.Zero, &ValidationError{Field: "quantity", Message: fmt.Sprintf("quantity must be positive, got: %s", qty)}
	}
	if qty.GreaterThan(maxQuantity) {
		return decimal.Zero, &ValidationError{Field: "quantity", Message: fmt.Sprintf("quantity seems too large: %s, please verify this is correct", qty)}
	}

	v.logger.Debug().Str("quantity", qty.String()).Msg("Quantity validated")
	return qty, nil
}

// ValidatePrice validates an order price against the already-validated
// order type. MARKET orders never carry a price: any supplied value is
// discarded with a warning. LIMIT orders require a positive price.
func (v *Validator) ValidatePrice(price string, orderType OrderType) (decimal.Decimal, error) {
	if orderType == TypeMarket {
		if price != "" {
			v.logger.Warn().Str("price", price).Msg("Price provided for MARKET order will be ignored")
		}
		return decimal.Zero, nil
	}

	if price == "" {
		return decimal.Zero, &ValidationError{Field: "price", Message: "price is required for LIMIT orders"}
	}

	p, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "price", Message: fmt.Sprintf("invalid price format: %s", price)}
	}
	if p.Sign() <= 0 {
		return decimal.Zero, &ValidationError{Field: "price", Message: fmt.Sprintf("price must be positive, got: %s", p)}
	}

	v.logger.Debug().Str("price", p.String()).Msg("Price validated")
	return p, nil
}

// ValidateOrderParams runs all field checks, stopping at the first
// invalid field. Symbol, side, and order type are checked before
// quantity and price since price semantics depend on the order type.
func (v *Validator) ValidateOrderParams(symbol, side, orderType, quantity, price string) (*OrderRequest, error) {
	v.logger.Info().Msg("Validating order parameters")

	validatedSymbol, err := v.ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}
	validatedSide, err := v.ValidateSide(side)
	if err != nil {
		return nil, err
	}
	validatedType, err := v.ValidateOrderType(orderType)
	if err != nil {
		return nil, err
	}
	validatedQuantity, err := v.ValidateQuantity(quantity)
	if err != nil {
		return nil, err
	}
	validatedPrice, err := v.ValidatePrice(price, validatedType)
	if err != nil {
		return nil, err
	}

	v.logger.Info().Msg("All parameters validated successfully")

	return &OrderRequest{
		Symbol:   validatedSymbol,
		Side:     validatedSide,
		Type:     validatedType,
		Quantity: validatedQuantity,
		Price:    validatedPrice,
	}, nil
}
