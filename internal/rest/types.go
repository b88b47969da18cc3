package rest

import (
	"github.com/shopspring/decimal"
)

// OrderStatus is the exchange-reported lifecycle state of an order.
// Unknown statuses pass through verbatim.
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusRejected        OrderStatus = "REJECTED"
)

// NewOrder represents a request to place an order. Price is the zero
// decimal for MARKET orders.
type NewOrder struct {
	Symbol        string
	Side          string // BUY or SELL
	Type          string // MARKET or LIMIT
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	TimeInForce   string // GTC, IOC, FOK; defaults to GTC for LIMIT
	ClientOrderID string // generated when empty
}

// OrderResult is the normalized order response. Constructed once per
// API call; fields missing from the response stay at their zero values.
type OrderResult struct {
	OrderID       int64           `json:"orderId"`
	ClientOrderID string          `json:"clientOrderId"`
	Status        OrderStatus     `json:"status"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	Price         decimal.Decimal `json:"price"`
	AvgPrice      decimal.Decimal `json:"avgPrice"`
	UpdateTime    int64           `json:"updateTime"`
}

// AccountInfo holds futures account balances
type AccountInfo struct {
	TotalWalletBalance    decimal.Decimal `json:"totalWalletBalance"`
	TotalUnrealizedProfit decimal.Decimal `json:"totalUnrealizedProfit"`
	AvailableBalance      decimal.Decimal `json:"availableBalance"`
	Assets                []AccountAsset  `json:"assets"`
}

// AccountAsset is a single asset balance within the account
type AccountAsset struct {
	Asset            string          `json:"asset"`
	WalletBalance    decimal.Decimal `json:"walletBalance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
}

// ExchangeInfo holds trading rules and symbol information
type ExchangeInfo struct {
	Timezone   string       `json:"timezone"`
	ServerTime int64        `json:"serverTime"`
	Symbols    []SymbolInfo `json:"symbols"`
}

// SymbolInfo describes a tradable symbol
type SymbolInfo struct {
	Symbol            string   `json:"symbol"`
	Status            string   `json:"status"`
	BaseAsset         string   `json:"baseAsset"`
	QuoteAsset        string   `json:"quoteAsset"`
	PricePrecision    int      `json:"pricePrecision"`
	QuantityPrecision int      `json:"quantityPrecision"`
	OrderTypes        []string `json:"orderTypes"`
}
