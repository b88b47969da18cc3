package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"tradebot/internal/auth"
)

// DefaultTimeout bounds each HTTP call
const DefaultTimeout = 10 * time.Second

// Client represents a REST client for the Binance Futures API. It is a
// fire-once client: nothing is retried, every failure surfaces
// immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *auth.Signer
}

// Option configures the client
type Option func(*Client)

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new REST client
func NewClient(baseURL string, signer *auth.Signer, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		signer: signer,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the HTTP timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Ping tests connectivity to the exchange
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/fapi/v1/ping", nil, false)
	return ErrorWithContext(err, "Ping")
}

// GetExchangeInfo fetches trading rules and symbol information. Symbol
// may be empty to fetch all symbols.
func (c *Client) GetExchangeInfo(ctx context.Context, symbol string) (*ExchangeInfo, error) {
	params := NewParams()
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	body, err := c.do(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", params, false)
	if err != nil {
		return nil, ErrorWithContext(err, "GetExchangeInfo")
	}

	var exchangeInfo ExchangeInfo
	if err := json.Unmarshal(body, &exchangeInfo); err != nil {
		return nil, ErrorWithContext(err, "GetExchangeInfo")
	}

	return &exchangeInfo, nil
}

// GetAccountInfo gets current account information
func (c *Client) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/fapi/v2/account", nil, true)
	if err != nil {
		return nil, ErrorWithContext(err, "GetAccountInfo")
	}

	var account AccountInfo
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, ErrorWithContext(err, "GetAccountInfo")
	}

	return &account, nil
}

// PlaceOrder places a new order
func (c *Client) PlaceOrder(ctx context.Context, req *NewOrder) (*OrderResult, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Side == "" {
		return nil, fmt.Errorf("side is required")
	}
	if req.Type == "" {
		return nil, fmt.Errorf("type is required")
	}
	if req.Quantity.IsZero() {
		return nil, fmt.Errorf("quantity is required")
	}
	if req.Type == "LIMIT" && req.Price.IsZero() {
		return nil, fmt.Errorf("price is required for LIMIT orders")
	}

	params := NewParams()
	params.Set("symbol", req.Symbol)
	params.Set("side", req.Side)
	params.Set("type", req.Type)
	params.Set("quantity", req.Quantity.String())

	if req.Type == "LIMIT" {
		params.Set("price", req.Price.String())
		timeInForce := req.TimeInForce
		if timeInForce == "" {
			timeInForce = "GTC"
		}
		params.Set("timeInForce", timeInForce)
	}

	clientOrderID := req.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.New().String()
	}
	params.Set("newClientOrderId", clientOrderID)

	body, err := c.do(ctx, http.MethodPost, "/fapi/v1/order", params, true)
	if err != nil {
		return nil, ErrorWithContext(err, "PlaceOrder")
	}

	var result OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ErrorWithContext(err, "PlaceOrder")
	}

	return &result, nil
}

// GetOrder queries the status of an existing order
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64) (*OrderResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if orderID <= 0 {
		return nil, fmt.Errorf("orderID is required")
	}

	params := NewParams()
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.do(ctx, http.MethodGet, "/fapi/v1/order", params, true)
	if err != nil {
		return nil, ErrorWithContext(err, "GetOrder")
	}

	var result OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ErrorWithContext(err, "GetOrder")
	}

	return &result, nil
}

// CancelOrder cancels an active order
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*OrderResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if orderID <= 0 {
		return nil, fmt.Errorf("orderID is required")
	}

	params := NewParams()
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.do(ctx, http.MethodDelete, "/fapi/v1/order", params, true)
	if err != nil {
		return nil, ErrorWithContext(err, "CancelOrder")
	}

	var result OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ErrorWithContext(err, "CancelOrder")
	}

	return &result, nil
}

// do executes a single HTTP call. For signed requests the timestamp is
// appended before signing and the signature is always appended last, so
// the signed payload covers the timestamp and never the signature
// itself. A fresh timestamp and signature are computed per call.
func (c *Client) do(ctx context.Context, method, path string, params *Params, signed bool) ([]byte, error) {
	if params == nil {
		params = NewParams()
	}

	if signed {
		if c.signer == nil {
			return nil, fmt.Errorf("signer required for signed request")
		}
		if params.Get("recvWindow") == "" {
			params.Set("recvWindow", strconv.FormatInt(c.signer.RecvWindow(), 10))
		}
		params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
		params.Set("signature", c.signer.Sign(params.Encode()))
	}

	// Binance expects all parameters in the query string, even for
	// POST and DELETE
	requestURL := c.baseURL + path
	if params.Len() > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.signer != nil {
		req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}

	return nil, parseAPIError(resp.StatusCode, respBody)
}
