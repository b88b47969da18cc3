package orders

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"tradebot/internal/rest"
	"tradebot/internal/validate"
)

// Manager composes validation and transport into the order pipelines.
// Each call is stateless and independent; two Managers share no mutable
// state.
type Manager struct {
	client    *rest.Client
	validator *validate.Validator
	logger    zerolog.Logger
	out       io.Writer
}

// Option configures the manager
type Option func(*Manager)

// WithOutput redirects the human-readable summaries (default: stdout)
func WithOutput(out io.Writer) Option {
	return func(m *Manager) {
		m.out = out
	}
}

// NewManager creates a new order manager
func NewManager(client *rest.Client, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		client:    client,
		validator: validate.New(logger),
		logger:    logger,
		out:       os.Stdout,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// PlaceOrder validates the raw parameters and places the order.
// Validation and transport errors propagate unchanged; the manager only
// adds presentation.
func (m *Manager) PlaceOrder(ctx context.Context, symbol, side, orderType, quantity, price string) (*rest.OrderResult, error) {
	req, err := m.validator.ValidateOrderParams(symbol, side, orderType, quantity, price)
	if err != nil {
		m.logger.Error().Err(err).Msg("Parameter validation failed")
		return nil, err
	}

	m.printOrderSummary(req)

	m.logger.Info().
		Str("symbol", req.Symbol).
		Str("side", string(req.Side)).
		Str("type", string(req.Type)).
		Str("quantity", req.Quantity.String()).
		Msg("Placing order")

	result, err := m.client.PlaceOrder(ctx, &rest.NewOrder{
		Symbol:   req.Symbol,
		Side:     string(req.Side),
		Type:     string(req.Type),
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		m.logger.Error().Err(err).Msg("Order placement failed")
		return nil, err
	}

	m.printOrderResult(result)

	m.logger.Info().
		Int64("order_id", result.OrderID).
		Str("status", string(result.Status)).
		Str("executed_qty", result.ExecutedQty.String()).
		Msg("Order response received")

	return result, nil
}

// GetOrderStatus queries an order and renders its current state
func (m *Manager) GetOrderStatus(ctx context.Context, symbol string, orderID int64) (*rest.OrderResult, error) {
	m.logger.Info().Int64("order_id", orderID).Msg("Querying order status")

	result, err := m.client.GetOrder(ctx, symbol, orderID)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to get order status")
		return nil, err
	}

	m.printOrderResult(result)
	return result, nil
}

// CancelOrder cancels an order, printing a distinct success or failure
// line in addition to the response summary
func (m *Manager) CancelOrder(ctx context.Context, symbol string, orderID int64) (*rest.OrderResult, error) {
	m.logger.Info().Int64("order_id", orderID).Msg("Cancelling order")

	result, err := m.client.CancelOrder(ctx, symbol, orderID)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to cancel order")
		fmt.Fprintf(m.out, "\n✗ Failed to cancel order: %v\n\n", err)
		return nil, err
	}

	fmt.Fprintf(m.out, "\n✓ Order %d canceled successfully\n\n", orderID)
	m.printOrderResult(result)
	return result, nil
}

const rule = "============================================================"

func (m *Manager) printOrderSummary(req *validate.OrderRequest) {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "ORDER REQUEST SUMMARY")
	fmt.Fprintln(m.out, rule)
	fmt.Fprintf(m.out, "Symbol:      %s\n", req.Symbol)
	fmt.Fprintf(m.out, "Side:        %s\n", req.Side)
	fmt.Fprintf(m.out, "Type:        %s\n", req.Type)
	fmt.Fprintf(m.out, "Quantity:    %s\n", req.Quantity)
	if req.HasPrice() {
		fmt.Fprintf(m.out, "Price:       %s\n", req.Price)
	} else {
		fmt.Fprintln(m.out, "Price:       MARKET PRICE")
	}
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out)
}

func (m *Manager) printOrderResult(result *rest.OrderResult) {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "ORDER RESPONSE")
	fmt.Fprintln(m.out, rule)
	fmt.Fprintf(m.out, "Order ID:          %s\n", orDefault(result.OrderID))
	fmt.Fprintf(m.out, "Client Order ID:   %s\n", orDefaultStr(result.ClientOrderID))
	fmt.Fprintf(m.out, "Status:            %s\n", orDefaultStr(string(result.Status)))
	fmt.Fprintf(m.out, "Symbol:            %s\n", orDefaultStr(result.Symbol))
	fmt.Fprintf(m.out, "Side:              %s\n", orDefaultStr(result.Side))
	fmt.Fprintf(m.out, "Type:              %s\n", orDefaultStr(result.Type))
	fmt.Fprintf(m.out, "Original Qty:      %s\n", result.OrigQty)
	fmt.Fprintf(m.out, "Executed Qty:      %s\n", result.ExecutedQty)
	fmt.Fprintf(m.out, "Price:             %s\n", result.Price)
	if result.AvgPrice.Sign() > 0 {
		fmt.Fprintf(m.out, "Average Price:     %s\n", result.AvgPrice)
	}
	fmt.Fprintf(m.out, "Update Time:       %s\n", orDefault(result.UpdateTime))
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, statusLine(result.Status))
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out)
}

// statusLine maps an order status to its user-facing marker line
func statusLine(status rest.OrderStatus) string {
	switch status {
	case rest.StatusFilled:
		return "✓ ORDER FILLED SUCCESSFULLY"
	case rest.StatusNew:
		return "✓ ORDER PLACED SUCCESSFULLY (PENDING)"
	case rest.StatusPartiallyFilled:
		return "⚠ ORDER PARTIALLY FILLED"
	case rest.StatusCanceled:
		return "✗ ORDER CANCELED"
	case rest.StatusRejected:
		return "✗ ORDER REJECTED"
	default:
		return fmt.Sprintf("ℹ ORDER STATUS: %s", status)
	}
}

func orDefault(v int64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", v)
}

func orDefaultStr(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
