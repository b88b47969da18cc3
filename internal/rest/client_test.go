package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot/internal/auth"
)

func TestNewClient(t *testing.T) {
	t.Run("creates client with default configuration", func(t *testing.T) {
		signer := auth.NewSigner("test-key", "test-secret")
		client := NewClient("https://testnet.binancefuture.com", signer)

		assert.NotNil(t, client)
		assert.Equal(t, "https://testnet.binancefuture.com", client.BaseURL())
		assert.Equal(t, DefaultTimeout, client.Timeout())
	})

	t.Run("applies custom options", func(t *testing.T) {
		client := NewClient("https://testnet.binancefuture.com", nil,
			WithTimeout(3*time.Second),
		)

		assert.Equal(t, 3*time.Second, client.Timeout())
	})
}

func TestClient_Ping(t *testing.T) {
	t.Run("succeeds on empty 200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fapi/v1/ping", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		assert.NoError(t, client.Ping(context.Background()))
	})
}

func TestClient_PlaceOrder(t *testing.T) {
	signer := auth.NewSigner("test-key", "test-secret")

	t.Run("sends signed request with insertion-ordered query", func(t *testing.T) {
		var gotQuery string
		var gotAPIKey string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/fapi/v1/order", r.URL.Path)
			gotQuery = r.URL.RawQuery
			gotAPIKey = r.Header.Get("X-MBX-APIKEY")

			w.Write([]byte(`{
				"orderId": 12345,
				"clientOrderId": "abc-123",
				"status": "NEW",
				"symbol": "BTCUSDT",
				"side": "BUY",
				"type": "MARKET",
				"origQty": "0.001",
				"executedQty": "0",
				"price": "0",
				"avgPrice": "0.00000",
				"updateTime": 1499827319559
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, signer)
		result, err := client.PlaceOrder(context.Background(), &NewOrder{
			Symbol:   "BTCUSDT",
			Side:     "BUY",
			Type:     "MARKET",
			Quantity: decimal.RequireFromString("0.001"),
		})
		require.NoError(t, err)

		assert.Equal(t, "test-key", gotAPIKey)

		// Fixed parameters come first, in insertion order
		assert.True(t, strings.HasPrefix(gotQuery, "symbol=BTCUSDT&side=BUY&type=MARKET&quantity=0.001&newClientOrderId="),
			"unexpected query: %s", gotQuery)

		// Timestamp precedes the signature, signature is last
		idx := strings.LastIndex(gotQuery, "&signature=")
		require.Greater(t, idx, 0, "signature missing: %s", gotQuery)
		payload := gotQuery[:idx]
		signature := gotQuery[idx+len("&signature="):]
		assert.Contains(t, payload, "recvWindow=5000")
		assert.Contains(t, payload, "&timestamp=")

		// The signature covers exactly the query string that was sent
		assert.True(t, signer.ValidateSignature(payload, signature))

		assert.Equal(t, int64(12345), result.OrderID)
		assert.Equal(t, StatusNew, result.Status)
		assert.True(t, result.OrigQty.Equal(decimal.RequireFromString("0.001")))
	})

	t.Run("limit orders carry price and default GTC", func(t *testing.T) {
		var gotQuery string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Write([]byte(`{"orderId": 1, "status": "NEW"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, signer)
		_, err := client.PlaceOrder(context.Background(), &NewOrder{
			Symbol:   "ETHUSDT",
			Side:     "SELL",
			Type:     "LIMIT",
			Quantity: decimal.RequireFromString("0.01"),
			Price:    decimal.NewFromInt(5000),
		})
		require.NoError(t, err)

		assert.Contains(t, gotQuery, "price=5000")
		assert.Contains(t, gotQuery, "timeInForce=GTC")
	})

	t.Run("maps exchange rejection to APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1013,"msg":"Invalid quantity"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, signer)
		_, err := client.PlaceOrder(context.Background(), &NewOrder{
			Symbol:   "BTCUSDT",
			Side:     "BUY",
			Type:     "MARKET",
			Quantity: decimal.RequireFromString("0.001"),
		})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, -1013, apiErr.Code)
		assert.Equal(t, "Invalid quantity", apiErr.Message)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	})

	t.Run("rejects missing required fields before sending", func(t *testing.T) {
		client := NewClient("http://localhost:1", signer)

		_, err := client.PlaceOrder(context.Background(), &NewOrder{})
		assert.ErrorContains(t, err, "symbol is required")

		_, err = client.PlaceOrder(context.Background(), &NewOrder{
			Symbol:   "BTCUSDT",
			Side:     "BUY",
			Type:     "LIMIT",
			Quantity: decimal.NewFromInt(1),
		})
		assert.ErrorContains(t, err, "price is required for LIMIT orders")
	})
}

func TestClient_TransportFailures(t *testing.T) {
	signer := auth.NewSigner("test-key", "test-secret")

	t.Run("timeout is classified as timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(server.URL, signer, WithTimeout(20*time.Millisecond))
		err := client.Ping(context.Background())

		var transportErr *TransportError
		require.True(t, errors.As(err, &transportErr), "got %T: %v", err, err)
		assert.Equal(t, TransportTimeout, transportErr.Kind)
	})

	t.Run("refused connection is classified as connection failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := NewClient(url, signer)
		err := client.Ping(context.Background())

		var transportErr *TransportError
		require.True(t, errors.As(err, &transportErr), "got %T: %v", err, err)
		assert.Equal(t, TransportConnection, transportErr.Kind)
	})
}

func TestClient_GetOrder(t *testing.T) {
	signer := auth.NewSigner("test-key", "test-secret")

	t.Run("queries by symbol and order id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/fapi/v1/order", r.URL.Path)
			assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
			assert.Equal(t, "12345", r.URL.Query().Get("orderId"))

			w.Write([]byte(`{"orderId": 12345, "status": "FILLED", "executedQty": "0.001", "avgPrice": "96000.5"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, signer)
		result, err := client.GetOrder(context.Background(), "BTCUSDT", 12345)
		require.NoError(t, err)

		assert.Equal(t, StatusFilled, result.Status)
		assert.True(t, result.AvgPrice.Equal(decimal.RequireFromString("96000.5")))
	})

	t.Run("unknown status passes through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"orderId": 1, "status": "EXPIRED"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, signer)
		result, err := client.GetOrder(context.Background(), "BTCUSDT", 1)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus("EXPIRED"), result.Status)
	})

	t.Run("validates arguments", func(t *testing.T) {
		client := NewClient("http://localhost:1", signer)

		_, err := client.GetOrder(context.Background(), "", 1)
		assert.ErrorContains(t, err, "symbol is required")

		_, err = client.GetOrder(context.Background(), "BTCUSDT", 0)
		assert.ErrorContains(t, err, "orderID is required")
	})
}

func TestClient_CancelOrder(t *testing.T) {
	signer := auth.NewSigner("test-key", "test-secret")

	t.Run("sends DELETE and parses response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/fapi/v1/order", r.URL.Path)

			w.Write([]byte(`{"orderId": 12345, "status": "CANCELED", "symbol": "BTCUSDT"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, signer)
		result, err := client.CancelOrder(context.Background(), "BTCUSDT", 12345)
		require.NoError(t, err)
		assert.Equal(t, StatusCanceled, result.Status)
	})
}

func TestClient_GetAccountInfo(t *testing.T) {
	t.Run("parses balances", func(t *testing.T) {
		signer := auth.NewSigner("test-key", "test-secret")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fapi/v2/account", r.URL.Path)
			assert.NotEmpty(t, r.URL.Query().Get("signature"))

			w.Write([]byte(`{
				"totalWalletBalance": "15000.50",
				"availableBalance": "12000.25",
				"assets": [{"asset": "USDT", "walletBalance": "15000.50"}]
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, signer)
		account, err := client.GetAccountInfo(context.Background())
		require.NoError(t, err)

		assert.True(t, account.TotalWalletBalance.Equal(decimal.RequireFromString("15000.50")))
		require.Len(t, account.Assets, 1)
		assert.Equal(t, "USDT", account.Assets[0].Asset)
	})

	t.Run("requires signer", func(t *testing.T) {
		client := NewClient("http://localhost:1", nil)
		_, err := client.GetAccountInfo(context.Background())
		assert.ErrorContains(t, err, "signer required")
	})
}

func TestClient_GetExchangeInfo(t *testing.T) {
	t.Run("unsigned request with optional symbol filter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fapi/v1/exchangeInfo", r.URL.Path)
			assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
			assert.Empty(t, r.URL.Query().Get("signature"))

			w.Write([]byte(`{
				"timezone": "UTC",
				"serverTime": 1499827319559,
				"symbols": [{"symbol": "BTCUSDT", "status": "TRADING", "baseAsset": "BTC", "quoteAsset": "USDT"}]
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		info, err := client.GetExchangeInfo(context.Background(), "BTCUSDT")
		require.NoError(t, err)

		require.Len(t, info.Symbols, 1)
		assert.Equal(t, "BTCUSDT", info.Symbols[0].Symbol)
	})
}
