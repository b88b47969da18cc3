package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// APIError represents an error response from the Binance API: the
// request reached the exchange and was rejected.
type APIError struct {
	Code       int    `json:"code"`
	Message    string `json:"msg"`
	HTTPStatus int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error [%d]: %s", e.Code, e.Message)
}

// IsAuthError checks if this is an authentication error
func (e *APIError) IsAuthError() bool {
	authCodes := map[int]bool{
		-1022: true, // Invalid signature
		-2014: true, // API key format invalid
		-2015: true, // Invalid API key, IP, or permissions
	}
	return authCodes[e.Code]
}

// IsOrderError checks if this is an order-related error
func (e *APIError) IsOrderError() bool {
	orderCodes := map[int]bool{
		-1013: true, // Invalid quantity or price
		-2010: true, // Account has insufficient balance
		-2011: true, // Unknown order sent
		-2013: true, // Order does not exist
	}
	return orderCodes[e.Code]
}

// TransportErrorKind classifies failures where no exchange response was
// received.
type TransportErrorKind string

const (
	// TransportTimeout means the call exceeded the request timeout
	TransportTimeout TransportErrorKind = "timeout"
	// TransportConnection means the connection could not be established
	// or was lost before a response arrived
	TransportConnection TransportErrorKind = "connection"
)

// TransportError wraps a network-level failure. Callers discriminate it
// from APIError to tell "the exchange said no" apart from "the exchange
// was never reached".
type TransportError struct {
	Kind TransportErrorKind
	Err  error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a timeout
func (e *TransportError) Timeout() bool {
	return e.Kind == TransportTimeout
}

// classifyTransportError maps a network failure to a TransportError
func classifyTransportError(err error) *TransportError {
	kind := TransportConnection

	if errors.Is(err, context.DeadlineExceeded) {
		kind = TransportTimeout
	} else {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = TransportTimeout
		}
	}

	return &TransportError{Kind: kind, Err: err}
}

// parseAPIError extracts a Binance error from a non-success response
// body. If the body does not carry the expected code/msg pair, a
// generic error with the raw HTTP status is returned instead.
func parseAPIError(statusCode int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != 0 {
		apiErr.HTTPStatus = statusCode
		return &apiErr
	}

	bodyStr := strings.TrimSpace(string(body))
	if bodyStr == "" {
		bodyStr = "empty response"
	}
	return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
}

// ErrorWithContext wraps errors with operation context for better debugging
func ErrorWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", operation, err)
}
