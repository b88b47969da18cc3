package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// DefaultRecvWindow is the default request validity window in milliseconds.
const DefaultRecvWindow int64 = 5000

// Signer handles HMAC-SHA256 signing for Binance API requests
type Signer struct {
	apiKey     string
	apiSecret  string
	recvWindow int64
}

// NewSigner creates a new signer with the default recv window
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: DefaultRecvWindow,
	}
}

// NewSignerWithRecvWindow creates a new signer with a custom recv window
func NewSignerWithRecvWindow(apiKey, apiSecret string, recvWindow int64) *Signer {
	return &Signer{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: recvWindow,
	}
}

// APIKey returns the API key
func (s *Signer) APIKey() string {
	return s.apiKey
}

// RecvWindow returns the recv window value
func (s *Signer) RecvWindow() int64 {
	return s.recvWindow
}

// Sign generates the hex-encoded HMAC-SHA256 signature over the
// serialized query string. The payload must already include the
// timestamp parameter and must not include the signature itself; the
// exchange verifies the signature against the literal query string it
// receives, so the caller sends exactly the bytes that were signed.
func (s *Signer) Sign(payload string) string {
	h := hmac.New(sha256.New, []byte(s.apiSecret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateSignature verifies a signature for the given payload in
// constant time.
func (s *Signer) ValidateSignature(payload, signature string) bool {
	expected := s.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
