package rest

import (
	"net/url"
	"strings"
)

// Params is an ordered set of request parameters. Binance validates the
// request signature against the literal query string it receives, so
// the encoding must preserve the exact order the parameters were signed
// in. url.Values sorts keys alphabetically on Encode and cannot be used
// for signed requests.
type Params struct {
	pairs []param
}

type param struct {
	key   string
	value string
}

// NewParams creates an empty parameter set
func NewParams() *Params {
	return &Params{}
}

// Set appends the parameter. If the key is already present its value is
// replaced in place, keeping the original position.
func (p *Params) Set(key, value string) {
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = value
			return
		}
	}
	p.pairs = append(p.pairs, param{key: key, value: value})
}

// Get returns the value for key, or "" if the key is not present
func (p *Params) Get(key string) string {
	for i := range p.pairs {
		if p.pairs[i].key == key {
			return p.pairs[i].value
		}
	}
	return ""
}

// Len returns the number of parameters
func (p *Params) Len() int {
	return len(p.pairs)
}

// Encode serializes the parameters as key=value pairs joined with "&"
// in insertion order, percent-escaping keys and values.
func (p *Params) Encode() string {
	var sb strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pair.value))
	}
	return sb.String()
}
