package query

import (
	"net/url"
	"strings"
)

// Pair is a single key/value query parameter
type Pair struct {
	Key   string
	Value string
}

// Params is an ordered query multimap. Unlike url.Values it keeps insertion
// order, which the upstream sees verbatim in the encoded query.
type Params struct {
	pairs []Pair
}

func NewParams(pairs ...Pair) *Params {
	p := &Params{pairs: make([]Pair, 0, len(pairs))}
	p.pairs = append(p.pairs, pairs...)
	return p
}

// ParseParams reads a raw query string. Keys are grouped in order of first
// appearance, so a=1&b=2&a=3 yields a=1, a=3, b=2. Malformed escapes are kept
// as raw text rather than failing the request.
func ParseParams(rawQuery string) *Params {
	p := &Params{}
	if rawQuery == "" {
		return p
	}

	var order []string
	grouped := make(map[string][]string)
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = unescape(key)
		value = unescape(value)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], value)
	}

	for _, key := range order {
		for _, value := range grouped[key] {
			p.pairs = append(p.pairs, Pair{Key: key, Value: value})
		}
	}
	return p
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

func (p *Params) Append(key, value string) {
	p.pairs = append(p.pairs, Pair{Key: key, Value: value})
}

// Set replaces the first occurrence of key and removes the rest, or appends
// when the key is absent
func (p *Params) Set(key, value string) {
	out := p.pairs[:0]
	replaced := false
	for _, pair := range p.pairs {
		if pair.Key != key {
			out = append(out, pair)
			continue
		}
		if !replaced {
			out = append(out, Pair{Key: key, Value: value})
			replaced = true
		}
	}
	p.pairs = out
	if !replaced {
		p.pairs = append(p.pairs, Pair{Key: key, Value: value})
	}
}

func (p *Params) Delete(key string) {
	out := p.pairs[:0]
	for _, pair := range p.pairs {
		if pair.Key != key {
			out = append(out, pair)
		}
	}
	p.pairs = out
}

// Has reports whether the exact key/value pair is present
func (p *Params) Has(key, value string) bool {
	for _, pair := range p.pairs {
		if pair.Key == key && pair.Value == value {
			return true
		}
	}
	return false
}

// Values returns every value for key in order
func (p *Params) Values(key string) []string {
	var values []string
	for _, pair := range p.pairs {
		if pair.Key == key {
			values = append(values, pair.Value)
		}
	}
	return values
}

// Keys returns distinct keys in order of first appearance
func (p *Params) Keys() []string {
	seen := make(map[string]struct{}, len(p.pairs))
	keys := make([]string, 0, len(p.pairs))
	for _, pair := range p.pairs {
		if _, ok := seen[pair.Key]; ok {
			continue
		}
		seen[pair.Key] = struct{}{}
		keys = append(keys, pair.Key)
	}
	return keys
}

func (p *Params) Pairs() []Pair {
	out := make([]Pair, len(p.pairs))
	copy(out, p.pairs)
	return out
}

func (p *Params) Len() int {
	return len(p.pairs)
}

// Encode renders the pairs in order using form encoding
func (p *Params) Encode() string {
	if len(p.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.Value))
	}
	return b.String()
}
