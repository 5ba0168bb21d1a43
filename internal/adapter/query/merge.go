package query

import (
	"net/url"
)

// Policy selects how incoming parameters combine with the route's base query
type Policy int

const (
	// DedupAppend appends every incoming pair not already present
	DedupAppend Policy = iota
	// Override sets the defaults then lets each incoming key replace them wholesale
	Override
	// AllowList reads only the allow-listed keys, with DedupAppend semantics
	AllowList
)

func (p Policy) String() string {
	switch p {
	case Override:
		return "override"
	case AllowList:
		return "allow-list"
	default:
		return "dedup-append"
	}
}

// Rules describe a route's query rewriting
type Rules struct {
	Defaults  []Pair
	AllowList []string
	Policy    Policy
}

// Merge combines the base URL's own query with the incoming parameters. The
// base URL is not modified; callers encode the result into the outbound URL.
func (r Rules) Merge(base *url.URL, incoming *Params) *Params {
	out := ParseParams(base.RawQuery)
	if incoming == nil {
		incoming = &Params{}
	}

	switch r.Policy {
	case Override:
		for _, d := range r.Defaults {
			out.Set(d.Key, d.Value)
		}
		for _, key := range incoming.Keys() {
			out.Delete(key)
			for _, value := range incoming.Values(key) {
				out.Append(key, value)
			}
		}
	case AllowList:
		for _, key := range r.AllowList {
			for _, value := range incoming.Values(key) {
				AppendUnique(out, key, value)
			}
		}
	default:
		for _, pair := range incoming.pairs {
			AppendUnique(out, pair.Key, pair.Value)
		}
	}

	return out
}

// AppendUnique appends key=value unless that exact pair is already present
func AppendUnique(p *Params, key, value string) bool {
	if p.Has(key, value) {
		return false
	}
	p.Append(key, value)
	return true
}
