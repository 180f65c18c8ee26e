package cache

import (
	"net/url"
)

const DefaultKeyPrefix = "cache:"

// KeyBuilder derives cache keys from a route and its query. Keys look like
// "cache:/api/products?limit=10&page=1"; the query is encoded with sorted keys.
type KeyBuilder struct {
	Prefix string
}

func NewKeyBuilder(prefix string) KeyBuilder {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return KeyBuilder{Prefix: prefix}
}

func (b KeyBuilder) Key(route string, query url.Values) string {
	if len(query) == 0 {
		return b.Prefix + route
	}
	return b.Prefix + route + "?" + query.Encode()
}

// RoutePrefix matches every key built for route, whatever the query.
func (b KeyBuilder) RoutePrefix(route string) string {
	return b.Prefix + route
}
