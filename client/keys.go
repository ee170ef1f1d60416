package client

import "strings"

// QueryKey identifies a cached query. Keys form a hierarchy: a key matches
// every key it is a prefix of.
type QueryKey []string

func (k QueryKey) String() string {
	return strings.Join(k, "/")
}

// HasPrefix reports whether p is a prefix of k, element by element.
func (k QueryKey) HasPrefix(p QueryKey) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}

	return true
}

// DealKeys builds the query keys of the deal queries.
var DealKeys = dealKeys{}

type dealKeys struct{}

func (dealKeys) All() QueryKey { return QueryKey{"deals"} }

func (k dealKeys) Lists() QueryKey { return append(k.All(), "list") }

func (k dealKeys) Detail(id string) QueryKey { return append(k.All(), "detail", id) }

func (k dealKeys) Notes(dealID string) QueryKey { return append(k.All(), "notes", dealID) }
