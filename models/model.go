// Package models holds the request and response shapes of the batched
// recommendations endpoint.
//
// Builders produce requests that already satisfy the API's field rules; the
// client still calls Validate on every request before anything is sent.
package models

import "fmt"

// Model names a recommendation model.
type Model string

const (
	BoughtTogether  Model = "bought-together"
	RelatedProducts Model = "related-products"
	TrendingItems   Model = "trending-items"
	TrendingFacets  Model = "trending-facets"
	LookingSimilar  Model = "looking-similar"
)

// Models lists every known model.
var Models = []Model{BoughtTogether, RelatedProducts, TrendingItems, TrendingFacets, LookingSimilar}

// RequiresObjectID reports whether requests for m must name a seed object.
func (m Model) RequiresObjectID() bool {
	switch m {
	case BoughtTogether, RelatedProducts, LookingSimilar:
		return true
	default:
		return false
	}
}

// ParseModel accepts a model name as the API spells it.
func ParseModel(s string) (Model, error) {
	for _, m := range Models {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown model %q", s)
}
