package models

// DefaultThreshold is the minimum score used by the builders.
const DefaultThreshold = 0

// RecommendRequest asks one model for recommendations. Trending facets have
// their own request type.
type RecommendRequest struct {
	IndexName string `json:"indexName" validate:"required"`
	Model     Model  `json:"model" validate:"required,oneof=bought-together related-products trending-items looking-similar"`

	// Required for bought-together, related-products and looking-similar.
	ObjectID string `json:"objectID,omitempty" validate:"required_unless=Model trending-items"`

	Threshold          int  `json:"threshold" validate:"min=0,max=100"`
	MaxRecommendations *int `json:"maxRecommendations,omitempty" validate:"omitempty,min=1,max=1000"`

	// Trending items only: restrict to one facet value.
	FacetName  string `json:"facetName,omitempty" validate:"required_with=FacetValue"`
	FacetValue string `json:"facetValue,omitempty" validate:"required_with=FacetName"`

	// Passed through to the search engine untouched.
	QueryParameters    map[string]any `json:"queryParameters,omitempty"`
	FallbackParameters map[string]any `json:"fallbackParameters,omitempty"`
}

func newRequest(indexName string, model Model, objectID string) RecommendRequest {
	return RecommendRequest{
		IndexName: indexName,
		Model:     model,
		ObjectID:  objectID,
		Threshold: DefaultThreshold,
	}
}

// NewBoughtTogether builds a frequently-bought-together request for objectID.
func NewBoughtTogether(indexName, objectID string) RecommendRequest {
	return newRequest(indexName, BoughtTogether, objectID)
}

// NewRelatedProducts builds a related-products request for objectID.
func NewRelatedProducts(indexName, objectID string) RecommendRequest {
	return newRequest(indexName, RelatedProducts, objectID)
}

// NewTrendingItems builds a trending-items request.
func NewTrendingItems(indexName string) RecommendRequest {
	return newRequest(indexName, TrendingItems, "")
}

// NewLookingSimilar builds a visually-similar request for objectID.
func NewLookingSimilar(indexName, objectID string) RecommendRequest {
	return newRequest(indexName, LookingSimilar, objectID)
}

// WithThreshold returns a copy with the minimum score set.
func (r RecommendRequest) WithThreshold(threshold int) RecommendRequest {
	r.Threshold = threshold
	return r
}

// WithMaxRecommendations returns a copy capped at n results.
func (r RecommendRequest) WithMaxRecommendations(n int) RecommendRequest {
	r.MaxRecommendations = &n
	return r
}

// WithFacet returns a copy restricted to items whose facetName is facetValue.
func (r RecommendRequest) WithFacet(facetName, facetValue string) RecommendRequest {
	r.FacetName = facetName
	r.FacetValue = facetValue
	return r
}

// WithQueryParameters returns a copy carrying search parameters.
func (r RecommendRequest) WithQueryParameters(params map[string]any) RecommendRequest {
	r.QueryParameters = params
	return r
}

// WithFallbackParameters returns a copy carrying the parameters used when
// the model has too few results.
func (r RecommendRequest) WithFallbackParameters(params map[string]any) RecommendRequest {
	r.FallbackParameters = params
	return r
}

// TrendingFacetsRequest asks for the trending values of one facet.
type TrendingFacetsRequest struct {
	Model              Model          `json:"model" validate:"eq=trending-facets"`
	IndexName          string         `json:"indexName" validate:"required"`
	FacetName          string         `json:"facetName" validate:"required"`
	Threshold          int            `json:"threshold" validate:"min=0,max=100"`
	MaxRecommendations *int           `json:"maxRecommendations,omitempty" validate:"omitempty,min=1,max=1000"`
	QueryParameters    map[string]any `json:"queryParameters,omitempty"`
}

// NewTrendingFacets builds a trending-facets request for facetName.
func NewTrendingFacets(indexName, facetName string) TrendingFacetsRequest {
	return TrendingFacetsRequest{
		Model:     TrendingFacets,
		IndexName: indexName,
		FacetName: facetName,
		Threshold: DefaultThreshold,
	}
}

// WithThreshold returns a copy with the minimum score set.
func (r TrendingFacetsRequest) WithThreshold(threshold int) TrendingFacetsRequest {
	r.Threshold = threshold
	return r
}

// WithMaxRecommendations returns a copy capped at n facet values.
func (r TrendingFacetsRequest) WithMaxRecommendations(n int) TrendingFacetsRequest {
	r.MaxRecommendations = &n
	return r
}

// Batch is the body of the batched endpoint.
type Batch[R any] struct {
	Requests []R `json:"requests"`
}
