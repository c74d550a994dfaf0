package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"algolia-recommend/dispatch"
	"algolia-recommend/models"
)

// badRequest is how requests that fail local checks are reported, so
// callers handle them like the API's own 400s.
func badRequest(msg string) *dispatch.APIError {
	return &dispatch.APIError{StatusCode: http.StatusBadRequest, Message: msg}
}

func validationFailure(i int, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return badRequest(fmt.Sprintf("requests[%d]: %s", i, verr.Error()))
	}
	return err
}

// GetRecommendations asks each of ms for recommendations on indexName,
// seeded with the client's default object where the model needs one.
// Trending facets have their own shape; use GetTrendingFacets.
func GetRecommendations[T any](ctx context.Context, c *Client, indexName string, ms ...models.Model) (*models.RecommendResponse[T], error) {
	objectID := c.DefaultObjectID()

	requests := make([]models.RecommendRequest, 0, len(ms))
	for _, m := range ms {
		req := models.RecommendRequest{IndexName: indexName, Model: m}
		switch {
		case m == models.TrendingFacets:
			return nil, badRequest("trending-facets must be requested via GetTrendingFacets")
		case m.RequiresObjectID():
			if objectID == "" {
				return nil, badRequest("default objectID not set; use WithDefaultObjectID or SetDefaultObjectID")
			}
			req.ObjectID = objectID
		}
		requests = append(requests, req)
	}

	return Recommend[T](ctx, c, requests...)
}

// Recommend sends an explicit batch. Every request is validated before any
// host is contacted.
func Recommend[T any](ctx context.Context, c *Client, requests ...models.RecommendRequest) (*models.RecommendResponse[T], error) {
	if len(requests) == 0 {
		return nil, badRequest("at least one request is required")
	}
	for i, r := range requests {
		if err := r.Validate(); err != nil {
			return nil, validationFailure(i, err)
		}
	}

	resp, err := dispatch.Send[models.RecommendResponse[T]](ctx, c.dispatcher, RecommendPath,
		models.Batch[models.RecommendRequest]{Requests: requests})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTrendingFacets asks for the trending values of facets. Every request
// must use the trending-facets model.
func (c *Client) GetTrendingFacets(ctx context.Context, requests ...models.TrendingFacetsRequest) (*models.TrendingFacetsResponse, error) {
	if len(requests) == 0 {
		return nil, badRequest("at least one request is required")
	}
	for i, r := range requests {
		if r.Model != models.TrendingFacets {
			return nil, badRequest("all requests must use model=trending-facets")
		}
		if err := r.Validate(); err != nil {
			return nil, validationFailure(i, err)
		}
	}

	resp, err := dispatch.Send[models.TrendingFacetsResponse](ctx, c.dispatcher, RecommendPath,
		models.Batch[models.TrendingFacetsRequest]{Requests: requests})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
