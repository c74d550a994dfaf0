package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMissingResults is returned when a response body has no "results" list.
var ErrMissingResults = errors.New("response has no results")

// RecommendResponse holds one result per request of the batch, in order.
type RecommendResponse[T any] struct {
	Results []RecommendResult[T] `json:"results"`
}

func (r *RecommendResponse[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Results *[]RecommendResult[T] `json:"results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Results == nil {
		return ErrMissingResults
	}
	r.Results = *raw.Results
	return nil
}

// RecommendResult is the answer to a single request.
type RecommendResult[T any] struct {
	Hits             []Hit[T] `json:"hits"`
	Index            string   `json:"index,omitempty"`
	NbHits           int      `json:"nbHits,omitempty"`
	QueryID          string   `json:"queryID,omitempty"`
	ProcessingTimeMS int      `json:"processingTimeMS,omitempty"`

	// Set by the API when the request could not be served, e.g. a model
	// that has not been trained for the index.
	Message string `json:"message,omitempty"`
}

// Hit is one recommended record. ObjectID and Score come from the API; the
// rest of the record is decoded into Payload.
type Hit[T any] struct {
	ObjectID string
	Score    *float64
	Payload  T
}

func (h *Hit[T]) UnmarshalJSON(data []byte) error {
	var head struct {
		ObjectID *string  `json:"objectID"`
		Score    *float64 `json:"_score"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.ObjectID == nil {
		return errors.New("hit has no objectID")
	}

	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("hit %s: %w", *head.ObjectID, err)
	}

	h.ObjectID = *head.ObjectID
	h.Score = head.Score
	h.Payload = payload
	return nil
}

// MarshalJSON writes the record back flat, the way the API returned it.
func (h Hit[T]) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(h.Payload)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if len(payload) > 0 && payload[0] == '{' {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, err
		}
	}

	id, err := json.Marshal(h.ObjectID)
	if err != nil {
		return nil, err
	}
	fields["objectID"] = id
	if h.Score != nil {
		score, err := json.Marshal(*h.Score)
		if err != nil {
			return nil, err
		}
		fields["_score"] = score
	}
	return json.Marshal(fields)
}

// TrendingFacetsResponse holds one result per trending-facets request.
type TrendingFacetsResponse struct {
	Results []TrendingFacetsResult `json:"results"`
}

func (r *TrendingFacetsResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Results *[]TrendingFacetsResult `json:"results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Results == nil {
		return ErrMissingResults
	}
	r.Results = *raw.Results
	return nil
}

type TrendingFacetsResult struct {
	Index     string               `json:"index,omitempty"`
	Facet     string               `json:"facet,omitempty"`
	FacetHits []TrendingFacetValue `json:"facetHits"`
}

type TrendingFacetValue struct {
	Value       string `json:"value"`
	Count       uint64 `json:"count"`
	Highlighted string `json:"highlighted,omitempty"`
}
