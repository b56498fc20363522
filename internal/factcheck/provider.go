package factcheck

import (
	"context"
	"net/url"

	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/source"
)

// HTTPResolver queries a claim-review API. Lookup failures degrade to "no
// match": a missing verdict never fails the pipeline.
type HTTPResolver struct {
	baseURL string
	apiKey  string
	fetcher *source.Fetcher
}

// NewHTTPResolver creates a resolver against a claim-review endpoint.
func NewHTTPResolver(baseURL, apiKey string, fetcher *source.Fetcher) *HTTPResolver {
	return &HTTPResolver{baseURL: baseURL, apiKey: apiKey, fetcher: fetcher}
}

type claimReviewResponse struct {
	Claims []struct {
		Rating     string `json:"rating"`
		Source     string `json:"source"`
		URL        string `json:"url"`
		Summary    string `json:"summary"`
		ReviewDate string `json:"reviewDate"`
		Topic      string `json:"topic"`
	} `json:"claims"`
}

// Check queries the provider and returns the first review, or nil when the
// provider has nothing, the request fails, or ctx is cancelled.
func (r *HTTPResolver) Check(ctx context.Context, text string) *model.FactCheck {
	query := normalize(text)
	if query == "" {
		return nil
	}

	reqURL := r.baseURL + "/claims?query=" + url.QueryEscape(query)
	if r.apiKey != "" {
		reqURL += "&key=" + url.QueryEscape(r.apiKey)
	}

	var resp claimReviewResponse
	if err := r.fetcher.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil
	}
	if len(resp.Claims) == 0 {
		return nil
	}

	c := resp.Claims[0]
	return &model.FactCheck{
		Rating:       model.FactCheckRating(c.Rating),
		Source:       c.Source,
		SourceURL:    c.URL,
		Summary:      c.Summary,
		CheckedDate:  c.ReviewDate,
		MatchedTopic: c.Topic,
	}
}
