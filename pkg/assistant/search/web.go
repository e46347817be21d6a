package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ai-examcoach-be/pkg/store"
)

// The web provider exposes no ranking signal, so every hit carries this score.
const webSearchScore = 0.8

// WebProvider queries the Google Custom Search API.
type WebProvider struct {
	apiKey  string
	cx      string
	baseURL string
	client  *http.Client
}

var _ Provider = &WebProvider{}

func NewWebProvider(apiKey, cx string) *WebProvider {
	return &WebProvider{
		apiKey:  apiKey,
		cx:      cx,
		baseURL: "https://www.googleapis.com/customsearch/v1",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type customSearchItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

type customSearchResponse struct {
	Items []customSearchItem `json:"items"`
}

func (p *WebProvider) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.cx)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned status %d: %s", res.StatusCode, string(body))
	}

	var parsed customSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("web search response malformed: %w", err)
	}

	results := make([]store.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		results = append(results, store.SearchResult{
			Content: fmt.Sprintf("%s: %s", item.Title, item.Snippet),
			Source:  store.SourceWebSearch,
			Score:   webSearchScore,
			Metadata: map[string]interface{}{
				"url":   item.Link,
				"title": item.Title,
			},
		})
	}
	return results, nil
}
