// Package qdrant implements ragdex.VectorStore against the Qdrant REST
// API using net/http. No official client is used; the surface we need is
// five endpoints.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ragdex/ragdex"
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 10 * time.Second

// Store talks to a single Qdrant collection.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

var _ ragdex.VectorStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithAPIKey sets the api-key header sent on every request.
func WithAPIKey(key string) Option {
	return func(s *Store) { s.apiKey = key }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.client.Timeout = d }
}

// WithHTTPClient replaces the HTTP client entirely.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) { s.client = client }
}

// NewStore creates a Store for the collection at baseURL. Fails fast on
// missing configuration rather than on the first remote call.
func NewStore(baseURL, collection string, opts ...Option) (*Store, error) {
	if baseURL == "" {
		return nil, ragdex.Errorf(ragdex.EINVALID, "qdrant url required")
	}
	if collection == "" {
		return nil, ragdex.Errorf(ragdex.EINVALID, "collection name required")
	}
	s := &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		client:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Collection returns the collection name the store operates on.
func (s *Store) Collection() string {
	return s.collection
}

type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// Validate checks that the collection exists with the expected vector
// dimensionality and cosine distance.
func (s *Store) Validate(ctx context.Context) error {
	var info collectionInfo
	status, err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil, &info)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return ragdex.Errorf(ragdex.ENOTFOUND, "collection %q does not exist", s.collection)
	}
	if status != http.StatusOK {
		return ragdex.Errorf(ragdex.EUNAVAILABLE, "qdrant returned status %d", status)
	}
	vectors := info.Result.Config.Params.Vectors
	if vectors.Size != ragdex.EmbeddingDim || vectors.Distance != "Cosine" {
		return ragdex.Errorf(ragdex.ECONFLICT,
			"collection %q has size=%d distance=%s, want size=%d distance=Cosine",
			s.collection, vectors.Size, vectors.Distance, ragdex.EmbeddingDim)
	}
	return nil
}

// EnsureCollection creates the collection and the url keyword index if
// they do not exist. Safe to call on every run.
func (s *Store) EnsureCollection(ctx context.Context) error {
	status, err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	if status != http.StatusNotFound {
		return ragdex.Errorf(ragdex.EUNAVAILABLE, "checking collection: status %d", status)
	}

	create := map[string]any{
		"vectors": map[string]any{
			"size":     ragdex.EmbeddingDim,
			"distance": "Cosine",
		},
	}
	status, err = s.do(ctx, http.MethodPut, s.collectionPath(""), create, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return ragdex.Errorf(ragdex.EUNAVAILABLE, "creating collection: status %d", status)
	}

	index := map[string]any{
		"field_name":   "url",
		"field_schema": "keyword",
	}
	status, err = s.do(ctx, http.MethodPut, s.collectionPath("/index"), index, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return ragdex.Errorf(ragdex.EUNAVAILABLE, "creating url index: status %d", status)
	}
	return nil
}

// Upsert stores points keyed by their IDs.
func (s *Store) Upsert(ctx context.Context, points ...ragdex.Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	status, err := s.do(ctx, http.MethodPut, s.collectionPath("/points?wait=true"), body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return ragdex.Errorf(ragdex.EUNAVAILABLE, "upserting %d points: status %d", len(points), status)
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float32        `json:"score"`
		Payload ragdex.Payload `json:"payload"`
	} `json:"result"`
}

// Search runs a similarity search and returns hits sorted by descending
// score.
func (s *Store) Search(ctx context.Context, params ragdex.SearchParams) ([]ragdex.ScoredPoint, error) {
	body := map[string]any{
		"vector":       params.Vector,
		"limit":        params.Limit,
		"with_payload": true,
	}
	if params.MinScore > 0 {
		body["score_threshold"] = params.MinScore
	}
	if filter := encodeFilter(params.Filter); filter != nil {
		body["filter"] = filter
	}

	var resp searchResponse
	status, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/search"), body, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, ragdex.Errorf(ragdex.EUNAVAILABLE, "searching: status %d", status)
	}

	hits := make([]ragdex.ScoredPoint, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, ragdex.ScoredPoint{
			ID:      idString(r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return hits, nil
}

type scrollResponse struct {
	Result struct {
		Points []struct {
			ID      any            `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload ragdex.Payload `json:"payload"`
		} `json:"points"`
		NextPageOffset any `json:"next_page_offset"`
	} `json:"result"`
}

// Scroll pages through the collection's points.
func (s *Store) Scroll(ctx context.Context, limit int, offset string) ([]ragdex.Point, string, error) {
	body := map[string]any{
		"limit":        limit,
		"with_payload": true,
		"with_vector":  true,
	}
	if offset != "" {
		body["offset"] = offset
	}

	var resp scrollResponse
	status, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/scroll"), body, &resp)
	if err != nil {
		return nil, "", err
	}
	if status != http.StatusOK {
		return nil, "", ragdex.Errorf(ragdex.EUNAVAILABLE, "scrolling: status %d", status)
	}

	points := make([]ragdex.Point, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		points = append(points, ragdex.Point{
			ID:      idString(p.ID),
			Vector:  p.Vector,
			Payload: p.Payload,
		})
	}
	return points, idString(resp.Result.NextPageOffset), nil
}

type countResponse struct {
	Result struct {
		Count int `json:"count"`
	} `json:"result"`
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	body := map[string]any{"exact": true}
	var resp countResponse
	status, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/count"), body, &resp)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, ragdex.Errorf(ragdex.EUNAVAILABLE, "counting: status %d", status)
	}
	return resp.Result.Count, nil
}

func (s *Store) collectionPath(suffix string) string {
	return "/collections/" + s.collection + suffix
}

// do sends a JSON request and decodes the JSON response into out when
// non-nil. Transport errors are EUNAVAILABLE; HTTP status handling is the
// caller's job.
func (s *Store) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, ragdex.Errorf(ragdex.EINTERNAL, "encoding request: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, ragdex.Errorf(ragdex.EINTERNAL, "building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, ragdex.Errorf(ragdex.EUNAVAILABLE, "qdrant request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, ragdex.Errorf(ragdex.EINTERNAL, "decoding response: %v", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

// encodeFilter maps store conditions onto Qdrant's filter JSON.
func encodeFilter(filter *ragdex.AndFilter) map[string]any {
	if filter == nil || len(filter.Conditions) == 0 {
		return nil
	}
	must := make([]map[string]any, 0, len(filter.Conditions))
	for _, cond := range filter.Conditions {
		switch c := cond.(type) {
		case ragdex.ExactMatch:
			must = append(must, map[string]any{
				"key":   c.Field,
				"match": map[string]any{"value": c.Value},
			})
		case ragdex.AnyMatch:
			must = append(must, map[string]any{
				"key":   c.Field,
				"match": map[string]any{"any": c.Values},
			})
		}
	}
	return map[string]any{"must": must}
}

// idString renders a point ID that may arrive as a string or a number.
func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
