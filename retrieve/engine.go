// Package retrieve implements semantic search over the stored chunks:
// query embedding, filter construction, and result assembly.
package retrieve

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ragdex/ragdex"
)

// Top-k bounds. Requests outside the range are clamped, not rejected.
const (
	DefaultTopK = 5
	MinTopK     = 3
	MaxTopK     = 10
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	moduleField        = "source_metadata.module"
	modulesScanLimit   = 1000
)

// Engine answers retrieval queries against a vector store.
type Engine struct {
	Embedder ragdex.Embedder
	Store    ragdex.VectorStore
	Logger   *slog.Logger
}

// Search embeds the query as a search query, runs a filtered similarity
// search, and returns ranked results. An empty result set is a valid
// answer, not an error.
func (e *Engine) Search(ctx context.Context, query string, opts ragdex.SearchOptions) ([]ragdex.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ragdex.Errorf(ragdex.EINVALID, "query must not be empty")
	}

	topK := opts.TopK
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < MinTopK || topK > MaxTopK {
		clamped := min(max(topK, MinTopK), MaxTopK)
		e.logger().Warn("clamping top_k", "requested", topK, "using", clamped)
		topK = clamped
	}

	start := time.Now()
	vectors, err := e.Embedder.Embed(ctx, []string{query}, ragdex.InputQuery)
	if err != nil {
		return nil, ragdex.Errorf(ragdex.EUNAVAILABLE, "embedding query: %v", err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, ragdex.Errorf(ragdex.EINTERNAL, "embedder returned no vector for query")
	}

	hits, err := e.Store.Search(ctx, ragdex.SearchParams{
		Vector:   vectors[0],
		Filter:   BuildFilter(opts.Filters),
		Limit:    topK,
		MinScore: opts.MinScore,
	})
	if err != nil {
		return nil, ragdex.Errorf(ragdex.EUNAVAILABLE, "searching: %v", err)
	}

	results := make([]ragdex.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, ragdex.ResultFromScoredPoint(hit))
	}

	elapsed := time.Since(start)
	e.logger().Info("search completed", "results", len(results), "elapsed", elapsed.Round(time.Millisecond))
	if elapsed > slowQueryThreshold {
		e.logger().Warn("slow query", "elapsed", elapsed.Round(time.Millisecond))
	}
	return results, nil
}

// SearchByModule restricts the search to chunks from the given modules.
func (e *Engine) SearchByModule(ctx context.Context, query string, moduleIDs []string, topK int) ([]ragdex.RetrievalResult, error) {
	opts := ragdex.SearchOptions{TopK: topK}
	if len(moduleIDs) > 0 {
		opts.Filters = map[string]any{"modules": moduleIDs}
	}
	return e.Search(ctx, query, opts)
}

// SearchWithSelection searches for chunks related to selected text. The
// selection is the primary query; an optional context query is appended
// to sharpen it. Selection-only searches are valid.
func (e *Engine) SearchWithSelection(ctx context.Context, selection, contextQuery string, opts ragdex.SearchOptions) ([]ragdex.RetrievalResult, error) {
	query := strings.TrimSpace(selection)
	if c := strings.TrimSpace(contextQuery); c != "" {
		query = query + " " + c
	}
	return e.Search(ctx, query, opts)
}

// AvailableModules returns the distinct module IDs present in the store,
// sorted. The scan is bounded, so very large collections may report a
// subset.
func (e *Engine) AvailableModules(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	scanned := 0
	offset := ""
	for scanned < modulesScanLimit {
		points, next, err := e.Store.Scroll(ctx, min(modulesScanLimit-scanned, 100), offset)
		if err != nil {
			return nil, ragdex.Errorf(ragdex.EUNAVAILABLE, "scanning modules: %v", err)
		}
		for _, p := range points {
			if module, ok := p.Payload.SourceMetadata["module"].(string); ok && module != "" {
				seen[module] = struct{}{}
			}
		}
		scanned += len(points)
		if next == "" || len(points) == 0 {
			break
		}
		offset = next
	}

	modules := make([]string, 0, len(seen))
	for module := range seen {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules, nil
}

// BuildFilter translates the filter map into store conditions. The
// "modules" key matches the module payload field against any of the given
// IDs; other keys match their payload field exactly (scalar value) or
// any-of (string list). Returns nil when there is nothing to filter on.
func BuildFilter(filters map[string]any) *ragdex.AndFilter {
	if len(filters) == 0 {
		return nil
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conditions []ragdex.Condition
	for _, key := range keys {
		value := filters[key]
		if key == "modules" {
			ids := toStringList(value)
			if s, ok := value.(string); ok && s != "" {
				ids = []string{s}
			}
			if len(ids) > 0 {
				conditions = append(conditions, ragdex.AnyMatch{Field: moduleField, Values: ids})
			}
			continue
		}
		if list := toStringList(value); list != nil {
			conditions = append(conditions, ragdex.AnyMatch{Field: key, Values: list})
			continue
		}
		conditions = append(conditions, ragdex.ExactMatch{Field: key, Value: value})
	}
	if len(conditions) == 0 {
		return nil
	}
	return &ragdex.AndFilter{Conditions: conditions}
}

// toStringList coerces list-like filter values to []string, returning nil
// for scalars.
func toStringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
