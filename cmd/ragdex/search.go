package main

import (
	"fmt"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/retrieve"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	engine := &retrieve.Engine{
		Embedder: deps.Embedder,
		Store:    deps.Store,
		Logger:   deps.Logger,
	}

	filters := make(map[string]any)
	if len(c.Module) > 0 {
		filters["modules"] = c.Module
	}
	for key, value := range c.Filter {
		filters[key] = value
	}

	results, err := engine.Search(deps.Ctx, c.Query, ragdex.SearchOptions{
		TopK:     c.TopK,
		Filters:  filters,
		MinScore: c.MinScore,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	printResults(deps, results)
	return nil
}

func printResults(deps *Dependencies, results []ragdex.RetrievalResult) {
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. [%.3f] %s\n", i+1, r.RelevanceScore, r.Title)
		fmt.Fprintf(deps.Stdout, "   %s (chunk %d/%d)\n", r.URL, r.ChunkIndex+1, r.TotalChunks)
		fmt.Fprintf(deps.Stdout, "   %s\n", snippet(r.Content, 200))
	}
}

// snippet truncates text to at most n runes with an ellipsis.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
