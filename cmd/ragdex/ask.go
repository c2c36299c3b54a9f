package main

import (
	"fmt"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/retrieve"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	engine := &retrieve.Engine{
		Embedder: deps.Embedder,
		Store:    deps.Store,
		Logger:   deps.Logger,
	}

	results, err := engine.SearchByModule(deps.Ctx, c.Question, c.Module, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, c.Question, results)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	if len(results) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		seen := make(map[string]bool)
		for _, r := range results {
			if !seen[r.URL] {
				seen[r.URL] = true
				fmt.Fprintf(deps.Stdout, "  %s\n", r.URL)
			}
		}
	}
	return nil
}
