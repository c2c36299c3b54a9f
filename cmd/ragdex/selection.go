package main

import (
	"fmt"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/retrieve"
)

// Run executes the selection command.
func (c *SelectionCmd) Run(deps *Dependencies) error {
	engine := &retrieve.Engine{
		Embedder: deps.Embedder,
		Store:    deps.Store,
		Logger:   deps.Logger,
	}

	results, err := engine.SearchWithSelection(deps.Ctx, c.Selection, c.Context, ragdex.SearchOptions{
		TopK: c.TopK,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	printResults(deps, results)
	return nil
}
