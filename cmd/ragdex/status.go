package main

import (
	"fmt"

	"github.com/ragdex/ragdex"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if err := deps.RawStore.Validate(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	count, err := deps.Store.Count(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Collection %q: OK (%d points, dim %d, cosine)\n",
		deps.Collection, count, ragdex.EmbeddingDim)
	return nil
}
