package main

import (
	"fmt"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/fs"
)

// Run executes the restore command.
func (c *RestoreCmd) Run(deps *Dependencies) error {
	count, err := fs.RestoreCollection(deps.Ctx, deps.Store, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Restored %d points from %s\n", count, c.Path)
	return nil
}
