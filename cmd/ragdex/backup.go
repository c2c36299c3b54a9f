package main

import (
	"fmt"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/fs"
)

// Run executes the backup command.
func (c *BackupCmd) Run(deps *Dependencies) error {
	count, err := fs.BackupCollection(deps.Ctx, deps.Store, deps.Collection, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Backed up %d points to %s\n", count, c.Path)
	return nil
}
