package main

import (
	"fmt"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/retrieve"
)

// Run executes the modules command.
func (c *ModulesCmd) Run(deps *Dependencies) error {
	engine := &retrieve.Engine{
		Store:  deps.Store,
		Logger: deps.Logger,
	}

	modules, err := engine.AvailableModules(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ragdex.ErrorMessage(err))
		return err
	}

	if len(modules) == 0 {
		fmt.Fprintln(deps.Stdout, "No modules found.")
		return nil
	}
	for _, module := range modules {
		fmt.Fprintln(deps.Stdout, module)
	}
	return nil
}
