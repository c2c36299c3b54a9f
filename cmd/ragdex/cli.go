package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/qdrant"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Collection   string
	Store        ragdex.VectorStore
	RawStore     *qdrant.Store
	Embedder     ragdex.Embedder
	Fetcher      ragdex.Fetcher
	TrackerStore ragdex.TrackerStore
	Asker        ragdex.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Ingest    IngestCmd    `cmd:"" help:"Ingest a documentation site into the vector store"`
	Search    SearchCmd    `cmd:"" help:"Search the vector store"`
	Selection SelectionCmd `cmd:"" help:"Search using selected text plus surrounding context"`
	Modules   ModulesCmd   `cmd:"" help:"List modules present in the vector store"`
	Ask       AskCmd       `cmd:"" help:"Ask a question answered from retrieved chunks"`
	Status    StatusCmd    `cmd:"" help:"Validate the collection and show point count"`
	Backup    BackupCmd    `cmd:"" help:"Back up the collection to a JSON file"`
	Restore   RestoreCmd   `cmd:"" help:"Restore the collection from a JSON file"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URL       string   `arg:"" help:"Documentation site URL"`
	ChunkSize int      `default:"250" help:"Maximum chunk size in approximate tokens"`
	Overlap   int      `default:"20" help:"Configured chunk overlap in tokens"`
	BatchSize int      `default:"10" help:"Embedding batch size"`
	Limit     int      `short:"l" help:"Limit the number of URLs processed"`
	RateLimit string   `default:"100ms" help:"Minimum interval between embedding calls"`
	Filter    []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string            `arg:"" help:"Search query"`
	TopK     int               `short:"k" default:"5" help:"Number of results (clamped to 3..10)"`
	Module   []string          `short:"m" help:"Restrict to module IDs (repeatable)"`
	MinScore float32           `help:"Drop results below this similarity score"`
	Filter   map[string]string `help:"Payload field filters as key=value"`
}

// SelectionCmd is the "selection" subcommand.
type SelectionCmd struct {
	Selection string `arg:"" help:"Selected text to search for"`
	Context   string `arg:"" optional:"" help:"Optional context query appended to the selection"`
	TopK      int    `short:"k" default:"5" help:"Number of results (clamped to 3..10)"`
}

// ModulesCmd is the "modules" subcommand.
type ModulesCmd struct{}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string   `arg:"" help:"Question to answer from the indexed documentation"`
	TopK     int      `short:"k" default:"5" help:"Number of chunks to retrieve"`
	Module   []string `short:"m" help:"Restrict to module IDs (repeatable)"`
}

// BackupCmd is the "backup" subcommand.
type BackupCmd struct {
	Path string `arg:"" optional:"" default:"qdrant_backup.json" help:"Backup file path"`
}

// RestoreCmd is the "restore" subcommand.
type RestoreCmd struct {
	Path string `arg:"" help:"Backup file path"`
}
