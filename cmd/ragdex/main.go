package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/ragdex/ragdex/gemini"
	raghttp "github.com/ragdex/ragdex/http"
	"github.com/ragdex/ragdex/qdrant"
	ragslog "github.com/ragdex/ragdex/slog"
	"github.com/ragdex/ragdex/sqlite"
	"google.golang.org/genai"
)

// DefaultCollection is the Qdrant collection used unless RAGDEX_COLLECTION
// is set.
const DefaultCollection = "rag_embedding"

func main() {
	// Interrupt cancels the context; the ingestion loop stops between
	// URLs and persists what it finished.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path for tracker state. Set before calling Run().
	DBPath string

	// SQLite database backing the tracker store.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ragdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ragdex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	collection := os.Getenv("RAGDEX_COLLECTION")
	if collection == "" {
		collection = DefaultCollection
	}

	qdrantURL := os.Getenv("QDRANT_URL")
	if qdrantURL == "" {
		fmt.Fprintln(stderr, "Hint: set QDRANT_URL to your Qdrant instance, e.g. http://localhost:6333")
		return fmt.Errorf("QDRANT_URL not set")
	}

	store, err := qdrant.NewStore(qdrantURL, collection,
		qdrant.WithAPIKey(os.Getenv("QDRANT_API_KEY")),
	)
	if err != nil {
		return err
	}
	deps.Store = ragslog.NewLoggingStore(store, logger)
	deps.RawStore = store
	deps.Collection = collection

	// Embedding is needed by everything except backup/restore/modules.
	if cmd == "ingest" || cmd == "search" || cmd == "selection" || cmd == "ask" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Embedder = ragslog.NewLoggingEmbedder(gemini.NewEmbedder(client, ""), logger)

		if cmd == "ask" {
			deps.Asker = gemini.NewAsker(client)
		}
	}

	if cmd == "ingest" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set RAGDEX_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		deps.TrackerStore = sqlite.NewTrackerStore(m.DB)
		deps.Fetcher = raghttp.NewFetcher()
		defer deps.Fetcher.Close()
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("RAGDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ragdex.db"
	}
	dir := filepath.Join(home, ".ragdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "ragdex.db")
}
