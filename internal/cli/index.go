package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/codegraph/internal/config"
	"github.com/mvp-joe/codegraph/internal/engine"
	"github.com/mvp-joe/codegraph/internal/store"
)

var (
	quietFlag     bool
	workersFlag   int
	languagesFlag []string
	noResolveFlag bool
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the workspace into the code graph database",
	Long: `Index walks the workspace, parses every recognized source file with
tree-sitter, extracts symbols, relationships, identifiers and types, and
stores them in .codegraph/index.db. Cross-file calls are resolved at the end
of the run unless --no-resolve is given.

Examples:
  # Index the current directory
  codegraph index

  # Index only Go and Python files with 8 workers
  codegraph index --lang go --lang python --workers 8

  # Extract only, leaving pending calls for a later resolve pass
  codegraph index --no-resolve
`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
	indexCmd.Flags().IntVar(&workersFlag, "workers", 0, "extraction workers (default one per CPU)")
	indexCmd.Flags().StringSliceVar(&languagesFlag, "lang", nil, "limit to specific language tags")
	indexCmd.Flags().BoolVar(&noResolveFlag, "no-resolve", false, "skip the cross-file resolution pass")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\ninterrupted, cancelling")
		cancel()
	}()

	cfg, err := config.Load(rootFlag)
	if err != nil {
		return err
	}

	dbPath := cfg.DatabasePath(rootFlag)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		return err
	}

	workers := cfg.Index.Workers
	if workersFlag > 0 {
		workers = workersFlag
	}
	languages := cfg.Index.Languages
	if len(languagesFlag) > 0 {
		languages = languagesFlag
	}

	eng := engine.New(st, engine.Options{
		Root:        rootFlag,
		Include:     cfg.Paths.Include,
		Exclude:     cfg.Paths.Exclude,
		Languages:   languages,
		Workers:     workers,
		BatchSize:   cfg.Index.BatchSize,
		SkipResolve: noResolveFlag,
	})

	if !quietFlag {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Indexing"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionSpinnerType(14),
		)
		eng.OnFile = func(string) { bar.Add(1) }
		defer bar.Finish()
	}

	summary, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	if !quietFlag {
		fmt.Println()
	}
	fmt.Printf("Indexed %d files (%d symbols, %d identifiers, %d errors) in %s\n",
		summary.Files, summary.Symbols, summary.Identifiers, summary.Errors,
		summary.Duration.Round(summaryPrecision))
	if !noResolveFlag {
		fmt.Printf("Resolved %d cross-file calls\n", summary.Promoted)
	}
	return nil
}
