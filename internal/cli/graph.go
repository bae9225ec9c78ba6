package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codegraph/internal/config"
	"github.com/mvp-joe/codegraph/internal/resolve"
	"github.com/mvp-joe/codegraph/internal/store"
)

var graphOutFlag string

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the resolved call graph as Graphviz DOT",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openExistingStore()
		if err != nil {
			return err
		}
		defer st.Close()

		g, err := resolve.CallGraph(st)
		if err != nil {
			return err
		}

		out := os.Stdout
		if graphOutFlag != "" {
			f, err := os.Create(graphOutFlag)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		return resolve.WriteDOT(g, out)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVarP(&graphOutFlag, "output", "o", "", "write DOT to a file instead of stdout")
}

// openExistingStore opens the workspace database, failing when the workspace
// has never been indexed.
func openExistingStore() (*store.Store, error) {
	cfg, err := config.Load(rootFlag)
	if err != nil {
		return nil, err
	}
	dbPath := cfg.DatabasePath(rootFlag)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no index at %s, run `codegraph index` first", dbPath)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
