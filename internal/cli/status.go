package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index contents and the last run",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openExistingStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.CurrentStats()
		if err != nil {
			return err
		}
		fmt.Printf("Files:          %d\n", stats.Files)
		fmt.Printf("Symbols:        %d\n", stats.Symbols)
		fmt.Printf("Relationships:  %d\n", stats.Relationships)
		fmt.Printf("Pending calls:  %d\n", stats.Pending)
		fmt.Printf("Identifiers:    %d\n", stats.Identifiers)

		run, err := st.LatestRun()
		if err != nil {
			return err
		}
		if run == nil {
			return nil
		}
		fmt.Printf("\nLast run %s started %s", run.ID, run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.FinishedAt != nil {
			fmt.Printf(", finished in %s", run.FinishedAt.Sub(run.StartedAt).Round(summaryPrecision))
		}
		fmt.Printf(" (%d files, %d symbols, %d errors)\n", run.FileCount, run.SymbolCount, run.ErrorCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
