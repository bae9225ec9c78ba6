package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codegraph/internal/resolve"
)

const summaryPrecision = time.Millisecond

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Promote pending cross-file calls against the workspace index",
	Long: `Resolve walks every pending relationship left by extraction and
promotes the ones whose callee name maps to exactly one declaration in the
workspace. Ambiguous names stay pending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openExistingStore()
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := resolve.New(st).Run()
		if err != nil {
			return err
		}
		fmt.Printf("Considered %d pending calls: %d promoted, %d ambiguous, %d unmatched\n",
			report.Considered, report.Promoted, report.Ambiguous, report.Unmatched)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
