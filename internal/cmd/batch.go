package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostmap/hostmap/internal/output"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir|glob>...",
	Short: "Resolve many ticket files in one run",
	Long: `Resolve a batch of ticket files. Arguments may be literal files,
directories, or glob patterns. Hostnames are deduplicated across the whole
batch before resolution, so a host mentioned in ten tickets is looked up
once and listed once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("output", "table", "Output format: table, json, markdown")
}

func runBatch(cmd *cobra.Command, args []string) error {
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	deps, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	result := deps.Aggregator.Run(cmd.Context(), args)

	rendered, err := output.NewFormatter(format).FormatBatch(result)
	if err != nil {
		return err
	}
	fmt.Println(rendered)

	return nil
}
