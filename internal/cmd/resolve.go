package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/hostmap/hostmap/internal/observability"
	"github.com/hostmap/hostmap/internal/output"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [ticket-file]",
	Short: "Resolve one ticket to support groups and contacts",
	Long: `Read a support ticket, extract the hostnames it mentions, and resolve
each one to its support group and contact roster.

The ticket is read from the given file, or from --text when no file is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().String("text", "", "ticket text passed inline instead of a file")
	resolveCmd.Flags().String("output", "table", "Output format: table, json, markdown")
}

func runResolve(cmd *cobra.Command, args []string) error {
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	ticketText, err := cmd.Flags().GetString("text")
	if err != nil {
		return err
	}

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitFileNotFound,
				fmt.Sprintf("Cannot read ticket file %s", args[0]), err)
		}
		ticketText = string(data)
	}

	if strings.TrimSpace(ticketText) == "" {
		return errors.New("a ticket file or --text is required")
	}

	deps, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	result := deps.Pipeline.Run(cmd.Context(), ticketText)

	rendered, err := output.NewFormatter(format).FormatTicket(result)
	if err != nil {
		return err
	}
	fmt.Println(rendered)

	return nil
}
