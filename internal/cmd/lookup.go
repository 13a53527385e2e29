package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <hostname>",
	Short: "Look up the support group for one hostname",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	lookup, err := deps.Groups.Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(lookup, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	return nil
}
