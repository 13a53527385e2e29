package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts <support-group>",
	Short: "Look up the contact roster for one support group",
	Args:  cobra.ExactArgs(1),
	RunE:  runContacts,
}

func init() {
	rootCmd.AddCommand(contactsCmd)
}

func runContacts(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	bundle, err := deps.Contacts.Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	return nil
}
