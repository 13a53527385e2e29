package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the lookup cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached lookup result",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	if deps.Cache == nil {
		return errors.New("cache is disabled")
	}

	if err := deps.Cache.Clear(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Lookup cache cleared")
	return nil
}
