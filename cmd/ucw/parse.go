package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <command>",
	Short: "Parse a command's help output into a spec",
	Long: `Acquire the command's help text and parse it into a normalized spec.

Examples:
  ucw parse cp
  ucw parse --platform windows dir
  ucw parse --json tar`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	u, err := newEngine()
	if err != nil {
		return err
	}
	defer u.Close()

	s, err := u.ParseCommand(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	return newRenderer().Spec(s)
}
