package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actuallyrizzn/ucw/internal/gen"
	"github.com/actuallyrizzn/ucw/internal/merge"
)

var (
	wrapOutput string
	wrapUpdate bool
	wrapDryRun bool
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <command>",
	Short: "Generate standalone plugin source for a command",
	Long: `Parse the command and write a self-contained Go plugin file for it.

A fresh file carries one tagged block per command plus the shared
binding scaffolding. With --update, the block for this command is
replaced in place (or inserted) and the rest of the file is untouched.
Without --output, the spec and its generated block are printed instead.

Examples:
  ucw wrap cp -o cp_plugin.go
  ucw wrap mv -o cp_plugin.go --update
  ucw wrap cp -o cp_plugin.go --update --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runWrap,
}

func init() {
	wrapCmd.Flags().StringVarP(&wrapOutput, "output", "o", "", "Target file for the generated plugin")
	wrapCmd.Flags().BoolVarP(&wrapUpdate, "update", "u", false, "Merge into an existing file instead of requiring a fresh one")
	wrapCmd.Flags().BoolVar(&wrapDryRun, "dry-run", false, "Print the diff that would be applied without writing")
}

func runWrap(cmd *cobra.Command, args []string) error {
	u, err := newEngine()
	if err != nil {
		return err
	}
	defer u.Close()

	s, err := u.ParseCommand(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	r := newRenderer()
	if wrapOutput == "" {
		block, err := gen.Block(s)
		if err != nil {
			return err
		}
		if err := r.Spec(s); err != nil {
			return err
		}
		fmt.Printf("\n%s\n%s%s\n", merge.BeginMarker(s.Name), block, merge.EndMarker(s.Name))
		return nil
	}
	if wrapDryRun {
		existing := ""
		if data, err := os.ReadFile(wrapOutput); err == nil {
			existing = string(data)
		}
		diff, err := u.PreviewWrite(s, existing)
		if err != nil {
			return err
		}
		if diff == "" {
			r.Notice("%s is already up to date", wrapOutput)
			return nil
		}
		fmt.Print(diff)
		return nil
	}

	path, err := u.WriteWrapper(s, wrapOutput, wrapUpdate)
	if err != nil {
		return err
	}
	r.Notice("wrote %s block to %s", s.Name, path)
	return nil
}
