package main

import (
	"errors"
	"fmt"
	"os"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/actuallyrizzn/ucw/internal/wrapper"
)

var runRaw string

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run a command through its synthesized wrapper",
	Long: `Parse the command, bind the given arguments against its spec, and
execute it. Flag-looking arguments bind as named options, the rest fill
positional slots in order. ucw exits with the wrapped command's exit
code.

Examples:
  ucw run cp --force a.txt b.txt
  ucw run -- ls --color=always /tmp
  ucw run --raw '--force a.txt b.txt' cp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runRaw, "raw", "", "Arguments as a single shell-quoted string")
	// Everything after the command name belongs to the wrapped command.
	runCmd.Flags().SetInterspersed(false)
}

func runRun(cmd *cobra.Command, args []string) error {
	u, err := newEngine()
	if err != nil {
		return err
	}
	defer u.Close()

	name, rest := args[0], args[1:]
	if runRaw != "" {
		if len(rest) > 0 {
			return errors.New("pass either --raw or argument tokens, not both")
		}
		rest, err = shellwords.Parse(runRaw)
		if err != nil {
			return fmt.Errorf("parse raw arguments: %w", err)
		}
	}

	s, err := u.ParseCommand(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	named, positionals := splitCallArgs(rest, func(key string) bool {
		if o, ok := s.Option(key); ok {
			return o.TakesValue
		}
		return false
	})

	res, err := u.Run(cmd.Context(), s, positionals, named)
	if err != nil {
		var bindErr *wrapper.BindingError
		if errors.As(err, &bindErr) {
			return fmt.Errorf("bad arguments for %s: %w", name, err)
		}
		return err
	}

	if err := newRenderer().Result(res); err != nil {
		return err
	}
	if !res.Success() {
		u.Close()
		os.Exit(res.ReturnCode)
	}
	return nil
}
