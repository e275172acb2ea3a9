package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actuallyrizzn/ucw/internal/config"
	"github.com/actuallyrizzn/ucw/internal/logging"
	"github.com/actuallyrizzn/ucw/internal/ucw"
)

var (
	Version = "0.1.0"

	flagPlatform string
	flagStrict   bool
	flagJSON     bool
	flagNoColor  bool
	flagLogLevel string
	flagTimeout  int
)

var rootCmd = &cobra.Command{
	Use:   "ucw",
	Short: "Universal command wrapper",
	Long: `ucw turns any external command into a structured, callable wrapper.

It reads the command's own help output (--help, -h, /?, or man), parses
the options and positional arguments it finds there, and uses that spec
to bind keyword-style arguments back into a real command line.

Run 'ucw parse cp' to inspect a command's spec, 'ucw run cp -- ...' to
invoke one through the wrapper, or 'ucw wrap cp -o plugin.go' to
generate standalone plugin source.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlatform, "platform", "", "Flag syntax to parse: posix, windows, or auto")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Fail when help text cannot be acquired instead of falling back")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Emit machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "Execution timeout in seconds (overrides config)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("ucw %s\n", Version))

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(wrapCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the root command and reports errors on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ucw: %v\n", err)
	}
	return err
}

// loadConfig resolves configuration and applies CLI flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if flagPlatform != "" {
		cfg.Platform = flagPlatform
	}
	if flagTimeout > 0 {
		cfg.ExecTimeoutSeconds = flagTimeout
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// newEngine builds the wrapper engine from resolved config and
// initializes logging.
func newEngine() (*ucw.UCW, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.LogLevel, os.Stderr, !flagJSON && !flagNoColor)

	u, err := ucw.New(cfg)
	if err != nil {
		return nil, err
	}
	u.Strict = flagStrict
	return u, nil
}
