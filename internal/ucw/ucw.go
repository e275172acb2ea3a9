// Package ucw ties the pipeline together: acquire help text, parse it,
// synthesize wrappers, and write plugin files. It is the surface the CLI
// (and library callers) use; each operation is an independent, sequential
// call chain with no shared mutable state between commands.
package ucw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallyrizzn/ucw/internal/config"
	"github.com/actuallyrizzn/ucw/internal/execute"
	"github.com/actuallyrizzn/ucw/internal/gen"
	"github.com/actuallyrizzn/ucw/internal/help"
	"github.com/actuallyrizzn/ucw/internal/history"
	"github.com/actuallyrizzn/ucw/internal/logging"
	"github.com/actuallyrizzn/ucw/internal/merge"
	"github.com/actuallyrizzn/ucw/internal/parser"
	"github.com/actuallyrizzn/ucw/internal/spec"
	"github.com/actuallyrizzn/ucw/internal/wrapper"
)

// UCW is the universal command wrapper engine.
type UCW struct {
	cfg    config.Config
	parser *parser.Parser
	source *help.Source
	exec   *execute.Executor
	hist   *history.Store

	// Strict propagates acquisition failures instead of degrading to
	// the basic spec.
	Strict bool
}

// New builds an engine from configuration. The platform may be "posix",
// "windows", "linux" (alias for posix), or "auto".
func New(cfg config.Config) (*UCW, error) {
	grammar, err := grammarFor(cfg)
	if err != nil {
		return nil, err
	}

	u := &UCW{
		cfg:    cfg,
		parser: parser.New(grammar),
		source: help.NewSource(time.Duration(cfg.HelpTimeoutSeconds) * time.Second),
		exec: execute.New(
			time.Duration(cfg.ExecTimeoutSeconds)*time.Second,
			execute.Limits{MaxLines: cfg.MaxOutputLines, MaxBytes: cfg.MaxOutputBytes},
		),
	}
	if cfg.HistoryPath != "" {
		hist, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		u.hist = hist
	}
	return u, nil
}

func grammarFor(cfg config.Config) (parser.Grammar, error) {
	platform := cfg.Platform
	if platform == "" || platform == "auto" {
		platform = parser.DetectPlatform()
	}
	switch platform {
	case parser.PlatformPosix, "linux", "darwin":
		return parser.NewPosixGrammarWithHelpFlags(cfg.PosixHelpFlags, cfg.PosixManFallback), nil
	case parser.PlatformWindows:
		return parser.NewWindowsGrammarWithHelpFlags(cfg.WindowsHelpFlags), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
}

// Close releases the history store, if open.
func (u *UCW) Close() error {
	if u.hist != nil {
		return u.hist.Close()
	}
	return nil
}

// Platform returns the effective parser platform.
func (u *UCW) Platform() string { return u.parser.Grammar().Platform() }

// ParseCommand obtains help text for name and parses it into a fresh
// CommandSpec. Acquisition failures degrade to the basic spec unless
// Strict is set.
func (u *UCW) ParseCommand(ctx context.Context, name string) (spec.CommandSpec, error) {
	text, status, err := u.source.Get(ctx, name, u.parser.Grammar())
	if err != nil {
		if u.Strict || !errors.Is(err, help.ErrAcquisition) {
			return spec.CommandSpec{}, err
		}
		logging.Logger.Debug().Str("command", name).Err(err).Msg("help acquisition failed, using basic spec")
		text, status = "", 0
	}

	s := u.parser.Parse(name, text, status)
	u.record(history.EventParsed, name, map[string]any{
		"platform": u.Platform(),
		"options":  len(s.Options),
		"args":     len(s.Positionals),
		"basic":    s.IsBasic(),
	})
	return s, nil
}

// ParseHelpText parses already-acquired help text, bypassing acquisition.
func (u *UCW) ParseHelpText(name, text string, exitStatus int) spec.CommandSpec {
	return u.parser.Parse(name, text, exitStatus)
}

// BuildWrapper returns the in-process callable wrapper for s.
func (u *UCW) BuildWrapper(s spec.CommandSpec) *wrapper.Wrapper {
	u.record(history.EventWrapped, s.Name, nil)
	return wrapper.New(s, u.exec)
}

// WriteWrapper generates plugin source for s and writes it to targetPath,
// merging into an existing file when update is set. It returns the
// written path.
func (u *UCW) WriteWrapper(s spec.CommandSpec, targetPath string, update bool) (string, error) {
	body, err := gen.Block(s)
	if err != nil {
		return "", err
	}
	full, err := gen.File(s)
	if err != nil {
		return "", err
	}
	path, err := merge.Write(s.Name, body, full, targetPath, update)
	if err != nil {
		return "", err
	}
	u.record(history.EventFileWritten, s.Name, map[string]any{"path": path, "update": update})
	return path, nil
}

// PreviewWrite returns the diff that WriteWrapper would apply to a file
// currently holding existing, without writing anything.
func (u *UCW) PreviewWrite(s spec.CommandSpec, existing string) (string, error) {
	full, err := gen.File(s)
	if err != nil {
		return "", err
	}
	if existing == "" {
		return merge.Diff("", full), nil
	}
	body, err := gen.Block(s)
	if err != nil {
		return "", err
	}
	updated, err := merge.Update(existing, s.Name, body)
	if err != nil {
		return "", err
	}
	return merge.Diff(existing, updated), nil
}

// Run invokes the wrapper for s with the given bound arguments and
// records the outcome.
func (u *UCW) Run(ctx context.Context, s spec.CommandSpec, positionals []string, named map[string]any) (spec.ExecutionResult, error) {
	w := wrapper.New(s, u.exec)
	res, err := w.Invoke(ctx, positionals, named)
	if err != nil {
		return res, err
	}
	u.record(history.EventExecuted, s.Name, map[string]any{
		"command":     res.Command,
		"return_code": res.ReturnCode,
		"success":     res.Success(),
		"elapsed":     res.Elapsed,
	})
	return res, nil
}

// History returns recent history events, or nil when history is
// disabled.
func (u *UCW) History(command string, limit int) ([]history.Event, error) {
	if u.hist == nil {
		return nil, nil
	}
	return u.hist.Recent(command, limit)
}

func (u *UCW) record(eventType, command string, payload map[string]any) {
	if u.hist == nil {
		return
	}
	if _, err := u.hist.Log(eventType, command, payload); err != nil {
		logging.Logger.Warn().Err(err).Str("command", command).Msg("history write failed")
	}
}
