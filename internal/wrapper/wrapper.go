// Package wrapper turns a spec.CommandSpec into an in-process callable
// invocation object. Binding reconstructs a command line from positional
// values and named options; the same rules are reproduced as generated
// logic by the gen package, so the two must stay in lockstep.
//
// Reconstructed token order is fixed: command, declared flags in spec
// order, unknown keys in sorted order, then positionals.
package wrapper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/actuallyrizzn/ucw/internal/spec"
)

// Executor runs a reconstructed argv. Satisfied by execute.Executor.
type Executor interface {
	Run(ctx context.Context, argv []string) (spec.ExecutionResult, error)
}

// BindingError reports caller-supplied arguments that cannot be bound to
// the spec's positional slots. It is raised synchronously from BuildArgv
// and Invoke, never silently dropped.
type BindingError struct {
	Command string
	Reason  string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("binding error for %s: %s", e.Command, e.Reason)
}

// Wrapper is the callable invocation object for one command. It holds a
// private copy of the spec it was built from.
type Wrapper struct {
	spec spec.CommandSpec
	exec Executor
}

func New(s spec.CommandSpec, exec Executor) *Wrapper {
	return &Wrapper{spec: s.Clone(), exec: exec}
}

// Spec returns a copy of the wrapped command specification.
func (w *Wrapper) Spec() spec.CommandSpec { return w.spec.Clone() }

// Invoke reconstructs the command line from the given values and runs it.
func (w *Wrapper) Invoke(ctx context.Context, positionals []string, named map[string]any) (spec.ExecutionResult, error) {
	argv, err := w.BuildArgv(positionals, named)
	if err != nil {
		return spec.ExecutionResult{}, err
	}
	if w.exec == nil {
		return spec.ExecutionResult{}, fmt.Errorf("wrapper for %s has no executor", w.spec.Name)
	}
	return w.exec.Run(ctx, argv)
}

// BuildArgv applies the binding rules and returns the full argv,
// beginning with the command name.
func (w *Wrapper) BuildArgv(positionals []string, named map[string]any) ([]string, error) {
	argv := []string{w.spec.Name}

	flagTokens, err := w.bindNamed(named)
	if err != nil {
		return nil, err
	}
	argv = append(argv, flagTokens...)

	posTokens, err := w.bindPositionals(positionals)
	if err != nil {
		return nil, err
	}
	argv = append(argv, posTokens...)
	return argv, nil
}

// bindNamed resolves named options against the spec (long forms first,
// then short) and emits flag tokens in spec order. Unknown keys pass
// through verbatim as additional flag tokens, in sorted order, because
// the parser cannot guarantee completeness of discovered options.
func (w *Wrapper) bindNamed(named map[string]any) ([]string, error) {
	var tokens []string
	used := map[string]bool{}

	for i := range w.spec.Options {
		opt := &w.spec.Options[i]
		key, value, ok := w.lookupOption(opt, named, used)
		if !ok {
			continue
		}
		used[key] = true
		tokens = append(tokens, emitOption(opt.Flag, opt.TakesValue, value)...)
	}

	var unknown []string
	for key := range named {
		if !used[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		flag := passthroughFlag(key, w.flagStyle())
		tokens = append(tokens, emitOption(flag, valueTakesValue(named[key]), named[key])...)
	}
	return tokens, nil
}

// lookupOption finds the named-map key that resolves to opt, preferring
// an exact long-form match over a short-form one.
func (w *Wrapper) lookupOption(opt *spec.OptionSpec, named map[string]any, used map[string]bool) (string, any, bool) {
	spellings := append([]string{opt.Flag}, opt.Aliases...)

	var keys []string
	for key := range named {
		if used[key] {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, long := range []bool{true, false} {
		for _, key := range keys {
			norm := NormalizeKey(key)
			for _, sp := range spellings {
				if isLongForm(sp) != long {
					continue
				}
				if NormalizeKey(sp) == norm {
					return key, named[key], true
				}
			}
		}
	}
	return "", nil, false
}

// bindPositionals consumes values left-to-right against the declared
// slots. Excess values are permitted only into a trailing variadic slot;
// unfilled required slots are a binding error.
func (w *Wrapper) bindPositionals(values []string) ([]string, error) {
	slots := w.spec.Positionals
	var out []string
	vi := 0
	for si, slot := range slots {
		if slot.Variadic && si == len(slots)-1 {
			if vi >= len(values) && slot.Required {
				return nil, &BindingError{Command: w.spec.Name,
					Reason: fmt.Sprintf("required positional %s not supplied", slot.Name)}
			}
			out = append(out, values[vi:]...)
			vi = len(values)
			continue
		}
		if vi >= len(values) {
			if slot.Required {
				return nil, &BindingError{Command: w.spec.Name,
					Reason: fmt.Sprintf("required positional %s not supplied", slot.Name)}
			}
			continue
		}
		out = append(out, values[vi])
		vi++
	}
	if vi < len(values) {
		return nil, &BindingError{Command: w.spec.Name,
			Reason: fmt.Sprintf("%d positional values supplied for %d declared slots", len(values), len(slots))}
	}
	return out, nil
}

// flagStyle returns "/" when the spec's flags are Windows style, "-"
// otherwise.
func (w *Wrapper) flagStyle() string {
	for _, o := range w.spec.Options {
		if strings.HasPrefix(o.Flag, "/") {
			return "/"
		}
	}
	return "-"
}

// NormalizeKey reduces a caller-supplied identifier or flag spelling to a
// canonical comparison form: leading dashes/slashes stripped, underscores
// converted to dashes.
func NormalizeKey(key string) string {
	key = strings.TrimLeft(key, "-/")
	return strings.ReplaceAll(key, "_", "-")
}

func isLongForm(spelling string) bool {
	return len(NormalizeKey(spelling)) > 1
}

// emitOption renders one option as reconstructed command-line tokens.
// Boolean true for a no-value option emits the bare flag, false omits it;
// value options emit "flag value" as two tokens, or "/flag:value" as one
// token for slash-style flags.
func emitOption(flag string, takesValue bool, value any) []string {
	if !takesValue {
		if truthy(value) {
			return []string{flag}
		}
		return nil
	}
	if value == nil {
		return nil
	}
	rendered := fmt.Sprintf("%v", value)
	if strings.HasPrefix(flag, "/") {
		return []string{flag + ":" + rendered}
	}
	return []string{flag, rendered}
}

// passthroughFlag renders an unknown key as a flag token. Keys already
// carrying flag punctuation pass through verbatim.
func passthroughFlag(key, style string) string {
	if strings.HasPrefix(key, "-") || strings.HasPrefix(key, "/") {
		return key
	}
	if style == "/" {
		return "/" + key
	}
	if len(key) == 1 {
		return "-" + key
	}
	return "--" + strings.ReplaceAll(key, "_", "-")
}

// valueTakesValue decides how an unknown key's value is emitted: bools
// toggle the bare flag, everything else carries a value.
func valueTakesValue(value any) bool {
	_, isBool := value.(bool)
	return !isBool && value != nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	default:
		return true
	}
}
