// Package gen renders a CommandSpec as Go plugin source. The generated
// file is standalone: the fixed header carries binding helpers that
// reproduce the wrapper package's rules, each command block contributes
// only its spec table plus an init registration, and the fixed trailer
// dispatches from func main. Blocks self-register, so regenerating one
// block never touches the header or trailer.
//
// Output is byte-identical for a fixed CommandSpec: no timestamps, no
// random identifiers. The merge engine depends on that determinism for
// idempotent updates.
package gen

import (
	"strings"
	"text/template"

	"github.com/actuallyrizzn/ucw/internal/merge"
	"github.com/actuallyrizzn/ucw/internal/spec"
)

var blockTmpl = template.Must(template.New("block").Parse(
	`// {{.Name}}: wrapper generated from parsed help text.
func init() {
	register(pluginCommand{
		name: {{printf "%q" .Name}},{{if .Description}}
		description: {{printf "%q" .Description}},{{end}}
		options: []pluginOption{
{{- range .Options}}
			{flag: {{printf "%q" .Flag}}{{if .Aliases}}, aliases: []string{ {{- range $i, $a := .Aliases}}{{if $i}}, {{end}}{{printf "%q" $a}}{{end -}} }{{end}}{{if .TakesValue}}, takesValue: true{{end}}},
{{- end}}
		},
		args: []pluginArg{
{{- range .Positionals}}
			{name: {{printf "%q" .Name}}{{if .Required}}, required: true{{end}}{{if .Variadic}}, variadic: true{{end}}},
{{- end}}
		},
	})
}
`))

// Block renders the per-command plugin block body (without markers).
func Block(s spec.CommandSpec) (string, error) {
	var b strings.Builder
	if err := blockTmpl.Execute(&b, s); err != nil {
		return "", err
	}
	return b.String(), nil
}

// File renders a complete standalone plugin file containing one marked
// block for s.
func File(s spec.CommandSpec) (string, error) {
	body, err := Block(s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(merge.BeginMarker(s.Name))
	b.WriteString("\n")
	b.WriteString(strings.TrimSuffix(body, "\n"))
	b.WriteString("\n")
	b.WriteString(merge.EndMarker(s.Name))
	b.WriteString("\n\n")
	b.WriteString(trailer)
	return b.String(), nil
}

// header is the fixed boilerplate shell: the plugin registry and the
// binding logic equivalent to the wrapper package. It never changes
// between generations, which keeps merged files stable.
const header = `// Command plugin file maintained by ucw. Blocks between UCW-BEGIN/UCW-END
// markers are regenerated; everything else is preserved on update.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type pluginOption struct {
	flag       string
	aliases    []string
	takesValue bool
}

type pluginArg struct {
	name     string
	required bool
	variadic bool
}

type pluginCommand struct {
	name        string
	description string
	options     []pluginOption
	args        []pluginArg
}

var plugins = map[string]pluginCommand{}

func register(c pluginCommand) { plugins[c.name] = c }

func normalizeKey(key string) string {
	key = strings.TrimLeft(key, "-/")
	return strings.ReplaceAll(key, "_", "-")
}

func (o pluginOption) matches(key string) bool {
	norm := normalizeKey(key)
	if normalizeKey(o.flag) == norm {
		return true
	}
	for _, a := range o.aliases {
		if normalizeKey(a) == norm {
			return true
		}
	}
	return false
}

// splitArgs separates raw plugin arguments into named options and
// positional values. A leading dash or slash marks an option token;
// =-joined values are split off.
func splitArgs(raw []string) (named map[string]string, positionals []string) {
	named = map[string]string{}
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if !strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, "/") {
			positionals = append(positionals, tok)
			continue
		}
		if key, val, ok := strings.Cut(tok, "="); ok {
			named[key] = val
			continue
		}
		named[tok] = ""
	}
	return named, positionals
}

// bindArgs reconstructs the target command line: declared flags in spec
// order, unknown flags in sorted order, then positionals. These rules
// mirror the in-process wrapper so both invocation paths behave alike.
func bindArgs(c pluginCommand, named map[string]string, positionals []string) ([]string, error) {
	argv := []string{c.name}
	used := map[string]bool{}

	for _, opt := range c.options {
		for _, key := range sortedKeys(named) {
			if used[key] || !opt.matches(key) {
				continue
			}
			used[key] = true
			argv = append(argv, emitOption(opt.flag, opt.takesValue, named[key])...)
			break
		}
	}
	for _, key := range sortedKeys(named) {
		if used[key] {
			continue
		}
		argv = append(argv, emitOption(key, named[key] != "", named[key])...)
	}

	bound, err := bindPositionals(c, positionals)
	if err != nil {
		return nil, err
	}
	return append(argv, bound...), nil
}

func bindPositionals(c pluginCommand, values []string) ([]string, error) {
	var out []string
	vi := 0
	for si, slot := range c.args {
		if slot.variadic && si == len(c.args)-1 {
			if vi >= len(values) && slot.required {
				return nil, fmt.Errorf("%s: required positional %s not supplied", c.name, slot.name)
			}
			out = append(out, values[vi:]...)
			vi = len(values)
			continue
		}
		if vi >= len(values) {
			if slot.required {
				return nil, fmt.Errorf("%s: required positional %s not supplied", c.name, slot.name)
			}
			continue
		}
		out = append(out, values[vi])
		vi++
	}
	if vi < len(values) {
		return nil, fmt.Errorf("%s: %d positional values supplied for %d declared slots", c.name, len(values), len(c.args))
	}
	return out, nil
}

func emitOption(flag string, takesValue bool, value string) []string {
	if !takesValue {
		if value == "false" || value == "0" {
			return nil
		}
		return []string{flag}
	}
	if strings.HasPrefix(flag, "/") {
		return []string{flag + ":" + value}
	}
	return []string{flag, value}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runCommand(c pluginCommand, raw []string) int {
	named, positionals := splitArgs(raw)
	argv, err := bindArgs(c, named, positionals)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return ee.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: plugin <command> [args...]")
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := plugins[name]
		if c.description != "" {
			fmt.Fprintf(os.Stderr, "  %-12s %s\n", name, c.description)
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
	}
}
`

// trailer is the fixed entry point. New blocks are inserted immediately
// before it by the merge engine.
const trailer = `func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	c, ok := plugins[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	os.Exit(runCommand(c, os.Args[2:]))
}
`
