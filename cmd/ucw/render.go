package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/actuallyrizzn/ucw/internal/spec"
)

// renderer prints specs and execution results either as colored text
// for humans or as JSON for scripts.
type renderer struct {
	json bool
}

func newRenderer() *renderer {
	color.NoColor = color.NoColor || flagNoColor
	return &renderer{json: flagJSON}
}

func (r *renderer) Spec(s spec.CommandSpec) error {
	if r.json {
		return r.emitJSON(s)
	}

	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	fmt.Printf("%s %s\n", heading.Sprint("command"), s.Name)
	if s.Description != "" {
		fmt.Printf("%s %s\n", heading.Sprint("description"), s.Description)
	}
	if s.Usage != "" {
		fmt.Printf("%s %s\n", heading.Sprint("usage"), s.Usage)
	}
	if s.IsBasic() {
		fmt.Println(dim.Sprint("(no help text available, basic spec)"))
	}

	if len(s.Options) > 0 {
		fmt.Printf("\n%s\n", heading.Sprint("options"))
		for _, o := range s.Options {
			line := fmt.Sprintf("  %-24s %-8s", o.Flag, o.TypeHint)
			if o.TakesValue {
				line += " value "
			} else {
				line += "       "
			}
			fmt.Printf("%s %s\n", line, dim.Sprint(o.Description))
		}
	}
	if len(s.Positionals) > 0 {
		fmt.Printf("\n%s\n", heading.Sprint("arguments"))
		for _, a := range s.Positionals {
			attrs := []string{string(a.TypeHint)}
			if a.Required {
				attrs = append(attrs, "required")
			}
			if a.Variadic {
				attrs = append(attrs, "variadic")
			}
			fmt.Printf("  %-24s %s\n", a.Name, dim.Sprint(strings.Join(attrs, ", ")))
		}
	}
	if len(s.Examples) > 0 {
		fmt.Printf("\n%s\n", heading.Sprint("examples"))
		for _, e := range s.Examples {
			fmt.Printf("  %s\n", e)
		}
	}
	return nil
}

func (r *renderer) Result(res spec.ExecutionResult) error {
	if r.json {
		return r.emitJSON(res)
	}

	if res.Stdout != "" {
		fmt.Print(res.Stdout)
		if !strings.HasSuffix(res.Stdout, "\n") {
			fmt.Println()
		}
	}
	if res.Stderr != "" {
		fmt.Fprint(os.Stderr, color.New(color.FgRed).Sprint(res.Stderr))
		if !strings.HasSuffix(res.Stderr, "\n") {
			fmt.Fprintln(os.Stderr)
		}
	}
	status := color.New(color.FgGreen).Sprintf("exit %d", res.ReturnCode)
	if !res.Success() {
		status = color.New(color.FgRed).Sprintf("exit %d", res.ReturnCode)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", color.New(color.FgHiBlack).Sprintf("(%.2fs)", res.Elapsed), status)
	return nil
}

func (r *renderer) Notice(format string, args ...any) {
	if r.json {
		return
	}
	fmt.Fprintln(os.Stderr, color.New(color.FgHiBlack).Sprintf(format, args...))
}

func (r *renderer) emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
