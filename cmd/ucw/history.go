package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [command]",
	Short: "Show recently recorded operations",
	Long: `List recent parse, wrap and run events from the history database,
newest first. Requires history_path to be configured; without it this
prints nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of events to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	u, err := newEngine()
	if err != nil {
		return err
	}
	defer u.Close()

	command := ""
	if len(args) == 1 {
		command = args[0]
	}
	events, err := u.History(command, historyLimit)
	if err != nil {
		return err
	}

	r := newRenderer()
	if r.json {
		return r.emitJSON(events)
	}
	if len(events) == 0 {
		r.Notice("no history recorded")
		return nil
	}
	dim := color.New(color.FgHiBlack)
	for _, e := range events {
		fmt.Printf("%s  %-16s %s\n",
			dim.Sprint(e.At.Format("2006-01-02 15:04:05")), e.Type, e.Command)
	}
	return nil
}
