package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var cheatsCmd = &cobra.Command{
	Use:   "cheats",
	Short: "List titles that have cheats installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		tids, err := a.ExistingCheats()
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Title ID"})
		for i, tid := range tids {
			t.AppendRow(table.Row{i + 1, tid})
		}
		t.AppendFooter(table.Row{"", a.ContentsPath()})
		t.Render()
		return nil
	},
}
