package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

// truncate shortens s to maxWidth display columns, accounting for wide characters.
func truncate(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "…")
}
