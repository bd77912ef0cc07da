package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pdiddy/threatwatch/internal/category"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "List the threat categories and their query templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		showQuery, _ := cmd.Flags().GetBool("query")
		out := cmd.OutOrStdout()

		for i, c := range category.All() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s  %s\n", titleStyle.Render(c.Label), dimStyle.Render(c.ID))
			fmt.Fprintf(out, "  %s\n", c.Description)
			fmt.Fprintf(out, "  keyword: %s\n", c.Hint)
			if showQuery {
				fmt.Fprintf(out, "  query: %s\n", c.Expression())
			}
		}
		return nil
	},
}

func init() {
	categoriesCmd.Flags().Bool("query", false, "also print each category's search expression")
	rootCmd.AddCommand(categoriesCmd)
}
