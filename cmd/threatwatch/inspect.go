package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threatwatch/internal/export"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Re-read an exported CSV and render it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	addInspectFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func addInspectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "table", "output format: csv, json, yaml, table")
}

func runInspect(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	records, withSource, err := export.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return export.Write(cmd.OutOrStdout(), format, records, withSource)
}
