package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/threatwatch/internal/category"
	"github.com/pdiddy/threatwatch/internal/export"
	"github.com/pdiddy/threatwatch/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for recent news in a threat category",
	Long: `Search builds the category's query template, appends the sector keyword,
and runs one request against the configured provider. Articles older than the
recency window are dropped. The rest are ordered newest first with undated
articles last.

With --save, results are written to {keyword}_{category}.csv (or the
matching extension for --format).`,
	Example: `  threatwatch search --category ransomware --keyword healthcare
  threatwatch search -c apt -k "energy sector" --format table
  threatwatch search -c data_breaches -k retail --source rest --save`,
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd)

	f := searchCmd.Flags()
	_ = viper.BindPFlag("search.ascending", f.Lookup("ascending"))
	_ = viper.BindPFlag("search.recency_window", f.Lookup("window"))

	rootCmd.AddCommand(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("category", "c", "", "threat category ID or alias (see 'threatwatch categories')")
	f.StringP("keyword", "k", "", "sector or topic keyword, e.g. healthcare")
	f.StringP("format", "f", "csv", "output format: csv, json, yaml, table")
	f.StringP("output", "o", "", "write results to this file instead of stdout")
	f.Bool("save", false, "write results to {keyword}_{category}.{ext}")
	f.Bool("ascending", false, "order dated articles oldest first")
	f.Duration("window", 0, "recency window (default 2160h, i.e. 90 days)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	catName, _ := cmd.Flags().GetString("category")
	keyword, _ := cmd.Flags().GetString("keyword")
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	if catName == "" {
		return fmt.Errorf("provide --category (one of %v)", category.IDs())
	}
	cat, err := category.Lookup(catName)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if output != "" && save {
		return fmt.Errorf("use either --output or --save, not both")
	}

	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res := search.Run(ctx, src, search.Request{Category: cat, Keyword: keyword},
		search.OptionsFromConfig(cfg.Search, logger))

	stderr := cmd.ErrOrStderr()
	if res.Skipped {
		fmt.Fprintln(stderr, "Enter a keyword to search.")
		return nil
	}

	// Provider and network failures are reported, not fatal: the export
	// is still written, empty.
	if res.Err != nil {
		fmt.Fprintf(stderr, "Error fetching news: %v\n", res.Err)
	}

	if save {
		output = export.Filename(keyword, cat.ID, format.Ext())
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, res.Records, res.Publisher); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}

	if res.Err == nil {
		fmt.Fprintf(stderr, "%s / %q: %d results (%d fetched, %d older than %s, %d undated)\n",
			cat.Label, keyword, len(res.Records), res.Fetched, res.Stale, res.Cutoff.Format("2006-01-02"), res.Undated)
	}
	if res.Empty() && (format != export.FormatTable || output != "") {
		fmt.Fprintln(stderr, "No results found.")
	}
	if output != "" {
		fmt.Fprintf(stderr, "Saved %s\n", output)
	}
	return nil
}
