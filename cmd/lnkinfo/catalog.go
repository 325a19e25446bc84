package main

import (
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/joshuapare/lnkkit/pkg/catalog"
)

func init() {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect an evidence catalog written by scan",
	}
	catalogCmd.AddCommand(newCatalogListCmd())
	rootCmd.AddCommand(catalogCmd)
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <dir>",
		Short: "List recorded summaries in decode order",
		Long: `The list command prints every summary recorded in a catalog, oldest
first.

Example:
  lnkinfo catalog list ./case-42.db
  lnkinfo catalog list ./case-42.db --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(args)
		},
	}
}

type catalogEntry struct {
	ID              string `json:"id" yaml:"id"`
	catalog.Summary `yaml:",inline"`
}

func runCatalogList(args []string) error {
	cat, err := catalog.Open(args[0])
	if err != nil {
		return err
	}
	defer cat.Close()

	var entries []catalogEntry
	err = cat.List(func(id ksuid.KSUID, s catalog.Summary) bool {
		entries = append(entries, catalogEntry{ID: id.String(), Summary: s})
		return true
	})
	if err != nil {
		return err
	}

	if structured, err := printStructured(entries); structured {
		return err
	}
	for _, e := range entries {
		printInfo("%s %s %s\n", e.ID, e.DecodedAt.Format("2006-01-02T15:04:05Z07:00"), summaryLine(e.Summary))
	}
	printInfo("\n%d record(s)\n", len(entries))
	return nil
}
