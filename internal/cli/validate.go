package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// Output formats shared by the commands.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatMarkdown:
		return nil
	}
	return fmt.Errorf("unknown format %q: use table, json or markdown", format)
}

func newValidateCmd() *cobra.Command {
	var (
		stringsPath         string
		classificationsPath string
		format              string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a strings file against a classifications file",
		Example: `  csvcheck validate --strings strings.csv --classifications classifications.csv
  csvcheck validate -s strings.csv -c classifications.csv --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			stringsRows, err := loadStrings(stringsPath)
			if err != nil {
				return err
			}
			classifications, err := loadClassifications(classificationsPath)
			if err != nil {
				return err
			}
			slog.Debug("files parsed",
				"strings_rows", len(stringsRows),
				"classifications_rows", len(classifications),
			)

			result := core.Validate(stringsRows, classifications)
			if err := renderValidation(cmd.OutOrStdout(), result, format); err != nil {
				return err
			}
			if !result.IsValid() {
				return ErrInvalidRows
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stringsPath, "strings", "s", "", "strings CSV file")
	cmd.Flags().StringVarP(&classificationsPath, "classifications", "c", "", "classifications CSV file")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, markdown")
	_ = cmd.MarkFlagRequired("strings")
	_ = cmd.MarkFlagRequired("classifications")
	return cmd
}

func renderValidation(w io.Writer, result core.ValidationResult, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	sum := result.Summary
	if result.IsValid() {
		_, _ = fmt.Fprintf(w, "All %d rows are valid.\n", sum.TotalRows)
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Row", "Field", "Value", "Message"})
	for _, e := range result.Errors {
		t.AppendRow(table.Row{e.Row, e.Field, strconv.Quote(e.Value), e.Message})
	}
	t.AppendFooter(table.Row{"", "", "Invalid rows", fmt.Sprintf("%d of %d", sum.InvalidRows, sum.TotalRows)})
	render(t, format)
	return nil
}
