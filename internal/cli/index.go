package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// indexFields maps --field values to catalog accessors.
var indexFields = map[string]func(core.ClassificationsRow) string{
	"topic":          func(r core.ClassificationsRow) string { return r.Topic },
	"subtopic":       func(r core.ClassificationsRow) string { return r.SubTopic },
	"industry":       func(r core.ClassificationsRow) string { return r.Industry },
	"classification": func(r core.ClassificationsRow) string { return r.Classification },
}

func newIndexCmd() *cobra.Command {
	var (
		classificationsPath string
		field               string
		format              string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "List the combinations or distinct values of a classifications file",
		Example: `  csvcheck index -c classifications.csv
  csvcheck index -c classifications.csv --field industry`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			classifications, err := loadClassifications(classificationsPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if field == "" {
				return renderIndex(w, core.BuildAutocompleteIndex(classifications), format)
			}

			get, ok := indexFields[strings.ToLower(field)]
			if !ok {
				return fmt.Errorf("unknown field %q: use topic, subtopic, industry or classification", field)
			}
			return renderValues(w, field, core.UniqueValues(classifications, get), format)
		},
	}

	cmd.Flags().StringVarP(&classificationsPath, "classifications", "c", "", "classifications CSV file")
	cmd.Flags().StringVar(&field, "field", "", "list distinct non-empty values of one field")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, markdown")
	_ = cmd.MarkFlagRequired("classifications")
	return cmd
}

func renderIndex(w io.Writer, idx core.AutocompleteIndex, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(idx)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Topic", "Subtopic", "Industry", "Classification"})
	for _, c := range idx.Combinations {
		t.AppendRow(table.Row{c.Topic, c.Subtopic, c.Industry, c.Classification})
	}
	t.AppendFooter(table.Row{"", "", "Combinations", len(idx.Combinations)})
	render(t, format)
	return nil
}

func renderValues(w io.Writer, field string, values []string, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{field})
	for _, v := range values {
		t.AppendRow(table.Row{v})
	}
	render(t, format)
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func render(t table.Writer, format string) {
	if format == formatMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
