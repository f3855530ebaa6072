package core

// parse.go is the Row Parser: the only path from untyped rows to typed rows.
//
// Each logical field in a FieldSpec table is resolved to one source column.
// Resolution fails only when no column matches; a matched column whose value
// is empty is legal and left for validation to judge.

import (
	"sort"
	"strings"
)

// columnResolver maps logical field names to source column names.
type columnResolver struct {
	byName  map[string]bool   // exact column names present
	byLower map[string]string // trimmed lowercase name -> column name
}

// newColumnResolver indexes columns in order; with duplicate normalized
// names the later column wins.
func newColumnResolver(columns []string) columnResolver {
	r := columnResolver{
		byName:  make(map[string]bool, len(columns)),
		byLower: make(map[string]string, len(columns)),
	}
	for _, col := range columns {
		r.byName[col] = true
		r.byLower[strings.ToLower(strings.TrimSpace(col))] = col
	}
	return r
}

// resolve returns the source column for spec, trying every alias exactly
// and then case- and trim-insensitively before moving to the next alias.
func (r columnResolver) resolve(spec FieldSpec) (string, bool) {
	for _, alias := range spec.Aliases {
		if r.byName[alias] {
			return alias, true
		}
		if col, ok := r.byLower[strings.ToLower(alias)]; ok {
			return col, true
		}
	}
	return "", false
}

// bind resolves every spec, returning the source column per spec in order
// plus the logical names that could not be found.
func (r columnResolver) bind(specs []FieldSpec) ([]string, []string) {
	cols := make([]string, len(specs))
	var missing []string
	for i, spec := range specs {
		col, ok := r.resolve(spec)
		if !ok {
			missing = append(missing, spec.Name)
			continue
		}
		cols[i] = col
	}
	return cols, missing
}

// rowColumns lists a row's keys in a stable order.
func rowColumns(row RawRow) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// extract reads the bound columns of one row as canonical values.
func extract(row RawRow, cols []string) []string {
	vals := make([]string, len(cols))
	for i, col := range cols {
		vals[i] = canonicalValue(row[col])
	}
	return vals
}

// canonicalValue trims v and turns CRLF line breaks into LF, the form
// Decode returns for quoted multi-line fields. Repeated until stable so
// "\r\r\n" ends as "\n" too.
func canonicalValue(v string) string {
	for strings.Contains(v, "\r\n") {
		v = strings.ReplaceAll(v, "\r\n", "\n")
	}
	return strings.TrimSpace(v)
}

func stringsRowFrom(v []string) StringsRow {
	return StringsRow{
		Tier:       v[0],
		Industry:   v[1],
		Topic:      v[2],
		Subtopic:   v[3],
		Prefix:     v[4],
		FuzzingIdx: v[5],
		Prompt:     v[6],
		Risks:      v[7],
		Keywords:   v[8],
	}
}

func classificationsRowFrom(v []string) ClassificationsRow {
	return ClassificationsRow{
		Topic:          v[0],
		SubTopic:       v[1],
		Industry:       v[2],
		Classification: v[3],
	}
}

// parseRows checks every row's own keys and converts it.
// A nil input yields a nil result so callers can tell "absent" from "empty".
func parseRows[T any](schema Schema, rows []RawRow, build func([]string) T) ([]T, error) {
	if rows == nil {
		return nil, nil
	}
	specs := FieldSpecs(schema)
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		available := rowColumns(row)
		cols, missing := newColumnResolver(available).bind(specs)
		if len(missing) > 0 {
			return nil, &SchemaError{Schema: schema, Missing: missing, Available: available, Row: i + 1}
		}
		out = append(out, build(extract(row, cols)))
	}
	return out, nil
}

// parseTable checks the header once, so a file with no data rows still
// reports missing columns.
func parseTable[T any](schema Schema, t RawTable, build func([]string) T) ([]T, error) {
	cols, missing := newColumnResolver(t.Columns).bind(FieldSpecs(schema))
	if len(missing) > 0 {
		available := append([]string(nil), t.Columns...)
		if available == nil {
			available = []string{}
		}
		return nil, &SchemaError{Schema: schema, Missing: missing, Available: available}
	}
	out := make([]T, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, build(extract(row, cols)))
	}
	return out, nil
}

// ParseStrings converts untyped rows into StringsRows.
func ParseStrings(rows []RawRow) ([]StringsRow, error) {
	return parseRows(SchemaStrings, rows, stringsRowFrom)
}

// ParseClassifications converts untyped rows into ClassificationsRows.
func ParseClassifications(rows []RawRow) ([]ClassificationsRow, error) {
	return parseRows(SchemaClassifications, rows, classificationsRowFrom)
}

// ParseStringsTable converts a decoded strings file into StringsRows.
func ParseStringsTable(t RawTable) ([]StringsRow, error) {
	return parseTable(SchemaStrings, t, stringsRowFrom)
}

// ParseClassificationsTable converts a decoded classifications file into ClassificationsRows.
func ParseClassificationsTable(t RawTable) ([]ClassificationsRow, error) {
	return parseTable(SchemaClassifications, t, classificationsRowFrom)
}
