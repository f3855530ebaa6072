package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Decode reads CSV input into a RawTable. The first record is the header;
// blank lines are skipped. Every record must have as many fields as the
// header. Empty input yields a table with no columns.
func Decode(r io.Reader) (RawTable, error) {
	reader := csv.NewReader(NewCleanReader(r))
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return RawTable{Columns: []string{}, Rows: []RawRow{}}, nil
	}
	if err != nil {
		return RawTable{}, &ParseError{Err: err}
	}

	t := RawTable{Columns: header, Rows: []RawRow{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawTable{}, &ParseError{Err: err}
		}

		row := make(RawRow, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// DecodeBytes is Decode over an in-memory file, tagging errors with schema.
func DecodeBytes(data []byte, schema Schema) (RawTable, error) {
	t, err := Decode(bytes.NewReader(data))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Schema = schema
		}
		return RawTable{}, err
	}
	return t, nil
}

// encode writes header then one record per row.
func encode(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write rows: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeStrings writes rows as CSV with StringsHeader.
func EncodeStrings(rows []StringsRow) ([]byte, error) {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r.Values()
	}
	return encode(StringsHeader, records)
}

// EncodeClassifications writes rows as CSV with ClassificationsHeader.
func EncodeClassifications(rows []ClassificationsRow) ([]byte, error) {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r.Values()
	}
	return encode(ClassificationsHeader, records)
}
