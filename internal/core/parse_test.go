package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fullStringsRaw() RawRow {
	return RawRow{
		"Tier":        "1",
		"Industry":    "Finance",
		"Topic":       "Fraud",
		"Subtopic":    "Card",
		"Prefix":      "p",
		"Fuzzing-Idx": "3",
		"Prompt":      "hello",
		"Risks":       "r",
		"Keywords":    "k",
	}
}

func TestParseStrings_CanonicalHeaders(t *testing.T) {
	got, err := ParseStrings([]RawRow{fullStringsRaw()})
	if err != nil {
		t.Fatalf("ParseStrings: %v", err)
	}
	want := []StringsRow{{
		Tier: "1", Industry: "Finance", Topic: "Fraud", Subtopic: "Card",
		Prefix: "p", FuzzingIdx: "3", Prompt: "hello", Risks: "r", Keywords: "k",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStrings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStrings_Aliases(t *testing.T) {
	row := RawRow{
		"TIER":        "2",
		"industry":    " Health ",
		"Topic":       "Privacy",
		"sub_topic":   "Records",
		"prefix":      "",
		"fuzzing_idx": "7",
		"PROMPT":      "x",
		"risk":        "leak",
		"keyword":     "phi",
	}

	got, err := ParseStrings([]RawRow{row})
	if err != nil {
		t.Fatalf("ParseStrings: %v", err)
	}
	want := StringsRow{
		Tier: "2", Industry: "Health", Topic: "Privacy", Subtopic: "Records",
		Prefix: "", FuzzingIdx: "7", Prompt: "x", Risks: "leak", Keywords: "phi",
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("alias mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStrings_CaseAndWhitespaceInHeader(t *testing.T) {
	row := fullStringsRaw()
	delete(row, "Subtopic")
	row["  SubTopic "] = "Wire"

	got, err := ParseStrings([]RawRow{row})
	if err != nil {
		t.Fatalf("ParseStrings: %v", err)
	}
	if got[0].Subtopic != "Wire" {
		t.Errorf("Subtopic = %q, want Wire", got[0].Subtopic)
	}
}

func TestParseStrings_ExactMatchPreferred(t *testing.T) {
	row := fullStringsRaw()
	row["topic"] = "lower"

	got, err := ParseStrings([]RawRow{row})
	if err != nil {
		t.Fatalf("ParseStrings: %v", err)
	}
	if got[0].Topic != "lower" {
		t.Errorf("Topic = %q, want the exact \"topic\" column", got[0].Topic)
	}
}

func TestParseStrings_MissingColumn(t *testing.T) {
	row := fullStringsRaw()
	delete(row, "Risks")

	_, err := ParseStrings([]RawRow{fullStringsRaw(), row})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
	if se.Schema != SchemaStrings {
		t.Errorf("Schema = %q, want strings", se.Schema)
	}
	if diff := cmp.Diff([]string{"Risks"}, se.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if se.Row != 2 {
		t.Errorf("Row = %d, want 2", se.Row)
	}
	for _, col := range se.Available {
		if col == "Risks" {
			t.Errorf("Available lists Risks: %v", se.Available)
		}
	}
}

func TestParseStrings_EmptyValueIsLegal(t *testing.T) {
	row := fullStringsRaw()
	row["Topic"] = "   "

	got, err := ParseStrings([]RawRow{row})
	if err != nil {
		t.Fatalf("ParseStrings: %v", err)
	}
	if got[0].Topic != "" {
		t.Errorf("Topic = %q, want empty after trim", got[0].Topic)
	}
}

func TestParseStrings_LineBreaksNormalized(t *testing.T) {
	tests := map[string]string{
		"line one\r\nline two":   "line one\nline two",
		"a\r\r\nb":               "a\nb",
		"a\rb":                   "a\rb",
		"  first\r\nsecond\r\n ": "first\nsecond",
	}
	for in, want := range tests {
		row := fullStringsRaw()
		row["Prompt"] = in

		got, err := ParseStrings([]RawRow{row})
		if err != nil {
			t.Fatalf("ParseStrings: %v", err)
		}
		if got[0].Prompt != want {
			t.Errorf("Prompt from %q = %q, want %q", in, got[0].Prompt, want)
		}
	}
}

func TestParse_NilAndEmpty(t *testing.T) {
	s, err := ParseStrings(nil)
	if err != nil || s != nil {
		t.Errorf("ParseStrings(nil) = %v, %v; want nil, nil", s, err)
	}
	s, err = ParseStrings([]RawRow{})
	if err != nil || s == nil || len(s) != 0 {
		t.Errorf("ParseStrings(empty) = %#v, %v; want empty non-nil", s, err)
	}

	c, err := ParseClassifications(nil)
	if err != nil || c != nil {
		t.Errorf("ParseClassifications(nil) = %v, %v; want nil, nil", c, err)
	}
	c, err = ParseClassifications([]RawRow{})
	if err != nil || c == nil || len(c) != 0 {
		t.Errorf("ParseClassifications(empty) = %#v, %v; want empty non-nil", c, err)
	}
}

func TestParseClassifications(t *testing.T) {
	rows := []RawRow{
		{"topic": " Fraud", "Sub-Topic": "Card", "INDUSTRY": "Finance", "Classification": "High"},
		{"Topic": "Privacy", "sub topic": "Records", "Industry": "Health", "classification": ""},
	}

	got, err := ParseClassifications(rows)
	if err != nil {
		t.Fatalf("ParseClassifications: %v", err)
	}
	want := []ClassificationsRow{
		{Topic: "Fraud", SubTopic: "Card", Industry: "Finance", Classification: "High"},
		{Topic: "Privacy", SubTopic: "Records", Industry: "Health", Classification: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseClassifications mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassifications_MissingColumns(t *testing.T) {
	_, err := ParseClassifications([]RawRow{{"Topic": "a", "Industry": "b"}})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
	if diff := cmp.Diff([]string{"SubTopic", "Classification"}, se.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Industry", "Topic"}, se.Available); diff != "" {
		t.Errorf("Available mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStringsTable_HeaderOnlyMissingColumn(t *testing.T) {
	table := RawTable{
		Columns: []string{"Tier", "Industry", "Topic", "Subtopic", "Prefix", "Fuzzing-Idx", "Prompt", "Keywords"},
		Rows:    []RawRow{},
	}

	_, err := ParseStringsTable(table)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
	if se.Row != 0 {
		t.Errorf("Row = %d, want 0 for a header check", se.Row)
	}
	want := "missing required columns in strings CSV: Risks. Available columns: " +
		"Tier, Industry, Topic, Subtopic, Prefix, Fuzzing-Idx, Prompt, Keywords"
	if se.Error() != want {
		t.Errorf("Error() = %q, want %q", se.Error(), want)
	}
}

func TestParseClassificationsTable(t *testing.T) {
	table := RawTable{
		Columns: []string{"Topic", "SubTopic", "Industry", "Classification"},
		Rows: []RawRow{
			{"Topic": "Fraud", "SubTopic": " Card ", "Industry": "Finance", "Classification": "High"},
		},
	}

	got, err := ParseClassificationsTable(table)
	if err != nil {
		t.Fatalf("ParseClassificationsTable: %v", err)
	}
	want := []ClassificationsRow{{Topic: "Fraud", SubTopic: "Card", Industry: "Finance", Classification: "High"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTable_EmptyTableIsNotNil(t *testing.T) {
	table := RawTable{Columns: ClassificationsHeader, Rows: []RawRow{}}
	got, err := ParseClassificationsTable(table)
	if err != nil {
		t.Fatalf("ParseClassificationsTable: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}
