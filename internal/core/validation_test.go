package core

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testCatalog = []ClassificationsRow{
	{Topic: "Fraud", SubTopic: "Card", Industry: "Finance", Classification: "High"},
	{Topic: "Privacy", SubTopic: "Records", Industry: "Health", Classification: "Medium"},
}

func stringsRow(topic, subtopic, industry string) StringsRow {
	return StringsRow{Tier: "1", Topic: topic, Subtopic: subtopic, Industry: industry, Prompt: "p"}
}

func TestValidate_AllValid(t *testing.T) {
	rows := []StringsRow{
		stringsRow("Fraud", "Card", "Finance"),
		stringsRow("Privacy", "Records", "Health"),
	}

	got := Validate(rows, testCatalog)
	if !got.IsValid() {
		t.Fatalf("IsValid = false, errors = %+v", got.Errors)
	}
	want := ValidationSummary{TotalRows: 2, ValidRows: 2, InvalidRows: 0, InvalidRowNumbers: []int{}}
	if diff := cmp.Diff(want, got.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if got.Errors == nil {
		t.Error("Errors is nil, want empty slice")
	}
}

func TestValidate_CaseAndWhitespaceInsensitive(t *testing.T) {
	rows := []StringsRow{stringsRow("  fraud ", "CARD", " finance")}
	if got := Validate(rows, testCatalog); !got.IsValid() {
		t.Errorf("errors = %+v, want none", got.Errors)
	}
}

func TestValidate_UnknownCombination(t *testing.T) {
	rows := []StringsRow{
		stringsRow("Fraud", "Card", "Finance"),
		stringsRow("Fraud", "Records", "Finance"),
	}

	got := Validate(rows, testCatalog)
	want := []ValidationError{{
		Row:     2,
		Field:   CombinationField,
		Value:   "Fraud + Records + Finance",
		Message: "Combination does not exist in classifications data",
	}}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2}, got.Summary.InvalidRowNumbers); diff != "" {
		t.Errorf("InvalidRowNumbers mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EmptyFieldReportsBothErrors(t *testing.T) {
	rows := []StringsRow{stringsRow("Fraud", "  ", "")}

	got := Validate(rows, testCatalog)
	want := []ValidationError{
		{Row: 1, Field: CombinationField, Value: "Fraud +    + ", Message: "Combination does not exist in classifications data"},
		{Row: 1, Field: "Subtopic", Value: "  ", Message: "Subtopic cannot be empty"},
		{Row: 1, Field: "Industry", Value: "", Message: "Industry cannot be empty"},
	}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if got.Summary.InvalidRows != 1 || got.Summary.ValidRows != 0 {
		t.Errorf("summary = %+v, want one invalid row", got.Summary)
	}
}

func TestValidate_EmptyCatalog(t *testing.T) {
	rows := []StringsRow{stringsRow("Fraud", "Card", "Finance")}
	got := Validate(rows, nil)
	if got.IsValid() {
		t.Fatal("IsValid = true with an empty catalog")
	}
	if len(got.Errors) != 1 || got.Errors[0].Field != CombinationField {
		t.Errorf("errors = %+v, want one combination error", got.Errors)
	}
}

func TestValidate_NoStrings(t *testing.T) {
	got := Validate(nil, testCatalog)
	if !got.IsValid() {
		t.Errorf("errors = %+v, want none", got.Errors)
	}
	if got.Summary.TotalRows != 0 || got.Summary.InvalidRowNumbers == nil {
		t.Errorf("summary = %+v", got.Summary)
	}
}

func TestValidate_SummaryInvariant(t *testing.T) {
	rows := []StringsRow{
		stringsRow("", "", ""),
		stringsRow("Fraud", "Card", "Finance"),
		stringsRow("x", "y", "z"),
		stringsRow("Privacy", "Records", "Health"),
		stringsRow("Privacy", "", "Health"),
	}

	got := Validate(rows, testCatalog)
	sum := got.Summary
	if sum.ValidRows+sum.InvalidRows != sum.TotalRows {
		t.Errorf("valid %d + invalid %d != total %d", sum.ValidRows, sum.InvalidRows, sum.TotalRows)
	}
	if len(sum.InvalidRowNumbers) != sum.InvalidRows {
		t.Errorf("len(InvalidRowNumbers) = %d, want %d", len(sum.InvalidRowNumbers), sum.InvalidRows)
	}
	if diff := cmp.Diff([]int{1, 3, 5}, sum.InvalidRowNumbers); diff != "" {
		t.Errorf("InvalidRowNumbers mismatch (-want +got):\n%s", diff)
	}
	for _, e := range got.Errors {
		if e.Row < 1 || e.Row > len(rows) {
			t.Errorf("error row %d out of range", e.Row)
		}
	}
}

func TestValidate_Deterministic(t *testing.T) {
	rows := []StringsRow{
		stringsRow("x", "", "z"),
		stringsRow("Fraud", "Card", "Finance"),
	}
	first := Validate(rows, testCatalog)
	second := Validate(rows, testCatalog)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeat validation differs (-first +second):\n%s", diff)
	}
}

func TestValidate_SeparatorCollision(t *testing.T) {
	catalog := []ClassificationsRow{{Topic: "a|b", SubTopic: "c", Industry: "d"}}
	rows := []StringsRow{stringsRow("a", "b|c", "d")}

	// Parts are joined without escaping, so these distinct triples share a key.
	if got := Validate(rows, catalog); !got.IsValid() {
		t.Errorf("errors = %+v, want the colliding key to match", got.Errors)
	}
}

func TestValidateSingleRow_MatchesValidate(t *testing.T) {
	rows := []StringsRow{
		stringsRow("Fraud", "Card", "Finance"),
		stringsRow("Fraud", "", "Retail"),
		stringsRow(" ", "Records", "Health"),
	}
	full := Validate(rows, testCatalog)
	set := BuildCombinationSet(testCatalog)

	for i, row := range rows {
		got := ValidateSingleRow(row, i, set)
		want := full.ErrorsForRow(i + 1)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("row %d mismatch (-Validate +ValidateSingleRow):\n%s", i+1, diff)
		}
	}
}

func TestValidateSingleRow_ValidIsNil(t *testing.T) {
	set := BuildCombinationSet(testCatalog)
	if errs := ValidateSingleRow(stringsRow("fraud", "card", "finance"), 4, set); errs != nil {
		t.Errorf("errs = %+v, want nil", errs)
	}
}

func TestNewCombinationKey(t *testing.T) {
	a := NewCombinationKey(" Fraud", "CARD ", "finance")
	b := NewCombinationKey("fraud", "card", "FINANCE")
	if a != b {
		t.Errorf("%q != %q", a, b)
	}
	if a != "fraud|card|finance" {
		t.Errorf("key = %q", a)
	}
}

func TestNewValidationResult_FirstAppearanceOrder(t *testing.T) {
	errs := []ValidationError{{Row: 4}, {Row: 2}, {Row: 4}, {Row: 7}}
	got := NewValidationResult(10, errs)
	if diff := cmp.Diff([]int{4, 2, 7}, got.Summary.InvalidRowNumbers); diff != "" {
		t.Errorf("InvalidRowNumbers mismatch (-want +got):\n%s", diff)
	}
	if got.Summary.ValidRows != 7 {
		t.Errorf("ValidRows = %d, want 7", got.Summary.ValidRows)
	}
}

func TestValidationResult_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(ValidationResult{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"isValid":true,"errors":[],"summary":{"totalRows":0,"validRows":0,"invalidRows":0,"invalidRowNumbers":[]}}`
	if string(data) != want {
		t.Errorf("json = %s\nwant  %s", data, want)
	}

	invalid := Validate([]StringsRow{stringsRow("x", "y", "z")}, testCatalog)
	data, err = json.Marshal(invalid)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back ValidationResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.IsValid() {
		t.Error("decoded result reports valid")
	}
	if diff := cmp.Diff(invalid, back); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAutocompleteIndex(t *testing.T) {
	catalog := []ClassificationsRow{
		{Topic: "Privacy", SubTopic: "Records", Industry: "Health", Classification: "Medium"},
		{Topic: "Fraud", SubTopic: "Card", Industry: "Finance", Classification: "High"},
		{Topic: "Fraud", SubTopic: "", Industry: "Finance", Classification: "Low"},
	}

	got := BuildAutocompleteIndex(catalog)
	want := AutocompleteIndex{
		Combinations: []Combination{
			{Topic: "Privacy", Subtopic: "Records", Industry: "Health", Classification: "Medium"},
			{Topic: "Fraud", Subtopic: "Card", Industry: "Finance", Classification: "High"},
			{Topic: "Fraud", Subtopic: "", Industry: "Finance", Classification: "Low"},
		},
		Topics:     []string{"Fraud", "Privacy"},
		Subtopics:  []string{"", "Card", "Records"},
		Industries: []string{"Finance", "Health"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAutocompleteIndex_Empty(t *testing.T) {
	data, err := json.Marshal(BuildAutocompleteIndex(nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"combinations":[],"topics":[],"subtopics":[],"industries":[]}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestUniqueValues(t *testing.T) {
	got := UniqueValues(testCatalog, func(r ClassificationsRow) string { return r.Classification })
	if diff := cmp.Diff([]string{"High", "Medium"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	withBlank := append([]ClassificationsRow{{Industry: ""}, {Industry: "Finance"}}, testCatalog...)
	got = UniqueValues(withBlank, func(r ClassificationsRow) string { return r.Industry })
	if diff := cmp.Diff([]string{"Finance", "Health"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
