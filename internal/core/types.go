package core

import "encoding/json"

// Schema identifies which of the two dataset layouts a file or row follows.
type Schema string

const (
	SchemaStrings         Schema = "strings"
	SchemaClassifications Schema = "classifications"
)

// RawRow is one untyped row: column header -> raw cell value.
// Only the Row Parser turns a RawRow into a typed row.
type RawRow map[string]string

// RawTable is decoded tabular input with its header in file order.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// StringsRow is one fuzzing/prompt entry. JSON keys match the CSV headers.
type StringsRow struct {
	Tier       string `json:"Tier"`
	Industry   string `json:"Industry"`
	Topic      string `json:"Topic"`
	Subtopic   string `json:"Subtopic"`
	Prefix     string `json:"Prefix"`
	FuzzingIdx string `json:"Fuzzing-Idx"`
	Prompt     string `json:"Prompt"`
	Risks      string `json:"Risks"`
	Keywords   string `json:"Keywords"`
}

// ClassificationsRow is one catalog entry: an allowed
// (Topic, SubTopic, Industry) combination and its label.
type ClassificationsRow struct {
	Topic          string `json:"Topic"`
	SubTopic       string `json:"SubTopic"`
	Industry       string `json:"Industry"`
	Classification string `json:"Classification"`
}

// ValidationError describes one problem found in a strings row.
type ValidationError struct {
	Row     int    `json:"row"`     // 1-based row number in the strings dataset
	Field   string `json:"field"`   // Field name, or a composite label for combination errors
	Value   string `json:"value"`   // Raw (untrimmed) offending value
	Message string `json:"message"` // Human-readable reason
}

// ValidationSummary holds the aggregate counts for a validation pass.
type ValidationSummary struct {
	TotalRows         int   `json:"totalRows"`
	ValidRows         int   `json:"validRows"`
	InvalidRows       int   `json:"invalidRows"`
	InvalidRowNumbers []int `json:"invalidRowNumbers"`
}

// ValidationResult is the outcome of checking a strings dataset against a
// classification catalog. Build it with NewValidationResult; validity is
// always derived from the error list and never stored.
type ValidationResult struct {
	Errors  []ValidationError
	Summary ValidationSummary
}

// NewValidationResult derives the summary from the error list.
// Row numbers keep their order of first appearance.
func NewValidationResult(totalRows int, errs []ValidationError) ValidationResult {
	if errs == nil {
		errs = []ValidationError{}
	}

	seen := make(map[int]struct{}, len(errs))
	invalid := []int{}
	for _, e := range errs {
		if _, ok := seen[e.Row]; ok {
			continue
		}
		seen[e.Row] = struct{}{}
		invalid = append(invalid, e.Row)
	}

	return ValidationResult{
		Errors: errs,
		Summary: ValidationSummary{
			TotalRows:         totalRows,
			ValidRows:         totalRows - len(invalid),
			InvalidRows:       len(invalid),
			InvalidRowNumbers: invalid,
		},
	}
}

// IsValid reports whether no errors were found.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ErrorsForRow returns the errors recorded for a 1-based row number.
func (r ValidationResult) ErrorsForRow(row int) []ValidationError {
	var out []ValidationError
	for _, e := range r.Errors {
		if e.Row == row {
			out = append(out, e)
		}
	}
	return out
}

type validationResultJSON struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors"`
	Summary ValidationSummary `json:"summary"`
}

// MarshalJSON emits isValid computed from the error list.
func (r ValidationResult) MarshalJSON() ([]byte, error) {
	errs := r.Errors
	if errs == nil {
		errs = []ValidationError{}
	}
	summary := r.Summary
	if summary.InvalidRowNumbers == nil {
		summary.InvalidRowNumbers = []int{}
	}
	return json.Marshal(validationResultJSON{
		IsValid: len(errs) == 0,
		Errors:  errs,
		Summary: summary,
	})
}

// UnmarshalJSON reads a result produced by MarshalJSON. The isValid field is
// ignored; it is recomputed from errors.
func (r *ValidationResult) UnmarshalJSON(data []byte) error {
	var v validationResultJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Errors = v.Errors
	r.Summary = v.Summary
	return nil
}

// Combination is one catalog entry as given, used for UI suggestions.
type Combination struct {
	Topic          string `json:"topic"`
	Subtopic       string `json:"subtopic"`
	Industry       string `json:"industry"`
	Classification string `json:"classification"`
}

// AutocompleteIndex supports suggestion lists in the edit table.
type AutocompleteIndex struct {
	Combinations []Combination `json:"combinations"`
	Topics       []string      `json:"topics"`
	Subtopics    []string      `json:"subtopics"`
	Industries   []string      `json:"industries"`
}
