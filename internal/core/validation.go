package core

// validation.go is the cross-dataset validation engine.
//
// A strings row is valid when its (Topic, Subtopic, Industry) triple exists
// in the classification catalog and none of those three fields is blank.
// Comparison is case-insensitive and ignores surrounding whitespace; error
// values always carry the raw input.
//
// Rules run per row in a fixed order:
//  1. Combination check against the catalog
//  2. Topic, Subtopic, Industry emptiness, in that order
//
// A blank field fails both its emptiness check and the combination check.
// Both errors are reported.

import (
	"fmt"
	"sort"
	"strings"
)

// CombinationField is the field label used for catalog mismatches.
const CombinationField = "Topic + SubTopic + Industry"

// combinationSeparator joins key parts. Occurrences inside a field are not
// escaped, so two distinct triples containing '|' can collide.
const combinationSeparator = "|"

const combinationMessage = "Combination does not exist in classifications data"

// CombinationKey is the normalized (topic, subtopic, industry) triple.
type CombinationKey string

// NewCombinationKey lowercases and trims each part and joins them.
func NewCombinationKey(topic, subtopic, industry string) CombinationKey {
	return CombinationKey(normalizePart(topic) + combinationSeparator +
		normalizePart(subtopic) + combinationSeparator +
		normalizePart(industry))
}

func normalizePart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CombinationSet is the set of allowed combination keys. It is read-only
// once built and safe to share across goroutines.
type CombinationSet map[CombinationKey]struct{}

// BuildCombinationSet collects the normalized keys of every catalog row.
func BuildCombinationSet(classifications []ClassificationsRow) CombinationSet {
	set := make(CombinationSet, len(classifications))
	for _, c := range classifications {
		set[NewCombinationKey(c.Topic, c.SubTopic, c.Industry)] = struct{}{}
	}
	return set
}

// Contains reports whether key is in the set.
func (s CombinationSet) Contains(key CombinationKey) bool {
	_, ok := s[key]
	return ok
}

// Validate checks every strings row against the catalog.
func Validate(stringsRows []StringsRow, classifications []ClassificationsRow) ValidationResult {
	set := BuildCombinationSet(classifications)

	errs := []ValidationError{}
	for i, row := range stringsRows {
		errs = append(errs, ValidateSingleRow(row, i, set)...)
	}

	return NewValidationResult(len(stringsRows), errs)
}

// ValidateSingleRow applies the full rule set to one row. rowIndex is
// 0-based; reported row numbers are rowIndex+1. The output matches what
// Validate reports for the same row.
func ValidateSingleRow(row StringsRow, rowIndex int, set CombinationSet) []ValidationError {
	var errs []ValidationError
	rowNumber := rowIndex + 1

	if !set.Contains(NewCombinationKey(row.Topic, row.Subtopic, row.Industry)) {
		errs = append(errs, ValidationError{
			Row:     rowNumber,
			Field:   CombinationField,
			Value:   fmt.Sprintf("%s + %s + %s", row.Topic, row.Subtopic, row.Industry),
			Message: combinationMessage,
		})
	}

	required := []struct {
		name  string
		value string
	}{
		{"Topic", row.Topic},
		{"Subtopic", row.Subtopic},
		{"Industry", row.Industry},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, ValidationError{
				Row:     rowNumber,
				Field:   f.name,
				Value:   f.value,
				Message: f.name + " cannot be empty",
			})
		}
	}

	return errs
}

// BuildAutocompleteIndex lists catalog combinations as given and the sorted
// distinct raw values for each component.
func BuildAutocompleteIndex(classifications []ClassificationsRow) AutocompleteIndex {
	idx := AutocompleteIndex{
		Combinations: make([]Combination, 0, len(classifications)),
	}

	topics := make([]string, 0, len(classifications))
	subtopics := make([]string, 0, len(classifications))
	industries := make([]string, 0, len(classifications))
	for _, c := range classifications {
		idx.Combinations = append(idx.Combinations, Combination{
			Topic:          c.Topic,
			Subtopic:       c.SubTopic,
			Industry:       c.Industry,
			Classification: c.Classification,
		})
		topics = append(topics, c.Topic)
		subtopics = append(subtopics, c.SubTopic)
		industries = append(industries, c.Industry)
	}

	idx.Topics = sortedDistinct(topics, false)
	idx.Subtopics = sortedDistinct(subtopics, false)
	idx.Industries = sortedDistinct(industries, false)
	return idx
}

// UniqueValues returns the sorted distinct non-empty values of one field.
func UniqueValues[T any](rows []T, field func(T) string) []string {
	vals := make([]string, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, field(r))
	}
	return sortedDistinct(vals, true)
}

func sortedDistinct(vals []string, skipEmpty bool) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if skipEmpty && v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
