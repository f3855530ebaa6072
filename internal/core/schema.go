package core

// FieldSpec defines one logical column of a dataset and the header
// spellings accepted for it. Aliases are tried in order; each alias is
// matched exactly first, then case-insensitively with surrounding
// whitespace ignored.
type FieldSpec struct {
	Name    string   // Logical field name, also the export header label
	Aliases []string // Accepted header spellings
}

// StringsFieldSpecs lists the strings dataset columns in export order.
// New spellings are a table edit.
var StringsFieldSpecs = []FieldSpec{
	{Name: "Tier", Aliases: []string{"tier", "Tier", "TIER"}},
	{Name: "Industry", Aliases: []string{"industry", "Industry", "INDUSTRY"}},
	{Name: "Topic", Aliases: []string{"topic", "Topic", "TOPIC"}},
	{Name: "Subtopic", Aliases: []string{"subtopic", "Subtopic", "SUBTOPIC", "sub_topic", "Sub_Topic", "sub-topic", "sub topic"}},
	{Name: "Prefix", Aliases: []string{"prefix", "Prefix", "PREFIX"}},
	{Name: "Fuzzing-Idx", Aliases: []string{"fuzzing-idx", "Fuzzing-Idx", "FUZZING-IDX", "fuzzing_idx", "Fuzzing_Idx", "fuzzing idx"}},
	{Name: "Prompt", Aliases: []string{"prompt", "Prompt", "PROMPT"}},
	{Name: "Risks", Aliases: []string{"risks", "Risks", "RISKS", "risk", "Risk"}},
	{Name: "Keywords", Aliases: []string{"keywords", "Keywords", "KEYWORDS", "keyword", "Keyword"}},
}

// ClassificationsFieldSpecs lists the classifications dataset columns in export order.
var ClassificationsFieldSpecs = []FieldSpec{
	{Name: "Topic", Aliases: []string{"topic", "Topic", "TOPIC"}},
	{Name: "SubTopic", Aliases: []string{"subtopic", "SubTopic", "SUBTOPIC", "sub_topic", "Sub_Topic", "sub-topic", "sub topic"}},
	{Name: "Industry", Aliases: []string{"industry", "Industry", "INDUSTRY"}},
	{Name: "Classification", Aliases: []string{"classification", "Classification", "CLASSIFICATION"}},
}

// StringsHeader is the fixed header order for exported strings files.
var StringsHeader = fieldNames(StringsFieldSpecs)

// ClassificationsHeader is the fixed header order for exported classifications files.
var ClassificationsHeader = fieldNames(ClassificationsFieldSpecs)

// FieldSpecs returns the column table for a schema.
func FieldSpecs(s Schema) []FieldSpec {
	switch s {
	case SchemaStrings:
		return StringsFieldSpecs
	case SchemaClassifications:
		return ClassificationsFieldSpecs
	default:
		return nil
	}
}

func fieldNames(specs []FieldSpec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

// Values returns the row's cells in StringsHeader order.
func (r StringsRow) Values() []string {
	return []string{r.Tier, r.Industry, r.Topic, r.Subtopic, r.Prefix, r.FuzzingIdx, r.Prompt, r.Risks, r.Keywords}
}

// Values returns the row's cells in ClassificationsHeader order.
func (r ClassificationsRow) Values() []string {
	return []string{r.Topic, r.SubTopic, r.Industry, r.Classification}
}
