package metadata

import (
	"fmt"
	"strings"

	"gnnreport/domain/core"
)

// FieldType classifies a stand attribute
type FieldType string

const (
	FieldContinuous  FieldType = "CONTINUOUS"
	FieldCategorical FieldType = "CATEGORICAL"
	FieldCharacter   FieldType = "CHARACTER"
	FieldID          FieldType = "ID"
)

// Flag selects attributes by their metadata properties. Flags combine with
// bitwise OR; an attribute matches when it satisfies every flag set.
type Flag uint8

const (
	Continuous Flag = 1 << iota
	Categorical
	Character
	Project
	Accuracy
	Species
	NotSpecies
)

// Code is one categorical code definition for an attribute
type Code struct {
	Value       string `json:"code_value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// FuzzyClass declares that predictions of FuzzyClass count as fuzzy-correct
// for observations of OriginalClass
type FuzzyClass struct {
	OriginalClass string `json:"original_class"`
	FuzzyClass    string `json:"fuzzy_class"`
}

// Attribute is one stand attribute from the metadata dictionary
type Attribute struct {
	FieldName        string       `json:"field_name"`
	FieldType        FieldType    `json:"field_type"`
	Units            string       `json:"units"`
	Description      string       `json:"description"`
	ShortDescription string       `json:"short_description"`
	Codes            []Code       `json:"codes,omitempty"`
	FuzzyClasses     []FuzzyClass `json:"fuzzy_classes,omitempty"`
	ProjectAttr      bool         `json:"project_attr"`
	AccuracyAttr     bool         `json:"accuracy_attr"`
	SpeciesAttr      bool         `json:"species_attr"`
}

func (a Attribute) IsContinuous() bool  { return a.FieldType == FieldContinuous }
func (a Attribute) IsCategorical() bool { return a.FieldType == FieldCategorical }
func (a Attribute) IsCharacter() bool   { return a.FieldType == FieldCharacter }
func (a Attribute) IsProject() bool     { return a.ProjectAttr }
func (a Attribute) IsAccuracy() bool    { return a.AccuracyAttr }
func (a Attribute) IsSpecies() bool     { return a.SpeciesAttr }

// Matches reports whether the attribute satisfies every flag in f
func (a Attribute) Matches(f Flag) bool {
	if f&Continuous != 0 && !a.IsContinuous() {
		return false
	}
	if f&Categorical != 0 && !a.IsCategorical() {
		return false
	}
	if f&Character != 0 && !a.IsCharacter() {
		return false
	}
	if f&Project != 0 && !a.IsProject() {
		return false
	}
	if f&Accuracy != 0 && !a.IsAccuracy() {
		return false
	}
	if f&Species != 0 && !a.IsSpecies() {
		return false
	}
	if f&NotSpecies != 0 && a.IsSpecies() {
		return false
	}
	return true
}

// CodeLabels returns the code labels in their defined order
func (a Attribute) CodeLabels() []string {
	labels := make([]string, len(a.Codes))
	for i, c := range a.Codes {
		labels[i] = c.Label
	}
	return labels
}

// CodeValues returns the code values in their defined order
func (a Attribute) CodeValues() []string {
	values := make([]string, len(a.Codes))
	for i, c := range a.Codes {
		values[i] = c.Value
	}
	return values
}

// UnitsSuffix returns " (units)" for display, or "" when units are none
func (a Attribute) UnitsSuffix() string {
	if a.Units == "" || strings.EqualFold(a.Units, "none") {
		return ""
	}
	return " (" + a.Units + ")"
}

// FuzzyIndexSets converts the explicit fuzzy-class declarations to 0-based
// class index sets. Class indexes are the positions of original-class values
// in their first-seen order. Returns nil when no explicit classes exist, in
// which case the default adjacency window applies.
func (a Attribute) FuzzyIndexSets() map[int][]int {
	if len(a.FuzzyClasses) == 0 {
		return nil
	}
	crosswalk := make(map[string]int)
	order := 0
	for _, fc := range a.FuzzyClasses {
		if _, seen := crosswalk[fc.OriginalClass]; !seen {
			crosswalk[fc.OriginalClass] = order
			order++
		}
	}
	sets := make(map[int][]int, order)
	for _, fc := range a.FuzzyClasses {
		orig := crosswalk[fc.OriginalClass]
		fuzzy, ok := crosswalk[fc.FuzzyClass]
		if !ok {
			continue
		}
		sets[orig] = append(sets[orig], fuzzy)
	}
	return sets
}

// StandMetadata is the parsed attribute dictionary for a model region
type StandMetadata struct {
	Attributes []Attribute `json:"attributes"`
}

// Attribute looks up an attribute by field name, case-insensitively
func (m *StandMetadata) Attribute(fieldName string) (Attribute, error) {
	for _, a := range m.Attributes {
		if strings.EqualFold(a.FieldName, fieldName) {
			return a, nil
		}
	}
	return Attribute{}, fmt.Errorf("%w %s", core.ErrAttributeUnknown, fieldName)
}

// Filter returns the attributes matching every flag in f, in metadata order
func (m *StandMetadata) Filter(f Flag) []Attribute {
	var out []Attribute
	for _, a := range m.Attributes {
		if a.Matches(f) {
			out = append(out, a)
		}
	}
	return out
}
