package xmlmeta

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"

	"gnnreport/domain/metadata"
)

// StandMetadataReader parses the stand-attribute dictionary XML
type StandMetadataReader struct {
	filePath string
}

// NewStandMetadataReader creates a reader for a stand metadata file
func NewStandMetadataReader(filePath string) *StandMetadataReader {
	return &StandMetadataReader{filePath: filePath}
}

type xmlStandMetadata struct {
	XMLName    xml.Name       `xml:"stand_metadata"`
	Attributes []xmlAttribute `xml:"attributes>attribute"`
}

type xmlAttribute struct {
	FieldName        string          `xml:"field_name"`
	FieldType        string          `xml:"field_type"`
	Units            string          `xml:"units"`
	Description      string          `xml:"description"`
	ShortDescription string          `xml:"short_description"`
	ProjectAttr      string          `xml:"project_attr"`
	AccuracyAttr     string          `xml:"accuracy_attr"`
	SpeciesAttr      string          `xml:"species_attr"`
	Codes            []xmlCode       `xml:"codes>code"`
	FuzzyClasses     []xmlFuzzyClass `xml:"fuzzy_classes>fuzzy_class"`
}

type xmlCode struct {
	Value       string `xml:"code_value"`
	Label       string `xml:"label"`
	Description string `xml:"description"`
}

type xmlFuzzyClass struct {
	OriginalClass string `xml:"original_class"`
	FuzzyClass    string `xml:"fuzzy_class"`
}

// Read parses the file into domain metadata
func (r *StandMetadataReader) Read() (*metadata.StandMetadata, error) {
	log.Printf("[StandMetadata] Reading attribute dictionary: %s", r.filePath)

	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stand metadata: %w", err)
	}

	var doc xmlStandMetadata
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse stand metadata XML: %w", err)
	}

	md := &metadata.StandMetadata{
		Attributes: make([]metadata.Attribute, 0, len(doc.Attributes)),
	}
	for _, a := range doc.Attributes {
		md.Attributes = append(md.Attributes, toDomainAttribute(a))
	}

	log.Printf("[StandMetadata] Parsed %d attributes", len(md.Attributes))
	return md, nil
}

func toDomainAttribute(a xmlAttribute) metadata.Attribute {
	attr := metadata.Attribute{
		FieldName:        a.FieldName,
		FieldType:        metadata.FieldType(a.FieldType),
		Units:            a.Units,
		Description:      a.Description,
		ShortDescription: a.ShortDescription,
		ProjectAttr:      parseFlag(a.ProjectAttr),
		AccuracyAttr:     parseFlag(a.AccuracyAttr),
		SpeciesAttr:      parseFlag(a.SpeciesAttr),
	}
	for _, c := range a.Codes {
		attr.Codes = append(attr.Codes, metadata.Code{
			Value:       c.Value,
			Label:       c.Label,
			Description: c.Description,
		})
	}
	for _, fc := range a.FuzzyClasses {
		attr.FuzzyClasses = append(attr.FuzzyClasses, metadata.FuzzyClass{
			OriginalClass: fc.OriginalClass,
			FuzzyClass:    fc.FuzzyClass,
		})
	}
	return attr
}

// parseFlag accepts the 1/0 and true/false spellings seen in metadata files
func parseFlag(s string) bool {
	switch s {
	case "1", "true", "TRUE", "True":
		return true
	}
	return false
}
