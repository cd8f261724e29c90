package xmlmeta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/domain/metadata"
)

const sampleStandXML = `<?xml version="1.0"?>
<stand_metadata>
  <attributes>
    <attribute>
      <field_name>BAPH_GE_3</field_name>
      <field_type>CONTINUOUS</field_type>
      <units>m^2/ha</units>
      <description>Basal area of live trees</description>
      <short_description>Basal area per hectare</short_description>
      <project_attr>1</project_attr>
      <accuracy_attr>1</accuracy_attr>
      <species_attr>0</species_attr>
    </attribute>
    <attribute>
      <field_name>VEGCLASS</field_name>
      <field_type>CATEGORICAL</field_type>
      <units>none</units>
      <description>Vegetation class</description>
      <short_description>Vegetation class</short_description>
      <project_attr>1</project_attr>
      <accuracy_attr>1</accuracy_attr>
      <species_attr>0</species_attr>
      <codes>
        <code>
          <code_value>1</code_value>
          <label>Sparse</label>
          <description>Sparse vegetation</description>
        </code>
        <code>
          <code_value>2</code_value>
          <label>Open</label>
          <description>Open canopy</description>
        </code>
      </codes>
      <fuzzy_classes>
        <fuzzy_class>
          <original_class>1</original_class>
          <fuzzy_class>2</fuzzy_class>
        </fuzzy_class>
      </fuzzy_classes>
    </attribute>
  </attributes>
</stand_metadata>
`

func writeTempXML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStandMetadataRead(t *testing.T) {
	path := writeTempXML(t, "stand.xml", sampleStandXML)

	md, err := NewStandMetadataReader(path).Read()
	require.NoError(t, err)
	require.Len(t, md.Attributes, 2)

	baph := md.Attributes[0]
	assert.Equal(t, "BAPH_GE_3", baph.FieldName)
	assert.Equal(t, metadata.FieldContinuous, baph.FieldType)
	assert.True(t, baph.IsProject())
	assert.True(t, baph.IsAccuracy())
	assert.False(t, baph.IsSpecies())
	assert.Empty(t, baph.Codes)

	veg := md.Attributes[1]
	assert.Equal(t, metadata.FieldCategorical, veg.FieldType)
	require.Len(t, veg.Codes, 2)
	assert.Equal(t, "Sparse", veg.Codes[0].Label)
	require.Len(t, veg.FuzzyClasses, 1)
	assert.Equal(t, "1", veg.FuzzyClasses[0].OriginalClass)
	assert.Equal(t, "2", veg.FuzzyClasses[0].FuzzyClass)
}

func TestStandMetadataReadMissingFile(t *testing.T) {
	_, err := NewStandMetadataReader("/nonexistent/stand.xml").Read()
	assert.Error(t, err)
}

func TestStandMetadataReadMalformed(t *testing.T) {
	path := writeTempXML(t, "bad.xml", "<stand_metadata><attributes>")
	_, err := NewStandMetadataReader(path).Read()
	assert.Error(t, err)
}
