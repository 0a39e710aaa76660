package manifest

import (
	"testing"

	"github.com/apache/iceberg-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simplePartitionType() *iceberg.StructType {
	return &iceberg.StructType{FieldList: []iceberg.NestedField{
		{ID: 1000, Name: "p1", Type: iceberg.StringType{}},
	}}
}

func TestBuildManifestEntrySchemaV1(t *testing.T) {
	schema, err := BuildManifestEntrySchema(FormatVersion1, ManifestContentData, simplePartitionType())
	require.NoError(t, err)

	text := schema.String()
	assert.Contains(t, text, "manifest_entry")
	assert.Contains(t, text, "block_size_in_bytes")
	assert.NotContains(t, text, `"content"`)
}

func TestBuildManifestEntrySchemaV2Data(t *testing.T) {
	schema, err := BuildManifestEntrySchema(FormatVersion2, ManifestContentData, simplePartitionType())
	require.NoError(t, err)

	text := schema.String()
	assert.Contains(t, text, "sequence_number")
	assert.Contains(t, text, "equality_ids")
	assert.NotContains(t, text, "block_size_in_bytes")
}

func TestDecimalFixedSize(t *testing.T) {
	assert.Equal(t, 4, decimalFixedSize(9))
	assert.Equal(t, 8, decimalFixedSize(18))
	assert.Equal(t, 16, decimalFixedSize(38))
}

func TestAvroTypePrimitives(t *testing.T) {
	v, err := avroType(iceberg.PrimitiveTypes.Int64)
	require.NoError(t, err)
	assert.Equal(t, "long", v)

	v, err = avroType(iceberg.PrimitiveTypes.String)
	require.NoError(t, err)
	assert.Equal(t, "string", v)
}

func TestAvroTypeUnsupported(t *testing.T) {
	_, err := avroType(nil)
	assert.Error(t, err)
}
