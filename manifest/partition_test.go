package manifest

import (
	"testing"

	"github.com/apache/iceberg-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTableSchema() *iceberg.Schema {
	return iceberg.NewSchema(0, []iceberg.NestedField{
		{ID: 1, Name: "id", Type: iceberg.Int64Type{}, Required: true},
		{ID: 2, Name: "name", Type: iceberg.StringType{}, Required: false},
		{ID: 3, Name: "ts", Type: iceberg.PrimitiveTypes.Timestamp, Required: false},
	})
}

func TestResolvePartitionTypeIdentityAndTransforms(t *testing.T) {
	schema := testTableSchema()
	spec := PartitionSpec{
		ID: 0,
		Fields: []PartitionField{
			{SourceID: 3, FieldID: 1000, Name: "ts_year", Transform: "year"},
			{SourceID: 2, FieldID: 1001, Name: "name", Transform: "identity"},
			{SourceID: 1, FieldID: 1002, Name: "id_bucket", Transform: "bucket[16]"},
		},
	}

	partitionType, err := ResolvePartitionType(schema, spec)
	require.NoError(t, err)
	require.Len(t, partitionType.FieldList, 3)

	assert.Equal(t, iceberg.PrimitiveTypes.Int32, partitionType.FieldList[0].Type)
	assert.Equal(t, iceberg.StringType{}, partitionType.FieldList[1].Type)
	assert.Equal(t, iceberg.PrimitiveTypes.Int32, partitionType.FieldList[2].Type)
}

func TestResolvePartitionTypeUnknownSource(t *testing.T) {
	schema := testTableSchema()
	spec := PartitionSpec{Fields: []PartitionField{{SourceID: 99, FieldID: 1000, Name: "bad", Transform: "identity"}}}

	_, err := ResolvePartitionType(schema, spec)
	assert.Error(t, err)
}

func TestResolvePartitionTypeUnknownTransform(t *testing.T) {
	schema := testTableSchema()
	spec := PartitionSpec{Fields: []PartitionField{{SourceID: 1, FieldID: 1000, Name: "bad", Transform: "nonsense"}}}

	_, err := ResolvePartitionType(schema, spec)
	assert.Error(t, err)
}

func TestPartitionSpecJSONRoundTrip(t *testing.T) {
	spec := PartitionSpec{
		ID: 3,
		Fields: []PartitionField{
			{SourceID: 1, FieldID: 1000, Name: "id_bucket", Transform: "bucket[8]"},
		},
	}

	back := partitionSpecFromJSON(spec.ID, spec.toJSON())
	assert.Equal(t, spec, back)
}

func TestParseSchemaID(t *testing.T) {
	id, err := parseSchemaID("")
	assert.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = parseSchemaID("7")
	assert.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = parseSchemaID("nope")
	assert.Error(t, err)
}
