package manifest

import (
	"testing"

	"github.com/apache/iceberg-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBoundRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		typ  iceberg.Type
		val  any
	}{
		{"bool", iceberg.PrimitiveTypes.Bool, true},
		{"int32", iceberg.PrimitiveTypes.Int32, int32(42)},
		{"int64", iceberg.PrimitiveTypes.Int64, int64(-7)},
		{"float32", iceberg.PrimitiveTypes.Float32, float32(1.5)},
		{"float64", iceberg.PrimitiveTypes.Float64, float64(2.5)},
		{"string", iceberg.PrimitiveTypes.String, "hello"},
		{"binary", iceberg.PrimitiveTypes.Binary, []byte{1, 2, 3}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			encoded, err := encodeBound(c.typ, c.val)
			require.NoError(t, err)
			decoded, err := decodeBound(c.typ, encoded)
			require.NoError(t, err)
			assert.Equal(t, c.val, decoded)
		})
	}
}

func TestEncodeBoundTypeMismatch(t *testing.T) {
	_, err := encodeBound(iceberg.PrimitiveTypes.Int32, "not an int")
	assert.Error(t, err)
}

// TestDecodeCountMapDropsNegative exercises spec.md §8 S6.
func TestDecodeCountMapDropsNegative(t *testing.T) {
	raw := encodeCountMap(map[int]int64{1: 3})
	raw = append(raw, map[string]any{"key": int32(2), "value": int64(-1)})

	decoded := decodeCountMap(raw)
	assert.Equal(t, map[int]int64{1: 3}, decoded)
}

// TestDecodeBoundMapSchemaEvolution exercises spec.md §8 S4.
func TestDecodeBoundMapSchemaEvolution(t *testing.T) {
	schema := iceberg.NewSchema(0, []iceberg.NestedField{
		{ID: 1, Name: "a", Type: iceberg.Int64Type{}, Required: true},
		{ID: 2, Name: "b", Type: iceberg.StringType{}, Required: false},
	})
	fields, err := newFieldIndex(schema)
	require.NoError(t, err)

	// Encode against a wider, older schema that still has column 3, so the
	// encoded map reaches decodeBoundMap with an id the decode schema lacks.
	writeSchema := iceberg.NewSchema(0, []iceberg.NestedField{
		{ID: 1, Name: "a", Type: iceberg.Int64Type{}, Required: true},
		{ID: 2, Name: "b", Type: iceberg.StringType{}, Required: false},
		{ID: 3, Name: "c", Type: iceberg.Int64Type{}, Required: false},
	})
	writeFields, err := newFieldIndex(writeSchema)
	require.NoError(t, err)

	full := map[int]any{1: int64(10), 2: "x", 3: int64(99)}
	encoded, err := encodeBoundMap(writeFields, full)
	require.NoError(t, err)

	decoded, err := decodeBoundMap(fields, encoded)
	require.NoError(t, err)
	assert.Equal(t, map[int]any{1: int64(10), 2: "x"}, decoded)
}

func TestEncodeDecodePartitionRoundTrip(t *testing.T) {
	partitionType := &iceberg.StructType{FieldList: []iceberg.NestedField{
		{ID: 1000, Name: "p1", Type: iceberg.StringType{}},
		{ID: 1001, Name: "p2", Type: iceberg.PrimitiveTypes.Int32},
	}}

	values := []PartitionValue{
		{FieldID: 1000, Value: "x"},
		{FieldID: 1001, Value: int32(7)},
	}

	rec, err := encodePartition(partitionType, values)
	require.NoError(t, err)

	back, err := decodePartition(partitionType, rec)
	require.NoError(t, err)
	assert.Equal(t, values, back)
}

func TestEncodePartitionArityMismatch(t *testing.T) {
	partitionType := &iceberg.StructType{FieldList: []iceberg.NestedField{
		{ID: 1000, Name: "p1", Type: iceberg.StringType{}},
	}}

	_, err := encodePartition(partitionType, nil)
	assert.Error(t, err)
}
