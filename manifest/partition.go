package manifest

import (
	"strconv"
	"strings"

	"github.com/apache/iceberg-go"
)

// PartitionField is one column of a partition spec: a transform applied to
// a source column, producing one element of every data file's partition
// tuple. FieldID is the *output* id -- the id that appears on the wire as
// the partition struct's field id (spec.md §4.5), distinct from SourceID.
type PartitionField struct {
	SourceID  int
	FieldID   int
	Name      string
	Transform string
}

// PartitionSpec is an ordered list of partition fields, identified by a
// spec id that manifests reference via the partition-spec-id user-metadata
// key. Building one from a table (choosing transforms) is out of scope for
// this codec (spec.md §1); only the fields needed to resolve a runtime
// partition type live here.
type PartitionSpec struct {
	ID     int
	Fields []PartitionField
}

// transformPrefixBucket matches "bucket[N]"; transformPrefixTruncate matches
// "truncate[W]". Both carry a parameter that doesn't affect the result
// type, only bucket/truncate runtime behavior which lives above this codec.
var (
	transformPrefixBucket   = "bucket"
	transformPrefixTruncate = "truncate"
)

// transformBase strips a "[N]" parameter suffix, returning e.g. "bucket"
// for "bucket[16]".
func transformBase(transform string) string {
	if idx := strings.IndexByte(transform, '['); idx >= 0 {
		return transform[:idx]
	}
	return transform
}

// resolveTransformType returns the Iceberg type a partition transform
// produces given its source column's type, per the Iceberg spec's
// transform-to-result-type table (spec.md §4.2's "derivation" half; no
// ready-made resolver exists in the retrieved examples, so this is a new,
// self-contained lookup).
func resolveTransformType(transform string, sourceType iceberg.Type) (iceberg.Type, error) {
	switch transformBase(transform) {
	case "identity":
		return sourceType, nil
	case "year", "month", "day", "hour":
		return iceberg.PrimitiveTypes.Int32, nil
	case transformPrefixBucket:
		return iceberg.PrimitiveTypes.Int32, nil
	case transformPrefixTruncate:
		return sourceType, nil
	case "void":
		return sourceType, nil
	default:
		return nil, newDataInvalid(ErrPartitionTypeMismatch, "unrecognized transform %q", transform)
	}
}

// ResolvePartitionType derives the struct type of the `partition` field
// embedded in each manifest entry: one field per partition-spec field,
// keyed by output FieldID, typed by resolving its transform against the
// matching source column in schema (spec.md §4.2, §4.5).
func ResolvePartitionType(schema *iceberg.Schema, spec PartitionSpec) (*iceberg.StructType, error) {
	byID, err := iceberg.IndexByID(schema)
	if err != nil {
		return nil, wrapDataInvalid(ErrPartitionTypeMismatch, err, "indexing schema by field id")
	}

	fields := make([]iceberg.NestedField, 0, len(spec.Fields))
	for _, pf := range spec.Fields {
		sourceField, ok := byID[pf.SourceID]
		if !ok {
			return nil, newDataInvalid(ErrPartitionTypeMismatch,
				"partition source column %d not found in schema", pf.SourceID)
		}

		resultType, err := resolveTransformType(pf.Transform, sourceField.Type)
		if err != nil {
			return nil, err
		}

		fields = append(fields, iceberg.NestedField{
			ID:       pf.FieldID,
			Name:     pf.Name,
			Type:     resultType,
			Required: false,
		})
	}

	return &iceberg.StructType{FieldList: fields}, nil
}

// partitionFieldJSON is the JSON shape written to the "partition-spec"
// user-metadata key and read back on decode (spec.md §4.4 step 2).
type partitionFieldJSON struct {
	SourceID  int    `json:"source-id"`
	FieldID   int    `json:"field-id"`
	Name      string `json:"name"`
	Transform string `json:"transform"`
}

func (p PartitionSpec) toJSON() []partitionFieldJSON {
	out := make([]partitionFieldJSON, len(p.Fields))
	for i, f := range p.Fields {
		out[i] = partitionFieldJSON{
			SourceID:  f.SourceID,
			FieldID:   f.FieldID,
			Name:      f.Name,
			Transform: f.Transform,
		}
	}
	return out
}

func partitionSpecFromJSON(id int, fields []partitionFieldJSON) PartitionSpec {
	spec := PartitionSpec{ID: id, Fields: make([]PartitionField, len(fields))}
	for i, f := range fields {
		spec.Fields[i] = PartitionField{
			SourceID:  f.SourceID,
			FieldID:   f.FieldID,
			Name:      f.Name,
			Transform: f.Transform,
		}
	}
	return spec
}

// parseSchemaID parses the decimal "schema-id"/"partition-spec-id" user
// metadata values, defaulting to 0 when absent (spec.md §4.4 step 2).
func parseSchemaID(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, wrapDataInvalid(ErrMalformedUserMetadata, err, "invalid id %q", s)
	}
	return n, nil
}
