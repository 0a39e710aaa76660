package manifest

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/apache/iceberg-go"
)

// fieldIndex maps a schema's stable field ids to their NestedField,
// built once per writer/reader call via iceberg.IndexByID and threaded
// through the encode/decode helpers below so bound encoding can look up
// a column's declared type (spec.md §4.6).
type fieldIndex map[int]iceberg.NestedField

func newFieldIndex(schema *iceberg.Schema) (fieldIndex, error) {
	idx, err := iceberg.IndexByID(schema)
	if err != nil {
		return nil, wrapDataInvalid(ErrPartitionTypeMismatch, err, "indexing schema by field id")
	}
	return fieldIndex(idx), nil
}

// ---- Bound encoding (spec.md §4.6): Iceberg's binary single-value format.

func encodeBound(t iceberg.Type, v any) ([]byte, error) {
	pt, ok := t.(iceberg.PrimitiveType)
	if !ok {
		return nil, newDataInvalid(ErrBoundTypeUnsupported, "bound column type %T is not primitive", t)
	}

	switch pt {
	case iceberg.PrimitiveTypes.Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "expected bool bound, got %T", v)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case iceberg.PrimitiveTypes.Int32, iceberg.PrimitiveTypes.Date:
		n, ok := v.(int32)
		if !ok {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "expected int32 bound, got %T", v)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		return buf, nil

	case iceberg.PrimitiveTypes.Int64, iceberg.PrimitiveTypes.Time, iceberg.PrimitiveTypes.Timestamp, iceberg.PrimitiveTypes.TimestampTz:
		n, ok := v.(int64)
		if !ok {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "expected int64 bound, got %T", v)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(n))
		return buf, nil

	case iceberg.PrimitiveTypes.Float32:
		f, ok := v.(float32)
		if !ok {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "expected float32 bound, got %T", v)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
		return buf, nil

	case iceberg.PrimitiveTypes.Float64:
		f, ok := v.(float64)
		if !ok {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "expected float64 bound, got %T", v)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return buf, nil

	case iceberg.PrimitiveTypes.String:
		s, ok := v.(string)
		if !ok {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "expected string bound, got %T", v)
		}
		return []byte(s), nil

	case iceberg.PrimitiveTypes.Binary, iceberg.PrimitiveTypes.UUID:
		b, ok := v.([]byte)
		if !ok {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "expected []byte bound, got %T", v)
		}
		return b, nil

	default:
		return nil, newDataInvalid(ErrBoundTypeUnsupported, "unsupported bound primitive %v", pt)
	}
}

func decodeBound(t iceberg.Type, b []byte) (any, error) {
	pt, ok := t.(iceberg.PrimitiveType)
	if !ok {
		return nil, newDataInvalid(ErrBoundTypeUnsupported, "bound column type %T is not primitive", t)
	}

	switch pt {
	case iceberg.PrimitiveTypes.Bool:
		if len(b) != 1 {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "malformed bool bound, length %d", len(b))
		}
		return b[0] != 0, nil

	case iceberg.PrimitiveTypes.Int32, iceberg.PrimitiveTypes.Date:
		if len(b) != 4 {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "malformed int32 bound, length %d", len(b))
		}
		return int32(binary.LittleEndian.Uint32(b)), nil

	case iceberg.PrimitiveTypes.Int64, iceberg.PrimitiveTypes.Time, iceberg.PrimitiveTypes.Timestamp, iceberg.PrimitiveTypes.TimestampTz:
		if len(b) != 8 {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "malformed int64 bound, length %d", len(b))
		}
		return int64(binary.LittleEndian.Uint64(b)), nil

	case iceberg.PrimitiveTypes.Float32:
		if len(b) != 4 {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "malformed float32 bound, length %d", len(b))
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil

	case iceberg.PrimitiveTypes.Float64:
		if len(b) != 8 {
			return nil, newDataInvalid(ErrBoundTypeUnsupported, "malformed float64 bound, length %d", len(b))
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil

	case iceberg.PrimitiveTypes.String:
		return string(b), nil

	case iceberg.PrimitiveTypes.Binary, iceberg.PrimitiveTypes.UUID:
		return append([]byte(nil), b...), nil

	default:
		return nil, newDataInvalid(ErrBoundTypeUnsupported, "unsupported bound primitive %v", pt)
	}
}

// ---- Partition encoding (spec.md §4.5) ----

func encodePartition(partitionType *iceberg.StructType, values []PartitionValue) (map[string]any, error) {
	if len(values) != len(partitionType.FieldList) {
		return nil, newDataInvalid(ErrPartitionArityMismatch,
			"partition tuple has %d elements, spec declares %d", len(values), len(partitionType.FieldList))
	}

	rec := make(map[string]any, len(values))
	for i, f := range partitionType.FieldList {
		pv := values[i]
		if pv.FieldID != f.ID {
			return nil, newDataInvalid(ErrPartitionArityMismatch,
				"partition element %d carries field id %d, spec expects %d", i, pv.FieldID, f.ID)
		}
		rec[f.Name] = pv.Value
	}
	return rec, nil
}

func decodePartition(partitionType *iceberg.StructType, rec map[string]any) ([]PartitionValue, error) {
	if len(rec) != len(partitionType.FieldList) {
		return nil, newDataInvalid(ErrPartitionArityMismatch,
			"decoded partition struct has %d elements, spec declares %d", len(rec), len(partitionType.FieldList))
	}

	out := make([]PartitionValue, len(partitionType.FieldList))
	for i, f := range partitionType.FieldList {
		v, ok := rec[f.Name]
		if !ok {
			return nil, newDataInvalid(ErrPartitionArityMismatch, "partition struct missing field %q", f.Name)
		}
		out[i] = PartitionValue{FieldID: f.ID, Value: v}
	}
	return out, nil
}

// ---- Count maps (column_sizes, value_counts, null_value_counts, nan_value_counts) ----

// encodeCountMap renders an int->int64 map in ascending key order as the
// array-of-{key,value}-records shape schema.go's intToTypeMap declares.
func encodeCountMap(m map[int]int64) []any {
	if len(m) == 0 {
		return nil
	}
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = map[string]any{"key": int32(k), "value": m[k]}
	}
	return out
}

// decodeCountMap reverses encodeCountMap, silently dropping entries whose
// value decodes negative (spec.md §4.4 step 7, §8 S6).
func decodeCountMap(raw []any) map[int]int64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[int]int64, len(raw))
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key, kok := toInt(rec["key"])
		val, vok := toInt64(rec["value"])
		if !kok || !vok || val < 0 {
			continue
		}
		out[key] = val
	}
	return out
}

// ---- Bound maps (lower_bounds, upper_bounds) ----

func encodeBoundMap(fields fieldIndex, m map[int]any) ([]any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		field, ok := fields[k]
		if !ok {
			continue
		}
		encoded, err := encodeBound(field.Type, m[k])
		if err != nil {
			return nil, err
		}
		out = append(out, map[string]any{"key": int32(k), "value": encoded})
	}
	return out, nil
}

// decodeBoundMap drops bound entries whose column id is absent from the
// decode-time schema (spec.md I5, §8 S4 schema evolution).
func decodeBoundMap(fields fieldIndex, raw []any) (map[int]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[int]any, len(raw))
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key, kok := toInt(rec["key"])
		if !kok {
			continue
		}
		field, ok := fields[key]
		if !ok {
			continue
		}
		valBytes, ok := rec["value"].([]byte)
		if !ok {
			continue
		}
		decoded, err := decodeBound(field.Type, valBytes)
		if err != nil {
			return nil, err
		}
		out[key] = decoded
	}
	return out, nil
}

// ---- data_file record transform ----

func encodeDataFile(version FormatVersion, fields fieldIndex, partitionType *iceberg.StructType, df DataFile) (map[string]any, error) {
	partitionRec, err := encodePartition(partitionType, df.Partition)
	if err != nil {
		return nil, err
	}

	lower, err := encodeBoundMap(fields, df.LowerBounds)
	if err != nil {
		return nil, err
	}
	upper, err := encodeBoundMap(fields, df.UpperBounds)
	if err != nil {
		return nil, err
	}

	rec := map[string]any{
		"file_path":           df.FilePath,
		"file_format":         df.FileFormat.String(),
		"partition":           partitionRec,
		"record_count":        df.RecordCount,
		"file_size_in_bytes":  df.FileSizeInBytes,
		"column_sizes":        encodeCountMap(df.ColumnSizes),
		"value_counts":        encodeCountMap(df.ValueCounts),
		"null_value_counts":   encodeCountMap(df.NullValueCounts),
		"nan_value_counts":    encodeCountMap(df.NaNValueCounts),
		"lower_bounds":        lower,
		"upper_bounds":        upper,
		"key_metadata":        df.KeyMetadata,
		"split_offsets":       encodeInt64Slice(df.SplitOffsets),
		"sort_order_id":       intPtrToAny(df.SortOrderID),
	}

	if version == FormatVersion1 {
		rec["block_size_in_bytes"] = int64(0)
	} else {
		rec["content"] = int32(df.Content)
		rec["equality_ids"] = encodeIntSlice(df.EqualityIDs)
	}

	return rec, nil
}

func decodeDataFile(version FormatVersion, fields fieldIndex, partitionType *iceberg.StructType, rec map[string]any) (DataFile, error) {
	partitionRaw, _ := rec["partition"].(map[string]any)
	partition, err := decodePartition(partitionType, partitionRaw)
	if err != nil {
		return DataFile{}, err
	}

	lower, err := decodeBoundMap(fields, toAnySlice(rec["lower_bounds"]))
	if err != nil {
		return DataFile{}, err
	}
	upper, err := decodeBoundMap(fields, toAnySlice(rec["upper_bounds"]))
	if err != nil {
		return DataFile{}, err
	}

	format, err := ParseDataFileFormat(asString(rec["file_format"]))
	if err != nil {
		return DataFile{}, err
	}

	recordCount, _ := toInt64(rec["record_count"])
	fileSize, _ := toInt64(rec["file_size_in_bytes"])

	df := DataFile{
		Content:         DataContentData,
		FilePath:        asString(rec["file_path"]),
		FileFormat:      format,
		Partition:       partition,
		RecordCount:     recordCount,
		FileSizeInBytes: fileSize,
		ColumnSizes:     decodeCountMap(toAnySlice(rec["column_sizes"])),
		ValueCounts:     decodeCountMap(toAnySlice(rec["value_counts"])),
		NullValueCounts: decodeCountMap(toAnySlice(rec["null_value_counts"])),
		NaNValueCounts:  decodeCountMap(toAnySlice(rec["nan_value_counts"])),
		LowerBounds:     lower,
		UpperBounds:     upper,
		KeyMetadata:     asBytes(rec["key_metadata"]),
		SplitOffsets:    decodeInt64Slice(toAnySlice(rec["split_offsets"])),
		SortOrderID:     int64PtrToIntPtr(rec["sort_order_id"]),
	}

	if version == FormatVersion2 {
		contentInt, _ := toInt(rec["content"])
		content, err := dataContentFromInt(contentInt)
		if err != nil {
			return DataFile{}, err
		}
		df.Content = content
		df.EqualityIDs = decodeIntSlice(toAnySlice(rec["equality_ids"]))
	}

	return df, nil
}

// ---- manifest_entry record transform ----

func encodeEntry(version FormatVersion, fields fieldIndex, partitionType *iceberg.StructType, e ManifestEntry) (map[string]any, error) {
	dataFile, err := encodeDataFile(version, fields, partitionType, e.DataFile)
	if err != nil {
		return nil, err
	}

	rec := map[string]any{
		"status":    int32(e.Status),
		"data_file": dataFile,
	}

	if version == FormatVersion1 {
		if e.SnapshotID == nil {
			return nil, newDataInvalid(ErrMissingSequenceNumbers, "v1 manifest entry missing required snapshot_id")
		}
		rec["snapshot_id"] = *e.SnapshotID
	} else {
		rec["snapshot_id"] = int64PtrToAny(e.SnapshotID)
		rec["sequence_number"] = int64PtrToAny(e.SequenceNumber)
		rec["file_sequence_number"] = int64PtrToAny(e.FileSequenceNumber)
	}

	return rec, nil
}

func decodeEntry(version FormatVersion, fields fieldIndex, partitionType *iceberg.StructType, rec map[string]any) (ManifestEntry, error) {
	statusInt, _ := toInt(rec["status"])
	status, err := manifestStatusFromInt(statusInt)
	if err != nil {
		return ManifestEntry{}, err
	}

	dataFileRec, _ := rec["data_file"].(map[string]any)
	dataFile, err := decodeDataFile(version, fields, partitionType, dataFileRec)
	if err != nil {
		return ManifestEntry{}, err
	}

	entry := ManifestEntry{Status: status, DataFile: dataFile}

	if version == FormatVersion1 {
		snap, _ := toInt64(rec["snapshot_id"])
		zero := int64(0)
		entry.SnapshotID = &snap
		entry.SequenceNumber = &zero
		fseq := int64(0)
		entry.FileSequenceNumber = &fseq
	} else {
		entry.SnapshotID = anyToInt64Ptr(rec["snapshot_id"])
		entry.SequenceNumber = anyToInt64Ptr(rec["sequence_number"])
		entry.FileSequenceNumber = anyToInt64Ptr(rec["file_sequence_number"])
	}

	return entry, nil
}

// ---- small conversion helpers shared by the transforms above ----

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBytes(v any) []byte {
	b, _ := v.([]byte)
	return b
}

func toAnySlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func encodeIntSlice(vs []int) []any {
	if len(vs) == 0 {
		return nil
	}
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = int32(v)
	}
	return out
}

func decodeIntSlice(raw []any) []int {
	if len(raw) == 0 {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if n, ok := toInt(v); ok {
			out = append(out, n)
		}
	}
	return out
}

func encodeInt64Slice(vs []int64) []any {
	if len(vs) == 0 {
		return nil
	}
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func decodeInt64Slice(raw []any) []int64 {
	if len(raw) == 0 {
		return nil
	}
	out := make([]int64, 0, len(raw))
	for _, v := range raw {
		if n, ok := toInt64(v); ok {
			out = append(out, n)
		}
	}
	return out
}

func intPtrToAny(p *int) any {
	if p == nil {
		return nil
	}
	return int32(*p)
}

func int64PtrToAny(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func int64PtrToIntPtr(v any) *int {
	n, ok := toInt(v)
	if !ok {
		return nil
	}
	return &n
}

func anyToInt64Ptr(v any) *int64 {
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	return &n
}
