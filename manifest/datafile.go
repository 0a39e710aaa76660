package manifest

import "github.com/apache/iceberg-go"

// DataFile describes a single tracked data or delete file, independent of
// the manifest entry that references it. Field names mirror the stable ids
// in schema.go; this type is the in-memory, typed counterpart of those ids.
type DataFile struct {
	Content         DataContentType
	FilePath        string
	FileFormat      DataFileFormat
	Partition       []PartitionValue
	RecordCount     int64
	FileSizeInBytes int64
	ColumnSizes     map[int]int64
	ValueCounts     map[int]int64
	NullValueCounts map[int]int64
	NaNValueCounts  map[int]int64
	LowerBounds     map[int]any
	UpperBounds     map[int]any
	KeyMetadata     []byte
	SplitOffsets    []int64
	EqualityIDs     []int
	SortOrderID     *int

	// PartitionSpecID identifies the spec the partition tuple above was
	// produced by. In-memory only; not part of the on-disk data_file
	// record (spec.md §3).
	PartitionSpecID int
}

// PartitionValue is one element of a DataFile's partition tuple: the typed
// output of a single partition-spec transform, or nil if that column is
// null for this file.
type PartitionValue struct {
	FieldID int
	Value   any
}

// ManifestEntry wraps a DataFile with the bookkeeping fields a manifest
// tracks per status: status, snapshot id, and the two sequence numbers.
// Pointers distinguish "absent" from "zero".
type ManifestEntry struct {
	Status             ManifestStatus
	SnapshotID         *int64
	SequenceNumber     *int64
	FileSequenceNumber *int64
	DataFile           DataFile
}

// ManifestMetadata is the decoded form of the container's user metadata:
// the table schema, partition spec, and format information a manifest was
// written against. Written on emit, reconstructed on read (spec.md §4.4).
type ManifestMetadata struct {
	Schema        *iceberg.Schema
	SchemaID      int
	PartitionSpec PartitionSpec
	FormatVersion FormatVersion
	Content       ManifestContentType
}

// FieldSummary is the per-partition-column rollup the writer emits in the
// ManifestFile summary (spec.md §4.2, §8).
type FieldSummary struct {
	LowerBound   any
	UpperBound   any
	ContainsNull bool
	ContainsNaN  *bool
}

// ManifestFile is the writer's finished summary record: everything the
// enclosing manifest-list layer needs without re-reading the manifest body.
type ManifestFile struct {
	ManifestPath      string
	ManifestLength    int64
	PartitionSpecID   int
	Content           ManifestContentType
	SequenceNumber    int64
	MinSequenceNumber int64
	AddedSnapshotID   int64

	AddedFilesCount    int
	ExistingFilesCount int
	DeletedFilesCount  int
	AddedRowsCount     int64
	ExistingRowsCount  int64
	DeletedRowsCount   int64

	Partitions  []FieldSummary
	KeyMetadata []byte
}
