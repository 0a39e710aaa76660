package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/apache/iceberg-go"
	"github.com/hamba/avro/v2/ocf"
	"github.com/rs/zerolog"
)

// ManifestWriterBuilder captures the inputs a manifest is written against
// before the format-version/content combination is fixed (spec.md §4.3,
// "Builder variants per format"). Grounded structurally on the teacher's
// MetadataGenerator constructor (metadata.go), which also bundles a sink
// dependency and a logger behind a constructor + With* configuration style.
type ManifestWriterBuilder struct {
	sink        OutputFile
	snapshotID  *int64
	keyMetadata []byte
	schema      *iceberg.Schema
	schemaID    int
	spec        PartitionSpec
	logger      zerolog.Logger
}

func NewManifestWriterBuilder(sink OutputFile, schema *iceberg.Schema, schemaID int, spec PartitionSpec) *ManifestWriterBuilder {
	return &ManifestWriterBuilder{
		sink:     sink,
		schema:   schema,
		schemaID: schemaID,
		spec:     spec,
		logger:   zerolog.Nop(),
	}
}

func (b *ManifestWriterBuilder) WithSnapshotID(id int64) *ManifestWriterBuilder {
	b.snapshotID = &id
	return b
}

func (b *ManifestWriterBuilder) WithKeyMetadata(km []byte) *ManifestWriterBuilder {
	b.keyMetadata = km
	return b
}

func (b *ManifestWriterBuilder) WithLogger(logger zerolog.Logger) *ManifestWriterBuilder {
	b.logger = logger
	return b
}

// BuildV1, BuildV2Data, BuildV2Deletes encode the legal (format_version x
// content) combinations directly; no runtime content/version check is
// needed at emit time (spec.md §9).
func (b *ManifestWriterBuilder) BuildV1() (*ManifestWriter, error) {
	return b.build(FormatVersion1, ManifestContentData)
}

func (b *ManifestWriterBuilder) BuildV2Data() (*ManifestWriter, error) {
	return b.build(FormatVersion2, ManifestContentData)
}

func (b *ManifestWriterBuilder) BuildV2Deletes() (*ManifestWriter, error) {
	return b.build(FormatVersion2, ManifestContentDeletes)
}

func (b *ManifestWriterBuilder) build(version FormatVersion, content ManifestContentType) (*ManifestWriter, error) {
	partitionType, err := ResolvePartitionType(b.schema, b.spec)
	if err != nil {
		return nil, err
	}
	fields, err := newFieldIndex(b.schema)
	if err != nil {
		return nil, err
	}

	accumulators := make([]*fieldSummaryAccumulator, len(partitionType.FieldList))
	for i := range accumulators {
		accumulators[i] = newFieldSummaryAccumulator()
	}

	return &ManifestWriter{
		sink:          b.sink,
		snapshotID:    b.snapshotID,
		keyMetadata:   b.keyMetadata,
		schema:        b.schema,
		schemaID:      b.schemaID,
		spec:          b.spec,
		partitionType: partitionType,
		fields:        fields,
		version:       version,
		content:       content,
		logger:        b.logger,
		accumulators:  accumulators,
	}, nil
}

// ManifestWriter buffers entries via its six append operations and, once,
// finalizes them into a container plus a ManifestFile summary (spec.md
// §4.3). Not safe for concurrent use (§5 "the writer owns its entry buffer
// exclusively").
type ManifestWriter struct {
	sink          OutputFile
	snapshotID    *int64
	keyMetadata   []byte
	schema        *iceberg.Schema
	schemaID      int
	spec          PartitionSpec
	partitionType *iceberg.StructType
	fields        fieldIndex
	version       FormatVersion
	content       ManifestContentType
	logger        zerolog.Logger

	entries      []ManifestEntry
	accumulators []*fieldSummaryAccumulator
	minSeqNum    *int64

	addedFiles, existingFiles, deletedFiles int
	addedRows, existingRows, deletedRows    int64

	built bool
}

func (w *ManifestWriter) snapshotIDPtr() *int64 {
	if w.snapshotID == nil {
		return nil
	}
	v := *w.snapshotID
	return &v
}

func nonNegativeOrNil(p *int64) *int64 {
	if p == nil || *p < 0 {
		return nil
	}
	v := *p
	return &v
}

// AddEntry appends an entry as Added, stamping the writer's snapshot id and
// clearing its file sequence number (spec.md §4.3 entry-point matrix).
func (w *ManifestWriter) AddEntry(entry ManifestEntry) error {
	entry.Status = ManifestStatusAdded
	entry.SnapshotID = w.snapshotIDPtr()
	entry.SequenceNumber = nonNegativeOrNil(entry.SequenceNumber)
	entry.FileSequenceNumber = nil
	return w.addEntryInner(entry)
}

// AddFile appends a bare DataFile as Added. A negative seq is silently
// treated as "uninitialized" (spec.md §9 open question -- permissive by
// design, not "fixed" here).
func (w *ManifestWriter) AddFile(df DataFile, seq int64) error {
	entry := ManifestEntry{
		Status:     ManifestStatusAdded,
		SnapshotID: w.snapshotIDPtr(),
		DataFile:   df,
	}
	if seq >= 0 {
		s := seq
		entry.SequenceNumber = &s
	}
	return w.addEntryInner(entry)
}

// AddDeleteEntry appends an entry as Deleted, stamping the writer's
// snapshot id but preserving its sequence numbers as given.
func (w *ManifestWriter) AddDeleteEntry(entry ManifestEntry) error {
	entry.Status = ManifestStatusDeleted
	entry.SnapshotID = w.snapshotIDPtr()
	return w.addEntryInner(entry)
}

// AddDeleteFile appends a bare DataFile as Deleted with explicit sequence
// numbers. Unlike AddFile, a negative seq is NOT nulled out here -- an
// intentional asymmetry in the API (spec.md §9).
func (w *ManifestWriter) AddDeleteFile(df DataFile, seq, fseq int64) error {
	s, f := seq, fseq
	entry := ManifestEntry{
		Status:             ManifestStatusDeleted,
		SnapshotID:         w.snapshotIDPtr(),
		SequenceNumber:     &s,
		FileSequenceNumber: &f,
		DataFile:           df,
	}
	return w.addEntryInner(entry)
}

// AddExistingEntry appends an entry as Existing with everything preserved.
func (w *ManifestWriter) AddExistingEntry(entry ManifestEntry) error {
	entry.Status = ManifestStatusExisting
	return w.addEntryInner(entry)
}

// AddExistingFile appends a bare DataFile as Existing with an explicit
// snapshot id and both sequence numbers.
func (w *ManifestWriter) AddExistingFile(df DataFile, snap, seq, fseq int64) error {
	s, f := seq, fseq
	entry := ManifestEntry{
		Status:             ManifestStatusExisting,
		SnapshotID:         &snap,
		SequenceNumber:     &s,
		FileSequenceNumber: &f,
		DataFile:           df,
	}
	return w.addEntryInner(entry)
}

// addEntryInner is the common tail of all six append operations: validates
// against I1/I2, bumps counters, folds the partition tuple into the
// running field summaries, and tracks the minimum alive sequence number.
func (w *ManifestWriter) addEntryInner(entry ManifestEntry) error {
	if w.built {
		return newDataInvalid(ErrWriterAlreadyBuilt, "writer already finalized")
	}

	if err := w.checkDataFile(entry.DataFile); err != nil {
		return err
	}

	if entry.Status == ManifestStatusExisting || entry.Status == ManifestStatusDeleted {
		if entry.SequenceNumber == nil || entry.FileSequenceNumber == nil {
			return newDataInvalid(ErrMissingSequenceNumbers,
				"entries with status %v must carry both sequence numbers", entry.Status)
		}
	}

	switch entry.Status {
	case ManifestStatusAdded:
		w.addedFiles++
		w.addedRows += entry.DataFile.RecordCount
	case ManifestStatusExisting:
		w.existingFiles++
		w.existingRows += entry.DataFile.RecordCount
	case ManifestStatusDeleted:
		w.deletedFiles++
		w.deletedRows += entry.DataFile.RecordCount
	}

	if entry.Status.IsAlive() && entry.SequenceNumber != nil {
		if w.minSeqNum == nil || *entry.SequenceNumber < *w.minSeqNum {
			seq := *entry.SequenceNumber
			w.minSeqNum = &seq
		}
	}

	for i, acc := range w.accumulators {
		if i < len(entry.DataFile.Partition) {
			acc.Update(entry.DataFile.Partition[i].Value)
		}
	}

	w.entries = append(w.entries, entry)
	return nil
}

// checkDataFile enforces I1: an entry's data_file.content must agree with
// the manifest's own content type.
func (w *ManifestWriter) checkDataFile(df DataFile) error {
	if w.content == ManifestContentDeletes {
		if df.Content != DataContentPositionDeletes && df.Content != DataContentEqualityDeletes {
			return newDataInvalid(ErrContentMismatch,
				"delete manifest entry must carry a delete content type, got %v", df.Content)
		}
		return nil
	}
	if df.Content != DataContentData {
		return newDataInvalid(ErrContentMismatch, "data manifest entry must carry Data content, got %v", df.Content)
	}
	return nil
}

// WriteManifestFile finalizes the writer: builds the record schema, streams
// the buffered entries through the v1/v2 transform into an Avro object
// container, flushes it to the sink, and returns the ManifestFile summary
// (spec.md §4.3 "Finalization"). The writer must not be reused afterwards
// (I8).
func (w *ManifestWriter) WriteManifestFile() (ManifestFile, error) {
	if w.built {
		return ManifestFile{}, newDataInvalid(ErrWriterAlreadyBuilt, "writer already finalized")
	}

	schema, err := BuildManifestEntrySchema(w.version, w.content, w.partitionType)
	if err != nil {
		return ManifestFile{}, err
	}

	schemaJSON, err := json.Marshal(w.schema)
	if err != nil {
		return ManifestFile{}, wrapDataInvalid(ErrMalformedUserMetadata, err, "marshaling table schema")
	}
	partitionJSON, err := json.Marshal(w.spec.toJSON())
	if err != nil {
		return ManifestFile{}, wrapDataInvalid(ErrMalformedUserMetadata, err, "marshaling partition spec")
	}

	metadata := map[string][]byte{
		"schema":            schemaJSON,
		"schema-id":         []byte(strconv.Itoa(w.schemaID)),
		"partition-spec":    partitionJSON,
		"partition-spec-id": []byte(strconv.Itoa(w.spec.ID)),
		"format-version":    []byte(w.version.String()),
	}
	if w.version == FormatVersion2 {
		metadata["content"] = []byte(w.content.String())
	}

	var buf bytes.Buffer
	encoder, err := ocf.NewEncoder(schema.String(), &buf, ocf.WithMetadata(metadata))
	if err != nil {
		return ManifestFile{}, wrapDataInvalid(ErrRecordCodec, err, "opening manifest entry encoder")
	}

	for _, entry := range w.entries {
		rec, err := encodeEntry(w.version, w.fields, w.partitionType, entry)
		if err != nil {
			return ManifestFile{}, err
		}
		if err := encoder.Encode(rec); err != nil {
			return ManifestFile{}, wrapDataInvalid(ErrRecordCodec, err, "encoding manifest entry")
		}
	}

	if err := encoder.Close(); err != nil {
		return ManifestFile{}, wrapDataInvalid(ErrRecordCodec, err, "closing manifest entry encoder")
	}

	out, err := w.sink.Create()
	if err != nil {
		return ManifestFile{}, err
	}
	defer out.Close()

	if _, err := io.Copy(out, bytes.NewReader(buf.Bytes())); err != nil {
		return ManifestFile{}, wrapDataInvalid(ErrRecordCodec, err, "flushing manifest to sink")
	}

	minSeq := UnassignedSequenceNumber
	if w.minSeqNum != nil {
		minSeq = *w.minSeqNum
	}

	addedSnapshotID := UnassignedSnapshotID
	if w.snapshotID != nil {
		addedSnapshotID = *w.snapshotID
	}

	partitions := make([]FieldSummary, len(w.accumulators))
	for i, acc := range w.accumulators {
		partitions[i] = acc.Finish()
	}

	w.built = true

	w.logger.Debug().
		Str("manifest_path", w.sink.Location()).
		Int("added_files", w.addedFiles).
		Int("existing_files", w.existingFiles).
		Int("deleted_files", w.deletedFiles).
		Msg("wrote manifest file")

	return ManifestFile{
		ManifestPath:       w.sink.Location(),
		ManifestLength:     int64(buf.Len()),
		PartitionSpecID:    w.spec.ID,
		Content:            w.content,
		SequenceNumber:     UnassignedSequenceNumber,
		MinSequenceNumber:  minSeq,
		AddedSnapshotID:    addedSnapshotID,
		AddedFilesCount:    w.addedFiles,
		ExistingFilesCount: w.existingFiles,
		DeletedFilesCount:  w.deletedFiles,
		AddedRowsCount:     w.addedRows,
		ExistingRowsCount:  w.existingRows,
		DeletedRowsCount:   w.deletedRows,
		Partitions:         partitions,
		KeyMetadata:        w.keyMetadata,
	}, nil
}
