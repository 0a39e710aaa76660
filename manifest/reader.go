package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/apache/iceberg-go"
	"github.com/hamba/avro/v2/ocf"
)

// Reader parses a self-contained manifest container back into its metadata
// and entries (spec.md §4.4). Stateless; a fresh Reader needs no setup.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Parse implements the reader algorithm of spec.md §4.4: extract user
// metadata, resolve schema/partition-spec/format-version/content, derive
// the partition type, build the matching record schema, then decode every
// entry through the v1/v2 transform.
func (r *Reader) Parse(data []byte) (ManifestMetadata, []ManifestEntry, error) {
	probe, err := ocf.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return ManifestMetadata{}, nil, wrapDataInvalid(ErrRecordCodec, err, "opening manifest container")
	}
	userMeta := probe.Metadata()

	metadata, partitionType, err := parseManifestMetadata(userMeta)
	if err != nil {
		return ManifestMetadata{}, nil, err
	}

	recordSchema, err := BuildManifestEntrySchema(metadata.FormatVersion, metadata.Content, partitionType)
	if err != nil {
		return ManifestMetadata{}, nil, err
	}

	decoder, err := ocf.NewDecoder(bytes.NewReader(data), ocf.WithDecoderSchema(recordSchema))
	if err != nil {
		return ManifestMetadata{}, nil, wrapDataInvalid(ErrRecordCodec, err, "reopening manifest container with explicit schema")
	}

	fields, err := newFieldIndex(metadata.Schema)
	if err != nil {
		return ManifestMetadata{}, nil, err
	}

	var entries []ManifestEntry
	for decoder.HasNext() {
		var rec map[string]any
		if err := decoder.Decode(&rec); err != nil {
			return ManifestMetadata{}, nil, wrapDataInvalid(ErrRecordCodec, err, "decoding manifest entry")
		}
		entry, err := decodeEntry(metadata.FormatVersion, fields, partitionType, rec)
		if err != nil {
			return ManifestMetadata{}, nil, err
		}
		entries = append(entries, entry)
	}

	return metadata, entries, nil
}

// parseManifestMetadata decodes the container's user-metadata keys into a
// ManifestMetadata and the partition type it implies (spec.md §4.4 steps
// 2-3).
func parseManifestMetadata(userMeta map[string][]byte) (ManifestMetadata, *iceberg.StructType, error) {
	schemaBytes, ok := userMeta["schema"]
	if !ok {
		return ManifestMetadata{}, nil, newDataInvalid(ErrMissingUserMetadata, "manifest missing required %q user metadata", "schema")
	}
	var schema iceberg.Schema
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		return ManifestMetadata{}, nil, wrapDataInvalid(ErrMalformedUserMetadata, err, "decoding %q user metadata", "schema")
	}

	schemaID, err := parseSchemaID(string(userMeta["schema-id"]))
	if err != nil {
		return ManifestMetadata{}, nil, err
	}

	partitionSpecBytes, ok := userMeta["partition-spec"]
	if !ok {
		return ManifestMetadata{}, nil, newDataInvalid(ErrMissingUserMetadata, "manifest missing required %q user metadata", "partition-spec")
	}
	var partitionFields []partitionFieldJSON
	if err := json.Unmarshal(partitionSpecBytes, &partitionFields); err != nil {
		return ManifestMetadata{}, nil, wrapDataInvalid(ErrMalformedUserMetadata, err, "decoding %q user metadata", "partition-spec")
	}

	partitionSpecID, err := parseSchemaID(string(userMeta["partition-spec-id"]))
	if err != nil {
		return ManifestMetadata{}, nil, err
	}
	spec := partitionSpecFromJSON(partitionSpecID, partitionFields)

	version, err := ParseFormatVersion(string(userMeta["format-version"]))
	if err != nil {
		return ManifestMetadata{}, nil, err
	}

	content, err := ParseManifestContentType(string(userMeta["content"]))
	if err != nil {
		return ManifestMetadata{}, nil, err
	}

	partitionType, err := ResolvePartitionType(&schema, spec)
	if err != nil {
		return ManifestMetadata{}, nil, err
	}

	metadata := ManifestMetadata{
		Schema:        &schema,
		SchemaID:      schemaID,
		PartitionSpec: spec,
		FormatVersion: version,
		Content:       content,
	}
	return metadata, partitionType, nil
}
