package manifest

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/apache/iceberg-go"
	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
)

// buildDataFileSchema parses the data_file record (spec.md §4.1) on its
// own, for the standalone stream codec below -- no manifest_entry envelope.
func buildDataFileSchema(version FormatVersion, partitionType *iceberg.StructType) (avro.Schema, error) {
	rec, err := buildDataFileRecord(version, ManifestContentData, partitionType)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, wrapDataInvalid(ErrRecordCodec, err, "marshaling data_file schema")
	}
	parsed, err := avro.Parse(string(raw))
	if err != nil {
		return nil, wrapDataInvalid(ErrRecordCodec, err, "parsing data_file schema")
	}
	return parsed, nil
}

// WriteDataFiles encodes a stream of DataFile values against partitionType
// and version without a surrounding manifest-entry envelope (spec.md §4.7),
// used by upper layers to persist file staging buffers ahead of a commit.
func WriteDataFiles(sink OutputFile, schema *iceberg.Schema, partitionType *iceberg.StructType, version FormatVersion, files []DataFile) (int64, error) {
	fields, err := newFieldIndex(schema)
	if err != nil {
		return 0, err
	}

	avroSchema, err := buildDataFileSchema(version, partitionType)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	encoder, err := ocf.NewEncoder(avroSchema.String(), &buf)
	if err != nil {
		return 0, wrapDataInvalid(ErrRecordCodec, err, "opening data_file encoder")
	}

	for _, df := range files {
		rec, err := encodeDataFile(version, fields, partitionType, df)
		if err != nil {
			return 0, err
		}
		if err := encoder.Encode(rec); err != nil {
			return 0, wrapDataInvalid(ErrRecordCodec, err, "encoding data file")
		}
	}
	if err := encoder.Close(); err != nil {
		return 0, wrapDataInvalid(ErrRecordCodec, err, "closing data_file encoder")
	}

	out, err := sink.Create()
	if err != nil {
		return 0, err
	}
	defer out.Close()

	if _, err := io.Copy(out, bytes.NewReader(buf.Bytes())); err != nil {
		return 0, wrapDataInvalid(ErrRecordCodec, err, "flushing data files to sink")
	}
	return int64(buf.Len()), nil
}

// ReadDataFiles decodes a standalone data_file stream written by
// WriteDataFiles, stamping partitionSpecID onto every decoded DataFile
// (in-memory only; not part of the wire record -- spec.md §3).
func ReadDataFiles(src InputFile, schema *iceberg.Schema, partitionSpecID int, partitionType *iceberg.StructType, version FormatVersion) ([]DataFile, error) {
	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapDataInvalid(ErrRecordCodec, err, "reading data file stream")
	}

	fields, err := newFieldIndex(schema)
	if err != nil {
		return nil, err
	}

	decoder, err := ocf.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, wrapDataInvalid(ErrRecordCodec, err, "opening data_file decoder")
	}

	var out []DataFile
	for decoder.HasNext() {
		var rec map[string]any
		if err := decoder.Decode(&rec); err != nil {
			return nil, wrapDataInvalid(ErrRecordCodec, err, "decoding data file")
		}
		df, err := decodeDataFile(version, fields, partitionType, rec)
		if err != nil {
			return nil, err
		}
		df.PartitionSpecID = partitionSpecID
		out = append(out, df)
	}
	return out, nil
}
