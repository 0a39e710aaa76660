package manifest

import "strings"

// FormatVersion identifies the on-disk shape of a manifest: v1 or v2.
// It is fixed for the lifetime of a manifest and drives which fields are
// required, optional, or absent entirely (see schema.go).
type FormatVersion int

const (
	FormatVersion1 FormatVersion = 1
	FormatVersion2 FormatVersion = 2
)

func (v FormatVersion) String() string {
	switch v {
	case FormatVersion1:
		return "1"
	case FormatVersion2:
		return "2"
	default:
		return "unknown"
	}
}

// ParseFormatVersion parses the decimal "1" or "2" user-metadata value,
// defaulting to V1 when s is empty.
func ParseFormatVersion(s string) (FormatVersion, error) {
	switch s {
	case "", "1":
		return FormatVersion1, nil
	case "2":
		return FormatVersion2, nil
	default:
		return 0, newDataInvalid(ErrUnknownFormatVersion, "unrecognized format-version %q", s)
	}
}

// ManifestContentType distinguishes a data manifest from a delete manifest.
// Deletes is only legal under FormatVersion2.
type ManifestContentType int

const (
	ManifestContentData ManifestContentType = iota
	ManifestContentDeletes
)

func (c ManifestContentType) String() string {
	switch c {
	case ManifestContentData:
		return "data"
	case ManifestContentDeletes:
		return "deletes"
	default:
		return "unknown"
	}
}

// ParseManifestContentType parses the lowercased "data"/"deletes"
// user-metadata value, defaulting to Data when s is empty.
func ParseManifestContentType(s string) (ManifestContentType, error) {
	switch strings.ToLower(s) {
	case "", "data":
		return ManifestContentData, nil
	case "deletes":
		return ManifestContentDeletes, nil
	default:
		return 0, newDataInvalid(ErrUnknownManifestContent, "unrecognized content %q", s)
	}
}

// DataContentType identifies what kind of rows a data file carries.
// All V1 entries are implicitly Data.
type DataContentType int

const (
	DataContentData DataContentType = iota
	DataContentPositionDeletes
	DataContentEqualityDeletes
)

func (c DataContentType) String() string {
	switch c {
	case DataContentData:
		return "data"
	case DataContentPositionDeletes:
		return "position_deletes"
	case DataContentEqualityDeletes:
		return "equality_deletes"
	default:
		return "unknown"
	}
}

// dataContentFromInt validates a decoded int against the known enum range.
func dataContentFromInt(v int) (DataContentType, error) {
	switch DataContentType(v) {
	case DataContentData, DataContentPositionDeletes, DataContentEqualityDeletes:
		return DataContentType(v), nil
	default:
		return 0, newDataInvalid(ErrUnknownDataContent, "unrecognized data-file content %d", v)
	}
}

// DataFileFormat is the on-disk encoding of a data or delete file.
// Parsing is case-insensitive; serialization is always upper-case.
type DataFileFormat int

const (
	DataFileFormatUnknown DataFileFormat = iota
	DataFileFormatAvro
	DataFileFormatOrc
	DataFileFormatParquet
)

var dataFileFormatNames = map[DataFileFormat]string{
	DataFileFormatAvro:    "AVRO",
	DataFileFormatOrc:     "ORC",
	DataFileFormatParquet: "PARQUET",
}

var dataFileFormatByName = map[string]DataFileFormat{
	"AVRO":    DataFileFormatAvro,
	"ORC":     DataFileFormatOrc,
	"PARQUET": DataFileFormatParquet,
}

func (f DataFileFormat) String() string {
	if name, ok := dataFileFormatNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseDataFileFormat looks up a file format name case-insensitively.
func ParseDataFileFormat(s string) (DataFileFormat, error) {
	f, ok := dataFileFormatByName[strings.ToUpper(s)]
	if !ok {
		return 0, newDataInvalid(ErrUnsupportedFileFormat, "unsupported file_format %q", s)
	}
	return f, nil
}

// ManifestStatus is the per-entry lifecycle marker. IsAlive reports whether
// the entry should be visible to scans.
type ManifestStatus int

const (
	ManifestStatusExisting ManifestStatus = 0
	ManifestStatusAdded    ManifestStatus = 1
	ManifestStatusDeleted  ManifestStatus = 2
)

func (s ManifestStatus) String() string {
	switch s {
	case ManifestStatusExisting:
		return "existing"
	case ManifestStatusAdded:
		return "added"
	case ManifestStatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// IsAlive reports whether entries of this status are visible to scans.
func (s ManifestStatus) IsAlive() bool {
	return s == ManifestStatusAdded || s == ManifestStatusExisting
}

func manifestStatusFromInt(v int) (ManifestStatus, error) {
	switch ManifestStatus(v) {
	case ManifestStatusExisting, ManifestStatusAdded, ManifestStatusDeleted:
		return ManifestStatus(v), nil
	default:
		return 0, newDataInvalid(ErrUnknownManifestStatus, "unrecognized manifest status %d", v)
	}
}

// Sentinels from the Iceberg spec, filled in by the enclosing
// manifest-list layer at commit time.
const (
	UnassignedSequenceNumber int64 = -1
	UnassignedSnapshotID     int64 = -1
	InitialSequenceNumber    int64 = 0
)
