package manifest

import (
	"fmt"

	"github.com/gear6io/manifest/pkg/errors"
)

// Package-specific error codes, one per protocol or schema violation this
// codec can detect. All of them represent the same error kind described in
// the format spec -- DataInvalid -- so the code is purely for diagnostics;
// callers should not branch on it beyond logging/reporting.
var (
	ErrContentMismatch        = errors.MustNewCode("manifest.entry_content_mismatch")
	ErrMissingSequenceNumbers = errors.MustNewCode("manifest.missing_sequence_numbers")
	ErrPartitionTypeMismatch  = errors.MustNewCode("manifest.partition_type_mismatch")
	ErrPartitionArityMismatch = errors.MustNewCode("manifest.partition_arity_mismatch")
	ErrUnknownManifestStatus  = errors.MustNewCode("manifest.unknown_status")
	ErrUnknownDataContent     = errors.MustNewCode("manifest.unknown_data_content")
	ErrUnknownFormatVersion   = errors.MustNewCode("manifest.unknown_format_version")
	ErrUnknownManifestContent = errors.MustNewCode("manifest.unknown_content")
	ErrUnsupportedFileFormat  = errors.MustNewCode("manifest.unsupported_file_format")
	ErrMissingUserMetadata    = errors.MustNewCode("manifest.missing_user_metadata")
	ErrMalformedUserMetadata  = errors.MustNewCode("manifest.malformed_user_metadata")
	ErrBoundTypeUnsupported   = errors.MustNewCode("manifest.bound_type_unsupported")
	ErrRecordCodec            = errors.MustNewCode("manifest.record_codec_failed")
	ErrWriterAlreadyBuilt     = errors.MustNewCode("manifest.writer_already_built")
)

// newDataInvalid builds a package error for any DataInvalid condition (spec
// error kind), formatting the message the way errors.Newf would.
func newDataInvalid(code errors.Code, format string, args ...any) *errors.Error {
	return errors.New(code, fmt.Sprintf(format, args...), nil)
}

// wrapDataInvalid attaches an existing error (typically from the record
// codec) as the cause of a DataInvalid condition.
func wrapDataInvalid(code errors.Code, cause error, format string, args ...any) *errors.Error {
	return errors.New(code, fmt.Sprintf(format, args...), cause)
}
