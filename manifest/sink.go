package manifest

import (
	"io"
	"os"

	"github.com/gear6io/manifest/pkg/errors"
)

var (
	ErrSinkOpenFailed  = errors.MustNewCode("manifest.sink_open_failed")
	ErrSinkWriteFailed = errors.MustNewCode("manifest.sink_write_failed")
)

// OutputFile is the write-side sink a manifest is emitted to. The record
// container/serializer is an external collaborator (spec.md §1); this
// interface is the narrow seam it's driven through, matching the shape of
// the teacher's paths.PathManager -- a small interface over a real
// filesystem concern, so callers can substitute any destination (local
// disk, object storage, an in-memory buffer for tests) without the codec
// knowing which.
type OutputFile interface {
	Create() (io.WriteCloser, error)
	Location() string
}

// InputFile is the read-side counterpart.
type InputFile interface {
	Open() (io.ReadCloser, error)
	Location() string
}

// LocalOutputFile writes to a path on the local filesystem.
type LocalOutputFile struct {
	Path string
}

func NewLocalOutputFile(path string) *LocalOutputFile {
	return &LocalOutputFile{Path: path}
}

func (f *LocalOutputFile) Create() (io.WriteCloser, error) {
	file, err := os.Create(f.Path)
	if err != nil {
		return nil, errors.New(ErrSinkOpenFailed, "creating local output file", err).AddContext("path", f.Path)
	}
	return file, nil
}

func (f *LocalOutputFile) Location() string {
	return f.Path
}

// LocalInputFile reads from a path on the local filesystem.
type LocalInputFile struct {
	Path string
}

func NewLocalInputFile(path string) *LocalInputFile {
	return &LocalInputFile{Path: path}
}

func (f *LocalInputFile) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, errors.New(ErrSinkOpenFailed, "opening local input file", err).AddContext("path", f.Path)
	}
	return file, nil
}

func (f *LocalInputFile) Location() string {
	return f.Path
}
