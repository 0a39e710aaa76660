package manifest

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalOutputInputRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.avro")

	out := NewLocalOutputFile(path)
	assert.Equal(t, path, out.Location())

	w, err := out.Create()
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	in := NewLocalInputFile(path)
	assert.Equal(t, path, in.Location())

	r, err := in.Open()
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalInputFileMissing(t *testing.T) {
	in := NewLocalInputFile(filepath.Join(t.TempDir(), "missing.avro"))
	_, err := in.Open()
	assert.Error(t, err)
}
