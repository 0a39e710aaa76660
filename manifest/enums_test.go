package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormatVersion(t *testing.T) {
	v, err := ParseFormatVersion("")
	assert.NoError(t, err)
	assert.Equal(t, FormatVersion1, v)

	v, err = ParseFormatVersion("2")
	assert.NoError(t, err)
	assert.Equal(t, FormatVersion2, v)

	_, err = ParseFormatVersion("3")
	assert.Error(t, err)
}

func TestParseManifestContentType(t *testing.T) {
	c, err := ParseManifestContentType("")
	assert.NoError(t, err)
	assert.Equal(t, ManifestContentData, c)

	c, err = ParseManifestContentType("Deletes")
	assert.NoError(t, err)
	assert.Equal(t, ManifestContentDeletes, c)

	_, err = ParseManifestContentType("bogus")
	assert.Error(t, err)
}

func TestParseDataFileFormat(t *testing.T) {
	f, err := ParseDataFileFormat("parquet")
	assert.NoError(t, err)
	assert.Equal(t, DataFileFormatParquet, f)
	assert.Equal(t, "PARQUET", f.String())

	_, err = ParseDataFileFormat("csv")
	assert.Error(t, err)
}

func TestManifestStatusIsAlive(t *testing.T) {
	assert.True(t, ManifestStatusAdded.IsAlive())
	assert.True(t, ManifestStatusExisting.IsAlive())
	assert.False(t, ManifestStatusDeleted.IsAlive())
}

func TestManifestStatusFromInt(t *testing.T) {
	s, err := manifestStatusFromInt(1)
	assert.NoError(t, err)
	assert.Equal(t, ManifestStatusAdded, s)

	_, err = manifestStatusFromInt(9)
	assert.Error(t, err)
}

func TestDataContentFromInt(t *testing.T) {
	c, err := dataContentFromInt(2)
	assert.NoError(t, err)
	assert.Equal(t, DataContentEqualityDeletes, c)

	_, err = dataContentFromInt(5)
	assert.Error(t, err)
}
