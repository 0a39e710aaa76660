package manifest

import (
	"path/filepath"
	"testing"

	"github.com/apache/iceberg-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadDataFilesRoundTrip(t *testing.T) {
	schema := testTableSchema()
	partitionType := &iceberg.StructType{}

	files := []DataFile{
		{
			Content:         DataContentData,
			FilePath:        "s3://bucket/data/1.parquet",
			FileFormat:      DataFileFormatParquet,
			RecordCount:     3,
			FileSizeInBytes: 999,
			ColumnSizes:     map[int]int64{1: 10, 2: 20},
			ValueCounts:     map[int]int64{1: 3, 2: 3},
		},
		{
			Content:         DataContentData,
			FilePath:        "s3://bucket/data/2.parquet",
			FileFormat:      DataFileFormatParquet,
			RecordCount:     1,
			FileSizeInBytes: 111,
		},
	}

	path := filepath.Join(t.TempDir(), "datafiles.avro")
	n, err := WriteDataFiles(NewLocalOutputFile(path), schema, partitionType, FormatVersion2, files)
	require.NoError(t, err)
	assert.Greater(t, n, int64(0))

	decoded, err := ReadDataFiles(NewLocalInputFile(path), schema, 0, partitionType, FormatVersion2)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, files[0].FilePath, decoded[0].FilePath)
	assert.Equal(t, files[0].RecordCount, decoded[0].RecordCount)
	assert.Equal(t, files[1].FileSizeInBytes, decoded[1].FileSizeInBytes)
	assert.Equal(t, 0, decoded[0].PartitionSpecID)
}
