package main

import (
	"fmt"
	"path/filepath"

	"github.com/apache/iceberg-go"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gear6io/manifest/config"
	"github.com/gear6io/manifest/manifest"
	"github.com/gear6io/manifest/utils"
)

var writeCmd = &cobra.Command{
	Use:   "write [output-file]",
	Short: "Write a demo manifest file",
	Long: `Write writes a manifest file against a small built-in demo schema
(id, name, created_at) with a handful of synthetic data files, added
as Added entries, or as Deleted entries when the content is "deletes"
(position-delete files in a v2 delete manifest).

It exists to exercise the writer end to end and to give "inspect" and
"validate" something to read without a running catalog.

If no output file is given, one is generated under the configured
output directory named after a freshly minted ULID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWrite,
}

type writeOptions struct {
	formatVersion int
	content       string
	fileCount     int
	snapshotID    int64
	outDir        string
}

var writeOpts = &writeOptions{}

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().IntVar(&writeOpts.formatVersion, "format-version", 0, "manifest format version (1 or 2); 0 uses the config default")
	writeCmd.Flags().StringVar(&writeOpts.content, "content", "", "manifest content: data or deletes; empty uses the config default")
	writeCmd.Flags().IntVar(&writeOpts.fileCount, "files", 3, "number of synthetic data files to write")
	writeCmd.Flags().Int64Var(&writeOpts.snapshotID, "snapshot-id", 1, "snapshot id recorded against each added entry")
	writeCmd.Flags().StringVar(&writeOpts.outDir, "out-dir", "", "directory to write the generated file into; empty uses the config default")
}

func demoSchema() *iceberg.Schema {
	return iceberg.NewSchema(0, []iceberg.NestedField{
		{ID: 1, Name: "id", Type: iceberg.PrimitiveTypes.Int64, Required: true},
		{ID: 2, Name: "name", Type: iceberg.PrimitiveTypes.String, Required: false},
		{ID: 3, Name: "created_at", Type: iceberg.PrimitiveTypes.TimestampTz, Required: false},
	})
}

func runWrite(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	version, err := resolveFormatVersion(writeOpts.formatVersion, cfg)
	if err != nil {
		return err
	}

	content, err := resolveContent(writeOpts.content, cfg)
	if err != nil {
		return err
	}

	outDir := writeOpts.outDir
	if outDir == "" {
		outDir = cfg.Writer.OutputDir
	}

	outPath := ""
	if len(args) == 1 {
		outPath = args[0]
	} else {
		outPath = filepath.Join(outDir, fmt.Sprintf("manifest-%s.avro", utils.GenerateULIDString()))
	}

	schema := demoSchema()
	spec := manifest.PartitionSpec{ID: 0}

	builder := manifest.NewManifestWriterBuilder(manifest.NewLocalOutputFile(outPath), schema, 0, spec).
		WithSnapshotID(writeOpts.snapshotID).
		WithLogger(logger)

	var writer *manifest.ManifestWriter
	switch {
	case version == manifest.FormatVersion1:
		writer, err = builder.BuildV1()
	case content == manifest.ManifestContentDeletes:
		writer, err = builder.BuildV2Deletes()
	default:
		writer, err = builder.BuildV2Data()
	}
	if err != nil {
		return fmt.Errorf("building manifest writer: %w", err)
	}

	for i := 0; i < writeOpts.fileCount; i++ {
		df := manifest.DataFile{
			Content:         manifest.DataContentData,
			FilePath:        fmt.Sprintf("s3://demo-bucket/data/%s.parquet", uuid.New().String()),
			FileFormat:      manifest.DataFileFormatParquet,
			RecordCount:     int64(100 * (i + 1)),
			FileSizeInBytes: int64(4096 * (i + 1)),
			ColumnSizes:     map[int]int64{1: int64(800 * (i + 1)), 2: int64(1200 * (i + 1))},
			ValueCounts:     map[int]int64{1: int64(100 * (i + 1)), 2: int64(100 * (i + 1))},
			NullValueCounts: map[int]int64{2: int64(i)},
			LowerBounds:     map[int]any{1: int64(1)},
			UpperBounds:     map[int]any{1: int64(100 * (i + 1))},
		}

		if content == manifest.ManifestContentDeletes {
			if version == manifest.FormatVersion2 {
				df.Content = manifest.DataContentPositionDeletes
			}
			if err := writer.AddDeleteFile(df, int64(i+1), int64(i+1)); err != nil {
				return fmt.Errorf("adding delete file: %w", err)
			}
			continue
		}

		if err := writer.AddFile(df, int64(i+1)); err != nil {
			return fmt.Errorf("adding data file: %w", err)
		}
	}

	manifestFile, err := writer.WriteManifestFile()
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	pterm.Success.Printfln("Wrote %s", outPath)
	pterm.DefaultBulletList.WithItems([]pterm.BulletListItem{
		{Level: 0, Text: fmt.Sprintf("added files:    %d", manifestFile.AddedFilesCount)},
		{Level: 0, Text: fmt.Sprintf("added rows:     %d", manifestFile.AddedRowsCount)},
		{Level: 0, Text: fmt.Sprintf("deleted files:  %d", manifestFile.DeletedFilesCount)},
		{Level: 0, Text: fmt.Sprintf("min seq number: %d", manifestFile.MinSequenceNumber)},
	}).Render()

	return nil
}

func resolveFormatVersion(flag int, cfg *config.Config) (manifest.FormatVersion, error) {
	v := flag
	if v == 0 {
		v = cfg.Writer.FormatVersion
	}
	switch v {
	case 1:
		return manifest.FormatVersion1, nil
	case 2:
		return manifest.FormatVersion2, nil
	default:
		return 0, fmt.Errorf("unsupported format version: %d", v)
	}
}

func resolveContent(flag string, cfg *config.Config) (manifest.ManifestContentType, error) {
	s := flag
	if s == "" {
		s = cfg.Writer.Content
	}
	return manifest.ParseManifestContentType(s)
}
