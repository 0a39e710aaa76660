package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gear6io/manifest/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest-file>",
	Short: "Round-trip a manifest and check it for internal consistency",
	Long: `Validate parses a manifest file, re-writes its entries to a
scratch file against the same schema and format version, and checks
that the entry count and the added/existing/deleted counters agree
with what WriteManifestFile reported.

It does not compare byte-for-byte; Avro is free to re-encode the
container differently on each write. It exists to catch entry-level
data loss in the reader or writer, not container drift.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger := loggerFromContext(cmd.Context())

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	metadata, entries, err := manifest.NewReader().Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	scratch := filepath.Join(os.TempDir(), fmt.Sprintf("manifestctl-validate-%d.avro", os.Getpid()))
	defer os.Remove(scratch)

	builder := manifest.NewManifestWriterBuilder(manifest.NewLocalOutputFile(scratch), metadata.Schema, metadata.SchemaID, metadata.PartitionSpec).
		WithLogger(logger)
	for _, e := range entries {
		if e.SnapshotID != nil {
			builder.WithSnapshotID(*e.SnapshotID)
			break
		}
	}

	var writer *manifest.ManifestWriter
	switch {
	case metadata.FormatVersion == manifest.FormatVersion1:
		writer, err = builder.BuildV1()
	case metadata.Content == manifest.ManifestContentDeletes:
		writer, err = builder.BuildV2Deletes()
	default:
		writer, err = builder.BuildV2Data()
	}
	if err != nil {
		return fmt.Errorf("building re-write writer: %w", err)
	}

	for _, e := range entries {
		var addErr error
		switch e.Status {
		case manifest.ManifestStatusExisting:
			addErr = writer.AddExistingEntry(e)
		case manifest.ManifestStatusDeleted:
			addErr = writer.AddDeleteEntry(e)
		default:
			addErr = writer.AddEntry(e)
		}
		if addErr != nil {
			return fmt.Errorf("re-adding entry %s: %w", e.DataFile.FilePath, addErr)
		}
	}

	manifestFile, err := writer.WriteManifestFile()
	if err != nil {
		return fmt.Errorf("re-writing manifest: %w", err)
	}

	rewritten, err := os.ReadFile(scratch)
	if err != nil {
		return fmt.Errorf("reading scratch manifest: %w", err)
	}

	_, roundTripEntries, err := manifest.NewReader().Parse(rewritten)
	if err != nil {
		return fmt.Errorf("re-parsing scratch manifest: %w", err)
	}

	if len(roundTripEntries) != len(entries) {
		pterm.Error.Printfln("entry count mismatch: original %d, round-trip %d", len(entries), len(roundTripEntries))
		return fmt.Errorf("manifest did not round-trip cleanly")
	}

	total := manifestFile.AddedFilesCount + manifestFile.ExistingFilesCount + manifestFile.DeletedFilesCount
	if total != len(entries) {
		pterm.Error.Printfln("counter mismatch: counters sum to %d, entries is %d", total, len(entries))
		return fmt.Errorf("manifest counters are inconsistent")
	}

	pterm.Success.Printfln("%s round-trips cleanly: %d entries", path, len(entries))
	return nil
}
