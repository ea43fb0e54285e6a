package scanner_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbukov/mdeco/internal/scanner"
	"github.com/tbukov/mdeco/internal/treedict"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

func scanFileInfo(t *testing.T, path string) *treedict.Tree {
	t.Helper()

	fileInfo := scanner.NewFileInfoScanner("", 0)
	require.NoError(t, fileInfo.PreChecks())

	record, err := fileInfo.Scan(path)
	require.NoError(t, err)

	return record
}

func Test_FileInfo_SampleTextFile(t *testing.T) {
	path := writeTempFile(t, "sample.txt", []byte("0123456789"))

	record := scanFileInfo(t, path)

	assert.Equal(t, []string{
		"file_name",
		"file_type",
		"file_size",
		"mime_type",
		"file_hash",
		"file_timestamps",
	}, record.Keys(), "baseline facets expected in registration order")

	name, _ := record.Get("file_name")
	assert.Equal(t, "sample.txt", name)

	kind, _ := record.Get("file_type")
	assert.Equal(t, "text", kind)

	size, _ := record.Get("file_size")
	assert.Equal(t, int64(10), size)

	mimeType, _ := record.Get("mime_type")
	assert.Equal(t, "text/plain", mimeType)

	hash, ok := record.Get("file_hash")
	require.True(t, ok)
	algorithm, _ := hash.(*treedict.Tree).Get("algorithm")
	assert.Equal(t, "sha256", algorithm, "default digest algorithm expected")
	value, _ := hash.(*treedict.Tree).Get("value")
	assert.Len(t, value, 64)
}

func Test_FileInfo_ZeroByteFile(t *testing.T) {
	path := writeTempFile(t, "empty.bin", []byte{})

	record := scanFileInfo(t, path)

	size, _ := record.Get("file_size")
	assert.Equal(t, int64(0), size)

	hash, ok := record.Get("file_hash")
	require.True(t, ok)
	value, _ := hash.(*treedict.Tree).Get("value")
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", value, "digest of empty input expected")
}

func Test_FileInfo_UnknownExtensionFallsBack(t *testing.T) {
	path := writeTempFile(t, "mystery.zzznope", []byte{0x00, 0x01, 0x02, 0x03})

	record := scanFileInfo(t, path)

	kind, _ := record.Get("file_type")
	assert.Equal(t, "unknown", kind)

	mimeType, _ := record.Get("mime_type")
	assert.Equal(t, "application/octet-stream", mimeType)
}

func Test_FileInfo_TimestampsUseFixedFormat(t *testing.T) {
	path := writeTempFile(t, "stamped.txt", []byte("content"))

	record := scanFileInfo(t, path)

	timestamps, ok := record.Get("file_timestamps")
	require.True(t, ok)

	modified, _ := timestamps.(*treedict.Tree).Get("modified")
	created, _ := timestamps.(*treedict.Tree).Get("created")
	assert.Regexp(t, timestampPattern, modified)
	assert.Regexp(t, timestampPattern, created)
}

func Test_FileInfo_RepeatScansAreIdempotent(t *testing.T) {
	path := writeTempFile(t, "stable.txt", []byte("stable content"))

	first := scanFileInfo(t, path)
	second := scanFileInfo(t, path)

	firstHash, _ := first.Get("file_hash")
	secondHash, _ := second.Get("file_hash")
	firstValue, _ := firstHash.(*treedict.Tree).Get("value")
	secondValue, _ := secondHash.(*treedict.Tree).Get("value")
	assert.Equal(t, firstValue, secondValue)

	firstStamps, _ := first.Get("file_timestamps")
	secondStamps, _ := second.Get("file_timestamps")
	firstModified, _ := firstStamps.(*treedict.Tree).Get("modified")
	secondModified, _ := secondStamps.(*treedict.Tree).Get("modified")
	assert.Equal(t, firstModified, secondModified)
}

func Test_FileInfo_ConfiguredAlgorithm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashed.bin")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	fileInfo := scanner.NewFileInfoScanner("blake3", 0)
	require.NoError(t, fileInfo.PreChecks())

	record, err := fileInfo.Scan(path)
	require.NoError(t, err)

	hash, ok := record.Get("file_hash")
	require.True(t, ok)
	algorithm, _ := hash.(*treedict.Tree).Get("algorithm")
	assert.Equal(t, "blake3", algorithm)
}
