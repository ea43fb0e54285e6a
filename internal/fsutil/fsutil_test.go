package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbukov/mdeco/internal/fsutil"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func Test_HashFile_KnownDigests(t *testing.T) {
	tests := []struct {
		summary   string
		algorithm string
		content   []byte
		expected  string
	}{
		{
			summary:   "sha256 of empty input",
			algorithm: "sha256",
			content:   []byte{},
			expected:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			summary:   "sha256 of known input",
			algorithm: "sha256",
			content:   []byte("hello world\n"),
			expected:  "a948904f2f0f479b8f8197694b30184b0d2ed1c1cd2a1ec0fb85d299a192a447",
		},
		{
			summary:   "md5 of known input",
			algorithm: "md5",
			content:   []byte("hello world\n"),
			expected:  "6f5902ac237024bdd0c176cb93063dc4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			path := writeTempFile(t, "hashed.bin", tt.content)

			digest, err := fsutil.HashFile(path, tt.algorithm, fsutil.DefaultHashBlockSize)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, digest)
		})
	}
}

func Test_HashFile_SmallBlockSizeStreams(t *testing.T) {
	content := make([]byte, 1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := writeTempFile(t, "streamed.bin", content)

	whole, err := fsutil.HashFile(path, "sha256", fsutil.DefaultHashBlockSize)
	require.NoError(t, err)

	// A tiny block size forces many read iterations; the digest must
	// be unaffected.
	blocked, err := fsutil.HashFile(path, "sha256", 7)
	require.NoError(t, err)

	assert.Equal(t, whole, blocked)
}

func Test_HashFile_Blake3Supported(t *testing.T) {
	path := writeTempFile(t, "blake.bin", []byte("content"))

	digest, err := fsutil.HashFile(path, "blake3", 0)

	require.NoError(t, err)
	assert.Len(t, digest, 64, "blake3 digest expected to be 256 bits hex-encoded")
}

func Test_HashFile_UnknownAlgorithm(t *testing.T) {
	path := writeTempFile(t, "any.bin", []byte("content"))

	_, err := fsutil.HashFile(path, "crc-1337", 0)

	assert.Error(t, err)
}

func Test_HashFile_MissingFile(t *testing.T) {
	_, err := fsutil.HashFile(filepath.Join(t.TempDir(), "missing.bin"), "sha256", 0)

	assert.Error(t, err)
}

func Test_Timestamp_FixedFormat(t *testing.T) {
	path := writeTempFile(t, "stamped.txt", []byte("content"))

	modtime := time.Date(2020, time.June, 11, 13, 29, 26, 0, time.Local)
	require.NoError(t, os.Chtimes(path, modtime, modtime))

	rendered, err := fsutil.Timestamp(path, fsutil.Modified, true)

	require.NoError(t, err)
	assert.Equal(t, "2020-06-11 13:29:26", rendered)
}

func Test_Timestamp_CreatedDoesNotError(t *testing.T) {
	path := writeTempFile(t, "created.txt", []byte("content"))

	rendered, err := fsutil.Timestamp(path, fsutil.Created, true)

	require.NoError(t, err)
	_, parseErr := time.Parse(fsutil.TimestampFormat, rendered)
	assert.NoError(t, parseErr, "created timestamp expected to use the fixed layout")
}

func Test_Timestamp_MissingFile(t *testing.T) {
	_, err := fsutil.Timestamp(filepath.Join(t.TempDir(), "missing.txt"), fsutil.Modified, true)

	assert.Error(t, err)
}

func Test_DetectMIME(t *testing.T) {
	tests := []struct {
		summary  string
		name     string
		content  []byte
		expected string
	}{
		{
			summary:  "extension based guess",
			name:     "sample.txt",
			content:  []byte("plain text"),
			expected: "text/plain",
		},
		{
			summary:  "content sniff for extensionless png",
			name:     "image",
			content:  []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
			expected: "image/png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			path := writeTempFile(t, tt.name, tt.content)

			assert.Equal(t, tt.expected, fsutil.DetectMIME(path))
		})
	}
}

func Test_MIMECategory(t *testing.T) {
	assert.Equal(t, "image", fsutil.MIMECategory("image/jpeg"))
	assert.Equal(t, "application", fsutil.MIMECategory("application/octet-stream"))
	assert.Equal(t, "", fsutil.MIMECategory(""))
}

func Test_FindExecutable(t *testing.T) {
	located := fsutil.FindExecutable("definitely-not-a-real-binary-1234")
	assert.Equal(t, "", located)
}
