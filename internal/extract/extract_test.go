package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbukov/mdeco/internal/extract"
)

func Test_ImageTagSupport_AvailableInThisBuild(t *testing.T) {
	capability := extract.ImageTagSupport()

	assert.True(t, capability.Available)
	assert.Contains(t, capability.Version, "goexif")
}

func Test_ImageTags_UntaggedFileYieldsEmptyTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untagged.jpg")
	require.NoError(t, os.WriteFile(path, []byte("no EXIF payload"), 0o644))

	tags, err := extract.ImageTags(path, false)

	require.NoError(t, err)
	assert.Equal(t, 0, tags.Len())
}

func Test_ImageTags_MissingFile(t *testing.T) {
	_, err := extract.ImageTags(filepath.Join(t.TempDir(), "missing.jpg"), false)

	assert.Error(t, err)
}

func Test_ProbeMultimedia_UnusableProberFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not a real movie"), 0o644))

	_, err := extract.ProbeMultimedia(path, filepath.Join(t.TempDir(), "not-ffprobe"))

	assert.Error(t, err)
}
