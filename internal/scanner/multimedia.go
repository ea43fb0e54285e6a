package scanner

import (
	"fmt"

	"github.com/tbukov/mdeco/internal/extract"
	"github.com/tbukov/mdeco/internal/fsutil"
	"github.com/tbukov/mdeco/internal/treedict"
)

const ffprobeExecutable = "ffprobe"

// ffprobeHint accompanies the MissingDependencyError raised when the
// probing executable cannot be located.
const ffprobeHint = "cannot find '" + ffprobeExecutable + "' executable, install the ffmpeg suite and ensure it is on the search path"

// VideoInfoScanner extracts container and stream descriptors from video
// files using an external ffprobe executable, emitting them under the
// 'video_metadata' facet.
type VideoInfoScanner struct {
	Scanner

	ffprobePath string
}

func NewVideoInfoScanner() *VideoInfoScanner {
	scanner := &VideoInfoScanner{
		Scanner: NewScanner("VideoInfo", []string{"video/*"}),
	}

	scanner.mustRegister(scanner.addVideoMetadata, "video stream/container probe")

	return scanner
}

func (scanner *VideoInfoScanner) PreChecks() error {
	located := fsutil.FindExecutable(ffprobeExecutable)
	if located == "" {
		scanner.markFailed()
		return &MissingDependencyError{Dependency: ffprobeExecutable, Hint: ffprobeHint}
	}

	scanner.ffprobePath = located
	scanner.markReady()

	return nil
}

func (scanner *VideoInfoScanner) addVideoMetadata(path string) (*treedict.Tree, error) {
	probed, err := extract.ProbeMultimedia(path, scanner.ffprobePath)
	if err != nil {
		return nil, err
	}

	result := treedict.New()
	result.Set("video_metadata", probed)

	return result, nil
}

// AudioInfoScanner extracts container and stream descriptors from audio
// files using an external ffprobe executable, emitting them under the
// 'audio_metadata' facet.
type AudioInfoScanner struct {
	Scanner

	ffprobePath string
}

func NewAudioInfoScanner() *AudioInfoScanner {
	scanner := &AudioInfoScanner{
		Scanner: NewScanner("AudioInfo", []string{"audio/*"}),
	}

	scanner.mustRegister(scanner.addAudioMetadata, "audio stream/container probe")

	return scanner
}

func (scanner *AudioInfoScanner) PreChecks() error {
	located := fsutil.FindExecutable(ffprobeExecutable)
	if located == "" {
		scanner.markFailed()
		return &MissingDependencyError{Dependency: ffprobeExecutable, Hint: ffprobeHint}
	}

	scanner.ffprobePath = located
	scanner.markReady()

	return nil
}

func (scanner *AudioInfoScanner) addAudioMetadata(path string) (*treedict.Tree, error) {
	probed, err := extract.ProbeMultimedia(path, scanner.ffprobePath)
	if err != nil {
		return nil, err
	}

	result := treedict.New()
	result.Set("audio_metadata", probed)

	return result, nil
}

// FFprobeScanner is an experimental scanner covering both video and
// audio files with a single combined probe, classifying the result by
// the detected content MIME and emitting it under the matching facet.
// Disabled by default; enable via the scan configuration.
type FFprobeScanner struct {
	Scanner

	ffprobePath string
}

func NewFFprobeScanner() *FFprobeScanner {
	scanner := &FFprobeScanner{
		Scanner: NewScanner("FFprobe", []string{"video/*", "audio/*"}),
	}

	scanner.mustRegister(scanner.addMultimediaMetadata, "combined multimedia probe")

	return scanner
}

func (scanner *FFprobeScanner) PreChecks() error {
	located := fsutil.FindExecutable(ffprobeExecutable)
	if located == "" {
		scanner.markFailed()
		return &MissingDependencyError{Dependency: ffprobeExecutable, Hint: ffprobeHint}
	}

	scanner.ffprobePath = located
	scanner.markReady()

	return nil
}

func (scanner *FFprobeScanner) addMultimediaMetadata(path string) (*treedict.Tree, error) {
	probed, err := extract.ProbeMultimedia(path, scanner.ffprobePath)
	if err != nil {
		return nil, err
	}

	result := treedict.New()
	switch fsutil.MIMECategory(fsutil.DetectMIME(path)) {
	case "video":
		result.Set("video_metadata", probed)
	case "audio":
		result.Set("audio_metadata", probed)
	default:
		return nil, fmt.Errorf("combined probe cannot classify '%s': content MIME is neither video nor audio", path)
	}

	return result, nil
}
