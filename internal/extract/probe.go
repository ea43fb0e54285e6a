package extract

import (
	"fmt"

	"github.com/floostack/transcoder"
	"github.com/floostack/transcoder/ffmpeg"
	"github.com/tbukov/mdeco/internal/treedict"
)

// ProbeMultimedia runs ffprobe (via the transcoder wrapper) against the
// file at 'path' and converts the container/stream descriptors in to an
// ordered tree with a 'format' subtree and a 'streams' list.
func ProbeMultimedia(path string, ffprobePath string) (*treedict.Tree, error) {
	config := ffmpeg.Config{FfprobeBinPath: ffprobePath}
	metadata, err := ffmpeg.New(&config).Input(path).GetMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to extract file metadata information using ffprobe: %w", err)
	}

	tree := treedict.New()
	tree.Set("format", formatTree(metadata.GetFormat()))

	streams := make([]any, 0, len(metadata.GetStreams()))
	for _, stream := range metadata.GetStreams() {
		streams = append(streams, streamTree(stream))
	}
	tree.Set("streams", streams)

	return tree, nil
}

func formatTree(format transcoder.Format) *treedict.Tree {
	tree := treedict.New()
	tree.Set("format_name", format.GetFormatName())
	tree.Set("format_long_name", format.GetFormatLongName())
	tree.Set("nb_streams", format.GetNbStreams())
	tree.Set("duration", format.GetDuration())
	tree.Set("size", format.GetSize())
	tree.Set("bit_rate", format.GetBitRate())
	tree.Set("probe_score", format.GetProbeScore())

	return tree
}

func streamTree(stream transcoder.Streams) *treedict.Tree {
	tree := treedict.New()
	tree.Set("index", stream.GetIndex())
	tree.Set("codec_type", stream.GetCodecType())
	tree.Set("codec_name", stream.GetCodecName())
	tree.Set("codec_long_name", stream.GetCodecLongName())
	tree.Set("profile", stream.GetProfile())
	tree.Set("duration", stream.GetDuration())
	tree.Set("bit_rate", stream.GetBitRate())

	// Frame dimensions only carry meaning for video streams; ffprobe
	// reports zero for everything else.
	if stream.GetCodecType() == "video" {
		tree.Set("width", stream.GetWidth())
		tree.Set("height", stream.GetHeight())
		tree.Set("avg_frame_rate", stream.GetAvgFrameRate())
	}

	return tree
}
