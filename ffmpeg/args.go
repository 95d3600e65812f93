// Package ffmpeg builds and runs the external encoder invocations used by
// the job handlers: rendition encodes, thumbnail extraction, sprite-sheet
// tiling, and subtitle extraction.
package ffmpeg

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"streampack/ladder"
)

// GOPSize computes the keyframe interval in frames for a source frame rate.
// Applied to both -g and -keyint_min so GOPs are closed and fixed-length,
// which segment-aligned HLS output requires.
func GOPSize(frameRate float64) int {
	return int(math.Round(frameRate * ladder.GOPDurationSeconds))
}

// preamble is shared by every invocation. -progress is a global option and
// must come before any input or output so ffmpeg cannot misread pipe:1 as a
// second output file.
func preamble(withProgress bool) []string {
	args := []string{"-hide_banner", "-nostdin", "-y", "-loglevel", "error"}
	if withProgress {
		args = append(args, "-progress", "pipe:1")
	}
	return args
}

// RenditionArgs builds the argument list for one segmented rendition encode.
// Scene-cut detection is disabled so GOP length stays regular across the
// whole encode.
func RenditionArgs(inputPath string, p ladder.RenditionProfile, frameRate float64, outDir string) []string {
	gop := strconv.Itoa(GOPSize(frameRate))

	args := preamble(true)
	args = append(args, "-i", inputPath)
	args = append(args,
		"-vf", fmt.Sprintf("scale=%d:%d", p.Width, p.Height),
		"-c:v", "libx264",
		"-profile:v", p.Profile,
		"-level:v", p.Level,
		"-crf", strconv.Itoa(p.CRF),
		"-maxrate", p.Maxrate,
		"-bufsize", p.Bufsize,
		"-g", gop,
		"-keyint_min", gop,
		"-sc_threshold", "0",
		"-x264-params", ladder.X264Params,
		"-c:a", "aac",
		"-b:a", p.AudioBitrate,
		"-f", "hls",
		"-hls_time", strconv.Itoa(ladder.SegmentDurationSeconds),
		"-hls_playlist_type", "vod",
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(outDir, p.Name+"_%05d.ts"),
		filepath.Join(outDir, p.Name+".m3u8"),
	)
	return args
}

// ThumbnailArgs builds the argument list for interval frame sampling: one
// still every interval seconds, normalized to the thumbnail size.
func ThumbnailArgs(inputPath string, interval, thumbWidth, thumbHeight int, outPattern string) []string {
	args := preamble(true)
	args = append(args, "-i", inputPath)
	args = append(args,
		"-vf", fmt.Sprintf("fps=1/%d,scale=%d:%d", interval, thumbWidth, thumbHeight),
		"-q:v", "2",
		outPattern,
	)
	return args
}

// TileArgs builds the argument list that composes one sprite sheet from a
// concat list of thumbnail files. The list always carries exactly cols*rows
// entries; the tile filter emits a single grid frame.
func TileArgs(listPath string, cols, rows int, outPath string) []string {
	args := preamble(false)
	args = append(args,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-vf", fmt.Sprintf("tile=%dx%d", cols, rows),
		"-frames:v", "1",
		"-q:v", "2",
		outPath,
	)
	return args
}

// SubtitleArgs builds the argument list that extracts one subtitle stream by
// container index and converts it to WebVTT.
func SubtitleArgs(inputPath string, streamIndex int, outPath string) []string {
	args := preamble(false)
	args = append(args,
		"-i", inputPath,
		"-map", fmt.Sprintf("0:%d", streamIndex),
		"-c:s", "webvtt",
		outPath,
	)
	return args
}
