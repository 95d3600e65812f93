// Package probe wraps a single ffprobe invocation against a local media file
// and returns the stream metadata the job handlers need.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"streampack/config"
)

// Result holds the technical metadata extracted from a media file.
type Result struct {
	Video     *VideoStream
	Audio     []AudioStream
	Subtitles []SubtitleStream
	Duration  float64 // seconds
	FrameRate float64 // frames per second
}

// VideoStream describes the first video stream found in the container.
type VideoStream struct {
	Index  int
	Codec  string
	Width  int
	Height int
}

// AudioStream describes one audio stream.
type AudioStream struct {
	Index    int
	Codec    string
	Language string
}

// SubtitleStream describes one subtitle stream. Index is the container
// stream index, used later for extraction mapping.
type SubtitleStream struct {
	Index    int
	Codec    string
	Language string // ISO 639-2/B, "und" when untagged
	Title    string
}

// ffprobeOutput mirrors the JSON structure returned by ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	Index      int               `json:"index"`
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	RFrameRate string            `json:"r_frame_rate,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// Probe runs ffprobe on the given local file. Failure is fatal to the
// calling job; retries are the queue broker's responsibility, not ours.
func Probe(ctx context.Context, localPath string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, config.FFprobePath(),
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		localPath,
	)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("ffprobe timed out for %q", localPath)
		}
		return nil, fmt.Errorf("ffprobe failed for %q: %w", localPath, err)
	}

	var raw ffprobeOutput
	if err := json.Unmarshal(output, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output for %q: %w", localPath, err)
	}

	return buildResult(&raw), nil
}

// buildResult converts raw ffprobe JSON into a clean Result.
func buildResult(raw *ffprobeOutput) *Result {
	res := &Result{}

	if raw.Format.Duration != "" {
		res.Duration, _ = strconv.ParseFloat(raw.Format.Duration, 64)
	}

	for _, stream := range raw.Streams {
		switch stream.CodecType {
		case "video":
			if res.Video == nil {
				res.Video = &VideoStream{
					Index:  stream.Index,
					Codec:  stream.CodecName,
					Width:  stream.Width,
					Height: stream.Height,
				}
				res.FrameRate = parseFrameRate(stream.RFrameRate)
			}
		case "audio":
			res.Audio = append(res.Audio, AudioStream{
				Index:    stream.Index,
				Codec:    stream.CodecName,
				Language: languageTag(stream.Tags),
			})
		case "subtitle":
			res.Subtitles = append(res.Subtitles, SubtitleStream{
				Index:    stream.Index,
				Codec:    stream.CodecName,
				Language: languageTag(stream.Tags),
				Title:    stream.Tags["title"],
			})
		}
	}

	return res
}

func languageTag(tags map[string]string) string {
	if lang := tags["language"]; lang != "" {
		return lang
	}
	return "und"
}

// parseFrameRate converts a rational frame rate string ("30000/1001") into
// frames per second. Division happens only for a positive denominator; a
// plain numeric value is accepted as-is; anything else falls back to 24.
func parseFrameRate(raw string) float64 {
	if idx := strings.Index(raw, "/"); idx >= 0 {
		num, err1 := strconv.ParseFloat(raw[:idx], 64)
		den, err2 := strconv.ParseFloat(raw[idx+1:], 64)
		if err1 == nil && err2 == nil && den > 0 {
			return num / den
		}
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
		return v
	}
	return 24.0
}
