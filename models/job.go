package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Job type tags carried in the queue envelope.
const (
	JobTypeTranscode = "transcode"
	JobTypeTrickplay = "trickplay"
	JobTypeSubtitle  = "subtitle"
)

// Envelope is the queue record for one job invocation: a type tag plus the
// type-specific payload, kept raw until the matching handler decodes it.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// TranscodePayload requests a full adaptive-bitrate HLS package.
type TranscodePayload struct {
	SourceBucket string `json:"sourceBucket"`
	SourceKey    string `json:"sourceKey"`
	OutputBucket string `json:"outputBucket"`
	OutputPrefix string `json:"outputPrefix"`
	FamilyID     string `json:"familyId,omitempty"` // opaque passthrough
	MediaID      string `json:"mediaId,omitempty"`  // opaque passthrough
}

// TrickplayPayload requests a scrub-preview sprite/cue package.
type TrickplayPayload struct {
	SourceBucket string `json:"sourceBucket"`
	SourceKey    string `json:"sourceKey"`
	OutputBucket string `json:"outputBucket"`
	OutputPrefix string `json:"outputPrefix"`
	Interval     int    `json:"interval,omitempty"`    // seconds between frames, default 5
	GridSize     []int  `json:"gridSize,omitempty"`    // [cols, rows], default [10,10]
	ThumbWidth   int    `json:"thumbWidth,omitempty"`  // default 320
	ThumbHeight  int    `json:"thumbHeight,omitempty"` // default 180
}

// SubtitlePayload requests extraction of embedded text subtitle tracks.
type SubtitlePayload struct {
	SourceBucket string `json:"sourceBucket"`
	SourceKey    string `json:"sourceKey"`
	OutputBucket string `json:"outputBucket"`
	OutputPrefix string `json:"outputPrefix"`
}

// RenditionOutput describes one completed rendition in a transcode result.
type RenditionOutput struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Tier        string `json:"tier"`
	PlaylistURL string `json:"playlistUrl"`
}

// TranscodeResult is the complete success payload of a transcode job.
type TranscodeResult struct {
	MasterPlaylistURL string            `json:"masterPlaylistUrl"`
	Renditions        []RenditionOutput `json:"renditions"`
	Duration          float64           `json:"duration"`
	SegmentCount      int               `json:"segmentCount"`
}

// TrickplayResult is the complete success payload of a trickplay job.
type TrickplayResult struct {
	VTTURL         string   `json:"vttUrl"`
	SpriteURLs     []string `json:"spriteUrls"`
	ThumbnailCount int      `json:"thumbnailCount"`
}

// SubtitleTrack is one successfully extracted subtitle stream. Index is the
// container stream index, needed by players to correlate tracks.
type SubtitleTrack struct {
	Language string `json:"language"`
	Label    string `json:"label"`
	URL      string `json:"url"`
	Index    int    `json:"index"`
}

// SubtitleResult is the complete success payload of a subtitle job. An empty
// Subtitles slice is a valid success (source had no text subtitles).
type SubtitleResult struct {
	Subtitles []SubtitleTrack `json:"subtitles"`
}

// missingFields returns a validation error naming every absent required
// field, or nil when all are present.
func missingFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	// Deterministic order for error messages and tests.
	sort.Strings(missing)
	return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
}

// Validate checks required fields before any I/O happens.
func (p *TranscodePayload) Validate() error {
	return missingFields(map[string]string{
		"sourceBucket": p.SourceBucket,
		"sourceKey":    p.SourceKey,
		"outputBucket": p.OutputBucket,
		"outputPrefix": p.OutputPrefix,
	})
}

// Validate checks required fields and fills in defaults for the optional
// trickplay tuning knobs.
func (p *TrickplayPayload) Validate() error {
	if err := missingFields(map[string]string{
		"sourceBucket": p.SourceBucket,
		"sourceKey":    p.SourceKey,
		"outputBucket": p.OutputBucket,
		"outputPrefix": p.OutputPrefix,
	}); err != nil {
		return err
	}
	if p.Interval <= 0 {
		p.Interval = 5
	}
	if len(p.GridSize) != 2 || p.GridSize[0] <= 0 || p.GridSize[1] <= 0 {
		p.GridSize = []int{10, 10}
	}
	if p.ThumbWidth <= 0 {
		p.ThumbWidth = 320
	}
	if p.ThumbHeight <= 0 {
		p.ThumbHeight = 180
	}
	return nil
}

// Validate checks required fields before any I/O happens.
func (p *SubtitlePayload) Validate() error {
	return missingFields(map[string]string{
		"sourceBucket": p.SourceBucket,
		"sourceKey":    p.SourceKey,
		"outputBucket": p.OutputBucket,
		"outputPrefix": p.OutputPrefix,
	})
}
