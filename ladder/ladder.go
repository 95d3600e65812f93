// Package ladder holds the static encoding ladder and the pure selection
// logic that decides which renditions a given source can be transcoded into.
package ladder

import (
	"fmt"
	"strconv"
	"strings"
)

// RenditionProfile is one immutable row of the encoding ladder.
type RenditionProfile struct {
	Name         string
	Width        int
	Height       int
	CRF          int    // quality factor, lower = higher quality
	Profile      string // H.264 compatibility profile
	Level        string // H.264 level
	AudioBitrate string
	Maxrate      string
	Bufsize      string
	Tier         QualityTier
}

// Encoder and packaging constants shared by every rendition encode. GOPs are
// fixed-length and closed so HLS segments stay independently seekable.
const (
	SegmentDurationSeconds = 4
	GOPDurationSeconds     = 2

	// x264 tuning applied to every rendition: lookahead window, motion
	// estimation method/range, adaptive quantization, quantizer curve
	// compression, B-frame adaptivity, and quantizer floor.
	X264Params = "rc-lookahead=48:me=umh:merange=24:aq-mode=2:qcomp=0.7:b-adapt=2:qpmin=10"
)

// Ladder is ordered ascending by resolution; CRF strictly decreases as
// resolution increases so larger renditions get higher quality targets.
var Ladder = []RenditionProfile{
	{Name: "r240", Width: 426, Height: 240, CRF: 28, Profile: "baseline", Level: "3.0", AudioBitrate: "64k", Maxrate: "400k", Bufsize: "800k", Tier: TierLD},
	{Name: "r360", Width: 640, Height: 360, CRF: 26, Profile: "main", Level: "3.0", AudioBitrate: "96k", Maxrate: "800k", Bufsize: "1600k", Tier: TierSD},
	{Name: "r480", Width: 854, Height: 480, CRF: 24, Profile: "main", Level: "3.1", AudioBitrate: "128k", Maxrate: "1400k", Bufsize: "2800k", Tier: TierSD},
	{Name: "r720", Width: 1280, Height: 720, CRF: 22, Profile: "high", Level: "3.1", AudioBitrate: "128k", Maxrate: "2800k", Bufsize: "5600k", Tier: TierHD},
	{Name: "r1080", Width: 1920, Height: 1080, CRF: 20, Profile: "high", Level: "4.0", AudioBitrate: "192k", Maxrate: "5000k", Bufsize: "10000k", Tier: TierFHD},
	{Name: "r1440", Width: 2560, Height: 1440, CRF: 18, Profile: "high", Level: "4.2", AudioBitrate: "192k", Maxrate: "9000k", Bufsize: "18000k", Tier: TierFHD},
	{Name: "r2160", Width: 3840, Height: 2160, CRF: 16, Profile: "high", Level: "5.1", AudioBitrate: "256k", Maxrate: "16000k", Bufsize: "32000k", Tier: TierUHD},
}

// SelectRenditions returns the ordered subset of the ladder that can be
// produced from a source of the given dimensions without upscaling either
// axis. Non-positive inputs yield an empty selection.
func SelectRenditions(sourceWidth, sourceHeight int) []RenditionProfile {
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return nil
	}
	var selected []RenditionProfile
	for _, p := range Ladder {
		if p.Width <= sourceWidth && p.Height <= sourceHeight {
			selected = append(selected, p)
		}
	}
	return selected
}

// MaxrateBits converts a rate string like "800k" or "1.5m" into bits per
// second for the master playlist BANDWIDTH attribute.
func MaxrateBits(rate string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(rate))
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}
	mult := 1.0
	switch s[len(s)-1] {
	case 'k':
		mult = 1000
		s = s[:len(s)-1]
	case 'm':
		mult = 1000000
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	return int(v * mult), nil
}
