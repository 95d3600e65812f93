package probe

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30000/1001", 29.97002997},
		{"24/1", 24},
		{"25/1", 25},
		{"23.976", 23.976},
		{"60", 60},
		// Division by zero and garbage fall back to the default.
		{"30/0", 24},
		{"", 24},
		{"abc", 24},
		{"/", 24},
	}
	for _, c := range cases {
		got := parseFrameRate(c.in)
		if math.Abs(got-c.want) > 0.0001 {
			t.Errorf("parseFrameRate(%q) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestBuildResult(t *testing.T) {
	rawJSON := `{
		"format": {"duration": "634.533000"},
		"streams": [
			{"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "24000/1001"},
			{"index": 1, "codec_name": "aac", "codec_type": "audio", "tags": {"language": "eng"}},
			{"index": 2, "codec_name": "subrip", "codec_type": "subtitle", "tags": {"language": "fra", "title": "Forced"}},
			{"index": 3, "codec_name": "hdmv_pgs_subtitle", "codec_type": "subtitle"}
		]
	}`

	var raw ffprobeOutput
	if err := json.Unmarshal([]byte(rawJSON), &raw); err != nil {
		t.Fatalf("Failed to unmarshal fixture: %v", err)
	}

	res := buildResult(&raw)

	if res.Video == nil {
		t.Fatal("Expected a video stream")
	}
	if res.Video.Width != 1920 || res.Video.Height != 1080 {
		t.Errorf("Expected 1920x1080, got %dx%d", res.Video.Width, res.Video.Height)
	}
	if math.Abs(res.Duration-634.533) > 0.001 {
		t.Errorf("Expected duration 634.533, got %f", res.Duration)
	}
	if math.Abs(res.FrameRate-23.976) > 0.001 {
		t.Errorf("Expected frame rate ~23.976, got %f", res.FrameRate)
	}

	if len(res.Audio) != 1 {
		t.Fatalf("Expected 1 audio stream, got %d", len(res.Audio))
	}
	if res.Audio[0].Language != "eng" {
		t.Errorf("Expected audio language eng, got %s", res.Audio[0].Language)
	}

	if len(res.Subtitles) != 2 {
		t.Fatalf("Expected 2 subtitle streams, got %d", len(res.Subtitles))
	}
	if res.Subtitles[0].Language != "fra" || res.Subtitles[0].Title != "Forced" {
		t.Errorf("Unexpected first subtitle stream: %+v", res.Subtitles[0])
	}
	// Untagged streams default to "und".
	if res.Subtitles[1].Language != "und" {
		t.Errorf("Expected und for untagged subtitle, got %s", res.Subtitles[1].Language)
	}
	if res.Subtitles[1].Index != 3 {
		t.Errorf("Expected container stream index 3, got %d", res.Subtitles[1].Index)
	}
}

func TestBuildResultNoVideo(t *testing.T) {
	raw := &ffprobeOutput{
		Format:  ffprobeFormat{Duration: "10.0"},
		Streams: []ffprobeStream{{Index: 0, CodecName: "aac", CodecType: "audio"}},
	}
	res := buildResult(raw)
	if res.Video != nil {
		t.Error("Expected nil video stream for audio-only file")
	}
	if len(res.Audio) != 1 {
		t.Errorf("Expected 1 audio stream, got %d", len(res.Audio))
	}
}

func TestBuildResultUsesFirstVideoStream(t *testing.T) {
	raw := &ffprobeOutput{
		Streams: []ffprobeStream{
			{Index: 0, CodecName: "h264", CodecType: "video", Width: 1280, Height: 720, RFrameRate: "25/1"},
			{Index: 1, CodecName: "mjpeg", CodecType: "video", Width: 320, Height: 180, RFrameRate: "1/1"},
		},
	}
	res := buildResult(raw)
	if res.Video == nil || res.Video.Width != 1280 {
		t.Errorf("Expected first video stream (1280 wide), got %+v", res.Video)
	}
	if res.FrameRate != 25 {
		t.Errorf("Expected frame rate from first video stream, got %f", res.FrameRate)
	}
}
