package models

import (
	"reflect"
	"testing"
)

func TestTranscodePayloadValidate(t *testing.T) {
	p := TranscodePayload{
		SourceBucket: "in",
		SourceKey:    "movie.mp4",
		OutputBucket: "out",
		OutputPrefix: "movie/hls",
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Valid payload rejected: %v", err)
	}
}

func TestTranscodePayloadValidateMissing(t *testing.T) {
	p := TranscodePayload{SourceBucket: "in"}
	err := p.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	want := "missing required fields: outputBucket, outputPrefix, sourceKey"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestTrickplayPayloadDefaults(t *testing.T) {
	p := TrickplayPayload{
		SourceBucket: "in",
		SourceKey:    "movie.mp4",
		OutputBucket: "out",
		OutputPrefix: "movie/trick",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Valid payload rejected: %v", err)
	}
	if p.Interval != 5 {
		t.Errorf("Expected default interval 5, got %d", p.Interval)
	}
	if !reflect.DeepEqual(p.GridSize, []int{10, 10}) {
		t.Errorf("Expected default grid [10,10], got %v", p.GridSize)
	}
	if p.ThumbWidth != 320 || p.ThumbHeight != 180 {
		t.Errorf("Expected default thumb size 320x180, got %dx%d", p.ThumbWidth, p.ThumbHeight)
	}
}

func TestTrickplayPayloadKeepsExplicitValues(t *testing.T) {
	p := TrickplayPayload{
		SourceBucket: "in",
		SourceKey:    "movie.mp4",
		OutputBucket: "out",
		OutputPrefix: "movie/trick",
		Interval:     10,
		GridSize:     []int{5, 4},
		ThumbWidth:   160,
		ThumbHeight:  90,
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Valid payload rejected: %v", err)
	}
	if p.Interval != 10 || p.ThumbWidth != 160 || p.ThumbHeight != 90 {
		t.Error("Explicit values must not be overwritten by defaults")
	}
	if !reflect.DeepEqual(p.GridSize, []int{5, 4}) {
		t.Errorf("Explicit grid overwritten: %v", p.GridSize)
	}
}

func TestTrickplayPayloadBadGridFallsBack(t *testing.T) {
	p := TrickplayPayload{
		SourceBucket: "in",
		SourceKey:    "movie.mp4",
		OutputBucket: "out",
		OutputPrefix: "movie/trick",
		GridSize:     []int{0, -3},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Valid payload rejected: %v", err)
	}
	if !reflect.DeepEqual(p.GridSize, []int{10, 10}) {
		t.Errorf("Invalid grid must fall back to default, got %v", p.GridSize)
	}
}

func TestSubtitlePayloadValidateMissingAll(t *testing.T) {
	p := SubtitlePayload{}
	err := p.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	want := "missing required fields: outputBucket, outputPrefix, sourceBucket, sourceKey"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}
