package job

import (
	"strings"
	"testing"
)

func TestPlanSheetsExactFit(t *testing.T) {
	sheets := PlanSheets(100, 10, 10)
	if len(sheets) != 1 {
		t.Fatalf("Expected 1 sheet for 100 thumbnails, got %d", len(sheets))
	}
	if sheets[0].GridWidth != 10 || sheets[0].GridHeight != 10 {
		t.Errorf("Expected 10x10 grid, got %dx%d", sheets[0].GridWidth, sheets[0].GridHeight)
	}
}

func TestPlanSheetsPartialFinalSheet(t *testing.T) {
	sheets := PlanSheets(105, 10, 10)
	if len(sheets) != 2 {
		t.Fatalf("Expected 2 sheets for 105 thumbnails, got %d", len(sheets))
	}
	if sheets[1].Count != 5 {
		t.Errorf("Expected 5 real thumbnails on second sheet, got %d", sheets[1].Count)
	}
	if sheets[1].GridWidth != 5 || sheets[1].GridHeight != 1 {
		t.Errorf("Expected reported grid 5x1, got %dx%d", sheets[1].GridWidth, sheets[1].GridHeight)
	}

	sheets = PlanSheets(115, 10, 10)
	if len(sheets) != 2 {
		t.Fatalf("Expected 2 sheets for 115 thumbnails, got %d", len(sheets))
	}
	if sheets[1].GridWidth != 10 || sheets[1].GridHeight != 2 {
		t.Errorf("Expected reported grid 10x2, got %dx%d", sheets[1].GridWidth, sheets[1].GridHeight)
	}
}

func TestPlanSheetsSingleThumbnail(t *testing.T) {
	sheets := PlanSheets(1, 10, 10)
	if len(sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(sheets))
	}
	if sheets[0].GridWidth != 1 || sheets[0].GridHeight != 1 {
		t.Errorf("Expected 1x1 grid, got %dx%d", sheets[0].GridWidth, sheets[0].GridHeight)
	}
}

func TestPlanSheetsOneMoreThanRow(t *testing.T) {
	// gridCols+1 images wrap onto a second row of the same sheet.
	sheets := PlanSheets(11, 10, 10)
	if len(sheets) != 1 {
		t.Fatalf("Expected 1 sheet for 11 thumbnails, got %d", len(sheets))
	}
	if sheets[0].GridWidth != 10 || sheets[0].GridHeight != 2 {
		t.Errorf("Expected 10x2 grid, got %dx%d", sheets[0].GridWidth, sheets[0].GridHeight)
	}
}

func TestBuildTrickplayVTTCueGeometry(t *testing.T) {
	vtt := BuildTrickplayVTT(105, 5, 10, 10, 320, 180)

	if !strings.HasPrefix(vtt, "WEBVTT\n") {
		t.Error("Cue file must start with the WEBVTT header")
	}

	// Index 10 wraps to the second row of the first sheet.
	if !strings.Contains(vtt, "sprite_0.jpg#xywh=0,180,320,180") {
		t.Error("Expected cue for index 10 at x=0,y=180 on sheet 0")
	}
	// Index 99 is the last cell of the first sheet.
	if !strings.Contains(vtt, "sprite_0.jpg#xywh=2880,1620,320,180") {
		t.Error("Expected cue for index 99 at x=2880,y=1620 on sheet 0")
	}
	// Index 100 starts the second sheet at the origin.
	if !strings.Contains(vtt, "sprite_1.jpg#xywh=0,0,320,180") {
		t.Error("Expected cue for index 100 at origin of sheet 1")
	}

	// Cue count matches real thumbnails, never padding.
	if got := strings.Count(vtt, "#xywh="); got != 105 {
		t.Errorf("Expected 105 cues, got %d", got)
	}
}

func TestBuildTrickplayVTTTimestamps(t *testing.T) {
	vtt := BuildTrickplayVTT(2, 5, 10, 10, 320, 180)

	if !strings.Contains(vtt, "00:00:00.000 --> 00:00:05.000") {
		t.Error("Expected first cue to cover 0-5s")
	}
	if !strings.Contains(vtt, "00:00:05.000 --> 00:00:10.000") {
		t.Error("Expected second cue to cover 5-10s")
	}
}

func TestFormatVTTTime(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00.000"},
		{5, "00:00:05.000"},
		{65, "00:01:05.000"},
		{3600, "01:00:00.000"},
		{3725, "01:02:05.000"},
	}
	for _, c := range cases {
		if got := formatVTTTime(c.seconds); got != c.want {
			t.Errorf("formatVTTTime(%d) = %s, want %s", c.seconds, got, c.want)
		}
	}
}
