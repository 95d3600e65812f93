package job

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"streampack/ffmpeg"
	"streampack/logger"
	"streampack/models"
	"streampack/probe"
)

// SheetPlan describes one sprite sheet: which global thumbnail indexes it
// holds and the grid dimensions reported to callers. The reported grid covers
// real thumbnails only; the composed image is always a full cols x rows grid
// with unused cells padded by the last thumbnail.
type SheetPlan struct {
	Start      int // global index of the first thumbnail on this sheet
	Count      int // real thumbnails on this sheet
	GridWidth  int
	GridHeight int
}

// PlanSheets partitions count thumbnails into sheets of cols*rows cells.
// A partial final sheet reports grid dimensions computed from its real
// thumbnail count.
func PlanSheets(count, cols, rows int) []SheetPlan {
	perSheet := cols * rows
	var sheets []SheetPlan
	for start := 0; start < count; start += perSheet {
		remaining := count - start
		if remaining > perSheet {
			remaining = perSheet
		}
		gw := remaining
		if gw > cols {
			gw = cols
		}
		gh := (remaining + cols - 1) / cols
		sheets = append(sheets, SheetPlan{
			Start:      start,
			Count:      remaining,
			GridWidth:  gw,
			GridHeight: gh,
		})
	}
	return sheets
}

// RunTrickplay produces the scrub-preview package: interval thumbnails tiled
// into sprite sheets plus a WebVTT cue file mapping playback time to sheet
// pixel rectangles.
func RunTrickplay(ctx context.Context, jobID string, p *models.TrickplayPayload) (*models.TrickplayResult, error) {
	ws, err := NewWorkspace(jobID)
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup()

	UpdateProgress(jobID, 1)

	srcPath := ws.Path("source" + filepath.Ext(p.SourceKey))
	if err := store.Download(ctx, p.SourceBucket, p.SourceKey, srcPath); err != nil {
		return nil, fmt.Errorf("failed to download source %s/%s: %w", p.SourceBucket, p.SourceKey, err)
	}
	UpdateProgress(jobID, 5)

	// Only duration matters here; thumbnails are normalized to a fixed size.
	info, err := probe.Probe(ctx, srcPath)
	if err != nil {
		return nil, err
	}
	UpdateProgress(jobID, 10)

	// Sample one frame every interval seconds into numbered stills.
	thumbDir := ws.Path("thumbs")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	pattern := filepath.Join(thumbDir, "thumb_%05d.jpg")
	args := ffmpeg.ThumbnailArgs(srcPath, p.Interval, p.ThumbWidth, p.ThumbHeight, pattern)
	err = ffmpeg.Run(ctx, args, info.Duration, func(pct float64) {
		UpdateProgress(jobID, 10+50*pct/100)
	})
	if err != nil {
		return nil, fmt.Errorf("thumbnail extraction failed: %w", err)
	}

	thumbs, err := listThumbnails(thumbDir)
	if err != nil {
		return nil, err
	}
	if len(thumbs) == 0 {
		return nil, fmt.Errorf("no thumbnails produced from %s", p.SourceKey)
	}
	UpdateProgress(jobID, 60)
	logger.Infof("Job %s: %d thumbnails at %ds intervals", jobID, len(thumbs), p.Interval)

	outputDir, err := ws.OutputDir()
	if err != nil {
		return nil, err
	}

	// Compose each sheet from a concat list of its thumbnails, padding short
	// final sheets by repeating the last thumbnail so the tile grid is full.
	cols, rows := p.GridSize[0], p.GridSize[1]
	sheets := PlanSheets(len(thumbs), cols, rows)
	for i, sheet := range sheets {
		listPath := ws.Path(fmt.Sprintf("sheet_%d.txt", i))
		if err := writeConcatList(listPath, thumbs, sheet, cols*rows); err != nil {
			return nil, err
		}
		outPath := filepath.Join(outputDir, fmt.Sprintf("sprite_%d.jpg", i))
		if err := ffmpeg.Run(ctx, ffmpeg.TileArgs(listPath, cols, rows, outPath), 0, nil); err != nil {
			return nil, fmt.Errorf("sprite sheet %d failed: %w", i, err)
		}
		UpdateProgress(jobID, 60+25*float64(i+1)/float64(len(sheets)))
	}

	// Cue file: one entry per real thumbnail, each naming a sheet file and a
	// pixel rectangle within it.
	vtt := BuildTrickplayVTT(len(thumbs), p.Interval, cols, rows, p.ThumbWidth, p.ThumbHeight)
	vttPath := filepath.Join(outputDir, "trickplay.vtt")
	if err := os.WriteFile(vttPath, []byte(vtt), 0644); err != nil {
		return nil, fmt.Errorf("failed to write cue file: %w", err)
	}

	if err := uploadDir(ctx, outputDir, p.OutputBucket, p.OutputPrefix); err != nil {
		return nil, err
	}
	UpdateProgress(jobID, 95)

	result := &models.TrickplayResult{ThumbnailCount: len(thumbs)}
	result.VTTURL, err = store.PresignURL(ctx, p.OutputBucket, path.Join(p.OutputPrefix, "trickplay.vtt"))
	if err != nil {
		return nil, fmt.Errorf("failed to presign cue file: %w", err)
	}
	for i := range sheets {
		url, err := store.PresignURL(ctx, p.OutputBucket, path.Join(p.OutputPrefix, fmt.Sprintf("sprite_%d.jpg", i)))
		if err != nil {
			return nil, fmt.Errorf("failed to presign sprite sheet %d: %w", i, err)
		}
		result.SpriteURLs = append(result.SpriteURLs, url)
	}

	UpdateProgress(jobID, 100)
	return result, nil
}

// listThumbnails returns the extracted thumbnail paths in sequence order.
func listThumbnails(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail directory: %w", err)
	}
	var thumbs []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "thumb_") && strings.HasSuffix(name, ".jpg") {
			thumbs = append(thumbs, filepath.Join(dir, name))
		}
	}
	// ReadDir returns names sorted, and the zero-padded numbering keeps
	// lexical order equal to sequence order.
	return thumbs, nil
}

// writeConcatList writes the concat-demuxer input for one sheet. The list
// always holds exactly perSheet entries; a short final sheet repeats its last
// thumbnail to fill the grid.
func writeConcatList(listPath string, thumbs []string, sheet SheetPlan, perSheet int) error {
	var b strings.Builder
	last := ""
	for i := 0; i < sheet.Count; i++ {
		last = thumbs[sheet.Start+i]
		fmt.Fprintf(&b, "file '%s'\n", last)
	}
	for i := sheet.Count; i < perSheet; i++ {
		fmt.Fprintf(&b, "file '%s'\n", last)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	return nil
}

// BuildTrickplayVTT emits the WebVTT cue file for count thumbnails. Cue i
// covers [i*interval, (i+1)*interval) and points at the pixel rectangle of
// its cell on the owning sprite sheet.
func BuildTrickplayVTT(count, interval, cols, rows, thumbWidth, thumbHeight int) string {
	perSheet := cols * rows

	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for i := 0; i < count; i++ {
		sheetIndex := i / perSheet
		posInSheet := i % perSheet
		col := posInSheet % cols
		row := posInSheet / cols
		x := col * thumbWidth
		y := row * thumbHeight

		b.WriteString("\n")
		fmt.Fprintf(&b, "%s --> %s\n", formatVTTTime(i*interval), formatVTTTime((i+1)*interval))
		fmt.Fprintf(&b, "sprite_%d.jpg#xywh=%d,%d,%d,%d\n", sheetIndex, x, y, thumbWidth, thumbHeight)
	}
	return b.String()
}

// formatVTTTime renders whole seconds as HH:MM:SS.mmm.
func formatVTTTime(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d.000", h, m, s)
}
