package job

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"streampack/ffmpeg"
	"streampack/logger"
	"streampack/models"
	"streampack/probe"
	"streampack/storage"
)

// bitmapSubtitleCodecs are image-based formats that would need OCR to become
// text; streams carrying them are skipped without failing the job.
var bitmapSubtitleCodecs = map[string]bool{
	"dvd_subtitle":      true,
	"dvdsub":            true,
	"hdmv_pgs_subtitle": true,
	"pgssub":            true,
	"dvb_subtitle":      true,
	"dvbsub":            true,
	"xsub":              true,
}

func isBitmapCodec(codec string) bool {
	return bitmapSubtitleCodecs[codec]
}

// RunSubtitle extracts every embedded text subtitle stream to WebVTT. Bitmap
// streams and per-stream extraction failures are logged and skipped; a source
// with no subtitles at all is a valid empty result.
func RunSubtitle(ctx context.Context, jobID string, p *models.SubtitlePayload) (*models.SubtitleResult, error) {
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
	UpdateProgress(jobID, 10)

	info, err := probe.Probe(ctx, srcPath)
	if err != nil {
		return nil, err
	}
	UpdateProgress(jobID, 20)

	result := &models.SubtitleResult{Subtitles: []models.SubtitleTrack{}}
	if len(info.Subtitles) == 0 {
		logger.Infof("Job %s: no subtitle streams in %s", jobID, p.SourceKey)
		UpdateProgress(jobID, 100)
		return result, nil
	}

	outputDir, err := ws.OutputDir()
	if err != nil {
		return nil, err
	}

	perStream := 75.0 / float64(len(info.Subtitles))
	for i, stream := range info.Subtitles {
		done := func() { UpdateProgress(jobID, 20+perStream*float64(i+1)) }

		if isBitmapCodec(stream.Codec) {
			logger.Infof("Job %s: skipping bitmap subtitle stream %d (%s)", jobID, stream.Index, stream.Codec)
			done()
			continue
		}

		filename := fmt.Sprintf("subtitle_%d.vtt", stream.Index)
		outPath := filepath.Join(outputDir, filename)
		args := ffmpeg.SubtitleArgs(srcPath, stream.Index, outPath)
		if err := ffmpeg.Run(ctx, args, 0, nil); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			// Mixed containers routinely carry one broken track; keep going.
			logger.Warnf("Job %s: failed to extract subtitle stream %d (%s): %v",
				jobID, stream.Index, stream.Codec, err)
			done()
			continue
		}

		key := path.Join(p.OutputPrefix, filename)
		if err := store.Upload(ctx, p.OutputBucket, key, outPath, storage.ContentTypeFor(filename)); err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", filename, err)
		}
		url, err := store.PresignURL(ctx, p.OutputBucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s: %w", filename, err)
		}

		result.Subtitles = append(result.Subtitles, models.SubtitleTrack{
			Language: stream.Language,
			Label:    subtitleLabel(stream),
			URL:      url,
			Index:    stream.Index,
		})
		done()
	}

	UpdateProgress(jobID, 100)
	logger.Infof("Job %s: extracted %d of %d subtitle streams",
		jobID, len(result.Subtitles), len(info.Subtitles))
	return result, nil
}

// subtitleLabel picks the display name for a track: embedded title first,
// then the language-name table, then the raw code.
func subtitleLabel(stream probe.SubtitleStream) string {
	if stream.Title != "" {
		return stream.Title
	}
	return LanguageName(stream.Language)
}
