package job

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"streampack/ffmpeg"
	"streampack/ladder"
	"streampack/logger"
	"streampack/models"
	"streampack/probe"
	"streampack/storage"
)

// Progress budget for a transcode job: download and probe take the first 8
// percent, encoding takes the next 87 split evenly per rendition, upload
// takes the last 5.
const (
	transcodeProbeDone  = 8.0
	transcodeEncodeSpan = 87.0
	transcodeUploadDone = 95.0
)

// RunTranscode produces a full adaptive-bitrate HLS package from one source
// file: probe, ladder selection, per-rendition segmented encodes, master
// playlist synthesis, and upload.
func RunTranscode(ctx context.Context, jobID string, p *models.TranscodePayload) (*models.TranscodeResult, error) {
	ws, err := NewWorkspace(jobID)
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup()

	UpdateProgress(jobID, 1)

	// Download the source into the workspace.
	srcPath := ws.Path("source" + filepath.Ext(p.SourceKey))
	if err := store.Download(ctx, p.SourceBucket, p.SourceKey, srcPath); err != nil {
		return nil, fmt.Errorf("failed to download source %s/%s: %w", p.SourceBucket, p.SourceKey, err)
	}
	UpdateProgress(jobID, 5)

	// Probe for dimensions, duration and frame rate.
	info, err := probe.Probe(ctx, srcPath)
	if err != nil {
		return nil, err
	}
	if info.Video == nil {
		return nil, fmt.Errorf("source %s has no video stream", p.SourceKey)
	}
	UpdateProgress(jobID, transcodeProbeDone)

	// Pick the renditions the source can support. No fallback: a source
	// smaller than the lowest ladder rung cannot be packaged.
	selected := ladder.SelectRenditions(info.Video.Width, info.Video.Height)
	if len(selected) == 0 {
		return nil, fmt.Errorf("source resolution %dx%d is below the smallest rendition",
			info.Video.Width, info.Video.Height)
	}
	logger.Infof("Job %s: %dx%d source, %d renditions selected",
		jobID, info.Video.Width, info.Video.Height, len(selected))

	outputDir, err := ws.OutputDir()
	if err != nil {
		return nil, err
	}

	// Encode each rendition in ladder order. One failure aborts the job;
	// a partial ladder is not a valid streaming package.
	segmentCount := 0
	perRendition := transcodeEncodeSpan / float64(len(selected))
	for i, profile := range selected {
		base := transcodeProbeDone + perRendition*float64(i)
		args := ffmpeg.RenditionArgs(srcPath, profile, info.FrameRate, outputDir)
		err := ffmpeg.Run(ctx, args, info.Duration, func(pct float64) {
			UpdateProgress(jobID, base+perRendition*pct/100)
		})
		if err != nil {
			return nil, fmt.Errorf("rendition %s failed: %w", profile.Name, err)
		}

		n, err := countSegments(outputDir, profile.Name)
		if err != nil {
			return nil, err
		}
		segmentCount += n
		UpdateProgress(jobID, transcodeProbeDone+perRendition*float64(i+1))
		logger.Infof("Job %s: rendition %s done, %d segments", jobID, profile.Name, n)
	}

	// Master playlist referencing every rendition playlist.
	master, err := BuildMasterPlaylist(selected)
	if err != nil {
		return nil, err
	}
	masterPath := filepath.Join(outputDir, "master.m3u8")
	if err := os.WriteFile(masterPath, []byte(master), 0644); err != nil {
		return nil, fmt.Errorf("failed to write master playlist: %w", err)
	}

	// Publish everything in the output directory under the destination
	// prefix, preserving filenames.
	if err := uploadDir(ctx, outputDir, p.OutputBucket, p.OutputPrefix); err != nil {
		return nil, err
	}
	UpdateProgress(jobID, transcodeUploadDone)

	// Assemble the result with retrievable URLs.
	result := &models.TranscodeResult{
		Duration:     info.Duration,
		SegmentCount: segmentCount,
	}
	result.MasterPlaylistURL, err = store.PresignURL(ctx, p.OutputBucket, path.Join(p.OutputPrefix, "master.m3u8"))
	if err != nil {
		return nil, fmt.Errorf("failed to presign master playlist: %w", err)
	}
	for _, profile := range selected {
		url, err := store.PresignURL(ctx, p.OutputBucket, path.Join(p.OutputPrefix, profile.Name+".m3u8"))
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s playlist: %w", profile.Name, err)
		}
		result.Renditions = append(result.Renditions, models.RenditionOutput{
			Name:        profile.Name,
			Width:       profile.Width,
			Height:      profile.Height,
			Tier:        string(profile.Tier),
			PlaylistURL: url,
		})
	}

	UpdateProgress(jobID, 100)
	return result, nil
}

// countSegments counts the .ts segment files a rendition produced.
func countSegments(dir, renditionName string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}
	count := 0
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, renditionName+"_") && strings.HasSuffix(name, ".ts") {
			count++
		}
	}
	return count, nil
}

// uploadDir uploads every regular file in dir to bucket under prefix,
// preserving filenames.
func uploadDir(ctx context.Context, dir, bucket, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		key := path.Join(prefix, name)
		if err := store.Upload(ctx, bucket, key, filepath.Join(dir, name), storage.ContentTypeFor(name)); err != nil {
			return fmt.Errorf("failed to upload %s: %w", name, err)
		}
	}
	return nil
}
