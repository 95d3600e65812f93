package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"streampack/config"
	"streampack/logger"
)

// ProgressFunc receives the encoder's own percent-complete signal, 0-100.
type ProgressFunc func(percent float64)

// Run executes ffmpeg with the given arguments. When durationSeconds is
// positive and onProgress is non-nil, the -progress key=value stream on
// stdout is parsed and out_time_us is reported as a percentage of the known
// duration. The subprocess dies with the context, so cancelling the job
// kills the encode. Stderr is captured and attached to any error.
func Run(ctx context.Context, args []string, durationSeconds float64, onProgress ProgressFunc) error {
	cmd := exec.CommandContext(ctx, config.FFmpegPath(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	// Drain the progress stream even when nobody listens, otherwise ffmpeg
	// blocks on a full pipe.
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if onProgress == nil || durationSeconds <= 0 {
			continue
		}
		if us, ok := strings.CutPrefix(line, "out_time_us="); ok {
			if v, err := strconv.ParseInt(us, 10, 64); err == nil {
				pct := float64(v) / 1e6 / durationSeconds * 100
				if pct < 0 {
					pct = 0
				}
				if pct > 100 {
					pct = 100
				}
				onProgress(pct)
			}
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail(stderr.String(), 2048))
	}

	logger.Debugf("ffmpeg finished: %s", strings.Join(args, " "))
	return nil
}

// tail keeps the last n bytes of stderr; the end is where ffmpeg puts the
// actual failure reason.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
