package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"nomadtool/internal/logging"
	"nomadtool/internal/media"
	"nomadtool/internal/services"
)

var (
	percentPattern = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)
	timePattern    = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
)

// Transcode re-encodes the item's source into outputPath using the given
// encoder identifier and the item's selected preset and tracks. Progress is
// reported through the callback as the subprocess emits it.
//
// Cancellation kills the subprocess, removes the partial output, and
// returns context.Canceled untouched so callers can tell it apart from a
// genuine failure. Exceeding the wall-clock ceiling is a fatal timeout.
func (c *Client) Transcode(ctx context.Context, item *media.Item, encoderID, outputPath string, progress media.ProgressFunc) error {
	if item.SelectedPreset == nil || !item.SelectedPreset.Transcodes() {
		return services.Wrap(services.ErrValidation, "transcode", "preset", "item has no transcoding preset", nil)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := c.buildArgs(item, encoderID, outputPath)
	sampler := logging.NewProgressSampler(5)
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("transcode started",
		logging.String("encoder", encoderID),
		logging.String("preset", item.SelectedPreset.Label),
		logging.String("output", outputPath))

	runErr := c.exec.Run(runCtx, c.binary, args, func(line string) {
		percent, ok := parseTranscodeProgress(line, item.DurationSeconds)
		if !ok {
			return
		}
		message := fmt.Sprintf("Transcoding: %.1f%%", percent)
		progress.Emit(media.ProgressEvent{
			ItemID:  item.ID,
			Stage:   "transcode",
			Percent: percent,
			Message: message,
		})
		if sampler.ShouldLog(percent, "transcode") {
			logger.Info("transcode progress", logging.Float64("percent", percent))
		}
	})
	if runErr != nil {
		_ = os.Remove(outputPath)
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
			return context.Canceled
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "transcode", "wall clock", fmt.Sprintf("exceeded %s ceiling", c.timeout), runErr)
		}
		return services.Wrap(services.ErrExternalTool, "transcode", "run", item.SourcePath, runErr)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "transcode", "output", "transcoder produced no output file", err)
	}
	logger.Info("transcode finished")
	return nil
}

func (c *Client) buildArgs(item *media.Item, encoderID, outputPath string) []string {
	preset := item.SelectedPreset
	args := []string{"-hide_banner", "-y", "-i", item.SourcePath}

	args = append(args, "-map", "0:v:0")
	if item.AudioTrack != nil {
		args = append(args, "-map", fmt.Sprintf("0:%d", item.AudioTrack.Index))
	} else {
		args = append(args, "-map", "0:a:0?")
	}
	if item.SubtitleTrack != nil {
		args = append(args, "-map", fmt.Sprintf("0:%d", item.SubtitleTrack.Index))
	}

	args = append(args, "-c:v", encoderID, "-b:v", strconv.Itoa(preset.BitrateKbps)+"k")
	if preset.MaxHeight > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", preset.MaxHeight))
	}
	args = append(args, "-c:a", "aac", "-b:a", "160k")
	if item.SubtitleTrack != nil {
		args = append(args, "-c:s", "mov_text")
	}
	args = append(args, outputPath)
	return args
}

// parseTranscodeProgress extracts a completion percentage from a progress
// line: an explicit "NN.NN %" token wins, otherwise an ffmpeg time= stamp
// is converted against the item duration.
func parseTranscodeProgress(line string, durationSeconds float64) (float64, bool) {
	if m := percentPattern.FindStringSubmatch(line); m != nil {
		percent, err := strconv.ParseFloat(m[1], 64)
		if err == nil && percent >= 0 && percent <= 100 {
			return percent, true
		}
	}
	if durationSeconds <= 0 {
		return 0, false
	}
	if m := timePattern.FindStringSubmatch(line); m != nil {
		elapsed := parseClock(m[1], m[2], m[3])
		percent := elapsed / durationSeconds * 100
		if percent > 100 {
			percent = 100
		}
		return percent, true
	}
	return 0, false
}
