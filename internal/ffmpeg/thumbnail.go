package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/kikiluvv/filmstrip/pkg/util"
)

// GenerateThumbnail writes the frame at timestamp to output as a JPEG
func (e *Executor) GenerateThumbnail(ctx context.Context, input, output string, timestamp time.Duration, progressFunc ProgressFunc) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Dur("timestamp", timestamp).
		Msg("generating thumbnail")

	args := []string{
		"-ss", util.FormatDuration(timestamp),
		"-i", input,
		"-frames:v", "1",
		"-q:v", "2", // high quality JPEG
		output,
	}

	opts := RunOptions{
		Args:            args,
		ProgressHandler: progressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("thumbnail generation")
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		return fmt.Errorf("thumbnail generation failed: %w", err)
	}
	return nil
}
