package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/kikiluvv/filmstrip/pkg/util"
)

// TrimOptions defines the sub-range written by Trim
type TrimOptions struct {
	Start        time.Duration
	End          time.Duration
	Output       string
	CopyCodec    bool // If true, use -c copy for fast but keyframe-aligned cuts
	CRF          int  // Quality (0-51, lower = better)
	ProgressFunc ProgressFunc
}

// Trim writes [Start, End) of input to Output, re-encoding unless CopyCodec is set
func (e *Executor) Trim(ctx context.Context, input string, opts TrimOptions) error {
	duration := opts.End - opts.Start
	if duration <= 0 {
		return fmt.Errorf("invalid trim range: end must be after start")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Dur("start", opts.Start).
		Dur("duration", duration).
		Bool("copy_codec", opts.CopyCodec).
		Msg("trimming clip")

	args := []string{
		"-ss", util.FormatDuration(opts.Start),
		"-i", input,
		"-t", util.FormatDuration(duration),
	}

	if opts.CopyCodec {
		args = append(args, "-c", "copy")
	} else {
		crf := opts.CRF
		if crf == 0 {
			crf = DefaultCRF
		}
		args = append(args,
			"-c:v", DefaultVideoCodec,
			"-preset", DefaultPreset,
			"-crf", fmt.Sprintf("%d", crf),
			"-c:a", DefaultAudioCodec,
		)
	}

	args = append(args, "-movflags", "+faststart", opts.Output)

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("trim")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("trim failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("trim complete")
	return nil
}
