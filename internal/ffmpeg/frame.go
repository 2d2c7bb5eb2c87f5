package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // frames are piped back as PNG
	"time"

	"github.com/kikiluvv/filmstrip/internal/clips"
	"github.com/kikiluvv/filmstrip/pkg/util"
)

// lastFrameGuard pulls seeks away from the very end of a stream, where
// ffmpeg usually finds no frame left to decode.
const lastFrameGuard = 100 * time.Millisecond

// DecodeFrameAt decodes the frame shown at timestamp ts
func (e *Executor) DecodeFrameAt(ctx context.Context, clip clips.Clip, ts time.Duration) (image.Image, error) {
	if clip.Source == "" {
		return nil, fmt.Errorf("input path is required")
	}

	seek := seekPosition(clip.Duration, ts)

	args := []string{
		"-ss", util.FormatDuration(seek),
		"-i", clip.Source,
		"-frames:v", "1",
	}
	if filter := NewFilterBuilder().ScaleHeight(e.frameHeight).Build(); filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args, "-f", "image2pipe", "-c:v", "png", "pipe:1")

	data, err := e.Output(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("decode frame at %v: %w", ts, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("decode frame at %v: %w", ts, ErrNoFrame)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

func seekPosition(duration, ts time.Duration) time.Duration {
	if ts < 0 {
		return 0
	}
	if duration > 0 && ts > duration-lastFrameGuard {
		ts = duration - lastFrameGuard
		if ts < 0 {
			ts = 0
		}
	}
	return ts
}
