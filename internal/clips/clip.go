package clips

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Clip is an immutable reference to a media source and its duration
type Clip struct {
	ID       string
	Source   string
	Duration time.Duration
}

// New builds a clip, rejecting negative durations
func New(source string, duration time.Duration) (Clip, error) {
	if source == "" {
		return Clip{}, fmt.Errorf("clip source cannot be empty")
	}
	if duration < 0 {
		return Clip{}, fmt.Errorf("clip duration cannot be negative: %v", duration)
	}
	return Clip{
		ID:       filepath.Base(source),
		Source:   source,
		Duration: duration,
	}, nil
}

// DurationMs returns the clip length in whole milliseconds
func (c Clip) DurationMs() int64 {
	return c.Duration.Milliseconds()
}

// At maps a normalized position onto the clip timeline
func (c Clip) At(fraction float64) time.Duration {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	ms := int64(fraction*float64(c.DurationMs()) + 0.5)
	return time.Duration(ms) * time.Millisecond
}

// Prober resolves a source path into a Clip
type Prober interface {
	Open(ctx context.Context, source string) (Clip, error)
}
