package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kikiluvv/filmstrip/internal/clips"
)

// ErrInvalidRequest is wrapped by every Request validation failure
var ErrInvalidRequest = errors.New("invalid extraction request")

// Request names the slotCount timestamps to decode between StartMs and EndMs
type Request struct {
	ID        uuid.UUID
	Clip      clips.Clip
	SlotCount int
	StartMs   int64
	EndMs     int64
}

// NewRequest builds and validates a request over [startMs, endMs]
func NewRequest(clip clips.Clip, slotCount int, startMs, endMs int64) (Request, error) {
	r := Request{
		ID:        uuid.New(),
		Clip:      clip,
		SlotCount: slotCount,
		StartMs:   startMs,
		EndMs:     endMs,
	}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

// FullClip requests slotCount frames spread over the whole clip
func FullClip(clip clips.Clip, slotCount int) (Request, error) {
	return NewRequest(clip, slotCount, 0, clip.DurationMs())
}

// Single requests one frame at atMs
func Single(clip clips.Clip, atMs int64) (Request, error) {
	return NewRequest(clip, 1, atMs, atMs)
}

// Validate checks the slot count and range
func (r Request) Validate() error {
	if r.SlotCount < 1 {
		return fmt.Errorf("%w: slot count must be at least 1, got %d", ErrInvalidRequest, r.SlotCount)
	}
	if r.StartMs < 0 {
		return fmt.Errorf("%w: start %dms is negative", ErrInvalidRequest, r.StartMs)
	}
	if r.EndMs < r.StartMs {
		return fmt.Errorf("%w: end %dms is before start %dms", ErrInvalidRequest, r.EndMs, r.StartMs)
	}
	return nil
}

// Timestamps returns the request's target timestamps in slot order
func (r Request) Timestamps() []time.Duration {
	ms := TimestampsMs(r.SlotCount, r.StartMs, r.EndMs)
	out := make([]time.Duration, len(ms))
	for i, v := range ms {
		out[i] = time.Duration(v) * time.Millisecond
	}
	return out
}

// TimestampsMs spreads n timestamps evenly over [startMs, endMs], both ends
// included. A single slot sits at startMs.
func TimestampsMs(n int, startMs, endMs int64) []int64 {
	if n < 1 {
		return nil
	}
	out := make([]int64, n)
	if n == 1 {
		out[0] = startMs
		return out
	}
	span := endMs - startMs
	for i := 0; i < n; i++ {
		out[i] = startMs + int64(i)*span/int64(n-1)
	}
	return out
}
