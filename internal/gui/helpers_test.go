package gui

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/filmstrip/internal/clips"
	"github.com/kikiluvv/filmstrip/internal/extract"
	"github.com/kikiluvv/filmstrip/internal/ffmpeg"
)

// queue stands in for the UI context: posted closures run when drained on
// the test goroutine
type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) Do(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

func (q *queue) drain() {
	for {
		q.mu.Lock()
		fns := q.fns
		q.fns = nil
		q.mu.Unlock()
		if len(fns) == 0 {
			return
		}
		for _, fn := range fns {
			fn()
		}
	}
}

// stubDecoder returns images whose width is the timestamp in ms plus one
type stubDecoder struct {
	mu    sync.Mutex
	calls []time.Duration
	block map[time.Duration]chan struct{}
}

func (d *stubDecoder) DecodeFrameAt(_ context.Context, _ clips.Clip, ts time.Duration) (image.Image, error) {
	d.mu.Lock()
	d.calls = append(d.calls, ts)
	ch := d.block[ts]
	d.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return image.NewGray(image.Rect(0, 0, int(ts/time.Millisecond)+1, 1)), nil
}

func (d *stubDecoder) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func widthMs(img image.Image) int64 {
	return int64(img.Bounds().Dx() - 1)
}

type exportCall struct {
	kind   string
	input  string
	output string
	start  time.Duration
	end    time.Duration
}

type fakeExporter struct {
	calls []exportCall
}

func (f *fakeExporter) GenerateThumbnail(_ context.Context, input, output string, ts time.Duration, _ ffmpeg.ProgressFunc) error {
	f.calls = append(f.calls, exportCall{kind: "cover", input: input, output: output, start: ts})
	return nil
}

func (f *fakeExporter) Trim(_ context.Context, input string, opts ffmpeg.TrimOptions) error {
	f.calls = append(f.calls, exportCall{kind: "trim", input: input, output: opts.Output, start: opts.Start, end: opts.End})
	return nil
}

// testOptions lays 7 slots of 40 over a 280 wide track when the widget is
// 320 wide, leaving a 240 range for the window
func testOptions() FilmstripOptions {
	return FilmstripOptions{SlotCount: 7, SlotHeight: 60, Margin: 20, Gap: 0}
}

var testClip = clips.Clip{ID: "clip.mp4", Source: "/videos/clip.mp4", Duration: 6 * time.Second}

func newTestFilmstrip(t *testing.T, dec *stubDecoder) (*Filmstrip, *queue) {
	t.Helper()
	test.NewTempApp(t)

	q := &queue{}
	runner := extract.NewRunner(zerolog.Nop(), dec, q, 1)
	f := NewFilmstrip(zerolog.Nop(), runner, testOptions())
	f.Resize(fyne.NewSize(320, 60))
	return f, q
}

// waitActive waits for the worker of the group's current task to finish
func waitActive(t *testing.T, g *extract.Group) {
	t.Helper()
	task := g.Active()
	if task == nil {
		return
	}
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not finish")
	}
}
