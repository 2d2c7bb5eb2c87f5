package gui

import (
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kikiluvv/filmstrip/internal/config"
)

func TestFilmstripPaintsEverySlot(t *testing.T) {
	f, q := newTestFilmstrip(t, &stubDecoder{})

	require.NoError(t, f.Start(testClip))
	waitActive(t, &f.tasks)
	q.drain()

	for i := 0; i < f.SlotCount(); i++ {
		frame := f.Frame(i)
		require.NotNil(t, frame, "slot %d", i)
		assert.Equal(t, int64(i*1000), widthMs(frame))
	}
	assert.Nil(t, f.tasks.Active(), "task handle released when done")

	r := test.WidgetRenderer(f).(*filmstripRenderer)
	for i, img := range r.images {
		assert.Equal(t, f.versions[i], r.shown[i].version, "slot %d shows its latest frame", i)
		assert.NotNil(t, img.Image)
	}
}

func TestFilmstripStopKeepsPlaceholders(t *testing.T) {
	release := make(chan struct{})
	dec := &stubDecoder{block: map[time.Duration]chan struct{}{3 * time.Second: release}}
	f, q := newTestFilmstrip(t, dec)

	require.NoError(t, f.Start(testClip))
	require.Eventually(t, func() bool { return dec.callCount() == 4 }, 5*time.Second, time.Millisecond)
	q.drain()

	f.Stop()
	close(release)
	time.Sleep(10 * time.Millisecond)
	q.drain()

	for i := 0; i < 3; i++ {
		assert.NotNil(t, f.Frame(i), "slot %d painted before the stop", i)
	}
	for i := 3; i < 7; i++ {
		assert.Nil(t, f.Frame(i), "slot %d keeps its placeholder", i)
	}
	assert.Equal(t, 4, dec.callCount())
}

func TestFilmstripDestroyDropsQueuedFrames(t *testing.T) {
	f, q := newTestFilmstrip(t, &stubDecoder{})

	require.NoError(t, f.Start(testClip))
	waitActive(t, &f.tasks)
	f.Destroy()
	q.drain()

	for i := 0; i < f.SlotCount(); i++ {
		assert.Nil(t, f.Frame(i))
	}
}

func TestFilmstripRestartClearsSlots(t *testing.T) {
	f, q := newTestFilmstrip(t, &stubDecoder{})

	require.NoError(t, f.Start(testClip))
	waitActive(t, &f.tasks)
	q.drain()
	require.NotNil(t, f.Frame(0))

	require.NoError(t, f.Start(testClip))
	assert.Nil(t, f.Frame(0), "a new start resets every slot")
	waitActive(t, &f.tasks)
	q.drain()
	assert.NotNil(t, f.Frame(0))
}

func TestFilmstripMouseDrag(t *testing.T) {
	f, _ := newTestFilmstrip(t, &stubDecoder{})

	var seeks []float32
	ends := 0
	f.SetListener(func(p float32) { seeks = append(seeks, p) }, func() { ends++ })

	f.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 30)}})
	f.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(110, 30)}, Dragged: fyne.NewDelta(10, 0)})
	f.DragEnd()
	f.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(110, 30)}})

	assert.Equal(t, float32(70), f.Controller().Offset())
	assert.Equal(t, []float32{60.0 / 240, 70.0 / 240}, seeks)
	assert.Equal(t, 1, ends, "the trailing mouse up after a drag is not a second gesture")

	r := test.WidgetRenderer(f).(*filmstripRenderer)
	assert.Equal(t, fyne.NewPos(90, 0), r.window.Position(), "window drawn at track origin plus offset")
}

func TestFilmstripTouchOutsideTrack(t *testing.T) {
	f, _ := newTestFilmstrip(t, &stubDecoder{})

	ends := 0
	f.SetListener(nil, func() { ends++ })

	f.TouchDown(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 30)}})
	f.TouchUp(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 30)}})
	assert.Zero(t, ends)

	f.TouchDown(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(290, 30)}})
	f.TouchCancel(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(290, 30)}})
	assert.Equal(t, 1, ends)
	assert.Equal(t, float32(240), f.Controller().Offset())
}

func TestFilmstripResizeReclamps(t *testing.T) {
	f, _ := newTestFilmstrip(t, &stubDecoder{})
	f.Controller().SetOffset(240)

	f.Resize(fyne.NewSize(180, 60))
	assert.Equal(t, float32(120), f.Controller().Offset())
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.Default().Filmstrip)
	assert.Equal(t, 7, opts.SlotCount)
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x77}, opts.MaskColor)

	cfg := config.Default().Filmstrip
	cfg.WindowColor = "nope"
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, OptionsFromConfig(cfg).WindowColor)
}
