package scrub

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type event struct {
	kind    string
	percent float32
}

type recordingListener struct {
	events []event
}

func (r *recordingListener) OnSeek(p float32) { r.events = append(r.events, event{"seek", p}) }
func (r *recordingListener) OnSeekEnd()       { r.events = append(r.events, event{kind: "end"}) }

func (r *recordingListener) count(kind string) int {
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func TestSetOffsetClampsToRange(t *testing.T) {
	c := NewController(280, 40)
	l := &recordingListener{}
	c.SetListener(l)

	c.SetOffset(300)

	assert.Equal(t, float32(240), c.Offset())
	assert.Equal(t, []event{{"seek", 1.0}}, l.events)

	c.SetOffset(-50)
	assert.Equal(t, float32(0), c.Offset())
	assert.Equal(t, event{"seek", 0}, l.events[1])
}

func TestDegenerateTrackNeverSeeks(t *testing.T) {
	for _, track := range []float32{40, 25, 0} {
		c := NewController(track, 40)
		l := &recordingListener{}
		c.SetListener(l)

		for _, v := range []float32{-10, 0, 5, 40, 1000} {
			c.SetOffset(v)
			c.DragBy(v)
			assert.Equal(t, float32(0), c.Offset(), "track=%v value=%v", track, v)
		}
		assert.Zero(t, l.count("seek"), "track=%v", track)
		assert.Equal(t, float32(0), c.State().Normalized())
	}
}

func TestSetOffsetIdempotent(t *testing.T) {
	for _, v := range []float32{-3, 0, 17.5, 120, 240, 999} {
		c := NewController(280, 40)
		l := &recordingListener{}
		c.SetListener(l)

		c.SetOffset(v)
		once := c.State()
		seeks := l.count("seek")

		c.SetOffset(v)
		assert.Equal(t, once, c.State(), "value=%v", v)
		assert.Equal(t, seeks, l.count("seek"), "second identical call must not notify")
	}
}

func TestInvariantHoldsForAnyValue(t *testing.T) {
	values := []float32{
		-1e9, -1, -0.0001, 0, 0.5, 119.99, 239.999, 240, 240.001, 1e9,
		float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN()),
	}
	geometries := [][2]float32{{280, 40}, {40, 40}, {10, 40}, {1000, 1}}

	for _, g := range geometries {
		c := NewController(g[0], g[1])
		hi := float32(math.Max(0, float64(g[0]-g[1])))
		for _, v := range values {
			c.SetOffset(v)
			off := c.Offset()
			assert.True(t, off >= 0 && off <= hi, "geometry=%v value=%v offset=%v", g, v, off)
		}
	}
}

func TestNormalizedMonotonic(t *testing.T) {
	c := NewController(280, 40)
	var seen []float32
	c.SetListener(Funcs{Seek: func(p float32) { seen = append(seen, p) }})

	for v := float32(0); v <= 300; v += 7.3 {
		c.SetOffset(v)
	}

	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	assert.Equal(t, float32(1), seen[len(seen)-1])
	for _, p := range seen {
		assert.True(t, p >= 0 && p <= 1)
	}
}

func TestDragGestureOrdering(t *testing.T) {
	c := NewController(280, 40)
	l := &recordingListener{}
	c.SetListener(l)

	c.BeginDrag(20) // centred at 20 puts the window at offset 0: no movement
	c.DragBy(10)
	c.DragBy(5)
	c.EndDrag()

	assert.LessOrEqual(t, l.count("seek"), 2)
	assert.Equal(t, 1, l.count("end"))
	assert.Equal(t, "end", l.events[len(l.events)-1].kind, "seek end follows every seek")
	assert.Equal(t, float32(15), c.Offset())
}

func TestBeginDragCentresWindow(t *testing.T) {
	c := NewController(280, 40)
	c.BeginDrag(100)
	assert.Equal(t, float32(80), c.Offset())

	c.BeginDrag(5)
	assert.Equal(t, float32(0), c.Offset())

	c.BeginDrag(279)
	assert.Equal(t, float32(240), c.Offset())
}

func TestEndDragWithoutMovement(t *testing.T) {
	c := NewController(280, 40)
	l := &recordingListener{}
	c.SetListener(l)

	c.EndDrag()
	assert.Equal(t, []event{{kind: "end"}}, l.events)
}

func TestResizeReclampsSilently(t *testing.T) {
	c := NewController(280, 40)
	l := &recordingListener{}
	c.SetOffset(200)
	c.SetListener(l)

	c.Resize(140, 20)
	assert.Equal(t, float32(120), c.Offset())
	assert.Empty(t, l.events)
}

func TestSpan(t *testing.T) {
	c := NewController(280, 40)
	c.SetOffset(140)

	start, end := c.Span()
	assert.Equal(t, float32(0.5), start)
	assert.InDelta(t, 180.0/280.0, float64(end), 1e-6)

	c = NewController(20, 40)
	start, end = c.Span()
	assert.Equal(t, float32(0), start)
	assert.Equal(t, float32(1), end)

	c = NewController(0, 40)
	start, end = c.Span()
	assert.Zero(t, start)
	assert.Zero(t, end)
}

func TestNilListener(t *testing.T) {
	c := NewController(280, 40)
	assert.NotPanics(t, func() {
		c.BeginDrag(50)
		c.DragBy(3)
		c.EndDrag()
	})
	c.SetListener(Funcs{})
	assert.NotPanics(t, func() {
		c.DragBy(3)
		c.EndDrag()
	})
}
