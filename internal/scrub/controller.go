// Package scrub converts drag deltas into a clamped selection-window offset
// and a normalized seek position.
package scrub

// Listener receives seek notifications during a drag gesture
type Listener interface {
	OnSeek(percent float32)
	OnSeekEnd()
}

// Funcs adapts two plain functions to Listener; nil fields are skipped
type Funcs struct {
	Seek    func(percent float32)
	SeekEnd func()
}

func (f Funcs) OnSeek(percent float32) {
	if f.Seek != nil {
		f.Seek(percent)
	}
}

func (f Funcs) OnSeekEnd() {
	if f.SeekEnd != nil {
		f.SeekEnd()
	}
}

// State is the geometry and position of the selection window.
// 0 <= Offset <= max(0, TrackWidth-WindowWidth) always holds.
type State struct {
	TrackWidth  float32
	WindowWidth float32
	Offset      float32
}

// Range is the largest valid offset
func (s State) Range() float32 {
	if s.TrackWidth <= s.WindowWidth {
		return 0
	}
	return s.TrackWidth - s.WindowWidth
}

// Normalized is Offset as a fraction of Range, 0 when the range is empty
func (s State) Normalized() float32 {
	r := s.Range()
	if r == 0 {
		return 0
	}
	return s.Offset / r
}

func (s State) clamp(v float32) float32 {
	// NaN compares false everywhere and would slip past both bounds
	if v != v || v < 0 {
		return 0
	}
	if r := s.Range(); v > r {
		return r
	}
	return v
}

// Controller owns a State and is driven from the UI context only
type Controller struct {
	state    State
	listener Listener
}

// NewController creates a controller for the given geometry with the
// window at the start of the track
func NewController(trackWidth, windowWidth float32) *Controller {
	return &Controller{state: State{TrackWidth: trackWidth, WindowWidth: windowWidth}}
}

// SetListener replaces the seek listener; nil disables notifications
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// State returns a copy of the current state
func (c *Controller) State() State {
	return c.state
}

// Offset returns the current window offset
func (c *Controller) Offset() float32 {
	return c.state.Offset
}

// Resize applies new geometry and re-clamps the offset without notifying
func (c *Controller) Resize(trackWidth, windowWidth float32) {
	c.state.TrackWidth = trackWidth
	c.state.WindowWidth = windowWidth
	c.state.Offset = c.state.clamp(c.state.Offset)
}

// BeginDrag centres the window under pointerX, measured from the track origin
func (c *Controller) BeginDrag(pointerX float32) {
	c.SetOffset(pointerX - c.state.WindowWidth/2)
}

// DragBy moves the window by deltaX
func (c *Controller) DragBy(deltaX float32) {
	c.SetOffset(c.state.Offset + deltaX)
}

// SetOffset clamps value into the valid range. The listener hears about it
// only when the clamped offset differs from the current one.
func (c *Controller) SetOffset(value float32) {
	next := c.state.clamp(value)
	if next == c.state.Offset {
		return
	}
	c.state.Offset = next
	if c.listener != nil {
		c.listener.OnSeek(c.state.Normalized())
	}
}

// EndDrag reports the end of a gesture, whether or not it moved the window
func (c *Controller) EndDrag() {
	if c.listener != nil {
		c.listener.OnSeekEnd()
	}
}

// Span returns the part of the track under the window as fractions of
// TrackWidth, both clamped to [0, 1]
func (c *Controller) Span() (start, end float32) {
	tw := c.state.TrackWidth
	if tw <= 0 {
		return 0, 0
	}
	start = c.state.Offset / tw
	end = (c.state.Offset + c.state.WindowWidth) / tw
	if end > 1 {
		end = 1
	}
	return start, end
}
