package gui

import "github.com/kikiluvv/filmstrip/internal/scrub"

// PointerAction is the phase of a pointer or touch event
type PointerAction int

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (a PointerAction) String() string {
	switch a {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

// Router turns raw pointer events into controller calls. A gesture starts
// only with a down event inside the track; everything else is left for
// whatever sits behind the control.
type Router struct {
	ctrl  *scrub.Controller
	track func() Rect

	active bool
	lastX  float32
}

// NewRouter routes into ctrl, hit-testing against the rectangle track returns
func NewRouter(ctrl *scrub.Controller, track func() Rect) *Router {
	return &Router{ctrl: ctrl, track: track}
}

// Active reports whether a gesture is in progress
func (r *Router) Active() bool {
	return r.active
}

// Handle routes one event and reports whether it was consumed
func (r *Router) Handle(action PointerAction, x, y float32) bool {
	switch action {
	case PointerDown:
		track := r.track()
		if !track.Contains(x, y) {
			return false
		}
		if r.active {
			// a down without an up: close the abandoned gesture first
			r.ctrl.EndDrag()
		}
		r.active = true
		r.lastX = x
		r.ctrl.BeginDrag(x - track.X)
		return true

	case PointerMove:
		if !r.active {
			return false
		}
		r.ctrl.DragBy(x - r.lastX)
		r.lastX = x
		return true

	case PointerUp, PointerCancel:
		if !r.active {
			return false
		}
		r.active = false
		r.ctrl.EndDrag()
		return true
	}
	return false
}
