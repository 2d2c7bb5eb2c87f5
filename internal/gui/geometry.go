package gui

// Rect is an axis-aligned box in widget coordinates
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r; the right and bottom edges
// are exclusive
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Geometry places the slots, the dimming mask and the selection window.
// Window is given at offset 0; the controller's offset is added on draw.
type Geometry struct {
	Slots  []Rect
	Track  Rect
	Window Rect
}

// ComputeGeometry lays n equal slots left to right between the margins,
// centred vertically. The mask spans every slot and the gaps between them;
// the window is one slot wide.
func ComputeGeometry(width, height float32, n int, slotHeight, margin, gap float32) Geometry {
	if n < 1 {
		return Geometry{}
	}
	inner := width - 2*margin
	if inner < 0 {
		inner = 0
	}
	slotWidth := inner / float32(n)

	top := (height - slotHeight) / 2
	if top < 0 {
		top = 0
	}

	g := Geometry{Slots: make([]Rect, n)}
	for i := range g.Slots {
		g.Slots[i] = Rect{
			X: margin + float32(i)*(slotWidth+gap),
			Y: top,
			W: slotWidth,
			H: slotHeight,
		}
	}

	g.Track = Rect{X: margin, Y: top, W: inner + float32(n-1)*gap, H: slotHeight}
	g.Window = Rect{X: margin, Y: top, W: slotWidth, H: slotHeight}
	return g
}
