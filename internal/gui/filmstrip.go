package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/filmstrip/internal/clips"
	"github.com/kikiluvv/filmstrip/internal/config"
	"github.com/kikiluvv/filmstrip/internal/extract"
	"github.com/kikiluvv/filmstrip/internal/imgx"
	"github.com/kikiluvv/filmstrip/internal/scrub"
)

// cropScale renders slot images at twice their size in canvas units so they
// stay sharp on high-density displays
const cropScale = 2

// FilmstripOptions configures layout and colours
type FilmstripOptions struct {
	SlotCount   int
	SlotHeight  float32
	Margin      float32
	Gap         float32
	MaskColor   color.Color
	WindowColor color.Color
	Placeholder image.Image
}

// OptionsFromConfig maps the filmstrip config section onto widget options
func OptionsFromConfig(cfg config.FilmstripConfig) FilmstripOptions {
	mask, err := config.ParseColor(cfg.MaskColor)
	if err != nil {
		mask = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x77}
	}
	window, err := config.ParseColor(cfg.WindowColor)
	if err != nil {
		window = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	return FilmstripOptions{
		SlotCount:   cfg.SlotCount,
		SlotHeight:  cfg.SlotHeight,
		Margin:      cfg.Margin,
		Gap:         cfg.Gap,
		MaskColor:   mask,
		WindowColor: window,
	}
}

// Filmstrip shows SlotCount evenly spaced frames of a clip under a dimming
// mask, with a draggable selection window on top
type Filmstrip struct {
	widget.BaseWidget

	logger zerolog.Logger
	opts   FilmstripOptions
	runner *extract.Runner
	tasks  extract.Group
	alive  extract.AliveFlag

	ctrl   *scrub.Controller
	router *Router
	geom   Geometry

	frames   []image.Image
	versions []int

	onSeek    func(percent float32)
	onSeekEnd func()
}

var (
	_ fyne.Draggable    = (*Filmstrip)(nil)
	_ desktop.Mouseable = (*Filmstrip)(nil)
	_ mobile.Touchable  = (*Filmstrip)(nil)
)

// NewFilmstrip creates the widget. Frames are decoded through runner.
func NewFilmstrip(logger zerolog.Logger, runner *extract.Runner, opts FilmstripOptions) *Filmstrip {
	if opts.SlotCount < 1 {
		opts.SlotCount = 1
	}
	if opts.Placeholder == nil {
		opts.Placeholder = imgx.Placeholder(1, 1, color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	}
	if opts.MaskColor == nil {
		opts.MaskColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x77}
	}
	if opts.WindowColor == nil {
		opts.WindowColor = color.White
	}

	f := &Filmstrip{
		logger:   logger.With().Str("component", "filmstrip").Logger(),
		opts:     opts,
		runner:   runner,
		ctrl:     scrub.NewController(0, 0),
		frames:   make([]image.Image, opts.SlotCount),
		versions: make([]int, opts.SlotCount),
	}
	f.router = NewRouter(f.ctrl, func() Rect { return f.geom.Track })
	f.ctrl.SetListener(scrub.Funcs{Seek: f.handleSeek, SeekEnd: f.handleSeekEnd})
	f.ExtendBaseWidget(f)
	return f
}

// SetListener installs the seek callbacks of the owning screen
func (f *Filmstrip) SetListener(onSeek func(percent float32), onSeekEnd func()) {
	f.onSeek = onSeek
	f.onSeekEnd = onSeekEnd
}

// Controller exposes the scrub state, e.g. for the selected span
func (f *Filmstrip) Controller() *scrub.Controller {
	return f.ctrl
}

// Start resets every slot to its placeholder and extracts SlotCount frames
// across the whole clip, cancelling any extraction already running
func (f *Filmstrip) Start(clip clips.Clip) error {
	req, err := extract.FullClip(clip, f.opts.SlotCount)
	if err != nil {
		return err
	}

	for i := range f.frames {
		f.frames[i] = nil
		f.versions[i]++
	}
	f.alive.Set(true)
	f.Refresh()

	f.logger.Debug().
		Str("clip", clip.Source).
		Str("request", req.ID.String()).
		Msg("starting frame extraction")

	f.tasks.Start(f.runner, req, &f.alive, f.paint, nil)
	return nil
}

// Stop cancels the running extraction, if any
func (f *Filmstrip) Stop() {
	f.tasks.Stop()
}

// Destroy detaches the widget; frames still in flight are dropped
func (f *Filmstrip) Destroy() {
	f.alive.Set(false)
	f.tasks.Stop()
}

// Frame returns the frame painted into slot i, or nil while it shows the placeholder
func (f *Filmstrip) Frame(i int) image.Image {
	if i < 0 || i >= len(f.frames) {
		return nil
	}
	return f.frames[i]
}

// SlotCount returns the number of thumbnail slots
func (f *Filmstrip) SlotCount() int {
	return len(f.frames)
}

// HandlePointer routes a pointer event in widget coordinates and reports
// whether the filmstrip consumed it
func (f *Filmstrip) HandlePointer(action PointerAction, x, y float32) bool {
	return f.router.Handle(action, x, y)
}

func (f *Filmstrip) paint(index int, frame image.Image) {
	if index < 0 || index >= len(f.frames) {
		return
	}
	f.frames[index] = frame
	f.versions[index]++
	f.Refresh()
}

func (f *Filmstrip) handleSeek(percent float32) {
	f.Refresh()
	if f.onSeek != nil {
		f.onSeek(percent)
	}
}

func (f *Filmstrip) handleSeekEnd() {
	if f.onSeekEnd != nil {
		f.onSeekEnd()
	}
}

// MouseDown implements desktop.Mouseable
func (f *Filmstrip) MouseDown(ev *desktop.MouseEvent) {
	f.HandlePointer(PointerDown, ev.Position.X, ev.Position.Y)
}

// MouseUp implements desktop.Mouseable
func (f *Filmstrip) MouseUp(ev *desktop.MouseEvent) {
	f.HandlePointer(PointerUp, ev.Position.X, ev.Position.Y)
}

// Dragged implements fyne.Draggable
func (f *Filmstrip) Dragged(ev *fyne.DragEvent) {
	f.HandlePointer(PointerMove, ev.Position.X, ev.Position.Y)
}

// DragEnd implements fyne.Draggable
func (f *Filmstrip) DragEnd() {
	f.HandlePointer(PointerUp, 0, 0)
}

// TouchDown implements mobile.Touchable
func (f *Filmstrip) TouchDown(ev *mobile.TouchEvent) {
	f.HandlePointer(PointerDown, ev.Position.X, ev.Position.Y)
}

// TouchUp implements mobile.Touchable
func (f *Filmstrip) TouchUp(ev *mobile.TouchEvent) {
	f.HandlePointer(PointerUp, ev.Position.X, ev.Position.Y)
}

// TouchCancel implements mobile.Touchable
func (f *Filmstrip) TouchCancel(ev *mobile.TouchEvent) {
	f.HandlePointer(PointerCancel, ev.Position.X, ev.Position.Y)
}

// CreateRenderer implements fyne.Widget
func (f *Filmstrip) CreateRenderer() fyne.WidgetRenderer {
	r := &filmstripRenderer{
		f:      f,
		images: make([]*canvas.Image, len(f.frames)),
		shown:  make([]slotState, len(f.frames)),
		mask:   canvas.NewRectangle(f.opts.MaskColor),
		window: canvas.NewRectangle(color.Transparent),
	}
	r.window.StrokeColor = f.opts.WindowColor
	r.window.StrokeWidth = 2

	for i := range r.images {
		img := canvas.NewImageFromImage(f.opts.Placeholder)
		img.FillMode = canvas.ImageFillStretch
		img.ScaleMode = canvas.ImageScaleSmooth
		r.images[i] = img
		r.shown[i].version = -1
		r.objects = append(r.objects, img)
	}
	r.objects = append(r.objects, r.mask, r.window)
	return r
}

type slotState struct {
	version int
	size    fyne.Size
}

type filmstripRenderer struct {
	f       *Filmstrip
	images  []*canvas.Image
	shown   []slotState
	mask    *canvas.Rectangle
	window  *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *filmstripRenderer) Layout(size fyne.Size) {
	f := r.f
	f.geom = ComputeGeometry(size.Width, size.Height, len(f.frames), f.opts.SlotHeight, f.opts.Margin, f.opts.Gap)
	f.ctrl.Resize(f.geom.Track.W, f.geom.Window.W)

	for i, img := range r.images {
		s := f.geom.Slots[i]
		img.Move(fyne.NewPos(s.X, s.Y))
		img.Resize(fyne.NewSize(s.W, s.H))
	}
	r.mask.Move(fyne.NewPos(f.geom.Track.X, f.geom.Track.Y))
	r.mask.Resize(fyne.NewSize(f.geom.Track.W, f.geom.Track.H))
	r.window.Resize(fyne.NewSize(f.geom.Window.W, f.geom.Window.H))
	r.placeWindow()
	r.refreshSlots()
}

func (r *filmstripRenderer) MinSize() fyne.Size {
	o := r.f.opts
	n := float32(len(r.f.frames))
	return fyne.NewSize(2*o.Margin+n*o.SlotHeight/2+(n-1)*o.Gap, o.SlotHeight)
}

func (r *filmstripRenderer) Refresh() {
	r.mask.FillColor = r.f.opts.MaskColor
	r.window.StrokeColor = r.f.opts.WindowColor
	r.placeWindow()
	r.refreshSlots()
	r.mask.Refresh()
	r.window.Refresh()
}

func (r *filmstripRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *filmstripRenderer) Destroy() {}

func (r *filmstripRenderer) placeWindow() {
	g := r.f.geom
	r.window.Move(fyne.NewPos(g.Window.X+r.f.ctrl.Offset(), g.Window.Y))
}

// refreshSlots re-crops only slots whose frame or size changed
func (r *filmstripRenderer) refreshSlots() {
	f := r.f
	for i, img := range r.images {
		size := img.Size()
		if r.shown[i].version == f.versions[i] && r.shown[i].size == size {
			continue
		}
		r.shown[i] = slotState{version: f.versions[i], size: size}

		src := f.frames[i]
		if src == nil {
			src = f.opts.Placeholder
		}
		if cropped := imgx.CenterCrop(src, int(size.Width*cropScale), int(size.Height*cropScale)); cropped != nil {
			img.Image = cropped
		} else {
			img.Image = src
		}
		img.Refresh()
	}
}
