package gui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/filmstrip/internal/clips"
	"github.com/kikiluvv/filmstrip/internal/extract"
	"github.com/kikiluvv/filmstrip/internal/ffmpeg"
	"github.com/kikiluvv/filmstrip/internal/imgx"
	"github.com/kikiluvv/filmstrip/pkg/util"
)

// Exporter writes covers and trimmed copies of a clip
type Exporter interface {
	GenerateThumbnail(ctx context.Context, input, output string, timestamp time.Duration, progressFunc ffmpeg.ProgressFunc) error
	Trim(ctx context.Context, input string, opts ffmpeg.TrimOptions) error
}

// Editor is the trim screen for one clip: the filmstrip, a preview of the
// frame under the playhead and a playhead label
type Editor struct {
	logger   zerolog.Logger
	clip     clips.Clip
	runner   *extract.Runner
	exporter Exporter

	strip    *Filmstrip
	preview  *canvas.Image
	playhead *widget.Label

	previewTasks extract.Group
	alive        extract.AliveFlag
	playheadMs   int64

	onSeek    func(percent float32)
	onSeekEnd func()
}

// NewEditor builds the trim screen for clip. Nothing is decoded until Start.
func NewEditor(logger zerolog.Logger, clip clips.Clip, runner *extract.Runner, exporter Exporter, opts FilmstripOptions) *Editor {
	e := &Editor{
		logger:   logger.With().Str("component", "editor").Str("clip", clip.ID).Logger(),
		clip:     clip,
		runner:   runner,
		exporter: exporter,
		strip:    NewFilmstrip(logger, runner, opts),
		preview:  canvas.NewImageFromImage(imgx.Placeholder(16, 9, color.Black)),
		playhead: widget.NewLabel(util.FormatClock(0)),
	}
	e.preview.FillMode = canvas.ImageFillContain
	e.preview.SetMinSize(fyne.NewSize(320, 180))
	e.strip.SetListener(e.handleSeek, e.handleSeekEnd)
	return e
}

// Content returns the canvas object to place in a window
func (e *Editor) Content() fyne.CanvasObject {
	bottom := container.NewVBox(e.strip, container.NewCenter(e.playhead))
	return container.NewBorder(nil, bottom, nil, nil, e.preview)
}

// Filmstrip returns the embedded filmstrip
func (e *Editor) Filmstrip() *Filmstrip {
	return e.strip
}

// Clip returns the clip being edited
func (e *Editor) Clip() clips.Clip {
	return e.clip
}

// SetListener forwards seek callbacks after the editor has handled them
func (e *Editor) SetListener(onSeek func(percent float32), onSeekEnd func()) {
	e.onSeek = onSeek
	e.onSeekEnd = onSeekEnd
}

// Start extracts the filmstrip frames and shows the first frame as preview
func (e *Editor) Start() error {
	e.alive.Set(true)
	if err := e.strip.Start(e.clip); err != nil {
		return fmt.Errorf("failed to start filmstrip: %w", err)
	}
	e.refreshPreview()
	return nil
}

// Stop cancels every extraction of this screen
func (e *Editor) Stop() {
	e.strip.Stop()
	e.previewTasks.Stop()
}

// OnPause cancels the preview decode only; the filmstrip keeps loading
func (e *Editor) OnPause() {
	e.previewTasks.Stop()
}

// Destroy tears the screen down. Frames still in flight are dropped.
func (e *Editor) Destroy() {
	e.alive.Set(false)
	e.strip.Destroy()
	e.previewTasks.Stop()
}

// Playhead returns the playhead position
func (e *Editor) Playhead() time.Duration {
	return util.Millis(e.playheadMs)
}

// SelectedRange maps the part of the track under the selection window onto
// the clip timeline
func (e *Editor) SelectedRange() (start, end time.Duration) {
	from, to := e.strip.Controller().Span()
	return e.clip.At(float64(from)), e.clip.At(float64(to))
}

// SaveCover writes the frame under the playhead to path as a JPEG. Call it
// on the UI context; it blocks until ffmpeg exits.
func (e *Editor) SaveCover(ctx context.Context, path string) error {
	return e.coverJob(path)(ctx)
}

// Export re-encodes the selected range to path. Call it on the UI context;
// it blocks until ffmpeg exits.
func (e *Editor) Export(ctx context.Context, path string) error {
	job, err := e.exportJob(path)
	if err != nil {
		return err
	}
	return job(ctx)
}

// coverJob snapshots the playhead so the returned job can run off the UI context
func (e *Editor) coverJob(path string) func(context.Context) error {
	at := e.Playhead()
	return func(ctx context.Context) error {
		e.logger.Info().Dur("at", at).Str("output", path).Msg("saving cover")
		if err := e.exporter.GenerateThumbnail(ctx, e.clip.Source, path, at, nil); err != nil {
			return fmt.Errorf("failed to save cover: %w", err)
		}
		return nil
	}
}

func (e *Editor) exportJob(path string) (func(context.Context) error, error) {
	start, end := e.SelectedRange()
	if end <= start {
		return nil, fmt.Errorf("nothing selected: %s to %s", util.FormatDuration(start), util.FormatDuration(end))
	}
	return func(ctx context.Context) error {
		e.logger.Info().Dur("start", start).Dur("end", end).Str("output", path).Msg("exporting selection")
		err := e.exporter.Trim(ctx, e.clip.Source, ffmpeg.TrimOptions{
			Start:  start,
			End:    end,
			Output: path,
		})
		if err != nil {
			return fmt.Errorf("failed to export selection: %w", err)
		}
		return nil
	}, nil
}

func (e *Editor) handleSeek(percent float32) {
	e.playheadMs = int64(math.Round(float64(percent) * float64(e.clip.DurationMs())))
	e.playhead.SetText(util.FormatClock(e.Playhead()))
	if e.onSeek != nil {
		e.onSeek(percent)
	}
}

func (e *Editor) handleSeekEnd() {
	e.logger.Debug().Int64("playhead_ms", e.playheadMs).Msg("seek ended")
	e.refreshPreview()
	if e.onSeekEnd != nil {
		e.onSeekEnd()
	}
}

// refreshPreview decodes the frame under the playhead, replacing any
// preview decode still running
func (e *Editor) refreshPreview() {
	req, err := extract.Single(e.clip, e.playheadMs)
	if err != nil {
		e.logger.Warn().Err(err).Int64("playhead_ms", e.playheadMs).Msg("skipping preview")
		return
	}
	e.previewTasks.Start(e.runner, req, &e.alive, func(_ int, frame image.Image) {
		e.preview.Image = frame
		e.preview.Refresh()
	}, nil)
}
