package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/filmstrip/internal/clips"
	"github.com/kikiluvv/filmstrip/internal/config"
	"github.com/kikiluvv/filmstrip/internal/extract"
	"github.com/kikiluvv/filmstrip/pkg/util"
)

// Backend is what the window needs from ffmpeg
type Backend interface {
	clips.Prober
	extract.Decoder
	Exporter
}

// RunGUI opens the editor window and blocks until it is closed. A non-empty
// source is opened straight away.
func RunGUI(ctx context.Context, cfg *config.Config, logger zerolog.Logger, backend Backend, source string) {
	a := app.NewWithID("com.kikiluvv.filmstrip")
	w := a.NewWindow("Filmstrip")
	w.Resize(fyne.NewSize(720, 480))

	runner := extract.NewRunner(logger, backend, extract.DispatcherFunc(fyne.Do), cfg.Filmstrip.Workers)
	opts := OptionsFromConfig(cfg.Filmstrip)

	var editor *Editor
	status := widget.NewLabel("No video loaded")
	body := container.NewStack()

	open := func(path string) {
		status.SetText("Opening " + filepath.Base(path))
		go func() {
			clip, err := backend.Open(ctx, path)
			fyne.Do(func() {
				if err != nil {
					logger.Error().Err(err).Str("path", path).Msg("failed to open video")
					status.SetText("Failed to open " + filepath.Base(path))
					dialog.ShowError(err, w)
					return
				}
				if editor != nil {
					editor.Destroy()
				}
				ed := NewEditor(logger, clip, runner, backend, opts)
				ed.SetListener(nil, func() {
					start, end := ed.SelectedRange()
					status.SetText(fmt.Sprintf("%s  %s to %s", clip.ID, util.FormatClock(start), util.FormatClock(end)))
				})
				editor = ed
				body.Objects = []fyne.CanvasObject{ed.Content()}
				body.Refresh()
				if err := ed.Start(); err != nil {
					dialog.ShowError(err, w)
					return
				}
				status.SetText(fmt.Sprintf("%s  %s", clip.ID, util.FormatClock(clip.Duration)))
			})
		}()
	}

	// run executes job off the UI context and reports back on it
	run := func(what, out string, job func(context.Context) error) {
		status.SetText(what + "...")
		go func() {
			err := util.EnsureDir(filepath.Dir(out))
			if err == nil {
				err = job(ctx)
			}
			fyne.Do(func() {
				if err != nil {
					logger.Error().Err(err).Str("output", out).Msg(strings.ToLower(what) + " failed")
					status.SetText(what + " failed")
					dialog.ShowError(err, w)
					return
				}
				status.SetText("Wrote " + out)
			})
		}()
	}

	loadButton := widget.NewButton("Load Video", func() {
		fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if ur == nil {
				return
			}
			defer ur.Close()
			open(ur.URI().Path())
		}, w)
		fd.SetFilter(storage.NewExtensionFileFilter(util.VideoExtensions))
		fd.Show()
	})

	coverButton := widget.NewButton("Save Cover", func() {
		if editor == nil {
			return
		}
		out := filepath.Join(cfg.WorkDir, strings.TrimSuffix(editor.Clip().ID, filepath.Ext(editor.Clip().ID))+"_cover.jpg")
		run("Saving cover", out, editor.coverJob(out))
	})

	exportButton := widget.NewButton("Export", func() {
		if editor == nil {
			return
		}
		start, end := editor.SelectedRange()
		name := fmt.Sprintf("%s_%d-%d.mp4", strings.TrimSuffix(editor.Clip().ID, filepath.Ext(editor.Clip().ID)), start.Milliseconds(), end.Milliseconds())
		out := filepath.Join(cfg.WorkDir, name)
		job, err := editor.exportJob(out)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		run("Exporting", out, job)
	})

	w.SetContent(container.NewBorder(
		nil,
		container.NewVBox(status, container.NewHBox(loadButton, coverButton, exportButton)),
		nil, nil,
		body,
	))

	w.SetOnClosed(func() {
		if editor != nil {
			editor.Destroy()
		}
	})

	if source != "" {
		open(source)
	}

	w.ShowAndRun()
}
