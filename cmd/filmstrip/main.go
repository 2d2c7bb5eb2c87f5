package main

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/filmstrip/internal/config"
	"github.com/kikiluvv/filmstrip/internal/extract"
	"github.com/kikiluvv/filmstrip/internal/ffmpeg"
	"github.com/kikiluvv/filmstrip/internal/gui"
	"github.com/kikiluvv/filmstrip/internal/logging"
	"github.com/kikiluvv/filmstrip/internal/metrics"
	"github.com/kikiluvv/filmstrip/pkg/util"
)

var (
	cfgFile     string
	verbose     bool
	metricsAddr string

	metricsServer *http.Server
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "filmstrip",
	Short: "filmstrip - scrub, cover and trim videos",
	Long:  "Extracts evenly spaced thumbnails of a video into a draggable filmstrip for picking covers and trimming.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if metricsAddr != "" {
			cfg.Metrics.Addr = metricsAddr
		}

		if cfg.Metrics.Addr != "" {
			metricsServer = metrics.StartServer(cfg.Metrics.Addr, logging.WithComponent("metrics"))
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsServer == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return metricsServer.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./filmstrip.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(coverCmd)
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(configCmd)
}

func newExecutor(cfg *config.Config) (*ffmpeg.Executor, error) {
	return ffmpeg.New(log.Logger, ffmpeg.Options{
		BinaryPath:  cfg.FFmpeg.BinaryPath,
		ProbePath:   cfg.FFmpeg.ProbePath,
		Threads:     cfg.FFmpeg.Threads,
		FrameHeight: cfg.FFmpeg.FrameHeight,
	})
}

var openCmd = &cobra.Command{
	Use:   "open [video]",
	Short: "Open the filmstrip editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exe, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		var source string
		if len(args) == 1 {
			source = args[0]
		}
		gui.RunGUI(cmd.Context(), cfg, log.Logger, exe, source)
		return nil
	},
}

var (
	framesOut   string
	framesSlots int
)

var framesCmd = &cobra.Command{
	Use:   "frames [video]",
	Short: "Extract the filmstrip frames of a video to JPEG files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		exe, err := newExecutor(cfg)
		if err != nil {
			return err
		}
		clip, err := exe.Open(ctx, args[0])
		if err != nil {
			return err
		}

		slots := framesSlots
		if slots == 0 {
			slots = cfg.Filmstrip.SlotCount
		}
		req, err := extract.FullClip(clip, slots)
		if err != nil {
			return err
		}

		out := framesOut
		if out == "" {
			out = filepath.Join(cfg.WorkDir, "frames")
		}
		if err := util.EnsureDir(out); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		loop := extract.NewLoop()
		defer loop.Close()

		runner := extract.NewRunner(log.Logger, exe, loop, cfg.Filmstrip.Workers)

		written := 0
		task := runner.Start(req, nil, func(index int, frame image.Image) {
			path := filepath.Join(out, fmt.Sprintf("slot_%d.jpg", index))
			if err := writeJPEG(path, frame); err != nil {
				log.Error().Err(err).Str("path", path).Msg("failed to write frame")
				return
			}
			written++
		}, nil)

		// Ctrl-C cancels from the loop, like a UI teardown would
		go func() {
			select {
			case <-ctx.Done():
				loop.Do(task.Cancel)
			case <-task.Done():
			}
		}()

		task.Wait()
		loop.Flush()

		log.Info().
			Str("clip", clip.ID).
			Int("slots", slots).
			Int("written", written).
			Str("out", out).
			Msg("frames extracted")

		if task.Stopped() {
			return ctx.Err()
		}
		return nil
	},
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var probeCmd = &cobra.Command{
	Use:   "probe [video]",
	Short: "Print video metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exe, err := newExecutor(cfg)
		if err != nil {
			return err
		}
		info, err := exe.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		log.Info().
			Str("file", info.FilePath).
			Str("duration", util.FormatDuration(info.Duration)).
			Int("width", info.Width).
			Int("height", info.Height).
			Float64("fps", info.FPS).
			Str("video_codec", info.VideoCodec).
			Bool("has_audio", info.HasAudio).
			Msg("probed video")

		return nil
	},
}

var (
	coverAt  string
	coverOut string
)

var coverCmd = &cobra.Command{
	Use:   "cover [video]",
	Short: "Save the frame at a timestamp as a JPEG cover",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		at, err := util.ParseTimestamp(coverAt)
		if err != nil {
			return err
		}

		exe, err := newExecutor(cfg)
		if err != nil {
			return err
		}
		if err := util.EnsureDir(filepath.Dir(coverOut)); err != nil {
			return err
		}
		return exe.GenerateThumbnail(cmd.Context(), args[0], coverOut, at, nil)
	},
}

var (
	trimStart string
	trimEnd   string
	trimOut   string
	trimCopy  bool
)

var trimCmd = &cobra.Command{
	Use:   "trim [video]",
	Short: "Cut a range of a video into a new file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		start, err := util.ParseTimestamp(trimStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := util.ParseTimestamp(trimEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}

		exe, err := newExecutor(cfg)
		if err != nil {
			return err
		}
		if err := util.EnsureDir(filepath.Dir(trimOut)); err != nil {
			return err
		}

		return exe.Trim(cmd.Context(), args[0], ffmpeg.TrimOptions{
			Start:     start,
			End:       end,
			Output:    trimOut,
			CopyCodec: trimCopy,
			ProgressFunc: func(p *ffmpeg.Progress) {
				log.Debug().Str("time", p.Time).Str("speed", p.Speed).Msg("trim progress")
			},
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "filmstrip.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if util.FileExists(path) {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote default config")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(config.FromContext(cmd.Context()))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	framesCmd.Flags().StringVar(&framesOut, "out", "", "output directory (default: <work_dir>/frames)")
	framesCmd.Flags().IntVar(&framesSlots, "slots", 0, "number of frames (default: filmstrip.slot_count)")

	coverCmd.Flags().StringVar(&coverAt, "at", "0", "timestamp, e.g. 1:02.5")
	coverCmd.Flags().StringVar(&coverOut, "out", "cover.jpg", "output JPEG")

	trimCmd.Flags().StringVar(&trimStart, "start", "", "start timestamp")
	trimCmd.Flags().StringVar(&trimEnd, "end", "", "end timestamp")
	trimCmd.Flags().StringVar(&trimOut, "out", "", "output file")
	trimCmd.Flags().BoolVar(&trimCopy, "copy", false, "cut without re-encoding (keyframe aligned)")
	_ = trimCmd.MarkFlagRequired("start")
	_ = trimCmd.MarkFlagRequired("end")
	_ = trimCmd.MarkFlagRequired("out")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
