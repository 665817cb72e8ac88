package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/chart2video/internal/config"
	"github.com/ivlev/chart2video/internal/director"
	"github.com/ivlev/chart2video/internal/renderer"
	"github.com/ivlev/chart2video/internal/script"
	"github.com/ivlev/chart2video/internal/system"
	"github.com/ivlev/chart2video/internal/video"
)

// ErrUnaligned rejects raster output for a timeline whose settle instants
// may fall between frames. Video and PNG sequences assume one frame per
// sample period.
var ErrUnaligned = errors.New("raster output needs a frame-aligned timeline")

// Format is the kind of output a project writes.
type Format string

const (
	FormatMP4       Format = "mp4"
	FormatPNG       Format = "png"
	FormatSnapshots Format = "yaml"
)

// FormatFor infers the output format from a path: video extensions encode,
// .yaml/.yml dump the frame stream, anything else is a PNG directory.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".mkv":
		return FormatMP4
	case ".yaml", ".yml":
		return FormatSnapshots
	default:
		return FormatPNG
	}
}

// Project renders one script.
type Project struct {
	Config *config.Config
	Script *script.Script
	// BaseDir resolves relative asset paths in the script.
	BaseDir string
	// PlanPath, when set, receives the beat schedule after the run.
	PlanPath string
	RunID    string

	stage *script.Stage
	stats Stats
}

// Stats describes a finished run.
type Stats struct {
	Frames   int
	Beats    int
	Duration float64
	Workers  int
	Total    time.Duration
	Host     system.HostStats
}

func NewProject(cfg *config.Config, s *script.Script) *Project {
	return &Project{
		Config: cfg,
		Script: s,
		RunID:  uuid.NewString(),
	}
}

func (p *Project) Stats() Stats { return p.stats }

// Plan is the schedule of the last run, or nil before Run.
func (p *Project) Plan() *director.Plan {
	if p.stage == nil {
		return nil
	}
	return p.stage.Director.Plan()
}

// Run replays the script through the render pipeline into the output at
// Config.OutputPath.
func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()

	cfg, err := p.Script.Resolve(p.Config)
	if err != nil {
		return err
	}
	if cfg.OutputPath == "" {
		return errors.New("no output path")
	}
	format := FormatFor(cfg.OutputPath)
	if format != FormatSnapshots && !cfg.FrameAligned {
		return fmt.Errorf("%s output %s: %w", format, cfg.OutputPath, ErrUnaligned)
	}

	opts := renderer.RasterOptions{
		Width:       cfg.Width,
		Height:      cfg.Height,
		FrameWidth:  cfg.FrameWidth,
		FrameHeight: cfg.FrameHeight,
		Background:  cfg.Background,
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = system.DefaultWorkers(opts.FrameBytes())
	}

	fmt.Println("--- [PROJECT: CHART ENGINE] ---")
	fmt.Printf("[*] Run: %s | Ops: %d\n", p.RunID, len(p.Script.Ops))
	fmt.Printf("[*] Output: %s (%s)\n", cfg.OutputPath, format)
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | Workers: %d\n", cfg.Width, cfg.Height, cfg.FPS, workers)
	fmt.Println("-----------------------------")

	r, sink, finish, err := p.open(ctx, cfg, format, opts)
	if err != nil {
		return err
	}

	pipe := renderer.NewPipeline(ctx, r, sink, workers)
	st, err := script.NewStage(cfg, pipe)
	if err != nil {
		pipe.Close()
		finish(err)
		return err
	}
	st.BaseDir = p.BaseDir
	p.stage = st

	err = script.Replay(ctx, p.Script, st)
	if err == nil {
		err = st.Finish(ctx)
	}
	closeErr := pipe.Close()
	if err == nil {
		err = closeErr
	} else if closeErr != nil && !errors.Is(err, closeErr) {
		log.Printf("[!] Pipeline: %v", closeErr)
	}
	if ferr := finish(err); err == nil {
		err = ferr
	}
	if err != nil {
		return err
	}

	p.stats = Stats{
		Frames:   pipe.Written(),
		Beats:    st.Director.Len(),
		Duration: st.Director.Duration(),
		Workers:  workers,
		Total:    time.Since(startTime),
	}
	fmt.Printf("[+++] Done: %s (%d frames, %.2fs of video)\n", cfg.OutputPath, p.stats.Frames, p.stats.Duration)

	if p.PlanPath != "" {
		if err := director.WritePlan(st.Director.Plan(), p.PlanPath); err != nil {
			log.Printf("[!] Cannot write plan %s: %v", p.PlanPath, err)
		}
	}
	if cfg.ShowStats {
		p.stats.Host = system.ReadHostStats()
		p.report(cfg)
	}
	return nil
}

// open picks the renderer and sink for format. finish runs after the
// pipeline closed, with the run's error.
func (p *Project) open(ctx context.Context, cfg *config.Config, format Format, opts renderer.RasterOptions) (renderer.Renderer, renderer.Sink, func(error) error, error) {
	noop := func(error) error { return nil }

	switch format {
	case FormatSnapshots:
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return renderer.Vector{}, renderer.NewSnapshotSink(f), noop, nil

	case FormatPNG:
		raster, err := renderer.NewRaster(opts, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		sink, err := video.NewPNGSink(cfg.OutputPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return raster, sink, noop, nil

	default:
		raster, err := renderer.NewRaster(opts, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		encoder := cfg.VideoEncoder
		if encoder == "" {
			encoder = system.GetBestH264Encoder(ctx)
		}
		quality := cfg.Quality
		if quality == 0 {
			quality = system.DefaultQuality(encoder)
		}
		fmt.Printf("[*] Encoder: %s | Quality: %d\n", encoder, quality)

		// Encode next to the target and rename on success so a failed run
		// never leaves a truncated file under the final name.
		ext := filepath.Ext(cfg.OutputPath)
		part := strings.TrimSuffix(cfg.OutputPath, ext) + ".part-" + p.RunID + ext
		sink, err := video.NewFFmpegSink(ctx, video.Options{
			Path:    part,
			Width:   cfg.Width,
			Height:  cfg.Height,
			FPS:     cfg.FPS,
			Encoder: encoder,
			Quality: quality,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		finish := func(runErr error) error {
			if runErr != nil {
				os.Remove(part)
				return nil
			}
			return os.Rename(part, cfg.OutputPath)
		}
		return raster, sink, finish, nil
	}
}

// DryRun replays s without rendering and returns the stage, for plans and
// previews.
func DryRun(ctx context.Context, base *config.Config, s *script.Script, baseDir string) (*script.Stage, error) {
	cfg, err := s.Resolve(base)
	if err != nil {
		return nil, err
	}
	st, err := script.NewStage(cfg, nil)
	if err != nil {
		return nil, err
	}
	st.BaseDir = baseDir
	if err := script.Replay(ctx, s, st); err != nil {
		return st, err
	}
	return st, st.Finish(ctx)
}
