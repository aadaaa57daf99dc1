package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"KLineCore/internal/calculator"
	"KLineCore/internal/chart"
	"KLineCore/internal/collector"
	"KLineCore/internal/config"
	"KLineCore/internal/notifier"
	"KLineCore/internal/recorder"
	"KLineCore/internal/scheduler"
	"KLineCore/internal/series"
	"KLineCore/internal/viewport"

	"gopkg.in/natefinch/lumberjack.v2"
)

type flags struct {
	configPath string
	width      float64
	height     float64
	scroll     float64
	scale      float64
	selectX    float64
	tap        string
	live       bool
}

func parseFlags() flags {
	f := flags{}
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&f.configPath, "config", cfgPath, "path to the YAML config")
	flag.Float64Var(&f.width, "width", 1080, "viewport width in px")
	flag.Float64Var(&f.height, "height", 1600, "viewport height in px")
	flag.Float64Var(&f.scroll, "scroll", -1, "scroll offset in data units; negative follows the newest candle")
	flag.Float64Var(&f.scale, "scale", 1, "horizontal zoom factor")
	flag.Float64Var(&f.selectX, "select", -1, "long-press at this pixel column")
	flag.StringVar(&f.tap, "tap", "", "tap the prediction overlay at x,y")
	flag.BoolVar(&f.live, "live", false, "keep polling the feed and print a frame on every update")
	flag.Parse()
	return f
}

func main() {
	fl := parseFlags()

	cfg, err := config.Load(fl.configPath)
	if err != nil {
		_, _ = io.WriteString(os.Stderr, "load config: "+err.Error()+"\n")
		os.Exit(1)
	}
	if err := setupLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config validation", "error", err)
		os.Exit(1)
	}
	opts, err := cfg.ChartOptions()
	if err != nil {
		slog.Error("chart options", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	col := collector.NewCollector(newFetcher(cfg), cfg.Feed.MockCount)
	col.Dates = cfg.DateFormatter()
	slog.Info("klinectl starting", "source", col.Fetcher.Name(), "config", fl.configPath)
	candles, err := col.Collect(ctx)
	if err != nil {
		slog.Error("initial load", "error", err)
		os.Exit(1)
	}

	store := series.NewStore(candles)
	engine, err := chart.NewEngine(store, opts)
	if err != nil {
		slog.Error("init chart", "error", err)
		os.Exit(1)
	}

	rec := newRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	hub := notifier.NewHub(rec)
	hub.Subscribe(notifier.WriterListener{W: os.Stdout, Price: opts.PriceFormatter})
	engine.AddListener(hub)

	if cfg.Feed.PredictionPath != "" {
		spec, err := collector.LoadPrediction(cfg.Feed.PredictionPath)
		if err != nil {
			slog.Warn("prediction overlay not loaded", "error", err)
		} else {
			engine.SetPrediction(spec)
		}
	}

	engine.SetViewport(viewport.Viewport{Scale: fl.scale, WidthPx: fl.width, HeightPx: fl.height})
	follow := fl.scroll < 0
	scrollTo(engine, fl.scroll, follow)

	report := notifier.ReportFormatters{Price: opts.PriceFormatter, Volume: opts.VolumeFormatter}
	engine.Render()
	if fl.selectX >= 0 {
		engine.LongPress(fl.selectX)
		engine.Release()
	}
	if fl.tap != "" {
		x, y, err := parsePoint(fl.tap)
		if err != nil {
			slog.Error("invalid -tap", "value", fl.tap, "error", err)
			os.Exit(1)
		}
		if _, ok := engine.Tap(x, y); !ok {
			fmt.Println("tap: no prediction line within reach")
		}
	}
	fmt.Print(notifier.FormatFrameReport(engine.Render(), store, report))

	if !fl.live {
		return
	}
	runLive(ctx, cancel, cfg, col, engine, hub, report, follow)
}

func runLive(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, col *collector.Collector,
	engine *chart.Engine, hub *notifier.Hub, report notifier.ReportFormatters, follow bool) {
	store := engine.Store()
	feed := scheduler.NewLiveFeed(ctx, col, store)
	if err := feed.Register(cfg.Feed.LiveCron); err != nil {
		slog.Error("register live feed", "error", err)
		os.Exit(1)
	}
	feed.Start()

	opts := engine.Options()
	reveal := chart.StartAnimation(time.Now(), opts.RevealDuration)
	predReveal := chart.StartAnimation(time.Now(), opts.PredictionRevealDuration)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("live mode running, press Ctrl+C to stop", "cron", cfg.Feed.LiveCron)
	for {
		select {
		case m, ok := <-feed.Mutations():
			if !ok {
				return
			}
			if err := engine.Apply(m); err != nil {
				slog.Error("apply mutation", "error", err)
				continue
			}
			hub.OnMutation(m, store.Len())
			if m.Kind != series.MutationReplaceLast {
				reveal = chart.StartAnimation(time.Now(), opts.RevealDuration)
			}
			scrollTo(engine, engine.Viewport().ScrollOffset, follow)
			fmt.Print(notifier.FormatFrameReport(engine.Render(), store, report))
		case now := <-ticker.C:
			running := reveal.Running(now) || predReveal.Running(now)
			engine.SetReveal(calculator.Reveal{Active: reveal.Running(now), Progress: reveal.Progress(now)})
			engine.SetPredictionProgress(predReveal.Progress(now))
			if running {
				engine.Render()
			}
		case <-sigCh:
			slog.Info("shutdown signal received, stopping")
			cancel()
			feed.Stop()
			return
		}
	}
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.Feed.Source == config.SourceFile {
		return collector.NewFileFetcher(cfg.Feed.Path)
	}
	m := collector.NewMockFetcher(cfg.Feed.MockBasePrice, cfg.Feed.MockCount, cfg.Feed.MockInterval)
	m.Seed = cfg.Feed.MockSeed
	return m
}

func newRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Warn("create recorder dir failed, using noop", "error", err)
			return recorder.NewNoopRecorder()
		}
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		slog.Warn("init sqlite recorder failed, using noop", "error", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// scrollTo clamps offset into the scroll bounds, or pins to the newest candle when follow is set.
func scrollTo(e *chart.Engine, offset float64, follow bool) {
	vp := e.Viewport()
	t := e.Transform()
	if follow {
		vp.ScrollOffset = t.MaxScrollOffset()
	} else {
		vp.ScrollOffset = t.ClampScroll(offset)
	}
	e.SetViewport(vp)
}

func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected x,y")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("y: %w", err)
	}
	return x, y, nil
}

func setupLogger(level, filename string) error {
	var w io.Writer = os.Stderr
	if filename != "" {
		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			return err
		}
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    25,
			MaxBackups: 10,
			MaxAge:     14,
			Compress:   true,
		})
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
