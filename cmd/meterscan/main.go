// Command meterscan runs an audio file through the metering engine.
//
// Usage:
//
//	meterscan [flags] file.wav
//
// The file is split into host-sized blocks and fed to the engine on one
// goroutine while a display consumer polls it at the configured tick rate
// on another, exactly as a plugin host and its editor would. At the end a
// summary table is printed.
//
// Examples:
//
//	meterscan mix.wav
//	meterscan -config meter.yaml -json mix.wav > ticks.jsonl
//	meterscan -realtime -listen :8080 mix.wav
//	meterscan -windows
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-meter/dsp/window"
	"github.com/cwbudde/algo-meter/internal/config"
	"github.com/cwbudde/algo-meter/internal/server"
	"github.com/cwbudde/algo-meter/internal/wavsource"
	"github.com/cwbudde/algo-meter/measure/ballistics"
	"github.com/cwbudde/algo-meter/measure/meter"
	"github.com/cwbudde/algo-meter/measure/summary"
)

type options struct {
	configPath string
	listen     string
	realtime   bool
	jsonOut    bool
	windows    bool
	verbose    bool
	file       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("meterscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file (defaults are used when empty)")
	fs.StringVar(&o.listen, "listen", "", "serve the live display on this address, overrides server.listen")
	fs.BoolVar(&o.realtime, "realtime", false, "pace the producer at the file's sample rate")
	fs.BoolVar(&o.jsonOut, "json", false, "print one JSON line per display tick and a JSON report")
	fs.BoolVar(&o.windows, "windows", false, "list the analyzer window functions and exit")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: meterscan [flags] file.wav\n\n")
		fmt.Fprintf(stderr, "Meters a PCM WAV file and prints a summary.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  meterscan mix.wav\n")
		fmt.Fprintf(stderr, "  meterscan -config meter.yaml -json mix.wav\n")
		fmt.Fprintf(stderr, "  meterscan -realtime -listen :8080 mix.wav\n")
		fmt.Fprintf(stderr, "  meterscan -windows\n")
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.windows {
		return o, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errors.New("expected exactly one input file")
	}
	o.file = fs.Arg(0)

	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.listen != "" {
		cfg.Server.Listen = o.listen
	}

	if o.windows {
		return printWindows(stdout, cfg)
	}

	src, err := wavsource.Open(o.file, cfg.Engine.BlockSize)
	if err != nil {
		return err
	}
	defer src.Close()

	sr := src.SampleRate()
	logger.Debug("opened input",
		"file", o.file,
		"sampleRate", sr,
		"bitDepth", src.BitDepth(),
		"channels", src.Channels(),
		"duration", src.Duration())

	engine := meter.New(cfg.EngineOptions()...)
	if err := engine.Prepare(sr, src.BlockSize()); err != nil {
		return fmt.Errorf("prepare engine: %w", err)
	}
	dash := ballistics.NewDashboard(engine, engine.SpectrumBins(), cfg.BallisticsOptions(sr)...)
	sum := summary.New(sr)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var hub *server.Hub
	if cfg.Server.Listen != "" {
		hub = server.NewHub(cfg.Server.WriteTimeout, logger)
		defer hub.Close()
		server.Start(ctx, cfg.Server.Listen, server.Routes(hub, cfg.Server.Path), logger)
		if !o.realtime {
			logger.Warn("live display without -realtime, the scan will finish almost immediately")
		}
	}

	var enc *json.Encoder
	if o.jsonOut {
		enc = json.NewEncoder(stdout)
	}

	emit := func(d ballistics.Display) error {
		if enc != nil {
			if err := enc.Encode(server.Message{Type: "display", Data: d}); err != nil {
				return err
			}
		}
		if hub != nil {
			if _, err := hub.Broadcast("display", d); err != nil {
				return err
			}
		}
		return nil
	}

	done := make(chan struct{})
	prodErr := make(chan error, 1)
	go func() {
		defer close(done)
		prodErr <- produce(ctx, src, engine, sum, o.realtime)
	}()

	consErr := consume(ctx, dash, cfg.TickInterval(), done, emit)
	cancel()
	<-done

	if err := <-prodErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if consErr != nil {
		return consErr
	}

	report := sum.Report(engine.Stats())
	logger.Debug("scan finished", "ticks", dash.Ticks(), "seconds", report.Seconds)

	if enc != nil {
		return enc.Encode(server.Message{Type: "report", Data: report})
	}

	return printReport(stdout, filepath.Base(o.file), src, report, dash.Ticks())
}

// produce feeds every block of src to the engine. With realtime set it
// sleeps so that block k is not processed before its play-out time.
func produce(ctx context.Context, src *wavsource.Reader, e *meter.Engine, sum *summary.Summary, realtime bool) error {
	sr := src.SampleRate()
	start := time.Now()

	var frames int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		left, right, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := e.ProcessBlock(left, right, sr); err != nil {
			return err
		}
		sum.AddBlock(left, right)
		sum.AddMetrics(e.Store().Load())
		frames += int64(len(left))

		if !realtime {
			continue
		}
		due := start.Add(time.Duration(float64(frames) / sr * float64(time.Second)))
		if d := time.Until(due); d > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
		}
	}
}

// consume ticks the dashboard until the producer is done or ctx ends. One
// last tick after the producer finishes picks up its final block.
func consume(ctx context.Context, dash *ballistics.Dashboard, interval time.Duration, done <-chan struct{}, emit func(ballistics.Display) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return emit(dash.Tick(time.Now()))
		case now := <-ticker.C:
			if err := emit(dash.Tick(now)); err != nil {
				return err
			}
		}
	}
}

func printReport(w io.Writer, name string, src *wavsource.Reader, r summary.Report, ticks uint64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "File\t%s\n", name)
	fmt.Fprintf(tw, "Format\t%.0f Hz, %d bit, %d ch\n", src.SampleRate(), src.BitDepth(), src.Channels())
	fmt.Fprintf(tw, "Length\t%.3f s\n\n", r.Seconds)

	fmt.Fprintf(tw, "Channel\tPeak [dBFS]\tPeak at [s]\tRMS [dBFS]\tCrest [dB]\tDC\tZero crossings\n")
	fmt.Fprintf(tw, "-------\t-----------\t-----------\t----------\t----------\t--\t--------------\n")
	for _, ch := range []struct {
		name string
		c    summary.Channel
	}{{"left", r.Left}, {"right", r.Right}} {
		fmt.Fprintf(tw, "%s\t%.2f\t%.3f\t%.2f\t%.2f\t%.6f\t%d\n",
			ch.name,
			ch.c.PeakDB,
			seconds(ch.c.PeakPos, r.SampleRate),
			ch.c.RMSDB,
			ch.c.CrestDB,
			ch.c.DC,
			ch.c.ZeroCrossings,
		)
	}

	fmt.Fprintf(tw, "\nMax momentary loudness\t%.2f LUFS at %.3f s\n", r.MaxLoudness, r.MaxLoudnessAt)
	fmt.Fprintf(tw, "Correlation\tmin %.3f, mean %.3f\n", r.MinCorrelation, r.MeanCorrelation)
	fmt.Fprintf(tw, "Max side RMS\t%.2f dBFS\n", r.MaxSideRMS)
	fmt.Fprintf(tw, "Spectrum frames\t%d (%d dropped)\n", r.Stats.SpectrumFrames, r.Stats.SpectrumDropped)
	fmt.Fprintf(tw, "Stereo frames\t%d (%d dropped)\n", r.Stats.StereoFrames, r.Stats.StereoDropped)
	fmt.Fprintf(tw, "Display ticks\t%d\n", ticks)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func seconds(frames int64, sampleRate float64) float64 {
	if !(sampleRate > 0) {
		return 0
	}

	return float64(frames) / sampleRate
}

// printWindows lists the analyzer windows with their ENBW measured at the
// configured FFT size. The configured window is marked.
func printWindows(w io.Writer, cfg *config.Config) error {
	size := cfg.Engine.FFTSize
	current, _ := window.ParseType(cfg.Engine.Window)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tSidelobe [dB]\t\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t-------------\t\n")

	for _, t := range window.Types() {
		coeffs := window.Generate(t, size, window.WithPeriodic())

		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return fmt.Errorf("%s: %w", t, err)
		}

		gain := vecmath.Sum(coeffs) / float64(size)

		sidelobe := "-"
		if info := window.Info(t); info.HighestSidelobe != 0 {
			sidelobe = fmt.Sprintf("%.1f", info.HighestSidelobe)
		}

		mark := ""
		if t == current {
			mark = "*"
		}

		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%s\t%s\n", t, size, gain, enbw, sidelobe, mark)
	}

	return tw.Flush()
}
