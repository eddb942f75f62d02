// Command detrack counts people on a camera or video stream with the detect-track engine.
package main

import (
	"context"
	"flag"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/detect-track-go/cvtrack"
	"github.com/LdDl/detect-track-go/mot"
	"github.com/LdDl/detect-track-go/stats"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const defaultFPS = 25.0

func main() {
	configPath := flag.String("config", "", "Path to JSON configuration file")
	source := flag.String("source", "", "Camera index or path to video file")
	model := flag.String("model", "", "Path to frozen detection graph")
	replay := flag.String("replay", "", "Path to CSV with recorded detections (replaces the model)")
	trackerName := flag.String("tracker", "", "Single-object tracker: "+strings.Join(append(cvtrack.TrackerNames(), kalmanTrackerName), ", "))
	rate := flag.Int("rate", 0, "Frames per detection cycle")
	life := flag.Int("life", 0, "Detection cycles an object survives without re-match")
	window := flag.String("window", "", "Statistics window, e.g. 60s")
	display := flag.Bool("display", false, "Show frames with tracked objects")
	maxFrames := flag.Int("max-frames", 0, "Stop after this number of frames (0 means no limit)")
	verbose := flag.Bool("verbose", false, "Log every engine event")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg := DefaultAppConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadAppConfig(*configPath)
		if err != nil {
			logger.Error("detrack: can't load configuration", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	// Explicit flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source = *source
		case "model":
			cfg.Model = *model
		case "replay":
			cfg.Replay = *replay
		case "tracker":
			cfg.Tracker = *trackerName
		case "rate":
			cfg.Engine.DetectionRate = *rate
		case "life":
			cfg.Engine.ObjectLifeCycle = *life
		case "window":
			cfg.Window = *window
		case "display":
			cfg.Display = *display
		case "max-frames":
			cfg.MaxFrames = *maxFrames
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Error("detrack: invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("detrack: stopped with error", "error", err)
		os.Exit(1)
	}
}

func openCapture(source string) (*gocv.VideoCapture, error) {
	if deviceID, err := strconv.Atoi(source); err == nil {
		return gocv.VideoCaptureDevice(deviceID)
	}
	return gocv.VideoCaptureFile(source)
}

func newDetector(cfg AppConfig) (mot.ObjectDetector[gocv.Mat], func(), error) {
	if cfg.Replay != "" {
		file, err := os.Open(cfg.Replay)
		if err != nil {
			return nil, nil, errors.Wrap(err, "Can't open replay file")
		}
		defer file.Close()
		frames, err := mot.LoadReplayCSV(file)
		if err != nil {
			return nil, nil, errors.Wrap(err, "Can't load replay file")
		}
		return mot.NewReplayDetector[gocv.Mat](frames), func() {}, nil
	}
	options := cvtrack.DefaultDNNOptions()
	options.MinScore = cfg.MinScore
	dnn, err := cvtrack.NewDNNDetector(cfg.Model, cfg.ModelConfig, options)
	if err != nil {
		return nil, nil, err
	}
	filtered := mot.NewFilteredDetector[gocv.Mat](dnn, mot.FilterOptions{
		MinScore:     cfg.MinScore,
		Classes:      cfg.Classes,
		NMSThreshold: cfg.NMSThreshold,
	})
	return filtered, func() { dnn.Close() }, nil
}

func newTrackerFactory(name string, fps float64) (mot.TrackerFactory[gocv.Mat], error) {
	if strings.ToLower(name) == kalmanTrackerName {
		if fps <= 0 {
			fps = defaultFPS
		}
		return mot.NewKalmanTrackerFactory[gocv.Mat](1.0 / fps), nil
	}
	return cvtrack.NewOpenCVTrackerFactory(name)
}

func run(ctx context.Context, cfg AppConfig, logger *slog.Logger) error {
	capture, err := openCapture(cfg.Source)
	if err != nil {
		return errors.Wrapf(err, "Can't open source '%s'", cfg.Source)
	}
	defer capture.Close()

	detector, closeDetector, err := newDetector(cfg)
	if err != nil {
		return err
	}
	defer closeDetector()

	factory, err := newTrackerFactory(cfg.Tracker, capture.Get(gocv.VideoCaptureFPS))
	if err != nil {
		return err
	}

	engine, err := mot.NewDetectTrackEngine[gocv.Mat](cfg.Engine, detector, factory, mot.WithObserver(mot.NewSlogObserver(logger)))
	if err != nil {
		return errors.Wrap(err, "Can't create engine")
	}
	defer engine.Reset()

	var display *gocv.Window
	if cfg.Display {
		display = gocv.NewWindow("detrack")
		defer display.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()
	resized := gocv.NewMat()
	defer resized.Close()

	counts := stats.NewCountWindow(cfg.GetWindow())
	dwell := stats.NewDwellAccumulator()

	logger.Info("detrack: started", "source", cfg.Source, "tracker", cfg.Tracker, "detection_rate", cfg.Engine.DetectionRate, "object_life_cycle", cfg.Engine.ObjectLifeCycle)
	frames := 0
	for cfg.MaxFrames == 0 || frames < cfg.MaxFrames {
		select {
		case <-ctx.Done():
			logger.Info("detrack: interrupted")
			logDwell(logger, dwell)
			return nil
		default:
		}
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			logger.Info("detrack: end of stream", "frames", frames)
			break
		}
		frames++
		img := frame
		if cfg.FrameWidth > 0 && frame.Cols() != cfg.FrameWidth {
			height := frame.Rows() * cfg.FrameWidth / frame.Cols()
			gocv.Resize(frame, &resized, image.Pt(cfg.FrameWidth, height), 0, 0, gocv.InterpolationLinear)
			img = resized
		}

		alive, dead, err := engine.Process(img)
		if err != nil {
			logger.Warn("detrack: detection failed", "frame", frames, "error", err)
		}
		dwell.Add(dead...)
		if summary, ready := counts.Add(time.Now(), len(alive)); ready {
			logger.Info("detrack: window",
				"start", summary.Start.Format(time.RFC3339),
				"end", summary.End.Format(time.RFC3339),
				"samples", summary.Samples,
				"mean", summary.Mean,
				"q1", summary.Q1,
				"median", summary.Median,
				"q3", summary.Q3,
				"max", summary.Max,
			)
		}

		if display != nil {
			cvtrack.DrawObjects(&img, alive)
			cvtrack.DrawCount(&img, len(alive))
			display.IMShow(img)
			// ESC
			if display.WaitKey(1) == 27 {
				break
			}
		}
	}
	logDwell(logger, dwell)
	return nil
}

func logDwell(logger *slog.Logger, dwell *stats.DwellAccumulator) {
	logger.Info("detrack: dwell time",
		"evicted", dwell.Count(),
		"mean_seconds", dwell.MeanSeconds(),
		"max_seconds", dwell.MaxSeconds(),
	)
}
