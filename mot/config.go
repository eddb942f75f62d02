package mot

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDetectionRate   = errors.New("detection rate must be greater than 1")
	ErrInvalidObjectLifeCycle = errors.New("object life cycle must be positive")
	ErrNilDetector            = errors.New("object detector must be defined")
	ErrNilTrackerFactory      = errors.New("tracker factory must be defined")
)

// Config holds numeric settings of DetectTrackEngine
type Config struct {
	// Number of frames per detection cycle: one detection followed by DetectionRate-1 tracking frames. Default is 3
	DetectionRate int `json:"detection_rate"`
	// Initial life of new objects, i.e. how many detection cycles an object survives without re-match. Default is 3
	ObjectLifeCycle int `json:"object_life_cycle"`
}

// DefaultConfig returns default engine settings
func DefaultConfig() Config {
	return Config{
		DetectionRate:   3,
		ObjectLifeCycle: 3,
	}
}

// Validate checks settings and returns wrapped sentinel error on the first violation
func (cfg Config) Validate() error {
	if cfg.DetectionRate <= 1 {
		return errors.Wrapf(ErrInvalidDetectionRate, "got %d", cfg.DetectionRate)
	}
	if cfg.ObjectLifeCycle <= 0 {
		return errors.Wrapf(ErrInvalidObjectLifeCycle, "got %d", cfg.ObjectLifeCycle)
	}
	return nil
}

// DistanceThresholdFunc returns max centroid displacement allowed to re-identify an object with the detected box
type DistanceThresholdFunc func(detected BBox) float64

// HalfWidthThreshold allows displacement up to half of the detected box width (pixels are truncated).
// Roughly half a person's width.
func HalfWidthThreshold(detected BBox) float64 {
	return float64(detected.Width() / 2)
}

// FixedThreshold allows constant displacement regardless of box size
func FixedThreshold(distance float64) DistanceThresholdFunc {
	return func(BBox) float64 {
		return distance
	}
}

type options struct {
	threshold DistanceThresholdFunc
	now       func() time.Time
	observer  Observer
}

func defaultOptions() options {
	return options{
		threshold: HalfWidthThreshold,
		now:       time.Now,
		observer:  NopObserver{},
	}
}

// Option customizes DetectTrackEngine
type Option func(*options)

// WithDistanceThreshold replaces HalfWidthThreshold
func WithDistanceThreshold(fn DistanceThresholdFunc) Option {
	return func(opts *options) {
		if fn != nil {
			opts.threshold = fn
		}
	}
}

// WithClock replaces time.Now for birth and eviction timestamps
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		if now != nil {
			opts.now = now
		}
	}
}

// WithObserver sets receiver of engine events
func WithObserver(observer Observer) Option {
	return func(opts *options) {
		if observer != nil {
			opts.observer = observer
		}
	}
}
