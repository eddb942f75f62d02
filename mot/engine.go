package mot

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// DetectTrackEngine is Multi-object tracker (MOT) alternating detection and tracking cycles:
//
//	D | T | T | D | T | T | D ...
//
// D = detection: expensive ObjectDetector runs, detections are associated with known objects,
// unmatched objects lose life and dead ones are evicted.
// T = tracking: every object's own SingleObjectTracker refines its bounding box.
//
// The engine is not safe for concurrent use: feed frames from a single goroutine.
type DetectTrackEngine[F any] struct {
	detector ObjectDetector[F]
	factory  TrackerFactory[F]
	// Frames per detection cycle
	detectionRate int
	// Initial life of new objects
	objectLifeCycle int
	// Counter deciding whether frame is detection or tracking one
	frameIndex int
	threshold  DistanceThresholdFunc
	now        func() time.Time
	observer   Observer
	// Main storage
	objects *objectArena[F]
}

// NewDetectTrackEngine creates new instance of DetectTrackEngine.
// Invalid configuration, nil detector or nil factory are reported immediately.
func NewDetectTrackEngine[F any](cfg Config, detector ObjectDetector[F], factory TrackerFactory[F], opts ...Option) (*DetectTrackEngine[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Can't create detect-track engine")
	}
	if detector == nil {
		return nil, errors.Wrap(ErrNilDetector, "Can't create detect-track engine")
	}
	if factory == nil {
		return nil, errors.Wrap(ErrNilTrackerFactory, "Can't create detect-track engine")
	}
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &DetectTrackEngine[F]{
		detector:        detector,
		factory:         factory,
		detectionRate:   cfg.DetectionRate,
		objectLifeCycle: cfg.ObjectLifeCycle,
		frameIndex:      0,
		threshold:       options.threshold,
		now:             options.now,
		observer:        options.observer,
		objects:         newObjectArena[F](),
	}, nil
}

// Process runs either detection or tracking cycle on the frame.
// It returns snapshot of alive objects and records of objects evicted during this call.
// Detector error is returned wrapped: the cycle is consumed and no object state changes.
func (engine *DetectTrackEngine[F]) Process(frame F) ([]TrackedObject, []EvictionRecord, error) {
	if engine.frameIndex%engine.detectionRate == 0 {
		// Reset to 1, not 0: changing detection rate between frames must not trigger detection again
		engine.frameIndex = 1
		detections, err := engine.detector.Process(frame)
		if err != nil {
			return engine.Objects(), nil, errors.Wrap(err, "Can't detect objects")
		}
		engine.observer.OnDetection(len(detections), engine.objects.len())
		dead := engine.matchDetections(frame, detections)
		return engine.Objects(), dead, nil
	}
	engine.frameIndex++
	engine.updateFromTrackers(frame)
	return engine.Objects(), nil, nil
}

// updateFromTrackers moves every object to position reported by its tracker.
// Lost objects keep previous bounding box and their life is untouched.
func (engine *DetectTrackEngine[F]) updateFromTrackers(frame F) {
	failures := 0
	engine.objects.each(func(s *slot[F]) {
		if s.tracker == nil {
			failures++
			return
		}
		bbox, ok := s.tracker.Update(frame)
		if !ok {
			failures++
			return
		}
		s.object.bbox = NewBBox(bbox.XMin, bbox.YMin, bbox.XMax, bbox.YMax)
	})
	engine.observer.OnTracking(engine.objects.len(), failures)
}

// Objects returns snapshot of alive objects in order of their birth
func (engine *DetectTrackEngine[F]) Objects() []TrackedObject {
	return engine.objects.snapshot()
}

// Len returns number of alive objects
func (engine *DetectTrackEngine[F]) Len() int {
	return engine.objects.len()
}

// FrameIndex returns current value of scheduling counter
func (engine *DetectTrackEngine[F]) FrameIndex() int {
	return engine.frameIndex
}

// DetectionRate returns number of frames per detection cycle
func (engine *DetectTrackEngine[F]) DetectionRate() int {
	return engine.detectionRate
}

// SetDetectionRate changes number of frames per detection cycle. It takes effect from the next frame
func (engine *DetectTrackEngine[F]) SetDetectionRate(rate int) error {
	if rate <= 1 {
		return errors.Wrapf(ErrInvalidDetectionRate, "got %d", rate)
	}
	engine.detectionRate = rate
	return nil
}

// Reset drops every object without emitting eviction records and restarts the schedule.
// Trackers implementing io.Closer are closed.
func (engine *DetectTrackEngine[F]) Reset() {
	removed := engine.objects.removeWhere(func(*slot[F]) bool { return true })
	for i := range removed {
		closeTracker(removed[i].tracker)
	}
	engine.frameIndex = 0
}

func closeTracker[F any](tracker SingleObjectTracker[F]) {
	if closer, ok := tracker.(io.Closer); ok {
		_ = closer.Close()
	}
}
