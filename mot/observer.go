package mot

import (
	"log/slog"
)

// Observer receives events from DetectTrackEngine.
// Calls happen synchronously inside Process, so implementations should be fast.
type Observer interface {
	// OnDetection is called after detector returned boxes and before association
	OnDetection(boxes int, alive int)
	// OnTracking is called after every tracking cycle
	OnTracking(alive int, failures int)
	OnBirth(obj TrackedObject)
	OnRematch(obj TrackedObject, distance float64)
	OnEviction(record EvictionRecord)
	// OnTrackerFailure is called when tracker could not be created, seeded or corrected
	OnTrackerFailure(obj TrackedObject, err error)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) OnDetection(int, int) {}
func (NopObserver) OnTracking(int, int) {}
func (NopObserver) OnBirth(TrackedObject) {}
func (NopObserver) OnRematch(TrackedObject, float64) {}
func (NopObserver) OnEviction(EvictionRecord) {}
func (NopObserver) OnTrackerFailure(TrackedObject, error) {}

// SlogObserver writes engine events as structured log records
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates observer on top of logger. Nil logger means slog.Default()
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{
		logger: logger,
	}
}

func (observer *SlogObserver) OnDetection(boxes int, alive int) {
	observer.logger.Info("detect-track: objects detected",
		"boxes", boxes,
		"alive", alive,
	)
}

func (observer *SlogObserver) OnTracking(alive int, failures int) {
	observer.logger.Debug("detect-track: tracking objects",
		"alive", alive,
		"failures", failures,
	)
}

func (observer *SlogObserver) OnBirth(obj TrackedObject) {
	observer.logger.Debug("detect-track: new object",
		"id", obj.GetID().String(),
		"bbox", obj.GetBBox(),
		"life", obj.GetLife(),
	)
}

func (observer *SlogObserver) OnRematch(obj TrackedObject, distance float64) {
	observer.logger.Debug("detect-track: object re-identified",
		"id", obj.GetID().String(),
		"distance", distance,
		"life", obj.GetLife(),
	)
}

func (observer *SlogObserver) OnEviction(record EvictionRecord) {
	observer.logger.Info("detect-track: object evicted",
		"id", record.ID.String(),
		"created_at", record.CreatedAt,
		"elapsed_seconds", record.ElapsedSeconds,
	)
}

func (observer *SlogObserver) OnTrackerFailure(obj TrackedObject, err error) {
	observer.logger.Warn("detect-track: single-object tracker failure",
		"id", obj.GetID().String(),
		"error", err,
	)
}
