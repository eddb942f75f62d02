package mot

// Detection is a single bounding box reported by ObjectDetector
type Detection struct {
	BBox      BBox
	Class     int
	ClassName string
	Score     float64
}

// ObjectDetector finds objects on a frame.
// It may be slow: the engine calls it only once per detection cycle.
// F is the frame type (e.g. gocv.Mat or image.Image).
type ObjectDetector[F any] interface {
	Process(frame F) ([]Detection, error)
}

// DetectorFunc is an adapter to allow the use of ordinary functions as ObjectDetector
type DetectorFunc[F any] func(frame F) ([]Detection, error)

// Process calls fn(frame)
func (fn DetectorFunc[F]) Process(frame F) ([]Detection, error) {
	return fn(frame)
}

// SingleObjectTracker follows one object between detection cycles.
// Each TrackedObject owns its own instance; instances are never shared.
type SingleObjectTracker[F any] interface {
	// Init seeds tracker with the frame and the bounding box the object was detected at
	Init(frame F, bbox BBox) error
	// Update returns refined bounding box and false if the object was lost on this frame
	Update(frame F) (BBox, bool)
}

// Corrector is an optional extension of SingleObjectTracker.
// The engine calls Correct when a detection is re-matched to the tracker's object.
type Corrector[F any] interface {
	Correct(frame F, bbox BBox) error
}

// TrackerFactory produces fresh SingleObjectTracker instances
type TrackerFactory[F any] interface {
	NewTracker() (SingleObjectTracker[F], error)
}

// TrackerFactoryFunc is an adapter to allow the use of ordinary functions as TrackerFactory
type TrackerFactoryFunc[F any] func() (SingleObjectTracker[F], error)

// NewTracker calls fn()
func (fn TrackerFactoryFunc[F]) NewTracker() (SingleObjectTracker[F], error) {
	return fn()
}
