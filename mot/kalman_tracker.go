package mot

import (
	"math"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// KalmanTracker is a SingleObjectTracker which ignores frame contents and extrapolates
// bounding box with 8-D Kalman filter.
// State vector: [cx, cy, w, h, vx, vy, vw, vh] - center position, size, and velocities.
// It implements Corrector[F]: re-matched detections are used as filter measurements.
type KalmanTracker[F any] struct {
	dt      float64
	filter  *kalman_filter.KalmanBBox
	stdDevA float64
	stdDevM float64
}

// NewKalmanTracker creates tracker with specified time step between frames
func NewKalmanTracker[F any](dt float64) *KalmanTracker[F] {
	return &KalmanTracker[F]{
		dt:      dt,
		stdDevA: 2.0,
		stdDevM: 0.1,
	}
}

// NewKalmanTrackerFactory creates factory of KalmanTracker with specified time step between frames
func NewKalmanTrackerFactory[F any](dt float64) TrackerFactory[F] {
	return TrackerFactoryFunc[F](func() (SingleObjectTracker[F], error) {
		return NewKalmanTracker[F](dt), nil
	})
}

// Init seeds Kalman filter with bounding box. Frame is not used
func (tracker *KalmanTracker[F]) Init(_ F, bbox BBox) error {
	if tracker.dt <= 0 {
		return errors.Errorf("Time step must be positive, got %f", tracker.dt)
	}
	centroid := bbox.Centroid()
	// No control input: objects are expected to move at constant velocity
	uCx := 0.0
	uCy := 0.0
	uW := 0.0
	uH := 0.0
	tracker.filter = kalman_filter.NewKalmanBBox(
		tracker.dt, uCx, uCy, uW, uH,
		tracker.stdDevA, tracker.stdDevM, tracker.stdDevM, tracker.stdDevM, tracker.stdDevM,
		kalman_filter.WithStateBBox(centroid.X, centroid.Y, float64(bbox.Width()), float64(bbox.Height())),
	)
	return nil
}

// Update executes Kalman filter prediction step and returns predicted bounding box
func (tracker *KalmanTracker[F]) Update(_ F) (BBox, bool) {
	if tracker.filter == nil {
		return BBox{}, false
	}
	tracker.filter.Predict()
	cx, cy, w, h := tracker.filter.GetState()
	if math.IsNaN(cx) || math.IsNaN(cy) || math.IsNaN(w) || math.IsNaN(h) || w < 0 || h < 0 {
		return BBox{}, false
	}
	return bboxFromCenter(cx, cy, w, h), true
}

// Correct executes Kalman filter update step with detected bounding box
func (tracker *KalmanTracker[F]) Correct(_ F, bbox BBox) error {
	if tracker.filter == nil {
		return errors.New("Tracker is not initialized")
	}
	centroid := bbox.Centroid()
	err := tracker.filter.Update(centroid.X, centroid.Y, float64(bbox.Width()), float64(bbox.Height()))
	if err != nil {
		return errors.Wrap(err, "Can't update Kalman filter")
	}
	return nil
}

// GetVelocity returns current velocity estimates (vx, vy, vw, vh) from Kalman filter
func (tracker *KalmanTracker[F]) GetVelocity() (float64, float64, float64, float64) {
	if tracker.filter == nil {
		return 0, 0, 0, 0
	}
	return tracker.filter.GetVelocity()
}
