package cvtrack

import (
	"sort"
	"strings"

	"github.com/LdDl/detect-track-go/mot"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// ErrUnknownTracker is returned for tracker names missing in Trackers
var ErrUnknownTracker = errors.New("unknown tracker name")

// Trackers lists available OpenCV single-object trackers by name
var Trackers = map[string]func() gocv.Tracker{
	"mil":  gocv.NewTrackerMIL,
	"kcf":  contrib.NewTrackerKCF,
	"csrt": contrib.NewTrackerCSRT,
}

// TrackerNames returns sorted names of available trackers
func TrackerNames() []string {
	names := make([]string, 0, len(Trackers))
	for name := range Trackers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenCVTracker implements mot.SingleObjectTracker[gocv.Mat] with one of OpenCV trackers.
// It implements mot.Corrector as well: re-matched detections restart the tracker on the detected box.
type OpenCVTracker struct {
	create  func() gocv.Tracker
	tracker gocv.Tracker
}

// NewOpenCVTracker creates tracker by name (see Trackers)
func NewOpenCVTracker(name string) (*OpenCVTracker, error) {
	create, ok := Trackers[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTracker, "%q, available: %s", name, strings.Join(TrackerNames(), ", "))
	}
	return &OpenCVTracker{
		create: create,
	}, nil
}

// NewOpenCVTrackerFactory creates factory of OpenCVTracker. Name is validated immediately
func NewOpenCVTrackerFactory(name string) (mot.TrackerFactory[gocv.Mat], error) {
	if _, err := NewOpenCVTracker(name); err != nil {
		return nil, err
	}
	return mot.TrackerFactoryFunc[gocv.Mat](func() (mot.SingleObjectTracker[gocv.Mat], error) {
		return NewOpenCVTracker(name)
	}), nil
}

// Init creates underlying OpenCV tracker and seeds it with the frame and bounding box
func (tracker *OpenCVTracker) Init(frame gocv.Mat, bbox mot.BBox) error {
	if frame.Empty() {
		return errors.New("Empty frame")
	}
	if bbox.Area() == 0 {
		return errors.Errorf("Degenerate bounding box %v", bbox)
	}
	tracker.release()
	tracker.tracker = tracker.create()
	if !tracker.tracker.Init(frame, bbox.Rect()) {
		tracker.release()
		return errors.Errorf("OpenCV tracker rejected bounding box %v", bbox)
	}
	return nil
}

// Update runs OpenCV tracker on the frame
func (tracker *OpenCVTracker) Update(frame gocv.Mat) (mot.BBox, bool) {
	if tracker.tracker == nil || frame.Empty() {
		return mot.BBox{}, false
	}
	rect, ok := tracker.tracker.Update(frame)
	if !ok {
		return mot.BBox{}, false
	}
	return clampBBox(mot.NewBBoxFrom(rect), frame.Cols(), frame.Rows()), true
}

// Correct restarts OpenCV tracker on the detected bounding box
func (tracker *OpenCVTracker) Correct(frame gocv.Mat, bbox mot.BBox) error {
	return tracker.Init(frame, bbox)
}

// Close releases underlying OpenCV tracker
func (tracker *OpenCVTracker) Close() error {
	tracker.release()
	return nil
}

func (tracker *OpenCVTracker) release() {
	if tracker.tracker != nil {
		tracker.tracker.Close()
		tracker.tracker = nil
	}
}
