package mot

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// matchDetections associates detections with alive objects by nearest centroid,
// registers unmatched detections as new objects and evicts objects whose life ran out.
//
// Detections are handled in the order received: an earlier detection claims its nearest
// object and that object is no longer a candidate for the later ones.
func (engine *DetectTrackEngine[F]) matchDetections(frame F, detections []Detection) []EvictionRecord {
	now := engine.now()

	// Every object loses one life per detection cycle. Re-match gives it back
	engine.objects.each(func(s *slot[F]) {
		s.object.decay()
	})

	// Objects not claimed yet in this cycle. Objects born in this cycle are not candidates
	candidates := engine.objects.handles()
	blobsToRegister := make([]slot[F], 0)

	for _, detection := range detections {
		// Detectors may report corners in any order
		detection.BBox = NewBBox(detection.BBox.XMin, detection.BBox.YMin, detection.BBox.XMax, detection.BBox.YMax)
		centroid := detection.BBox.Centroid()
		minIdx := -1
		minDistance := math.MaxFloat64
		for i, h := range candidates {
			dist := euclideanDistance(centroid, engine.objects.get(h).object.GetCentroid())
			// Strict comparison: on ties the earliest born object wins
			if dist < minDistance {
				minDistance = dist
				minIdx = i
			}
		}

		maxDistance := engine.threshold(detection.BBox)
		if minIdx < 0 || minDistance > maxDistance {
			// Too far from every candidate (or no candidates at all): register it as a new one.
			// The nearest candidate stays alive and simply misses this detection.
			blobsToRegister = append(blobsToRegister, engine.spawn(frame, detection, now))
			continue
		}

		s := engine.objects.get(candidates[minIdx])
		s.object.updateFromDetection(detection)
		s.object.reward()
		if corrector, ok := s.tracker.(Corrector[F]); ok {
			if err := corrector.Correct(frame, detection.BBox); err != nil {
				engine.observer.OnTrackerFailure(s.object, errors.Wrapf(err, "Can't correct tracker of object %s", s.object.GetID()))
			}
		}
		engine.observer.OnRematch(s.object, minDistance)
		// Prevent double update of objects
		candidates = append(candidates[:minIdx], candidates[minIdx+1:]...)
	}

	for i := range blobsToRegister {
		h := engine.objects.insert(blobsToRegister[i].object, blobsToRegister[i].tracker)
		engine.observer.OnBirth(engine.objects.get(h).object)
	}

	return engine.evictDead(now)
}

// spawn prepares new object for the detection together with its freshly seeded tracker.
// Tracker failures do not prevent the object from being registered: it is then kept alive by detections only.
func (engine *DetectTrackEngine[F]) spawn(frame F, detection Detection, now time.Time) slot[F] {
	object := newTrackedObject(detection, engine.objectLifeCycle, now)
	tracker, err := engine.factory.NewTracker()
	if err != nil {
		engine.observer.OnTrackerFailure(object, errors.Wrap(err, "Can't create tracker"))
		return slot[F]{object: object}
	}
	if tracker == nil {
		engine.observer.OnTrackerFailure(object, errors.New("Tracker factory returned nil tracker"))
		return slot[F]{object: object}
	}
	err = tracker.Init(frame, detection.BBox)
	if err != nil {
		closeTracker(tracker)
		engine.observer.OnTrackerFailure(object, errors.Wrap(err, "Can't init tracker"))
		return slot[F]{object: object}
	}
	return slot[F]{object: object, tracker: tracker}
}

// evictDead removes every object with no life left in a single pass.
// Life is decremented once per cycle before any reward, so it never drops below zero.
func (engine *DetectTrackEngine[F]) evictDead(now time.Time) []EvictionRecord {
	removed := engine.objects.removeWhere(func(s *slot[F]) bool {
		return s.object.isDead()
	})
	records := make([]EvictionRecord, 0, len(removed))
	for i := range removed {
		closeTracker(removed[i].tracker)
		record := newEvictionRecord(removed[i].object, now)
		records = append(records, record)
		engine.observer.OnEviction(record)
	}
	return records
}
