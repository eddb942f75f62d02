package mot

import (
	"time"

	"github.com/google/uuid"
)

// TrackedObject is a single object followed by DetectTrackEngine.
// Values handed out by the engine are snapshots: mutating them does not affect engine state.
type TrackedObject struct {
	id        uuid.UUID
	handle    handle
	bbox      BBox
	life      int
	class     int
	className string
	score     float64
	createdAt time.Time
	tracking  bool
}

func newTrackedObject(detection Detection, life int, createdAt time.Time) TrackedObject {
	return TrackedObject{
		id:        uuid.New(),
		bbox:      detection.BBox,
		life:      life,
		class:     detection.Class,
		className: detection.ClassName,
		score:     detection.Score,
		createdAt: createdAt,
	}
}

// GetID returns object's identifier
func (obj TrackedObject) GetID() uuid.UUID {
	return obj.id
}

// GetBBox returns object's current bounding box
func (obj TrackedObject) GetBBox() BBox {
	return obj.bbox
}

// GetCentroid returns center of object's current bounding box
func (obj TrackedObject) GetCentroid() Point {
	return obj.bbox.Centroid()
}

// GetLife returns number of detection cycles the object survives without being matched again
func (obj TrackedObject) GetLife() int {
	return obj.life
}

// GetClass returns class of the latest matched detection
func (obj TrackedObject) GetClass() int {
	return obj.class
}

// GetClassName returns class name of the latest matched detection
func (obj TrackedObject) GetClassName() string {
	return obj.className
}

// GetScore returns confidence of the latest matched detection
func (obj TrackedObject) GetScore() float64 {
	return obj.score
}

// GetCreatedAt returns birth time of the object
func (obj TrackedObject) GetCreatedAt() time.Time {
	return obj.createdAt
}

// IsTracking reports whether the object owns a working single-object tracker.
// Objects without one keep their last detected box between detection cycles.
func (obj TrackedObject) IsTracking() bool {
	return obj.tracking
}

func (obj *TrackedObject) updateFromDetection(detection Detection) {
	obj.bbox = detection.BBox
	obj.class = detection.Class
	obj.className = detection.ClassName
	obj.score = detection.Score
}

// decay takes one life away. Called exactly once per detection cycle
func (obj *TrackedObject) decay() {
	obj.life--
}

// reward gives one life back on re-match. An object is claimed at most once per
// detection cycle, so life never exceeds its initial value
func (obj *TrackedObject) reward() {
	obj.life++
}

func (obj TrackedObject) isDead() bool {
	return obj.life <= 0
}

// EvictionRecord describes an object removed from tracking after its life ran out
type EvictionRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
	// Seconds elapsed between birth and eviction
	ElapsedSeconds float64
	// Bounding box the object had when evicted
	LastBBox BBox
}

func newEvictionRecord(obj TrackedObject, evictedAt time.Time) EvictionRecord {
	return EvictionRecord{
		ID:             obj.id,
		CreatedAt:      obj.createdAt,
		ElapsedSeconds: evictedAt.Sub(obj.createdAt).Seconds(),
		LastBBox:       obj.bbox,
	}
}
