package mot

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestFilteredDetectorScoreAndClass(t *testing.T) {
	inner := DetectorFunc[frame](func(frame) ([]Detection, error) {
		return []Detection{
			{BBox: NewBBox(0, 0, 10, 10), Class: 1, Score: 0.9},
			{BBox: NewBBox(20, 0, 30, 10), Class: 1, Score: 0.3},
			{BBox: NewBBox(40, 0, 50, 10), Class: 72, Score: 0.95},
			{BBox: NewBBox(60, 0, 70, 10), Class: 1, Score: 0.5},
		}, nil
	})
	detector := NewFilteredDetector[frame](inner, FilterOptions{
		MinScore: 0.5,
		Classes:  map[int]string{1: "person"},
	})
	detections, err := detector.Process(frame(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(detections) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(detections))
	}
	if detections[0].BBox.XMin != 0 || detections[1].BBox.XMin != 60 {
		t.Errorf("Expected original order to be preserved, got %v", detections)
	}
	for _, detection := range detections {
		if detection.ClassName != "person" {
			t.Errorf("Expected class name to be filled, got %q", detection.ClassName)
		}
	}
}

func TestFilteredDetectorSuppressesOverlaps(t *testing.T) {
	inner := DetectorFunc[frame](func(frame) ([]Detection, error) {
		return []Detection{
			{BBox: NewBBox(0, 0, 100, 100), Score: 0.6},
			{BBox: NewBBox(5, 5, 100, 100), Score: 0.9},
			{BBox: NewBBox(200, 0, 300, 100), Score: 0.7},
		}, nil
	})
	detector := NewFilteredDetector[frame](inner, FilterOptions{NMSThreshold: 0.5})
	detections, err := detector.Process(frame(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(detections) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(detections))
	}
	if detections[0].Score != 0.9 || detections[1].Score != 0.7 {
		t.Errorf("Expected higher score to survive in original order, got %v", detections)
	}
}

func TestFilteredDetectorPropagatesErrors(t *testing.T) {
	cause := fmt.Errorf("model is not loaded")
	inner := DetectorFunc[frame](func(frame) ([]Detection, error) {
		return nil, cause
	})
	detector := NewFilteredDetector[frame](inner, FilterOptions{})
	if _, err := detector.Process(frame(0)); errors.Cause(err) != cause {
		t.Errorf("Expected cause %v, got %v", cause, err)
	}
	empty := NewFilteredDetector[frame](nil, FilterOptions{})
	if _, err := empty.Process(frame(0)); err != ErrNilDetector {
		t.Errorf("Expected %v, got %v", ErrNilDetector, err)
	}
}
