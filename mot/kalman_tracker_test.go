package mot

import (
	"testing"
)

func TestKalmanTrackerKeepsStillObject(t *testing.T) {
	tracker := NewKalmanTracker[frame](1.0)
	bbox := NewBBox(80, 60, 120, 140)
	if _, ok := tracker.Update(frame(0)); ok {
		t.Error("Update before Init should fail")
	}
	if err := tracker.Init(frame(0), bbox); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 5; i++ {
		predicted, ok := tracker.Update(frame(i))
		if !ok {
			t.Fatalf("Frame %d: update failed", i)
		}
		if predicted != bbox {
			t.Errorf("Frame %d: expected still box %v, got %v", i, bbox, predicted)
		}
	}
}

func TestKalmanTrackerFollowsCorrections(t *testing.T) {
	tracker := NewKalmanTracker[frame](1.0)
	if err := tracker.Correct(frame(0), NewBBox(0, 0, 10, 10)); err == nil {
		t.Error("Correct before Init should fail")
	}
	if err := tracker.Init(frame(0), NewBBox(80, 60, 120, 140)); err != nil {
		t.Fatal(err)
	}
	tracker.Update(frame(1))
	if err := tracker.Correct(frame(1), NewBBox(90, 60, 130, 140)); err != nil {
		t.Fatal(err)
	}
	predicted, ok := tracker.Update(frame(2))
	if !ok {
		t.Fatal("Update failed")
	}
	centroid := predicted.Centroid()
	if centroid.X <= 100 || centroid.X >= 130 {
		t.Errorf("Expected centroid to move towards corrected position, got %v", centroid)
	}
	vx, _, _, _ := tracker.GetVelocity()
	if vx <= 0 {
		t.Errorf("Expected positive horizontal velocity, got %f", vx)
	}
}

func TestKalmanTrackerRejectsBadTimeStep(t *testing.T) {
	tracker := NewKalmanTracker[frame](0)
	if err := tracker.Init(frame(0), NewBBox(0, 0, 10, 10)); err == nil {
		t.Error("Expected error for zero time step")
	}
	factory := NewKalmanTrackerFactory[frame](0.04)
	produced, err := factory.NewTracker()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := produced.(Corrector[frame]); !ok {
		t.Error("Kalman tracker should implement Corrector")
	}
}
