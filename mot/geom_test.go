package mot

import (
	"image"
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestNewBBoxNormalizesCorners(t *testing.T) {
	bbox := NewBBox(120, 80, 80, 40)
	expected := BBox{XMin: 80, YMin: 40, XMax: 120, YMax: 80}
	if bbox != expected {
		t.Errorf("Expected bbox %v, got %v", expected, bbox)
	}
	if bbox.Width() != 40 || bbox.Height() != 40 {
		t.Errorf("Expected 40x40, got %dx%d", bbox.Width(), bbox.Height())
	}
}

func TestBBoxCentroid(t *testing.T) {
	bbox := NewBBox(80, 60, 121, 141)
	centroid := bbox.Centroid()
	expected := Point{X: 100.5, Y: 100.5}
	if centroid != expected {
		t.Errorf("Expected centroid %v, got %v", expected, centroid)
	}
}

func TestBBoxFromRect(t *testing.T) {
	rect := image.Rect(10, 20, 40, 60)
	bbox := NewBBoxFrom(rect)
	if bbox.Rect() != rect {
		t.Errorf("Expected rect %v, got %v", rect, bbox.Rect())
	}
	if bbox != NewBBoxXYWH(10, 20, 30, 40) {
		t.Errorf("Expected XYWH constructor to agree with rect, got %v", bbox)
	}
}

func TestBBoxFromCenter(t *testing.T) {
	bbox := bboxFromCenter(100, 100, 40, 80)
	expected := BBox{XMin: 80, YMin: 60, XMax: 120, YMax: 140}
	if bbox != expected {
		t.Errorf("Expected bbox %v, got %v", expected, bbox)
	}
}

func TestIoU(t *testing.T) {
	b1 := NewBBox(0, 0, 10, 10)
	b2 := NewBBox(5, 0, 15, 10)
	answer := IoU(b1, b2)
	correctAnswer := 50.0 / 150.0
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
	if IoU(b1, NewBBox(20, 20, 30, 30)) != 0.0 {
		t.Error("Disjoint boxes should have zero IoU")
	}
	if math.Abs(IoU(b1, b1)-1.0) > eps {
		t.Error("Box should fully overlap itself")
	}
}
