package mot

import (
	"strings"
	"testing"
)

func TestLoadReplayCSV(t *testing.T) {
	data := `call;detections
0;80,60,120,140,1,0.9|280,60,320,140
2;84,60,124,140
3;
`
	frames, err := LoadReplayCSV(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 {
		t.Fatalf("Expected 4 detection sets, got %d", len(frames))
	}
	if len(frames[0]) != 2 || len(frames[1]) != 0 || len(frames[2]) != 1 || len(frames[3]) != 0 {
		t.Errorf("Unexpected detection counts: %d, %d, %d, %d", len(frames[0]), len(frames[1]), len(frames[2]), len(frames[3]))
	}
	first := frames[0][0]
	if first.BBox != NewBBox(80, 60, 120, 140) || first.Class != 1 || first.Score != 0.9 {
		t.Errorf("Unexpected first detection: %v", first)
	}
	if frames[0][1].Score != 1.0 {
		t.Errorf("Expected default score 1.0, got %f", frames[0][1].Score)
	}
}

func TestLoadReplayCSVErrors(t *testing.T) {
	bad := []string{
		"call;detections\nx;1,2,3,4\n",
		"call;detections\n0;1,2,3\n",
		"call;detections\n0;1,2,3,a\n",
		"call;detections\n0;1,2,3,4,5,high\n",
	}
	for _, data := range bad {
		if _, err := LoadReplayCSV(strings.NewReader(data)); err == nil {
			t.Errorf("Expected error for %q", data)
		}
	}
}

func TestReplayDetector(t *testing.T) {
	detector := NewReplayDetector[frame]([][]Detection{
		{boxAt(100, 100, 40)},
		{},
	})
	first, _ := detector.Process(frame(0))
	if len(first) != 1 {
		t.Fatalf("Expected 1 detection, got %d", len(first))
	}
	first[0].Score = 0
	if detector.frames[0][0].Score == 0 {
		t.Error("Replay detector should hand out copies")
	}
	detector.Process(frame(1))
	if detector.Remaining() != 0 || detector.Calls() != 2 {
		t.Errorf("Expected exhausted recording, got remaining=%d calls=%d", detector.Remaining(), detector.Calls())
	}
	exhausted, err := detector.Process(frame(2))
	if err != nil || len(exhausted) != 0 {
		t.Errorf("Exhausted detector should report nothing, got %v, %v", exhausted, err)
	}
}
