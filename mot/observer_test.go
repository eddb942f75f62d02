package mot

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogObserver(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	detections := [][]Detection{{boxAt(100, 100, 40)}}
	engine := newTestEngine(t, Config{DetectionRate: 2, ObjectLifeCycle: 1}, detections, &shiftFactory{}, WithObserver(NewSlogObserver(logger)))

	for i := 1; i <= 3; i++ {
		if _, _, err := engine.Process(frame(i)); err != nil {
			t.Fatal(err)
		}
	}

	messages := []string{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		record := map[string]any{}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("Bad log line %q: %v", line, err)
		}
		messages = append(messages, record["msg"].(string))
	}
	expected := []string{
		"detect-track: objects detected",
		"detect-track: new object",
		"detect-track: tracking objects",
		"detect-track: objects detected",
		"detect-track: object evicted",
	}
	if strings.Join(messages, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected messages %v, got %v", expected, messages)
	}
}
