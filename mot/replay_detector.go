package mot

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReplayDetector is an ObjectDetector returning pre-recorded detections: one set per call.
// Once the recording is exhausted it reports no detections.
type ReplayDetector[F any] struct {
	frames [][]Detection
	cursor int
}

// NewReplayDetector creates new instance of ReplayDetector
func NewReplayDetector[F any](frames [][]Detection) *ReplayDetector[F] {
	return &ReplayDetector[F]{
		frames: frames,
		cursor: 0,
	}
}

// Process returns copy of the next recorded detection set. Frame is not used
func (detector *ReplayDetector[F]) Process(_ F) ([]Detection, error) {
	if detector.cursor >= len(detector.frames) {
		return []Detection{}, nil
	}
	detections := make([]Detection, len(detector.frames[detector.cursor]))
	copy(detections, detector.frames[detector.cursor])
	detector.cursor++
	return detections, nil
}

// Calls returns number of Process calls answered from the recording
func (detector *ReplayDetector[F]) Calls() int {
	return detector.cursor
}

// Remaining returns number of recorded detection sets not replayed yet
func (detector *ReplayDetector[F]) Remaining() int {
	return len(detector.frames) - detector.cursor
}

// LoadReplayCSV reads detection sets for ReplayDetector.
// Format: header "call;detections", then rows like "0;xmin,ymin,xmax,ymax[,class[,score]]|...".
// Calls missing from the file get empty detection sets.
func LoadReplayCSV(r io.Reader) ([][]Detection, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read replay CSV")
	}
	if len(records) == 0 {
		return [][]Detection{}, nil
	}
	byCall := make(map[int][]Detection)
	maxCall := -1
	for rowIdx, record := range records[1:] {
		call, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil || call < 0 {
			return nil, errors.Errorf("Bad call index %q on row %d", record[0], rowIdx+2)
		}
		detections, err := parseReplayDetections(record[1])
		if err != nil {
			return nil, errors.Wrapf(err, "Bad detections on row %d", rowIdx+2)
		}
		byCall[call] = append(byCall[call], detections...)
		if call > maxCall {
			maxCall = call
		}
	}
	frames := make([][]Detection, maxCall+1)
	for call := range frames {
		frames[call] = byCall[call]
		if frames[call] == nil {
			frames[call] = []Detection{}
		}
	}
	return frames, nil
}

func parseReplayDetections(field string) ([]Detection, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return []Detection{}, nil
	}
	parts := strings.Split(field, "|")
	detections := make([]Detection, 0, len(parts))
	for _, part := range parts {
		values := strings.Split(part, ",")
		if len(values) < 4 || len(values) > 6 {
			return nil, errors.Errorf("Expected 4 to 6 values, got %d in %q", len(values), part)
		}
		coords := make([]int, 4)
		for i := 0; i < 4; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(values[i]))
			if err != nil {
				return nil, errors.Wrapf(err, "Bad coordinate in %q", part)
			}
			coords[i] = v
		}
		detection := Detection{
			BBox:  NewBBox(coords[0], coords[1], coords[2], coords[3]),
			Score: 1.0,
		}
		if len(values) > 4 {
			class, err := strconv.Atoi(strings.TrimSpace(values[4]))
			if err != nil {
				return nil, errors.Wrapf(err, "Bad class in %q", part)
			}
			detection.Class = class
		}
		if len(values) > 5 {
			score, err := strconv.ParseFloat(strings.TrimSpace(values[5]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Bad score in %q", part)
			}
			detection.Score = score
		}
		detections = append(detections, detection)
	}
	return detections, nil
}
