package mot

import (
	"sort"

	"github.com/pkg/errors"
)

// FilterOptions describes which detections FilteredDetector lets through
type FilterOptions struct {
	// Detections with lower score are dropped
	MinScore float64
	// Classes of interest: class id to class name. Empty map keeps every class
	Classes map[int]string
	// Overlapping detections with IoU not less than this value are suppressed in favour of the higher score.
	// Zero disables suppression
	NMSThreshold float64
}

// FilteredDetector wraps ObjectDetector and filters its output by score, class and overlap.
// Order of the surviving detections is preserved.
type FilteredDetector[F any] struct {
	inner   ObjectDetector[F]
	options FilterOptions
}

// NewFilteredDetector creates new instance of FilteredDetector
func NewFilteredDetector[F any](inner ObjectDetector[F], options FilterOptions) *FilteredDetector[F] {
	return &FilteredDetector[F]{
		inner:   inner,
		options: options,
	}
}

// Process runs wrapped detector and filters its detections
func (detector *FilteredDetector[F]) Process(frame F) ([]Detection, error) {
	if detector.inner == nil {
		return nil, ErrNilDetector
	}
	detections, err := detector.inner.Process(frame)
	if err != nil {
		return nil, errors.Wrap(err, "Wrapped detector failed")
	}
	filtered := make([]Detection, 0, len(detections))
	for _, detection := range detections {
		if detection.Score < detector.options.MinScore {
			continue
		}
		if len(detector.options.Classes) > 0 {
			name, ok := detector.options.Classes[detection.Class]
			if !ok {
				continue
			}
			if detection.ClassName == "" {
				detection.ClassName = name
			}
		}
		filtered = append(filtered, detection)
	}
	if detector.options.NMSThreshold > 0 {
		filtered = suppressOverlaps(filtered, detector.options.NMSThreshold)
	}
	return filtered, nil
}

// suppressOverlaps is greedy non-maximum suppression keeping input order of survivors
func suppressOverlaps(detections []Detection, threshold float64) []Detection {
	indices := make([]int, len(detections))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return detections[indices[i]].Score > detections[indices[j]].Score
	})
	suppressed := make([]bool, len(detections))
	for a, i := range indices {
		if suppressed[i] {
			continue
		}
		for _, j := range indices[a+1:] {
			if !suppressed[j] && IoU(detections[i].BBox, detections[j].BBox) >= threshold {
				suppressed[j] = true
			}
		}
	}
	kept := make([]Detection, 0, len(detections))
	for i := range detections {
		if !suppressed[i] {
			kept = append(kept, detections[i])
		}
	}
	return kept
}
