package cvtrack

import (
	"image"
	"sync"

	"github.com/LdDl/detect-track-go/mot"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DNNOptions configures DNNDetector
type DNNOptions struct {
	// Network input size. Default is 300x300 (SSD MobileNet)
	InputSize image.Point
	// Mean subtracted from every channel
	Mean gocv.Scalar
	// Scale factor applied to pixel values. Default is 1.0
	Scale float64
	// Swap red and blue channels: OpenCV frames are BGR, TensorFlow models expect RGB. Default is true
	SwapRB bool
	// Detections with lower confidence are dropped. Default is 0.5
	MinScore float64
	Backend  gocv.NetBackendType
	Target   gocv.NetTargetType
}

// DefaultDNNOptions returns options suitable for TensorFlow Object Detection API SSD models
func DefaultDNNOptions() DNNOptions {
	return DNNOptions{
		InputSize: image.Pt(300, 300),
		Mean:      gocv.NewScalar(0, 0, 0, 0),
		Scale:     1.0,
		SwapRB:    true,
		MinScore:  0.5,
		Backend:   gocv.NetBackendDefault,
		Target:    gocv.NetTargetCPU,
	}
}

// DNNDetector implements mot.ObjectDetector[gocv.Mat] on top of OpenCV DNN module.
// It expects SSD-like output: 1x1xNx7 blob of [image_id, class_id, confidence, left, top, right, bottom]
// with coordinates normalized to [0, 1].
type DNNDetector struct {
	net     gocv.Net
	options DNNOptions
	mu      sync.Mutex
}

// NewDNNDetector loads frozen TensorFlow graph (modelPath) with its text graph description (configPath).
// Empty configPath loads the graph alone.
func NewDNNDetector(modelPath, configPath string, options DNNOptions) (*DNNDetector, error) {
	var net gocv.Net
	if configPath == "" {
		net = gocv.ReadNetFromTensorflow(modelPath)
	} else {
		net = gocv.ReadNet(modelPath, configPath)
	}
	if net.Empty() {
		return nil, errors.Errorf("Can't load network from %s and %s", modelPath, configPath)
	}
	if err := net.SetPreferableBackend(options.Backend); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "Can't set preferable backend")
	}
	if err := net.SetPreferableTarget(options.Target); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "Can't set preferable target")
	}
	if options.InputSize.X <= 0 || options.InputSize.Y <= 0 {
		options.InputSize = image.Pt(300, 300)
	}
	if options.Scale == 0 {
		options.Scale = 1.0
	}
	return &DNNDetector{
		net:     net,
		options: options,
	}, nil
}

// Process runs forward pass on the frame and returns detections in frame pixel coordinates
func (detector *DNNDetector) Process(frame gocv.Mat) ([]mot.Detection, error) {
	if frame.Empty() {
		return nil, errors.New("Empty frame")
	}
	detector.mu.Lock()
	defer detector.mu.Unlock()

	blob := gocv.BlobFromImage(frame, detector.options.Scale, detector.options.InputSize, detector.options.Mean, detector.options.SwapRB, false)
	defer blob.Close()

	detector.net.SetInput(blob, "")
	output := detector.net.Forward("")
	defer output.Close()

	return parseSSDOutput(output, frame.Cols(), frame.Rows(), detector.options.MinScore), nil
}

// Close releases the network
func (detector *DNNDetector) Close() error {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	return detector.net.Close()
}

func parseSSDOutput(output gocv.Mat, width, height int, minScore float64) []mot.Detection {
	detections := make([]mot.Detection, 0)
	for i := 0; i+6 < output.Total(); i += 7 {
		confidence := float64(output.GetFloatAt(0, i+2))
		if confidence < minScore {
			continue
		}
		classID := int(output.GetFloatAt(0, i+1))
		left := int(output.GetFloatAt(0, i+3) * float32(width))
		top := int(output.GetFloatAt(0, i+4) * float32(height))
		right := int(output.GetFloatAt(0, i+5) * float32(width))
		bottom := int(output.GetFloatAt(0, i+6) * float32(height))
		bbox := clampBBox(mot.NewBBox(left, top, right, bottom), width, height)
		if bbox.Area() == 0 {
			continue
		}
		detections = append(detections, mot.Detection{
			BBox:  bbox,
			Class: classID,
			Score: confidence,
		})
	}
	return detections
}

// clampBBox keeps bounding box inside the frame
func clampBBox(bbox mot.BBox, width, height int) mot.BBox {
	return mot.NewBBoxFrom(bbox.Rect().Intersect(image.Rect(0, 0, width, height)))
}
