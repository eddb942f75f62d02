package mot

// IoU calculates Intersection over Union between two bounding boxes.
// Degenerate boxes (zero area) never overlap anything.
func IoU(b1, b2 BBox) float64 {
	xA := maxInt(b1.XMin, b2.XMin)
	yA := maxInt(b1.YMin, b2.YMin)
	xB := minInt(b1.XMax, b2.XMax)
	yB := minInt(b1.YMax, b2.YMax)

	interArea := maxInt(0, xB-xA) * maxInt(0, yB-yA)
	if interArea == 0 {
		return 0.0
	}

	unionArea := b1.Area() + b2.Area() - interArea
	return float64(interArea) / float64(unionArea)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
