package cvtrack

import (
	"fmt"
	"image"
	"image/color"

	"github.com/LdDl/detect-track-go/mot"
	"gocv.io/x/gocv"
)

var (
	boxColor  = color.RGBA{178, 34, 34, 0}
	textColor = color.RGBA{255, 255, 255, 0}
)

// DrawObjects draws bounding boxes of tracked objects with their life on the image
func DrawObjects(img *gocv.Mat, objects []mot.TrackedObject) {
	for _, obj := range objects {
		bbox := obj.GetBBox()
		gocv.Rectangle(img, bbox.Rect(), boxColor, 2)
		label := fmt.Sprintf("%s %d", obj.GetID().String()[:8], obj.GetLife())
		gocv.PutText(img, label, image.Pt(bbox.XMin, bbox.YMin-4), gocv.FontHersheyPlain, 1.0, textColor, 1)
	}
}

// DrawCount prints number of alive objects in the top left corner
func DrawCount(img *gocv.Mat, count int) {
	gocv.PutText(img, fmt.Sprintf("objects: %d", count), image.Pt(10, 20), gocv.FontHersheyPlain, 1.4, boxColor, 2)
}
