package mot

import (
	"image"
	"math"
)

// BBox is an axis-aligned bounding box in integer pixel coordinates.
// XMin <= XMax and YMin <= YMax always hold for boxes built via NewBBox.
type BBox struct {
	XMin int
	YMin int
	XMax int
	YMax int
}

// NewBBox creates bounding box from its corners. Swapped corners are put in order
func NewBBox(xmin, ymin, xmax, ymax int) BBox {
	if xmin > xmax {
		xmin, xmax = xmax, xmin
	}
	if ymin > ymax {
		ymin, ymax = ymax, ymin
	}
	return BBox{
		XMin: xmin,
		YMin: ymin,
		XMax: xmax,
		YMax: ymax,
	}
}

// NewBBoxFrom creates bounding box from image.Rectangle
func NewBBoxFrom(rect image.Rectangle) BBox {
	canon := rect.Canon()
	return BBox{
		XMin: canon.Min.X,
		YMin: canon.Min.Y,
		XMax: canon.Max.X,
		YMax: canon.Max.Y,
	}
}

// NewBBoxXYWH creates bounding box from top-left corner and size
func NewBBoxXYWH(x, y, width, height int) BBox {
	return NewBBox(x, y, x+width, y+height)
}

// Rect returns bounding box as image.Rectangle
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.XMin, b.YMin, b.XMax, b.YMax)
}

// Width returns XMax - XMin
func (b BBox) Width() int {
	return b.XMax - b.XMin
}

// Height returns YMax - YMin
func (b BBox) Height() int {
	return b.YMax - b.YMin
}

// Area returns width multiplied by height
func (b BBox) Area() int {
	return b.Width() * b.Height()
}

// Centroid returns geometric center of the bounding box
func (b BBox) Centroid() Point {
	return Point{
		X: float64(b.XMin+b.XMax) / 2.0,
		Y: float64(b.YMin+b.YMax) / 2.0,
	}
}

// bboxFromCenter rounds a float center/size box back to pixel grid
func bboxFromCenter(cx, cy, w, h float64) BBox {
	return NewBBox(
		int(math.Round(cx-w/2.0)),
		int(math.Round(cy-h/2.0)),
		int(math.Round(cx+w/2.0)),
		int(math.Round(cy+h/2.0)),
	)
}

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func NewPointFrom(point image.Point) Point {
	return Point{
		X: float64(point.X),
		Y: float64(point.Y),
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}
