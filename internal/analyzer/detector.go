// Package analyzer finds where content is drawn on raster assets, so PDF
// pages and screenshots can be trimmed to it before they go on stage.
package analyzer

import "image"

// Region is one connected area of detected content.
type Region struct {
	Rect image.Rectangle
	// Pixels is the number of edge pixels in the region after dilation.
	Pixels int
}

// Detector finds content regions, largest first.
type Detector interface {
	Detect(img image.Image) ([]Region, error)
}
