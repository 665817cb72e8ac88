package analyzer

import (
	"image"

	"golang.org/x/image/draw"
)

// ContentBounds is the union of every region d finds, grown by pad pixels
// and clipped to the image. An image without content keeps its bounds.
func ContentBounds(img image.Image, d Detector, pad int) (image.Rectangle, error) {
	regions, err := d.Detect(img)
	if err != nil {
		return image.Rectangle{}, err
	}
	b := img.Bounds()
	if len(regions) == 0 {
		return b, nil
	}
	u := regions[0].Rect
	for _, r := range regions[1:] {
		u = u.Union(r.Rect)
	}
	return u.Inset(-pad).Intersect(b), nil
}

// Trim cuts img down to its content bounds. The result shares pixels with
// img when the image type supports SubImage.
func Trim(img image.Image, d Detector, pad int) (image.Image, error) {
	r, err := ContentBounds(img, d, pad)
	if err != nil {
		return nil, err
	}
	if r == img.Bounds() {
		return img, nil
	}
	if s, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return s.SubImage(r), nil
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, nil
}
