package analyzer

import (
	"image"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

// EdgeDetector marks pixels whose Sobel gradient exceeds Threshold, grows
// them by Dilate pixels so nearby strokes merge, and reports each connected
// area of at least MinArea pixels.
type EdgeDetector struct {
	MinArea   int
	Threshold float64
	Dilate    int
}

func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{
		MinArea:   500,
		Threshold: 30,
		Dilate:    4,
	}
}

func (d *EdgeDetector) Detect(img image.Image) ([]Region, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	mask := sobel(gray, d.Threshold)
	mask = dilate(mask, gray.Rect.Dx(), gray.Rect.Dy(), d.Dilate)

	var regions []Region
	for _, r := range components(mask, gray.Rect.Dx(), gray.Rect.Dy()) {
		if r.Rect.Dx()*r.Rect.Dy() < d.MinArea {
			continue
		}
		r.Rect = r.Rect.Add(b.Min)
		regions = append(regions, r)
	}
	sort.SliceStable(regions, func(i, j int) bool {
		ai := regions[i].Rect.Dx() * regions[i].Rect.Dy()
		aj := regions[j].Rect.Dx() * regions[j].Rect.Dy()
		return ai > aj
	})
	return regions, nil
}

// sobel returns a w×h mask, true where the gradient magnitude exceeds
// threshold. The one pixel border is never marked.
func sobel(g *image.Gray, threshold float64) []bool {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	mask := make([]bool, w*h)
	at := func(x, y int) float64 { return float64(g.Pix[y*g.Stride+x]) }
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			if math.Hypot(gx, gy) > threshold {
				mask[y*w+x] = true
			}
		}
	}
	return mask
}

// dilate grows the mask by r pixels in a square neighbourhood, as a
// horizontal pass followed by a vertical one.
func dilate(mask []bool, w, h, r int) []bool {
	if r <= 0 {
		return mask
	}
	row := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		last := -r - 1
		for x := 0; x < w; x++ {
			if mask[y*w+x] {
				last = x
			}
			// Look ahead for a set pixel within r on the right.
			if x-last <= r {
				row[y*w+x] = true
				continue
			}
			for k := 1; k <= r && x+k < w; k++ {
				if mask[y*w+x+k] {
					row[y*w+x] = true
					break
				}
			}
		}
	}
	out := make([]bool, len(mask))
	for x := 0; x < w; x++ {
		last := -r - 1
		for y := 0; y < h; y++ {
			if row[y*w+x] {
				last = y
			}
			if y-last <= r {
				out[y*w+x] = true
				continue
			}
			for k := 1; k <= r && y+k < h; k++ {
				if row[(y+k)*w+x] {
					out[y*w+x] = true
					break
				}
			}
		}
	}
	return out
}

// components labels 4-connected areas of the mask and returns their
// bounding boxes.
func components(mask []bool, w, h int) []Region {
	seen := make([]bool, len(mask))
	var regions []Region
	var stack []int
	for start := range mask {
		if !mask[start] || seen[start] {
			continue
		}
		x0, y0 := start%w, start/w
		r := Region{Rect: image.Rect(x0, y0, x0+1, y0+1)}
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			r.Pixels++
			r.Rect = r.Rect.Union(image.Rect(x, y, x+1, y+1))

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				switch {
				case n < 0 || n >= len(mask):
					continue
				case (n == i-1 && x == 0) || (n == i+1 && x == w-1):
					continue
				case mask[n] && !seen[n]:
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		regions = append(regions, r)
	}
	return regions
}
