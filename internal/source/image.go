package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// ImageSource serves one PNG/JPEG file, or every such file in a directory
// in name order, as pages.
type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return &ImageSource{paths: []string{path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	s := &ImageSource{}
	for _, e := range entries {
		if !e.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			s.paths = append(s.paths, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(s.paths)
	return s, nil
}

func (s *ImageSource) PageCount() int { return len(s.paths) }

func (s *ImageSource) open(index int) (*os.File, error) {
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("image %d of %d", index, len(s.paths))
	}
	return os.Open(s.paths[index])
}

// PageSize reads the pixel size from the file header.
func (s *ImageSource) PageSize(index int) (float64, float64, error) {
	f, err := s.open(index)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", f.Name(), err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// Render decodes the file; dpi only matters for vector pages.
func (s *ImageSource) Render(index int, _ int) (image.Image, error) {
	f, err := s.open(index)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	return img, nil
}

func (s *ImageSource) Close() error { return nil }
