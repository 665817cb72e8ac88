package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is used for PDF pages when a script gives none.
const DefaultDPI = 150

// Source is a paged raster provider used for image objects.
type Source interface {
	PageCount() int
	// PageSize is the page's size in source units (points or pixels).
	PageSize(index int) (width, height float64, err error)
	Render(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a source by file extension. Directories are image sequences.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewFitzPDFSource(path)
	default:
		return NewImageSource(path)
	}
}

// Load renders one page of the file at path.
func Load(path string, page, dpi int) (image.Image, error) {
	src, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()
	if page < 0 || page >= src.PageCount() {
		return nil, fmt.Errorf("%s: page %d out of range [0,%d)", path, page, src.PageCount())
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	img, err := src.Render(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("%s page %d: %w", path, page, err)
	}
	return img, nil
}

// FitzPDFSource renders PDF pages with MuPDF.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) PageSize(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// Render opens its own document handle; fitz documents are not safe for
// concurrent use.
func (f *FitzPDFSource) Render(index int, dpi int) (image.Image, error) {
	doc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
