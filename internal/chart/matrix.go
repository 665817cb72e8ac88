package chart

import (
	"fmt"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

// MatrixSpec describes a grid of labelled cells such as a confusion matrix.
type MatrixSpec struct {
	ID string
	// Cells holds the text of each cell, row-major.
	Cells     [][]string
	RowLabels []string
	ColLabels []string
	RowTitle  string
	ColTitle  string
	CellSize  float64
	// TopLeft is the center of cell (0,0).
	TopLeft       geometry.Vec
	Fill          scene.Color
	FillOpacity   float64
	TextColor     scene.Color
	FontSize      float64
	LabelFontSize float64
}

// DefaultMatrix matches the confusion-matrix slide: 1.4 unit cells, the
// first one at (-1.3, 0.5).
func DefaultMatrix(id string, cells [][]string) MatrixSpec {
	return MatrixSpec{
		ID:            id,
		Cells:         cells,
		CellSize:      1.4,
		TopLeft:       geometry.Vec{X: -1.3, Y: 0.5},
		Fill:          scene.GreyE,
		FillOpacity:   0.5,
		TextColor:     scene.White,
		FontSize:      24,
		LabelFontSize: 20,
	}
}

// Matrix holds the ids created by NewMatrix.
type Matrix struct {
	Group  scene.ID
	Cells  [][]scene.ID
	Texts  [][]scene.ID
	Labels []scene.ID
}

// NewMatrix lays cells edge to edge: each row starts below the previous
// row's first cell and continues to the right.
func NewMatrix(g *scene.Graph, spec MatrixSpec) (*Matrix, error) {
	if len(spec.Cells) == 0 || len(spec.Cells[0]) == 0 {
		return nil, fmt.Errorf("matrix %s: no cells", spec.ID)
	}
	m := &Matrix{Group: scene.ID(spec.ID)}
	var members []scene.ID

	for r, row := range spec.Cells {
		if len(row) != len(spec.Cells[0]) {
			return nil, fmt.Errorf("matrix %s: row %d has %d cells, want %d", spec.ID, r, len(row), len(spec.Cells[0]))
		}
		var cells, texts []scene.ID
		for c, text := range row {
			cell := scene.ID(fmt.Sprintf("%s-cell-%d-%d", spec.ID, r, c))
			if _, err := g.NewSquare(cell, spec.CellSize, scene.WithFill(spec.Fill, spec.FillOpacity)); err != nil {
				return nil, err
			}
			var err error
			switch {
			case r == 0 && c == 0:
				err = g.MoveTo(cell, spec.TopLeft)
			case c == 0:
				_, err = scene.Place(g, cell, m.Cells[r-1][0], geometry.Down, 0)
			default:
				_, err = scene.Place(g, cell, cells[c-1], geometry.Right, 0)
			}
			if err != nil {
				return nil, err
			}

			label := scene.ID(fmt.Sprintf("%s-text-%d-%d", spec.ID, r, c))
			if _, err := g.NewText(label, text, scene.WithFontSize(spec.FontSize), scene.WithColor(spec.TextColor)); err != nil {
				return nil, err
			}
			box, _ := g.Box(cell)
			if err := g.MoveTo(label, box.Center()); err != nil {
				return nil, err
			}
			cells = append(cells, cell)
			texts = append(texts, label)
		}
		m.Cells = append(m.Cells, cells)
		m.Texts = append(m.Texts, texts)
		members = append(members, cells...)
	}
	for _, texts := range m.Texts {
		members = append(members, texts...)
	}

	var rowLabels, colLabels []scene.ID
	for r, text := range spec.RowLabels {
		if r >= len(m.Cells) {
			break
		}
		id := scene.ID(fmt.Sprintf("%s-row-%d", spec.ID, r))
		if _, err := g.NewText(id, text, scene.WithFontSize(spec.LabelFontSize), scene.WithColor(spec.TextColor)); err != nil {
			return nil, err
		}
		if _, err := scene.Place(g, id, m.Cells[r][0], geometry.Left, 0.3); err != nil {
			return nil, err
		}
		rowLabels = append(rowLabels, id)
	}
	for c, text := range spec.ColLabels {
		if c >= len(m.Cells[0]) {
			break
		}
		id := scene.ID(fmt.Sprintf("%s-col-%d", spec.ID, c))
		if _, err := g.NewText(id, text, scene.WithFontSize(spec.LabelFontSize), scene.WithColor(spec.TextColor)); err != nil {
			return nil, err
		}
		if _, err := scene.Place(g, id, m.Cells[0][c], geometry.Up, 0.3); err != nil {
			return nil, err
		}
		colLabels = append(colLabels, id)
	}
	members = append(members, rowLabels...)
	members = append(members, colLabels...)

	titles := []struct {
		text   string
		suffix string
		ref    []scene.ID
		dir    geometry.Direction
	}{
		{spec.RowTitle, "row-title", rowLabels, geometry.Left},
		{spec.ColTitle, "col-title", colLabels, geometry.Up},
	}
	for _, tt := range titles {
		if tt.text == "" {
			continue
		}
		id := scene.ID(fmt.Sprintf("%s-%s", spec.ID, tt.suffix))
		if _, err := g.NewText(id, tt.text, scene.WithFontSize(spec.FontSize), scene.WithColor(spec.TextColor)); err != nil {
			return nil, err
		}
		// Center the title on all of its labels, or on the first cell.
		refs := tt.ref
		if len(refs) == 0 {
			refs = []scene.ID{m.Cells[0][0]}
		}
		span, err := g.Box(refs[0])
		if err != nil {
			return nil, err
		}
		for _, r := range refs[1:] {
			b, err := g.Box(r)
			if err != nil {
				return nil, err
			}
			span = span.Union(b)
		}
		_, err = scene.PlaceAt(g, id, span.Edge(tt.dir), tt.dir, 0.3)
		if err != nil {
			return nil, err
		}
		members = append(members, id)
	}

	m.Labels = append(append([]scene.ID(nil), rowLabels...), colLabels...)
	if _, err := g.NewGroup(m.Group, members...); err != nil {
		return nil, err
	}
	return m, nil
}
