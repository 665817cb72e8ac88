package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

func TestScaleSeriesPreservesRatios(t *testing.T) {
	values := []float64{2237500, 2151495, 1399284, 532909, 41432, 0}
	s, err := NewSeries("types", []string{"CASH_OUT", "PAYMENT", "CASH_IN", "TRANSFER", "DEBIT", "NONE"}, values)
	require.NoError(t, err)

	scaled, err := ScaleSeries(s, 5)
	require.NoError(t, err)
	require.Len(t, scaled, len(values))
	assert.InDelta(t, 5, scaled[0].Length, 1e-12, "max value gets the full length")

	for i := range scaled {
		assert.GreaterOrEqual(t, scaled[i].Length, 0.0)
		for j := range scaled {
			if values[j] == 0 {
				continue
			}
			assert.InDelta(t, values[i]/values[j], scaled[i].Length/scaled[j].Length, 1e-9)
		}
	}
}

func TestScaleSeriesTwoBars(t *testing.T) {
	s, err := NewSeries("ab", []string{"A", "B"}, []float64{10, 5})
	require.NoError(t, err)
	scaled, err := ScaleSeries(s, 5)
	require.NoError(t, err)
	assert.Equal(t, []Scaled{{Value: 10, Length: 5}, {Value: 5, Length: 2.5}}, scaled)
}

func TestScaleSeriesErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		max    float64
		want   error
	}{
		{"all zero", []float64{0, 0, 0}, 5, ErrDivideByZero},
		{"empty", nil, 5, ErrDivideByZero},
		{"negative", []float64{3, -1}, 5, ErrInvalidValue},
		{"nan", []float64{1, math.NaN()}, 5, ErrInvalidValue},
		{"inf", []float64{math.Inf(1)}, 5, ErrInvalidValue},
		{"bad length", []float64{1}, 0, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := make([]string, len(tt.values))
			s, err := NewSeries(tt.name, labels, tt.values)
			require.NoError(t, err)

			scaled, err := ScaleSeries(s, tt.max)
			assert.Nil(t, scaled)
			assert.ErrorIs(t, err, tt.want)
			var se *ScaleError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestAxisMapping(t *testing.T) {
	a, err := NewAxis(0, 10, 8, -4)
	require.NoError(t, err)
	assert.Equal(t, -4.0, a.Map(0))
	assert.Equal(t, 4.0, a.Map(10))
	assert.Equal(t, 0.0, a.Map(5))

	_, err = NewAxis(1, 1, 5, 0)
	assert.ErrorIs(t, err, ErrInvalidAxis)
	_, err = NewAxis(0, 1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidAxis)

	logAxis, err := NewAxis(1, 1000, 3, 0)
	require.NoError(t, err)
	logAxis, err = logAxis.WithMapping(Log10)
	require.NoError(t, err)
	assert.InDelta(t, 2, logAxis.Map(100), 1e-12)

	neg, err := NewAxis(-1, 1, 2, 0)
	require.NoError(t, err)
	_, err = neg.WithMapping(Log10)
	assert.ErrorIs(t, err, ErrInvalidAxis)
}

func TestPlotLineClampsOutOfRange(t *testing.T) {
	ax, err := NewAxis(1, 8, 5, -2.5)
	require.NoError(t, err)
	ay, err := NewAxis(0.80, 0.90, 3, -1.5)
	require.NoError(t, err)

	poly, err := PlotLine([]XY{{1, 0.80}, {8, 0.90}, {9, 0.95}, {4, 0.70}}, ax, ay)
	require.NoError(t, err)
	require.Len(t, poly.Points, 4, "clamped points are kept, not dropped")
	assert.Equal(t, 2, poly.Clamped)

	assert.InDelta(t, -2.5, poly.Points[0].X, 1e-12)
	assert.InDelta(t, -1.5, poly.Points[0].Y, 1e-12)
	assert.InDelta(t, 2.5, poly.Points[2].X, 1e-12)
	assert.InDelta(t, 1.5, poly.Points[2].Y, 1e-12)
	assert.InDelta(t, -1.5, poly.Points[3].Y, 1e-12)

	_, err = PlotLine([]XY{{math.NaN(), 1}}, ax, ay)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "2,237,500", FormatValue(2237500))
	assert.Equal(t, "394", FormatValue(394))
	assert.Equal(t, "-1,000", FormatValue(-1000))
	assert.Equal(t, "0.8879", FormatValue(0.8879))
}

func TestNewBarChartLayout(t *testing.T) {
	g := scene.NewGraph(scene.DefaultStyle())
	s, err := NewSeries("ab", []string{"A", "B"}, []float64{10, 5})
	require.NoError(t, err)
	spec := DefaultBarChart("bars", s)
	spec.Lift = 0

	c, err := NewBarChart(g, spec)
	require.NoError(t, err)
	require.Len(t, c.Bars, 2)

	axis, err := g.Box(c.Axis)
	require.NoError(t, err)
	for i, want := range []float64{5, 2.5} {
		bar, err := g.Box(c.Bars[i].Rect)
		require.NoError(t, err)
		assert.InDelta(t, want, bar.Height(), 1e-12)
		assert.InDelta(t, axis.Max.Y, bar.Min.Y, 1e-12, "bar sits on the axis")
		assert.InDelta(t, c.AxisRange.Map(float64(i)*2), bar.Center().X, 1e-12)

		lbl, _ := g.Box(c.Bars[i].Label)
		assert.InDelta(t, bar.Min.Y-0.15, lbl.Max.Y, 1e-12)
		val, _ := g.Box(c.Bars[i].Value)
		assert.InDelta(t, bar.Max.Y+0.3, val.Center().Y, 1e-12)
	}

	grp, ok := g.Get(c.Group)
	require.True(t, ok)
	assert.Len(t, grp.Children(), 2)
}

func TestNewBarChartRejectsZeroSeries(t *testing.T) {
	g := scene.NewGraph(scene.DefaultStyle())
	s, _ := NewSeries("z", []string{"a"}, []float64{0})
	_, err := NewBarChart(g, DefaultBarChart("z", s))
	assert.ErrorIs(t, err, ErrDivideByZero)
	assert.Equal(t, 0, g.Len(), "nothing is created for a degenerate series")
}

func TestNewPlotWithDots(t *testing.T) {
	g := scene.NewGraph(scene.DefaultStyle())
	axes, err := NewAxes(g, AxesSpec{
		ID:     "left",
		X:      Range{Min: 1, Max: 8, Length: 5},
		Y:      Range{Min: 0.8, Max: 0.9, Length: 3},
		Center: geometry.Vec{X: -3, Y: -1},
		Color:  scene.White,
	})
	require.NoError(t, err)

	pts, err := Zip([]float64{1, 2, 3}, []float64{0.8066, 0.8535, 0.8547})
	require.NoError(t, err)
	p, err := NewPlot(g, axes, LineSpec{ID: "acc", Points: pts, Color: scene.GreyB, Dots: true})
	require.NoError(t, err)
	assert.Len(t, p.Dots, 3)
	assert.Zero(t, p.Clamped)

	dot, _ := g.Box(p.Dots[0])
	assert.InDelta(t, axes.X.Map(1), dot.Center().X, 1e-12)
	assert.InDelta(t, axes.Y.Map(0.8066), dot.Center().Y, 1e-12)
}

func TestNewMatrixGrid(t *testing.T) {
	g := scene.NewGraph(scene.DefaultStyle())
	spec := DefaultMatrix("cm", [][]string{{"TN\n1,692,561", "FP\n213,761"}, {"FN\n394", "TP\n2,070"}})
	spec.RowLabels = []string{"Non-Fraud", "Fraud"}
	spec.ColLabels = []string{"Non-Fraud", "Fraud"}
	spec.RowTitle = "Actual"
	spec.ColTitle = "Predicted"

	m, err := NewMatrix(g, spec)
	require.NoError(t, err)

	tl, _ := g.Box(m.Cells[0][0])
	tr, _ := g.Box(m.Cells[0][1])
	bl, _ := g.Box(m.Cells[1][0])
	br, _ := g.Box(m.Cells[1][1])
	assert.InDelta(t, -1.3, tl.Center().X, 1e-12)
	assert.InDelta(t, 0.5, tl.Center().Y, 1e-12)
	assert.InDelta(t, tl.Max.X, tr.Min.X, 1e-12)
	assert.InDelta(t, tl.Min.Y, bl.Max.Y, 1e-12)
	assert.InDelta(t, bl.Max.X, br.Min.X, 1e-12)

	txt, _ := g.Box(m.Texts[1][1])
	assert.InDelta(t, br.Center().X, txt.Center().X, 1e-12)
	assert.Len(t, m.Labels, 4)

	grp, _ := g.Get(m.Group)
	assert.Len(t, grp.Children(), 4+4+4+2)
}
