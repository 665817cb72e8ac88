package preview

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/chart2video/internal/chart"
	"github.com/ivlev/chart2video/internal/director"
	"github.com/ivlev/chart2video/internal/effects"
)

func TestSeriesPlot(t *testing.T) {
	s, err := chart.NewSeries("balance", []string{"Non-Fraud", "Fraud"}, []float64{6354407, 8213})
	require.NoError(t, err)

	out := Series(s, Options{Width: 20, Height: 4})
	assert.Contains(t, out, "balance")
	assert.Contains(t, out, "Non-Fraud · Fraud")

	assert.Empty(t, Series(chart.Series{Name: "empty"}, DefaultOptions()))
}

func TestBeatsTable(t *testing.T) {
	plan := &director.Plan{
		Rate:     30,
		Duration: 2,
		Beats: []director.PlannedBeat{
			{Index: 0, Label: "title", Duration: 1, State: director.Settled,
				Beat: director.Beat{Primitives: []effects.Primitive{{Kind: effects.KindFadeIn, Target: "title"}}}},
			{Index: 1, Start: 1, Duration: 1, State: director.Settled},
			{Index: 2, Label: "broken", Start: 2, State: director.Failed, Error: "bind: no object"},
		},
	}
	out := Beats(plan)
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "(wait)")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "bind: no object")
	assert.Contains(t, out, "total 2.00s at 30 fps")
}

func TestWrite(t *testing.T) {
	s, err := chart.NewSeries("acc", []string{"1", "2", "3"}, []float64{0.8, 0.85, 0.86})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []chart.Series{s}, &director.Plan{Rate: 10}, DefaultOptions()))
	assert.Contains(t, buf.String(), "acc")
	assert.Contains(t, buf.String(), "total 0.00s at 10 fps")
}
