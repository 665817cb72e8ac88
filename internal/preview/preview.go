// Package preview prints a script's charts and beat schedule to the
// terminal without rendering any frames.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ivlev/chart2video/internal/chart"
	"github.com/ivlev/chart2video/internal/director"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#58c4dd"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	stateStyles = map[director.BeatState]lipgloss.Style{
		director.Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")),
		director.Running: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")),
		director.Settled: lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")),
		director.Failed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")),
	}
)

// Options sizes the plots.
type Options struct {
	Width  int
	Height int
}

func DefaultOptions() Options {
	return Options{Width: 60, Height: 8}
}

// Series plots the values of s in label order. An empty series renders as
// an empty string.
func Series(s chart.Series, opts Options) string {
	values := s.Values()
	if len(values) == 0 {
		return ""
	}
	labels := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
	}
	graph := asciigraph.Plot(values,
		asciigraph.Width(opts.Width),
		asciigraph.Height(opts.Height),
		asciigraph.Caption(strings.Join(labels, " · ")),
	)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(s.Name), graph)
}

// Beats renders the schedule as one row per beat.
func Beats(p *director.Plan) string {
	var b strings.Builder
	header := fmt.Sprintf("%-4s %-28s %8s %8s  %s", "#", "label", "start", "length", "state")
	b.WriteString(labelStyle.Render(header))
	for _, pb := range p.Beats {
		label := pb.Label
		if label == "" && len(pb.Beat.Primitives) == 0 {
			label = "(wait)"
		}
		if len(label) > 28 {
			label = label[:27] + "…"
		}
		row := fmt.Sprintf("%-4d %-28s %7.2fs %7.2fs  ", pb.Index, label, pb.Start, pb.Duration)
		b.WriteString("\n" + row + stateStyles[pb.State].Render(pb.State.String()))
		if pb.Error != "" {
			b.WriteString("\n     " + stateStyles[director.Failed].Render(pb.Error))
		}
	}
	b.WriteString("\n" + labelStyle.Render(fmt.Sprintf("total %.2fs at %g fps", p.Duration, p.Rate)))
	return b.String()
}

// Write prints every series and the schedule to w.
func Write(w io.Writer, series []chart.Series, plan *director.Plan, opts Options) error {
	var blocks []string
	for _, s := range series {
		if g := Series(s, opts); g != "" {
			blocks = append(blocks, panelStyle.Render(g))
		}
	}
	blocks = append(blocks, panelStyle.Render(Beats(plan)))
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}
