package director

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/chart2video/internal/effects"
)

// BeatState is the lifecycle of a beat.
type BeatState int

const (
	Pending BeatState = iota
	Running
	Settled
	Failed
)

func (s BeatState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Settled:
		return "settled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

func (s BeatState) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *BeatState) UnmarshalYAML(n *yaml.Node) error {
	for _, st := range []BeatState{Pending, Running, Settled, Failed} {
		if n.Value == st.String() {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown beat state %q", n.Line, n.Value)
}

// Beat is a set of primitives that run together, or a pure wait. The beat
// lasts as long as its longest primitive, and at least Wait seconds.
type Beat struct {
	Label      string              `yaml:"label,omitempty"`
	Primitives []effects.Primitive `yaml:"primitives,omitempty"`
	Wait       float64             `yaml:"wait,omitempty"`
}

// Plan is the schedule of a timeline as submitted so far.
type Plan struct {
	Version  string        `yaml:"version"`
	Rate     float64       `yaml:"rate"`
	Aligned  bool          `yaml:"aligned"`
	Duration float64       `yaml:"duration"`
	Beats    []PlannedBeat `yaml:"beats"`
}

// PlannedBeat is one beat with its resolved timing. Start is only final
// once every earlier beat has settled or failed.
type PlannedBeat struct {
	Index    int       `yaml:"index"`
	Label    string    `yaml:"label,omitempty"`
	Start    float64   `yaml:"start"`
	Duration float64   `yaml:"duration"`
	State    BeatState `yaml:"state"`
	Beat     Beat      `yaml:"beat"`
	Error    string    `yaml:"error,omitempty"`
}
