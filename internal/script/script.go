package script

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/chart2video/internal/config"
)

// Version is written into new scripts.
const Version = "1.0"

// ErrUnknownOp is returned for records whose op has no handler.
var ErrUnknownOp = errors.New("unknown op")

// Script is an ordered list of graph and timeline operations. Replaying
// it issues the same calls a Go driver would.
type Script struct {
	Version string `yaml:"version"`
	// Config overrides the process config for this script only.
	Config yaml.Node `yaml:"config,omitempty"`
	Ops    []Op      `yaml:"ops"`
}

// Op is one {op, args} record.
type Op struct {
	Op   string    `yaml:"op"`
	Args yaml.Node `yaml:"args,omitempty"`
}

// OpError locates a failed record.
type OpError struct {
	Index int
	Op    string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("op %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func New() *Script {
	return &Script{Version: Version}
}

// NewOp encodes args into a record.
func NewOp(name string, args any) (Op, error) {
	op := Op{Op: name}
	if args == nil {
		return op, nil
	}
	if err := op.Args.Encode(args); err != nil {
		return Op{}, fmt.Errorf("encode %s args: %w", name, err)
	}
	return op, nil
}

// Add appends a record. Args are the typed structs of this package, so an
// encoding failure is a programming error and panics.
func (s *Script) Add(name string, args any) *Script {
	op, err := NewOp(name, args)
	if err != nil {
		panic(err)
	}
	s.Ops = append(s.Ops, op)
	return s
}

// Decode reads a record's args into v.
func (o Op) Decode(v any) error {
	if o.Args.Kind == 0 {
		return nil
	}
	return o.Args.Decode(v)
}

// Parse reads YAML. JSON documents are valid YAML and parse too.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.Version == "" {
		s.Version = Version
	}
	return &s, nil
}

func Read(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Script) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func Write(s *Script, path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve returns a copy of base with the script's overrides applied.
func (s *Script) Resolve(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Config.Kind == 0 {
		return &cfg, nil
	}
	node := &s.Config
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if err := cfg.Merge(node); err != nil {
		return nil, err
	}
	return &cfg, nil
}
