// Package scenario builds a flow graph from a declarative YAML document,
// so a runnable graph can be authored without writing Go: composite shape
// comes from nesting, and leaf behavior comes from small scripted
// expressions evaluated by the script package.
package scenario

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// NodeSpec is one node of a scenario graph as loaded from YAML. Kind
// selects which flow.Generator constructor builds it: "node", "sequence",
// "barrier", "timer", "periodic_timer", "trigger", or "sync_coroutine".
// Children is only meaningful for the composite kinds ("node", "sequence",
// "barrier").
//
// OnElapsed, OnFire, and OnTriggered are each either a small JavaScript
// expression evaluated against the scenario's shared bindings, or one of
// two declarative shorthands that skip scripting entirely: the literal
// string "break" requests that the driving Kernel stop via BreakFlow, and a
// string with a "log:" prefix logs the remainder of the string as a message.
type NodeSpec struct {
	Kind        string     `yaml:"kind"`
	Name        string     `yaml:"name"`
	Duration    string     `yaml:"duration,omitempty"`
	Condition   string     `yaml:"condition,omitempty"`
	Step        string     `yaml:"step,omitempty"`
	OnElapsed   string     `yaml:"on_elapsed,omitempty"`
	OnFire      string     `yaml:"on_fire,omitempty"`
	OnTriggered string     `yaml:"on_triggered,omitempty"`
	Children    []NodeSpec `yaml:"children,omitempty"`
}

// Spec is a whole scenario document: a name for the run and the root node
// to attach under a Kernel's Root.
type Spec struct {
	Name string   `yaml:"name"`
	Root NodeSpec `yaml:"root"`
}

// Parse decodes a scenario document from r.
func Parse(r io.Reader) (*Spec, error) {
	var spec Spec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	if spec.Root.Kind == "" {
		return nil, fmt.Errorf("scenario: root node must set a kind")
	}
	return &spec, nil
}
