// Package render owns the current selection and turns label clicks into ordered transitions
// that an Applier draws.
package render

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/scatter"
	"github.com/teranos/censusplot/selection"
)

// DefaultDuration is the shared length of every animated step
const DefaultDuration = time.Second

// Transition is one selection change handed to an Applier.
// Updates are in pipeline order and Frame is the state the chart ends in.
type Transition struct {
	ID       uuid.UUID           `json:"id"`
	Seq      uint64              `json:"seq"`
	From     selection.Selection `json:"from"`
	To       selection.Selection `json:"to"`
	Axes     []census.Axis       `json:"axes"`
	Reload   bool                `json:"reload,omitempty"` // data changed underneath the selection
	Updates  []scatter.Update    `json:"updates"`
	Duration time.Duration       `json:"duration"`
	Frame    *scatter.Frame      `json:"frame"`

	// Builder produced Frame; appliers that draw other selections reuse it
	Builder *scatter.Builder `json:"-"`
}

// Steps returns the transition's steps in the order they run
func (t *Transition) Steps() []scatter.Step {
	steps := make([]scatter.Step, len(t.Updates))
	for i, u := range t.Updates {
		steps[i] = u.Step
	}
	return steps
}

// Applier draws transitions. Apply should return ctx.Err() promptly once ctx is cancelled,
// which happens when a newer transition supersedes this one.
type Applier interface {
	Apply(ctx context.Context, t *Transition) error
}

// ApplierFunc adapts a function to the Applier interface
type ApplierFunc func(ctx context.Context, t *Transition) error

// Apply calls f(ctx, t)
func (f ApplierFunc) Apply(ctx context.Context, t *Transition) error {
	return f(ctx, t)
}
