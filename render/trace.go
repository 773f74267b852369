package render

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/logger"
	"github.com/teranos/censusplot/scatter"
)

// TraceEntry is one applied step
type TraceEntry struct {
	Seq    uint64        `json:"seq"`
	Step   scatter.Step  `json:"step"`
	Axes   []census.Axis `json:"axes"`
	Detail string        `json:"detail"`
}

// TraceApplier records every step it applies and logs it. It draws nothing.
type TraceApplier struct {
	mu          sync.Mutex
	entries     []TraceEntry
	transitions []*Transition
	logger      *zap.SugaredLogger
}

// NewTraceApplier creates a trace applier; a nil logger discards output
func NewTraceApplier(log *zap.SugaredLogger) *TraceApplier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TraceApplier{logger: log.Named("render.trace")}
}

// Apply records the transition's updates in order, stopping early if ctx is cancelled
func (a *TraceApplier) Apply(ctx context.Context, t *Transition) error {
	a.mu.Lock()
	a.transitions = append(a.transitions, t)
	a.mu.Unlock()

	for _, u := range t.Updates {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.mu.Lock()
		a.entries = append(a.entries, TraceEntry{Seq: t.Seq, Step: u.Step, Axes: u.Axes, Detail: u.Detail})
		a.mu.Unlock()

		a.logger.Infow(u.Step.String(),
			logger.FieldSeq, t.Seq,
			logger.FieldStep, u.Step.String(),
			"detail", u.Detail,
		)
	}
	return nil
}

// Entries returns a copy of the recorded steps
func (a *TraceApplier) Entries() []TraceEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]TraceEntry(nil), a.entries...)
}

// Steps returns the recorded steps, across all transitions, in apply order
func (a *TraceApplier) Steps() []scatter.Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]scatter.Step, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Step
	}
	return out
}

// Transitions returns the transitions seen so far
func (a *TraceApplier) Transitions() []*Transition {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Transition(nil), a.transitions...)
}

// Reset discards everything recorded
func (a *TraceApplier) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = nil
	a.transitions = nil
}
