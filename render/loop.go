package render

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/logger"
	"github.com/teranos/censusplot/scatter"
	"github.com/teranos/censusplot/selection"
)

// ErrSuperseded is returned by a click whose apply was cancelled by a newer transition
var ErrSuperseded = errors.New("transition superseded by a newer selection")

// Loop holds the only mutable reference to the current selection and frame.
// State changes are serialized; applies run outside the lock, newest first.
type Loop struct {
	mu       sync.Mutex
	builder  *scatter.Builder
	sel      selection.Selection
	frame    *scatter.Frame
	seq      uint64
	cancel   context.CancelFunc
	duration time.Duration
	applier  Applier
	logger   *zap.SugaredLogger
}

// LoopConfig contains configuration for the render loop
type LoopConfig struct {
	Initial  selection.Selection
	Duration time.Duration
}

// DefaultLoopConfig starts at the default selection with one-second transitions
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Initial:  selection.Default,
		Duration: DefaultDuration,
	}
}

// NewLoop builds the initial frame. Nothing is applied until Render or a click.
func NewLoop(builder *scatter.Builder, cfg LoopConfig, applier Applier, log *zap.SugaredLogger) (*Loop, error) {
	if builder == nil || applier == nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "builder and applier are required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Duration < 0 {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "negative duration %s", cfg.Duration)
	}

	frame, err := builder.Build(cfg.Initial)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build initial frame")
	}

	return &Loop{
		builder:  builder,
		sel:      cfg.Initial,
		frame:    frame,
		duration: cfg.Duration,
		applier:  applier,
		logger:   log.Named("render.loop"),
	}, nil
}

// Selection returns the current selection
func (l *Loop) Selection() selection.Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sel
}

// Frame returns the current frame. Frames are never mutated after they are built.
func (l *Loop) Frame() *scatter.Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Render applies the current frame from scratch with every step on both axes
func (l *Loop) Render(ctx context.Context) (*Transition, error) {
	l.mu.Lock()
	frame, updates, err := l.builder.Transition(nil, l.sel)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	tr := l.commitLocked(l.sel, frame, updates, false)
	return l.apply(ctx, tr)
}

// Click activates a label. Clicking the label that is already active does nothing:
// no scale is rebuilt and the applier is not called, so the result is nil, nil.
func (l *Loop) Click(ctx context.Context, f census.Field) (*Transition, error) {
	if _, err := census.ParseField(string(f)); err != nil {
		return nil, err
	}

	l.mu.Lock()
	next, changed := l.sel.With(f)
	if !changed {
		l.mu.Unlock()
		l.logger.Debugw("Label already active",
			logger.FieldAxis, f.Axis(),
			"field", f,
		)
		return nil, nil
	}

	frame, updates, err := l.builder.Transition(l.frame, next)
	if err != nil {
		l.mu.Unlock()
		return nil, errors.Wrapf(err, "failed to select %s", f)
	}
	tr := l.commitLocked(next, frame, updates, false)
	return l.apply(ctx, tr)
}

// Select moves to a whole selection. A change on both axes runs as two clicks, X first.
func (l *Loop) Select(ctx context.Context, sel selection.Selection) ([]*Transition, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	var out []*Transition
	for _, f := range []census.Field{sel.X, sel.Y} {
		tr, err := l.Click(ctx, f)
		if err != nil {
			return out, err
		}
		if tr != nil {
			out = append(out, tr)
		}
	}
	return out, nil
}

// Reload swaps in a new dataset and redraws the current selection with every step on both axes
func (l *Loop) Reload(ctx context.Context, ds *census.Dataset) (*Transition, error) {
	l.mu.Lock()
	builder, err := l.builder.WithDataset(ds)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	return l.swapLocked(ctx, builder)
}

// Rebuild swaps in a new builder, for when the layout or narratives changed as well as the data
func (l *Loop) Rebuild(ctx context.Context, builder *scatter.Builder) (*Transition, error) {
	if builder == nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "builder is required")
	}
	l.mu.Lock()
	return l.swapLocked(ctx, builder)
}

// swapLocked redraws the current selection with builder and releases the lock.
// On error the previous builder and frame stay in place.
func (l *Loop) swapLocked(ctx context.Context, builder *scatter.Builder) (*Transition, error) {
	frame, updates, err := builder.Transition(nil, l.sel)
	if err != nil {
		l.mu.Unlock()
		return nil, errors.Wrap(err, "failed to rebuild frame")
	}
	l.builder = builder
	tr := l.commitLocked(l.sel, frame, updates, true)
	ds := builder.Dataset()
	l.logger.Infow("Dataset reloaded",
		logger.FieldFile, ds.Source,
		logger.FieldRows, ds.Len(),
		logger.FieldSeq, tr.Seq,
	)
	return l.apply(ctx, tr)
}

// commitLocked records the new state and releases the lock
func (l *Loop) commitLocked(next selection.Selection, frame *scatter.Frame, updates []scatter.Update, reload bool) *Transition {
	defer l.mu.Unlock()

	l.seq++
	axes := []census.Axis{census.AxisX, census.AxisY}
	if len(updates) > 0 {
		axes = updates[0].Axes
	}
	tr := &Transition{
		ID:       uuid.New(),
		Seq:      l.seq,
		From:     l.sel,
		To:       next,
		Axes:     axes,
		Reload:   reload,
		Updates:  updates,
		Duration: l.duration,
		Frame:    frame,
		Builder:  l.builder,
	}
	l.sel = next
	l.frame = frame
	return tr
}

func (l *Loop) apply(ctx context.Context, tr *Transition) (*Transition, error) {
	applyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if tr.Seq < l.seq {
		// A newer transition committed between commit and apply
		l.mu.Unlock()
		return tr, ErrSuperseded
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = cancel
	l.mu.Unlock()

	log := l.logger.With(
		logger.FieldTransition, tr.ID.String(),
		logger.FieldSeq, tr.Seq,
	)
	log.Debugw("Applying transition",
		logger.FieldX, tr.To.X,
		logger.FieldY, tr.To.Y,
		logger.FieldDurationMS, tr.Duration.Milliseconds(),
	)

	err := l.applier.Apply(applyCtx, tr)

	l.mu.Lock()
	superseded := l.seq != tr.Seq
	if !superseded {
		l.cancel = nil
	}
	l.mu.Unlock()

	if err != nil {
		if superseded && errors.Is(err, context.Canceled) {
			log.Debugw("Transition superseded")
			return tr, ErrSuperseded
		}
		return tr, errors.Wrapf(err, "apply transition %d", tr.Seq)
	}
	return tr, nil
}
