package scatter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/internal/util"
	"github.com/teranos/censusplot/logger"
	"github.com/teranos/censusplot/regression"
	"github.com/teranos/censusplot/scale"
	"github.com/teranos/censusplot/selection"
)

// Builder computes frames from a dataset. It holds no selection state: every frame is a pure
// function of the dataset, the layout and the selection it is asked for.
type Builder struct {
	ds         *census.Dataset
	layout     Layout
	narratives selection.Narratives
	logger     *zap.SugaredLogger
}

// NewBuilder creates a frame builder.
// A nil narratives table uses the built-in one; a nil logger discards output.
func NewBuilder(ds *census.Dataset, layout Layout, narratives selection.Narratives, logger *zap.SugaredLogger) (*Builder, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "dataset is empty")
	}
	if err := layout.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid layout")
	}
	if narratives == nil {
		narratives = selection.DefaultNarratives()
	}
	if err := narratives.Complete(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Builder{
		ds:         ds,
		layout:     layout,
		narratives: narratives,
		logger:     logger.Named("scatter.builder"),
	}, nil
}

// Dataset returns the dataset frames are built from
func (b *Builder) Dataset() *census.Dataset {
	return b.ds
}

// Layout returns the chart geometry
func (b *Builder) Layout() Layout {
	return b.layout
}

// Build computes the frame for sel from scratch, running every step for both axes
func (b *Builder) Build(sel selection.Selection) (*Frame, error) {
	f, _, err := b.Transition(nil, sel)
	return f, err
}

// Transition runs the pipeline from prev to sel and returns the next frame with one Update
// per step, in step order. Scales are rebuilt only for the axes whose field changed; a nil
// prev rebuilds both. When nothing changed, prev is returned with no updates.
func (b *Builder) Transition(prev *Frame, sel selection.Selection) (*Frame, []Update, error) {
	if err := sel.Validate(); err != nil {
		return nil, nil, err
	}

	axes := changedAxes(prev, sel)
	if len(axes) == 0 {
		return prev, nil, nil
	}

	p := &pipeline{
		b:    b,
		prev: prev,
		sel:  sel,
		axes: axes,
		next: &Frame{
			Layout: b.layout,
			Style:  b.layout.style(),
			Meta: Meta{
				Config: map[string]string{
					"source": b.ds.Source,
					"x":      string(sel.X),
					"y":      string(sel.Y),
				},
			},
		},
	}
	for _, s := range Steps {
		detail, err := p.run(s)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "step %s", s)
		}
		p.updates = append(p.updates, Update{
			Step:     s,
			Axes:     axes,
			Animated: s.Animated(),
			Detail:   detail,
		})
		b.logger.Debugw("Step complete",
			logger.FieldStep, s.String(),
			logger.FieldX, sel.X,
			logger.FieldY, sel.Y,
			"detail", detail,
		)
	}
	return p.next, p.updates, nil
}

func changedAxes(prev *Frame, sel selection.Selection) []census.Axis {
	if prev == nil {
		return []census.Axis{census.AxisX, census.AxisY}
	}
	var axes []census.Axis
	if prev.Selection.X != sel.X {
		axes = append(axes, census.AxisX)
	}
	if prev.Selection.Y != sel.Y {
		axes = append(axes, census.AxisY)
	}
	return axes
}

// pipeline carries one run of the steps. Later steps read fields of next written by earlier ones.
type pipeline struct {
	b       *Builder
	prev    *Frame
	next    *Frame
	sel     selection.Selection
	axes    []census.Axis
	updates []Update
}

func (p *pipeline) rebuilds(a census.Axis) bool {
	for _, x := range p.axes {
		if x == a {
			return true
		}
	}
	return false
}

func (p *pipeline) axisFrame(a census.Axis) *AxisFrame {
	if a == census.AxisX {
		return &p.next.XAxis
	}
	return &p.next.YAxis
}

func (p *pipeline) prevAxisFrame(a census.Axis) AxisFrame {
	if a == census.AxisX {
		return p.prev.XAxis
	}
	return p.prev.YAxis
}

func (p *pipeline) run(s Step) (string, error) {
	switch s {
	case StepSelect:
		return p.selectFields(), nil
	case StepScale:
		return p.scales()
	case StepAxis:
		return p.ticks(), nil
	case StepPoints:
		return p.points(), nil
	case StepPointLabels:
		return p.pointLabels(), nil
	case StepTrend:
		return p.trend()
	case StepNarrative:
		p.next.Narrative = p.b.narratives.Lookup(p.sel)
		return p.sel.Key(), nil
	case StepLabelStyle:
		return p.labelStyle()
	case StepTooltip:
		return p.tooltips(), nil
	default:
		return "", errors.AssertionFailedf("unknown step %d", int(s))
	}
}

func (p *pipeline) selectFields() string {
	p.next.Selection = p.sel
	parts := make([]string, 0, len(p.axes))
	for _, a := range p.axes {
		if p.prev == nil {
			parts = append(parts, fmt.Sprintf("%s=%s", a, p.sel.Field(a)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s -> %s", a, p.prev.Selection.Field(a), p.sel.Field(a)))
	}
	return strings.Join(parts, ", ")
}

func (p *pipeline) scales() (string, error) {
	var parts []string
	for _, a := range []census.Axis{census.AxisX, census.AxisY} {
		af := p.axisFrame(a)
		if !p.rebuilds(a) {
			*af = p.prevAxisFrame(a)
			continue
		}
		f := p.sel.Field(a)
		s, err := scale.ForAxis(p.b.ds, f, a, p.b.layout.extent(a), p.b.layout.Padding)
		if err != nil {
			return "", err
		}
		*af = AxisFrame{Field: f, Label: f.Label(), Scale: s}
		parts = append(parts, fmt.Sprintf("%s domain [%g, %g]", a, s.Domain[0], s.Domain[1]))
	}
	return strings.Join(parts, ", "), nil
}

func (p *pipeline) ticks() string {
	var parts []string
	for _, a := range p.axes {
		af := p.axisFrame(a)
		af.Ticks = af.Scale.Ticks(p.b.layout.TickCount)
		parts = append(parts, fmt.Sprintf("%s %d ticks", a, len(af.Ticks)))
	}
	return strings.Join(parts, ", ")
}

func (p *pipeline) points() string {
	xs, ys := p.next.XAxis.Scale, p.next.YAxis.Scale
	pts := make([]Point, len(p.b.ds.Records))
	plotted := 0
	for i, r := range p.b.ds.Records {
		x, y := r.Value(p.sel.X), r.Value(p.sel.Y)
		pt := Point{Index: i, Abbr: r.Abbr, State: r.State}
		if util.IsFinite(x) && util.IsFinite(y) {
			pt.CX, pt.CY = xs.Map(x), ys.Map(y)
			plotted++
		} else {
			pt.Hidden = true
		}
		pts[i] = pt
	}
	p.next.Points = pts
	p.next.Meta.Stats.Rows = len(pts)
	p.next.Meta.Stats.Plotted = plotted
	return fmt.Sprintf("%d of %d plotted", plotted, len(pts))
}

func (p *pipeline) pointLabels() string {
	labels := make([]PointLabel, len(p.next.Points))
	for i, pt := range p.next.Points {
		labels[i] = PointLabel{Index: pt.Index, Text: pt.Abbr, X: pt.CX, Y: pt.CY, Hidden: pt.Hidden}
	}
	p.next.Labels = labels
	return fmt.Sprintf("%d labels", len(labels))
}

func (p *pipeline) trend() (string, error) {
	res, err := regression.FitFields(p.b.ds, p.sel.X, p.sel.Y)
	p.next.Meta.Stats.Skipped = res.Skipped
	if err != nil {
		if !errors.IsAny(err, regression.ErrZeroVariance, regression.ErrEmptyInput) {
			return "", err
		}
		p.b.logger.Warnw("Trend line undefined",
			logger.FieldX, p.sel.X,
			logger.FieldY, p.sel.Y,
			logger.FieldError, err,
		)
		p.next.Trend = Trend{
			Fit:        res,
			Correction: regression.NewCorrection(1, 1, 1, 1),
			YScale:     p.next.YAxis.Scale,
			Equation:   res.EquationText(),
			R2:         res.R2Text(),
		}
		return res.EquationText(), nil
	}

	dataLo, dataHi, _ := p.b.ds.Extent(p.sel.Y)
	lineLo, lineHi, _ := res.YExtent()
	corr := regression.NewCorrection(dataLo, dataHi, lineLo, lineHi)
	lo, hi := corr.Apply(lineLo, lineHi)
	pad := p.b.layout.Padding
	ys := scale.Linear{
		Domain: [2]float64{hi * pad.High, lo * pad.Low},
		Range:  [2]float64{0, p.b.layout.ChartHeight()},
	}

	xs := p.next.XAxis.Scale
	path := make([]Pixel, len(res.Points))
	for i, pt := range res.Points {
		path[i] = Pixel{X: xs.Map(pt.X), Y: ys.Map(pt.Y)}
	}

	p.next.Trend = Trend{
		Fit:        res,
		Correction: corr,
		YScale:     ys,
		Path:       path,
		Equation:   res.EquationText(),
		R2:         res.R2Text(),
	}
	p.b.logger.Debugw("Trend fitted",
		logger.FieldSlope, res.Slope,
		logger.FieldIntercept, res.Intercept,
		logger.FieldR2, res.R2,
		logger.FieldSkipped, res.Skipped,
	)
	return res.EquationText() + ", " + res.R2Text(), nil
}

func (p *pipeline) labelStyle() (string, error) {
	labels := p.sel.Labels()
	if err := selection.CheckLabels(labels); err != nil {
		return "", errors.WithAssertionFailure(err)
	}
	p.next.AxisLabel = labels
	var active []string
	for _, l := range labels {
		if l.Active {
			active = append(active, string(l.Field))
		}
	}
	return "active " + strings.Join(active, ", "), nil
}

func (p *pipeline) tooltips() string {
	tips := make([]selection.Tooltip, len(p.b.ds.Records))
	for i, r := range p.b.ds.Records {
		tips[i] = p.sel.Tooltip(r)
	}
	p.next.Tooltips = tips
	return p.sel.TooltipTitle()
}

// WithDataset returns a builder with the same layout and narratives over a new dataset
func (b *Builder) WithDataset(ds *census.Dataset) (*Builder, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "dataset is empty")
	}
	nb := *b
	nb.ds = ds
	return &nb, nil
}
