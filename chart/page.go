package chart

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/logger"
	"github.com/teranos/censusplot/render"
	"github.com/teranos/censusplot/scatter"
	"github.com/teranos/censusplot/selection"
)

//go:embed assets/page.html.tmpl assets/page.js assets/page.css
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))

// MountID is the element the page script draws into
const MountID = "scatter"

// Page is the interactive chart: every reachable frame, precomputed, plus the script that
// applies them when a label is clicked.
type Page struct {
	Title       string
	Initial     selection.Selection
	Duration    time.Duration
	Layout      scatter.Layout
	Frames      map[string]*scatter.Frame // keyed by Selection.Key
	Source      string
	GeneratedAt time.Time
}

// BuildPage computes the frames for all nine selections
func BuildPage(b *scatter.Builder, initial selection.Selection, duration time.Duration) (*Page, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	frames := make(map[string]*scatter.Frame, 9)
	for _, sel := range selection.All() {
		f, err := b.Build(sel)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build frame %s", sel.Key())
		}
		frames[sel.Key()] = f
	}
	return &Page{
		Title:       "Health Risks by State",
		Initial:     initial,
		Duration:    duration,
		Layout:      b.Layout(),
		Frames:      frames,
		Source:      b.Dataset().Source,
		GeneratedAt: time.Now(),
	}, nil
}

type pageData struct {
	Title       string
	MountID     string
	Width       float64
	Height      float64
	DurationMS  int64
	Source      string
	GeneratedAt string
	Style       template.CSS
	Script      template.JS
	Frames      template.JS
	Initial     string
}

// Render writes the page HTML
func (p *Page) Render(w io.Writer) error {
	frames, err := json.Marshal(p.Frames)
	if err != nil {
		return errors.Wrap(err, "failed to encode frames")
	}
	script, err := assets.ReadFile("assets/page.js")
	if err != nil {
		return errors.Wrap(err, "failed to read page script")
	}
	css, err := assets.ReadFile("assets/page.css")
	if err != nil {
		return errors.Wrap(err, "failed to read page style")
	}

	data := pageData{
		Title:       p.Title,
		MountID:     MountID,
		Width:       p.Layout.Width,
		Height:      p.Layout.Height,
		DurationMS:  p.Duration.Milliseconds(),
		Source:      p.Source,
		GeneratedAt: p.GeneratedAt.UTC().Format(time.RFC3339),
		Style:       template.CSS(css),
		Script:      template.JS(script),
		Frames:      template.JS(frames), // json.Marshal escapes <, > and &
		Initial:     p.Initial.Key(),
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return errors.Wrap(err, "failed to render page")
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteFile renders the page to path, replacing the file atomically
func (p *Page) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "failed to move page into place at %s", path)
	}
	return nil
}

// PageApplier rewrites the page file for every transition, opening on the transition's
// target selection.
type PageApplier struct {
	Path   string
	logger *zap.SugaredLogger
}

// NewPageApplier creates an applier writing to path
func NewPageApplier(path string, log *zap.SugaredLogger) *PageApplier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PageApplier{Path: path, logger: log.Named("chart.page")}
}

// Apply implements render.Applier
func (a *PageApplier) Apply(ctx context.Context, t *render.Transition) error {
	if t.Builder == nil {
		return errors.AssertionFailedf("transition %d carries no builder", t.Seq)
	}
	page, err := BuildPage(t.Builder, t.To, t.Duration)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := page.WriteFile(a.Path); err != nil {
		return err
	}
	a.logger.Infow("Page written",
		logger.FieldFile, a.Path,
		logger.FieldSeq, t.Seq,
		logger.FieldX, t.To.X,
		logger.FieldY, t.To.Y,
	)
	return nil
}
