// Package chart draws frames: a static SVG/PNG export and the interactive HTML page.
package chart

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/internal/util"
	"github.com/teranos/censusplot/scatter"
)

// ErrUnsupportedFormat is returned for export formats other than svg and png
var ErrUnsupportedFormat = errors.Wrap(errors.ErrInvalidRequest, "unsupported export format")

var (
	pointColor = color.RGBA{R: 173, G: 216, B: 230, A: 255} // lightblue
	trendColor = color.RGBA{R: 214, G: 93, B: 14, A: 230}
)

// Formats lists the supported static export formats
var Formats = []string{"svg", "png"}

// Plot builds a gonum plot of the frame in data coordinates.
// Axis ranges come from the frame's scales so the export matches the page.
func Plot(ds *census.Dataset, f *scatter.Frame) (*plot.Plot, error) {
	if ds == nil || f == nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "dataset and frame are required")
	}
	sel := f.Selection

	p := plot.New()
	p.Title.Text = sel.TooltipTitle()
	p.X.Label.Text = sel.X.Label()
	p.Y.Label.Text = sel.Y.Label()
	p.X.Min, p.X.Max = f.XAxis.Scale.Min(), f.XAxis.Scale.Max()
	p.Y.Min, p.Y.Max = f.YAxis.Scale.Min(), f.YAxis.Scale.Max()
	p.Add(plotter.NewGrid())

	var xys plotter.XYs
	var abbrs []string
	for _, r := range ds.Records {
		x, y := r.Value(sel.X), r.Value(sel.Y)
		if !util.IsFinite(x) || !util.IsFinite(y) {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
		abbrs = append(abbrs, r.Abbr)
	}
	if len(xys) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "no plottable points for %s", sel.Key())
	}

	points, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build scatter")
	}
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Color = pointColor
	points.GlyphStyle.Radius = vg.Points(f.Style.Radius / 2)
	p.Add(points)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: abbrs})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build labels")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(f.Style.FontSize * 0.75)
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	if f.Trend.Fit.Defined && len(f.Trend.Fit.Points) > 1 {
		line := make(plotter.XYs, len(f.Trend.Fit.Points))
		for i, pt := range f.Trend.Fit.Points {
			line[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		l, err := plotter.NewLine(line)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build trend line")
		}
		l.Color = trendColor
		l.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add(f.Trend.Equation+"   "+f.Trend.R2, l)
	} else {
		p.Legend.Add(f.Trend.Equation)
	}
	p.Legend.Top = true

	return p, nil
}

// Export writes the frame as svg or png
func Export(ds *census.Dataset, f *scatter.Frame, format string, w io.Writer) error {
	format = strings.ToLower(format)
	if !supported(format) {
		return errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%q", format),
			"use svg or png",
		)
	}
	p, err := Plot(ds, f)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Points(f.Layout.Width), vg.Points(f.Layout.Height), format)
	if err != nil {
		return errors.Wrapf(err, "failed to render %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrapf(err, "failed to write %s", format)
	}
	return nil
}

// ExportFile writes the frame to path, taking the format from the extension
func ExportFile(ds *census.Dataset, f *scatter.Frame, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if !supported(strings.ToLower(format)) {
		return errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%s", path),
			"output path must end in .svg or .png",
		)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := Export(ds, f, format, out); err != nil {
		out.Close()
		return err
	}
	return errors.Wrapf(out.Close(), "failed to close %s", path)
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
