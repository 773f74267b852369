package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	cptest "github.com/teranos/censusplot/internal/testing"
	"github.com/teranos/censusplot/render"
	"github.com/teranos/censusplot/scatter"
	"github.com/teranos/censusplot/selection"
)

func createTestBuilder(t *testing.T) *scatter.Builder {
	t.Helper()
	b, err := scatter.NewBuilder(cptest.SampleDataset(t), scatter.DefaultLayout(), nil, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return b
}

func TestExport_SVG(t *testing.T) {
	b := createTestBuilder(t)
	f, err := b.Build(selection.Default)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(b.Dataset(), f, "svg", &buf))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "In Poverty (%)")
}

func TestExport_PNG(t *testing.T) {
	b := createTestBuilder(t)
	f, err := b.Build(selection.Selection{X: census.Income, Y: census.Obesity})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(b.Dataset(), f, "PNG", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestExport_UndefinedTrend(t *testing.T) {
	ds := cptest.XYDataset(t, census.Age, census.Smokes, []float64{40, 40, 40}, []float64{10, 12, 14})
	b, err := scatter.NewBuilder(ds, scatter.DefaultLayout(), nil, nil)
	require.NoError(t, err)
	f, err := b.Build(selection.Selection{X: census.Age, Y: census.Smokes})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(ds, f, "svg", &buf))
	assert.Contains(t, buf.String(), "y = undefined")
}

func TestExport_UnsupportedFormat(t *testing.T) {
	b := createTestBuilder(t)
	f, err := b.Build(selection.Default)
	require.NoError(t, err)

	err = Export(b.Dataset(), f, "gif", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.True(t, errors.IsInvalidRequestError(err))

	err = ExportFile(b.Dataset(), f, filepath.Join(t.TempDir(), "chart.gif"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestExportFile(t *testing.T) {
	b := createTestBuilder(t)
	f, err := b.Build(selection.Default)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "chart.svg")
	require.NoError(t, ExportFile(b.Dataset(), f, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestBuildPage_AllFrames(t *testing.T) {
	b := createTestBuilder(t)
	page, err := BuildPage(b, selection.Default, time.Second)
	require.NoError(t, err)
	require.Len(t, page.Frames, 9)
	for _, sel := range selection.All() {
		f, ok := page.Frames[sel.Key()]
		require.True(t, ok, sel.Key())
		assert.Equal(t, sel, f.Selection)
	}

	_, err = BuildPage(b, selection.Selection{X: census.Obesity, Y: census.Age}, time.Second)
	assert.Error(t, err)
}

func TestPage_Render(t *testing.T) {
	b := createTestBuilder(t)
	page, err := BuildPage(b, selection.Default, 750*time.Millisecond)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, `id="scatter"`)
	assert.Contains(t, html, `data-duration="750"`)
	for _, sel := range selection.All() {
		assert.Contains(t, html, `"`+sel.Key()+`":`, "frame %s embedded", sel.Key())
	}
	assert.Contains(t, html, "Clicking the active label does nothing")
	assert.Contains(t, html, ".point-label")
	assert.Contains(t, html, "g.dataset.key = String(tick.value)", "ticks are keyed by value")
	assert.Contains(t, html, `apply(FRAMES[sel.x + "/" + sel.y], [l.axis])`, "a click redraws only its axis")
	assert.Equal(t, 1, strings.Count(html, "const FRAMES ="))
}

func TestPage_InfinityCellRenders(t *testing.T) {
	csv := strings.Replace(cptest.SampleCSV, "1,Alabama,AL,19.3,", "1,Alabama,AL,inf,", 1)
	ds, err := census.Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	b, err := scatter.NewBuilder(ds, scatter.DefaultLayout(), nil, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	page, err := BuildPage(b, selection.Default, time.Second)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), `"hidden":true`)

	f, err := b.Build(selection.Default)
	require.NoError(t, err)
	require.NoError(t, Export(ds, f, "svg", &bytes.Buffer{}))
}

func TestPage_NarrativeIsEscaped(t *testing.T) {
	n, err := selection.ParseNarratives("[[narrative]]\nx = \"poverty\"\ny = \"healthcare\"\ntext = \"</script><b>bold</b>\"\n")
	require.NoError(t, err)
	b, err := scatter.NewBuilder(cptest.SampleDataset(t), scatter.DefaultLayout(), n, nil)
	require.NoError(t, err)
	page, err := BuildPage(b, selection.Default, time.Second)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.NotContains(t, buf.String(), "</script><b>")
	assert.Contains(t, buf.String(), `</script>`)
}

func TestPageApplier_WritesOnTransition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	applier := NewPageApplier(path, zaptest.NewLogger(t).Sugar())

	loop, err := render.NewLoop(createTestBuilder(t), render.DefaultLoopConfig(), applier, nil)
	require.NoError(t, err)

	_, err = loop.Render(context.Background())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `id="scatter"`)

	_, err = loop.Click(context.Background(), census.Age)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"age/healthcare":`)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestPageApplier_RequiresBuilder(t *testing.T) {
	applier := NewPageApplier(filepath.Join(t.TempDir(), "x.html"), nil)
	err := applier.Apply(context.Background(), &render.Transition{Seq: 3})
	require.Error(t, err)
	assert.True(t, errors.IsAssertionFailure(err))
}
