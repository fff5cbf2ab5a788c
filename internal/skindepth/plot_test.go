package skindepth

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

func TestRender_LogLogAxes(t *testing.T) {
	curves := evaluateDefault(t)

	p, err := Render(curves, PlotOptions{})
	require.NoError(t, err)

	assert.IsType(t, plot.LogScale{}, p.X.Scale)
	assert.IsType(t, plot.LogScale{}, p.Y.Scale)
	assert.Equal(t, "ω (rad/s)", p.X.Label.Text)
	assert.Equal(t, "δ(ω) (m)", p.Y.Label.Text)
	assert.Equal(t, DefaultPlotOptions().Title, p.Title.Text)
}

func TestRender_NoCurves(t *testing.T) {
	_, err := Render(nil, PlotOptions{})
	assert.Error(t, err)

	_, err = Render(&Curves{}, PlotOptions{})
	assert.Error(t, err)
}

func TestWritePlot_PNG(t *testing.T) {
	curves := evaluateDefault(t)

	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, curves, PlotOptions{Format: FormatPNG}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "output should be a PNG")
}

func TestWritePlot_SVGHasLegend(t *testing.T) {
	curves := evaluateDefault(t)

	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, curves, PlotOptions{Format: FormatSVG, Title: "Copper"}))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, LabelConst)
	assert.Contains(t, out, LabelDrude)
	assert.Contains(t, out, "Copper")
}

func TestWritePlot_UnsupportedFormat(t *testing.T) {
	curves := evaluateDefault(t)

	err := WritePlot(&bytes.Buffer{}, curves, PlotOptions{Format: "gif"})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(FormatPNG))
	assert.Equal(t, "image/svg+xml", ContentType(FormatSVG))
}
