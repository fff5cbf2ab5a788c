package skindepth

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Supported plot output formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Legend labels of the two curves
const (
	LabelConst = "Constant conductivity"
	LabelDrude = "Drude model"
)

// PlotOptions controls figure rendering
type PlotOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	Format string
}

// DefaultPlotOptions is an 8x5 inch PNG
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Title:  "Skin depth: constant conductivity vs. Drude model",
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
		Format: FormatPNG,
	}
}

func (o PlotOptions) withDefaults() PlotOptions {
	d := DefaultPlotOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Format == "" {
		o.Format = d.Format
	}
	return o
}

// Render builds a log-log figure of both skin-depth curves against omega
func Render(curves *Curves, opts PlotOptions) (*plot.Plot, error) {
	if curves == nil || curves.Len() == 0 {
		return nil, fmt.Errorf("no curves to render")
	}
	opts = opts.withDefaults()

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "ω (rad/s)"
	p.Y.Label.Text = "δ(ω) (m)"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(grid)

	series := []struct {
		label string
		ys    []float64
	}{
		{LabelConst, curves.DeltaConst},
		{LabelDrude, curves.DeltaDrude},
	}
	for i, s := range series {
		xys := make(plotter.XYs, curves.Len())
		for j := range xys {
			xys[j].X = curves.Omega[j]
			xys[j].Y = s.ys[j]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s line: %w", s.label, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.label, line)
	}
	p.Legend.Top = true

	return p, nil
}

// WritePlot renders the curves and encodes the figure to w
func WritePlot(w io.Writer, curves *Curves, opts PlotOptions) error {
	opts = opts.withDefaults()
	if opts.Format != FormatPNG && opts.Format != FormatSVG {
		return fmt.Errorf("unsupported plot format %q", opts.Format)
	}

	p, err := Render(curves, opts)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("failed to create %s writer: %w", opts.Format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// ContentType returns the MIME type of a plot format
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}
