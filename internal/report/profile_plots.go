package report

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/user/cv_profiler_go/internal/profile"
	"github.com/user/cv_profiler_go/internal/session"
)

// Direction selects which sweep of a profile a plot panel shows.
type Direction string

const (
	Forward  Direction = "Forward"
	Backward Direction = "Backward"
)

var directionColors = map[Direction]color.Color{
	Forward:  color.RGBA{R: 255, A: 255},
	Backward: color.Black,
}

const (
	panelWidth  = 7 * vg.Inch
	panelHeight = 4 * vg.Inch
)

// newProfilePanel builds one density-vs-depth panel: the measured curve on
// a log density axis, a dashed vertical marker at the expected interface
// depth, and the sheet density in the legend.
func newProfilePanel(freq string, prof *profile.Profile, dir Direction, interfaceDepthNm float64) (*plot.Plot, error) {
	depth, density, sheet := prof.DepthForward, prof.DensityForward, prof.SheetDensityForward
	if dir == Backward {
		depth, density, sheet = prof.DepthBackward, prof.DensityBackward, prof.SheetDensityBackward
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - %s", dir, freq)
	p.Title.TextStyle.Font.Size = vg.Points(10)
	p.X.Label.Text = "Zcv (nm)"
	p.Y.Label.Text = "Ncv (cm^-3)"
	p.Add(plotter.NewGrid())

	// The density axis is logarithmic, so zero-density points (degenerate
	// derivative steps resolve to 0) cannot be drawn and are left out.
	pts := make(plotter.XYs, 0, len(depth))
	for i := range depth {
		if density[i] > 0 {
			pts = append(pts, plotter.XY{X: depth[i], Y: density[i]})
		}
	}

	if len(pts) > 0 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create profile line for %s %s: %w", freq, dir, err)
		}
		line.Color = directionColors[dir]
		scatter.Color = directionColors[dir]
		scatter.Shape = draw.CircleGlyph{}
		scatter.Radius = vg.Points(1.5)
		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("%s %s, sheet density = %.2e cm^-2", freq, dir, sheet), line)

		if marker := interfaceMarker(pts, interfaceDepthNm); marker != nil {
			p.Add(marker)
			p.Legend.Add("Interface depth (Z)", marker)
		}
	}

	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(8)
	return p, nil
}

// interfaceMarker builds the dashed vertical reference line, spanning the
// plotted density range so the log axis can place it.
func interfaceMarker(pts plotter.XYs, depthNm float64) *plotter.Line {
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		ys[i] = pt.Y
	}
	marker, err := plotter.NewLine(plotter.XYs{
		{X: depthNm, Y: floats.Min(ys)},
		{X: depthNm, Y: floats.Max(ys)},
	})
	if err != nil {
		return nil
	}
	marker.Color = color.RGBA{R: 255, G: 165, A: 255}
	marker.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	return marker
}

// RenderFrequencyRow renders a single frequency as a forward/backward pair,
// used for the per-frequency pages of the PDF report.
func RenderFrequencyRow(freq string, prof *profile.Profile, interfaceDepthNm float64) ([]byte, error) {
	fwd, err := newProfilePanel(freq, prof, Forward, interfaceDepthNm)
	if err != nil {
		return nil, err
	}
	bwd, err := newProfilePanel(freq, prof, Backward, interfaceDepthNm)
	if err != nil {
		return nil, err
	}

	img := vgimg.New(2*panelWidth, panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Points(8)}

	canvases := plot.Align([][]*plot.Plot{{fwd, bwd}}, tiles, dc)
	fwd.Draw(canvases[0][0])
	bwd.Draw(canvases[0][1])

	buf := new(bytes.Buffer)
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to encode plot row for %s: %w", freq, err)
	}
	return buf.Bytes(), nil
}

// RenderProfileGrid renders the whole sample to one PNG: one row per
// frequency in result order, forward sweep in the left column, backward in
// the right.
func RenderProfileGrid(result *session.SampleResult, interfaceDepthNm float64) ([]byte, error) {
	if len(result.Frequencies) == 0 {
		return nil, fmt.Errorf("no profiles to plot")
	}

	rows := len(result.Frequencies)
	panels := make([][]*plot.Plot, rows)
	for i, freq := range result.Frequencies {
		prof := result.Profiles[freq]
		fwd, err := newProfilePanel(freq, prof, Forward, interfaceDepthNm)
		if err != nil {
			return nil, err
		}
		bwd, err := newProfilePanel(freq, prof, Backward, interfaceDepthNm)
		if err != nil {
			return nil, err
		}
		panels[i] = []*plot.Plot{fwd, bwd}
	}

	img := vgimg.New(2*panelWidth, vg.Length(rows)*panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: 2,
		PadX: vg.Points(8),
		PadY: vg.Points(8),
	}

	canvases := plot.Align(panels, tiles, dc)
	for i := range panels {
		for j := range panels[i] {
			panels[i][j].Draw(canvases[i][j])
		}
	}

	buf := new(bytes.Buffer)
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to encode plot grid: %w", err)
	}
	return buf.Bytes(), nil
}
