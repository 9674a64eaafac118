package source

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var bandColors = map[string]color.Color{
	"u": color.RGBA{B: 0xff, A: 0xff},
	"g": color.RGBA{G: 0x80, A: 0xff},
	"r": color.RGBA{R: 0xff, A: 0xff},
	"i": color.RGBA{G: 0x80, B: 0x80, A: 0xff},
	"z": color.RGBA{R: 0xff, G: 0xa5, A: 0xff},
	"Y": color.RGBA{R: 0x80, B: 0x80, A: 0xff},
}

var otherBand = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}

func bandColor(band string) color.Color {
	if c, ok := bandColors[band]; ok {
		return c
	}
	return otherBand
}

// swatch is a filled legend entry.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}

type PlotOption func(*plotConfig)

type plotConfig struct {
	format string
	width  vg.Length
	height vg.Length
}

// WithFormat selects the image format: png, svg, pdf, eps, jpg or tif.
func WithFormat(format string) PlotOption {
	return func(c *plotConfig) {
		c.format = format
	}
}

func WithSize(width, height vg.Length) PlotOption {
	return func(c *plotConfig) {
		c.width = width
		c.height = height
	}
}

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// PlotFluxCurve renders flux against MJD with error bars, one colour per
// band. Detections are drawn as triangles, other points as circles.
// It is an inspection aid and makes no attempt at publication quality.
func (s *Source) PlotFluxCurve(w io.Writer, opts ...PlotOption) error {
	cfg := plotConfig{
		format: "png",
		width:  20 * vg.Centimeter,
		height: 12 * vg.Centimeter,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := s.aligned(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("SNID: %s | CLASS: %s", s.ID, s.Class)
	p.X.Label.Text = "Time (MJD)"
	p.Y.Label.Text = "Calibrated Flux"
	p.Legend.Top = true

	for _, band := range s.bands() {
		c := bandColor(band)
		det, other := s.bandPoints(band)
		for _, group := range []struct {
			points errorPoints
			shape  draw.GlyphDrawer
		}{
			{other, draw.CircleGlyph{}},
			{det, draw.TriangleGlyph{}},
		} {
			if len(group.points.XYs) == 0 {
				continue
			}

			sc, err := plotter.NewScatter(group.points)
			if err != nil {
				return err
			}
			sc.GlyphStyle.Color = c
			sc.GlyphStyle.Shape = group.shape
			sc.GlyphStyle.Radius = vg.Points(3)

			eb, err := plotter.NewYErrorBars(group.points)
			if err != nil {
				return err
			}
			eb.LineStyle.Color = c

			p.Add(eb, sc)
		}
	}

	for _, band := range s.legendBands() {
		p.Legend.Add(band, swatch{color: bandColor(band)})
	}

	wt, err := p.WriterTo(cfg.width, cfg.height, cfg.format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// bands returns the distinct bands observed, known bands first in
// wavelength order.
func (s *Source) bands() []string {
	seen := make(map[string]bool)
	for _, b := range s.Band {
		seen[b] = true
	}

	var out []string
	for _, b := range Bands {
		if seen[b] {
			out = append(out, b)
			delete(seen, b)
		}
	}
	var rest []string
	for b := range seen {
		rest = append(rest, b)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// legendBands lists every LSST band followed by any other band observed.
func (s *Source) legendBands() []string {
	out := append([]string(nil), Bands[:]...)
	for _, b := range s.bands() {
		if _, ok := bandColors[b]; !ok {
			out = append(out, b)
		}
	}
	return out
}

// bandPoints splits the observations of a band into detections and the
// rest. Points with a non-finite time, flux or error are left out.
func (s *Source) bandPoints(band string) (det, other errorPoints) {
	for i, b := range s.Band {
		if b != band {
			continue
		}
		if !finite(s.MJD[i]) || !finite(s.FluxCal[i]) || !finite(s.FluxCalErr[i]) {
			continue
		}
		xy := plotter.XY{X: s.MJD[i], Y: s.FluxCal[i]}
		e := struct{ Low, High float64 }{s.FluxCalErr[i], s.FluxCalErr[i]}
		if s.IsDetection(i) {
			det.XYs = append(det.XYs, xy)
			det.YErrors = append(det.YErrors, e)
		} else {
			other.XYs = append(other.XYs, xy)
			other.YErrors = append(other.YErrors, e)
		}
	}
	return det, other
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
