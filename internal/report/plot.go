package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/coverage.report/internal/sensor"
)

// ErrNoSensors is returned when asked to render an empty sensor set.
var ErrNoSensors = errors.New("no sensors to render")

// PlotOptions controls WritePlot. Zero values select defaults.
type PlotOptions struct {
	Title  string
	Width  vg.Length // default 8in
	Height vg.Length // default 8in
	// Gap, when set, is marked on the map.
	Gap *sensor.Position
	// Format is any format plot.WriterTo accepts; default "png".
	Format string
}

// WritePlot draws every sensor's coverage diamond, the sensors, their
// beacons and optionally the located gap, and writes the image to w.
func WritePlot(w io.Writer, sensors *sensor.Set, opts PlotOptions) error {
	if sensors.Len() == 0 {
		return ErrNoSensors
	}
	if opts.Width <= 0 {
		opts.Width = 8 * vg.Inch
	}
	if opts.Height <= 0 {
		opts.Height = 8 * vg.Inch
	}
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("Sensor coverage (%d sensors)", sensors.Len())
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	locations := make(plotter.XYs, 0, sensors.Len())
	beacons := make(plotter.XYs, 0, sensors.Len())
	for i, s := range sensors.Sensors() {
		outline, err := plotter.NewLine(diamond(s))
		if err != nil {
			return fmt.Errorf("sensor %d outline: %w", i, err)
		}
		outline.Color = plotutil.Color(i)
		outline.Width = vg.Points(1)
		p.Add(outline)

		locations = append(locations, plotter.XY{X: float64(s.Location.X), Y: float64(s.Location.Y)})
		beacons = append(beacons, plotter.XY{X: float64(s.Beacon.X), Y: float64(s.Beacon.Y)})
	}

	sensorPts, err := plotter.NewScatter(locations)
	if err != nil {
		return fmt.Errorf("sensor points: %w", err)
	}
	sensorPts.GlyphStyle.Shape = draw.CircleGlyph{}
	sensorPts.GlyphStyle.Color = color.Black
	p.Add(sensorPts)
	p.Legend.Add("sensor", sensorPts)

	beaconPts, err := plotter.NewScatter(beacons)
	if err != nil {
		return fmt.Errorf("beacon points: %w", err)
	}
	beaconPts.GlyphStyle.Shape = draw.BoxGlyph{}
	beaconPts.GlyphStyle.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	p.Add(beaconPts)
	p.Legend.Add("beacon", beaconPts)

	if opts.Gap != nil {
		gapPts, err := plotter.NewScatter(plotter.XYs{{X: float64(opts.Gap.X), Y: float64(opts.Gap.Y)}})
		if err != nil {
			return fmt.Errorf("gap point: %w", err)
		}
		gapPts.GlyphStyle.Shape = draw.CrossGlyph{}
		gapPts.GlyphStyle.Radius = vg.Points(6)
		gapPts.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
		p.Add(gapPts)
		p.Legend.Add(fmt.Sprintf("gap %s", opts.Gap), gapPts)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.Format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", opts.Format, err)
	}
	return nil
}

// diamond returns the closed outline of a sensor's coverage region.
func diamond(s sensor.Sensor) plotter.XYs {
	x, y, r := float64(s.Location.X), float64(s.Location.Y), float64(s.Radius)
	return plotter.XYs{
		{X: x, Y: y - r},
		{X: x + r, Y: y},
		{X: x, Y: y + r},
		{X: x - r, Y: y},
		{X: x, Y: y - r},
	}
}
