package charts

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"gnnreport/internal/errors"
	"gnnreport/ports"
)

const (
	// each bin group spans one x unit; bars fill this fraction of it
	histGroupWidth = 0.90
	histSeriesGap  = 0.03

	// widest label inches-per-character before tick labels rotate
	histMinLabelRatio = 0.04
)

// Histogram renders grouped bars per bin with optional error bars,
// suppressed-bin asterisks, and a legend naming each series.
func (r *Renderer) Histogram(req ports.HistogramRequest) error {
	start := time.Now()

	bins := len(req.Labels)
	if bins == 0 || len(req.Series) == 0 {
		return errors.ChartError("histogram needs bin labels and at least one series", nil)
	}
	for _, s := range req.Series {
		if len(s.Values) != bins {
			return errors.ChartError(
				fmt.Sprintf("series %s has %d values for %d bins", s.Name, len(s.Values), bins), nil)
		}
		if s.ErrorBars != nil && len(s.ErrorBars) != bins {
			return errors.ChartError(
				fmt.Sprintf("series %s has %d error bars for %d bins", s.Name, len(s.ErrorBars), bins), nil)
		}
	}

	p := plot.New()
	p.X.Min, p.X.Max = 0, float64(bins)
	p.Y.Min = 0
	p.Y.Max = 1.10 * seriesCeiling(req.Series)
	if p.Y.Max <= 0 {
		p.Y.Max = 1
	}

	ticks := make([]plot.Tick, bins)
	for i, label := range req.Labels {
		ticks[i] = plot.Tick{Value: float64(i) + 0.5, Label: label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.LineStyle.Width = 0.2
	p.Y.Tick.LineStyle.Width = 0.2
	p.X.Tick.Label.Font.Size = 5
	p.Y.Tick.Label.Font.Size = 5
	p.X.Label.Text = req.XTitle
	p.Y.Label.Text = req.YTitle
	p.X.Label.TextStyle.Font.Size = 5
	p.Y.Label.TextStyle.Font.Size = 5

	width := inches(req.WidthInches, 7.5)
	height := inches(req.HeightInches, 2.5)

	if rot := labelRotation(req.Labels, float64(width/vg.Inch)); rot > 0 {
		p.X.Tick.Label.Rotation = rot * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	count := len(req.Series)
	seriesWidth := (histGroupWidth - histSeriesGap*float64(count)) / float64(count)
	firstSpace := (1-histGroupWidth)/2 + histSeriesGap/2
	for i, s := range req.Series {
		bars := &barSeries{
			values:  s.Values,
			errs:    s.ErrorBars,
			flagged: s.FlaggedBins,
			color:   seriesColors[i%len(seriesColors)],
			offset:  firstSpace + float64(i)*(seriesWidth+histSeriesGap),
			width:   seriesWidth,
		}
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = 5
	p.Legend.Padding = 2
	p.Legend.ThumbnailWidth = 8

	if err := writePNG(p, width, height, r.resolveDPI(req.DPI), 0, req.OutputPath); err != nil {
		return errors.ChartError("failed to render histogram", err)
	}

	log.Printf("[Charts] Rendered histogram (%d bins, %d series) in %dms",
		bins, count, time.Since(start).Milliseconds())
	return nil
}

// seriesCeiling finds the tallest bar including its error bar
func seriesCeiling(series []ports.HistogramSeries) float64 {
	ceiling := 0.0
	for _, s := range series {
		for i, v := range s.Values {
			if s.ErrorBars != nil {
				v += s.ErrorBars[i]
			}
			if v > ceiling {
				ceiling = v
			}
		}
	}
	return ceiling
}

// labelRotation ramps from 30 to 90 degrees as the widest label outgrows
// the horizontal room available to one bin group
func labelRotation(labels []string, widthInches float64) float64 {
	maxLen := 0
	for _, l := range labels {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	if maxLen == 0 {
		return 0
	}
	ratio := (histGroupWidth * widthInches / float64(len(labels))) / float64(maxLen)
	if ratio >= histMinLabelRatio {
		return 0
	}
	return 30 + (60/histMinLabelRatio)*(histMinLabelRatio-ratio)
}

// barSeries draws one series of bars across all bin groups. Bars for bin i
// start at fraction offset into group i and span width of the group.
type barSeries struct {
	values  []float64
	errs    []float64
	flagged []int
	color   color.Color
	offset  float64
	width   float64
}

func (b *barSeries) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	clamp := func(v float64) vg.Length {
		return trY(math.Min(math.Max(v, plt.Y.Min), plt.Y.Max))
	}

	for i, v := range b.values {
		x0 := trX(float64(i) + b.offset)
		x1 := trX(float64(i) + b.offset + b.width)
		fillQuad(c, x0, clamp(0), x1, clamp(v), b.color)
	}

	if b.errs != nil {
		sty := draw.LineStyle{Color: colorBlack, Width: 0.7}
		capWidth := vg.Length(2)
		for i, e := range b.errs {
			if e <= 0 {
				continue
			}
			xc := trX(float64(i) + b.offset + b.width/2)
			ylo := clamp(b.values[i] - e)
			yhi := clamp(b.values[i] + e)
			c.StrokeLine2(sty, xc, ylo, xc, yhi)
			c.StrokeLine2(sty, xc-capWidth, ylo, xc+capWidth, ylo)
			c.StrokeLine2(sty, xc-capWidth, yhi, xc+capWidth, yhi)
		}
	}

	if len(b.flagged) > 0 {
		sty := textStyle(6)
		sty.XAlign = draw.XCenter
		for _, idx := range b.flagged {
			if idx < 0 || idx >= len(b.values) {
				continue
			}
			x := trX(float64(idx) + b.offset + b.width/2)
			c.FillText(sty, vg.Point{X: x, Y: c.Min.Y + 2}, "*")
		}
	}
}

// Thumbnail fills the legend swatch with the series color
func (b *barSeries) Thumbnail(c *draw.Canvas) {
	fillRect(*c, c.Min, c.Max, b.color)
}

func fillQuad(c draw.Canvas, x0, y0, x1, y1 vg.Length, fill color.Color) {
	fillRect(c, vg.Point{X: x0, Y: y0}, vg.Point{X: x1, Y: y1}, fill)
}
