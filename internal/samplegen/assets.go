package samplegen

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"gnnreport/adapters/charts"
	"gnnreport/domain/accuracy"
	"gnnreport/internal/params"
	"gnnreport/ports"
)

// Illustration names the report sections expect in the image directory
const (
	logoImage              = "lemma_logo.png"
	plotDiagramImage       = "plot_diagram.png"
	localScatterImage      = "local_scatter.png"
	errorMatrixImage       = "error_matrix.png"
	regionalHistogramImage = "regional_histogram.png"
	regionMapImage         = "region_map.png"
)

// renderAssets draws the illustration set for the cover and accuracy-key
// pages. The chart-shaped examples render from the bundle's own data; the
// rest are painted placeholder motifs.
func renderAssets(p *params.Params, b *Bundle) error {
	renderer := charts.NewRenderer(0)
	attr := b.Attrs[0]

	obs := b.Observed[attr.FieldName]
	prd := b.Predicted[attr.FieldName]
	if err := renderer.Scatter(ports.ScatterRequest{
		Observed:   obs,
		Predicted:  prd,
		Name:       attr.FieldName,
		Units:      attr.Units,
		OutputPath: filepath.Join(p.Files.ImageDir, localScatterImage),
		KDE:        true,
		Stats: ports.ScatterStats{
			Correlation:    accuracy.PearsonR(obs, prd),
			NormalizedRMSE: accuracy.NormalizedRMSE(obs, prd),
			RSquare:        accuracy.RSquare(obs, prd),
		},
	}); err != nil {
		return err
	}

	for _, res := range p.HexResolutions {
		level, ok := b.Hexes[res]
		if !ok {
			return fmt.Errorf("no hexagon level generated for resolution %d", res)
		}
		hexObs := level.Observed[attr.FieldName]
		hexPrd := level.Predicted[attr.FieldName]
		hexagons := len(level.IDs)
		avgPlots := mean(intsToFloats(level.PlotCounts))

		if err := renderer.Scatter(ports.ScatterRequest{
			Observed:   hexObs,
			Predicted:  hexPrd,
			Name:       attr.FieldName,
			Units:      attr.Units,
			OutputPath: filepath.Join(p.Files.ImageDir, fmt.Sprintf("hex_%d_scatter.png", res)),
			Stats: ports.ScatterStats{
				Correlation:    accuracy.PearsonR(hexObs, hexPrd),
				NormalizedRMSE: accuracy.NormalizedRMSE(hexObs, hexPrd),
				RSquare:        accuracy.RSquare(hexObs, hexPrd),
				HexagonCount:   &hexagons,
				AvgPlotCount:   &avgPlots,
			},
		}); err != nil {
			return err
		}
	}

	area := b.Areas[0]
	if err := renderer.Histogram(ports.HistogramRequest{
		Labels: area.Labels,
		Series: []ports.HistogramSeries{
			{Name: "Plots", Values: area.Observed},
			{Name: "GNN", Values: area.Predicted},
			{
				Name:        "Error-Adjusted",
				Values:      append([]float64{0, 0}, area.Adjusted...),
				ErrorBars:   append([]float64{0, 0}, area.CI...),
				FlaggedBins: []int{0, 1},
			},
		},
		XTitle:     fmt.Sprintf("%s (%s)", area.Variable, attr.Units),
		YTitle:     "Area (ha)",
		OutputPath: filepath.Join(p.Files.ImageDir, regionalHistogramImage),
	}); err != nil {
		return err
	}

	placeholders := []struct {
		name  string
		w, h  int
		paint func(*image.RGBA)
	}{
		{logoImage, 300, 294, paintLogo},
		{plotDiagramImage, 300, 294, paintPlotGrid},
		{errorMatrixImage, 616, 480, paintMatrixGrid},
		{regionMapImage, 300, 386, paintRegionMap},
	}
	for _, ph := range placeholders {
		path := filepath.Join(p.Files.ImageDir, ph.name)
		if err := writePlaceholder(path, ph.w, ph.h, ph.paint); err != nil {
			return err
		}
	}
	return nil
}

var (
	placeholderCream = color.RGBA{R: 0xF8, G: 0xF7, B: 0xED, A: 0xFF}
	placeholderBrown = color.RGBA{R: 0x8A, G: 0x6E, B: 0x4B, A: 0xFF}
	placeholderGreen = color.RGBA{R: 0x4C, G: 0x6B, B: 0x43, A: 0xFF}
	placeholderGray  = color.RGBA{R: 0xC9, G: 0xC9, B: 0xC2, A: 0xFF}
)

// writePlaceholder paints one motif on a cream canvas with a thin border
// and encodes it as PNG
func writePlaceholder(path string, w, h int, paint func(*image.RGBA)) error {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), placeholderCream)
	paint(img)

	fillRect(img, image.Rect(0, 0, w, 2), placeholderBrown)
	fillRect(img, image.Rect(0, h-2, w, h), placeholderBrown)
	fillRect(img, image.Rect(0, 0, 2, h), placeholderBrown)
	fillRect(img, image.Rect(w-2, 0, w, h), placeholderBrown)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// paintLogo draws a stylized conifer
func paintLogo(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for tier := 0; tier < 3; tier++ {
		top := h/6 + tier*h/5
		half := (tier + 1) * w / 8
		fillRect(img, image.Rect(w/2-half, top, w/2+half, top+h/6), placeholderGreen)
	}
	fillRect(img, image.Rect(w/2-w/24, 2*h/3, w/2+w/24, 9*h/10), placeholderBrown)
}

// paintPlotGrid draws the nine-pixel plot footprint with the center pixel
// shaded
func paintPlotGrid(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	margin := w / 10
	grid := image.Rect(margin, margin, w-margin, h-margin)
	cellW := grid.Dx() / 3
	cellH := grid.Dy() / 3

	fillRect(img, image.Rect(
		grid.Min.X+cellW, grid.Min.Y+cellH,
		grid.Min.X+2*cellW, grid.Min.Y+2*cellH), placeholderGray)
	for i := 0; i <= 3; i++ {
		x := grid.Min.X + i*cellW
		fillRect(img, image.Rect(x, grid.Min.Y, x+2, grid.Max.Y), placeholderBrown)
		y := grid.Min.Y + i*cellH
		fillRect(img, image.Rect(grid.Min.X, y, grid.Max.X, y+2), placeholderBrown)
	}
}

// paintMatrixGrid shades a small confusion-matrix pattern, diagonal cells
// dark and the one-off cells light
func paintMatrixGrid(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	const n = 8
	margin := w / 12
	grid := image.Rect(margin, margin, w-margin, h-margin)
	cellW := grid.Dx() / n
	cellH := grid.Dy() / n

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cell := image.Rect(
				grid.Min.X+j*cellW+1, grid.Min.Y+i*cellH+1,
				grid.Min.X+(j+1)*cellW-1, grid.Min.Y+(i+1)*cellH-1)
			switch d := i - j; {
			case d == 0:
				fillRect(img, cell, placeholderBrown)
			case d == 1 || d == -1:
				fillRect(img, cell, placeholderGray)
			}
		}
	}
}

// paintRegionMap sketches a shaded study region inside its state outline
func paintRegionMap(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	fillRect(img, image.Rect(w/6, h/8, 5*w/6, 7*h/8), placeholderGray)
	fillRect(img, image.Rect(w/4, h/5, 3*w/4, 3*h/5), placeholderGreen)
}

func intsToFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
