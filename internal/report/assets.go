package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"gnnreport/internal/params"
)

// ReleaseVersion is stamped on the report cover
const ReleaseVersion = "2023.1"

const acresPerHectare = 2.471

// Packaged illustrations expected in the run's image directory.
const (
	logoImage              = "lemma_logo.png"
	plotDiagramImage       = "plot_diagram.png"
	localScatterImage      = "local_scatter.png"
	errorMatrixImage       = "error_matrix.png"
	regionalHistogramImage = "regional_histogram.png"
)

// hexAreaCaptions label the tessellation scales by mean hexagon area
var hexAreaCaptions = map[int]string{
	10: "8,660 ha hexagons",
	30: "78,100 ha hexagons",
	50: "216,5000 ha hexagons",
}

func hexCaption(resolution int) string {
	if caption, ok := hexAreaCaptions[resolution]; ok {
		return caption
	}
	return fmt.Sprintf("%d-km hexagons", resolution)
}

func hexScatterImage(resolution int) string {
	return fmt.Sprintf("hex_%d_scatter.png", resolution)
}

// asset resolves a packaged illustration inside the image directory
func asset(p params.Params, name string) string {
	return filepath.Join(p.Files.ImageDir, name)
}

// figureDir is where generated figures land, beside the output report
func figureDir(p params.Params) string {
	return filepath.Dir(p.ReportFile)
}

func localScatterPath(p params.Params, field string) string {
	return filepath.Join(figureDir(p), strings.ToLower(field)+".png")
}

func regionalHistogramPath(p params.Params, field string) string {
	return filepath.Join(figureDir(p), strings.ToLower(field)+"_area.png")
}

func riemannScatterPath(p params.Params, resolution int, field string) string {
	name := fmt.Sprintf("hex_%d_%s.png", resolution, strings.ToLower(field))
	return filepath.Join(figureDir(p), name)
}

func legacyScatterPath(p params.Params, field string) string {
	return filepath.Join(figureDir(p), strings.ToLower(field)+"_scatter.png")
}

func legacyHistogramPath(p params.Params, field string) string {
	return filepath.Join(figureDir(p), strings.ToLower(field)+"_histogram.png")
}

// riemannObservedFile locates the per-hexagon observed means for a resolution
func riemannObservedFile(dir string, resolution int) string {
	return filepath.Join(dir,
		fmt.Sprintf("hex_%d", resolution),
		fmt.Sprintf("hex_%d_observed_mean.csv", resolution))
}

// riemannPredictedFile locates the per-hexagon predicted means for a
// resolution and neighbor count
func riemannPredictedFile(dir string, resolution, k int) string {
	return filepath.Join(dir,
		fmt.Sprintf("hex_%d", resolution),
		fmt.Sprintf("hex_%d_predicted_k%d_mean.csv", resolution, k))
}

// hexIDField is the join column of the paired hexagon mean files
func hexIDField(resolution int) string {
	return fmt.Sprintf("HEX_%d_ID", resolution)
}
