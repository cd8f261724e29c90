package samplegen

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"gnnreport/domain/matrix"
	"gnnreport/internal/params"
)

// Write lays the bundle out under dir: plot tables, accuracy files, metadata
// dictionaries, hexagon means, illustration images and the run-parameter
// file pointing at all of them.
func Write(dir string, b *Bundle) error {
	p := runParams(dir, b.Config)

	if err := os.MkdirAll(p.Files.ImageDir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	for _, res := range p.HexResolutions {
		hexDir := filepath.Join(p.Files.RiemannDir, fmt.Sprintf("hex_%d", res))
		if err := os.MkdirAll(hexDir, 0o755); err != nil {
			return fmt.Errorf("failed to create riemann directory: %w", err)
		}
	}

	if err := writePlotTable(p.Files.ObservedFile, b, b.Observed, b.VegObserved); err != nil {
		return err
	}
	if err := writePlotTable(p.Files.PredictedFile, b, b.Predicted, b.VegPredicted); err != nil {
		return err
	}
	if err := writeStandMetadata(p.Files.StandMetadataFile, b); err != nil {
		return err
	}
	mapPath := filepath.Join(p.Files.ImageDir, regionMapImage)
	if err := writeReportMetadata(p.Files.ReportMetadataFile, b, mapPath); err != nil {
		return err
	}
	if err := writeErrorMatrix(p.Files.ErrorMatrixFile, b); err != nil {
		return err
	}
	if err := writeBins(p.Files.BinFile, b); err != nil {
		return err
	}
	if err := writeAreas(p.Files.AreaEstimateFile, b); err != nil {
		return err
	}
	if err := writeOlofsson(p.Files.OlofssonFile, b); err != nil {
		return err
	}
	if err := writeSpecies(p.Files.SpeciesAccuracyFile, b); err != nil {
		return err
	}
	if err := writeVegclassMatrix(p.Files.VegclassMatrixFile, b); err != nil {
		return err
	}
	if err := writeRiemann(p, b); err != nil {
		return err
	}
	if err := renderAssets(p, b); err != nil {
		return err
	}
	return writeParams(ParamsFile(dir), p)
}

// ParamsFile is where Write leaves the run-parameter file
func ParamsFile(dir string) string {
	return filepath.Join(dir, "params.yaml")
}

// runParams lays the bundle's files out under dir and returns the matching
// run description
func runParams(dir string, cfg Config) *params.Params {
	return &params.Params{
		ModelRegion: cfg.ModelRegion,
		ModelYear:   cfg.ModelYear,
		ModelType:   cfg.ModelType,
		K:           cfg.K,
		PlotIDField: "FCID",
		ReportFile:  filepath.Join(dir, fmt.Sprintf("mr%d_report.pdf", cfg.ModelRegion)),
		Files: params.Files{
			ObservedFile:        filepath.Join(dir, "observed.csv"),
			PredictedFile:       filepath.Join(dir, "predicted."+cfg.PredictedFormat),
			StandMetadataFile:   filepath.Join(dir, "stand_metadata.xml"),
			ReportMetadataFile:  filepath.Join(dir, "report_metadata.xml"),
			ErrorMatrixFile:     filepath.Join(dir, "error_matrix.csv"),
			BinFile:             filepath.Join(dir, "error_matrix_bins.csv"),
			AreaEstimateFile:    filepath.Join(dir, "area_estimates.csv"),
			OlofssonFile:        filepath.Join(dir, "olofsson_estimates.csv"),
			SpeciesAccuracyFile: filepath.Join(dir, "species_accuracy.csv"),
			VegclassMatrixFile:  filepath.Join(dir, "vegclass_errmatrix.csv"),
			RiemannDir:          filepath.Join(dir, "riemann"),
			ImageDir:            filepath.Join(dir, "images"),
		},
		HexResolutions: append([]int{}, params.DefaultHexResolutions...),
		Sections:       append([]string{}, params.DefaultSections...),
	}
}

func writePlotTable(path string, b *Bundle, series map[string][]float64, veg []int) error {
	headers := make([]string, 0, len(b.Attrs)+2)
	headers = append(headers, "FCID")
	for _, attr := range b.Attrs {
		headers = append(headers, attr.FieldName)
	}
	headers = append(headers, "VEGCLASS")

	rows := make([][]string, len(b.PlotIDs))
	for i, id := range b.PlotIDs {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(id))
		for _, attr := range b.Attrs {
			row = append(row, fToStr(series[attr.FieldName][i], attr.Decimals))
		}
		row = append(row, strconv.Itoa(veg[i]))
		rows[i] = row
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeXLSX(path, headers, rows)
	}
	return writeCSV(path, headers, rows)
}

func writeErrorMatrix(path string, b *Bundle) error {
	headers := []string{"VARIABLE", "OBSERVED_CLASS", "PREDICTED_CLASS", "COUNT"}
	var rows [][]string
	appendMatrix := func(variable string, m *matrix.ErrorMatrix) {
		for i := range m.Cells {
			for j := range m.Cells[i] {
				rows = append(rows, []string{
					variable,
					strconv.Itoa(i + 1),
					strconv.Itoa(j + 1),
					strconv.Itoa(int(m.Cells[i][j])),
				})
			}
		}
	}

	for _, attr := range b.Attrs {
		bins := b.Bins[attr.FieldName]
		m, err := matrix.Crosstab(
			matrix.AssignAll(bins, b.Observed[attr.FieldName]),
			matrix.AssignAll(bins, b.Predicted[attr.FieldName]),
			len(bins))
		if err != nil {
			return err
		}
		appendMatrix(attr.FieldName, m)
	}

	m, err := matrix.Crosstab(zeroBased(b.VegObserved), zeroBased(b.VegPredicted), len(vegclassCodes))
	if err != nil {
		return err
	}
	appendMatrix("VEGCLASS", m)
	return writeCSV(path, headers, rows)
}

func writeBins(path string, b *Bundle) error {
	headers := []string{"VARIABLE", "CLASS", "LOW", "HIGH"}
	var rows [][]string
	for _, attr := range b.Attrs {
		for i, bin := range b.Bins[attr.FieldName] {
			rows = append(rows, []string{
				attr.FieldName,
				strconv.Itoa(i + 1),
				fToStr(bin.Low, attr.Decimals),
				fToStr(bin.High, attr.Decimals),
			})
		}
	}
	return writeCSV(path, headers, rows)
}

func writeAreas(path string, b *Bundle) error {
	headers := []string{"VARIABLE", "DATASET", "BIN_NAME", "AREA"}
	var rows [][]string
	for _, est := range b.Areas {
		for i, label := range est.Labels {
			rows = append(rows, []string{est.Variable, "OBSERVED", label, fToStr(est.Observed[i], 1)})
		}
		for i, label := range est.Labels {
			rows = append(rows, []string{est.Variable, "PREDICTED", label, fToStr(est.Predicted[i], 1)})
		}
	}
	return writeCSV(path, headers, rows)
}

func writeOlofsson(path string, b *Bundle) error {
	headers := []string{"VARIABLE", "CLASS", "ADJUSTED", "CI_ADJUSTED"}
	var rows [][]string
	for _, est := range b.Areas {
		// Class bins only: the nonforest and unsampled labels carry no
		// error-adjusted estimate
		for i, adjusted := range est.Adjusted {
			rows = append(rows, []string{
				est.Variable,
				est.Labels[i+2],
				fToStr(adjusted, 1),
				fToStr(est.CI[i], 1),
			})
		}
	}
	return writeCSV(path, headers, rows)
}

func writeSpecies(path string, b *Bundle) error {
	headers := []string{"SPECIES", "PREVALENCE", "KAPPA", "OP_PP", "OP_PA", "OA_PP", "OA_PA"}
	rows := make([][]string, len(b.Species))
	for i, s := range b.Species {
		rows[i] = []string{
			s.Field,
			fToStr(s.Prevalence, 4),
			fToStr(s.Kappa, 4),
			strconv.Itoa(s.OpPP),
			strconv.Itoa(s.OpPA),
			strconv.Itoa(s.OaPP),
			strconv.Itoa(s.OaPA),
		}
	}
	return writeCSV(path, headers, rows)
}

// writeVegclassMatrix tabulates the vegetation-class matrix the way the
// landscape page expects it: one row per observed class, then total,
// percent correct and percent fuzzy correct rows, with the summary cells
// blank where the margins do not intersect.
func writeVegclassMatrix(path string, b *Bundle) error {
	n := len(vegclassCodes)
	m, err := matrix.Crosstab(zeroBased(b.VegObserved), zeroBased(b.VegPredicted), n)
	if err != nil {
		return err
	}
	sets := vegclassFuzzySets()
	count := func(v float64) string { return strconv.Itoa(int(v)) }

	headers := make([]string, 0, n+4)
	headers = append(headers, "OBSERVED")
	for _, c := range vegclassCodes {
		headers = append(headers, c.Label)
	}
	headers = append(headers, "TOTAL", "PCT_CORRECT", "PCT_FCORRECT")

	rows := make([][]string, 0, n+3)
	for i := 0; i < n; i++ {
		row := make([]string, 0, n+4)
		row = append(row, vegclassCodes[i].Label)
		for j := 0; j < n; j++ {
			row = append(row, count(m.Cells[i][j]))
		}
		row = append(row,
			count(m.RowTotals[i]),
			fToStr(m.RowPercentCorrect(i), 1),
			fToStr(m.RowPercentFuzzy(i, sets), 1))
		rows = append(rows, row)
	}

	totals := []string{"Total"}
	for j := 0; j < n; j++ {
		totals = append(totals, count(m.ColTotals[j]))
	}
	rows = append(rows, append(totals, count(m.Grand), "", ""))

	correct := []string{"% Correct"}
	for j := 0; j < n; j++ {
		correct = append(correct, fToStr(m.ColPercentCorrect(j), 1))
	}
	rows = append(rows, append(correct, "", fToStr(m.OverallPercentCorrect(), 1), ""))

	fuzzy := []string{"% FCorrect"}
	for j := 0; j < n; j++ {
		fuzzy = append(fuzzy, fToStr(m.ColPercentFuzzy(j, sets), 1))
	}
	rows = append(rows, append(fuzzy, "", "", fToStr(m.OverallPercentFuzzy(sets), 1)))

	return writeCSV(path, headers, rows)
}

// vegclassFuzzySets converts the 1-based class adjacency to the 0-based
// acceptance sets the matrix margins use
func vegclassFuzzySets() matrix.FuzzySets {
	sets := make(matrix.FuzzySets, len(vegclassCodes))
	for class, neighbors := range vegclassNeighbors {
		members := make([]int, 0, len(neighbors))
		for _, f := range neighbors {
			members = append(members, f-1)
		}
		sets[class-1] = members
	}
	return matrix.NormalizeFuzzySets(len(vegclassCodes), sets)
}

func writeRiemann(p *params.Params, b *Bundle) error {
	for _, res := range p.HexResolutions {
		level, ok := b.Hexes[res]
		if !ok {
			return fmt.Errorf("no hexagon level generated for resolution %d", res)
		}

		idField := fmt.Sprintf("HEX_%d_ID", res)
		obsHeaders := []string{idField, "PLOT_COUNT"}
		prdHeaders := []string{idField}
		for _, attr := range b.Attrs {
			obsHeaders = append(obsHeaders, attr.FieldName)
			prdHeaders = append(prdHeaders, attr.FieldName)
		}

		obsRows := make([][]string, len(level.IDs))
		prdRows := make([][]string, len(level.IDs))
		for i, id := range level.IDs {
			obsRow := []string{strconv.Itoa(id), strconv.Itoa(level.PlotCounts[i])}
			prdRow := []string{strconv.Itoa(id)}
			for _, attr := range b.Attrs {
				obsRow = append(obsRow, fToStr(level.Observed[attr.FieldName][i], attr.Decimals))
				prdRow = append(prdRow, fToStr(level.Predicted[attr.FieldName][i], attr.Decimals))
			}
			obsRows[i] = obsRow
			prdRows[i] = prdRow
		}

		hexDir := filepath.Join(p.Files.RiemannDir, fmt.Sprintf("hex_%d", res))
		obsPath := filepath.Join(hexDir, fmt.Sprintf("hex_%d_observed_mean.csv", res))
		prdPath := filepath.Join(hexDir, fmt.Sprintf("hex_%d_predicted_k%d_mean.csv", res, p.K))
		if err := writeCSV(obsPath, obsHeaders, obsRows); err != nil {
			return err
		}
		if err := writeCSV(prdPath, prdHeaders, prdRows); err != nil {
			return err
		}
	}
	return nil
}

func writeParams(path string, p *params.Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal run parameters: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeXLSX(path string, headers []string, rows [][]string) error {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func writeXML(path string, doc any) error {
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return os.WriteFile(path, append([]byte(xml.Header), data...), 0o644)
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
