// Package samplegen builds a complete synthetic model-run output bundle:
// plot attribute tables, accuracy files, metadata dictionaries, placeholder
// images and a run-parameter file, so a full report can be generated end to
// end without real model outputs.
package samplegen

import (
	"fmt"
	"math/rand"
	"sort"

	"gnnreport/domain/accuracy"
	"gnnreport/domain/matrix"
	"gnnreport/internal/params"
)

const (
	// agreement scales how strongly predictions track observations
	agreement = 0.85

	// binCount is the number of classes cut for the binned error matrices
	binCount = 6

	// regionAreaHa and forestAreaHa size the synthetic model region
	regionAreaHa = 4552000.0
	forestAreaHa = 3876000.0
)

// ContinuousAttr describes one synthetic continuous stand attribute
type ContinuousAttr struct {
	FieldName   string
	Units       string
	Short       string
	Description string
	Mean        float64
	SD          float64
	Max         float64 // 0 means unbounded above
	Decimals    int
}

// continuousCatalogue lists the attributes the generator can produce, in
// dictionary order. Config.Attributes selects a prefix of it.
var continuousCatalogue = []ContinuousAttr{
	{
		FieldName: "BAPH_GE_3",
		Units:     "m^2/ha",
		Short:     "Basal area of live trees >=2.5 cm dbh",
		Description: "Basal area per hectare of all live trees at least 2.5 cm " +
			"diameter at breast height, summed across all forested conditions " +
			"on the plot.",
		Mean: 28, SD: 14, Decimals: 2,
	},
	{
		FieldName: "TPH_GE_3",
		Units:     "trees/ha",
		Short:     "Density of live trees >=2.5 cm dbh",
		Description: "Number of live trees per hectare at least 2.5 cm diameter " +
			"at breast height.",
		Mean: 520, SD: 240, Decimals: 1,
	},
	{
		FieldName: "QMD_DOM",
		Units:     "cm",
		Short:     "Quadratic mean diameter of dominant trees",
		Description: "Quadratic mean diameter of all dominant and codominant " +
			"trees, weighted by basal area.",
		Mean: 34, SD: 15, Decimals: 1,
	},
	{
		FieldName: "CANCOV",
		Units:     "percent",
		Short:     "Canopy cover of live trees",
		Description: "Canopy cover of all live trees, corrected for crown " +
			"overlap.",
		Mean: 52, SD: 22, Max: 100, Decimals: 1,
	},
	{
		FieldName: "STNDHGT",
		Units:     "m",
		Short:     "Stand height",
		Description: "Height of the stand, computed as the average height of " +
			"all dominant and codominant trees.",
		Mean: 26, SD: 10, Decimals: 1,
	},
	{
		FieldName: "SDI_REINEKE",
		Units:     "index",
		Short:     "Reineke stand density index",
		Description: "Stand density index based on the summation method across " +
			"all live trees.",
		Mean: 310, SD: 140, Decimals: 1,
	},
}

// SpeciesDef seeds one tree species for the presence/absence table
type SpeciesDef struct {
	Symbol         string
	ScientificName string
	CommonName     string
	Prevalence     float64
}

// speciesCatalogue covers the common conifers and hardwoods of a coastal
// model region. The last entry sits under the 0.5% prevalence cutoff the
// species pages apply, so generated bundles exercise that filter.
var speciesCatalogue = []SpeciesDef{
	{"PSME", "Pseudotsuga menziesii", "Douglas-fir", 0.78},
	{"TSHE", "Tsuga heterophylla", "western hemlock", 0.55},
	{"ALRU2", "Alnus rubra", "red alder", 0.42},
	{"THPL", "Thuja plicata", "western redcedar", 0.31},
	{"ACMA3", "Acer macrophyllum", "bigleaf maple", 0.24},
	{"PISI", "Picea sitchensis", "Sitka spruce", 0.12},
	{"ABAM", "Abies amabilis", "Pacific silver fir", 0.09},
	{"UMCA", "Umbellularia californica", "California laurel", 0.06},
	{"CHLA", "Chamaecyparis lawsoniana", "Port Orford cedar", 0.004},
}

// vegclassCode is one vegetation class with its sampling weight
type vegclassCode struct {
	Label       string
	Description string
	Weight      float64
}

var vegclassCodes = []vegclassCode{
	{"Sparse", "Less than 10% total tree cover", 5},
	{"Open", "10-40% tree cover, all tree sizes", 9},
	{"Broadleaf-sap/pole", "Over 40% tree cover, broadleaf dominated, quadratic mean diameter under 25 cm", 6},
	{"Broadleaf-sm/md/lg", "Over 40% tree cover, broadleaf dominated, quadratic mean diameter 25 cm or more", 7},
	{"Mixed-sap/pole", "Over 40% tree cover, mixed conifer and broadleaf, quadratic mean diameter under 25 cm", 6},
	{"Mixed-sm/md", "Over 40% tree cover, mixed conifer and broadleaf, quadratic mean diameter 25-50 cm", 8},
	{"Mixed-lg/gt", "Over 40% tree cover, mixed conifer and broadleaf, quadratic mean diameter 50 cm or more", 4},
	{"Conifer-sap/pole", "Over 40% tree cover, conifer dominated, quadratic mean diameter under 25 cm", 8},
	{"Conifer-sm/md", "Over 40% tree cover, conifer dominated, quadratic mean diameter 25-50 cm", 12},
	{"Conifer-lg", "Over 40% tree cover, conifer dominated, quadratic mean diameter 50-75 cm", 9},
	{"Conifer-gt", "Over 40% tree cover, conifer dominated, quadratic mean diameter 75 cm or more", 4},
}

// vegclassNeighbors mirrors the fuzzy-agreement adjacency the report pages
// shade: classes neighbor along canopy cover, hardwood share and tree size,
// not just class number.
var vegclassNeighbors = map[int][]int{
	1:  {2},
	2:  {1, 3, 5, 8},
	3:  {2, 4, 5},
	4:  {3, 6, 7},
	5:  {2, 3, 6, 8},
	6:  {4, 5, 7, 9},
	7:  {4, 6, 10, 11},
	8:  {2, 5, 9},
	9:  {6, 8, 10},
	10: {7, 9, 11},
	11: {7, 10},
}

// plotsPerHex sets how many plots fall in an average hexagon at each
// tessellation spacing
var plotsPerHex = map[int]int{10: 4, 30: 24, 50: 64}

// Config controls the synthetic bundle
type Config struct {
	Plots      int
	Attributes int
	Seed       int64

	// Noise scales the independent error added to predictions, as a
	// fraction of each attribute's spread
	Noise float64

	ModelRegion int
	ModelYear   int
	ModelType   params.ModelType
	K           int

	// PredictedFormat selects the predicted table file type, csv or xlsx
	PredictedFormat string
}

func DefaultConfig() Config {
	return Config{
		Plots:           500,
		Attributes:      4,
		Seed:            42,
		Noise:           0.35,
		ModelRegion:     221,
		ModelYear:       2017,
		ModelType:       params.ModelTypeSppsz,
		K:               1,
		PredictedFormat: "csv",
	}
}

// SpeciesStat is one presence/absence agreement record
type SpeciesStat struct {
	Field      string
	Prevalence float64
	OpPP       int
	OpPA       int
	OaPP       int
	OaPA       int
	Kappa      float64
}

// AreaEstimate carries the regional area distribution for one attribute.
// Labels start with the nonforest and unsampled bins; Adjusted and CI cover
// the class bins only.
type AreaEstimate struct {
	Variable  string
	Labels    []string
	Observed  []float64
	Predicted []float64
	Adjusted  []float64
	CI        []float64
}

// HexLevel holds the per-hexagon means for one tessellation resolution
type HexLevel struct {
	IDs        []int
	PlotCounts []int
	Observed   map[string][]float64
	Predicted  map[string][]float64
}

// Bundle is the generated model-run content before writing
type Bundle struct {
	Config Config
	Attrs  []ContinuousAttr

	PlotIDs   []int
	Observed  map[string][]float64
	Predicted map[string][]float64

	// VegObserved and VegPredicted are 1-based vegetation classes
	VegObserved  []int
	VegPredicted []int

	Bins    map[string][]matrix.Bin
	Species []SpeciesStat
	Areas   []AreaEstimate
	Hexes   map[int]*HexLevel
}

func Generate(cfg Config) (*Bundle, error) {
	if cfg.Plots <= 0 {
		return nil, fmt.Errorf("plots must be > 0")
	}
	if cfg.Attributes <= 0 || cfg.Attributes > len(continuousCatalogue) {
		return nil, fmt.Errorf("attributes must be between 1 and %d", len(continuousCatalogue))
	}
	if cfg.Noise < 0 {
		return nil, fmt.Errorf("noise must be >= 0")
	}
	if cfg.K <= 0 {
		cfg.K = 1
	}
	if cfg.ModelType == "" {
		cfg.ModelType = params.ModelTypeSppsz
	}
	if !cfg.ModelType.Valid() {
		return nil, fmt.Errorf("unknown model type %q", cfg.ModelType)
	}
	if cfg.PredictedFormat == "" {
		cfg.PredictedFormat = "csv"
	}
	if cfg.PredictedFormat != "csv" && cfg.PredictedFormat != "xlsx" {
		return nil, fmt.Errorf("predicted format must be csv or xlsx, got %q", cfg.PredictedFormat)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	b := &Bundle{
		Config:    cfg,
		Attrs:     continuousCatalogue[:cfg.Attributes],
		Observed:  make(map[string][]float64, cfg.Attributes),
		Predicted: make(map[string][]float64, cfg.Attributes),
		Bins:      make(map[string][]matrix.Bin, cfg.Attributes),
		Hexes:     make(map[int]*HexLevel, len(params.DefaultHexResolutions)),
	}

	b.PlotIDs = make([]int, cfg.Plots)
	for i := range b.PlotIDs {
		b.PlotIDs[i] = 10001 + i
	}

	for _, attr := range b.Attrs {
		obs := make([]float64, cfg.Plots)
		prd := make([]float64, cfg.Plots)
		for i := 0; i < cfg.Plots; i++ {
			obs[i] = clamp(attr.Mean+attr.SD*rng.NormFloat64(), attr.Max)
			drift := cfg.Noise * attr.SD * rng.NormFloat64()
			prd[i] = clamp(attr.Mean+agreement*(obs[i]-attr.Mean)+drift, attr.Max)
		}
		b.Observed[attr.FieldName] = obs
		b.Predicted[attr.FieldName] = prd
		b.Bins[attr.FieldName] = binEdges(obs, binCount)
	}

	b.VegObserved, b.VegPredicted = vegclassPairs(rng, cfg.Plots)
	b.Species = speciesStats(rng, cfg.Plots)
	b.Areas = areaEstimates(rng, b)
	for _, res := range params.DefaultHexResolutions {
		b.Hexes[res] = hexLevel(b, res)
	}
	return b, nil
}

// clamp floors a value at zero and caps it at max when max is positive
func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// binEdges cuts the observed values into count classes at equal-frequency
// break points, standing in for the natural-breaks classes of real runs
func binEdges(values []float64, count int) []matrix.Bin {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	edge := func(i int) float64 {
		return sorted[i*(n-1)/count]
	}
	bins := make([]matrix.Bin, count)
	for i := range bins {
		bins[i] = matrix.Bin{Low: edge(i), High: edge(i + 1)}
	}
	return bins
}

// vegclassPairs draws observed classes from the class weights and predicts
// each one as itself, a fuzzy neighbor, or an unrelated class
func vegclassPairs(rng *rand.Rand, plots int) ([]int, []int) {
	total := 0.0
	for _, c := range vegclassCodes {
		total += c.Weight
	}

	obs := make([]int, plots)
	prd := make([]int, plots)
	for i := 0; i < plots; i++ {
		obs[i] = weightedClass(rng, total)
		switch r := rng.Float64(); {
		case r < 0.70:
			prd[i] = obs[i]
		case r < 0.90:
			neighbors := vegclassNeighbors[obs[i]]
			prd[i] = neighbors[rng.Intn(len(neighbors))]
		default:
			prd[i] = 1 + rng.Intn(len(vegclassCodes))
		}
	}
	return obs, prd
}

func weightedClass(rng *rand.Rand, total float64) int {
	r := rng.Float64() * total
	for i, c := range vegclassCodes {
		if r < c.Weight {
			return i + 1
		}
		r -= c.Weight
	}
	return len(vegclassCodes)
}

// speciesStats builds the presence/absence agreement table. Commission
// errors run higher than omission, matching footprint-based predictions.
func speciesStats(rng *rand.Rand, plots int) []SpeciesStat {
	out := make([]SpeciesStat, 0, len(speciesCatalogue)+1)
	for _, sp := range speciesCatalogue {
		out = append(out, speciesStat(rng, sp.Symbol, sp.Prevalence, plots))
	}
	// CONNOTALY aggregates conifers not tallied to a species; the species
	// pages drop it by name
	out = append(out, speciesStat(rng, "CONNOTALY", 0.88, plots))
	return out
}

func speciesStat(rng *rand.Rand, field string, prevalence float64, plots int) SpeciesStat {
	present := int(prevalence*float64(plots) + 0.5)
	if present > plots {
		present = plots
	}
	absent := plots - present

	opPP := int(float64(present)*(0.70+0.15*rng.Float64()) + 0.5)
	if opPP > present {
		opPP = present
	}
	oaPP := int(float64(absent)*(0.06+0.06*rng.Float64()) + 0.5)
	if oaPP > absent {
		oaPP = absent
	}

	s := SpeciesStat{
		Field:      field,
		Prevalence: float64(present) / float64(plots),
		OpPP:       opPP,
		OpPA:       present - opPP,
		OaPP:       oaPP,
		OaPA:       absent - oaPP,
	}
	s.Kappa = accuracy.Kappa(
		float64(s.OpPP), float64(s.OpPA), float64(s.OaPP), float64(s.OaPA))
	return s
}

// areaEstimates builds the regional distributions for every continuous
// attribute and for the vegetation classes. Plot counts scale to the forest
// area of the region; the predicted series holds no unsampled area because
// the map covers every forested pixel.
func areaEstimates(rng *rand.Rand, b *Bundle) []AreaEstimate {
	estimates := make([]AreaEstimate, 0, len(b.Attrs)+1)
	for _, attr := range b.Attrs {
		bins := b.Bins[attr.FieldName]
		obsIdx := matrix.AssignAll(bins, b.Observed[attr.FieldName])
		prdIdx := matrix.AssignAll(bins, b.Predicted[attr.FieldName])
		estimates = append(estimates, areaEstimate(
			rng, attr.FieldName, matrix.Labels(bins), obsIdx, prdIdx, len(bins)))
	}

	labels := make([]string, len(vegclassCodes))
	for i, c := range vegclassCodes {
		labels[i] = c.Label
	}
	obsIdx := zeroBased(b.VegObserved)
	prdIdx := zeroBased(b.VegPredicted)
	estimates = append(estimates, areaEstimate(
		rng, "VEGCLASS", labels, obsIdx, prdIdx, len(vegclassCodes)))
	return estimates
}

func areaEstimate(rng *rand.Rand, variable string, binLabels []string, obsIdx, prdIdx []int, n int) AreaEstimate {
	plots := len(obsIdx)
	perPlot := forestAreaHa / float64(plots)
	jitter := func() float64 { return 0.97 + 0.06*rng.Float64() }

	est := AreaEstimate{
		Variable: variable,
		Labels:   append([]string{"Nonforest", "Unsampled"}, binLabels...),
	}

	nonforest := regionAreaHa - forestAreaHa
	unsampled := 0.03 * forestAreaHa
	est.Observed = append(est.Observed, nonforest*jitter(), unsampled*jitter())
	est.Predicted = append(est.Predicted, nonforest*jitter(), 0)

	obsCounts := make([]float64, n)
	prdCounts := make([]float64, n)
	for i := range obsIdx {
		obsCounts[obsIdx[i]]++
		prdCounts[prdIdx[i]]++
	}
	for class := 0; class < n; class++ {
		obsArea := obsCounts[class] * perPlot * jitter()
		prdArea := prdCounts[class] * perPlot * jitter()
		est.Observed = append(est.Observed, obsArea)
		est.Predicted = append(est.Predicted, prdArea)

		adjusted := 0.5 * (obsArea + prdArea) * jitter()
		est.Adjusted = append(est.Adjusted, adjusted)
		est.CI = append(est.CI, adjusted*(0.08+0.07*rng.Float64()))
	}
	return est
}

func zeroBased(classes []int) []int {
	out := make([]int, len(classes))
	for i, c := range classes {
		out[i] = c - 1
	}
	return out
}

// hexLevel averages the plot pairs within consecutive groups standing in
// for one hexagon tessellation
func hexLevel(b *Bundle, resolution int) *HexLevel {
	size := plotsPerHex[resolution]
	if size <= 0 {
		size = 4
	}

	level := &HexLevel{
		Observed:  make(map[string][]float64, len(b.Attrs)),
		Predicted: make(map[string][]float64, len(b.Attrs)),
	}
	for start := 0; start < len(b.PlotIDs); start += size {
		end := start + size
		if end > len(b.PlotIDs) {
			end = len(b.PlotIDs)
		}
		level.IDs = append(level.IDs, 1+start/size)
		level.PlotCounts = append(level.PlotCounts, end-start)
		for _, attr := range b.Attrs {
			level.Observed[attr.FieldName] = append(level.Observed[attr.FieldName],
				mean(b.Observed[attr.FieldName][start:end]))
			level.Predicted[attr.FieldName] = append(level.Predicted[attr.FieldName],
				mean(b.Predicted[attr.FieldName][start:end]))
		}
	}
	return level
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
