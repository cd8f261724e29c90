package ports

// ChartRenderer renders the report figures to PNG files on disk
type ChartRenderer interface {
	// Scatter renders an observed-vs-predicted scatterplot
	Scatter(req ScatterRequest) error

	// Histogram renders a grouped-bar area distribution chart
	Histogram(req HistogramRequest) error
}

// ScatterRequest describes one observed-vs-predicted scatterplot.
// Predicted values run along x, observed along y, on shared axis limits.
type ScatterRequest struct {
	Observed   []float64 `json:"observed"`
	Predicted  []float64 `json:"predicted"`
	Name       string    `json:"name"`
	Units      string    `json:"units"`
	OutputPath string    `json:"output_path"`

	// KDE colors points by local density, densest drawn last
	KDE bool `json:"kde"`

	// WidthInches and HeightInches default to 3.2 when zero
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`

	// DPI of 0 uses the renderer default
	DPI float64 `json:"dpi"`

	Stats ScatterStats `json:"stats"`
}

// ScatterStats is the annotation block drawn in the top-left corner
type ScatterStats struct {
	Correlation    float64 `json:"correlation"`
	NormalizedRMSE float64 `json:"normalized_rmse"`
	RSquare        float64 `json:"r_square"`

	// AvgPlotCount and HexagonCount add rows when set
	AvgPlotCount *float64 `json:"avg_plot_count,omitempty"`
	HexagonCount *int     `json:"hexagon_count,omitempty"`
}

// HistogramRequest describes one grouped-bar chart of per-bin areas
type HistogramRequest struct {
	// Labels name the bins along x, one group per label
	Labels []string          `json:"labels"`
	Series []HistogramSeries `json:"series"`

	XTitle     string `json:"x_title"`
	YTitle     string `json:"y_title"`
	OutputPath string `json:"output_path"`

	// WidthInches and HeightInches default to 7.5 x 2.5 when zero
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`

	DPI float64 `json:"dpi"`
}

// HistogramSeries is one bar series across all bins
type HistogramSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`

	// ErrorBars, when present, draw symmetric error bars per bin
	ErrorBars []float64 `json:"error_bars,omitempty"`

	// FlaggedBins mark bin indexes with an asterisk at the axis,
	// used for bins whose estimate is suppressed
	FlaggedBins []int `json:"flagged_bins,omitempty"`
}
