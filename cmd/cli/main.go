package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gnnreport/adapters/charts"
	"gnnreport/adapters/pdf"
	"gnnreport/adapters/postgres"
	"gnnreport/app"
	"gnnreport/internal"
	"gnnreport/internal/config"
	"gnnreport/internal/params"
	"gnnreport/internal/samplegen"
	"gnnreport/ports"
	"gnnreport/ui"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "gnnreport",
		Short: "Accuracy assessment reports for nearest-neighbor vegetation maps",
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newStatsCmd(),
		newScaffoldCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newReportCmd() *cobra.Command {
	var out string
	var keepImages bool
	var sections []string
	var dpi float64

	cmd := &cobra.Command{
		Use:   "report [params-file]",
		Short: "Render the accuracy assessment PDF for a model run",
		Long: `Render the accuracy assessment PDF for a completed model run.

The params file names the model region, the plot and metadata inputs, and
the sections to include. Sections whose input files are missing are
skipped rather than failing the whole report.

Example: gnnreport report mr221/params.yaml --out mr221_report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), args[0], out, sections, dpi, keepImages)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Report output path (default taken from the params file)")
	cmd.Flags().BoolVar(&keepImages, "keep-images", false, "Keep rendered figure files next to the report")
	cmd.Flags().StringSliceVar(&sections, "sections", nil, "Sections to include (default taken from the params file)")
	cmd.Flags().Float64Var(&dpi, "dpi", 0, "Figure resolution in dots per inch (default from CHART_DPI)")

	return cmd
}

func runReport(ctx context.Context, paramsFile, out string, sections []string, dpi float64, keepImages bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := internal.NewLogger(cfg.Logging.Level)

	p, err := params.Load(paramsFile)
	if err != nil {
		return err
	}
	if out != "" {
		p.ReportFile = out
	}
	if len(sections) > 0 {
		p.Sections = sections
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if dpi == 0 {
		dpi = cfg.Render.DPI
	}

	archive, db, err := openArchive(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	figures := app.NewFigureService(charts.NewRenderer(dpi), cfg.Render.Workers, log)
	svc := app.NewReportService(figures, pdf.NewEngine(cfg.Fonts.Dir), archive, log)

	fmt.Printf("Rendering accuracy report for model region %d (%s, %d)...\n",
		p.ModelRegion, p.ModelType, p.ModelYear)

	result, err := svc.GenerateReport(ctx, app.ReportRequest{Params: *p, KeepImages: keepImages})
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	fmt.Printf("\n=== REPORT RESULTS ===\n")
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Output: %s\n", result.OutputPath)
	fmt.Printf("Sections: %s\n", strings.Join(result.Sections, ", "))
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped: %s\n", strings.Join(result.Skipped, ", "))
	}
	fmt.Printf("Figures: %d\n", result.Figures)
	fmt.Printf("Runtime: %d ms\n", result.RuntimeMs)

	return nil
}

func newStatsCmd() *cobra.Command {
	var noArchive bool

	cmd := &cobra.Command{
		Use:   "stats [params-file]",
		Short: "Print per-attribute accuracy statistics without rendering a report",
		Long: `Compute observed versus predicted accuracy statistics for every
continuous attribute of a model run and print them as a table.

Example: gnnreport stats mr221/params.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), args[0], noArchive)
		},
	}

	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "Skip persisting the run even when ARCHIVE_DSN is set")

	return cmd
}

func runStats(ctx context.Context, paramsFile string, noArchive bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := internal.NewLogger(cfg.Logging.Level)

	p, err := params.Load(paramsFile)
	if err != nil {
		return err
	}

	var archive ports.RunArchive
	if !noArchive {
		var db *sqlx.DB
		archive, db, err = openArchive(ctx, cfg, log)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}
	}

	svc := app.NewStatsService(archive, log)
	result, err := svc.ComputeStats(ctx, *p)
	if err != nil {
		return fmt.Errorf("stats computation failed: %w", err)
	}

	fmt.Printf("\n=== ACCURACY STATISTICS ===\n")
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Model Region: %d | Plots: %s | Runtime: %d ms\n",
		p.ModelRegion, humanize.Comma(int64(result.PlotCount)), result.RuntimeMs)
	fmt.Printf("\n%s\n", app.FormatStatsTable(result.Rows))

	return nil
}

func newScaffoldCmd() *cobra.Command {
	def := samplegen.DefaultConfig()

	var plots int
	var attributes int
	var seed int64
	var format string
	var region int
	var year int
	var modelType string
	var k int

	cmd := &cobra.Command{
		Use:   "scaffold [dir]",
		Short: "Write a synthetic model run for demos and tests",
		Long: `Write a complete synthetic model run into a directory: plot tables,
stand and report metadata, accuracy files, hexagon summaries, figures,
and a params file wired to read them all back.

Example: gnnreport scaffold demo --plots 500 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(args[0], plots, attributes, seed, format, region, year, modelType, k)
		},
	}

	cmd.Flags().IntVar(&plots, "plots", def.Plots, "Number of plot footprints")
	cmd.Flags().IntVar(&attributes, "attributes", def.Attributes, "Number of continuous attributes")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "Random seed for deterministic output")
	cmd.Flags().StringVar(&format, "format", def.PredictedFormat, "Predicted table format: csv or xlsx")
	cmd.Flags().IntVar(&region, "region", def.ModelRegion, "Model region number")
	cmd.Flags().IntVar(&year, "year", def.ModelYear, "Model year")
	cmd.Flags().StringVar(&modelType, "model-type", string(def.ModelType), "Model type: sppsz, sppba, trecov, or wdycov")
	cmd.Flags().IntVar(&k, "k", def.K, "Number of neighbors in the prediction")

	return cmd
}

func runScaffold(dir string, plots, attributes int, seed int64, format string, region, year int, modelType string, k int) error {
	cfg := samplegen.DefaultConfig()
	cfg.Plots = plots
	cfg.Attributes = attributes
	cfg.Seed = seed
	cfg.PredictedFormat = format
	cfg.ModelRegion = region
	cfg.ModelYear = year
	cfg.ModelType = params.ModelType(modelType)
	cfg.K = k

	bundle, err := samplegen.Generate(cfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if err := samplegen.Write(dir, bundle); err != nil {
		return fmt.Errorf("failed to write model run: %w", err)
	}

	fmt.Printf("Synthetic model run written to %s\n", dir)
	fmt.Printf("Plots: %d | Attributes: %d | Species: %d\n",
		cfg.Plots, len(bundle.Attrs), len(bundle.Species))
	fmt.Printf("Next: gnnreport report %s\n", samplegen.ParamsFile(dir))

	return nil
}

func newServeCmd() *cobra.Command {
	var addr string
	var dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve finished reports and archived run history over HTTP",
		Long: `Serve a directory of finished reports over HTTP, with a JSON API for
report listings and archived run history.

Example: gnnreport serve --dir reports --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr, dir)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from SERVE_ADDR)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory holding finished reports")

	return cmd
}

func runServe(ctx context.Context, addr, dir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := internal.NewLogger(cfg.Logging.Level)

	if addr != "" {
		cfg.Server.Addr = addr
	}

	archive, db, err := openArchive(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	web := ui.NewApp(dir, archive, cfg.Server, log)
	log.Info("Serving reports from %s on %s", dir, cfg.Server.Addr)
	return web.Start()
}

// openArchive connects the run archive when ARCHIVE_DSN is configured.
// A nil archive disables persistence without changing the pipelines.
func openArchive(ctx context.Context, cfg *config.Config, log *internal.Logger) (ports.RunArchive, *sqlx.DB, error) {
	if !cfg.Archive.Enabled() {
		return nil, nil, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Archive.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	archive := postgres.NewArchiveRepository(db)
	if err := archive.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to prepare archive schema: %w", err)
	}

	log.Info("Run archive connected")
	return archive, db, nil
}
