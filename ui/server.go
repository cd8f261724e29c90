// Package ui serves generated report documents for browser preview, with a
// JSON view of archived runs when an archive is configured.
package ui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gnnreport/internal"
	"gnnreport/internal/config"
	"gnnreport/ports"
)

// App is the report preview server
type App struct {
	router    *chi.Mux
	reportDir string
	archive   ports.RunArchive
	cfg       config.ServerConfig
	log       *internal.Logger
}

// NewApp creates the preview server over a report directory. A nil archive
// disables the run history endpoint.
func NewApp(reportDir string, archive ports.RunArchive, cfg config.ServerConfig, log *internal.Logger) *App {
	app := &App{
		router:    chi.NewRouter(),
		reportDir: reportDir,
		archive:   archive,
		cfg:       cfg,
		log:       log,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/reports/{name}", a.handleServeReport)

	a.router.Get("/api/health", a.handleHealth)
	a.router.Get("/api/reports", a.handleListReports)
	a.router.Get("/api/runs", a.handleRecentRuns)
}

// Start runs the HTTP server
func (a *App) Start() error {
	a.log.Info("preview server listening on %s", a.cfg.Addr)
	server := &http.Server{
		Addr:        a.cfg.Addr,
		Handler:     a.router,
		ReadTimeout: a.cfg.ReadTimeout,
	}
	return server.ListenAndServe()
}

// Handler exposes the route tree
func (a *App) Handler() http.Handler {
	return a.router
}

// ReportFile describes one generated document in the report directory
type ReportFile struct {
	Name       string    `json:"name"`
	Size       string    `json:"size"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>GNN Accuracy Reports</title>
<style>
body { font-family: Georgia, serif; background: #f8f7ed; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #aaa; padding: 6px 14px; text-align: left; }
th { background: #8a6e4b; color: #fff; }
tr:nth-child(even) { background: #f1efe4; }
</style>
</head>
<body>
<h1>GNN Accuracy Reports</h1>
{{if .}}<table>
<tr><th>Report</th><th>Size</th><th>Modified</th></tr>
{{range .}}<tr><td><a href="/reports/{{.Name}}">{{.Name}}</a></td><td>{{.Size}}</td><td>{{.ModifiedAt.Format "2006-01-02 15:04"}}</td></tr>
{{end}}</table>{{else}}<p>No reports generated yet.</p>{{end}}
</body>
</html>
`))

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	files, err := a.listReports()
	if err != nil {
		a.log.Error("could not list reports: %v", err)
		http.Error(w, "could not list reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := indexTemplate.Execute(w, files); err != nil {
		a.log.Error("template error: %v", err)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	files, err := a.listReports()
	if err != nil {
		a.respondJSON(w, http.StatusInternalServerError,
			map[string]string{"error": "could not list reports"})
		return
	}
	a.respondJSON(w, http.StatusOK, files)
}

func (a *App) handleServeReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validReportName(name) {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(a.reportDir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename="+strconv.Quote(name))
	http.ServeFile(w, r, path)
}

func (a *App) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		a.respondJSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "run archive not configured"})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := a.archive.RecentRuns(r.Context(), limit)
	if err != nil {
		a.log.Error("could not read recent runs: %v", err)
		a.respondJSON(w, http.StatusInternalServerError,
			map[string]string{"error": "could not read recent runs"})
		return
	}
	a.respondJSON(w, http.StatusOK, runs)
}

// listReports returns the PDF documents in the report directory, newest
// first
func (a *App) listReports() ([]ReportFile, error) {
	entries, err := os.ReadDir(a.reportDir)
	if err != nil {
		return nil, err
	}

	files := make([]ReportFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ReportFile{
			Name:       entry.Name(),
			Size:       humanize.Bytes(uint64(info.Size())),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	return files, nil
}

// validReportName rejects anything but a bare PDF file name
func validReportName(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func (a *App) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("response encode failed: %v", err)
	}
}
