package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sickstat/app"
	"sickstat/domain/leave"
	"sickstat/internal"
	"sickstat/internal/config"
	"sickstat/internal/errors"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App is the browser-facing report UI
type App struct {
	router    *chi.Mux
	service   *app.AnalysisService
	config    *config.Config
	templates *template.Template
	logger    *internal.Logger

	// dataset is analysed when a report request carries no upload
	dataset *leave.Dataset
}

// IndexView is the data behind index.html
type IndexView struct {
	Dataset             *app.DatasetSummary
	DefaultAlpha        float64
	DefaultAgeThreshold int
	Error               string
}

// NewApp creates the UI application
func NewApp(service *app.AnalysisService, cfg *config.Config, logger *internal.Logger) (*App, error) {
	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		config:    cfg,
		templates: templates,
		logger:    logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// WithDataset preloads a dataset for requests without an upload
func (a *App) WithDataset(d leave.Dataset) *App {
	a.dataset = &d
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/report", a.handleReport)
	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// Handler exposes the router for embedding and tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	a.logger.Info("Starting sickstat report UI on http://%s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) indexView() IndexView {
	view := IndexView{
		DefaultAlpha:        a.config.Analysis.DefaultAlpha,
		DefaultAgeThreshold: a.config.Analysis.DefaultAgeThreshold,
	}
	if a.dataset != nil {
		summary := a.service.Describe(*a.dataset)
		view.Dataset = &summary
	}
	return view
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "index.html", a.indexView())
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	dataset, err := a.requestDataset(w, r)
	if err != nil {
		a.renderError(w, err)
		return
	}

	params, err := parseAnalysisParams(r.FormValue)
	if err != nil {
		a.renderError(w, err)
		return
	}

	report, err := a.service.Analyze(dataset, params)
	if err != nil {
		a.renderError(w, err)
		return
	}

	view, err := buildReportView(report)
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, http.StatusOK, "report.html", view)
}

// requestDataset parses the upload, falling back to the preloaded dataset
func (a *App) requestDataset(w http.ResponseWriter, r *http.Request) (leave.Dataset, error) {
	raw, name, err := readUpload(w, r, a.config.Server.MaxUploadBytes)
	if err == errNoUpload && a.dataset != nil {
		return *a.dataset, nil
	}
	if err != nil {
		return leave.Dataset{}, err
	}
	return a.service.Load(raw, name)
}

// renderError shows the form again with the error on top
func (a *App) renderError(w http.ResponseWriter, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		a.logger.Error("[UI] report failed: %v", err)
	}

	view := a.indexView()
	view.Error = appErr.Error()
	a.renderTemplate(w, status, "index.html", view)
}

// renderTemplate renders into a buffer first so a template error never leaves a half-written page
func (a *App) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("Template error for %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
