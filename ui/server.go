package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"glycorisk/app"
	"glycorisk/internal"
	"glycorisk/ports"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/css/*.css
var embeddedFiles embed.FS

// Options are the collaborators and settings of the web UI
type Options struct {
	Presenter *app.ResultPresenter
	Predictor ports.Predictor
	Sessions  ports.SessionRepository

	// API is mounted under /api when set
	API http.Handler

	CookieName   string
	CookieTTL    time.Duration
	SecureCookie bool

	Logger *internal.Logger
}

// Server is the gin web UI
type Server struct {
	router    *gin.Engine
	templates *template.Template
	presenter *app.ResultPresenter
	predictor ports.Predictor
	sessions  ports.SessionRepository
	api       http.Handler

	cookieName   string
	cookieTTL    time.Duration
	secureCookie bool

	logger *internal.Logger
}

// NewServer parses the embedded templates and registers every route
func NewServer(opts Options) (*Server, error) {
	if opts.Presenter == nil || opts.Predictor == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("ui: presenter, predictor and session repository are required")
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.CookieName == "" {
		opts.CookieName = "glycorisk_session"
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:       gin.New(),
		templates:    tmpl,
		presenter:    opts.Presenter,
		predictor:    opts.Predictor,
		sessions:     opts.Sessions,
		api:          opts.API,
		cookieName:   opts.CookieName,
		cookieTTL:    opts.CookieTTL,
		secureCookie: opts.SecureCookie,
		logger:       opts.Logger,
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	if s.api != nil {
		s.router.Any("/api/*path", gin.WrapH(s.api))
	}

	pages := s.router.Group("/", s.sessionMiddleware())
	pages.GET("/", s.handleIndex)
	pages.POST("/navigate", s.handleNavigate)
	pages.GET("/pages/:page", s.handlePage)
	pages.POST("/input", s.handleInput)

	pages.GET("/charts/line.svg", s.handleLabChart)
	pages.GET("/charts/kidney.svg", s.handleKidneyChart)
	pages.GET("/charts/lipid.svg", s.handleLipidChart)
	pages.GET("/charts/pie.svg", s.handlePieChart)

	pages.GET("/export/patient.xlsx", s.handleExport)
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
