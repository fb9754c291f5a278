package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	paperpdf "github.com/alnah/go-paperpdf"
	"github.com/alnah/go-paperpdf/internal/canvas"
)

// maxBodyBytes bounds request bodies; surfaces are inline HTML or Markdown.
const maxBodyBytes = 10 << 20

// Exporter is the part of paperpdf.Exporter the API needs.
type Exporter interface {
	Export(ctx context.Context, s *paperpdf.Surface, paper paperpdf.PaperSize, filenameHint string) (*paperpdf.ExportResult, error)
	Exporting(surfaceID string) bool
}

var _ Exporter = (*paperpdf.Exporter)(nil)

// Server holds the handler dependencies.
type Server struct {
	library  *canvas.Library
	exporter Exporter
	log      logrus.FieldLogger
	origins  []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAllowedOrigins sets the CORS origins. Defaults to local origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// NewServer creates a Server over a canvas library and an exporter.
func NewServer(library *canvas.Library, exporter Exporter, opts ...Option) *Server {
	s := &Server{
		library:  library,
		exporter: exporter,
		log:      logrus.StandardLogger(),
		origins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Origin", "X-Requested-With"},
		ExposedHeaders: []string{"Content-Disposition", "X-Export-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/paper-sizes", func(r chi.Router) {
			r.Get("/", s.handleListPaperSizes)
			r.Get("/{id}", s.handleGetPaperSize)
		})
		r.Route("/canvases", func(r chi.Router) {
			r.Get("/", s.handleListCanvases)
			r.Post("/", s.handleCreateCanvas)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetCanvas)
				r.Patch("/", s.handleUpdateCanvas)
				r.Delete("/", s.handleDeleteCanvas)
			})
		})
		r.Post("/export", s.handleExport)
	})

	return r
}

// requestLogger logs each request with logrus fields.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.WithFields(logrus.Fields{
				"request_id":  middleware.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("Request handled")
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// renderError writes {"error": msg} with status.
func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// decodeBody reads a bounded JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	return render.DecodeJSON(r.Body, v)
}
