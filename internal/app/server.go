package app

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"anysite/internal/config"
	"anysite/internal/llm"
)

// fallbackFragment replaces an empty completion so the visitor never gets a
// blank page.
const fallbackFragment = `<h1>Nothing Here Yet</h1><p>The page came back empty. Refresh to generate it again.</p>`

// unavailableFragment is served with a 502 when the upstream call fails.
const unavailableFragment = `<h1>Service Temporarily Unavailable</h1><p>Our website is currently overloaded with requests. Please try again later.</p>`

// Server wires the catch-all page handler to a completion provider. It holds
// no per-request state: every request makes exactly one upstream call.
type Server struct {
	cfg       *config.Config
	generator llm.Generator
	log       *zap.Logger
	templates *template.Template
	mux       *chi.Mux
}

// NewServer constructs an HTTP handler ready to serve generated pages.
func NewServer(generator llm.Generator, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	srv := &Server{
		cfg:       cfg,
		generator: generator,
		log:       logger,
		templates: tmpl,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/favicon.ico", srv.handleFavicon)
	r.Get("/*", srv.handlePage)

	srv.mux = r
	return srv, nil
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	path := SanitizeInput(strings.Trim(r.URL.Path, "/"))

	segments := splitSegments(path)
	if len(segments) > maxPathDepth {
		leaf := segments[len(segments)-1]
		s.log.Warn("path too deep",
			zap.Int("levels", len(segments)),
			zap.String("path", path))
		s.renderPage(w, http.StatusOK, "Path Too Deep", tooDeepFragment(leaf))
		return
	}

	var data llm.PromptData
	if path == "" {
		data = promptForHome(r.URL.Query())
	} else {
		data = promptForPath(path)
	}

	generationID := uuid.NewString()
	start := time.Now()

	content, err := s.generator.Generate(r.Context(), data)
	if err != nil {
		s.log.Error("generation failed",
			zap.String("path", data.CurrentPath),
			zap.String("generation_id", generationID),
			zap.Error(err))
		s.renderPage(w, http.StatusBadGateway, "Service Temporarily Unavailable", unavailableFragment)
		return
	}

	content = strings.TrimSpace(content)
	s.log.Info("generated",
		zap.String("path", data.CurrentPath),
		zap.String("generation_id", generationID),
		zap.Int("chars", len(content)),
		zap.Duration("elapsed", time.Since(start)))

	if content == "" {
		content = fallbackFragment
	}

	// Models sometimes return a full document despite the prompt; pass it
	// through rather than nesting documents.
	lower := strings.ToLower(content)
	if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
		writeNoCacheHeaders(w)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, content); err != nil {
			s.log.Error("write document", zap.Error(err))
		}
		return
	}

	s.renderPage(w, http.StatusOK, pageTitle(path), content)
}

// renderPage wraps a fragment in the page shell. The fragment is emitted
// verbatim; generated output is not validated or rewritten.
func (s *Server) renderPage(w http.ResponseWriter, status int, title, fragment string) {
	writeNoCacheHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	data := struct {
		Title   string
		Content template.HTML
	}{
		Title:   title,
		Content: template.HTML(fragment),
	}
	if err := s.templates.ExecuteTemplate(w, "page.gohtml", data); err != nil {
		s.log.Error("render page", zap.Error(err))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.String("ip", r.RemoteAddr),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func pageTitle(path string) string {
	if path == "" {
		return "anysite"
	}
	return TopicPhrase(path)
}

func tooDeepFragment(leaf string) string {
	href := "/" + leaf
	return fmt.Sprintf(
		`<h1>Path Too Deep</h1><p>Redirecting to: <a href="%s">%s</a></p><script>setTimeout(() => window.location.href=%q, 2000);</script>`,
		href, template.HTMLEscapeString(leaf), href)
}

func writeNoCacheHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
