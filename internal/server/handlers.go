package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/regionmap/pkg/buildinfo"
	"github.com/matzehuels/regionmap/pkg/color"
	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/observability"
	"github.com/matzehuels/regionmap/pkg/pipeline"
)

// request is the body of the layout and render endpoints.
type request struct {
	pipeline.Options
	Source string `json:"source,omitempty"`
}

type layoutResponse struct {
	ID        string            `json:"id"`
	InputHash string            `json:"input_hash"`
	Cached    bool              `json:"cached"`
	Document  document.Document `json:"document"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Subject   string `json:"subject,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	palettes := make(map[string][]string)
	for _, name := range color.PaletteNames() {
		p, _ := color.LookupPalette(name)
		palettes[name] = p
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"palettes":   palettes,
		"strategies": color.Names(),
		"default":    map[string]string{"palette": "default", "strategy": color.DefaultStrategy},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := uuid.New()
	w.Header().Set("X-Run-ID", id.String())
	writeJSON(w, http.StatusOK, layoutResponse{
		ID:        id.String(),
		InputHash: pipeline.HashInput(in),
		Cached:    hit,
		Document:  doc,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := result.Artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Run-ID", result.ID.String())
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads a request body and merges it over the configured defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var req request
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if req.Source != "" {
		req.Options.Source = []byte(req.Source)
	}
	// Requests never set runtime hooks.
	req.Options.Logger = s.logger
	req.Options.Observer = nil
	return req.Options.Override(s.cfg.Defaults), nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		Subject:   errors.Subject(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// logRequests reports every request to the server hooks and the debug log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func cacheStatus(info pipeline.CacheInfo) string {
	if info.LayoutHit && info.RenderHit {
		return "hit"
	}
	if info.LayoutHit {
		return "partial"
	}
	return "miss"
}
