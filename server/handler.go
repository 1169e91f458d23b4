package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ByLCY/bratgen/config"
	"github.com/ByLCY/bratgen/layout"
	"github.com/ByLCY/bratgen/logger"
	"github.com/ByLCY/bratgen/renderer"
	canvasrenderer "github.com/ByLCY/bratgen/renderer/canvas"
)

// Routes lists the paths the service answers, in the order shown on 404.
var Routes = []string{"/", "/brat", "/bratanim"}

// Options configures the HTTP handler.
type Options struct {
	Config  *config.Config
	Fonts   canvasrenderer.FontSource
	Logger  *slog.Logger
	Version string
}

// Info is the JSON payload served at "/".
type Info struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Version     string     `json:"version"`
	Endpoints   []Endpoint `json:"endpoints"`
}

// Endpoint describes one route in Info.
type Endpoint struct {
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Description string            `json:"description"`
	Params      map[string]string `json:"params,omitempty"`
}

type handler struct {
	cfg     *config.Config
	fonts   canvasrenderer.FontSource
	logger  *slog.Logger
	version string
}

// NewHandler returns the routed handler wrapped in recovery and access logging.
// Routing ignores the request method.
func NewHandler(opts Options) http.Handler {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &handler{
		cfg:     opts.Config,
		fonts:   opts.Fonts,
		logger:  opts.Logger,
		version: opts.Version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", h.info)
	mux.HandleFunc("/brat", func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, layout.KindStill)
	})
	mux.HandleFunc("/bratanim", func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, layout.KindAnimation)
	})
	mux.HandleFunc("/", h.notFound)

	return Chain(Recovery(opts.Logger), Logging(opts.Logger))(mux)
}

func (h *handler) info(w http.ResponseWriter, r *http.Request) {
	textParam := map[string]string{"text": "text to render, up to " + strconv.Itoa(h.cfg.Text.MaxLength) + " characters"}
	writeJSON(w, http.StatusOK, Info{
		Name:        "bratgen",
		Description: "Renders text as a justified, auto-fitted brat-style card.",
		Version:     h.version,
		Endpoints: []Endpoint{
			{Path: "/", Method: http.MethodGet, Description: "service information"},
			{Path: "/brat", Method: http.MethodGet, Description: "static PNG card", Params: textParam},
			{Path: "/bratanim", Method: http.MethodGet, Description: "animated GIF that types the text", Params: textParam},
		},
	})
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":     "not found",
		"available": Routes,
	})
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, kind layout.Kind) {
	text := r.URL.Query().Get("text")
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing 'text' query parameter"})
		return
	}

	data, err := h.build(text, kind)
	if err != nil {
		h.logger.Error("render failed", "path", r.URL.Path, "kind", string(kind), "error", err)
		http.Error(w, "failed to render image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType(kind))
	w.Header().Set("Cache-Control", h.cfg.CacheControl())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// build lays out and encodes text with a renderer owned by this request.
func (h *handler) build(text string, kind layout.Kind) ([]byte, error) {
	rend := canvasrenderer.NewRenderer(canvasrenderer.Options{
		Fonts:   h.fonts,
		Quality: h.cfg.Animation.Quality,
	})
	opts, err := h.cfg.BuildOptions(rend)
	if err != nil {
		return nil, err
	}

	var res *layout.Result
	if kind == layout.KindAnimation {
		res, err = layout.BuildAnimation(text, opts)
	} else {
		res, err = layout.BuildStatic(text, opts)
	}
	if err != nil {
		return nil, err
	}
	last := res.Frames[len(res.Frames)-1]
	logger.Trace(h.logger, "layout fitted", "kind", string(kind), "frames", len(res.Frames), "size", last.Fitted.FontSize)
	if last.Fitted.Overflow {
		h.logger.Debug("text overflows at minimum font size", "size", last.Fitted.FontSize, "lines", len(last.Fitted.Lines))
	}
	return rend.Render(res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
