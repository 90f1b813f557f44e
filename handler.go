package djlex

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dpotapov/go-djlex/loader"
)

// maxSourceSize limits the template size accepted in request bodies.
const maxSourceSize = 1 << 20

// wsUpgrader is a Gorilla WebSocket instance, used to respond HTTP requests with WebSocket.
var wsUpgrader = websocket.Upgrader{}

// Handler checks templates over HTTP.
//
//	GET  /?name=page.html   checks a template resolved through Loader
//	POST /?name=page.html   checks the template sent as the request body
//
// The format query parameter selects json (default), html or text output and
// where filters condition tokens (see CompileFilter). A WebSocket client sends
// CheckRequest messages and receives a CheckResponse for each.
type Handler struct {
	// Loader resolves template names. GET requests fail with 404 if it is nil.
	Loader loader.Loader

	// OnError is a callback that is called when an error occurs while serving a request.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	// init is used to initialize the handler only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger
}

// CheckRequest is a WebSocket message asking to check a template. If Source
// is empty the template is resolved by Name.
type CheckRequest struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Where  string `json:"where,omitempty"`
}

// CheckResponse answers a CheckRequest.
type CheckResponse struct {
	Report *Report `json:"report,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}
	})

	if websocket.IsWebSocketUpgrade(r) {
		if err := h.serveWebSocket(w, r); err != nil {
			h.logger.Error("Serve websocket", "url", r.URL.Redacted(), "error", err)
			if h.OnError != nil {
				h.OnError(r, err)
			}
		}
		return
	}

	if err := h.handleRequest(w, r); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		h.logger.Error("Serve HTTP request", "url", r.URL.Redacted(), "error", err)

		if h.OnError != nil {
			h.OnError(r, err)
		}
	}
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	filter, err := CompileFilter(q.Get("where"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	var report *Report

	switch r.Method {
	case http.MethodGet:
		name := q.Get("name")
		if name == "" {
			http.Error(w, "missing name parameter", http.StatusBadRequest)
			return nil
		}
		report, err = h.checkTemplate(name)
		if errors.Is(err, loader.ErrTemplateNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil
		}
		if err != nil {
			return err
		}
	case http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceSize))
		if err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return nil
		}
		name := q.Get("name")
		if name == "" {
			name = "<request>"
		}
		report = Check(name, string(body))
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil
	}

	if report, err = filter.Apply(report); err != nil {
		return err
	}

	h.logger.Debug("Check template", "name", report.Name, "diagnostics", len(report.Diagnostics))

	return writeReport(w, q.Get("format"), report)
}

func (h *Handler) checkTemplate(name string) (*Report, error) {
	if h.Loader == nil {
		return nil, &loader.NotFoundError{Name: name}
	}
	tmpl, err := h.Loader.GetTemplate(name)
	if err != nil {
		return nil, err
	}
	return Check(tmpl.Name, tmpl.Source), nil
}

// serveWebSocket answers each incoming CheckRequest until the client goes away.
func (h *Handler) serveWebSocket(w http.ResponseWriter, r *http.Request) error {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	for {
		var req CheckRequest
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read websocket message: %w", err)
		}

		resp := h.check(req)
		if err := ws.WriteJSON(resp); err != nil {
			return fmt.Errorf("write websocket message: %w", err)
		}
	}
}

func (h *Handler) check(req CheckRequest) CheckResponse {
	filter, err := CompileFilter(req.Where)
	if err != nil {
		return CheckResponse{Error: err.Error()}
	}

	var report *Report
	if req.Source != "" {
		report = Check(req.Name, req.Source)
	} else if report, err = h.checkTemplate(req.Name); err != nil {
		return CheckResponse{Error: err.Error()}
	}

	if report, err = filter.Apply(report); err != nil {
		return CheckResponse{Error: err.Error()}
	}
	return CheckResponse{Report: report}
}

func writeReport(w http.ResponseWriter, format string, report *Report) error {
	switch format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		return json.NewEncoder(w).Encode(report)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		for _, d := range report.Diagnostics {
			if err := report.File().RenderHTML(w, d); err != nil {
				return fmt.Errorf("render HTML: %w", err)
			}
		}
		return nil
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, d := range report.Diagnostics {
			if err := report.File().Render(w, d); err != nil {
				return fmt.Errorf("render text: %w", err)
			}
		}
		return nil
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return nil
	}
}
