package listener

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/tag"
	"github.com/0xalexb/hjarta-config/validation"
)

const (
	compressionLevel = 5
	maxInFlight      = 64
	maxBodyBytes     = 1 << 20
)

// NodeResponse is the body of GET /nodes.
type NodeResponse struct {
	Path     string    `json:"path"`
	Tags     string    `json:"tags,omitempty"`
	Kind     string    `json:"kind,omitempty"`
	Value    any       `json:"value,omitempty"`
	Findings []Finding `json:"findings,omitempty"`
}

// Finding is a validation finding rendered for clients.
type Finding struct {
	Level   string `json:"level"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Source  string `json:"source,omitempty"`
}

// SourceResponse describes one configured source.
type SourceResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Tags   string `json:"tags,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version uint64 `json:"version"`
}

type errorResponse struct {
	Error    string    `json:"error"`
	Findings []Finding `json:"findings,omitempty"`
}

type inspector struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandler returns a router inspecting cfg:
//
//	GET  /healthz               status and published version
//	GET  /sources               configured sources in load order
//	GET  /nodes?path=&tags=     value at path, looked up with tags "k=v,k2=v2"
//	POST /sources/{id}/reload   reload one source
func NewHandler(cfg *config.Config, logger *slog.Logger, timeout time.Duration) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	insp := &inspector{cfg: cfg, logger: logger}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		Logging(logger),
		middleware.Recoverer,
		middleware.Throttle(maxInFlight),
		middleware.RequestSize(maxBodyBytes),
		middleware.Timeout(timeout),
		middleware.Compress(compressionLevel, "application/json"),
	)

	router.Get("/healthz", insp.health)
	router.Get("/sources", insp.sources)
	router.Get("/nodes", insp.node)
	router.Post("/sources/{id}/reload", insp.reload)

	return router
}

func (i *inspector) health(w http.ResponseWriter, _ *http.Request) {
	i.write(w, http.StatusOK, HealthResponse{Status: "ok", Version: i.cfg.Version()})
}

func (i *inspector) sources(w http.ResponseWriter, _ *http.Request) {
	sources := i.cfg.Sources()
	body := make([]SourceResponse, 0, len(sources))

	for _, src := range sources {
		body = append(body, SourceResponse{
			ID:     src.ID(),
			Name:   src.Name(),
			Format: src.Format(),
			Tags:   src.Tags().Key(),
		})
	}

	i.write(w, http.StatusOK, body)
}

func (i *inspector) node(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	path := query.Get("path")

	tags, err := tag.Parse(query.Get("tags"))
	if err != nil {
		i.write(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		return
	}

	body := NodeResponse{Path: path, Tags: tags.Key()}

	if path == "" {
		root, ok := i.cfg.Root(tags)
		if !ok {
			i.write(w, http.StatusNotFound, errorResponse{Error: "no tree for tags " + tags.String()})

			return
		}

		body.Kind = node.KindOf(root)
		body.Value = node.ToValue(root)
		i.write(w, http.StatusOK, body)

		return
	}

	found := i.cfg.GetNode(path, tags)
	body.Findings = findings(found.Errors())

	value, ok := found.Value()
	if !ok {
		i.write(w, http.StatusNotFound, errorResponse{Error: "no value at " + path, Findings: body.Findings})

		return
	}

	body.Kind = node.KindOf(value)
	body.Value = node.ToValue(value)
	i.write(w, http.StatusOK, body)
}

func (i *inspector) reload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := i.cfg.Reload(r.Context(), id)
	if err == nil {
		i.write(w, http.StatusOK, HealthResponse{Status: "reloaded", Version: i.cfg.Version()})

		return
	}

	var loadErr *config.LoadError

	switch {
	case errors.Is(err, config.ErrUnknownSource):
		i.write(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, config.ErrNotLoaded):
		i.write(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &loadErr):
		i.write(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    "reload rejected",
			Findings: findings(loadErr.Findings),
		})
	default:
		i.write(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (i *inspector) write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		i.logger.Warn("failed to write response", slog.String("error", err.Error()))
	}
}

func findings(errs []validation.Error) []Finding {
	if len(errs) == 0 {
		return nil
	}

	out := make([]Finding, 0, len(errs))
	for _, finding := range errs {
		out = append(out, Finding{
			Level:   finding.Level.String(),
			Kind:    finding.Kind.String(),
			Message: finding.Message(),
			Path:    finding.Path,
			Source:  finding.Source,
		})
	}

	return out
}
