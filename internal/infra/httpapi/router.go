package httpapi

import (
	"net/http"

	"poa_tracker/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// RouterDeps bundles everything the HTTP layer needs. Nil Store/Scanner/DB
// are allowed: the affected endpoints then answer 503 and the health endpoint
// reports the degraded state.
type RouterDeps struct {
	Store    RecordStore
	Scanner  ScanTrigger
	DB       DBPinger
	BotReady bool
	Port     string
	Logger   *logrus.Logger
	Gatherer prometheus.Gatherer
}

// NewRouter builds the chi router with all API, UI and metrics routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(recoverer(deps.Logger))
	r.Use(requestLogger(deps.Logger))

	h := NewPOAHandler(deps.Store, deps.Scanner, deps.DB, deps.BotReady, deps.Port, deps.Logger)

	r.Get("/", h.Root)
	r.Get("/api/health", h.Health)

	r.Route("/api/powers", func(r chi.Router) {
		r.Post("/", h.CreatePower)
		r.Get("/", h.ListPowers)
		r.Delete("/{id}", h.DeletePower)
	})

	r.Get("/api/check-expiring", h.CheckExpiring)
	r.Get("/ui", h.Dashboard)

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	return r
}
