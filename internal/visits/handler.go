package visits

import (
	"fmt"
	"net/http"

	"github.com/senolsoyleyici/poemsite/internal/middleware"
	"github.com/senolsoyleyici/poemsite/internal/telemetry/metrics"
	"github.com/senolsoyleyici/poemsite/internal/telemetry/tracing"
	"github.com/senolsoyleyici/poemsite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	repo           *Repo
	metricsManager *metrics.Manager
}

func NewHandler(repo *Repo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/visits", handler.handleCount).Methods("GET").Name("visits-count")
	router.HandleFunc("/visits/increment", handler.handleIncrement).Methods("POST", "OPTIONS").Name("visits-increment")
	router.HandleFunc("/visits/reset", handler.handleReset).Methods("POST", "OPTIONS").Name("visits-reset")
}

func (handler *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "visits.handler.count")
	defer span.End()

	count, err := handler.repo.Count(ctx)
	if err != nil {
		log.Errorf("get visits count: %s", err)
		pkg.WriteJSONError(w, "failed to get visits count", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"count":%d}`, count))
}

func (handler *Handler) handleIncrement(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "visits.handler.increment")
	defer span.End()

	count, err := handler.repo.Increment(ctx)
	if err != nil {
		log.Errorf("increment visits count: %s", err)
		pkg.WriteJSONError(w, "failed to increment visits count", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterVisits.Inc()

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"count":%d}`, count))
}

func (handler *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "visits.handler.reset")
	defer span.End()

	if err := handler.repo.Reset(ctx); err != nil {
		log.Errorf("reset visits count: %s", err)
		pkg.WriteJSONError(w, "failed to reset visits count", http.StatusInternalServerError)
		return
	}

	log.Debugf("visits counter reset by %s", middleware.AdminUsername(ctx))

	pkg.WriteJSONResponseOK(w, `{"count":0,"message":"visits counter reset"}`)
}
