package analytics

import (
	"net/http"
	"time"

	"github.com/2beens/gymflow/internal/telemetry/tracing"
	"github.com/2beens/gymflow/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	dateLayout       = "2006-01-02"
	defaultRangeDays = 30
	maxRangeDays     = 366
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes expects an admin-only router.
func (h *Handler) SetupRoutes(adminRouter *mux.Router) {
	adminRouter.HandleFunc("/analytics", h.HandleSummary).Methods("GET").Name("admin-analytics")
}

// HandleSummary serves GET /admin/analytics?from=YYYY-MM-DD&to=YYYY-MM-DD, both days inclusive.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.summary")
	defer span.End()

	today := h.service.NowFunc().UTC().Truncate(24 * time.Hour)
	to := today
	from := today.AddDate(0, 0, -defaultRangeDays+1)

	if toParam := r.URL.Query().Get("to"); toParam != "" {
		parsed, err := time.Parse(dateLayout, toParam)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		to = parsed
		from = to.AddDate(0, 0, -defaultRangeDays+1)
	}
	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		parsed, err := time.Parse(dateLayout, fromParam)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if to.Before(from) {
		http.Error(w, "from after to", http.StatusBadRequest)
		return
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		http.Error(w, "date range too large", http.StatusBadRequest)
		return
	}

	summary, err := h.service.Summary(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		log.Errorf("analytics summary: %s", err)
		http.Error(w, "get analytics failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}
