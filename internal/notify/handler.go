package notify

import (
	"context"
	"net/http"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/telemetry/tracing"
	"github.com/2beens/gymflow/pkg"

	log "github.com/sirupsen/logrus"
)

type drainer interface {
	Drain(ctx context.Context, username string) ([]Notification, error)
}

type Handler struct {
	notifier drainer
}

func NewHandler(notifier drainer) *Handler {
	return &Handler{
		notifier: notifier,
	}
}

func (h *Handler) HandleDrain(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.drain")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	notifications, err := h.notifier.Drain(ctx, identity.Username)
	if err != nil {
		log.Errorf("drain notifications for %s: %s", identity.Username, err)
		http.Error(w, "get notifications failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, notifications, http.StatusOK)
}
