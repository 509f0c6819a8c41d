package exerciseindex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/telemetry/tracing"
	"github.com/2beens/gymflow/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=exerciseindex_test

type catalogService interface {
	Fetch(ctx context.Context, filters Filters) ([]Item, error)
	Grouped(ctx context.Context) (map[string]map[string][]Item, error)
	Add(ctx context.Context, identity auth.Identity, item Item) *Item
	Update(ctx context.Context, identity auth.Identity, id int, patch ItemPatch) (*Item, error)
	Delete(ctx context.Context, identity auth.Identity, id int) (bool, error)
}

type Handler struct {
	service catalogService
}

func NewHandler(service catalogService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", h.HandleList).Methods("GET").Name("exercise-index-list")
	router.HandleFunc("/grouped", h.HandleGrouped).Methods("GET").Name("exercise-index-grouped")
	router.HandleFunc("", h.HandleAdd).Methods("POST").Name("exercise-index-add")
	router.HandleFunc("/{id}", h.HandleUpdate).Methods("PUT").Name("exercise-index-update")
	router.HandleFunc("/{id}", h.HandleDelete).Methods("DELETE").Name("exercise-index-delete")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exerciseindex.list")
	defer span.End()

	query := r.URL.Query()
	filters := Filters{
		Category:    query.Get("category"),
		Subcategory: query.Get("subcategory"),
		Search:      query.Get("search"),
	}
	if filters.Category != "" && !ValidCategory(filters.Category) {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}

	items, err := h.service.Fetch(ctx, filters)
	if err != nil {
		log.Errorf("list exercise index: %s", err)
		http.Error(w, "get exercises failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, items, http.StatusOK)
}

func (h *Handler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exerciseindex.grouped")
	defer span.End()

	groups, err := h.service.Grouped(ctx)
	if err != nil {
		log.Errorf("group exercise index: %s", err)
		http.Error(w, "get exercises failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, groups, http.StatusOK)
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exerciseindex.add")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Errorf("add exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}
	if err := item.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added := h.service.Add(ctx, identity, item)
	if added == nil {
		http.Error(w, "add exercise failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("id", added.ID))
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exerciseindex.update")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var patch ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Errorf("update exercise, unmarshal json params: %s", err)
		http.Error(w, "update exercise failed", http.StatusBadRequest)
		return
	}
	if err := patch.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(ctx, identity, id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if updated == nil {
		http.Error(w, "update exercise failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exerciseindex.delete")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(ctx, identity, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "delete exercise failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "deleted")
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		log.Errorf("exercise index: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
