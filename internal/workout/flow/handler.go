package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/telemetry/tracing"
	"github.com/2beens/gymflow/internal/workout/catalog"
	"github.com/2beens/gymflow/internal/workout/phase"
	"github.com/2beens/gymflow/internal/workout/progression"
	"github.com/2beens/gymflow/internal/workout/session"
	"github.com/2beens/gymflow/internal/workout/timer"
	"github.com/2beens/gymflow/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var errBadRequest = errors.New("bad request")

type flowSource interface {
	Get(ctx context.Context, identity auth.Identity) (*Flow, error)
}

type Handler struct {
	flows flowSource
}

func NewHandler(flows flowSource) *Handler {
	return &Handler{
		flows: flows,
	}
}

type cardioRequest struct {
	Time     string `json:"time"`
	Calories string `json:"calories"`
}

type moodRequest struct {
	Mood session.Mood `json:"mood"`
}

type warmupCompleteRequest struct {
	Mood         session.Mood `json:"mood"`
	MarkComplete bool         `json:"mark_complete"`
}

type logChangeRequest struct {
	Exercise int    `json:"exercise"`
	Set      int    `json:"set"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Variant  string `json:"variant"`
}

type setConfirmRequest struct {
	Exercise int    `json:"exercise"`
	Set      int    `json:"set"`
	Variant  string `json:"variant"`
}

type restRequest struct {
	Seconds int `json:"seconds"`
}

type exerciseResponse struct {
	Exercise *progression.ExerciseView `json:"exercise"`
	Route    phase.Decision            `json:"route"`
}

type warmupVideoView struct {
	catalog.WarmupVideo
	Unlocked bool `json:"unlocked"`
	Watched  bool `json:"watched"`
}

type warmupCategoryView struct {
	Name   string            `json:"name"`
	Videos []warmupVideoView `json:"videos"`
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", h.HandleState).Methods("GET").Name("session-state")
	router.HandleFunc("/start", h.HandleStart).Methods("POST").Name("session-start")
	router.HandleFunc("/route", h.HandleRoute).Methods("GET").Name("session-route")
	router.HandleFunc("/cardio", h.HandleCompleteCardio).Methods("POST").Name("session-cardio")
	router.HandleFunc("/warmup/videos", h.HandleWarmupVideos).Methods("GET").Name("session-warmup-videos")
	router.HandleFunc("/warmup/videos/{key}/watched", h.HandleWatchVideo).Methods("POST").Name("session-warmup-watch")
	router.HandleFunc("/warmup/mood", h.HandleSetMood).Methods("PUT").Name("session-warmup-mood")
	router.HandleFunc("/warmup/complete", h.HandleCompleteWarmup).Methods("POST").Name("session-warmup-complete")
	router.HandleFunc("/logs", h.HandleChangeLog).Methods("PUT").Name("session-logs-change")
	router.HandleFunc("/logs/confirm", h.HandleCompleteSet).Methods("POST").Name("session-logs-confirm")
	router.HandleFunc("/rest", h.HandleSelectRest).Methods("POST").Name("session-rest-select")
	router.HandleFunc("/rest/continue", h.HandleContinueRest).Methods("POST").Name("session-rest-continue")
	router.HandleFunc("/rest/feel-good", h.HandleFeelGood).Methods("POST").Name("session-rest-feel-good")
	router.HandleFunc("/timer/pause", h.HandlePauseTimer).Methods("POST").Name("session-timer-pause")
	router.HandleFunc("/timer/resume", h.HandleResumeTimer).Methods("POST").Name("session-timer-resume")
	router.HandleFunc("/timer/reset", h.HandleResetTimer).Methods("POST").Name("session-timer-reset")
	router.HandleFunc("/save", h.HandleSave).Methods("POST").Name("session-save")
	router.HandleFunc("/exercise/{index}", h.HandleExercise).Methods("GET").Name("session-exercise")
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.state", func(_ context.Context, f *Flow) (State, error) {
		return f.State()
	})
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.start", func(ctx context.Context, f *Flow) (State, error) {
		return f.StartSessionTimer(ctx)
	})
}

func (h *Handler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.route")
	defer span.End()

	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path missing", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("path", path))

	f, ok := h.flow(ctx, w)
	if !ok {
		return
	}
	decision, err := f.Route(path)
	if err != nil {
		writeFlowError(w, f.Identity().Username, err)
		return
	}

	pkg.WriteJSON(w, decision, http.StatusOK)
}

func (h *Handler) HandleCompleteCardio(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.cardio", func(ctx context.Context, f *Flow) (State, error) {
		var req cardioRequest
		if err := decode(r, &req); err != nil {
			return State{}, err
		}
		return f.CompleteCardio(ctx, req.Time, req.Calories)
	})
}

func (h *Handler) HandleWarmupVideos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.warmup-videos")
	defer span.End()

	f, ok := h.flow(ctx, w)
	if !ok {
		return
	}
	state, err := f.State()
	if err != nil {
		writeFlowError(w, f.Identity().Username, err)
		return
	}

	videoStates := make(map[string]progression.VideoState, len(state.Videos))
	for _, vs := range state.Videos {
		videoStates[vs.Key] = vs
	}
	var categories []warmupCategoryView
	for _, c := range catalog.WarmupCategories() {
		view := warmupCategoryView{Name: c.Name}
		for _, v := range c.Videos {
			vs := videoStates[v.Key]
			view.Videos = append(view.Videos, warmupVideoView{
				WarmupVideo: v,
				Unlocked:    vs.Unlocked,
				Watched:     vs.Watched,
			})
		}
		categories = append(categories, view)
	}

	pkg.WriteJSON(w, categories, http.StatusOK)
}

func (h *Handler) HandleWatchVideo(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	h.act(w, r, "handler.session.warmup-watch", func(ctx context.Context, f *Flow) (State, error) {
		return f.WatchVideo(ctx, key)
	})
}

func (h *Handler) HandleSetMood(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.warmup-mood", func(ctx context.Context, f *Flow) (State, error) {
		var req moodRequest
		if err := decode(r, &req); err != nil {
			return State{}, err
		}
		return f.SetMood(ctx, req.Mood)
	})
}

func (h *Handler) HandleCompleteWarmup(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.warmup-complete", func(ctx context.Context, f *Flow) (State, error) {
		var req warmupCompleteRequest
		if err := decode(r, &req); err != nil {
			return State{}, err
		}
		return f.CompleteWarmup(ctx, req.Mood, req.MarkComplete)
	})
}

func (h *Handler) HandleChangeLog(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.logs-change", func(ctx context.Context, f *Flow) (State, error) {
		var req logChangeRequest
		if err := decode(r, &req); err != nil {
			return State{}, err
		}
		variant, err := progression.ParseVariant(req.Variant)
		if err != nil {
			return State{}, fmt.Errorf("%w: %s", errBadRequest, err)
		}
		return f.ChangeLog(ctx, req.Exercise, req.Set, progression.Field(req.Field), req.Value, variant)
	})
}

func (h *Handler) HandleCompleteSet(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.logs-confirm", func(ctx context.Context, f *Flow) (State, error) {
		var req setConfirmRequest
		if err := decode(r, &req); err != nil {
			return State{}, err
		}
		variant, err := progression.ParseVariant(req.Variant)
		if err != nil {
			return State{}, fmt.Errorf("%w: %s", errBadRequest, err)
		}
		return f.CompleteSet(ctx, req.Exercise, req.Set, variant)
	})
}

func (h *Handler) HandleSelectRest(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.rest-select", func(ctx context.Context, f *Flow) (State, error) {
		var req restRequest
		if err := decode(r, &req); err != nil {
			return State{}, err
		}
		return f.SelectRest(ctx, time.Duration(req.Seconds)*time.Second)
	})
}

func (h *Handler) HandleContinueRest(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.rest-continue", func(ctx context.Context, f *Flow) (State, error) {
		return f.ContinueRest(ctx)
	})
}

func (h *Handler) HandleFeelGood(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.rest-feel-good", func(ctx context.Context, f *Flow) (State, error) {
		return f.FeelGood(ctx)
	})
}

func (h *Handler) HandlePauseTimer(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.timer-pause", func(ctx context.Context, f *Flow) (State, error) {
		return f.PauseExerciseTimer(ctx)
	})
}

func (h *Handler) HandleResumeTimer(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.timer-resume", func(ctx context.Context, f *Flow) (State, error) {
		return f.ResumeExerciseTimer(ctx)
	})
}

func (h *Handler) HandleResetTimer(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.timer-reset", func(ctx context.Context, f *Flow) (State, error) {
		return f.ResetExerciseTimer(ctx)
	})
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "handler.session.save", func(ctx context.Context, f *Flow) (State, error) {
		return f.Save(ctx)
	})
}

func (h *Handler) HandleExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.exercise")
	defer span.End()

	indexParam := mux.Vars(r)["index"]
	index, err := strconv.Atoi(indexParam)
	if err != nil {
		http.Error(w, "invalid exercise index", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("index", index))

	f, ok := h.flow(ctx, w)
	if !ok {
		return
	}
	view, err := f.Exercise(index)
	if err != nil {
		writeFlowError(w, f.Identity().Username, err)
		return
	}
	decision, err := f.Route(phase.RouteExercisePrefix + indexParam)
	if err != nil {
		writeFlowError(w, f.Identity().Username, err)
		return
	}

	pkg.WriteJSON(w, exerciseResponse{Exercise: view, Route: decision}, http.StatusOK)
}

// act runs a flow action for the requesting user and renders the resulting state.
func (h *Handler) act(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	action func(ctx context.Context, f *Flow) (State, error),
) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), spanName)
	defer span.End()

	f, ok := h.flow(ctx, w)
	if !ok {
		return
	}

	state, err := action(ctx, f)
	if err != nil {
		span.RecordError(err)
		writeFlowError(w, f.Identity().Username, err)
		return
	}

	span.SetAttributes(attribute.String("route", state.Route))
	pkg.WriteJSON(w, state, http.StatusOK)
}

func (h *Handler) flow(ctx context.Context, w http.ResponseWriter) (*Flow, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return nil, false
	}

	f, err := h.flows.Get(ctx, identity)
	if err != nil {
		log.Errorf("get flow for %s: %s", identity.Username, err)
		http.Error(w, "load workout session failed", http.StatusInternalServerError)
		return nil, false
	}
	return f, true
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", errBadRequest, err)
	}
	return nil
}

func writeFlowError(w http.ResponseWriter, username string, err error) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, ErrCardioIncomplete),
		errors.Is(err, ErrWarmupIncomplete),
		errors.Is(err, ErrInvalidMood),
		errors.Is(err, progression.ErrSetNotReady),
		errors.Is(err, progression.ErrInvalidValue),
		errors.Is(err, progression.ErrInvalidField),
		errors.Is(err, progression.ErrNoSubstitute),
		errors.Is(err, timer.ErrInvalidPreset):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, progression.ErrIndexOutOfRange),
		errors.Is(err, progression.ErrUnknownVideo):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrWrongPhase),
		errors.Is(err, ErrNoExerciseTimer),
		errors.Is(err, progression.ErrSetLocked),
		errors.Is(err, progression.ErrVideoLocked),
		errors.Is(err, progression.ErrResting),
		errors.Is(err, progression.ErrNotResting),
		errors.Is(err, progression.ErrWorkoutComplete),
		errors.Is(err, timer.ErrRestAlreadySelected),
		errors.Is(err, timer.ErrRestNotStarted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("session action for %s: %s", username, err)
		http.Error(w, "session action failed", http.StatusInternalServerError)
	}
}
