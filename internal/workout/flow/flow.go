// Package flow runs the guided workout of one user: it owns the session store, the
// progression engine and the timers, and serializes every action on them.
package flow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymflow/internal/analytics"
	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/notify"
	"github.com/2beens/gymflow/internal/telemetry/metrics"
	"github.com/2beens/gymflow/internal/workout/catalog"
	"github.com/2beens/gymflow/internal/workout/phase"
	"github.com/2beens/gymflow/internal/workout/progression"
	"github.com/2beens/gymflow/internal/workout/session"
	"github.com/2beens/gymflow/internal/workout/timer"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=flow_mocks_test.go -package=flow_test

var (
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrCardioIncomplete = errors.New("cardio time and calories must both be numbers")
	ErrWarmupIncomplete = errors.New("warm-up needs a mood and either all videos watched or mark complete")
	ErrInvalidMood      = errors.New("unknown mood")
	ErrNoExerciseTimer  = errors.New("exercise timer not started")
)

const (
	msgTwentyMinutesLeft = "20 minutes left, finish strong"
	msgWrapUp            = "Time to wrap up your workout"
	msgWarmupTimerDone   = "Warm-up time is up"
	msgExerciseTimerDone = "Exercise time is up, move on when ready"
	msgRestThirtySeconds = "30 seconds of rest left"
	msgRestComplete      = "Rest complete, next set"
)

type notifier interface {
	Notify(ctx context.Context, username string, level notify.Level, message string) error
}

type recorder interface {
	Record(ctx context.Context, event analytics.Event)
}

type Params struct {
	Identity     auth.Identity
	Store        *session.Store
	Notifier     notifier
	Recorder     recorder
	Metrics      *metrics.Manager
	WrapUpRepeat time.Duration

	// catalog defaults are used when left empty
	DefaultLogs         func() []session.ExerciseLog
	VideoKeys           []string
	ExerciseTimerFor    func(index int) time.Duration
	WarmupTimerDuration time.Duration
}

type Flow struct {
	identity       auth.Identity
	store          *session.Store
	notifier       notifier
	recorder       recorder
	metricsManager *metrics.Manager

	defaultLogs         func() []session.ExerciseLog
	videoKeys           []string
	exerciseTimerFor    func(index int) time.Duration
	warmupTimerDuration time.Duration

	mu            sync.Mutex
	engine        *progression.Engine
	sessionTimer  *timer.SessionTimer
	exerciseTimer *timer.Countdown
	restTimer     *timer.RestTimer
}

// State is what the client renders after every action.
type State struct {
	Session       session.WorkoutSession   `json:"session"`
	Route         string                   `json:"route"`
	Saving        bool                     `json:"saving"`
	SessionTimer  timer.SessionTimerState  `json:"session_timer"`
	ExerciseTimer *timer.CountdownState    `json:"exercise_timer,omitempty"`
	Rest          *timer.RestState         `json:"rest,omitempty"`
	Workout       progression.Overview     `json:"workout"`
	Videos        []progression.VideoState `json:"videos"`
}

func New(params Params) *Flow {
	f := &Flow{
		identity:            params.Identity,
		store:               params.Store,
		notifier:            params.Notifier,
		recorder:            params.Recorder,
		metricsManager:      params.Metrics,
		defaultLogs:         params.DefaultLogs,
		videoKeys:           params.VideoKeys,
		exerciseTimerFor:    params.ExerciseTimerFor,
		warmupTimerDuration: params.WarmupTimerDuration,
		sessionTimer:        timer.NewSessionTimer(params.WrapUpRepeat),
	}
	if f.defaultLogs == nil {
		f.defaultLogs = catalog.DefaultLogs
	}
	if f.videoKeys == nil {
		f.videoKeys = catalog.WarmupVideoKeys()
	}
	if f.exerciseTimerFor == nil {
		f.exerciseTimerFor = catalog.ExerciseTimerFor
	}
	if f.warmupTimerDuration <= 0 {
		f.warmupTimerDuration = catalog.WarmupTimerDuration
	}
	return f
}

// Load initializes today's session, seeds the default plan into empty logs and
// restores the clocks that belong to the session's phase.
func (f *Flow) Load(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.store.Initialize(ctx, nil)
	if err != nil {
		return err
	}

	if len(s.WorkoutData.Logs) == 0 {
		if s, err = f.store.Update(ctx, session.Patch{Logs: f.defaultLogs()}); err != nil {
			return fmt.Errorf("seed workout logs: %w", err)
		}
	}

	f.engine = progression.NewEngine(s.WorkoutData.Logs)

	// a crash between the last confirmation and the phase write leaves a finished plan in main
	if s.WarmupCompleted && s.CurrentPhase == phase.Main && f.engine.AllConfirmed() {
		if s, err = f.store.Update(ctx, session.Patch{CurrentPhase: session.Ptr(phase.Completed)}); err != nil {
			return fmt.Errorf("complete finished workout: %w", err)
		}
	}

	home := phase.Home(s.GateState())
	if s.CardioCompleted && home != phase.RoutePostWorkout {
		f.sessionTimer.Start()
	}
	switch home {
	case phase.RouteWarmup:
		if len(s.WarmupWatchedVideos) > 0 {
			f.startExerciseTimer(f.warmupTimerDuration)
		}
	case phase.RouteWorkout:
		f.startExerciseTimer(f.exerciseTimerFor(f.engine.ActiveIndex()))
	}

	f.store.StartAutoSave()
	log.Debugf("flow %s: loaded session %s in phase %s", f.identity.Username, s.Key(), s.CurrentPhase)
	return nil
}

func (f *Flow) Identity() auth.Identity {
	return f.identity
}

// SessionDate is the day of the loaded session, empty before Load.
func (f *Flow) SessionDate() string {
	s, err := f.store.Current()
	if err != nil {
		return ""
	}
	return s.SessionDate
}

func (f *Flow) State() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.store.Current()
	if err != nil {
		return State{}, err
	}
	return f.state(s), nil
}

// StartSessionTimer starts the session elapsed timer; later calls are no-ops.
func (f *Flow) StartSessionTimer(ctx context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.store.Current()
	if err != nil {
		return State{}, err
	}
	f.startSessionTimer(ctx, s)
	return f.state(s), nil
}

func (f *Flow) CompleteCardio(ctx context.Context, cardioTime, calories string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.store.Current()
	if err != nil {
		return State{}, err
	}
	if phase.Home(s.GateState()) != phase.RouteCardio {
		return f.state(s), ErrWrongPhase
	}

	cardioTime, calories = strings.TrimSpace(cardioTime), strings.TrimSpace(calories)
	if !isNumber(cardioTime) || !isNumber(calories) {
		return f.state(s), ErrCardioIncomplete
	}

	f.startSessionTimer(ctx, s)
	s, err = f.save(ctx, session.Patch{
		CardioTime:      &cardioTime,
		CardioCalories:  &calories,
		CardioCompleted: session.Ptr(true),
		CurrentPhase:    session.Ptr(phase.Warmup),
	})
	if err != nil {
		return State{}, err
	}

	f.record(ctx, s, analytics.EventCardioCompleted, map[string]any{
		"time":     cardioTime,
		"calories": calories,
	})

	return f.state(s), nil
}

// WatchVideo marks a warm-up video watched. Watching the first video starts the
// warm-up countdown.
func (f *Flow) WatchVideo(ctx context.Context, key string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.store.Current()
	if err != nil {
		return State{}, err
	}
	if phase.Home(s.GateState()) != phase.RouteWarmup {
		return f.state(s), ErrWrongPhase
	}

	chain := progression.NewVideoChain(f.videoKeys, s.WarmupWatchedVideos)
	startsTimer, err := chain.Watch(key)
	if err != nil {
		return f.state(s), err
	}

	patch := session.Patch{WarmupWatchedVideos: chain.Watched()}
	if chain.AllWatched() {
		patch.WarmupExercisesCompleted = session.Ptr(true)
	}
	if s, err = f.store.Update(ctx, patch); err != nil {
		return State{}, err
	}

	if startsTimer && f.exerciseTimer == nil {
		f.startExerciseTimer(f.warmupTimerDuration)
	}

	return f.state(s), nil
}

func (f *Flow) SetMood(ctx context.Context, mood session.Mood) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.store.Current()
	if err != nil {
		return State{}, err
	}
	if phase.Home(s.GateState()) != phase.RouteWarmup {
		return f.state(s), ErrWrongPhase
	}
	if !mood.Valid() {
		return f.state(s), ErrInvalidMood
	}

	if s, err = f.store.Update(ctx, session.Patch{WarmupMood: &mood}); err != nil {
		return State{}, err
	}
	return f.state(s), nil
}

// CompleteWarmup finishes the warm-up. It needs a mood, and either markComplete or
// every warm-up video watched.
func (f *Flow) CompleteWarmup(ctx context.Context, mood session.Mood, markComplete bool) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.store.Current()
	if err != nil {
		return State{}, err
	}
	if phase.Home(s.GateState()) != phase.RouteWarmup {
		return f.state(s), ErrWrongPhase
	}
	if mood == "" {
		mood = s.WarmupMood
	}
	if !mood.Valid() {
		return f.state(s), ErrWarmupIncomplete
	}

	allWatched := progression.NewVideoChain(f.videoKeys, s.WarmupWatchedVideos).AllWatched()
	if !markComplete && !allWatched {
		return f.state(s), ErrWarmupIncomplete
	}

	s, err = f.save(ctx, session.Patch{
		WarmupMood:               &mood,
		WarmupExercisesCompleted: session.Ptr(true),
		WarmupCompleted:          session.Ptr(true),
		CurrentPhase:             session.Ptr(phase.Main),
	})
	if err != nil {
		return State{}, err
	}

	f.record(ctx, s, analytics.EventWarmupCompleted, map[string]any{
		"mood":          string(mood),
		"mark_complete": markComplete,
		"videos":        len(s.WarmupWatchedVideos),
	})
	f.startExerciseTimer(f.exerciseTimerFor(f.engine.ActiveIndex()))

	return f.state(s), nil
}

// ChangeLog edits weight or reps of the current set; the write is debounced.
func (f *Flow) ChangeLog(
	ctx context.Context,
	exercise, set int,
	field progression.Field,
	value string,
	variant progression.Variant,
) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.mainSession()
	if err != nil {
		return f.state(s), err
	}

	logs, err := f.engine.OnLogChange(exercise, set, field, value, variant)
	if err != nil {
		return f.state(s), err
	}
	if s, err = f.store.Update(ctx, session.Patch{Logs: logs}); err != nil {
		return State{}, err
	}
	return f.state(s), nil
}

// CompleteSet confirms the current set and saves right away. The rest timer takes
// over unless this was the last set of the workout, which completes the session.
func (f *Flow) CompleteSet(ctx context.Context, exercise, set int, variant progression.Variant) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.mainSession()
	if err != nil {
		return f.state(s), err
	}

	res, err := f.engine.OnSetComplete(exercise, set, variant)
	if err != nil {
		return f.state(s), err
	}

	patch := session.Patch{Logs: res.Logs}
	if res.WorkoutCompleted {
		patch.CurrentPhase = session.Ptr(phase.Completed)
		f.exerciseTimer = nil
	} else {
		if f.exerciseTimer != nil {
			f.exerciseTimer.Pause()
		}
		f.restTimer = timer.NewRestTimer()
	}

	if s, err = f.save(ctx, patch); err != nil {
		return State{}, err
	}

	if f.metricsManager != nil {
		f.metricsManager.CounterSetsConfirmed.Inc()
	}
	confirmedSet := res.Logs[exercise].Sets[set]
	if variant == progression.VariantSubstitute {
		confirmedSet = res.Logs[exercise].Substitute.Sets[set]
	}
	f.record(ctx, s, analytics.EventSetConfirmed, map[string]any{
		"exercise": res.Logs[exercise].Name,
		"set":      set,
		"variant":  string(variant),
		"weight":   confirmedSet.Weight,
		"reps":     confirmedSet.Reps,
	})
	if res.WorkoutCompleted {
		f.sessionTimer.Stop()
		f.record(ctx, s, analytics.EventWorkoutCompleted, map[string]any{
			"elapsed_seconds": int(f.sessionTimer.Elapsed() / time.Second),
		})
	}

	return f.state(s), nil
}

func (f *Flow) SelectRest(_ context.Context, d time.Duration) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.restingSession()
	if err != nil {
		return f.state(s), err
	}
	if err := f.restTimer.Select(d); err != nil {
		return f.state(s), err
	}
	return f.state(s), nil
}

// ContinueRest skips the remaining rest time.
func (f *Flow) ContinueRest(_ context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.restingSession()
	if err != nil {
		return f.state(s), err
	}
	if err := f.restTimer.ContinueNow(); err != nil {
		return f.state(s), err
	}
	f.finishRest()
	return f.state(s), nil
}

// FeelGood skips the rest before any duration is picked.
func (f *Flow) FeelGood(_ context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.restingSession()
	if err != nil {
		return f.state(s), err
	}
	if err := f.restTimer.FeelGood(); err != nil {
		return f.state(s), err
	}
	f.finishRest()
	return f.state(s), nil
}

func (f *Flow) PauseExerciseTimer(_ context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.timedSession()
	if err != nil {
		return f.state(s), err
	}
	if phase.Home(s.GateState()) == phase.RouteWorkout {
		if err := f.engine.Pause(); err != nil {
			return f.state(s), err
		}
	}
	f.exerciseTimer.Pause()
	return f.state(s), nil
}

// ResumeExerciseTimer resumes a paused countdown, or starts one that was reset.
func (f *Flow) ResumeExerciseTimer(_ context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.timedSession()
	if err != nil {
		return f.state(s), err
	}
	if phase.Home(s.GateState()) == phase.RouteWorkout {
		if err := f.engine.Resume(); err != nil {
			return f.state(s), err
		}
	}
	f.exerciseTimer.Start()
	f.exerciseTimer.Resume()
	return f.state(s), nil
}

// ResetExerciseTimer returns the countdown to its full duration and stops it.
func (f *Flow) ResetExerciseTimer(_ context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.timedSession()
	if err != nil {
		return f.state(s), err
	}
	if f.engine.TimerState() == progression.TimerResting {
		return f.state(s), progression.ErrResting
	}
	f.exerciseTimer.Reset()
	return f.state(s), nil
}

// Save writes the session now, with pending edits.
func (f *Flow) Save(ctx context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.save(ctx, session.Patch{})
	if err != nil {
		return State{}, err
	}
	return f.state(s), nil
}

func (f *Flow) Route(path string) (phase.Decision, error) {
	s, err := f.store.Current()
	if err != nil {
		return phase.Decision{}, err
	}
	return phase.Decide(s.GateState(), path), nil
}

func (f *Flow) Exercise(index int) (*progression.ExerciseView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.engine == nil {
		return nil, session.ErrNotInitialized
	}
	return f.engine.ExerciseView(index)
}

// Tick advances every clock by one second and sends the resulting notifications.
func (f *Flow) Tick(ctx context.Context) {
	f.mu.Lock()
	messages := f.tick()
	f.mu.Unlock()

	for _, m := range messages {
		f.notify(ctx, m.level, m.text)
	}
}

// Close stops auto saving and flushes pending writes.
func (f *Flow) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.exerciseTimer = nil
	f.restTimer = nil
	return f.store.Close(ctx)
}

type message struct {
	level notify.Level
	text  string
}

func (f *Flow) tick() []message {
	var messages []message
	for _, e := range f.sessionTimer.Tick() {
		switch e {
		case timer.EventTwentyMinutesLeft:
			messages = append(messages, message{notify.LevelInfo, msgTwentyMinutesLeft})
		case timer.EventWrapUp:
			messages = append(messages, message{notify.LevelWarning, msgWrapUp})
		}
	}

	if f.exerciseTimer != nil {
		for range f.exerciseTimer.Tick() {
			if f.inMain() {
				messages = append(messages, message{notify.LevelWarning, msgExerciseTimerDone})
			} else {
				messages = append(messages, message{notify.LevelInfo, msgWarmupTimerDone})
			}
		}
	}

	if f.restTimer != nil {
		for _, e := range f.restTimer.Tick() {
			switch e {
			case timer.EventRestThirtySeconds:
				messages = append(messages, message{notify.LevelInfo, msgRestThirtySeconds})
			case timer.EventRestComplete:
				messages = append(messages, message{notify.LevelSuccess, msgRestComplete})
				f.finishRest()
			}
		}
	}

	return messages
}

func (f *Flow) inMain() bool {
	s, err := f.store.Current()
	return err == nil && phase.Home(s.GateState()) == phase.RouteWorkout
}

// finishRest hands control back to the exercise countdown, restarting it when the
// engine moved on to the next exercise.
func (f *Flow) finishRest() {
	f.restTimer = nil
	advanced, err := f.engine.FinishRest()
	if err != nil {
		log.Warnf("flow %s: finish rest: %s", f.identity.Username, err)
		return
	}
	if advanced || f.exerciseTimer == nil {
		f.startExerciseTimer(f.exerciseTimerFor(f.engine.ActiveIndex()))
		return
	}
	f.exerciseTimer.Resume()
}

func (f *Flow) startExerciseTimer(d time.Duration) {
	if f.exerciseTimer == nil {
		f.exerciseTimer = timer.NewCountdown(d)
		f.exerciseTimer.Start()
		return
	}
	f.exerciseTimer.Restart(d)
}

func (f *Flow) startSessionTimer(ctx context.Context, s session.WorkoutSession) {
	if phase.Home(s.GateState()) == phase.RoutePostWorkout {
		return
	}
	if f.sessionTimer.Start() {
		f.record(ctx, s, analytics.EventSessionStarted, nil)
	}
}

// mainSession returns the session when it is in the main workout phase.
func (f *Flow) mainSession() (session.WorkoutSession, error) {
	s, err := f.store.Current()
	if err != nil {
		return s, err
	}
	if phase.Home(s.GateState()) != phase.RouteWorkout {
		return s, ErrWrongPhase
	}
	return s, nil
}

func (f *Flow) restingSession() (session.WorkoutSession, error) {
	s, err := f.mainSession()
	if err != nil {
		return s, err
	}
	if f.restTimer == nil || f.engine.TimerState() != progression.TimerResting {
		return s, progression.ErrNotResting
	}
	return s, nil
}

// timedSession returns the session when an exercise countdown belongs to its phase.
func (f *Flow) timedSession() (session.WorkoutSession, error) {
	s, err := f.store.Current()
	if err != nil {
		return s, err
	}
	switch phase.Home(s.GateState()) {
	case phase.RouteWarmup, phase.RouteWorkout:
	default:
		return s, ErrWrongPhase
	}
	if f.exerciseTimer == nil {
		return s, ErrNoExerciseTimer
	}
	return s, nil
}

// save writes the patch and waits for it. Backend failures are already reported to
// the user by the store, so only a store that cannot take writes is an error here.
func (f *Flow) save(ctx context.Context, patch session.Patch) (session.WorkoutSession, error) {
	s, err := f.store.ManualSave(ctx, patch)
	if errors.Is(err, session.ErrNotInitialized) || errors.Is(err, session.ErrQueueClosed) {
		return s, err
	}
	if err != nil {
		log.Warnf("flow %s: save: %s", f.identity.Username, err)
	}
	return s, nil
}

func (f *Flow) record(ctx context.Context, s session.WorkoutSession, eventType analytics.EventType, data map[string]any) {
	if f.recorder == nil {
		return
	}
	f.recorder.Record(ctx, analytics.Event{
		Username:  f.identity.Username,
		SessionID: s.ID,
		Type:      eventType,
		Phase:     string(s.CurrentPhase),
		Data:      data,
	})
}

func (f *Flow) notify(ctx context.Context, level notify.Level, text string) {
	if f.notifier == nil {
		return
	}
	if err := f.notifier.Notify(ctx, f.identity.Username, level, text); err != nil {
		log.Errorf("flow %s: notify: %s", f.identity.Username, err)
	}
}

func (f *Flow) state(s session.WorkoutSession) State {
	st := State{
		Session:      s,
		Route:        phase.Home(s.GateState()),
		Saving:       f.store.Saving(),
		SessionTimer: f.sessionTimer.State(),
		Videos:       progression.NewVideoChain(f.videoKeys, s.WarmupWatchedVideos).States(),
	}
	if f.engine != nil {
		st.Workout = f.engine.Overview()
	}
	if f.exerciseTimer != nil {
		cs := f.exerciseTimer.State()
		st.ExerciseTimer = &cs
	}
	if f.restTimer != nil {
		rs := f.restTimer.State()
		st.Rest = &rs
	}
	return st
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
