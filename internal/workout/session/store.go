package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2beens/gymflow/internal/notify"
	"github.com/2beens/gymflow/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=session_test

const DefaultAutoSaveInterval = 30 * time.Second

var ErrNotInitialized = errors.New("workout session not initialized")

type sessionRepo interface {
	FindLatestForDay(ctx context.Context, username, sessionDate string) (*WorkoutSession, error)
	Insert(ctx context.Context, s WorkoutSession) (*WorkoutSession, error)
	Update(ctx context.Context, s WorkoutSession) (time.Time, error)
}

type notifier interface {
	Notify(ctx context.Context, username string, level notify.Level, message string) error
}

type StoreParams struct {
	Repo             sessionRepo
	Notifier         notifier
	Metrics          *metrics.Manager
	Queue            *WriteQueue
	Username         string
	Today            func() string
	AutoSaveInterval time.Duration
}

// Store owns the workout session of one user for the current day.
// In-memory state is updated synchronously; persistence goes through the write queue
// and is never rolled back on failure.
type Store struct {
	repo             sessionRepo
	notifier         notifier
	metricsManager   *metrics.Manager
	queue            *WriteQueue
	username         string
	today            func() string
	autoSaveInterval time.Duration

	mu      sync.RWMutex
	session *WorkoutSession
	saving  atomic.Int32

	autoSaveCancel context.CancelFunc
	autoSaveDone   chan struct{}
}

func NewStore(params StoreParams) *Store {
	autoSaveInterval := params.AutoSaveInterval
	if autoSaveInterval <= 0 {
		autoSaveInterval = DefaultAutoSaveInterval
	}
	queue := params.Queue
	if queue == nil {
		queue = NewWriteQueue(DefaultQuietPeriod, DefaultWriteDeadline)
	}
	today := params.Today
	if today == nil {
		today = func() string {
			return DateIn(time.Now(), time.UTC)
		}
	}

	return &Store{
		repo:             params.Repo,
		notifier:         params.Notifier,
		metricsManager:   params.Metrics,
		queue:            queue,
		username:         params.Username,
		today:            today,
		autoSaveInterval: autoSaveInterval,
	}
}

// Initialize adopts existing when given. Otherwise it loads the latest session of the
// user for today, or creates and persists a fresh one.
func (s *Store) Initialize(ctx context.Context, existing *WorkoutSession) (WorkoutSession, error) {
	if existing != nil {
		adopted := existing.Clone()
		adopted.Normalize()
		s.set(adopted)
		return adopted.Clone(), nil
	}

	sessionDate := s.today()
	found, err := s.repo.FindLatestForDay(ctx, s.username, sessionDate)
	if err == nil {
		s.set(*found)
		return found.Clone(), nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		s.reportError(ctx, "Failed to load workout session")
		return WorkoutSession{}, fmt.Errorf("load session: %w", err)
	}

	fresh := New(s.username, sessionDate)
	s.set(fresh)
	log.Debugf("session %s: creating new session", fresh.Key())

	// a failed insert is retried by the next persist, since the session still has no id
	_ = s.queue.Sync(ctx, fresh.Key(), Patch{}, s.flush)

	return s.Current()
}

// Update applies the patch in memory and schedules a debounced write.
func (s *Store) Update(ctx context.Context, patch Patch) (WorkoutSession, error) {
	next, err := s.apply(patch)
	if err != nil {
		return WorkoutSession{}, err
	}
	if err := s.queue.Enqueue(next.Key(), patch, s.flush); err != nil {
		return next, err
	}
	return next, nil
}

// ManualSave applies the patch and waits until the session is written.
func (s *Store) ManualSave(ctx context.Context, patch Patch) (WorkoutSession, error) {
	next, err := s.apply(patch)
	if err != nil {
		return WorkoutSession{}, err
	}
	if err := s.queue.Sync(ctx, next.Key(), patch, s.flush); err != nil {
		return s.currentOrEmpty(), err
	}
	return s.currentOrEmpty(), nil
}

func (s *Store) Current() (WorkoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return WorkoutSession{}, ErrNotInitialized
	}
	return s.session.Clone(), nil
}

// Saving reports whether a write is in progress or scheduled.
func (s *Store) Saving() bool {
	if s.saving.Load() > 0 {
		return true
	}
	curr, err := s.Current()
	if err != nil {
		return false
	}
	return s.queue.Pending(curr.Key())
}

// RunAutoSave persists the session every interval, changed or not, until ctx is done.
func (s *Store) RunAutoSave(ctx context.Context) {
	ticker := time.NewTicker(s.autoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			curr, err := s.Current()
			if err != nil {
				continue
			}
			if err := s.queue.Sync(ctx, curr.Key(), Patch{}, s.flush); err != nil && !errors.Is(err, context.Canceled) {
				log.Debugf("session %s: auto save: %s", curr.Key(), err)
			}
		}
	}
}

func (s *Store) StartAutoSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autoSaveCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.autoSaveCancel = cancel
	s.autoSaveDone = done
	go func() {
		defer close(done)
		s.RunAutoSave(ctx)
	}()
}

// Close stops auto saving and flushes pending writes.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.autoSaveCancel, s.autoSaveDone
	s.autoSaveCancel, s.autoSaveDone = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	curr, err := s.Current()
	if err != nil {
		return nil
	}
	return s.queue.Flush(ctx, curr.Key())
}

func (s *Store) set(session WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &session
}

func (s *Store) currentOrEmpty() WorkoutSession {
	curr, _ := s.Current()
	return curr
}

func (s *Store) apply(patch Patch) (WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return WorkoutSession{}, ErrNotInitialized
	}

	prevPhase := s.session.CurrentPhase
	next := Apply(*s.session, patch)
	s.session = &next

	if next.CurrentPhase != prevPhase && s.metricsManager != nil {
		s.metricsManager.CounterPhaseTransitions.WithLabelValues(string(next.CurrentPhase)).Inc()
	}

	return next.Clone(), nil
}

// flush writes the current in-memory session; the merged patch is already applied to it.
func (s *Store) flush(ctx context.Context, _ Patch) error {
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	snapshot, err := s.Current()
	if err != nil {
		return err
	}

	s.saving.Add(1)
	log.Debugf("session %s: saving: true", snapshot.Key())
	start := time.Now()
	defer func() {
		s.saving.Add(-1)
		log.Debugf("session %s: saving: false", snapshot.Key())
	}()

	if snapshot.ID == 0 {
		var inserted *WorkoutSession
		inserted, err = s.repo.Insert(ctx, snapshot)
		if err == nil {
			s.mu.Lock()
			if s.session.ID == 0 {
				s.session.ID = inserted.ID
				s.session.CreatedAt = inserted.CreatedAt
			}
			s.session.UpdatedAt = inserted.UpdatedAt
			s.mu.Unlock()
		}
	} else {
		var updatedAt time.Time
		updatedAt, err = s.repo.Update(ctx, snapshot)
		if err == nil {
			s.mu.Lock()
			s.session.UpdatedAt = updatedAt
			s.mu.Unlock()
		}
	}

	if s.metricsManager != nil {
		s.metricsManager.HistSessionSaveDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		s.countSave("error")
		log.Errorf("session %s: save failed: %s", snapshot.Key(), err)
		s.reportError(ctx, "Failed to save workout session")
		return fmt.Errorf("persist session %s: %w", snapshot.Key(), err)
	}

	s.countSave("ok")
	return nil
}

func (s *Store) countSave(result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterSessionSaves.WithLabelValues(result).Inc()
	}
}

func (s *Store) reportError(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	// the request context may already be gone when a debounced write fails
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := s.notifier.Notify(ctx, s.username, notify.LevelError, message); err != nil {
		log.Errorf("notify %s: %s", s.username, err)
	}
}
