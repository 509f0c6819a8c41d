package flow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/telemetry/metrics"
	"github.com/2beens/gymflow/internal/workout/session"
	"github.com/2beens/gymflow/internal/workout/timer"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

type sessionRepo interface {
	FindLatestForDay(ctx context.Context, username, sessionDate string) (*session.WorkoutSession, error)
	Insert(ctx context.Context, s session.WorkoutSession) (*session.WorkoutSession, error)
	Update(ctx context.Context, s session.WorkoutSession) (time.Time, error)
}

type RegistryParams struct {
	Repo             sessionRepo
	Queue            *session.WriteQueue
	Notifier         notifier
	Recorder         recorder
	Metrics          *metrics.Manager
	Location         *time.Location
	AutoSaveInterval time.Duration
	WrapUpRepeat     time.Duration
	// NowFunc is injectable for tests
	NowFunc func() time.Time
}

// Registry keeps one flow per logged in user and drives all their clocks from a
// single ticker.
type Registry struct {
	params  RegistryParams
	loading singleflight.Group

	mu    sync.Mutex
	flows map[string]*Flow

	tickerCancel context.CancelFunc
	tickerDone   chan struct{}
}

func NewRegistry(params RegistryParams) *Registry {
	if params.Location == nil {
		params.Location = time.UTC
	}
	if params.NowFunc == nil {
		params.NowFunc = time.Now
	}
	if params.Queue == nil {
		params.Queue = session.NewWriteQueue(session.DefaultQuietPeriod, session.DefaultWriteDeadline)
	}
	return &Registry{
		params: params,
		flows:  make(map[string]*Flow),
	}
}

func (r *Registry) today() string {
	return session.DateIn(r.params.NowFunc(), r.params.Location)
}

// Get returns the flow of the user, loading it on first use. A flow of an earlier
// day is replaced by one for today.
func (r *Registry) Get(ctx context.Context, identity auth.Identity) (*Flow, error) {
	if f := r.lookup(identity.Username); f != nil {
		return f, nil
	}

	v, err, _ := r.loading.Do(identity.Username, func() (any, error) {
		if f := r.lookup(identity.Username); f != nil {
			return f, nil
		}

		f := r.newFlow(identity)
		if err := f.Load(ctx); err != nil {
			return nil, fmt.Errorf("load flow for %s: %w", identity.Username, err)
		}

		r.mu.Lock()
		stale := r.flows[identity.Username]
		r.flows[identity.Username] = f
		r.updateGauge()
		r.mu.Unlock()

		if stale != nil {
			log.Debugf("flow %s: replacing flow of %s", identity.Username, stale.SessionDate())
			if err := stale.Close(ctx); err != nil {
				log.Errorf("flow %s: close stale flow: %s", identity.Username, err)
			}
		}

		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Flow), nil
}

// lookup returns the user's flow if it belongs to today.
func (r *Registry) lookup(username string) *Flow {
	r.mu.Lock()
	f, ok := r.flows[username]
	r.mu.Unlock()
	if !ok || f.SessionDate() != r.today() {
		return nil
	}
	return f
}

func (r *Registry) newFlow(identity auth.Identity) *Flow {
	store := session.NewStore(session.StoreParams{
		Repo:             r.params.Repo,
		Notifier:         r.params.Notifier,
		Metrics:          r.params.Metrics,
		Queue:            r.params.Queue,
		Username:         identity.Username,
		Today:            r.today,
		AutoSaveInterval: r.params.AutoSaveInterval,
	})
	return New(Params{
		Identity:     identity,
		Store:        store,
		Notifier:     r.params.Notifier,
		Recorder:     r.params.Recorder,
		Metrics:      r.params.Metrics,
		WrapUpRepeat: r.params.WrapUpRepeat,
	})
}

// Drop tears down the user's flow, flushing pending writes. It is called on logout.
func (r *Registry) Drop(ctx context.Context, identity auth.Identity) {
	r.mu.Lock()
	f, ok := r.flows[identity.Username]
	delete(r.flows, identity.Username)
	r.updateGauge()
	r.mu.Unlock()

	if !ok {
		return
	}
	if err := f.Close(ctx); err != nil {
		log.Errorf("flow %s: close: %s", identity.Username, err)
		return
	}
	log.Debugf("flow %s: dropped", identity.Username)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Tick advances the clocks of every flow once. Flows of an earlier day are closed
// and removed, so users who never come back stop being saved and ticked.
func (r *Registry) Tick(ctx context.Context) {
	today := r.today()

	r.mu.Lock()
	flows := make([]*Flow, 0, len(r.flows))
	stale := make(map[string]*Flow)
	for username, f := range r.flows {
		if f.SessionDate() != today {
			delete(r.flows, username)
			stale[username] = f
			continue
		}
		flows = append(flows, f)
	}
	if len(stale) > 0 {
		r.updateGauge()
	}
	r.mu.Unlock()

	for username, f := range stale {
		// the flush must survive a ticker being stopped mid tick
		if err := f.Close(context.WithoutCancel(ctx)); err != nil {
			log.Errorf("flow %s: close flow of %s: %s", username, f.SessionDate(), err)
			continue
		}
		log.Debugf("flow %s: evicted flow of %s", username, f.SessionDate())
	}

	for _, f := range flows {
		f.Tick(ctx)
	}
}

func (r *Registry) StartTicker() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tickerCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.tickerCancel = cancel
	r.tickerDone = done
	go func() {
		defer close(done)
		timer.Run(ctx, timer.TickInterval, func() {
			r.Tick(ctx)
		})
	}()
}

// Close stops the ticker and closes every flow.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.tickerCancel, r.tickerDone
	r.tickerCancel, r.tickerDone = nil, nil
	flows := r.flows
	r.flows = make(map[string]*Flow)
	r.updateGauge()
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	var errs error
	for username, f := range flows {
		if err := f.Close(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close flow %s: %w", username, err))
		}
	}
	log.Debugf("flows registry closed, %d flows", len(flows))
	return errs
}

func (r *Registry) updateGauge() {
	if r.params.Metrics != nil {
		r.params.Metrics.GaugeActiveFlows.Set(float64(len(r.flows)))
	}
}
