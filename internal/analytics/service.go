package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/2beens/gymflow/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=analytics_test

type analyticsRepo interface {
	Insert(ctx context.Context, event Event) error
	EventTotals(ctx context.Context, from, to time.Time) (map[EventType]int, error)
	DistinctUsers(ctx context.Context, from, to time.Time) (int, error)
	EventsPerDay(ctx context.Context, event EventType, from, to time.Time) ([]DayCount, error)
}

type Service struct {
	repo analyticsRepo
	// injectable for tests
	NowFunc func() time.Time
}

func NewService(repo analyticsRepo) *Service {
	return &Service{
		repo:    repo,
		NowFunc: time.Now,
	}
}

// Record stores the event. Analytics never break the workout flow, so failures are only logged.
func (s *Service) Record(ctx context.Context, event Event) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.analytics.record")
	defer span.End()

	if event.RecordedAt.IsZero() {
		event.RecordedAt = s.NowFunc()
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		span.RecordError(err)
		log.Errorf("record analytics event %s for %s: %s", event.Type, event.Username, err)
	}
}

func (s *Service) Summary(ctx context.Context, from, to time.Time) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.analytics.summary")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	totals, err := s.repo.EventTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("event totals: %w", err)
	}
	users, err := s.repo.DistinctUsers(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("distinct users: %w", err)
	}
	perDay, err := s.repo.EventsPerDay(ctx, EventSessionStarted, from, to)
	if err != nil {
		return nil, fmt.Errorf("sessions per day: %w", err)
	}

	var rate float64
	if started := totals[EventSessionStarted]; started > 0 {
		rate = math.Round(10000*float64(totals[EventWorkoutCompleted])/float64(started)) / 10000
	}

	return &Summary{
		From:           from,
		To:             to,
		EventTotals:    totals,
		DistinctUsers:  users,
		SessionsPerDay: perDay,
		CompletionRate: rate,
	}, nil
}
