package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/gymflow/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Insert stores the event. A second session_started or workout_completed event of the
// same session is skipped.
func (r *Repo) Insert(ctx context.Context, event Event) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.analytics.insert")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("event", string(event.Type)))

	data := event.Data
	if data == nil {
		data = map[string]any{}
	}
	dataJson, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	var sessionID *int
	if event.SessionID > 0 {
		sessionID = &event.SessionID
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO session_analytics (username, session_id, event, phase, data, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`, event.Username, sessionID, string(event.Type), event.Phase, dataJson, event.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}

	return nil
}

func (r *Repo) EventTotals(ctx context.Context, from, to time.Time) (_ map[EventType]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.analytics.totals")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT event, count(*)
		FROM session_analytics
		WHERE recorded_at >= $1 AND recorded_at < $2
		GROUP BY event
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[EventType]int)
	for rows.Next() {
		var (
			event string
			count int
		)
		if err := rows.Scan(&event, &count); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		totals[EventType(event)] = count
	}

	return totals, rows.Err()
}

func (r *Repo) DistinctUsers(ctx context.Context, from, to time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.analytics.users")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT count(DISTINCT username)
		FROM session_analytics
		WHERE recorded_at >= $1 AND recorded_at < $2
	`, from, to).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repo) EventsPerDay(ctx context.Context, event EventType, from, to time.Time) (_ []DayCount, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.analytics.perday")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("event", string(event)))

	rows, err := r.db.Query(ctx, `
		SELECT to_char(date_trunc('day', recorded_at), 'YYYY-MM-DD') AS day, count(*)
		FROM session_analytics
		WHERE event = $1 AND recorded_at >= $2 AND recorded_at < $3
		GROUP BY day
		ORDER BY day
	`, string(event), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []DayCount{}
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		days = append(days, dc)
	}

	return days, rows.Err()
}
