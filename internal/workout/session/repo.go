package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymflow/internal/telemetry/tracing"
	"github.com/2beens/gymflow/internal/workout/phase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const sessionColumns = `
	id, username, session_date::text, current_phase,
	cardio_completed, cardio_time, cardio_calories,
	warmup_completed, warmup_exercises_completed, warmup_mood, warmup_watched_videos,
	workout_data, created_at, updated_at`

// Repo persists workout sessions in postgres.
type Repo struct {
	db *pgxpool.Pool
	// DefaultLogs repairs malformed workout_data documents on load.
	DefaultLogs func() []ExerciseLog
}

func NewRepo(db *pgxpool.Pool, defaultLogs func() []ExerciseLog) *Repo {
	return &Repo{
		db:          db,
		DefaultLogs: defaultLogs,
	}
}

// FindLatestForDay returns the most recently updated session of the user for the given date.
func (r *Repo) FindLatestForDay(ctx context.Context, username, sessionDate string) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.find")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("session.date", sessionDate))

	date, err := time.Parse(DateLayout, sessionDate)
	if err != nil {
		return nil, fmt.Errorf("parse session date: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM workout_sessions
		WHERE username = $1 AND session_date = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`, username, date)

	s, err := r.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session %s: %w", Key(username, sessionDate), err)
	}

	return s, nil
}

// Insert persists a new session. An existing row for the same user and day is
// reused instead of duplicated, and its values are overwritten.
func (r *Repo) Insert(ctx context.Context, s WorkoutSession) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.insert")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	date, err := time.Parse(DateLayout, s.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("parse session date: %w", err)
	}
	workoutData, err := EncodeWorkoutData(s.WorkoutData.Logs)
	if err != nil {
		return nil, fmt.Errorf("marshal workout data: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO workout_sessions (
			username, session_date, current_phase,
			cardio_completed, cardio_time, cardio_calories,
			warmup_completed, warmup_exercises_completed, warmup_mood, warmup_watched_videos,
			workout_data
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (username, session_date) DO UPDATE SET
			current_phase = EXCLUDED.current_phase,
			cardio_completed = EXCLUDED.cardio_completed,
			cardio_time = EXCLUDED.cardio_time,
			cardio_calories = EXCLUDED.cardio_calories,
			warmup_completed = EXCLUDED.warmup_completed,
			warmup_exercises_completed = EXCLUDED.warmup_exercises_completed,
			warmup_mood = EXCLUDED.warmup_mood,
			warmup_watched_videos = EXCLUDED.warmup_watched_videos,
			workout_data = EXCLUDED.workout_data,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`,
		s.Username, date, string(s.CurrentPhase),
		s.CardioCompleted, s.CardioTime, s.CardioCalories,
		s.WarmupCompleted, s.WarmupExercisesCompleted, string(s.WarmupMood), s.WarmupWatchedVideos,
		workoutData,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert session %s: %w", s.Key(), err)
	}

	span.SetAttributes(attribute.Int("session.id", s.ID))
	return &s, nil
}

// Update overwrites the mutable fields of the session with the given id.
// session_date is never changed.
func (r *Repo) Update(ctx context.Context, s WorkoutSession) (_ time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.update")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("session.id", s.ID))

	workoutData, err := EncodeWorkoutData(s.WorkoutData.Logs)
	if err != nil {
		return time.Time{}, fmt.Errorf("marshal workout data: %w", err)
	}

	var updatedAt time.Time
	err = r.db.QueryRow(ctx, `
		UPDATE workout_sessions SET
			current_phase = $1,
			cardio_completed = $2,
			cardio_time = $3,
			cardio_calories = $4,
			warmup_completed = $5,
			warmup_exercises_completed = $6,
			warmup_mood = $7,
			warmup_watched_videos = $8,
			workout_data = $9,
			updated_at = now()
		WHERE id = $10
		RETURNING updated_at
	`,
		string(s.CurrentPhase),
		s.CardioCompleted, s.CardioTime, s.CardioCalories,
		s.WarmupCompleted, s.WarmupExercisesCompleted, string(s.WarmupMood), s.WarmupWatchedVideos,
		workoutData,
		s.ID,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrSessionNotFound
		}
		return time.Time{}, fmt.Errorf("update session %d: %w", s.ID, err)
	}

	return updatedAt, nil
}

func (r *Repo) scan(row pgx.Row) (*WorkoutSession, error) {
	var (
		s           WorkoutSession
		currPhase   string
		mood        string
		workoutData []byte
	)
	if err := row.Scan(
		&s.ID, &s.Username, &s.SessionDate, &currPhase,
		&s.CardioCompleted, &s.CardioTime, &s.CardioCalories,
		&s.WarmupCompleted, &s.WarmupExercisesCompleted, &mood, &s.WarmupWatchedVideos,
		&workoutData, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.CurrentPhase = phase.Phase(currPhase)
	s.WarmupMood = Mood(mood)

	data, repaired := DecodeWorkoutData(workoutData, r.DefaultLogs)
	if repaired {
		log.Warnf("session %s: malformed workout data replaced with default plan", s.Key())
	}
	s.WorkoutData = data
	s.Normalize()

	return &s, nil
}
