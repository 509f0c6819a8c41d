package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/gymflow/internal/telemetry/metrics"
	"github.com/2beens/gymflow/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	keyPrefix      = "gymflow-notifications||"
	DefaultMaxKept = 50
	DefaultTTL     = time.Hour
)

// Notification is a transient message shown to the user ("toast").
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier keeps a capped, expiring list of pending notifications per user in redis.
type Notifier struct {
	redisClient    *redis.Client
	metricsManager *metrics.Manager
	maxKept        int64
	ttl            time.Duration

	// injectable for tests
	IDFunc  func() uuid.UUID
	NowFunc func() time.Time
}

func NewNotifier(redisClient *redis.Client, metricsManager *metrics.Manager) *Notifier {
	return &Notifier{
		redisClient:    redisClient,
		metricsManager: metricsManager,
		maxKept:        DefaultMaxKept,
		ttl:            DefaultTTL,
		IDFunc:         uuid.New,
		NowFunc:        time.Now,
	}
}

func key(username string) string {
	return keyPrefix + username
}

func (n *Notifier) Notify(ctx context.Context, username string, level Level, message string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notify.notify")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	notification := Notification{
		ID:        n.IDFunc(),
		Level:     level,
		Message:   message,
		CreatedAt: n.NowFunc(),
	}
	notificationJson, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	k := key(username)
	if err := n.redisClient.RPush(ctx, k, string(notificationJson)).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	if err := n.redisClient.LTrim(ctx, k, -n.maxKept, -1).Err(); err != nil {
		return fmt.Errorf("trim notifications: %w", err)
	}
	if err := n.redisClient.Expire(ctx, k, n.ttl).Err(); err != nil {
		return fmt.Errorf("expire notifications: %w", err)
	}

	if n.metricsManager != nil {
		n.metricsManager.CounterNotifications.WithLabelValues(string(level)).Inc()
	}
	log.Debugf("notification [%s] for %s: %s", level, username, message)

	return nil
}

// Drain returns all pending notifications of the user, oldest first, and removes them.
func (n *Notifier) Drain(ctx context.Context, username string) (_ []Notification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notify.drain")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	k := key(username)
	raw, err := n.redisClient.LRange(ctx, k, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}
	if err := n.redisClient.Del(ctx, k).Err(); err != nil {
		return nil, fmt.Errorf("delete notifications: %w", err)
	}

	notifications := make([]Notification, 0, len(raw))
	for _, r := range raw {
		var notification Notification
		if err := json.Unmarshal([]byte(r), &notification); err != nil {
			log.Errorf("drop malformed notification for %s: %s", username, err)
			continue
		}
		notifications = append(notifications, notification)
	}

	return notifications, nil
}
