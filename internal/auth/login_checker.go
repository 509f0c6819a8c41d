package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// Identity resolves the user behind the given token.
// ErrNotLogged is returned for unknown or expired tokens.
func (c *LoginChecker) Identity(ctx context.Context, token string) (*Identity, error) {
	session, err := getLoginSession(ctx, c.redisClient, sessionKeyPrefix+token)
	if err != nil {
		return nil, err
	}

	createdAt := time.Unix(session.CreatedAt, 0)
	if time.Since(createdAt) > c.ttl {
		return nil, ErrNotLogged
	}

	return &Identity{
		Username: session.Username,
		Role:     session.Role,
	}, nil
}

func IsNotLogged(err error) bool {
	return errors.Is(err, ErrNotLogged)
}
