package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymflow/internal/telemetry/tracing"
	"github.com/2beens/gymflow/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymflow-session||"
	tokensSetKey     = "gymflow-sessions"
)

var (
	ErrWrongCredentials = errors.New("wrong username or password")
	ErrNotLogged        = errors.New("not logged in")
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginSession is what gets stored in redis for every issued token.
type loginSession struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

type usersRepo interface {
	GetUser(ctx context.Context, username string) (*User, error)
}

type Service struct {
	usersRepo   usersRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	usersRepo usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		usersRepo:      usersRepo,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (_ string, _ *Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	user, err := as.usersRepo.GetUser(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrWrongCredentials
		}
		return "", nil, err
	}
	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return "", nil, ErrWrongCredentials
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", nil, err
	}

	identity := Identity{
		Username: user.Username,
		Role:     user.Role(),
	}
	sessionJson, err := json.Marshal(loginSession{
		Username:  identity.Username,
		Role:      identity.Role,
		CreatedAt: createdAt.Unix(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("marshal login session: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, sessionJson, as.ttl)
	if err := cmdSet.Err(); err != nil {
		return "", nil, err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", nil, err
	}

	return token, &identity, nil
}

func (as *Service) Logout(ctx context.Context, token string) (_ *Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.logout")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	sessionKey := sessionKeyPrefix + token
	session, err := getLoginSession(ctx, as.redisClient, sessionKey)
	if err != nil {
		return nil, err
	}

	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return nil, err
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return nil, err
	}

	return &Identity{
		Username: session.Username,
		Role:     session.Role,
	}, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		session, err := getLoginSession(ctx, as.redisClient, sessionKeyPrefix+token)
		if err != nil {
			if errors.Is(err, ErrNotLogged) {
				// expired by redis already, only the set member is left
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		createdAt := time.Unix(session.CreatedAt, 0)
		if time.Since(createdAt) > as.ttl {
			log.Debugf("=>\twill clean the session of user: %s", session.Username)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
	}
}

func getLoginSession(ctx context.Context, rdb *redis.Client, sessionKey string) (*loginSession, error) {
	cmd := rdb.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotLogged
		}
		return nil, err
	}

	session := &loginSession{}
	if err := json.Unmarshal([]byte(cmd.Val()), session); err != nil {
		return nil, fmt.Errorf("unmarshal login session: %w", err)
	}
	return session, nil
}
