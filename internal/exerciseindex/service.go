package exerciseindex

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/notify"
	"github.com/2beens/gymflow/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=exerciseindex_test

const (
	DefaultCacheTTL    = 5 * time.Minute
	DefaultCacheSizeMB = 10

	listCacheKey = "exercise-index||all"
)

type itemsRepo interface {
	ListAll(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int) (*Item, error)
	Add(ctx context.Context, item Item) (*Item, error)
	Update(ctx context.Context, id int, patch ItemPatch) (*Item, error)
	Delete(ctx context.Context, id int) error
}

type notifier interface {
	Notify(ctx context.Context, username string, level notify.Level, message string) error
}

// Service fronts the exercise index with a cached full list. Writes fail loosely:
// backend errors are logged and notified, and the caller gets an empty result.
type Service struct {
	repo     itemsRepo
	notifier notifier
	cache    *freecache.Cache
	cacheTTL time.Duration
}

func NewService(repo itemsRepo, notifier notifier, cacheSizeMB int, cacheTTL time.Duration) *Service {
	if cacheSizeMB <= 0 {
		cacheSizeMB = DefaultCacheSizeMB
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	megabyte := 1024 * 1024
	return &Service{
		repo:     repo,
		notifier: notifier,
		cache:    freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTL: cacheTTL,
	}
}

func (s *Service) listAll(ctx context.Context) ([]Item, error) {
	if cached, err := s.cache.Get([]byte(listCacheKey)); err == nil {
		var items []Item
		if err := json.Unmarshal(cached, &items); err == nil {
			log.Tracef("exercise index: %d items from cache", len(items))
			return items, nil
		} else {
			log.Errorf("exercise index: unmarshal cached list: %s", err)
		}
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	itemsJson, err := json.Marshal(items)
	if err != nil {
		log.Errorf("exercise index: marshal list for cache: %s", err)
		return items, nil
	}
	if err := s.cache.Set([]byte(listCacheKey), itemsJson, int(s.cacheTTL.Seconds())); err != nil {
		log.Errorf("exercise index: set list cache: %s", err)
	}

	return items, nil
}

func (s *Service) invalidate() {
	s.cache.Del([]byte(listCacheKey))
}

// Fetch returns the filtered exercises, ordered by category, subcategory and name.
func (s *Service) Fetch(ctx context.Context, filters Filters) (_ []Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exerciseindex.fetch")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	items, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(items, filters), nil
}

func (s *Service) Grouped(ctx context.Context) (_ map[string]map[string][]Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exerciseindex.grouped")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	items, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	return Grouped(Filter(items, Filters{})), nil
}

// Add inserts the exercise created by identity. Nil means the insert failed.
func (s *Service) Add(ctx context.Context, identity auth.Identity, item Item) *Item {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exerciseindex.add")
	defer span.End()

	item.CreatedBy = identity.Username
	if !identity.IsAdmin() {
		item.IsCustom = true
	}

	added, err := s.repo.Add(ctx, item)
	if err != nil {
		span.RecordError(err)
		s.fail(ctx, identity, "add", err)
		return nil
	}

	s.invalidate()
	return added
}

// Update changes the exercise. Only admins and the creator of a custom exercise may do so.
// A nil item without error means the update failed on the backend.
func (s *Service) Update(ctx context.Context, identity auth.Identity, id int, patch ItemPatch) (*Item, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exerciseindex.update")
	defer span.End()

	if err := s.checkCanModify(ctx, identity, id); err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrForbidden) {
			return nil, err
		}
		s.fail(ctx, identity, "update", err)
		return nil, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
		span.RecordError(err)
		s.fail(ctx, identity, "update", err)
		return nil, nil
	}

	s.invalidate()
	return updated, nil
}

// Delete removes the exercise; false without error means the backend failed.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, id int) (bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exerciseindex.delete")
	defer span.End()

	if err := s.checkCanModify(ctx, identity, id); err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrForbidden) {
			return false, err
		}
		s.fail(ctx, identity, "delete", err)
		return false, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return false, err
		}
		span.RecordError(err)
		s.fail(ctx, identity, "delete", err)
		return false, nil
	}

	s.invalidate()
	return true, nil
}

func (s *Service) checkCanModify(ctx context.Context, identity auth.Identity, id int) error {
	if identity.IsAdmin() {
		return nil
	}
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsCustom || item.CreatedBy != identity.Username {
		return ErrForbidden
	}
	return nil
}

func (s *Service) fail(ctx context.Context, identity auth.Identity, action string, err error) {
	log.Errorf("exercise index %s by %s: %s", action, identity.Username, err)
	if s.notifier == nil {
		return
	}
	if nErr := s.notifier.Notify(ctx, identity.Username, notify.LevelError, "Failed to "+action+" exercise"); nErr != nil {
		log.Errorf("notify %s: %s", identity.Username, nErr)
	}
}
