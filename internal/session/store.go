package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

// Store persists the server side half of a session.
type Store interface {
	Load(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	Destroy(ctx context.Context, id uuid.UUID) error
}

type redisStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewStore(c cache.Cache, ttl time.Duration) Store {
	return &redisStore{cache: c, ttl: ttl}
}

// Load never reports a miss: an unknown or expired id yields a fresh session.
func (s *redisStore) Load(ctx context.Context, id uuid.UUID) (*models.Session, error) {

	sess := models.NewSession(id)

	if _, err := s.cache.Get(ctx, key(id), sess); err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	sess.ID = id

	return sess, nil
}

func (s *redisStore) Save(ctx context.Context, sess *models.Session) error {
	if err := s.cache.Set(ctx, key(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	return nil
}

func (s *redisStore) Destroy(ctx context.Context, id uuid.UUID) error {
	if err := s.cache.Delete(ctx, key(id)); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}

	return nil
}

func key(id uuid.UUID) string {
	return cache.Key(cache.SessionKeyPrefix, id.String())
}
