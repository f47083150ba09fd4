package cachesessionrepo

import (
	"context"
	"docmanager/internal/models"
	cacherepo "docmanager/internal/repositories/cache"
	"time"
)

const keyPrefix = "session:"

// repository keeps one entry per issued token, keyed by the token id, so a
// deleted entry revokes the token before it expires.
type repository struct {
	cache      cacherepo.KV
	sessionTTL time.Duration
}

func New(cache cacherepo.KV, sessionTTL time.Duration) *repository {
	return &repository{
		cache:      cache,
		sessionTTL: sessionTTL,
	}
}

func (r *repository) SaveSession(ctx context.Context, sessionID string, userJSON string) error {
	return r.cache.Set(ctx, keyPrefix+sessionID, userJSON, r.sessionTTL).Err()
}

func (r *repository) DeleteSession(ctx context.Context, sessionID string) error {
	removed, err := r.cache.Del(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		return err
	}

	if removed == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}

func (r *repository) UserBySession(ctx context.Context, sessionID string) (string, error) {
	userJSON, err := r.cache.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		return "", err
	}

	if userJSON == "" {
		return "", models.ErrSessionNotFound
	}

	return userJSON, nil
}
