package paymentwebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shoplivedeals/livedeals-backend/pkg/redis"
)

// IdempotencyGuard suppresses duplicate webhook deliveries across instances.
// The database status guard already makes replays harmless; this just avoids
// burning transactions on gateway retry storms.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, errors.New("session id is required")
	}
	key := g.store.IdempotencyKey(g.scope, sessionID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

func (g *IdempotencyGuard) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	key := g.store.IdempotencyKey(g.scope, sessionID)
	return g.store.Del(ctx, key)
}
