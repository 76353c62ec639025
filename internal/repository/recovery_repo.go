package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-task-manager/internal/model"
)

// RecoveryTokenRepository tracks consumed recovery tokens so each one can
// reset a password at most once. Markers expire together with the token
// itself, so the set stays small.
type RecoveryTokenRepository struct {
	client *redis.Client
}

func NewRecoveryTokenRepository(client *redis.Client) *RecoveryTokenRepository {
	return &RecoveryTokenRepository{client: client}
}

func recoveryKey(tokenID string) string {
	return "recovery:used:" + tokenID
}

// Consume marks the token as used. Returns model.ErrTokenAlreadyUsed when
// the marker was already present.
func (r *RecoveryTokenRepository) Consume(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}

	ok, err := r.client.SetNX(ctx, recoveryKey(tokenID), 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("mark recovery token used: %w", err)
	}
	if !ok {
		return model.ErrTokenAlreadyUsed
	}
	return nil
}
