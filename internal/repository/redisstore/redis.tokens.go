package redisstore

import (
	"context"
	stderrors "errors"

	"github.com/itsatony/irrigador/internal/errors"
	"github.com/redis/go-redis/v9"
)

// TokenStore reads session tokens written by the login service as
// "<prefix><token>" -> user id.
type TokenStore struct {
	client *redis.Client
	prefix string
}

func NewTokenStore(client *redis.Client, prefix string) *TokenStore {
	return &TokenStore{client: client, prefix: prefix}
}

func (s *TokenStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return "", errors.NewAuthError("invalid token", nil)
		}
		return "", errors.NewDatabaseError("failed to look up session token", err)
	}
	if userID == "" {
		return "", errors.NewAuthError("invalid token", nil)
	}
	return userID, nil
}
