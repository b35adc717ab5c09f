package redis

import (
	"context"
	"errors"

	seau_errors "sea-u/pkg/errors"

	goredis "github.com/redis/go-redis/v9"
)

// KVStore keeps opaque blobs (settings, flags) without expiry.
type KVStore struct {
	client *goredis.Client
}

func NewKVStore(client *goredis.Client) *KVStore {
	return &KVStore{client: client}
}

// Get returns ErrNotFound for a missing key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, seau_errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}
