package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// RedisThreatStore keeps the log as a redis list of JSON documents plus a set of IDs.
type RedisThreatStore struct {
	client  redis.UniversalClient
	listKey string
	idsKey  string
}

func NewRedisThreatStore(client redis.UniversalClient, prefix string) *RedisThreatStore {
	return &RedisThreatStore{
		client:  client,
		listKey: prefix + ":threats",
		idsKey:  prefix + ":threat_ids",
	}
}

func (s *RedisThreatStore) List(ctx context.Context) ([]model.Threat, error) {
	raw, err := s.client.LRange(ctx, s.listKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing threats: %w", err)
	}

	threats := make([]model.Threat, 0, len(raw))
	for _, r := range raw {
		var t model.Threat
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			return nil, fmt.Errorf("decoding threat: %w", err)
		}
		threats = append(threats, t)
	}
	return threats, nil
}

func (s *RedisThreatStore) Append(ctx context.Context, threat model.Threat) error {
	data, err := json.Marshal(threat)
	if err != nil {
		return fmt.Errorf("encoding threat: %w", err)
	}

	added, err := s.client.SAdd(ctx, s.idsKey, threat.ID).Result()
	if err != nil {
		return fmt.Errorf("reserving threat id: %w", err)
	}
	if added == 0 {
		return ErrDuplicateID
	}

	if err := s.client.RPush(ctx, s.listKey, data).Err(); err != nil {
		s.client.SRem(ctx, s.idsKey, threat.ID)
		return fmt.Errorf("appending threat: %w", err)
	}
	return nil
}

func (s *RedisThreatStore) Delete(ctx context.Context, id string) error {
	raw, err := s.client.LRange(ctx, s.listKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("listing threats: %w", err)
	}

	for _, r := range raw {
		var t model.Threat
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			continue
		}
		if t.ID != id {
			continue
		}
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LRem(ctx, s.listKey, 1, r)
			pipe.SRem(ctx, s.idsKey, id)
			return nil
		})
		if err != nil {
			return fmt.Errorf("deleting threat: %w", err)
		}
		return nil
	}
	return ErrNotFound
}

func (s *RedisThreatStore) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.idsKey, id).Result()
	if err != nil {
		return false, fmt.Errorf("checking threat id: %w", err)
	}
	return ok, nil
}

func (s *RedisThreatStore) Replace(ctx context.Context, threats []model.Threat) error {
	docs := make([]any, 0, len(threats))
	ids := make([]any, 0, len(threats))
	for _, t := range threats {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding threat: %w", err)
		}
		docs = append(docs, data)
		ids = append(ids, t.ID)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.listKey, s.idsKey)
		if len(docs) > 0 {
			pipe.RPush(ctx, s.listKey, docs...)
			pipe.SAdd(ctx, s.idsKey, ids...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing threats: %w", err)
	}
	return nil
}

// RedisRecipientStore keeps the alert recipient under a single key.
type RedisRecipientStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisRecipientStore(client redis.UniversalClient, prefix string) *RedisRecipientStore {
	return &RedisRecipientStore{client: client, key: prefix + ":alert_recipient"}
}

func (s *RedisRecipientStore) Get(ctx context.Context) (string, error) {
	email, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading recipient: %w", err)
	}
	return email, nil
}

func (s *RedisRecipientStore) Set(ctx context.Context, email string) error {
	var err error
	if email == "" {
		err = s.client.Del(ctx, s.key).Err()
	} else {
		err = s.client.Set(ctx, s.key, email, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("writing recipient: %w", err)
	}
	return nil
}
