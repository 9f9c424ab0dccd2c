package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/pkg/config"
)

var _ ports.SessionStore = (*RedisStore)(nil)

const keyPrefix = "session:"

// RedisStore magasin de sessions côté serveur sur Redis. Le TTL de chaque clé
// vaut le timeout d'inactivité : Redis évince seul les sessions inactives, et
// chaque lecture réussie repousse l'échéance.
type RedisStore struct {
	client      *redis.Client
	idleTimeout time.Duration
}

// NewRedisStore construit le magasin de sessions.
func NewRedisStore(client *redis.Client, idleTimeout time.Duration) *RedisStore {
	return &RedisStore{client: client, idleTimeout: idleTimeout}
}

// NewClient crée le client Redis depuis la configuration et vérifie la
// connexion.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Create enregistre la session sous un identifiant opaque de 128 bits.
func (s *RedisStore) Create(ctx context.Context, data ports.SessionData) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.idleTimeout).Err(); err != nil {
		return "", fmt.Errorf("set session: %w", err)
	}
	return id, nil
}

// Get retourne la session ou (nil, nil) si elle est absente ou évincée par le
// timeout d'inactivité. Une lecture réussie rafraîchit le TTL.
func (s *RedisStore) Get(ctx context.Context, id string) (*ports.SessionData, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var data ports.SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	// Fenêtre glissante : chaque requête authentifiée repousse l'expiration.
	if err := s.client.Expire(ctx, keyPrefix+id, s.idleTimeout).Err(); err != nil {
		return nil, fmt.Errorf("refresh session ttl: %w", err)
	}
	return &data, nil
}

// Delete détruit la session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
