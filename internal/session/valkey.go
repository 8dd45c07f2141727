package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

// ValkeyStore keeps sessions in Valkey so they survive restarts and are
// shared between server replicas. Expiry is delegated to key TTLs.
type ValkeyStore struct {
	client valkey.Client
	prefix string // Key prefix: "fundloop:session:"
}

// NewValkeyStore creates a new Valkey-backed session store
func NewValkeyStore(addr string) (*ValkeyStore, error) {
	// Sessions are never read through the client-side cache.
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	s := &ValkeyStore{
		client: client,
		prefix: "fundloop:session:",
	}

	slog.Info("Initialized Valkey session store", "address", addr, "key_prefix", s.prefix)
	return s, nil
}

func (s *ValkeyStore) key(id string) string {
	return s.prefix + id
}

// Create starts a session
func (s *ValkeyStore) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	id := newID()
	cmd := s.client.B().Set().Key(s.key(id)).Value(userID.String()).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

// Get returns the user id of a live session
func (s *ValkeyStore) Get(ctx context.Context, id string) (uuid.UUID, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to load session: %w", err)
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return userID, nil
}

// Delete ends a session
func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.key(id)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Valkey client
func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}
