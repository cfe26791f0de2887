package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"versenest/models"
)

// Storage is the persisted half of a session: two keys, one for token
// material and one for the serialized user, always written and cleared
// together. The Store is the only component that touches these keys.
type Storage interface {
	Save(ctx context.Context, credentials models.Credentials, user *models.User) error
	Load(ctx context.Context) (models.Credentials, *models.User, error)
	Clear(ctx context.Context) error
}

// MemoryStorage keeps the persisted session in process memory. It serializes
// through JSON the same way durable backends do, so rehydration semantics in
// tests match production.
type MemoryStorage struct {
	mu    sync.Mutex
	creds []byte
	user  []byte
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Save implements Storage.
func (m *MemoryStorage) Save(_ context.Context, credentials models.Credentials, user *models.User) error {
	rawCreds, err := json.Marshal(credentials)
	if err != nil {
		return fmt.Errorf("memory storage: marshal credentials: %w", err)
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("memory storage: marshal user: %w", err)
	}

	m.mu.Lock()
	m.creds = rawCreds
	m.user = rawUser
	m.mu.Unlock()
	return nil
}

// Load implements Storage. An empty storage yields zero values and no error.
func (m *MemoryStorage) Load(_ context.Context) (models.Credentials, *models.User, error) {
	m.mu.Lock()
	rawCreds, rawUser := m.creds, m.user
	m.mu.Unlock()

	if rawCreds == nil || rawUser == nil {
		return models.Credentials{}, nil, nil
	}

	var credentials models.Credentials
	if err := json.Unmarshal(rawCreds, &credentials); err != nil {
		return models.Credentials{}, nil, fmt.Errorf("memory storage: unmarshal credentials: %w", err)
	}
	user := &models.User{}
	if err := json.Unmarshal(rawUser, user); err != nil {
		return models.Credentials{}, nil, fmt.Errorf("memory storage: unmarshal user: %w", err)
	}
	return credentials, user, nil
}

// Clear implements Storage.
func (m *MemoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	m.creds = nil
	m.user = nil
	m.mu.Unlock()
	return nil
}
