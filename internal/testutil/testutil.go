// Package testutil provides an in-memory database and small fakes for tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/database"
	"github.com/vitacross/vitacross-api/internal/mailer"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Config returns settings suitable for tests.
func Config() *config.Config {
	return &config.Config{
		AppEnv:              "test",
		CORSOrigins:         "http://localhost:3000",
		JWTSecret:           "test-secret",
		SessionTTL:          24 * time.Hour,
		UploadMaxMB:         1,
		StaffEmail:          "staff@vitacross.test",
		RateLimitPerMin:     1000,
		AuthRateLimitPerMin: 1000,
	}
}

// Mailer records sent messages.
type Mailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Err  error
}

func (m *Mailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *Mailer) Messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mailer.Message, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// Store keeps objects in memory.
type Store struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
}

func NewStore() *Store {
	return &Store{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (s *Store) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = b
	s.Types[key] = contentType
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	delete(s.Types, key)
	return nil
}

func (s *Store) PresignGet(_ context.Context, key, _ string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://files.test/%s?expires=%d", key, int(ttl.Seconds())), nil
}

func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok
}
