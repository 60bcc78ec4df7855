// Package session keeps the Informes upload of each operator session in memory.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// DefaultID is used when a request carries no session id.
const DefaultID = "default"

// Status describes what a session currently holds.
type Status struct {
	SessionID string     `json:"session_id"`
	Loaded    bool       `json:"loaded"`
	FileName  string     `json:"file_name,omitempty"`
	Rows      int        `json:"rows"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
}

// Context is the explicit state of one session. Writes are last-writer-wins.
type Context struct {
	mu       sync.RWMutex
	id       string
	catalog  *domain.ForeignCatalog
	loadedAt time.Time
	now      func() time.Time

	// guarded by Store.mu
	lastSeen time.Time
}

func (c *Context) ID() string { return c.id }

// Load replaces the session's Informes dataset.
func (c *Context) Load(catalog domain.ForeignCatalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = &catalog
	c.loadedAt = c.now()
}

func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = nil
	c.loadedAt = time.Time{}
}

// Informes returns the loaded dataset or domain.ErrNoInformes.
func (c *Context) Informes() (domain.ForeignCatalog, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.catalog == nil {
		return domain.ForeignCatalog{}, errors.Wrapf(domain.ErrNoInformes, "session %s", c.id)
	}
	return *c.catalog, nil
}

func (c *Context) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{SessionID: c.id}
	if c.catalog != nil {
		loadedAt := c.loadedAt
		st.Loaded = true
		st.FileName = c.catalog.Name
		st.Rows = len(c.catalog.Rows)
		st.LoadedAt = &loadedAt
	}
	return st
}

// Store hands out one Context per session id. Sessions idle for longer than
// the store's TTL are dropped by Sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Context
	ttl      time.Duration
	now      func() time.Time
}

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 12 * time.Hour

func NewStore() *Store {
	return NewStoreWithTTL(DefaultTTL)
}

// NewStoreWithTTL builds a store whose sessions expire after ttl without a
// request. A non-positive ttl disables expiry.
func NewStoreWithTTL(ttl time.Duration) *Store {
	return &Store{sessions: make(map[string]*Context), ttl: ttl, now: time.Now}
}

// Get returns the session for id, creating it on first use. A blank id maps to DefaultID.
func (s *Store) Get(id string) *Context {
	id = NormalizeID(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	if !ok {
		c = &Context{id: id, now: s.now}
		s.sessions[id] = c
	}
	c.lastSeen = s.now()
	return c
}

// Drop forgets a session entirely.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, NormalizeID(id))
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops the sessions idle for longer than the TTL and returns how many went.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	expired := 0
	for id, c := range s.sessions {
		if c.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			expired++
		}
	}
	return expired
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Info().Int("expired", n).Int("active", s.Len()).Msg("session: swept idle sessions")
			}
		}
	}
}

func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultID
	}
	return id
}
