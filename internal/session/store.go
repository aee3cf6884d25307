package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store expiry defaults
const (
	DefaultTTL     = 12 * time.Hour
	DefaultCleanup = 30 * time.Minute
)

// Store keeps sessions in memory until they expire
type Store struct {
	cache *cache.Cache
}

// NewStore creates a store. Sessions unused for ttl are dropped; expired
// entries are purged every cleanup interval.
func NewStore(ttl, cleanup time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanup <= 0 {
		cleanup = DefaultCleanup
	}
	return &Store{cache: cache.New(ttl, cleanup)}
}

// Get returns the session with id, or a new idle session with a fresh ID
// when id is unknown or expired
func (s *Store) Get(id string) *Session {
	if id != "" {
		if x, found := s.cache.Get(id); found {
			return x.(*Session)
		}
	}
	return NewSession(uuid.NewString())
}

// Save stores the session and restarts its expiry
func (s *Store) Save(sess *Session) {
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
}

// Delete removes a session
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len returns the number of stored sessions, expired ones included until
// the next cleanup
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
