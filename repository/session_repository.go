package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"sheet-storefront/models"
)

type memorySession struct {
	session   models.Session
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory.
// Sessions are lost on restart, which matches browser-session scoped storage.
type MemorySessionRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

// NewMemorySessionRepository creates a new MemorySessionRepository
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

// Ensure MemorySessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*MemorySessionRepository)(nil)

// Get returns a copy of the stored session
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.now().After(entry.expiresAt) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	session := entry.session
	session.Cart.Items = append([]models.CartItem(nil), entry.session.Cart.Items...)
	session.Wishlist = append([]int(nil), entry.session.Wishlist...)
	return &session, nil
}

// Save stores the session and restarts its TTL
func (r *MemorySessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	stored.UpdatedAt = r.now()
	stored.Cart.Items = append([]models.CartItem(nil), session.Cart.Items...)
	stored.Wishlist = append([]int(nil), session.Wishlist...)
	r.sessions[session.ID] = memorySession{session: stored, expiresAt: stored.UpdatedAt.Add(r.ttl)}
	session.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes the session
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// PurgeExpired drops every expired session
func (r *MemorySessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var purged int64
	for id, entry := range r.sessions {
		if now.After(entry.expiresAt) {
			delete(r.sessions, id)
			purged++
		}
	}
	if purged > 0 {
		log.Printf("🧹 PurgeExpired: removed %d in-memory sessions", purged)
	}
	return purged, nil
}
