package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"sheet-storefront/models"
	"sheet-storefront/repository"
	"sheet-storefront/utils"
)

// SessionCookieName is the browser-session cookie carrying the session id
const SessionCookieName = "storefront_session"

// SessionManager binds requests to their server-side session
type SessionManager struct {
	repo  repository.SessionRepositoryInterface
	locks *sessionLocks
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(repo repository.SessionRepositoryInterface) *SessionManager {
	return &SessionManager{repo: repo, locks: newSessionLocks()}
}

// sessionLocks hands out one mutex per session id; entries live only while held or awaited
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// lock blocks until the session id is free and returns its unlock func
func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Load returns the session of the request, starting a new one when the cookie
// is missing, unknown or expired. New sessions are only persisted by Update.
func (m *SessionManager) Load(w http.ResponseWriter, r *http.Request) (*models.Session, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			session, err := m.repo.Get(r.Context(), cookie.Value)
			if err == nil {
				return session, nil
			}
			if !errors.Is(err, repository.ErrSessionNotFound) {
				return nil, fmt.Errorf("failed to load session: %w", err)
			}
		}
	}

	session := &models.Session{ID: uuid.NewString()}
	// No Max-Age: the cookie lives as long as the browser session
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	log.Printf("🆕 New session started: %s", session.ID)
	return session, nil
}

// Update applies mutate to the stored state of session id and saves it.
// Updates of one session run one at a time, each on the latest stored state,
// so concurrent requests never overwrite each other. Nothing is saved when
// mutate fails.
func (m *SessionManager) Update(ctx context.Context, id string, mutate func(*models.Session) error) (*models.Session, error) {
	unlock := m.locks.lock(id)
	defer unlock()

	session, err := m.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		session, err = &models.Session{ID: id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := mutate(session); err != nil {
		return session, err
	}
	if err := m.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Save persists the session
func (m *SessionManager) Save(ctx context.Context, session *models.Session) error {
	if err := m.repo.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// sheetIDOf returns the spreadsheet id of the session's configured link, or ""
func sheetIDOf(session *models.Session) string {
	return utils.ExtractSheetID(session.SheetURL)
}
