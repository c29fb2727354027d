package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"sheet-storefront/models"
)

// PostgresSessionRepository stores sessions in the storefront_sessions table
type PostgresSessionRepository struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository
func NewPostgresSessionRepository(db *sql.DB, ttl time.Duration) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db, ttl: ttl}
}

// Ensure PostgresSessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*PostgresSessionRepository)(nil)

// Get loads an unexpired session
func (r *PostgresSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT data
		FROM storefront_sessions
		WHERE id = $1 AND expires_at > NOW()
	`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		log.Printf("❌ Error querying session: %v", err)
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Save upserts the session and restarts its TTL
func (r *PostgresSessionRepository) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	query := `
		INSERT INTO storefront_sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, session.ID, string(data), session.UpdatedAt.Add(r.ttl)); err != nil {
		log.Printf("❌ Error saving session %s: %v", session.ID, err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session row
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM storefront_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every expired session row
func (r *PostgresSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM storefront_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sessions: %w", err)
	}
	if purged > 0 {
		log.Printf("🧹 PurgeExpired: removed %d postgres sessions", purged)
	}
	return purged, nil
}
