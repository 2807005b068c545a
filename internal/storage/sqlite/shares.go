package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/nbang/internal/models"
	"github.com/mmynk/nbang/internal/storage"
)

// CreateShareLink persists a new share link to the database.
func (s *SQLiteStore) CreateShareLink(ctx context.Context, link *models.ShareLink) error {
	if link.Token == "" {
		link.Token = uuid.New().String()
	}
	if link.CreatedAt == 0 {
		link.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO share_links (token, gathering_id, expires_at, created_at) VALUES (?, ?, ?, ?)",
		link.Token, link.GatheringID, link.ExpiresAt, link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share link: %w", err)
	}

	return nil
}

// GetShareLink retrieves a share link by token. Expiry is the caller's concern.
func (s *SQLiteStore) GetShareLink(ctx context.Context, token string) (*models.ShareLink, error) {
	link := &models.ShareLink{}
	err := s.db.QueryRowContext(ctx,
		"SELECT token, gathering_id, expires_at, created_at FROM share_links WHERE token = ?",
		token,
	).Scan(&link.Token, &link.GatheringID, &link.ExpiresAt, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("share link %s: %w", token, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}

	return link, nil
}
