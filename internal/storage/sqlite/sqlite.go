// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/nbang/internal/models"
	"github.com/mmynk/nbang/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so they go in the DSN
	// rather than a one-off PRAGMA on whichever connection the pool hands out.
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGathering persists a new gathering and its initial participants.
func (s *SQLiteStore) CreateGathering(ctx context.Context, gathering *models.Gathering) error {
	if gathering.ID == "" {
		gathering.ID = uuid.New().String()
	}
	if gathering.CreatedAt == 0 {
		gathering.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO gatherings (id, owner_id, name, type, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gathering.ID, gathering.OwnerID, gathering.Name, string(gathering.Type),
		gathering.StartDate, gathering.EndDate, gathering.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert gathering: %w", err)
	}

	for i := range gathering.Participants {
		p := &gathering.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.GatheringID = gathering.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (id, gathering_id, name) VALUES (?, ?, ?)",
			p.ID, p.GatheringID, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGathering retrieves a gathering by ID, including its participants.
func (s *SQLiteStore) GetGathering(ctx context.Context, gatheringID string) (*models.Gathering, error) {
	gathering := &models.Gathering{}
	var gatheringType string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, type, start_date, end_date, created_at
		 FROM gatherings WHERE id = ?`,
		gatheringID,
	).Scan(&gathering.ID, &gathering.OwnerID, &gathering.Name, &gatheringType,
		&gathering.StartDate, &gathering.EndDate, &gathering.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("gathering %s: %w", gatheringID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gathering: %w", err)
	}
	gathering.Type = models.GatheringType(gatheringType)

	participants, err := s.ListParticipants(ctx, gatheringID)
	if err != nil {
		return nil, err
	}
	gathering.Participants = participants

	return gathering, nil
}

// ListGatheringsByOwner retrieves all gatherings owned by a user.
func (s *SQLiteStore) ListGatheringsByOwner(ctx context.Context, ownerID string) ([]*models.Gathering, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, type, start_date, end_date, created_at
		 FROM gatherings WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list gatherings: %w", err)
	}
	defer rows.Close()

	var gatherings []*models.Gathering
	for rows.Next() {
		g := &models.Gathering{}
		var gatheringType string
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &gatheringType,
			&g.StartDate, &g.EndDate, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gathering: %w", err)
		}
		g.Type = models.GatheringType(gatheringType)
		gatherings = append(gatherings, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gatherings: %w", err)
	}

	return gatherings, nil
}

// UpdateGathering updates a gathering's name, type and dates.
func (s *SQLiteStore) UpdateGathering(ctx context.Context, gathering *models.Gathering) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE gatherings SET name = ?, type = ?, start_date = ?, end_date = ? WHERE id = ?",
		gathering.Name, string(gathering.Type), gathering.StartDate, gathering.EndDate, gathering.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update gathering: %w", err)
	}
	return requireAffected(result, "gathering", gathering.ID)
}

// DeleteGathering removes a gathering. Participants, rounds, exclusions and
// share links are removed by cascade.
func (s *SQLiteStore) DeleteGathering(ctx context.Context, gatheringID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM gatherings WHERE id = ?", gatheringID)
	if err != nil {
		return fmt.Errorf("failed to delete gathering: %w", err)
	}
	return requireAffected(result, "gathering", gatheringID)
}

// requireAffected turns a zero-row update or delete into storage.ErrNotFound.
func requireAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, storage.ErrNotFound)
	}
	return nil
}
