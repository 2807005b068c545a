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

// CreateRound persists a new round together with its exclusions.
func (s *SQLiteStore) CreateRound(ctx context.Context, round *models.Round) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}
	if round.CreatedAt == 0 {
		round.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rounds (id, gathering_id, title, amount, payer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		round.ID, round.GatheringID, round.Title, round.Amount, round.PayerID, round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}

	if err := insertExclusions(ctx, tx, round); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRound retrieves a round by ID, including its exclusions.
func (s *SQLiteStore) GetRound(ctx context.Context, roundID string) (*models.Round, error) {
	round := &models.Round{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, gathering_id, title, amount, payer_id, created_at
		 FROM rounds WHERE id = ?`,
		roundID,
	).Scan(&round.ID, &round.GatheringID, &round.Title, &round.Amount, &round.PayerID, &round.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("round %s: %w", roundID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, reason FROM round_exclusions WHERE round_id = ? ORDER BY rowid",
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get exclusions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Exclusion
		if err := rows.Scan(&e.ParticipantID, &e.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		round.Exclusions = append(round.Exclusions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exclusions: %w", err)
	}

	return round, nil
}

// UpdateRound replaces a round's title, amount, payer and exclusions.
func (s *SQLiteStore) UpdateRound(ctx context.Context, round *models.Round) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE rounds SET title = ?, amount = ?, payer_id = ? WHERE id = ?",
		round.Title, round.Amount, round.PayerID, round.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	if err := requireAffected(result, "round", round.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM round_exclusions WHERE round_id = ?", round.ID); err != nil {
		return fmt.Errorf("failed to clear exclusions: %w", err)
	}
	if err := insertExclusions(ctx, tx, round); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteRound removes a round; its exclusions are removed by cascade.
func (s *SQLiteStore) DeleteRound(ctx context.Context, roundID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM rounds WHERE id = ?", roundID)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	return requireAffected(result, "round", roundID)
}

// ListRounds returns all rounds of a gathering in the order they were
// recorded, each with its exclusions.
func (s *SQLiteStore) ListRounds(ctx context.Context, gatheringID string) ([]models.Round, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, gathering_id, title, amount, payer_id, created_at
		 FROM rounds WHERE gathering_id = ? ORDER BY rowid`,
		gatheringID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	var rounds []models.Round
	index := make(map[string]int)
	for rows.Next() {
		var r models.Round
		if err := rows.Scan(&r.ID, &r.GatheringID, &r.Title, &r.Amount, &r.PayerID, &r.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		index[r.ID] = len(rounds)
		rounds = append(rounds, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}

	// Fetch every exclusion of the gathering in one query instead of one per round.
	exclusionRows, err := s.db.QueryContext(ctx,
		`SELECT e.round_id, e.participant_id, e.reason
		 FROM round_exclusions e JOIN rounds r ON r.id = e.round_id
		 WHERE r.gathering_id = ? ORDER BY e.rowid`,
		gatheringID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exclusions: %w", err)
	}
	defer exclusionRows.Close()

	for exclusionRows.Next() {
		var roundID string
		var e models.Exclusion
		if err := exclusionRows.Scan(&roundID, &e.ParticipantID, &e.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		if i, ok := index[roundID]; ok {
			rounds[i].Exclusions = append(rounds[i].Exclusions, e)
		}
	}
	if err := exclusionRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exclusions: %w", err)
	}

	return rounds, nil
}

func insertExclusions(ctx context.Context, tx *sql.Tx, round *models.Round) error {
	for _, e := range round.Exclusions {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO round_exclusions (round_id, participant_id, reason) VALUES (?, ?, ?)",
			round.ID, e.ParticipantID, e.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert exclusion: %w", err)
		}
	}
	return nil
}
