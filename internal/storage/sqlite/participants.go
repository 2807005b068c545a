package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/nbang/internal/models"
	"github.com/mmynk/nbang/internal/storage"
)

// AddParticipant appends a participant to an existing gathering.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, gathering_id, name) VALUES (?, ?, ?)",
		participant.ID, participant.GatheringID, participant.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	return nil
}

// RemoveParticipant deletes a participant and their exclusions.
// Participants who paid for a round cannot be removed until the round is
// reassigned or deleted.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, gatheringID, participantID string) error {
	var paid int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rounds WHERE payer_id = ?", participantID,
	).Scan(&paid)
	if err != nil {
		return fmt.Errorf("failed to count rounds paid by participant: %w", err)
	}
	if paid > 0 {
		return fmt.Errorf("participant %s paid for %d rounds: %w", participantID, paid, storage.ErrInUse)
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND gathering_id = ?",
		participantID, gatheringID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return requireAffected(result, "participant", participantID)
}

// ListParticipants returns the participants of a gathering in the order they
// were added.
func (s *SQLiteStore) ListParticipants(ctx context.Context, gatheringID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, gathering_id, name FROM participants WHERE gathering_id = ? ORDER BY rowid",
		gatheringID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.GatheringID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}
