// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/nbang/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned (wrapped) when an insert collides with a
	// unique key, such as a second account for the same email.
	ErrDuplicate = errors.New("already exists")

	// ErrInUse is returned (wrapped) when an entity cannot be removed
	// because other records still reference it.
	ErrInUse = errors.New("still referenced")
)

// Store defines the interface for gathering storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. A taken email yields ErrDuplicate.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGathering persists a new gathering together with its initial
	// participants. ID and CreatedAt are populated by the store.
	CreateGathering(ctx context.Context, gathering *models.Gathering) error

	// GetGathering retrieves a gathering and its participants.
	GetGathering(ctx context.Context, gatheringID string) (*models.Gathering, error)

	// ListGatheringsByOwner returns the user's gatherings, newest first,
	// without participants.
	ListGatheringsByOwner(ctx context.Context, ownerID string) ([]*models.Gathering, error)

	// UpdateGathering updates name, type and dates.
	UpdateGathering(ctx context.Context, gathering *models.Gathering) error

	// DeleteGathering removes a gathering with its participants, rounds and share links.
	DeleteGathering(ctx context.Context, gatheringID string) error

	// AddParticipant appends a participant to a gathering.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// RemoveParticipant deletes a participant that pays for no round.
	RemoveParticipant(ctx context.Context, gatheringID, participantID string) error

	// ListParticipants returns a gathering's participants in insertion order.
	ListParticipants(ctx context.Context, gatheringID string) ([]models.Participant, error)

	// CreateRound persists a round and its exclusions.
	CreateRound(ctx context.Context, round *models.Round) error

	// GetRound retrieves a round with its exclusions.
	GetRound(ctx context.Context, roundID string) (*models.Round, error)

	// UpdateRound replaces a round's fields and exclusions.
	UpdateRound(ctx context.Context, round *models.Round) error

	// DeleteRound removes a round and its exclusions.
	DeleteRound(ctx context.Context, roundID string) error

	// ListRounds returns a gathering's rounds in insertion order, with exclusions.
	ListRounds(ctx context.Context, gatheringID string) ([]models.Round, error)

	// CreateShareLink persists a share link. Token and CreatedAt are populated by the store.
	CreateShareLink(ctx context.Context, link *models.ShareLink) error

	// GetShareLink retrieves a share link by token, expired or not.
	GetShareLink(ctx context.Context, token string) (*models.ShareLink, error)

	// Close releases any resources held by the store.
	Close() error
}
