package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/nbang/internal/auth"
	"github.com/mmynk/nbang/internal/middleware"
	"github.com/mmynk/nbang/internal/models"
	"github.com/mmynk/nbang/internal/storage"
)

var (
	errNotOwner           = errors.New("gathering belongs to another user")
	errShareLinkExpired   = errors.New("share link has expired")
	errParticipantInUse   = errors.New("participant paid for a round; reassign or delete the round first")
	errUnknownParticipant = errors.New("participant does not belong to this gathering")
)

// storageError maps a store error to a Connect error. Missing rows become
// NotFound and rows still referenced elsewhere become FailedPrecondition.
func storageError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrInUse):
		return connect.NewError(connect.CodeFailedPrecondition, errParticipantInUse)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// requireUser returns the authenticated user ID from the context.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// ownedGathering loads a gathering and checks the caller owns it.
func ownedGathering(ctx context.Context, store storage.Store, gatheringID string) (*models.Gathering, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if gatheringID == "" {
		return nil, invalidArgument("gathering id is required")
	}

	gathering, err := store.GetGathering(ctx, gatheringID)
	if err != nil {
		slog.Warn("Failed to load gathering", "gathering_id", gatheringID, "error", err)
		return nil, storageError(err)
	}
	if !gathering.IsOwnedBy(userID) {
		slog.Warn("Gathering access denied", "gathering_id", gatheringID, "user_id", userID)
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}

	return gathering, nil
}
