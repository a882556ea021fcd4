package repository

import "context"

// FavoriteStore is the authoritative side of the favorites toggle.
type FavoriteStore interface {
	// ConfirmToggleFavorite flips membership of productID for userID and
	// returns the membership after the flip. ErrNotFound means the user is
	// unknown to the store.
	ConfirmToggleFavorite(ctx context.Context, userID, productID string) (bool, error)
	ListByUserID(ctx context.Context, userID string) ([]string, error)
}
