// Package prefs persists the one-per-user notification preferences row.
// Preferences are not sensitive and are stored in plaintext.
package prefs

import (
	"context"

	"github.com/harinadareddy11/account-vault/internal/models"
)

// Patch carries a partial preferences update; nil fields keep stored values.
type Patch struct {
	APIExpiryNotifications *int
	APIExpiryDaysBefore    *int
	AutoLockEnabled        *int
	AutoLockMinutes        *int
	BiometricEnabled       *int
	Theme                  *string
}

type Repository interface {
	// Get returns the user's row, or nil when none exists yet.
	Get(ctx context.Context, userID string) (*models.NotificationPreferences, error)

	Insert(ctx context.Context, p *models.NotificationPreferences) error

	// Update applies non-nil patch fields and bumps updatedAt. Returns
	// common.ErrNotFound when the user has no row.
	Update(ctx context.Context, userID string, p Patch, updatedAt int64) error
}
