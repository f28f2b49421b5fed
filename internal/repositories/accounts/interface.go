// Package accounts persists Account rows. All operations are owner-scoped:
// every query filters by userId, because rows for different users are
// encrypted under different master passwords and must never cross.
package accounts

import (
	"context"

	"github.com/harinadareddy11/account-vault/internal/models"
)

// Patch carries a partial account update. Nil fields leave the stored column
// untouched; in particular an omitted secret must not overwrite existing
// ciphertext. Password and APIKey, when set, already hold ciphertext.
type Patch struct {
	ServiceName *string
	Email       *string
	Category    *string
	AccountID   *string
	Password    *string
	APIKey      *string
	Notes       *string
	Priority    *models.Priority
	LastUsed    *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.ServiceName == nil && p.Email == nil && p.Category == nil &&
		p.AccountID == nil && p.Password == nil && p.APIKey == nil &&
		p.Notes == nil && p.Priority == nil && p.LastUsed == nil
}

// Repository describes owner-scoped CRUD and query operations for accounts.
type Repository interface {
	// Insert writes a fully populated row.
	Insert(ctx context.Context, a *models.Account) error

	// Update applies the non-nil patch fields and bumps updatedAt. Returns
	// common.ErrNotFound when no row matches (userID, id).
	Update(ctx context.Context, userID, id string, p Patch, updatedAt int64) error

	// DeleteByID removes a row. Deleting a missing or foreign-owned id is a
	// no-op, not an error.
	DeleteByID(ctx context.Context, userID, id string) error

	// GetByID returns one row or common.ErrNotFound.
	GetByID(ctx context.Context, userID, id string) (*models.Account, error)

	GetAll(ctx context.Context, userID string) ([]models.Account, error)
	GetByCategory(ctx context.Context, userID, category string) ([]models.Account, error)
	GetByEmail(ctx context.Context, userID, email string) ([]models.Account, error)

	// Search matches the query against serviceName, email and notes.
	Search(ctx context.Context, userID, query string) ([]models.Account, error)

	// UniqueEmails lists distinct emails with usage counts, most used first.
	UniqueEmails(ctx context.Context, userID string) ([]models.EmailCount, error)

	Stats(ctx context.Context, userID string) (*models.AccountStats, error)

	// DeleteAllForUser clears the user's partition (sync restore).
	DeleteAllForUser(ctx context.Context, userID string) error
}
