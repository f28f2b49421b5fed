package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/dbx"
	"github.com/harinadareddy11/account-vault/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*models.NotificationPreferences, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, userId, apiExpiryNotifications, apiExpiryDaysBefore, autoLockEnabled,
			autoLockMinutes, biometricEnabled, theme, createdAt, updatedAt
		FROM notification_preferences WHERE userId = ?`, userID)

	p := &models.NotificationPreferences{}
	err := row.Scan(&p.ID, &p.UserID, &p.APIExpiryNotifications, &p.APIExpiryDaysBefore,
		&p.AutoLockEnabled, &p.AutoLockMinutes, &p.BiometricEnabled, &p.Theme,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select preferences: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.NotificationPreferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notification_preferences
		(id, userId, apiExpiryNotifications, apiExpiryDaysBefore, autoLockEnabled,
		 autoLockMinutes, biometricEnabled, theme, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.APIExpiryNotifications, p.APIExpiryDaysBefore, p.AutoLockEnabled,
		p.AutoLockMinutes, p.BiometricEnabled, p.Theme, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert preferences: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, userID string, p Patch, updatedAt int64) error {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if p.APIExpiryNotifications != nil {
		appendSet("apiExpiryNotifications", *p.APIExpiryNotifications)
	}
	if p.APIExpiryDaysBefore != nil {
		appendSet("apiExpiryDaysBefore", *p.APIExpiryDaysBefore)
	}
	if p.AutoLockEnabled != nil {
		appendSet("autoLockEnabled", *p.AutoLockEnabled)
	}
	if p.AutoLockMinutes != nil {
		appendSet("autoLockMinutes", *p.AutoLockMinutes)
	}
	if p.BiometricEnabled != nil {
		appendSet("biometricEnabled", *p.BiometricEnabled)
	}
	if p.Theme != nil {
		appendSet("theme", *p.Theme)
	}
	appendSet("updatedAt", updatedAt)

	args = append(args, userID)
	query := `UPDATE notification_preferences SET ` + strings.Join(set, ", ") + ` WHERE userId = ?`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
