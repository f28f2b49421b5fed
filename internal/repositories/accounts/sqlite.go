package accounts

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

const accountColumns = `id, userId, serviceName, email, category, accountId, password, apiKey, notes, priority, createdAt, updatedAt, lastUsed`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx), so the same code runs standalone or inside a transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, a *models.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.ServiceName, a.Email, a.Category, a.AccountID,
		a.Password, a.APIKey, a.Notes, a.Priority, a.CreatedAt, a.UpdatedAt, a.LastUsed)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, userID, id string, p Patch, updatedAt int64) error {
	set := make([]string, 0, 10)
	args := make([]any, 0, 12)

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if p.ServiceName != nil {
		appendSet("serviceName", *p.ServiceName)
	}
	if p.Email != nil {
		appendSet("email", *p.Email)
	}
	if p.Category != nil {
		appendSet("category", *p.Category)
	}
	if p.AccountID != nil {
		appendSet("accountId", *p.AccountID)
	}
	if p.Password != nil {
		appendSet("password", *p.Password)
	}
	if p.APIKey != nil {
		appendSet("apiKey", *p.APIKey)
	}
	if p.Notes != nil {
		appendSet("notes", *p.Notes)
	}
	if p.Priority != nil {
		appendSet("priority", string(*p.Priority))
	}
	if p.LastUsed != nil {
		appendSet("lastUsed", *p.LastUsed)
	}
	appendSet("updatedAt", updatedAt)

	args = append(args, userID, id)
	query := `UPDATE accounts SET ` + strings.Join(set, ", ") + ` WHERE userId = ? AND id = ?`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
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

func (r *SQLiteRepository) DeleteByID(ctx context.Context, userID, id string) error {
	// Idempotent by contract: zero affected rows is still success.
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE userId = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE userId = ? AND id = ?`, userID, id)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, userID string) ([]models.Account, error) {
	return r.selectAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE userId = ? ORDER BY createdAt DESC`, userID)
}

func (r *SQLiteRepository) GetByCategory(ctx context.Context, userID, category string) ([]models.Account, error) {
	return r.selectAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE userId = ? AND category = ? ORDER BY createdAt DESC`,
		userID, category)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, userID, email string) ([]models.Account, error) {
	return r.selectAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE userId = ? AND email = ? ORDER BY createdAt DESC`,
		userID, email)
}

func (r *SQLiteRepository) Search(ctx context.Context, userID, query string) ([]models.Account, error) {
	q := "%" + query + "%"
	return r.selectAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts
		WHERE userId = ? AND (serviceName LIKE ? OR email LIKE ? OR notes LIKE ?)
		ORDER BY createdAt DESC`,
		userID, q, q, q)
}

func (r *SQLiteRepository) UniqueEmails(ctx context.Context, userID string) ([]models.EmailCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, COUNT(*) as count FROM accounts WHERE userId = ? GROUP BY email ORDER BY count DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select emails: %w", err)
	}
	defer rows.Close()

	var result []models.EmailCount
	for rows.Next() {
		var item models.EmailCount
		if err := rows.Scan(&item.Email, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Stats(ctx context.Context, userID string) (*models.AccountStats, error) {
	stats := &models.AccountStats{}
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN priority = 'critical' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN apiKey IS NOT NULL AND apiKey != '' THEN 1 ELSE 0 END), 0)
		FROM accounts WHERE userId = ?`, userID)
	if err := row.Scan(&stats.TotalAccounts, &stats.CriticalAccounts, &stats.AccountsWithAPIKeys); err != nil {
		return nil, fmt.Errorf("failed to select stats: %w", err)
	}
	return stats, nil
}

func (r *SQLiteRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE userId = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) selectAccounts(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []models.Account
	for rows.Next() {
		var item models.Account
		if err := rows.Scan(&item.ID, &item.UserID, &item.ServiceName, &item.Email, &item.Category,
			&item.AccountID, &item.Password, &item.APIKey, &item.Notes, &item.Priority,
			&item.CreatedAt, &item.UpdatedAt, &item.LastUsed); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.UserID, &a.ServiceName, &a.Email, &a.Category,
		&a.AccountID, &a.Password, &a.APIKey, &a.Notes, &a.Priority,
		&a.CreatedAt, &a.UpdatedAt, &a.LastUsed)
	if err != nil {
		return nil, err
	}
	return a, nil
}
