package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/dbx"
	"github.com/harinadareddy11/account-vault/internal/models"
)

const serviceColumns = `id, projectId, userId, serviceName, email, password, apiKey, expiryDate, notes, createdAt`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Project) error {
	query := `INSERT INTO projects (id, userId, name, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Name, p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, userID string) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, userId, name, createdAt, updatedAt FROM projects WHERE userId = ? ORDER BY updatedAt DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	var result []models.Project
	for rows.Next() {
		var item models.Project
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, projectID, userID string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, userId, name, createdAt, updatedAt FROM projects WHERE id = ? AND userId = ?`,
		projectID, userID)

	p := &models.Project{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select project: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) Touch(ctx context.Context, projectID, userID string, updatedAt int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET updatedAt = ? WHERE id = ? AND userId = ?`, updatedAt, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, projectID, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND userId = ?`, projectID, userID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertService(ctx context.Context, s *models.ProjectService) error {
	query := `INSERT INTO project_services (` + serviceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProjectID, s.UserID, s.ServiceName, s.Email, s.Password, s.APIKey,
		s.ExpiryDate, s.Notes, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project service: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetServices(ctx context.Context, userID, projectID string) ([]models.ProjectService, error) {
	return r.selectServices(ctx,
		`SELECT `+serviceColumns+` FROM project_services
		WHERE userId = ? AND projectId = ? ORDER BY createdAt DESC`,
		userID, projectID)
}

func (r *SQLiteRepository) GetServiceByID(ctx context.Context, serviceID, userID string) (*models.ProjectService, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM project_services WHERE id = ? AND userId = ?`,
		serviceID, userID)

	s := &models.ProjectService{}
	err := row.Scan(&s.ID, &s.ProjectID, &s.UserID, &s.ServiceName, &s.Email, &s.Password,
		&s.APIKey, &s.ExpiryDate, &s.Notes, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select project service: %w", err)
	}
	return s, nil
}

// UpdateServiceSecrets rewrites the two ciphertext columns. Used by the
// master-password rekey, which re-encrypts everything in one transaction.
func (r *SQLiteRepository) UpdateServiceSecrets(ctx context.Context, serviceID, userID string, password, apiKey *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE project_services SET password = ?, apiKey = ? WHERE id = ? AND userId = ?`,
		password, apiKey, serviceID, userID)
	if err != nil {
		return fmt.Errorf("failed to update service secrets: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteServiceByID(ctx context.Context, serviceID, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM project_services WHERE id = ? AND userId = ?`, serviceID, userID); err != nil {
		return fmt.Errorf("failed to delete project service: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteServicesByProject(ctx context.Context, projectID, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM project_services WHERE projectId = ? AND userId = ?`, projectID, userID); err != nil {
		return fmt.Errorf("failed to delete project services: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAllServices(ctx context.Context, userID string) ([]models.ProjectService, error) {
	return r.selectServices(ctx,
		`SELECT `+serviceColumns+` FROM project_services WHERE userId = ? ORDER BY createdAt DESC`,
		userID)
}

func (r *SQLiteRepository) ExpiringBetween(ctx context.Context, userID, from, to string) ([]models.ProjectService, error) {
	return r.selectServices(ctx,
		`SELECT `+serviceColumns+` FROM project_services
		WHERE userId = ? AND expiryDate IS NOT NULL AND expiryDate != ''
		AND expiryDate >= ? AND expiryDate <= ?
		ORDER BY expiryDate ASC`,
		userID, from, to)
}

func (r *SQLiteRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE userId = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAllServicesForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_services WHERE userId = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear project services: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) selectServices(ctx context.Context, query string, args ...any) ([]models.ProjectService, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select project services: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectService
	for rows.Next() {
		var item models.ProjectService
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.UserID, &item.ServiceName,
			&item.Email, &item.Password, &item.APIKey, &item.ExpiryDate, &item.Notes,
			&item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
