// Package projects persists Project and ProjectService rows. Projects and
// their services are coupled here because deletion must cascade: services
// first, then the project row, with no foreign-key enforcement assumed.
package projects

import (
	"context"

	"github.com/harinadareddy11/account-vault/internal/models"
)

// Repository describes owner-scoped operations for projects and the
// services nested under them.
type Repository interface {
	Insert(ctx context.Context, p *models.Project) error

	// GetAll lists the user's projects, most recently updated first.
	GetAll(ctx context.Context, userID string) ([]models.Project, error)

	// GetByID returns one project or common.ErrNotFound.
	GetByID(ctx context.Context, projectID, userID string) (*models.Project, error)

	// Touch bumps the project's updatedAt.
	Touch(ctx context.Context, projectID, userID string, updatedAt int64) error

	// DeleteByID removes the project row only. Callers that need the
	// cascade use the vault service, which wraps this together with
	// DeleteServicesByProject in one transaction.
	DeleteByID(ctx context.Context, projectID, userID string) error

	InsertService(ctx context.Context, s *models.ProjectService) error
	GetServices(ctx context.Context, userID, projectID string) ([]models.ProjectService, error)
	GetServiceByID(ctx context.Context, serviceID, userID string) (*models.ProjectService, error)
	UpdateServiceSecrets(ctx context.Context, serviceID, userID string, password, apiKey *string) error
	DeleteServiceByID(ctx context.Context, serviceID, userID string) error
	DeleteServicesByProject(ctx context.Context, projectID, userID string) error

	// GetAllServices lists every service of the user across projects.
	GetAllServices(ctx context.Context, userID string) ([]models.ProjectService, error)

	// ExpiringBetween returns services whose expiryDate falls inside the
	// inclusive [from, to] ISO-date window.
	ExpiringBetween(ctx context.Context, userID, from, to string) ([]models.ProjectService, error)

	DeleteAllForUser(ctx context.Context, userID string) error
	DeleteAllServicesForUser(ctx context.Context, userID string) error
}
