// Package vault is the application service over the repositories. It is the
// only place where plaintext secrets meet the crypto engine: everything below
// it stores ciphertext, everything above it passes plaintext plus the master
// password per call and holds no key state.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/cryptox"
	"github.com/harinadareddy11/account-vault/internal/dbx"
	"github.com/harinadareddy11/account-vault/internal/logging"
	"github.com/harinadareddy11/account-vault/internal/models"
	"github.com/harinadareddy11/account-vault/internal/repositories/accounts"
	"github.com/harinadareddy11/account-vault/internal/repositories/projects"
)

// NewAccount is the input for AddAccount. Password and APIKey are plaintext
// here; the service encrypts them before they reach a repository.
type NewAccount struct {
	ServiceName string
	Email       string
	Category    string
	AccountID   *string
	Password    *string
	APIKey      *string
	Notes       *string
	Priority    models.Priority
}

// AccountUpdate is the input for UpdateAccount. Nil fields are left alone;
// a nil secret in particular keeps the stored ciphertext.
type AccountUpdate struct {
	ServiceName *string
	Email       *string
	Category    *string
	AccountID   *string
	Password    *string
	APIKey      *string
	Notes       *string
	Priority    *models.Priority
}

// NewService is the input for AddProjectService.
type NewService struct {
	ServiceName string
	Email       *string
	Password    *string
	APIKey      *string
	ExpiryDate  *string
	Notes       *string
}

// Service coordinates repositories and the crypto engine. It holds the
// database handle rather than repository instances so that multi-row
// operations can rebuild the repos over a transaction.
type Service struct {
	db  *sql.DB
	log logging.Logger
	now func() time.Time

	newAccounts func(dbx.DBTX) accounts.Repository
	newProjects func(dbx.DBTX) projects.Repository
}

func New(db *sql.DB, log logging.Logger) *Service {
	return &Service{
		db:  db,
		log: log.With("component", "vault"),
		now: time.Now,
		newAccounts: func(d dbx.DBTX) accounts.Repository {
			return accounts.NewSQLiteRepository(d)
		},
		newProjects: func(d dbx.DBTX) projects.Repository {
			return projects.NewSQLiteRepository(d)
		},
	}
}

func (s *Service) nowMillis() int64 {
	return s.now().UnixMilli()
}

func encryptOpt(value *string, masterPassword string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	token, err := cryptox.Encrypt(*value, masterPassword)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func decryptOpt(token *string, masterPassword string) string {
	if token == nil {
		return ""
	}
	return cryptox.DecryptString(*token, masterPassword)
}

// AddAccount validates, encrypts the secret fields and inserts a new row.
// Returns the generated id.
func (s *Service) AddAccount(ctx context.Context, userID string, in NewAccount, masterPassword string) (string, error) {
	if in.ServiceName == "" {
		return "", fmt.Errorf("%w: serviceName is required", common.ErrValidation)
	}
	if in.Email == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}
	if !in.Priority.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", common.ErrValidation, in.Priority)
	}

	password, err := encryptOpt(in.Password, masterPassword)
	if err != nil {
		return "", err
	}
	apiKey, err := encryptOpt(in.APIKey, masterPassword)
	if err != nil {
		return "", err
	}

	now := s.nowMillis()
	a := &models.Account{
		ID:          uuid.NewString(),
		UserID:      userID,
		ServiceName: in.ServiceName,
		Email:       in.Email,
		Category:    in.Category,
		AccountID:   in.AccountID,
		Password:    password,
		APIKey:      apiKey,
		Notes:       in.Notes,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.newAccounts(s.db).Insert(ctx, a); err != nil {
		return "", err
	}
	s.log.Info(ctx, "account added", "user", logging.ShortID(userID), "service", in.ServiceName)
	return a.ID, nil
}

// UpdateAccount applies a partial update, re-encrypting only the secrets the
// caller actually supplied. Returns common.ErrNotFound for a stale id.
func (s *Service) UpdateAccount(ctx context.Context, userID, id string, in AccountUpdate, masterPassword string) error {
	if in.Priority != nil && !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", common.ErrValidation, *in.Priority)
	}

	password, err := encryptOpt(in.Password, masterPassword)
	if err != nil {
		return err
	}
	apiKey, err := encryptOpt(in.APIKey, masterPassword)
	if err != nil {
		return err
	}

	patch := accounts.Patch{
		ServiceName: in.ServiceName,
		Email:       in.Email,
		Category:    in.Category,
		AccountID:   in.AccountID,
		Password:    password,
		APIKey:      apiKey,
		Notes:       in.Notes,
		Priority:    in.Priority,
	}
	if patch.IsEmpty() {
		return nil
	}
	return s.newAccounts(s.db).Update(ctx, userID, id, patch, s.nowMillis())
}

// DeleteAccount removes an account; deleting a missing id is a no-op.
func (s *Service) DeleteAccount(ctx context.Context, userID, id string) error {
	return s.newAccounts(s.db).DeleteByID(ctx, userID, id)
}

func (s *Service) GetAccountByID(ctx context.Context, userID, id string) (*models.Account, error) {
	return s.newAccounts(s.db).GetByID(ctx, userID, id)
}

func (s *Service) GetAllAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	return s.newAccounts(s.db).GetAll(ctx, userID)
}

func (s *Service) GetAccountsByCategory(ctx context.Context, userID, category string) ([]models.Account, error) {
	return s.newAccounts(s.db).GetByCategory(ctx, userID, category)
}

func (s *Service) GetAccountsByEmail(ctx context.Context, userID, email string) ([]models.Account, error) {
	return s.newAccounts(s.db).GetByEmail(ctx, userID, email)
}

func (s *Service) SearchAccounts(ctx context.Context, userID, query string) ([]models.Account, error) {
	return s.newAccounts(s.db).Search(ctx, userID, query)
}

func (s *Service) UniqueEmails(ctx context.Context, userID string) ([]models.EmailCount, error) {
	return s.newAccounts(s.db).UniqueEmails(ctx, userID)
}

func (s *Service) Statistics(ctx context.Context, userID string) (*models.AccountStats, error) {
	return s.newAccounts(s.db).Stats(ctx, userID)
}

// DecryptAccount produces the display form of an account. Decryption here is
// lenient: an unreadable field comes back empty rather than failing the whole
// listing.
func (s *Service) DecryptAccount(a *models.Account, masterPassword string) *models.DecryptedAccount {
	return &models.DecryptedAccount{
		Account:           *a,
		DecryptedPassword: decryptOpt(a.Password, masterPassword),
		DecryptedAPIKey:   decryptOpt(a.APIKey, masterPassword),
	}
}

// MarkAccountUsed stamps lastUsed with the current time.
func (s *Service) MarkAccountUsed(ctx context.Context, userID, id string) error {
	now := s.nowMillis()
	return s.newAccounts(s.db).Update(ctx, userID, id, accounts.Patch{LastUsed: &now}, now)
}

func (s *Service) CreateProject(ctx context.Context, userID, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: project name is required", common.ErrValidation)
	}
	now := s.nowMillis()
	p := &models.Project{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.newProjects(s.db).Insert(ctx, p); err != nil {
		return "", err
	}
	s.log.Info(ctx, "project created", "user", logging.ShortID(userID), "name", name)
	return p.ID, nil
}

func (s *Service) GetProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.newProjects(s.db).GetAll(ctx, userID)
}

func (s *Service) GetProjectByID(ctx context.Context, projectID, userID string) (*models.Project, error) {
	return s.newProjects(s.db).GetByID(ctx, projectID, userID)
}

// DeleteProject removes a project and all of its services in one
// transaction, so a crash cannot leave orphaned service rows.
func (s *Service) DeleteProject(ctx context.Context, projectID, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newProjects(tx)
		if err := repo.DeleteServicesByProject(ctx, projectID, userID); err != nil {
			return err
		}
		return repo.DeleteByID(ctx, projectID, userID)
	})
}

// AddProjectService encrypts the secret fields and attaches a service to an
// existing project. The parent project must belong to the same user;
// otherwise common.ErrProjectNotFound.
func (s *Service) AddProjectService(ctx context.Context, userID, projectID string, in NewService, masterPassword string) (string, error) {
	if in.ServiceName == "" {
		return "", fmt.Errorf("%w: serviceName is required", common.ErrValidation)
	}

	repo := s.newProjects(s.db)
	if _, err := repo.GetByID(ctx, projectID, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrProjectNotFound
		}
		return "", err
	}

	password, err := encryptOpt(in.Password, masterPassword)
	if err != nil {
		return "", err
	}
	apiKey, err := encryptOpt(in.APIKey, masterPassword)
	if err != nil {
		return "", err
	}

	now := s.nowMillis()
	svc := &models.ProjectService{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		UserID:      userID,
		ServiceName: in.ServiceName,
		Email:       in.Email,
		Password:    password,
		APIKey:      apiKey,
		ExpiryDate:  in.ExpiryDate,
		Notes:       in.Notes,
		CreatedAt:   now,
	}
	if err := repo.InsertService(ctx, svc); err != nil {
		return "", err
	}
	if err := repo.Touch(ctx, projectID, userID, now); err != nil {
		return "", err
	}
	return svc.ID, nil
}

// GetProjectServices lists a project's services decorated with lenient
// plaintext for display.
func (s *Service) GetProjectServices(ctx context.Context, userID, projectID, masterPassword string) ([]models.DecoratedService, error) {
	list, err := s.newProjects(s.db).GetServices(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	result := make([]models.DecoratedService, 0, len(list))
	for _, svc := range list {
		result = append(result, models.DecoratedService{
			ProjectService:    svc,
			DecryptedPassword: decryptOpt(svc.Password, masterPassword),
			DecryptedAPIKey:   decryptOpt(svc.APIKey, masterPassword),
		})
	}
	return result, nil
}

func (s *Service) DeleteProjectService(ctx context.Context, serviceID, userID string) error {
	return s.newProjects(s.db).DeleteServiceByID(ctx, serviceID, userID)
}

// Export builds the full decrypted snapshot for backup consumers. Secrets in
// the result are plaintext; callers own its lifetime.
func (s *Service) Export(ctx context.Context, userID, masterPassword string) (*models.ExportDocument, error) {
	accRepo := s.newAccounts(s.db)
	projRepo := s.newProjects(s.db)

	accs, err := accRepo.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	projs, err := projRepo.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	services, err := projRepo.GetAllServices(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc := &models.ExportDocument{
		ExportedAt:   s.now().UTC().Format(time.RFC3339),
		AccountCount: len(accs),
		ProjectCount: len(projs),
		ServiceCount: len(services),
		Projects:     projs,
	}
	for i := range accs {
		doc.Accounts = append(doc.Accounts, *s.DecryptAccount(&accs[i], masterPassword))
	}
	for _, svc := range services {
		doc.Services = append(doc.Services, models.DecoratedService{
			ProjectService:    svc,
			DecryptedPassword: decryptOpt(svc.Password, masterPassword),
			DecryptedAPIKey:   decryptOpt(svc.APIKey, masterPassword),
		})
	}
	return doc, nil
}
