package vault

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/logging"
	"github.com/harinadareddy11/account-vault/internal/models"

	_ "modernc.org/sqlite"
)

const (
	testUser   = "u1"
	masterPass = "correcthorse"
)

func setupService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE accounts (
  id TEXT PRIMARY KEY,
  userId TEXT NOT NULL DEFAULT '',
  serviceName TEXT NOT NULL,
  email TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  accountId TEXT,
  password TEXT,
  apiKey TEXT,
  notes TEXT,
  priority TEXT NOT NULL DEFAULT 'normal',
  createdAt INTEGER NOT NULL,
  updatedAt INTEGER NOT NULL,
  lastUsed INTEGER
);
CREATE TABLE projects (
  id TEXT PRIMARY KEY,
  userId TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  createdAt INTEGER NOT NULL,
  updatedAt INTEGER NOT NULL
);
CREATE TABLE project_services (
  id TEXT PRIMARY KEY,
  projectId TEXT NOT NULL,
  userId TEXT NOT NULL DEFAULT '',
  serviceName TEXT NOT NULL,
  email TEXT,
  password TEXT,
  apiKey TEXT,
  expiryDate TEXT,
  notes TEXT,
  createdAt INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(db, log), db
}

func strptr(s string) *string { return &s }

func TestAddAccount_EncryptsSecretsAtRest(t *testing.T) {
	s, db := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "GitHub",
		Email:       "dev@example.com",
		Category:    "work",
		Password:    strptr("hunter2"),
	}, masterPass)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var stored string
	require.NoError(t, db.QueryRow(`SELECT password FROM accounts WHERE id = ?`, id).Scan(&stored))
	assert.NotEqual(t, "hunter2", stored)
	assert.NotContains(t, stored, "hunter2")

	got, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	dec := s.DecryptAccount(got, masterPass)
	assert.Equal(t, "hunter2", dec.DecryptedPassword)
	assert.Empty(t, dec.DecryptedAPIKey)
	assert.Equal(t, models.PriorityNormal, got.Priority)
}

func TestAddAccount_Validation(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	_, err := s.AddAccount(ctx, testUser, NewAccount{Email: "a@b.c"}, masterPass)
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = s.AddAccount(ctx, testUser, NewAccount{ServiceName: "x"}, masterPass)
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "x", Email: "a@b.c", Priority: models.Priority("urgent"),
	}, masterPass)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestUpdateAccount_NilSecretKeepsCiphertext(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "GitHub", Email: "dev@example.com", Password: strptr("hunter2"),
	}, masterPass)
	require.NoError(t, err)

	require.NoError(t, s.UpdateAccount(ctx, testUser, id, AccountUpdate{
		Email: strptr("new@example.com"),
	}, masterPass))

	got, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "hunter2", s.DecryptAccount(got, masterPass).DecryptedPassword)

	// supplied secret replaces the old ciphertext
	require.NoError(t, s.UpdateAccount(ctx, testUser, id, AccountUpdate{
		Password: strptr("tr0ub4dor"),
	}, masterPass))
	got, err = s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	assert.Equal(t, "tr0ub4dor", s.DecryptAccount(got, masterPass).DecryptedPassword)
}

func TestUpdateAccount_StaleID(t *testing.T) {
	s, _ := setupService(t)

	err := s.UpdateAccount(context.Background(), testUser, "ghost", AccountUpdate{
		Email: strptr("x@y.z"),
	}, masterPass)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDeleteAccount_Idempotent(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{ServiceName: "a", Email: "a@b.c"}, masterPass)
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(ctx, testUser, id))
	require.NoError(t, s.DeleteAccount(ctx, testUser, id))

	_, err = s.GetAccountByID(ctx, testUser, id)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDecryptAccount_WrongPasswordIsLenient(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "GitHub", Email: "dev@example.com", Password: strptr("hunter2"),
	}, masterPass)
	require.NoError(t, err)

	got, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	dec := s.DecryptAccount(got, "not-the-password")
	assert.Empty(t, dec.DecryptedPassword)
}

func TestMarkAccountUsed(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{ServiceName: "a", Email: "a@b.c"}, masterPass)
	require.NoError(t, err)

	require.NoError(t, s.MarkAccountUsed(ctx, testUser, id))

	got, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsed)
	assert.Positive(t, *got.LastUsed)
}

func TestProjectLifecycle_CascadeDelete(t *testing.T) {
	s, db := setupService(t)
	ctx := context.Background()

	pid, err := s.CreateProject(ctx, testUser, "infra")
	require.NoError(t, err)

	_, err = s.CreateProject(ctx, testUser, "")
	assert.True(t, errors.Is(err, common.ErrValidation))

	sid, err := s.AddProjectService(ctx, testUser, pid, NewService{
		ServiceName: "Postgres",
		Password:    strptr("db-secret"),
		ExpiryDate:  strptr("2026-12-31"),
	}, masterPass)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	// attaching to a project the user does not own fails
	_, err = s.AddProjectService(ctx, "u2", pid, NewService{ServiceName: "x"}, masterPass)
	assert.True(t, errors.Is(err, common.ErrProjectNotFound))

	list, err := s.GetProjectServices(ctx, testUser, pid, masterPass)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "db-secret", list[0].DecryptedPassword)

	require.NoError(t, s.DeleteProject(ctx, pid, testUser))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM project_services WHERE projectId = ?`, pid).Scan(&count))
	assert.Equal(t, 0, count)

	_, err = s.GetProjectByID(ctx, pid, testUser)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestExport_DecryptsEverything(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	_, err := s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "GitHub", Email: "dev@example.com", Password: strptr("hunter2"),
	}, masterPass)
	require.NoError(t, err)

	pid, err := s.CreateProject(ctx, testUser, "infra")
	require.NoError(t, err)
	_, err = s.AddProjectService(ctx, testUser, pid, NewService{
		ServiceName: "Redis", APIKey: strptr("key-123"),
	}, masterPass)
	require.NoError(t, err)

	doc, err := s.Export(ctx, testUser, masterPass)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.AccountCount)
	assert.Equal(t, 1, doc.ProjectCount)
	assert.Equal(t, 1, doc.ServiceCount)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "hunter2", doc.Accounts[0].DecryptedPassword)
	require.Len(t, doc.Services, 1)
	assert.Equal(t, "key-123", doc.Services[0].DecryptedAPIKey)
	assert.NotEmpty(t, doc.ExportedAt)
}

func TestRekeyAll_RoundTrip(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "GitHub", Email: "dev@example.com",
		Password: strptr("hunter2"), APIKey: strptr("ghp_abc"),
	}, masterPass)
	require.NoError(t, err)

	pid, err := s.CreateProject(ctx, testUser, "infra")
	require.NoError(t, err)
	sid, err := s.AddProjectService(ctx, testUser, pid, NewService{
		ServiceName: "Postgres", Password: strptr("db-secret"),
	}, masterPass)
	require.NoError(t, err)

	const newPass = "batterystaple"
	require.NoError(t, s.RekeyAll(ctx, testUser, masterPass, newPass))

	got, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	dec := s.DecryptAccount(got, newPass)
	assert.Equal(t, "hunter2", dec.DecryptedPassword)
	assert.Equal(t, "ghp_abc", dec.DecryptedAPIKey)
	// old password no longer opens anything
	assert.Empty(t, s.DecryptAccount(got, masterPass).DecryptedPassword)

	list, err := s.GetProjectServices(ctx, testUser, pid, newPass)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sid, list[0].ID)
	assert.Equal(t, "db-secret", list[0].DecryptedPassword)
}

func TestRekeyAll_WrongOldPasswordLeavesVaultIntact(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "GitHub", Email: "dev@example.com", Password: strptr("hunter2"),
	}, masterPass)
	require.NoError(t, err)

	err = s.RekeyAll(ctx, testUser, "wrong-password", "batterystaple")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))

	got, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", s.DecryptAccount(got, masterPass).DecryptedPassword)
}

func TestRekeyAll_PreservesTimestamps(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	id, err := s.AddAccount(ctx, testUser, NewAccount{
		ServiceName: "GitHub", Email: "dev@example.com", Password: strptr("hunter2"),
	}, masterPass)
	require.NoError(t, err)

	before, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)

	require.NoError(t, s.RekeyAll(ctx, testUser, masterPass, "batterystaple"))

	after, err := s.GetAccountByID(ctx, testUser, id)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}
