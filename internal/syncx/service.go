// Package syncx replicates a user's vault to the remote blob store and back.
// The unit of sync is the whole vault: every row is gathered, wrapped in one
// document, encrypted as a single token and upserted. Restore is the
// mirror image and is destructive on the local side.
package syncx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/cryptox"
	"github.com/harinadareddy11/account-vault/internal/dbx"
	"github.com/harinadareddy11/account-vault/internal/logging"
	"github.com/harinadareddy11/account-vault/internal/models"
	"github.com/harinadareddy11/account-vault/internal/repositories/accounts"
	"github.com/harinadareddy11/account-vault/internal/repositories/projects"
	"github.com/harinadareddy11/account-vault/internal/syncx/blobstore"
)

// Status is the sync state of one user, for UI polling.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)

type Service struct {
	db      *sql.DB
	store   blobstore.Store
	log     logging.Logger
	now     func() time.Time
	timeout time.Duration

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	status map[string]Status

	newAccounts func(dbx.DBTX) accounts.Repository
	newProjects func(dbx.DBTX) projects.Repository
}

func New(db *sql.DB, store blobstore.Store, log logging.Logger, timeout time.Duration) *Service {
	return &Service{
		db:      db,
		store:   store,
		log:     log.With("component", "sync"),
		now:     time.Now,
		timeout: timeout,
		locks:   make(map[string]*sync.Mutex),
		status:  make(map[string]Status),
		newAccounts: func(d dbx.DBTX) accounts.Repository {
			return accounts.NewSQLiteRepository(d)
		},
		newProjects: func(d dbx.DBTX) projects.Repository {
			return projects.NewSQLiteRepository(d)
		},
	}
}

// userLock serializes all sync activity for one user. Upload and restore
// share the lock, so the two can never interleave on the same partition.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *Service) setStatus(userID string, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[userID] = st
}

// Status reports the last known sync state for the user.
func (s *Service) Status(userID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[userID]
	if !ok {
		return StatusIdle
	}
	return st
}

func (s *Service) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) buildDocument(ctx context.Context, userID string) (*models.VaultDocument, error) {
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

	doc := &models.VaultDocument{
		Accounts: accs,
		SyncedAt: s.now().UTC().Format(time.RFC3339),
	}
	for _, p := range projs {
		services, err := projRepo.GetServices(ctx, userID, p.ID)
		if err != nil {
			return nil, err
		}
		doc.Projects = append(doc.Projects, models.ProjectWithServices{
			Project:  p,
			Services: services,
		})
	}
	return doc, nil
}

// SyncToCloud snapshots the user's rows (ciphertext as stored), encrypts the
// whole document under the master password and upserts it remotely.
func (s *Service) SyncToCloud(ctx context.Context, userID, masterPassword string) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	s.setStatus(userID, StatusSyncing)
	err := s.syncToCloud(ctx, userID, masterPassword)
	if err != nil {
		s.setStatus(userID, StatusError)
		return err
	}
	s.setStatus(userID, StatusSynced)
	return nil
}

func (s *Service) syncToCloud(ctx context.Context, userID, masterPassword string) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	doc, err := s.buildDocument(ctx, userID)
	if err != nil {
		return err
	}

	token, err := cryptox.Encrypt(doc, masterPassword)
	if err != nil {
		return err
	}

	if err := s.store.Upsert(ctx, userID, token); err != nil {
		return fmt.Errorf("%w: upload failed: %v", common.ErrSync, err)
	}

	s.log.Info(ctx, "vault uploaded",
		"user", logging.ShortID(userID),
		"accounts", len(doc.Accounts),
		"projects", len(doc.Projects))
	return nil
}

// SyncFromCloud replaces the user's local rows with the remote snapshot.
// (nil, nil) means there is no backup and nothing was touched; a backup
// that decrypts to zero accounts returns an empty non-nil slice, because
// the destructive replace did run. Decryption is strict: a wrong password
// or corrupted blob returns common.ErrDecryptionFailed with local rows
// untouched. Only after the document decodes cleanly does one transaction
// delete the partition and re-insert every row verbatim.
func (s *Service) SyncFromCloud(ctx context.Context, userID, masterPassword string) ([]models.Account, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	s.setStatus(userID, StatusSyncing)
	accs, err := s.syncFromCloud(ctx, userID, masterPassword)
	if err != nil {
		s.setStatus(userID, StatusError)
		return nil, err
	}
	s.setStatus(userID, StatusSynced)
	return accs, nil
}

func (s *Service) syncFromCloud(ctx context.Context, userID, masterPassword string) ([]models.Account, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	blob, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: download failed: %v", common.ErrSync, err)
	}
	if blob == nil {
		return nil, nil
	}

	var doc models.VaultDocument
	if err := cryptox.DecryptInto(blob.Ciphertext, masterPassword, &doc); err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accRepo := s.newAccounts(tx)
		projRepo := s.newProjects(tx)

		if err := accRepo.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		if err := projRepo.DeleteAllServicesForUser(ctx, userID); err != nil {
			return err
		}
		if err := projRepo.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}

		for i := range doc.Accounts {
			a := doc.Accounts[i]
			a.UserID = userID
			if err := accRepo.Insert(ctx, &a); err != nil {
				return err
			}
		}
		for _, p := range doc.Projects {
			proj := p.Project
			proj.UserID = userID
			if err := projRepo.Insert(ctx, &proj); err != nil {
				return err
			}
			for i := range p.Services {
				svc := p.Services[i]
				svc.UserID = userID
				svc.ProjectID = proj.ID
				if err := projRepo.InsertService(ctx, &svc); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "vault restored",
		"user", logging.ShortID(userID),
		"accounts", len(doc.Accounts),
		"projects", len(doc.Projects),
		"syncedAt", doc.SyncedAt)

	// A restored-but-empty vault must stay distinguishable from "no backup".
	if doc.Accounts == nil {
		return []models.Account{}, nil
	}
	return doc.Accounts, nil
}

// AutoSyncToCloud is the background upload: failures are logged and
// swallowed so a flaky network never surfaces as an application error.
func (s *Service) AutoSyncToCloud(ctx context.Context, userID, masterPassword string) {
	if err := s.SyncToCloud(ctx, userID, masterPassword); err != nil {
		s.log.Warn(ctx, "auto-sync failed", "user", logging.ShortID(userID), "error", err)
	}
}

// StartAutoSync uploads on every tick until ctx is cancelled. Run it in its
// own goroutine. The password is a source, not a value: it is re-read on
// every tick so a master-password change mid-session does not keep
// uploading blobs encrypted under the old password.
func (s *Service) StartAutoSync(ctx context.Context, userID string, masterPassword func() string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.AutoSyncToCloud(ctx, userID, masterPassword())
		}
	}
}

// LocalNewerThanRemote reports whether any local row was modified after the
// remote blob was written. Callers use it to warn before a destructive
// restore. With no remote blob, any local data counts as newer.
func (s *Service) LocalNewerThanRemote(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var maxLocal int64
	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(t), 0) FROM (
			SELECT MAX(updatedAt) AS t FROM accounts WHERE userId = ?
			UNION ALL
			SELECT MAX(updatedAt) AS t FROM projects WHERE userId = ?
		)`, userID, userID)
	if err := row.Scan(&maxLocal); err != nil {
		return false, err
	}

	blob, err := s.store.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%w: download failed: %v", common.ErrSync, err)
	}
	if blob == nil {
		return maxLocal > 0, nil
	}
	return maxLocal > blob.UpdatedAt.UnixMilli(), nil
}
