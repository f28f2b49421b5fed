// Package cli is the interactive front end: a small REPL over the vault,
// sync and master-password services. Command handlers are thin glue; all
// business rules live in the services they call.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/harinadareddy11/account-vault/internal/authx"
	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/config"
	"github.com/harinadareddy11/account-vault/internal/logging"
	"github.com/harinadareddy11/account-vault/internal/masterpass"
	"github.com/harinadareddy11/account-vault/internal/notify"
	"github.com/harinadareddy11/account-vault/internal/repositories/metadata"
	"github.com/harinadareddy11/account-vault/internal/repositories/prefs"
	"github.com/harinadareddy11/account-vault/internal/repositories/projects"
	"github.com/harinadareddy11/account-vault/internal/storage"
	"github.com/harinadareddy11/account-vault/internal/syncx"
	"github.com/harinadareddy11/account-vault/internal/syncx/blobstore"
	"github.com/harinadareddy11/account-vault/internal/vault"
)

// localUser partitions data when running without a hosted auth session.
const localUser = "local"

type App struct {
	cfg   *config.Config
	store *storage.Store
	log   logging.Logger

	vault  *vault.Service
	master *masterpass.Service
	sync   *syncx.Service
	notify *notify.Service

	userID string

	// masterPassword is read by the auto-sync goroutine; guard every
	// access so a passwd mid-session is seen by the next tick.
	pwMu           sync.RWMutex
	masterPassword string

	reader *bufio.Reader
	out    io.Writer
}

func (a *App) currentPassword() string {
	a.pwMu.RLock()
	defer a.pwMu.RUnlock()
	return a.masterPassword
}

func (a *App) setPassword(pw string) {
	a.pwMu.Lock()
	defer a.pwMu.Unlock()
	a.masterPassword = pw
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store := storage.New(cfg.DatabaseDSN)
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to open vault database: %w", err)
	}
	db, err := store.DB()
	if err != nil {
		return nil, err
	}

	userID := localUser
	var authProvider masterpass.AuthProvider
	if cfg.AuthBaseURL != "" && cfg.AccessToken != "" {
		client := authx.NewClient(cfg.AuthBaseURL, cfg.AccessToken, cfg.SyncTimeout)
		sess, err := client.Session(ctx)
		if err != nil {
			return nil, err
		}
		userID = sess.UserID
		authProvider = client
	}

	var blobs blobstore.Store
	if cfg.S3Bucket != "" {
		blobs, err = blobstore.NewS3Store(ctx, blobstore.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
	} else {
		blobs = blobstore.NewMemory()
	}

	vaultSvc := vault.New(db, log)
	masterSvc := masterpass.New(metadata.NewSQLiteRepository(db), authProvider, vaultSvc, nil, log)
	syncSvc := syncx.New(db, blobs, log, cfg.SyncTimeout)
	notifySvc := notify.New(prefs.NewSQLiteRepository(db), projects.NewSQLiteRepository(db), log)

	return &App{
		cfg:    cfg,
		store:  store,
		log:    log,
		vault:  vaultSvc,
		master: masterSvc,
		sync:   syncSvc,
		notify: notifySvc,
		userID: userID,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isUnlocked() bool {
	return a.currentPassword() != ""
}

func (a *App) status() string {
	if !a.isUnlocked() {
		return "locked"
	}
	return fmt.Sprintf("%s (%s)", logging.ShortID(a.userID), a.sync.Status(a.userID))
}

// Unlock runs first-time setup or password verification, depending on
// whether a master password exists for this user.
func (a *App) Unlock(ctx context.Context) error {
	initialized, err := a.master.IsInitialized(ctx, a.userID)
	if err != nil {
		return err
	}

	if !initialized {
		printlnFn("No master password set. Let's create one.")
		for {
			pw, err := GetPassword("New master password", a.out)
			if err != nil {
				return err
			}
			confirm, err := GetPassword("Repeat master password", a.out)
			if err != nil {
				return err
			}
			if pw != confirm {
				printlnFn("Passwords do not match, try again.")
				continue
			}
			if err := a.master.Initialize(ctx, a.userID, pw); err != nil {
				if errors.Is(err, common.ErrWeakPassword) {
					printlnFn(err.Error())
					continue
				}
				return err
			}
			a.setPassword(pw)
			return nil
		}
	}

	for attempt := 0; attempt < 3; attempt++ {
		pw, err := GetPassword("Master password", a.out)
		if err != nil {
			return err
		}
		err = a.master.Verify(ctx, a.userID, pw)
		if err == nil {
			a.setPassword(pw)
			return nil
		}
		if errors.Is(err, common.ErrPasswordMismatch) {
			printlnFn("Wrong password.")
			continue
		}
		return err
	}
	return common.ErrPasswordMismatch
}

// Run unlocks the vault, starts background sync when a remote is configured
// and hands control to the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer func() { _ = a.store.Close() }()

	if err := a.Unlock(ctx); err != nil {
		return err
	}

	if a.cfg.S3Bucket != "" && a.cfg.AutoSyncInterval > 0 {
		go a.sync.StartAutoSync(ctx, a.userID, a.currentPassword, a.cfg.AutoSyncInterval)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}
