package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/harinadareddy11/account-vault/internal/common"
)

func (a *App) Sync(ctx context.Context) error {
	if err := a.sync.SyncToCloud(ctx, a.userID, a.currentPassword()); err != nil {
		printlnFn("Sync failed:", err)
		return err
	}
	printlnFn("Vault uploaded.")
	return nil
}

// Restore replaces the local vault with the remote snapshot. When local rows
// are newer than the blob this is data loss, so the user confirms first.
func (a *App) Restore(ctx context.Context) error {
	newer, err := a.sync.LocalNewerThanRemote(ctx, a.userID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if newer {
		ok, err := Confirm(a.reader,
			"Local data is newer than the cloud backup. Restoring will overwrite it. Continue?", a.out)
		if err != nil {
			return err
		}
		if !ok {
			printlnFn("Cancelled.")
			return nil
		}
	}

	restored, err := a.sync.SyncFromCloud(ctx, a.userID, a.currentPassword())
	if err != nil {
		if errors.Is(err, common.ErrDecryptionFailed) {
			printlnFn("Backup could not be decrypted with this master password. Nothing was changed.")
		} else {
			printlnFn("Restore failed:", err)
		}
		return err
	}
	if restored == nil {
		printlnFn("No cloud backup found.")
		return nil
	}
	printlnFn(fmt.Sprintf("Restored %d accounts.", len(restored)))
	return nil
}
