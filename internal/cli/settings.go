package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/harinadareddy11/account-vault/internal/masterpass"
	"github.com/harinadareddy11/account-vault/internal/repositories/prefs"
)

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := GetPassword("Current master password", a.out)
	if err != nil {
		return err
	}
	next, err := GetPassword("New master password", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat new master password", a.out)
	if err != nil {
		return err
	}
	if next != confirm {
		printlnFn("Passwords do not match.")
		return nil
	}

	if score, feedback := masterpass.PasswordStrength(next); score < 3 {
		printlnFn("Weak password:")
		for _, f := range feedback {
			printlnFn("  -", f)
		}
	}

	if err := a.master.Change(ctx, a.userID, current, next); err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.setPassword(next)
	printlnFn("Master password changed; all secrets re-encrypted.")
	return nil
}

func (a *App) Preferences(ctx context.Context) error {
	p, err := a.notify.Preferences(ctx, a.userID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Expiry alerts: %d (days before: %d), theme: %s",
		p.APIExpiryNotifications, p.APIExpiryDaysBefore, p.Theme))

	days, err := GetSimpleText(a.reader, "Days of expiry warning (empty = keep)", a.out)
	if err != nil {
		return err
	}
	if days == "" {
		return nil
	}
	n, err := strconv.Atoi(days)
	if err != nil {
		printlnFn("Not a number.")
		return nil
	}
	if _, err := a.notify.UpdatePreferences(ctx, a.userID, prefs.Patch{APIExpiryDaysBefore: &n}); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Saved.")
	return nil
}

func (a *App) Expiring(ctx context.Context) error {
	list, err := a.notify.ExpiringServices(ctx, a.userID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if len(list) == 0 {
		printlnFn("Nothing expiring soon.")
		return nil
	}
	for _, s := range list {
		printlnFn(fmt.Sprintf("%-20s expires %s (in %d days)", s.ServiceName, *s.ExpiryDate, s.DaysUntilExpiry))
	}
	return nil
}

// Export writes the decrypted vault snapshot to a JSON file. The file holds
// plaintext secrets; the user names it and owns it.
func (a *App) Export(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Export file path", a.out)
	if err != nil {
		return err
	}

	doc, err := a.vault.Export(ctx, a.userID, a.currentPassword())
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Exported %d accounts and %d services to %s. The file contains plaintext secrets.",
		doc.AccountCount, doc.ServiceCount, path))
	return nil
}
