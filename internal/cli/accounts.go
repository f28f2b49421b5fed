package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/harinadareddy11/account-vault/internal/models"
	"github.com/harinadareddy11/account-vault/internal/vault"
)

func (a *App) AddAccount(ctx context.Context) error {
	serviceName, err := GetSimpleText(a.reader, "Service name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	category, err := GetSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	accountID, err := GetOptionalText(a.reader, "Account id / username", a.out)
	if err != nil {
		return err
	}
	priority, err := GetSimpleText(a.reader, "Priority (normal/important/critical, empty = normal)", a.out)
	if err != nil {
		return err
	}

	var password *string
	pw, err := GetPassword("Account password (empty to skip)", a.out)
	if err != nil {
		return err
	}
	if pw != "" {
		password = &pw
	}
	apiKey, err := GetOptionalText(a.reader, "API key", a.out)
	if err != nil {
		return err
	}
	notes, err := GetOptionalText(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}

	id, err := a.vault.AddAccount(ctx, a.userID, vault.NewAccount{
		ServiceName: serviceName,
		Email:       email,
		Category:    category,
		AccountID:   accountID,
		Password:    password,
		APIKey:      apiKey,
		Notes:       notes,
		Priority:    models.Priority(priority),
	}, a.currentPassword())
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Saved account", id)
	return nil
}

func (a *App) printAccounts(accs []models.Account) {
	if len(accs) == 0 {
		printlnFn("No accounts.")
		return
	}
	for _, acc := range accs {
		line := fmt.Sprintf("%s  %-20s %-30s %-10s %s",
			acc.ID, acc.ServiceName, acc.Email, acc.Priority,
			time.UnixMilli(acc.CreatedAt).Format("2006-01-02"))
		printlnFn(line)
	}
}

func (a *App) ListAccounts(ctx context.Context) error {
	accs, err := a.vault.GetAllAccounts(ctx, a.userID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.printAccounts(accs)
	return nil
}

func (a *App) ShowAccount(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Account id", a.out)
	if err != nil {
		return err
	}

	acc, err := a.vault.GetAccountByID(ctx, a.userID, id)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	dec := a.vault.DecryptAccount(acc, a.currentPassword())

	printlnFn("Service: ", dec.ServiceName)
	printlnFn("Email:   ", dec.Email)
	printlnFn("Category:", dec.Category)
	printlnFn("Priority:", dec.Priority)
	if dec.AccountID != nil {
		printlnFn("Account: ", *dec.AccountID)
	}
	if dec.DecryptedPassword != "" {
		printlnFn("Password:", dec.DecryptedPassword)
	}
	if dec.DecryptedAPIKey != "" {
		printlnFn("API key: ", dec.DecryptedAPIKey)
	}
	if dec.Notes != nil {
		printlnFn("Notes:   ", *dec.Notes)
	}

	_ = a.vault.MarkAccountUsed(ctx, a.userID, id)
	return nil
}

func (a *App) SearchAccounts(ctx context.Context) error {
	query, err := GetSimpleText(a.reader, "Search query", a.out)
	if err != nil {
		return err
	}
	accs, err := a.vault.SearchAccounts(ctx, a.userID, query)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.printAccounts(accs)
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Account id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.vault.DeleteAccount(ctx, a.userID, id); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Deleted.")
	return nil
}
