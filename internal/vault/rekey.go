package vault

import (
	"context"

	"github.com/harinadareddy11/account-vault/internal/cryptox"
	"github.com/harinadareddy11/account-vault/internal/dbx"
	"github.com/harinadareddy11/account-vault/internal/logging"
	"github.com/harinadareddy11/account-vault/internal/repositories/accounts"
)

// RekeyAll re-encrypts every secret field of the user under the new master
// password, in a single transaction. Any token that does not decrypt under
// oldPassword aborts the whole operation, leaving the vault untouched: a
// partially-rekeyed vault would be unreadable under either password.
//
// Row timestamps are preserved so a rekey does not masquerade as a content
// change for sync-freshness comparisons.
func (s *Service) RekeyAll(ctx context.Context, userID, oldPassword, newPassword string) error {
	reencryptOpt := func(token *string) (*string, error) {
		if token == nil {
			return nil, nil
		}
		fresh, err := cryptox.Reencrypt(*token, oldPassword, newPassword)
		if err != nil {
			return nil, err
		}
		return &fresh, nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accRepo := s.newAccounts(tx)
		projRepo := s.newProjects(tx)

		accs, err := accRepo.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		for i := range accs {
			a := &accs[i]
			if a.Password == nil && a.APIKey == nil {
				continue
			}
			password, err := reencryptOpt(a.Password)
			if err != nil {
				return err
			}
			apiKey, err := reencryptOpt(a.APIKey)
			if err != nil {
				return err
			}
			if err := accRepo.Update(ctx, userID, a.ID, accounts.Patch{Password: password, APIKey: apiKey}, a.UpdatedAt); err != nil {
				return err
			}
		}

		services, err := projRepo.GetAllServices(ctx, userID)
		if err != nil {
			return err
		}
		for i := range services {
			svc := &services[i]
			if svc.Password == nil && svc.APIKey == nil {
				continue
			}
			password, err := reencryptOpt(svc.Password)
			if err != nil {
				return err
			}
			apiKey, err := reencryptOpt(svc.APIKey)
			if err != nil {
				return err
			}
			if err := projRepo.UpdateServiceSecrets(ctx, svc.ID, userID, password, apiKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "vault rekeyed", "user", logging.ShortID(userID))
	return nil
}
