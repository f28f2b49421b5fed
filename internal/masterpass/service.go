// Package masterpass manages the master-password lifecycle: first-time
// setup, verification, rotation, and the optional biometric escrow. The
// password itself is never persisted; only its deterministic hash lives in
// the metadata table, keyed per user.
package masterpass

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"unicode"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/cryptox"
	"github.com/harinadareddy11/account-vault/internal/logging"
	"github.com/harinadareddy11/account-vault/internal/repositories/metadata"
)

const minPasswordLen = 8

// Rekeyer re-encrypts every stored secret of a user under a new password.
// Implemented by the vault service; declared here to avoid a package cycle.
type Rekeyer interface {
	RekeyAll(ctx context.Context, userID, oldPassword, newPassword string) error
}

// AuthProvider rotates the remote sign-in password alongside the master
// password, keeping the two aligned. Nil means local-only operation.
type AuthProvider interface {
	UpdatePassword(ctx context.Context, newPassword string) error
}

// Escrow stores the plaintext master password in a platform keystore for
// biometric unlock. Retrieve returns "" when nothing is escrowed.
type Escrow interface {
	Store(userID, password string) error
	Retrieve(userID string) (string, error)
	Delete(userID string) error
}

type Service struct {
	meta    metadata.Repository
	auth    AuthProvider
	rekeyer Rekeyer
	escrow  Escrow
	log     logging.Logger
}

func New(meta metadata.Repository, auth AuthProvider, rekeyer Rekeyer, escrow Escrow, log logging.Logger) *Service {
	return &Service{
		meta:    meta,
		auth:    auth,
		rekeyer: rekeyer,
		escrow:  escrow,
		log:     log.With("component", "masterpass"),
	}
}

func hashKey(userID string) string {
	return "master_password_hash_" + userID
}

// Initialize stores the password hash on first use. A second call is a
// no-op success regardless of the password given, so callers can run it
// unconditionally on startup without risk of silently re-keying.
func (s *Service) Initialize(ctx context.Context, userID, password string) error {
	existing, err := s.meta.Get(ctx, hashKey(userID))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: need at least %d characters", common.ErrWeakPassword, minPasswordLen)
	}
	if err := s.meta.Set(ctx, hashKey(userID), []byte(cryptox.HashPassword(password))); err != nil {
		return err
	}
	s.log.Info(ctx, "master password initialized", "user", logging.ShortID(userID))
	return nil
}

// IsInitialized reports whether the user has a stored hash.
func (s *Service) IsInitialized(ctx context.Context, userID string) (bool, error) {
	existing, err := s.meta.Get(ctx, hashKey(userID))
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// Verify checks candidate against the stored hash. With no hash stored the
// answer is common.ErrMasterPasswordNotSet, never an implicit setup: setting
// a password must be an explicit act.
func (s *Service) Verify(ctx context.Context, userID, candidate string) error {
	stored, err := s.meta.Get(ctx, hashKey(userID))
	if err != nil {
		return err
	}
	if stored == nil {
		return common.ErrMasterPasswordNotSet
	}
	if subtle.ConstantTimeCompare(stored, []byte(cryptox.HashPassword(candidate))) != 1 {
		return common.ErrPasswordMismatch
	}
	return nil
}

// Change rotates the master password. Order matters: remote auth first (a
// rejected rotation must leave everything untouched), then the vault rekey,
// and only then the local hash. The hash never points at a password the
// ciphertext does not yet use.
func (s *Service) Change(ctx context.Context, userID, current, next string) error {
	if err := s.Verify(ctx, userID, current); err != nil {
		return err
	}
	if len(next) < minPasswordLen {
		return fmt.Errorf("%w: need at least %d characters", common.ErrWeakPassword, minPasswordLen)
	}
	if next == current {
		return common.ErrPasswordUnchanged
	}

	if s.auth != nil {
		if err := s.auth.UpdatePassword(ctx, next); err != nil {
			return err
		}
	}

	if err := s.rekeyer.RekeyAll(ctx, userID, current, next); err != nil {
		return err
	}

	if err := s.meta.Set(ctx, hashKey(userID), []byte(cryptox.HashPassword(next))); err != nil {
		return err
	}

	// A previously escrowed password is now stale.
	if s.escrow != nil {
		if err := s.escrow.Delete(userID); err != nil {
			s.log.Warn(ctx, "failed to drop escrowed password", "user", logging.ShortID(userID), "error", err)
		}
	}

	s.log.Info(ctx, "master password changed", "user", logging.ShortID(userID))
	return nil
}

// EnableEscrow verifies the password and hands it to the platform keystore
// for biometric unlock.
func (s *Service) EnableEscrow(ctx context.Context, userID, password string) error {
	if s.escrow == nil {
		return fmt.Errorf("%w: no escrow backend configured", common.ErrAuth)
	}
	if err := s.Verify(ctx, userID, password); err != nil {
		return err
	}
	return s.escrow.Store(userID, password)
}

// UnlockFromEscrow retrieves the escrowed password and re-verifies it
// against the current hash before returning it. A stale entry (the password
// changed since escrow) is deleted and reported as a mismatch.
func (s *Service) UnlockFromEscrow(ctx context.Context, userID string) (string, error) {
	if s.escrow == nil {
		return "", fmt.Errorf("%w: no escrow backend configured", common.ErrAuth)
	}
	password, err := s.escrow.Retrieve(userID)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", common.ErrNotFound
	}
	if err := s.Verify(ctx, userID, password); err != nil {
		if errors.Is(err, common.ErrPasswordMismatch) {
			_ = s.escrow.Delete(userID)
		}
		return "", err
	}
	return password, nil
}

// PasswordStrength scores a candidate from 0 to 5 and lists what is missing.
// Advisory only; Initialize and Change enforce just the length floor.
func PasswordStrength(password string) (int, []string) {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	score := 0
	var feedback []string
	if len(password) >= minPasswordLen {
		score++
	} else {
		feedback = append(feedback, fmt.Sprintf("use at least %d characters", minPasswordLen))
	}
	if hasUpper {
		score++
	} else {
		feedback = append(feedback, "add an uppercase letter")
	}
	if hasLower {
		score++
	} else {
		feedback = append(feedback, "add a lowercase letter")
	}
	if hasDigit {
		score++
	} else {
		feedback = append(feedback, "add a digit")
	}
	if hasSymbol {
		score++
	} else {
		feedback = append(feedback, "add a symbol")
	}
	return score, feedback
}
