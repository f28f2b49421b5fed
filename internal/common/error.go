// Package common defines shared sentinel errors used across the vault
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrStorageNotReady = errors.New("storage not initialized")
	ErrProjectNotFound = errors.New("project not found")

	// Validation errors (missing required field, bad value).
	ErrValidation = errors.New("validation error")

	// Crypto errors. ErrDecryptionFailed distinguishes "could not read what
	// is stored" from "nothing stored": callers that must not overwrite
	// local state with garbage (sync restore) check for it explicitly.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Master password lifecycle errors.
	ErrMasterPasswordNotSet = errors.New("master password not initialized")
	ErrPasswordMismatch     = errors.New("password does not match")
	ErrWeakPassword         = errors.New("password must be at least 8 characters")
	ErrPasswordUnchanged    = errors.New("new password must differ from current password")

	// Remote identity provider rejected an operation.
	ErrAuth = errors.New("auth provider error")

	// Network/remote-store failure during sync. Swallowed by auto-sync,
	// surfaced as a status flag to manual callers.
	ErrSync = errors.New("sync failed")
)
