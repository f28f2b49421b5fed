// Package authx talks to the hosted auth service. The vault itself is
// local-first; the auth service only keeps the sign-in password aligned with
// the master password and tells us which user partition we operate on.
package authx

import "context"

// Session identifies the signed-in user.
type Session struct {
	UserID      string
	AccessToken string
}

// Provider is what the master-password service needs from auth: rotate the
// remote sign-in password and identify the current user.
type Provider interface {
	// UpdatePassword rotates the remote account password. Failure wraps
	// common.ErrAuth.
	UpdatePassword(ctx context.Context, newPassword string) error

	// Session returns the current session, or an error wrapping
	// common.ErrAuth when there is none.
	Session(ctx context.Context) (*Session, error)
}
