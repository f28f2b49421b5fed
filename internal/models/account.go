// Package models defines the vault data model: accounts, projects, project
// services, notification preferences, and the aggregate document shipped to
// the cloud. JSON tags follow the on-wire names of the sync blob.
package models

// Priority classifies how important a stored credential is.
type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityImportant Priority = "important"
	PriorityCritical  Priority = "critical"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityImportant, PriorityCritical:
		return true
	}
	return false
}

// Account is a stored credential for one service, owned by exactly one user.
// Password and APIKey, when present, always hold ciphertext produced by the
// crypto engine; optional columns are pointers so that NULL stays
// distinguishable from an encrypted empty string.
type Account struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	ServiceName string   `json:"serviceName"`
	Email       string   `json:"email"`
	Category    string   `json:"category"`
	AccountID   *string  `json:"accountId,omitempty"`
	Password    *string  `json:"password,omitempty"`
	APIKey      *string  `json:"apiKey,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Priority    Priority `json:"priority"`

	// Epoch milliseconds.
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	LastUsed  *int64 `json:"lastUsed,omitempty"`
}

// DecryptedAccount is an Account plus display-time plaintext of its secret
// fields. Produced on demand; never persisted.
type DecryptedAccount struct {
	Account
	DecryptedPassword string `json:"decryptedPassword"`
	DecryptedAPIKey   string `json:"decryptedApiKey"`
}

// AccountStats summarizes a user's accounts for the dashboard.
type AccountStats struct {
	TotalAccounts       int `json:"totalAccounts"`
	CriticalAccounts    int `json:"criticalAccounts"`
	AccountsWithAPIKeys int `json:"accountsWithAPIKeys"`
}

// EmailCount is one row of the grouped unique-email listing.
type EmailCount struct {
	Email string `json:"email"`
	Count int    `json:"count"`
}
