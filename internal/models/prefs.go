package models

// NotificationPreferences is the single per-user settings row. Not
// sensitive; stored in plaintext. Boolean toggles are kept as ints to match
// the storage schema (0/1).
type NotificationPreferences struct {
	ID                     string `json:"id"`
	UserID                 string `json:"userId"`
	APIExpiryNotifications int    `json:"apiExpiryNotifications"`
	APIExpiryDaysBefore    int    `json:"apiExpiryDaysBefore"`
	AutoLockEnabled        int    `json:"autoLockEnabled"`
	AutoLockMinutes        int    `json:"autoLockMinutes"`
	BiometricEnabled       int    `json:"biometricEnabled"`
	Theme                  string `json:"theme"`
	CreatedAt              int64  `json:"createdAt"`
	UpdatedAt              int64  `json:"updatedAt"`
}

// DefaultPreferences returns the lazily-created defaults for a new user:
// expiry alerts on with a 10-day lead, auto-lock off at 15 minutes,
// biometric unlock off, dark theme.
func DefaultPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:                 userID,
		APIExpiryNotifications: 1,
		APIExpiryDaysBefore:    10,
		AutoLockEnabled:        0,
		AutoLockMinutes:        15,
		BiometricEnabled:       0,
		Theme:                  "dark",
	}
}
