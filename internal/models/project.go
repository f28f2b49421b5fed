package models

// Project is a named container of related services owned by a user.
type Project struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// ProjectService is a credential scoped to a project. The same ciphertext
// invariant as Account applies to Password and APIKey.
type ProjectService struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	UserID      string  `json:"userId"`
	ServiceName string  `json:"serviceName"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	APIKey      *string `json:"apiKey,omitempty"`
	// ExpiryDate is an ISO date string (YYYY-MM-DD).
	ExpiryDate *string `json:"expiryDate,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
}

// DecoratedService is a ProjectService augmented with decrypted convenience
// fields alongside the still-ciphertext originals, so exporters and sync can
// choose either representation.
type DecoratedService struct {
	ProjectService
	DecryptedPassword string `json:"decryptedPassword"`
	DecryptedAPIKey   string `json:"decryptedApiKey"`
}
