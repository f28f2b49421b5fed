package models

// ProjectWithServices nests a project's services for the sync blob.
type ProjectWithServices struct {
	Project
	Services []ProjectService `json:"services"`
}

// VaultDocument is the aggregate serialized, encrypted as one blob, and
// upserted to the remote store. Secret fields inside it stay ciphertext:
// restore copies them through verbatim without re-encryption.
type VaultDocument struct {
	Accounts []Account             `json:"accounts"`
	Projects []ProjectWithServices `json:"projects"`
	SyncedAt string                `json:"syncedAt"`
}

// ExportDocument is the full decrypted snapshot handed to backup/export
// consumers. Secrets here are plaintext; it is produced only on explicit
// request and never persisted by the core.
type ExportDocument struct {
	ExportedAt   string             `json:"exportedAt"`
	AccountCount int                `json:"accountCount"`
	ProjectCount int                `json:"projectCount"`
	ServiceCount int                `json:"serviceCount"`
	Accounts     []DecryptedAccount `json:"accounts"`
	Projects     []Project          `json:"projects"`
	Services     []DecoratedService `json:"services"`
}
