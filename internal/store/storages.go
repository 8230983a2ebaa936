package store

import "github.com/soclink/authcore/internal/logger"

// Storages bundles the persistent repositories handed to the service layer.
type Storages struct {
	Credentials CredentialStore
	MFASecrets  MFASecretStore
	AuditLog    AuditLog
}

func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		Credentials: NewCredentialStore(db, logger),
		MFASecrets:  NewMFASecretStore(db, logger),
		AuditLog:    NewAuditLog(db, logger),
	}
}
