//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock
package service

import (
	"context"

	"github.com/MKhiriev/go-data-vault/models"
)

// SessionService is the session authority: it authenticates credentials,
// issues and validates session tokens, and keeps the authoritative registry
// that makes logout and forced invalidation effective before natural expiry.
type SessionService interface {
	// Login authenticates email/password and issues a session. Failed
	// attempts are counted per account; crossing the configured threshold
	// locks the account for the lockout window.
	Login(ctx context.Context, email, password string) (models.Session, error)

	// Logout invalidates the presented token. Idempotent: a token already
	// absent from the registry is not an error.
	Logout(ctx context.Context, token string) error

	// ValidateToken checks signature, registry membership, expiry against
	// the authority's clock, and the backing account's current status. The
	// returned session carries the account's CURRENT role, so rank changes
	// take effect at the next validation.
	ValidateToken(ctx context.Context, token string) (models.Session, error)

	// InvalidateUserSessions revokes every live session of the given user
	// and returns how many were removed.
	InvalidateUserSessions(ctx context.Context, userID string) int

	// SweepExpired drops expired sessions from the registry and returns how
	// many were removed. Run periodically by the background sweeper.
	SweepExpired(ctx context.Context) int
}

// UserService covers the administrative user lifecycle plus self-service
// password change. Every operation except Bootstrap authorizes the acting
// session before touching the credential container.
type UserService interface {
	// Bootstrap creates the credential container with an initial root
	// account when no container exists yet. A no-op otherwise.
	Bootstrap(ctx context.Context) error

	CreateUser(ctx context.Context, actor models.Session, email, password string, role models.Role) (models.User, error)
	DeleteUser(ctx context.Context, actor models.Session, email string) error
	ResetPassword(ctx context.Context, actor models.Session, email, newPassword string) error
	ChangeRole(ctx context.Context, actor models.Session, email string, role models.Role) error

	// ChangePassword is self-service: it verifies the old password and
	// needs no administrative permission.
	ChangePassword(ctx context.Context, actor models.Session, oldPassword, newPassword string) error

	ListUsers(ctx context.Context, actor models.Session) ([]models.User, error)
}

// DataService covers the schema and record plane. Records are validated
// against the active schema before any mutation reaches the store.
type DataService interface {
	UpdateSchema(ctx context.Context, actor models.Session, schema models.Schema) error
	GetSchema(ctx context.Context, actor models.Session) (models.Schema, error)

	AddRecord(ctx context.Context, actor models.Session, record models.DataRecord) (models.StoredRecord, error)
	UpdateRecord(ctx context.Context, actor models.Session, id int64, record models.DataRecord) error
	DeleteRecord(ctx context.Context, actor models.Session, id int64) error
	GetData(ctx context.Context, actor models.Session, page, pageSize int) (models.Page, error)

	// GetMetadata reports the dataset's version, row count, and last-mutation
	// stamp without paging any records.
	GetMetadata(ctx context.Context, actor models.Session) (models.DatasetMetadata, error)

	// ImportRows atomically replaces the dataset with the given pre-parsed
	// rows. Any invalid row aborts the whole import.
	ImportRows(ctx context.Context, actor models.Session, rows []models.DataRecord) (int, error)
}
