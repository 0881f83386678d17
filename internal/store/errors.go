package store

import "errors"

// Sentinel errors returned by storage-layer methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrBusy is returned when a caller cannot obtain a pooled connection
	// within the configured acquisition timeout. Transient by definition;
	// the caller may retry.
	ErrBusy = errors.New("storage is busy")

	// ErrLockTimeout is returned when the single writer slot is held past
	// the configured hold threshold and the manager force-releases it
	// rather than risking a process-level deadlock.
	ErrLockTimeout = errors.New("lock hold timeout exceeded")

	// ErrConstraintViolation is returned when the underlying engine rejects
	// a mutation for integrity reasons. Never retried.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrCorruptContainer is returned when an encrypted container exists
	// but cannot be authenticated/decrypted. Fatal for that container:
	// surfaced for explicit operator recovery, never silently treated as
	// empty.
	ErrCorruptContainer = errors.New("container is corrupt or key is wrong")

	// ErrContainerNotFound is returned when a container file does not exist
	// yet. Distinct from corruption so that first-run bootstrap can create
	// it explicitly.
	ErrContainerNotFound = errors.New("container does not exist")

	// ErrUserNotFound is returned when a lookup by email or ID matches no
	// user record in the credential container.
	ErrUserNotFound = errors.New("no user was found")

	// ErrEmailAlreadyExists is returned when creating a user whose email is
	// already taken.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrRecordNotFound is returned when a data record targeted by ID does
	// not exist.
	ErrRecordNotFound = errors.New("record was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
