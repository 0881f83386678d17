package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing application-level secrets
	// (master passphrase or token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidSecurityConfigs indicates out-of-range lockout or password
	// policy settings.
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (unknown engine, empty DSN, bad pool bounds, or missing container paths).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero sweep interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
