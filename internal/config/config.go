// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-data-vault application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: the master passphrase the
	// installation key is derived from and session-token parameters.
	App App `envPrefix:"APP_"`

	// Security holds lockout, password-policy, and KDF work-factor settings.
	Security Security `envPrefix:"SECURITY_"`

	// Storage holds configuration for the relational store and the
	// encrypted container files.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background housekeeping workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// Bootstrap holds the initial Root account created on first start when
	// the credential container does not exist yet.
	Bootstrap Bootstrap `envPrefix:"BOOTSTRAP_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// MasterPassphrase is the passphrase the installation encryption key is
	// derived from. Losing it (or the persisted salt) makes every container
	// permanently unrecoverable; there is deliberately no fallback.
	// Env: APP_MASTER_PASSPHRASE
	MasterPassphrase string `env:"MASTER_PASSPHRASE"`

	// TokenSignKey is the secret key used to sign and verify session tokens.
	// Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// SessionDuration specifies how long an issued session remains valid.
	// Default 24h.
	// Env: APP_SESSION_DURATION
	SessionDuration time.Duration `env:"SESSION_DURATION"`
}

// Security holds brute-force protection, password-policy, and KDF settings.
type Security struct {
	// FailedAttemptThreshold is the number of consecutive failed logins
	// after which an account is locked. Default 5.
	// Env: SECURITY_FAILED_ATTEMPT_THRESHOLD
	FailedAttemptThreshold int `env:"FAILED_ATTEMPT_THRESHOLD"`

	// LockoutDuration is how long a locked account refuses authentication.
	// Default 15m.
	// Env: SECURITY_LOCKOUT_DURATION
	LockoutDuration time.Duration `env:"LOCKOUT_DURATION"`

	// MinPasswordLength is the minimum accepted password length. Default 8.
	// Env: SECURITY_MIN_PASSWORD_LENGTH
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH"`

	// KDFTime, KDFMemoryKiB, and KDFThreads tune the Argon2id work factor
	// used for master-key derivation. Zero values use the vault defaults.
	// Env: SECURITY_KDF_TIME / SECURITY_KDF_MEMORY_KIB / SECURITY_KDF_THREADS
	KDFTime      uint32 `env:"KDF_TIME"`
	KDFMemoryKiB uint32 `env:"KDF_MEMORY_KIB"`
	KDFThreads   uint8  `env:"KDF_THREADS"`

	// RankChangeInvalidatesSessions controls whether a role-rank change
	// revokes the user's live sessions immediately (true) or is honored
	// lazily at next token validation (false, the default). Status changes
	// always invalidate immediately regardless of this setting.
	// Env: SECURITY_RANK_CHANGE_INVALIDATES_SESSIONS
	RankChangeInvalidatesSessions bool `env:"RANK_CHANGE_INVALIDATES_SESSIONS"`
}

// Storage groups the configuration for all persistence backends.
type Storage struct {
	// DB holds the relational store settings.
	DB DB `envPrefix:"DB_"`

	// Containers holds the locations of the encrypted container files.
	Containers Containers `envPrefix:"CONTAINERS_"`
}

// DB holds connection and concurrency settings for the relational store.
type DB struct {
	// Engine selects the backend: "sqlite" (default, file-resident) or
	// "postgres" (local instance reached through DSN).
	// Env: STORAGE_DB_ENGINE
	Engine string `env:"ENGINE"`

	// DSN is the data source name: a file path for sqlite, or a PostgreSQL
	// connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// MinConns and MaxConns bound the reusable connection pool.
	// Env: STORAGE_DB_MIN_CONNS / STORAGE_DB_MAX_CONNS
	MinConns int `env:"MIN_CONNS"`
	MaxConns int `env:"MAX_CONNS"`

	// AcquireTimeout caps how long a caller waits for a pooled connection
	// before receiving a Busy error. Default 5s.
	// Env: STORAGE_DB_ACQUIRE_TIMEOUT
	AcquireTimeout time.Duration `env:"ACQUIRE_TIMEOUT"`

	// WriterHoldTimeout caps how long the single writer slot may be held
	// before the manager force-releases it and reports LockTimeout.
	// Default 30s.
	// Env: STORAGE_DB_WRITER_HOLD_TIMEOUT
	WriterHoldTimeout time.Duration `env:"WRITER_HOLD_TIMEOUT"`
}

// Containers holds file locations for the encrypted container files and the
// per-installation salt.
type Containers struct {
	// Dir is the directory all container files live in. Default "data".
	// Env: STORAGE_CONTAINERS_DIR
	Dir string `env:"DIR"`

	// SaltFile is the per-installation random salt, persisted once at setup
	// and never regenerated.
	// Env: STORAGE_CONTAINERS_SALT_FILE
	SaltFile string `env:"SALT_FILE"`

	// UsersFile is the encrypted user-credential container.
	// Env: STORAGE_CONTAINERS_USERS_FILE
	UsersFile string `env:"USERS_FILE"`

	// SchemaFile is the encrypted schema container.
	// Env: STORAGE_CONTAINERS_SCHEMA_FILE
	SchemaFile string `env:"SCHEMA_FILE"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background housekeeping.
type Workers struct {
	// SweepInterval is how often the stale-session sweeper runs. Default 1m.
	// Env: WORKERS_SWEEP_INTERVAL
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"`
}

// Bootstrap holds the initial Root account written into a fresh credential
// container. Ignored once the container exists.
type Bootstrap struct {
	// RootEmail is the login of the bootstrap account.
	// Env: BOOTSTRAP_ROOT_EMAIL
	RootEmail string `env:"ROOT_EMAIL"`

	// RootPassword is the initial password of the bootstrap account.
	// Env: BOOTSTRAP_ROOT_PASSWORD
	RootPassword string `env:"ROOT_PASSWORD"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// defaults returns the built-in fallback configuration. Merged last, so any
// explicitly configured value wins.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:     "go-data-vault",
			SessionDuration: 24 * time.Hour,
		},
		Security: Security{
			FailedAttemptThreshold: 5,
			LockoutDuration:        15 * time.Minute,
			MinPasswordLength:      8,
		},
		Storage: Storage{
			DB: DB{
				Engine:            "sqlite",
				DSN:               "data/vault.db",
				MinConns:          1,
				MaxConns:          4,
				AcquireTimeout:    5 * time.Second,
				WriterHoldTimeout: 30 * time.Second,
			},
			Containers: Containers{
				Dir:        "data",
				SaltFile:   "salt.key",
				UsersFile:  "users.enc",
				SchemaFile: "schema.enc",
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			SweepInterval: time.Minute,
		},
	}
}
