// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.MasterPassphrase == "" || cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Security.FailedAttemptThreshold < 1 ||
		cfg.Security.LockoutDuration <= 0 ||
		cfg.Security.MinPasswordLength < 1 {
		return ErrInvalidSecurityConfigs
	}

	db := cfg.Storage.DB
	if db.DSN == "" ||
		(db.Engine != "sqlite" && db.Engine != "postgres") ||
		db.MinConns < 1 || db.MaxConns < db.MinConns ||
		db.AcquireTimeout <= 0 || db.WriterHoldTimeout <= 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Containers.Dir == "" ||
		cfg.Storage.Containers.SaltFile == "" ||
		cfg.Storage.Containers.UsersFile == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.SweepInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
