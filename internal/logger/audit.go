// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import "github.com/rs/zerolog"

// AuditEvent names a security-relevant occurrence. Every such event is
// emitted regardless of whether the triggering error is retried or surfaced.
type AuditEvent string

const (
	AuditLoginSucceeded    AuditEvent = "login_succeeded"
	AuditLoginFailed       AuditEvent = "login_failed"
	AuditLockoutTriggered  AuditEvent = "lockout_triggered"
	AuditLockoutExpired    AuditEvent = "lockout_expired"
	AuditLogout            AuditEvent = "logout"
	AuditSessionsRevoked   AuditEvent = "sessions_revoked"
	AuditDecryptionFailed  AuditEvent = "decryption_failed"
	AuditUserCreated       AuditEvent = "user_created"
	AuditUserDeleted       AuditEvent = "user_deleted"
	AuditPasswordReset     AuditEvent = "password_reset"
	AuditPasswordChanged   AuditEvent = "password_changed"
	AuditRoleChanged       AuditEvent = "role_changed"
	AuditAuthorizationDeny AuditEvent = "authorization_denied"
)

// Audit starts a structured security event. Events carry an "audit" marker so
// an external collector can filter them out of the regular diagnostic stream.
// The subject is the affected account's email or ID; it must never contain
// credential material. Callers finish the event with Msg as usual.
func (l *Logger) Audit(event AuditEvent, subject string) *zerolog.Event {
	return l.Warn().
		Bool("audit", true).
		Str("event", string(event)).
		Str("subject", subject)
}
