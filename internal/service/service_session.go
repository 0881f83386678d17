// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/crypto"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/store"
	"github.com/MKhiriev/go-data-vault/internal/utils"
	"github.com/MKhiriev/go-data-vault/internal/validators"
	"github.com/MKhiriev/go-data-vault/models"
)

// sessionService is the concrete implementation of SessionService.
//
// The registry it keeps in memory is authoritative: a signed token whose jti
// is no longer registered is dead no matter how far its exp claim lies in
// the future. All timing decisions go through the injected clock.
type sessionService struct {
	credentials store.UserCredentials
	hasher      crypto.PasswordHasher
	uuid        *utils.UUIDGenerator
	clock       utils.Clock
	logger      *logger.Logger

	tokenSignKey    string
	tokenIssuer     string
	sessionDuration time.Duration

	failedAttemptThreshold int
	lockoutDuration        time.Duration

	// mu guards registry and byUser.
	mu       sync.RWMutex
	registry map[string]models.Session
	byUser   map[string]map[string]struct{}

	// attemptLocks serializes failed-attempt accounting per account, so two
	// concurrent bad logins cannot race past the threshold check. Keyed by
	// normalized email; entries are *sync.Mutex.
	attemptLocks sync.Map
}

// NewSessionService constructs the session authority. The returned service
// is safe for concurrent use.
func NewSessionService(credentials store.UserCredentials, hasher crypto.PasswordHasher, clock utils.Clock, appCfg config.App, secCfg config.Security, log *logger.Logger) SessionService {
	return &sessionService{
		credentials:            credentials,
		hasher:                 hasher,
		uuid:                   utils.NewUUIDGenerator(),
		clock:                  clock,
		logger:                 log,
		tokenSignKey:           appCfg.TokenSignKey,
		tokenIssuer:            appCfg.TokenIssuer,
		sessionDuration:        appCfg.SessionDuration,
		failedAttemptThreshold: secCfg.FailedAttemptThreshold,
		lockoutDuration:        secCfg.LockoutDuration,
		registry:               make(map[string]models.Session),
		byUser:                 make(map[string]map[string]struct{}),
	}
}

// Login implements SessionService.
//
// The lockout window is evaluated BEFORE the password is compared: a locked
// account reports ErrAccountLocked even for the correct password, so the
// lockout cannot be used as a password oracle. A lockout whose window has
// elapsed heals back to active before verification, and a successful login
// resets the failure counter.
func (s *sessionService) Login(ctx context.Context, email, password string) (models.Session, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return models.Session{}, ErrInvalidDataProvided
	}
	email, err := validators.NormalizeEmail(email)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	lock := s.attemptLock(email)
	lock.Lock()
	defer lock.Unlock()

	var (
		authedUser models.User
		loginErr   error
	)

	err = s.credentials.Update(ctx, func(users map[string]models.User) error {
		user, found := users[email]
		if !found {
			loginErr = ErrUserNotFound
			return ErrUserNotFound // nothing to persist
		}

		now := s.clock.Now()

		if user.Status == models.StatusLocked {
			if user.LockoutUntil != nil && now.Before(*user.LockoutUntil) {
				loginErr = ErrAccountLocked
				return ErrAccountLocked
			}
			// window elapsed: heal before verifying
			s.logger.Audit(logger.AuditLockoutExpired, email).Msg("lockout window elapsed")
			user.Status = models.StatusActive
			user.FailedAttempts = 0
			user.LockoutUntil = nil
		}

		if user.Status == models.StatusSuspended {
			loginErr = ErrAccountSuspended
			return ErrAccountSuspended
		}

		if !s.hasher.VerifyPassword(password, user.PasswordHash) {
			user.FailedAttempts++
			if user.FailedAttempts >= s.failedAttemptThreshold {
				until := now.Add(s.lockoutDuration)
				user.Status = models.StatusLocked
				user.LockoutUntil = &until
				s.logger.Audit(logger.AuditLockoutTriggered, email).
					Int("failed_attempts", user.FailedAttempts).
					Time("lockout_until", until).
					Msg("failed-attempt threshold crossed")
				loginErr = ErrAccountLocked
			} else {
				loginErr = ErrWrongPassword
			}
			users[email] = user
			return nil // the incremented counter must persist
		}

		user.FailedAttempts = 0
		user.LockoutUntil = nil
		user.Status = models.StatusActive
		user.LastLoginAt = &now
		users[email] = user
		authedUser = user
		return nil
	})
	if loginErr != nil {
		if err != nil && !errors.Is(err, loginErr) {
			// The refusal stands, but the failed-attempt state did not
			// persist: brute-force accounting is degraded under this fault.
			log.Err(err).Msg("persisting failed-attempt state failed")
		}
		if errors.Is(loginErr, ErrUserNotFound) {
			// no account, nothing to serialize; drop the lock entry so
			// probing random emails cannot grow the table without bound
			s.attemptLocks.Delete(email)
		}
		s.logger.Audit(logger.AuditLoginFailed, email).Err(loginErr).Msg("authentication failed")
		return models.Session{}, loginErr
	}
	if err != nil {
		log.Err(err).Msg("credential container update failed during login")
		return models.Session{}, fmt.Errorf("login failed: %w", err)
	}

	session, err := s.issueSession(authedUser)
	if err != nil {
		log.Err(err).Msg("session issuance failed")
		return models.Session{}, fmt.Errorf("login failed: %w", err)
	}

	s.logger.Audit(logger.AuditLoginSucceeded, email).Str("session_id", session.ID).Msg("session issued")
	return session, nil
}

// Logout implements SessionService.
func (s *sessionService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseSessionToken(token, s.tokenSignKey, s.tokenIssuer)
	if err != nil {
		return ErrTokenIsExpiredOrInvalid
	}

	s.mu.Lock()
	_, present := s.registry[claims.ID]
	s.remove(claims.ID)
	s.mu.Unlock()

	if present {
		s.logger.Audit(logger.AuditLogout, claims.Email).Str("session_id", claims.ID).Msg("session invalidated")
	}
	return nil
}

// ValidateToken implements SessionService.
func (s *sessionService) ValidateToken(ctx context.Context, token string) (models.Session, error) {
	claims, err := utils.ParseSessionToken(token, s.tokenSignKey, s.tokenIssuer)
	if err != nil {
		return models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	s.mu.RLock()
	session, found := s.registry[claims.ID]
	s.mu.RUnlock()
	if !found {
		return models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	if session.Expired(s.clock.Now()) {
		s.mu.Lock()
		s.remove(session.ID)
		s.mu.Unlock()
		return models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	// The backing account's CURRENT state decides: deletion or a status
	// change kills the session immediately, a role change is picked up here.
	users, err := s.credentials.Load(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("token validation failed: %w", err)
	}
	user, found := users[session.Email]
	if !found || user.ID != session.UserID || user.Status != models.StatusActive {
		s.mu.Lock()
		s.remove(session.ID)
		s.mu.Unlock()
		return models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	session.Role = user.Role
	return session, nil
}

// InvalidateUserSessions implements SessionService.
func (s *sessionService) InvalidateUserSessions(ctx context.Context, userID string) int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.byUser[userID]))
	for id := range s.byUser[userID] {
		ids = append(ids, id)
	}
	for _, id := range ids {
		s.remove(id)
	}
	s.mu.Unlock()

	if len(ids) > 0 {
		s.logger.Audit(logger.AuditSessionsRevoked, userID).Int("sessions", len(ids)).Msg("user sessions revoked")
	}
	return len(ids)
}

// SweepExpired implements SessionService.
func (s *sessionService) SweepExpired(ctx context.Context) int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.registry {
		if session.Expired(now) {
			s.remove(id)
			removed++
		}
	}
	return removed
}

// issueSession signs a fresh token and registers it.
func (s *sessionService) issueSession(user models.User) (models.Session, error) {
	now := s.clock.Now()
	jti := s.uuid.Generate()

	token, err := utils.GenerateSessionToken(s.tokenIssuer, user, jti, now, s.sessionDuration, s.tokenSignKey)
	if err != nil {
		return models.Session{}, err
	}

	session := models.Session{
		ID:        jti,
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.registry[jti] = session
	if s.byUser[user.ID] == nil {
		s.byUser[user.ID] = make(map[string]struct{})
	}
	s.byUser[user.ID][jti] = struct{}{}
	s.mu.Unlock()

	return session, nil
}

// remove deletes a session from both indexes; callers hold mu.
func (s *sessionService) remove(id string) {
	session, found := s.registry[id]
	if !found {
		return
	}
	delete(s.registry, id)
	delete(s.byUser[session.UserID], id)
	if len(s.byUser[session.UserID]) == 0 {
		delete(s.byUser, session.UserID)
	}
}

// attemptLock returns the per-account mutex, creating it on first use.
func (s *sessionService) attemptLock(email string) *sync.Mutex {
	lock, _ := s.attemptLocks.LoadOrStore(email, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
