// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/crypto"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/store"
	"github.com/MKhiriev/go-data-vault/internal/utils"
	"github.com/MKhiriev/go-data-vault/internal/validators"
	"github.com/MKhiriev/go-data-vault/models"
)

// userService is the concrete implementation of UserService. All mutations
// run through the credential container's serialized Update cycle, so the
// authorization decision and the mutation it permits commit atomically
// against the same snapshot of the user collection.
type userService struct {
	credentials store.UserCredentials
	hasher      crypto.PasswordHasher
	sessions    SessionService
	uuid        *utils.UUIDGenerator
	clock       utils.Clock
	logger      *logger.Logger

	policy    validators.PasswordPolicy
	bootstrap config.Bootstrap

	// rankChangeInvalidates revokes a user's live sessions on role change
	// when set; otherwise the new role is honored lazily at next validation.
	rankChangeInvalidates bool
}

// NewUserService constructs a UserService.
func NewUserService(credentials store.UserCredentials, hasher crypto.PasswordHasher, sessions SessionService, clock utils.Clock, secCfg config.Security, bootCfg config.Bootstrap, log *logger.Logger) UserService {
	policy := validators.DefaultPasswordPolicy()
	if secCfg.MinPasswordLength > 0 {
		policy.MinLength = secCfg.MinPasswordLength
	}

	return &userService{
		credentials:           credentials,
		hasher:                hasher,
		sessions:              sessions,
		uuid:                  utils.NewUUIDGenerator(),
		clock:                 clock,
		logger:                log,
		policy:                policy,
		bootstrap:             bootCfg,
		rankChangeInvalidates: secCfg.RankChangeInvalidatesSessions,
	}
}

// Bootstrap implements UserService. On a fresh installation it creates the
// credential container holding a single root account from configuration, so
// the engine is administrable from first start.
func (u *userService) Bootstrap(ctx context.Context) error {
	if u.credentials.Exists(ctx) {
		// A container is present. It must also be readable: a corrupt or
		// wrongly-keyed container is never treated as a fresh installation,
		// otherwise a startup with the wrong master passphrase would
		// overwrite the real user collection.
		if _, err := u.credentials.Load(ctx); err != nil {
			return fmt.Errorf("credential container unreadable, refusing to bootstrap: %w", err)
		}
		return nil
	}

	email, err := validators.NormalizeEmail(u.bootstrap.RootEmail)
	if err != nil {
		return fmt.Errorf("bootstrap root email: %w", err)
	}
	if err := u.policy.Validate(u.bootstrap.RootPassword); err != nil {
		return fmt.Errorf("bootstrap root password: %w", err)
	}

	hash, err := u.hasher.HashPassword(u.bootstrap.RootPassword)
	if err != nil {
		return fmt.Errorf("bootstrap root password hashing failed: %w", err)
	}

	root := models.User{
		ID:           u.uuid.Generate(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleRoot,
		Status:       models.StatusActive,
		CreatedAt:    u.clock.Now(),
	}

	if err := u.credentials.Save(ctx, map[string]models.User{email: root}); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	u.logger.Audit(logger.AuditUserCreated, email).Str("role", string(root.Role)).Msg("bootstrap root account created")
	return nil
}

// CreateUser implements UserService. The actor must hold the manage-users
// permission and strictly outrank the role being assigned.
func (u *userService) CreateUser(ctx context.Context, actor models.Session, email, password string, role models.Role) (models.User, error) {
	email, err := validators.NormalizeEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidDataProvided, role)
	}
	if err := u.policy.Validate(password); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err := Authorize(SubjectOf(actor), models.OpManageUsers, nil); err != nil {
		return models.User{}, u.denied(actor, models.OpManageUsers, email, err)
	}
	if err := AuthorizeRoleAssignment(SubjectOf(actor), role); err != nil {
		return models.User{}, u.denied(actor, models.OpManageUsers, email, err)
	}

	hash, err := u.hasher.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	created := models.User{
		ID:           u.uuid.Generate(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    u.clock.Now(),
		CreatedBy:    actor.Email,
	}

	err = u.credentials.Update(ctx, func(users map[string]models.User) error {
		if _, taken := users[email]; taken {
			return store.ErrEmailAlreadyExists
		}
		users[email] = created
		return nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("user creation failed: %w", err)
	}

	u.logger.Audit(logger.AuditUserCreated, email).
		Str("role", string(role)).
		Str("created_by", actor.Email).
		Msg("user created")
	return created.Sanitized(), nil
}

// DeleteUser implements UserService. The last root account can never be
// deleted; a successful deletion revokes the target's live sessions.
func (u *userService) DeleteUser(ctx context.Context, actor models.Session, email string) error {
	email, err := validators.NormalizeEmail(email)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	var targetID string
	err = u.credentials.Update(ctx, func(users map[string]models.User) error {
		target, found := users[email]
		if !found {
			return ErrUserNotFound
		}

		if err := Authorize(SubjectOf(actor), models.OpDeleteUser, &Subject{UserID: target.ID, Role: target.Role}); err != nil {
			return u.denied(actor, models.OpDeleteUser, email, err)
		}
		if target.Role == models.RoleRoot && countRoots(users) == 1 {
			return ErrLastRoot
		}

		targetID = target.ID
		delete(users, email)
		return nil
	})
	if err != nil {
		return err
	}

	u.sessions.InvalidateUserSessions(ctx, targetID)
	u.logger.Audit(logger.AuditUserDeleted, email).Str("deleted_by", actor.Email).Msg("user deleted")
	return nil
}

// ResetPassword implements UserService. Administrative: sets a new password
// for a lower-ranked account, clears any lockout, and revokes the target's
// sessions so the old credential cannot keep a live session alive.
func (u *userService) ResetPassword(ctx context.Context, actor models.Session, email, newPassword string) error {
	email, err := validators.NormalizeEmail(email)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := u.policy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	hash, err := u.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	var targetID string
	err = u.credentials.Update(ctx, func(users map[string]models.User) error {
		target, found := users[email]
		if !found {
			return ErrUserNotFound
		}

		if err := Authorize(SubjectOf(actor), models.OpResetPassword, &Subject{UserID: target.ID, Role: target.Role}); err != nil {
			return u.denied(actor, models.OpResetPassword, email, err)
		}

		target.PasswordHash = hash
		target.FailedAttempts = 0
		target.LockoutUntil = nil
		if target.Status == models.StatusLocked {
			target.Status = models.StatusActive
		}
		targetID = target.ID
		users[email] = target
		return nil
	})
	if err != nil {
		return err
	}

	u.sessions.InvalidateUserSessions(ctx, targetID)
	u.logger.Audit(logger.AuditPasswordReset, email).Str("reset_by", actor.Email).Msg("password reset")
	return nil
}

// ChangeRole implements UserService. The actor must outrank both the
// target's current role and the role being assigned. Demoting the last root
// is refused. By default the new role takes effect at the target's next
// token validation; configuration can force immediate session revocation.
func (u *userService) ChangeRole(ctx context.Context, actor models.Session, email string, role models.Role) error {
	email, err := validators.NormalizeEmail(email)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidDataProvided, role)
	}

	var targetID string
	err = u.credentials.Update(ctx, func(users map[string]models.User) error {
		target, found := users[email]
		if !found {
			return ErrUserNotFound
		}

		if err := Authorize(SubjectOf(actor), models.OpChangeRole, &Subject{UserID: target.ID, Role: target.Role}); err != nil {
			return u.denied(actor, models.OpChangeRole, email, err)
		}
		if err := AuthorizeRoleAssignment(SubjectOf(actor), role); err != nil {
			return u.denied(actor, models.OpChangeRole, email, err)
		}
		if target.Role == models.RoleRoot && role != models.RoleRoot && countRoots(users) == 1 {
			return ErrLastRoot
		}

		target.Role = role
		targetID = target.ID
		users[email] = target
		return nil
	})
	if err != nil {
		return err
	}

	if u.rankChangeInvalidates {
		u.sessions.InvalidateUserSessions(ctx, targetID)
	}
	u.logger.Audit(logger.AuditRoleChanged, email).
		Str("new_role", string(role)).
		Str("changed_by", actor.Email).
		Msg("role changed")
	return nil
}

// ChangePassword implements UserService. Self-service: any authenticated
// user may rotate their own password after proving the old one.
func (u *userService) ChangePassword(ctx context.Context, actor models.Session, oldPassword, newPassword string) error {
	if err := u.policy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	hash, err := u.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	err = u.credentials.Update(ctx, func(users map[string]models.User) error {
		user, found := users[actor.Email]
		if !found || user.ID != actor.UserID {
			return ErrUserNotFound
		}

		if !u.hasher.VerifyPassword(oldPassword, user.PasswordHash) {
			return ErrWrongPassword
		}

		user.PasswordHash = hash
		users[actor.Email] = user
		return nil
	})
	if err != nil {
		return err
	}

	u.logger.Audit(logger.AuditPasswordChanged, actor.Email).Msg("password changed")
	return nil
}

// ListUsers implements UserService. Returns sanitized users sorted by email.
func (u *userService) ListUsers(ctx context.Context, actor models.Session) ([]models.User, error) {
	if err := Authorize(SubjectOf(actor), models.OpViewUsers, nil); err != nil {
		return nil, u.denied(actor, models.OpViewUsers, "", err)
	}

	users, err := u.credentials.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users failed: %w", err)
	}

	list := make([]models.User, 0, len(users))
	for _, user := range users {
		list = append(list, user.Sanitized())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })

	return list, nil
}

// denied audits an authorization failure and passes the deny reason through.
func (u *userService) denied(actor models.Session, op models.Operation, target string, err error) error {
	u.logger.Audit(logger.AuditAuthorizationDeny, actor.Email).
		Str("operation", string(op)).
		Str("target", target).
		Err(err).
		Msg("operation denied")
	return err
}

// countRoots counts accounts holding the root role.
func countRoots(users map[string]models.User) int {
	n := 0
	for _, user := range users {
		if user.Role == models.RoleRoot {
			n++
		}
	}
	return n
}
