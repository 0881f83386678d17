package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// Authentication outcomes. ErrWrongPassword and ErrUserNotFound are kept
	// distinct internally; the transport layer collapses them so callers
	// cannot probe which accounts exist.
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrAccountLocked    = errors.New("account is locked")
	ErrAccountSuspended = errors.New("account is suspended")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// Authorization deny reasons, in the order the permission engine checks
	// them: self-targeting, static permission, rank.
	ErrSelfActionForbidden    = errors.New("operation may not target the acting account")
	ErrInsufficientPermission = errors.New("role does not permit this operation")
	ErrRankTooLow             = errors.New("target rank is not below the actor's rank")

	// ErrLastRoot guards the final root account from deletion or demotion;
	// an installation must always retain at least one root.
	ErrLastRoot = errors.New("cannot remove the last root account")
)
