package service

import "github.com/MKhiriev/go-data-vault/models"

// Subject is the identity a permission decision is made about: who is acting
// (or being acted upon) and at what rank.
type Subject struct {
	UserID string
	Role   models.Role
}

// SubjectOf extracts the acting subject from a validated session.
func SubjectOf(s models.Session) Subject {
	return Subject{UserID: s.UserID, Role: s.Role}
}

// userTargetedOps are the operations directed at another account. They are
// forbidden against the acting account itself (self-demotion, self-deletion,
// and admin-resetting one's own password all go through other paths) and
// require the actor to strictly outrank the target.
var userTargetedOps = map[models.Operation]bool{
	models.OpDeleteUser:    true,
	models.OpChangeRole:    true,
	models.OpResetPassword: true,
}

// Authorize is the pure permission decision. target is nil for operations
// that do not act on a specific account.
//
// Checks apply in a fixed order, and the first failure wins:
//  1. a user-targeted operation aimed at the actor itself is
//     [ErrSelfActionForbidden], regardless of rank or permission;
//  2. the actor's role must carry the operation in the static permission
//     table, otherwise [ErrInsufficientPermission];
//  3. for user-targeted operations the actor must strictly outrank the
//     target, otherwise [ErrRankTooLow]. Equal rank is not enough.
func Authorize(actor Subject, op models.Operation, target *Subject) error {
	if target != nil && userTargetedOps[op] && actor.UserID == target.UserID {
		return ErrSelfActionForbidden
	}

	if !actor.Role.Permitted(op) {
		return ErrInsufficientPermission
	}

	if target != nil && userTargetedOps[op] && !actor.Role.Outranks(target.Role) {
		return ErrRankTooLow
	}

	return nil
}

// AuthorizeRoleAssignment rejects granting a role the actor does not
// strictly outrank. Used when creating accounts and changing roles, so that
// nobody can mint a peer or a superior.
func AuthorizeRoleAssignment(actor Subject, assigned models.Role) error {
	if !actor.Role.Outranks(assigned) {
		return ErrRankTooLow
	}
	return nil
}
