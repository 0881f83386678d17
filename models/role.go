package models

import "fmt"

// Role is a node in the strict total order Root > Admin > Moderator > User.
// The order must remain total so that the "manage only lower rank" rule is
// well-defined for every pair of roles.
type Role string

const (
	RoleRoot      Role = "root"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// roleRanks maps each role to its position in the hierarchy. Higher means
// more privileged. Unknown roles rank zero and therefore outrank nothing.
var roleRanks = map[Role]int{
	RoleRoot:      4,
	RoleAdmin:     3,
	RoleModerator: 2,
	RoleUser:      1,
}

// Rank returns the role's position in the hierarchy, or 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return roleRanks[r] > 0
}

// Outranks reports whether r is strictly higher in the hierarchy than other.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Operation identifies an action subject to authorization.
type Operation string

const (
	OpManageUsers   Operation = "manage_users"
	OpDeleteUser    Operation = "delete_user"
	OpResetPassword Operation = "reset_password"
	OpChangeRole    Operation = "change_role"
	OpViewUsers     Operation = "view_users"
	OpModifySchema  Operation = "modify_schema"
	OpModifyData    Operation = "modify_data"
	OpReadData      Operation = "read_data"
)

// rolePermissions is the static permission table consulted by the permission
// engine. An operation absent from a role's set is denied. Rank restrictions
// on user-targeted operations are enforced separately and are not encoded
// here.
var rolePermissions = map[Role]map[Operation]bool{
	RoleRoot: {
		OpManageUsers:   true,
		OpDeleteUser:    true,
		OpResetPassword: true,
		OpChangeRole:    true,
		OpViewUsers:     true,
		OpModifySchema:  true,
		OpModifyData:    true,
		OpReadData:      true,
	},
	RoleAdmin: {
		OpManageUsers:   true,
		OpDeleteUser:    true,
		OpResetPassword: true,
		OpChangeRole:    true,
		OpViewUsers:     true,
		OpModifySchema:  true,
		OpModifyData:    true,
		OpReadData:      true,
	},
	RoleModerator: {
		OpModifyData: true,
		OpReadData:   true,
	},
	RoleUser: {
		OpReadData: true,
	},
}

// Permitted reports whether the role's static permission set includes op.
func (r Role) Permitted(op Operation) bool {
	return rolePermissions[r][op]
}
