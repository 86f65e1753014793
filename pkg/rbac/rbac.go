package rbac

// Permission constants.
const (
	// Admin-only operations.
	PermissionManageWhitelist = "whitelist:manage"
	PermissionReviewLetter    = "letter:review"
	PermissionDeleteLetter    = "letter:delete"

	// Regular operations.
	PermissionReadLetters = "letters:read"
)

// Role constants.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var rolePermissions = map[string][]string{
	RoleUser: {
		PermissionReadLetters,
	},
	RoleAdmin: {
		PermissionReadLetters,
		PermissionManageWhitelist,
		PermissionReviewLetter,
		PermissionDeleteLetter,
	},
}

// HasPermission checks whether a role grants the given permission.
func HasPermission(role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns an error instead of a bool for handler use.
func CheckPermission(role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError indicates the role lacks a permission.
type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
