package cart

// RoleUser is the only role whose cart survives a restart.
const RoleUser = "user"

// ShouldPersist decides where a cart lives. Carts of every other role, admins and guests included,
// are kept in process memory only.
func ShouldPersist(role string) bool {
	return role == RoleUser
}
