package user

// Actor identifies the authenticated user performing a mutation together
// with their resolved role. Role lookup happens once, at the edge.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
