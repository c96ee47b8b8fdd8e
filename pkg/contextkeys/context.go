package contextkeys

// ContextKey is the type for values stored in gin/request contexts.
type ContextKey string

const (
	UserIDContextKey   ContextKey = "userID"
	UserRoleContextKey ContextKey = "userRole"
)
