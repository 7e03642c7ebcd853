package domain

// Role restricts an account to one of the two known access levels.
// The string values are persisted and must not change.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the closed role set.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is the persisted account record. PasswordHash never leaves the data
// layer except for credential verification during login.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// UserInfo is the projection of a user handed to callers outside the
// authentication step. It deliberately has no hash field.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Info returns the hash-free projection of u.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Role: u.Role}
}

// UserPatch carries the fields of a partial user update. Nil means "leave
// unchanged". Password, when set, is the raw secret and is re-hashed by the
// repository before it touches storage.
type UserPatch struct {
	Username *string
	Password *string
	Role     *Role
}

// Empty reports whether the patch modifies nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Password == nil && p.Role == nil
}

// Principal is the authenticated identity resolved for a single request.
// It is derived fresh from session state each request and never cached.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
