// Package session owns the client's authentication state: the in-memory
// session, its durable mirror on disk, and the process-wide coordination
// flags shared by the transport pipeline and the navigation guard.
package session

// Roles issued by the service.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the record of the current principal. All three fields are
// populated on login and emptied together on logout or credential expiry.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsLoggedIn reports whether a credential is held.
func (s Session) IsLoggedIn() bool {
	return s.Token != ""
}

// IsAdmin reports whether the principal holds the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
