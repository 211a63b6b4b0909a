// Package session holds the auth token and the cached user profile for the
// current login. The session is created on login, read-only afterwards and
// destroyed on logout; it is handed explicitly to every component that makes
// authenticated calls.
package session

import "errors"

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

// ErrNoSession signals that no login is active. Callers treat it as a
// redirect-to-login condition, not as a fetch failure.
var ErrNoSession = errors.New("no active session")

type User struct {
	ID       int    `json:"id"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s Session) IsStudent() bool { return s.User.Role == RoleStudent }

func (s Session) IsInstructor() bool { return s.User.Role == RoleInstructor }

func (s Session) IsAdmin() bool { return s.User.Role == RoleAdmin }
