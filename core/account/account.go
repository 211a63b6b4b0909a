// Package account covers login, registration and profile reads against the
// accounts surface. Logout is purely local: the backend token is simply
// forgotten.
package account

import (
	"context"
	"fmt"

	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/session"
	"github.com/SanjuMs7/online-course-marketplace/validate"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registration struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token, fetches the profile and persists
// both as the new session.
func Login(ctx context.Context, cl *client.Client, store *session.Store, email, password string) (session.Session, error) {
	creds := credentials{Email: email, Password: password}
	if err := validate.Check(creds); err != nil {
		return session.Session{}, err
	}

	var tok tokenResponse
	if err := cl.PostPublic(ctx, client.Accounts, "login/", creds, &tok); err != nil {
		return session.Session{}, fmt.Errorf("logging in: %w", err)
	}

	// The profile call needs the token attached, so persist it first.
	if err := store.Save(session.Session{Token: tok.Token}); err != nil {
		return session.Session{}, err
	}

	user, err := Profile(ctx, cl)
	if err != nil {
		if cerr := store.Clear(); cerr != nil {
			return session.Session{}, fmt.Errorf("fetching profile after login: %w (clearing session: %v)", err, cerr)
		}
		return session.Session{}, fmt.Errorf("fetching profile after login: %w", err)
	}

	sess := session.Session{Token: tok.Token, User: user}
	if err := store.Save(sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Register creates an account with a STUDENT or INSTRUCTOR role. Admins are
// provisioned server-side only.
func Register(ctx context.Context, cl *client.Client, fullName, email, password, role string) error {
	reg := registration{FullName: fullName, Email: email, Password: password, Role: role}
	if err := validate.Check(reg); err != nil {
		return err
	}

	if err := cl.PostPublic(ctx, client.Accounts, "register/", reg, nil); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}

func Profile(ctx context.Context, cl *client.Client) (session.User, error) {
	var user session.User
	if err := cl.Get(ctx, client.Accounts, "profile/", &user); err != nil {
		return session.User{}, fmt.Errorf("fetching profile: %w", err)
	}
	return user, nil
}

// Students and Instructors are the admin moderation lists.

func Students(ctx context.Context, cl *client.Client) ([]session.User, error) {
	var out []session.User
	if err := cl.Get(ctx, client.Accounts, "students/", &out); err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return out, nil
}

func Instructors(ctx context.Context, cl *client.Client) ([]session.User, error) {
	var out []session.User
	if err := cl.Get(ctx, client.Accounts, "instructors/", &out); err != nil {
		return nil, fmt.Errorf("listing instructors: %w", err)
	}
	return out, nil
}

// Logout destroys the session; token and cached profile go together.
func Logout(store *session.Store) error {
	return store.Clear()
}
