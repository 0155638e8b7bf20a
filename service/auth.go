package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"holoholo/auth"
	"holoholo/models"
	"holoholo/storage"
	"holoholo/validators"
)

// Session is what a successful login hands back to the client.
type Session struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type Accounts struct {
	users  storage.Users
	tokens *auth.Tokens
}

func NewAccounts(users storage.Users, tokens *auth.Tokens) *Accounts {
	return &Accounts{users: users, tokens: tokens}
}

// Register creates a customer account. Username and email must both be unused.
func (a *Accounts) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validators.ValidateRegistration(&creds); err != nil {
		return nil, err
	}

	if err := a.ensureFree(ctx, creds.Username, creds.Email); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, &StorageError{Op: "hash password", Err: err}
	}
	user := &models.User{
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, registrationError(err)
	}
	zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (a *Accounts) ensureFree(ctx context.Context, username, email string) error {
	if _, err := a.users.GetByUsername(ctx, username); err == nil {
		return &DuplicateError{Field: "username"}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return wrapStorage("lookup username", err)
	}
	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return &DuplicateError{Field: "email"}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return wrapStorage("lookup email", err)
	}
	return nil
}

// registrationError maps a unique violation that slipped past the pre-check
// onto the field it concerns.
func registrationError(err error) error {
	var ce *storage.ConstraintError
	if errors.As(err, &ce) && errors.Is(ce, storage.ErrDuplicate) {
		switch ce.Constraint {
		case "users_email_key":
			return &DuplicateError{Field: "email"}
		default:
			return &DuplicateError{Field: "username"}
		}
	}
	return wrapStorage("create user", err)
}

// Login checks the credentials and issues a session token. Unknown user
// and wrong password fail the same way.
func (a *Accounts) Login(ctx context.Context, creds models.Credentials) (*Session, error) {
	user, err := a.users.GetByUsername(ctx, strings.TrimSpace(creds.Username))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrAuthentication
	}
	if err != nil {
		return nil, wrapStorage("lookup user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		return nil, ErrAuthentication
	}
	token, exp, err := a.tokens.Issue(user)
	if err != nil {
		return nil, &StorageError{Op: "issue token", Err: err}
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func (a *Accounts) Profile(ctx context.Context, userID int64) (*models.User, error) {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapStorage("get user", err)
	}
	return u, nil
}

func (a *Accounts) ChangePassword(ctx context.Context, userID int64, req models.PasswordChangeRequest) error {
	if err := validators.ValidatePassword("new_password", req.NewPassword); err != nil {
		return err
	}
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return wrapStorage("get user", err)
	}
	if !auth.CheckPassword(u.PasswordHash, req.OldPassword) {
		return invalid("old_password", "is incorrect")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return &StorageError{Op: "hash password", Err: err}
	}
	if err := a.users.UpdatePassword(ctx, userID, hash); err != nil {
		return wrapStorage("update password", err)
	}
	return nil
}

// EnsureAdmin creates the administrator account when no user holds the
// username yet. It reports whether an account was created.
func (a *Accounts) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if _, err := a.users.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, wrapStorage("lookup admin", err)
	}
	creds := models.Credentials{Username: username, Email: email, Password: password}
	if err := validators.ValidateRegistration(&creds); err != nil {
		return false, fmt.Errorf("admin account: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	u := &models.User{Username: username, Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	if err := a.users.Create(ctx, u); err != nil {
		return false, registrationError(err)
	}
	return true, nil
}
