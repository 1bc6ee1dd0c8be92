package auth

import (
	"context"

	"coursereview/internal/apperr"
	"coursereview/internal/models"
)

// UserFinder looks up a user by username. It returns nil, nil when absent.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator exchanges a username and password for an access token.
type Authenticator struct {
	users  UserFinder
	hasher *Hasher
	issuer *Issuer
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users UserFinder, hasher *Hasher, issuer *Issuer) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, issuer: issuer}
}

// Login returns the user and a fresh token when the credentials match.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.Missing("This user is not found !")
	}

	if !a.hasher.Matches(user.PasswordHash, password) {
		return nil, "", apperr.Denied("Password do not matched")
	}

	token, err := a.issuer.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
