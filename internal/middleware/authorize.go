// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"coursereview/internal/apperr"
	"coursereview/internal/auth"
	"coursereview/internal/models"
	"coursereview/internal/respond"
)

// TokenVerifier validates a raw access token.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// UserLookup resolves the identity named by a token. It returns nil, nil
// for an unknown user.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authorize admits requests carrying a valid token whose user exists and,
// when roles is non-empty, whose stored role is one of roles. The verified
// claims are attached to the request context.
func Authorize(rs *respond.Responder, verifier TokenVerifier, users UserLookup, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authorize(r, verifier, users, roles)
			if err != nil {
				rs.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func authorize(r *http.Request, verifier TokenVerifier, users UserLookup, roles []models.Role) (*auth.Claims, error) {
	raw := bearerToken(r.Header.Get("Authorization"))
	if raw == "" {
		return nil, apperr.Unauthorized("You do not have the necessary permissions to access this resource.")
	}

	claims, err := verifier.Verify(raw)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return nil, apperr.Unauthorized("The provided JWT (JSON Web Token) has expired.")
	case err != nil:
		return nil, apperr.Unauthorized("The JWT provided is invalid or malformed.")
	}

	user, err := users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Missing("This user is not found!")
	}

	// The stored role is authoritative; a token minted before a role change
	// must not keep the old privileges.
	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return nil, apperr.Denied("You are attempting to access a resource without the necessary authorization.")
	}
	claims.Role = user.Role
	return claims, nil
}

// bearerToken accepts "Bearer <token>" and a bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
