// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coursereview/internal/apperr"
	"coursereview/internal/models"
)

// CredentialStore is the persistence the rotation policy needs.
// FindByID returns nil, nil for an unknown user. PasswordHistory returns
// entries newest first. RotatePassword must replace the hash and push the
// retired entry in one atomic step, keeping at most
// models.PasswordHistoryDepth entries.
type CredentialStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	PasswordHistory(ctx context.Context, id uuid.UUID) ([]models.PasswordHistoryEntry, error)
	RotatePassword(ctx context.Context, id uuid.UUID, newHash string, retired models.PasswordHistoryEntry) (*models.User, error)
}

// RotationPolicy changes passwords while refusing reuse of the current
// password or any retained previous one.
type RotationPolicy struct {
	users  CredentialStore
	hasher *Hasher
	now    func() time.Time
}

// NewRotationPolicy creates a RotationPolicy over the given store.
func NewRotationPolicy(users CredentialStore, hasher *Hasher) *RotationPolicy {
	return &RotationPolicy{users: users, hasher: hasher, now: time.Now}
}

// ChangePassword verifies oldPassword and replaces it with newPassword.
func (p *RotationPolicy) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (*models.User, error) {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Missing("This user is not found!")
	}

	if !p.hasher.Matches(user.PasswordHash, oldPassword) {
		return nil, apperr.Denied("Password does not match")
	}

	if newPassword == oldPassword {
		return nil, apperr.Invalid("Password change failed. Ensure the new password is unique.")
	}

	newHash, err := p.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	history, err := p.users.PasswordHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, entry := range history {
		if p.hasher.Matches(entry.Hash, newPassword) {
			return nil, apperr.Invalid(fmt.Sprintf(
				"Password change failed. Ensure the new password is unique and not among the last %d used (last used on %s).",
				models.PasswordHistoryDepth, history[0].CreatedAt.UTC().Format(time.RFC3339),
			))
		}
	}

	retired := models.PasswordHistoryEntry{Hash: user.PasswordHash, CreatedAt: p.now()}
	return p.users.RotatePassword(ctx, userID, newHash, retired)
}
