// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"coursereview/internal/auth"
	"coursereview/internal/models"
	"coursereview/internal/respond"
)

// Auth groups the account handlers: registration, login, password
// rotation and admin-created users.
type Auth struct {
	rs              *respond.Responder
	users           UserCreator
	logins          LoginService
	passwords       PasswordChanger
	hasher          *auth.Hasher
	defaultPassword string
}

// NewAuth creates a new Auth handler group. defaultPassword is assigned to
// accounts created without one.
func NewAuth(rs *respond.Responder, users UserCreator, logins LoginService, passwords PasswordChanger, hasher *auth.Hasher, defaultPassword string) *Auth {
	return &Auth{
		rs:              rs,
		users:           users,
		logins:          logins,
		passwords:       passwords,
		hasher:          hasher,
		defaultPassword: defaultPassword,
	}
}

type registerRequest struct {
	Username string      `json:"username" validate:"notblank"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"max=20"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type loginResponse struct {
	User  *models.PublicProfile `json:"user"`
	Token string                `json:"token"`
}

// Register creates an account from a public sign-up.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	a.create(w, r)
}

// CreateUser creates an account on behalf of an administrator.
func (a *Auth) CreateUser(w http.ResponseWriter, r *http.Request) {
	a.create(w, r)
}

func (a *Auth) create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		a.rs.Error(w, r, err)
		return
	}

	if req.Role == "" {
		req.Role = models.RoleUser
	}
	password := req.Password
	if password == "" {
		password = a.defaultPassword
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.rs.Error(w, r, err)
		return
	}

	user, err := a.users.Create(r.Context(), &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
	})
	if err != nil {
		a.rs.Error(w, r, err)
		return
	}

	a.rs.JSON(w, http.StatusCreated, string(user.Role)+" is registered successfully", user)
}

// Login verifies credentials and returns the user with an access token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		a.rs.Error(w, r, err)
		return
	}

	user, token, err := a.logins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		a.rs.Error(w, r, err)
		return
	}

	a.rs.JSON(w, http.StatusOK, "User login successful", loginResponse{User: user.Profile(), Token: token})
}

// ChangePassword rotates the authenticated user's password.
func (a *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, err := caller(r)
	if err != nil {
		a.rs.Error(w, r, err)
		return
	}

	var req changePasswordRequest
	if err := decode(w, r, &req); err != nil {
		a.rs.Error(w, r, err)
		return
	}

	user, err := a.passwords.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		a.rs.Error(w, r, err)
		return
	}

	a.rs.JSON(w, http.StatusOK, "Password changed successfully", user)
}
