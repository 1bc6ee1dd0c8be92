// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"time"

	"coursereview/internal/respond"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Public serves the unauthenticated informational endpoints.
type Public struct {
	rs *respond.Responder
	db Pinger
}

// NewPublic creates a new Public handler group.
func NewPublic(rs *respond.Responder, db Pinger) *Public {
	return &Public{rs: rs, db: db}
}

// Welcome answers the API root.
func (p *Public) Welcome(w http.ResponseWriter, r *http.Request) {
	p.rs.JSON(w, http.StatusOK, "Welcome to Course Review System REST API", nil)
}

// Health reports liveness and database reachability.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		respond.Fail(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	p.rs.JSON(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

// NotFound answers unknown routes.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusNotFound, "API Not Found!")
}
