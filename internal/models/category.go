// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups courses under a unique name.
type Category struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual field populated by store methods.
	Creator *PublicProfile `json:"createdBy"`
}
