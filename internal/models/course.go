// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Level is the difficulty of a course.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Tag labels a course. Deleted tags are kept with IsDeleted set.
type Tag struct {
	Name      string `json:"name"`
	IsDeleted bool   `json:"isDeleted"`
}

// Tags is the ordered tag list of a course, stored as a JSONB array.
type Tags []Tag

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*t = Tags{}
		return nil
	default:
		return fmt.Errorf("scan tags: unsupported type %T", src)
	}
	return json.Unmarshal(raw, t)
}

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

// Details holds descriptive course attributes.
type Details struct {
	Level       Level  `json:"level"`
	Description string `json:"description"`
}

// Course is a listing managed by administrators. DurationInWeeks is always
// derived from StartDate and EndDate.
type Course struct {
	ID              uuid.UUID `json:"_id"`
	Title           string    `json:"title"`
	Instructor      string    `json:"instructor"`
	CategoryID      uuid.UUID `json:"categoryId"`
	Price           float64   `json:"price"`
	Tags            Tags      `json:"tags"`
	StartDate       Date      `json:"startDate"`
	EndDate         Date      `json:"endDate"`
	Language        string    `json:"language"`
	Provider        string    `json:"provider"`
	DurationInWeeks int       `json:"durationInWeeks"`
	Details         Details   `json:"details"`
	CreatedBy       uuid.UUID `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Virtual field populated by store methods.
	Creator *PublicProfile `json:"createdBy"`
}

// RecomputeDuration refreshes DurationInWeeks from the course dates.
func (c *Course) RecomputeDuration() {
	c.DurationInWeeks = DurationInWeeks(c.StartDate, c.EndDate)
}

// CourseWithReviews pairs a course with every review written for it.
type CourseWithReviews struct {
	Course  *Course  `json:"course"`
	Reviews []Review `json:"reviews"`
}
