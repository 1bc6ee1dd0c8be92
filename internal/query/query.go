// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query turns course listing parameters into a typed filter/sort/
// page value and renders it to a single parameterized SQL statement.
//
// Rendered column references use the alias "c" for the courses table, so
// the base SELECT passed to Spec.SQL must alias courses as c.
package query

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"coursereview/internal/apperr"
	"coursereview/internal/models"
)

// Pagination bounds. Limits above MaxLimit are clamped; a page whose
// offset would pass maxOffset is rejected.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	maxOffset = math.MaxInt32
)

// Op is a comparison operator in a filter clause.
type Op string

const (
	OpEq       Op = "="
	OpGte      Op = ">="
	OpLte      Op = "<="
	OpContains Op = "@>"
)

// Clause is one conjunctive filter condition.
type Clause struct {
	Column string
	Op     Op
	Value  any
	Cast   string
}

// SortKey orders results by one column.
type SortKey struct {
	Column string
	Desc   bool
}

// Spec is a parsed course listing request.
type Spec struct {
	Filters []Clause
	Sort    []SortKey
	Page    int
	Limit   int
}

// Offset returns the number of rows skipped before the current page.
func (s Spec) Offset() int {
	return (s.Page - 1) * s.Limit
}

// sortable maps field names accepted by the raw sort expression to columns.
var sortable = map[string]string{
	"title":           "c.title",
	"price":           "c.price",
	"startDate":       "c.start_date",
	"endDate":         "c.end_date",
	"language":        "c.language",
	"durationInWeeks": "c.duration_in_weeks",
	"provider":        "c.provider",
	"instructor":      "c.instructor",
	"createdAt":       "c.created_at",
	"updatedAt":       "c.updated_at",
}

// sortByFields is the narrower whitelist for the sortBy parameter.
var sortByFields = map[string]bool{
	"title":           true,
	"price":           true,
	"startDate":       true,
	"endDate":         true,
	"language":        true,
	"durationInWeeks": true,
}

var defaultSort = []SortKey{{Column: "c.created_at", Desc: true}}

// Parse builds a Spec from query-string values. Unknown parameters are
// ignored. Malformed numbers or dates fail with an InvalidRequest error.
func Parse(v url.Values) (Spec, error) {
	spec := Spec{
		Page:  positiveInt(v.Get("page"), DefaultPage),
		Limit: min(positiveInt(v.Get("limit"), DefaultLimit), MaxLimit),
		Sort:  parseSort(v),
	}
	if spec.Page-1 > maxOffset/spec.Limit {
		return Spec{}, apperr.Invalid("page is too large")
	}

	minRaw, maxRaw := v.Get("minPrice"), v.Get("maxPrice")
	if minRaw != "" || maxRaw != "" {
		lo, err := parseFloat("minPrice", minRaw, 0)
		if err != nil {
			return Spec{}, err
		}
		hi, err := parseFloat("maxPrice", maxRaw, math.MaxFloat64)
		if err != nil {
			return Spec{}, err
		}
		spec.Filters = append(spec.Filters,
			Clause{Column: "c.price", Op: OpGte, Value: lo},
			Clause{Column: "c.price", Op: OpLte, Value: hi},
		)
	}

	if tag := v.Get("tags"); tag != "" {
		b, err := json.Marshal([]map[string]string{{"name": tag}})
		if err != nil {
			return Spec{}, fmt.Errorf("encode tag filter: %w", err)
		}
		spec.Filters = append(spec.Filters, Clause{Column: "c.tags", Op: OpContains, Value: string(b), Cast: "jsonb"})
	}

	if raw := v.Get("startDate"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			return Spec{}, apperr.Invalid("startDate must be a date in YYYY-MM-DD format")
		}
		spec.Filters = append(spec.Filters, Clause{Column: "c.start_date", Op: OpGte, Value: d.String(), Cast: "date"})
	}
	if raw := v.Get("endDate"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			return Spec{}, apperr.Invalid("endDate must be a date in YYYY-MM-DD format")
		}
		spec.Filters = append(spec.Filters, Clause{Column: "c.end_date", Op: OpLte, Value: d.String(), Cast: "date"})
	}

	if lang := v.Get("language"); lang != "" {
		spec.Filters = append(spec.Filters, Clause{Column: "c.language", Op: OpEq, Value: lang})
	}
	if provider := v.Get("provider"); provider != "" {
		spec.Filters = append(spec.Filters, Clause{Column: "c.provider", Op: OpEq, Value: provider})
	}
	if raw := v.Get("durationInWeeks"); raw != "" {
		weeks, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Spec{}, apperr.Invalid("durationInWeeks must be an integer")
		}
		spec.Filters = append(spec.Filters, Clause{Column: "c.duration_in_weeks", Op: OpEq, Value: weeks})
	}
	if level := v.Get("level"); level != "" {
		spec.Filters = append(spec.Filters, Clause{Column: "c.details_level", Op: OpEq, Value: level})
	}

	return spec, nil
}

// parseSort applies sort, then sortBy/sortOrder, then the default.
func parseSort(v url.Values) []SortKey {
	if raw := v.Get("sort"); raw != "" {
		var keys []SortKey
		for _, tok := range strings.FieldsFunc(raw, func(r rune) bool { return r == ' ' || r == ',' }) {
			desc := strings.HasPrefix(tok, "-")
			col, ok := sortable[strings.TrimPrefix(tok, "-")]
			if !ok {
				continue
			}
			keys = append(keys, SortKey{Column: col, Desc: desc})
		}
		if len(keys) > 0 {
			return keys
		}
		return defaultSort
	}

	if by := v.Get("sortBy"); sortByFields[by] {
		return []SortKey{{Column: sortable[by], Desc: v.Get("sortOrder") != "asc"}}
	}
	return defaultSort
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func parseFloat(name, raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0, apperr.Invalid(name + " must be a number")
	}
	return f, nil
}

// SQL appends WHERE, ORDER BY and LIMIT/OFFSET to base and returns the
// statement with its positional arguments.
func (s Spec) SQL(base string) (string, []any) {
	var b strings.Builder
	b.WriteString(base)

	args := make([]any, 0, len(s.Filters)+2)
	for i, c := range s.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, c.Value)
		placeholder := "$" + strconv.Itoa(len(args))
		if c.Cast != "" {
			placeholder += "::" + c.Cast
		}
		fmt.Fprintf(&b, "%s %s %s", c.Column, c.Op, placeholder)
	}

	sortKeys := s.Sort
	if len(sortKeys) == 0 {
		sortKeys = defaultSort
	}
	b.WriteString(" ORDER BY ")
	for i, k := range sortKeys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.Column)
		if k.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	args = append(args, s.Limit, s.Offset())
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}
