// Package contract holds the request and response shapes of the create
// operations and the coded error taxonomy they fail with.
package contract

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the strict date format accepted where only a calendar date
// makes sense.
const DateLayout = "2006-01-02"

// Auth identifies who is calling: the company addressed and the acting
// user's email.
type Auth struct {
	CompanyID int64  `json:"companyId"`
	UserEmail string `json:"userEmail"`
}

type callerKey struct{}

// WithCaller records the company the caller's credentials belong to.
func WithCaller(ctx context.Context, companyID int64) context.Context {
	return context.WithValue(ctx, callerKey{}, companyID)
}

// CallerFrom returns the company recorded by WithCaller.
func CallerFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(callerKey{}).(int64)
	return id, ok
}

// Created is the response of every create operation.
type Created struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
}

func (c Created) String() string {
	return fmt.Sprintf("Created %s %d", c.Entity, c.ID)
}

// ParseDate accepts a YYYY-MM-DD date or an RFC 3339 timestamp. The result
// is a date at midnight in loc. Empty input yields nil.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return &d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", s, err)
	}
	ts = ts.In(loc)
	d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
	return &d, nil
}

// ParseStrictDate accepts only YYYY-MM-DD.
func ParseStrictDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return &d, nil
}
