// Package availability runs the registration uniqueness checks (user name,
// email) and suppresses out-of-order responses: a reply is applied only if
// the value it was issued for is still the most recent one the user typed.
package availability

import (
	"context"
	"strings"
	"sync"
)

type Field string

const (
	FieldUserName Field = "userName"
	FieldEmail    Field = "email"
)

type Result struct {
	Field     Field
	Value     string
	Available bool
}

// API is the client slice the checker needs.
type API interface {
	UserNameAvailable(ctx context.Context, value string) (bool, error)
	EmailAvailable(ctx context.Context, value string) (bool, error)
}

type Checker struct {
	api API

	mu     sync.Mutex
	latest map[Field]string
}

func New(api API) *Checker {
	return &Checker{api: api, latest: map[Field]string{}}
}

// Check queries availability for value. The second return is false when the
// result must be discarded: empty input, or a newer Check for the same
// field was issued while this one was in flight (stale response).
func (c *Checker) Check(ctx context.Context, field Field, value string) (Result, bool, error) {
	v := strings.TrimSpace(value)
	if field == FieldEmail {
		v = strings.ToLower(v)
	}

	c.mu.Lock()
	c.latest[field] = v
	c.mu.Unlock()

	if v == "" {
		return Result{}, false, nil
	}

	var available bool
	var err error
	switch field {
	case FieldEmail:
		available, err = c.api.EmailAvailable(ctx, v)
	default:
		available, err = c.api.UserNameAvailable(ctx, v)
	}
	if err != nil {
		return Result{}, false, err
	}

	c.mu.Lock()
	stale := c.latest[field] != v
	c.mu.Unlock()
	if stale {
		return Result{}, false, nil
	}
	return Result{Field: field, Value: v, Available: available}, true, nil
}
