package api

import (
	"context"
	"fmt"
	"net/url"
)

type RegisterRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and returns the raw login payload, nav snapshot
// included. Normalization happens in internal/nav.
func (c *Client) Login(ctx context.Context, loginID, loginPass string) (*RawLogin, error) {
	var out RawLogin
	in := map[string]string{"loginId": loginID, "loginPass": loginPass}
	if err := c.do(ctx, "POST", "/auth/login", in, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "GET", "/auth/logout", nil, nil)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.do(ctx, "POST", "/auth/register", req, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// UserNameAvailable reports whether a user name is free to register.
func (c *Client) UserNameAvailable(ctx context.Context, value string) (bool, error) {
	var out struct {
		Available bool `json:"userNameAvailable"`
	}
	path := "/auth/availability/username?value=" + url.QueryEscape(value)
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// EmailAvailable reports whether an email address is free to register.
func (c *Client) EmailAvailable(ctx context.Context, value string) (bool, error) {
	var out struct {
		Available bool `json:"emailAvailable"`
	}
	path := "/auth/availability/email?value=" + url.QueryEscape(value)
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// DeleteAccount removes the authenticated user and everything they own.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, "DELETE", "/auth/deleteUser", nil, nil); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
