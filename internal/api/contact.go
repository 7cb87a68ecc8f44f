package api

import (
	"context"
	"fmt"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (c *Client) SendContact(ctx context.Context, req ContactRequest) error {
	if err := c.do(ctx, "POST", "/contacts", req, nil); err != nil {
		return fmt.Errorf("send contact: %w", err)
	}
	return nil
}
