package backend

import (
	"context"
	"fmt"

	"github.com/podbrief/podbrief/internal/models"
)

// Login exchanges email/password credentials for a token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var auth models.AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/login", nil, req, &auth); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &auth, nil
}

// Signup creates an account and returns a token.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var auth models.AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/signup", nil, req, &auth); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &auth, nil
}

// GoogleAuth exchanges a Google ID token for a session token.
func (c *Client) GoogleAuth(ctx context.Context, req models.GoogleAuthRequest) (*models.AuthResponse, error) {
	var auth models.AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/google", nil, req, &auth); err != nil {
		return nil, fmt.Errorf("google auth: %w", err)
	}
	return &auth, nil
}

// Me fetches the account behind the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "GET", "/auth/me", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &user, nil
}
