package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
)

func (c *Client) Signup(ctx context.Context, email, name, password string) (*models.SignupResult, error) {
	in := map[string]string{"email": email, "name": name, "password": password}
	var out models.SignupResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyEmail(ctx context.Context, userID, code string) (*models.AuthResult, error) {
	in := map[string]string{"userId": userID, "code": code}
	var out models.AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-email", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out models.AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*models.ResetRequest, error) {
	var out models.ResetRequest
	if err := c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword returns the server's confirmation message.
func (c *Client) ResetPassword(ctx context.Context, userID, code, newPassword string) (string, error) {
	in := map[string]string{"userId": userID, "code": code, "newPassword": newPassword}
	var out messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/reset-password", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile sends only the non-nil fields.
func (c *Client) UpdateProfile(ctx context.Context, name, email *string) (*models.User, error) {
	in := struct {
		Name  *string `json:"name,omitempty"`
		Email *string `json:"email,omitempty"`
	}{name, email}

	var out struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
