package api

import (
	"context"
	"net/url"

	"uvote-cli/internal/domain"
)

// Next steps reported by GET /auth/status
const (
	NextStepVerify = "VERIFY"
	NextStepLogin  = "LOGIN"
)

// LoginRequest is the credential payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

// LoginResponse carries the bearer token and the authenticated profile
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"usuario"`
}

// AuthStatus tells a client whether an account still needs verification
// and how long until another code may be requested
type AuthStatus struct {
	NextStep          string `json:"nextStep"`
	ResendAvailableIn int    `json:"resendAvailableIn"`
}

// Login exchanges credentials for a token and profile
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AuthStatus fetches the verification state for an email
func (c *Client) AuthStatus(ctx context.Context, email string) (*AuthStatus, error) {
	var resp AuthStatus
	path := "/auth/status?correo=" + url.QueryEscape(email)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyCode submits a 6-digit email verification code
func (c *Client) VerifyCode(ctx context.Context, email, code string) error {
	payload := struct {
		Email string `json:"correo"`
		Code  string `json:"codigo"`
	}{Email: email, Code: code}

	return c.post(ctx, "/auth/verify-code", payload, nil)
}

// ResendCode asks the backend to email a fresh verification code
func (c *Client) ResendCode(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"correo"`
	}{Email: email}

	return c.post(ctx, "/auth/resend-code", payload, nil)
}
