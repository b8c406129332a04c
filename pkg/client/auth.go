package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marketplace/internal/model"
)

// AuthAPI covers /auth.
type AuthAPI struct {
	c *Client
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         *model.User `json:"user"`
}

// Register creates an account. It does not sign in.
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var resp registerResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Login signs in and persists the new session to the store. Use
// WithSession to attach the returned session to later calls.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*Session, error) {
	in := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/login", nil, in, &resp); err != nil {
		return nil, err
	}

	s := a.session(resp, nil)
	if err := a.c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh trades the refresh token of the session in ctx for a new access
// token and persists the result.
func (a *AuthAPI) Refresh(ctx context.Context) (*Session, error) {
	current, ok := SessionFrom(ctx)
	if !ok || current.RefreshToken == "" {
		return nil, ErrNoSession
	}

	in := map[string]string{"refresh_token": current.RefreshToken}
	var resp tokenResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/refresh", nil, in, &resp); err != nil {
		return nil, err
	}

	s := a.session(resp, current)
	if err := a.c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout revokes the session in ctx and clears the store. The store is
// cleared even when the server rejects the call, since the tokens are of no
// further use either way.
func (a *AuthAPI) Logout(ctx context.Context) error {
	current, ok := SessionFrom(ctx)
	if !ok {
		return ErrNoSession
	}

	in := map[string]string{}
	if current.RefreshToken != "" {
		in["refresh_token"] = current.RefreshToken
	}
	callErr := a.c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, in, nil)
	return errors.Join(callErr, a.c.store.Clear(ctx))
}

// Me returns the user behind the session in ctx.
func (a *AuthAPI) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := a.c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthAPI) session(resp tokenResponse, previous *Session) *Session {
	s := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}
	if resp.ExpiresIn > 0 {
		s.ExpiresAt = a.c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if previous != nil {
		if s.RefreshToken == "" {
			s.RefreshToken = previous.RefreshToken
		}
		if s.User == nil {
			s.User = previous.User
		}
	}
	return s
}
