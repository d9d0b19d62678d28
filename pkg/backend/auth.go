package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// User is the hosted auth provider's account record.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Session is an issued token pair with its owning user.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// SignInWithPassword exchanges credentials for a session with the hosted
// auth provider.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	query := url.Values{}
	query.Set("grant_type", "password")

	var session Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  query,
		body:   map[string]string{"email": email, "password": password},
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return &session, nil
}

// RefreshSession rotates a refresh token into a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	query := url.Values{}
	query.Set("grant_type", "refresh_token")

	var session Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  query,
		body:   map[string]string{"refresh_token": refreshToken},
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return &session, nil
}

// SignUp registers a new account. Depending on provider settings the
// response may or may not include a usable session.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if name != "" {
		body["data"] = map[string]string{"name": name}
	}

	var session Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/signup",
		body:   body,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return &session, nil
}

// SignOut revokes the bearer token's session on the provider.
func (c *Client) SignOut(ctx context.Context, token string) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/logout",
		token:  token,
	}, nil)
	if err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// GetUser resolves the bearer token's account record.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	var user User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   authPath + "/user",
		token:  token,
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &user, nil
}
