package api

import (
	"context"
	"net/http"
)

type registerRequest struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Register creates a new account and signs the client in.
func (c *Client) Register(ctx context.Context, nickname, avatarURL, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{
		Nickname:  nickname,
		AvatarURL: avatarURL,
		Password:  password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Login signs in with an existing account.
func (c *Client) Login(ctx context.Context, nickname, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Nickname: nickname,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
