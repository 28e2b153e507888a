package api

import (
	"context"
	"net/http"
)

// Friends returns the confirmed friends directory.
func (c *Client) Friends(ctx context.Context) ([]User, error) {
	var friends []User
	if err := c.do(ctx, http.MethodGet, "/friends/list", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// Suggestions returns interest-matched friend suggestions, best match
// first. The matching itself is backend-owned; the client consumes the
// ranked list as-is.
func (c *Client) Suggestions(ctx context.Context) ([]FriendSuggestion, error) {
	var suggestions []FriendSuggestion
	if err := c.do(ctx, http.MethodGet, "/friends/suggestions", nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// SendFriendRequest asks userID to become a friend.
func (c *Client) SendFriendRequest(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/friends/request/"+userID, nil, nil)
}

// FriendRequests returns pending requests addressed to the current user.
func (c *Client) FriendRequests(ctx context.Context) ([]FriendRequest, error) {
	var reqs []FriendRequest
	if err := c.do(ctx, http.MethodGet, "/friends/requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// AcceptFriendRequest accepts a pending friend request.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodPost, "/friends/accept/"+requestID, nil, nil)
}
