package api

import (
	"context"
	"net/http"
)

type reportRequest struct {
	ReportedUserID  string `json:"reported_user_id,omitempty"`
	ReportedPhotoID string `json:"reported_photo_id,omitempty"`
	Reason          string `json:"reason"`
}

type blockRequest struct {
	BlockedUserID string `json:"blocked_user_id"`
}

// Report files a report against a user and/or photo. Write-only; the
// client holds no copy of the record.
func (c *Client) Report(ctx context.Context, reportedUserID, reportedPhotoID, reason string) error {
	return c.do(ctx, http.MethodPost, "/report", reportRequest{
		ReportedUserID:  reportedUserID,
		ReportedPhotoID: reportedPhotoID,
		Reason:          reason,
	}, nil)
}

// Block blocks a user. The backend stops returning their messages; the
// caller is expected to halt the conversation's sync and navigate away.
func (c *Client) Block(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/block", blockRequest{BlockedUserID: userID}, nil)
}

// Unblock removes a previously blocked user.
func (c *Client) Unblock(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/unblock/"+userID, nil, nil)
}
