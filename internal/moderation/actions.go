// Package moderation wraps the report and block safety actions.
package moderation

import (
	"context"

	"go.uber.org/zap"
)

// Client is the safety surface of the REST client.
type Client interface {
	Report(ctx context.Context, reportedUserID, reportedPhotoID, reason string) error
	Block(ctx context.Context, userID string) error
	Unblock(ctx context.Context, userID string) error
}

// Syncer is the running sync loop for the conversation being moderated.
type Syncer interface {
	Stop()
}

// Actions performs moderation against one conversation partner. A
// successful block stops the conversation's sync loop before returning,
// so no further load for that partner is ever issued; the caller is
// expected to navigate away.
type Actions struct {
	client Client
	syncer Syncer
	logger *zap.Logger
}

// NewActions creates moderation actions bound to one conversation view.
// syncer may be nil when no loop is running (e.g. from the list view).
func NewActions(client Client, syncer Syncer, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{client: client, syncer: syncer, logger: logger}
}

// ReportUser files a report against the partner. Failure is non-fatal
// and does not alter sync state; the caller surfaces a retry prompt.
func (a *Actions) ReportUser(ctx context.Context, userID, reason string) error {
	if err := a.client.Report(ctx, userID, "", reason); err != nil {
		a.logger.Warn("report failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	a.logger.Info("user reported", zap.String("user_id", userID))
	return nil
}

// ReportPhoto files a report against a photo from the feed.
func (a *Actions) ReportPhoto(ctx context.Context, photoID, reason string) error {
	if err := a.client.Report(ctx, "", photoID, reason); err != nil {
		a.logger.Warn("report failed", zap.String("photo_id", photoID), zap.Error(err))
		return err
	}
	a.logger.Info("photo reported", zap.String("photo_id", photoID))
	return nil
}

// BlockUser blocks the partner. On success the conversation's sync loop
// is stopped as a side effect; on failure sync continues untouched.
func (a *Actions) BlockUser(ctx context.Context, userID string) error {
	if err := a.client.Block(ctx, userID); err != nil {
		a.logger.Warn("block failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if a.syncer != nil {
		a.syncer.Stop()
	}
	a.logger.Info("user blocked, sync halted", zap.String("user_id", userID))
	return nil
}

// UnblockUser lifts a block.
func (a *Actions) UnblockUser(ctx context.Context, userID string) error {
	return a.client.Unblock(ctx, userID)
}
