package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reportErr error
	blockErr  error

	reportedUsers  []string
	reportedPhotos []string
	blocked        []string
	unblocked      []string
}

func (f *fakeClient) Report(_ context.Context, userID, photoID, _ string) error {
	if f.reportErr != nil {
		return f.reportErr
	}
	if userID != "" {
		f.reportedUsers = append(f.reportedUsers, userID)
	}
	if photoID != "" {
		f.reportedPhotos = append(f.reportedPhotos, photoID)
	}
	return nil
}

func (f *fakeClient) Block(_ context.Context, userID string) error {
	if f.blockErr != nil {
		return f.blockErr
	}
	f.blocked = append(f.blocked, userID)
	return nil
}

func (f *fakeClient) Unblock(_ context.Context, userID string) error {
	f.unblocked = append(f.unblocked, userID)
	return nil
}

type fakeSyncer struct {
	stopped int
}

func (f *fakeSyncer) Stop() { f.stopped++ }

func TestBlockStopsSync(t *testing.T) {
	client := &fakeClient{}
	loop := &fakeSyncer{}
	a := NewActions(client, loop, nil)

	require.NoError(t, a.BlockUser(context.Background(), "bad-user"))
	assert.Equal(t, []string{"bad-user"}, client.blocked)
	assert.Equal(t, 1, loop.stopped)
}

func TestFailedBlockLeavesSyncRunning(t *testing.T) {
	client := &fakeClient{blockErr: errors.New("unreachable")}
	loop := &fakeSyncer{}
	a := NewActions(client, loop, nil)

	require.Error(t, a.BlockUser(context.Background(), "bad-user"))
	assert.Equal(t, 0, loop.stopped)
}

func TestReportDoesNotTouchSync(t *testing.T) {
	client := &fakeClient{}
	loop := &fakeSyncer{}
	a := NewActions(client, loop, nil)

	require.NoError(t, a.ReportUser(context.Background(), "bad-user", "Reported from chat"))
	assert.Equal(t, []string{"bad-user"}, client.reportedUsers)
	assert.Equal(t, 0, loop.stopped)
}

func TestReportFailureIsSurfaced(t *testing.T) {
	client := &fakeClient{reportErr: errors.New("boom")}
	a := NewActions(client, nil, nil)

	assert.Error(t, a.ReportUser(context.Background(), "u1", "spam"))
}

func TestReportPhoto(t *testing.T) {
	client := &fakeClient{}
	a := NewActions(client, nil, nil)

	require.NoError(t, a.ReportPhoto(context.Background(), "p1", "not appropriate"))
	assert.Equal(t, []string{"p1"}, client.reportedPhotos)
}

func TestBlockWithoutSyncer(t *testing.T) {
	client := &fakeClient{}
	a := NewActions(client, nil, nil)

	require.NoError(t, a.BlockUser(context.Background(), "u1"))
	require.NoError(t, a.UnblockUser(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, client.unblocked)
}
