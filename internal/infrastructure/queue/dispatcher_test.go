package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raylene/casework/internal/core/domain"
)

type memNotifications struct {
	mu    sync.Mutex
	saved []*domain.Notification
	fail  bool
}

func (m *memNotifications) Create(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("write failed")
	}
	cp := *n
	m.saved = append(m.saved, &cp)
	return nil
}

func (m *memNotifications) ListForUser(context.Context, string) ([]*domain.Notification, error) {
	return nil, nil
}

func (m *memNotifications) MarkRead(context.Context, string, string) (*domain.Notification, error) {
	return nil, domain.ErrNotificationNotFound
}

func (m *memNotifications) byUser(userID string) []*domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Notification
	for _, n := range m.saved {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func statusChanged(userID, to string) *domain.Notification {
	return &domain.Notification{
		UserID:       userID,
		Channel:      domain.ChannelInApp,
		TemplateCode: domain.TemplateStatusChanged,
		Payload:      map[string]any{"to": to},
		Status:       domain.NotificationPending,
	}
}

func TestDispatcher_PersistsInAppAsSent(t *testing.T) {
	repo := &memNotifications{}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(statusChanged("client-1", "SUBMITTED"))
	d.Stop()

	got := repo.byUser("client-1")
	require.Len(t, got, 1)
	assert.Equal(t, domain.NotificationSent, got[0].Status)
	assert.NotNil(t, got[0].SentAt)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestDispatcher_OtherChannelsStayPending(t *testing.T) {
	repo := &memNotifications{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	n := statusChanged("client-1", "SUBMITTED")
	n.Channel = domain.ChannelEmail
	d.Enqueue(n)
	d.Stop()

	got := repo.byUser("client-1")
	require.Len(t, got, 1)
	assert.Equal(t, domain.NotificationPending, got[0].Status)
	assert.Nil(t, got[0].SentAt)
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &memNotifications{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(context.Background())

	steps := []string{"SUBMITTED", "IN_REVIEW", "NEEDS_INFO", "IN_REVIEW", "APPROVED"}
	for _, s := range steps {
		d.Enqueue(statusChanged("client-7", s))
		d.Enqueue(statusChanged("client-8", s))
	}
	d.Stop()

	for _, user := range []string{"client-7", "client-8"} {
		got := repo.byUser(user)
		require.Len(t, got, len(steps))
		for i, n := range got {
			assert.Equal(t, steps[i], n.Payload["to"], "user %s position %d", user, i)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &memNotifications{}, zerolog.Nop())
	first := d.shardIndex("client-42")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("client-42"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}

func TestDispatcher_EnqueueAfterStopIsDropped(t *testing.T) {
	repo := &memNotifications{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()

	assert.NotPanics(t, func() { d.Enqueue(statusChanged("client-1", "SUBMITTED")) })
	assert.Empty(t, repo.byUser("client-1"))

	// A second Stop is a no-op.
	assert.NotPanics(t, d.Stop)
}

func TestDispatcher_WriteFailureDoesNotStopWorker(t *testing.T) {
	repo := &memNotifications{fail: true}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(statusChanged("client-1", "SUBMITTED"))
	d.Enqueue(statusChanged("client-1", "IN_REVIEW"))
	d.Stop()

	assert.Empty(t, repo.byUser("client-1"))
}
