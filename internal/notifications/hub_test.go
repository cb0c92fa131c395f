package notifications

import (
	"encoding/json"
	"testing"

	"lumina/internal/feed"
	"lumina/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUnregister(t *testing.T) {
	h := NewHub()

	c1, err := h.Register(nil, "alice")
	require.NoError(t, err)
	c2, err := h.Register(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 2, h.SubscriberCount())

	h.UnregisterClient(c1)
	assert.Equal(t, 1, h.SubscriberCount())

	// Unregistering twice is harmless.
	h.UnregisterClient(c1)
	assert.Equal(t, 1, h.SubscriberCount())

	h.UnregisterClient(c2)
	assert.Equal(t, 0, h.SubscriberCount())
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := NewHub()

	c1, err := h.Register(nil, "alice")
	require.NoError(t, err)
	c2, err := h.Register(nil, "bob")
	require.NoError(t, err)

	h.Publish(feed.Event{
		Type:   feed.EventLike,
		UserID: "alice",
		Post:   &models.PublicPost{SavedEdit: models.SavedEdit{ID: "p1"}, Likes: 1},
	})

	for _, c := range []*Client{c1, c2} {
		select {
		case raw := <-c.Send:
			var got feed.Event
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, feed.EventLike, got.Type)
			assert.Equal(t, "alice", got.UserID)
			require.NotNil(t, got.Post)
			assert.Equal(t, "p1", got.Post.ID)
		default:
			t.Fatalf("subscriber %q did not receive the event", c.Viewer)
		}
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub()

	c, err := h.Register(nil, "slow")
	require.NoError(t, err)

	for i := 0; i < cap(c.Send)+10; i++ {
		h.Publish(feed.Event{Type: feed.EventShare})
	}

	// The buffer is full but Publish never blocked; the last slot may hold
	// the drop notice instead of a feed event.
	assert.Equal(t, cap(c.Send), len(c.Send))
}
