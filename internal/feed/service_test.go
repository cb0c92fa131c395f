package feed

import (
	"context"
	"sync"
	"testing"

	"lumina/internal/models"
	"lumina/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureSink) Publish(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestService(t *testing.T) (*Service, *captureSink, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	sink := &captureSink{}
	svc, err := NewService(context.Background(), st, sink)
	require.NoError(t, err)
	return svc, sink, st
}

func sampleEdit(id, userID string) models.SavedEdit {
	return models.SavedEdit{
		ID:       id,
		Original: "data:image/png;base64,orig",
		Edited:   "data:image/png;base64,edit",
		Prompt:   "make it glow",
		UserID:   userID,
		UserName: "Jane Doe",
	}
}

func TestNewServiceSeedsEmptyFeed(t *testing.T) {
	svc, _, _ := newTestService(t)

	posts := svc.ListFeed()
	require.Len(t, posts, 4)
	for _, p := range posts {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Prompt)
		assert.Empty(t, p.LikedBy, "seed posts start with nobody in the liked-by set")
		assert.GreaterOrEqual(t, p.Likes, 10)
	}
}

func TestNewServiceSeedsOnlyOnce(t *testing.T) {
	svc, sink, st := newTestService(t)

	_, err := svc.AddPost(context.Background(), sampleEdit("e1", "jane_doe"))
	require.NoError(t, err)

	reloaded, err := NewService(context.Background(), st, sink)
	require.NoError(t, err)
	assert.Len(t, reloaded.ListFeed(), 5, "restart must not re-seed on top of persisted posts")
}

func TestListFeedMostRecentFirst(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddPost(context.Background(), sampleEdit("e1", "jane_doe"))
	require.NoError(t, err)
	_, err = svc.AddPost(context.Background(), sampleEdit("e2", "jane_doe"))
	require.NoError(t, err)

	posts := svc.ListFeed()
	require.Len(t, posts, 6)
	assert.Equal(t, "e2", posts[0].ID)
	assert.Equal(t, "e1", posts[1].ID)
}

func TestAddPostZeroesCountersAndDedups(t *testing.T) {
	svc, sink, _ := newTestService(t)

	post, err := svc.AddPost(context.Background(), sampleEdit("e1", "jane_doe"))
	require.NoError(t, err)
	assert.Equal(t, 0, post.Likes)
	assert.Equal(t, 0, post.Shares)
	assert.Empty(t, post.LikedBy)
	assert.Empty(t, post.Comments)

	again, err := svc.AddPost(context.Background(), sampleEdit("e1", "jane_doe"))
	require.NoError(t, err)
	assert.Equal(t, post.ID, again.ID)
	assert.Len(t, svc.ListByUser("jane_doe"), 1, "same edit id is never appended twice")

	assert.Equal(t, []string{EventPostAdded}, sink.types(), "the duplicate add publishes nothing")
}

func TestListByUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddPost(context.Background(), sampleEdit("e1", "jane_doe"))
	require.NoError(t, err)
	_, err = svc.AddPost(context.Background(), sampleEdit("e2", "other_user"))
	require.NoError(t, err)

	posts := svc.ListByUser("jane_doe")
	require.Len(t, posts, 1)
	assert.Equal(t, "e1", posts[0].ID)
	assert.Empty(t, svc.ListByUser("nobody"))
}

func TestToggleLikePairRestoresState(t *testing.T) {
	svc, _, _ := newTestService(t)
	before := svc.ListFeed()[0]

	liked, err := svc.ToggleLike(context.Background(), before.ID, "jane_doe")
	require.NoError(t, err)
	assert.Equal(t, before.Likes+1, liked.Likes)
	assert.True(t, liked.IsLikedBy("jane_doe"))

	unliked, err := svc.ToggleLike(context.Background(), before.ID, "jane_doe")
	require.NoError(t, err)
	assert.Equal(t, before.Likes, unliked.Likes)
	assert.False(t, unliked.IsLikedBy("jane_doe"))
	assert.Equal(t, before.LikedBy, unliked.LikedBy)
}

func TestToggleLikeCounterFollowsMembership(t *testing.T) {
	svc, _, _ := newTestService(t)
	post := svc.ListFeed()[0]

	p1, err := svc.ToggleLike(context.Background(), post.ID, "a")
	require.NoError(t, err)
	p2, err := svc.ToggleLike(context.Background(), post.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, p1.Likes+1, p2.Likes)
	assert.ElementsMatch(t, []string{"a", "b"}, p2.LikedBy)

	p3, err := svc.ToggleLike(context.Background(), post.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, p3.LikedBy)
	assert.Equal(t, post.Likes+1, p3.Likes)
}

func TestToggleLikeUnknownPost(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ToggleLike(context.Background(), "missing", "jane_doe")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestAddComment(t *testing.T) {
	svc, sink, _ := newTestService(t)
	post := svc.ListFeed()[0]
	before := len(post.Comments)

	updated, err := svc.AddComment(context.Background(), post.ID, "jane_doe", "Jane Doe", "Stunning!")
	require.NoError(t, err)
	require.Len(t, updated.Comments, before+1)

	last := updated.Comments[len(updated.Comments)-1]
	assert.NotEmpty(t, last.ID)
	assert.Equal(t, "jane_doe", last.UserID)
	assert.Equal(t, "Stunning!", last.Text)
	assert.False(t, last.Timestamp.IsZero())
	assert.Contains(t, sink.types(), EventComment)
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	svc, _, _ := newTestService(t)
	post := svc.ListFeed()[0]

	_, err := svc.AddComment(context.Background(), post.ID, "jane_doe", "Jane Doe", "")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestIncrementShareIsMonotonic(t *testing.T) {
	svc, _, _ := newTestService(t)
	post := svc.ListFeed()[0]

	p1, err := svc.IncrementShare(context.Background(), post.ID)
	require.NoError(t, err)
	p2, err := svc.IncrementShare(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Shares+1, p1.Shares)
	assert.Equal(t, post.Shares+2, p2.Shares)
}

func TestRemoveAllByUser(t *testing.T) {
	svc, sink, _ := newTestService(t)

	_, err := svc.AddPost(context.Background(), sampleEdit("e1", "jane_doe"))
	require.NoError(t, err)
	_, err = svc.AddPost(context.Background(), sampleEdit("e2", "jane_doe"))
	require.NoError(t, err)

	removed, err := svc.RemoveAllByUser(context.Background(), "jane_doe")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Empty(t, svc.ListByUser("jane_doe"))
	assert.Len(t, svc.ListFeed(), 4, "seed posts belong to other authors and stay")
	assert.Contains(t, sink.types(), EventPostsRemoved)

	removed, err = svc.RemoveAllByUser(context.Background(), "jane_doe")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestMutationsPersistAcrossRestart(t *testing.T) {
	svc, sink, st := newTestService(t)
	post := svc.ListFeed()[0]

	_, err := svc.ToggleLike(context.Background(), post.ID, "jane_doe")
	require.NoError(t, err)
	_, err = svc.AddComment(context.Background(), post.ID, "jane_doe", "Jane Doe", "Saved!")
	require.NoError(t, err)

	reloaded, err := NewService(context.Background(), st, sink)
	require.NoError(t, err)

	restored, err := reloaded.ToggleLike(context.Background(), post.ID, "other")
	require.NoError(t, err)
	assert.True(t, restored.IsLikedBy("jane_doe"))
	assert.Equal(t, post.Likes+2, restored.Likes)
}

func TestListFeedReturnsCopies(t *testing.T) {
	svc, _, _ := newTestService(t)

	posts := svc.ListFeed()
	posts[0].LikedBy = append(posts[0].LikedBy, "intruder")
	posts[0].Likes = -1

	fresh := svc.ListFeed()
	assert.NotContains(t, fresh[0].LikedBy, "intruder")
	assert.NotEqual(t, -1, fresh[0].Likes)
}
