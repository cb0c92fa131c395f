// Package feed maintains the shared public feed: saved edits promoted to
// posts, with likes, comments, and share counters. The feed is a flat,
// unindexed collection persisted wholesale through the store on every
// mutation.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lumina/internal/models"
	"lumina/internal/observability"
	"lumina/internal/store"

	"github.com/google/uuid"
)

// Event types published to the sink on feed mutations.
const (
	EventPostAdded    = "post_added"
	EventLike         = "like"
	EventComment      = "comment"
	EventShare        = "share"
	EventPostsRemoved = "posts_removed"
)

// Event describes one feed mutation for real-time delivery.
type Event struct {
	Type   string             `json:"type"`
	Post   *models.PublicPost `json:"post,omitempty"`
	UserID string             `json:"userId,omitempty"`
}

// EventSink receives feed mutation events. Implementations must not block.
type EventSink interface {
	Publish(event Event)
}

// Service owns the public feed collection. It is an explicit object with
// injected persistence rather than module-level state, so tests can run it
// against an in-memory store.
type Service struct {
	mu    sync.RWMutex
	store store.Store
	sink  EventSink
	posts []models.PublicPost
}

// NewService loads the persisted feed, seeding it with synthetic posts on
// first initialization so the feed is never empty for first-time viewers.
func NewService(ctx context.Context, st store.Store, sink EventSink) (*Service, error) {
	s := &Service{store: st, sink: sink}

	ok, err := store.LoadJSON(ctx, st, store.FeedKey, &s.posts)
	if err != nil {
		return nil, fmt.Errorf("load public feed: %w", err)
	}
	if !ok {
		s.posts = seedPosts()
		if err := s.persistLocked(ctx); err != nil {
			return nil, fmt.Errorf("persist seeded feed: %w", err)
		}
	}
	return s, nil
}

// persistLocked writes the whole feed record. Callers must hold s.mu.
func (s *Service) persistLocked(ctx context.Context) error {
	return store.SaveJSON(ctx, s.store, store.FeedKey, s.posts)
}

func (s *Service) publish(event Event) {
	observability.FeedEventsTotal.WithLabelValues(event.Type).Inc()
	if s.sink != nil {
		s.sink.Publish(event)
	}
}

// ListFeed returns every post, most recent first.
func (s *Service) ListFeed() []models.PublicPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PublicPost, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		out = append(out, clonePost(s.posts[i]))
	}
	return out
}

// ListByUser returns the given user's posts, most recent first.
func (s *Service) ListByUser(userID string) []models.PublicPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.PublicPost
	for i := len(s.posts) - 1; i >= 0; i-- {
		if s.posts[i].UserID == userID {
			out = append(out, clonePost(s.posts[i]))
		}
	}
	return out
}

// AddPost wraps a saved edit with zeroed social counters and appends it.
// An edit whose id is already in the feed is not appended again, which keeps
// rapid private/public/private toggles from duplicating posts.
func (s *Service) AddPost(ctx context.Context, edit models.SavedEdit) (*models.PublicPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == edit.ID {
			existing := clonePost(s.posts[i])
			return &existing, nil
		}
	}

	post := models.PublicPost{
		SavedEdit: edit,
		LikedBy:   []string{},
		Comments:  []models.Comment{},
	}
	s.posts = append(s.posts, post)

	if err := s.persistLocked(ctx); err != nil {
		s.posts = s.posts[:len(s.posts)-1]
		return nil, err
	}

	out := clonePost(post)
	s.publish(Event{Type: EventPostAdded, Post: &out, UserID: edit.UserID})
	return &out, nil
}

// RemoveAllByUser deletes every post by the given user. Used on logout and
// on a public-to-private profile flip. Returns the number removed.
func (s *Service) RemoveAllByUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.posts[:0:0]
	for _, p := range s.posts {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	removed := len(s.posts) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	prev := s.posts
	s.posts = kept
	if err := s.persistLocked(ctx); err != nil {
		s.posts = prev
		return 0, err
	}

	s.publish(Event{Type: EventPostsRemoved, UserID: userID})
	return removed, nil
}

// ToggleLike flips the given user's like on a post. Like state is membership
// in LikedBy; the Likes counter follows it, so a pair of toggles restores the
// original state exactly.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (*models.PublicPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.findLocked(postID)
	if post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}

	if post.IsLikedBy(userID) {
		if post.Likes > 0 {
			post.Likes--
		}
		likedBy := post.LikedBy[:0:0]
		for _, id := range post.LikedBy {
			if id != userID {
				likedBy = append(likedBy, id)
			}
		}
		post.LikedBy = likedBy
	} else {
		post.Likes++
		post.LikedBy = append(post.LikedBy, userID)
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}

	out := clonePost(*post)
	s.publish(Event{Type: EventLike, Post: &out, UserID: userID})
	return &out, nil
}

// AddComment appends a comment to a post. Comments cannot be edited or
// deleted.
func (s *Service) AddComment(ctx context.Context, postID, userID, userName, text string) (*models.PublicPost, error) {
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.findLocked(postID)
	if post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}

	post.Comments = append(post.Comments, models.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  userName,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}

	out := clonePost(*post)
	s.publish(Event{Type: EventComment, Post: &out, UserID: userID})
	return &out, nil
}

// IncrementShare bumps the monotonic share counter. Repeated shares by the
// same user count independently.
func (s *Service) IncrementShare(ctx context.Context, postID string) (*models.PublicPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.findLocked(postID)
	if post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}

	post.Shares++
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}

	out := clonePost(*post)
	s.publish(Event{Type: EventShare, Post: &out})
	return &out, nil
}

// findLocked returns a pointer into s.posts. Callers must hold s.mu.
func (s *Service) findLocked(postID string) *models.PublicPost {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return &s.posts[i]
		}
	}
	return nil
}

func clonePost(p models.PublicPost) models.PublicPost {
	out := p
	out.LikedBy = append([]string(nil), p.LikedBy...)
	out.Comments = append([]models.Comment(nil), p.Comments...)
	return out
}
