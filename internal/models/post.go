package models

import "time"

// Comment is a single append-only comment on a public post.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PublicPost is a SavedEdit promoted to the shared feed with social metadata.
//
// LikedBy membership is authoritative for like state; Likes is kept equal to
// len(LikedBy) across toggles. Seeded posts start with a synthetic Likes
// count and an empty LikedBy set, so the invariant holds for the deltas
// applied after seeding.
type PublicPost struct {
	SavedEdit
	Likes    int       `json:"likes"`
	LikedBy  []string  `json:"likedBy"`
	Comments []Comment `json:"comments"`
	Shares   int       `json:"shares"`
}

// IsLikedBy reports whether the given user id is in the LikedBy set.
func (p *PublicPost) IsLikedBy(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
