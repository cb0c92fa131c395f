// Package session owns the single authoritative record of who is using the
// app and what they own: identity, credit balance, premium flag, favorites,
// and generation history. Every mutation persists the full user bundle
// through the store.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lumina/internal/models"
	"lumina/internal/store"
)

// FeedMirror is the slice of the public feed the session manager needs:
// mirroring saved edits when the profile is public and bulk-removing posts
// when it stops being public.
type FeedMirror interface {
	AddPost(ctx context.Context, edit models.SavedEdit) (*models.PublicPost, error)
	RemoveAllByUser(ctx context.Context, userID string) (int, error)
}

// EditInput is the caller-supplied part of a SavedEdit; the manager stamps
// the id and author fields.
type EditInput struct {
	Original string `json:"original"`
	Edited   string `json:"edited"`
	Prompt   string `json:"prompt"`
}

// Manager is the user session manager. A nil bundle means nobody is logged
// in.
type Manager struct {
	mu     sync.Mutex
	store  store.Store
	mirror FeedMirror
	bundle *models.UserBundle

	now       func() time.Time
	lastStamp time.Time
}

// NewManager restores any persisted session from the store.
func NewManager(ctx context.Context, st store.Store, mirror FeedMirror) (*Manager, error) {
	m := &Manager{store: st, mirror: mirror, now: time.Now}

	var bundle models.UserBundle
	ok, err := store.LoadJSON(ctx, st, store.UserKey, &bundle)
	if err != nil {
		return nil, fmt.Errorf("load user bundle: %w", err)
	}
	if ok {
		m.bundle = &bundle
	}
	return m, nil
}

// errNoSession is returned by every operation that needs a logged-in user.
func errNoSession() error {
	return models.NewUnauthorizedError("No active session")
}

// newEditID returns a timestamp-derived id that is strictly increasing even
// for back-to-back calls. Callers must hold m.mu.
func (m *Manager) newEditID() string {
	t := m.now().UTC()
	if !t.After(m.lastStamp) {
		t = m.lastStamp.Add(time.Nanosecond)
	}
	m.lastStamp = t
	return t.Format(time.RFC3339Nano)
}

// persistLocked writes the whole bundle. Callers must hold m.mu.
func (m *Manager) persistLocked(ctx context.Context) error {
	return store.SaveJSON(ctx, m.store, store.UserKey, m.bundle)
}

// Current returns a snapshot of the active session, if any.
func (m *Manager) Current() (*models.UserBundle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bundle == nil {
		return nil, false
	}
	out := cloneBundle(*m.bundle)
	return &out, true
}

// Login starts a fresh session for the given username. Every login behaves
// as a first-time signup: the id is derived deterministically from the name,
// credits reset to the starting grant, and all lists start empty. Logging in
// with a previously used username does NOT restore prior state.
func (m *Manager) Login(ctx context.Context, username string) (*models.UserBundle, error) {
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	id := models.DeriveUserID(username)
	if id == "" {
		return nil, models.NewValidationError("Username must contain letters or digits")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.bundle = &models.UserBundle{
		User: models.User{
			ID:      id,
			Name:    username,
			Credits: models.StartingCredits,
		},
		SavedEdits:        []models.SavedEdit{},
		GenerationHistory: []models.SavedEdit{},
	}
	if err := m.persistLocked(ctx); err != nil {
		m.bundle = nil
		return nil, err
	}

	out := cloneBundle(*m.bundle)
	return &out, nil
}

// Logout clears the session. If the profile was public, the user's posts are
// removed from the feed first. The persisted record is deleted, not
// archived.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return errNoSession()
	}
	if m.bundle.IsProfilePublic {
		if _, err := m.mirror.RemoveAllByUser(ctx, m.bundle.ID); err != nil {
			return fmt.Errorf("remove public posts on logout: %w", err)
		}
	}
	m.bundle = nil
	return m.store.Delete(ctx, store.UserKey)
}

// DeductCredits reserves credits for a paid operation. Premium users always
// succeed without deduction. Non-premium deduction is all-or-nothing: if the
// balance is short, nothing is subtracted and false is returned. Deduction
// is not atomic with the operation it pays for — a failed downstream
// operation does not refund.
func (m *Manager) DeductCredits(ctx context.Context, amount int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return false, errNoSession()
	}
	if m.bundle.IsPremium {
		return true, nil
	}
	if m.bundle.Credits < amount {
		return false, nil
	}
	m.bundle.Credits -= amount
	if err := m.persistLocked(ctx); err != nil {
		m.bundle.Credits += amount
		return false, err
	}
	return true, nil
}

// GoPremium sets the premium flag. Idempotent; past credit spend is not
// reconciled.
func (m *Manager) GoPremium(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return errNoSession()
	}
	if m.bundle.IsPremium {
		return nil
	}
	m.bundle.IsPremium = true
	return m.persistLocked(ctx)
}

// SaveEdit appends an edit to favorites, stamping the author fields from the
// current user. When the profile is public the edit is also mirrored to the
// feed.
func (m *Manager) SaveEdit(ctx context.Context, in EditInput) (*models.SavedEdit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return nil, errNoSession()
	}

	edit := models.SavedEdit{
		ID:                 m.newEditID(),
		Original:           in.Original,
		Edited:             in.Edited,
		Prompt:             in.Prompt,
		UserID:             m.bundle.ID,
		UserName:           m.bundle.Name,
		UserProfilePicture: m.bundle.ProfilePicture,
	}
	m.bundle.SavedEdits = append(m.bundle.SavedEdits, edit)
	if err := m.persistLocked(ctx); err != nil {
		m.bundle.SavedEdits = m.bundle.SavedEdits[:len(m.bundle.SavedEdits)-1]
		return nil, err
	}

	if m.bundle.IsProfilePublic {
		if _, err := m.mirror.AddPost(ctx, edit); err != nil {
			return nil, fmt.Errorf("mirror edit to feed: %w", err)
		}
	}
	return &edit, nil
}

// LogGeneration appends an entry to the generation history. History is an
// automatic audit trail, independent of favorites, and is never mirrored
// publicly.
func (m *Manager) LogGeneration(ctx context.Context, in EditInput) (*models.SavedEdit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return nil, errNoSession()
	}

	entry := models.SavedEdit{
		ID:       m.newEditID(),
		Original: in.Original,
		Edited:   in.Edited,
		Prompt:   in.Prompt,
	}
	m.bundle.GenerationHistory = append(m.bundle.GenerationHistory, entry)
	if err := m.persistLocked(ctx); err != nil {
		m.bundle.GenerationHistory = m.bundle.GenerationHistory[:len(m.bundle.GenerationHistory)-1]
		return nil, err
	}
	return &entry, nil
}

// ToggleProfilePublic flips the profile visibility. Flipping to public
// mirrors every existing favorite into the feed; flipping to private removes
// all of the user's posts. Returns the new state.
func (m *Manager) ToggleProfilePublic(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return false, errNoSession()
	}

	m.bundle.IsProfilePublic = !m.bundle.IsProfilePublic
	if err := m.persistLocked(ctx); err != nil {
		m.bundle.IsProfilePublic = !m.bundle.IsProfilePublic
		return false, err
	}

	if m.bundle.IsProfilePublic {
		for _, edit := range m.bundle.SavedEdits {
			if _, err := m.mirror.AddPost(ctx, edit); err != nil {
				return true, fmt.Errorf("mirror favorites to feed: %w", err)
			}
		}
	} else {
		if _, err := m.mirror.RemoveAllByUser(ctx, m.bundle.ID); err != nil {
			return false, fmt.Errorf("remove public posts: %w", err)
		}
	}
	return m.bundle.IsProfilePublic, nil
}

// UpdateUsername changes the display name. The user id stays fixed, and
// already-published posts and history entries keep the name captured when
// they were created.
func (m *Manager) UpdateUsername(ctx context.Context, name string) error {
	if name == "" {
		return models.NewValidationError("Username is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return errNoSession()
	}
	m.bundle.Name = name
	return m.persistLocked(ctx)
}

// UpdateProfilePicture replaces the profile picture reference. Published
// posts keep the picture captured at publish time.
func (m *Manager) UpdateProfilePicture(ctx context.Context, picture string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle == nil {
		return errNoSession()
	}
	m.bundle.ProfilePicture = picture
	return m.persistLocked(ctx)
}

func cloneBundle(b models.UserBundle) models.UserBundle {
	out := b
	out.SavedEdits = append([]models.SavedEdit(nil), b.SavedEdits...)
	out.GenerationHistory = append([]models.SavedEdit(nil), b.GenerationHistory...)
	return out
}
