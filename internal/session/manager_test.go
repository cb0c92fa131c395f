package session

import (
	"context"
	"sync"
	"testing"

	"lumina/internal/models"
	"lumina/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMirror struct {
	mu      sync.Mutex
	added   []models.SavedEdit
	removed []string
}

func (f *fakeMirror) AddPost(_ context.Context, edit models.SavedEdit) (*models.PublicPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, edit)
	return &models.PublicPost{SavedEdit: edit}, nil
}

func (f *fakeMirror) RemoveAllByUser(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, userID)
	return 1, nil
}

func newTestManager(t *testing.T) (*Manager, *fakeMirror, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	mirror := &fakeMirror{}
	m, err := NewManager(context.Background(), st, mirror)
	require.NoError(t, err)
	return m, mirror, st
}

func TestLoginGrantsStartingCredits(t *testing.T) {
	m, _, _ := newTestManager(t)

	bundle, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", bundle.ID)
	assert.Equal(t, "Jane Doe", bundle.Name)
	assert.Equal(t, models.StartingCredits, bundle.Credits)
	assert.NotNil(t, bundle.SavedEdits)
	assert.NotNil(t, bundle.GenerationHistory)
}

func TestLoginRejectsUnusableNames(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Login(context.Background(), "")
	assert.Error(t, err)

	_, err = m.Login(context.Background(), "!!!")
	assert.Error(t, err)
}

func TestLoginDoesNotRestorePriorState(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)
	require.NoError(t, m.GoPremium(context.Background()))
	ok, err := m.DeductCredits(context.Background(), 20)
	require.NoError(t, err)
	require.True(t, ok)

	bundle, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.False(t, bundle.IsPremium)
	assert.Equal(t, models.StartingCredits, bundle.Credits)
}

func TestSessionSurvivesRestart(t *testing.T) {
	m, mirror, st := newTestManager(t)

	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)
	_, err = m.SaveEdit(context.Background(), EditInput{Original: "a", Edited: "b", Prompt: "p"})
	require.NoError(t, err)

	restored, err := NewManager(context.Background(), st, mirror)
	require.NoError(t, err)

	bundle, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "jane_doe", bundle.ID)
	assert.Len(t, bundle.SavedEdits, 1)
}

func TestDeductCredits(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	ok, err := m.DeductCredits(context.Background(), models.EditCost)
	require.NoError(t, err)
	assert.True(t, ok)

	bundle, _ := m.Current()
	assert.Equal(t, models.StartingCredits-models.EditCost, bundle.Credits)
}

func TestDeductCreditsAllOrNothing(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	ok, err := m.DeductCredits(context.Background(), models.StartingCredits+1)
	require.NoError(t, err)
	assert.False(t, ok)

	bundle, _ := m.Current()
	assert.Equal(t, models.StartingCredits, bundle.Credits, "a failed deduction subtracts nothing")
}

func TestDeductCreditsPremiumBypass(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)
	require.NoError(t, m.GoPremium(context.Background()))

	ok, err := m.DeductCredits(context.Background(), 1_000_000)
	require.NoError(t, err)
	assert.True(t, ok)

	bundle, _ := m.Current()
	assert.Equal(t, models.StartingCredits, bundle.Credits)
}

func TestGoPremiumIdempotent(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	require.NoError(t, m.GoPremium(context.Background()))
	require.NoError(t, m.GoPremium(context.Background()))

	bundle, _ := m.Current()
	assert.True(t, bundle.IsPremium)
}

func TestSaveEditStampsAuthor(t *testing.T) {
	m, mirror, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	edit, err := m.SaveEdit(context.Background(), EditInput{Original: "a", Edited: "b", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", edit.UserID)
	assert.Equal(t, "Jane Doe", edit.UserName)
	assert.NotEmpty(t, edit.ID)

	// Profile is private, so nothing reached the feed.
	assert.Empty(t, mirror.added)
}

func TestSaveEditIDsAreUnique(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		edit, err := m.SaveEdit(context.Background(), EditInput{Original: "a", Edited: "b", Prompt: "p"})
		require.NoError(t, err)
		require.False(t, seen[edit.ID], "duplicate id %q", edit.ID)
		seen[edit.ID] = true
	}
}

func TestSaveEditMirrorsWhenPublic(t *testing.T) {
	m, mirror, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	public, err := m.ToggleProfilePublic(context.Background())
	require.NoError(t, err)
	require.True(t, public)

	_, err = m.SaveEdit(context.Background(), EditInput{Original: "a", Edited: "b", Prompt: "p"})
	require.NoError(t, err)
	assert.Len(t, mirror.added, 1)
}

func TestLogGenerationIsPrivate(t *testing.T) {
	m, mirror, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	_, err = m.ToggleProfilePublic(context.Background())
	require.NoError(t, err)

	entry, err := m.LogGeneration(context.Background(), EditInput{Original: "a", Edited: "b", Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, entry.UserID, "history entries carry no author stamp")
	assert.Empty(t, mirror.added, "history is never mirrored")

	bundle, _ := m.Current()
	assert.Len(t, bundle.GenerationHistory, 1)
	assert.Empty(t, bundle.SavedEdits)
}

func TestToggleProfilePublicMirrorsAndRemoves(t *testing.T) {
	m, mirror, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = m.SaveEdit(context.Background(), EditInput{Original: "a", Edited: "b", Prompt: "p"})
		require.NoError(t, err)
	}

	public, err := m.ToggleProfilePublic(context.Background())
	require.NoError(t, err)
	assert.True(t, public)
	assert.Len(t, mirror.added, 3, "all favorites mirrored on flip to public")

	public, err = m.ToggleProfilePublic(context.Background())
	require.NoError(t, err)
	assert.False(t, public)
	assert.Equal(t, []string{"jane_doe"}, mirror.removed)
}

func TestLogoutRemovesPublicPostsAndRecord(t *testing.T) {
	m, mirror, st := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)
	_, err = m.ToggleProfilePublic(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))
	assert.Equal(t, []string{"jane_doe"}, mirror.removed)

	_, ok := m.Current()
	assert.False(t, ok)

	_, found, err := st.Load(context.Background(), store.UserKey)
	require.NoError(t, err)
	assert.False(t, found, "persisted record is deleted, not archived")
}

func TestLogoutPrivateProfileSkipsFeed(t *testing.T) {
	m, mirror, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))
	assert.Empty(t, mirror.removed)
}

func TestUpdateUsernameKeepsID(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Login(context.Background(), "Jane Doe")
	require.NoError(t, err)

	require.NoError(t, m.UpdateUsername(context.Background(), "Janet"))

	bundle, _ := m.Current()
	assert.Equal(t, "Janet", bundle.Name)
	assert.Equal(t, "jane_doe", bundle.ID)
}

func TestOperationsRequireSession(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.DeductCredits(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, m.GoPremium(context.Background()))
	_, err = m.SaveEdit(context.Background(), EditInput{Original: "a", Edited: "b"})
	assert.Error(t, err)
	assert.Error(t, m.Logout(context.Background()))
}
