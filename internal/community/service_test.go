package community

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fakeye/internal/common"
	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// stubSessions satisfies SessionSource with a fixed user.
type stubSessions struct {
	user *models.User
}

func (s *stubSessions) Current() *models.User { return s.user }

var alice = &models.User{ID: "user-alice", Username: "alice", Email: "alice@example.com"}
var bob = &models.User{ID: "user-bob", Username: "bob", Email: "bob@example.com"}

func newService(t *testing.T, user *models.User) (*Service, *storage.MemoryStore, *stubSessions) {
	t.Helper()
	store := storage.NewMemoryStore()
	sessions := &stubSessions{user: user}
	return NewService(store, sessions, logging.Default()), store, sessions
}

func TestAddPost_RequiresSession(t *testing.T) {
	s, _, _ := newService(t, nil)
	_, err := s.AddPost(context.Background(), models.CommunityPost{Type: models.ItemTypeImage})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAddPost_StampsAuthorAndDefaults(t *testing.T) {
	s, store, _ := newService(t, alice)
	ctx := context.Background()

	post, err := s.AddPost(ctx, models.CommunityPost{
		Type:          models.ItemTypeImage,
		IsAIGenerated: true,
		Confidence:    88,
		Description:   "looks generated",
	})
	require.NoError(t, err)

	assert.Equal(t, alice.ID, post.UserID)
	assert.Equal(t, "alice", post.Username)
	assert.NotEmpty(t, post.ID)
	assert.NotZero(t, post.Timestamp)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)

	persisted, err := storage.LoadRecords[models.CommunityPost](ctx, store, storage.NamespaceCommunity)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, post.ID, persisted[0].ID)
}

func TestLikePost_TogglesMembership(t *testing.T) {
	s, _, _ := newService(t, alice)
	ctx := context.Background()

	post, err := s.AddPost(ctx, models.CommunityPost{Type: models.ItemTypeText})
	require.NoError(t, err)

	require.NoError(t, s.LikePost(ctx, post.ID))
	assert.Equal(t, []string{alice.ID}, s.Posts()[0].Likes)

	// Second like by the same user returns the set to its original state.
	require.NoError(t, s.LikePost(ctx, post.ID))
	assert.Empty(t, s.Posts()[0].Likes)
}

func TestLikePost_UserAppearsAtMostOnce(t *testing.T) {
	s, _, sessions := newService(t, alice)
	ctx := context.Background()

	post, err := s.AddPost(ctx, models.CommunityPost{Type: models.ItemTypeText})
	require.NoError(t, err)

	require.NoError(t, s.LikePost(ctx, post.ID))
	sessions.user = bob
	require.NoError(t, s.LikePost(ctx, post.ID))

	likes := s.Posts()[0].Likes
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, likes)
}

func TestLikePost_UnknownPost(t *testing.T) {
	s, _, _ := newService(t, alice)
	err := s.LikePost(context.Background(), "post-nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAddComment_AppendsInOrder(t *testing.T) {
	s, _, _ := newService(t, alice)
	ctx := context.Background()

	post, err := s.AddPost(ctx, models.CommunityPost{Type: models.ItemTypeEmail})
	require.NoError(t, err)

	c1, err := s.AddComment(ctx, post.ID, "first")
	require.NoError(t, err)
	c2, err := s.AddComment(ctx, post.ID, "second")
	require.NoError(t, err)

	comments := s.Posts()[0].Comments
	require.Len(t, comments, 2)
	assert.Equal(t, c1.ID, comments[0].ID)
	assert.Equal(t, c2.ID, comments[1].ID)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, alice.ID, comments[0].UserID)
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	s, _, sessions := newService(t, alice)
	ctx := context.Background()

	post, err := s.AddPost(ctx, models.CommunityPost{Type: models.ItemTypeImage})
	require.NoError(t, err)

	sessions.user = bob
	assert.ErrorIs(t, s.DeletePost(ctx, post.ID), common.ErrorNotOwner)

	sessions.user = alice
	require.NoError(t, s.DeletePost(ctx, post.ID))
	assert.Empty(t, s.Posts())
}

func TestDeletePost_UnknownPost(t *testing.T) {
	s, _, _ := newService(t, alice)
	assert.ErrorIs(t, s.DeletePost(context.Background(), "post-nope"), common.ErrorNotFound)
}
