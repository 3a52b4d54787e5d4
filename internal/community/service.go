// Package community maintains the shared-results feed: the community-posts
// namespace mirrored in memory, with like/comment/delete mutators acting on
// behalf of the current session user.
//
// Unlike history, this namespace has a single writer context, so there is no
// merge step; cross-tab convergence rides on the store's change signal alone.
package community

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fakeye/internal/common"
	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// SessionSource exposes the logged-in user, if any. The auth service
// satisfies this interface.
type SessionSource interface {
	Current() *models.User
}

type Service struct {
	store    storage.Store
	sessions SessionSource
	log      logging.Logger

	mu    sync.RWMutex
	posts []models.CommunityPost
}

func NewService(store storage.Store, sessions SessionSource, log logging.Logger) *Service {
	return &Service{store: store, sessions: sessions, log: log.With("component", "community")}
}

// Start loads the namespace and refreshes whenever another context writes it.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	watchCh, cancelWatch := s.store.Watch(storage.NamespaceCommunity)
	go func() {
		defer cancelWatch()
		for {
			select {
			case <-ctx.Done():
				return
			case <-watchCh:
				if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
					s.log.Warn(ctx, "refresh failed", "error", err)
				}
			}
		}
	}()

	return nil
}

// AddPost shares a result to the feed. The caller fills type, verdict,
// confidence, preview, description and metadata; the service stamps the id,
// timestamp and author fields from the current session.
func (s *Service) AddPost(ctx context.Context, post models.CommunityPost) (models.CommunityPost, error) {
	user := s.sessions.Current()
	if user == nil {
		return models.CommunityPost{}, common.ErrorUnauthorized
	}

	post.ID = fmt.Sprintf("post-%s", uuid.NewString())
	post.Timestamp = models.NowMillis()
	post.UserID = user.ID
	post.Username = user.Username
	post.UserAvatar = user.Avatar
	post.Likes = []string{}
	post.Comments = []models.Comment{}

	existing, err := s.load(ctx)
	if err != nil {
		return models.CommunityPost{}, err
	}

	merged := append([]models.CommunityPost{post}, existing...)
	if err := s.save(ctx, merged); err != nil {
		return models.CommunityPost{}, err
	}
	return post, nil
}

// LikePost toggles the current user's membership in the post's like set.
func (s *Service) LikePost(ctx context.Context, postID string) error {
	user := s.sessions.Current()
	if user == nil {
		return common.ErrorUnauthorized
	}

	return s.mutatePost(ctx, postID, func(post *models.CommunityPost) error {
		if post.LikedBy(user.ID) {
			kept := post.Likes[:0:0]
			for _, id := range post.Likes {
				if id != user.ID {
					kept = append(kept, id)
				}
			}
			post.Likes = kept
		} else {
			post.Likes = append(post.Likes, user.ID)
		}
		return nil
	})
}

// AddComment appends a comment to the post.
func (s *Service) AddComment(ctx context.Context, postID, content string) (models.Comment, error) {
	user := s.sessions.Current()
	if user == nil {
		return models.Comment{}, common.ErrorUnauthorized
	}

	comment := models.Comment{
		ID:         fmt.Sprintf("comment-%s", uuid.NewString()),
		UserID:     user.ID,
		Username:   user.Username,
		UserAvatar: user.Avatar,
		Content:    content,
		Timestamp:  models.NowMillis(),
	}

	err := s.mutatePost(ctx, postID, func(post *models.CommunityPost) error {
		post.Comments = append(post.Comments, comment)
		return nil
	})
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeletePost removes the post. Only the author may delete it.
func (s *Service) DeletePost(ctx context.Context, postID string) error {
	user := s.sessions.Current()
	if user == nil {
		return common.ErrorUnauthorized
	}

	existing, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := existing[:0:0]
	found := false
	for _, post := range existing {
		if post.ID != postID {
			kept = append(kept, post)
			continue
		}
		found = true
		if post.UserID != user.ID {
			return common.ErrorNotOwner
		}
	}
	if !found {
		return common.ErrorNotFound
	}

	return s.save(ctx, kept)
}

// Refresh replaces the in-memory mirror with the current persisted list.
func (s *Service) Refresh(ctx context.Context) error {
	posts, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

// Posts returns a snapshot of the feed, newest first.
func (s *Service) Posts() []models.CommunityPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CommunityPost, len(s.posts))
	copy(out, s.posts)
	return out
}

// mutatePost applies fn to the post with the given id inside a fresh
// read-modify-write cycle and persists the result.
func (s *Service) mutatePost(ctx context.Context, postID string, fn func(*models.CommunityPost) error) error {
	existing, err := s.load(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range existing {
		if existing[i].ID == postID {
			if err := fn(&existing[i]); err != nil {
				return err
			}
			found = true
			break
		}
	}
	if !found {
		return common.ErrorNotFound
	}

	return s.save(ctx, existing)
}

func (s *Service) load(ctx context.Context) ([]models.CommunityPost, error) {
	posts, err := storage.LoadRecords[models.CommunityPost](ctx, s.store, storage.NamespaceCommunity)
	if err != nil {
		return nil, fmt.Errorf("failed to read community posts: %w", err)
	}
	return posts, nil
}

func (s *Service) save(ctx context.Context, posts []models.CommunityPost) error {
	if err := storage.SaveRecords(ctx, s.store, storage.NamespaceCommunity, posts); err != nil {
		return fmt.Errorf("failed to save community posts: %w", err)
	}
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}
