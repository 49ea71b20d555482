package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postsapi/internal/model"
	"postsapi/pkg/logger"
)

// timestampPrecision matches the TIMESTAMPTZ resolution so stored values round-trip.
const timestampPrecision = time.Microsecond

//go:generate mockgen -source=posts.go -destination=./post_storage_mock.go -package=service
type PostStorage interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
}

// TxManager runs fn as one unit of work: commit when fn returns nil, roll back
// and return fn's error otherwise. The transaction travels in the context.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

type PostService struct {
	postStorage PostStorage
	trManager   TxManager
	clock       Clock
}

func NewPostService(postStorage PostStorage, trManager TxManager, clock Clock) *PostService {
	return &PostService{
		postStorage: postStorage,
		trManager:   trManager,
		clock:       clock,
	}
}

func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post

	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		posts, err = s.postStorage.ListPosts(ctx)
		return err
	})
	if err != nil {
		return nil, internalErr(err)
	}

	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	var post model.Post
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		post, err = s.postStorage.GetPostByID(ctx, postID)
		return err
	})
	if err != nil {
		return model.Post{}, internalErr(err)
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	if err := validateRequest(req); err != nil {
		return model.Post{}, err
	}

	now := s.now()
	in := model.Post{
		Title:     *req.Title,
		Content:   *req.Content,
		Author:    *req.Author,
		CreatedAt: now,
		EditedAt:  now,
	}

	var out model.Post
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.postStorage.CreatePost(ctx, in)
		return err
	})
	if err != nil {
		return model.Post{}, internalErr(err)
	}

	logger.FromContext(ctx).Debug("post created", "post_id", out.ID)
	return out, nil
}

func (s *PostService) UpdatePost(ctx context.Context, postID int64, req UpdatePostRequest) (model.Post, error) {
	if err := validateRequest(req); err != nil {
		return model.Post{}, err
	}
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	var out model.Post
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		cur, err := s.postStorage.GetPostByID(ctx, postID)
		if err != nil {
			return err
		}

		cur.Title = *req.Title
		cur.Content = *req.Content
		cur.Author = *req.Author
		cur.EditedAt = nextEditedAt(s.now(), cur.EditedAt)

		out, err = s.postStorage.UpdatePost(ctx, cur)
		return err
	})
	if err != nil {
		return model.Post{}, internalErr(err)
	}

	logger.FromContext(ctx).Debug("post updated", "post_id", out.ID)
	return out, nil
}

func (s *PostService) now() time.Time {
	return s.clock.Now().UTC().Truncate(timestampPrecision)
}

// internalErr tags unexpected storage faults. Domain errors pass through.
func internalErr(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidRequest) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInternalError, err)
}

// nextEditedAt keeps edited_at strictly increasing even if the clock did not move.
func nextEditedAt(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(timestampPrecision)
}
