package inmemory

import (
	"context"
	"fmt"
	"sync"

	"postsapi/internal/model"
	"postsapi/internal/service"
)

// PostStorage keeps posts in id order. posts[0] is a placeholder so that a
// post's id is its index.
type PostStorage struct {
	mu    sync.RWMutex
	posts []model.Post
	byID  map[int64]model.Post
}

func NewPostStorage() *PostStorage {
	return &PostStorage{
		posts: []model.Post{{}},
		byID:  make(map[int64]model.Post),
	}
}

func (s *PostStorage) ListPosts(_ context.Context) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0, len(s.posts)-1)
	return append(out, s.posts[1:]...), nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if post, ok := s.byID[postID]; ok {
		return post, nil
	}
	return model.Post{}, fmt.Errorf("post %d: %w", postID, service.ErrNotFound)
}

func (s *PostStorage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = int64(len(s.posts))
	s.posts = append(s.posts, in)
	s.byID[in.ID] = in
	return in, nil
}

func (s *PostStorage) UpdatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[in.ID]; !ok {
		return model.Post{}, fmt.Errorf("post %d: %w", in.ID, service.ErrNotFound)
	}
	s.posts[in.ID] = in
	s.byID[in.ID] = in
	return in, nil
}

// TxManager serializes units of work. The store has nothing to roll back, so a
// failed unit leaves whatever it already wrote.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(ctx)
}
