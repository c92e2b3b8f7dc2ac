package inmemory

import (
	"context"
	"sync"
	"time"

	"blogposts/internal/adapter/out/storage"
	"blogposts/internal/model"
	"blogposts/internal/service"
)

// PostStorage keeps posts in insertion order. Deleted posts leave a zero
// entry behind so that ids stay equal to their slice index.
type PostStorage struct {
	mu    sync.RWMutex
	posts []model.Post
	byID  map[int64]model.Post
	now   func() time.Time
}

func NewPostStorage() *PostStorage {
	return &PostStorage{
		posts: []model.Post{{}},
		byID:  make(map[int64]model.Post),
		now:   time.Now,
	}
}

func (s *PostStorage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	in.ID = int64(len(s.posts))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	in.UpdatedAt = in.CreatedAt
	in.PublishedAt = utcPtr(in.PublishedAt)

	s.posts = append(s.posts, in)
	s.byID[in.ID] = in
	return in, nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if post, ok := s.byID[postID]; ok {
		return post, nil
	}
	return model.Post{}, service.ErrNotFound
}

func (s *PostStorage) GetPostAuthorID(_ context.Context, postID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[postID]
	if !ok || p.ID == 0 {
		return 0, service.ErrNotFound
	}
	return p.UserID, nil
}

func (s *PostStorage) GetVisiblePosts(_ context.Context, params storage.GetPostsParams) ([]model.Post, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0, params.Limit)
	skipped := 0
	for id := 1; id < len(s.posts) && len(out) < params.Limit; id++ {
		p := s.posts[id]
		if p.ID == 0 || !service.IsPublished(p, params.At) {
			continue
		}
		if skipped < params.Offset {
			skipped++
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *PostStorage) CountVisiblePosts(_ context.Context, at time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.byID {
		if service.IsPublished(p, at) {
			n++
		}
	}
	return n, nil
}

func (s *PostStorage) UpdatePost(_ context.Context, postID int64, patch model.PostPatch) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[postID]
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	p = patch.Apply(p)
	p.PublishedAt = utcPtr(p.PublishedAt)
	p.UpdatedAt = s.now().UTC()

	s.byID[postID] = p
	s.posts[postID] = p
	return p, nil
}

func (s *PostStorage) DeletePost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[postID]; !ok {
		return service.ErrNotFound
	}
	delete(s.byID, postID)
	s.posts[postID] = model.Post{}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// TxManager runs callbacks directly; every PostStorage method is already
// atomic under the storage mutex.
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
