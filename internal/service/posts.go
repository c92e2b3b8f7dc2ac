package service

import (
	"context"
	"fmt"
	"time"

	"blogposts/internal/adapter/out/storage"
	"blogposts/internal/model"
	"blogposts/pkg/pagination"
)

const (
	PostsPerPage = 20
)

//go:generate mockgen -source=posts.go -destination=./post_storage_mock.go -package=service blogposts/internal/service PostStorage
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	GetPostAuthorID(ctx context.Context, postID int64) (int64, error)
	GetVisiblePosts(ctx context.Context, params storage.GetPostsParams) ([]model.Post, error)
	CountVisiblePosts(ctx context.Context, at time.Time) (int, error)
	UpdatePost(ctx context.Context, postID int64, patch model.PostPatch) (model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
}

// TxManager runs fn in a transaction carried by the context passed to fn.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Option func(*PostService)

// WithClock overrides the time source used for visibility checks.
func WithClock(now func() time.Time) Option {
	return func(s *PostService) {
		s.now = now
	}
}

type PostService struct {
	postStorage PostStorage
	txManager   TxManager
	now         func() time.Time
}

func NewPostService(postStorage PostStorage, txManager TxManager, opts ...Option) *PostService {
	s := &PostService{
		postStorage: postStorage,
		txManager:   txManager,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	if req.UserID <= 0 {
		return model.Post{}, ErrUnauthenticated
	}
	if err := validateCreate(req); err != nil {
		return model.Post{}, err
	}

	publishedAt := req.PublishedAt
	if publishedAt == nil && !req.IsDraft {
		now := s.now().UTC()
		publishedAt = &now
	}

	return s.postStorage.CreatePost(ctx, model.Post{
		UserID:      req.UserID,
		Title:       req.Title,
		Content:     req.Content,
		IsDraft:     req.IsDraft,
		PublishedAt: publishedAt,
	})
}

// GetVisible returns the post only while it is publicly visible.
// Hidden posts are reported exactly like missing ones.
func (s *PostService) GetVisible(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, ErrNotFound
	}
	p, err := s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if !IsPublished(p, s.now()) {
		return model.Post{}, ErrNotFound
	}
	return p, nil
}

func (s *PostService) ListVisible(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Post], error) {
	var page pagination.Page[model.Post]

	current := max(in.Page, 1)
	at := s.now()

	total, err := s.postStorage.CountVisiblePosts(ctx, at)
	if err != nil {
		return page, err
	}

	page.CurrentPage = current
	page.PerPage = PostsPerPage
	page.Total = total
	page.LastPage = pagination.LastPage(total, PostsPerPage)

	if current > page.LastPage {
		return page, nil
	}

	offset := pagination.Offset(current, PostsPerPage)
	if offset >= total {
		return page, nil
	}

	posts, err := s.postStorage.GetVisiblePosts(ctx, storage.GetPostsParams{
		At:     at,
		Limit:  PostsPerPage,
		Offset: offset,
	})
	if err != nil {
		return page, err
	}

	page.Items = posts
	page.Count = len(posts)
	page.HasNextPage = offset+len(posts) < total
	return page, nil
}

// AuthorizeMutation looks the post up by raw id, ignoring visibility,
// so authors can still reach their drafts and scheduled posts.
func (s *PostService) AuthorizeMutation(ctx context.Context, viewerID, postID int64) error {
	if viewerID <= 0 {
		return ErrUnauthenticated
	}
	if postID <= 0 {
		return ErrNotFound
	}
	ownerID, err := s.postStorage.GetPostAuthorID(ctx, postID)
	if err != nil {
		return err
	}
	if !IsOwner(viewerID, model.Post{UserID: ownerID}) {
		return fmt.Errorf("%w: not a post owner", ErrForbidden)
	}
	return nil
}

func (s *PostService) UpdatePost(ctx context.Context, req UpdatePostRequest) (model.Post, error) {
	var out model.Post

	if req.UserID <= 0 {
		return out, ErrUnauthenticated
	}
	if err := validatePatch(req); err != nil {
		return out, err
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.AuthorizeMutation(ctx, req.UserID, req.PostID); err != nil {
			return err
		}
		updated, err := s.postStorage.UpdatePost(ctx, req.PostID, req.patch())
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return out, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID int64) error {
	if userID <= 0 {
		return ErrUnauthenticated
	}
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.AuthorizeMutation(ctx, userID, postID); err != nil {
			return err
		}
		return s.postStorage.DeletePost(ctx, postID)
	})
}
