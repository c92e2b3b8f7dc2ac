package inmemory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"blogposts/internal/adapter/out/storage"
	"blogposts/internal/model"
	"blogposts/internal/service"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestPostStorage_CreateAndGetByID(t *testing.T) {
	t.Parallel()

	st := NewPostStorage()

	tests := []struct {
		name   string
		input  model.Post
		wantID int64
	}{
		{
			name:   "first post",
			input:  model.Post{UserID: 1, Title: "t1", Content: "b1", IsDraft: true},
			wantID: 1,
		},
		{
			name:   "second post",
			input:  model.Post{UserID: 2, Title: "t2", Content: "b2", PublishedAt: ptr(time.Now())},
			wantID: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out, err := st.CreatePost(context.Background(), tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.wantID, out.ID)
			require.Equal(t, tt.input.UserID, out.UserID)
			require.Equal(t, tt.input.Title, out.Title)
			require.Equal(t, tt.input.Content, out.Content)
			require.Equal(t, tt.input.IsDraft, out.IsDraft)
			require.WithinDuration(t, time.Now(), out.CreatedAt, time.Second)
			require.Equal(t, out.CreatedAt, out.UpdatedAt)

			got, err := st.GetPostByID(context.Background(), tt.wantID)
			require.NoError(t, err)
			require.Equal(t, out, got)
		})
	}
}

func TestPostStorage_GetPostByID_NotFound(t *testing.T) {
	t.Parallel()

	st := NewPostStorage()

	_, err := st.GetPostByID(context.Background(), 10)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = st.GetPostAuthorID(context.Background(), 10)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_GetVisiblePosts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	st := NewPostStorage()
	inputs := []model.Post{
		{UserID: 1, Title: "published 1", Content: "c", PublishedAt: &past},
		{UserID: 1, Title: "draft", Content: "c", IsDraft: true, PublishedAt: &past},
		{UserID: 2, Title: "scheduled", Content: "c", PublishedAt: &future},
		{UserID: 2, Title: "published 2", Content: "c", PublishedAt: &now},
		{UserID: 3, Title: "no date", Content: "c"},
		{UserID: 3, Title: "published 3", Content: "c", PublishedAt: &past},
	}
	for _, in := range inputs {
		_, err := st.CreatePost(ctx, in)
		require.NoError(t, err)
	}

	count, err := st.CountVisiblePosts(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	got, err := st.GetVisiblePosts(ctx, storage.GetPostsParams{At: now, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{1, 4, 6}, []int64{got[0].ID, got[1].ID, got[2].ID})

	got, err = st.GetVisiblePosts(ctx, storage.GetPostsParams{At: now, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(4), got[0].ID)

	// the scheduled post becomes visible once its time passes
	count, err = st.CountVisiblePosts(ctx, future)
	require.NoError(t, err)
	require.Equal(t, 4, count)

	_, err = st.GetVisiblePosts(ctx, storage.GetPostsParams{At: now})
	require.ErrorIs(t, err, storage.ErrLimitUnset)
}

func TestPostStorage_UpdatePost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := NewPostStorage()

	_, err := st.UpdatePost(ctx, 1, model.PostPatch{Title: ptr("x")})
	require.ErrorIs(t, err, service.ErrNotFound)

	created, err := st.CreatePost(ctx, model.Post{UserID: 7, Title: "old", Content: "body", IsDraft: true})
	require.NoError(t, err)

	publishAt := time.Now().Add(-time.Minute)
	updated, err := st.UpdatePost(ctx, created.ID, model.PostPatch{
		Title:       ptr("new"),
		IsDraft:     ptr(false),
		PublishedAt: &publishAt,
	})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Title)
	require.Equal(t, "body", updated.Content)
	require.False(t, updated.IsDraft)
	require.NotNil(t, updated.PublishedAt)
	require.True(t, publishAt.Equal(*updated.PublishedAt))
	require.Equal(t, int64(7), updated.UserID)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	cleared, err := st.UpdatePost(ctx, created.ID, model.PostPatch{ClearPublishedAt: true})
	require.NoError(t, err)
	require.Nil(t, cleared.PublishedAt)
	require.Equal(t, "new", cleared.Title)

	got, err := st.GetPostByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, cleared, got)
}

func TestPostStorage_DeletePost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := NewPostStorage()
	now := time.Now()

	for i := 0; i < 3; i++ {
		_, err := st.CreatePost(ctx, model.Post{
			UserID: 1, Title: fmt.Sprintf("t%d", i), Content: "c", PublishedAt: &now,
		})
		require.NoError(t, err)
	}

	require.NoError(t, st.DeletePost(ctx, 2))
	require.ErrorIs(t, st.DeletePost(ctx, 2), service.ErrNotFound)

	_, err := st.GetPostByID(ctx, 2)
	require.ErrorIs(t, err, service.ErrNotFound)
	_, err = st.GetPostAuthorID(ctx, 2)
	require.ErrorIs(t, err, service.ErrNotFound)

	got, err := st.GetVisiblePosts(ctx, storage.GetPostsParams{At: now.Add(time.Second), Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int64(3), got[1].ID)

	next, err := st.CreatePost(ctx, model.Post{UserID: 1, Title: "t", Content: "c"})
	require.NoError(t, err)
	require.Equal(t, int64(4), next.ID)
}

func TestTxManager_Do(t *testing.T) {
	t.Parallel()

	called := false
	err := TxManager{}.Do(context.Background(), func(context.Context) error {
		called = true
		return service.ErrForbidden
	})
	require.ErrorIs(t, err, service.ErrForbidden)
	require.True(t, called)
}
