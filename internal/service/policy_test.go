package service

import (
	"testing"
	"time"

	"blogposts/internal/model"

	"github.com/stretchr/testify/require"
)

func TestIsPublished(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		post model.Post
		want bool
	}{
		{name: "draft without date", post: model.Post{IsDraft: true}, want: false},
		{name: "draft with past date", post: model.Post{IsDraft: true, PublishedAt: &past}, want: false},
		{name: "draft with future date", post: model.Post{IsDraft: true, PublishedAt: &future}, want: false},
		{name: "not draft, no date", post: model.Post{}, want: false},
		{name: "scheduled", post: model.Post{PublishedAt: &future}, want: false},
		{name: "published in the past", post: model.Post{PublishedAt: &past}, want: true},
		{name: "published exactly now", post: model.Post{PublishedAt: &now}, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, IsPublished(tt.post, now))
		})
	}
}

func TestIsPublished_CrossesBoundary(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)
	post := model.Post{PublishedAt: &at}

	require.False(t, IsPublished(post, at.Add(-time.Nanosecond)))
	require.True(t, IsPublished(post, at.Add(time.Nanosecond)))
}

func TestIsOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		viewerID int64
		post     model.Post
		want     bool
	}{
		{name: "author", viewerID: 7, post: model.Post{UserID: 7}, want: true},
		{name: "someone else", viewerID: 8, post: model.Post{UserID: 7}, want: false},
		{name: "anonymous", viewerID: 0, post: model.Post{UserID: 7}, want: false},
		{name: "anonymous vs ownerless", viewerID: 0, post: model.Post{}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, IsOwner(tt.viewerID, tt.post))
		})
	}
}
