package service

import (
	"time"

	"blogposts/internal/model"
)

// IsPublished reports whether post is publicly visible at now.
// Drafts are never visible; otherwise published_at must be set and not in the future.
func IsPublished(post model.Post, now time.Time) bool {
	if post.IsDraft || post.PublishedAt == nil {
		return false
	}
	return !post.PublishedAt.After(now)
}

// IsOwner reports whether viewerID may mutate post.
func IsOwner(viewerID int64, post model.Post) bool {
	return viewerID > 0 && viewerID == post.UserID
}
