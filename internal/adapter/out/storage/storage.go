package storage

import (
	"errors"
	"time"
)

var (
	ErrLimitUnset = errors.New("limit must be > 0")
)

// GetPostsParams selects one page of publicly visible posts.
// A post is visible at At when it is not a draft and its
// published_at is set and not after At.
type GetPostsParams struct {
	At     time.Time
	Limit  int
	Offset int
}

func (p GetPostsParams) Validate() error {
	if p.Limit <= 0 {
		return ErrLimitUnset
	}
	return nil
}
