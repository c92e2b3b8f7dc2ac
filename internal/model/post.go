package model

import "time"

type Post struct {
	ID          int64
	Title       string
	Content     string
	UserID      int64
	IsDraft     bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostPatch is a partial update. Nil fields are left untouched.
type PostPatch struct {
	Title            *string
	Content          *string
	IsDraft          *bool
	PublishedAt      *time.Time
	ClearPublishedAt bool
}

// Apply returns p with the patch fields set.
func (pp PostPatch) Apply(p Post) Post {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.IsDraft != nil {
		p.IsDraft = *pp.IsDraft
	}
	switch {
	case pp.ClearPublishedAt:
		p.PublishedAt = nil
	case pp.PublishedAt != nil:
		t := *pp.PublishedAt
		p.PublishedAt = &t
	}
	return p
}
