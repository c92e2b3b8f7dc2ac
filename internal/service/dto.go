package service

import (
	"fmt"
	"strings"
	"time"

	"blogposts/internal/model"

	"github.com/go-playground/validator/v10"
)

type CreatePostRequest struct {
	UserID      int64  `validate:"required,gt=0"`
	Title       string `validate:"required"`
	Content     string `validate:"required"`
	IsDraft     bool
	PublishedAt *time.Time
}

type UpdatePostRequest struct {
	UserID int64
	PostID int64

	Title            *string
	Content          *string
	IsDraft          *bool
	PublishedAt      *time.Time
	ClearPublishedAt bool
}

func (r UpdatePostRequest) patch() model.PostPatch {
	return model.PostPatch{
		Title:            r.Title,
		Content:          r.Content,
		IsDraft:          r.IsDraft,
		PublishedAt:      r.PublishedAt,
		ClearPublishedAt: r.ClearPublishedAt,
	}
}

// notBlank rejects values that are empty once surrounding whitespace is trimmed.
func notBlank(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s must not be empty: %w", field, ErrInvalidRequest)
	}
	return nil
}

func validateCreate(r CreatePostRequest) error {
	if err := validator.New().Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := notBlank("title", r.Title); err != nil {
		return err
	}
	return notBlank("content", r.Content)
}

func validatePatch(r UpdatePostRequest) error {
	if r.Title != nil {
		if err := notBlank("title", *r.Title); err != nil {
			return err
		}
	}
	if r.Content != nil {
		if err := notBlank("content", *r.Content); err != nil {
			return err
		}
	}
	if r.ClearPublishedAt && r.PublishedAt != nil {
		return fmt.Errorf("published_at both set and cleared: %w", ErrInvalidRequest)
	}
	return nil
}
