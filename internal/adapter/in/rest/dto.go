package rest

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"blogposts/internal/model"
	"blogposts/internal/service"
	"blogposts/pkg/pagination"
)

type createPostRequest struct {
	Title       string     `json:"title" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	IsDraft     bool       `json:"is_draft"`
	PublishedAt *time.Time `json:"published_at"`
}

type updatePostRequest struct {
	Title       *string      `json:"title"`
	Content     *string      `json:"content"`
	IsDraft     *bool        `json:"is_draft"`
	PublishedAt optionalTime `json:"published_at"`
}

func (r updatePostRequest) toService(userID, postID int64) service.UpdatePostRequest {
	return service.UpdatePostRequest{
		UserID:           userID,
		PostID:           postID,
		Title:            r.Title,
		Content:          r.Content,
		IsDraft:          r.IsDraft,
		PublishedAt:      r.PublishedAt.Value,
		ClearPublishedAt: r.PublishedAt.Set && r.PublishedAt.Value == nil,
	}
}

// optionalTime tells an absent field apart from an explicit null.
type optionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *optionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

type postResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	UserID      int64      `json:"user_id"`
	IsDraft     bool       `json:"is_draft"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type dataResponse struct {
	Data postResponse `json:"data"`
}

type pageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

type listResponse struct {
	Data []postResponse `json:"data"`
	Meta pageMeta       `json:"meta"`
}

func toPostResponse(p model.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		UserID:      p.UserID,
		IsDraft:     p.IsDraft,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toListResponse(page pagination.Page[model.Post]) listResponse {
	data := make([]postResponse, 0, len(page.Items))
	for _, p := range page.Items {
		data = append(data, toPostResponse(p))
	}
	return listResponse{
		Data: data,
		Meta: pageMeta{
			CurrentPage: page.CurrentPage,
			PerPage:     page.PerPage,
			Total:       page.Total,
			LastPage:    page.LastPage,
		},
	}
}

// toPageRequest falls back to the first page on anything unparsable.
func toPageRequest(raw string) pagination.PageRequest {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		page = 1
	}
	return pagination.PageRequest{Page: page}
}

func jsonFieldName(field string) string {
	switch field {
	case "IsDraft":
		return "is_draft"
	case "PublishedAt":
		return "published_at"
	default:
		return strings.ToLower(field)
	}
}
