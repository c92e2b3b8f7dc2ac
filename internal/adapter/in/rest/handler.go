package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"blogposts/internal/model"
	"blogposts/internal/service"
	"blogposts/pkg/logger"
	"blogposts/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const deletedMessage = "Post deleted successfully."

type PostService interface {
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	GetVisible(ctx context.Context, postID int64) (model.Post, error)
	ListVisible(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Post], error)
	UpdatePost(ctx context.Context, req service.UpdatePostRequest) (model.Post, error)
	DeletePost(ctx context.Context, userID, postID int64) error
}

type Handler struct {
	posts PostService
}

func NewHandler(posts PostService) *Handler {
	return &Handler{posts: posts}
}

func (h *Handler) ListPosts(c *gin.Context) {
	page, err := h.posts.ListVisible(c.Request.Context(), toPageRequest(c.Query("page")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(page))
}

func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		writeError(c, service.ErrNotFound)
		return
	}

	post, err := h.posts.GetVisible(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: toPostResponse(post)})
}

func (h *Handler) CreatePost(c *gin.Context) {
	userID, _ := UserID(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), service.CreatePostRequest{
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		IsDraft:     req.IsDraft,
		PublishedAt: req.PublishedAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("post created", "post_id", post.ID, "user_id", userID)
	c.JSON(http.StatusCreated, dataResponse{Data: toPostResponse(post)})
}

func (h *Handler) UpdatePost(c *gin.Context) {
	userID, _ := UserID(c)
	postID, ok := postIDParam(c)
	if !ok {
		writeError(c, service.ErrNotFound)
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), req.toService(userID, postID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: toPostResponse(post)})
}

func (h *Handler) DeletePost(c *gin.Context) {
	userID, _ := UserID(c)
	postID, ok := postIDParam(c)
	if !ok {
		writeError(c, service.ErrNotFound)
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), userID, postID); err != nil {
		writeError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("post deleted", "post_id", postID, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"message": deletedMessage})
}

// postIDParam rejects malformed ids; callers answer them like missing posts.
func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.FromContext(c.Request.Context()).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrInternalError.Error()})
	}
}

func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe.Field())] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
}
