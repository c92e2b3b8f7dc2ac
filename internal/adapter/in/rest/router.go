package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	UserHeader string
	Logger     *slog.Logger
}

func NewRouter(posts PostService, cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(RequestLogger(log))
	r.Use(gin.CustomRecovery(HandlePanics()))
	r.Use(Identity(cfg.UserHeader))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	h := NewHandler(posts)

	postsV1 := r.Group("/posts")
	{
		postsV1.GET("", h.ListPosts)
		postsV1.GET("/:id", h.GetPost)
	}

	authed := postsV1.Group("", RequireUser())
	{
		authed.POST("", h.CreatePost)
		authed.PUT("/:id", h.UpdatePost)
		authed.PATCH("/:id", h.UpdatePost)
		authed.DELETE("/:id", h.DeletePost)
	}

	return r
}
