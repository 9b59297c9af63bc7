package httpapi

import (
	"context"
	"net/http"

	"chronicle/internal/adapters/httpapi/middleware"
	"chronicle/internal/config"
	groupapp "chronicle/internal/core/group/service"
	postapp "chronicle/internal/core/post/service"
	"chronicle/internal/monitoring"
	feedPort "chronicle/internal/ports/feed"
	followerPort "chronicle/internal/ports/follower"
	groupPort "chronicle/internal/ports/group"
	postPort "chronicle/internal/ports/post"
	userPort "chronicle/internal/ports/user"

	"github.com/gin-gonic/gin"
)

// Inbound ports, implemented by the services under internal/core.

type UserUseCase interface {
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, name, family, username, password string) (*userPort.UserDTO, error)
	GetByID(ctx context.Context, id string) (*userPort.UserDTO, error)
	DeleteUser(ctx context.Context, username string) error
}

type PostUseCase interface {
	CreatePost(ctx context.Context, authorID string, in postapp.PostInput) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, id string) (*postPort.PostDetailDTO, error)
	EditPost(ctx context.Context, editorID, id string, in postapp.PostInput) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, editorID, id string) error
	AddComment(ctx context.Context, authorID, postID, text string) (*postPort.CommentDTO, error)
}

type FollowerUseCase interface {
	Follow(ctx context.Context, followerID, authorUsername string) error
	Unfollow(ctx context.Context, followerID, authorUsername string) error
	IsFollowing(ctx context.Context, followerID, authorUsername string) (bool, error)
	GetFollowers(ctx context.Context, authorID string) ([]*followerPort.FollowerDTO, error)
	GetFollowing(ctx context.Context, followerID string) ([]*followerPort.FollowerDTO, error)
}

type FeedUseCase interface {
	GlobalFeed(ctx context.Context, page int) (*feedPort.PageDTO, error)
	GroupFeed(ctx context.Context, slug string, page int) (*feedPort.GroupPageDTO, error)
	ProfileFeed(ctx context.Context, username, viewerID string, page int) (*feedPort.ProfilePageDTO, error)
	FollowFeed(ctx context.Context, viewerID string, page int) (*feedPort.PageDTO, error)
}

type GroupUseCase interface {
	CreateGroup(ctx context.Context, in groupapp.CreateGroupInput) (*groupPort.GroupDTO, error)
	ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error)
	DeleteGroup(ctx context.Context, slug string) error
}

// PageCache serves the rendered first page of the global feed.
type PageCache interface {
	Fetch(ctx context.Context, key string, render func(ctx context.Context) ([]byte, error)) ([]byte, error)
	Clear(ctx context.Context) error
}

// SetupRoutes only wires handlers; use cases are injected by the caller.
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	followerUC FollowerUseCase,
	feedUC FeedUseCase,
	groupUC GroupUseCase,
	cache PageCache,
	jwtKey []byte,
) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.ZapLogger(config.Logger),
		gin.Recovery(),
		monitoring.PrometheusMiddleware(),
	)

	uc := NewUserController(userUC)
	pc := NewPostController(postUC)
	fc := NewFollowerController(followerUC)
	feed := NewFeedController(feedUC, cache)
	gc := NewGroupController(groupUC)
	ac := NewAdminController(userUC, cache)

	auth := middleware.JWTAuthMiddleware(jwtKey, userUC)
	optional := middleware.OptionalJWTAuthMiddleware(jwtKey)

	r.POST("/register", uc.RegisterUser)
	r.POST("/login", uc.LoginUser)

	r.GET("/", optional, feed.Index)
	r.GET("/posts", optional, feed.Index)
	r.GET("/groups", gc.ListGroups)
	r.GET("/groups/:slug", optional, feed.Group)
	r.GET("/profiles/:username", optional, feed.Profile)
	r.GET("/follow", auth, feed.Follow)

	r.GET("/profiles/:username/follow", auth, fc.Status)
	r.POST("/profiles/:username/follow", auth, fc.Follow)
	r.DELETE("/profiles/:username/follow", auth, fc.Unfollow)
	r.GET("/followers", auth, fc.GetFollowers)
	r.GET("/following", auth, fc.GetFollowing)

	r.POST("/posts", auth, pc.CreatePost)
	r.GET("/posts/:id", pc.GetPost)
	r.PUT("/posts/:id", auth, pc.EditPost)
	r.DELETE("/posts/:id", auth, pc.DeletePost)
	r.POST("/posts/:id/comments", auth, pc.AddComment)

	admin := r.Group("/admin", auth, middleware.RequireStaff(userUC))
	admin.POST("/groups", gc.CreateGroup)
	admin.DELETE("/groups/:slug", gc.DeleteGroup)
	admin.DELETE("/users/:username", ac.DeleteUser)
	admin.DELETE("/cache", ac.ClearCache)

	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found", "path": c.Request.URL.Path})
	})
	return r
}
