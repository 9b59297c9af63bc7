package httpapi

import (
	"net/http"

	"chronicle/internal/adapters/httpapi/middleware"
	"chronicle/internal/paginator"
	followerPort "chronicle/internal/ports/follower"

	"github.com/gin-gonic/gin"
)

type FollowerController struct{ fc FollowerUseCase }

func NewFollowerController(fc FollowerUseCase) *FollowerController {
	return &FollowerController{fc: fc}
}

func (ctl *FollowerController) Follow(c *gin.Context) {
	username := c.Param("username")
	if err := ctl.fc.Follow(c.Request.Context(), c.GetString(middleware.UserIDKey), username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully followed user", "author": username})
}

func (ctl *FollowerController) Unfollow(c *gin.Context) {
	username := c.Param("username")
	if err := ctl.fc.Unfollow(c.Request.Context(), c.GetString(middleware.UserIDKey), username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully unfollowed user", "author": username})
}

// Status reports whether the caller follows username.
func (ctl *FollowerController) Status(c *gin.Context) {
	username := c.Param("username")
	following, err := ctl.fc.IsFollowing(c.Request.Context(), c.GetString(middleware.UserIDKey), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": username, "following": following})
}

func (ctl *FollowerController) GetFollowers(c *gin.Context) {
	followers, err := ctl.fc.GetFollowers(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respondEdges(c, "followers", followers)
}

func (ctl *FollowerController) GetFollowing(c *gin.Context) {
	following, err := ctl.fc.GetFollowing(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respondEdges(c, "following", following)
}

func respondEdges(c *gin.Context, name string, edges []*followerPort.FollowerDTO) {
	window, page, err := paginator.Slice(edges, paginator.PerPage, paginator.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{name: window, "page": page})
}
