package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"chronicle/internal/adapters/httpapi/middleware"
	"chronicle/internal/pagecache"
	"chronicle/internal/paginator"

	"github.com/gin-gonic/gin"
)

type FeedController struct {
	fc    FeedUseCase
	cache PageCache
}

func NewFeedController(fc FeedUseCase, cache PageCache) *FeedController {
	return &FeedController{fc: fc, cache: cache}
}

// Index serves the global feed. The first page comes from the page cache and
// may lag behind writes by up to one cache TTL.
func (ctl *FeedController) Index(c *gin.Context) {
	number := paginator.ParsePage(c.Query("page"))
	if number == 1 && ctl.cache != nil {
		body, err := ctl.cache.Fetch(c.Request.Context(), pagecache.IndexPageKey, func(ctx context.Context) ([]byte, error) {
			page, err := ctl.fc.GlobalFeed(ctx, 1)
			if err != nil {
				return nil, err
			}
			return json.Marshal(page)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	page, err := ctl.fc.GlobalFeed(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *FeedController) Group(c *gin.Context) {
	page, err := ctl.fc.GroupFeed(c.Request.Context(), c.Param("slug"), paginator.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *FeedController) Profile(c *gin.Context) {
	page, err := ctl.fc.ProfileFeed(
		c.Request.Context(),
		c.Param("username"),
		c.GetString(middleware.UserIDKey),
		paginator.ParsePage(c.Query("page")),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *FeedController) Follow(c *gin.Context) {
	page, err := ctl.fc.FollowFeed(c.Request.Context(), c.GetString(middleware.UserIDKey), paginator.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
