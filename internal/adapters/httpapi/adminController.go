package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	uc    UserUseCase
	cache PageCache
}

func NewAdminController(uc UserUseCase, cache PageCache) *AdminController {
	return &AdminController{uc: uc, cache: cache}
}

// DeleteUser removes a user with everything they wrote and every follow edge
// they are part of.
func (ctl *AdminController) DeleteUser(c *gin.Context) {
	if err := ctl.uc.DeleteUser(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *AdminController) ClearCache(c *gin.Context) {
	if ctl.cache != nil {
		if err := ctl.cache.Clear(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}
