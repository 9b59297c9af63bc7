package httpapi

import (
	"net/http"

	groupapp "chronicle/internal/core/group/service"

	"github.com/gin-gonic/gin"
)

type GroupController struct{ gc GroupUseCase }

func NewGroupController(gc GroupUseCase) *GroupController { return &GroupController{gc: gc} }

func (ctl *GroupController) ListGroups(c *gin.Context) {
	groups, err := ctl.gc.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (ctl *GroupController) CreateGroup(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,max=200"`
		Slug        string `json:"slug" binding:"required,max=50"`
		Description string `json:"description" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	g, err := ctl.gc.CreateGroup(c.Request.Context(), groupapp.CreateGroupInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (ctl *GroupController) DeleteGroup(c *gin.Context) {
	if err := ctl.gc.DeleteGroup(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
