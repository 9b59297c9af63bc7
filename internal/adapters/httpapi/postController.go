package httpapi

import (
	"net/http"

	"chronicle/internal/adapters/httpapi/middleware"
	postapp "chronicle/internal/core/post/service"

	"github.com/gin-gonic/gin"
)

type PostController struct{ pc PostUseCase }

func NewPostController(pc PostUseCase) *PostController { return &PostController{pc: pc} }

type postRequest struct {
	Text  string `json:"text" binding:"required"`
	Group string `json:"group"`
	Image string `json:"image" binding:"max=255"`
}

func (r postRequest) input() postapp.PostInput {
	return postapp.PostInput{Text: r.Text, Group: r.Group, Image: r.Image}
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), c.GetString(middleware.UserIDKey), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	res, err := ctl.pc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) EditPost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctl.pc.EditPost(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	if err := ctl.pc.DeletePost(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *PostController) AddComment(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctl.pc.AddComment(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
