package handlers

import (
	"github.com/gin-gonic/gin"

	"posttown/internal/controller"
	"posttown/internal/middleware"
	"posttown/internal/models"
)

type CommentHandler struct {
	towns *controller.PostTown
}

func NewCommentHandler(towns *controller.PostTown) *CommentHandler {
	return &CommentHandler{towns: towns}
}

type commentCreateRequest struct {
	SessionToken string         `json:"sessionToken"`
	Comment      models.Comment `json:"comment"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBadRequest(c, err)
		return
	}

	townID := c.GetString(middleware.TownIDKey)
	created, err := h.towns.CreateComment(c.Request.Context(), townID, req.Comment)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, created)
}

func (h *CommentHandler) Get(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	comment, err := h.towns.GetComment(c.Request.Context(), townID, c.Param("commentID"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, comment)
}

type commentUpdateRequest struct {
	SessionToken string         `json:"sessionToken"`
	Comment      models.Comment `json:"comment"`
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req commentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBadRequest(c, err)
		return
	}

	townID := c.GetString(middleware.TownIDKey)
	updated, err := h.towns.UpdateComment(c.Request.Context(), townID, c.Param("commentID"), req.Comment, req.SessionToken)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, updated)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	deleted, err := h.towns.DeleteComment(c.Request.Context(), townID, c.Param("commentID"), sessionToken(c))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, deleted)
}
