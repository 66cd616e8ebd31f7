package handlers

import (
	"github.com/gin-gonic/gin"

	"posttown/internal/controller"
	"posttown/internal/middleware"
	"posttown/internal/models"
)

type PostHandler struct {
	towns *controller.PostTown
}

func NewPostHandler(towns *controller.PostTown) *PostHandler {
	return &PostHandler{towns: towns}
}

type postCreateRequest struct {
	SessionToken string                 `json:"sessionToken"`
	Post         models.Post            `json:"post"`
	File         *models.FileAttachment `json:"file,omitempty"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req postCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBadRequest(c, err)
		return
	}

	townID := c.GetString(middleware.TownIDKey)
	created, err := h.towns.CreatePost(c.Request.Context(), townID, req.Post, req.File)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, created)
}

func (h *PostHandler) Get(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	post, err := h.towns.GetPost(c.Request.Context(), townID, c.Param("postID"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, post)
}

func (h *PostHandler) GetAll(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	posts, err := h.towns.GetAllPosts(c.Request.Context(), townID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, posts)
}

type postUpdateRequest struct {
	SessionToken string      `json:"sessionToken"`
	Post         models.Post `json:"post"`
}

func (h *PostHandler) Update(c *gin.Context) {
	var req postUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBadRequest(c, err)
		return
	}

	townID := c.GetString(middleware.TownIDKey)
	updated, err := h.towns.UpdatePost(c.Request.Context(), townID, c.Param("postID"), req.Post, req.SessionToken)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, updated)
}

func (h *PostHandler) Delete(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	deleted, err := h.towns.DeletePost(c.Request.Context(), townID, c.Param("postID"), sessionToken(c))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, deleted)
}

func (h *PostHandler) GetCommentTree(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	forest, err := h.towns.GetCommentTree(c.Request.Context(), townID, c.Param("postID"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, forest)
}
