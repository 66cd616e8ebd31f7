package handlers

import (
	"github.com/gin-gonic/gin"

	"posttown/internal/controller"
	"posttown/internal/middleware"
)

type FileHandler struct {
	towns *controller.PostTown
}

func NewFileHandler(towns *controller.PostTown) *FileHandler {
	return &FileHandler{towns: towns}
}

// Get returns the attachment of a post: metadata plus bytes, inside the
// usual envelope.
func (h *FileHandler) Get(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	file, err := h.towns.GetFile(c.Request.Context(), townID, c.Param("postID"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, file)
}

func (h *FileHandler) Delete(c *gin.Context) {
	townID := c.GetString(middleware.TownIDKey)
	if err := h.towns.DeleteFile(c.Request.Context(), townID, c.Param("postID"), sessionToken(c)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
