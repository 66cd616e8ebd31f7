package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"posttown/internal/controller"
	"posttown/internal/store"
	"posttown/internal/town"
)

// ResponseEnvelope wraps every response from the server.
type ResponseEnvelope struct {
	IsOK     bool        `json:"isOK"`
	Response interface{} `json:"response,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, response interface{}) {
	c.JSON(http.StatusOK, ResponseEnvelope{IsOK: true, Response: response})
}

// Fail maps the typed error kind to a status code; the body stays the
// uniform envelope so clients only ever branch on isOK.
func Fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, town.ErrTownNotFound):
		status = http.StatusNotFound
	case errors.Is(err, controller.ErrPermissionDenied), errors.Is(err, town.ErrInvalidPassword):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrInvalidReference):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, ResponseEnvelope{IsOK: false, Message: err.Error()})
}

// FailBadRequest reports an unparseable request body.
func FailBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ResponseEnvelope{IsOK: false, Message: err.Error()})
}

// sessionToken pulls the token for operations whose verb carries no body:
// query parameter first, then header.
func sessionToken(c *gin.Context) string {
	if token := c.Query("sessionToken"); token != "" {
		return token
	}
	return c.GetHeader("X-Session-Token")
}
