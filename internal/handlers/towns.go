package handlers

import (
	"github.com/gin-gonic/gin"

	"posttown/internal/town"
)

type TownHandler struct {
	registry *town.Registry
}

func NewTownHandler(registry *town.Registry) *TownHandler {
	return &TownHandler{registry: registry}
}

type townCreateRequest struct {
	FriendlyName     string `json:"friendlyName"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

type townCreateResponse struct {
	CoveyTownID       string `json:"coveyTownID"`
	CoveyTownPassword string `json:"coveyTownPassword"`
}

func (h *TownHandler) Create(c *gin.Context) {
	var req townCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBadRequest(c, err)
		return
	}

	info, password, err := h.registry.CreateTown(req.FriendlyName, req.IsPubliclyListed)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, townCreateResponse{CoveyTownID: info.ID, CoveyTownPassword: password})
}

func (h *TownHandler) List(c *gin.Context) {
	OK(c, h.registry.ListTowns())
}

type townUpdateRequest struct {
	CoveyTownPassword string `json:"coveyTownPassword"`
	FriendlyName      string `json:"friendlyName"`
	IsPubliclyListed  bool   `json:"isPubliclyListed"`
}

func (h *TownHandler) Update(c *gin.Context) {
	var req townUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBadRequest(c, err)
		return
	}

	if err := h.registry.UpdateTown(c.Param("townID"), req.CoveyTownPassword, req.FriendlyName, req.IsPubliclyListed); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type townDeleteRequest struct {
	CoveyTownPassword string `json:"coveyTownPassword"`
}

func (h *TownHandler) Delete(c *gin.Context) {
	var req townDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// password may also ride the query string on DELETE
		req.CoveyTownPassword = c.Query("coveyTownPassword")
	}

	if err := h.registry.DeleteTown(c.Param("townID"), req.CoveyTownPassword); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type sessionCreateRequest struct {
	CoveyTownID string `json:"coveyTownID"`
	UserName    string `json:"userName"`
}

// Join mints a session in a town; the returned token authenticates every
// later post/comment mutation.
func (h *TownHandler) Join(c *gin.Context) {
	var req sessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBadRequest(c, err)
		return
	}

	session, err := h.registry.JoinTown(req.CoveyTownID, req.UserName)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, session)
}

func (h *TownHandler) Leave(c *gin.Context) {
	h.registry.DisconnectSession(c.Param("townID"), sessionToken(c))
	OK(c, nil)
}
