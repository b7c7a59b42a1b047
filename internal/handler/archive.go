package handler

import (
	"net/http"

	"hygpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ArchiveHandler struct{ svc service.ArchiveService }

func NewArchiveHandler(svc service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{svc: svc}
}

// List returns archived orders dated between ?from= and ?to= (YYYY-MM-DD,
// both inclusive).
func (h *ArchiveHandler) List(c *gin.Context) {
	page, limit := pageParams(c, 50, 500)
	resp, err := h.svc.List(c.Request.Context(), c.Query("from"), c.Query("to"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Run archives the previous week now, outside the weekly schedule. It uses
// the same retry policy as the scheduled run and blocks until it finishes.
func (h *ArchiveHandler) Run(c *gin.Context) {
	resp, err := h.svc.RunWeekly(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
