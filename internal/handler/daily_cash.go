package handler

import (
	"fmt"
	"net/http"
	"time"

	"hygpos/internal/dto"
	"hygpos/internal/infra"
	"hygpos/internal/model"
	"hygpos/internal/service"

	"github.com/gin-gonic/gin"
)

type DailyCashHandler struct {
	svc service.DailyCashService
	loc *time.Location
}

func NewDailyCashHandler(svc service.DailyCashService, loc *time.Location) *DailyCashHandler {
	return &DailyCashHandler{svc: svc, loc: loc}
}

// Open godoc
// @Summary Abre la caja del día
// @Tags daily-cash
// @Accept json
// @Produce json
// @Param body body dto.OpenDailyCashRequest true "Efectivo inicial"
// @Success 201 {object} dto.DailyCashResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/daily-cash [post]
func (h *DailyCashHandler) Open(c *gin.Context) {
	var req dto.OpenDailyCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DailyCashHandler) Today(c *gin.Context) {
	resp, err := h.svc.Today(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DailyCashHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DailyCashHandler) History(c *gin.Context) {
	page, limit := pageParams(c, 30, 200)
	resp, err := h.svc.History(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary Cierra la caja con el arqueo de efectivo
// @Tags daily-cash
// @Accept json
// @Produce json
// @Param id path string true "Daily cash ID"
// @Param body body dto.CloseDailyCashRequest true "Efectivo contado"
// @Success 200 {object} dto.DailyCashResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/daily-cash/{id} [patch]
func (h *DailyCashHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CloseDailyCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DailyCashHandler) Income(c *gin.Context)  { h.movement(c, model.MovementIncome) }
func (h *DailyCashHandler) Expense(c *gin.Context) { h.movement(c, model.MovementExpense) }

// movement takes its type from the route, whatever the body says.
func (h *DailyCashHandler) movement(c *gin.Context, kind string) {
	var req dto.CashMovementRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Type = kind
	if !validateRequest(c, &req) {
		return
	}
	resp, err := h.svc.RegisterMovement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DailyCashHandler) Report(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.svc.Load(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := infra.RenderDailyCashReport(d, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, fmt.Sprintf("caja_%s.pdf", d.Date), data)
}
