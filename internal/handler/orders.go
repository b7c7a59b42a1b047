package handler

import (
	"net/http"
	"time"

	"hygpos/internal/dto"
	"hygpos/internal/infra"
	"hygpos/internal/service"
	"hygpos/internal/worker"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	svc service.OrderService
	loc *time.Location
}

func NewOrdersHandler(svc service.OrderService, loc *time.Location) *OrdersHandler {
	return &OrdersHandler{svc: svc, loc: loc}
}

// Open godoc
// @Summary Abre una orden, opcionalmente sobre una mesa
// @Tags order
// @Accept json
// @Produce json
// @Param body body dto.OpenOrderRequest true "Datos de apertura"
// @Success 201 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/order [post]
func (h *OrdersHandler) Open(c *gin.Context) {
	var req dto.OpenOrderRequest
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

func (h *OrdersHandler) Get(c *gin.Context) {
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

func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateHeader(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddDetails godoc
// @Summary Agrega líneas a una orden abierta
// @Tags order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body dto.AddDetailsRequest true "Líneas"
// @Success 200 {object} dto.OrderResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/order/{id}/details [post]
func (h *OrdersHandler) AddDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddDetailsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddDetails(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) RemoveDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detailID, ok := pathID(c, "detailId")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveDetail(c.Request.Context(), id, detailID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) RequestClose(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RequestClose(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary Cobra y cierra una orden
// @Description El total declarado incluye la propina; la diferencia con lo consumido se registra como propina.
// @Tags order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body dto.CloseOrderRequest true "Total y pagos"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/order/close/{id} [post]
func (h *OrdersHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CloseOrderRequest
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

func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Transfer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TransferOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transfer(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ticket renders the order ticket on demand. Closed orders also get a copy
// written to disk by the ticket worker.
func (h *OrdersHandler) Ticket(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.svc.Load(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := infra.RenderOrderTicket(o, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, worker.TicketFileName(o.ID), data)
}
