package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
)

type SettingsHandler struct {
	service *service.SettingsService
}

func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

type adjustmentPayload struct {
	Value *decimal.Decimal `json:"value" binding:"required"`
}

func (h *SettingsHandler) GetAdjustment(c *gin.Context) {
	value, err := h.service.Adjustment(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

func (h *SettingsHandler) PutAdjustment(c *gin.Context) {
	var payload adjustmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "value is required")
		return
	}
	if err := h.service.SetAdjustment(c.Request.Context(), *payload.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": payload.Value})
}

func (h *SettingsHandler) FlushCache(c *gin.Context) {
	if err := h.service.FlushCache(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flushed": true})
}
