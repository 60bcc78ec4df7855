package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/export"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
)

type InfoserveHandler struct {
	service *service.InfoserveService
}

func NewInfoserveHandler(service *service.InfoserveService) *InfoserveHandler {
	return &InfoserveHandler{service: service}
}

func (h *InfoserveHandler) GetMovements(c *gin.Context) {
	filter, err := parseInfoserveFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, err := h.service.Report(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsXLSX(c) {
		writeXLSX(c, "infoserve_movimentos", export.InfoserveMovements(rows))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

func (h *InfoserveHandler) GetOptions(c *gin.Context) {
	opts, err := h.service.Options(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *InfoserveHandler) Sync(c *gin.Context) {
	result, err := h.service.Sync(c.Request.Context())
	if errors.Is(err, service.ErrSyncNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
