package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/export"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
	now     func() time.Time
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service, now: time.Now}
}

func (h *ReportHandler) GetFreight(c *gin.Context) {
	filter, err := parsePurchaseFilter(c, h.now())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	report, err := h.service.Freight(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsXLSX(c) {
		writeXLSX(c, "relatorio_fretes", export.Freight(report))
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetControlled(c *gin.Context) {
	filter, err := parsePurchaseFilter(c, h.now())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, err := h.service.Controlled(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsXLSX(c) {
		writeXLSX(c, "relatorio_controlados", export.ControlledSales(rows))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "sales": len(rows)})
}
