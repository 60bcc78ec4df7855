package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/export"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
)

type PurchaseHandler struct {
	service *service.PurchaseService
	now     func() time.Time
}

func NewPurchaseHandler(service *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service, now: time.Now}
}

func (h *PurchaseHandler) GetDomestic(c *gin.Context) {
	filter, err := parsePurchaseFilter(c, h.now())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, summary, err := h.service.Domestic(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsXLSX(c) {
		writeXLSX(c, "compras_brasil", export.DomesticPurchases(rows))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "summary": summary})
}

func (h *PurchaseHandler) GetForeign(c *gin.Context) {
	filter, err := parsePurchaseFilter(c, h.now())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, summary, err := h.service.Foreign(c.Request.Context(), sessionID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsXLSX(c) {
		writeXLSX(c, "compras_paraguai", export.ForeignCatalog(rows))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "summary": summary})
}

func (h *PurchaseHandler) GetCombined(c *gin.Context) {
	filter, err := parsePurchaseFilter(c, h.now())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, summary, err := h.service.Combined(c.Request.Context(), sessionID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	if wantsXLSX(c) {
		base := "compras_geral"
		if filter.ExcludeKeyAccount {
			base = "compras_geral_sem_conta_chave"
		}
		writeXLSX(c, base, export.Decisions(rows))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "summary": summary})
}

func (h *PurchaseHandler) GetBrands(c *gin.Context) {
	brands, err := h.service.Brands(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (h *PurchaseHandler) GetCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
