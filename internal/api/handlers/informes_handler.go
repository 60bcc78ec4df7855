package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/service"
)

type InformesHandler struct {
	service  *service.PurchaseService
	maxBytes int64
}

func NewInformesHandler(service *service.PurchaseService, maxUploadMB int64) *InformesHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &InformesHandler{service: service, maxBytes: maxUploadMB << 20}
}

// Upload replaces the session's Informes dataset with the multipart "file".
func (h *InformesHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "no file provided")
		return
	}
	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", h.maxBytes)})
		return
	}

	f, err := header.Open()
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return
	}

	status, err := h.service.UploadInformes(c.Request.Context(), sessionID(c), header.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Restore reloads the session's latest archived upload.
func (h *InformesHandler) Restore(c *gin.Context) {
	status, err := h.service.RestoreInformes(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *InformesHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.InformesStatus(sessionID(c)))
}

func (h *InformesHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ClearInformes(sessionID(c)))
}
