package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/export"
)

// SessionHeader carries the caller's session id; blank means the default session.
const SessionHeader = "X-Session-ID"

func sessionID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}

// writeError maps the domain errors onto HTTP statuses. An empty source is
// not a failure: the caller gets an empty row-set and a message.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoData):
		c.JSON(http.StatusOK, gin.H{"rows": []interface{}{}, "message": "no data available: " + err.Error()})
	case errors.Is(err, domain.ErrMalformedSource):
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("rejected malformed source")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid file", "details": err.Error()})
	case errors.Is(err, domain.ErrNoInformes):
		c.JSON(http.StatusConflict, gin.H{"error": "upload an Informes file first", "details": err.Error()})
	case errors.Is(err, domain.ErrMissingCrossReference):
		log.Error().Err(err).Msg("cross reference column missing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cross reference column missing", "details": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func wantsXLSX(c *gin.Context) bool {
	return strings.EqualFold(strings.TrimSpace(c.Query("format")), "xlsx")
}

// writeXLSX streams table as an attachment named after base and the current time.
func writeXLSX(c *gin.Context, base string, table export.Table) {
	name := export.FileName(base, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)
	if err := export.WriteXLSX(c.Writer, table); err != nil {
		log.Error().Err(err).Str("file", name).Msg("failed to write spreadsheet")
	}
}
