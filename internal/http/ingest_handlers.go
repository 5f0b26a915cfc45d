package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/auth"
	"fleet-api/internal/service"
)

const signatureHeader = "X-Webhook-Signature"

// ingestWebhook accepts telemetry batches from providers. The signature is
// computed over the raw body, so the body is read before any JSON parsing.
func (h *Handler) ingestWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("unreadable body"))
		return
	}

	if !auth.VerifySignature(h.cfg.Ingest.WebhookSecret, body, c.GetHeader(signatureHeader)) {
		c.JSON(http.StatusUnauthorized, errorResponse("invalid signature"))
		return
	}

	if err := h.ingestService.Process(c.Request.Context(), c.Param("provider"), body); err != nil {
		if err == service.ErrInvalidInput {
			c.JSON(http.StatusBadRequest, errorResponse("no valid events"))
			return
		}
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
