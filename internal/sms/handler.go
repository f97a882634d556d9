package sms

import (
	"encoding/xml"
	"net/http"

	"wex_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// twimlResponse is the minimal TwiML document Twilio expects back from a
// message webhook. An empty Response sends no reply.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

type Handler struct {
	service   *Service
	authToken string
	log       *logger.Logger
}

func NewHandler(service *Service, authToken string, log *logger.Logger) *Handler {
	return &Handler{service: service, authToken: authToken, log: log}
}

// RegisterRoutes registers the public webhook endpoint.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/inbound", h.Inbound)
}

// Inbound handles POST /webhooks/sms/inbound from Twilio.
func (h *Handler) Inbound(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "bad form")
		return
	}

	// Signature verification is skipped when no auth token is configured
	// (local development against curl).
	if h.authToken != "" {
		requestURL := "https://" + c.Request.Host + c.Request.URL.RequestURI()
		signature := c.GetHeader("X-Twilio-Signature")
		if !ValidSignature(h.authToken, requestURL, c.Request.PostForm, signature) {
			h.log.Warn("sms webhook signature rejected", "client_ip", c.ClientIP())
			c.String(http.StatusForbidden, "invalid signature")
			return
		}
	}

	from := c.Request.PostForm.Get("From")
	body := c.Request.PostForm.Get("Body")
	messageSID := c.Request.PostForm.Get("MessageSid")

	reply, err := h.service.HandleInbound(c.Request.Context(), from, body, messageSID)
	if err != nil {
		h.log.Error("sms inbound handling failed", "error", err)
		// Twilio retries on 5xx; reply with an empty document instead so a
		// broken intake does not hammer the endpoint.
		c.XML(http.StatusOK, twimlResponse{})
		return
	}

	h.log.SMSEvent("inbound", from, true)
	c.XML(http.StatusOK, twimlResponse{Message: reply})
}
