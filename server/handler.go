package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/agent/agents/conversation"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/ledger"
)

const maxHookBodyBytes = 1 << 20

// Conversations is the part of the conversation service the gateway uses.
type Conversations interface {
	Open(ctx context.Context, agentType contractx.AgentType) (string, string, error)
	HandleMessage(ctx context.Context, sessionID string, text string) (conversation.Reply, error)
	InvokeTool(ctx context.Context, sessionID string, tool string, args map[string]any) (contractx.ToolResult, error)
	Session(ctx context.Context, sessionID string) (*statex.SessionState, error)
	Close(ctx context.Context, sessionID string) error
}

// SignatureVerifier checks the signature on a queued delivery.
type SignatureVerifier interface {
	Verify(signature string, body []byte, deliveryURL string) error
}

type Handler struct {
	conversations Conversations
	verifier      SignatureVerifier
	hookURL       string
	signatureKey  string
}

func NewHandler(conversations Conversations) *Handler {
	return &Handler{conversations: conversations}
}

// WithOrderHook enables the order-confirmation webhook. hookURL is the public
// URL the queue delivers to and must match the signed subject.
func (h *Handler) WithOrderHook(verifier SignatureVerifier, signatureHeader, hookURL string) *Handler {
	h.verifier = verifier
	h.signatureKey = signatureHeader
	h.hookURL = hookURL
	return h
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	agentType, err := contractx.ParseAgentType(req.AgentType)
	if err != nil {
		writeError(c, err)
		return
	}

	sessionID, greeting, err := h.conversations.Open(c.Request.Context(), agentType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, OpenSessionResponse{
		SessionID: sessionID,
		AgentType: agentType,
		Greeting:  greeting,
	})
}

func (h *Handler) GetSession(c *gin.Context) {
	st, err := h.conversations.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) PostMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	reply, err := h.conversations.HandleMessage(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *Handler) InvokeTool(c *gin.Context) {
	var req ToolRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
			return
		}
	}

	res, err := h.conversations.InvokeTool(c.Request.Context(), c.Param("id"), c.Param("tool"), req.Args)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CloseSession(c *gin.Context) {
	if err := h.conversations.Close(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OrderHook receives order confirmations published by the ledger.
func (h *Handler) OrderHook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxHookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	if err := h.verifier.Verify(c.GetHeader(h.signatureKey), body, h.hookURL); err != nil {
		log.Warn().Err(err).Msg("rejected order hook delivery")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid signature"})
		return
	}

	var order ledger.Order
	if err := json.Unmarshal(body, &order); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid order payload", Details: err.Error()})
		return
	}

	log.Info().
		Str("order_id", order.ID).
		Str("total", order.Total.String()).
		Str("currency", order.Currency).
		Int("items", len(order.Items)).
		Msg("order confirmation delivered")
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Session not found"})
	case errors.Is(err, conversation.ErrInvalidSession),
		errors.Is(err, conversation.ErrInvalidMessage),
		errors.Is(err, contractx.ErrUnknownAgent),
		errors.Is(err, contractx.ErrUnknownTool),
		errors.Is(err, contractx.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
	case errors.Is(err, conversation.ErrAgentUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Agent unavailable", Details: err.Error()})
	case errors.Is(err, contractx.ErrModelInvoke),
		errors.Is(err, contractx.ErrSchemaViolation),
		errors.Is(err, contractx.ErrToolRounds):
		log.Error().Err(err).Msg("model turn failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Couldn't process message, try later!"})
	default:
		log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
