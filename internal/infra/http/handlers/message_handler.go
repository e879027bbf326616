package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type MessageHandler struct {
	Sender MessageSender
	Logger *zap.Logger
}

func NewMessageHandler(sender MessageSender, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{Sender: sender, Logger: logger}
}

func (h *MessageHandler) SendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendMessageInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "invalid JSON")
		return
	}

	if err := h.Sender.Execute(r.Context(), input); err != nil {
		if usecase.ErrorCode(err) == usecase.CodeUpstream {
			middleware.RecordIntegrationError("manychat")
		}
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
