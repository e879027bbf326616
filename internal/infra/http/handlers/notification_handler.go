package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	Inbox  NotificationInbox
	Logger *zap.Logger
}

func NewNotificationHandler(inbox NotificationInbox, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{Inbox: inbox, Logger: logger}
}

// List returns the caller's notifications, newest first. ?unread=true
// filters to unread ones.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	agent, ok := currentAgent(w, r)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.Inbox.List(r.Context(), agent.ID, unreadOnly, limit)
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	agent, ok := currentAgent(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Inbox.MarkRead(r.Context(), id, agent.ID); err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
