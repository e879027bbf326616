package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const manualLeadSource = "Manual Entry"

type LeadHandler struct {
	Intaker    LeadIntaker
	Claimer    LeadClaimer
	LostMarker LeadLostMarker
	Assigner   LeadAssigner
	Manager    LeadManager
	Logger     *zap.Logger
}

func NewLeadHandler(
	intake LeadIntaker,
	claim LeadClaimer,
	lost LeadLostMarker,
	assign LeadAssigner,
	manage LeadManager,
	logger *zap.Logger,
) *LeadHandler {
	return &LeadHandler{
		Intaker:    intake,
		Claimer:    claim,
		LostMarker: lost,
		Assigner:   assign,
		Manager:    manage,
		Logger:     logger,
	}
}

type DuplicateLeadDetails struct {
	LeadID     string  `json:"lead_id"`
	ClientName string  `json:"client_name"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

// Create handles manual lead entry (POST /leads). A number that already
// exists is answered with 409 and the existing lead.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.IntakeLeadInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	if input.LeadSource == "" {
		input.LeadSource = manualLeadSource
	}

	out, err := h.Intaker.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordLeadIntake("manual", "error")
		writeErrorResponse(w, h.Logger, err)
		return
	}

	if out.Duplicate {
		middleware.RecordLeadIntake("manual", "duplicate")
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: "a lead with this mobile number already exists",
			Code:  usecase.CodeDuplicateLead,
			Details: DuplicateLeadDetails{
				LeadID:     out.LeadID,
				ClientName: out.ClientName,
				AssignedTo: out.AssignedTo,
			},
		})
		return
	}

	middleware.RecordLeadIntake("manual", "created")
	writeJSON(w, http.StatusCreated, out)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	details, err := h.Manager.Get(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *LeadHandler) ListUnassigned(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	leads, err := h.Manager.ListUnassigned(r.Context(), limit)
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// ClaimPreview shows the lost history the claimer has to acknowledge.
func (h *LeadHandler) ClaimPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	preview, err := h.Claimer.Preview(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

type claimRequest struct {
	ConfirmLostHistory bool `json:"confirm_lost_history"`
}

func (h *LeadHandler) Claim(w http.ResponseWriter, r *http.Request) {
	agent, ok := currentAgent(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}

	lead, err := h.Claimer.Execute(r.Context(), usecase.ClaimLeadInput{
		LeadID:             id,
		AgentID:            agent.ID,
		ConfirmLostHistory: req.ConfirmLostHistory,
	})
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type markLostRequest struct {
	Reason string `json:"reason"`
}

func (h *LeadHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	agent, ok := currentAgent(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req markLostRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}

	lead, err := h.LostMarker.Execute(r.Context(), usecase.MarkLostInput{
		LeadID:    id,
		ActorID:   agent.ID,
		ActorRole: agent.Role,
		Reason:    req.Reason,
	})
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}

	lead, err := h.Manager.UpdateStatus(r.Context(), usecase.UpdateStatusInput{
		LeadID: id,
		Status: req.Status,
	})
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type addNoteRequest struct {
	Body string `json:"body"`
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	agent, ok := currentAgent(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}

	note, err := h.Manager.AddNote(r.Context(), usecase.AddNoteInput{
		LeadID:   id,
		AuthorID: agent.ID,
		Body:     req.Body,
	})
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

type reminderRequest struct {
	// ReminderAt is RFC 3339; null clears the reminder.
	ReminderAt *time.Time `json:"reminder_at"`
}

func (h *LeadHandler) SetReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON or timestamp")
		return
	}

	lead, err := h.Manager.SetReminder(r.Context(), id, req.ReminderAt)
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// ForceAssign runs round-robin assignment on demand (admin only).
func (h *LeadHandler) ForceAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Assigner.Execute(r.Context(), id)
	if err != nil {
		writeErrorResponse(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func currentAgent(w http.ResponseWriter, r *http.Request) (*middleware.Agent, bool) {
	agent, ok := middleware.AgentFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: usecase.CodeUnauthorized})
		return nil, false
	}
	return agent, true
}
