package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const (
	leadID        = "5b3e2a9c-1f4d-4c8e-9a61-0d2f7b8c4e15"
	missingLeadID = "0c9d8e7f-6a5b-4c3d-8e2f-1a0b9c8d7e6f"
)

type leadMocks struct {
	intake  *MockIntaker
	claim   *MockClaimer
	lost    *MockLostMarker
	assign  *MockAssigner
	manager *MockManager
}

func newLeadHandler() (*LeadHandler, leadMocks) {
	m := leadMocks{
		intake:  new(MockIntaker),
		claim:   new(MockClaimer),
		lost:    new(MockLostMarker),
		assign:  new(MockAssigner),
		manager: new(MockManager),
	}
	return NewLeadHandler(m.intake, m.claim, m.lost, m.assign, m.manager, zap.NewNop()), m
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestCreateLead_Created(t *testing.T) {
	h, m := newLeadHandler()
	m.intake.On("Execute", mock.Anything, usecase.IntakeLeadInput{ClientName: "Aisha", Phone: "0501234567", LeadSource: manualLeadSource}).
		Return(&usecase.IntakeLeadOutput{LeadID: leadID, ClientName: "Aisha", MobileNumber: "971501234567"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{"client_name":"Aisha","phone":"0501234567"}`))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var out usecase.IntakeLeadOutput
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, leadID, out.LeadID)
	m.intake.AssertExpectations(t)
}

func TestCreateLead_DuplicateConflict(t *testing.T) {
	h, m := newLeadHandler()
	m.intake.On("Execute", mock.Anything, mock.Anything).
		Return(&usecase.IntakeLeadOutput{LeadID: "lead-7", ClientName: "Maria", AssignedTo: strPtr("agent-A"), Duplicate: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{"phone":"971501234567","lead_source":"Walk-in"}`))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, usecase.CodeDuplicateLead, body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "lead-7", details["lead_id"])
	assert.Equal(t, "agent-A", details["assigned_to"])
}

func TestCreateLead_InvalidPhone(t *testing.T) {
	h, m := newLeadHandler()
	m.intake.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeValidation, Message: "validation failed: phone: invalid phone format"})

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{"phone":"12"}`))
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, usecase.CodeValidation, decodeError(t, w)["code"])
}

func TestClaimLead_RequiresConfirmation(t *testing.T) {
	h, m := newLeadHandler()
	history := &entity.LostHistory{LostBy: "agent-B", LostAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC), Reason: "Chose another agency"}
	m.claim.On("Execute", mock.Anything, usecase.ClaimLeadInput{LeadID: leadID, AgentID: "agent-A"}).
		Return(nil, &usecase.DomainError{Code: usecase.CodeLostConfirmationMissing, Message: "confirm", Details: history})

	req := httptest.NewRequest(http.MethodPost, "/leads/lead-1/claim", nil)
	req = asAgent(withRoute(req, map[string]string{"id": leadID}), "agent-A", entity.RoleSalesAgent)
	w := httptest.NewRecorder()
	h.Claim(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, usecase.CodeLostConfirmationMissing, body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "Chose another agency", details["reason"])
	assert.Equal(t, "agent-B", details["lost_by"])
}

func TestClaimLead_Confirmed(t *testing.T) {
	h, m := newLeadHandler()
	m.claim.On("Execute", mock.Anything, usecase.ClaimLeadInput{LeadID: leadID, AgentID: "agent-A", ConfirmLostHistory: true}).
		Return(&entity.Lead{ID: leadID, AssignedTo: strPtr("agent-A"), Status: entity.LeadStatusInProgress}, nil)

	req := httptest.NewRequest(http.MethodPost, "/leads/lead-1/claim", strings.NewReader(`{"confirm_lost_history":true}`))
	req = asAgent(withRoute(req, map[string]string{"id": leadID}), "agent-A", entity.RoleSalesAgent)
	w := httptest.NewRecorder()
	h.Claim(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	m.claim.AssertExpectations(t)
}

func TestClaimLead_NoAgent(t *testing.T) {
	h, m := newLeadHandler()

	req := withRoute(httptest.NewRequest(http.MethodPost, "/leads/lead-1/claim", nil), map[string]string{"id": leadID})
	w := httptest.NewRecorder()
	h.Claim(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	m.claim.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestClaimPreview(t *testing.T) {
	h, m := newLeadHandler()
	m.claim.On("Preview", mock.Anything, leadID).
		Return(&usecase.ClaimPreview{LeadID: leadID, LostHistory: &entity.LostHistory{Reason: entity.NoLostReason}}, nil)

	req := withRoute(httptest.NewRequest(http.MethodGet, "/leads/lead-1/claim", nil), map[string]string{"id": leadID})
	w := httptest.NewRecorder()
	h.ClaimPreview(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), entity.NoLostReason)
}

func TestMarkLost_PassesActor(t *testing.T) {
	h, m := newLeadHandler()
	m.lost.On("Execute", mock.Anything, usecase.MarkLostInput{LeadID: leadID, ActorID: "admin-1", ActorRole: entity.RoleAdmin, Reason: ""}).
		Return(&entity.Lead{ID: leadID, Status: entity.LeadStatusLost, Lost: &entity.LostHistory{LostBy: "admin-1", Reason: entity.NoLostReason}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/leads/lead-1/lost", strings.NewReader(`{}`))
	req = asAgent(withRoute(req, map[string]string{"id": leadID}), "admin-1", entity.RoleAdmin)
	w := httptest.NewRecorder()
	h.MarkLost(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var lead entity.Lead
	require.NoError(t, json.NewDecoder(w.Body).Decode(&lead))
	assert.Nil(t, lead.AssignedTo)
	assert.Equal(t, entity.NoLostReason, lead.Lost.Reason)
}

func TestMarkLost_Forbidden(t *testing.T) {
	h, m := newLeadHandler()
	m.lost.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeForbidden, Message: "only the assigned agent or an admin can mark this lead lost"})

	req := httptest.NewRequest(http.MethodPost, "/leads/lead-1/lost", strings.NewReader(`{"reason":"no answer"}`))
	req = asAgent(withRoute(req, map[string]string{"id": leadID}), "agent-X", entity.RoleSalesAgent)
	w := httptest.NewRecorder()
	h.MarkLost(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetLead_NotFound(t *testing.T) {
	h, m := newLeadHandler()
	m.manager.On("Get", mock.Anything, missingLeadID).
		Return(nil, &usecase.DomainError{Code: usecase.CodeLeadNotFound, Message: "lead not found: " + missingLeadID})

	req := withRoute(httptest.NewRequest(http.MethodGet, "/leads/"+missingLeadID, nil), map[string]string{"id": missingLeadID})
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUnassigned_PassesLimit(t *testing.T) {
	h, m := newLeadHandler()
	m.manager.On("ListUnassigned", mock.Anything, 25).Return([]*entity.Lead{{ID: "a"}, {ID: "b"}}, nil)

	w := httptest.NewRecorder()
	h.ListUnassigned(w, httptest.NewRequest(http.MethodGet, "/leads/unassigned?limit=25", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var leads []entity.Lead
	require.NoError(t, json.NewDecoder(w.Body).Decode(&leads))
	assert.Len(t, leads, 2)
}

func TestUpdateStatus(t *testing.T) {
	h, m := newLeadHandler()
	m.manager.On("UpdateStatus", mock.Anything, usecase.UpdateStatusInput{LeadID: leadID, Status: entity.LeadStatusWon}).
		Return(&entity.Lead{ID: leadID, Status: entity.LeadStatusWon}, nil)

	req := withRoute(httptest.NewRequest(http.MethodPatch, "/leads/lead-1/status", strings.NewReader(`{"status":"Won"}`)), map[string]string{"id": leadID})
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddNote(t *testing.T) {
	h, m := newLeadHandler()
	m.manager.On("AddNote", mock.Anything, usecase.AddNoteInput{LeadID: leadID, AuthorID: "agent-A", Body: "Called, wants family visa"}).
		Return(&entity.LeadNote{ID: "note-1", LeadID: leadID}, nil)

	req := httptest.NewRequest(http.MethodPost, "/leads/lead-1/notes", strings.NewReader(`{"body":"Called, wants family visa"}`))
	req = asAgent(withRoute(req, map[string]string{"id": leadID}), "agent-A", entity.RoleSalesAgent)
	w := httptest.NewRecorder()
	h.AddNote(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSetReminder_ParsesAndClears(t *testing.T) {
	h, m := newLeadHandler()
	at := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	m.manager.On("SetReminder", mock.Anything, leadID, mock.MatchedBy(func(p *time.Time) bool { return p != nil && p.Equal(at) })).
		Return(&entity.Lead{ID: leadID, ReminderAt: &at}, nil)
	m.manager.On("SetReminder", mock.Anything, leadID, (*time.Time)(nil)).
		Return(&entity.Lead{ID: leadID}, nil)

	req := withRoute(httptest.NewRequest(http.MethodPut, "/leads/lead-1/reminder", strings.NewReader(`{"reminder_at":"2026-06-01T13:30:00+04:00"}`)), map[string]string{"id": leadID})
	w := httptest.NewRecorder()
	h.SetReminder(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = withRoute(httptest.NewRequest(http.MethodPut, "/leads/lead-1/reminder", strings.NewReader(`{"reminder_at":null}`)), map[string]string{"id": leadID})
	w = httptest.NewRecorder()
	h.SetReminder(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	m.manager.AssertExpectations(t)
}

func TestSetReminder_BadTimestamp(t *testing.T) {
	h, _ := newLeadHandler()

	req := withRoute(httptest.NewRequest(http.MethodPut, "/leads/lead-1/reminder", strings.NewReader(`{"reminder_at":"tomorrow"}`)), map[string]string{"id": leadID})
	w := httptest.NewRecorder()
	h.SetReminder(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForceAssign_NoAgents(t *testing.T) {
	h, m := newLeadHandler()
	m.assign.On("Execute", mock.Anything, leadID).
		Return(nil, &usecase.DomainError{Code: usecase.CodeNoAgentsAvailable, Message: "no active sales agents"})

	req := withRoute(httptest.NewRequest(http.MethodPost, "/leads/lead-1/assign", nil), map[string]string{"id": leadID})
	w := httptest.NewRecorder()
	h.ForceAssign(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, usecase.CodeNoAgentsAvailable, decodeError(t, w)["code"])
}

func TestTechnicalErrorIsGeneric(t *testing.T) {
	h, m := newLeadHandler()
	m.manager.On("Get", mock.Anything, leadID).
		Return(nil, &usecase.TechnicalError{Code: usecase.CodeDatabase, Message: "failed to load lead"})

	req := withRoute(httptest.NewRequest(http.MethodGet, "/leads/lead-1", nil), map[string]string{"id": leadID})
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "internal server error", body["error"])
	assert.Equal(t, usecase.CodeDatabase, body["code"])
}

func TestGetLead_MalformedIDIsBadRequest(t *testing.T) {
	h, m := newLeadHandler()

	req := withRoute(httptest.NewRequest(http.MethodGet, "/leads/not-a-uuid", nil), map[string]string{"id": "not-a-uuid"})
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, usecase.CodeValidation, resp.Code)
	m.manager.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestClaimLead_MalformedIDIsBadRequest(t *testing.T) {
	h, m := newLeadHandler()

	req := httptest.NewRequest(http.MethodPost, "/leads/123/claim", strings.NewReader(`{}`))
	req = asAgent(withRoute(req, map[string]string{"id": "123"}), "agent-A", entity.RoleSalesAgent)
	w := httptest.NewRecorder()
	h.Claim(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.claim.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
