package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const webhookSecretHeader = "X-Webhook-Secret"

// fieldExtractor pulls one candidate value out of a chat platform payload.
type fieldExtractor struct {
	name    string
	extract func(payload map[string]any) string
}

func topLevel(key string) fieldExtractor {
	return fieldExtractor{name: key, extract: func(p map[string]any) string {
		return stringValue(p[key])
	}}
}

func nested(parent, key string) fieldExtractor {
	return fieldExtractor{name: parent + "." + key, extract: func(p map[string]any) string {
		obj, ok := p[parent].(map[string]any)
		if !ok {
			return ""
		}
		return stringValue(obj[key])
	}}
}

// Phone candidates in priority order. Name fields are only consulted when
// none of these carries a value.
var (
	phoneExtractors = []fieldExtractor{
		topLevel("phone"),
		topLevel("whatsapp_phone"),
		nested("custom_fields", "whatsapp_phone"),
		topLevel("wa_id"),
		topLevel("whatsapp_id"),
		topLevel("id"),
	}
	phoneFromNameExtractors = []fieldExtractor{
		topLevel("name"),
		topLevel("first_name"),
	}
	nameExtractors = []fieldExtractor{
		topLevel("full_name"),
		topLevel("name"),
		nested("custom_fields", "full_name"),
	}
)

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	LeadID  string `json:"leadId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type WebhookHandler struct {
	Intake LeadIntaker
	Secret string
	Logger *zap.Logger
}

func NewWebhookHandler(intake LeadIntaker, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Intake: intake, Secret: secret, Logger: logger}
}

// Handle receives lead intake calls from ManyChat.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		middleware.RecordLeadIntake("webhook", "rejected")
		writeJSON(w, http.StatusUnauthorized, WebhookResponse{Error: "invalid webhook secret"})
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		middleware.RecordLeadIntake("webhook", "rejected")
		writeJSON(w, http.StatusBadRequest, WebhookResponse{Error: "invalid JSON payload"})
		return
	}

	phone, source := resolvePhone(payload)
	if phone == "" {
		middleware.RecordLeadIntake("webhook", "rejected")
		h.Logger.Warn("webhook without usable phone", zap.Any("keys", payloadKeys(payload)))
		writeJSON(w, http.StatusBadRequest, WebhookResponse{Error: "phone number is required"})
		return
	}

	name := resolveName(payload)
	if source == "name" || source == "first_name" {
		// The name field held the number itself.
		name = ""
	}

	input := usecase.IntakeLeadInput{
		ClientName: name,
		Phone:      phone,
		LeadSource: firstUsable(payload, []fieldExtractor{topLevel("lead_source")}),
		Service:    firstUsable(payload, []fieldExtractor{topLevel("service"), nested("custom_fields", "service")}),
	}

	out, err := h.Intake.Execute(r.Context(), input)
	if err != nil {
		status := usecase.HTTPStatus(err)
		message := err.Error()
		if !usecase.IsDomainError(err) {
			h.Logger.Error("webhook intake failed", zap.String("phone_field", source), zap.Error(err))
			message = "failed to process lead"
			middleware.RecordLeadIntake("webhook", "error")
		} else {
			middleware.RecordLeadIntake("webhook", "rejected")
		}
		writeJSON(w, status, WebhookResponse{Error: message})
		return
	}

	outcome := "created"
	if out.Duplicate {
		outcome = "duplicate"
	}
	middleware.RecordLeadIntake("webhook", outcome)

	writeJSON(w, http.StatusOK, WebhookResponse{
		Success: true,
		Message: out.Message,
		LeadID:  out.LeadID,
	})
}

func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.Secret == "" {
		return true
	}
	got := r.Header.Get(webhookSecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) == 1
}

// resolvePhone returns the first candidate that normalizes to a valid UAE
// number, or failing that the first non-placeholder candidate so the
// caller gets a precise validation error. It also reports which field
// the value came from.
func resolvePhone(payload map[string]any) (string, string) {
	candidates := usableValues(payload, phoneExtractors)
	if len(candidates) == 0 {
		candidates = usableValues(payload, phoneFromNameExtractors)
	}
	for _, c := range candidates {
		if _, err := entity.NormalizeAndValidatePhone(c.value); err == nil {
			return c.value, c.field
		}
	}
	if len(candidates) > 0 {
		return candidates[0].value, candidates[0].field
	}
	return "", ""
}

func resolveName(payload map[string]any) string {
	if name := firstUsable(payload, nameExtractors); name != "" {
		return name
	}
	first := firstUsable(payload, []fieldExtractor{topLevel("first_name")})
	last := firstUsable(payload, []fieldExtractor{topLevel("last_name")})
	return strings.TrimSpace(first + " " + last)
}

type candidate struct {
	field string
	value string
}

func usableValues(payload map[string]any, extractors []fieldExtractor) []candidate {
	var out []candidate
	for _, ex := range extractors {
		v := strings.TrimSpace(ex.extract(payload))
		if v == "" || usecase.IsTemplatePlaceholder(v) {
			continue
		}
		out = append(out, candidate{field: ex.name, value: v})
	}
	return out
}

func firstUsable(payload map[string]any, extractors []fieldExtractor) string {
	if c := usableValues(payload, extractors); len(c) > 0 {
		return c[0].value
	}
	return ""
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func payloadKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	return keys
}

