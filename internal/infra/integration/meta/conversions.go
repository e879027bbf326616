package meta

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

// ConversionsClient reports new leads to the Meta Conversions API. The
// lead id is sent as event_id so the pixel can deduplicate browser events.
type ConversionsClient struct {
	httpClient    *resty.Client
	pixelID       string
	testEventCode string
	logger        *zap.Logger
	now           func() time.Time
}

func NewConversionsClient(baseURL, pixelID, accessToken, testEventCode string, logger *zap.Logger) *ConversionsClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetQueryParam("access_token", accessToken).
		SetHeader("Content-Type", "application/json")

	return &ConversionsClient{
		httpClient:    httpClient,
		pixelID:       pixelID,
		testEventCode: testEventCode,
		logger:        logger,
		now:           time.Now,
	}
}

func (c *ConversionsClient) TrackLead(ctx context.Context, lead *entity.Lead) error {
	if c.pixelID == "" {
		return errors.New("meta: pixel id not configured")
	}

	req := eventsRequest{
		Data:          []serverEvent{c.leadEvent(lead)},
		TestEventCode: c.testEventCode,
	}

	var result eventsResponse
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("pixel", c.pixelID).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/{pixel}/events")
	if err != nil {
		return fmt.Errorf("meta capi: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("meta capi: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	c.logger.Info("conversion event sent",
		zap.String("lead_id", lead.ID),
		zap.Int("events_received", result.EventsReceived),
		zap.String("fbtrace_id", result.FBTraceID),
	)
	return nil
}

func (c *ConversionsClient) leadEvent(lead *entity.Lead) serverEvent {
	ud := userData{
		Phone:      []string{hashIdentifier(lead.MobileNumber)},
		Country:    []string{hashIdentifier("ae")},
		ExternalID: []string{hashIdentifier(lead.ID)},
	}
	if lead.ClientName != "" && lead.ClientName != entity.DefaultLeadName {
		first, last, _ := strings.Cut(strings.TrimSpace(lead.ClientName), " ")
		ud.FirstName = []string{hashIdentifier(first)}
		if last = strings.TrimSpace(last); last != "" {
			ud.LastName = []string{hashIdentifier(last)}
		}
	}

	return serverEvent{
		EventName:    "Lead",
		EventTime:    c.now().Unix(),
		EventID:      lead.ID,
		ActionSource: "system_generated",
		UserData:     ud,
		CustomData:   customData{LeadSource: lead.LeadSource, Service: lead.Service},
	}
}

// hashIdentifier applies the normalization Meta expects before hashing:
// trimmed, lower case, SHA-256 hex.
func hashIdentifier(v string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(v))))
	return hex.EncodeToString(sum[:])
}
