package trello

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const DefaultBaseURL = "https://api.trello.com"

type card struct {
	ID       string `json:"id"`
	ShortURL string `json:"shortUrl"`
}

// Client mirrors new leads onto the intake list of the operations board.
type Client struct {
	httpClient *resty.Client
	listID     string
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, token, listID string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetQueryParam("key", apiKey).
		SetQueryParam("token", token).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, listID: listID, logger: logger}
}

func (c *Client) CreateLeadCard(ctx context.Context, lead *entity.Lead) (string, error) {
	var result card
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"idList": c.listID,
			"name":   fmt.Sprintf("%s (+%s)", lead.ClientName, lead.MobileNumber),
			"desc":   cardDescription(lead),
			"pos":    "top",
		}).
		SetResult(&result).
		Post("/1/cards")
	if err != nil {
		return "", fmt.Errorf("trello create card: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("trello create card: status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	c.logger.Debug("trello card created", zap.String("card_id", result.ID), zap.String("url", result.ShortURL))
	return result.ID, nil
}

func cardDescription(lead *entity.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead ID: %s\n", lead.ID)
	fmt.Fprintf(&b, "Phone: +%s\n", lead.MobileNumber)
	fmt.Fprintf(&b, "Source: %s\n", lead.LeadSource)
	fmt.Fprintf(&b, "Service: %s\n", lead.Service)
	fmt.Fprintf(&b, "Created: %s", lead.CreatedAt.Format(time.RFC3339))
	return b.String()
}
