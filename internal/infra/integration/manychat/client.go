package manychat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.manychat.com"

	subscriberPath = "/fb/sending/sendContent"
	phonePath      = "/wa/sending/sendContent"
)

var ErrNoRecipient = errors.New("manychat: subscriber id or phone required")

// Client sends free-text WhatsApp messages through ManyChat. Messages go to
// the subscriber endpoint first and fall back to the phone endpoint.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, logger: logger}
}

func (c *Client) SendText(ctx context.Context, subscriberID, phone, text string) error {
	if subscriberID == "" && phone == "" {
		return ErrNoRecipient
	}

	data := sendData{
		Version: "v2",
		Content: content{Messages: []textMessage{{Type: "text", Text: text}}},
	}

	var primaryErr error
	if subscriberID != "" {
		primaryErr = c.post(ctx, subscriberPath, sendBySubscriberRequest{SubscriberID: subscriberID, Data: data})
		if primaryErr == nil {
			return nil
		}
		c.logger.Warn("manychat subscriber send failed, trying phone endpoint",
			zap.String("subscriber_id", subscriberID),
			zap.Error(primaryErr),
		)
	}

	if phone == "" {
		return primaryErr
	}
	return c.post(ctx, phonePath, sendByPhoneRequest{Phone: "+" + phone, Data: data})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	var result apiResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post(path)
	if err != nil {
		return fmt.Errorf("manychat %s: %w", path, err)
	}
	if resp.IsError() || result.Status != "success" {
		return fmt.Errorf("manychat %s: status %d: %s", path, resp.StatusCode(), result.Message)
	}
	return nil
}
