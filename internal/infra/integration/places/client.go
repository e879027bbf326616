package places

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com"

	// Results are restricted to the UAE and biased towards Dubai.
	countryFilter = "country:ae"
	dubaiLocation = "25.2048,55.2708"
	biasRadius    = "50000"
)

var ErrNotFound = errors.New("places: not found")

type Client struct {
	httpClient *resty.Client
	apiKey     string
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, apiKey: apiKey, logger: logger}
}

func (c *Client) Autocomplete(ctx context.Context, input, sessionToken string) ([]Prediction, error) {
	var result autocompleteResponse
	params := map[string]string{
		"input":      input,
		"key":        c.apiKey,
		"components": countryFilter,
		"location":   dubaiLocation,
		"radius":     biasRadius,
	}
	if sessionToken != "" {
		params["sessiontoken"] = sessionToken
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		Get("/maps/api/place/autocomplete/json")
	if err != nil {
		return nil, fmt.Errorf("places autocomplete: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("places autocomplete: status %d", resp.StatusCode())
	}

	switch result.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []Prediction{}, nil
	default:
		c.logger.Error("places autocomplete rejected", zap.String("status", result.Status), zap.String("error", result.ErrorMessage))
		return nil, fmt.Errorf("places autocomplete: %s %s", result.Status, result.ErrorMessage)
	}

	out := make([]Prediction, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		out = append(out, Prediction{
			PlaceID:       p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return out, nil
}

func (c *Client) Details(ctx context.Context, placeID, sessionToken string) (*Place, error) {
	var result detailsResponse
	params := map[string]string{
		"place_id": placeID,
		"key":      c.apiKey,
		"fields":   "place_id,name,formatted_address,geometry",
	}
	if sessionToken != "" {
		params["sessiontoken"] = sessionToken
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		Get("/maps/api/place/details/json")
	if err != nil {
		return nil, fmt.Errorf("places details: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("places details: status %d", resp.StatusCode())
	}

	switch result.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS":
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("places details: %s %s", result.Status, result.ErrorMessage)
	}

	r := result.Result
	return &Place{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
	}, nil
}
