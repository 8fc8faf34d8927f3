package property_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"strings"
	"time"
)

// Client - HTTP-клиент REST-бэкенда с объектами недвижимости.
// Любая ошибка транспорта, статус не 2xx или неразборчивое тело возвращаются как domain.ErrNetworkFailure.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient - конструктор. timeout = 0 означает "без ограничения".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ port.PropertyRepositoryPort = (*Client)(nil)

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	traceID := contextkeys.TraceIDFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// send выполняет запрос и возвращает тело успешного ответа.
func (c *Client) send(ctx context.Context, logger port.LoggerPort, method, url string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	logger.Debug("Sending request to property API", port.Fields{"url": url, "http_method": method})

	resp, err := c.doRequest(ctx, method, url, body)
	if err != nil {
		logger.Error("Failed to perform request to property API", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read response from property API", err, nil)
		return nil, fmt.Errorf("%w: failed to read response body: %w", domain.ErrNetworkFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%w: property API returned non-success status code %d: %s",
			domain.ErrNetworkFailure, resp.StatusCode, string(bodyBytes))
		logger.Error("Received error response from property API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}
	return bodyBytes, nil
}

func (c *Client) List(ctx context.Context) (*domain.ListingResponse, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PropertyApiClient",
		"method":    "List",
	})

	body, err := c.send(ctx, logger, http.MethodGet, c.baseURL+"/properties", nil)
	if err != nil {
		return nil, err
	}
	return c.listing(logger, body)
}

func (c *Client) Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.ListingResponse, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PropertyApiClient",
		"method":    "Search",
	})

	query := url.Values{}
	for _, v := range criteria.Values() {
		query.Set(string(v.Field), v.Value)
	}
	endpoint := c.baseURL + "/properties/search"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.send(ctx, logger, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.listing(logger, body)
}

func (c *Client) Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PropertyApiClient",
		"method":    "Create",
	})

	body, err := c.send(ctx, logger, http.MethodPost, c.baseURL+"/properties", newPropertyRequest(input))
	if err != nil {
		return nil, err
	}
	return c.record(logger, body)
}

func (c *Client) Update(ctx context.Context, id domain.PropertyID, input domain.PropertyInput) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PropertyApiClient",
		"method":      "Update",
		"property_id": string(id),
	})

	endpoint := c.baseURL + "/properties/" + url.PathEscape(string(id))
	body, err := c.send(ctx, logger, http.MethodPut, endpoint, newPropertyRequest(input))
	if err != nil {
		return nil, err
	}
	// Некоторые бэкенды отвечают на PUT пустым телом
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return c.record(logger, body)
}

func (c *Client) Delete(ctx context.Context, id domain.PropertyID) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PropertyApiClient",
		"method":      "Delete",
		"property_id": string(id),
	})

	endpoint := c.baseURL + "/properties/" + url.PathEscape(string(id))
	if _, err := c.send(ctx, logger, http.MethodDelete, endpoint, nil); err != nil {
		return err
	}
	logger.Info("Property deleted on backend", nil)
	return nil
}

func (c *Client) listing(logger port.LoggerPort, body []byte) (*domain.ListingResponse, error) {
	resp, skipped, err := decodeListing(body)
	if err != nil {
		logger.Error("Failed to decode listing response", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	if skipped > 0 {
		logger.Warn("Some keyed records could not be decoded", port.Fields{"skipped": skipped})
	}
	logger.Info("Successfully received and decoded response", port.Fields{
		"objects_count": len(resp.Items),
		"shape":         string(resp.Shape),
	})
	return resp, nil
}

func (c *Client) record(logger port.LoggerPort, body []byte) (*domain.Property, error) {
	var dto PropertyResponse
	if err := json.Unmarshal(body, &dto); err != nil {
		logger.Error("Failed to decode property response", err, nil)
		return nil, fmt.Errorf("%w: failed to decode property: %w", domain.ErrNetworkFailure, err)
	}
	p := dto.toDomain()
	return &p, nil
}
