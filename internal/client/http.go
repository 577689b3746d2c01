package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"StockForecast/internal/model"
)

const (
	// PredictPath is the engine's prediction endpoint.
	PredictPath = "/api/predict-stock"
	// HealthPath is the engine's liveness endpoint.
	HealthPath = "/health"
	// ValidatePath checks a sales file's columns without forecasting.
	ValidatePath = "/api/validate-dataset"

	maxResponseBytes = 32 << 20
)

// HTTPForecaster implements Forecaster against the engine's REST API.
type HTTPForecaster struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPForecaster creates a forecaster with optional proxy support. The
// client has no timeout of its own; deadlines come from the caller's context.
func NewHTTPForecaster(baseURL, apiKey, proxyURL string) *HTTPForecaster {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPForecaster{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Transport: transport},
	}
}

func (f *HTTPForecaster) Name() string { return "http" }

// Submit posts req as multipart/form-data and decodes the success payload.
func (f *HTTPForecaster) Submit(ctx context.Context, req model.ForecastRequest) (*RawResponse, error) {
	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return nil, &ClientError{Kind: TransportFailure, Message: "Could not read the sales file", Err: err}
	}
	data, err := f.postForm(ctx, PredictPath, body, contentType)
	if err != nil {
		return nil, err
	}

	var raw RawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ClientError{
			Kind:    TransportFailure,
			Message: "The forecasting engine returned an unreadable response",
			Err:     fmt.Errorf("decode prediction response: %w", err),
		}
	}
	return &raw, nil
}

// ValidateDataset asks the engine whether file has the columns a forecast
// needs. Rejections carry the engine's detail message like Submit.
func (f *HTTPForecaster) ValidateDataset(ctx context.Context, file model.SalesFile) (*DatasetValidation, error) {
	body, contentType, err := encodeForm(file, nil)
	if err != nil {
		return nil, &ClientError{Kind: TransportFailure, Message: "Could not read the sales file", Err: err}
	}
	data, err := f.postForm(ctx, ValidatePath, body, contentType)
	if err != nil {
		return nil, err
	}

	var v DatasetValidation
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &ClientError{
			Kind:    TransportFailure,
			Message: "The forecasting engine returned an unreadable response",
			Err:     fmt.Errorf("decode validation response: %w", err),
		}
	}
	return &v, nil
}

// postForm sends a multipart body to path and returns the 2xx response body.
func (f *HTTPForecaster) postForm(ctx context.Context, path string, body io.Reader, contentType string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+path, body)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("post %s: %w", path, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("read %s response: %w", path, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ClientError{
			Kind:       ServerRejected,
			Message:    detailMessage(data),
			StatusCode: resp.StatusCode,
		}
	}
	return data, nil
}

// Health queries the engine's health endpoint.
func (f *HTTPForecaster) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+HealthPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check: status %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &health, nil
}

// encodeMultipart writes the four form fields the engine expects.
func encodeMultipart(req model.ForecastRequest) (io.Reader, string, error) {
	return encodeForm(req.File, [][2]string{
		{"predictionType", string(req.Scope)},
		{"month", req.PeriodLabel()},
		{"productId", req.ProductID},
	})
}

// encodeForm writes file as the "file" part followed by fields.
func encodeForm(file model.SalesFile, fields [][2]string) (io.Reader, string, error) {
	if file == nil {
		return nil, "", fmt.Errorf("no sales file")
	}
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", file.Name(), err)
	}
	defer src.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", file.Name())
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("copy %s: %w", file.Name(), err)
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// detailMessage extracts a string "detail" from an error body, falling back
// to the generic message.
func detailMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return GenericFailureMessage
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil || strings.TrimSpace(detail) == "" {
		return GenericFailureMessage
	}
	return detail
}
