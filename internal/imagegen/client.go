package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ProviderName tags audit entries with the image source.
const ProviderName = "imagegen"

// Request describes the vehicle to render.
type Request struct {
	Make  string
	Model string
	Year  int
	Color string
}

// Generator produces an image reference for a vehicle description.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client calls the hosted image-generation API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

type generatePayload struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate renders the vehicle and returns the image URL. Provider failures
// come back verbatim in the error message so callers can classify them.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	payload := generatePayload{
		Prompt: fmt.Sprintf(
			"Professional studio photograph of a %s %d %s %s, three-quarter front view, neutral background",
			req.Color, req.Year, req.Make, req.Model,
		),
		Size: "1024x1024",
		N:    1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("image provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("image provider response unreadable: %w", err)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("image provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if decoded.Error != nil {
		return "", errors.New("image provider: " + decoded.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("image provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if len(decoded.Data) == 0 || decoded.Data[0].URL == "" {
		return "", errors.New("image provider returned no image")
	}
	return decoded.Data[0].URL, nil
}

// IsRateLimited reports whether a provider failure indicates quota or
// rate-limit exhaustion. Substring match is case-sensitive on purpose:
// providers spell these phrases consistently.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}
