package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 4 << 10

	CategoryUrgent = "Urgent"
	CategoryNormal = "Normal"
)

// Config locates the inference service and how to authenticate to it.
// TokenURL selects client credentials; otherwise APIKey is sent as a static bearer token.
type Config struct {
	URL          string
	APIKey       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client forwards feature vectors to an external inference service
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
	Error      string   `json:"error"`
}

// NewClient builds the outbound client. ctx carries the base HTTP client used for token fetches.
func NewClient(ctx context.Context, cfg Config, base *http.Client) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if base == nil {
		base = &http.Client{Timeout: timeout}
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	var httpClient *http.Client
	switch {
	case cfg.TokenURL != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(ctx)
	case cfg.APIKey != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.APIKey,
			TokenType:   "Bearer",
		}))
	default:
		httpClient = base
	}

	return &Client{
		endpoint:   cfg.URL,
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// Validate rejects empty or non-finite feature vectors
func Validate(features []float64) error {
	if len(features) == 0 {
		return apperrors.Wrapf(apperrors.ErrValidation, "features must be a non-empty array")
	}
	for i, f := range features {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return apperrors.Wrapf(apperrors.ErrValidation, "feature %d is not a finite number", i)
		}
	}
	return nil
}

// Predict returns the model output for features. Upstream failures wrap apperrors.ErrPrediction.
func (c *Client) Predict(ctx context.Context, features []float64) (float64, error) {
	if err := Validate(features); err != nil {
		return 0, err
	}
	if c.endpoint == "" {
		return 0, apperrors.Wrapf(apperrors.ErrPrediction, "no inference service configured")
	}

	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, apperrors.Join(apperrors.ErrPrediction, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, apperrors.Join(apperrors.ErrPrediction, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.Join(apperrors.ErrPrediction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, apperrors.Wrapf(apperrors.ErrPrediction, "upstream status %d: %s", resp.StatusCode, upstreamMessage(resp.Body))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrPrediction, "malformed upstream response: %v", err)
	}
	if out.Prediction == nil {
		return 0, apperrors.Wrapf(apperrors.ErrPrediction, "upstream response has no prediction")
	}
	return *out.Prediction, nil
}

// upstreamMessage prefers an {"error": ...} body and falls back to the raw text
func upstreamMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyLen))
	var out predictResponse
	if err := json.Unmarshal(raw, &out); err == nil && out.Error != "" {
		return out.Error
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "no body"
	}
	return msg
}

// Categorize is the keyword classifier served when no feature vector is sent
func Categorize(description string) string {
	if strings.Contains(strings.ToLower(description), "deadline") {
		return CategoryUrgent
	}
	return CategoryNormal
}
