package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaGate checks bot-verification tokens against Google and is
// consumed only as a pass/fail boolean.
type RecaptchaGate struct {
	secret string
	client *http.Client
	logger *zap.Logger
}

// NewRecaptchaGate builds the gate with a bounded HTTP client.
func NewRecaptchaGate(secret string, logger *zap.Logger) *RecaptchaGate {
	return &RecaptchaGate{
		secret: secret,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

type siteVerifyResponse struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
}

// Check verifies the token. A token only passes when Google reports success
// with a positive score.
func (g *RecaptchaGate) Check(ctx context.Context, token string) (bool, error) {
	form := url.Values{}
	form.Set("secret", g.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, siteVerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify request failed: %w", err)
	}
	defer resp.Body.Close()

	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode siteverify response: %w", err)
	}

	passed := result.Success && result.Score > 0
	if !passed {
		g.logger.Warn("recaptcha verification failed", zap.Float64("score", result.Score))
	}
	return passed, nil
}
