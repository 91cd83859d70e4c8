// Package assistant talks to the hosted text-generation provider.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fylo-cloud/fylo/internal/shared/config"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiClient calls the generateContent endpoint with a single user turn.
type GeminiClient struct {
	httpClient *resty.Client
	apiKey     string
	model      string
	logger     logger.Interface
}

// NewGeminiClient returns nil when no API key is configured.
func NewGeminiClient(cfg config.AssistantConfig, log logger.Interface) *GeminiClient {
	if cfg.APIKey == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &GeminiClient{
		httpClient: client,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     log,
	}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}

	var (
		result  generateResponse
		failure apiError
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("model", c.model).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&result).
		SetError(&failure).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("failed to call generateContent: %w", err)
	}

	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		c.logger.Warnw("generateContent returned an error",
			"status_code", resp.StatusCode(),
			"model", c.model,
			"message", utils.Excerpt(msg, 200),
		)
		return "", fmt.Errorf("generateContent error: %s (status: %d)", msg, resp.StatusCode())
	}

	var b strings.Builder
	for _, cand := range result.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}

	c.logger.Debugw("generateContent completed", "model", c.model, "chars", b.Len())
	return b.String(), nil
}
