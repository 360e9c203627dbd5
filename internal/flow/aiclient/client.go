// Package aiclient implements the AI Query Client (C6): an outbound
// HTTP call to the configured AI service, with its success/error
// outcome mapped into sentinel strings the flow engine stores into a
// variable — it never raises to the HTTP layer (§4.6).
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Sentinel error-variable values, preserved verbatim from the Python
// original (§9: these are part of the observable contract deployments
// may already pattern-match against).
const (
	ErrTimeout      = "ERRO_IA_TIMEOUT"
	ErrConnPrefix   = "ERRO_IA_CONEXAO"
	ErrUnexpected   = "ERRO_IA_INESPERADO"
	ErrAPIPrefix    = "ERRO_IA_API"
	ErrConfigIAMiss = "ERRO_CONFIG_IA"
	ErrConfigCtrl   = "ERRO_CONFIG_CTRL: URL da API de IA não configurada."
)

const requestTimeout = 60 * time.Second

// Request is the node's AI call parameters after template expansion.
type Request struct {
	Prompt        string
	APIKey        string
	SystemMessage *string
	Model         *string
	Temperature   *float64
	MaxTokens     *int
}

type wireRequest struct {
	Prompt        string   `json:"prompt"`
	APIKey        string   `json:"apiKey"`
	SystemMessage *string  `json:"systemMessage,omitempty"`
	Model         *string  `json:"model,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	MaxTokens     *int     `json:"maxTokens,omitempty"`
}

type wireResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Details  string `json:"details"`
	Message  string `json:"message"`
}

// Client dispatches AI queries over HTTP with a pooled transport (the
// 60s budget is per-call, not shared across calls).
type Client struct {
	url        string
	httpClient *http.Client
}

// New builds a Client targeting url (the configured
// V50MCP_AI_QUERY_API_URL). An empty url is valid input — Query then
// always returns ErrConfigCtrl, matching the source's behavior when
// the service starts without that variable configured.
func New(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Query performs the outbound call and returns the string that should
// be stored into the flow's saveResponseTo variable. It never returns
// a Go error — every failure mode maps to a sentinel string per §4.6.
func (c *Client) Query(ctx context.Context, req Request) string {
	if c.url == "" {
		return ErrConfigCtrl
	}

	body := wireRequest{
		Prompt:        req.Prompt,
		APIKey:        req.APIKey,
		SystemMessage: req.SystemMessage,
		Model:         req.Model,
		Temperature:   req.Temperature,
		MaxTokens:     req.MaxTokens,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprintf("%s: %s", ErrUnexpected, truncate(err.Error(), 100))
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Sprintf("%s: %s", ErrUnexpected, truncate(err.Error(), 100))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return fmt.Sprintf("%s: %s", ErrConnPrefix, truncate(err.Error(), 100))
	}
	defer resp.Body.Close()

	var wr wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return fmt.Sprintf("%s: %s", ErrUnexpected, truncate(err.Error(), 100))
	}

	if !wr.Success {
		detail := wr.Details
		if detail == "" {
			detail = wr.Message
		}
		return fmt.Sprintf("%s: %s", ErrAPIPrefix, truncate(detail, 200))
	}

	return wr.Response
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
