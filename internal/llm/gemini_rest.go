package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiRESTProvider calls the Gemini generateContent endpoint directly,
// passing the API key as a query parameter.
type GeminiRESTProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewGeminiRESTProvider creates a REST Gemini provider. A nil client uses
// http.DefaultClient; deadlines come from the request context.
func NewGeminiRESTProvider(cfg GeminiConfig, client *http.Client) (*GeminiRESTProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultGeminiBaseURL
	}
	return &GeminiRESTProvider{
		httpClient: client,
		baseURL:    base,
		apiKey:     cfg.APIKey,
		model:      resolveModel(cfg.Model, geminiModels),
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *GeminiRESTProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body := geminiRequest{
		Contents: make([]geminiContent, len(req.Messages)),
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	for i, m := range req.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		body.Contents[i] = geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}}
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	if req.Schema != nil {
		body.GenerationConfig.ResponseMIMEType = "application/json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: redactKey(err, p.apiKey)}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, mapGeminiStatus(httpResp, raw)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("no candidate text in response")}
	}

	cand := parsed.Candidates[0]
	content := json.RawMessage(cand.Content.Parts[0].Text)

	if cand.FinishReason == "MAX_TOKENS" && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	resp := &Response{
		Content:    content,
		Model:      p.model,
		StopReason: "end",
	}
	if parsed.ModelVersion != "" {
		resp.Model = parsed.ModelVersion
	}
	if cand.FinishReason == "MAX_TOKENS" {
		resp.StopReason = "max_tokens"
	}
	if u := parsed.UsageMetadata; u != nil {
		resp.Usage = Usage{
			InputTokens:  u.PromptTokenCount,
			OutputTokens: u.CandidatesTokenCount,
			TotalTokens:  u.TotalTokenCount,
		}
	}
	return resp, nil
}

func (p *GeminiRESTProvider) ModelID() string {
	return p.model
}

func mapGeminiStatus(resp *http.Response, raw []byte) error {
	msg := http.StatusText(resp.StatusCode)
	var eb geminiErrorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error.Message != "" {
		msg = eb.Error.Message
	}
	err := fmt.Errorf("gemini: HTTP %d: %s", resp.StatusCode, msg)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), Err: err}
	case rejectedStatus(resp.StatusCode):
		return &ErrRequestRejected{StatusCode: resp.StatusCode, Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

func parseRetryAfter(v string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// redactKey strips the API key from transport errors, which echo the URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED")
	msg = strings.ReplaceAll(msg, key, "REDACTED")
	return fmt.Errorf("%s", msg)
}
