// AngelaMos | 2026
// client.go

package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/breathnew/backend/internal/config"
)

const minKeyLength = 10

// Client is a thin REST client for the Gemini generateContent API. It
// paces outbound calls with a local limiter and retries quota errors
// with a linear backoff; every other failure surfaces immediately.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	speechModel string
	speechVoice string
	httpClient  *http.Client
	limiter     *rate.Limiter
	backoff     BackoffPolicy
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg config.AIConfig) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	return &Client{
		apiKey:      sanitizeKey(cfg.APIKey),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		speechModel: cfg.SpeechModel,
		speechVoice: cfg.SpeechVoice,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 2),
		backoff: BackoffPolicy{
			Base:        cfg.RetryBackoffBase,
			MaxAttempts: cfg.MaxRetries,
		},
		sleep: sleepCtx,
	}
}

// sanitizeKey repairs the usual copy-paste damage: surrounding
// whitespace and wrapping quotes. A key still shorter than the minimum
// cannot be real, so it is treated as absent.
func sanitizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.Trim(key, `"'`)
	key = strings.TrimSpace(key)

	if len(key) < minKeyLength {
		return ""
	}
	return key
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Ping reports configuration state for the readiness probe. No network
// call: a reachability check would burn quota on every probe.
func (c *Client) Ping(_ context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	return nil
}

type Turn struct {
	FromUser bool
	Text     string
}

type GenerateRequest struct {
	System  string
	History []Turn
	Text    string
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiGenConfig struct {
	Temperature        float64             `json:"temperature,omitempty"`
	MaxOutputTokens    int                 `json:"maxOutputTokens,omitempty"`
	ResponseModalities []string            `json:"responseModalities,omitempty"`
	SpeechConfig       *geminiSpeechConfig `json:"speechConfig,omitempty"`
}

type geminiSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate produces a coach reply. Quota errors are retried up to the
// policy's attempt budget; when the budget runs out the caller gets the
// friendly quota message wrapped in the last error.
func (c *Client) Generate(
	ctx context.Context,
	req GenerateRequest,
) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body := geminiRequest{
		Contents: make([]geminiContent, 0, len(req.History)+1),
		GenerationConfig: &geminiGenConfig{
			Temperature:     0.8,
			MaxOutputTokens: 512,
		},
	}

	if req.System != "" {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.System}},
		}
	}

	for _, turn := range req.History {
		role := "model"
		if turn.FromUser {
			role = "user"
		}
		body.Contents = append(body.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}

	body.Contents = append(body.Contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: req.Text}},
	})

	var lastErr error
	for attempt := 1; attempt <= c.backoff.MaxAttempts; attempt++ {
		text, err := c.doGenerate(ctx, c.model, body)
		if err == nil {
			return text, nil
		}

		lastErr = err
		if !IsQuotaError(err) {
			return "", err
		}

		if attempt < c.backoff.MaxAttempts {
			if err := c.sleep(ctx, c.backoff.Delay(attempt)); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("%s: %w", QuotaMessage, lastErr)
}

func (c *Client) doGenerate(
	ctx context.Context,
	model string,
	body geminiRequest,
) (string, error) {
	resp, err := c.post(ctx, model, body)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}

	// Empty payloads happen; the ellipsis keeps the conversation
	// shape intact instead of erroring.
	return "...", nil
}

func (c *Client) post(
	ctx context.Context,
	model string,
	body geminiRequest,
) (*geminiResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call assistant API: %w", err)
	}
	defer httpResp.Body.Close() //nolint:errcheck // response body close

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, &quotaError{
			err: fmt.Errorf("assistant API 429: %s", extractAPIError(raw)),
		}
	}

	if httpResp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf(
			"assistant API %d: %s",
			httpResp.StatusCode,
			extractAPIError(raw),
		)
		if IsQuotaError(apiErr) {
			return nil, &quotaError{err: apiErr}
		}
		return nil, apiErr
	}

	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &resp, nil
}

// extractAPIError pulls the upstream message out of an error payload,
// falling back to the raw body.
func extractAPIError(raw []byte) string {
	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err == nil && resp.Error != nil {
		if resp.Error.Status != "" {
			return fmt.Sprintf(
				"%s: %s",
				resp.Error.Status,
				resp.Error.Message,
			)
		}
		return resp.Error.Message
	}

	msg := strings.TrimSpace(string(raw))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return msg
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
