// AngelaMos | 2026
// client_test.go

package coach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/breathnew/backend/internal/config"
)

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		APIKey:            "test-key-1234567890",
		BaseURL:           baseURL,
		Model:             "test-model",
		SpeechModel:       "test-speech-model",
		SpeechVoice:       "Kore",
		Timeout:           5 * time.Second,
		MaxRetries:        3,
		RetryBackoffBase:  1500 * time.Millisecond,
		RequestsPerMinute: 6000,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(testAIConfig(server.URL))

	var slept []time.Duration
	client.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	return client, &slept
}

func textResponse(text string) string {
	return fmt.Sprintf(
		`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`,
		text,
	)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "abcdefghij1234", "abcdefghij1234"},
		{"padded", "  abcdefghij1234  ", "abcdefghij1234"},
		{"double quoted", `"abcdefghij1234"`, "abcdefghij1234"},
		{"single quoted", "'abcdefghij1234'", "abcdefghij1234"},
		{"quoted and padded", ` "abcdefghij1234" `, "abcdefghij1234"},
		{"too short", "abc", ""},
		{"empty", "", ""},
		{"quotes only", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sanitizeKey(tt.in))
		})
	}
}

func TestGenerateUnconfigured(t *testing.T) {
	client := NewClient(config.AIConfig{
		APIKey:           "short",
		MaxRetries:       3,
		RetryBackoffBase: time.Second,
	})

	require.False(t, client.Configured())
	require.ErrorIs(t, client.Ping(context.Background()), ErrNotConfigured)

	_, err := client.Generate(context.Background(), GenerateRequest{
		Text: "hello",
	})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateSuccess(t *testing.T) {
	client, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key-1234567890", r.Header.Get("x-goog-api-key"))
		fmt.Fprint(w, textResponse("Stay strong."))
	})

	text, err := client.Generate(context.Background(), GenerateRequest{
		System: "be kind",
		Text:   "help",
	})
	require.NoError(t, err)
	require.Equal(t, "Stay strong.", text)
	require.Empty(t, *slept)
}

func TestGenerateRetriesQuotaErrorsOnly(t *testing.T) {
	var calls int
	client, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`)
	})

	_, err := client.Generate(context.Background(), GenerateRequest{
		Text: "help",
	})
	require.Error(t, err)
	require.True(t, IsQuotaError(err))
	require.Contains(t, err.Error(), QuotaMessage)

	// Exactly the attempt budget, with linear backoff between tries.
	require.Equal(t, 3, calls)
	require.Equal(
		t,
		[]time.Duration{1500 * time.Millisecond, 3000 * time.Millisecond},
		*slept,
	)
}

func TestGenerateRecoversMidRetry(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
			return
		}
		fmt.Fprint(w, textResponse("Back online."))
	})

	text, err := client.Generate(context.Background(), GenerateRequest{
		Text: "help",
	})
	require.NoError(t, err)
	require.Equal(t, "Back online.", text)
	require.Equal(t, 3, calls)
}

func TestGenerateDoesNotRetryOtherErrors(t *testing.T) {
	var calls int
	client, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"bad request"}}`)
	})

	_, err := client.Generate(context.Background(), GenerateRequest{
		Text: "help",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "INVALID_ARGUMENT")
	require.Equal(t, 1, calls)
	require.Empty(t, *slept)
}

func TestGenerateEmptyPayloadBecomesEllipsis(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	})

	text, err := client.Generate(context.Background(), GenerateRequest{
		Text: "help",
	})
	require.NoError(t, err)
	require.Equal(t, "...", text)
}

func TestSynthesize(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"AAAA"}}]}}]}`)
	})

	result, err := client.Synthesize(context.Background(), "well done")
	require.NoError(t, err)
	require.Equal(t, "AAAA", result.AudioBase64)
	require.Equal(t, 24000, result.SampleRateHz)
	require.Equal(t, 1, result.Channels)
	require.Equal(t, 16, result.BitsPerSample)
}

func TestSynthesizeNoAudio(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse("text, not audio"))
	})

	_, err := client.Synthesize(context.Background(), "well done")
	require.Error(t, err)
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed quota error", &quotaError{err: errors.New("x")}, true},
		{"wrapped typed", fmt.Errorf("call: %w", &quotaError{err: errors.New("x")}), true},
		{"429 in message", errors.New("upstream returned 429"), true},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: slow down"), true},
		{"quota in message", errors.New("daily quota exceeded"), true},
		{"plain failure", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsQuotaError(tt.err))
		})
	}
}

func TestBackoffPolicy(t *testing.T) {
	policy := BackoffPolicy{Base: 1500 * time.Millisecond, MaxAttempts: 3}

	require.Equal(t, 1500*time.Millisecond, policy.Delay(1))
	require.Equal(t, 3000*time.Millisecond, policy.Delay(2))
	require.Equal(t, 4500*time.Millisecond, policy.Delay(3))
	require.Zero(t, policy.Delay(0))
	require.Zero(t, policy.Delay(4))
}
