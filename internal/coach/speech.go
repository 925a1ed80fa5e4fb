// AngelaMos | 2026
// speech.go

package coach

import (
	"context"
	"fmt"
)

// Speech output format. The API returns raw PCM; the playback side
// needs these numbers to build a playable waveform, so they travel with
// every response.
const (
	speechSampleRateHz  = 24000
	speechChannels      = 1
	speechBitsPerSample = 16
)

type SpeechResult struct {
	AudioBase64   string `json:"audioBase64"`
	MimeType      string `json:"mimeType"`
	SampleRateHz  int    `json:"sampleRateHz"`
	Channels      int    `json:"channels"`
	BitsPerSample int    `json:"bitsPerSample"`
}

// Synthesize turns coach text into speech: base64-encoded 16-bit mono
// PCM at 24 kHz. Speech requests are not retried; a missed read-aloud
// is not worth burning quota on.
func (c *Client) Synthesize(
	ctx context.Context,
	text string,
) (*SpeechResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: text}},
			},
		},
		GenerationConfig: &geminiGenConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig:       speechConfig(c.speechVoice),
		},
	}

	resp, err := c.post(ctx, c.speechModel, body)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	if len(resp.Candidates) > 0 {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return &SpeechResult{
					AudioBase64:   part.InlineData.Data,
					MimeType:      part.InlineData.MimeType,
					SampleRateHz:  speechSampleRateHz,
					Channels:      speechChannels,
					BitsPerSample: speechBitsPerSample,
				}, nil
			}
		}
	}

	return nil, fmt.Errorf("synthesize speech: no audio in response")
}

func speechConfig(voice string) *geminiSpeechConfig {
	cfg := &geminiSpeechConfig{}
	cfg.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voice
	return cfg
}
