package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/domain"
)

// GeminiService calls the generative-language backend. The core treats it as
// an opaque, timeout-bound collaborator: any transport or API failure maps
// to ErrBackendUnavailable and the caller degrades without charging quota.
type GeminiService struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:     apiKey,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		model:      "gemini-1.5-flash",
		httpClient: &http.Client{Timeout: config.GenerateTimeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a fully-formed prompt and returns the model's text reply.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrBackendUnavailable, err)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", domain.ErrBackendUnavailable, err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		if result.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, result.Error.Message)
		}
		return "", fmt.Errorf("%w: empty response", domain.ErrBackendUnavailable)
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// SetBaseURL overrides the API endpoint, for tests.
func (s *GeminiService) SetBaseURL(url string) { s.baseURL = url }
