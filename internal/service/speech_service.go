package service

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

	"interviewio/internal/config"
	"interviewio/internal/model"

	"github.com/tidwall/gjson"
)

var (
	ErrMissingText         = errors.New(`Missing "text" in body`)
	ErrSpeechNotConfigured = errors.New("GEMINI_API_KEY not set")
	ErrNoAudio             = errors.New("No audio returned from API")
)

// audioDataURLPrefix is what the playback element expects in front of the payload
const audioDataURLPrefix = "data:audio/wav;base64,"

// SpeechService proxies text-to-speech requests to the Gemini API
type SpeechService struct {
	config *config.SpeechConfig
	client *http.Client
}

// NewSpeechService creates a new speech service
func NewSpeechService(cfg *config.SpeechConfig) *SpeechService {
	return &SpeechService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Synthesize turns text into audio and returns it as a data URL
func (s *SpeechService) Synthesize(ctx context.Context, text string) (*model.SpeechResponse, error) {
	if text == "" {
		return nil, ErrMissingText
	}
	if !s.config.IsEnabled() {
		return nil, ErrSpeechNotConfigured
	}

	body, err := s.callGemini(ctx, text)
	if err != nil {
		return nil, err
	}

	b64 := gjson.GetBytes(body, "candidates.0.content.parts.0.inlineData.data").String()
	if b64 == "" {
		return nil, ErrNoAudio
	}

	return &model.SpeechResponse{URL: audioDataURLPrefix + b64}, nil
}

// callGemini requests audio-only output in the configured prebuilt voice
func (s *SpeechService) callGemini(ctx context.Context, text string) ([]byte, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": text},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]interface{}{
				"voiceConfig": map[string]interface{}{
					"prebuiltVoiceConfig": map[string]string{
						"voiceName": s.config.Voice,
					},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.ModelEndpoint(), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, fmt.Errorf("speech API returned %s", strings.TrimSpace(resp.Status))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid response from speech API")
	}

	return body, nil
}
