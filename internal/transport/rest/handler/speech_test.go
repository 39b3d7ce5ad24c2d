package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"interviewio/internal/config"
	"interviewio/internal/service"
)

func newSpeechHandler(t *testing.T, apiKey string, upstream http.HandlerFunc) *SpeechHandler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	return NewSpeechHandler(service.NewSpeechService(&config.SpeechConfig{
		APIKey:    apiKey,
		BaseURL:   srv.URL,
		Model:     "tts-test",
		Voice:     "Kore",
		TimeoutMS: 2000,
	}))
}

func postAI(h *SpeechHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Synthesize(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestSpeech_Synthesize(t *testing.T) {
	audio := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/wav","data":"UklGRg=="}}]}}]}`))
	}
	tests := []struct {
		name      string
		apiKey    string
		body      string
		upstream  http.HandlerFunc
		wantCode  int
		wantField string
		wantValue string
	}{
		{"missing text", "k", `{}`, audio, http.StatusBadRequest, "error", `Missing "text" in body`},
		{"empty text", "k", `{"text":""}`, audio, http.StatusBadRequest, "error", `Missing "text" in body`},
		{"invalid json", "k", `{`, audio, http.StatusBadRequest, "error", "invalid request body"},
		{"no api key", "", `{"text":"hi"}`, audio, http.StatusInternalServerError, "error", "GEMINI_API_KEY not set"},
		{"ok", "k", `{"text":"Tell me about yourself"}`, audio, http.StatusOK, "url", "data:audio/wav;base64,UklGRg=="},
		{
			"no audio", "k", `{"text":"hi"}`,
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"candidates":[]}`)) },
			http.StatusInternalServerError, "error", "No audio returned from API",
		},
		{
			"upstream error", "k", `{"text":"hi"}`,
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
			},
			http.StatusInternalServerError, "error", "quota exceeded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSpeechHandler(t, tt.apiKey, tt.upstream)
			rec := postAI(h, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if got := decodeBody(t, rec)[tt.wantField]; got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantField, got, tt.wantValue)
			}
		})
	}
}
