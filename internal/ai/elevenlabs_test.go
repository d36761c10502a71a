package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewElevenLabsRequiresKey(t *testing.T) {
	if _, err := NewElevenLabs("", ""); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestElevenLabsModelResolution(t *testing.T) {
	c, err := NewElevenLabs("el-key", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.ModelID() != elevenLabsDefaultModel {
		t.Fatalf("expected default model, got %s", c.ModelID())
	}

	t.Setenv("NPCVOICE_TTS_MODEL", "env-tts-model")
	c, err = NewElevenLabs("el-key", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.ModelID() != "env-tts-model" {
		t.Fatalf("env model not applied: %s", c.ModelID())
	}

	c, err = NewElevenLabs("el-key", "explicit-tts-model")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.ModelID() != "explicit-tts-model" {
		t.Fatalf("explicit model should win over env: %s", c.ModelID())
	}
}

func TestGenerateSpeechSuccess(t *testing.T) {
	audio := []byte{0xff, 0xf3, 0x01, 0x02}
	var gotPath, gotKey, gotAccept string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		gotAccept = r.Header.Get("accept")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write(audio)
	}))
	defer srv.Close()

	c, err := NewElevenLabs("el-key", "test-model", WithElevenLabsBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := c.GenerateSpeech(context.Background(), "Greetings, traveler.")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Fatalf("audio bytes not returned unmodified: %v", got)
	}
	if gotPath != "/v1/text-to-speech/"+elevenLabsVoiceID {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "el-key" {
		t.Fatalf("xi-api-key header missing: %q", gotKey)
	}
	if gotAccept != "audio/mpeg" {
		t.Fatalf("accept header missing: %q", gotAccept)
	}

	var req elevenLabsTTSRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if req.Text != "Greetings, traveler." {
		t.Fatalf("text mismatch: %q", req.Text)
	}
	if req.ModelID != "test-model" {
		t.Fatalf("model_id mismatch: %q", req.ModelID)
	}
	if req.VoiceSettings.Stability != 0.5 || req.VoiceSettings.SimilarityBoost != 0.5 {
		t.Fatalf("voice settings mismatch: %+v", req.VoiceSettings)
	}
}

func TestGenerateSpeechNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"invalid api key"}`)
	}))
	defer srv.Close()

	c, err := NewElevenLabs("bad-key", "", WithElevenLabsBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	audio, err := c.GenerateSpeech(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error on 401")
	}
	if audio != nil {
		t.Fatalf("expected nil audio on failure")
	}
	var apiErr *ElevenLabsAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ElevenLabsAPIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status mismatch: %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"detail":"invalid api key"}` {
		t.Fatalf("error should carry response body: %q", apiErr.Body)
	}
}

func TestGenerateSpeechTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := NewElevenLabs("el-key", "", WithElevenLabsBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := c.GenerateSpeech(context.Background(), "hello"); err == nil {
		t.Fatalf("expected transport error")
	}
}
