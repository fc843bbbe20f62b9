package transcribe

import (
	"context"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Uploader performs the external speech-to-text call for one artifact.
type Uploader interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// OpenAIUploader uploads the converted artifact to an OpenAI-compatible
// transcription endpoint. Groq works through the same API shape with a
// different base URL.
type OpenAIUploader struct {
	client   *openai.Client
	model    string
	language string
}

func NewOpenAIUploader(apiKey, baseURL, model, language string) *OpenAIUploader {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIUploader{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		language: language,
	}
}

func (u *OpenAIUploader) Transcribe(ctx context.Context, path string) (string, error) {
	req := openai.AudioRequest{
		Model:    u.model,
		FilePath: path,
		Language: u.language,
	}

	start := time.Now()
	resp, err := u.client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("Transcribe: API call failed after %v: %v", duration, err)
		return "", fmt.Errorf("transcription request: %w", err)
	}

	log.Printf("Transcribe: transcribed %s in %v (%d chars)", path, duration, len(resp.Text))
	return resp.Text, nil
}
