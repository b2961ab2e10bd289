package sarcasm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RyanBlaney/sonido-prosody/logging"
	"github.com/RyanBlaney/sonido-prosody/prosody"
)

const (
	DefaultBaseURL            = "https://api.openai.com/v1"
	DefaultChatModel          = "gpt-4o"
	DefaultTranscriptionModel = "whisper-1"
)

// ErrNoSpeech is returned when transcription yields no text
var ErrNoSpeech = errors.New("no speech detected in the recording")

// Client talks to an OpenAI-compatible API. It is safe for concurrent use.
type Client struct {
	HTTPClient         *http.Client
	APIKey             string
	BaseURL            string
	ChatModel          string
	TranscriptionModel string
	logger             logging.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionsRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      chatMessage `json:"message"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// VoiceResult is the outcome of transcript + prosody classification
type VoiceResult struct {
	Transcript string  `json:"transcript"`
	Analysis   string  `json:"analysis"`
	Verdict    Verdict `json:"verdict"`
}

// SentimentSegment is one phrase of a text analysis
type SentimentSegment struct {
	Text      string  `json:"text"`
	Sentiment string  `json:"sentiment"` // positive, negative, neutral or sarcastic
	Intensity float64 `json:"intensity"`
}

// TextResult is the outcome of text-only classification
type TextResult struct {
	Analysis      string             `json:"analysis"`
	IsSarcastic   bool               `json:"isSarcastic"`
	SentimentFlow []SentimentSegment `json:"sentimentFlow"`
}

// NewClient creates a client for the public OpenAI API
func NewClient(apiKey string) *Client {
	return &Client{
		HTTPClient:         &http.Client{Timeout: 60 * time.Second},
		APIKey:             apiKey,
		BaseURL:            DefaultBaseURL,
		ChatModel:          DefaultChatModel,
		TranscriptionModel: DefaultTranscriptionModel,
		logger: logging.WithFields(logging.Fields{
			"component": "sarcasm_client",
		}),
	}
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("openai error: status=%d body=%s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode openai response: %w", err)
	}
	return nil
}

// Transcribe uploads a WAV recording and returns its transcript
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("openai api key missing")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", c.TranscriptionModel); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", fmt.Sprintf("audio-%s.wav", uuid.NewString()))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(wav); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/audio/transcriptions"), &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var tr transcriptionResponse
	if err := c.do(req, &tr); err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	c.logger.Debug("Transcribed recording", logging.Fields{
		"bytes":      len(wav),
		"transcript": len(tr.Text),
	})
	return strings.TrimSpace(tr.Text), nil
}

func (c *Client) complete(ctx context.Context, system, user string, format *responseFormat) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("openai api key missing")
	}

	reqBody, err := json.Marshal(chatCompletionsRequest{
		Model: c.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: format,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/chat/completions"), bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var cr chatCompletionsResponse
	if err := c.do(req, &cr); err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// Complete sends one system + user exchange and returns the answer
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, nil)
}

// DetectVoiceSarcasm transcribes a recording and classifies it together with
// its prosody features. An empty transcript yields ErrNoSpeech.
func (c *Client) DetectVoiceSarcasm(ctx context.Context, wav []byte, features *prosody.ProsodyFeatures) (*VoiceResult, error) {
	transcript, err := c.Transcribe(ctx, wav)
	if err != nil {
		return nil, err
	}
	if transcript == "" {
		return nil, ErrNoSpeech
	}

	analysis, err := c.Complete(ctx, VoiceSystemPrompt, BuildVoicePrompt(transcript, features))
	if err != nil {
		return nil, err
	}

	result := &VoiceResult{
		Transcript: transcript,
		Analysis:   analysis,
		Verdict:    ParseVerdict(analysis),
	}

	c.logger.Info("Voice sarcasm analysis completed", logging.Fields{
		"verdict":     result.Verdict.String(),
		"speech_rate": features.SpeechRate,
		"syllables":   len(features.SyllableBoundaries),
	})
	return result, nil
}

// DetectTextSarcasm classifies text and breaks it into sentiment segments.
// An answer that is not valid JSON is kept as the analysis text with
// IsSarcastic false.
func (c *Client) DetectTextSarcasm(ctx context.Context, text string) (*TextResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	answer, err := c.complete(ctx, TextSystemPrompt, BuildTextPrompt(text), &responseFormat{Type: "json_object"})
	if err != nil {
		return nil, err
	}

	result := &TextResult{}
	if err := json.Unmarshal([]byte(answer), result); err != nil {
		c.logger.Warn("Model answer is not JSON, keeping it as plain analysis", logging.Fields{
			"error": err.Error(),
		})
		return &TextResult{Analysis: answer, SentimentFlow: []SentimentSegment{}}, nil
	}
	if result.SentimentFlow == nil {
		result.SentimentFlow = []SentimentSegment{}
	}
	return result, nil
}
