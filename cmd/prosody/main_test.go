package main

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBurstWAV writes one second of 16 kHz mono audio with two 200 Hz bursts
func writeBurstWAV(t *testing.T, dir string) string {
	t.Helper()

	const sampleRate = 16000
	data := make([]int, sampleRate)
	for _, start := range []int{1600, 8000} {
		for k := range 1600 {
			data[start+k] = int(16000 * math.Sin(2*math.Pi*200*float64(k)/sampleRate))
		}
	}

	path := filepath.Join(dir, "speech.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCommandWithConfig(t, "", args...)
}

// runCommandWithConfig runs the root command with extraYAML appended to a
// quiet logging config
func runCommandWithConfig(t *testing.T, extraYAML string, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := "log:\n  level: error\n  color: false\n" + extraYAML
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "prosody dev")
}

func TestAnalyzeJSON(t *testing.T) {
	path := writeBurstWAV(t, t.TempDir())

	out, err := runCommand(t, "analyze", path, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		SyllableBoundaries []float64 `json:"syllableBoundaries"`
		SpeechRate         float64   `json:"speechRate"`
		Summary            struct {
			WordCount int `json:"wordCount"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.SyllableBoundaries, 2)
	assert.InDelta(t, 2.0, doc.SpeechRate, 1e-9)
	assert.Equal(t, 2, doc.Summary.WordCount)
}

func TestAnalyzeWritesPNG(t *testing.T) {
	dir := t.TempDir()
	path := writeBurstWAV(t, dir)

	_, err := runCommand(t, "analyze", path, "--format", "png")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "speech.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	path := writeBurstWAV(t, t.TempDir())
	_, err := runCommand(t, "analyze", path, "--format", "yaml")
	assert.Error(t, err)
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := runCommand(t, "analyze", filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

// fakeChatServer answers transcription and chat requests with fixed text
func fakeChatServer(t *testing.T, transcript, answer string) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		file, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()

		head := make([]byte, 4)
		_, err = file.Read(head)
		assert.NoError(t, err)
		assert.Equal(t, "RIFF", string(head))

		_ = json.NewEncoder(w).Encode(map[string]string{"text": transcript})
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": answer}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return "openai:\n  api_key: test-key\n  base_url: " + srv.URL + "\n  timeout: 5s\n"
}

func TestDetectRecording(t *testing.T) {
	path := writeBurstWAV(t, t.TempDir())
	openai := fakeChatServer(t, "Oh great, another meeting.", "Flat tone on praise words. SARCASM DETECTED")

	out, err := runCommandWithConfig(t, openai, "detect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Oh great, another meeting.")
	assert.Contains(t, out, "Flat tone on praise words. SARCASM DETECTED")
	assert.Contains(t, out, "sarcastic")
	assert.Contains(t, out, "Speech Rate")
}

func TestDetectText(t *testing.T) {
	answer := `{"analysis":"Praise contradicts the outage.","isSarcastic":true,"sentimentFlow":[{"text":"Great uptime","sentiment":"sarcastic","intensity":0.9}]}`
	openai := fakeChatServer(t, "", answer)

	out, err := runCommandWithConfig(t, openai, "detect", "--text", "Great uptime this week")
	require.NoError(t, err)

	assert.Contains(t, out, "Praise contradicts the outage.")
	assert.Contains(t, out, "Sarcastic: true")
	assert.True(t, strings.Contains(out, "0.90"))
}

func TestDetectArgs(t *testing.T) {
	_, err := runCommand(t, "detect")
	assert.Error(t, err)

	_, err = runCommand(t, "detect", "a.wav", "--text", "hi")
	assert.Error(t, err)
}
