package transcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-prosody/algorithms/common"
	"github.com/RyanBlaney/sonido-prosody/logging"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag
const wavFormatPCM = 1

// ErrInvalidAudioFormat is returned for payloads that are not decodable PCM WAV
var ErrInvalidAudioFormat = common.ErrInvalidAudioFormat

// AudioData represents decoded audio data
type AudioData struct {
	Channels   [][]float64   `json:"-"` // channel-major samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
}

// NumChannels returns the number of decoded channels
func (a *AudioData) NumChannels() int {
	return len(a.Channels)
}

// NumFrames returns the number of samples per channel
func (a *AudioData) NumFrames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	MinBase64Length int `json:"min_base64_length"` // shorter base64 payloads are rejected
	MinPayloadBytes int `json:"min_payload_bytes"` // smaller than a RIFF/WAVE header
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MinBase64Length: 1000,
		MinPayloadBytes: 44,
	}
}

// Decoder turns WAV payloads into channel data
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeFile decodes a WAV file
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	f, err := os.Open(filename)
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	return d.DecodeReader(f)
}

// DecodeBase64 decodes a base64-encoded WAV payload, as sent by browser
// clients. An optional data URL prefix is stripped.
func (d *Decoder) DecodeBase64(payload string) (*AudioData, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+len(";base64,"):]
	}

	if len(payload) < d.config.MinBase64Length {
		return nil, fmt.Errorf("%w: audio payload too short (%d base64 characters)", ErrInvalidAudioFormat, len(payload))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrInvalidAudioFormat, err)
	}

	return d.DecodeBytes(data)
}

// DecodeBytes decodes a WAV payload held in memory
func (d *Decoder) DecodeBytes(data []byte) (*AudioData, error) {
	if len(data) < d.config.MinPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes is too small for a WAV file", ErrInvalidAudioFormat, len(data))
	}
	return d.DecodeReader(bytes.NewReader(data))
}

// DecodeReader decodes a WAV stream. Only integer PCM is accepted.
func (d *Decoder) DecodeReader(reader io.ReadSeeker) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeReader",
	})

	dec := wav.NewDecoder(reader)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidAudioFormat)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: unsupported WAV format tag %d (integer PCM only)", ErrInvalidAudioFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		logger.Error(err, "Failed to read PCM buffer")
		return nil, fmt.Errorf("%w: failed to read PCM data: %v", ErrInvalidAudioFormat, err)
	}

	audioData, err := deinterleave(buf, int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	logger.Debug("Decoded WAV audio", logging.Fields{
		"sample_rate": audioData.SampleRate,
		"channels":    audioData.NumChannels(),
		"bit_depth":   audioData.BitDepth,
		"frames":      audioData.NumFrames(),
		"duration":    audioData.Duration.String(),
	})

	return audioData, nil
}

// deinterleave splits interleaved integer PCM into channels scaled to [-1, 1]
func deinterleave(buf *audio.IntBuffer, bitDepth int) (*AudioData, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: missing PCM format", ErrInvalidAudioFormat)
	}

	numChannels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	if numChannels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidAudioFormat, numChannels, sampleRate)
	}

	toFloat, err := sampleScaler(bitDepth)
	if err != nil {
		return nil, err
	}

	frames := len(buf.Data) / numChannels
	if frames == 0 {
		return nil, fmt.Errorf("%w: WAV file has no samples", ErrInvalidAudioFormat)
	}

	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := range frames {
		for c := range numChannels {
			channels[c][i] = toFloat(buf.Data[i*numChannels+c])
		}
	}

	return &AudioData{
		Channels:   channels,
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Duration:   time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second)),
	}, nil
}

// sampleScaler maps raw integer samples of the given bit depth to [-1, 1].
// 8-bit WAV is unsigned with a 128 midpoint; wider depths are signed.
func sampleScaler(bitDepth int) (func(int) float64, error) {
	switch bitDepth {
	case 8:
		return func(v int) float64 { return float64(v-128) / 128.0 }, nil
	case 16, 24, 32:
		fullScale := float64(int64(1) << (bitDepth - 1))
		return func(v int) float64 { return float64(v) / fullScale }, nil
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidAudioFormat, bitDepth)
	}
}

