package transcode

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV encodes interleaved 16-bit samples to a temporary WAV file
func writeWAV(t *testing.T, sampleRate, numChannels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, numChannels, wavFormatPCM)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	return path
}

func TestDecodeFileStereo(t *testing.T) {
	// L: 16384, -32768  R: 0, 8192
	path := writeWAV(t, 8000, 2, []int{16384, 0, -32768, 8192})

	got, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, got.SampleRate)
	assert.Equal(t, 16, got.BitDepth)
	assert.Equal(t, 2, got.NumChannels())
	assert.Equal(t, 2, got.NumFrames())
	assert.InDeltaSlice(t, []float64{0.5, -1.0}, got.Channels[0], 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0.25}, got.Channels[1], 1e-9)
	assert.Equal(t, 250*time.Microsecond, got.Duration)
}

func TestDecodeBytesAndBase64(t *testing.T) {
	data := make([]int, 4000)
	for i := range data {
		data[i] = (i%64 - 32) * 512
	}
	raw, err := os.ReadFile(writeWAV(t, 16000, 1, data))
	require.NoError(t, err)

	dec := NewDecoder(nil)

	fromBytes, err := dec.DecodeBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, 16000, fromBytes.SampleRate)
	assert.Equal(t, 4000, fromBytes.NumFrames())

	encoded := base64.StdEncoding.EncodeToString(raw)
	fromBase64, err := dec.DecodeBase64(encoded)
	require.NoError(t, err)
	assert.Equal(t, fromBytes, fromBase64)

	fromDataURL, err := dec.DecodeBase64("data:audio/wav;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, fromBytes, fromDataURL)
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	dec := NewDecoder(nil)

	_, err := dec.DecodeBase64("UklGRg==")
	assert.ErrorIs(t, err, ErrInvalidAudioFormat)

	_, err = dec.DecodeBytes([]byte("RIFF"))
	assert.ErrorIs(t, err, ErrInvalidAudioFormat)

	junk := make([]byte, 256)
	for i := range junk {
		junk[i] = byte(i)
	}
	_, err = dec.DecodeBytes(junk)
	assert.ErrorIs(t, err, ErrInvalidAudioFormat)

	notBase64 := make([]byte, 1200)
	for i := range notBase64 {
		notBase64[i] = '*'
	}
	_, err = dec.DecodeBase64(string(notBase64))
	assert.ErrorIs(t, err, ErrInvalidAudioFormat)
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := NewDecoder(nil).DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSampleScaler(t *testing.T) {
	scale8, err := sampleScaler(8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, scale8(128))
	assert.Equal(t, -1.0, scale8(0))

	scale24, err := sampleScaler(24)
	require.NoError(t, err)
	assert.Equal(t, -1.0, scale24(-8388608))

	_, err = sampleScaler(12)
	assert.ErrorIs(t, err, ErrInvalidAudioFormat)
}
