package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-prosody/prosody"
)

func testReport() *Report {
	const sampleRate = 8000
	samples := make([]float64, sampleRate/2)
	for i := 1000; i < 2000; i++ {
		samples[i] = math.Sin(2 * math.Pi * 200 * float64(i) / sampleRate)
	}

	features := &prosody.ProsodyFeatures{
		SyllableBoundaries: []float64{0.15, 0.2, 0.45},
		PitchContour:       []float64{0, 0.25, 0.75, 0},
		Intensity:          []float64{0, 0.5, 1, 0.5},
		SpeechRate:         6,
		Timing: prosody.FrameTiming{
			SampleRate:       sampleRate,
			DurationSeconds:  0.5,
			IntensityHopSize: 80,
			PitchHopSize:     120,
		},
	}

	return NewReport(features, prosody.Summarize(features, 0.2), prosody.SampleBuffer{
		Samples:    samples,
		SampleRate: sampleRate,
	})
}

func TestForFormat(t *testing.T) {
	for _, name := range Formats {
		r, err := ForFormat(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, r.Extension())
	}

	_, err := ForFormat("yaml")
	assert.Error(t, err)
}

func TestTableRender(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewTable().Render(&out, testReport()))

	text := out.String()
	assert.Contains(t, text, "Prosody Feature")
	assert.Contains(t, text, "6.00 syllables/second")
	assert.Contains(t, text, "Estimated Words")
	assert.Contains(t, text, "Pitch Pattern")
}

func TestHTMLTableRender(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewHTMLTable().Render(&out, testReport()))

	html := out.String()
	assert.Contains(t, html, `<table class="prosody-table"`)
	assert.Contains(t, html, "<td style=\"padding: 8px; border: 1px solid #ddd;\">Number of Syllables</td>")
	assert.Contains(t, html, ">3</td>")
	assert.Contains(t, html, ">0.50</td>")
	assert.Equal(t, 7, strings.Count(html, "<tr"))
}

func TestJSONRender(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewJSON().Render(&out, testReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))

	assert.Contains(t, doc, "syllableBoundaries")
	assert.Contains(t, doc, "pitchContour")
	assert.Contains(t, doc, "intensity")
	assert.Equal(t, 6.0, doc["speechRate"])

	summary, ok := doc["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2.0, summary["wordCount"])
}

func TestSpectrogramRender(t *testing.T) {
	var out bytes.Buffer
	s := NewSpectrogram()
	require.NoError(t, s.Render(&out, testReport()))

	img, err := png.Decode(&out)
	require.NoError(t, err)

	// (4000-1024)/256+1 STFT frames wide
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, s.Height, img.Bounds().Dy())
}

func TestSpectrogramNeedsSamples(t *testing.T) {
	report := testReport()
	report.Buffer = prosody.SampleBuffer{}

	_, err := NewSpectrogram().Draw(report)
	assert.Error(t, err)
}
