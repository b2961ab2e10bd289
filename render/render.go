// Package render formats prosody analysis results for people: terminal
// tables, HTML fragments, JSON documents and annotated spectrogram images.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/RyanBlaney/sonido-prosody/prosody"
)

// Report is everything a renderer may draw from one analysis
type Report struct {
	Features *prosody.ProsodyFeatures
	Summary  prosody.Summary

	// Buffer is the analyzed audio; only the spectrogram renderer reads it
	Buffer prosody.SampleBuffer
}

// NewReport bundles features with their summary
func NewReport(features *prosody.ProsodyFeatures, summary prosody.Summary, buf prosody.SampleBuffer) *Report {
	return &Report{Features: features, Summary: summary, Buffer: buf}
}

// Renderer writes a Report in one output format
type Renderer interface {
	Render(w io.Writer, report *Report) error
	// Extension is the conventional file extension, including the dot
	Extension() string
}

// Formats lists the names accepted by ForFormat
var Formats = []string{"table", "html", "json", "png"}

// ForFormat returns the renderer for a format name
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "table", "text", "":
		return NewTable(), nil
	case "html":
		return NewHTMLTable(), nil
	case "json":
		return NewJSON(), nil
	case "png", "spectrogram":
		return NewSpectrogram(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", name, strings.Join(Formats, ", "))
	}
}

// row is one line of the feature table
type row struct {
	Feature string
	Value   string
}

func summaryRows(s prosody.Summary) []row {
	return []row{
		{"Speech Rate", fmt.Sprintf("%.2f syllables/second", s.SpeechRate)},
		{"Number of Syllables", fmt.Sprintf("%d", s.SyllableCount)},
		{"Estimated Words", fmt.Sprintf("%d", s.WordCount)},
		{"Average Pitch Variation", fmt.Sprintf("%.2f", s.AveragePitch)},
		{"Average Intensity", fmt.Sprintf("%.2f", s.AverageIntensity)},
		{"Pitch Pattern", s.PitchPattern},
	}
}
