package render

import (
	"encoding/json"
	"io"

	"github.com/RyanBlaney/sonido-prosody/prosody"
)

// JSON renders features and summary as one indented document
type JSON struct {
	Indent string
}

// NewJSON creates a JSON renderer with two-space indentation
func NewJSON() *JSON {
	return &JSON{Indent: "  "}
}

// Extension implements Renderer
func (j *JSON) Extension() string { return ".json" }

type jsonDocument struct {
	*prosody.ProsodyFeatures
	Summary prosody.Summary `json:"summary"`
}

// Render implements Renderer
func (j *JSON) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	return enc.Encode(jsonDocument{
		ProsodyFeatures: report.Features,
		Summary:         report.Summary,
	})
}
