// Package sarcasm classifies speech as sarcastic or sincere by combining a
// transcript with prosody features and asking an OpenAI-compatible chat model.
package sarcasm

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-prosody/prosody"
)

// VoiceSystemPrompt instructs the model for transcript + prosody analysis
const VoiceSystemPrompt = `You are a voice analysis expert specializing in detecting sarcasm.
Analyze the transcribed text and prosody data to detect sarcasm.

BE VERY CONCISE. Provide a short, 1-2 sentence analysis followed by
a clear verdict of either "SARCASM DETECTED" or "NO SARCASM DETECTED".

Total response should be under 50 words.`

// TextSystemPrompt instructs the model for text-only sentiment flow analysis
const TextSystemPrompt = `You are a sarcasm and sentiment analysis assistant. Analyze the text and determine:
1. If it contains sarcasm
2. The sentiment flow throughout the text

Break down the text into segments (natural phrases or sentences) and analyze the sentiment of each segment.
Return your analysis as a JSON object with this structure:
{
  "analysis": "Your overall analysis text explaining the sarcasm detection",
  "isSarcastic": true or false,
  "sentimentFlow": [
    {
      "text": "segment of original text",
      "sentiment": "positive", "negative", "neutral", or "sarcastic",
      "intensity": number from 0 to 1 representing intensity
    }
  ]
}`

// BuildVoicePrompt renders the user message for a transcript and its prosody
func BuildVoicePrompt(transcript string, features *prosody.ProsodyFeatures) string {
	var b strings.Builder
	b.WriteString("Analyze this speech for signs of sarcasm:\n\n")
	fmt.Fprintf(&b, "Transcription: %q\n\n", strings.TrimSpace(transcript))
	b.WriteString("Prosody data:\n")
	fmt.Fprintf(&b, "- Speech rate: %.2f syllables per second\n", features.SpeechRate)
	fmt.Fprintf(&b, "- Number of syllables detected: %d\n", len(features.SyllableBoundaries))
	fmt.Fprintf(&b, "- Pitch variation: %s\n\n", prosody.DescribePitchVariation(features.PitchContour))
	b.WriteString("Give a brief, clear analysis and verdict.")
	return b.String()
}

// BuildTextPrompt renders the user message for text-only analysis
func BuildTextPrompt(text string) string {
	return fmt.Sprintf("Analyze this text for sarcasm and sentiment flow: %q", text)
}
