package sarcasm

import "strings"

// Verdict is the classification extracted from a model answer
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictSarcastic
	VerdictNotSarcastic
)

func (v Verdict) String() string {
	switch v {
	case VerdictSarcastic:
		return "sarcastic"
	case VerdictNotSarcastic:
		return "not sarcastic"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseVerdict finds the verdict phrase in a model answer. The negative
// phrase contains the positive one, so it is matched first.
func ParseVerdict(answer string) Verdict {
	upper := strings.ToUpper(answer)
	switch {
	case strings.Contains(upper, "NO SARCASM DETECTED"):
		return VerdictNotSarcastic
	case strings.Contains(upper, "SARCASM DETECTED"):
		return VerdictSarcastic
	default:
		return VerdictUnknown
	}
}
