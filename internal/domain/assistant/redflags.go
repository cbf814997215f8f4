package assistant

import "strings"

// redFlagKeywords are emergency phrases screened in every user message.
// Matching is case-insensitive substring; the screen runs on what the user
// typed, never on model output.
var redFlagKeywords = []string{
	"chest pain", "cant breathe", "can't breathe", "difficulty breathing",
	"shortness of breath", "stroke", "unconscious", "not waking up",
	"heavy bleeding", "bleeding heavily", "suicidal", "want to die",
	"end my life", "kill myself", "overdose",
}

// CheckRedFlags reports whether the text contains an emergency phrase.
func CheckRedFlags(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range redFlagKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
