package assistant

import (
	"strings"
	"testing"
)

func TestBuildSessionSummaryPrompt(t *testing.T) {
	prompt := buildSessionSummaryPrompt([]Message{
		{Role: RoleUser, Content: "I keep getting headaches"},
		{Role: RoleAssistant, Content: "How long have they lasted?"},
	})

	if !strings.Contains(prompt, "User: I keep getting headaches") {
		t.Errorf("user turn missing: %q", prompt)
	}
	if !strings.Contains(prompt, "MedBot: How long have they lasted?") {
		t.Errorf("assistant turn missing: %q", prompt)
	}
	if !strings.HasPrefix(prompt, "Summarize this health consultation") {
		t.Errorf("unexpected prompt prefix: %q", prompt)
	}
}

func TestBuildSessionSummaryPromptTruncatesLongTurns(t *testing.T) {
	long := strings.Repeat("a", 500)
	prompt := buildSessionSummaryPrompt([]Message{{Role: RoleUser, Content: long}})

	if strings.Contains(prompt, long) {
		t.Fatal("long turn not truncated")
	}
	if !strings.Contains(prompt, "User: "+strings.Repeat("a", summaryMessageLimit)) {
		t.Fatal("truncated turn missing")
	}
}

func TestDisclaimerInSystemPrompt(t *testing.T) {
	if !strings.Contains(systemPrompt, Disclaimer) {
		t.Error("system prompt does not pin the disclaimer line")
	}
	if !strings.HasSuffix(FallbackReply, Disclaimer) {
		t.Error("fallback reply does not end with the disclaimer")
	}
}
