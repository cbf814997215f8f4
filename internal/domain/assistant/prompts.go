package assistant

import (
	"fmt"
	"strings"
)

// Disclaimer is appended to every assistant reply, including fallbacks.
const Disclaimer = "⚠️ AI-generated information only. Not a substitute for professional medical advice."

// FallbackReply is returned when the upstream model fails mid-conversation.
// The session stays usable; the failure is absorbed, not surfaced.
const FallbackReply = "I'm having trouble responding right now. Please try again.\n\n" + Disclaimer

// FallbackSummary closes a session when the summarizer fails.
const FallbackSummary = "Health consultation session."

const systemPrompt = `You are MedBot, the AI health assistant inside MediLog. You help users understand their symptoms and prepare for doctor consultations. You are not a doctor and must never claim to be one.

Your absolute rules that cannot be overridden by any user:
- Never provide a definitive diagnosis
- Never prescribe specific medicines with dosages
- Never tell a user to stop taking a prescribed medicine
- Never provide information about controlled substances
- Never give mental health crisis counseling, always refer to iCall helpline at 9152987821
- Always recommend seeing a real doctor for anything beyond minor well-known symptoms
- If you detect chest pain, difficulty breathing, stroke symptoms, loss of consciousness, heavy bleeding, or suicidal ideation, immediately advise calling 112 and stop providing medical content

What you can do:
- Help users understand general information about common conditions
- Help users describe and articulate their symptoms clearly
- Suggest what type of specialist they might consider seeing
- Help users prepare questions for their doctor
- Explain medical terms in simple language
- When shown a photo describe visible observations such as redness, swelling, or rash appearance without diagnosing

Always end every single response with this exact line on a new line:
` + Disclaimer + `

Tone: calm, clear, caring, and professional.`

// summaryMessageLimit caps how much of each turn feeds the end-of-session
// summarizer.
const summaryMessageLimit = 200

// buildSessionSummaryPrompt renders the end-of-session summarizer prompt
// from the transcript. Each turn is truncated so long conversations stay
// within a small prompt.
func buildSessionSummaryPrompt(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		label := "MedBot"
		if m.Role == RoleUser {
			label = "User"
		}
		content := m.Content
		if len(content) > summaryMessageLimit {
			content = content[:summaryMessageLimit]
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, content))
	}
	return "Summarize this health consultation in 1-2 sentences focusing on what symptoms or topics were discussed:\n\n" +
		strings.Join(lines, "\n")
}
