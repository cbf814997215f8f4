// Package assistant implements the AI health consultation sessions: a
// transcript per session, a red-flag screen over what the user types, and a
// short summary written when the session ends.
package assistant

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a consultation transcript.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	HasImage  bool      `json:"hasImage"`
	Timestamp time.Time `json:"timestamp"`
}

// Consultation is a single assistant session. EndedAt nil means the session
// is still open. RedFlagTriggered is monotonic: once set it never clears,
// even when later messages are benign.
type Consultation struct {
	ID                   uuid.UUID  `json:"sessionId"`
	UserID               string     `json:"-"`
	DisclaimerAccepted   bool       `json:"disclaimerAccepted"`
	DisclaimerAcceptedAt *time.Time `json:"disclaimerAcceptedAt,omitempty"`
	StartedAt            time.Time  `json:"startedAt"`
	EndedAt              *time.Time `json:"endedAt,omitempty"`
	Messages             []Message  `json:"messages"`
	SessionSummary       string     `json:"sessionSummary"`
	RedFlagTriggered     bool       `json:"redFlagTriggered"`
}

// Ended reports whether the session has been closed.
func (c *Consultation) Ended() bool {
	return c.EndedAt != nil
}

// SessionSummaryItem is the list view of a session: header fields plus a
// message count, never the message bodies.
type SessionSummaryItem struct {
	SessionID        uuid.UUID  `json:"sessionId"`
	StartedAt        time.Time  `json:"startedAt"`
	EndedAt          *time.Time `json:"endedAt,omitempty"`
	MessageCount     int        `json:"messageCount"`
	SessionSummary   string     `json:"sessionSummary"`
	RedFlagTriggered bool       `json:"redFlagTriggered"`
}
