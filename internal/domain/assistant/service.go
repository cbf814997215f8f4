package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medilog/medilog/internal/platform/ai"
	"github.com/medilog/medilog/pkg/apperr"
)

// Service runs the consultation lifecycle. Writes to a single session are
// serialized through a per-session mutex so concurrent messages cannot
// interleave their read-append-write cycles.
type Service struct {
	sessions Repository
	ai       ai.Client
	locks    sync.Map // session id -> *sync.Mutex
}

// NewService creates the assistant domain service.
func NewService(sessions Repository, aiClient ai.Client) *Service {
	return &Service{sessions: sessions, ai: aiClient}
}

func (s *Service) lock(id uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Start opens a new consultation session. The caller must accept the
// disclaimer explicitly; a session never starts without it.
func (s *Service) Start(ctx context.Context, ownerID string, disclaimerAccepted bool) (*Consultation, error) {
	if !disclaimerAccepted {
		return nil, apperr.Validation("disclaimer must be accepted to start a session")
	}

	now := time.Now()
	session := &Consultation{
		UserID:               ownerID,
		DisclaimerAccepted:   true,
		DisclaimerAcceptedAt: &now,
		StartedAt:            now,
		Messages:             []Message{},
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a full session transcript.
func (s *Service) Get(ctx context.Context, ownerID string, id uuid.UUID) (*Consultation, error) {
	return s.sessions.GetByOwner(ctx, id, ownerID)
}

// ListSessions returns the owner's session headers, newest first.
func (s *Service) ListSessions(ctx context.Context, ownerID string) ([]*SessionSummaryItem, error) {
	return s.sessions.ListSummaries(ctx, ownerID)
}

// PostMessage appends a user turn, obtains the assistant's reply, and
// persists both. An upstream model failure is absorbed into a fallback
// reply; the turn is still recorded and the session stays open. The
// red-flag screen runs on the user text only and the flag never clears.
func (s *Service) PostMessage(ctx context.Context, ownerID string, id uuid.UUID, text string, image *ai.Image) (string, bool, error) {
	if strings.TrimSpace(text) == "" && image == nil {
		return "", false, apperr.Validation("message text or image is required")
	}

	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.sessions.GetByOwner(ctx, id, ownerID)
	if err != nil {
		// don't keep mutexes for ids that never resolve to a session
		s.locks.Delete(id)
		return "", false, err
	}
	if session.Ended() {
		s.locks.Delete(id)
		return "", false, apperr.Validation("this session has ended, please start a new session")
	}

	now := time.Now()
	session.Messages = append(session.Messages, Message{
		Role:      RoleUser,
		Content:   text,
		HasImage:  image != nil,
		Timestamp: now,
	})

	history := make([]ai.Message, 0, len(session.Messages)+1)
	history = append(history, ai.Message{Role: "system", Content: systemPrompt})
	for _, m := range session.Messages {
		history = append(history, ai.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.ai.Chat(ctx, history, image)
	if err != nil {
		log.Warn().Err(err).Stringer("session_id", id).Msg("assistant chat failed, using fallback reply")
		reply = FallbackReply
	}

	session.Messages = append(session.Messages, Message{
		Role:      RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	})

	if CheckRedFlags(text) {
		session.RedFlagTriggered = true
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return "", false, err
	}
	return reply, session.RedFlagTriggered, nil
}

// End closes a session and records a one-line summary of the transcript.
// Ending twice is not an error: the second call returns the stored summary
// without invoking the summarizer again.
func (s *Service) End(ctx context.Context, ownerID string, id uuid.UUID) (string, error) {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.sessions.GetByOwner(ctx, id, ownerID)
	if err != nil {
		s.locks.Delete(id)
		return "", err
	}
	if session.Ended() {
		s.locks.Delete(id)
		if session.SessionSummary == "" {
			return "Session already ended.", nil
		}
		return session.SessionSummary, nil
	}

	summary, err := s.ai.Complete(ctx, buildSessionSummaryPrompt(session.Messages))
	if err != nil {
		log.Warn().Err(err).Stringer("session_id", id).Msg("session summary failed, using fallback")
		summary = FallbackSummary
	}

	now := time.Now()
	session.SessionSummary = summary
	session.EndedAt = &now

	if err := s.sessions.Update(ctx, session); err != nil {
		return "", err
	}
	s.locks.Delete(id)
	return summary, nil
}
