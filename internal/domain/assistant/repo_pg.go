package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medilog/medilog/pkg/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL-backed consultation repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const consultationCols = `id, user_id, disclaimer_accepted, disclaimer_accepted_at,
	started_at, ended_at, messages, session_summary, red_flag_triggered`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var s Consultation
	var messages []byte
	err := row.Scan(&s.ID, &s.UserID, &s.DisclaimerAccepted, &s.DisclaimerAcceptedAt,
		&s.StartedAt, &s.EndedAt, &messages, &s.SessionSummary, &s.RedFlagTriggered)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 {
		if err := json.Unmarshal(messages, &s.Messages); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
	}
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Consultation) error {
	s.ID = uuid.New()
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	messages, err := json.Marshal(s.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO ai_consultations (id, user_id, disclaimer_accepted, disclaimer_accepted_at,
			started_at, ended_at, messages, session_summary, red_flag_triggered)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.UserID, s.DisclaimerAccepted, s.DisclaimerAcceptedAt,
		s.StartedAt, s.EndedAt, messages, s.SessionSummary, s.RedFlagTriggered)
	return err
}

func (r *repoPG) GetByOwner(ctx context.Context, id uuid.UUID, ownerID string) (*Consultation, error) {
	s, err := scanConsultation(r.pool.QueryRow(ctx,
		`SELECT `+consultationCols+` FROM ai_consultations WHERE id = $1 AND user_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("session not found")
	}
	return s, err
}

func (r *repoPG) Update(ctx context.Context, s *Consultation) error {
	messages, err := json.Marshal(s.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE ai_consultations SET ended_at=$3, messages=$4, session_summary=$5, red_flag_triggered=$6
		WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.EndedAt, messages, s.SessionSummary, s.RedFlagTriggered)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("session not found")
	}
	return nil
}

// ListSummaries returns session headers newest first. Message bodies stay in
// the database; only the count crosses the wire.
func (r *repoPG) ListSummaries(ctx context.Context, ownerID string) ([]*SessionSummaryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, started_at, ended_at, jsonb_array_length(messages), session_summary, red_flag_triggered
		FROM ai_consultations
		WHERE user_id = $1
		ORDER BY started_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*SessionSummaryItem
	for rows.Next() {
		var it SessionSummaryItem
		if err := rows.Scan(&it.SessionID, &it.StartedAt, &it.EndedAt,
			&it.MessageCount, &it.SessionSummary, &it.RedFlagTriggered); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
