// Package postgres implements the session store on a Postgres table, one
// row per session keyed by session_id.
package postgres

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/errors"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Init creates the session table when it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS quiz_sessions (
	session_id         UUID PRIMARY KEY,
	team_name          TEXT NOT NULL,
	start_time         TIMESTAMPTZ NOT NULL,
	duration_min       INT NOT NULL,
	question_ids       BIGINT[] NOT NULL,
	answers            JSONB NOT NULL DEFAULT '{}',
	status             TEXT NOT NULL DEFAULT 'ongoing',
	attempted          INT,
	correct            INT,
	time_taken_seconds BIGINT,
	finish_time        TIMESTAMPTZ
);`

	if _, err := s.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create quiz_sessions: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, ss domain.Session) error {
	const stmt = `
INSERT INTO quiz_sessions (session_id, team_name, start_time, duration_min, question_ids, answers, status)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	answers, err := json.Marshal(ss.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	_, err = s.db.Exec(ctx, stmt,
		ss.SessionID, ss.TeamName, ss.StartTime, ss.DurationMin, ss.QuestionIDs, answers, ss.Status)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	// session_id is a UUID column; a malformed id cannot match any row, so
	// report it as unknown instead of failing at parameter encoding.
	if _, err := uuid.Parse(sessionID); err != nil {
		return domain.Session{}, errors.NotFound("session not found: %s", sessionID)
	}

	const stmt = `
SELECT session_id, team_name, start_time, duration_min, question_ids, answers, status,
       COALESCE(attempted, 0), COALESCE(correct, 0), COALESCE(time_taken_seconds, 0), finish_time
FROM quiz_sessions
WHERE session_id = $1;`

	var (
		ss      domain.Session
		answers []byte
	)
	err := s.db.QueryRow(ctx, stmt, sessionID).Scan(
		&ss.SessionID, &ss.TeamName, &ss.StartTime, &ss.DurationMin, &ss.QuestionIDs, &answers,
		&ss.Status, &ss.Attempted, &ss.Correct, &ss.TimeTakenSeconds, &ss.FinishTime)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, errors.NotFound("session not found: %s", sessionID)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("select session: %w", err)
	}

	if err := json.Unmarshal(answers, &ss.Answers); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal answers: %w", err)
	}

	return ss, nil
}

func (s *Store) FinishOngoing(ctx context.Context, ss domain.Session) error {
	if _, err := uuid.Parse(ss.SessionID); err != nil {
		return errors.NotFound("session not found: %s", ss.SessionID)
	}

	const stmt = `
UPDATE quiz_sessions
SET answers = $2, attempted = $3, correct = $4, time_taken_seconds = $5, status = $6, finish_time = $7
WHERE session_id = $1 AND status = 'ongoing';`

	answers, err := json.Marshal(ss.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	tag, err := s.db.Exec(ctx, stmt,
		ss.SessionID, answers, ss.Attempted, ss.Correct, ss.TimeTakenSeconds, ss.Status, ss.FinishTime)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the session is unknown or it already left the ongoing state.
		if _, err := s.Get(ctx, ss.SessionID); err != nil {
			return err
		}
		return errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("session already graded: %s", ss.SessionID))
	}

	return nil
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	const stmt = `
SELECT team_name, COALESCE(correct, 0), COALESCE(attempted, 0), COALESCE(time_taken_seconds, 0), finish_time
FROM quiz_sessions
WHERE status <> 'ongoing'
ORDER BY correct DESC, finish_time ASC
LIMIT $1;`

	rows, err := s.db.Query(ctx, stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.LeaderboardEntry, error) {
		var e domain.LeaderboardEntry
		if err := r.Scan(&e.TeamName, &e.Correct, &e.Attempted, &e.TimeTakenSeconds, &e.FinishTime); err != nil {
			return domain.LeaderboardEntry{}, err
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect leaderboard: %w", err)
	}

	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}
