// Package redis implements the session store on Redis: one hash per session
// plus a sorted-set index on the correct count that serves the leaderboard
// read.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/errors"
)

// finishScript applies the grading update only while the session is still
// ongoing, and maintains the leaderboard index in the same step.
// Returns -1 for unknown sessions, 0 when already graded, 1 on success.
var finishScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'status')
if not status then
	return -1
end
if status ~= 'ongoing' then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'status', ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[4])
return 1
`)

// insertScript creates the session hash only when the key does not exist
// yet, so two inserts of the same id cannot both succeed.
// Returns 0 when the session already exists, 1 on success.
var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'status', ARGV[2])
return 1
`)

type Store struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// record is the persisted form of a session.
type record struct {
	SessionID        string            `json:"session_id"`
	TeamName         string            `json:"team_name"`
	StartTime        time.Time         `json:"start_time"`
	DurationMin      int               `json:"duration_min"`
	QuestionIDs      []int64           `json:"question_ids"`
	Answers          map[string]*int64 `json:"answers"`
	Status           domain.Status     `json:"status"`
	Attempted        int               `json:"attempted"`
	Correct          int               `json:"correct"`
	TimeTakenSeconds int64             `json:"time_taken_seconds"`
	FinishTime       *time.Time        `json:"finish_time,omitempty"`
}

func (s *Store) Insert(ctx context.Context, ss domain.Session) error {
	data, err := json.Marshal(toRecord(ss))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	res, err := insertScript.Run(ctx, s.client,
		[]string{s.sessionKey(ss.SessionID)},
		data, string(ss.Status),
	).Int()
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if res == 0 {
		return errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("session already exists: %s", ss.SessionID))
	}
	return nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	data, err := s.client.HGet(ctx, s.sessionKey(sessionID), "data").Bytes()
	if err == redis.Nil {
		return domain.Session{}, errors.NotFound("session not found: %s", sessionID)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return fromRecord(rec), nil
}

func (s *Store) FinishOngoing(ctx context.Context, ss domain.Session) error {
	data, err := json.Marshal(toRecord(ss))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	res, err := finishScript.Run(ctx, s.client,
		[]string{s.sessionKey(ss.SessionID), s.leaderboardKey()},
		data, string(ss.Status), ss.Correct, ss.SessionID,
	).Int()
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}

	switch res {
	case -1:
		return errors.NotFound("session not found: %s", ss.SessionID)
	case 0:
		return errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("session already graded: %s", ss.SessionID))
	}

	return nil
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	ids, err := s.client.ZRevRange(ctx, s.leaderboardKey(), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard range: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		ss, err := s.Get(ctx, id)
		if err != nil {
			if errors.IsCode(err, errors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		if ss.FinishTime == nil {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			TeamName:         ss.TeamName,
			Correct:          ss.Correct,
			Attempted:        ss.Attempted,
			TimeTakenSeconds: ss.TimeTakenSeconds,
			FinishTime:       *ss.FinishTime,
		})
	}

	return entries, nil
}

func (s *Store) sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

func (s *Store) leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", s.prefix)
}

func toRecord(ss domain.Session) record {
	return record{
		SessionID:        ss.SessionID,
		TeamName:         ss.TeamName,
		StartTime:        ss.StartTime,
		DurationMin:      ss.DurationMin,
		QuestionIDs:      ss.QuestionIDs,
		Answers:          ss.Answers,
		Status:           ss.Status,
		Attempted:        ss.Attempted,
		Correct:          ss.Correct,
		TimeTakenSeconds: ss.TimeTakenSeconds,
		FinishTime:       ss.FinishTime,
	}
}

func fromRecord(rec record) domain.Session {
	return domain.Session{
		SessionID:        rec.SessionID,
		TeamName:         rec.TeamName,
		StartTime:        rec.StartTime,
		DurationMin:      rec.DurationMin,
		QuestionIDs:      rec.QuestionIDs,
		Answers:          rec.Answers,
		Status:           rec.Status,
		Attempted:        rec.Attempted,
		Correct:          rec.Correct,
		TimeTakenSeconds: rec.TimeTakenSeconds,
		FinishTime:       rec.FinishTime,
	}
}
