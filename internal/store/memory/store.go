// Package memory provides an in-memory session store, used by tests and as
// a fallback when no backing store is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/errors"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func New() *Store {
	return &Store{sessions: make(map[string]domain.Session)}
}

func (s *Store) Insert(_ context.Context, ss domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[ss.SessionID]; ok {
		return errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("session already exists: %s", ss.SessionID))
	}

	s.sessions[ss.SessionID] = clone(ss)
	return nil
}

func (s *Store) Get(_ context.Context, sessionID string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ss, ok := s.sessions[sessionID]
	if !ok {
		return domain.Session{}, errors.NotFound("session not found: %s", sessionID)
	}

	return clone(ss), nil
}

func (s *Store) FinishOngoing(_ context.Context, ss domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[ss.SessionID]
	if !ok {
		return errors.NotFound("session not found: %s", ss.SessionID)
	}
	if stored.Status != domain.StatusOngoing {
		return errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("session already graded: %s", ss.SessionID))
	}

	s.sessions[ss.SessionID] = clone(ss)
	return nil
}

func (s *Store) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(s.sessions))
	for _, ss := range s.sessions {
		if ss.Status == domain.StatusOngoing || ss.FinishTime == nil {
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

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Correct != entries[j].Correct {
			return entries[i].Correct > entries[j].Correct
		}
		return entries[i].FinishTime.Before(entries[j].FinishTime)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// clone copies a session so stored records never alias caller memory.
func clone(ss domain.Session) domain.Session {
	out := ss

	out.QuestionIDs = make([]int64, len(ss.QuestionIDs))
	copy(out.QuestionIDs, ss.QuestionIDs)

	out.Answers = make(map[string]*int64, len(ss.Answers))
	for k, v := range ss.Answers {
		if v == nil {
			out.Answers[k] = nil
			continue
		}
		sel := *v
		out.Answers[k] = &sel
	}

	if ss.FinishTime != nil {
		ft := *ss.FinishTime
		out.FinishTime = &ft
	}

	return out
}
