package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/errors"
	"github.com/YuthikaAnvitha/cyber-quest/internal/event"
	"github.com/YuthikaAnvitha/cyber-quest/internal/pool"
	"github.com/YuthikaAnvitha/cyber-quest/internal/quiz"
	"github.com/YuthikaAnvitha/cyber-quest/internal/store"
)

const (
	// DefaultDurationMin is the quiz duration of a Cyber Quest round.
	DefaultDurationMin = 25

	leaderboardLimit = 50
)

type Config struct {
	Store    store.Store
	Pool     *pool.Pool
	EventBus *event.Bus

	// Quota defaults to quiz.DefaultQuota, DurationMin to
	// DefaultDurationMin. Now and Rand are test seams.
	Quota       quiz.Quota
	DurationMin int
	Now         func() time.Time
	Rand        *rand.Rand
}

// Service orchestrates the session lifecycle: selection and sanitization on
// start, grading and persistence on submit, and the leaderboard projection.
type Service struct {
	store       store.Store
	pool        *pool.Pool
	eb          *event.Bus
	selector    *quiz.Selector
	quota       quiz.Quota
	durationMin int
	now         func() time.Time
}

func NewService(c Config) *Service {
	if c.Quota == nil {
		c.Quota = quiz.DefaultQuota
	}
	if c.DurationMin == 0 {
		c.DurationMin = DefaultDurationMin
	}
	if c.Now == nil {
		c.Now = time.Now
	}

	return &Service{
		store:       c.Store,
		pool:        c.Pool,
		eb:          c.EventBus,
		selector:    quiz.NewSelector(c.Rand),
		quota:       c.Quota,
		durationMin: c.DurationMin,
		now:         c.Now,
	}
}

type StartSessionRequest struct {
	TeamName string
}

type StartSessionResponse struct {
	SessionID   string
	StartTime   time.Time
	DurationMin int
	Questions   []domain.SanitizedQuestion
}

// StartSession draws a question set, persists a new ongoing session record
// and returns the sanitized questions. Nothing is persisted when validation
// or selection fails.
func (s *Service) StartSession(ctx context.Context, req StartSessionRequest) (*StartSessionResponse, error) {
	team := strings.TrimSpace(req.TeamName)
	if team == "" {
		return nil, errors.InvalidArgument("team name required")
	}

	selected, err := s.selector.Pick(s.pool, s.quota)
	if err != nil {
		// Pool misconfiguration, surfaced as a server error.
		return nil, errors.New(errors.CodeInternal,
			errors.WithMessagef("%s", err),
			errors.WithCause(err))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	questionIDs := make([]int64, 0, len(selected))
	for _, q := range selected {
		questionIDs = append(questionIDs, q.ID)
	}

	ss := domain.Session{
		SessionID:   id.String(),
		TeamName:    team,
		StartTime:   s.now().UTC(),
		DurationMin: s.durationMin,
		QuestionIDs: questionIDs,
		Answers:     map[string]*int64{},
		Status:      domain.StatusOngoing,
	}

	if err := s.store.Insert(ctx, ss); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	s.eb.Publish(ctx, domain.EventSessionStarted{Session: ss})

	return &StartSessionResponse{
		SessionID:   ss.SessionID,
		StartTime:   ss.StartTime,
		DurationMin: ss.DurationMin,
		Questions:   quiz.Sanitize(selected),
	}, nil
}

type SubmitSessionRequest struct {
	SessionID string
	Answers   map[string]*int64
}

type SubmitSessionResponse struct {
	Attempted        int
	Correct          int
	TimeTakenSeconds int64
	TimedOut         bool
}

// SubmitSession grades the submitted answers against the stored session and
// persists the result. The grading update only applies while the record is
// still ongoing; a repeated submit fails with an already-graded error.
func (s *Service) SubmitSession(ctx context.Context, req SubmitSessionRequest) (*SubmitSessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.InvalidArgument("session_id required")
	}

	ss, err := s.store.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	answers := req.Answers
	if answers == nil {
		answers = map[string]*int64{}
	}

	result := quiz.Grade(ss, s.pool, answers, s.now())

	ss.Answers = answers
	ss.Attempted = result.Attempted
	ss.Correct = result.Correct
	ss.TimeTakenSeconds = result.TimeTakenSeconds
	ss.Status = result.Status
	finish := result.FinishTime
	ss.FinishTime = &finish

	if err := s.store.FinishOngoing(ctx, ss); err != nil {
		return nil, err
	}

	s.eb.Publish(ctx, domain.EventSessionGraded{Session: ss})

	return &SubmitSessionResponse{
		Attempted:        result.Attempted,
		Correct:          result.Correct,
		TimeTakenSeconds: result.TimeTakenSeconds,
		TimedOut:         result.TimedOut,
	}, nil
}

// Leaderboard returns the top graded sessions ordered by correct count
// descending, as read from the store.
func (s *Service) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.store.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	// An empty board must encode as a JSON array, whatever the backend
	// returned for zero rows.
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}
