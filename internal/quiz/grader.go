package quiz

import (
	"math"
	"strconv"
	"time"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/pool"
)

// GradeResult is the outcome of grading one session.
type GradeResult struct {
	Attempted        int
	Correct          int
	TimeTakenSeconds int64
	TimedOut         bool
	Status           domain.Status
	FinishTime       time.Time
}

// Grade scores a session's submitted answers against the pool at time now.
// It is a pure function of its inputs: neither the session nor the pool is
// modified, and the caller persists the result.
//
// Elapsed time is measured in UTC against the stored start time. Time taken
// is clamped to the allowed duration, so a late grading never reports more
// than the session's allotment. Malformed answer entries (unparseable id,
// unknown id, nil choice) are skipped silently and count as neither
// attempted nor correct.
func Grade(ss domain.Session, p *pool.Pool, answers map[string]*int64, now time.Time) GradeResult {
	now = now.UTC()

	elapsed := now.Sub(ss.StartTime.UTC()).Seconds()
	allowed := float64(ss.DurationMin) * 60
	timedOut := elapsed > allowed
	taken := int64(math.Floor(math.Min(elapsed, allowed)))

	var attempted, correct int
	for idStr, selected := range answers {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		q, ok := p.ByID(id)
		if !ok {
			continue
		}
		if selected == nil {
			continue
		}

		attempted++
		if *selected == q.Answer {
			correct++
		}
	}

	status := domain.StatusFinished
	if timedOut {
		status = domain.StatusTimedOut
	}

	return GradeResult{
		Attempted:        attempted,
		Correct:          correct,
		TimeTakenSeconds: taken,
		TimedOut:         timedOut,
		Status:           status,
		FinishTime:       now,
	}
}
