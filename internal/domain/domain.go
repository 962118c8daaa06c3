package domain

import "time"

// Status is the lifecycle state of a quiz session. A session starts as
// ongoing and moves exactly once to finished or timed_out.
type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
	StatusTimedOut Status = "timed_out"
)

// Question is one entry of the static pool. Answer is the index of the
// correct option and must never reach a client; see quiz.Sanitize.
type Question struct {
	ID         int64    `json:"id"`
	Category   string   `json:"category"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     int64    `json:"answer"`
	Techniques string   `json:"techniques,omitempty"`
	Hint       string   `json:"hint,omitempty"`
}

// SanitizedQuestion mirrors Question without the answer key.
type SanitizedQuestion struct {
	ID         int64    `json:"id"`
	Category   string   `json:"category"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Techniques string   `json:"techniques,omitempty"`
	Hint       string   `json:"hint,omitempty"`
}

// Session is one team's single attempt at a quiz, tracked from start to
// grading. Answers maps question IDs in their wire form (strings) to the
// selected option index; a nil value means the question was left blank.
type Session struct {
	SessionID        string
	TeamName         string
	StartTime        time.Time
	DurationMin      int
	QuestionIDs      []int64
	Answers          map[string]*int64
	Status           Status
	Attempted        int
	Correct          int
	TimeTakenSeconds int64
	FinishTime       *time.Time
}

// LeaderboardEntry is a read-only projection of a graded session.
type LeaderboardEntry struct {
	TeamName         string    `json:"team_name"`
	Correct          int       `json:"correct"`
	Attempted        int       `json:"attempted"`
	TimeTakenSeconds int64     `json:"time_taken_seconds"`
	FinishTime       time.Time `json:"finish_time"`
}
