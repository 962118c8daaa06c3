package domain

const (
	EventNameSessionStarted = "session.started"
	EventNameSessionGraded  = "session.graded"
)

type EventSessionStarted struct {
	Session Session
}

func (EventSessionStarted) Name() string { return EventNameSessionStarted }

type EventSessionGraded struct {
	Session Session
}

func (EventSessionGraded) Name() string { return EventNameSessionGraded }
