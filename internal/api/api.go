package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/errors"
	"github.com/YuthikaAnvitha/cyber-quest/internal/session"
)

type Config struct {
	Router  gin.IRouter
	Session *session.Service
}

type API struct {
	session *session.Service
}

func New(c Config) *API {
	a := &API{session: c.Session}

	c.Router.POST("/start", a.StartSession)
	c.Router.POST("/submit", a.SubmitSession)
	c.Router.GET("/leaderboard", a.GetLeaderboard)
	c.Router.GET("/healthz", a.Health)

	return a
}

type startRequest struct {
	Team string `json:"team"`
}

type startResponse struct {
	SessionID   string                     `json:"session_id"`
	StartTime   time.Time                  `json:"start_time"`
	DurationMin int                        `json:"duration_min"`
	Questions   []domain.SanitizedQuestion `json:"questions"`
}

func (a *API) StartSession(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("invalid request body"),
			errors.WithCause(err)))
		return
	}

	resp, err := a.session.StartSession(c.Request.Context(), session.StartSessionRequest{
		TeamName: req.Team,
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, startResponse{
		SessionID:   resp.SessionID,
		StartTime:   resp.StartTime,
		DurationMin: resp.DurationMin,
		Questions:   resp.Questions,
	})
}

type submitRequest struct {
	SessionID string            `json:"session_id"`
	Answers   map[string]*int64 `json:"answers"`
}

type submitResponse struct {
	Attempted        int   `json:"attempted"`
	Correct          int   `json:"correct"`
	TimeTakenSeconds int64 `json:"time_taken_seconds"`
	TimedOut         bool  `json:"timed_out"`
}

func (a *API) SubmitSession(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("invalid request body"),
			errors.WithCause(err)))
		return
	}

	resp, err := a.session.SubmitSession(c.Request.Context(), session.SubmitSessionRequest{
		SessionID: req.SessionID,
		Answers:   req.Answers,
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Attempted:        resp.Attempted,
		Correct:          resp.Correct,
		TimeTakenSeconds: resp.TimeTakenSeconds,
		TimedOut:         resp.TimedOut,
	})
}

func (a *API) GetLeaderboard(c *gin.Context) {
	entries, err := a.session.Leaderboard(c.Request.Context())
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (a *API) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// abortError maps an error to its HTTP status and a JSON error body.
func abortError(c *gin.Context, err error) {
	e := errors.Convert(err)
	if e.HTTPStatusCode() >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "api: request failed",
			"path", c.FullPath(),
			"error", err,
		)
	}

	c.AbortWithStatusJSON(e.HTTPStatusCode(), gin.H{"error": e.Message})
}
