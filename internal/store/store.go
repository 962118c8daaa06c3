// Package store defines the session-record gateway. The core treats the
// backing store as an opaque keyed record store with insert, read,
// conditional-update, and sorted top-N read operations; implementations
// live in the subpackages.
package store

import (
	"context"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
)

// Store is the session-record gateway.
//
// FinishOngoing applies the grading update only where the stored record is
// still ongoing. This guards the ongoing → {finished, timed_out} transition
// atomically at the gateway, so a session can never be graded twice even
// under concurrent submits. Implementations return CodeNotFound for unknown
// sessions and CodeAlreadyExists for sessions that left the ongoing state.
type Store interface {
	Insert(ctx context.Context, ss domain.Session) error
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	FinishOngoing(ctx context.Context, ss domain.Session) error

	// Leaderboard returns up to limit graded sessions projected to
	// leaderboard entries, ordered by correct count descending.
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
