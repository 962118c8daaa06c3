package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/errors"
	"github.com/YuthikaAnvitha/cyber-quest/internal/store/postgres"
)

// Malformed ids cannot match any row of the UUID-keyed table and must come
// back as not-found, never as an encoding failure. The store rejects them
// before touching the database, so a nil pool proves no query was issued.
func TestStore_MalformedSessionID(t *testing.T) {
	s := postgres.New(nil)
	ctx := context.Background()

	for _, id := range []string{"unknown", "", "1234", "zzzzzzzz-0000-0000-0000-000000000000"} {
		_, err := s.Get(ctx, id)
		require.True(t, errors.IsCode(err, errors.CodeNotFound), "Get(%q): %v", id, err)

		err = s.FinishOngoing(ctx, domain.Session{
			SessionID:  id,
			Status:     domain.StatusFinished,
			FinishTime: &time.Time{},
		})
		require.True(t, errors.IsCode(err, errors.CodeNotFound), "FinishOngoing(%q): %v", id, err)
	}
}
