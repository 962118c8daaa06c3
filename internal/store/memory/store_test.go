package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/errors"
	"github.com/YuthikaAnvitha/cyber-quest/internal/store/memory"
)

func TestStore_InsertGet(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	ss := makeSession("s1", "blue")
	require.NoError(t, s.Insert(ctx, ss))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, ss, got)

	err = s.Insert(ctx, ss)
	require.True(t, errors.IsCode(err, errors.CodeAlreadyExists))

	_, err = s.Get(ctx, "unknown")
	require.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, makeSession("s1", "blue")))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)

	got.QuestionIDs[0] = 99
	sel := int64(1)
	got.Answers["1"] = &sel

	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(1), again.QuestionIDs[0])
	require.Empty(t, again.Answers)
}

func TestStore_FinishOngoing(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	ss := makeSession("s1", "blue")
	require.NoError(t, s.Insert(ctx, ss))

	graded := grade(ss, 2, 3, domain.StatusFinished)
	require.NoError(t, s.FinishOngoing(ctx, graded))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusFinished, got.Status)
	require.Equal(t, 2, got.Correct)

	err = s.FinishOngoing(ctx, graded)
	require.True(t, errors.IsCode(err, errors.CodeAlreadyExists))

	err = s.FinishOngoing(ctx, makeSession("unknown", "x"))
	require.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestStore_Leaderboard(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	// One ongoing session that must not show up.
	require.NoError(t, s.Insert(ctx, makeSession("ongoing", "idle")))

	teams := []struct {
		id      string
		correct int
	}{
		{"s1", 4},
		{"s2", 9},
		{"s3", 7},
	}
	for _, team := range teams {
		ss := makeSession(team.id, team.id)
		require.NoError(t, s.Insert(ctx, ss))
		require.NoError(t, s.FinishOngoing(ctx, grade(ss, team.correct, 10, domain.StatusFinished)))
	}

	entries, err := s.Leaderboard(ctx, 50)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []int{9, 7, 4}, []int{entries[0].Correct, entries[1].Correct, entries[2].Correct})

	limited, err := s.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func makeSession(id, team string) domain.Session {
	return domain.Session{
		SessionID:   id,
		TeamName:    team,
		StartTime:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		DurationMin: 25,
		QuestionIDs: []int64{1, 2, 3},
		Answers:     map[string]*int64{},
		Status:      domain.StatusOngoing,
	}
}

func grade(ss domain.Session, correct, attempted int, status domain.Status) domain.Session {
	finish := ss.StartTime.Add(10 * time.Minute)
	ss.Correct = correct
	ss.Attempted = attempted
	ss.TimeTakenSeconds = 600
	ss.Status = status
	ss.FinishTime = &finish
	return ss
}
