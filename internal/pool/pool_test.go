package pool_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/pool"
)

func TestNew(t *testing.T) {
	p, err := pool.New([]domain.Question{
		{ID: 1, Category: "decode", Question: "q1", Options: []string{"a", "b"}, Answer: 1},
		{ID: 2, Category: "decode", Question: "q2", Options: []string{"a", "b"}, Answer: 0},
		{ID: 3, Category: "phishing", Question: "q3", Options: []string{"a", "b", "c"}, Answer: 2},
	})
	require.NoError(t, err)

	require.Equal(t, 3, p.Len())

	q, ok := p.ByID(3)
	require.True(t, ok)
	require.Equal(t, "phishing", q.Category)

	_, ok = p.ByID(42)
	require.False(t, ok)

	require.Len(t, p.Category("decode"), 2)
	require.Empty(t, p.Category("unknown"))
}

func TestNew_Invalid(t *testing.T) {
	tests := map[string][]domain.Question{
		"duplicate id": {
			{ID: 1, Category: "decode", Options: []string{"a"}, Answer: 0},
			{ID: 1, Category: "decode", Options: []string{"a"}, Answer: 0},
		},
		"missing category": {
			{ID: 1, Options: []string{"a"}, Answer: 0},
		},
		"no options": {
			{ID: 1, Category: "decode", Answer: 0},
		},
		"answer index out of range": {
			{ID: 1, Category: "decode", Options: []string{"a", "b"}, Answer: 2},
		},
		"negative answer index": {
			{ID: 1, Category: "decode", Options: []string{"a", "b"}, Answer: -1},
		},
	}

	for name, questions := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := pool.New(questions)
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": 1, "category": "decode", "question": "q1", "options": ["a", "b"], "answer": 0, "techniques": "Base64"},
		{"id": 2, "category": "hygiene", "question": "q2", "options": ["yes", "no"], "answer": 1}
	]`), 0o600))

	p, err := pool.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	q, ok := p.ByID(1)
	require.True(t, ok)
	require.Equal(t, "Base64", q.Techniques)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := pool.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
