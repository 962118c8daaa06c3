package pool

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
)

// Pool is the immutable question catalog, built once at startup and shared
// by reference across request handlers. It is never mutated after New
// returns, so unsynchronized concurrent reads are safe.
type Pool struct {
	questions  []domain.Question
	byID       map[int64]domain.Question
	byCategory map[string][]domain.Question
}

// Load reads a JSON array of questions from path and builds a Pool.
func Load(path string) (*Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool file: %w", err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal pool file %s: %w", path, err)
	}

	return New(questions)
}

// New validates questions and builds the catalog indexes.
func New(questions []domain.Question) (*Pool, error) {
	p := &Pool{
		questions:  questions,
		byID:       make(map[int64]domain.Question, len(questions)),
		byCategory: make(map[string][]domain.Question),
	}

	for _, q := range questions {
		if _, ok := p.byID[q.ID]; ok {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		if q.Category == "" {
			return nil, fmt.Errorf("question %d: missing category", q.ID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("question %d: no options", q.ID)
		}
		if q.Answer < 0 || q.Answer >= int64(len(q.Options)) {
			return nil, fmt.Errorf("question %d: answer index %d out of range [0, %d)", q.ID, q.Answer, len(q.Options))
		}

		p.byID[q.ID] = q
		p.byCategory[q.Category] = append(p.byCategory[q.Category], q)
	}

	return p, nil
}

func (p *Pool) Len() int {
	return len(p.questions)
}

// ByID resolves a question by its identifier.
func (p *Pool) ByID(id int64) (domain.Question, bool) {
	q, ok := p.byID[id]
	return q, ok
}

// Category returns the questions tagged with the given category. The
// returned slice is shared; callers must not modify it.
func (p *Pool) Category(category string) []domain.Question {
	return p.byCategory[category]
}
