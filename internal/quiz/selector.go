package quiz

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/pool"
)

// InsufficientPoolError reports a category that cannot satisfy its quota.
type InsufficientPoolError struct {
	Category string
	Need     int
	Have     int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("not enough questions in category %s: need %d, have %d", e.Category, e.Need, e.Have)
}

// Selector draws randomized, quota-satisfying question sets from a pool.
type Selector struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewSelector creates a selector. A nil source seeds from the clock; tests
// pass a fixed seed for reproducible draws.
func NewSelector(r *rand.Rand) *Selector {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rand: r}
}

// Pick samples, without replacement, each category's required count from the
// pool and shuffles the union so category membership is not inferable from
// answer order. The pool is never modified.
func (s *Selector) Pick(p *pool.Pool, quota Quota) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	picked := make([]domain.Question, 0, quota.Total())
	for _, cc := range quota {
		candidates := p.Category(cc.Category)
		if len(candidates) < cc.Count {
			return nil, &InsufficientPoolError{Category: cc.Category, Need: cc.Count, Have: len(candidates)}
		}

		for _, i := range s.rand.Perm(len(candidates))[:cc.Count] {
			picked = append(picked, candidates[i])
		}
	}

	s.rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	return picked, nil
}
