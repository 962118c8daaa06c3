package quiz

import "github.com/YuthikaAnvitha/cyber-quest/internal/domain"

// Sanitize copies questions without the answer key. The result is a deep,
// independent copy: it shares no memory with the input, so the answer key
// cannot leak through aliasing.
func Sanitize(questions []domain.Question) []domain.SanitizedQuestion {
	sanitized := make([]domain.SanitizedQuestion, 0, len(questions))
	for _, q := range questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)

		sanitized = append(sanitized, domain.SanitizedQuestion{
			ID:         q.ID,
			Category:   q.Category,
			Question:   q.Question,
			Options:    options,
			Techniques: q.Techniques,
			Hint:       q.Hint,
		})
	}
	return sanitized
}
