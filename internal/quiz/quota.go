package quiz

// CategoryCount is one category's required question count.
type CategoryCount struct {
	Category string
	Count    int
}

// Quota lists how many questions each category contributes to one quiz
// instance. Order is significant: validation and sampling iterate in
// declaration order so error messages and draws are reproducible.
type Quota []CategoryCount

// Total is the number of questions per quiz instance.
func (q Quota) Total() int {
	n := 0
	for _, cc := range q {
		n += cc.Count
	}
	return n
}

// DefaultQuota is the fixed per-category distribution of a Cyber Quest
// round: 10 questions total.
var DefaultQuota = Quota{
	{Category: "decode", Count: 2},
	{Category: "phishing", Count: 3},
	{Category: "spotvul", Count: 2},
	{Category: "hygiene", Count: 2},
	{Category: "digitalfootprint", Count: 1},
}
