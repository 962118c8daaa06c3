package event_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuthikaAnvitha/cyber-quest/internal/domain"
	"github.com/YuthikaAnvitha/cyber-quest/internal/event"
)

func TestBus_PublishSubscribe(t *testing.T) {
	type (
		inputs struct {
			published   []event.Event
			subscribers []subscriber
		}

		outputs struct {
			received map[string][]event.Event
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, out outputs)
	}{
		"a subscriber only receives the event it subscribed to": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						started("blue"),
						graded("blue", domain.StatusFinished),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{domain.EventNameSessionStarted},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{started("blue")}, out.received["s1"])
			},
		},

		"a subscriber receives every dispatched event": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						graded("blue", domain.StatusFinished),
						graded("red", domain.StatusTimedOut),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{domain.EventNameSessionGraded},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{
					graded("blue", domain.StatusFinished),
					graded("red", domain.StatusTimedOut),
				}, out.received["s1"])
			},
		},

		"an event is dispatched to all subscribers": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						graded("blue", domain.StatusFinished),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{domain.EventNameSessionGraded},
						},
						{
							name:        "s2",
							subscribeTo: []string{domain.EventNameSessionGraded},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{graded("blue", domain.StatusFinished)}, out.received["s1"])
				assert.ElementsMatch(t, []event.Event{graded("blue", domain.StatusFinished)}, out.received["s2"])
			},
		},

		"subscribers with different interests each get their share": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						started("blue"),
						started("red"),
						graded("blue", domain.StatusFinished),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{domain.EventNameSessionStarted},
						},
						{
							name:        "s2",
							subscribeTo: []string{domain.EventNameSessionStarted, domain.EventNameSessionGraded},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{started("blue"), started("red")}, out.received["s1"])
				assert.ElementsMatch(t, []event.Event{
					started("blue"),
					started("red"),
					graded("blue", domain.StatusFinished),
				}, out.received["s2"])
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tt.arrange()
			mu := sync.Mutex{}
			out := outputs{received: make(map[string][]event.Event)}

			b := event.NewBus()
			for _, s := range in.subscribers {
				for _, e := range s.subscribeTo {
					b.Subscribe(e, func(ctx context.Context, e event.Event) error {
						mu.Lock()
						out.received[s.name] = append(out.received[s.name], e)
						mu.Unlock()
						return nil
					})
				}
			}

			for _, e := range in.published {
				b.Publish(context.Background(), e)
			}
			b.Stop()

			tt.assert(t, out)
		})
	}
}

// A graded event carries the full session, so subscribers read the terminal
// status from the payload without another store round trip.
func TestBus_GradedPayload(t *testing.T) {
	b := event.NewBus()

	var (
		mu       sync.Mutex
		statuses []domain.Status
	)
	b.Subscribe(domain.EventNameSessionGraded, func(_ context.Context, e event.Event) error {
		mu.Lock()
		statuses = append(statuses, e.(domain.EventSessionGraded).Session.Status)
		mu.Unlock()
		return nil
	})

	b.Publish(context.Background(), graded("blue", domain.StatusFinished))
	b.Publish(context.Background(), graded("red", domain.StatusTimedOut))
	b.Stop()

	require.ElementsMatch(t, []domain.Status{domain.StatusFinished, domain.StatusTimedOut}, statuses)
}

func TestBus_PanickingHandlerDoesNotStarveOthers(t *testing.T) {
	b := event.NewBus()

	b.Subscribe(domain.EventNameSessionGraded, func(context.Context, event.Event) error {
		panic("boom")
	})

	var (
		mu    sync.Mutex
		calls int
	)
	b.Subscribe(domain.EventNameSessionGraded, func(context.Context, event.Event) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})

	b.Publish(context.Background(), graded("blue", domain.StatusFinished))
	b.Stop()

	require.Equal(t, 1, calls)
}

func started(team string) domain.EventSessionStarted {
	return domain.EventSessionStarted{Session: domain.Session{TeamName: team, Status: domain.StatusOngoing}}
}

func graded(team string, status domain.Status) domain.EventSessionGraded {
	return domain.EventSessionGraded{Session: domain.Session{TeamName: team, Status: status}}
}

type subscriber struct {
	name        string
	subscribeTo []string
}
